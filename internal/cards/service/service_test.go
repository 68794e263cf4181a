package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"devotly/internal/cards/models"
	"devotly/internal/cards/store"
	"devotly/internal/platform/clock"
	"devotly/internal/verse"
	dErrors "devotly/pkg/domain-errors"
)

// =============================================================================
// Card Service Test Suite
// =============================================================================
// Justification for unit tests: lifecycle rules (draft-only edits, idempotent
// payment confirmation) are service-level invariants independent of HTTP.

type CardServiceSuite struct {
	suite.Suite
	clk     *clock.Fake
	service *Service
}

func TestCardServiceSuite(t *testing.T) {
	suite.Run(t, new(CardServiceSuite))
}

func (s *CardServiceSuite) SetupTest() {
	s.clk = clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(store.NewInMemory(), verse.NewCatalog(),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(s.clk),
	)
}

func (s *CardServiceSuite) createCard() *models.Card {
	card, err := s.service.CreateCard(context.Background(), &models.CreateCardRequest{
		Title:      "For Grandma",
		VerseRef:   "Psalm 23:1",
		Message:    "Thinking of you.",
		Theme:      "comfort",
		AuthorName: "Maria",
		ForName:    "Grandma",
	})
	s.Require().NoError(err)
	return card
}

func (s *CardServiceSuite) TestCreateCardResolvesVerseText() {
	card := s.createCard()

	s.NotEmpty(card.ID)
	s.Equal(models.StatusDraft, card.Status)
	s.Equal("Psalm 23:1", card.VerseRef)
	s.Contains(card.VerseText, "shepherd")
	s.Equal(s.clk.Now(), card.CreatedAt)
	s.True(strings.HasPrefix(card.Slug, "for-grandma-"))
}

func (s *CardServiceSuite) TestCreateCardUnknownVerseRejected() {
	_, err := s.service.CreateCard(context.Background(), &models.CreateCardRequest{
		Title:    "For Grandma",
		VerseRef: "Hezekiah 1:1",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *CardServiceSuite) TestCreateCardValidation() {
	_, err := s.service.CreateCard(context.Background(), &models.CreateCardRequest{
		VerseRef: "Psalm 23:1",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *CardServiceSuite) TestUpdateDraftCard() {
	card := s.createCard()
	s.clk.Advance(time.Minute)

	newTitle := "For Grandma Rosa"
	updated, err := s.service.UpdateCard(context.Background(), card.ID, &models.UpdateCardRequest{
		Title: &newTitle,
	})
	s.Require().NoError(err)
	s.Equal("For Grandma Rosa", updated.Title)
	s.Equal(s.clk.Now(), updated.UpdatedAt)
	s.Equal("Thinking of you.", updated.Message)
}

func (s *CardServiceSuite) TestUpdatePaidCardRejected() {
	card := s.createCard()
	_, err := s.service.MarkPaid(context.Background(), card.ID)
	s.Require().NoError(err)

	newTitle := "Too late"
	_, err = s.service.UpdateCard(context.Background(), card.ID, &models.UpdateCardRequest{
		Title: &newTitle,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *CardServiceSuite) TestMarkPaidTransitionsDraft() {
	card := s.createCard()

	paid, err := s.service.MarkPaid(context.Background(), card.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPaid, paid.Status)
}

func (s *CardServiceSuite) TestMarkPaidIsIdempotent() {
	card := s.createCard()
	_, err := s.service.MarkPaid(context.Background(), card.ID)
	s.Require().NoError(err)

	again, err := s.service.MarkPaid(context.Background(), card.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPaid, again.Status)
}

func (s *CardServiceSuite) TestMarkPaidUnknownCard() {
	_, err := s.service.MarkPaid(context.Background(), "missing")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *CardServiceSuite) TestGetCardBySlug() {
	card := s.createCard()

	got, err := s.service.GetCardBySlug(context.Background(), card.Slug)
	s.Require().NoError(err)
	s.Equal(card.ID, got.ID)
}

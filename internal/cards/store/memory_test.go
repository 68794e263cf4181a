package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"devotly/internal/cards/models"
	dErrors "devotly/pkg/domain-errors"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemory
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
}

func (s *MemoryStoreSuite) card() *models.Card {
	return &models.Card{
		ID:     "c-1",
		Slug:   "for-grandma-abc123",
		Title:  "For Grandma",
		Status: models.StatusDraft,
	}
}

func (s *MemoryStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.card()))

	byID, err := s.store.FindByID(ctx, "c-1")
	s.Require().NoError(err)
	s.Equal("For Grandma", byID.Title)

	bySlug, err := s.store.FindBySlug(ctx, "for-grandma-abc123")
	s.Require().NoError(err)
	s.Equal("c-1", bySlug.ID)
}

func (s *MemoryStoreSuite) TestFindMissingReturnsNotFound() {
	_, err := s.store.FindByID(context.Background(), "missing")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.store.FindBySlug(context.Background(), "missing")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *MemoryStoreSuite) TestDuplicateSlugConflicts() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.card()))

	dup := s.card()
	dup.ID = "c-2"
	err := s.store.Create(ctx, dup)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *MemoryStoreSuite) TestUpdateMissingReturnsNotFound() {
	err := s.store.Update(context.Background(), s.card())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *MemoryStoreSuite) TestReturnedCardsAreCopies() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.card()))

	got, err := s.store.FindByID(ctx, "c-1")
	s.Require().NoError(err)
	got.Title = "mutated"

	fresh, err := s.store.FindByID(ctx, "c-1")
	s.Require().NoError(err)
	s.Equal("For Grandma", fresh.Title)
}

func (s *MemoryStoreSuite) TestCount() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.card()))

	n, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Equal(1, n)
}

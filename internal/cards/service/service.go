package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"devotly/internal/cards/models"
	"devotly/internal/platform/clock"
	dErrors "devotly/pkg/domain-errors"
)

type CardStore interface {
	Create(ctx context.Context, card *models.Card) error
	FindByID(ctx context.Context, id string) (*models.Card, error)
	FindBySlug(ctx context.Context, slug string) (*models.Card, error)
	Update(ctx context.Context, card *models.Card) error
	Count(ctx context.Context) (int, error)
}

// VerseLookup resolves a verse reference to its text.
type VerseLookup interface {
	Lookup(ref string) (text string, ok bool)
}

// Service orchestrates card creation and lifecycle transitions.
type Service struct {
	cards  CardStore
	verses VerseLookup
	clk    clock.Clock
	logger *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(clk clock.Clock) Option {
	return func(s *Service) {
		if clk != nil {
			s.clk = clk
		}
	}
}

func New(cards CardStore, verses VerseLookup, opts ...Option) *Service {
	s := &Service{
		cards:  cards,
		verses: verses,
		clk:    clock.NewReal(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCard validates the request, resolves the verse text, and stores a new
// draft card.
func (s *Service) CreateCard(ctx context.Context, req *models.CreateCardRequest) (*models.Card, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ref := strings.TrimSpace(req.VerseRef)
	text, ok := s.verses.Lookup(ref)
	if !ok {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown verse reference")
	}

	now := s.clk.Now()
	card := &models.Card{
		ID:         uuid.NewString(),
		Slug:       newSlug(req.Title),
		Title:      strings.TrimSpace(req.Title),
		VerseRef:   ref,
		VerseText:  text,
		Message:    req.Message,
		Theme:      req.Theme,
		AuthorName: strings.TrimSpace(req.AuthorName),
		ForName:    strings.TrimSpace(req.ForName),
		Status:     models.StatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.cards.Create(ctx, card); err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create card")
	}

	s.logger.InfoContext(ctx, "card created", "card_id", card.ID, "theme", card.Theme)
	return card, nil
}

// GetCard fetches a card by id.
func (s *Service) GetCard(ctx context.Context, id string) (*models.Card, error) {
	if id == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "card ID required")
	}
	return s.cards.FindByID(ctx, id)
}

// GetCardBySlug fetches a card by its public slug.
func (s *Service) GetCardBySlug(ctx context.Context, slug string) (*models.Card, error) {
	if slug == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "card slug required")
	}
	return s.cards.FindBySlug(ctx, slug)
}

// UpdateCard applies partial edits. Cards are immutable once paid.
func (s *Service) UpdateCard(ctx context.Context, id string, req *models.UpdateCardRequest) (*models.Card, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	card, err := s.cards.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if card.Status != models.StatusDraft {
		return nil, dErrors.New(dErrors.CodeConflict, "card can no longer be edited")
	}

	if req.Title != nil {
		card.Title = strings.TrimSpace(*req.Title)
	}
	if req.Message != nil {
		card.Message = *req.Message
	}
	if req.Theme != nil {
		card.Theme = *req.Theme
	}
	if req.ForName != nil {
		card.ForName = strings.TrimSpace(*req.ForName)
	}
	if req.ImageURL != nil {
		card.ImageURL = *req.ImageURL
	}
	card.UpdatedAt = s.clk.Now()

	if err := s.cards.Update(ctx, card); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update card")
	}
	return card, nil
}

// MarkPaid transitions a draft card to paid. Called by the payment webhook
// after the processor confirms the charge; idempotent for already-paid cards.
func (s *Service) MarkPaid(ctx context.Context, id string) (*models.Card, error) {
	card, err := s.cards.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch card.Status {
	case models.StatusPaid, models.StatusActive:
		return card, nil
	case models.StatusDraft:
		card.Status = models.StatusPaid
		card.UpdatedAt = s.clk.Now()
		if err := s.cards.Update(ctx, card); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark card paid")
		}
		s.logger.InfoContext(ctx, "card paid", "card_id", card.ID)
		return card, nil
	}
	return nil, dErrors.New(dErrors.CodeInvariantViolation, "card in unknown status")
}

// newSlug derives a short public identifier from the title plus a random
// suffix, keeping the slug unique without a retry loop in practice.
func newSlug(title string) string {
	base := strings.ToLower(strings.TrimSpace(title))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		}
		return -1
	}, base)
	base = strings.Trim(base, "-")
	if len(base) > 40 {
		base = base[:40]
	}
	if base == "" {
		base = "card"
	}
	return base + "-" + uuid.NewString()[:8]
}

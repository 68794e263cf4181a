// Package store holds the card persistence implementations. Only the
// in-memory variant exists today; the interface lives with the service.
package store

import (
	"context"
	"sync"

	"devotly/internal/cards/models"
	dErrors "devotly/pkg/domain-errors"
)

// InMemory stores cards in memory. Cards are copied on the way in and out so
// callers can never mutate shared state.
type InMemory struct {
	mu      sync.RWMutex
	cards   map[string]*models.Card
	slugIdx map[string]string
}

func NewInMemory() *InMemory {
	return &InMemory{
		cards:   make(map[string]*models.Card),
		slugIdx: make(map[string]string),
	}
}

// Create inserts the card, enforcing slug uniqueness.
func (s *InMemory) Create(_ context.Context, card *models.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cards[card.ID]; exists {
		return dErrors.New(dErrors.CodeConflict, "card already exists")
	}
	if _, taken := s.slugIdx[card.Slug]; taken {
		return dErrors.New(dErrors.CodeConflict, "card slug already in use")
	}

	cp := *card
	s.cards[card.ID] = &cp
	s.slugIdx[card.Slug] = card.ID
	return nil
}

// FindByID retrieves a card by its UUID.
func (s *InMemory) FindByID(_ context.Context, id string) (*models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	card, ok := s.cards[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "card not found")
	}
	cp := *card
	return &cp, nil
}

// FindBySlug retrieves a card by its public slug.
func (s *InMemory) FindBySlug(_ context.Context, slug string) (*models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.slugIdx[slug]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "card not found")
	}
	cp := *s.cards[id]
	return &cp, nil
}

// Update replaces the stored card. The card must already exist.
func (s *InMemory) Update(_ context.Context, card *models.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[card.ID]; !ok {
		return dErrors.New(dErrors.CodeNotFound, "card not found")
	}
	cp := *card
	s.cards[card.ID] = &cp
	return nil
}

// Count returns the total number of cards.
func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cards), nil
}

package models

import (
	"strings"
	"time"

	dErrors "devotly/pkg/domain-errors"
)

// Status is the card lifecycle position. Cards are editable only while in
// draft; payment confirmation moves them to paid and publishing to active.
type Status string

const (
	StatusDraft  Status = "draft"
	StatusPaid   Status = "paid"
	StatusActive Status = "active"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPaid, StatusActive:
		return true
	}
	return false
}

// Card is a devotional greeting card.
type Card struct {
	ID         string    `json:"id"`
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	VerseRef   string    `json:"verse_ref"`
	VerseText  string    `json:"verse_text"`
	Message    string    `json:"message"`
	Theme      string    `json:"theme"`
	AuthorName string    `json:"author_name"`
	ForName    string    `json:"for_name"`
	ImageURL   string    `json:"image_url,omitempty"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateCardRequest is the POST /api/cards payload.
type CreateCardRequest struct {
	Title      string `json:"title"`
	VerseRef   string `json:"verse_ref"`
	Message    string `json:"message"`
	Theme      string `json:"theme"`
	AuthorName string `json:"author_name"`
	ForName    string `json:"for_name"`
}

// Validate enforces the creation invariants before any store access.
func (r *CreateCardRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if len(r.Title) > 120 {
		return dErrors.New(dErrors.CodeValidation, "title must be at most 120 characters")
	}
	if strings.TrimSpace(r.VerseRef) == "" {
		return dErrors.New(dErrors.CodeValidation, "verse reference is required")
	}
	if len(r.Message) > 2000 {
		return dErrors.New(dErrors.CodeValidation, "message must be at most 2000 characters")
	}
	return nil
}

// UpdateCardRequest is the PUT /api/cards/{id} payload. Nil fields are left
// unchanged.
type UpdateCardRequest struct {
	Title    *string `json:"title,omitempty"`
	Message  *string `json:"message,omitempty"`
	Theme    *string `json:"theme,omitempty"`
	ForName  *string `json:"for_name,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
}

func (r *UpdateCardRequest) Validate() error {
	if r.Title != nil {
		if strings.TrimSpace(*r.Title) == "" {
			return dErrors.New(dErrors.CodeValidation, "title cannot be empty")
		}
		if len(*r.Title) > 120 {
			return dErrors.New(dErrors.CodeValidation, "title must be at most 120 characters")
		}
	}
	if r.Message != nil && len(*r.Message) > 2000 {
		return dErrors.New(dErrors.CodeValidation, "message must be at most 2000 characters")
	}
	return nil
}

// Package tracking forwards card-view pixel events to the external analytics
// endpoint. The route sits behind the tracking limiter bucket and the
// tracking circuit breaker; a slow analytics backend degrades to dropped
// events, never to blocked page loads.
package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	dErrors "devotly/pkg/domain-errors"
)

// ViewEvent is one card view.
type ViewEvent struct {
	CardID   string `json:"card_id"`
	Slug     string `json:"slug,omitempty"`
	Referrer string `json:"referrer,omitempty"`
}

func (e *ViewEvent) Validate() error {
	if e.CardID == "" {
		return dErrors.New(dErrors.CodeValidation, "card_id is required")
	}
	return nil
}

// Forwarder delivers events to the analytics backend.
type Forwarder interface {
	Forward(ctx context.Context, event *ViewEvent) error
}

// HTTPForwarder posts events to the configured analytics URL.
type HTTPForwarder struct {
	url    string
	client *http.Client
}

func NewHTTPForwarder(url string) *HTTPForwarder {
	return &HTTPForwarder{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (f *HTTPForwarder) Forward(ctx context.Context, event *ViewEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not encode tracking event")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not build tracking request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "analytics endpoint unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return dErrors.New(dErrors.CodeUnavailable,
			fmt.Sprintf("analytics endpoint returned %d", resp.StatusCode))
	}
	return nil
}

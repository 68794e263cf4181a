// Package payments receives payment processor webhooks and resolves them
// against the processor's event API. The lookup is the one true source of
// payment state; the webhook body is only a notification that something
// happened.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	dErrors "devotly/pkg/domain-errors"
)

// Event is the resolved payment event from the processor.
type Event struct {
	ID         string `json:"id"`
	Status     string `json:"status"` // "approved", "pending", "rejected"
	ExternalID string `json:"external_reference"`
}

// Approved reports whether the charge settled.
func (e *Event) Approved() bool {
	return e.Status == "approved"
}

// EventSource looks up a payment event by id at the processor.
type EventSource interface {
	FetchEvent(ctx context.Context, eventID string) (*Event, error)
}

// HTTPEventSource resolves events against the processor's REST API.
type HTTPEventSource struct {
	baseURL     string
	accessToken string
	client      *http.Client
}

func NewHTTPEventSource(baseURL, accessToken string) *HTTPEventSource {
	return &HTTPEventSource{
		baseURL:     baseURL,
		accessToken: accessToken,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchEvent retrieves one payment event. Non-2xx responses map to domain
// errors so the circuit breaker sees processor outages as failures.
func (s *HTTPEventSource) FetchEvent(ctx context.Context, eventID string) (*Event, error) {
	endpoint := s.baseURL + "/v1/payments/" + url.PathEscape(eventID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not build processor request")
	}
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "payment processor unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var event Event
		if err := json.NewDecoder(resp.Body).Decode(&event); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "malformed processor response")
		}
		return &event, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, dErrors.New(dErrors.CodeNotFound, "payment event not found")
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, dErrors.New(dErrors.CodeUnavailable,
			fmt.Sprintf("payment processor returned %d", resp.StatusCode))
	default:
		return nil, dErrors.New(dErrors.CodeInternal,
			fmt.Sprintf("unexpected processor status %d", resp.StatusCode))
	}
}

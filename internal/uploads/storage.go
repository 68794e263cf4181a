// Package uploads accepts card images and pushes them to the external
// storage provider. Uploads run behind their own limiter bucket and circuit
// breaker since the provider is the slowest dependency in the system.
package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	dErrors "devotly/pkg/domain-errors"
)

// StoredObject describes an object accepted by the storage provider.
type StoredObject struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Storage persists uploaded images.
type Storage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (*StoredObject, error)
}

// HTTPStorage uploads objects to the storage provider's ingest endpoint.
type HTTPStorage struct {
	baseURL string
	client  *http.Client
}

func NewHTTPStorage(baseURL string) *HTTPStorage {
	return &HTTPStorage{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *HTTPStorage) Put(ctx context.Context, key, contentType string, body io.Reader) (*StoredObject, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "could not read upload body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.baseURL+"/objects/"+key, bytes.NewReader(data))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not build storage request")
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "storage provider unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, dErrors.New(dErrors.CodeUnavailable,
			fmt.Sprintf("storage provider returned %d", resp.StatusCode))
	}

	var stored StoredObject
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		// Provider accepted the object but returned a non-JSON body;
		// synthesize the public URL from the key.
		return &StoredObject{Key: key, URL: s.baseURL + "/objects/" + key}, nil
	}
	return &stored, nil
}

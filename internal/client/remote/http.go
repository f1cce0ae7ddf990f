package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/planmint/designvault/internal/client/models"
	"github.com/planmint/designvault/internal/common"
)

// HTTPStore implements Store against the vault server's JSON API.
type HTTPStore struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
}

// NewHTTPStore returns a store for the vault server at baseURL. A zero
// timeout falls back to 15 seconds.
func NewHTTPStore(baseURL string, tokens TokenSource, timeout time.Duration) *HTTPStore {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPStore{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// envelope is the response wrapper the vault server uses.
type envelope struct {
	OK      bool            `json:"ok"`
	Error   string          `json:"error,omitempty"`
	Designs []models.Design `json:"designs,omitempty"`
}

func (s *HTTPStore) do(ctx context.Context, method, path, ownerID string, body []byte) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(common.OwnerHeaderName, ownerID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.tokens != nil {
		token, err := s.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vault request failed: %w", errors.Join(common.ErrNetwork, err))
	}
	defer resp.Body.Close()

	var env envelope
	// Tolerate empty or non-JSON error bodies; the status code decides.
	_ = json.NewDecoder(resp.Body).Decode(&env)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("vault rejected owner %q: %w", ownerID, common.ErrPermission)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("vault returned status %d (%s): %w", resp.StatusCode, env.Error, common.ErrNetwork)
	}
	return &env, nil
}

// Put upserts the design under ownerID.
func (s *HTTPStore) Put(ctx context.Context, ownerID string, d *models.Design) error {
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal design: %w", err)
	}
	_, err = s.do(ctx, http.MethodPut, "/api/v1/designs/"+url.PathEscape(d.ID), ownerID, body)
	return err
}

// GetAllByOwner fetches the full set for ownerID.
func (s *HTTPStore) GetAllByOwner(ctx context.Context, ownerID string) ([]models.Design, error) {
	env, err := s.do(ctx, http.MethodGet, "/api/v1/designs", ownerID, nil)
	if err != nil {
		return nil, err
	}
	return env.Designs, nil
}

// DeleteByID removes the design. The server treats an absent id as success.
func (s *HTTPStore) DeleteByID(ctx context.Context, ownerID, id string) error {
	_, err := s.do(ctx, http.MethodDelete, "/api/v1/designs/"+url.PathEscape(id), ownerID, nil)
	return err
}

// Package client is the consumer side of the search API: an HTTP client and
// the Query Controller that drives a search-as-you-type dropdown.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/synapsemed/synapse/internal/models"
)

// Params are the raw filter values sent with a search.
type Params struct {
	Text     string
	Type     string
	Category string
}

// Fetcher issues one search request. The context is cancelled when the
// request is superseded.
type Fetcher interface {
	Search(ctx context.Context, p Params) ([]models.Record, error)
}

// Client calls GET /api/search over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ Fetcher = (*Client)(nil)

// New creates a client for the service at baseURL (e.g. http://localhost:8080).
// A zero timeout means requests wait as long as their context allows.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Search performs one request. Any non-2xx response is an error.
func (c *Client) Search(ctx context.Context, p Params) ([]models.Record, error) {
	v := url.Values{}
	v.Set("q", p.Text)
	v.Set("type", orAll(p.Type))
	v.Set("category", orAll(p.Category))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/search?"+v.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out struct {
		Results []models.Record `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("client: decode: %w", err)
	}
	return out.Results, nil
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("client: search returned %d: %s", e.Code, e.Body)
}

func orAll(s string) string {
	if strings.TrimSpace(s) == "" {
		return "all"
	}
	return s
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/pdiddy/research-view/pkg/types"
)

// Retry backoff bounds. Tests override these to avoid real sleeps.
var (
	RetryWaitTime    = 500 * time.Millisecond
	RetryMaxWaitTime = 10 * time.Second
)

const (
	defaultMaxRetries = 3
	defaultTimeout    = 30 * time.Second

	// maxErrorMessage caps, in runes, an error body echoed in StatusError.
	maxErrorMessage = 200
)

// StatusError reports a non-2xx answer from the search API.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("search API returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("search API returned %d: %s", e.StatusCode, e.Message)
}

// Client is a Backend that queries a remote search API over HTTP. Requests
// are retried with backoff on 429 and 5xx answers and on transport errors.
type Client struct {
	http *resty.Client
}

// NewClient returns a client for the API at cfg.BaseURL.
func NewClient(cfg types.UpstreamConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}

	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(retries).
		SetRetryWaitTime(RetryWaitTime).
		SetRetryMaxWaitTime(RetryMaxWaitTime).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
		})
	if cfg.UserAgent != "" {
		c.SetHeader("User-Agent", cfg.UserAgent)
	}
	if cfg.APIKey != "" {
		c.SetAuthToken(cfg.APIKey)
	}
	return &Client{http: c}
}

// Name returns the backend identifier.
func (c *Client) Name() string { return "remote" }

// Fetch queries /api/search, or /api/{source} when q names exactly one
// source, and returns the raw body.
func (c *Client) Fetch(ctx context.Context, q Query) ([]byte, error) {
	path := "/api/search"
	if len(q.Sources) == 1 {
		path = "/api/" + q.Sources[0]
	}
	return c.get(ctx, path, q)
}

// FetchAll queries /api/search regardless of how many sources q names.
func (c *Client) FetchAll(ctx context.Context, q Query) ([]byte, error) {
	return c.get(ctx, "/api/search", q)
}

// Aggregated returns a Backend that always uses FetchAll, so a single
// source still comes back in the standard shape with its summary.
func (c *Client) Aggregated() Backend { return aggregated{c} }

type aggregated struct{ *Client }

func (a aggregated) Fetch(ctx context.Context, q Query) ([]byte, error) {
	return a.FetchAll(ctx, q)
}

func (c *Client) get(ctx context.Context, path string, q Query) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(q.Values()).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	if resp.IsError() {
		return nil, &StatusError{StatusCode: resp.StatusCode(), Message: errorMessage(resp.Body())}
	}
	return resp.Body(), nil
}

// errorMessage extracts the "error" field of an error body.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return truncate(strings.TrimSpace(string(body)), maxErrorMessage)
}

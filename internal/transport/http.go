// Package transport sends pre-signed requests over HTTP.
//
// Bodies travel as the exact bytes they were signed with and query strings keep the
// order they were digested in, so nothing between the digest and the wire may
// re-encode them. Transport-level retries are disabled.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"
)

// ErrClosed is returned by a closed Client.
var ErrClosed = errors.New("transport is closed")

// Request is a fully built HTTP exchange.
type Request struct {
	Method  string
	BaseURL string
	// Path is the absolute request path, e.g. "/v1/trades".
	Path string
	// Query is an already encoded query string without the leading '?'.
	Query   string
	Headers map[string]string
	Body    []byte
}

// URL joins base, path and query without re-encoding any of them.
func (r *Request) URL() string {
	u := strings.TrimRight(r.BaseURL, "/") + r.Path
	if r.Query != "" {
		u += "?" + r.Query
	}
	return u
}

// Response is the raw answer to a Request.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Doer executes requests. Client is the production implementation.
type Doer interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Client wraps a resty client with logging.
type Client struct {
	client *resty.Client
	logger zerolog.Logger
	mu     sync.RWMutex
	closed bool
}

var _ Doer = (*Client)(nil)

// NewClient creates a client whose requests time out after timeout.
func NewClient(timeout time.Duration, logger zerolog.Logger) *Client {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(0)

	return &Client{
		client: client,
		logger: logger,
	}
}

// Do sends req and returns the response whatever its status.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrClosed
	}

	url := req.URL()
	r := c.client.R().SetContext(ctx).SetHeaders(req.Headers)
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("url", url).
		Int("body_size", len(req.Body)).
		Msg("http request")

	start := time.Now()
	resp, err := r.Execute(req.Method, url)
	if err != nil {
		c.logger.Error().Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Msg("http request failed")
		return nil, fmt.Errorf("http request %s %s: %w", req.Method, req.Path, err)
	}

	body := resp.Bytes()
	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode()).
		Int("size", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("http response")

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       body,
	}, nil
}

// Close releases idle connections. Further calls to Do fail with ErrClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.client.Close()
}

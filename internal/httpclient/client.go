// Package httpclient provides the shared HTTP client used by every data
// source. It sends browser-style headers (some upstream sites reject default
// Go client identifiers) and enforces a politeness delay between successive
// requests to the same host. Retry policy does not live here; callers decide
// whether a failure triggers a fallback.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
)

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// Client is a polite HTTP client: fixed browser-like headers plus a per-host
// minimum delay between requests. Safe for concurrent use.
type Client struct {
	http           *http.Client
	limiter        *HostLimiter
	userAgent      string
	acceptLanguage string
	accept         string
	logger         arbor.ILogger
}

// Options configures a Client.
type Options struct {
	UserAgent       string
	AcceptLanguage  string
	Accept          string
	RequestTimeout  time.Duration
	PolitenessDelay time.Duration
}

// New creates a Client with the given options.
func New(opts Options, logger arbor.ILogger) *Client {
	timeout := opts.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:           &http.Client{Timeout: timeout},
		limiter:        NewHostLimiter(opts.PolitenessDelay),
		userAgent:      opts.UserAgent,
		acceptLanguage: opts.AcceptLanguage,
		accept:         opts.Accept,
		logger:         logger,
	}
}

// Get performs a GET request and returns the response body.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.do(req)
}

// PostJSON performs a POST request with a JSON payload and returns the
// response body.
func (c *Client) PostJSON(ctx context.Context, url string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	if err := c.limiter.Wait(req.Context(), req.URL.String()); err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", c.acceptLanguage)
	req.Header.Set("Accept", c.accept)

	if c.logger != nil {
		c.logger.Debug().
			Str("method", req.Method).
			Str("url", req.URL.String()).
			Msg("HTTP request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: req.URL.String(), StatusCode: resp.StatusCode}
	}

	return body, nil
}

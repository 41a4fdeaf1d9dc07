package sika

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL for the Sika Finance website and API.
	DefaultBaseURL = "https://www.sikafinance.com"

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 2

	// historyPath is the historical quotes endpoint.
	historyPath = "/api/general/GetHistorique"
)

// Doer is the HTTP transport the client issues requests through.
type Doer interface {
	Get(ctx context.Context, url string) ([]byte, error)
	PostJSON(ctx context.Context, url string, payload interface{}) ([]byte, error)
}

// Client is a Sika Finance API client.
type Client struct {
	baseURL string
	http    Doer
	logger  arbor.ILogger
	limiter *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit. Fractional rates are allowed;
// 0.5 means one request every two seconds.
func WithRateLimit(requestsPerSecond float64) ClientOption {
	return func(c *Client) {
		burst := int(requestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// NewClient creates a new Sika Finance client.
func NewClient(transport Doer, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    transport,
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetHistory retrieves daily quotes for a symbol over the given date range.
// Results are sorted by date ascending; rows without a parseable date or
// closing price are dropped.
func (c *Client) GetHistory(ctx context.Context, symbol string, from, to time.Time) ([]QuoteData, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &RateLimitError{RetryAfter: time.Second}
	}

	payload := historyRequest{
		Ticker:    symbol,
		DateDebut: from.Format("2006-01-02"),
		DateFin:   to.Format("2006-01-02"),
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("symbol", symbol).
			Str("from", payload.DateDebut).
			Str("to", payload.DateFin).
			Msg("Sika Finance history request")
	}

	body, err := c.http.PostJSON(ctx, c.baseURL+historyPath, payload)
	if err != nil {
		return nil, wrapTransportError(err, historyPath)
	}

	var result HistoryResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode history response: %w", err)
	}

	quotes := make([]QuoteData, 0, len(result.Intraday))
	for _, q := range result.Intraday {
		t, ok := parseDate(q.DateStr)
		if !ok || !q.Close.Valid() {
			continue
		}
		q.Date = t
		quotes = append(quotes, q)
	}

	// Stable so a corrected row republished for the same date stays behind
	// the one it supersedes.
	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].Date.Before(quotes[j].Date)
	})

	return quotes, nil
}

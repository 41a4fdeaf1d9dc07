// Package brvmweb scrapes the official BRVM website. It is the fallback
// source for historical quotes and the authoritative source for the list of
// listed securities.
package brvmweb

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"
)

const (
	// DefaultBaseURL is the base URL of the official BRVM website.
	DefaultBaseURL = "https://www.brvm.org"

	historyPathPrefix = "/fr/historique/"
	listingPath       = "/fr/cours-actions/0"
)

// Getter is the HTTP transport the scraper fetches pages through.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Scraper fetches and parses pages from the BRVM website.
type Scraper struct {
	baseURL string
	http    Getter
	logger  arbor.ILogger
}

// Option configures the Scraper.
type Option func(*Scraper)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) Option {
	return func(s *Scraper) {
		s.baseURL = baseURL
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) Option {
	return func(s *Scraper) {
		s.logger = logger
	}
}

// New creates a Scraper that issues requests through the given transport.
func New(transport Getter, opts ...Option) *Scraper {
	s := &Scraper{
		baseURL: DefaultBaseURL,
		http:    transport,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Quote is one row of the historical quotes table. Open, High and Low are
// nil when the cell is blank; rows without a closing price are dropped
// during parsing.
type Quote struct {
	Date   time.Time
	Open   *float64
	High   *float64
	Low    *float64
	Close  float64
	Volume int64
}

// Security is one row of the listed-securities table.
type Security struct {
	Symbol string
	Name   string
}

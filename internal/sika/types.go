// Package sika provides a client for the Sika Finance API, which exposes
// historical quotes and company fundamentals for BRVM-listed securities.
// This package centralizes all Sika Finance interactions for the application.
package sika

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kyac99/brvm-market-analysis/internal/httpclient"
)

// APIError represents an error response from the Sika Finance API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sika finance API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// RateLimitError represents a rate limit error.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("sika finance rate limit exceeded, retry after %v", e.RetryAfter)
}

// wrapTransportError converts non-2xx transport failures into *APIError so
// callers can inspect the status code; other errors pass through unchanged.
func wrapTransportError(err error, endpoint string) error {
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		return &APIError{
			StatusCode: statusErr.StatusCode,
			Message:    http.StatusText(statusErr.StatusCode),
			Endpoint:   endpoint,
		}
	}
	return err
}

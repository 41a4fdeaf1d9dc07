package httpclient

import (
	"context"
	"net/url"
	"sync"
	"time"
)

// HostLimiter enforces a minimum delay between successive requests to the
// same host. The delay applies per host, not globally, so a collector that
// alternates between sources does not starve itself.
type HostLimiter struct {
	limiters     map[string]*hostState
	mu           sync.Mutex
	defaultDelay time.Duration
}

// hostState tracks the last request time for a single host
type hostState struct {
	lastRequest time.Time
	mu          sync.Mutex
	delay       time.Duration
}

// NewHostLimiter creates a limiter with the specified default delay.
// A zero delay disables waiting.
func NewHostLimiter(defaultDelay time.Duration) *HostLimiter {
	return &HostLimiter{
		limiters:     make(map[string]*hostState),
		defaultDelay: defaultDelay,
	}
}

// Wait blocks until the politeness delay for the URL's host has elapsed,
// or the context is cancelled.
func (hl *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	host := extractHost(rawURL)
	if host == "" || hl.defaultDelay == 0 {
		return nil
	}

	hl.mu.Lock()
	state, exists := hl.limiters[host]
	if !exists {
		state = &hostState{delay: hl.defaultDelay}
		hl.limiters[host] = state
	}
	hl.mu.Unlock()

	state.mu.Lock()
	defer state.mu.Unlock()

	now := time.Now()
	nextAllowed := state.lastRequest.Add(state.delay)

	if now.Before(nextAllowed) {
		timer := time.NewTimer(nextAllowed.Sub(now))
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	state.lastRequest = time.Now()
	return nil
}

// SetHostDelay sets a custom delay for a specific host.
func (hl *HostLimiter) SetHostDelay(host string, delay time.Duration) {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	state, exists := hl.limiters[host]
	if !exists {
		hl.limiters[host] = &hostState{delay: delay}
		return
	}
	state.mu.Lock()
	state.delay = delay
	state.mu.Unlock()
}

func extractHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

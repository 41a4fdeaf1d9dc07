package enrich

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/kyac99/brvm-market-analysis/internal/sika"
)

// DefaultTTL is how long a cached record stays fresh.
const DefaultTTL = 7 * 24 * time.Hour

// Fetcher retrieves fundamentals from the upstream site.
type Fetcher interface {
	GetFinancials(ctx context.Context, symbol string) (*sika.CompanyFinancials, error)
}

// Service serves company fundamentals, refreshing stale cache entries from
// the upstream fetcher. Upstream failures degrade to whatever the cache
// holds; enrichment is best effort and never blocks a report.
type Service struct {
	store   *Store
	fetcher Fetcher
	ttl     time.Duration
	logger  arbor.ILogger
}

// NewService creates a Service. A zero ttl means DefaultTTL.
func NewService(store *Store, fetcher Fetcher, ttl time.Duration, logger arbor.ILogger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{store: store, fetcher: fetcher, ttl: ttl, logger: logger}
}

// Financials returns fundamentals for a symbol, from cache when fresh. When
// both the fetch and the cache come up empty it returns nil with no error.
func (s *Service) Financials(ctx context.Context, symbol string) (*FinancialRecord, error) {
	cached, err := s.store.Get(symbol)
	if err != nil {
		return nil, err
	}
	if cached != nil && time.Since(cached.FetchedAt) < s.ttl {
		return cached, nil
	}

	fin, err := s.fetcher.GetFinancials(ctx, symbol)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn().
				Str("symbol", symbol).
				Err(err).
				Msg("Fundamentals fetch failed, serving stale cache")
		}
		return cached, nil
	}

	if !fin.HasData() {
		if s.logger != nil {
			s.logger.Debug().Str("symbol", symbol).Msg("No fundamentals published for symbol")
		}
		return cached, nil
	}

	record := &FinancialRecord{
		Symbol:           symbol,
		PER:              fin.PER,
		DividendPerShare: fin.DividendPerShare,
		FetchedAt:        fin.FetchedAt,
	}
	if err := s.store.Put(record); err != nil {
		return nil, err
	}
	return record, nil
}

// LatestPER returns the most recent P/E ratio on record for a symbol.
func (r *FinancialRecord) LatestPER() (year int, value float64, ok bool) {
	return latest(r.PER)
}

// LatestDividend returns the most recent dividend per share on record.
func (r *FinancialRecord) LatestDividend() (year int, value float64, ok bool) {
	return latest(r.DividendPerShare)
}

// DividendYield computes the dividend yield in percent against a price,
// using the most recent dividend on record.
func (r *FinancialRecord) DividendYield(price float64) (float64, bool) {
	_, div, ok := r.LatestDividend()
	if !ok || price <= 0 {
		return 0, false
	}
	return div / price * 100, true
}

func latest(values map[int]sika.YearValue) (int, float64, bool) {
	bestYear := 0
	bestValue := 0.0
	for year, v := range values {
		if v.Found && year > bestYear {
			bestYear = year
			bestValue = v.Value
		}
	}
	return bestYear, bestValue, bestYear != 0
}

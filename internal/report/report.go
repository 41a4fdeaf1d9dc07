// Package report turns computed metrics into the published artifacts: an
// HTML dashboard, a PDF report and CSV exports.
package report

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/kyac99/brvm-market-analysis/internal/analytics"
	"github.com/kyac99/brvm-market-analysis/internal/enrich"
	"github.com/kyac99/brvm-market-analysis/internal/sector"
	"github.com/kyac99/brvm-market-analysis/internal/series"
)

// Entry is one security's row in a report: its performance metrics, sector
// and, when available, fundamentals.
type Entry struct {
	Metrics analytics.Metrics
	Sector  string

	PER           *float64
	PERYear       int
	Dividend      *float64
	DividendYear  int
	DividendYield *float64
}

// Report is the full analysis output for one run.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Entries     []Entry

	// Series keeps the underlying price data for charting.
	Series map[string]series.Series
}

// Financials looks up cached fundamentals for a symbol; nil record means
// none available. It is satisfied by *enrich.Service.
type Financials interface {
	Financials(ctx context.Context, symbol string) (*enrich.FinancialRecord, error)
}

// Build computes metrics for every loaded series, classifies each symbol and
// joins in fundamentals. Series too short to analyze are skipped. Entries
// are sorted by annualized return, best first.
func Build(ctx context.Context, data map[string]series.Series, classifier *sector.Classifier, financials Financials, logger arbor.ILogger) *Report {
	r := &Report{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now(),
		Series:      data,
	}

	for symbol, s := range data {
		metrics, ok := analytics.Compute(s)
		if !ok {
			if logger != nil {
				logger.Warn().Str("symbol", symbol).Msg("Series too short to analyze, skipping")
			}
			continue
		}
		metrics.Symbol = symbol

		entry := Entry{
			Metrics: metrics,
			Sector:  classifier.Classify(symbol),
		}

		if financials != nil {
			record, err := financials.Financials(ctx, symbol)
			if err != nil && logger != nil {
				logger.Warn().Str("symbol", symbol).Err(err).Msg("Fundamentals lookup failed")
			}
			if record != nil {
				if year, per, ok := record.LatestPER(); ok {
					entry.PER = &per
					entry.PERYear = year
				}
				if year, div, ok := record.LatestDividend(); ok {
					entry.Dividend = &div
					entry.DividendYear = year
				}
				if yield, ok := record.DividendYield(metrics.FinalPrice); ok {
					entry.DividendYield = &yield
				}
			}
		}

		r.Entries = append(r.Entries, entry)
	}

	sort.Slice(r.Entries, func(i, j int) bool {
		return r.Entries[i].Metrics.AnnualReturn > r.Entries[j].Metrics.AnnualReturn
	})

	return r
}

// SectorStats aggregates entry metrics for one sector.
type SectorStats struct {
	Sector           string
	Count            int
	AvgAnnualReturn  float64
	AvgVolatility    float64
	AvgSharpeRatio   float64
	BestSymbol       string
	BestAnnualReturn float64
}

// BySector aggregates entries per sector, sorted by average annualized
// return, best first.
func (r *Report) BySector() []SectorStats {
	grouped := make(map[string][]Entry)
	for _, e := range r.Entries {
		grouped[e.Sector] = append(grouped[e.Sector], e)
	}

	stats := make([]SectorStats, 0, len(grouped))
	for name, entries := range grouped {
		s := SectorStats{Sector: name, Count: len(entries)}
		for i, e := range entries {
			s.AvgAnnualReturn += e.Metrics.AnnualReturn
			s.AvgVolatility += e.Metrics.Volatility
			s.AvgSharpeRatio += e.Metrics.SharpeRatio
			if i == 0 || e.Metrics.AnnualReturn > s.BestAnnualReturn {
				s.BestSymbol = e.Metrics.Symbol
				s.BestAnnualReturn = e.Metrics.AnnualReturn
			}
		}
		n := float64(len(entries))
		s.AvgAnnualReturn /= n
		s.AvgVolatility /= n
		s.AvgSharpeRatio /= n
		stats = append(stats, s)
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].AvgAnnualReturn > stats[j].AvgAnnualReturn
	})

	return stats
}

// Top returns the n best entries by annualized return.
func (r *Report) Top(n int) []Entry {
	if n > len(r.Entries) {
		n = len(r.Entries)
	}
	return r.Entries[:n]
}

// Entry returns the entry for a symbol, if present.
func (r *Report) Entry(symbol string) (Entry, bool) {
	for _, e := range r.Entries {
		if e.Metrics.Symbol == symbol {
			return e, true
		}
	}
	return Entry{}, false
}

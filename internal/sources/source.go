// Package sources defines the data source abstraction and the fallback
// resolver that tries each configured source in priority order.
package sources

import (
	"context"
	"time"

	"github.com/kyac99/brvm-market-analysis/internal/brvmweb"
	"github.com/kyac99/brvm-market-analysis/internal/series"
	"github.com/kyac99/brvm-market-analysis/internal/sika"
)

// Source retrieves the historical price series for one symbol. An empty
// series with a nil error means the source has no data for the symbol.
type Source interface {
	Name() string
	FetchHistory(ctx context.Context, symbol string, from, to time.Time) (series.Series, error)
}

// SikaSource adapts the Sika Finance API client to the Source interface.
type SikaSource struct {
	client *sika.Client
}

// NewSikaSource wraps a Sika Finance client.
func NewSikaSource(client *sika.Client) *SikaSource {
	return &SikaSource{client: client}
}

// Name implements Source.
func (s *SikaSource) Name() string { return "sika" }

// FetchHistory implements Source.
func (s *SikaSource) FetchHistory(ctx context.Context, symbol string, from, to time.Time) (series.Series, error) {
	quotes, err := s.client.GetHistory(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}

	records := make([]series.Record, 0, len(quotes))
	for _, q := range quotes {
		records = append(records, series.Record{
			Date:   q.Date,
			Open:   numberPtr(q.Open),
			High:   numberPtr(q.High),
			Low:    numberPtr(q.Low),
			Close:  float64(q.Close),
			Volume: volumeOf(q.Volume),
			Symbol: symbol,
		})
	}
	return series.Normalize(records), nil
}

func numberPtr(n sika.Number) *float64 {
	if !n.Valid() {
		return nil
	}
	v := float64(n)
	return &v
}

func volumeOf(n sika.Number) int64 {
	if !n.Valid() {
		return 0
	}
	return int64(n)
}

// BRVMSource adapts the official website scraper to the Source interface.
type BRVMSource struct {
	scraper *brvmweb.Scraper
}

// NewBRVMSource wraps a BRVM website scraper.
func NewBRVMSource(scraper *brvmweb.Scraper) *BRVMSource {
	return &BRVMSource{scraper: scraper}
}

// Name implements Source.
func (s *BRVMSource) Name() string { return "brvm" }

// FetchHistory implements Source.
func (s *BRVMSource) FetchHistory(ctx context.Context, symbol string, from, to time.Time) (series.Series, error) {
	quotes, err := s.scraper.GetHistory(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}

	records := make([]series.Record, 0, len(quotes))
	for _, q := range quotes {
		records = append(records, series.Record{
			Date:   q.Date,
			Open:   q.Open,
			High:   q.High,
			Low:    q.Low,
			Close:  q.Close,
			Volume: q.Volume,
			Symbol: symbol,
		})
	}
	return series.Normalize(records), nil
}

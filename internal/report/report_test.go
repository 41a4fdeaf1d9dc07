package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyac99/brvm-market-analysis/internal/enrich"
	"github.com/kyac99/brvm-market-analysis/internal/sector"
	"github.com/kyac99/brvm-market-analysis/internal/series"
	"github.com/kyac99/brvm-market-analysis/internal/sika"
)

func linearSeries(symbol string, start, end float64, days int) series.Series {
	s := make(series.Series, days)
	step := (end - start) / float64(days-1)
	for i := 0; i < days; i++ {
		s[i] = series.Record{
			Date:   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Close:  start + float64(i)*step,
			Symbol: symbol,
		}
	}
	return s
}

type fakeFinancials struct {
	records map[string]*enrich.FinancialRecord
}

func (f *fakeFinancials) Financials(ctx context.Context, symbol string) (*enrich.FinancialRecord, error) {
	return f.records[symbol], nil
}

func TestBuildSortsAndClassifies(t *testing.T) {
	data := map[string]series.Series{
		"SONATEL": linearSeries("SONATEL", 100, 150, 300),
		"SGBCI":   linearSeries("SGBCI", 100, 90, 300),
		"BRVM-30": linearSeries("BRVM-30", 200, 220, 300),
		"TINY": {
			{Date: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), Close: 100, Symbol: "TINY"},
		},
	}

	r := Build(context.Background(), data, sector.NewDefault(), nil, nil)

	require.Len(t, r.Entries, 3, "single-point series is skipped")
	assert.Equal(t, "SONATEL", r.Entries[0].Metrics.Symbol, "sorted by annualized return")
	assert.Equal(t, sector.PublicServices, r.Entries[0].Sector)

	last := r.Entries[len(r.Entries)-1]
	assert.Equal(t, "SGBCI", last.Metrics.Symbol)
	assert.Equal(t, sector.Banking, last.Sector)

	idx, ok := r.Entry("BRVM-30")
	require.True(t, ok)
	assert.Equal(t, sector.Index, idx.Sector)

	assert.NotEmpty(t, r.RunID)
}

func TestBuildJoinsFinancials(t *testing.T) {
	data := map[string]series.Series{
		"SONATEL": linearSeries("SONATEL", 100, 150, 300),
	}
	financials := &fakeFinancials{records: map[string]*enrich.FinancialRecord{
		"SONATEL": {
			Symbol: "SONATEL",
			PER: map[int]sika.YearValue{
				2023: {Value: 11.4, Found: true},
			},
			DividendPerShare: map[int]sika.YearValue{
				2023: {Value: 15, Found: true},
			},
		},
	}}

	r := Build(context.Background(), data, sector.NewDefault(), financials, nil)

	require.Len(t, r.Entries, 1)
	e := r.Entries[0]
	require.NotNil(t, e.PER)
	assert.InDelta(t, 11.4, *e.PER, 1e-9)
	assert.Equal(t, 2023, e.PERYear)
	require.NotNil(t, e.Dividend)
	assert.InDelta(t, 15, *e.Dividend, 1e-9)
	require.NotNil(t, e.DividendYield)
	assert.InDelta(t, 15.0/150*100, *e.DividendYield, 1e-9)
}

func TestBySector(t *testing.T) {
	data := map[string]series.Series{
		"SONATEL": linearSeries("SONATEL", 100, 150, 300),
		"ONATEL":  linearSeries("ONATEL", 100, 120, 300),
		"SGBCI":   linearSeries("SGBCI", 100, 90, 300),
	}

	r := Build(context.Background(), data, sector.NewDefault(), nil, nil)
	stats := r.BySector()

	require.Len(t, stats, 2)
	assert.Equal(t, sector.PublicServices, stats[0].Sector, "best sector first")
	assert.Equal(t, 2, stats[0].Count)
	assert.Equal(t, "SONATEL", stats[0].BestSymbol)

	assert.Equal(t, sector.Banking, stats[1].Sector)
	assert.Equal(t, 1, stats[1].Count)
	assert.Less(t, stats[1].AvgAnnualReturn, 0.0)
}

func TestTop(t *testing.T) {
	data := map[string]series.Series{
		"SONATEL": linearSeries("SONATEL", 100, 150, 300),
		"SGBCI":   linearSeries("SGBCI", 100, 90, 300),
	}

	r := Build(context.Background(), data, sector.NewDefault(), nil, nil)

	top := r.Top(1)
	require.Len(t, top, 1)
	assert.Equal(t, "SONATEL", top[0].Metrics.Symbol)

	assert.Len(t, r.Top(10), 2, "n larger than entries is clamped")
}

package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyac99/brvm-market-analysis/internal/series"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mkSeries(symbol string, points ...struct {
	d time.Time
	c float64
}) series.Series {
	s := make(series.Series, len(points))
	for i, p := range points {
		s[i] = series.Record{Date: p.d, Close: p.c, Symbol: symbol}
	}
	return s
}

func pt(d time.Time, c float64) struct {
	d time.Time
	c float64
} {
	return struct {
		d time.Time
		c float64
	}{d, c}
}

func TestComputeTooShort(t *testing.T) {
	_, ok := Compute(series.Series{})
	assert.False(t, ok)

	_, ok = Compute(mkSeries("SONATEL", pt(day(2024, 1, 2), 100)))
	assert.False(t, ok)
}

func TestComputeOneYearGain(t *testing.T) {
	// 100 -> 110 exactly one 365-day span apart: total return 10%,
	// annualized return close to 10% (duration_years just under 1).
	s := mkSeries("SONATEL",
		pt(day(2023, 1, 2), 100),
		pt(day(2024, 1, 2), 110),
	)

	m, ok := Compute(s)
	require.True(t, ok)

	assert.Equal(t, 365, m.DurationDays)
	assert.InDelta(t, 365.0/365.25, m.DurationYears, 1e-12)
	assert.InDelta(t, 10.0, m.TotalReturn, 1e-9)
	assert.InDelta(t, 10.0, m.AnnualReturn, 0.05)
	assert.Equal(t, 0.0, m.MaxDrawdown) // monotonic increase, no drawdown
	assert.Equal(t, 100.0, m.InitialPrice)
	assert.Equal(t, 110.0, m.FinalPrice)
}

func TestComputeConstantClose(t *testing.T) {
	// A flat series has zero variance; both the volatility and the Sharpe
	// ratio guard against dividing by it.
	s := mkSeries("CIE",
		pt(day(2024, 1, 2), 50),
		pt(day(2024, 1, 3), 50),
		pt(day(2024, 1, 4), 50),
	)

	m, ok := Compute(s)
	require.True(t, ok)

	assert.Equal(t, 0.0, m.Volatility)
	assert.Equal(t, 0.0, m.SharpeRatio)
	assert.Equal(t, 0.0, m.TotalReturn)
}

func TestComputeDrawdown(t *testing.T) {
	// 100 -> 150 -> 90: the wealth index peaks at 1.5 and falls to 0.9,
	// a 40% decline from the peak.
	s := mkSeries("SAPH",
		pt(day(2024, 1, 2), 100),
		pt(day(2024, 1, 4), 150),
		pt(day(2024, 1, 6), 90),
	)

	m, ok := Compute(s)
	require.True(t, ok)

	assert.InDelta(t, -40.0, m.MaxDrawdown, 1e-9)
	assert.InDelta(t, 50.0, m.MaxDailyReturn, 1e-9)
	assert.InDelta(t, -40.0, m.MinDailyReturn, 1e-9)
}

func TestComputeZeroDuration(t *testing.T) {
	// Two records on the same date cannot be annualized; the exponent
	// guard returns zero instead of an undefined power.
	s := series.Series{
		{Date: day(2024, 1, 2), Close: 100, Symbol: "X"},
		{Date: day(2024, 1, 2), Close: 110, Symbol: "X"},
	}

	m, ok := Compute(s)
	require.True(t, ok)
	assert.Equal(t, 0.0, m.AnnualReturn)
}

func TestComputeDeterministic(t *testing.T) {
	s := mkSeries("BOA",
		pt(day(2024, 1, 2), 100),
		pt(day(2024, 1, 3), 103),
		pt(day(2024, 1, 4), 99),
		pt(day(2024, 1, 5), 104),
	)

	m1, ok1 := Compute(s)
	m2, ok2 := Compute(s)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, m1, m2)
}

func TestDailyReturns(t *testing.T) {
	returns := DailyReturns([]float64{100, 110, 99})
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-12)
	assert.InDelta(t, -0.10, returns[1], 1e-12)

	assert.Nil(t, DailyReturns([]float64{100}))
}

func TestWealthIndexAndDrawdowns(t *testing.T) {
	wealth := WealthIndex([]float64{0.5, -0.4})
	require.Len(t, wealth, 2)
	assert.InDelta(t, 1.5, wealth[0], 1e-12)
	assert.InDelta(t, 0.9, wealth[1], 1e-12)

	dd := Drawdowns(wealth)
	assert.InDelta(t, 0.0, dd[0], 1e-12)
	assert.InDelta(t, -0.4, dd[1], 1e-12)
}

func TestSampleStdDevUsesNMinusOne(t *testing.T) {
	// Sample stddev of {1,2,3,4} is sqrt(5/3), not the population value.
	got := sampleStdDev([]float64{1, 2, 3, 4})
	assert.InDelta(t, 1.2909944487358056, got, 1e-12)

	assert.Equal(t, 0.0, sampleStdDev([]float64{42}))
}

func TestComputeVolatilityAgainstReference(t *testing.T) {
	s := mkSeries("NESTLE",
		pt(day(2024, 1, 2), 100),
		pt(day(2024, 1, 3), 102),
		pt(day(2024, 1, 4), 101),
		pt(day(2024, 1, 5), 105),
	)

	m, ok := Compute(s)
	require.True(t, ok)

	// stddev of {0.02, -0.0098039..., 0.0396039...} (sample) * sqrt(252) * 100
	returns := DailyReturns(s.Closes())
	want := sampleStdDev(returns) * 15.874507866387544 * 100 // sqrt(252)
	assert.InDelta(t, want, m.Volatility, 1e-9)
}

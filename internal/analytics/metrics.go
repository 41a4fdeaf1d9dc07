// Package analytics derives risk/return statistics from a canonical price
// series. Every stage is a pure function of the previous one: daily returns,
// then a cumulative wealth index, then drawdowns, then the final metrics
// record. Nothing here mutates its input.
package analytics

import (
	"math"
	"time"

	"github.com/kyac99/brvm-market-analysis/internal/series"
)

const (
	// daysPerYear uses the Gregorian average-year convention. Downstream
	// consumers that recompute durations must use the same constant for
	// numeric parity.
	daysPerYear = 365.25

	// tradingDaysPerYear is the assumed number of trading sessions used to
	// annualize daily volatility.
	tradingDaysPerYear = 252

	// riskFreeRate is the annual risk-free rate used in the Sharpe ratio,
	// as a fraction.
	riskFreeRate = 0.03
)

// Metrics is the fixed-shape performance record for one instrument.
// All percentage fields are already in percentage units (x100); consumers
// must not multiply again. A Metrics value is immutable once returned.
type Metrics struct {
	Symbol        string
	StartDate     time.Time
	EndDate       time.Time
	DurationDays  int
	DurationYears float64
	InitialPrice  float64
	FinalPrice    float64

	TotalReturn    float64 // %
	AnnualReturn   float64 // %
	Volatility     float64 // annualized, %
	SharpeRatio    float64
	MaxDailyReturn float64 // %
	MinDailyReturn float64 // %
	MaxDrawdown    float64 // %, <= 0
}

// Compute derives the full metrics record from a canonical series. A series
// with fewer than two records carries no return information; ok is false and
// the zero Metrics is returned. This is a documented edge case, not an error.
func Compute(s series.Series) (Metrics, bool) {
	if len(s) < 2 {
		return Metrics{}, false
	}

	first := s.First()
	last := s.Last()

	returns := DailyReturns(s.Closes())

	durationDays := int(last.Date.Sub(first.Date).Hours() / 24)
	durationYears := float64(durationDays) / daysPerYear

	m := Metrics{
		Symbol:        first.Symbol,
		StartDate:     first.Date,
		EndDate:       last.Date,
		DurationDays:  durationDays,
		DurationYears: durationYears,
		InitialPrice:  first.Close,
		FinalPrice:    last.Close,
	}

	m.TotalReturn = (last.Close/first.Close - 1) * 100

	if durationYears > 0 {
		m.AnnualReturn = (math.Pow(last.Close/first.Close, 1/durationYears) - 1) * 100
	}

	m.Volatility = sampleStdDev(returns) * math.Sqrt(tradingDaysPerYear) * 100

	if m.Volatility > 0 {
		m.SharpeRatio = (m.AnnualReturn/100 - riskFreeRate) / (m.Volatility / 100)
	}

	m.MaxDailyReturn = maxOf(returns) * 100
	m.MinDailyReturn = minOf(returns) * 100

	m.MaxDrawdown = minOf(Drawdowns(WealthIndex(returns))) * 100

	return m, true
}

// DailyReturns computes close-to-close simple returns. The return at the
// first observation is undefined and excluded, so the result has one fewer
// element than the input.
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		returns[i-1] = closes[i]/closes[i-1] - 1
	}
	return returns
}

// WealthIndex accumulates daily returns into a cumulative wealth index
// starting from the first valid return.
func WealthIndex(returns []float64) []float64 {
	wealth := make([]float64, len(returns))
	acc := 1.0
	for i, r := range returns {
		acc *= 1 + r
		wealth[i] = acc
	}
	return wealth
}

// Drawdowns computes, for each point of a wealth index, the fractional
// decline from the running historical peak. Values are <= 0.
func Drawdowns(wealth []float64) []float64 {
	dd := make([]float64, len(wealth))
	peak := math.Inf(-1)
	for i, w := range wealth {
		if w > peak {
			peak = w
		}
		dd[i] = w/peak - 1
	}
	return dd
}

// sampleStdDev is the sample standard deviation (divisor n-1), matching the
// reference statistics. Fewer than two observations yield zero.
func sampleStdDev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(n)

	variance := 0.0
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= float64(n - 1)
	return math.Sqrt(variance)
}

func maxOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func minOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

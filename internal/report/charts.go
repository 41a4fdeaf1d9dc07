package report

import (
	"fmt"

	"github.com/vicanso/go-charts/v2"

	"github.com/kyac99/brvm-market-analysis/internal/series"
)

const (
	chartWidth  = 1000
	chartHeight = 600

	// xLabelTarget caps the number of x-axis labels so long histories stay
	// readable.
	xLabelTarget = 12
)

// PriceChart renders the closing price history of one symbol as a PNG.
func PriceChart(symbol string, s series.Series) ([]byte, error) {
	if s.Empty() {
		return nil, fmt.Errorf("no data to chart for %s", symbol)
	}

	closes := s.Closes()
	labels := make([]string, len(s))
	for i, r := range s {
		labels[i] = r.Date.Format("2006-01-02")
	}

	p, err := charts.LineRender(
		[][]float64{closes},
		charts.TitleTextOptionFunc(fmt.Sprintf("%s - Cours de clôture", symbol)),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			BoundaryGap: charts.FalseFlag(),
			SplitNumber: splitFor(len(labels)),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("render price chart for %s: %w", symbol, err)
	}
	return p.Bytes()
}

// PerformanceChart renders the total return of the given entries as a bar
// chart, in the order supplied.
func PerformanceChart(title string, entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no entries to chart")
	}

	labels := make([]string, len(entries))
	values := make([]float64, len(entries))
	for i, e := range entries {
		labels[i] = e.Metrics.Symbol
		values[i] = e.Metrics.TotalReturn
	}

	p, err := charts.BarRender(
		[][]float64{values},
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels}),
		charts.YAxisOptionFunc(charts.YAxisOption{}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("render performance chart: %w", err)
	}
	return p.Bytes()
}

// SectorChart renders average annualized return per sector as a bar chart.
func SectorChart(stats []SectorStats) ([]byte, error) {
	if len(stats) == 0 {
		return nil, fmt.Errorf("no sector stats to chart")
	}

	labels := make([]string, len(stats))
	values := make([]float64, len(stats))
	for i, s := range stats {
		labels[i] = s.Sector
		values[i] = s.AvgAnnualReturn
	}

	p, err := charts.BarRender(
		[][]float64{values},
		charts.TitleTextOptionFunc("Rendement annualisé moyen par secteur (%)"),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels}),
		charts.YAxisOptionFunc(charts.YAxisOption{}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("render sector chart: %w", err)
	}
	return p.Bytes()
}

// RiskReturnChart renders annualized return against volatility for the
// given entries as paired bars, so risk and reward can be read side by side.
func RiskReturnChart(entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no entries to chart")
	}

	labels := make([]string, len(entries))
	returns := make([]float64, len(entries))
	volatility := make([]float64, len(entries))
	for i, e := range entries {
		labels[i] = e.Metrics.Symbol
		returns[i] = e.Metrics.AnnualReturn
		volatility[i] = e.Metrics.Volatility
	}

	p, err := charts.BarRender(
		[][]float64{returns, volatility},
		charts.TitleTextOptionFunc("Risque vs rendement (%)"),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels}),
		charts.YAxisOptionFunc(charts.YAxisOption{}),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: []string{"Rendement annualisé", "Volatilité"},
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("render risk/return chart: %w", err)
	}
	return p.Bytes()
}

// SectorBreakdownChart renders the number of securities per sector as a pie
// chart.
func SectorBreakdownChart(stats []SectorStats) ([]byte, error) {
	if len(stats) == 0 {
		return nil, fmt.Errorf("no sector stats to chart")
	}

	labels := make([]string, len(stats))
	values := make([]float64, len(stats))
	for i, s := range stats {
		labels[i] = s.Sector
		values[i] = float64(s.Count)
	}

	p, err := charts.PieRender(
		values,
		charts.TitleTextOptionFunc("Répartition des valeurs par secteur"),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: labels,
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(800),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, fmt.Errorf("render sector breakdown chart: %w", err)
	}
	return p.Bytes()
}

func splitFor(n int) int {
	split := n / xLabelTarget
	if split < 1 {
		split = 1
	}
	return split
}

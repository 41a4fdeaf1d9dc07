package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ternarybob/arbor"

	"github.com/kyac99/brvm-market-analysis/internal/series"
)

// Exporter writes the analysis as CSV files: a summary sheet, a sector
// analysis sheet and one quotes sheet per symbol.
type Exporter struct {
	dir    string
	logger arbor.ILogger
}

// NewExporter creates an Exporter targeting dir.
func NewExporter(dir string, logger arbor.ILogger) *Exporter {
	return &Exporter{dir: dir, logger: logger}
}

// Write exports the report. It returns the paths of the files written.
func (e *Exporter) Write(r *Report) ([]string, error) {
	dir := filepath.Join(e.dir, r.GeneratedAt.Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	var written []string

	path, err := e.writeSummary(dir, r)
	if err != nil {
		return written, err
	}
	written = append(written, path)

	path, err = e.writeSectors(dir, r)
	if err != nil {
		return written, err
	}
	written = append(written, path)

	for _, entry := range r.Entries {
		symbol := entry.Metrics.Symbol
		s, ok := r.Series[symbol]
		if !ok {
			continue
		}
		path, err := e.writeQuotes(dir, symbol, s)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if e.logger != nil {
		e.logger.Info().
			Str("dir", dir).
			Int("files", len(written)).
			Msg("CSV export written")
	}

	return written, nil
}

func (e *Exporter) writeSummary(dir string, r *Report) (string, error) {
	header := []string{
		"Symbole", "Secteur", "Date début", "Date fin", "Durée (années)",
		"Prix initial", "Prix final", "Rendement total (%)", "Rendement annualisé (%)",
		"Volatilité (%)", "Ratio de Sharpe", "Drawdown maximal (%)",
		"PER", "Dividende", "Rendement du dividende (%)",
	}

	rows := make([][]string, 0, len(r.Entries))
	for _, entry := range r.Entries {
		m := entry.Metrics
		rows = append(rows, []string{
			m.Symbol,
			entry.Sector,
			m.StartDate.Format("2006-01-02"),
			m.EndDate.Format("2006-01-02"),
			formatFloat(m.DurationYears),
			formatFloat(m.InitialPrice),
			formatFloat(m.FinalPrice),
			formatFloat(m.TotalReturn),
			formatFloat(m.AnnualReturn),
			formatFloat(m.Volatility),
			formatFloat(m.SharpeRatio),
			formatFloat(m.MaxDrawdown),
			formatOptional(entry.PER),
			formatOptional(entry.Dividend),
			formatOptional(entry.DividendYield),
		})
	}

	return writeCSV(filepath.Join(dir, "resume.csv"), header, rows)
}

func (e *Exporter) writeSectors(dir string, r *Report) (string, error) {
	header := []string{
		"Secteur", "Nombre de valeurs", "Rendement annualisé moyen (%)",
		"Volatilité moyenne (%)", "Sharpe moyen", "Meilleure valeur",
	}

	stats := r.BySector()
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			s.Sector,
			strconv.Itoa(s.Count),
			formatFloat(s.AvgAnnualReturn),
			formatFloat(s.AvgVolatility),
			formatFloat(s.AvgSharpeRatio),
			s.BestSymbol,
		})
	}

	return writeCSV(filepath.Join(dir, "analyse_sectorielle.csv"), header, rows)
}

func (e *Exporter) writeQuotes(dir, symbol string, s series.Series) (string, error) {
	header := []string{"Date", "Ouverture", "Plus Haut", "Plus Bas", "Clôture", "Volume"}

	rows := make([][]string, 0, len(s))
	for _, rec := range s {
		rows = append(rows, []string{
			rec.Date.Format("2006-01-02"),
			formatOptional(rec.Open),
			formatOptional(rec.High),
			formatOptional(rec.Low),
			formatFloat(rec.Close),
			strconv.FormatInt(rec.Volume, 10),
		})
	}

	name := fmt.Sprintf("%s.csv", sanitizeName(symbol))
	return writeCSV(filepath.Join(dir, name), header, rows)
}

func writeCSV(path string, header []string, rows [][]string) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write export header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("write export rows: %w", err)
	}
	return path, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func sanitizeName(symbol string) string {
	out := make([]rune, 0, len(symbol))
	for _, r := range symbol {
		if r == '/' || r == '\\' {
			r = '-'
		}
		out = append(out, r)
	}
	return string(out)
}

package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
)

// PDFWriter renders the analysis as an A4 PDF report.
type PDFWriter struct {
	dir    string
	logger arbor.ILogger
}

// NewPDFWriter creates a PDF writer targeting dir.
func NewPDFWriter(dir string, logger arbor.ILogger) *PDFWriter {
	return &PDFWriter{dir: dir, logger: logger}
}

// Write renders the report and returns the path of the generated file.
func (w *PDFWriter) Write(r *Report) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	doc := newReportDoc(r)

	doc.pdf.AddPage()
	doc.chapterTitle("Présentation du rapport")
	doc.chapterBody("Ce rapport présente une analyse des performances des valeurs cotées " +
		"à la Bourse Régionale des Valeurs Mobilières (BRVM). Il couvre les rendements " +
		"historiques et les indicateurs de risque/rendement pour chaque valeur et par secteur.")

	if s, ok := r.Series[compositeIndex]; ok {
		if png, err := PriceChart(compositeIndex, s); err == nil {
			doc.pdf.AddPage()
			doc.chapterTitle("Évolution de l'indice " + compositeIndex)
			doc.image("index", png)
		}
	}

	doc.pdf.AddPage()
	doc.chapterTitle("Indicateurs par valeur")
	doc.entriesTable(r.Entries)

	if png, err := PerformanceChart("Performance totale des 15 meilleures valeurs (%)", r.Top(15)); err == nil {
		doc.pdf.AddPage()
		doc.chapterTitle("Meilleures performances")
		doc.image("performance", png)
	}

	sectors := r.BySector()
	doc.pdf.AddPage()
	doc.chapterTitle("Analyse sectorielle")
	doc.sectorTable(sectors)
	if png, err := SectorChart(sectors); err == nil {
		doc.image("sectors", png)
	}

	var buf bytes.Buffer
	if err := doc.pdf.Output(&buf); err != nil {
		return "", fmt.Errorf("failed to generate PDF output: %w", err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("rapport_brvm_%s.pdf", r.GeneratedAt.Format("2006-01-02")))
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("write PDF report: %w", err)
	}

	if w.logger != nil {
		w.logger.Info().
			Str("path", path).
			Int("pdf_size", buf.Len()).
			Msg("PDF report written")
	}

	return path, nil
}

type reportDoc struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	images int
}

func newReportDoc(r *Report) *reportDoc {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 20, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")

	// Core fonts are cp1252; French text must go through the translator.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	generated := r.GeneratedAt.Format("02/01/2006 à 15:04")
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr("Analyse des performances de la BRVM"), "", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 6, tr("Rapport généré le "+generated), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	return &reportDoc{pdf: pdf, tr: tr}
}

func (d *reportDoc) chapterTitle(title string) {
	d.pdf.SetFont("Arial", "B", 12)
	d.pdf.SetFillColor(220, 220, 220)
	d.pdf.CellFormat(0, 6, d.tr(title), "", 1, "L", true, 0, "")
	d.pdf.Ln(3)
}

func (d *reportDoc) chapterBody(body string) {
	d.pdf.SetFont("Arial", "", 10)
	d.pdf.MultiCell(0, 5, d.tr(body), "", "L", false)
	d.pdf.Ln(2)
}

func (d *reportDoc) entriesTable(entries []Entry) {
	header := []string{"Symbole", "Secteur", "Rdt total", "Rdt annualisé", "Volatilité", "Sharpe", "Drawdown"}
	widths := []float64{25, 35, 25, 28, 25, 22, 25}

	d.tableHeader(header, widths)
	d.pdf.SetFont("Arial", "", 8)
	for _, e := range entries {
		m := e.Metrics
		row := []string{
			m.Symbol,
			e.Sector,
			fmt.Sprintf("%.2f%%", m.TotalReturn),
			fmt.Sprintf("%.2f%%", m.AnnualReturn),
			fmt.Sprintf("%.2f%%", m.Volatility),
			fmt.Sprintf("%.2f", m.SharpeRatio),
			fmt.Sprintf("%.2f%%", m.MaxDrawdown),
		}
		d.tableRow(row, widths)
	}
	d.pdf.Ln(4)
}

func (d *reportDoc) sectorTable(stats []SectorStats) {
	header := []string{"Secteur", "Valeurs", "Rdt annualisé moyen", "Volatilité moyenne", "Sharpe moyen"}
	widths := []float64{45, 20, 42, 42, 30}

	d.tableHeader(header, widths)
	d.pdf.SetFont("Arial", "", 8)
	for _, s := range stats {
		row := []string{
			s.Sector,
			fmt.Sprintf("%d", s.Count),
			fmt.Sprintf("%.2f%%", s.AvgAnnualReturn),
			fmt.Sprintf("%.2f%%", s.AvgVolatility),
			fmt.Sprintf("%.2f", s.AvgSharpeRatio),
		}
		d.tableRow(row, widths)
	}
	d.pdf.Ln(4)
}

func (d *reportDoc) tableHeader(cols []string, widths []float64) {
	d.pdf.SetFont("Arial", "B", 8)
	d.pdf.SetFillColor(230, 230, 230)
	for i, col := range cols {
		d.pdf.CellFormat(widths[i], 7, d.tr(col), "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)
}

func (d *reportDoc) tableRow(cols []string, widths []float64) {
	for i, col := range cols {
		d.pdf.CellFormat(widths[i], 6, d.tr(col), "1", 0, "C", false, 0, "")
	}
	d.pdf.Ln(-1)
}

// image embeds a PNG rendered in memory. Width 180mm fills an A4 page
// between the margins.
func (d *reportDoc) image(name string, png []byte) {
	d.images++
	imgName := fmt.Sprintf("chart-%s-%d", name, d.images)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	d.pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(png))
	d.pdf.ImageOptions(imgName, 15, d.pdf.GetY(), 180, 0, true, opts, 0, "")
	d.pdf.Ln(4)
}

package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
)

// Dashboard writes the HTML dashboard. Charts are embedded as data URIs so
// the file is self-contained and can be opened or published as-is.
type Dashboard struct {
	dir    string
	logger arbor.ILogger
}

// NewDashboard creates a dashboard writer targeting dir.
func NewDashboard(dir string, logger arbor.ILogger) *Dashboard {
	return &Dashboard{dir: dir, logger: logger}
}

type dashboardData struct {
	GeneratedAt string
	RunID       string
	Entries     []Entry
	Sectors     []SectorStats

	PerformanceChart template.URL
	RiskReturnChart  template.URL
	SectorChart      template.URL
	BreakdownChart   template.URL
	IndexChart       template.URL
	IndexSymbol      string
}

// compositeIndex is the market index charted on the dashboard front page.
const compositeIndex = "BRVM-Composite"

// Write renders the dashboard to index.html and a dated copy. It returns
// the path of index.html.
func (d *Dashboard) Write(r *Report) (string, error) {
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return "", fmt.Errorf("create dashboard directory: %w", err)
	}

	data := dashboardData{
		GeneratedAt: r.GeneratedAt.Format("02/01/2006 15:04"),
		RunID:       r.RunID,
		Entries:     r.Entries,
		Sectors:     r.BySector(),
	}

	if png, err := PerformanceChart("Performance totale des 15 meilleures valeurs (%)", r.Top(15)); err == nil {
		data.PerformanceChart = dataURI(png)
	} else if d.logger != nil {
		d.logger.Warn().Err(err).Msg("Performance chart skipped")
	}
	if png, err := RiskReturnChart(r.Top(15)); err == nil {
		data.RiskReturnChart = dataURI(png)
	} else if d.logger != nil {
		d.logger.Warn().Err(err).Msg("Risk/return chart skipped")
	}
	if png, err := SectorChart(data.Sectors); err == nil {
		data.SectorChart = dataURI(png)
	} else if d.logger != nil {
		d.logger.Warn().Err(err).Msg("Sector chart skipped")
	}
	if png, err := SectorBreakdownChart(data.Sectors); err == nil {
		data.BreakdownChart = dataURI(png)
	}
	if s, ok := r.Series[compositeIndex]; ok {
		if png, err := PriceChart(compositeIndex, s); err == nil {
			data.IndexChart = dataURI(png)
			data.IndexSymbol = compositeIndex
		}
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render dashboard: %w", err)
	}

	indexPath := filepath.Join(d.dir, "index.html")
	if err := os.WriteFile(indexPath, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("write dashboard: %w", err)
	}

	datedPath := filepath.Join(d.dir, fmt.Sprintf("dashboard_%s.html", r.GeneratedAt.Format("2006-01-02")))
	if err := os.WriteFile(datedPath, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("write dated dashboard copy: %w", err)
	}

	if d.logger != nil {
		d.logger.Info().
			Str("path", indexPath).
			Int("entries", len(r.Entries)).
			Msg("Dashboard written")
	}

	return indexPath, nil
}

func dataURI(png []byte) template.URL {
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}

var dashboardTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"pct": func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
	"num": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"optnum": func(v *float64) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%.2f", *v)
	},
	"optpct": func(v *float64) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%.2f%%", *v)
	},
}).Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<title>Analyse des performances de la BRVM</title>
<style>
body { font-family: "Segoe UI", Arial, sans-serif; margin: 0; background: #f5f6fa; color: #2f3640; }
header { background: #192a56; color: #fff; padding: 24px 32px; }
header h1 { margin: 0 0 4px 0; font-size: 26px; }
header p { margin: 0; opacity: 0.8; font-size: 13px; }
main { padding: 24px 32px; }
section { background: #fff; border-radius: 8px; padding: 20px 24px; margin-bottom: 24px; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
h2 { margin-top: 0; font-size: 19px; color: #192a56; }
table { border-collapse: collapse; width: 100%; font-size: 13px; }
th, td { border: 1px solid #dcdde1; padding: 6px 10px; text-align: right; }
th { background: #f1f2f6; }
td:first-child, th:first-child, td.sector, th.sector { text-align: left; }
img.chart { max-width: 100%; height: auto; }
.neg { color: #c0392b; }
.pos { color: #27ae60; }
</style>
</head>
<body>
<header>
<h1>Analyse des performances de la BRVM</h1>
<p>Rapport généré le {{.GeneratedAt}} — run {{.RunID}}</p>
</header>
<main>
{{if .IndexChart}}
<section>
<h2>Évolution de l'indice {{.IndexSymbol}}</h2>
<img class="chart" src="{{.IndexChart}}" alt="Évolution de l'indice">
</section>
{{end}}
{{if .PerformanceChart}}
<section>
<h2>Meilleures performances</h2>
<img class="chart" src="{{.PerformanceChart}}" alt="Performances totales">
</section>
{{end}}
{{if .RiskReturnChart}}
<section>
<h2>Risque vs rendement</h2>
<img class="chart" src="{{.RiskReturnChart}}" alt="Risque et rendement par valeur">
</section>
{{end}}
<section>
<h2>Indicateurs par valeur</h2>
<table>
<tr>
<th>Symbole</th><th class="sector">Secteur</th><th>Début</th><th>Fin</th>
<th>Rendement total</th><th>Rendement annualisé</th><th>Volatilité</th>
<th>Sharpe</th><th>Drawdown max</th><th>PER</th><th>Dividende</th><th>Rdt dividende</th>
</tr>
{{range .Entries}}
<tr>
<td>{{.Metrics.Symbol}}</td>
<td class="sector">{{.Sector}}</td>
<td>{{.Metrics.StartDate.Format "02/01/2006"}}</td>
<td>{{.Metrics.EndDate.Format "02/01/2006"}}</td>
<td class="{{if lt .Metrics.TotalReturn 0.0}}neg{{else}}pos{{end}}">{{pct .Metrics.TotalReturn}}</td>
<td class="{{if lt .Metrics.AnnualReturn 0.0}}neg{{else}}pos{{end}}">{{pct .Metrics.AnnualReturn}}</td>
<td>{{pct .Metrics.Volatility}}</td>
<td>{{num .Metrics.SharpeRatio}}</td>
<td class="neg">{{pct .Metrics.MaxDrawdown}}</td>
<td>{{optnum .PER}}</td>
<td>{{optnum .Dividend}}</td>
<td>{{optpct .DividendYield}}</td>
</tr>
{{end}}
</table>
</section>
<section>
<h2>Analyse sectorielle</h2>
{{if .SectorChart}}<img class="chart" src="{{.SectorChart}}" alt="Performance par secteur">{{end}}
<table>
<tr>
<th class="sector">Secteur</th><th>Valeurs</th><th>Rendement annualisé moyen</th>
<th>Volatilité moyenne</th><th>Sharpe moyen</th><th>Meilleure valeur</th>
</tr>
{{range .Sectors}}
<tr>
<td class="sector">{{.Sector}}</td>
<td>{{.Count}}</td>
<td>{{pct .AvgAnnualReturn}}</td>
<td>{{pct .AvgVolatility}}</td>
<td>{{num .AvgSharpeRatio}}</td>
<td>{{.BestSymbol}} ({{pct .BestAnnualReturn}})</td>
</tr>
{{end}}
</table>
{{if .BreakdownChart}}<img class="chart" src="{{.BreakdownChart}}" alt="Répartition par secteur">{{end}}
</section>
</main>
</body>
</html>
`))

// Package app wires the collection pipeline and the report generators
// together from configuration.
package app

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/kyac99/brvm-market-analysis/internal/brvmweb"
	"github.com/kyac99/brvm-market-analysis/internal/common"
	"github.com/kyac99/brvm-market-analysis/internal/enrich"
	"github.com/kyac99/brvm-market-analysis/internal/httpclient"
	"github.com/kyac99/brvm-market-analysis/internal/report"
	"github.com/kyac99/brvm-market-analysis/internal/sector"
	"github.com/kyac99/brvm-market-analysis/internal/series"
	"github.com/kyac99/brvm-market-analysis/internal/sika"
	"github.com/kyac99/brvm-market-analysis/internal/sources"
)

// App holds the assembled services.
type App struct {
	config *common.Config
	logger arbor.ILogger

	store      *series.Store
	resolver   *sources.Resolver
	scraper    *brvmweb.Scraper
	classifier *sector.Classifier
	enrichment *enrich.Service
	cache      *enrich.Store

	dashboard *report.Dashboard
	pdf       *report.PDFWriter
	exporter  *report.Exporter
}

// New assembles the application from configuration.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	if logger == nil {
		logger = common.GetLogger()
	}

	transport := httpclient.New(httpclient.Options{
		UserAgent:       config.HTTP.UserAgent,
		AcceptLanguage:  config.HTTP.AcceptLanguage,
		Accept:          config.HTTP.Accept,
		RequestTimeout:  config.HTTP.RequestTimeout.Duration(),
		PolitenessDelay: config.HTTP.PolitenessDelay.Duration(),
	}, logger)

	sikaClient := sika.NewClient(transport,
		sika.WithBaseURL(config.Sources.SikaBaseURL),
		sika.WithLogger(logger),
		sika.WithRateLimit(config.Sources.RateLimit),
	)
	scraper := brvmweb.New(transport,
		brvmweb.WithBaseURL(config.Sources.BRVMBaseURL),
		brvmweb.WithLogger(logger),
	)

	var ordered []sources.Source
	for _, name := range config.Sources.Priority {
		switch name {
		case "sika":
			ordered = append(ordered, sources.NewSikaSource(sikaClient))
		case "brvm":
			ordered = append(ordered, sources.NewBRVMSource(scraper))
		default:
			return nil, fmt.Errorf("unknown source %q in priority list", name)
		}
	}

	cache, err := enrich.OpenStore(config.Storage.Cache.Path, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		config:     config,
		logger:     logger,
		store:      series.NewStore(config.Storage.DataDir, logger),
		resolver:   sources.NewResolver(logger, ordered...),
		scraper:    scraper,
		classifier: sector.NewDefault(),
		enrichment: enrich.NewService(cache, sikaClient, config.Storage.Cache.TTL.Duration(), logger),
		cache:      cache,
		dashboard:  report.NewDashboard(config.Reports.DashboardDir, logger),
		pdf:        report.NewPDFWriter(config.Reports.PDFDir, logger),
		exporter:   report.NewExporter(config.Reports.ExportsDir, logger),
	}, nil
}

// Close releases held resources.
func (a *App) Close() error {
	if a.cache != nil {
		return a.cache.Close()
	}
	return nil
}

package app

import (
	"context"
	"fmt"

	"github.com/kyac99/brvm-market-analysis/internal/report"
)

// Analyze loads every saved series and builds the analysis report,
// classifying each symbol and joining in cached fundamentals.
func (a *App) Analyze(ctx context.Context) (*report.Report, error) {
	data, err := a.store.LoadAll()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no series files in %s; run a collection first", a.store.Dir())
	}

	r := report.Build(ctx, data, a.classifier, a.enrichment, a.logger)
	if len(r.Entries) == 0 {
		return nil, fmt.Errorf("no series long enough to analyze")
	}
	return r, nil
}

// ReportOutputs selects which artifacts to produce.
type ReportOutputs struct {
	Dashboard bool
	PDF       bool
	Export    bool
}

// Report builds the analysis and writes the requested artifacts.
func (a *App) Report(ctx context.Context, outputs ReportOutputs) (*report.Report, error) {
	r, err := a.Analyze(ctx)
	if err != nil {
		return nil, err
	}

	if outputs.Dashboard {
		if _, err := a.dashboard.Write(r); err != nil {
			return r, err
		}
	}
	if outputs.PDF {
		if _, err := a.pdf.Write(r); err != nil {
			return r, err
		}
	}
	if outputs.Export {
		if _, err := a.exporter.Write(r); err != nil {
			return r, err
		}
	}

	return r, nil
}

// Refresh runs a full cycle: collect, then write every artifact. It is the
// task the scheduler drives.
func (a *App) Refresh(ctx context.Context) error {
	result, err := a.Collect(ctx)
	if err != nil {
		return err
	}
	if result.Collected == 0 {
		return fmt.Errorf("collection produced no data")
	}

	_, err = a.Report(ctx, ReportOutputs{Dashboard: true, PDF: true, Export: true})
	return err
}

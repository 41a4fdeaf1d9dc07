package app

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CollectResult summarizes one collection run.
type CollectResult struct {
	RunID     string
	Started   time.Time
	Duration  time.Duration
	Symbols   int
	Collected int
	Skipped   []string
	BySource  map[string]int
}

// Collect discovers the universe, resolves each symbol's history through the
// source chain and saves the canonical series files. Symbols for which no
// source produces data are skipped, never fatal.
func (a *App) Collect(ctx context.Context) (*CollectResult, error) {
	result := &CollectResult{
		RunID:    uuid.New().String(),
		Started:  time.Now(),
		BySource: make(map[string]int),
	}

	symbols, err := a.universe(ctx)
	if err != nil {
		return nil, err
	}
	result.Symbols = len(symbols)

	a.logger.Info().
		Str("run_id", result.RunID).
		Int("symbols", len(symbols)).
		Msg("Collection started")

	from := a.config.Sources.StartDate.Time
	to := time.Now()

	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		s, source := a.resolver.Resolve(ctx, symbol, from, to)
		if s.Empty() {
			result.Skipped = append(result.Skipped, symbol)
			continue
		}

		if err := a.store.Save(symbol, s); err != nil {
			a.logger.Error().Str("symbol", symbol).Err(err).Msg("Failed to save series")
			result.Skipped = append(result.Skipped, symbol)
			continue
		}

		result.Collected++
		result.BySource[source]++
	}

	result.Duration = time.Since(result.Started)

	a.logger.Info().
		Str("run_id", result.RunID).
		Int("collected", result.Collected).
		Int("skipped", len(result.Skipped)).
		Str("duration", result.Duration.String()).
		Msg("Collection finished")

	return result, nil
}

// universe returns the symbols to collect: the scraped listing plus the
// configured indices and extra symbols, deduplicated, in stable order.
func (a *App) universe(ctx context.Context) ([]string, error) {
	var symbols []string

	if !a.config.Universe.SkipDiscovery {
		securities, err := a.scraper.ListSecurities(ctx)
		if err != nil {
			a.logger.Warn().Err(err).Msg("Universe discovery failed, using configured symbols only")
		}
		for _, sec := range securities {
			symbols = append(symbols, sec.Symbol)
		}
	}

	symbols = append(symbols, a.config.Universe.ExtraSymbols...)
	symbols = append(symbols, a.config.Universe.Indices...)

	seen := make(map[string]bool, len(symbols))
	unique := symbols[:0]
	for _, s := range symbols {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		unique = append(unique, s)
	}
	return unique, nil
}

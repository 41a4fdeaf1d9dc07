package sources

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/kyac99/brvm-market-analysis/internal/series"
)

// Resolver tries each source in priority order and keeps the first
// non-empty series. Sources are never merged: a symbol's history comes
// entirely from a single source. A source error counts as an empty result
// and triggers the next source in line.
type Resolver struct {
	sources []Source
	logger  arbor.ILogger
}

// NewResolver creates a resolver over the given sources, tried in order.
func NewResolver(logger arbor.ILogger, srcs ...Source) *Resolver {
	return &Resolver{sources: srcs, logger: logger}
}

// Resolve returns the first non-empty series for the symbol along with the
// name of the source that produced it. When every source comes back empty
// or failing, it returns an empty series and an empty source name; the
// caller decides whether to skip the symbol.
func (r *Resolver) Resolve(ctx context.Context, symbol string, from, to time.Time) (series.Series, string) {
	for _, src := range r.sources {
		if ctx.Err() != nil {
			return nil, ""
		}

		s, err := src.FetchHistory(ctx, symbol, from, to)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn().
					Str("source", src.Name()).
					Str("symbol", symbol).
					Err(err).
					Msg("Source failed, trying next")
			}
			continue
		}
		if s.Empty() {
			if r.logger != nil {
				r.logger.Debug().
					Str("source", src.Name()).
					Str("symbol", symbol).
					Msg("Source returned no data, trying next")
			}
			continue
		}

		if r.logger != nil {
			r.logger.Info().
				Str("source", src.Name()).
				Str("symbol", symbol).
				Int("records", len(s)).
				Msg("History resolved")
		}
		return s, src.Name()
	}

	if r.logger != nil {
		r.logger.Warn().Str("symbol", symbol).Msg("No source produced data for symbol")
	}
	return nil, ""
}

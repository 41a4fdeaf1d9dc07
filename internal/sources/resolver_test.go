package sources

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyac99/brvm-market-analysis/internal/series"
)

type stubSource struct {
	name   string
	result series.Series
	err    error
	calls  int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) FetchHistory(ctx context.Context, symbol string, from, to time.Time) (series.Series, error) {
	s.calls++
	return s.result, s.err
}

func someSeries(symbol string) series.Series {
	return series.Series{
		{Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Close: 5000, Symbol: symbol},
		{Date: time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), Close: 5150, Symbol: symbol},
	}
}

func TestResolveFirstSourceWins(t *testing.T) {
	first := &stubSource{name: "sika", result: someSeries("SNTS")}
	second := &stubSource{name: "brvm", result: someSeries("SNTS")}

	r := NewResolver(nil, first, second)
	got, source := r.Resolve(context.Background(), "SNTS", time.Time{}, time.Now())

	require.Len(t, got, 2)
	assert.Equal(t, "sika", source)
	assert.Equal(t, 0, second.calls, "later sources are not consulted once one succeeds")
}

func TestResolveFallsBackOnEmpty(t *testing.T) {
	first := &stubSource{name: "sika"}
	second := &stubSource{name: "brvm", result: someSeries("SNTS")}

	r := NewResolver(nil, first, second)
	got, source := r.Resolve(context.Background(), "SNTS", time.Time{}, time.Now())

	require.Len(t, got, 2)
	assert.Equal(t, "brvm", source)
	assert.Equal(t, 1, first.calls)
}

func TestResolveFallsBackOnError(t *testing.T) {
	first := &stubSource{name: "sika", err: errors.New("boom")}
	second := &stubSource{name: "brvm", result: someSeries("SNTS")}

	r := NewResolver(nil, first, second)
	got, source := r.Resolve(context.Background(), "SNTS", time.Time{}, time.Now())

	require.Len(t, got, 2)
	assert.Equal(t, "brvm", source)
}

func TestResolveAllSourcesEmpty(t *testing.T) {
	first := &stubSource{name: "sika"}
	second := &stubSource{name: "brvm", err: errors.New("boom")}

	r := NewResolver(nil, first, second)
	got, source := r.Resolve(context.Background(), "SNTS", time.Time{}, time.Now())

	assert.True(t, got.Empty())
	assert.Empty(t, source)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestResolveNeverMerges(t *testing.T) {
	partial := series.Series{
		{Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), Close: 100, Symbol: "SNTS"},
	}
	first := &stubSource{name: "sika", result: partial}
	second := &stubSource{name: "brvm", result: someSeries("SNTS")}

	r := NewResolver(nil, first, second)
	got, source := r.Resolve(context.Background(), "SNTS", time.Time{}, time.Now())

	require.Len(t, got, 1, "a non-empty first source is used as-is, never augmented")
	assert.Equal(t, "sika", source)
	assert.Equal(t, 0, second.calls)
}

func TestResolveCancelledContext(t *testing.T) {
	first := &stubSource{name: "sika", result: someSeries("SNTS")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewResolver(nil, first)
	got, source := r.Resolve(ctx, "SNTS", time.Time{}, time.Now())

	assert.True(t, got.Empty())
	assert.Empty(t, source)
	assert.Equal(t, 0, first.calls)
}

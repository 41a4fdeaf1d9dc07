// Package series defines the canonical price history format shared by every
// data source and consumer in the application: one deduplicated, date-sorted
// sequence of daily records per instrument, independent of which upstream
// source produced it.
package series

import (
	"sort"
	"time"
)

// DateFormat is the normalized date layout used in persisted files.
const DateFormat = "2006-01-02"

// Record is a single trading day for one instrument. Close is always present;
// Open, High and Low are nil when the upstream source omitted them. A row
// without a usable closing price is invalid and must be dropped before it
// reaches a Series.
type Record struct {
	Date   time.Time
	Open   *float64
	High   *float64
	Low    *float64
	Close  float64
	Volume int64
	Symbol string
}

// Series is the canonical price history for one symbol, ordered by ascending
// trading date with at most one record per date.
type Series []Record

// Empty reports whether the series holds no records.
func (s Series) Empty() bool { return len(s) == 0 }

// First returns the earliest record. Callers must check Empty first.
func (s Series) First() Record { return s[0] }

// Last returns the most recent record.
func (s Series) Last() Record { return s[len(s)-1] }

// Closes returns the closing prices in series order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, r := range s {
		closes[i] = r.Close
	}
	return closes
}

// Normalize returns a new series sorted by ascending date with duplicate
// dates collapsed. When a date appears more than once, the record arriving
// later in source order wins; this is a deliberate policy, upstream sources
// occasionally republish a corrected row for the same session.
func Normalize(records []Record) Series {
	if len(records) == 0 {
		return Series{}
	}

	byDate := make(map[string]Record, len(records))
	for _, r := range records {
		byDate[dateKey(r.Date)] = r
	}

	out := make(Series, 0, len(byDate))
	for _, r := range byDate {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func dateKey(t time.Time) string { return t.Format(DateFormat) }

// Float returns a pointer to v. Convenience for building records with
// optional fields.
func Float(v float64) *float64 { return &v }

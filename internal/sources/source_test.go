package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyac99/brvm-market-analysis/internal/brvmweb"
	"github.com/kyac99/brvm-market-analysis/internal/httpclient"
	"github.com/kyac99/brvm-market-analysis/internal/series"
	"github.com/kyac99/brvm-market-analysis/internal/sika"
)

func testTransport() *httpclient.Client {
	return httpclient.New(httpclient.Options{
		UserAgent:      "test-agent",
		AcceptLanguage: "fr-FR",
		Accept:         "*/*",
	}, nil)
}

func tradingDays(n int) []time.Time {
	days := make([]time.Time, n)
	for i := range days {
		days[i] = time.Date(2024, 3, 1+i, 0, 0, 0, 0, time.UTC)
	}
	return days
}

// Upstream sources occasionally republish a corrected row for a session
// already in the payload. Feed each adapter a large response where every
// date appears many times, closes drifting row by row, and check that the
// series keeps the last row seen per date.
func TestSikaSourceDuplicateDatesLastRowWins(t *testing.T) {
	days := tradingDays(7)
	want := make(map[string]float64)

	var rows []string
	for i := 0; i < 300; i++ {
		d := days[i%len(days)]
		closeVal := 100.0 + float64(i)
		want[d.Format(series.DateFormat)] = closeVal
		rows = append(rows, fmt.Sprintf(
			`{"date": %q, "ouverture": 100, "plus_haut": 110, "plus_bas": 90, "cloture": %.2f, "variation": 0, "volume": %d}`,
			d.Format("2006-01-02T15:04:05"), closeVal, i))
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"intraday": [%s]}`, strings.Join(rows, ","))
	}))
	defer server.Close()

	client := sika.NewClient(testTransport(), sika.WithBaseURL(server.URL), sika.WithRateLimit(1000))
	src := NewSikaSource(client)

	s, err := src.FetchHistory(context.Background(), "SNTS", days[0], days[len(days)-1])
	require.NoError(t, err)
	require.Len(t, s, len(days), "one record per session")

	for _, rec := range s {
		key := rec.Date.Format(series.DateFormat)
		assert.Equal(t, want[key], rec.Close, "last row for %s must win", key)
	}
	assert.True(t, s[0].Date.Before(s[len(s)-1].Date), "series sorted ascending")
}

func TestBRVMSourceDuplicateDatesLastRowWins(t *testing.T) {
	days := tradingDays(7)
	want := make(map[string]float64)

	var rows strings.Builder
	for i := 0; i < 300; i++ {
		d := days[i%len(days)]
		want[d.Format(series.DateFormat)] = 100.0 + float64(i)
		fmt.Fprintf(&rows,
			"<tr><td>%s</td><td>100,00</td><td>110,00</td><td>90,00</td><td>%d,00</td><td>%d</td></tr>",
			d.Format("02/01/2006"), 100+i, i)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><table class="table"><tbody>%s</tbody></table></body></html>`, rows.String())
	}))
	defer server.Close()

	scraper := brvmweb.New(testTransport(), brvmweb.WithBaseURL(server.URL))
	src := NewBRVMSource(scraper)

	s, err := src.FetchHistory(context.Background(), "BRVM-Composite", days[0], days[len(days)-1])
	require.NoError(t, err)
	require.Len(t, s, len(days), "one record per session")

	for _, rec := range s {
		key := rec.Date.Format(series.DateFormat)
		assert.Equal(t, want[key], rec.Close, "last row for %s must win", key)
	}
}

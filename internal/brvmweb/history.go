package brvmweb

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/kyac99/brvm-market-analysis/internal/common"
)

// tableDateLayout is the date format used in the quotes table (DD/MM/YYYY).
const tableDateLayout = "02/01/2006"

// GetHistory scrapes the historical quotes table for a symbol. Rows without
// a parseable date or closing price are dropped; blank open, high, low or
// volume cells are tolerated. Results are sorted by date ascending.
func (s *Scraper) GetHistory(ctx context.Context, symbol string, from, to time.Time) ([]Quote, error) {
	params := url.Values{}
	params.Set("start", from.Format("2006-01-02"))
	params.Set("end", to.Format("2006-01-02"))
	pageURL := s.baseURL + historyPathPrefix + url.PathEscape(symbol) + "?" + params.Encode()

	if s.logger != nil {
		s.logger.Debug().
			Str("symbol", symbol).
			Str("url", pageURL).
			Msg("BRVM history request")
	}

	body, err := s.http.Get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch history page for %s: %w", symbol, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse history page for %s: %w", symbol, err)
	}

	table := doc.Find("table.table").First()
	if table.Length() == 0 {
		if s.logger != nil {
			s.logger.Warn().Str("symbol", symbol).Msg("No quotes table on BRVM history page")
		}
		return nil, nil
	}

	var quotes []Quote
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 6 {
			return
		}

		date, err := time.Parse(tableDateLayout, strings.TrimSpace(cells.Eq(0).Text()))
		if err != nil {
			return
		}
		closeVal, ok := common.ParseLocaleFloat(cells.Eq(4).Text())
		if !ok {
			return
		}

		q := Quote{
			Date:  date,
			Open:  optionalCell(cells.Eq(1).Text()),
			High:  optionalCell(cells.Eq(2).Text()),
			Low:   optionalCell(cells.Eq(3).Text()),
			Close: closeVal,
		}
		if v, ok := common.ParseLocaleInt(cells.Eq(5).Text()); ok {
			q.Volume = v
		}
		quotes = append(quotes, q)
	})

	// Stable so duplicate-date rows keep their page order for downstream
	// deduplication.
	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].Date.Before(quotes[j].Date)
	})

	if s.logger != nil {
		s.logger.Debug().
			Str("symbol", symbol).
			Int("rows", len(quotes)).
			Msg("BRVM history parsed")
	}

	return quotes, nil
}

func optionalCell(text string) *float64 {
	if v, ok := common.ParseLocaleFloat(text); ok {
		return &v
	}
	return nil
}

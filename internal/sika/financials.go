package sika

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/kyac99/brvm-market-analysis/internal/common"
)

const companyPath = "/bourse/societe/"

// FinancialYears are the fiscal years extracted from company pages.
var FinancialYears = []int{2020, 2021, 2022, 2023, 2024}

// YearValue is a per-year figure scraped from a company page. Found
// distinguishes a genuine zero from a dash or absent cell.
type YearValue struct {
	Value float64
	Found bool
}

// CompanyFinancials holds the fundamentals scraped for one security.
type CompanyFinancials struct {
	Symbol           string
	PER              map[int]YearValue
	DividendPerShare map[int]YearValue
	FetchedAt        time.Time
}

// HasData reports whether at least one figure was found on the page.
func (f *CompanyFinancials) HasData() bool {
	for _, v := range f.PER {
		if v.Found {
			return true
		}
	}
	for _, v := range f.DividendPerShare {
		if v.Found {
			return true
		}
	}
	return false
}

// perMarkers and dividendMarkers identify the relevant tables on a company
// page. The page layout varies between securities, so matching is on table
// text rather than structure.
var (
	perMarkers      = []string{"PER", "P/E", "Price Earning Ratio"}
	dividendMarkers = []string{"Dividende", "DPA", "Div/Action"}
)

// GetFinancials scrapes P/E ratios and dividends per share from a security's
// company page. Missing tables or cells are not errors; check HasData on the
// result.
func (c *Client) GetFinancials(ctx context.Context, symbol string) (*CompanyFinancials, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &RateLimitError{RetryAfter: time.Second}
	}

	url := c.baseURL + companyPath + symbol

	if c.logger != nil {
		c.logger.Debug().
			Str("symbol", symbol).
			Str("url", url).
			Msg("Sika Finance company page request")
	}

	body, err := c.http.Get(ctx, url)
	if err != nil {
		return nil, wrapTransportError(err, companyPath+symbol)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse company page: %w", err)
	}

	result := &CompanyFinancials{
		Symbol:           symbol,
		PER:              make(map[int]YearValue, len(FinancialYears)),
		DividendPerShare: make(map[int]YearValue, len(FinancialYears)),
		FetchedAt:        time.Now(),
	}

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		text := table.Text()
		if containsAny(text, perMarkers) {
			collectYearValues(table, result.PER)
		}
		if containsAny(text, dividendMarkers) {
			collectYearValues(table, result.DividendPerShare)
		}
	})

	return result, nil
}

// collectYearValues walks a table's rows and records, for each fiscal year,
// the first value whose row header mentions that year. Earlier finds win so a
// second matching table lower on the page does not overwrite.
func collectYearValues(table *goquery.Selection, dest map[int]YearValue) {
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		header := strings.TrimSpace(cells.Eq(0).Text())
		for _, year := range FinancialYears {
			if !strings.Contains(header, strconv.Itoa(year)) {
				continue
			}
			if _, done := dest[year]; done {
				continue
			}
			if v, ok := common.ParseLocaleFloat(cells.Eq(1).Text()); ok {
				dest[year] = YearValue{Value: v, Found: true}
			} else {
				dest[year] = YearValue{}
			}
		}
	})
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

package brvmweb

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ListSecurities scrapes the listed-securities page and returns all equities
// currently trading on the exchange. Indices are not listed there; callers
// append them separately.
func (s *Scraper) ListSecurities(ctx context.Context) ([]Security, error) {
	pageURL := s.baseURL + listingPath

	body, err := s.http.Get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch securities listing: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse securities listing: %w", err)
	}

	table := doc.Find("table.table").First()
	if table.Length() == 0 {
		return nil, nil
	}

	var securities []Security
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		symbol := strings.TrimSpace(cells.Eq(0).Text())
		if symbol == "" {
			return
		}
		securities = append(securities, Security{
			Symbol: symbol,
			Name:   strings.TrimSpace(cells.Eq(1).Text()),
		})
	})

	if s.logger != nil {
		s.logger.Info().
			Int("count", len(securities)).
			Msg("Listed securities retrieved")
	}

	return securities, nil
}

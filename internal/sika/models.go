package sika

import (
	"bytes"
	"math"
	"time"

	"github.com/kyac99/brvm-market-analysis/internal/common"
)

// Number is a float64 that tolerates the formats the Sika API actually
// emits: plain JSON numbers, quoted numbers, French-formatted strings
// with comma decimals, and empty or dash placeholders for missing cells.
// Missing or unparseable values decode to NaN.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if s == "" || s == "null" {
		*n = Number(math.NaN())
		return nil
	}
	v, ok := common.ParseLocaleFloat(s)
	if !ok {
		*n = Number(math.NaN())
		return nil
	}
	*n = Number(v)
	return nil
}

// Valid reports whether the number carries an actual value.
func (n Number) Valid() bool {
	return !math.IsNaN(float64(n))
}

// QuoteData represents a single trading day returned by the history endpoint.
type QuoteData struct {
	Date      time.Time `json:"-"`
	DateStr   string    `json:"date"`
	Open      Number    `json:"ouverture"`
	High      Number    `json:"plus_haut"`
	Low       Number    `json:"plus_bas"`
	Close     Number    `json:"cloture"`
	Variation Number    `json:"variation"`
	Volume    Number    `json:"volume"`
}

// HistoryResponse is the envelope returned by the GetHistorique endpoint.
type HistoryResponse struct {
	Intraday []QuoteData `json:"intraday"`
}

// historyRequest is the JSON payload for the GetHistorique endpoint.
type historyRequest struct {
	Ticker    string `json:"ticker"`
	DateDebut string `json:"dateDebut"`
	DateFin   string `json:"dateFin"`
}

// dateLayouts are the date formats observed in Sika API responses.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

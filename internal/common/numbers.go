package common

import (
	"strconv"
	"strings"
)

// ParseLocaleFloat parses a French-formatted decimal: comma as decimal
// separator, regular or non-breaking space as thousands separator.
// An empty cell or a dash placeholder reports ok=false.
func ParseLocaleFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, false
	}
	s = strings.ReplaceAll(s, "\u00a0", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseLocaleInt parses an integer with space thousands separators.
// An empty cell reports 0, true; volumes are frequently blank for indices.
func ParseLocaleInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	s = strings.ReplaceAll(s, "\u00a0", "")
	s = strings.ReplaceAll(s, " ", "")
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

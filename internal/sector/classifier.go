// Package sector maps exchange symbols to a fixed set of sector labels.
package sector

import "strings"

// Sector labels form a closed set. Symbols outside the static table map to
// Index when they follow the exchange's index naming convention, Other
// otherwise.
const (
	Banking        = "Banking"
	AgroIndustry   = "Agro-industry"
	Distribution   = "Distribution"
	PublicServices = "Public Services"
	Industry       = "Industry"
	Transport      = "Transport"
	Index          = "Index"
	Other          = "Other"
)

// indexPrefix is the naming convention shared by all exchange indices
// (BRVM-Composite, BRVM-30, BRVM-Prestige, ...).
const indexPrefix = "BRVM"

// Classifier answers sector lookups against an immutable table built once at
// process start. It performs no I/O and has no failure mode.
type Classifier struct {
	bySymbol map[string]string
}

// DefaultTable returns the static sector membership of the quoted universe.
func DefaultTable() map[string][]string {
	return map[string][]string{
		Banking:        {"SGBCI", "BOA", "ECOBANK", "SIB", "NSIA", "BICI", "BDM", "CORIS"},
		AgroIndustry:   {"SOGB", "SAPH", "PALC", "SIFCA", "SICOR", "SUCRIVOIRE"},
		Distribution:   {"CFAO", "BERNABE", "VIVO", "TOTAL"},
		PublicServices: {"SODECI", "CIE", "SONATEL", "ONATEL"},
		Industry:       {"NESTLE", "SOLIBRA", "SMB", "UNIWAX", "FILTISAC", "AIR"},
		Transport:      {"BOLLORE", "MOVIS", "SETAO"},
	}
}

// New builds a classifier from a sector -> symbols table. The table is
// copied; later mutation of the argument does not affect the classifier.
func New(table map[string][]string) *Classifier {
	bySymbol := make(map[string]string)
	for label, symbols := range table {
		for _, s := range symbols {
			bySymbol[s] = label
		}
	}
	return &Classifier{bySymbol: bySymbol}
}

// NewDefault builds a classifier over the default table.
func NewDefault() *Classifier {
	return New(DefaultTable())
}

// Classify returns the sector label for a symbol.
func (c *Classifier) Classify(symbol string) string {
	if label, ok := c.bySymbol[symbol]; ok {
		return label
	}
	if strings.HasPrefix(symbol, indexPrefix) {
		return Index
	}
	return Other
}

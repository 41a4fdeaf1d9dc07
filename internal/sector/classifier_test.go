package sector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	c := NewDefault()

	tests := []struct {
		symbol string
		want   string
	}{
		{"SONATEL", PublicServices},
		{"SGBCI", Banking},
		{"SAPH", AgroIndustry},
		{"CFAO", Distribution},
		{"NESTLE", Industry},
		{"BOLLORE", Transport},
		{"BRVM-30", Index},
		{"BRVM-Composite", Index},
		{"UNKNOWNCO", Other},
		{"", Other},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.symbol))
		})
	}
}

func TestNewCopiesTable(t *testing.T) {
	table := map[string][]string{Banking: {"XBANK"}}
	c := New(table)

	table[Banking] = []string{"OTHERBANK"}

	assert.Equal(t, Banking, c.Classify("XBANK"))
	assert.Equal(t, Other, c.Classify("OTHERBANK"))
}

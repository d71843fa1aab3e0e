package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPercentOf(t *testing.T) {
	tests := []struct {
		part  string
		whole string
		want  float64
	}{
		{"50", "200", 25},
		{"1", "3", 33.3},
		{"200", "100", 200},
		{"10", "0", 0},
		{"10", "-5", 0},
		{"0", "100", 0},
	}
	for _, tt := range tests {
		part, _ := decimal.NewFromString(tt.part)
		whole, _ := decimal.NewFromString(tt.whole)
		assert.InDelta(t, tt.want, percentOf(part, whole), 0.001, "%s/%s", tt.part, tt.whole)
	}
}

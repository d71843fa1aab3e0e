package reports

import (
	"testing"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"100", "100.00"},
		{"1250", "1,250.00"},
		{"1250000.5", "1,250,000.50"},
		{"-98765.43", "-98,765.43"},
	}
	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.in)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, formatAmount(d))
	}
}

func TestTrimTo(t *testing.T) {
	assert.Equal(t, "short", trimTo("short", 10))
	assert.Equal(t, "spaced", trimTo("  spaced  ", 10))
	long := "a very long category name that will not fit"
	got := trimTo(long, 12)
	assert.Equal(t, long[:11]+"…", got)

	cyrillic := "Продажа товаров и услуг населению по безналичному расчету"
	got = trimTo(cyrillic, 20)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, []rune(cyrillic)[:19], []rune(got)[:19])
	assert.Len(t, []rune(got), 20)
	assert.Equal(t, "Касса", trimTo("Касса", 40))
}

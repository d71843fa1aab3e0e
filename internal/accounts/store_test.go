package accounts

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNextBalance(t *testing.T) {
	tests := []struct {
		name    string
		current string
		delta   string
		want    string
		wantErr bool
	}{
		{"credit", "100.00", "50.00", "150.00", false},
		{"debit", "100.00", "-40.00", "60.00", false},
		{"drain to zero", "75000.50", "-75000.50", "0", false},
		{"overdraft by a tiyin", "100.00", "-100.01", "", true},
		{"debit from empty", "0", "-1", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := nextBalance(dec(tt.current), dec(tt.delta))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInsufficientFunds)
				return
			}
			assert.NoError(t, err)
			assert.True(t, next.Equal(dec(tt.want)), "got %s", next)
		})
	}
}

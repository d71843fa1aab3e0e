package paymethods

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/accounts"
)

func TestAccountTypeForName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Наличные", accounts.TypeCash},
		{"наличные в кассе", accounts.TypeCash},
		{"Cash", accounts.TypeCash},
		{"Petty cash drawer", accounts.TypeCash},
		{"Карта", accounts.TypeBank},
		{"Click", accounts.TypeBank},
		{"Payme", accounts.TypeBank},
		{"", accounts.TypeBank},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AccountTypeForName(tt.name))
		})
	}
}

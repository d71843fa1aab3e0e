package paymethods

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	DefaultAccountID  *int64          `json:"default_account_id,omitempty"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
}

type CreatePaymentMethodRequest struct {
	Name              string          `json:"name"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	DefaultAccountID  *int64          `json:"default_account_id"`
}

type UpdatePaymentMethodRequest struct {
	Name              *string          `json:"name"`
	CommissionPercent *decimal.Decimal `json:"commission_percent"`
	DefaultAccountID  *int64           `json:"default_account_id"`
	IsActive          *bool            `json:"is_active"`
}

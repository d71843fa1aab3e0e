package timeline

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeExpense    = "expense"
	TypeIncome     = "income"
	TypeTransfer   = "transfer"
	TypeIncasation = "incasation"
)

func ValidType(t string) bool {
	switch t {
	case TypeExpense, TypeIncome, TypeTransfer, TypeIncasation:
		return true
	}
	return false
}

// Entry is one timeline row as stored. AccountID is the account an
// expense/income actually hit, recorded at create time; reversal always uses
// it instead of re-resolving the payment method.
type Entry struct {
	ID              int64
	Date            time.Time
	Type            string
	Amount          decimal.Decimal
	CategoryID      *int64
	AccountID       *int64
	PaymentMethodID *int64
	FromAccountID   *int64
	ToAccountID     *int64
	Commission      decimal.Decimal
	Description     *string
	LocationID      *int64
	UserID          int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Record is an Entry with its joined display names, the shape every read
// endpoint returns.
type Record struct {
	ID                int64           `json:"id"`
	Date              string          `json:"date"`
	Type              string          `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	CategoryID        *int64          `json:"category_id,omitempty"`
	CategoryName      *string         `json:"category_name,omitempty"`
	AccountID         *int64          `json:"account_id,omitempty"`
	AccountName       *string         `json:"account_name,omitempty"`
	PaymentMethodID   *int64          `json:"payment_method_id,omitempty"`
	PaymentMethodName *string         `json:"payment_method_name,omitempty"`
	FromAccountID     *int64          `json:"from_account_id,omitempty"`
	FromAccountName   *string         `json:"from_account_name,omitempty"`
	ToAccountID       *int64          `json:"to_account_id,omitempty"`
	ToAccountName     *string         `json:"to_account_name,omitempty"`
	Commission        decimal.Decimal `json:"commission"`
	Description       *string         `json:"description,omitempty"`
	LocationID        *int64          `json:"location_id,omitempty"`
	LocationName      *string         `json:"location_name,omitempty"`
	UserID            int64           `json:"user_id"`
	CreatedByName     *string         `json:"created_by_name,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ListFilter narrows the timeline listing. Zero values mean "no filter".
type ListFilter struct {
	StartDate string
	EndDate   string
	Type      string
	Limit     int
	Offset    int
}

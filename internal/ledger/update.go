package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/timeline"
)

// UpdateRequest enumerates every field a transaction update may touch. The
// transaction type itself is immutable; delete and recreate instead.
type UpdateRequest struct {
	Date            *string          `json:"date"`
	Amount          *decimal.Decimal `json:"amount"`
	CategoryID      *int64           `json:"category_id"`
	AccountID       *int64           `json:"account_id"`
	PaymentMethodID *int64           `json:"payment_method_id"`
	FromAccountID   *int64           `json:"from_account_id"`
	ToAccountID     *int64           `json:"to_account_id"`
	Commission      *decimal.Decimal `json:"commission"`
	Description     *string          `json:"description"`
	LocationID      *int64           `json:"location_id"`
}

// mergeUpdate applies an update request onto a stored entry and reports
// whether the change moves money (so the engine knows to reverse the old
// effect and apply the new one) and whether the affected account must be
// re-resolved from the payment method. Pure; nothing is written here.
//
// The old entry is never mutated: its stored effect is what gets reversed.
func mergeUpdate(old *timeline.Entry, req UpdateRequest) (next timeline.Entry, balanceChanged, reResolve bool, err error) {
	next = *old

	if req.Date != nil {
		date, perr := time.Parse("2006-01-02", *req.Date)
		if perr != nil {
			return next, false, false, fmt.Errorf("%w: must be YYYY-MM-DD", ErrInvalidDate)
		}
		next.Date = date
	}
	if req.Description != nil {
		next.Description = req.Description
	}
	if req.LocationID != nil {
		next.LocationID = req.LocationID
	}

	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return next, false, false, ErrInvalidAmount
		}
		if !req.Amount.Equal(old.Amount) {
			next.Amount = *req.Amount
			balanceChanged = true
		}
	}

	if req.Commission != nil {
		if old.Type != timeline.TypeTransfer {
			return next, false, false, fmt.Errorf("%w: commission", ErrFieldNotAllowed)
		}
		if req.Commission.IsNegative() {
			return next, false, false, ErrInvalidAmount
		}
		if !req.Commission.Equal(old.Commission) {
			next.Commission = *req.Commission
			balanceChanged = true
		}
	}

	switch old.Type {
	case timeline.TypeExpense, timeline.TypeIncome:
		if req.FromAccountID != nil || req.ToAccountID != nil {
			return next, false, false, fmt.Errorf("%w: from/to accounts", ErrFieldNotAllowed)
		}
		// Category type-matching is intentionally only checked at create
		// time; an update may move a transaction onto a mismatched category,
		// same as it always has.
		if req.CategoryID != nil {
			next.CategoryID = req.CategoryID
		}
		if req.AccountID != nil {
			if old.AccountID == nil || *req.AccountID != *old.AccountID {
				balanceChanged = true
			}
			next.AccountID = req.AccountID
		}
		if req.PaymentMethodID != nil {
			if old.PaymentMethodID == nil || *req.PaymentMethodID != *old.PaymentMethodID {
				next.PaymentMethodID = req.PaymentMethodID
				// Only re-resolve when no explicit account accompanies the
				// new payment method. The OLD effect still reverses against
				// the account stored on the row.
				if req.AccountID == nil {
					balanceChanged = true
					reResolve = true
				}
			}
		}
	case timeline.TypeTransfer, timeline.TypeIncasation:
		if req.CategoryID != nil || req.AccountID != nil || req.PaymentMethodID != nil {
			return next, false, false, fmt.Errorf("%w: category/account refs", ErrFieldNotAllowed)
		}
		if req.FromAccountID != nil && (old.FromAccountID == nil || *req.FromAccountID != *old.FromAccountID) {
			next.FromAccountID = req.FromAccountID
			balanceChanged = true
		}
		if req.ToAccountID != nil && (old.ToAccountID == nil || *req.ToAccountID != *old.ToAccountID) {
			next.ToAccountID = req.ToAccountID
			balanceChanged = true
		}
		if next.FromAccountID != nil && next.ToAccountID != nil && *next.FromAccountID == *next.ToAccountID {
			return next, false, false, ErrSameAccount
		}
	}

	return next, balanceChanged, reResolve, nil
}

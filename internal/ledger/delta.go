package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/accounts"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/timeline"
)

// Draft is a transaction as submitted by a client, before account resolution.
type Draft struct {
	Date            string           `json:"date"`
	Type            string           `json:"type"`
	Amount          decimal.Decimal  `json:"amount"`
	CategoryID      *int64           `json:"category_id"`
	AccountID       *int64           `json:"account_id"`
	PaymentMethodID *int64           `json:"payment_method_id"`
	FromAccountID   *int64           `json:"from_account_id"`
	ToAccountID     *int64           `json:"to_account_id"`
	Commission      *decimal.Decimal `json:"commission"`
	Description     *string          `json:"description"`
	LocationID      *int64           `json:"location_id"`
}

// draftEntry validates a draft and shapes it into a timeline entry. The
// affected account for expense/income may still be unresolved here; the
// engine fills it in before anything is written.
func draftEntry(d Draft) (*timeline.Entry, error) {
	if !timeline.ValidType(d.Type) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, d.Type)
	}
	if !d.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	date, err := time.Parse("2006-01-02", d.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: must be YYYY-MM-DD", ErrInvalidDate)
	}

	commission := decimal.Zero
	if d.Commission != nil {
		if d.Type != timeline.TypeTransfer {
			return nil, fmt.Errorf("%w: commission", ErrFieldNotAllowed)
		}
		if d.Commission.IsNegative() {
			return nil, ErrInvalidAmount
		}
		commission = *d.Commission
	}

	e := &timeline.Entry{
		Date:        date,
		Type:        d.Type,
		Amount:      d.Amount,
		Commission:  commission,
		Description: d.Description,
		LocationID:  d.LocationID,
	}

	switch d.Type {
	case timeline.TypeExpense, timeline.TypeIncome:
		if d.CategoryID == nil {
			return nil, ErrCategoryMismatch
		}
		if d.AccountID == nil && d.PaymentMethodID == nil {
			return nil, ErrAccountRequired
		}
		if d.FromAccountID != nil || d.ToAccountID != nil {
			return nil, fmt.Errorf("%w: from/to accounts", ErrFieldNotAllowed)
		}
		e.CategoryID = d.CategoryID
		e.AccountID = d.AccountID
		e.PaymentMethodID = d.PaymentMethodID
	case timeline.TypeTransfer, timeline.TypeIncasation:
		if d.FromAccountID == nil || d.ToAccountID == nil {
			return nil, ErrAccountRequired
		}
		if *d.FromAccountID == *d.ToAccountID {
			return nil, ErrSameAccount
		}
		if d.CategoryID != nil || d.PaymentMethodID != nil || d.AccountID != nil {
			return nil, fmt.Errorf("%w: category/account refs", ErrFieldNotAllowed)
		}
		e.FromAccountID = d.FromAccountID
		e.ToAccountID = d.ToAccountID
	}
	return e, nil
}

// effectOf computes the signed balance changes an entry applies at create
// time. Reversal is negated(effectOf(e)) by construction, so apply and
// reverse can never drift apart.
func effectOf(e *timeline.Entry) ([]accounts.Delta, error) {
	switch e.Type {
	case timeline.TypeExpense:
		if e.AccountID == nil {
			return nil, ErrAccountRequired
		}
		return []accounts.Delta{{AccountID: *e.AccountID, Amount: e.Amount.Neg()}}, nil
	case timeline.TypeIncome:
		if e.AccountID == nil {
			return nil, ErrAccountRequired
		}
		return []accounts.Delta{{AccountID: *e.AccountID, Amount: e.Amount}}, nil
	case timeline.TypeTransfer:
		if e.FromAccountID == nil || e.ToAccountID == nil {
			return nil, ErrAccountRequired
		}
		return []accounts.Delta{
			{AccountID: *e.FromAccountID, Amount: e.Amount.Add(e.Commission).Neg()},
			{AccountID: *e.ToAccountID, Amount: e.Amount},
		}, nil
	case timeline.TypeIncasation:
		if e.FromAccountID == nil || e.ToAccountID == nil {
			return nil, ErrAccountRequired
		}
		return []accounts.Delta{
			{AccountID: *e.FromAccountID, Amount: e.Amount.Neg()},
			{AccountID: *e.ToAccountID, Amount: e.Amount},
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidType, e.Type)
}

func negated(deltas []accounts.Delta) []accounts.Delta {
	out := make([]accounts.Delta, len(deltas))
	for i, d := range deltas {
		out[i] = accounts.Delta{AccountID: d.AccountID, Amount: d.Amount.Neg()}
	}
	return out
}

// netted merges deltas hitting the same account into one signed amount and
// drops the zeros. A reverse-plus-apply batch collapsed this way locks each
// row once, in one ascending pass.
func netted(deltas []accounts.Delta) []accounts.Delta {
	byAccount := make(map[int64]decimal.Decimal, len(deltas))
	for _, d := range deltas {
		byAccount[d.AccountID] = byAccount[d.AccountID].Add(d.Amount)
	}
	out := make([]accounts.Delta, 0, len(byAccount))
	for id, amount := range byAccount {
		if amount.IsZero() {
			continue
		}
		out = append(out, accounts.Delta{AccountID: id, Amount: amount})
	}
	return inApplyOrder(out)
}

// inApplyOrder sorts deltas by account id so concurrent multi-account
// operations lock rows in a consistent order.
func inApplyOrder(deltas []accounts.Delta) []accounts.Delta {
	out := make([]accounts.Delta, len(deltas))
	copy(out, deltas)
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out
}

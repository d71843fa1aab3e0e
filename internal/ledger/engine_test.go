package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/accounts"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/timeline"
)

// balanceFake keeps balances in memory and records every delta it is asked
// to apply, in call order. It enforces the same rules as the real store:
// unknown accounts fail the lookup, results below zero are rejected and
// nothing is written.
type balanceFake struct {
	balances map[int64]decimal.Decimal
	applied  []accounts.Delta
}

func (f *balanceFake) ApplyDelta(_ context.Context, _ pgx.Tx, accountID int64, delta decimal.Decimal) error {
	current, ok := f.balances[accountID]
	if !ok {
		return fmt.Errorf("%w: id %d", accounts.ErrNotFound, accountID)
	}
	next := current.Add(delta)
	if next.IsNegative() {
		return fmt.Errorf("%w: available %s", accounts.ErrInsufficientFunds, current)
	}
	f.balances[accountID] = next
	f.applied = append(f.applied, accounts.Delta{AccountID: accountID, Amount: delta})
	return nil
}

func testEngine(f *balanceFake) *Engine {
	return &Engine{Accounts: f, Log: zap.NewNop()}
}

func expenseOn(accountID int64, amount string) *timeline.Entry {
	return &timeline.Entry{Type: timeline.TypeExpense, AccountID: ptr(accountID), Amount: dec(amount)}
}

func transferBetween(from, to int64, amount, commission string) *timeline.Entry {
	return &timeline.Entry{
		Type:          timeline.TypeTransfer,
		FromAccountID: ptr(from),
		ToAccountID:   ptr(to),
		Amount:        dec(amount),
		Commission:    dec(commission),
	}
}

func TestApplyUnknownAccount(t *testing.T) {
	f := &balanceFake{balances: map[int64]decimal.Decimal{1: dec("1000")}}

	err := testEngine(f).apply(context.Background(), nil, expenseOn(99, "100"))
	assert.ErrorIs(t, err, accounts.ErrNotFound)
	assert.Empty(t, f.applied)

	var fe *fiber.Error
	assert.True(t, errors.As(ledgerError(err), &fe))
	assert.Equal(t, fiber.StatusNotFound, fe.Code)
}

func TestApplyRejectsOverdraft(t *testing.T) {
	f := &balanceFake{balances: map[int64]decimal.Decimal{1: dec("40")}}

	err := testEngine(f).apply(context.Background(), nil, expenseOn(1, "100"))
	assert.ErrorIs(t, err, accounts.ErrInsufficientFunds)
	assert.True(t, f.balances[1].Equal(dec("40")), "balance must be untouched, got %s", f.balances[1])

	var fe *fiber.Error
	assert.True(t, errors.As(ledgerError(err), &fe))
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}

func TestApplyTransferStopsAtInsufficientSource(t *testing.T) {
	f := &balanceFake{balances: map[int64]decimal.Decimal{
		1: dec("500"),
		2: dec("0"),
	}}

	err := testEngine(f).apply(context.Background(), nil, transferBetween(1, 2, "500", "100"))
	assert.ErrorIs(t, err, accounts.ErrInsufficientFunds)
	assert.True(t, f.balances[2].IsZero(), "destination must not be credited")
}

func TestReverseRestoresStoredEffect(t *testing.T) {
	f := &balanceFake{balances: map[int64]decimal.Decimal{
		1: dec("399000"),
		2: dec("600000"),
	}}
	e := testEngine(f)

	entry := transferBetween(1, 2, "100000", "1000")
	assert.NoError(t, e.apply(context.Background(), nil, entry))
	assert.True(t, f.balances[1].Equal(dec("298000")))
	assert.True(t, f.balances[2].Equal(dec("700000")))

	assert.NoError(t, e.reverse(context.Background(), nil, entry))
	assert.True(t, f.balances[1].Equal(dec("399000")))
	assert.True(t, f.balances[2].Equal(dec("600000")))
}

func TestReapplySameAccountIsOneNetDelta(t *testing.T) {
	// Raising an expense from 100 to 150 on an account holding 60 must
	// pass: the net change is -50, even though applying the new effect
	// before the reversal would bottom out.
	f := &balanceFake{balances: map[int64]decimal.Decimal{1: dec("60")}}

	err := testEngine(f).reapply(context.Background(), nil, expenseOn(1, "100"), expenseOn(1, "150"))
	assert.NoError(t, err)
	assert.True(t, f.balances[1].Equal(dec("10")), "got %s", f.balances[1])
	assert.Len(t, f.applied, 1, "same account must be hit once")
	assert.True(t, f.applied[0].Amount.Equal(dec("-50")))
}

func TestReapplyOverdraftLeavesBalancesUntouched(t *testing.T) {
	f := &balanceFake{balances: map[int64]decimal.Decimal{1: dec("40")}}

	err := testEngine(f).reapply(context.Background(), nil, expenseOn(1, "100"), expenseOn(1, "200"))
	assert.ErrorIs(t, err, accounts.ErrInsufficientFunds)
	assert.True(t, f.balances[1].Equal(dec("40")))
	assert.Empty(t, f.applied)
}

func TestReapplyAcrossAccountPairsLocksAscending(t *testing.T) {
	f := &balanceFake{balances: map[int64]decimal.Decimal{
		1: dec("200"),
		2: dec("1000"),
		3: dec("1000"),
		4: dec("0"),
	}}

	old := transferBetween(3, 1, "200", "0")
	next := transferBetween(2, 4, "300", "0")
	err := testEngine(f).reapply(context.Background(), nil, old, next)
	assert.NoError(t, err)

	ids := make([]int64, 0, len(f.applied))
	for _, d := range f.applied {
		ids = append(ids, d.AccountID)
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, ids)

	assert.True(t, f.balances[1].IsZero())
	assert.True(t, f.balances[2].Equal(dec("700")))
	assert.True(t, f.balances[3].Equal(dec("1200")))
	assert.True(t, f.balances[4].Equal(dec("300")))
}

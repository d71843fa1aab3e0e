package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/timeline"
)

func storedExpense() *timeline.Entry {
	return &timeline.Entry{
		ID:              10,
		Date:            time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Type:            timeline.TypeExpense,
		Amount:          dec("50000"),
		CategoryID:      ptr(int64(5)),
		AccountID:       ptr(int64(1)),
		PaymentMethodID: ptr(int64(2)),
		UserID:          7,
	}
}

func TestMergeUpdateDescriptionOnly(t *testing.T) {
	old := storedExpense()
	next, balanceChanged, reResolve, err := mergeUpdate(old, UpdateRequest{
		Description: ptr("corrected note"),
	})
	require.NoError(t, err)
	assert.False(t, balanceChanged)
	assert.False(t, reResolve)
	assert.Equal(t, "corrected note", *next.Description)
	assert.True(t, next.Amount.Equal(old.Amount))
}

func TestMergeUpdateAmountChange(t *testing.T) {
	old := storedExpense()
	next, balanceChanged, _, err := mergeUpdate(old, UpdateRequest{Amount: ptr(dec("60000"))})
	require.NoError(t, err)
	assert.True(t, balanceChanged)
	assert.True(t, next.Amount.Equal(dec("60000")))
	// the stored entry is untouched so its effect can be reversed as written
	assert.True(t, old.Amount.Equal(dec("50000")))
}

func TestMergeUpdateSameAmountNoOp(t *testing.T) {
	old := storedExpense()
	_, balanceChanged, _, err := mergeUpdate(old, UpdateRequest{Amount: ptr(dec("50000"))})
	require.NoError(t, err)
	assert.False(t, balanceChanged)
}

func TestMergeUpdateInvalidAmount(t *testing.T) {
	old := storedExpense()
	_, _, _, err := mergeUpdate(old, UpdateRequest{Amount: ptr(dec("0"))})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestMergeUpdateAccountChange(t *testing.T) {
	old := storedExpense()
	next, balanceChanged, reResolve, err := mergeUpdate(old, UpdateRequest{AccountID: ptr(int64(3))})
	require.NoError(t, err)
	assert.True(t, balanceChanged)
	assert.False(t, reResolve)
	assert.Equal(t, int64(3), *next.AccountID)
}

func TestMergeUpdatePaymentMethodTriggersReResolve(t *testing.T) {
	old := storedExpense()
	next, balanceChanged, reResolve, err := mergeUpdate(old, UpdateRequest{PaymentMethodID: ptr(int64(4))})
	require.NoError(t, err)
	assert.True(t, balanceChanged)
	assert.True(t, reResolve)
	assert.Equal(t, int64(4), *next.PaymentMethodID)
}

func TestMergeUpdatePaymentMethodWithExplicitAccount(t *testing.T) {
	old := storedExpense()
	_, balanceChanged, reResolve, err := mergeUpdate(old, UpdateRequest{
		PaymentMethodID: ptr(int64(4)),
		AccountID:       ptr(int64(3)),
	})
	require.NoError(t, err)
	assert.True(t, balanceChanged)
	assert.False(t, reResolve, "explicit account wins over payment method resolution")
}

func TestMergeUpdateCategoryChangeDoesNotMoveMoney(t *testing.T) {
	old := storedExpense()
	next, balanceChanged, _, err := mergeUpdate(old, UpdateRequest{CategoryID: ptr(int64(9))})
	require.NoError(t, err)
	assert.False(t, balanceChanged)
	assert.Equal(t, int64(9), *next.CategoryID)
}

func TestMergeUpdateTransferFieldsRejectedOnExpense(t *testing.T) {
	old := storedExpense()
	_, _, _, err := mergeUpdate(old, UpdateRequest{FromAccountID: ptr(int64(1))})
	assert.ErrorIs(t, err, ErrFieldNotAllowed)
}

func TestMergeUpdateCommissionOnExpense(t *testing.T) {
	old := storedExpense()
	_, _, _, err := mergeUpdate(old, UpdateRequest{Commission: ptr(dec("1"))})
	assert.ErrorIs(t, err, ErrFieldNotAllowed)
}

func storedTransfer() *timeline.Entry {
	return &timeline.Entry{
		ID:            11,
		Date:          time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Type:          timeline.TypeTransfer,
		Amount:        dec("100000"),
		Commission:    dec("1000"),
		FromAccountID: ptr(int64(1)),
		ToAccountID:   ptr(int64(2)),
		UserID:        7,
	}
}

func TestMergeUpdateTransferCommission(t *testing.T) {
	old := storedTransfer()
	next, balanceChanged, _, err := mergeUpdate(old, UpdateRequest{Commission: ptr(dec("2000"))})
	require.NoError(t, err)
	assert.True(t, balanceChanged)
	assert.True(t, next.Commission.Equal(dec("2000")))
}

func TestMergeUpdateTransferAccountSwapToSame(t *testing.T) {
	old := storedTransfer()
	_, _, _, err := mergeUpdate(old, UpdateRequest{ToAccountID: ptr(int64(1))})
	assert.ErrorIs(t, err, ErrSameAccount)
}

func TestMergeUpdateTransferRejectsCategoryRefs(t *testing.T) {
	old := storedTransfer()
	_, _, _, err := mergeUpdate(old, UpdateRequest{CategoryID: ptr(int64(5))})
	assert.ErrorIs(t, err, ErrFieldNotAllowed)
}

func TestMergeUpdateDateChange(t *testing.T) {
	old := storedTransfer()
	next, balanceChanged, _, err := mergeUpdate(old, UpdateRequest{Date: ptr("2025-04-01")})
	require.NoError(t, err)
	assert.False(t, balanceChanged, "moving the date does not move money")
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), next.Date)

	_, _, _, err = mergeUpdate(old, UpdateRequest{Date: ptr("01/04/2025")})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/accounts"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/timeline"
)

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestEffectOfExpense(t *testing.T) {
	e := &timeline.Entry{
		Type:      timeline.TypeExpense,
		Amount:    dec("50000"),
		AccountID: ptr(int64(1)),
	}
	deltas, err := effectOf(e)
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.Equal(t, int64(1), deltas[0].AccountID)
	assert.True(t, deltas[0].Amount.Equal(dec("-50000")))
}

func TestEffectOfIncome(t *testing.T) {
	e := &timeline.Entry{
		Type:      timeline.TypeIncome,
		Amount:    dec("120000"),
		AccountID: ptr(int64(2)),
	}
	deltas, err := effectOf(e)
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.True(t, deltas[0].Amount.Equal(dec("120000")))
}

func TestEffectOfTransferWithCommission(t *testing.T) {
	e := &timeline.Entry{
		Type:          timeline.TypeTransfer,
		Amount:        dec("100000"),
		Commission:    dec("1000"),
		FromAccountID: ptr(int64(1)),
		ToAccountID:   ptr(int64(2)),
	}
	deltas, err := effectOf(e)
	require.NoError(t, err)
	require.Len(t, deltas, 2)

	// sender pays amount plus commission, receiver gets only the amount
	assert.Equal(t, int64(1), deltas[0].AccountID)
	assert.True(t, deltas[0].Amount.Equal(dec("-101000")))
	assert.Equal(t, int64(2), deltas[1].AccountID)
	assert.True(t, deltas[1].Amount.Equal(dec("100000")))
}

func TestEffectOfIncasationIgnoresCommission(t *testing.T) {
	e := &timeline.Entry{
		Type:          timeline.TypeIncasation,
		Amount:        dec("300000"),
		FromAccountID: ptr(int64(1)),
		ToAccountID:   ptr(int64(3)),
	}
	deltas, err := effectOf(e)
	require.NoError(t, err)
	require.Len(t, deltas, 2)
	assert.True(t, deltas[0].Amount.Equal(dec("-300000")))
	assert.True(t, deltas[1].Amount.Equal(dec("300000")))
}

func TestEffectOfUnresolvedAccount(t *testing.T) {
	e := &timeline.Entry{Type: timeline.TypeExpense, Amount: dec("10")}
	_, err := effectOf(e)
	assert.ErrorIs(t, err, ErrAccountRequired)
}

func TestNegatedMirrorsEffect(t *testing.T) {
	for _, e := range []*timeline.Entry{
		{Type: timeline.TypeExpense, Amount: dec("75.50"), AccountID: ptr(int64(1))},
		{Type: timeline.TypeIncome, Amount: dec("200"), AccountID: ptr(int64(2))},
		{Type: timeline.TypeTransfer, Amount: dec("500"), Commission: dec("5"), FromAccountID: ptr(int64(1)), ToAccountID: ptr(int64(2))},
		{Type: timeline.TypeIncasation, Amount: dec("90"), FromAccountID: ptr(int64(2)), ToAccountID: ptr(int64(1))},
	} {
		deltas, err := effectOf(e)
		require.NoError(t, err)

		reversed := negated(deltas)
		require.Len(t, reversed, len(deltas))
		for i := range deltas {
			assert.Equal(t, deltas[i].AccountID, reversed[i].AccountID)
			assert.True(t, deltas[i].Amount.Add(reversed[i].Amount).IsZero(),
				"reversal must cancel the original delta exactly")
		}
	}
}

func TestInApplyOrder(t *testing.T) {
	deltas := []accounts.Delta{
		{AccountID: 7, Amount: dec("-10")},
		{AccountID: 3, Amount: dec("10")},
	}
	ordered := inApplyOrder(deltas)
	assert.Equal(t, int64(3), ordered[0].AccountID)
	assert.Equal(t, int64(7), ordered[1].AccountID)
	// input untouched
	assert.Equal(t, int64(7), deltas[0].AccountID)
}

func TestNetted(t *testing.T) {
	deltas := []accounts.Delta{
		{AccountID: 2, Amount: dec("100")},
		{AccountID: 1, Amount: dec("-30")},
		{AccountID: 2, Amount: dec("-100")},
		{AccountID: 3, Amount: dec("-20")},
		{AccountID: 3, Amount: dec("50")},
	}
	net := netted(deltas)
	assert.Len(t, net, 2, "zero-sum accounts drop out")
	assert.Equal(t, int64(1), net[0].AccountID)
	assert.True(t, net[0].Amount.Equal(dec("-30")))
	assert.Equal(t, int64(3), net[1].AccountID)
	assert.True(t, net[1].Amount.Equal(dec("30")))
}

func TestDraftEntryValidation(t *testing.T) {
	valid := Draft{
		Date:       "2025-03-10",
		Type:       timeline.TypeExpense,
		Amount:     dec("100"),
		CategoryID: ptr(int64(5)),
		AccountID:  ptr(int64(1)),
	}

	tests := []struct {
		name    string
		mutate  func(d *Draft)
		wantErr error
	}{
		{"valid expense", func(d *Draft) {}, nil},
		{"unknown type", func(d *Draft) { d.Type = "refund" }, ErrInvalidType},
		{"zero amount", func(d *Draft) { d.Amount = decimal.Zero }, ErrInvalidAmount},
		{"negative amount", func(d *Draft) { d.Amount = dec("-5") }, ErrInvalidAmount},
		{"bad date", func(d *Draft) { d.Date = "10.03.2025" }, ErrInvalidDate},
		{"missing category", func(d *Draft) { d.CategoryID = nil }, ErrCategoryMismatch},
		{"no account or method", func(d *Draft) { d.AccountID = nil; d.PaymentMethodID = nil }, ErrAccountRequired},
		{"commission on expense", func(d *Draft) { d.Commission = ptr(dec("1")) }, ErrFieldNotAllowed},
		{"transfer refs on expense", func(d *Draft) { d.FromAccountID = ptr(int64(1)) }, ErrFieldNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			e, err := draftEntry(d)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), e.Date)
		})
	}
}

func TestDraftEntryTransfer(t *testing.T) {
	valid := Draft{
		Date:          "2025-03-10",
		Type:          timeline.TypeTransfer,
		Amount:        dec("100"),
		FromAccountID: ptr(int64(1)),
		ToAccountID:   ptr(int64(2)),
		Commission:    ptr(dec("2")),
	}

	e, err := draftEntry(valid)
	require.NoError(t, err)
	assert.True(t, e.Commission.Equal(dec("2")))

	same := valid
	same.ToAccountID = ptr(int64(1))
	_, err = draftEntry(same)
	assert.ErrorIs(t, err, ErrSameAccount)

	missing := valid
	missing.ToAccountID = nil
	_, err = draftEntry(missing)
	assert.ErrorIs(t, err, ErrAccountRequired)

	withCategory := valid
	withCategory.CategoryID = ptr(int64(9))
	_, err = draftEntry(withCategory)
	assert.ErrorIs(t, err, ErrFieldNotAllowed)

	negCommission := valid
	negCommission.Commission = ptr(dec("-1"))
	_, err = draftEntry(negCommission)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

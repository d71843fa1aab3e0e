package accounts

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeCash = "cash"
	TypeBank = "bank"
	TypeCard = "card"
)

func ValidType(t string) bool {
	return t == TypeCash || t == TypeBank || t == TypeCard
}

type Account struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Delta is one signed balance change against one account.
type Delta struct {
	AccountID int64
	Amount    decimal.Decimal
}

// BalanceView is the read-only reconciliation of an account against its
// transaction history. balance here is derived, not the stored running total.
type BalanceView struct {
	AccountID    int64           `json:"account_id"`
	Balance      decimal.Decimal `json:"balance"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	TransferIn   decimal.Decimal `json:"transfer_in"`
	TransferOut  decimal.Decimal `json:"transfer_out"`
}

type CreateAccountRequest struct {
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type UpdateAccountRequest struct {
	Name     *string `json:"name"`
	Type     *string `json:"type"`
	IsActive *bool   `json:"is_active"`
}

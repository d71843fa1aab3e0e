package reports

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
)

type Report struct {
	ID             int64           `json:"id"`
	ReportDate     string          `json:"report_date"`
	LocationID     *int64          `json:"location_id"`
	UserID         int64           `json:"user_id"`
	UserName       string          `json:"user_name,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	TotalIncome    decimal.Decimal `json:"total_income"`
	TotalExpenses  decimal.Decimal `json:"total_expenses"`
	Notes          *string         `json:"notes"`
	Status         string          `json:"status"`
	Income         []Line          `json:"income,omitempty"`
	Expenses       []Line          `json:"expenses,omitempty"`
	Payments       []PaymentLine   `json:"payments,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type Line struct {
	ID           int64           `json:"id"`
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Notes        *string         `json:"notes"`
}

type PaymentLine struct {
	ID                int64           `json:"id"`
	PaymentMethodID   int64           `json:"payment_method_id"`
	PaymentMethodName string          `json:"payment_method_name,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
}

type LineInput struct {
	CategoryID int64           `json:"category_id"`
	Amount     decimal.Decimal `json:"amount"`
	Notes      *string         `json:"notes"`
}

type PaymentInput struct {
	PaymentMethodID int64           `json:"payment_method_id"`
	Amount          decimal.Decimal `json:"amount"`
}

type CreateReportRequest struct {
	ReportDate     string          `json:"report_date"`
	LocationID     *int64          `json:"location_id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Notes          *string         `json:"notes"`
	Income         []LineInput     `json:"income"`
	Expenses       []LineInput     `json:"expenses"`
	Payments       []PaymentInput  `json:"payments"`
}

type ListFilter struct {
	StartDate string
	EndDate   string
	Status    string
	UserID    int64
}

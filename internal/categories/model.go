package categories

import "time"

const (
	TypeExpense = "expense"
	TypeIncome  = "income"
)

func ValidType(t string) bool {
	return t == TypeExpense || t == TypeIncome
}

// Category is an expense or income bucket. Expense categories may nest via
// ParentID; income categories are flat. AnalyticTag groups expense categories
// into dashboard blocks (food_cost, labor_cost, overhead).
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	ParentID    *int64    `json:"parent_id,omitempty"`
	AnalyticTag *string   `json:"analytic_tag,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateCategoryRequest struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	ParentID    *int64  `json:"parent_id"`
	AnalyticTag *string `json:"analytic_tag"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	AnalyticTag *string `json:"analytic_tag"`
	IsActive    *bool   `json:"is_active"`
}

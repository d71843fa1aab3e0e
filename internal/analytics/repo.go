package analytics

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repo runs the read-only aggregations over the timeline. It never mutates
// anything; the ledger engine owns all writes.
type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

type Period struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type AccountBalance struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Currency       string          `json:"currency"`
}

type Summary struct {
	Period Period `json:"period"`
	Totals struct {
		Income    decimal.Decimal `json:"income"`
		Expense   decimal.Decimal `json:"expense"`
		NetProfit decimal.Decimal `json:"net_profit"`
	} `json:"totals"`
	Accounts struct {
		List         []AccountBalance `json:"list"`
		TotalBalance decimal.Decimal  `json:"total_balance"`
	} `json:"accounts"`
}

func (r *Repo) sumByType(ctx context.Context, txType, start, end string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM timeline WHERE type = $1 AND date BETWEEN $2 AND $3`,
		txType, start, end,
	).Scan(&total)
	return total, err
}

func (r *Repo) Summary(ctx context.Context, start, end string) (*Summary, error) {
	s := &Summary{Period: Period{StartDate: start, EndDate: end}}

	income, err := r.sumByType(ctx, "income", start, end)
	if err != nil {
		return nil, err
	}
	expense, err := r.sumByType(ctx, "expense", start, end)
	if err != nil {
		return nil, err
	}
	s.Totals.Income = income
	s.Totals.Expense = expense
	s.Totals.NetProfit = income.Sub(expense)

	rows, err := r.Pool.Query(ctx,
		`SELECT id, name, type, current_balance, currency
		 FROM accounts WHERE is_active = TRUE ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	s.Accounts.List = make([]AccountBalance, 0)
	for rows.Next() {
		var a AccountBalance
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.CurrentBalance, &a.Currency); err != nil {
			return nil, err
		}
		s.Accounts.TotalBalance = s.Accounts.TotalBalance.Add(a.CurrentBalance)
		s.Accounts.List = append(s.Accounts.List, a)
	}
	return s, rows.Err()
}

type CategoryTotal struct {
	CategoryID      *int64          `json:"category_id"`
	CategoryName    *string         `json:"category_name"`
	OperationsCount int64           `json:"operations_count"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Percentage      float64         `json:"percentage"`
}

type ByCategory struct {
	Type       string          `json:"type"`
	Period     Period          `json:"period"`
	Total      decimal.Decimal `json:"total"`
	Categories []CategoryTotal `json:"categories"`
}

func (r *Repo) ByCategory(ctx context.Context, txType, start, end string) (*ByCategory, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT c.id, c.name, COUNT(t.id), COALESCE(SUM(t.amount), 0)
		FROM timeline t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.type = $1 AND t.date BETWEEN $2 AND $3
		GROUP BY c.id, c.name
		ORDER BY COALESCE(SUM(t.amount), 0) DESC
	`, txType, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := &ByCategory{
		Type:       txType,
		Period:     Period{StartDate: start, EndDate: end},
		Categories: make([]CategoryTotal, 0),
	}
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.CategoryName, &ct.OperationsCount, &ct.TotalAmount); err != nil {
			return nil, err
		}
		out.Total = out.Total.Add(ct.TotalAmount)
		out.Categories = append(out.Categories, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out.Categories {
		out.Categories[i].Percentage = percentOf(out.Categories[i].TotalAmount, out.Total)
	}
	return out, nil
}

// Dashboard mirrors the owner dashboard: revenue, expenses, profit, and one
// block per analytic tag with its share of revenue. Prime cost is the food
// plus labor share, reported only when both blocks exist.
type Dashboard struct {
	Period        Period                     `json:"period"`
	Revenue       decimal.Decimal            `json:"revenue"`
	TotalExpenses decimal.Decimal            `json:"total_expenses"`
	Profit        decimal.Decimal            `json:"profit"`
	Profitability float64                    `json:"profitability"`
	Blocks        map[string]decimal.Decimal `json:"blocks"`
	BlockShares   map[string]float64         `json:"block_shares"`
	PrimeCost     *decimal.Decimal           `json:"prime_cost,omitempty"`
	PrimeCostPct  *float64                   `json:"prime_cost_percentage,omitempty"`
}

func (r *Repo) Dashboard(ctx context.Context, start, end string) (*Dashboard, error) {
	revenue, err := r.sumByType(ctx, "income", start, end)
	if err != nil {
		return nil, err
	}
	expenses, err := r.sumByType(ctx, "expense", start, end)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Period:        Period{StartDate: start, EndDate: end},
		Revenue:       revenue,
		TotalExpenses: expenses,
		Profit:        revenue.Sub(expenses),
		Profitability: percentOf(revenue.Sub(expenses), revenue),
		Blocks:        map[string]decimal.Decimal{},
		BlockShares:   map[string]float64{},
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT c.analytic_tag, COALESCE(SUM(t.amount), 0)
		FROM timeline t
		JOIN categories c ON t.category_id = c.id
		WHERE t.type = 'expense' AND c.analytic_tag IS NOT NULL AND t.date BETWEEN $1 AND $2
		GROUP BY c.analytic_tag
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var tag string
		var total decimal.Decimal
		if err := rows.Scan(&tag, &total); err != nil {
			return nil, err
		}
		d.Blocks[tag] = total
		d.BlockShares[tag] = percentOf(total, revenue)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	food, hasFood := d.Blocks["food_cost"]
	labor, hasLabor := d.Blocks["labor_cost"]
	if hasFood && hasLabor {
		prime := food.Add(labor)
		pct := percentOf(prime, revenue)
		d.PrimeCost = &prime
		d.PrimeCostPct = &pct
	}
	return d, nil
}

// Pivot groups expense totals as period -> analytic tag -> category name.
// Categories without a tag land under "other".
type Pivot map[string]map[string]map[string]decimal.Decimal

func (r *Repo) Pivot(ctx context.Context, start, end, groupBy string) (Pivot, error) {
	format := "YYYY-MM"
	if groupBy == "day" {
		format = "YYYY-MM-DD"
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT to_char(t.date, $3) AS period, c.analytic_tag, c.name, SUM(t.amount)
		FROM timeline t
		JOIN categories c ON t.category_id = c.id
		WHERE t.type = 'expense' AND t.date BETWEEN $1 AND $2
		GROUP BY period, c.analytic_tag, c.name
		ORDER BY period DESC, c.analytic_tag, c.name
	`, start, end, format)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := Pivot{}
	for rows.Next() {
		var period, name string
		var tag *string
		var total decimal.Decimal
		if err := rows.Scan(&period, &tag, &name, &total); err != nil {
			return nil, err
		}
		block := "other"
		if tag != nil {
			block = *tag
		}
		if out[period] == nil {
			out[period] = map[string]map[string]decimal.Decimal{}
		}
		if out[period][block] == nil {
			out[period][block] = map[string]decimal.Decimal{}
		}
		out[period][block][name] = total
	}
	return out, rows.Err()
}

type TrendPoint struct {
	Date     string          `json:"date"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
}

func (r *Repo) Trend(ctx context.Context, start, end string) ([]TrendPoint, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT date::text,
		       COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0)
		FROM timeline
		WHERE date BETWEEN $1 AND $2
		GROUP BY date
		ORDER BY date
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TrendPoint, 0)
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.Date, &p.Revenue, &p.Expenses); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type CellOperation struct {
	ID           int64           `json:"id"`
	Date         string          `json:"date"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	CategoryName string          `json:"category_name"`
}

// CellDetails lists the expense operations behind one pivot cell.
func (r *Repo) CellDetails(ctx context.Context, categoryName, start, end string) ([]CellOperation, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT t.id, t.date::text, t.type, t.amount, COALESCE(t.description, ''), c.name
		FROM timeline t
		JOIN categories c ON t.category_id = c.id
		WHERE c.name = $1 AND t.type = 'expense' AND t.date BETWEEN $2 AND $3
		ORDER BY t.date DESC, t.id DESC
	`, categoryName, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CellOperation, 0)
	for rows.Next() {
		var op CellOperation
		if err := rows.Scan(&op.ID, &op.Date, &op.Type, &op.Amount, &op.Description, &op.CategoryName); err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	return out, rows.Err()
}

// percentOf returns part/whole as a percentage rounded to one decimal,
// or 0 when the whole is not positive.
func percentOf(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	f, _ := part.Div(whole).Mul(decimal.NewFromInt(100)).Round(1).Float64()
	return f
}

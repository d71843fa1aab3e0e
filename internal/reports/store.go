package reports

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("report not found")
	ErrAlreadySubmitted = errors.New("report already submitted")
	ErrEmptyReport      = errors.New("report has no lines")
)

type Store struct {
	Pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

// Create inserts the report and all of its lines in one transaction.
// Totals are computed from the lines, never trusted from the client.
func (s *Store) Create(ctx context.Context, userID int64, req CreateReportRequest) (*Report, error) {
	if len(req.Income) == 0 && len(req.Expenses) == 0 {
		return nil, ErrEmptyReport
	}

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var totalIncome, totalExpenses decimal.Decimal
	for _, l := range req.Income {
		totalIncome = totalIncome.Add(l.Amount)
	}
	for _, l := range req.Expenses {
		totalExpenses = totalExpenses.Add(l.Amount)
	}
	closing := req.OpeningBalance.Add(totalIncome).Sub(totalExpenses)

	var reportID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO cashier_reports
			(report_date, location_id, user_id, opening_balance, closing_balance,
			 total_income, total_expenses, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, req.ReportDate, req.LocationID, userID, req.OpeningBalance, closing,
		totalIncome, totalExpenses, req.Notes, StatusDraft).Scan(&reportID)
	if err != nil {
		return nil, fmt.Errorf("insert report: %w", err)
	}

	for _, l := range req.Income {
		if _, err := tx.Exec(ctx,
			`INSERT INTO cashier_report_income (report_id, category_id, amount, notes) VALUES ($1, $2, $3, $4)`,
			reportID, l.CategoryID, l.Amount, l.Notes); err != nil {
			return nil, fmt.Errorf("insert income line: %w", err)
		}
	}
	for _, l := range req.Expenses {
		if _, err := tx.Exec(ctx,
			`INSERT INTO cashier_report_expenses (report_id, category_id, amount, notes) VALUES ($1, $2, $3, $4)`,
			reportID, l.CategoryID, l.Amount, l.Notes); err != nil {
			return nil, fmt.Errorf("insert expense line: %w", err)
		}
	}
	for _, p := range req.Payments {
		if _, err := tx.Exec(ctx,
			`INSERT INTO cashier_report_payments (report_id, payment_method_id, amount) VALUES ($1, $2, $3)`,
			reportID, p.PaymentMethodID, p.Amount); err != nil {
			return nil, fmt.Errorf("insert payment line: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, reportID)
}

const reportColumns = `r.id, r.report_date::text, r.location_id, r.user_id, u.full_name,
	r.opening_balance, r.closing_balance, r.total_income, r.total_expenses,
	r.notes, r.status, r.created_at, r.updated_at`

func scanReport(row pgx.Row) (*Report, error) {
	var r Report
	err := row.Scan(&r.ID, &r.ReportDate, &r.LocationID, &r.UserID, &r.UserName,
		&r.OpeningBalance, &r.ClosingBalance, &r.TotalIncome, &r.TotalExpenses,
		&r.Notes, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Report, error) {
	r, err := scanReport(s.Pool.QueryRow(ctx, `
		SELECT `+reportColumns+`
		FROM cashier_reports r
		JOIN users u ON r.user_id = u.id
		WHERE r.id = $1
	`, id))
	if err != nil {
		return nil, err
	}
	if err := s.loadLines(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) loadLines(ctx context.Context, r *Report) error {
	lines := func(table string) ([]Line, error) {
		rows, err := s.Pool.Query(ctx, `
			SELECT l.id, l.category_id, c.name, l.amount, l.notes
			FROM `+table+` l
			JOIN categories c ON l.category_id = c.id
			WHERE l.report_id = $1
			ORDER BY l.id
		`, r.ID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		out := make([]Line, 0)
		for rows.Next() {
			var l Line
			if err := rows.Scan(&l.ID, &l.CategoryID, &l.CategoryName, &l.Amount, &l.Notes); err != nil {
				return nil, err
			}
			out = append(out, l)
		}
		return out, rows.Err()
	}

	var err error
	if r.Income, err = lines("cashier_report_income"); err != nil {
		return err
	}
	if r.Expenses, err = lines("cashier_report_expenses"); err != nil {
		return err
	}

	rows, err := s.Pool.Query(ctx, `
		SELECT p.id, p.payment_method_id, pm.name, p.amount
		FROM cashier_report_payments p
		JOIN payment_methods pm ON p.payment_method_id = pm.id
		WHERE p.report_id = $1
		ORDER BY p.id
	`, r.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	r.Payments = make([]PaymentLine, 0)
	for rows.Next() {
		var p PaymentLine
		if err := rows.Scan(&p.ID, &p.PaymentMethodID, &p.PaymentMethodName, &p.Amount); err != nil {
			return err
		}
		r.Payments = append(r.Payments, p)
	}
	return rows.Err()
}

func (s *Store) List(ctx context.Context, f ListFilter) ([]Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM cashier_reports r
		JOIN users u ON r.user_id = u.id
		WHERE 1=1`
	args := []any{}

	if f.StartDate != "" {
		args = append(args, f.StartDate)
		query += ` AND r.report_date >= $` + strconv.Itoa(len(args))
	}
	if f.EndDate != "" {
		args = append(args, f.EndDate)
		query += ` AND r.report_date <= $` + strconv.Itoa(len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += ` AND r.status = $` + strconv.Itoa(len(args))
	}
	if f.UserID != 0 {
		args = append(args, f.UserID)
		query += ` AND r.user_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY r.report_date DESC, r.id DESC`

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Report, 0)
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// Submit moves a draft report to submitted. The row is locked so two
// concurrent submits cannot both pass the status check.
func (s *Store) Submit(ctx context.Context, id int64) (*Report, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var status string
	err = tx.QueryRow(ctx,
		`SELECT status FROM cashier_reports WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if status == StatusSubmitted {
		return nil, ErrAlreadySubmitted
	}

	if _, err := tx.Exec(ctx,
		`UPDATE cashier_reports SET status = $1, updated_at = now() WHERE id = $2`,
		StatusSubmitted, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

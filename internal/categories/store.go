package categories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("category not found")
	ErrWrongParent   = errors.New("parent must be an active expense category")
	ErrIncomeNesting = errors.New("income categories cannot have a parent")
)

type Store struct {
	Pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

const categoryColumns = `id, name, type, parent_id, analytic_tag, is_active, created_at`

func scanCategory(row pgx.Row) (*Category, error) {
	var cat Category
	err := row.Scan(&cat.ID, &cat.Name, &cat.Type, &cat.ParentID, &cat.AnalyticTag, &cat.IsActive, &cat.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Category, error) {
	return scanCategory(s.Pool.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
}

// TypeOf resolves a category's type inside the caller's transaction. Used by
// the ledger engine to enforce type-matching at create time.
func (s *Store) TypeOf(ctx context.Context, tx pgx.Tx, id int64) (string, error) {
	var t string
	err := tx.QueryRow(ctx,
		`SELECT type FROM categories WHERE id = $1 AND is_active = TRUE`, id).Scan(&t)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return t, err
}

// Exists checks an active category inside the caller's transaction without
// looking at its type.
func (s *Store) Exists(ctx context.Context, tx pgx.Tx, id int64) error {
	var one int
	err := tx.QueryRow(ctx,
		`SELECT 1 FROM categories WHERE id = $1 AND is_active = TRUE`, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *Store) ListActive(ctx context.Context, categoryType string) ([]Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM categories WHERE is_active = TRUE`
	args := []any{}
	if categoryType != "" {
		q += ` AND type = $1`
		args = append(args, categoryType)
	}
	q += ` ORDER BY name`

	rows, err := s.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Type, &cat.ParentID, &cat.AnalyticTag, &cat.IsActive, &cat.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	if req.ParentID != nil {
		if req.Type == TypeIncome {
			return nil, ErrIncomeNesting
		}
		parent, err := s.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.Type != TypeExpense || !parent.IsActive {
			return nil, ErrWrongParent
		}
	}
	return scanCategory(s.Pool.QueryRow(ctx,
		`INSERT INTO categories (name, type, parent_id, analytic_tag)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+categoryColumns,
		req.Name, req.Type, req.ParentID, req.AnalyticTag))
}

func (s *Store) Update(ctx context.Context, id int64, req UpdateCategoryRequest) (*Category, error) {
	cat, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		cat.Name = *req.Name
	}
	if req.AnalyticTag != nil {
		cat.AnalyticTag = req.AnalyticTag
	}
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}
	return scanCategory(s.Pool.QueryRow(ctx,
		`UPDATE categories SET name = $1, analytic_tag = $2, is_active = $3
		 WHERE id = $4
		 RETURNING `+categoryColumns,
		cat.Name, cat.AnalyticTag, cat.IsActive, id))
}

func (s *Store) Deactivate(ctx context.Context, id int64) error {
	ct, err := s.Pool.Exec(ctx,
		`UPDATE categories SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

package paymethods

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("payment method not found")

type Store struct {
	Pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

const methodColumns = `id, name, commission_percent, default_account_id, is_active, created_at`

func scanMethod(row pgx.Row) (*PaymentMethod, error) {
	var m PaymentMethod
	err := row.Scan(&m.ID, &m.Name, &m.CommissionPercent, &m.DefaultAccountID, &m.IsActive, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*PaymentMethod, error) {
	return scanMethod(s.Pool.QueryRow(ctx,
		`SELECT `+methodColumns+` FROM payment_methods WHERE id = $1`, id))
}

// getForResolve reads the fields the account resolver needs inside the
// caller's transaction.
func (s *Store) getForResolve(ctx context.Context, tx pgx.Tx, id int64) (name string, defaultAccountID *int64, err error) {
	err = tx.QueryRow(ctx,
		`SELECT name, default_account_id FROM payment_methods WHERE id = $1 AND is_active = TRUE`,
		id,
	).Scan(&name, &defaultAccountID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil, ErrNotFound
	}
	return name, defaultAccountID, err
}

func (s *Store) ListActive(ctx context.Context) ([]PaymentMethod, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+methodColumns+` FROM payment_methods WHERE is_active = TRUE ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PaymentMethod, 0)
	for rows.Next() {
		var m PaymentMethod
		if err := rows.Scan(&m.ID, &m.Name, &m.CommissionPercent, &m.DefaultAccountID, &m.IsActive, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, req CreatePaymentMethodRequest) (*PaymentMethod, error) {
	return scanMethod(s.Pool.QueryRow(ctx,
		`INSERT INTO payment_methods (name, commission_percent, default_account_id)
		 VALUES ($1, $2, $3)
		 RETURNING `+methodColumns,
		req.Name, req.CommissionPercent, req.DefaultAccountID))
}

func (s *Store) Update(ctx context.Context, id int64, req UpdatePaymentMethodRequest) (*PaymentMethod, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.CommissionPercent != nil {
		m.CommissionPercent = *req.CommissionPercent
	}
	if req.DefaultAccountID != nil {
		m.DefaultAccountID = req.DefaultAccountID
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}
	return scanMethod(s.Pool.QueryRow(ctx,
		`UPDATE payment_methods
		 SET name = $1, commission_percent = $2, default_account_id = $3, is_active = $4
		 WHERE id = $5
		 RETURNING `+methodColumns,
		m.Name, m.CommissionPercent, m.DefaultAccountID, m.IsActive, id))
}

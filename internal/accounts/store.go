package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

type Store struct {
	Pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

const accountColumns = `id, name, type, currency, initial_balance, current_balance, is_active, created_at`

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Name, &a.Type, &a.Currency, &a.InitialBalance, &a.CurrentBalance, &a.IsActive, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Account, error) {
	return scanAccount(s.Pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

func (s *Store) ListActive(ctx context.Context) ([]Account, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE is_active = TRUE ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Account, 0)
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.Currency, &a.InitialBalance, &a.CurrentBalance, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// FirstActiveByType returns the oldest active account of the given type,
// matching the table-scan order the payment-method mapping has always used.
func (s *Store) FirstActiveByType(ctx context.Context, tx pgx.Tx, accountType string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx,
		`SELECT id FROM accounts WHERE type = $1 AND is_active = TRUE ORDER BY id LIMIT 1`,
		accountType,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return id, err
}

func (s *Store) FirstActive(ctx context.Context, tx pgx.Tx) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx,
		`SELECT id FROM accounts WHERE is_active = TRUE ORDER BY id LIMIT 1`,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return id, err
}

// ApplyDelta adds a signed delta to an account's running balance inside the
// caller's transaction. The row is locked for the duration of the transaction
// so concurrent mutations of the same account serialize instead of losing
// updates. Fails with ErrInsufficientFunds when the result would go negative;
// the caller is expected to roll back.
//
// The ledger engine is the only caller on the transaction path.
func (s *Store) ApplyDelta(ctx context.Context, tx pgx.Tx, accountID int64, delta decimal.Decimal) error {
	var current decimal.Decimal
	err := tx.QueryRow(ctx,
		`SELECT current_balance FROM accounts WHERE id = $1 AND is_active = TRUE FOR UPDATE`,
		accountID,
	).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: id %d", ErrNotFound, accountID)
	}
	if err != nil {
		return err
	}

	next, err := nextBalance(current, delta)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE accounts SET current_balance = $1, updated_at = now() WHERE id = $2`,
		next, accountID,
	)
	return err
}

// nextBalance computes the balance after a signed delta. Draining an account
// to exactly zero is allowed; anything below is not.
func nextBalance(current, delta decimal.Decimal) (decimal.Decimal, error) {
	next := current.Add(delta)
	if next.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: available %s", ErrInsufficientFunds, current)
	}
	return next, nil
}

func (s *Store) Create(ctx context.Context, req CreateAccountRequest) (*Account, error) {
	return scanAccount(s.Pool.QueryRow(ctx,
		`INSERT INTO accounts (name, type, currency, initial_balance, current_balance)
		 VALUES ($1, $2, COALESCE(NULLIF($3,''),'UZS'), $4, $4)
		 RETURNING `+accountColumns,
		req.Name, req.Type, req.Currency, req.InitialBalance))
}

// Update applies administrative edits. Balance fields are deliberately not
// reachable from here; only ApplyDelta moves money.
func (s *Store) Update(ctx context.Context, id int64, req UpdateAccountRequest) (*Account, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.Type != nil {
		a.Type = *req.Type
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	return scanAccount(s.Pool.QueryRow(ctx,
		`UPDATE accounts SET name = $1, type = $2, is_active = $3, updated_at = now()
		 WHERE id = $4
		 RETURNING `+accountColumns,
		a.Name, a.Type, a.IsActive, id))
}

func (s *Store) Deactivate(ctx context.Context, id int64) error {
	ct, err := s.Pool.Exec(ctx,
		`UPDATE accounts SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Balance sums the account's full transaction history and derives the balance
// from initial_balance. Useful as a consistency check against current_balance.
func (s *Store) Balance(ctx context.Context, id int64) (*BalanceView, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	v := BalanceView{AccountID: id}
	err = s.Pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'income' AND account_id = $1 THEN amount END), 0),
			COALESCE(SUM(CASE WHEN type = 'expense' AND account_id = $1 THEN amount END), 0),
			COALESCE(SUM(CASE WHEN type IN ('transfer','incasation') AND to_account_id = $1 THEN amount END), 0),
			COALESCE(SUM(CASE WHEN type = 'transfer' AND from_account_id = $1 THEN amount + commission
			              WHEN type = 'incasation' AND from_account_id = $1 THEN amount END), 0)
		FROM timeline
	`, id).Scan(&v.TotalIncome, &v.TotalExpense, &v.TransferIn, &v.TransferOut)
	if err != nil {
		return nil, err
	}

	v.Balance = a.InitialBalance.
		Add(v.TotalIncome).
		Sub(v.TotalExpense).
		Add(v.TransferIn).
		Sub(v.TransferOut)
	return &v, nil
}

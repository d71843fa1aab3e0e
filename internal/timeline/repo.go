package timeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("transaction not found")

// Repo is pure persistence over the timeline table. All business rules live
// in the ledger engine.
type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

func (r *Repo) Insert(ctx context.Context, tx pgx.Tx, e *Entry) error {
	return tx.QueryRow(ctx, `
		INSERT INTO timeline (date, type, amount, category_id, account_id, payment_method_id,
		                      from_account_id, to_account_id, commission, description, location_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`,
		e.Date, e.Type, e.Amount, e.CategoryID, e.AccountID, e.PaymentMethodID,
		e.FromAccountID, e.ToAccountID, e.Commission, e.Description, e.LocationID, e.UserID,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// GetForUpdate loads and locks one entry inside the caller's transaction, so
// a concurrent update/delete of the same transaction serializes.
func (r *Repo) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*Entry, error) {
	var e Entry
	err := tx.QueryRow(ctx, `
		SELECT id, date, type, amount, category_id, account_id, payment_method_id,
		       from_account_id, to_account_id, commission, description, location_id, user_id,
		       created_at, updated_at
		FROM timeline WHERE id = $1
		FOR UPDATE
	`, id).Scan(
		&e.ID, &e.Date, &e.Type, &e.Amount, &e.CategoryID, &e.AccountID, &e.PaymentMethodID,
		&e.FromAccountID, &e.ToAccountID, &e.Commission, &e.Description, &e.LocationID, &e.UserID,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repo) Update(ctx context.Context, tx pgx.Tx, e *Entry) error {
	ct, err := tx.Exec(ctx, `
		UPDATE timeline
		SET date = $1, amount = $2, category_id = $3, account_id = $4, payment_method_id = $5,
		    from_account_id = $6, to_account_id = $7, commission = $8, description = $9,
		    location_id = $10, updated_at = now()
		WHERE id = $11
	`,
		e.Date, e.Amount, e.CategoryID, e.AccountID, e.PaymentMethodID,
		e.FromAccountID, e.ToAccountID, e.Commission, e.Description, e.LocationID, e.ID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	ct, err := tx.Exec(ctx, `DELETE FROM timeline WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const recordQuery = `
	SELECT t.id, t.date::text, t.type, t.amount,
	       t.category_id, c.name,
	       t.account_id, a.name,
	       t.payment_method_id, pm.name,
	       t.from_account_id, fa.name,
	       t.to_account_id, ta.name,
	       t.commission, t.description,
	       t.location_id, l.name,
	       t.user_id, u.full_name,
	       t.created_at
	FROM timeline t
	LEFT JOIN categories c ON t.category_id = c.id
	LEFT JOIN accounts a ON t.account_id = a.id
	LEFT JOIN payment_methods pm ON t.payment_method_id = pm.id
	LEFT JOIN accounts fa ON t.from_account_id = fa.id
	LEFT JOIN accounts ta ON t.to_account_id = ta.id
	LEFT JOIN locations l ON t.location_id = l.id
	LEFT JOIN users u ON t.user_id = u.id
`

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID, &rec.Date, &rec.Type, &rec.Amount,
		&rec.CategoryID, &rec.CategoryName,
		&rec.AccountID, &rec.AccountName,
		&rec.PaymentMethodID, &rec.PaymentMethodName,
		&rec.FromAccountID, &rec.FromAccountName,
		&rec.ToAccountID, &rec.ToAccountName,
		&rec.Commission, &rec.Description,
		&rec.LocationID, &rec.LocationName,
		&rec.UserID, &rec.CreatedByName,
		&rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetRecord returns one entry with its joined names.
func (r *Repo) GetRecord(ctx context.Context, id int64) (*Record, error) {
	return scanRecord(r.Pool.QueryRow(ctx, recordQuery+` WHERE t.id = $1`, id))
}

// List returns joined records ordered by date then id, newest first.
func (r *Repo) List(ctx context.Context, f ListFilter) ([]Record, error) {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := recordQuery + ` WHERE 1=1`
	args := []any{}
	if f.StartDate != "" {
		args = append(args, f.StartDate)
		q += ` AND t.date >= $` + strconv.Itoa(len(args))
	}
	if f.EndDate != "" {
		args = append(args, f.EndDate)
		q += ` AND t.date <= $` + strconv.Itoa(len(args))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		q += ` AND t.type = $` + strconv.Itoa(len(args))
	}
	args = append(args, f.Limit, f.Offset)
	q += fmt.Sprintf(` ORDER BY t.date DESC, t.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0, f.Limit)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID, &rec.Date, &rec.Type, &rec.Amount,
			&rec.CategoryID, &rec.CategoryName,
			&rec.AccountID, &rec.AccountName,
			&rec.PaymentMethodID, &rec.PaymentMethodName,
			&rec.FromAccountID, &rec.FromAccountName,
			&rec.ToAccountID, &rec.ToAccountName,
			&rec.Commission, &rec.Description,
			&rec.LocationID, &rec.LocationName,
			&rec.UserID, &rec.CreatedByName,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

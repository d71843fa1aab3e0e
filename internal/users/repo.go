package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("user not found")

type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

const userColumns = `id, telegram_id, username, full_name, role, is_active, created_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.TelegramID, &u.Username, &u.FullName, &u.Role, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*User, error) {
	return scanUser(r.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *Repo) GetActiveByTelegramID(ctx context.Context, telegramID int64) (*User, error) {
	return scanUser(r.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE telegram_id = $1 AND is_active = TRUE`, telegramID))
}

func (r *Repo) ListActive(ctx context.Context) ([]User, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE is_active = TRUE ORDER BY full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.TelegramID, &u.Username, &u.FullName, &u.Role, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) Create(ctx context.Context, telegramID int64, username *string, fullName, role string) (*User, error) {
	return scanUser(r.Pool.QueryRow(ctx,
		`INSERT INTO users (telegram_id, username, full_name, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		telegramID, username, fullName, role))
}

package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Handler struct {
	Pool *pgxpool.Pool
}

func NewHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{Pool: pool}
}

type latestEntry struct {
	ID       int64           `json:"id"`
	Type     string          `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	UserName string          `json:"user_name"`
}

type OverviewResponse struct {
	UsersTotal        int64           `json:"users_total"`
	AccountsTotal     int64           `json:"accounts_total"`
	TransactionsTotal int64           `json:"transactions_total"`
	BalanceTotal      decimal.Decimal `json:"balance_total"`
	LatestEntries     []latestEntry   `json:"latest_entries"`
}

// Overview returns operational totals for the owner console.
func (h *Handler) Overview(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var resp OverviewResponse

	if err := h.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE is_active = TRUE`).Scan(&resp.UsersTotal); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed users_total")
	}
	if err := h.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE is_active = TRUE`).Scan(&resp.AccountsTotal); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed accounts_total")
	}
	if err := h.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM timeline`).Scan(&resp.TransactionsTotal); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed transactions_total")
	}
	if err := h.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(current_balance), 0) FROM accounts WHERE is_active = TRUE`,
	).Scan(&resp.BalanceTotal); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed balance_total")
	}

	rows, err := h.Pool.Query(ctx, `
		SELECT t.id, t.type, t.amount, t.date::text, u.full_name
		FROM timeline t
		JOIN users u ON t.user_id = u.id
		ORDER BY t.created_at DESC
		LIMIT 20`)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed latest_entries")
	}
	defer rows.Close()

	resp.LatestEntries = make([]latestEntry, 0)
	for rows.Next() {
		var e latestEntry
		if err := rows.Scan(&e.ID, &e.Type, &e.Amount, &e.Date, &e.UserName); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed scan latest_entries")
		}
		resp.LatestEntries = append(resp.LatestEntries, e)
	}
	if err := rows.Err(); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed latest_entries rows")
	}

	return c.JSON(resp)
}

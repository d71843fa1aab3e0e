package locations

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/auth"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/users"
)

type Location struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Handler struct {
	Pool *pgxpool.Pool
}

func NewHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{Pool: pool}
}

func (h *Handler) list(ctx context.Context) ([]Location, error) {
	rows, err := h.Pool.Query(ctx,
		`SELECT id, name, address, is_active, created_at
		 FROM locations WHERE is_active = TRUE ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Location, 0)
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.IsActive, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (h *Handler) List(c *fiber.Ctx) error {
	items, err := h.list(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list locations")
	}
	return c.JSON(items)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	if !users.CanManage(auth.CallerRole(c)) {
		return fiber.NewError(fiber.StatusForbidden, "access denied")
	}

	var req struct {
		Name    string  `json:"name"`
		Address *string `json:"address"`
	}
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name required")
	}

	var l Location
	err := h.Pool.QueryRow(c.UserContext(),
		`INSERT INTO locations (name, address) VALUES ($1, $2)
		 RETURNING id, name, address, is_active, created_at`,
		req.Name, req.Address,
	).Scan(&l.ID, &l.Name, &l.Address, &l.IsActive, &l.CreatedAt)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create location")
	}
	return c.Status(fiber.StatusCreated).JSON(l)
}

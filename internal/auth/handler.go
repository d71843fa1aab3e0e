package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/users"
)

type Handler struct {
	Repo     *users.Repo
	Secret   []byte
	TokenTTL time.Duration
}

type telegramAuthRequest struct {
	TelegramID int64   `json:"telegram_id"`
	Username   *string `json:"username"`
	FullName   string  `json:"full_name"`
	Role       string  `json:"role"`
}

// Telegram authenticates a mini-app user, creating the record on first
// contact. First-contact users default to the cashier role.
func (h *Handler) Telegram(c *fiber.Ctx) error {
	var req telegramAuthRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if req.TelegramID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "telegram_id required")
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "full_name required")
	}
	if req.Role == "" {
		req.Role = users.RoleCashier
	}
	if !users.ValidRole(req.Role) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid role")
	}

	ctx := c.UserContext()
	isNew := false
	u, err := h.Repo.GetActiveByTelegramID(ctx, req.TelegramID)
	if errors.Is(err, users.ErrNotFound) {
		u, err = h.Repo.Create(ctx, req.TelegramID, req.Username, req.FullName, req.Role)
		isNew = true
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "auth failed")
	}

	resp := fiber.Map{"user": u, "is_new": isNew}
	if len(h.Secret) > 0 {
		token, err := SignToken(h.Secret, u.ID, h.TokenTTL)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "auth failed")
		}
		resp["token"] = token
	}
	return c.JSON(resp)
}

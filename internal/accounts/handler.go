package accounts

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/auth"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/users"
)

type Handler struct {
	Store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) List(c *fiber.Ctx) error {
	items, err := h.Store.ListActive(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list accounts")
	}
	return c.JSON(items)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	if !users.CanManage(auth.CallerRole(c)) {
		return fiber.NewError(fiber.StatusForbidden, "access denied")
	}

	var req CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name required")
	}
	if !ValidType(req.Type) {
		return fiber.NewError(fiber.StatusBadRequest, "type must be cash, bank or card")
	}
	if req.InitialBalance.IsNegative() {
		return fiber.NewError(fiber.StatusBadRequest, "initial_balance cannot be negative")
	}

	a, err := h.Store.Create(c.UserContext(), req)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create account")
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	if !users.CanManage(auth.CallerRole(c)) {
		return fiber.NewError(fiber.StatusForbidden, "access denied")
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var req UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if req.Type != nil && !ValidType(*req.Type) {
		return fiber.NewError(fiber.StatusBadRequest, "type must be cash, bank or card")
	}

	a, err := h.Store.Update(c.UserContext(), id, req)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "account not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update account")
	}
	return c.JSON(a)
}

func (h *Handler) Deactivate(c *fiber.Ctx) error {
	if !users.CanManage(auth.CallerRole(c)) {
		return fiber.NewError(fiber.StatusForbidden, "access denied")
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}

	if err := h.Store.Deactivate(c.UserContext(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "account not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to deactivate account")
	}
	return c.JSON(fiber.Map{"success": true})
}

// Balance serves the reconciliation view derived from transaction history.
func (h *Handler) Balance(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	v, err := h.Store.Balance(c.UserContext(), id)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "account not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to compute balance")
	}
	return c.JSON(v)
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

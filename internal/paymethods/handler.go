package paymethods

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
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list payment methods")
	}
	return c.JSON(items)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	if !users.CanManage(auth.CallerRole(c)) {
		return fiber.NewError(fiber.StatusForbidden, "access denied")
	}

	var req CreatePaymentMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name required")
	}
	if req.CommissionPercent.IsNegative() {
		return fiber.NewError(fiber.StatusBadRequest, "commission_percent cannot be negative")
	}

	m, err := h.Store.Create(c.UserContext(), req)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create payment method")
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	if !users.CanManage(auth.CallerRole(c)) {
		return fiber.NewError(fiber.StatusForbidden, "access denied")
	}
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req UpdatePaymentMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	m, err := h.Store.Update(c.UserContext(), id, req)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "payment method not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update payment method")
	}
	return c.JSON(m)
}

package ledger

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/accounts"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/auth"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/categories"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/paymethods"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/timeline"
)

type Handler struct {
	Engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{Engine: engine}
}

// CreateExpense and friends pin the transaction type server-side so a client
// cannot smuggle a different one through the body.
func (h *Handler) CreateExpense(c *fiber.Ctx) error {
	return h.create(c, timeline.TypeExpense)
}

func (h *Handler) CreateIncome(c *fiber.Ctx) error {
	return h.create(c, timeline.TypeIncome)
}

func (h *Handler) CreateTransfer(c *fiber.Ctx) error {
	return h.create(c, timeline.TypeTransfer)
}

func (h *Handler) CreateIncasation(c *fiber.Ctx) error {
	return h.create(c, timeline.TypeIncasation)
}

func (h *Handler) create(c *fiber.Ctx, txType string) error {
	callerID := auth.CallerID(c)
	if callerID == 0 {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var draft Draft
	if err := c.BodyParser(&draft); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	draft.Type = txType

	rec, err := h.Engine.Create(c.UserContext(), draft, callerID)
	if err != nil {
		return ledgerError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

func (h *Handler) List(c *fiber.Ctx) error {
	f := timeline.ListFilter{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Type:      c.Query("type"),
		Limit:     c.QueryInt("limit", 100),
		Offset:    c.QueryInt("offset", 0),
	}
	if f.Type != "" && !timeline.ValidType(f.Type) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid type filter")
	}

	items, err := h.Engine.List(c.UserContext(), f)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list operations")
	}
	return c.JSON(items)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	rec, err := h.Engine.Get(c.UserContext(), id)
	if err != nil {
		return ledgerError(err)
	}
	return c.JSON(rec)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	callerID := auth.CallerID(c)
	if callerID == 0 {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	rec, err := h.Engine.Update(c.UserContext(), id, req, callerID)
	if err != nil {
		return ledgerError(err)
	}
	return c.JSON(rec)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	callerID := auth.CallerID(c)
	if callerID == 0 {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Engine.Delete(c.UserContext(), id, callerID); err != nil {
		return ledgerError(err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "operation deleted"})
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// ledgerError maps engine errors onto stable HTTP responses. The caller can
// branch on the message; persistence failures stay opaque.
func ledgerError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidType),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrCategoryMismatch),
		errors.Is(err, ErrSameAccount),
		errors.Is(err, ErrAccountRequired),
		errors.Is(err, ErrFieldNotAllowed):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, accounts.ErrInsufficientFunds):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrAccessDenied):
		return fiber.NewError(fiber.StatusForbidden, "access denied")
	case errors.Is(err, ErrNotFound),
		errors.Is(err, timeline.ErrNotFound),
		errors.Is(err, accounts.ErrNotFound),
		errors.Is(err, categories.ErrNotFound),
		errors.Is(err, paymethods.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}

package categories

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
	categoryType := c.Query("type")
	if categoryType != "" && !ValidType(categoryType) {
		return fiber.NewError(fiber.StatusBadRequest, "type must be expense or income")
	}

	items, err := h.Store.ListActive(c.UserContext(), categoryType)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list categories")
	}
	return c.JSON(items)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	if !users.CanManage(auth.CallerRole(c)) {
		return fiber.NewError(fiber.StatusForbidden, "access denied")
	}

	var req CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name required")
	}
	if !ValidType(req.Type) {
		return fiber.NewError(fiber.StatusBadRequest, "type must be expense or income")
	}

	cat, err := h.Store.Create(c.UserContext(), req)
	switch {
	case errors.Is(err, ErrIncomeNesting), errors.Is(err, ErrWrongParent):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "parent category not found")
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create category")
	}
	return c.Status(fiber.StatusCreated).JSON(cat)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	if !users.CanManage(auth.CallerRole(c)) {
		return fiber.NewError(fiber.StatusForbidden, "access denied")
	}
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	cat, err := h.Store.Update(c.UserContext(), id, req)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "category not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update category")
	}
	return c.JSON(cat)
}

func (h *Handler) Deactivate(c *fiber.Ctx) error {
	if !users.CanManage(auth.CallerRole(c)) {
		return fiber.NewError(fiber.StatusForbidden, "access denied")
	}
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.Store.Deactivate(c.UserContext(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to archive category")
	}
	return c.JSON(fiber.Map{"success": true})
}

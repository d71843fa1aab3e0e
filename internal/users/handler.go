package users

import (
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) List(c *fiber.Ctx) error {
	items, err := h.Repo.ListActive(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list users")
	}
	return c.JSON(items)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	id, _ := c.Locals("user_id").(int64)
	if id == 0 {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	u, err := h.Repo.GetByID(c.UserContext(), id)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}
	return c.JSON(u)
}

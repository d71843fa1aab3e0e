package analytics

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Repo  *Repo
	Cache *Cache
}

func NewHandler(repo *Repo, cache *Cache) *Handler {
	return &Handler{Repo: repo, Cache: cache}
}

// currentMonth returns the first day of the current month and today.
func currentMonth() (string, string) {
	now := time.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.Format("2006-01-02"), now.Format("2006-01-02")
}

func last30Days() (string, string) {
	now := time.Now()
	return now.AddDate(0, 0, -30).Format("2006-01-02"), now.Format("2006-01-02")
}

func period(c *fiber.Ctx, defaultStart, defaultEnd string) (string, string, error) {
	start := c.Query("start_date", defaultStart)
	end := c.Query("end_date", defaultEnd)
	for _, d := range []string{start, end} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return "", "", fiber.NewError(fiber.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
	}
	if start > end {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "start_date must not be after end_date")
	}
	return start, end, nil
}

// respond serves the payload through the cache: hit returns the cached JSON
// as-is, miss computes, stores and returns.
func (h *Handler) respond(c *fiber.Ctx, key string, compute func() (any, error)) error {
	var cached json.RawMessage
	if h.Cache.Get(c.UserContext(), key, &cached) {
		c.Set("Content-Type", "application/json")
		return c.Send(cached)
	}
	payload, err := compute()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "analytics query failed")
	}
	h.Cache.Set(c.UserContext(), key, payload)
	return c.JSON(payload)
}

func (h *Handler) Summary(c *fiber.Ctx) error {
	ds, de := currentMonth()
	start, end, err := period(c, ds, de)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("summary:%s:%s", start, end)
	return h.respond(c, key, func() (any, error) {
		return h.Repo.Summary(c.UserContext(), start, end)
	})
}

func (h *Handler) ByCategory(c *fiber.Ctx) error {
	txType := c.Query("type", "expense")
	if txType != "expense" && txType != "income" {
		return fiber.NewError(fiber.StatusBadRequest, "type must be expense or income")
	}
	ds, de := currentMonth()
	start, end, err := period(c, ds, de)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("bycategory:%s:%s:%s", txType, start, end)
	return h.respond(c, key, func() (any, error) {
		return h.Repo.ByCategory(c.UserContext(), txType, start, end)
	})
}

func (h *Handler) Dashboard(c *fiber.Ctx) error {
	ds, de := last30Days()
	start, end, err := period(c, ds, de)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("dashboard:%s:%s", start, end)
	return h.respond(c, key, func() (any, error) {
		return h.Repo.Dashboard(c.UserContext(), start, end)
	})
}

func (h *Handler) Pivot(c *fiber.Ctx) error {
	groupBy := c.Query("group_by", "month")
	if groupBy != "month" && groupBy != "day" {
		return fiber.NewError(fiber.StatusBadRequest, "group_by must be month or day")
	}
	ds, de := last30Days()
	start, end, err := period(c, ds, de)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("pivot:%s:%s:%s", groupBy, start, end)
	return h.respond(c, key, func() (any, error) {
		table, err := h.Repo.Pivot(c.UserContext(), start, end, groupBy)
		if err != nil {
			return nil, err
		}
		return fiber.Map{
			"period":   Period{StartDate: start, EndDate: end},
			"group_by": groupBy,
			"table":    table,
		}, nil
	})
}

func (h *Handler) Trend(c *fiber.Ctx) error {
	ds, de := last30Days()
	start, end, err := period(c, ds, de)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("trend:%s:%s", start, end)
	return h.respond(c, key, func() (any, error) {
		points, err := h.Repo.Trend(c.UserContext(), start, end)
		if err != nil {
			return nil, err
		}
		return fiber.Map{
			"period": Period{StartDate: start, EndDate: end},
			"points": points,
		}, nil
	})
}

func (h *Handler) CellDetails(c *fiber.Ctx) error {
	categoryName := c.Query("category")
	if categoryName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "category is required")
	}
	ds, de := last30Days()
	start, end, err := period(c, ds, de)
	if err != nil {
		return err
	}
	ops, err := h.Repo.CellDetails(c.UserContext(), categoryName, start, end)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "analytics query failed")
	}
	return c.JSON(fiber.Map{
		"category":   categoryName,
		"period":     Period{StartDate: start, EndDate: end},
		"operations": ops,
	})
}

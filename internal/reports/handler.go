package reports

import (
	"errors"
	"strconv"
	"time"

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

func (h *Handler) Create(c *fiber.Ctx) error {
	var req CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.ReportDate == "" {
		req.ReportDate = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", req.ReportDate); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "report_date must be YYYY-MM-DD")
	}
	for _, l := range req.Income {
		if !l.Amount.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "income amounts must be positive")
		}
	}
	for _, l := range req.Expenses {
		if !l.Amount.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "expense amounts must be positive")
		}
	}
	if req.OpeningBalance.IsNegative() {
		return fiber.NewError(fiber.StatusBadRequest, "opening_balance must not be negative")
	}

	report, err := h.Store.Create(c.UserContext(), auth.CallerID(c), req)
	if err != nil {
		if errors.Is(err, ErrEmptyReport) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create report")
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid report id")
	}
	report, err := h.Store.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "report not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load report")
	}
	if !h.canView(c, report) {
		return fiber.NewError(fiber.StatusForbidden, "access denied")
	}
	return c.JSON(report)
}

func (h *Handler) List(c *fiber.Ctx) error {
	f := ListFilter{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Status:    c.Query("status"),
		UserID:    int64(c.QueryInt("user_id")),
	}
	// cashiers only see their own reports
	if !users.CanManage(auth.CallerRole(c)) {
		f.UserID = auth.CallerID(c)
	}
	reports, err := h.Store.List(c.UserContext(), f)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list reports")
	}
	return c.JSON(fiber.Map{"reports": reports, "count": len(reports)})
}

func (h *Handler) Submit(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid report id")
	}
	report, err := h.Store.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "report not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load report")
	}
	if !h.canView(c, report) {
		return fiber.NewError(fiber.StatusForbidden, "access denied")
	}

	report, err = h.Store.Submit(c.UserContext(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadySubmitted):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(fiber.StatusNotFound, "report not found")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "failed to submit report")
		}
	}
	return c.JSON(report)
}

func (h *Handler) canView(c *fiber.Ctx, r *Report) bool {
	return users.CanManage(auth.CallerRole(c)) || r.UserID == auth.CallerID(c)
}

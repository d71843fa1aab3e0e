package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/accounts"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/admin"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/analytics"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/auth"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/categories"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/ledger"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/locations"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/paymethods"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/reports"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/users"
)

type Router struct {
	AuthHandler      *auth.Handler
	UsersHandler     *users.Handler
	AccountsHandler  *accounts.Handler
	CategoryHandler  *categories.Handler
	PayMethodHandler *paymethods.Handler
	LocationHandler  *locations.Handler
	LedgerHandler    *ledger.Handler
	AnalyticsHandler *analytics.Handler
	ReportsHandler   *reports.Handler
	AdminHandler     *admin.Handler
	AuthMW           fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	app.Post("/api/auth/telegram", RateLimitAuth(), r.AuthHandler.Telegram)

	api := app.Group("/api", r.AuthMW)

	api.Get("/users", r.UsersHandler.List)
	api.Get("/users/me", r.UsersHandler.Me)

	api.Get("/accounts", r.AccountsHandler.List)
	api.Post("/accounts", r.AccountsHandler.Create)
	api.Put("/accounts/:id", r.AccountsHandler.Update)
	api.Delete("/accounts/:id", r.AccountsHandler.Deactivate)
	api.Get("/accounts/:id/balance", r.AccountsHandler.Balance)

	api.Get("/categories", r.CategoryHandler.List)
	api.Post("/categories", r.CategoryHandler.Create)
	api.Put("/categories/:id", r.CategoryHandler.Update)
	api.Delete("/categories/:id", r.CategoryHandler.Deactivate)

	api.Get("/payment-methods", r.PayMethodHandler.List)
	api.Post("/payment-methods", r.PayMethodHandler.Create)
	api.Put("/payment-methods/:id", r.PayMethodHandler.Update)

	api.Get("/locations", r.LocationHandler.List)
	api.Post("/locations", r.LocationHandler.Create)

	write := RateLimitWrite()
	api.Post("/expenses", write, r.LedgerHandler.CreateExpense)
	api.Post("/income", write, r.LedgerHandler.CreateIncome)
	api.Post("/transfers", write, r.LedgerHandler.CreateTransfer)
	api.Post("/incasations", write, r.LedgerHandler.CreateIncasation)
	api.Get("/timeline", r.LedgerHandler.List)
	api.Get("/timeline/:id", r.LedgerHandler.Get)
	api.Put("/timeline/:id", write, r.LedgerHandler.Update)
	api.Delete("/timeline/:id", write, r.LedgerHandler.Delete)

	api.Get("/analytics/summary", r.AnalyticsHandler.Summary)
	api.Get("/analytics/by-category", r.AnalyticsHandler.ByCategory)
	api.Get("/analytics/dashboard", r.AnalyticsHandler.Dashboard)
	api.Get("/analytics/pivot", r.AnalyticsHandler.Pivot)
	api.Get("/analytics/trend", r.AnalyticsHandler.Trend)
	api.Get("/analytics/cell-details", r.AnalyticsHandler.CellDetails)

	api.Post("/cashier-reports", write, r.ReportsHandler.Create)
	api.Get("/cashier-reports", r.ReportsHandler.List)
	api.Get("/cashier-reports/:id", r.ReportsHandler.Get)
	api.Post("/cashier-reports/:id/submit", write, r.ReportsHandler.Submit)
	api.Get("/cashier-reports/:id/pdf", r.ReportsHandler.ReportPDF)

	api.Get("/admin/overview", admin.RequireOwner(), r.AdminHandler.Overview)
}

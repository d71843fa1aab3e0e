package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/accounts"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/admin"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/analytics"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/auth"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/categories"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/config"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/ledger"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/locations"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/logger"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/paymethods"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/reports"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/router"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/timeline"
	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}
	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	zlog := logger.New(cfg.Server.Env)
	defer zlog.Sync()

	ctx := context.Background()
	pool, err := newPool(ctx, cfg.Database.URL)
	if err != nil {
		zlog.Fatal("database connect failed", zap.Error(err))
	}
	defer pool.Close()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(router.CorsMiddleware(cfg.CORS.Origin))
	app.Use(requestLogger(zlog))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "database unreachable")
		}
		return c.JSON(fiber.Map{"ok": true})
	})

	usersRepo := users.NewRepo(pool)
	accountsStore := accounts.NewStore(pool)
	categoryStore := categories.NewStore(pool)
	methodStore := paymethods.NewStore(pool)
	resolver := paymethods.NewResolver(methodStore, accountsStore, cfg.Ledger.FallbackPolicy)
	timelineRepo := timeline.NewRepo(pool)
	cache := analytics.NewCache(cfg.Redis.URL, zlog)

	engine := ledger.NewEngine(pool, accountsStore, categoryStore, resolver, timelineRepo, usersRepo, cache, zlog)

	secret := []byte(cfg.Auth.JWTSecret)
	tokenTTL := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour

	r := &router.Router{
		AuthHandler:      &auth.Handler{Repo: usersRepo, Secret: secret, TokenTTL: tokenTTL},
		UsersHandler:     users.NewHandler(usersRepo),
		AccountsHandler:  accounts.NewHandler(accountsStore),
		CategoryHandler:  categories.NewHandler(categoryStore),
		PayMethodHandler: paymethods.NewHandler(methodStore),
		LocationHandler:  locations.NewHandler(pool),
		LedgerHandler:    ledger.NewHandler(engine),
		AnalyticsHandler: analytics.NewHandler(analytics.NewRepo(pool), cache),
		ReportsHandler:   reports.NewHandler(reports.NewStore(pool)),
		AdminHandler:     admin.NewHandler(pool),
		AuthMW:           auth.Middleware(usersRepo, secret),
	}
	r.RegisterRoutes(app)

	zlog.Info("listening", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.Env))
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

// newPool builds a pgx pool with numeric columns scanning into decimals.
func newPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pc.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func requestLogger(zlog *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID := uuid.NewString()
		c.Set("X-Request-Id", reqID)

		err := c.Next()

		zlog.Info("request",
			zap.String("request_id", reqID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
		)
		return err
	}
}

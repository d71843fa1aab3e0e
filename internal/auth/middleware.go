package auth

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/alisheryusupov0220-arch/air-waffle-finance-analytics/internal/users"
)

// Middleware resolves the calling user either from the Telegram mini-app
// header (X-Telegram-Id, as the chat bot sends it) or from a Bearer token
// minted by the /auth/telegram endpoint. The resolved user id and role are
// stored in Locals for downstream handlers.
func Middleware(repo *users.Repo, secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tg := strings.TrimSpace(c.Get("X-Telegram-Id")); tg != "" {
			telegramID, err := strconv.ParseInt(tg, 10, 64)
			if err != nil {
				return fiber.NewError(fiber.StatusUnauthorized, "invalid X-Telegram-Id")
			}
			u, err := repo.GetActiveByTelegramID(c.UserContext(), telegramID)
			if err != nil {
				return fiber.NewError(fiber.StatusUnauthorized, "user not found or inactive")
			}
			setCaller(c, u)
			return c.Next()
		}

		authHeader := strings.TrimSpace(c.Get("Authorization"))
		if authHeader == "" || len(secret) == 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "missing credentials")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid token")
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		idVal, ok := claims["user_id"].(float64)
		if !ok || idVal <= 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		u, err := repo.GetByID(c.UserContext(), int64(idVal))
		if err != nil || !u.IsActive {
			return fiber.NewError(fiber.StatusUnauthorized, "user not found or inactive")
		}
		setCaller(c, u)
		return c.Next()
	}
}

func setCaller(c *fiber.Ctx, u *users.User) {
	c.Locals("user_id", u.ID)
	c.Locals("user_role", u.Role)
}

// CallerID returns the authenticated user's id, or 0 when unauthenticated.
func CallerID(c *fiber.Ctx) int64 {
	if v, ok := c.Locals("user_id").(int64); ok {
		return v
	}
	return 0
}

func CallerRole(c *fiber.Ctx) string {
	if v, ok := c.Locals("user_role").(string); ok {
		return v
	}
	return ""
}

// SignToken mints a Bearer token for the cashier reporting tool, which cannot
// forward Telegram headers.
func SignToken(secret []byte, userID int64, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}

package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/TierPay/internal/pkg/usercontext"
)

// APIKeyAuthMiddleware accepts requests carrying the configured API key.
// An empty key disables the check.
func APIKeyAuthMiddleware(expected string) fiber.Handler {
	expected = strings.TrimSpace(expected)
	return func(c *fiber.Ctx) error {
		if expected == "" {
			return c.Next()
		}

		apiKey := extractAPIKeyFromHeader(c)
		if apiKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing API key"})
		}
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid API key"})
		}

		return c.Next()
	}
}

// OperatorMiddleware stores the sanitized X-Operator header in Locals.
func OperatorMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if op := usercontext.NormalizeOperator(c.Get(usercontext.HeaderOperator)); op != "" {
			c.Locals(usercontext.KeyOperator, op)
		}
		return c.Next()
	}
}

func extractAPIKeyFromHeader(c *fiber.Ctx) string {
	apiKey := strings.TrimSpace(c.Get("X-API-Key"))
	if apiKey != "" {
		return apiKey
	}
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

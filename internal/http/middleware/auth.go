package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"docarchive/internal/auth"
)

// ClaimsLocalKey is the Fiber locals key holding the verified *auth.Claims.
const ClaimsLocalKey = "auth_claims"

// RequireAuth rejects requests without a valid "Authorization: Bearer" token.
func RequireAuth(v auth.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		claims, err := v.Verify(strings.TrimSpace(token))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(ClaimsLocalKey, claims)
		return c.Next()
	}
}

// ClaimsFrom returns the claims stored by RequireAuth, or nil.
func ClaimsFrom(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(ClaimsLocalKey).(*auth.Claims)
	return claims
}

package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth parses the Bearer token and stores the caller's identity in
// the request locals under "user_id" and "role".
func RequireAuth(issuer *Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing token")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		claims, err := issuer.Parse(parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("role", claims.Role)
		return c.Next()
	}
}

// RequireRole rejects callers whose token carries a different role. It
// must run after RequireAuth.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got, _ := c.Locals("role").(string)
		if got != role {
			return fiber.NewError(fiber.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

// CallerID returns the authenticated user id set by RequireAuth.
func CallerID(c *fiber.Ctx) (string, bool) {
	uid, ok := c.Locals("user_id").(string)
	if !ok || strings.TrimSpace(uid) == "" {
		return "", false
	}
	return uid, true
}

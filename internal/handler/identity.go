package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Identity headers injected by the upstream auth gateway. Session and token
// verification happen there; this service only trusts the forwarded values.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

const (
	localUserID   = "userID"
	localUserRole = "userRole"
)

// RequireUser rejects requests without a well-formed forwarded identity
// before any handler logic runs: no locks are taken for a malformed caller.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(HeaderUserID)
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user identity"})
		}
		c.Locals(localUserID, id)
		c.Locals(localUserRole, c.Get(HeaderUserRole))
		return c.Next()
	}
}

// RequireRole allows only callers whose forwarded role is in roles.
// Must be mounted after RequireUser.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, _ := c.Locals(localUserRole).(string)
		for _, role := range roles {
			if current == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
	}
}

// userID returns the authenticated caller's id set by RequireUser.
func userID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(localUserID).(uuid.UUID)
	return id
}

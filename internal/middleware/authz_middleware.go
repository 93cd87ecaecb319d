package middleware

import (
	"log"

	"sweetshop/internal/authz"

	"github.com/gofiber/fiber/v2"
)

// RoleRequired lets the request through only when the enforcer allows the
// caller's role on the request path and method. It must run after AuthRequired.
func RoleRequired(enforcer *authz.Enforcer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := Role(c)
		allowed, err := enforcer.Allowed(role, c.Path(), c.Method())
		if err != nil {
			log.Printf("Authorization check failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Authorization check failed",
			})
		}
		if !allowed {
			log.Printf("Denied %s %s for user %s (role %q)", c.Method(), c.Path(), UserID(c), role)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You do not have access to this resource",
			})
		}
		return c.Next()
	}
}

package middleware

import (
	"strings"

	"go-jewelry-store/internal/apperror"
	"go-jewelry-store/internal/model"
	"go-jewelry-store/internal/service"

	"github.com/gofiber/fiber/v2"
)

const adminKey = "admin"

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", apperror.Unauthorized("Missing authorization token")
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", apperror.Unauthorized("Invalid authorization format. Use: Bearer <token>")
	}
	return parts[1], nil
}

// RequireAuth validates the bearer token, resolves the admin it names and
// stores it in the request locals for downstream handlers.
func RequireAuth(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return err
		}
		admin, err := auth.VerifyToken(c.UserContext(), token)
		if err != nil {
			return err
		}
		c.Locals(adminKey, admin)
		return c.Next()
	}
}

// RequireQueryToken is RequireAuth for clients that cannot set headers, such
// as browser websockets: the token travels as ?token=.
func RequireQueryToken(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Query("token")
		if token == "" {
			return apperror.Unauthorized("Missing authorization token")
		}
		admin, err := auth.VerifyToken(c.UserContext(), token)
		if err != nil {
			return err
		}
		c.Locals(adminKey, admin)
		return c.Next()
	}
}

// RequireRole lets the request through only for the given roles.
func RequireRole(roles ...model.AdminRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		admin := CurrentAdmin(c)
		if admin == nil {
			return apperror.Unauthorized("Authentication required")
		}
		for _, r := range roles {
			if admin.Role == r {
				return c.Next()
			}
		}
		return apperror.Forbidden("Insufficient permissions")
	}
}

// CurrentAdmin returns the admin set by RequireAuth, or nil.
func CurrentAdmin(c *fiber.Ctx) *model.Admin {
	admin, _ := c.Locals(adminKey).(*model.Admin)
	return admin
}

package handler

import (
	"go-jewelry-store/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates an administrator and issues a bearer token
// POST /api/admin/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	response, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return okMessage(c, "Login successful", response)
}

// Profile returns the caller's own admin record
// GET /api/admin/auth/profile
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	admin, err := actor(c)
	if err != nil {
		return err
	}

	profile, err := h.authService.Profile(c.UserContext(), admin.ID)
	if err != nil {
		return err
	}
	return ok(c, profile)
}

// Verify confirms the presented token is still good. RequireAuth has already
// done the work.
// GET /api/admin/auth/verify
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	admin, err := actor(c)
	if err != nil {
		return err
	}
	return okMessage(c, "Token is valid", admin.ToResponse())
}

// Logout has nothing to revoke; clients drop the token.
// POST /api/admin/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return okMessage(c, "Logged out", nil)
}

// ChangePassword
// PUT /api/admin/auth/password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	admin, err := actor(c)
	if err != nil {
		return err
	}

	var req service.ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.UserContext(), admin.ID, &req); err != nil {
		return err
	}
	return okMessage(c, "Password updated successfully", nil)
}

// CreateAdmin
// POST /api/admin/auth/create-admin
func (h *AuthHandler) CreateAdmin(c *fiber.Ctx) error {
	admin, err := actor(c)
	if err != nil {
		return err
	}

	var req service.CreateAdminRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	newAdmin, err := h.authService.CreateAdmin(c.UserContext(), admin, &req)
	if err != nil {
		return err
	}
	return created(c, "Admin created successfully", newAdmin)
}

// UpdateAdmin
// PUT /api/admin/auth/admin/:id
func (h *AuthHandler) UpdateAdmin(c *fiber.Ctx) error {
	admin, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req service.UpdateAdminRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	updated, err := h.authService.UpdateAdmin(c.UserContext(), admin, id, &req)
	if err != nil {
		return err
	}
	return okMessage(c, "Admin updated successfully", updated)
}

// ListAdmins
// GET /api/admin/auth/admins
func (h *AuthHandler) ListAdmins(c *fiber.Ctx) error {
	admin, err := actor(c)
	if err != nil {
		return err
	}

	admins, err := h.authService.ListAdmins(c.UserContext(), admin)
	if err != nil {
		return err
	}
	return ok(c, admins)
}

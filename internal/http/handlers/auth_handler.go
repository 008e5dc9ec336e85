package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "github.com/kstobd/DriveNext/internal/log"
	"github.com/kstobd/DriveNext/internal/services"
	"github.com/kstobd/DriveNext/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return badRequest(c, "enter your name")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return badRequest(c, "enter a valid email address")
	}
	if !validate.Password(req.Password) {
		return badRequest(c, "password must be 8-20 characters with upper, lower, digit and symbol")
	}

	u, err := h.Auth.Register(name, email, req.Phone, req.Password)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "auth.register", map[string]any{"user_id": u.ID})
	return c.Status(fiber.StatusCreated).JSON(u)
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	u, token, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return fail(c, err)
	}
	applog.Audit(c, "auth.login", map[string]any{"user_id": u.ID})
	return c.JSON(fiber.Map{"token": token, "user": u})
}

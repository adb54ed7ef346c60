package handlers

import (
	"proshop/internal/apperr"
	"proshop/internal/auth"
	"proshop/internal/log"
	"proshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth   *services.AuthService
	Tokens *auth.Issuer
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/users/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	u, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		c.Status(apperr.KindOf(err).Status())
		log.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return err
	}
	if err := h.Tokens.SetCookie(c, u.ID); err != nil {
		return err
	}
	c.Locals("user", u)
	log.Audit(c, "auth.login.success", map[string]any{"email": u.Email})
	return c.Status(fiber.StatusOK).JSON(u.View())
}

// POST /api/users
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	u, err := h.Auth.Register(req.Name, req.Email, req.Password)
	if err != nil {
		c.Status(apperr.KindOf(err).Status())
		log.Security(c, "auth.register.fail", map[string]any{"email": req.Email, "reason": err.Error()})
		return err
	}
	if err := h.Tokens.SetCookie(c, u.ID); err != nil {
		return err
	}
	c.Locals("user", u)
	c.Status(fiber.StatusCreated)
	log.Audit(c, "auth.register.success", map[string]any{"email": u.Email})
	return c.JSON(u.View())
}

// POST /api/users/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.Tokens.ClearCookie(c)
	log.Audit(c, "auth.logout", nil)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": services.MsgLoggedOut})
}

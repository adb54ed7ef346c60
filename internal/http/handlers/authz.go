package handlers

import (
	"errors"

	"proshop/internal/apperr"
	"proshop/internal/auth"
	applog "proshop/internal/log"
	"proshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	msgNoToken     = "Not authorized, no token"
	msgTokenFailed = "Not authorized, token failed"
	msgNotAdmin    = "Not authorized as admin"
)

// Protect resolves the jwt cookie to a user and stores it in Locals("user").
func Protect(authSvc *services.AuthService, tokens *auth.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := c.Cookies(auth.CookieName)
		if tok == "" {
			c.Status(fiber.StatusUnauthorized)
			applog.Security(c, "access.denied.token", map[string]any{"reason": "missing"})
			return apperr.Unauthorized(msgNoToken)
		}
		id, err := tokens.Parse(tok)
		if err != nil {
			c.Status(fiber.StatusUnauthorized)
			applog.Security(c, "access.denied.token", map[string]any{"reason": err.Error()})
			return apperr.Unauthorized(msgTokenFailed)
		}
		u, err := authSvc.CurrentUser(id)
		if err != nil {
			if apperr.KindOf(err) != apperr.KindNotFound {
				return err
			}
			c.Status(fiber.StatusUnauthorized)
			applog.Security(c, "access.denied.token", map[string]any{"reason": "unknown user"})
			return apperr.Unauthorized(msgTokenFailed)
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireAdmin must run after Protect.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil || !u.IsAdmin {
			c.Status(fiber.StatusUnauthorized)
			applog.Security(c, "access.denied.admin", nil)
			return apperr.Unauthorized(msgNotAdmin)
		}
		return c.Next()
	}
}

var errInvalidID = errors.New("invalid id")

// CheckObjectID rejects requests whose :id is not a well-formed user id.
func CheckObjectID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			c.Status(fiber.StatusNotFound)
			applog.Security(c, "access.denied.id", map[string]any{"id": id})
			return &apperr.Error{Kind: apperr.KindNotFound, Message: "Invalid ObjectId of: " + id, Err: errInvalidID}
		}
		return c.Next()
	}
}

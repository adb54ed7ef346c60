package handlers

import (
	"proshop/internal/apperr"
	"proshop/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// parseBody decodes a JSON body into out. An empty body leaves out untouched.
func parseBody(c *fiber.Ctx, out any) error {
	body := c.Body()
	if len(body) == 0 {
		return nil
	}
	if err := c.App().Config().JSONDecoder(body, out); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	return nil
}

// currentUser returns the user attached by Protect.
func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

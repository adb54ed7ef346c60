package handlers

import (
	"proshop/internal/apperr"
	"proshop/internal/domain"
	"proshop/internal/log"
	"proshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Users *services.UserService
}

// GET /api/users/profile
func (h *UserHandler) Profile(c *fiber.Ctx) error {
	u, err := h.Users.Profile(currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(u.View())
}

// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var upd domain.ProfileUpdate
	if err := parseBody(c, &upd); err != nil {
		return err
	}
	u, err := h.Users.UpdateProfile(currentUser(c).ID, upd)
	if err != nil {
		return err
	}
	log.Audit(c, "users.profile.update", map[string]any{"password_changed": upd.Password != nil && *upd.Password != ""})
	return c.Status(fiber.StatusOK).JSON(u.View())
}

// GET /api/users
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.Users.List()
	if err != nil {
		return err
	}
	out := make([]domain.UserRecord, 0, len(users))
	for i := range users {
		out = append(out, users[i].Record())
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// GET /api/users/:id
func (h *UserHandler) Get(c *fiber.Ctx) error {
	u, err := h.Users.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(u.Detail())
}

// DELETE /api/users/:id
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.Users.Delete(id); err != nil {
		if apperr.KindOf(err) == apperr.KindBadRequest {
			c.Status(fiber.StatusBadRequest)
			log.Security(c, "admin.users.delete.refused", map[string]any{"target": id})
		}
		return err
	}
	log.Audit(c, "admin.users.delete", map[string]any{"target": id})
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": services.MsgUserDeleted})
}

// PUT /api/users/:id
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var upd domain.AdminUpdate
	if err := parseBody(c, &upd); err != nil {
		return err
	}
	id := c.Params("id")
	u, err := h.Users.AdminUpdate(id, upd)
	if err != nil {
		return err
	}
	log.Audit(c, "admin.users.update", map[string]any{"target": id, "is_admin": u.IsAdmin})
	return c.Status(fiber.StatusOK).JSON(u.View())
}

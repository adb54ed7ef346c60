package http

import (
	"github.com/gofiber/fiber/v2"

	"proshop/internal/http/handlers"
)

// Register maps every user route onto app.
func Register(app *fiber.App, deps *handlers.Deps) {
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("API is running...") })
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	protect := deps.Protect()
	admin := handlers.RequireAdmin()
	validID := handlers.CheckObjectID()
	authH, userH := deps.AuthHandler, deps.UserHandler

	users := app.Group("/api/users")
	users.Post("/", authH.Register)
	users.Get("/", protect, admin, userH.List)
	users.Post("/login", authH.Login)
	users.Post("/logout", authH.Logout)

	// before /:id so "profile" is not taken for an id
	users.Get("/profile", protect, userH.Profile)
	users.Put("/profile", protect, userH.UpdateProfile)

	users.Get("/:id", protect, admin, validID, userH.Get)
	users.Delete("/:id", protect, admin, validID, userH.Delete)
	users.Put("/:id", protect, admin, validID, userH.Update)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not Found - "+c.OriginalURL())
	})
}

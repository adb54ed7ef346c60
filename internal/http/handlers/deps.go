package handlers

import (
	"proshop/internal/auth"
	"proshop/internal/config"
	"proshop/internal/repos"
	"proshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthService *services.AuthService
	UserService *services.UserService
	Tokens      *auth.Issuer

	AuthHandler *AuthHandler
	UserHandler *UserHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	userRepo := repos.NewUserRepo(db)

	authSvc := &services.AuthService{Users: userRepo}
	userSvc := services.NewUserService(userRepo)
	tokens := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL, cfg.Production())

	return &Deps{
		AuthService: authSvc,
		UserService: userSvc,
		Tokens:      tokens,
		AuthHandler: &AuthHandler{Auth: authSvc, Tokens: tokens},
		UserHandler: &UserHandler{Users: userSvc},
	}
}

// Protect returns the session middleware bound to these dependencies.
func (d *Deps) Protect() fiber.Handler { return Protect(d.AuthService, d.Tokens) }

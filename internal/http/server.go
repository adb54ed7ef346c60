package http

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"proshop/internal/config"
	"proshop/internal/http/handlers"
	"proshop/internal/repos"
)

const shutdownTimeout = 10 * time.Second

// NewApp builds the fiber app with middlewares, error bridge and routes.
func NewApp(cfg config.Config, db *sqlx.DB) (*fiber.App, *handlers.Deps) {
	app := fiber.New(fiber.Config{
		AppName:               "proshop",
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          ErrorHandler(cfg),
		DisableStartupMessage: cfg.Production(),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{Output: log.Writer()}))
	app.Use(helmet.New())

	deps := handlers.NewDeps(db, cfg)
	Register(app, deps)
	return app, deps
}

// SetupLogging tees the standard logger into cfg.LogFile when set. The
// returned closer must be called on shutdown.
func SetupLogging(cfg config.Config) io.Closer {
	if cfg.LogFile == "" {
		return io.NopCloser(nil)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		return io.NopCloser(nil)
	}
	log.SetOutput(io.MultiWriter(os.Stdout, f))
	return f
}

// Serve opens the store, seeds the configured admin, and listens on cfg.Port
// until ctx is cancelled or SIGINT/SIGTERM arrives.
func Serve(ctx context.Context, cfg config.Config) error {
	closer := SetupLogging(cfg)
	defer closer.Close()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	app, deps := NewApp(cfg, db)

	if cfg.SeedAdminEmail != "" {
		u, created, err := deps.UserService.EnsureAdmin(cfg.SeedAdminName, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
		if err != nil {
			return err
		}
		log.Printf("[seed] admin %s ready (created=%v)", u.Email, created)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[http] listening on %s", cfg.Addr())
		errCh <- app.Listen(cfg.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("[http] shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errCh
}

package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"proshop/internal/apperr"
	"proshop/internal/config"
	applog "proshop/internal/log"
)

type errorBody struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
	Stack   string `json:"stack,omitempty"`
}

// ErrorHandler is the single place where handler errors become responses.
// Outside production the underlying cause is echoed in "stack".
func ErrorHandler(cfg config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		body := errorBody{Message: "Internal Server Error", Kind: apperr.KindInternal.String()}

		var ae *apperr.Error
		var fe *fiber.Error
		switch {
		case errors.As(err, &ae):
			status = ae.Status()
			body.Kind = ae.Kind.String()
			if ae.Kind != apperr.KindInternal {
				body.Message = ae.Message
			}
			if ae.Err != nil {
				body.Stack = ae.Err.Error()
			}
		case errors.As(err, &fe):
			status = fe.Code
			body.Message = fe.Message
			body.Kind = kindForStatus(status).String()
		default:
			body.Stack = err.Error()
		}

		c.Status(status)
		if status >= fiber.StatusInternalServerError {
			applog.Error(c, "server.error", err, nil)
		}
		if cfg.Production() {
			body.Stack = ""
		}
		return c.JSON(body)
	}
}

// kindForStatus classifies fiber errors. 4xx codes without a kind of their
// own are reported as bad_request.
func kindForStatus(status int) apperr.Kind {
	switch {
	case status == fiber.StatusUnauthorized, status == fiber.StatusForbidden:
		return apperr.KindUnauthorized
	case status == fiber.StatusNotFound:
		return apperr.KindNotFound
	case status >= 400 && status < 500:
		return apperr.KindBadRequest
	}
	return apperr.KindInternal
}

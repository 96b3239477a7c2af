package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"companion-chat-be/internal/pkg/logger"
)

// HTTPError carries a status code and an optional machine-readable code
// alongside the message. Services return these when the failure must reach
// the client verbatim (auth flows, input validation).
type HTTPError struct {
	Status  int    `json:"-"`
	Code    string `json:"code,omitempty"`
	Message string `json:"error"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

func NewHTTPErrorWithCode(status int, code, message string) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message}
}

// ErrorHandler is the global Fiber error handler. HTTPErrors pass through
// with their status and message; anything else is logged with a stack trace
// and returned as a generic 500. In production the raw message is redacted.
func ErrorHandler(log logger.ILogger, isProd bool) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			return ctx.Status(httpErr.Status).JSON(httpErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}

		log.Error("http", "unhandled error", map[string]interface{}{
			"path":   ctx.Path(),
			"method": ctx.Method(),
			"error":  err.Error(),
		})

		message := err.Error()
		if isProd {
			message = "internal server error"
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": message})
	}
}

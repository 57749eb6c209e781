package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Envelope is the body shape of every API response.
type Envelope struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Data    any    `json:"data"`
}

// OK writes a 200 envelope. A nil data is rendered as an empty object.
func OK(c *fiber.Ctx, message string, data any) error {
	return Write(c, http.StatusOK, message, data)
}

// Write renders an envelope whose code mirrors the HTTP status.
func Write(c *fiber.Ctx, status int, message string, data any) error {
	if data == nil {
		data = fiber.Map{}
	}
	return c.Status(status).JSON(Envelope{Message: message, Code: status, Data: data})
}

// ErrorHandler renders handler errors as envelopes. *fiber.Error keeps its code and
// message; anything else becomes a 500 and is logged.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return Write(c, fe.Code, fe.Message, nil)
		}
		if logger != nil {
			logger.Error("unhandled error", slog.String("path", c.Path()), slog.Any("error", err))
		}
		return Write(c, http.StatusInternalServerError, "internal server error", nil)
	}
}

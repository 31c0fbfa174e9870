package apierrors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type errorBody struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// FiberHandler returns the application-wide error handler. Known error kinds
// map to their HTTP status; anything else gets a correlation token, is logged
// in full server-side, and leaves the process with only the token and a
// generic message.
func FiberHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			return c.Status(statusFor(apiErr.Kind)).JSON(errorBody{Code: apiErr.Code, Message: apiErr.Message})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(errorBody{Message: fiberErr.Message})
		}

		token := uuid.NewString()
		logger.Error("unhandled error",
			slog.String("token", token),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
		return c.Status(http.StatusInternalServerError).JSON(errorBody{
			Code:    CodeUnexpected,
			Message: "(" + token + ") : " + messages[CodeUnexpected],
		})
	}
}

func statusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotAcceptable:
		return http.StatusNotAcceptable
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

package serverutils

import (
	"errors"

	"mdc-notebook-be/internal/pkg/apperror"
	"mdc-notebook-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error returned by a handler as the JSON error
// envelope. Causes of 5xx responses are logged, never sent to the client.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			kind := string(apperror.KindInternal)
			switch {
			case fiberErr.Code == fiber.StatusNotFound:
				kind = string(apperror.KindNotFound)
			case fiberErr.Code < 500:
				kind = string(apperror.KindValidation)
			}
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, kind, fiberErr.Message))
		}

		appErr := apperror.From(err)
		if appErr.Status >= 500 {
			log.Error("http", appErr.Message, map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"kind":   string(appErr.Kind),
				"error":  err,
			})
		}
		return ctx.Status(appErr.Status).JSON(ErrorResponse(appErr.Status, string(appErr.Kind), appErr.Message))
	}
}

// ParseBody decodes the request body and validates it.
func ParseBody(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return apperror.Validation("Invalid request body")
	}
	return ValidateRequest(out)
}

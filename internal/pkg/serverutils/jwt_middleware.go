package serverutils

import (
	"context"
	"strings"

	"mdc-notebook-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const LocalUserID = "user_id"

// TokenValidator resolves a bearer token to the id of the user it was issued to.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(ctx *fiber.Ctx) (string, bool) {
	authHeader := ctx.Get(fiber.HeaderAuthorization)
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(authHeader[7:])
	return token, token != ""
}

func JwtMiddleware(validator TokenValidator) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr, ok := BearerToken(ctx)
		if !ok {
			return apperror.Unauthorized("Missing token")
		}

		userId, err := validator.ValidateToken(ctx.UserContext(), tokenStr)
		if err != nil {
			return err
		}

		ctx.Locals(LocalUserID, userId)
		return ctx.Next()
	}
}

// UserID returns the authenticated user id stored by JwtMiddleware.
func UserID(ctx *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := ctx.Locals(LocalUserID).(uuid.UUID)
	return id, ok
}

// ParamUUID parses a path parameter as a UUID.
func ParamUUID(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.Validation("Invalid " + name)
	}
	return id, nil
}

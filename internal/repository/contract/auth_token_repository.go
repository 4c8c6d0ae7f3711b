package contract

import (
	"context"

	"mdc-notebook-be/internal/entity"
	"mdc-notebook-be/internal/repository/specification"
)

type AuthTokenRepository interface {
	Create(ctx context.Context, token *entity.AuthToken) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AuthToken, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// DeleteByToken removes every row holding token. Missing rows are not an error.
	DeleteByToken(ctx context.Context, token string) error
}

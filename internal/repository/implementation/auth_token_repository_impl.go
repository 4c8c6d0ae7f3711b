package implementation

import (
	"context"
	"errors"

	"mdc-notebook-be/internal/entity"
	"mdc-notebook-be/internal/mapper"
	"mdc-notebook-be/internal/model"
	"mdc-notebook-be/internal/repository/contract"
	"mdc-notebook-be/internal/repository/specification"

	"gorm.io/gorm"
)

type AuthTokenRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewAuthTokenRepository(db *gorm.DB) contract.AuthTokenRepository {
	return &AuthTokenRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *AuthTokenRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AuthTokenRepositoryImpl) Create(ctx context.Context, token *entity.AuthToken) error {
	m := r.mapper.AuthTokenToModel(token)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*token = *r.mapper.AuthTokenToEntity(m)
	return nil
}

func (r *AuthTokenRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AuthToken, error) {
	var m model.AuthToken
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.AuthTokenToEntity(&m), nil
}

func (r *AuthTokenRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.AuthToken{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AuthTokenRepositoryImpl) DeleteByToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&model.AuthToken{}).Error
}

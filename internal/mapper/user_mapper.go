package mapper

import (
	"mdc-notebook-be/internal/entity"
	"mdc-notebook-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:           u.Id,
		FullName:     u.FullName,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.Password,
		Company:      u.Company,
		Phone:        u.Phone,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:        u.Id,
		FullName:  u.FullName,
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Company:   u.Company,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (m *UserMapper) ToEntities(users []*model.User) []*entity.User {
	entities := make([]*entity.User, len(users))
	for i, u := range users {
		entities[i] = m.ToEntity(u)
	}
	return entities
}

// Token Mappers

func (m *UserMapper) AuthTokenToEntity(t *model.AuthToken) *entity.AuthToken {
	if t == nil {
		return nil
	}
	return &entity.AuthToken{
		Id:        t.Id,
		UserId:    t.UserId,
		Token:     t.Token,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (m *UserMapper) AuthTokenToModel(t *entity.AuthToken) *model.AuthToken {
	if t == nil {
		return nil
	}
	return &model.AuthToken{
		Id:        t.Id,
		UserId:    t.UserId,
		Token:     t.Token,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

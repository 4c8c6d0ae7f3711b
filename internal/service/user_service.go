package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"mdc-notebook-be/internal/dto"
	"mdc-notebook-be/internal/entity"
	"mdc-notebook-be/internal/pkg/apperror"
	"mdc-notebook-be/internal/repository/contract"
	"mdc-notebook-be/internal/repository/specification"
	"mdc-notebook-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IUserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserProfileResponse, error)
	GetAll(ctx context.Context) ([]*dto.UserProfileResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.UserProfileResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserProfileResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	bcryptCost int
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, bcryptCost int) IUserService {
	return &userService{
		uowFactory: uowFactory,
		bcryptCost: bcryptCost,
	}
}

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserProfileResponse, error) {
	user, err := createUser(ctx, s.uowFactory.NewUnitOfWork(ctx), s.bcryptCost, req)
	if err != nil {
		return nil, err
	}
	return toUserProfile(user), nil
}

func (s *userService) GetAll(ctx context.Context) ([]*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	users, err := uow.UserRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, apperror.Internal("Failed to fetch users", err)
	}

	result := make([]*dto.UserProfileResponse, 0, len(users))
	for _, u := range users {
		result = append(result, toUserProfile(u))
	}
	return result, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Internal("Failed to fetch user", err)
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}
	return toUserProfile(user), nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Internal("Failed to update user", err)
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != user.Email {
			taken, err := uow.UserRepository().FindOne(ctx,
				specification.ByEmail{Email: email},
				specification.NotID{ID: user.Id},
			)
			if err != nil {
				return nil, apperror.Internal("Failed to update user", err)
			}
			if taken != nil {
				return nil, apperror.Conflict("Email already registered")
			}
			user.Email = email
		}
	}
	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, apperror.Validation("fullName must not be empty")
		}
		user.FullName = name
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Company != nil {
		user.Company = req.Company
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	user.UpdatedAt = time.Now()

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		if errors.Is(err, contract.ErrDuplicateKey) {
			return nil, apperror.Conflict("Email already registered")
		}
		return nil, apperror.Internal("Failed to update user", err)
	}
	return toUserProfile(user), nil
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return apperror.Internal("Failed to delete user", err)
	}
	if user == nil {
		return apperror.NotFound("User not found")
	}

	if err := uow.UserRepository().Delete(ctx, id); err != nil {
		return apperror.Internal("Failed to delete user", err)
	}
	return nil
}

func toUserProfile(u *entity.User) *dto.UserProfileResponse {
	return &dto.UserProfileResponse{
		Id:        u.Id,
		FullName:  u.FullName,
		Username:  u.Username,
		Email:     u.Email,
		Company:   u.Company,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

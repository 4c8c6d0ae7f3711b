package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mdc-notebook-be/internal/dto"
	"mdc-notebook-be/internal/entity"
	"mdc-notebook-be/internal/pkg/apperror"
	"mdc-notebook-be/internal/repository/contract"
	"mdc-notebook-be/internal/repository/specification"
	"mdc-notebook-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = time.Hour

// Claims is the payload of every token the API signs.
type Claims struct {
	UserID   uuid.UUID `json:"uid"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	jwt.RegisteredClaims
}

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserProfileResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	Refresh(ctx context.Context, token string) (*dto.RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, userId uuid.UUID, req *dto.ChangePasswordRequest) error
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	secret     []byte
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, secret string, bcryptCost int) IAuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		uowFactory: uowFactory,
		secret:     []byte(secret),
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserProfileResponse, error) {
	user, err := createUser(ctx, s.uowFactory.NewUnitOfWork(ctx), s.bcryptCost, &dto.CreateUserRequest{
		FullName: req.FullName,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}
	return toUserProfile(user), nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, apperror.Internal("Failed to login", err)
	}
	if user == nil {
		return nil, apperror.Unauthorized("Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("Invalid email or password")
	}

	token, err := s.issueToken(ctx, uow, user.Id, user.Email, user.Username)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User:  *toUserProfile(user),
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AuthTokenRepository().DeleteByToken(ctx, token); err != nil {
		return apperror.Internal("Failed to logout", err)
	}
	return nil
}

func (s *authService) Refresh(ctx context.Context, token string) (*dto.RefreshTokenResponse, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	newToken, err := s.issueToken(ctx, uow, claims.UserID, claims.Email, claims.Username)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshTokenResponse{Token: newToken}, nil
}

func (s *authService) ChangePassword(ctx context.Context, userId uuid.UUID, req *dto.ChangePasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return apperror.Internal("Failed to change password", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return apperror.Internal("Failed to change password", err)
	}
	if user == nil {
		return apperror.NotFound("User not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return apperror.Unauthorized("Current password is incorrect")
	}

	hash, err := hashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	if err := uow.UserRepository().UpdatePassword(ctx, user.Id, hash); err != nil {
		return apperror.Internal("Failed to change password", err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.Internal("Failed to change password", err)
	}
	return nil
}

// ValidateToken accepts a token only while it is correctly signed, unexpired
// and still on record. Logging out removes the record.
func (s *authService) ValidateToken(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := s.parse(token)
	if err != nil {
		return uuid.Nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	n, err := uow.AuthTokenRepository().Count(ctx, specification.ByToken{Token: token})
	if err != nil {
		return uuid.Nil, apperror.Internal("Failed to validate token", err)
	}
	if n == 0 {
		return uuid.Nil, apperror.Unauthorized("Invalid or expired token")
	}
	return claims.UserID, nil
}

func (s *authService) parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || claims.UserID == uuid.Nil {
		return nil, apperror.Unauthorized("Invalid or expired token")
	}
	return claims, nil
}

// issueToken signs a fresh token and records it so it can be revoked.
func (s *authService) issueToken(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, email, username string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   userId,
		Email:    email,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userId.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperror.Internal("Failed to sign token", err)
	}

	record := &entity.AuthToken{
		Id:        uuid.New(),
		UserId:    userId,
		Token:     signed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uow.AuthTokenRepository().Create(ctx, record); err != nil {
		return "", apperror.Internal("Failed to store token", err)
	}
	return signed, nil
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		// the tag counts characters, bcrypt counts bytes
		return "", apperror.Validation("password must be at most 72 bytes")
	}
	if err != nil {
		return "", apperror.Internal("Failed to hash password", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// createUser is shared by registration and user management so both hash and
// check for duplicates the same way.
func createUser(ctx context.Context, uow unitofwork.UnitOfWork, cost int, req *dto.CreateUserRequest) (*entity.User, error) {
	email := normalizeEmail(req.Email)

	taken, err := uow.UserRepository().Count(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, apperror.Internal("Failed to create user", err)
	}
	if taken > 0 {
		return nil, apperror.Conflict("Email already registered")
	}

	hash, err := hashPassword(req.Password, cost)
	if err != nil {
		return nil, err
	}

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		fullName = req.Username
	}

	now := time.Now()
	user := &entity.User{
		Id:           uuid.New(),
		FullName:     fullName,
		Username:     req.Username,
		Email:        email,
		PasswordHash: hash,
		Company:      req.Company,
		Phone:        req.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		if errors.Is(err, contract.ErrDuplicateKey) {
			return nil, apperror.Conflict("Email already registered")
		}
		return nil, apperror.Internal("Failed to create user", fmt.Errorf("create user: %w", err))
	}
	return user, nil
}

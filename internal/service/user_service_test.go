package service

import (
	"context"
	"testing"

	"mdc-notebook-be/internal/dto"
	"mdc-notebook-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }

func TestUserService_CRUD(t *testing.T) {
	store := newMemStore()
	svc := NewUserService(store, bcrypt.MinCost)
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateUserRequest{
		FullName: "Ana Lima",
		Username: "ana",
		Email:    "ana@example.com",
		Password: "secret1",
		Company:  strPtr("ACME"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", created.FullName)

	got, err := svc.GetByID(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Email, got.Email)

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.Delete(ctx, created.Id))

	_, err = svc.GetByID(ctx, created.Id)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	err = svc.Delete(ctx, created.Id)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestUserService_PartialUpdateKeepsOtherFields(t *testing.T) {
	store := newMemStore()
	svc := NewUserService(store, bcrypt.MinCost)
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateUserRequest{
		FullName: "Ana Lima",
		Username: "ana",
		Email:    "ana@example.com",
		Password: "secret1",
		Company:  strPtr("ACME"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.Id, &dto.UpdateUserRequest{Phone: strPtr("555")})
	require.NoError(t, err)

	require.NotNil(t, updated.Phone)
	assert.Equal(t, "555", *updated.Phone)
	assert.Equal(t, "Ana Lima", updated.FullName)
	assert.Equal(t, "ana", updated.Username)
	assert.Equal(t, "ana@example.com", updated.Email)
	require.NotNil(t, updated.Company)
	assert.Equal(t, "ACME", *updated.Company)
}

func TestUserService_UpdateEmailConflict(t *testing.T) {
	store := newMemStore()
	svc := NewUserService(store, bcrypt.MinCost)
	ctx := context.Background()

	first, err := svc.Create(ctx, &dto.CreateUserRequest{Username: "ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &dto.CreateUserRequest{Username: "bob", Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, first.Id, &dto.UpdateUserRequest{Email: strPtr("BOB@example.com")})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	same, err := svc.Update(ctx, first.Id, &dto.UpdateUserRequest{Email: strPtr("Ana@Example.com")})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", same.Email)
}

func TestUserService_UpdateMissingUser(t *testing.T) {
	svc := NewUserService(newMemStore(), bcrypt.MinCost)

	_, err := svc.Update(context.Background(), uuid.New(), &dto.UpdateUserRequest{Phone: strPtr("555")})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

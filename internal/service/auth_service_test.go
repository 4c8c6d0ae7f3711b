package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"mdc-notebook-be/internal/dto"
	"mdc-notebook-be/internal/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newTestAuth(t *testing.T) (*authService, *memStore) {
	t.Helper()
	store := newMemStore()
	svc := NewAuthService(store, testSecret, bcrypt.MinCost).(*authService)
	return svc, store
}

func registerUser(t *testing.T, svc *authService, email, password string) *dto.UserProfileResponse {
	t.Helper()
	user, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "ana",
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

func TestRegister_StoresHashAndDefaultsFullName(t *testing.T) {
	svc, store := newTestAuth(t)

	user := registerUser(t, svc, "  Ana@Example.com ", "secret1")

	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "ana", user.FullName)

	stored := store.users[user.Id]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestRegister_DuplicateEmailIsConflict(t *testing.T) {
	svc, store := newTestAuth(t)
	registerUser(t, svc, "ana@example.com", "secret1")

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "other",
		Email:    "ANA@example.com",
		Password: "secret2",
	})

	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Len(t, store.users, 1)
}

func TestLogin(t *testing.T) {
	svc, store := newTestAuth(t)
	registerUser(t, svc, "ana@example.com", "secret1")

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ana@example.com", Password: "nope"})
		assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "bob@example.com", Password: "secret1"})
		assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
	})

	assert.Empty(t, store.tokens)

	t.Run("success persists exactly one token", func(t *testing.T) {
		res, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ana@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, "ana@example.com", res.User.Email)
		require.Len(t, store.tokens, 1)
		assert.Equal(t, res.Token, store.tokens[0].Token)

		claims := &Claims{}
		_, err = jwt.ParseWithClaims(res.Token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(testSecret), nil
		})
		require.NoError(t, err)
		assert.Equal(t, res.User.Id, claims.UserID)
		assert.Equal(t, "ana", claims.Username)
		assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
	})
}

func TestLogout_IsIdempotentAndRevokes(t *testing.T) {
	svc, store := newTestAuth(t)
	registerUser(t, svc, "ana@example.com", "secret1")
	res, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), res.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), res.Token))
	require.NoError(t, svc.Logout(context.Background(), res.Token))
	assert.Empty(t, store.tokens)

	_, err = svc.ValidateToken(context.Background(), res.Token)
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
}

func TestRefresh(t *testing.T) {
	svc, store := newTestAuth(t)
	user := registerUser(t, svc, "ana@example.com", "secret1")
	res, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), res.Token)
	require.NoError(t, err)
	assert.NotEqual(t, res.Token, refreshed.Token)
	assert.Len(t, store.tokens, 2)

	id, err := svc.ValidateToken(context.Background(), refreshed.Token)
	require.NoError(t, err)
	assert.Equal(t, user.Id, id)
}

func TestRefresh_RejectsBadTokens(t *testing.T) {
	svc, _ := newTestAuth(t)

	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.Refresh(context.Background(), forged)
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.Refresh(context.Background(), expired)
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
}

func TestChangePassword(t *testing.T) {
	svc, store := newTestAuth(t)
	user := registerUser(t, svc, "ana@example.com", "secret1")

	err := svc.ChangePassword(context.Background(), user.Id, &dto.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "secret2",
	})
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	err = svc.ChangePassword(context.Background(), user.Id, &dto.ChangePasswordRequest{
		CurrentPassword: "secret1",
		NewPassword:     "secret2",
	})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(store.users[user.Id].PasswordHash), []byte("secret2")))
	assert.Equal(t, 1, store.commits)
	assert.Equal(t, 1, store.rollbacks, "the rejected attempt rolls back")

	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "ana@example.com", Password: "secret2"})
	assert.NoError(t, err)
}

func TestChangePassword_UnknownUser(t *testing.T) {
	svc, _ := newTestAuth(t)

	err := svc.ChangePassword(context.Background(), uuid.New(), &dto.ChangePasswordRequest{
		CurrentPassword: "secret1",
		NewPassword:     "secret2",
	})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestPasswordLongerThanBcryptAllows(t *testing.T) {
	tooLong := strings.Repeat("x", 80)
	// 40 runes pass a max=72 tag but take 80 bytes
	multiByte := strings.Repeat("é", 40)

	t.Run("register", func(t *testing.T) {
		svc, store := newTestAuth(t)
		for _, pw := range []string{tooLong, multiByte} {
			_, err := svc.Register(context.Background(), &dto.RegisterRequest{
				Username: "ana",
				Email:    "ana@example.com",
				Password: pw,
			})
			var appErr *apperror.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperror.KindValidation, appErr.Kind)
			assert.Equal(t, http.StatusBadRequest, appErr.Status)
		}
		assert.Empty(t, store.users)
	})

	t.Run("change password", func(t *testing.T) {
		svc, store := newTestAuth(t)
		user := registerUser(t, svc, "ana@example.com", "secret1")

		err := svc.ChangePassword(context.Background(), user.Id, &dto.ChangePasswordRequest{
			CurrentPassword: "secret1",
			NewPassword:     tooLong,
		})
		var appErr *apperror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.KindValidation, appErr.Kind)
		assert.Equal(t, http.StatusBadRequest, appErr.Status)
		assert.Equal(t, 0, store.commits)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(store.users[user.Id].PasswordHash), []byte("secret1")))
	})
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillswap/backend/internal/pkg/apperror"
)

func newTestAuthService() (*AuthService, *memoryUsers) {
	users := newMemoryUsers()
	tokens := NewTokenManager("test-access-secret", "test-refresh-secret", 15*time.Minute, 24*time.Hour)
	return NewAuthService(users, tokens), users
}

func TestAuthService_Signup(t *testing.T) {
	svc, users := newTestAuthService()
	ctx := context.Background()

	res, err := svc.Signup(ctx, SignupInput{
		Name:     "  Alice  ",
		Email:    "Alice@Example.com ",
		Password: "password123",
	}, SessionMeta{UserAgent: "test", IP: "127.0.0.1"})
	require.NoError(t, err)

	assert.Equal(t, "Alice", res.User.Name)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.NotEmpty(t, res.Tokens.AccessToken)
	assert.NotEmpty(t, res.Tokens.RefreshToken)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("password123")))

	session, ok := users.sessions[res.Tokens.RefreshToken]
	require.True(t, ok)
	assert.Equal(t, res.User.ID, session.UserID)
	require.NotNil(t, session.UserAgent)
	assert.Equal(t, "test", *session.UserAgent)
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "a@example.com", Password: "password123"}, SessionMeta{})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupInput{Name: "Other", Email: "A@example.com", Password: "password123"}, SessionMeta{})
	assert.ErrorIs(t, err, apperror.ErrEmailTaken)
}

func TestAuthService_Signup_Validation(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	tests := []struct {
		name string
		in   SignupInput
	}{
		{"пустое имя", SignupInput{Name: " ", Email: "a@example.com", Password: "password123"}},
		{"плохой email", SignupInput{Name: "Alice", Email: "not-an-email", Password: "password123"}},
		{"короткий пароль", SignupInput{Name: "Alice", Email: "a@example.com", Password: "pw1"}},
		{"пароль без цифр", SignupInput{Name: "Alice", Email: "a@example.com", Password: "passwordonly"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.in, SessionMeta{})
			assert.True(t, apperror.IsValidation(err), "ожидалась ошибка валидации, получено %v", err)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, users := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "a@example.com", Password: "password123"}, SessionMeta{})
	require.NoError(t, err)

	res, err := svc.Login(ctx, LoginInput{Email: " A@example.com", Password: "password123"}, SessionMeta{})
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", res.User.Email)
	assert.Equal(t, 1, users.logins)

	_, err = svc.Login(ctx, LoginInput{Email: "a@example.com", Password: "wrong-pass1"}, SessionMeta{})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "password123"}, SessionMeta{})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_RefreshRotatesSession(t *testing.T) {
	svc, users := newTestAuthService()
	ctx := context.Background()

	res, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "a@example.com", Password: "password123"}, SessionMeta{})
	require.NoError(t, err)
	oldRefresh := res.Tokens.RefreshToken

	pair, err := svc.Refresh(ctx, oldRefresh, SessionMeta{})
	require.NoError(t, err)
	assert.NotEqual(t, oldRefresh, pair.RefreshToken)

	_, stillThere := users.sessions[oldRefresh]
	assert.False(t, stillThere)
	_, created := users.sessions[pair.RefreshToken]
	assert.True(t, created)

	// Повторное использование старого токена запрещено.
	_, err = svc.Refresh(ctx, oldRefresh, SessionMeta{})
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestAuthService_RefreshRejectsAccessToken(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	res, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "a@example.com", Password: "password123"}, SessionMeta{})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, res.Tokens.AccessToken, SessionMeta{})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.ErrCodeUnauthorized, appErr.Code)
}

func TestAuthService_Logout(t *testing.T) {
	svc, users := newTestAuthService()
	ctx := context.Background()

	res, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "a@example.com", Password: "password123"}, SessionMeta{})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, ""))
	assert.Len(t, users.sessions, 1)

	require.NoError(t, svc.Logout(ctx, res.Tokens.RefreshToken))
	assert.Empty(t, users.sessions)
}

package service

import (
	"context"
	"testing"
	"time"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/pkg/apperror"
	"ai-interview-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(env *testEnv, mail *fakeMailer) *authService {
	s := NewAuthService(env.uow, env.tokens, mail, env.publisher, env.log, AuthOptions{
		BcryptCost:       bcrypt.MinCost,
		MaxLoginAttempts: 5,
		LockTime:         2 * time.Hour,
		ResetTokenExpiry: 10 * time.Minute,
		MaxRefreshTokens: 5,
	}).(*authService)
	s.now = env.clock.Now
	return s
}

func register(t *testing.T, s *authService, email, password string) *dto.AuthResponse {
	t.Helper()
	res, err := s.Register(context.Background(), &dto.RegisterRequest{
		FullName: "Ada Lovelace",
		Email:    email,
		Password: password,
	}, "127.0.0.1", "test")
	require.NoError(t, err)
	return res
}

func TestAuthService_Register(t *testing.T) {
	env := newTestEnv(t)
	s := newTestAuthService(env, newFakeMailer())
	ctx := context.Background()

	res := register(t, s, "Ada@Example.com", "password123")
	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.Equal(t, "user", res.User.Role)
	assert.True(t, res.User.HasPassword)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Contains(t, env.publisher.Types(), events.TypeUserRegistered)

	claims, err := env.tokens.ValidateAccessToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.Id.String(), claims.UserID)

	_, err = s.Register(ctx, &dto.RegisterRequest{FullName: "Other", Email: "ADA@example.COM", Password: "password456"}, "", "")
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestAuthService_LoginLockout(t *testing.T) {
	env := newTestEnv(t)
	s := newTestAuthService(env, newFakeMailer())
	ctx := context.Background()
	register(t, s, "lock@example.com", "correct-password")

	for i := 0; i < 5; i++ {
		_, err := s.Login(ctx, &dto.LoginRequest{Email: "lock@example.com", Password: "wrong"}, "", "")
		require.Error(t, err)
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, msgInvalidCredentials, appErr.Message)
	}

	_, err := s.Login(ctx, &dto.LoginRequest{Email: "lock@example.com", Password: "correct-password"}, "", "")
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindUnauthorized, appErr.Kind)
	assert.Equal(t, msgAccountLocked, appErr.Message)

	env.clock.Advance(2*time.Hour + time.Minute)

	res, err := s.Login(ctx, &dto.LoginRequest{Email: "lock@example.com", Password: "correct-password"}, "", "")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)

	user, err := env.uow.NewUnitOfWork(ctx).UserRepository().FindByEmail(ctx, "lock@example.com")
	require.NoError(t, err)
	assert.Zero(t, user.LoginAttempts)
	assert.Nil(t, user.LockUntil)
}

func TestAuthService_LoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t)
	s := newTestAuthService(env, newFakeMailer())

	_, err := s.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.com", Password: "x"}, "", "")
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	env := newTestEnv(t)
	s := newTestAuthService(env, newFakeMailer())
	ctx := context.Background()
	res := register(t, s, "refresh@example.com", "password123")

	refreshed, err := s.RefreshAccessToken(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = s.RefreshAccessToken(ctx, res.AccessToken)
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized), "access token must not refresh")

	require.NoError(t, s.Logout(ctx, res.User.Id, res.RefreshToken))
	_, err = s.RefreshAccessToken(ctx, res.RefreshToken)
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
}

func TestAuthService_LogoutAll(t *testing.T) {
	env := newTestEnv(t)
	s := newTestAuthService(env, newFakeMailer())
	ctx := context.Background()
	first := register(t, s, "all@example.com", "password123")
	second, err := s.Login(ctx, &dto.LoginRequest{Email: "all@example.com", Password: "password123"}, "", "")
	require.NoError(t, err)

	require.NoError(t, s.LogoutAll(ctx, first.User.Id))

	for _, rt := range []string{first.RefreshToken, second.RefreshToken} {
		_, err := s.RefreshAccessToken(ctx, rt)
		assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
	}
}

func TestAuthService_RefreshTokensAreCapped(t *testing.T) {
	env := newTestEnv(t)
	s := newTestAuthService(env, newFakeMailer())
	ctx := context.Background()
	res := register(t, s, "cap@example.com", "password123")

	for i := 0; i < 6; i++ {
		env.clock.Advance(time.Minute)
		_, err := s.Login(ctx, &dto.LoginRequest{Email: "cap@example.com", Password: "password123"}, "", "")
		require.NoError(t, err)
	}

	tokens, err := env.uow.NewUnitOfWork(ctx).RefreshTokenRepository().FindAllByUser(ctx, res.User.Id)
	require.NoError(t, err)
	assert.Len(t, tokens, 5)

	_, err = s.RefreshAccessToken(ctx, res.RefreshToken)
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized), "oldest token is evicted")
}

func TestAuthService_ChangePassword(t *testing.T) {
	env := newTestEnv(t)
	s := newTestAuthService(env, newFakeMailer())
	ctx := context.Background()
	res := register(t, s, "change@example.com", "password123")

	err := s.ChangePassword(ctx, res.User.Id, &dto.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "new-password"})
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	require.NoError(t, s.ChangePassword(ctx, res.User.Id, &dto.ChangePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "new-password",
	}))

	_, err = s.RefreshAccessToken(ctx, res.RefreshToken)
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	_, err = s.Login(ctx, &dto.LoginRequest{Email: "change@example.com", Password: "password123"}, "", "")
	assert.Error(t, err)
	_, err = s.Login(ctx, &dto.LoginRequest{Email: "change@example.com", Password: "new-password"}, "", "")
	assert.NoError(t, err)
}

func TestAuthService_PasswordReset(t *testing.T) {
	env := newTestEnv(t)
	mail := newFakeMailer()
	s := newTestAuthService(env, mail)
	ctx := context.Background()
	res := register(t, s, "reset@example.com", "password123")

	msg, err := s.ForgotPassword(ctx, &dto.ForgotPasswordRequest{Email: "reset@example.com"})
	require.NoError(t, err)
	assert.Equal(t, msgResetRequested, msg)

	var raw string
	require.Eventually(t, func() bool {
		var ok bool
		raw, ok = mail.TokenFor("reset@example.com")
		return ok
	}, time.Second, 10*time.Millisecond)

	err = s.ResetPassword(ctx, &dto.ResetPasswordRequest{Token: "not-the-token", Password: "brand-new-pass"})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))

	require.NoError(t, s.ResetPassword(ctx, &dto.ResetPasswordRequest{Token: raw, Password: "brand-new-pass"}))

	_, err = s.RefreshAccessToken(ctx, res.RefreshToken)
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
	_, err = s.Login(ctx, &dto.LoginRequest{Email: "reset@example.com", Password: "brand-new-pass"}, "", "")
	assert.NoError(t, err)

	err = s.ResetPassword(ctx, &dto.ResetPasswordRequest{Token: raw, Password: "another-pass"})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest), "reset tokens are single use")
}

func TestAuthService_PasswordResetExpires(t *testing.T) {
	env := newTestEnv(t)
	mail := newFakeMailer()
	s := newTestAuthService(env, mail)
	ctx := context.Background()
	register(t, s, "late@example.com", "password123")

	_, err := s.ForgotPassword(ctx, &dto.ForgotPasswordRequest{Email: "late@example.com"})
	require.NoError(t, err)

	var raw string
	require.Eventually(t, func() bool {
		var ok bool
		raw, ok = mail.TokenFor("late@example.com")
		return ok
	}, time.Second, 10*time.Millisecond)

	env.clock.Advance(11 * time.Minute)
	err = s.ResetPassword(ctx, &dto.ResetPasswordRequest{Token: raw, Password: "brand-new-pass"})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))
}

func TestAuthService_ForgotPasswordUnknownEmail(t *testing.T) {
	env := newTestEnv(t)
	mail := newFakeMailer()
	s := newTestAuthService(env, mail)

	msg, err := s.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{Email: "ghost@example.com"})
	require.NoError(t, err)
	assert.Equal(t, msgResetRequested, msg)

	_, sent := mail.TokenFor("ghost@example.com")
	assert.False(t, sent)
}

func TestAuthService_LogoutIgnoresEmptyToken(t *testing.T) {
	env := newTestEnv(t)
	s := newTestAuthService(env, newFakeMailer())
	assert.NoError(t, s.Logout(context.Background(), uuid.New(), ""))
}

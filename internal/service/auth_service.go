package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/apperror"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/pkg/mailer"
	"ai-interview-be/internal/pkg/token"
	"ai-interview-be/internal/repository/unitofwork"
	"ai-interview-be/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgAccountLocked      = "Account is temporarily locked due to too many failed login attempts. Please try again later"
	msgInvalidRefresh     = "Invalid refresh token"
	msgResetRequested     = "If an account with that email exists, a password reset link has been sent"
)

type AuthOptions struct {
	BcryptCost       int
	MaxLoginAttempts int
	LockTime         time.Duration
	ResetTokenExpiry time.Duration
	MaxRefreshTokens int
}

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest, ipAddress, userAgent string) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.AuthResponse, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*dto.RefreshTokenResponse, error)
	Logout(ctx context.Context, userId uuid.UUID, refreshToken string) error
	LogoutAll(ctx context.Context, userId uuid.UUID) error
	ChangePassword(ctx context.Context, userId uuid.UUID, req *dto.ChangePasswordRequest) error
	// ForgotPassword always returns the same message so callers cannot probe for accounts.
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) (string, error)
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	tokens         *token.Manager
	sessions       *sessionIssuer
	emailService   mailer.IEmailService
	eventPublisher events.Publisher
	logger         logger.ILogger
	opts           AuthOptions
	now            func() time.Time
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	tokens *token.Manager,
	emailService mailer.IEmailService,
	eventPublisher events.Publisher,
	log logger.ILogger,
	opts AuthOptions,
) IAuthService {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	s := &authService{
		uowFactory:     uowFactory,
		tokens:         tokens,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		logger:         log,
		opts:           opts,
		now:            time.Now,
	}
	s.sessions = &sessionIssuer{tokens: tokens, maxRefreshTokens: opts.MaxRefreshTokens, now: s.clock}
	return s
}

func (s *authService) clock() time.Time {
	return s.now()
}

func (s *authService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return "", apperror.Internal("Failed to hash password", err)
	}
	return string(hash), nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest, ipAddress, userAgent string) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := uow.UserRepository().FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("User with this email already exists")
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &entity.User{
		Id:           uuid.New(),
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		PasswordHash: &hash,
		Role:         entity.UserRoleUser,
		Provider:     entity.AuthProviderLocal,
		LastLoginAt:  &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}
	res, err := s.sessions.issue(ctx, uow, user, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.eventPublisher, s.logger, events.TypeUserRegistered, map[string]interface{}{
		"user_id":  user.Id.String(),
		"email":    user.Email,
		"provider": string(user.Provider),
	})

	return res, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	now := s.now()
	if user.IsLocked(now) {
		if err := s.recordFailure(ctx, uow, user, now); err != nil {
			return nil, err
		}
		return nil, apperror.Unauthorized(msgAccountLocked)
	}

	if !user.HasPassword() || bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)) != nil {
		if err := s.recordFailure(ctx, uow, user, now); err != nil {
			return nil, err
		}
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}

	user.ResetLoginAttempts()
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	res, err := s.sessions.issue(ctx, uow, user, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.eventPublisher, s.logger, events.TypeUserLogin, map[string]interface{}{
		"user_id":    user.Id.String(),
		"ip_address": ipAddress,
		"user_agent": userAgent,
	})

	return res, nil
}

// recordFailure persists the lockout counters even though the login itself fails.
func (s *authService) recordFailure(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User, now time.Time) error {
	user.RegisterFailedLogin(now, s.opts.MaxLoginAttempts, s.opts.LockTime)
	user.UpdatedAt = now
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return err
	}
	if user.IsLocked(now) {
		s.logger.Warn("AUTH", "Account locked after failed logins", map[string]interface{}{
			"user_id":  user.Id.String(),
			"attempts": user.LoginAttempts,
		})
	}
	return uow.Commit()
}

func (s *authService) RefreshAccessToken(ctx context.Context, refreshToken string) (*dto.RefreshTokenResponse, error) {
	if refreshToken == "" {
		return nil, apperror.Unauthorized("Refresh token is required")
	}

	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, token.ErrExpiredToken) {
			return nil, apperror.Unauthorized("Refresh token expired")
		}
		return nil, apperror.Unauthorized(msgInvalidRefresh)
	}
	userId, err := claims.ParsedUserID()
	if err != nil {
		return nil, apperror.Unauthorized(msgInvalidRefresh)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindById(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.Unauthorized(msgInvalidRefresh)
	}

	stored, err := uow.RefreshTokenRepository().FindByHash(ctx, userId, token.Hash(refreshToken))
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.IsExpired(s.now()) {
		return nil, apperror.Unauthorized(msgInvalidRefresh)
	}

	access, err := s.tokens.GenerateAccessToken(token.Subject{
		UserID: user.Id,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		return nil, err
	}
	return &dto.RefreshTokenResponse{AccessToken: access}, nil
}

func (s *authService) Logout(ctx context.Context, userId uuid.UUID, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.RefreshTokenRepository().DeleteByHash(ctx, userId, token.Hash(refreshToken))
}

func (s *authService) LogoutAll(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.RefreshTokenRepository().DeleteAllByUser(ctx, userId)
}

func (s *authService) ChangePassword(ctx context.Context, userId uuid.UUID, req *dto.ChangePasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindById(ctx, userId)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NotFound("User not found")
	}
	if !user.HasPassword() {
		return apperror.BadRequest("This account has no password. Use password reset to set one")
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return apperror.Unauthorized("Current password is incorrect")
	}

	hash, err := s.hashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	user.PasswordHash = &hash
	user.UpdatedAt = s.now()
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return err
	}
	if err := uow.RefreshTokenRepository().DeleteAllByUser(ctx, user.Id); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) (string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindByEmail(ctx, req.Email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return msgResetRequested, nil
	}

	raw, err := randomToken(32)
	if err != nil {
		return "", apperror.Internal("Failed to generate reset token", err)
	}
	hash := token.Hash(raw)
	expires := s.now().Add(s.opts.ResetTokenExpiry)

	user.PasswordResetTokenHash = &hash
	user.PasswordResetExpires = &expires
	user.UpdatedAt = s.now()
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return "", err
	}

	go func(email string) {
		if err := s.emailService.SendResetToken(email, raw, s.opts.ResetTokenExpiry); err != nil {
			s.logger.Error("AUTH", "Failed to send reset email", map[string]interface{}{
				"email": email,
				"error": err.Error(),
			})
		}
	}(user.Email)

	return msgResetRequested, nil
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindByResetTokenHash(ctx, token.Hash(req.Token))
	if err != nil {
		return err
	}
	now := s.now()
	if user == nil || user.PasswordResetExpires == nil || !user.PasswordResetExpires.After(now) {
		return apperror.BadRequest("Invalid or expired reset token")
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	user.PasswordHash = &hash
	user.ClearPasswordReset()
	user.ResetLoginAttempts()
	user.UpdatedAt = now
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return err
	}
	if err := uow.RefreshTokenRepository().DeleteAllByUser(ctx, user.Id); err != nil {
		return err
	}
	return uow.Commit()
}

package service

import (
	"context"
	"strings"
	"time"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/apperror"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/pkg/token"
	"ai-interview-be/internal/repository/unitofwork"
	"ai-interview-be/pkg/events"

	"github.com/google/uuid"
)

// OAuthStateStore holds the one-shot state nonces of the redirect flow.
type OAuthStateStore interface {
	Save(state string)
	Consume(state string) bool
}

type IOAuthService interface {
	GetGoogleLoginURL() (string, error)
	HandleGoogleCallback(ctx context.Context, state, code, ipAddress, userAgent string) (*dto.AuthResponse, error)
	SignInWithGoogleToken(ctx context.Context, idToken, ipAddress, userAgent string) (*dto.AuthResponse, error)
	LinkGoogleAccount(ctx context.Context, userId uuid.UUID, idToken string) (*dto.UserResponse, error)
}

type oauthService struct {
	uowFactory     unitofwork.RepositoryFactory
	verifier       GoogleIdentityVerifier
	states         OAuthStateStore
	sessions       *sessionIssuer
	eventPublisher events.Publisher
	logger         logger.ILogger
	now            func() time.Time
}

// NewOAuthService accepts a nil verifier; every Google operation then reports 503.
func NewOAuthService(
	uowFactory unitofwork.RepositoryFactory,
	verifier GoogleIdentityVerifier,
	states OAuthStateStore,
	tokens *token.Manager,
	maxRefreshTokens int,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IOAuthService {
	s := &oauthService{
		uowFactory:     uowFactory,
		verifier:       verifier,
		states:         states,
		eventPublisher: eventPublisher,
		logger:         log,
		now:            time.Now,
	}
	s.sessions = &sessionIssuer{tokens: tokens, maxRefreshTokens: maxRefreshTokens, now: func() time.Time { return s.now() }}
	return s
}

func (s *oauthService) ensureConfigured() error {
	if s.verifier == nil {
		return apperror.Unavailable("Google sign-in is not configured")
	}
	return nil
}

func (s *oauthService) GetGoogleLoginURL() (string, error) {
	if err := s.ensureConfigured(); err != nil {
		return "", err
	}
	state, err := randomToken(16)
	if err != nil {
		return "", apperror.Internal("Failed to generate OAuth state", err)
	}
	s.states.Save(state)
	return s.verifier.AuthCodeURL(state), nil
}

func (s *oauthService) HandleGoogleCallback(ctx context.Context, state, code, ipAddress, userAgent string) (*dto.AuthResponse, error) {
	if err := s.ensureConfigured(); err != nil {
		return nil, err
	}
	if !s.states.Consume(state) {
		return nil, apperror.BadRequest("Invalid or expired OAuth state")
	}
	if code == "" {
		return nil, apperror.BadRequest("Authorization code is required")
	}

	identity, err := s.verifier.ExchangeCode(ctx, code)
	if err != nil {
		s.logger.Warn("OAUTH", "Google code exchange failed", map[string]interface{}{"error": err.Error()})
		return nil, apperror.Unauthorized("Google authentication failed")
	}
	return s.signIn(ctx, identity, ipAddress, userAgent)
}

func (s *oauthService) SignInWithGoogleToken(ctx context.Context, idToken, ipAddress, userAgent string) (*dto.AuthResponse, error) {
	if err := s.ensureConfigured(); err != nil {
		return nil, err
	}
	identity, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		s.logger.Warn("OAUTH", "Google ID token rejected", map[string]interface{}{"error": err.Error()})
		return nil, apperror.Unauthorized("Invalid Google token")
	}
	return s.signIn(ctx, identity, ipAddress, userAgent)
}

func (s *oauthService) signIn(ctx context.Context, identity *GoogleIdentity, ipAddress, userAgent string) (*dto.AuthResponse, error) {
	if identity.GoogleId == "" || identity.Email == "" {
		return nil, apperror.Unauthorized("Google account has no usable identity")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	now := s.now()

	user, err := uow.UserRepository().FindByGoogleId(ctx, identity.GoogleId)
	if err != nil {
		return nil, err
	}

	created := false
	if user == nil {
		user, err = uow.UserRepository().FindByEmail(ctx, identity.Email)
		if err != nil {
			return nil, err
		}
		if user != nil && user.Provider == entity.AuthProviderLocal {
			return nil, apperror.Conflict("An account with this email already exists. Sign in with your password and link Google from your profile")
		}
		if user == nil {
			created = true
			user = &entity.User{
				Id:        uuid.New(),
				Email:     strings.ToLower(identity.Email),
				Role:      entity.UserRoleUser,
				Provider:  entity.AuthProviderGoogle,
				CreatedAt: now,
			}
		}
		googleId := identity.GoogleId
		user.GoogleId = &googleId
	}

	syncGoogleProfile(user, identity)
	user.LastLoginAt = &now
	user.UpdatedAt = now

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if created {
		err = uow.UserRepository().Create(ctx, user)
	} else {
		err = uow.UserRepository().Update(ctx, user)
	}
	if err != nil {
		return nil, err
	}

	res, err := s.sessions.issue(ctx, uow, user, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	eventType := events.TypeUserLogin
	if created {
		eventType = events.TypeUserRegistered
	}
	publishEvent(ctx, s.eventPublisher, s.logger, eventType, map[string]interface{}{
		"user_id":  user.Id.String(),
		"email":    user.Email,
		"provider": string(entity.AuthProviderGoogle),
	})

	return res, nil
}

func syncGoogleProfile(user *entity.User, identity *GoogleIdentity) {
	if identity.Name != "" {
		user.FullName = identity.Name
	}
	if user.FullName == "" {
		user.FullName = strings.Split(identity.Email, "@")[0]
	}
	if identity.Picture != "" {
		picture := identity.Picture
		user.AvatarURL = &picture
	}
	if identity.EmailVerified {
		user.IsVerified = true
	}
}

func (s *oauthService) LinkGoogleAccount(ctx context.Context, userId uuid.UUID, idToken string) (*dto.UserResponse, error) {
	if err := s.ensureConfigured(); err != nil {
		return nil, err
	}
	identity, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid Google token")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindById(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}

	owner, err := uow.UserRepository().FindByGoogleId(ctx, identity.GoogleId)
	if err != nil {
		return nil, err
	}
	if owner != nil && owner.Id != user.Id {
		return nil, apperror.Conflict("This Google account is already linked to another user")
	}

	googleId := identity.GoogleId
	user.GoogleId = &googleId
	if user.AvatarURL == nil && identity.Picture != "" {
		picture := identity.Picture
		user.AvatarURL = &picture
	}
	if identity.EmailVerified {
		user.IsVerified = true
	}
	user.UpdatedAt = s.now()

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	res := toUserResponse(user)
	return &res, nil
}

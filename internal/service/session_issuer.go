package service

import (
	"context"
	"time"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/token"
	"ai-interview-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// sessionIssuer mints token pairs and keeps each user's refresh token list bounded.
type sessionIssuer struct {
	tokens           *token.Manager
	maxRefreshTokens int
	now              func() time.Time
}

func (s *sessionIssuer) issue(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User, ipAddress, userAgent string) (*dto.AuthResponse, error) {
	pair, err := s.tokens.GeneratePair(token.Subject{
		UserID: user.Id,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		return nil, err
	}

	refresh := &entity.UserRefreshToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		TokenHash: token.Hash(pair.RefreshToken),
		ExpiresAt: pair.RefreshExpiresAt,
		CreatedAt: s.now(),
		IpAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := uow.RefreshTokenRepository().Create(ctx, refresh); err != nil {
		return nil, err
	}
	if err := s.trim(ctx, uow, user.Id); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		User:             toUserResponse(user),
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	}, nil
}

// trim drops expired tokens and everything past the newest maxRefreshTokens.
func (s *sessionIssuer) trim(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) error {
	all, err := uow.RefreshTokenRepository().FindAllByUser(ctx, userId)
	if err != nil {
		return err
	}

	now := s.now()
	var stale []uuid.UUID
	kept := 0
	for _, t := range all {
		if t.IsExpired(now) || (s.maxRefreshTokens > 0 && kept >= s.maxRefreshTokens) {
			stale = append(stale, t.Id)
			continue
		}
		kept++
	}
	return uow.RefreshTokenRepository().DeleteByIds(ctx, stale)
}

package contract

import (
	"context"

	"ai-interview-be/internal/entity"

	"github.com/google/uuid"
)

// Lookups return (nil, nil) when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByGoogleId(ctx context.Context, googleId string) (*entity.User, error)
	FindByResetTokenHash(ctx context.Context, tokenHash string) (*entity.User, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *entity.UserRefreshToken) error
	FindByHash(ctx context.Context, userId uuid.UUID, tokenHash string) (*entity.UserRefreshToken, error)
	// FindAllByUser returns the user's tokens newest first.
	FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.UserRefreshToken, error)
	DeleteByHash(ctx context.Context, userId uuid.UUID, tokenHash string) error
	DeleteByIds(ctx context.Context, ids []uuid.UUID) error
	DeleteAllByUser(ctx context.Context, userId uuid.UUID) error
}

type UserImageRepository interface {
	Create(ctx context.Context, image *entity.UserImage) error
	FindOwned(ctx context.Context, id, userId uuid.UUID) (*entity.UserImage, error)
	// FindAllByUser returns images newest first.
	FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.UserImage, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllByUser(ctx context.Context, userId uuid.UUID) error
}

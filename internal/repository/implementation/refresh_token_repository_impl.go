package implementation

import (
	"context"
	"errors"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/mapper"
	"ai-interview-be/internal/model"
	"ai-interview-be/internal/repository/contract"
	"ai-interview-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RefreshTokenRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewRefreshTokenRepository(db *gorm.DB) contract.RefreshTokenRepository {
	return &RefreshTokenRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *RefreshTokenRepositoryImpl) Create(ctx context.Context, token *entity.UserRefreshToken) error {
	m := r.mapper.RefreshTokenToModel(token)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*token = *r.mapper.RefreshTokenToEntity(m)
	return nil
}

func (r *RefreshTokenRepositoryImpl) FindByHash(ctx context.Context, userId uuid.UUID, tokenHash string) (*entity.UserRefreshToken, error) {
	var m model.UserRefreshToken
	query := r.db.WithContext(ctx)
	query = specification.UserOwnedBy{UserID: userId}.Apply(query)
	query = specification.ByTokenHash{Hash: tokenHash}.Apply(query)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.RefreshTokenToEntity(&m), nil
}

func (r *RefreshTokenRepositoryImpl) FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.UserRefreshToken, error) {
	var models []*model.UserRefreshToken
	query := r.db.WithContext(ctx)
	query = specification.UserOwnedBy{UserID: userId}.Apply(query)
	query = specification.OrderBy{Field: "created_at", Desc: true}.Apply(query)
	err := query.Find(&models).Error
	if err != nil {
		return nil, err
	}

	tokens := make([]*entity.UserRefreshToken, len(models))
	for i, m := range models {
		tokens[i] = r.mapper.RefreshTokenToEntity(m)
	}
	return tokens, nil
}

func (r *RefreshTokenRepositoryImpl) DeleteByHash(ctx context.Context, userId uuid.UUID, tokenHash string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND token_hash = ?", userId, tokenHash).
		Delete(&model.UserRefreshToken{}).Error
}

func (r *RefreshTokenRepositoryImpl) DeleteByIds(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	query := specification.ByIDs{IDs: ids}.Apply(r.db.WithContext(ctx))
	return query.Delete(&model.UserRefreshToken{}).Error
}

func (r *RefreshTokenRepositoryImpl) DeleteAllByUser(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.UserRefreshToken{}).Error
}

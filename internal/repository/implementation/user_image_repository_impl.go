package implementation

import (
	"context"
	"errors"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/mapper"
	"ai-interview-be/internal/model"
	"ai-interview-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserImageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserImageRepository(db *gorm.DB) contract.UserImageRepository {
	return &UserImageRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserImageRepositoryImpl) Create(ctx context.Context, image *entity.UserImage) error {
	m := r.mapper.ImageToModel(image)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*image = *r.mapper.ImageToEntity(m)
	return nil
}

func (r *UserImageRepositoryImpl) FindOwned(ctx context.Context, id, userId uuid.UUID) (*entity.UserImage, error) {
	var m model.UserImage
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ImageToEntity(&m), nil
}

func (r *UserImageRepositoryImpl) FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.UserImage, error) {
	var models []*model.UserImage
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	images := make([]*entity.UserImage, len(models))
	for i, m := range models {
		images[i] = r.mapper.ImageToEntity(m)
	}
	return images, nil
}

func (r *UserImageRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.UserImage{}, "id = ?", id).Error
}

func (r *UserImageRepositoryImpl) DeleteAllByUser(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.UserImage{}).Error
}

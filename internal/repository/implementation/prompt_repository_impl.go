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

type PromptRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewPromptRepository(db *gorm.DB) contract.PromptRepository {
	return &PromptRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *PromptRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PromptRepositoryImpl) Create(ctx context.Context, prompt *entity.Prompt) error {
	m := r.mapper.PromptToModel(prompt)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*prompt = *r.mapper.PromptToEntity(m)
	return nil
}

func (r *PromptRepositoryImpl) Update(ctx context.Context, prompt *entity.Prompt) error {
	m := r.mapper.PromptToModel(prompt)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*prompt = *r.mapper.PromptToEntity(m)
	return nil
}

func (r *PromptRepositoryImpl) FindById(ctx context.Context, chatId, promptId uuid.UUID) (*entity.Prompt, error) {
	return r.findOne(ctx, specification.ByChatID{ChatID: chatId}, specification.ByID{ID: promptId})
}

func (r *PromptRepositoryImpl) FindByChat(ctx context.Context, chatId uuid.UUID, includeInactive bool) ([]*entity.Prompt, error) {
	specs := []specification.Specification{specification.ByChatID{ChatID: chatId}}
	if !includeInactive {
		specs = append(specs, specification.ByStatus{Status: string(entity.PromptStatusActive)})
	}
	specs = append(specs, specification.OrderBy{Field: "created_at"})

	var models []*model.ChatPrompt
	if err := r.applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.PromptsToEntities(models), nil
}

func (r *PromptRepositoryImpl) FindFirstActive(ctx context.Context, chatId uuid.UUID) (*entity.Prompt, error) {
	return r.findOne(ctx,
		specification.ByChatID{ChatID: chatId},
		specification.ByStatus{Status: string(entity.PromptStatusActive)},
		specification.OrderBy{Field: "created_at"},
	)
}

func (r *PromptRepositoryImpl) findOne(ctx context.Context, specs ...specification.Specification) (*entity.Prompt, error) {
	var m model.ChatPrompt
	if err := r.applySpecifications(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PromptToEntity(&m), nil
}

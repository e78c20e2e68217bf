package implementation

import (
	"context"
	"errors"
	"time"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/mapper"
	"ai-interview-be/internal/model"
	"ai-interview-be/internal/repository/contract"
	"ai-interview-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatRepository(db *gorm.DB) contract.ChatRepository {
	return &ChatRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatRepositoryImpl) Create(ctx context.Context, chat *entity.Chat) error {
	m := r.mapper.ChatToModel(chat)
	if err := r.db.WithContext(ctx).Omit("Prompts").Create(m).Error; err != nil {
		return err
	}
	created := r.mapper.ChatToEntity(m)
	created.Prompts = chat.Prompts
	*chat = *created
	return nil
}

func (r *ChatRepositoryImpl) Update(ctx context.Context, chat *entity.Chat) error {
	m := r.mapper.ChatToModel(chat)
	if err := r.db.WithContext(ctx).Omit("Prompts").Save(m).Error; err != nil {
		return err
	}
	updated := r.mapper.ChatToEntity(m)
	updated.Prompts = chat.Prompts
	*chat = *updated
	return nil
}

func (r *ChatRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", id).Delete(&model.ThreadMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chat_id = ?", id).Delete(&model.MessageThread{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chat_id = ?", id).Delete(&model.ChatPrompt{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Chat{}).Error
	})
}

func (r *ChatRepositoryImpl) FindOwned(ctx context.Context, chatId, userId uuid.UUID) (*entity.Chat, error) {
	return r.findOwned(ctx, chatId, userId, specification.ExcludeStatus{Status: string(entity.ChatStatusDeleted)})
}

func (r *ChatRepositoryImpl) FindOwnedIncludingDeleted(ctx context.Context, chatId, userId uuid.UUID) (*entity.Chat, error) {
	return r.findOwned(ctx, chatId, userId)
}

func (r *ChatRepositoryImpl) findOwned(ctx context.Context, chatId, userId uuid.UUID, extra ...specification.Specification) (*entity.Chat, error) {
	var m model.Chat
	specs := append([]specification.Specification{
		specification.ByID{ID: chatId},
		specification.UserOwnedBy{UserID: userId},
	}, extra...)
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ChatToEntity(&m), nil
}

func (r *ChatRepositoryImpl) FindAll(ctx context.Context, filter contract.ChatFilter) ([]*entity.Chat, int64, error) {
	specs := []specification.Specification{specification.UserOwnedBy{UserID: filter.UserId}}
	if filter.Status != "" {
		specs = append(specs, specification.ByStatus{Status: string(filter.Status)})
	}

	var total int64
	countQuery := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Chat{}), specs...)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []*model.Chat
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	query = r.applySpecifications(query,
		specification.MostRecentlyActive{},
		specification.Pagination{Limit: filter.Limit, Offset: filter.Offset},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, 0, err
	}

	return r.mapper.ChatsToEntities(models), total, nil
}

func (r *ChatRepositoryImpl) FindCreatedSince(ctx context.Context, userId uuid.UUID, since time.Time) ([]*entity.Chat, error) {
	var models []*model.Chat
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.UserOwnedBy{UserID: userId},
		specification.ExcludeStatus{Status: string(entity.ChatStatusDeleted)},
		specification.CreatedSince{Since: since},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ChatsToEntities(models), nil
}

func (r *ChatRepositoryImpl) FindRecentlyActive(ctx context.Context, userId uuid.UUID, limit int) ([]*entity.Chat, error) {
	var models []*model.Chat
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.UserOwnedBy{UserID: userId},
		specification.ExcludeStatus{Status: string(entity.ChatStatusDeleted)},
		specification.MostRecentlyActive{},
		specification.Pagination{Limit: limit},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ChatsToEntities(models), nil
}

func (r *ChatRepositoryImpl) FindAutoArchiveCandidates(ctx context.Context) ([]*entity.Chat, error) {
	var models []*model.Chat
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.ByStatus{Status: string(entity.ChatStatusActive)},
		specification.AutoArchiveEnabled{},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ChatsToEntities(models), nil
}

func (r *ChatRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ChatStatus) error {
	return r.db.WithContext(ctx).Model(&model.Chat{}).Where("id = ?", id).Update("status", string(status)).Error
}

func (r *ChatRepositoryImpl) UpdateStatusByUser(ctx context.Context, userId uuid.UUID, status entity.ChatStatus) error {
	return r.db.WithContext(ctx).Model(&model.Chat{}).Where("user_id = ?", userId).Update("status", string(status)).Error
}

func (r *ChatRepositoryImpl) RecordActivity(ctx context.Context, id uuid.UUID, messages, tokens int, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Chat{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"message_count":    gorm.Expr("message_count + ?", messages),
			"total_tokens":     gorm.Expr("total_tokens + ?", tokens),
			"last_activity_at": at,
		}).Error
}

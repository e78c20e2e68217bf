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
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

type MessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MessageMapper
}

func NewMessageRepository(db *gorm.DB) contract.MessageRepository {
	return &MessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewMessageMapper(),
	}
}

func (r *MessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MessageRepositoryImpl) FindActiveThread(ctx context.Context, chatId, promptId uuid.UUID) (*entity.MessageThread, error) {
	var m model.MessageThread
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.ByChatID{ChatID: chatId},
		specification.ByPromptID{PromptID: promptId},
		specification.ByStatus{Status: string(entity.ThreadStatusActive)},
	)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ThreadToEntity(&m), nil
}

func (r *MessageRepositoryImpl) CreateThread(ctx context.Context, thread *entity.MessageThread) error {
	m := r.mapper.ThreadToModel(thread)

	// nested Transaction runs as a savepoint so a unique violation does not poison an outer transaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Chat").Create(m).Error
	})
	if err == nil {
		*thread = *r.mapper.ThreadToEntity(m)
		return nil
	}
	if !isDuplicateKey(err) {
		return err
	}

	existing, findErr := r.FindActiveThread(ctx, thread.ChatId, thread.PromptId)
	if findErr != nil {
		return findErr
	}
	if existing == nil {
		return err
	}
	*thread = *existing
	return nil
}

func (r *MessageRepositoryImpl) SoftDeleteThread(ctx context.Context, threadId uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.MessageThread{}).
		Where("id = ?", threadId).
		Update("status", string(entity.ThreadStatusDeleted)).Error
}

func (r *MessageRepositoryImpl) SoftDeleteByUser(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.MessageThread{}).
		Where("user_id = ?", userId).
		Update("status", string(entity.ThreadStatusDeleted)).Error
}

func (r *MessageRepositoryImpl) Append(ctx context.Context, message *entity.Message) error {
	m := r.mapper.MessageToModel(message)
	if err := r.db.WithContext(ctx).Omit("Thread").Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *MessageRepositoryImpl) FindMessages(ctx context.Context, filter contract.MessageFilter) ([]*entity.Message, int64, error) {
	specs := []specification.Specification{
		specification.ByChatID{ChatID: filter.ChatId},
		specification.InActiveThreads{},
	}
	if filter.PromptId != nil {
		specs = append(specs, specification.ByPromptID{PromptID: *filter.PromptId})
	}

	var total int64
	countQuery := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ThreadMessage{}), specs...)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []*model.ThreadMessage
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ThreadMessage{}), specs...)
	query = r.applySpecifications(query,
		specification.Chronological{},
		specification.Pagination{Limit: filter.Limit, Offset: filter.Offset},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, 0, err
	}

	return r.mapper.MessagesToEntities(models), total, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

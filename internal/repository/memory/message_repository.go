package memory

import (
	"context"
	"sort"
	"time"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/repository/contract"

	"github.com/google/uuid"
)

type MessageRepository struct {
	store *Store
}

func NewMessageRepository(store *Store) contract.MessageRepository {
	return &MessageRepository{store: store}
}

func (r *MessageRepository) FindActiveThread(ctx context.Context, chatId, promptId uuid.UUID) (*entity.MessageThread, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if t := r.activeThread(chatId, promptId); t != nil {
		c := *t
		return &c, nil
	}
	return nil, nil
}

func (r *MessageRepository) activeThread(chatId, promptId uuid.UUID) *entity.MessageThread {
	for _, t := range r.store.threads {
		if t.ChatId == chatId && t.PromptId == promptId && t.Status == entity.ThreadStatusActive {
			return t
		}
	}
	return nil
}

// CreateThread checks and inserts under one lock, matching the partial
// unique index of the SQL backend.
func (r *MessageRepository) CreateThread(ctx context.Context, thread *entity.MessageThread) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if existing := r.activeThread(thread.ChatId, thread.PromptId); existing != nil {
		*thread = *existing
		return nil
	}
	if thread.Id == uuid.Nil {
		thread.Id = uuid.New()
	}
	now := time.Now()
	if thread.CreatedAt.IsZero() {
		thread.CreatedAt = now
	}
	thread.UpdatedAt = now
	if thread.Status == "" {
		thread.Status = entity.ThreadStatusActive
	}
	c := *thread
	r.store.threads[thread.Id] = &c
	return nil
}

func (r *MessageRepository) SoftDeleteThread(ctx context.Context, threadId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if t, ok := r.store.threads[threadId]; ok {
		t.Status = entity.ThreadStatusDeleted
		t.UpdatedAt = time.Now()
	}
	return nil
}

func (r *MessageRepository) SoftDeleteByUser(ctx context.Context, userId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, t := range r.store.threads {
		if t.UserId == userId {
			t.Status = entity.ThreadStatusDeleted
			t.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (r *MessageRepository) Append(ctx context.Context, message *entity.Message) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if message.Id == uuid.Nil {
		message.Id = uuid.New()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	c := *message
	r.store.messages = append(r.store.messages, &c)
	return nil
}

func (r *MessageRepository) FindMessages(ctx context.Context, filter contract.MessageFilter) ([]*entity.Message, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	messages := make([]*entity.Message, 0)
	for _, m := range r.store.messages {
		if m.ChatId != filter.ChatId {
			continue
		}
		if filter.PromptId != nil && m.PromptId != *filter.PromptId {
			continue
		}
		t, ok := r.store.threads[m.ThreadId]
		if !ok || t.Status != entity.ThreadStatusActive {
			continue
		}
		c := *m
		messages = append(messages, &c)
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	total := int64(len(messages))
	return paginate(messages, filter.Offset, filter.Limit), total, nil
}

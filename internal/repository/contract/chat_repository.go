package contract

import (
	"context"
	"time"

	"ai-interview-be/internal/entity"

	"github.com/google/uuid"
)

type ChatFilter struct {
	UserId uuid.UUID
	Status entity.ChatStatus
	Offset int
	Limit  int
}

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	Update(ctx context.Context, chat *entity.Chat) error
	// Delete removes the chat together with its prompts, threads and messages.
	Delete(ctx context.Context, id uuid.UUID) error
	// FindOwned hides chats of other users and chats in the deleted state.
	FindOwned(ctx context.Context, chatId, userId uuid.UUID) (*entity.Chat, error)
	// FindOwnedIncludingDeleted also returns soft-deleted chats.
	FindOwnedIncludingDeleted(ctx context.Context, chatId, userId uuid.UUID) (*entity.Chat, error)
	// FindAll pages through a user's chats, most recently active first.
	FindAll(ctx context.Context, filter ChatFilter) ([]*entity.Chat, int64, error)
	FindCreatedSince(ctx context.Context, userId uuid.UUID, since time.Time) ([]*entity.Chat, error)
	FindRecentlyActive(ctx context.Context, userId uuid.UUID, limit int) ([]*entity.Chat, error)
	FindAutoArchiveCandidates(ctx context.Context) ([]*entity.Chat, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ChatStatus) error
	UpdateStatusByUser(ctx context.Context, userId uuid.UUID, status entity.ChatStatus) error
	// RecordActivity bumps the counters atomically and stamps the last activity.
	RecordActivity(ctx context.Context, id uuid.UUID, messages, tokens int, at time.Time) error
}

type PromptRepository interface {
	Create(ctx context.Context, prompt *entity.Prompt) error
	Update(ctx context.Context, prompt *entity.Prompt) error
	FindById(ctx context.Context, chatId, promptId uuid.UUID) (*entity.Prompt, error)
	// FindByChat returns prompts in creation order.
	FindByChat(ctx context.Context, chatId uuid.UUID, includeInactive bool) ([]*entity.Prompt, error)
	FindFirstActive(ctx context.Context, chatId uuid.UUID) (*entity.Prompt, error)
}

package contract

import (
	"context"

	"ai-interview-be/internal/entity"

	"github.com/google/uuid"
)

// MessageFilter selects messages of active threads. A zero Limit returns everything.
type MessageFilter struct {
	ChatId   uuid.UUID
	PromptId *uuid.UUID
	Offset   int
	Limit    int
}

type MessageRepository interface {
	FindActiveThread(ctx context.Context, chatId, promptId uuid.UUID) (*entity.MessageThread, error)
	// CreateThread inserts a thread; if another active thread for the same pair
	// won a concurrent insert, thread is replaced by the existing one.
	CreateThread(ctx context.Context, thread *entity.MessageThread) error
	SoftDeleteThread(ctx context.Context, threadId uuid.UUID) error
	SoftDeleteByUser(ctx context.Context, userId uuid.UUID) error
	Append(ctx context.Context, message *entity.Message) error
	// FindMessages returns messages oldest first with the total matching count.
	FindMessages(ctx context.Context, filter MessageFilter) ([]*entity.Message, int64, error)
}

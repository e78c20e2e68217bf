package model

import (
	"time"

	"github.com/google/uuid"
)

// MessageThread holds one conversation per (chat, prompt). Uniqueness of the
// active thread is enforced by a partial index created in database.Migrate.
type MessageThread struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatId    uuid.UUID `gorm:"type:uuid;not null;index:idx_threads_chat_prompt"`
	PromptId  uuid.UUID `gorm:"type:uuid;not null;index:idx_threads_chat_prompt"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Status    string    `gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Chat *Chat `gorm:"foreignKey:ChatId;constraint:OnDelete:CASCADE"`
}

func (MessageThread) TableName() string {
	return "message_threads"
}

type ThreadMessage struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ThreadId         uuid.UUID `gorm:"type:uuid;not null;index:idx_thread_messages_thread_created"`
	ChatId           uuid.UUID `gorm:"type:uuid;not null;index"`
	PromptId         uuid.UUID `gorm:"type:uuid;not null"`
	Role             string    `gorm:"type:varchar(20);not null"`
	Content          string    `gorm:"type:text;not null"`
	TokenCount       int       `gorm:"not null;default:0"`
	ProcessingTimeMs int64     `gorm:"not null;default:0"`
	ModelName        string    `gorm:"type:varchar(100)"`
	CreatedAt        time.Time `gorm:"index:idx_thread_messages_thread_created"`

	Thread *MessageThread `gorm:"foreignKey:ThreadId;constraint:OnDelete:CASCADE"`
}

func (ThreadMessage) TableName() string {
	return "thread_messages"
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

type MessageRole string
type ThreadStatus string

const (
	MessageRoleUser         MessageRole = "user"
	MessageRoleAssistant    MessageRole = "assistant"
	MessageRoleSystem       MessageRole = "system"
	MessageRoleBot          MessageRole = "bot"
	MessageRoleModerator    MessageRole = "moderator"
	MessageRoleNotification MessageRole = "notification"
	MessageRoleTool         MessageRole = "tool"
	MessageRoleFunction     MessageRole = "function"
	MessageRoleError        MessageRole = "error"

	ThreadStatusActive  ThreadStatus = "active"
	ThreadStatusDeleted ThreadStatus = "deleted"
)

var MessageRoles = []MessageRole{
	MessageRoleUser,
	MessageRoleAssistant,
	MessageRoleSystem,
	MessageRoleBot,
	MessageRoleModerator,
	MessageRoleNotification,
	MessageRoleTool,
	MessageRoleFunction,
	MessageRoleError,
}

func (r MessageRole) Valid() bool {
	for _, role := range MessageRoles {
		if r == role {
			return true
		}
	}
	return false
}

// MessageThread groups the entries exchanged with one prompt of a chat.
type MessageThread struct {
	Id        uuid.UUID
	ChatId    uuid.UUID
	PromptId  uuid.UUID
	UserId    uuid.UUID
	Status    ThreadStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MessageMetadata struct {
	TokenCount       int    `json:"tokenCount,omitempty"`
	ProcessingTimeMs int64  `json:"processingTimeMs,omitempty"`
	Model            string `json:"model,omitempty"`
}

type Message struct {
	Id        uuid.UUID
	ThreadId  uuid.UUID
	ChatId    uuid.UUID
	PromptId  uuid.UUID
	Role      MessageRole
	Content   string
	Metadata  MessageMetadata
	CreatedAt time.Time
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatStatus string

const (
	ChatStatusActive   ChatStatus = "active"
	ChatStatusArchived ChatStatus = "archived"
	ChatStatusDeleted  ChatStatus = "deleted"
)

const (
	DefaultMaxMessages     = 100
	DefaultAutoArchiveDays = 30
	DefaultChatTitle       = "New Interview"
)

func (s ChatStatus) Valid() bool {
	switch s {
	case ChatStatusActive, ChatStatusArchived, ChatStatusDeleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether a chat may move from s to next.
// Deleted is terminal; staying in the same state is always allowed.
func (s ChatStatus) CanTransitionTo(next ChatStatus) bool {
	if s == next {
		return next.Valid()
	}
	switch s {
	case ChatStatusActive:
		return next == ChatStatusArchived || next == ChatStatusDeleted
	case ChatStatusArchived:
		return next == ChatStatusActive || next == ChatStatusDeleted
	}
	return false
}

type ChatSettings struct {
	MaxMessages     int  `json:"maxMessages"`
	AutoArchive     bool `json:"autoArchive"`
	AutoArchiveDays int  `json:"autoArchiveDays"`
}

func DefaultChatSettings() ChatSettings {
	return ChatSettings{
		MaxMessages:     DefaultMaxMessages,
		AutoArchive:     false,
		AutoArchiveDays: DefaultAutoArchiveDays,
	}
}

// ChatSettingsPatch carries a partial settings update; nil fields are left untouched.
type ChatSettingsPatch struct {
	MaxMessages     *int  `json:"maxMessages" validate:"omitempty,min=1,max=10000"`
	AutoArchive     *bool `json:"autoArchive"`
	AutoArchiveDays *int  `json:"autoArchiveDays" validate:"omitempty,min=1,max=365"`
}

func (s ChatSettings) Merge(patch *ChatSettingsPatch) ChatSettings {
	if patch == nil {
		return s
	}
	if patch.MaxMessages != nil {
		s.MaxMessages = *patch.MaxMessages
	}
	if patch.AutoArchive != nil {
		s.AutoArchive = *patch.AutoArchive
	}
	if patch.AutoArchiveDays != nil {
		s.AutoArchiveDays = *patch.AutoArchiveDays
	}
	return s
}

type Chat struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	Title          string
	InitialPrompt  string
	Status         ChatStatus
	Settings       ChatSettings
	Tags           []string
	MessageCount   int
	TotalTokens    int
	LastActivityAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Prompts []*Prompt
}

func (c *Chat) IsArchived() bool {
	return c.Status == ChatStatusArchived
}

// ReachedMessageLimit reports whether the chat cannot take another message.
func (c *Chat) ReachedMessageLimit() bool {
	return c.Settings.MaxMessages > 0 && c.MessageCount >= c.Settings.MaxMessages
}

// HasRoomFor reports whether n more messages fit under the limit.
func (c *Chat) HasRoomFor(n int) bool {
	return c.Settings.MaxMessages <= 0 || c.MessageCount+n <= c.Settings.MaxMessages
}

// ShouldAutoArchive reports whether an idle active chat is due for archiving at now.
func (c *Chat) ShouldAutoArchive(now time.Time) bool {
	if c.Status != ChatStatusActive || !c.Settings.AutoArchive || c.Settings.AutoArchiveDays <= 0 {
		return false
	}
	cutoff := now.AddDate(0, 0, -c.Settings.AutoArchiveDays)
	return c.LastActivityAt.Before(cutoff)
}

package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ByChatID struct {
	ChatID uuid.UUID
}

func (s ByChatID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_id = ?", s.ChatID)
}

type ByPromptID struct {
	PromptID uuid.UUID
}

func (s ByPromptID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("prompt_id = ?", s.PromptID)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type ExcludeStatus struct {
	Status string
}

func (s ExcludeStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status <> ?", s.Status)
}

type CreatedSince struct {
	Since time.Time
}

func (s CreatedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ?", s.Since)
}

// AutoArchiveEnabled matches chats whose jsonb settings opt into auto-archiving.
type AutoArchiveEnabled struct{}

func (s AutoArchiveEnabled) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(datatypes.JSONQuery("settings").Equals(true, "autoArchive"))
}

// MostRecentlyActive orders chats by last activity, then creation.
type MostRecentlyActive struct{}

func (s MostRecentlyActive) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("last_activity_at DESC").Order("created_at DESC")
}

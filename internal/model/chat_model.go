package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Chat struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID      `gorm:"type:uuid;not null;index:idx_chats_user_status"`
	Title          string         `gorm:"type:varchar(200);not null"`
	InitialPrompt  string         `gorm:"type:text"`
	Status         string         `gorm:"type:varchar(20);not null;default:'active';index:idx_chats_user_status"`
	Settings       datatypes.JSON `gorm:"type:jsonb"`
	Tags           datatypes.JSON `gorm:"type:jsonb"`
	MessageCount   int            `gorm:"not null;default:0"`
	TotalTokens    int            `gorm:"not null;default:0"`
	LastActivityAt time.Time      `gorm:"index"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`

	Prompts []ChatPrompt `gorm:"foreignKey:ChatId;constraint:OnDelete:CASCADE"`
}

func (Chat) TableName() string {
	return "chats"
}

type ChatPrompt struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatId            uuid.UUID `gorm:"type:uuid;not null;index"`
	Name              string    `gorm:"type:varchar(100);not null"`
	Designation       string    `gorm:"type:varchar(100);not null"`
	Age               int       `gorm:"not null;check:age >= 18 AND age <= 100"`
	UniquePerspective string    `gorm:"type:text"`
	Background        string    `gorm:"type:text"`
	Category          string    `gorm:"type:varchar(20);not null;default:'explorative'"`
	ImageURL          string    `gorm:"type:text"`
	Status            string    `gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (ChatPrompt) TableName() string {
	return "chat_prompts"
}

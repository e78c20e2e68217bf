package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id                     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName               string    `gorm:"type:varchar(100);not null"`
	Email                  string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash           *string   `gorm:"type:varchar(255)"`
	Role                   string    `gorm:"type:varchar(20);not null;default:'user'"`
	Provider               string    `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleId               *string   `gorm:"type:varchar(255);uniqueIndex"`
	AvatarURL              *string   `gorm:"type:text"`
	IsVerified             bool      `gorm:"default:false"`
	LoginAttempts          int       `gorm:"not null;default:0"`
	LockUntil              *time.Time
	PasswordResetTokenHash *string `gorm:"type:varchar(128);index"`
	PasswordResetExpires   *time.Time
	LastLoginAt            *time.Time
	CreatedAt              time.Time `gorm:"autoCreateTime"`
	UpdatedAt              time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

type UserRefreshToken struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"type:varchar(128);not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	IpAddress string    `gorm:"type:varchar(45)"`
	UserAgent string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (UserRefreshToken) TableName() string {
	return "user_refresh_tokens"
}

type UserImage struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID `gorm:"type:uuid;not null;index"`
	Prompt     string    `gorm:"type:text;not null"`
	URL        string    `gorm:"column:url;type:text;not null"`
	StorageKey string    `gorm:"type:text"`
	Width      int
	Height     int
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (UserImage) TableName() string {
	return "user_images"
}

package specification

import (
	"strings"

	"gorm.io/gorm"
)

// ByEmail compares emails case-insensitively.
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(s.Email)))
}

type ByGoogleID struct {
	GoogleID string
}

func (s ByGoogleID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("google_id = ?", s.GoogleID)
}

// Token Specs

type ByResetTokenHash struct {
	Hash string
}

func (s ByResetTokenHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("password_reset_token_hash = ?", s.Hash)
}

type ByTokenHash struct {
	Hash string
}

func (s ByTokenHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token_hash = ?", s.Hash)
}

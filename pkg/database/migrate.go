package database

import (
	"fmt"
	"log"

	"ai-interview-be/internal/model"

	"gorm.io/gorm"
)

var setupSQL = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
}

var postMigrationSQL = []string{
	// One active thread per (chat, prompt); concurrent first messages race on this index.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_message_threads_active
	 ON message_threads (chat_id, prompt_id) WHERE status = 'active';`,
}

// Models lists every table owned by the application, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.UserRefreshToken{},
		&model.UserImage{},
		&model.Chat{},
		&model.ChatPrompt{},
		&model.MessageThread{},
		&model.ThreadMessage{},
	}
}

// Migrate creates extensions, runs AutoMigrate and then the indexes GORM
// tags cannot express.
func Migrate(db *gorm.DB) error {
	log.Println("Step 1: Setting up Extensions...")
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	log.Printf("Step 2: Running AutoMigrate for %d Tables...", len(Models()))
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	log.Println("Step 3: Creating Indexes...")
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("post-migration: %w", err)
		}
	}
	return nil
}

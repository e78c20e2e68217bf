package specification

import (
	"gorm.io/gorm"
)

// InActiveThreads restricts thread_messages to threads that were not soft-deleted.
type InActiveThreads struct{}

func (s InActiveThreads) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("thread_id IN (?)",
		db.Session(&gorm.Session{NewDB: true}).
			Table("message_threads").
			Select("id").
			Where("status = ?", "active"),
	)
}

// Chronological orders messages oldest first with a stable tiebreaker.
type Chronological struct{}

func (s Chronological) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}

package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestChatStatusTransitions(t *testing.T) {
	tests := []struct {
		from ChatStatus
		to   ChatStatus
		want bool
	}{
		{ChatStatusActive, ChatStatusArchived, true},
		{ChatStatusArchived, ChatStatusActive, true},
		{ChatStatusActive, ChatStatusDeleted, true},
		{ChatStatusArchived, ChatStatusDeleted, true},
		{ChatStatusDeleted, ChatStatusActive, false},
		{ChatStatusDeleted, ChatStatusArchived, false},
		{ChatStatusActive, ChatStatusActive, true},
		{ChatStatusActive, ChatStatus("paused"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestChatSettingsMergeIsShallow(t *testing.T) {
	base := DefaultChatSettings()
	days := 7

	merged := base.Merge(&ChatSettingsPatch{AutoArchiveDays: &days})

	assert.Equal(t, DefaultMaxMessages, merged.MaxMessages)
	assert.False(t, merged.AutoArchive)
	assert.Equal(t, 7, merged.AutoArchiveDays)
	assert.Equal(t, base, base.Merge(nil))
}

func TestChatShouldAutoArchive(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	chat := &Chat{
		Status:         ChatStatusActive,
		Settings:       ChatSettings{AutoArchive: true, AutoArchiveDays: 30},
		LastActivityAt: now.AddDate(0, 0, -31),
	}
	assert.True(t, chat.ShouldAutoArchive(now))

	chat.LastActivityAt = now.AddDate(0, 0, -29)
	assert.False(t, chat.ShouldAutoArchive(now))

	chat.LastActivityAt = now.AddDate(0, 0, -60)
	chat.Settings.AutoArchive = false
	assert.False(t, chat.ShouldAutoArchive(now))
}

func TestUserLockoutStateMachine(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	user := &User{}

	for i := 0; i < 4; i++ {
		user.RegisterFailedLogin(now, 5, 2*time.Hour)
	}
	assert.Equal(t, 4, user.LoginAttempts)
	assert.False(t, user.IsLocked(now))

	user.RegisterFailedLogin(now, 5, 2*time.Hour)
	assert.Equal(t, 5, user.LoginAttempts)
	assert.True(t, user.IsLocked(now))

	// attempts keep counting while locked, lock window is not extended
	lockedUntil := *user.LockUntil
	user.RegisterFailedLogin(now.Add(time.Minute), 5, 2*time.Hour)
	assert.Equal(t, 6, user.LoginAttempts)
	assert.Equal(t, lockedUntil, *user.LockUntil)

	later := now.Add(2*time.Hour + time.Second)
	assert.False(t, user.IsLocked(later))
	user.RegisterFailedLogin(later, 5, 2*time.Hour)
	assert.Equal(t, 1, user.LoginAttempts)
	assert.Nil(t, user.LockUntil)

	user.ResetLoginAttempts()
	assert.Equal(t, 0, user.LoginAttempts)
}

func TestMessageRoleValid(t *testing.T) {
	for _, role := range MessageRoles {
		assert.True(t, role.Valid(), role)
	}
	assert.False(t, MessageRole("narrator").Valid())
}

func TestPromptDeactivateIsIdempotent(t *testing.T) {
	prompt := NewDefaultPrompt(uuid.New(), time.Now())
	assert.True(t, prompt.IsActive())
	assert.Equal(t, DefaultPromptName, prompt.Profile.Name)

	prompt.Deactivate()
	prompt.Deactivate()
	assert.False(t, prompt.IsActive())
}

func TestChatMessageLimit(t *testing.T) {
	chat := &Chat{Settings: ChatSettings{MaxMessages: 3}, MessageCount: 1}
	assert.False(t, chat.ReachedMessageLimit())
	assert.True(t, chat.HasRoomFor(2))

	chat.MessageCount = 2
	assert.False(t, chat.ReachedMessageLimit())
	assert.True(t, chat.HasRoomFor(1))
	assert.False(t, chat.HasRoomFor(2))

	unlimited := &Chat{MessageCount: 500}
	assert.True(t, unlimited.HasRoomFor(2))
	assert.False(t, unlimited.ReachedMessageLimit())
}

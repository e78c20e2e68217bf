package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type AuthProvider string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
)

type User struct {
	Id           uuid.UUID
	FullName     string
	Email        string
	PasswordHash *string
	Role         UserRole
	Provider     AuthProvider
	GoogleId     *string
	AvatarURL    *string
	IsVerified   bool

	LoginAttempts int
	LockUntil     *time.Time

	PasswordResetTokenHash *string
	PasswordResetExpires   *time.Time

	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func (u *User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}

// RegisterFailedLogin advances the lockout state machine after a rejected login.
// An expired lock restarts the counter at 1.
func (u *User) RegisterFailedLogin(now time.Time, maxAttempts int, lockTime time.Duration) {
	if u.LockUntil != nil && !u.LockUntil.After(now) {
		u.LoginAttempts = 1
		u.LockUntil = nil
		return
	}

	u.LoginAttempts++
	if u.LoginAttempts >= maxAttempts && !u.IsLocked(now) {
		until := now.Add(lockTime)
		u.LockUntil = &until
	}
}

func (u *User) ResetLoginAttempts() {
	u.LoginAttempts = 0
	u.LockUntil = nil
}

func (u *User) ClearPasswordReset() {
	u.PasswordResetTokenHash = nil
	u.PasswordResetExpires = nil
}

type UserRefreshToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	IpAddress string
	UserAgent string
}

func (t *UserRefreshToken) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

type UserImage struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	Prompt     string
	URL        string
	StorageKey string
	Width      int
	Height     int
	CreatedAt  time.Time
}

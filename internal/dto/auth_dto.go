package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest is optional; browsers send the token as a cookie instead.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=128,nefield=CurrentPassword"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type GoogleTokenRequest struct {
	IdToken string `json:"idToken" validate:"required"`
}

type UserResponse struct {
	Id           uuid.UUID  `json:"id"`
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	Provider     string     `json:"provider"`
	AvatarURL    string     `json:"avatarUrl,omitempty"`
	IsVerified   bool       `json:"isVerified"`
	HasPassword  bool       `json:"hasPassword"`
	GoogleLinked bool       `json:"googleLinked"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"accessToken"`

	// Set as an HTTP-only cookie by the controller, never serialised.
	RefreshToken     string    `json:"-"`
	RefreshExpiresAt time.Time `json:"-"`
}

type RefreshTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type UpdateProfileRequest struct {
	FullName  *string `json:"fullName" validate:"omitempty,min=2,max=50"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,url,max=2048"`
}

type MessageResponseBody struct {
	Message string `json:"message"`
}

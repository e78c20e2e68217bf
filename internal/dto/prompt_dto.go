package dto

import (
	"time"

	"github.com/google/uuid"
)

type PromptProfileRequest struct {
	Name              string `json:"name" validate:"required,min=1,max=100"`
	Designation       string `json:"designation" validate:"required,min=1,max=100"`
	Age               int    `json:"age" validate:"required,min=18,max=100"`
	UniquePerspective string `json:"uniquePerspective" validate:"max=2000"`
}

type CreatePromptRequest struct {
	Profile    PromptProfileRequest `json:"profile" validate:"required"`
	Background string               `json:"background" validate:"max=5000"`
	Category   string               `json:"category" validate:"omitempty,oneof=evaluative explorative"`
	ImageURL   string               `json:"imageUrl" validate:"omitempty,url,max=2048"`
}

type PromptProfilePatch struct {
	Name              *string `json:"name" validate:"omitempty,min=1,max=100"`
	Designation       *string `json:"designation" validate:"omitempty,min=1,max=100"`
	Age               *int    `json:"age" validate:"omitempty,min=18,max=100"`
	UniquePerspective *string `json:"uniquePerspective" validate:"omitempty,max=2000"`
}

type UpdatePromptRequest struct {
	Profile    *PromptProfilePatch `json:"profile"`
	Background *string             `json:"background" validate:"omitempty,max=5000"`
	Category   *string             `json:"category" validate:"omitempty,oneof=evaluative explorative"`
	ImageURL   *string             `json:"imageUrl" validate:"omitempty,url,max=2048"`
	IsActive   *bool               `json:"isActive"`
}

type PromptProfileResponse struct {
	Name              string `json:"name"`
	Designation       string `json:"designation"`
	Age               int    `json:"age"`
	UniquePerspective string `json:"uniquePerspective"`
}

type PromptResponse struct {
	Id         uuid.UUID             `json:"id"`
	ChatId     uuid.UUID             `json:"chatId"`
	Profile    PromptProfileResponse `json:"profile"`
	Background string                `json:"background"`
	Category   string                `json:"category"`
	ImageURL   string                `json:"imageUrl"`
	IsActive   bool                  `json:"isActive"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
}

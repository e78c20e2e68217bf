package dto

import (
	"time"

	"github.com/google/uuid"
)

type GenerateImageRequest struct {
	Prompt string `json:"prompt" validate:"required,min=3,max=1000"`
	Width  int    `json:"width" validate:"omitempty,min=256,max=1440"`
	Height int    `json:"height" validate:"omitempty,min=256,max=1440"`
}

type ImageResponse struct {
	Id        uuid.UUID `json:"id"`
	Prompt    string    `json:"prompt"`
	URL       string    `json:"url"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"createdAt"`
}

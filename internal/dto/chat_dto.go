package dto

import (
	"time"

	"ai-interview-be/internal/entity"

	"github.com/google/uuid"
)

type CreateChatRequest struct {
	Title         string                    `json:"title" validate:"max=200"`
	InitialPrompt string                    `json:"initialPrompt" validate:"max=5000"`
	Settings      *entity.ChatSettingsPatch `json:"settings"`
	Tags          []string                  `json:"tags" validate:"max=20,dive,min=1,max=50"`
}

type UpdateChatRequest struct {
	Title         *string                   `json:"title" validate:"omitempty,min=1,max=200"`
	InitialPrompt *string                   `json:"initialPrompt" validate:"omitempty,max=5000"`
	Settings      *entity.ChatSettingsPatch `json:"settings"`
	Tags          *[]string                 `json:"tags" validate:"omitempty,max=20,dive,min=1,max=50"`
	Status        *string                   `json:"status" validate:"omitempty,oneof=active archived deleted"`
}

type ChatListQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=active archived"`
	Page   int    `query:"page" validate:"omitempty,min=1"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

type ChatSettingsResponse struct {
	MaxMessages     int  `json:"maxMessages"`
	AutoArchive     bool `json:"autoArchive"`
	AutoArchiveDays int  `json:"autoArchiveDays"`
}

type ChatSummaryResponse struct {
	Id             uuid.UUID            `json:"id"`
	Title          string               `json:"title"`
	InitialPrompt  string               `json:"initialPrompt"`
	Status         string               `json:"status"`
	Settings       ChatSettingsResponse `json:"settings"`
	Tags           []string             `json:"tags"`
	MessageCount   int                  `json:"messageCount"`
	TotalTokens    int                  `json:"totalTokens"`
	LastActivityAt time.Time            `json:"lastActivityAt"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

type ChatDetailResponse struct {
	ChatSummaryResponse
	Prompts  []PromptResponse  `json:"prompts"`
	Messages []MessageResponse `json:"messages,omitempty"`
}

type ChatPagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalChats  int64 `json:"totalChats"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

type ChatListResponse struct {
	Chats      []ChatSummaryResponse `json:"chats"`
	Pagination ChatPagination        `json:"pagination"`
}

type ChatStatisticsResponse struct {
	ChatId              uuid.UUID      `json:"chatId"`
	TotalMessages       int            `json:"totalMessages"`
	MessagesByRole      map[string]int `json:"messagesByRole"`
	TotalTokens         int            `json:"totalTokens"`
	AverageResponseTime float64        `json:"averageResponseTime"`
	PromptCount         int            `json:"promptCount"`
	ActivePromptCount   int            `json:"activePromptCount"`
	CreatedAt           time.Time      `json:"createdAt"`
	LastActivityAt      time.Time      `json:"lastActivityAt"`
}

type DashboardSummary struct {
	TotalChats    int `json:"totalChats"`
	TotalMessages int `json:"totalMessages"`
	TotalTokens   int `json:"totalTokens"`
	ActiveChats   int `json:"activeChats"`
}

type RecentChat struct {
	Id             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	LastActivityAt time.Time `json:"lastActivityAt"`
	MessageCount   int       `json:"messageCount"`
}

type DashboardResponse struct {
	Days        int              `json:"days"`
	Summary     DashboardSummary `json:"summary"`
	RecentChats []RecentChat     `json:"recentChats"`
}

// ExportResult is written to the response as a downloadable file.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

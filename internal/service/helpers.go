package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/pkg/events"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// publishEvent is fire-and-forget: a missing bus or a publish failure never fails the caller.
func publishEvent(ctx context.Context, publisher events.Publisher, log logger.ILogger, eventType string, data map[string]interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, events.New(eventType, data)); err != nil {
		log.Warn("EVENTS", "Failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}

func randomToken(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if total == 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// truncate cuts s to at most n runes, appending "..." when shortened.
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "..."
}

func toUserResponse(u *entity.User) dto.UserResponse {
	res := dto.UserResponse{
		Id:           u.Id,
		FullName:     u.FullName,
		Email:        u.Email,
		Role:         string(u.Role),
		Provider:     string(u.Provider),
		IsVerified:   u.IsVerified,
		HasPassword:  u.HasPassword(),
		GoogleLinked: u.GoogleId != nil && *u.GoogleId != "",
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.AvatarURL != nil {
		res.AvatarURL = *u.AvatarURL
	}
	return res
}

func toChatSummary(c *entity.Chat) dto.ChatSummaryResponse {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return dto.ChatSummaryResponse{
		Id:            c.Id,
		Title:         c.Title,
		InitialPrompt: c.InitialPrompt,
		Status:        string(c.Status),
		Settings: dto.ChatSettingsResponse{
			MaxMessages:     c.Settings.MaxMessages,
			AutoArchive:     c.Settings.AutoArchive,
			AutoArchiveDays: c.Settings.AutoArchiveDays,
		},
		Tags:           tags,
		MessageCount:   c.MessageCount,
		TotalTokens:    c.TotalTokens,
		LastActivityAt: c.LastActivityAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func toPromptResponse(p *entity.Prompt) dto.PromptResponse {
	return dto.PromptResponse{
		Id:     p.Id,
		ChatId: p.ChatId,
		Profile: dto.PromptProfileResponse{
			Name:              p.Profile.Name,
			Designation:       p.Profile.Designation,
			Age:               p.Profile.Age,
			UniquePerspective: p.Profile.UniquePerspective,
		},
		Background: p.Background,
		Category:   string(p.Category),
		ImageURL:   p.ImageURL,
		IsActive:   p.IsActive(),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toPromptResponses(prompts []*entity.Prompt) []dto.PromptResponse {
	res := make([]dto.PromptResponse, 0, len(prompts))
	for _, p := range prompts {
		res = append(res, toPromptResponse(p))
	}
	return res
}

func toMessageResponse(m *entity.Message) dto.MessageResponse {
	return dto.MessageResponse{
		Id:        m.Id,
		ThreadId:  m.ThreadId,
		PromptId:  m.PromptId,
		Role:      string(m.Role),
		Content:   m.Content,
		Metadata:  m.Metadata,
		Timestamp: m.CreatedAt,
	}
}

func toMessageResponses(messages []*entity.Message) []dto.MessageResponse {
	res := make([]dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		res = append(res, toMessageResponse(m))
	}
	return res
}

func toImageResponse(img *entity.UserImage) dto.ImageResponse {
	return dto.ImageResponse{
		Id:        img.Id,
		Prompt:    img.Prompt,
		URL:       img.URL,
		Width:     img.Width,
		Height:    img.Height,
		CreatedAt: img.CreatedAt,
	}
}

package mapper

import (
	"encoding/json"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/model"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Chat Mappers

func (m *ChatMapper) ChatToEntity(c *model.Chat) *entity.Chat {
	if c == nil {
		return nil
	}

	settings := entity.DefaultChatSettings()
	if len(c.Settings) > 0 {
		_ = json.Unmarshal(c.Settings, &settings)
	}

	tags := []string{}
	if len(c.Tags) > 0 {
		_ = json.Unmarshal(c.Tags, &tags)
	}

	var prompts []*entity.Prompt
	if len(c.Prompts) > 0 {
		prompts = make([]*entity.Prompt, len(c.Prompts))
		for i := range c.Prompts {
			prompts[i] = m.PromptToEntity(&c.Prompts[i])
		}
	}

	return &entity.Chat{
		Id:             c.Id,
		UserId:         c.UserId,
		Title:          c.Title,
		InitialPrompt:  c.InitialPrompt,
		Status:         entity.ChatStatus(c.Status),
		Settings:       settings,
		Tags:           tags,
		MessageCount:   c.MessageCount,
		TotalTokens:    c.TotalTokens,
		LastActivityAt: c.LastActivityAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		Prompts:        prompts,
	}
}

// ChatToModel maps the chat row only; prompts are persisted through the prompt repository.
func (m *ChatMapper) ChatToModel(c *entity.Chat) *model.Chat {
	if c == nil {
		return nil
	}

	settings, _ := json.Marshal(c.Settings)
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, _ := json.Marshal(tags)

	return &model.Chat{
		Id:             c.Id,
		UserId:         c.UserId,
		Title:          c.Title,
		InitialPrompt:  c.InitialPrompt,
		Status:         string(c.Status),
		Settings:       datatypes.JSON(settings),
		Tags:           datatypes.JSON(tagsJSON),
		MessageCount:   c.MessageCount,
		TotalTokens:    c.TotalTokens,
		LastActivityAt: c.LastActivityAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (m *ChatMapper) ChatsToEntities(chats []*model.Chat) []*entity.Chat {
	entities := make([]*entity.Chat, len(chats))
	for i, c := range chats {
		entities[i] = m.ChatToEntity(c)
	}
	return entities
}

// Prompt Mappers

func (m *ChatMapper) PromptToEntity(p *model.ChatPrompt) *entity.Prompt {
	if p == nil {
		return nil
	}
	return &entity.Prompt{
		Id:     p.Id,
		ChatId: p.ChatId,
		Profile: entity.PromptProfile{
			Name:              p.Name,
			Designation:       p.Designation,
			Age:               p.Age,
			UniquePerspective: p.UniquePerspective,
		},
		Background: p.Background,
		Category:   entity.PromptCategory(p.Category),
		ImageURL:   p.ImageURL,
		Status:     entity.PromptStatus(p.Status),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (m *ChatMapper) PromptToModel(p *entity.Prompt) *model.ChatPrompt {
	if p == nil {
		return nil
	}
	return &model.ChatPrompt{
		Id:                p.Id,
		ChatId:            p.ChatId,
		Name:              p.Profile.Name,
		Designation:       p.Profile.Designation,
		Age:               p.Profile.Age,
		UniquePerspective: p.Profile.UniquePerspective,
		Background:        p.Background,
		Category:          string(p.Category),
		ImageURL:          p.ImageURL,
		Status:            string(p.Status),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func (m *ChatMapper) PromptsToEntities(prompts []*model.ChatPrompt) []*entity.Prompt {
	entities := make([]*entity.Prompt, len(prompts))
	for i, p := range prompts {
		entities[i] = m.PromptToEntity(p)
	}
	return entities
}

package mapper

import (
	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/model"
)

type MessageMapper struct{}

func NewMessageMapper() *MessageMapper {
	return &MessageMapper{}
}

func (m *MessageMapper) ThreadToEntity(t *model.MessageThread) *entity.MessageThread {
	if t == nil {
		return nil
	}
	return &entity.MessageThread{
		Id:        t.Id,
		ChatId:    t.ChatId,
		PromptId:  t.PromptId,
		UserId:    t.UserId,
		Status:    entity.ThreadStatus(t.Status),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (m *MessageMapper) ThreadToModel(t *entity.MessageThread) *model.MessageThread {
	if t == nil {
		return nil
	}
	return &model.MessageThread{
		Id:        t.Id,
		ChatId:    t.ChatId,
		PromptId:  t.PromptId,
		UserId:    t.UserId,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (m *MessageMapper) MessageToEntity(msg *model.ThreadMessage) *entity.Message {
	if msg == nil {
		return nil
	}
	return &entity.Message{
		Id:       msg.Id,
		ThreadId: msg.ThreadId,
		ChatId:   msg.ChatId,
		PromptId: msg.PromptId,
		Role:     entity.MessageRole(msg.Role),
		Content:  msg.Content,
		Metadata: entity.MessageMetadata{
			TokenCount:       msg.TokenCount,
			ProcessingTimeMs: msg.ProcessingTimeMs,
			Model:            msg.ModelName,
		},
		CreatedAt: msg.CreatedAt,
	}
}

func (m *MessageMapper) MessageToModel(msg *entity.Message) *model.ThreadMessage {
	if msg == nil {
		return nil
	}
	return &model.ThreadMessage{
		Id:               msg.Id,
		ThreadId:         msg.ThreadId,
		ChatId:           msg.ChatId,
		PromptId:         msg.PromptId,
		Role:             string(msg.Role),
		Content:          msg.Content,
		TokenCount:       msg.Metadata.TokenCount,
		ProcessingTimeMs: msg.Metadata.ProcessingTimeMs,
		ModelName:        msg.Metadata.Model,
		CreatedAt:        msg.CreatedAt,
	}
}

func (m *MessageMapper) MessagesToEntities(msgs []*model.ThreadMessage) []*entity.Message {
	entities := make([]*entity.Message, len(msgs))
	for i, msg := range msgs {
		entities[i] = m.MessageToEntity(msg)
	}
	return entities
}

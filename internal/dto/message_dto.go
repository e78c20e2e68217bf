package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"ai-interview-be/internal/entity"

	"github.com/google/uuid"
)

var ErrInvalidMessageContent = errors.New("message must be a string, a scalar or an object")

// MessageContent accepts a bare string or an object carrying the text under
// "text", "content" or "message". Numbers and booleans are kept as their JSON
// text, and objects without a text field as their compact JSON.
type MessageContent string

func (m *MessageContent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = ""
		return nil
	}

	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return ErrInvalidMessageContent
		}
		*m = MessageContent(text)
		return nil
	case '{':
		return m.fromObject(data)
	case '[':
		return ErrInvalidMessageContent
	}

	var scalar interface{}
	if err := json.Unmarshal(data, &scalar); err != nil {
		return ErrInvalidMessageContent
	}
	*m = MessageContent(data)
	return nil
}

func (m *MessageContent) fromObject(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return ErrInvalidMessageContent
	}
	for _, key := range []string{"text", "content", "message"} {
		var candidate string
		if raw, ok := fields[key]; ok && json.Unmarshal(raw, &candidate) == nil && candidate != "" {
			*m = MessageContent(candidate)
			return nil
		}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return ErrInvalidMessageContent
	}
	*m = MessageContent(compact.String())
	return nil
}

type SendMessageRequest struct {
	Message  MessageContent `json:"message"`
	PromptId *uuid.UUID     `json:"promptId"`
}

type AddMessageRequest struct {
	Role     string                  `json:"role" validate:"required"`
	Content  string                  `json:"content" validate:"required,max=20000"`
	Metadata *entity.MessageMetadata `json:"metadata"`
	PromptId *uuid.UUID              `json:"promptId"`
}

type MessageListQuery struct {
	PromptId string `query:"promptId" validate:"omitempty,uuid"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=200"`
}

type MessageSearchQuery struct {
	Query    string `query:"q" validate:"required,min=1,max=200"`
	PromptId string `query:"promptId" validate:"omitempty,uuid"`
}

type MessageResponse struct {
	Id        uuid.UUID              `json:"id"`
	ThreadId  uuid.UUID              `json:"threadId"`
	PromptId  uuid.UUID              `json:"promptId"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Metadata  entity.MessageMetadata `json:"metadata"`
	Timestamp time.Time              `json:"timestamp"`
}

type SendMessageResponse struct {
	PromptId         uuid.UUID        `json:"promptId"`
	UserMessage      MessageResponse  `json:"userMessage"`
	AssistantMessage *MessageResponse `json:"assistantMessage,omitempty"`
	MessageCount     int              `json:"messageCount"`
}

type MessagePagination struct {
	CurrentPage   int   `json:"currentPage"`
	TotalPages    int   `json:"totalPages"`
	TotalMessages int64 `json:"totalMessages"`
	HasNext       bool  `json:"hasNext"`
	HasPrev       bool  `json:"hasPrev"`
}

type MessageListResponse struct {
	Messages   []MessageResponse `json:"messages"`
	Pagination MessagePagination `json:"pagination"`
}

type MessageSearchResponse struct {
	Query   string            `json:"query"`
	Results []MessageResponse `json:"results"`
	Total   int               `json:"total"`
}

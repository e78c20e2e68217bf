package entity

import (
	"time"

	"github.com/google/uuid"
)

type PromptCategory string
type PromptStatus string

const (
	PromptCategoryEvaluative  PromptCategory = "evaluative"
	PromptCategoryExplorative PromptCategory = "explorative"

	PromptStatusActive   PromptStatus = "active"
	PromptStatusInactive PromptStatus = "inactive"
)

const (
	MinPersonaAge = 18
	MaxPersonaAge = 100

	DefaultPromptName = "General Conversation"
)

func (c PromptCategory) Valid() bool {
	return c == PromptCategoryEvaluative || c == PromptCategoryExplorative
}

type PromptProfile struct {
	Name              string
	Designation       string
	Age               int
	UniquePerspective string
}

type Prompt struct {
	Id         uuid.UUID
	ChatId     uuid.UUID
	Profile    PromptProfile
	Background string
	Category   PromptCategory
	ImageURL   string
	Status     PromptStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p *Prompt) IsActive() bool {
	return p.Status == PromptStatusActive
}

// Deactivate is the only removal a prompt supports; repeating it is harmless.
func (p *Prompt) Deactivate() {
	p.Status = PromptStatusInactive
}

func NewDefaultPrompt(chatId uuid.UUID, now time.Time) *Prompt {
	return &Prompt{
		Id:     uuid.New(),
		ChatId: chatId,
		Profile: PromptProfile{
			Name:              DefaultPromptName,
			Designation:       "Interviewee",
			Age:               30,
			UniquePerspective: "Answers openly and thoughtfully from everyday experience.",
		},
		Background: "A general conversation partner used when no persona has been configured.",
		Category:   PromptCategoryExplorative,
		Status:     PromptStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

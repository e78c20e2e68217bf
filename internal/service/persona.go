package service

import (
	"fmt"
	"strings"

	"ai-interview-be/internal/entity"
	"ai-interview-be/pkg/llm"
)

// personaInstruction turns a prompt profile into the system instruction for the interviewee.
func personaInstruction(chat *entity.Chat, prompt *entity.Prompt) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s", prompt.Profile.Name)
	if prompt.Profile.Age > 0 {
		fmt.Fprintf(&b, ", %d years old", prompt.Profile.Age)
	}
	if prompt.Profile.Designation != "" {
		fmt.Fprintf(&b, ", working as %s", prompt.Profile.Designation)
	}
	b.WriteString(". You are being interviewed by a researcher.\n")

	if prompt.Background != "" {
		fmt.Fprintf(&b, "Background: %s\n", prompt.Background)
	}
	if prompt.Profile.UniquePerspective != "" {
		fmt.Fprintf(&b, "Your unique perspective: %s\n", prompt.Profile.UniquePerspective)
	}
	if chat.InitialPrompt != "" {
		fmt.Fprintf(&b, "Interview context: %s\n", chat.InitialPrompt)
	}

	switch prompt.Category {
	case entity.PromptCategoryEvaluative:
		b.WriteString("The interviewer is evaluating an idea or product. Give honest, specific opinions, including criticism.\n")
	default:
		b.WriteString("The interviewer is exploring your experiences. Share concrete stories and how they made you feel.\n")
	}

	b.WriteString("Stay in character, answer in the first person and keep replies conversational and concise. Never mention that you are an AI.")
	return b.String()
}

// historyForModel keeps the last window entries that a chat model understands.
func historyForModel(messages []*entity.Message, window int) []llm.Message {
	history := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		var role string
		switch m.Role {
		case entity.MessageRoleUser:
			role = llm.RoleUser
		case entity.MessageRoleAssistant, entity.MessageRoleBot:
			role = llm.RoleAssistant
		case entity.MessageRoleSystem:
			role = llm.RoleSystem
		default:
			continue
		}
		history = append(history, llm.Message{Role: role, Content: m.Content})
	}
	if window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}
	return history
}

package mock

import (
	"context"
	"fmt"
	"strings"

	"ai-interview-be/pkg/llm"
)

const ModelName = "mock-interviewee"

var replies = []string{
	"That's a great question. In my experience the hardest part is usually getting everyone aligned before any work starts.",
	"I'd say it depends on the situation, but I try to start by understanding what the people involved actually need.",
	"Honestly, I learned the most from the projects that didn't go to plan. They forced me to rethink how I approach problems.",
	"I usually break it into smaller pieces, check my assumptions early, and ask for feedback as soon as something works.",
	"Let me think about that for a second. I think the short answer is yes, but with a few caveats worth discussing.",
}

// MockProvider answers deterministically without any network access. It
// stands in when no model is configured or the real provider fails.
type MockProvider struct{}

var _ llm.LLMProvider = MockProvider{}

func NewMockProvider() MockProvider {
	return MockProvider{}
}

func (MockProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Completion, error) {
	last := ""
	userTurns := 0
	for _, msg := range history {
		if msg.Role == llm.RoleUser {
			last = msg.Content
			userTurns++
		}
	}

	text := replies[userTurns%len(replies)]
	if q := strings.TrimSpace(last); q != "" && len(q) < 80 {
		text = fmt.Sprintf("You asked: %q. %s", q, text)
	}
	return &llm.Completion{
		Text:       text,
		Model:      ModelName,
		TokenCount: len(strings.Fields(text)),
	}, nil
}

func (m MockProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (*llm.Completion, error) {
	return m.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

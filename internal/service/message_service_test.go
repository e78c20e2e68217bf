package service

import (
	"context"
	"strings"
	"testing"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/apperror"
	"ai-interview-be/pkg/events"
	"ai-interview-be/pkg/llm"
	"ai-interview-be/pkg/llm/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageService_SendCreatesOneDefaultPrompt(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "send@example.com")
	chat := env.createChat(t, user.Id, nil)
	svc := env.messageService(nil, MessageOptions{})
	ctx := context.Background()

	first, err := svc.SendMessage(ctx, chat.Id, user.Id, &dto.SendMessageRequest{Message: "Hello"})
	require.NoError(t, err)
	second, err := svc.SendMessage(ctx, chat.Id, user.Id, &dto.SendMessageRequest{Message: "Again"})
	require.NoError(t, err)
	assert.Equal(t, first.PromptId, second.PromptId)

	prompts, err := env.promptService().GetPrompts(ctx, chat.Id, user.Id, true)
	require.NoError(t, err)
	require.Len(t, prompts, 1)
	assert.Equal(t, entity.DefaultPromptName, prompts[0].Profile.Name)

	assert.Equal(t, first.UserMessage.ThreadId, second.UserMessage.ThreadId)
	assert.Nil(t, first.AssistantMessage)
	assert.Contains(t, env.publisher.Types(), events.TypeMessageSent)
}

func TestMessageService_ReplyUsesProvider(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "reply@example.com")
	chat := env.createChat(t, user.Id, &dto.CreateChatRequest{Title: "Research", InitialPrompt: "Testing a budgeting app"})
	ctx := context.Background()

	prompt, err := env.promptService().AddPrompt(ctx, chat.Id, user.Id, samplePrompt("Dana", 34))
	require.NoError(t, err)

	provider := &stubProvider{text: "I mostly use spreadsheets."}
	svc := env.messageService(provider, MessageOptions{ReplyEnabled: true, HistoryWindow: 10})

	res, err := svc.SendMessage(ctx, chat.Id, user.Id, &dto.SendMessageRequest{Message: "How do you budget?", PromptId: &prompt.Id})
	require.NoError(t, err)
	require.NotNil(t, res.AssistantMessage)
	assert.Equal(t, "assistant", res.AssistantMessage.Role)
	assert.Equal(t, "I mostly use spreadsheets.", res.AssistantMessage.Content)
	assert.Equal(t, "stub-model", res.AssistantMessage.Metadata.Model)
	assert.Equal(t, 12, res.AssistantMessage.Metadata.TokenCount)
	assert.Equal(t, 2, res.MessageCount)

	require.Len(t, provider.last, 1)
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "How do you budget?"}, provider.last[0])
	assert.Contains(t, provider.opts.SystemPrompt, "You are Dana")
	assert.Contains(t, provider.opts.SystemPrompt, "Testing a budgeting app")

	detail, err := env.chatService().GetChatById(ctx, chat.Id, user.Id, true)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.MessageCount)
	assert.Equal(t, 12, detail.TotalTokens)
	assert.Len(t, detail.Messages, 2)
}

func TestMessageService_ReplyFallsBackToMock(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "fallback@example.com")
	chat := env.createChat(t, user.Id, nil)

	provider := &stubProvider{err: errProviderDown}
	svc := env.messageService(provider, MessageOptions{ReplyEnabled: true})

	res, err := svc.SendMessage(context.Background(), chat.Id, user.Id, &dto.SendMessageRequest{Message: "Tell me more"})
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)
	require.NotNil(t, res.AssistantMessage)
	assert.Equal(t, mock.ModelName, res.AssistantMessage.Metadata.Model)
	assert.NotEmpty(t, res.AssistantMessage.Content)
}

func TestMessageService_SendRejections(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "reject@example.com")
	svc := env.messageService(nil, MessageOptions{})
	ctx := context.Background()

	chat := env.createChat(t, user.Id, nil)
	_, err := svc.SendMessage(ctx, chat.Id, user.Id, &dto.SendMessageRequest{Message: "   "})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest), "blank message")

	_, err = svc.SendMessage(ctx, chat.Id, user.Id, &dto.SendMessageRequest{Message: dto.MessageContent(strings.Repeat("x", maxMessageLength+1))})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest), "oversized message")

	missing := uuid.New()
	_, err = svc.SendMessage(ctx, chat.Id, user.Id, &dto.SendMessageRequest{Message: "hi", PromptId: &missing})
	assert.True(t, apperror.Is(err, apperror.KindNotFound), "unknown prompt")

	archived := "archived"
	_, err = env.chatService().UpdateChat(ctx, chat.Id, user.Id, &dto.UpdateChatRequest{Status: &archived})
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, chat.Id, user.Id, &dto.SendMessageRequest{Message: "hi"})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest), "archived chat")

	limit := 2
	small := env.createChat(t, user.Id, &dto.CreateChatRequest{Settings: &entity.ChatSettingsPatch{MaxMessages: &limit}})
	for i := 0; i < 2; i++ {
		_, err = svc.SendMessage(ctx, small.Id, user.Id, &dto.SendMessageRequest{Message: "hi"})
		require.NoError(t, err)
	}
	_, err = svc.SendMessage(ctx, small.Id, user.Id, &dto.SendMessageRequest{Message: "one more"})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest), "message limit")
}

func TestMessageService_ReplyStaysWithinLimit(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "limit@example.com")
	limit := 3
	chat := env.createChat(t, user.Id, &dto.CreateChatRequest{Settings: &entity.ChatSettingsPatch{MaxMessages: &limit}})
	provider := &stubProvider{text: "Sure."}
	svc := env.messageService(provider, MessageOptions{ReplyEnabled: true})
	ctx := context.Background()

	first, err := svc.SendMessage(ctx, chat.Id, user.Id, &dto.SendMessageRequest{Message: "hi"})
	require.NoError(t, err)
	require.NotNil(t, first.AssistantMessage)
	assert.Equal(t, 2, first.MessageCount)

	second, err := svc.SendMessage(ctx, chat.Id, user.Id, &dto.SendMessageRequest{Message: "last one"})
	require.NoError(t, err)
	assert.Nil(t, second.AssistantMessage)
	assert.Equal(t, 3, second.MessageCount)
	assert.Equal(t, 1, provider.calls)

	detail, err := env.chatService().GetChatById(ctx, chat.Id, user.Id, false)
	require.NoError(t, err)
	assert.Equal(t, limit, detail.MessageCount)

	_, err = svc.SendMessage(ctx, chat.Id, user.Id, &dto.SendMessageRequest{Message: "over"})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))
}

func TestMessageService_AddMessage(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "add@example.com")
	chat := env.createChat(t, user.Id, nil)
	svc := env.messageService(nil, MessageOptions{})
	ctx := context.Background()

	_, err := svc.AddMessage(ctx, chat.Id, user.Id, &dto.AddMessageRequest{Role: "user", Content: "no prompt yet"})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))

	prompt, err := env.promptService().AddPrompt(ctx, chat.Id, user.Id, samplePrompt("Ivy", 29))
	require.NoError(t, err)

	_, err = svc.AddMessage(ctx, chat.Id, user.Id, &dto.AddMessageRequest{Role: "narrator", Content: "x"})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))

	msg, err := svc.AddMessage(ctx, chat.Id, user.Id, &dto.AddMessageRequest{
		Role:     "Moderator",
		Content:  "Welcome",
		Metadata: &entity.MessageMetadata{TokenCount: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, "moderator", msg.Role)
	assert.Equal(t, prompt.Id, msg.PromptId, "falls back to the first active prompt")
	assert.Equal(t, 4, msg.Metadata.TokenCount)
}

func TestMessageService_GetAndSearch(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "search@example.com")
	chat := env.createChat(t, user.Id, nil)
	svc := env.messageService(nil, MessageOptions{})
	ctx := context.Background()

	for _, content := range []string{"Budget planning", "weekly groceries", "BUDGET review", "holidays"} {
		_, err := svc.SendMessage(ctx, chat.Id, user.Id, &dto.SendMessageRequest{Message: dto.MessageContent(content)})
		require.NoError(t, err)
	}

	page, err := svc.GetMessages(ctx, chat.Id, user.Id, dto.MessageListQuery{Page: 2, Limit: 3})
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "holidays", page.Messages[0].Content)
	assert.Equal(t, dto.MessagePagination{CurrentPage: 2, TotalPages: 2, TotalMessages: 4, HasNext: false, HasPrev: true}, page.Pagination)

	found, err := svc.SearchMessages(ctx, chat.Id, user.Id, dto.MessageSearchQuery{Query: "budget"})
	require.NoError(t, err)
	assert.Equal(t, 2, found.Total)
	assert.Equal(t, "Budget planning", found.Results[0].Content)
	assert.Equal(t, "BUDGET review", found.Results[1].Content)

	_, err = svc.GetMessages(ctx, chat.Id, user.Id, dto.MessageListQuery{PromptId: "not-a-uuid"})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))
}

func TestMessageService_DeleteThreadStartsFresh(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "thread@example.com")
	chat := env.createChat(t, user.Id, nil)
	svc := env.messageService(nil, MessageOptions{})
	ctx := context.Background()

	first, err := svc.SendMessage(ctx, chat.Id, user.Id, &dto.SendMessageRequest{Message: "before"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteThread(ctx, chat.Id, user.Id, first.PromptId))
	err = svc.DeleteThread(ctx, chat.Id, user.Id, first.PromptId)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	empty, err := svc.GetMessages(ctx, chat.Id, user.Id, dto.MessageListQuery{})
	require.NoError(t, err)
	assert.Empty(t, empty.Messages)

	next, err := svc.SendMessage(ctx, chat.Id, user.Id, &dto.SendMessageRequest{Message: "after"})
	require.NoError(t, err)
	assert.Equal(t, first.PromptId, next.PromptId)
	assert.NotEqual(t, first.UserMessage.ThreadId, next.UserMessage.ThreadId)

	all, err := svc.GetMessages(ctx, chat.Id, user.Id, dto.MessageListQuery{})
	require.NoError(t, err)
	require.Len(t, all.Messages, 1)
	assert.Equal(t, "after", all.Messages[0].Content)
}

func TestHistoryForModel(t *testing.T) {
	messages := []*entity.Message{
		{Role: entity.MessageRoleSystem, Content: "s"},
		{Role: entity.MessageRoleUser, Content: "u1"},
		{Role: entity.MessageRoleNotification, Content: "skip"},
		{Role: entity.MessageRoleBot, Content: "b1"},
		{Role: entity.MessageRoleUser, Content: "u2"},
	}
	history := historyForModel(messages, 2)
	assert.Equal(t, []llm.Message{
		{Role: llm.RoleAssistant, Content: "b1"},
		{Role: llm.RoleUser, Content: "u2"},
	}, history)
	assert.Len(t, historyForModel(messages, 0), 4)
}

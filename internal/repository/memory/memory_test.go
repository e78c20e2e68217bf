package memory

import (
	"context"
	"testing"
	"time"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_EmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())

	require.NoError(t, repo.Create(ctx, &entity.User{Email: "Jane@Example.com", FullName: "Jane"}))

	found, err := repo.FindByEmail(ctx, "JANE@example.COM")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "jane@example.com", found.Email)

	err = repo.Create(ctx, &entity.User{Email: "jane@EXAMPLE.com"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestRefreshTokenRepository_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewRefreshTokenRepository(NewStore())
	userId := uuid.New()
	base := time.Now()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &entity.UserRefreshToken{
			UserId:    userId,
			TokenHash: string(rune('a' + i)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	tokens, err := repo.FindAllByUser(ctx, userId)
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, "c", tokens[0].TokenHash)
	assert.Equal(t, "a", tokens[2].TokenHash)

	require.NoError(t, repo.DeleteByHash(ctx, userId, "b"))
	found, err := repo.FindByHash(ctx, userId, "b")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestChatRepository_FindOwnedHidesDeletedAndForeign(t *testing.T) {
	ctx := context.Background()
	repo := NewChatRepository(NewStore())
	owner := uuid.New()

	chat := &entity.Chat{UserId: owner, Status: entity.ChatStatusActive, Settings: entity.DefaultChatSettings()}
	require.NoError(t, repo.Create(ctx, chat))

	found, err := repo.FindOwned(ctx, chat.Id, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = repo.FindOwned(ctx, chat.Id, owner)
	require.NoError(t, err)
	require.NotNil(t, found)

	require.NoError(t, repo.UpdateStatus(ctx, chat.Id, entity.ChatStatusDeleted))
	found, err = repo.FindOwned(ctx, chat.Id, owner)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestChatRepository_FindAllSortsAndPages(t *testing.T) {
	ctx := context.Background()
	repo := NewChatRepository(NewStore())
	owner := uuid.New()
	base := time.Now()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &entity.Chat{
			UserId:         owner,
			Title:          string(rune('A' + i)),
			Status:         entity.ChatStatusActive,
			CreatedAt:      base,
			LastActivityAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	chats, total, err := repo.FindAll(ctx, contract.ChatFilter{UserId: owner, Status: entity.ChatStatusActive, Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, chats, 2)
	assert.Equal(t, "C", chats[0].Title)
	assert.Equal(t, "B", chats[1].Title)
}

func TestMessageRepository_ThreadLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewMessageRepository(store)
	chatId, promptId := uuid.New(), uuid.New()

	first := &entity.MessageThread{ChatId: chatId, PromptId: promptId, Status: entity.ThreadStatusActive}
	require.NoError(t, repo.CreateThread(ctx, first))

	second := &entity.MessageThread{ChatId: chatId, PromptId: promptId, Status: entity.ThreadStatusActive}
	require.NoError(t, repo.CreateThread(ctx, second))
	assert.Equal(t, first.Id, second.Id)

	require.NoError(t, repo.Append(ctx, &entity.Message{ThreadId: first.Id, ChatId: chatId, PromptId: promptId, Role: entity.MessageRoleUser, Content: "hi"}))

	messages, total, err := repo.FindMessages(ctx, contract.MessageFilter{ChatId: chatId})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, messages, 1)

	require.NoError(t, repo.SoftDeleteThread(ctx, first.Id))
	messages, total, err = repo.FindMessages(ctx, contract.MessageFilter{ChatId: chatId})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, messages)

	active, err := repo.FindActiveThread(ctx, chatId, promptId)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestChatRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	chats := NewChatRepository(store)
	prompts := NewPromptRepository(store)
	messages := NewMessageRepository(store)

	chat := &entity.Chat{UserId: uuid.New(), Status: entity.ChatStatusActive}
	require.NoError(t, chats.Create(ctx, chat))
	prompt := entity.NewDefaultPrompt(chat.Id, time.Now())
	require.NoError(t, prompts.Create(ctx, prompt))
	thread := &entity.MessageThread{ChatId: chat.Id, PromptId: prompt.Id}
	require.NoError(t, messages.CreateThread(ctx, thread))
	require.NoError(t, messages.Append(ctx, &entity.Message{ThreadId: thread.Id, ChatId: chat.Id, PromptId: prompt.Id, Role: entity.MessageRoleUser}))

	require.NoError(t, chats.Delete(ctx, chat.Id))

	assert.Empty(t, store.prompts)
	assert.Empty(t, store.threads)
	assert.Empty(t, store.messages)
	assert.Empty(t, store.chats)
}

func TestOAuthStateRepository_ConsumeOnce(t *testing.T) {
	repo := NewOAuthStateRepository()
	repo.Save("nonce")

	assert.True(t, repo.Consume("nonce"))
	assert.False(t, repo.Consume("nonce"))
	assert.False(t, repo.Consume("unknown"))
	assert.False(t, repo.Consume(""))
}

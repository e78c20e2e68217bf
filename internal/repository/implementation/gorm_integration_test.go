package implementation_test

import (
	"context"
	"os"
	"testing"
	"time"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/repository/contract"
	"ai-interview-be/internal/repository/unitofwork"
	"ai-interview-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntegrationFactory(t *testing.T) unitofwork.RepositoryFactory {
	t.Helper()
	_ = godotenv.Load("../../../.env")

	dsn := os.Getenv("TEST_DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: TEST_DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDB(dsn, true)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return unitofwork.NewRepositoryFactory(db)
}

func createIntegrationUser(t *testing.T, uow unitofwork.UnitOfWork) *entity.User {
	t.Helper()
	user := &entity.User{
		Id:       uuid.New(),
		FullName: "Integration Test User",
		Email:    "test-integration-" + uuid.New().String() + "@example.com",
		Role:     entity.UserRoleUser,
		Provider: entity.AuthProviderLocal,
	}
	require.NoError(t, uow.UserRepository().Create(context.Background(), user))
	t.Cleanup(func() { _ = uow.UserRepository().Delete(context.Background(), user.Id) })
	return user
}

func TestGormChatLifecycle(t *testing.T) {
	ctx := context.Background()
	uow := newIntegrationFactory(t).NewUnitOfWork(ctx)
	user := createIntegrationUser(t, uow)
	now := time.Now()

	chat := &entity.Chat{
		UserId:         user.Id,
		Title:          "Integration chat",
		Status:         entity.ChatStatusActive,
		Settings:       entity.DefaultChatSettings(),
		Tags:           []string{"integration"},
		LastActivityAt: now,
		CreatedAt:      now,
	}
	require.NoError(t, uow.ChatRepository().Create(ctx, chat))
	t.Cleanup(func() { _ = uow.ChatRepository().Delete(ctx, chat.Id) })

	prompt := entity.NewDefaultPrompt(chat.Id, now)
	require.NoError(t, uow.PromptRepository().Create(ctx, prompt))

	t.Run("Active thread is unique per prompt", func(t *testing.T) {
		first := &entity.MessageThread{Id: uuid.New(), ChatId: chat.Id, PromptId: prompt.Id, UserId: user.Id, Status: entity.ThreadStatusActive}
		require.NoError(t, uow.MessageRepository().CreateThread(ctx, first))

		second := &entity.MessageThread{Id: uuid.New(), ChatId: chat.Id, PromptId: prompt.Id, UserId: user.Id, Status: entity.ThreadStatusActive}
		require.NoError(t, uow.MessageRepository().CreateThread(ctx, second))
		assert.Equal(t, first.Id, second.Id, "the losing insert adopts the existing thread")
	})

	t.Run("Append and count activity", func(t *testing.T) {
		thread, err := uow.MessageRepository().FindActiveThread(ctx, chat.Id, prompt.Id)
		require.NoError(t, err)
		require.NotNil(t, thread)

		require.NoError(t, uow.MessageRepository().Append(ctx, &entity.Message{
			ThreadId:  thread.Id,
			ChatId:    chat.Id,
			PromptId:  prompt.Id,
			Role:      entity.MessageRoleUser,
			Content:   "hello from postgres",
			CreatedAt: now,
		}))
		require.NoError(t, uow.ChatRepository().RecordActivity(ctx, chat.Id, 1, 3, now))

		messages, total, err := uow.MessageRepository().FindMessages(ctx, contract.MessageFilter{ChatId: chat.Id})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, messages, 1)

		found, err := uow.ChatRepository().FindOwned(ctx, chat.Id, user.Id)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, 1, found.MessageCount)
		assert.Equal(t, 3, found.TotalTokens)
	})

	t.Run("Transaction rollback discards writes", func(t *testing.T) {
		txUow := newIntegrationFactory(t).NewUnitOfWork(ctx)
		require.NoError(t, txUow.Begin(ctx))
		require.NoError(t, txUow.ChatRepository().UpdateStatus(ctx, chat.Id, entity.ChatStatusArchived))
		require.NoError(t, txUow.Rollback())

		found, err := uow.ChatRepository().FindOwned(ctx, chat.Id, user.Id)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, entity.ChatStatusActive, found.Status)
	})
}

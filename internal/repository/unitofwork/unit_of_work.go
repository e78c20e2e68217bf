package unitofwork

import (
	"context"

	"ai-interview-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	RefreshTokenRepository() contract.RefreshTokenRepository
	UserImageRepository() contract.UserImageRepository

	ChatRepository() contract.ChatRepository
	PromptRepository() contract.PromptRepository
	MessageRepository() contract.MessageRepository
}

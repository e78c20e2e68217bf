package memory

import (
	"context"

	"ai-interview-be/internal/repository/contract"
	"ai-interview-be/internal/repository/unitofwork"
)

// RepositoryFactory serves units of work over a shared Store. Writes are
// applied immediately; Commit and Rollback only track the unit's state.
type RepositoryFactory struct {
	store *Store
}

func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &RepositoryFactory{store: store}
}

func (f *RepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.store}
}

type unitOfWork struct {
	store *Store
}

func (u *unitOfWork) Begin(ctx context.Context) error { return nil }
func (u *unitOfWork) Commit() error                   { return nil }
func (u *unitOfWork) Rollback() error                 { return nil }

func (u *unitOfWork) UserRepository() contract.UserRepository {
	return NewUserRepository(u.store)
}

func (u *unitOfWork) RefreshTokenRepository() contract.RefreshTokenRepository {
	return NewRefreshTokenRepository(u.store)
}

func (u *unitOfWork) UserImageRepository() contract.UserImageRepository {
	return NewUserImageRepository(u.store)
}

func (u *unitOfWork) ChatRepository() contract.ChatRepository {
	return NewChatRepository(u.store)
}

func (u *unitOfWork) PromptRepository() contract.PromptRepository {
	return NewPromptRepository(u.store)
}

func (u *unitOfWork) MessageRepository() contract.MessageRepository {
	return NewMessageRepository(u.store)
}

package memory

import (
	"sync"

	"ai-interview-be/internal/entity"

	"github.com/google/uuid"
)

// Store keeps every table of the in-memory backend behind one lock.
// Repositories hand out copies so callers never alias stored rows.
type Store struct {
	mu sync.RWMutex

	users         map[uuid.UUID]*entity.User
	refreshTokens map[uuid.UUID]*entity.UserRefreshToken
	images        map[uuid.UUID]*entity.UserImage
	chats         map[uuid.UUID]*entity.Chat
	prompts       map[uuid.UUID]*entity.Prompt
	threads       map[uuid.UUID]*entity.MessageThread
	messages      []*entity.Message
}

func NewStore() *Store {
	return &Store{
		users:         make(map[uuid.UUID]*entity.User),
		refreshTokens: make(map[uuid.UUID]*entity.UserRefreshToken),
		images:        make(map[uuid.UUID]*entity.UserImage),
		chats:         make(map[uuid.UUID]*entity.Chat),
		prompts:       make(map[uuid.UUID]*entity.Prompt),
		threads:       make(map[uuid.UUID]*entity.MessageThread),
	}
}

func copyUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

func copyChat(ch *entity.Chat) *entity.Chat {
	c := *ch
	c.Tags = append([]string{}, ch.Tags...)
	c.Prompts = nil
	return &c
}

func copyPrompt(p *entity.Prompt) *entity.Prompt {
	c := *p
	return &c
}

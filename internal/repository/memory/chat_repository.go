package memory

import (
	"context"
	"sort"
	"time"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRepository struct {
	store *Store
}

func NewChatRepository(store *Store) contract.ChatRepository {
	return &ChatRepository{store: store}
}

func (r *ChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if chat.Id == uuid.Nil {
		chat.Id = uuid.New()
	}
	now := time.Now()
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = now
	}
	if chat.UpdatedAt.IsZero() {
		chat.UpdatedAt = now
	}
	if chat.LastActivityAt.IsZero() {
		chat.LastActivityAt = chat.CreatedAt
	}
	if chat.Tags == nil {
		chat.Tags = []string{}
	}
	r.store.chats[chat.Id] = copyChat(chat)
	return nil
}

func (r *ChatRepository) Update(ctx context.Context, chat *entity.Chat) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.chats[chat.Id]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.store.chats[chat.Id] = copyChat(chat)
	return nil
}

func (r *ChatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.messages[:0]
	for _, m := range r.store.messages {
		if m.ChatId != id {
			kept = append(kept, m)
		}
	}
	r.store.messages = kept

	for tid, t := range r.store.threads {
		if t.ChatId == id {
			delete(r.store.threads, tid)
		}
	}
	for pid, p := range r.store.prompts {
		if p.ChatId == id {
			delete(r.store.prompts, pid)
		}
	}
	delete(r.store.chats, id)
	return nil
}

func (r *ChatRepository) FindOwned(ctx context.Context, chatId, userId uuid.UUID) (*entity.Chat, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	chat, ok := r.store.chats[chatId]
	if !ok || chat.UserId != userId || chat.Status == entity.ChatStatusDeleted {
		return nil, nil
	}
	return copyChat(chat), nil
}

func (r *ChatRepository) FindOwnedIncludingDeleted(ctx context.Context, chatId, userId uuid.UUID) (*entity.Chat, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	chat, ok := r.store.chats[chatId]
	if !ok || chat.UserId != userId {
		return nil, nil
	}
	return copyChat(chat), nil
}

func (r *ChatRepository) FindAll(ctx context.Context, filter contract.ChatFilter) ([]*entity.Chat, int64, error) {
	chats := r.filter(func(c *entity.Chat) bool {
		return c.UserId == filter.UserId && (filter.Status == "" || c.Status == filter.Status)
	})
	sortMostRecentlyActive(chats)

	total := int64(len(chats))
	return paginate(chats, filter.Offset, filter.Limit), total, nil
}

func (r *ChatRepository) FindCreatedSince(ctx context.Context, userId uuid.UUID, since time.Time) ([]*entity.Chat, error) {
	return r.filter(func(c *entity.Chat) bool {
		return c.UserId == userId && c.Status != entity.ChatStatusDeleted && !c.CreatedAt.Before(since)
	}), nil
}

func (r *ChatRepository) FindRecentlyActive(ctx context.Context, userId uuid.UUID, limit int) ([]*entity.Chat, error) {
	chats := r.filter(func(c *entity.Chat) bool {
		return c.UserId == userId && c.Status != entity.ChatStatusDeleted
	})
	sortMostRecentlyActive(chats)
	return paginate(chats, 0, limit), nil
}

func (r *ChatRepository) FindAutoArchiveCandidates(ctx context.Context) ([]*entity.Chat, error) {
	return r.filter(func(c *entity.Chat) bool {
		return c.Status == entity.ChatStatusActive && c.Settings.AutoArchive
	}), nil
}

func (r *ChatRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ChatStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if chat, ok := r.store.chats[id]; ok {
		chat.Status = status
		chat.UpdatedAt = time.Now()
	}
	return nil
}

func (r *ChatRepository) UpdateStatusByUser(ctx context.Context, userId uuid.UUID, status entity.ChatStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, chat := range r.store.chats {
		if chat.UserId == userId {
			chat.Status = status
			chat.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (r *ChatRepository) RecordActivity(ctx context.Context, id uuid.UUID, messages, tokens int, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if chat, ok := r.store.chats[id]; ok {
		chat.MessageCount += messages
		chat.TotalTokens += tokens
		chat.LastActivityAt = at
	}
	return nil
}

func (r *ChatRepository) filter(match func(*entity.Chat) bool) []*entity.Chat {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	chats := make([]*entity.Chat, 0)
	for _, c := range r.store.chats {
		if match(c) {
			chats = append(chats, copyChat(c))
		}
	}
	return chats
}

func sortMostRecentlyActive(chats []*entity.Chat) {
	sort.SliceStable(chats, func(i, j int) bool {
		if !chats[i].LastActivityAt.Equal(chats[j].LastActivityAt) {
			return chats[i].LastActivityAt.After(chats[j].LastActivityAt)
		}
		return chats[i].CreatedAt.After(chats[j].CreatedAt)
	})
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

type PromptRepository struct {
	store *Store
}

func NewPromptRepository(store *Store) contract.PromptRepository {
	return &PromptRepository{store: store}
}

func (r *PromptRepository) Create(ctx context.Context, prompt *entity.Prompt) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if prompt.Id == uuid.Nil {
		prompt.Id = uuid.New()
	}
	now := time.Now()
	if prompt.CreatedAt.IsZero() {
		prompt.CreatedAt = now
	}
	if prompt.UpdatedAt.IsZero() {
		prompt.UpdatedAt = now
	}
	r.store.prompts[prompt.Id] = copyPrompt(prompt)
	return nil
}

func (r *PromptRepository) Update(ctx context.Context, prompt *entity.Prompt) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.prompts[prompt.Id]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.store.prompts[prompt.Id] = copyPrompt(prompt)
	return nil
}

func (r *PromptRepository) FindById(ctx context.Context, chatId, promptId uuid.UUID) (*entity.Prompt, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.prompts[promptId]
	if !ok || p.ChatId != chatId {
		return nil, nil
	}
	return copyPrompt(p), nil
}

func (r *PromptRepository) FindByChat(ctx context.Context, chatId uuid.UUID, includeInactive bool) ([]*entity.Prompt, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	prompts := make([]*entity.Prompt, 0)
	for _, p := range r.store.prompts {
		if p.ChatId != chatId {
			continue
		}
		if !includeInactive && !p.IsActive() {
			continue
		}
		prompts = append(prompts, copyPrompt(p))
	}
	sort.SliceStable(prompts, func(i, j int) bool {
		if !prompts[i].CreatedAt.Equal(prompts[j].CreatedAt) {
			return prompts[i].CreatedAt.Before(prompts[j].CreatedAt)
		}
		return prompts[i].Id.String() < prompts[j].Id.String()
	})
	return prompts, nil
}

func (r *PromptRepository) FindFirstActive(ctx context.Context, chatId uuid.UUID) (*entity.Prompt, error) {
	prompts, _ := r.FindByChat(ctx, chatId, false)
	if len(prompts) == 0 {
		return nil, nil
	}
	return prompts[0], nil
}

package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) contract.UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user.Email = strings.ToLower(user.Email)
	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
		if user.GoogleId != nil && existing.GoogleId != nil && *existing.GoogleId == *user.GoogleId {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.store.users[user.Id] = copyUser(user)
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[user.Id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for id, existing := range r.store.users {
		if id == user.Id {
			continue
		}
		if user.GoogleId != nil && existing.GoogleId != nil && *existing.GoogleId == *user.GoogleId {
			return gorm.ErrDuplicatedKey
		}
	}
	user.UpdatedAt = time.Now()
	r.store.users[user.Id] = copyUser(user)
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.users, id)
	return nil
}

func (r *UserRepository) FindById(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Id == id }), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	email = strings.ToLower(email)
	return r.find(func(u *entity.User) bool { return u.Email == email }), nil
}

func (r *UserRepository) FindByGoogleId(ctx context.Context, googleId string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.GoogleId != nil && *u.GoogleId == googleId }), nil
}

func (r *UserRepository) FindByResetTokenHash(ctx context.Context, tokenHash string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool {
		return u.PasswordResetTokenHash != nil && *u.PasswordResetTokenHash == tokenHash
	}), nil
}

func (r *UserRepository) find(match func(*entity.User) bool) *entity.User {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if match(u) {
			return copyUser(u)
		}
	}
	return nil
}

type RefreshTokenRepository struct {
	store *Store
}

func NewRefreshTokenRepository(store *Store) contract.RefreshTokenRepository {
	return &RefreshTokenRepository{store: store}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token *entity.UserRefreshToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if token.Id == uuid.Nil {
		token.Id = uuid.New()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	c := *token
	r.store.refreshTokens[token.Id] = &c
	return nil
}

func (r *RefreshTokenRepository) FindByHash(ctx context.Context, userId uuid.UUID, tokenHash string) (*entity.UserRefreshToken, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, t := range r.store.refreshTokens {
		if t.UserId == userId && t.TokenHash == tokenHash {
			c := *t
			return &c, nil
		}
	}
	return nil, nil
}

func (r *RefreshTokenRepository) FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.UserRefreshToken, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	tokens := make([]*entity.UserRefreshToken, 0)
	for _, t := range r.store.refreshTokens {
		if t.UserId == userId {
			c := *t
			tokens = append(tokens, &c)
		}
	}
	sort.SliceStable(tokens, func(i, j int) bool {
		return tokens[i].CreatedAt.After(tokens[j].CreatedAt)
	})
	return tokens, nil
}

func (r *RefreshTokenRepository) DeleteByHash(ctx context.Context, userId uuid.UUID, tokenHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, t := range r.store.refreshTokens {
		if t.UserId == userId && t.TokenHash == tokenHash {
			delete(r.store.refreshTokens, id)
		}
	}
	return nil
}

func (r *RefreshTokenRepository) DeleteByIds(ctx context.Context, ids []uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, id := range ids {
		delete(r.store.refreshTokens, id)
	}
	return nil
}

func (r *RefreshTokenRepository) DeleteAllByUser(ctx context.Context, userId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, t := range r.store.refreshTokens {
		if t.UserId == userId {
			delete(r.store.refreshTokens, id)
		}
	}
	return nil
}

type UserImageRepository struct {
	store *Store
}

func NewUserImageRepository(store *Store) contract.UserImageRepository {
	return &UserImageRepository{store: store}
}

func (r *UserImageRepository) Create(ctx context.Context, image *entity.UserImage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if image.Id == uuid.Nil {
		image.Id = uuid.New()
	}
	if image.CreatedAt.IsZero() {
		image.CreatedAt = time.Now()
	}
	c := *image
	r.store.images[image.Id] = &c
	return nil
}

func (r *UserImageRepository) FindOwned(ctx context.Context, id, userId uuid.UUID) (*entity.UserImage, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	img, ok := r.store.images[id]
	if !ok || img.UserId != userId {
		return nil, nil
	}
	c := *img
	return &c, nil
}

func (r *UserImageRepository) FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.UserImage, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	images := make([]*entity.UserImage, 0)
	for _, img := range r.store.images {
		if img.UserId == userId {
			c := *img
			images = append(images, &c)
		}
	}
	sort.SliceStable(images, func(i, j int) bool {
		return images[i].CreatedAt.After(images[j].CreatedAt)
	})
	return images, nil
}

func (r *UserImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.images, id)
	return nil
}

func (r *UserImageRepository) DeleteAllByUser(ctx context.Context, userId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, img := range r.store.images {
		if img.UserId == userId {
			delete(r.store.images, id)
		}
	}
	return nil
}

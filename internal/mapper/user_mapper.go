package mapper

import (
	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:                     u.Id,
		FullName:               u.FullName,
		Email:                  u.Email,
		PasswordHash:           u.PasswordHash,
		Role:                   entity.UserRole(u.Role),
		Provider:               entity.AuthProvider(u.Provider),
		GoogleId:               u.GoogleId,
		AvatarURL:              u.AvatarURL,
		IsVerified:             u.IsVerified,
		LoginAttempts:          u.LoginAttempts,
		LockUntil:              u.LockUntil,
		PasswordResetTokenHash: u.PasswordResetTokenHash,
		PasswordResetExpires:   u.PasswordResetExpires,
		LastLoginAt:            u.LastLoginAt,
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:                     u.Id,
		FullName:               u.FullName,
		Email:                  u.Email,
		PasswordHash:           u.PasswordHash,
		Role:                   string(u.Role),
		Provider:               string(u.Provider),
		GoogleId:               u.GoogleId,
		AvatarURL:              u.AvatarURL,
		IsVerified:             u.IsVerified,
		LoginAttempts:          u.LoginAttempts,
		LockUntil:              u.LockUntil,
		PasswordResetTokenHash: u.PasswordResetTokenHash,
		PasswordResetExpires:   u.PasswordResetExpires,
		LastLoginAt:            u.LastLoginAt,
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
	}
}

func (m *UserMapper) ToEntities(users []*model.User) []*entity.User {
	entities := make([]*entity.User, len(users))
	for i, u := range users {
		entities[i] = m.ToEntity(u)
	}
	return entities
}

// Token Mappers

func (m *UserMapper) RefreshTokenToEntity(t *model.UserRefreshToken) *entity.UserRefreshToken {
	if t == nil {
		return nil
	}
	return &entity.UserRefreshToken{
		Id:        t.Id,
		UserId:    t.UserId,
		TokenHash: t.TokenHash,
		ExpiresAt: t.ExpiresAt,
		IpAddress: t.IpAddress,
		UserAgent: t.UserAgent,
		CreatedAt: t.CreatedAt,
	}
}

func (m *UserMapper) RefreshTokenToModel(t *entity.UserRefreshToken) *model.UserRefreshToken {
	if t == nil {
		return nil
	}
	return &model.UserRefreshToken{
		Id:        t.Id,
		UserId:    t.UserId,
		TokenHash: t.TokenHash,
		ExpiresAt: t.ExpiresAt,
		IpAddress: t.IpAddress,
		UserAgent: t.UserAgent,
		CreatedAt: t.CreatedAt,
	}
}

// Image Mappers

func (m *UserMapper) ImageToEntity(i *model.UserImage) *entity.UserImage {
	if i == nil {
		return nil
	}
	return &entity.UserImage{
		Id:         i.Id,
		UserId:     i.UserId,
		Prompt:     i.Prompt,
		URL:        i.URL,
		StorageKey: i.StorageKey,
		Width:      i.Width,
		Height:     i.Height,
		CreatedAt:  i.CreatedAt,
	}
}

func (m *UserMapper) ImageToModel(i *entity.UserImage) *model.UserImage {
	if i == nil {
		return nil
	}
	return &model.UserImage{
		Id:         i.Id,
		UserId:     i.UserId,
		Prompt:     i.Prompt,
		URL:        i.URL,
		StorageKey: i.StorageKey,
		Width:      i.Width,
		Height:     i.Height,
		CreatedAt:  i.CreatedAt,
	}
}

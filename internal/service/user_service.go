package service

import (
	"context"
	"strings"
	"time"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/apperror"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/repository/unitofwork"
	"ai-interview-be/pkg/events"
	"ai-interview-be/pkg/storage"

	"github.com/google/uuid"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	// DeleteProfile soft-deletes the user's chats and threads, drops tokens and
	// images, then removes the user row.
	DeleteProfile(ctx context.Context, userId uuid.UUID) error
}

type userService struct {
	uowFactory     unitofwork.RepositoryFactory
	objectStorage  storage.ObjectStorage
	eventPublisher events.Publisher
	logger         logger.ILogger
	now            func() time.Time
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, objectStorage storage.ObjectStorage, eventPublisher events.Publisher, log logger.ILogger) IUserService {
	return &userService{
		uowFactory:     uowFactory,
		objectStorage:  objectStorage,
		eventPublisher: eventPublisher,
		logger:         log,
		now:            time.Now,
	}
}

func (s *userService) findUser(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.User, error) {
	user, err := uow.UserRepository().FindById(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.findUser(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	res := toUserResponse(user)
	return &res, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.findUser(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.AvatarURL != nil {
		avatar := strings.TrimSpace(*req.AvatarURL)
		if avatar == "" {
			user.AvatarURL = nil
		} else {
			user.AvatarURL = &avatar
		}
	}
	user.UpdatedAt = s.now()

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}
	res := toUserResponse(user)
	return &res, nil
}

func (s *userService) DeleteProfile(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.findUser(ctx, uow, userId)
	if err != nil {
		return err
	}

	images, err := uow.UserImageRepository().FindAllByUser(ctx, userId)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatRepository().UpdateStatusByUser(ctx, userId, entity.ChatStatusDeleted); err != nil {
		return err
	}
	if err := uow.MessageRepository().SoftDeleteByUser(ctx, userId); err != nil {
		return err
	}
	if err := uow.RefreshTokenRepository().DeleteAllByUser(ctx, userId); err != nil {
		return err
	}
	if err := uow.UserImageRepository().DeleteAllByUser(ctx, userId); err != nil {
		return err
	}
	if err := uow.UserRepository().Delete(ctx, userId); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if s.objectStorage != nil {
		for _, img := range images {
			if img.StorageKey == "" {
				continue
			}
			if err := s.objectStorage.Delete(ctx, img.StorageKey); err != nil {
				s.logger.Warn("USER", "Failed to delete stored image", map[string]interface{}{
					"key":   img.StorageKey,
					"error": err.Error(),
				})
			}
		}
	}

	publishEvent(ctx, s.eventPublisher, s.logger, events.TypeUserDeleted, map[string]interface{}{
		"user_id": user.Id.String(),
		"email":   user.Email,
	})
	return nil
}

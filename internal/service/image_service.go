package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/apperror"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/repository/unitofwork"
	"ai-interview-be/pkg/replicate"
	"ai-interview-be/pkg/storage"

	"github.com/google/uuid"
)

const (
	defaultImageSize = 1024
	portraitSize     = 768
)

type ImageGenerator interface {
	GenerateImage(ctx context.Context, req replicate.ImageRequest) (*replicate.Image, error)
}

type IImageService interface {
	GenerateImage(ctx context.Context, userId uuid.UUID, req *dto.GenerateImageRequest) (*dto.ImageResponse, error)
	ListImages(ctx context.Context, userId uuid.UUID) ([]dto.ImageResponse, error)
	DeleteImage(ctx context.Context, userId, imageId uuid.UUID) error
	// GeneratePromptImage renders a portrait of the persona and stores it as the prompt image.
	GeneratePromptImage(ctx context.Context, chatId, userId, promptId uuid.UUID) (*dto.PromptResponse, error)
}

type imageService struct {
	uowFactory    unitofwork.RepositoryFactory
	generator     ImageGenerator
	objectStorage storage.ObjectStorage
	logger        logger.ILogger
	now           func() time.Time
}

// NewImageService accepts a nil storage, in which case generated images are
// served from the generator's own URL.
func NewImageService(uowFactory unitofwork.RepositoryFactory, generator ImageGenerator, objectStorage storage.ObjectStorage, log logger.ILogger) IImageService {
	return &imageService{
		uowFactory:    uowFactory,
		generator:     generator,
		objectStorage: objectStorage,
		logger:        log,
		now:           time.Now,
	}
}

func imageExtension(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0])) {
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	}
	return "png"
}

func (s *imageService) create(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, prompt string, width, height int) (*entity.UserImage, error) {
	if s.generator == nil {
		return nil, apperror.Unavailable("Image generation is not configured")
	}

	img, err := s.generator.GenerateImage(ctx, replicate.ImageRequest{Prompt: prompt, Width: width, Height: height})
	if err != nil {
		s.logger.Error("IMAGE", "Image generation failed", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
		return nil, apperror.Internal("Image generation failed", err)
	}

	imageId := uuid.New()
	url := img.SourceURL
	key := ""
	if s.objectStorage != nil {
		key = fmt.Sprintf("users/%s/images/%s.%s", userId, imageId, imageExtension(img.ContentType))
		url, err = s.objectStorage.Upload(ctx, key, img.Data, img.ContentType)
		if err != nil {
			return nil, apperror.Internal("Failed to store generated image", err)
		}
	}

	record := &entity.UserImage{
		Id:         imageId,
		UserId:     userId,
		Prompt:     prompt,
		URL:        url,
		StorageKey: key,
		Width:      width,
		Height:     height,
		CreatedAt:  s.now(),
	}
	if err := uow.UserImageRepository().Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *imageService) GenerateImage(ctx context.Context, userId uuid.UUID, req *dto.GenerateImageRequest) (*dto.ImageResponse, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, apperror.BadRequest("Prompt is required")
	}
	width, height := req.Width, req.Height
	if width == 0 {
		width = defaultImageSize
	}
	if height == 0 {
		height = defaultImageSize
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	record, err := s.create(ctx, uow, userId, prompt, width, height)
	if err != nil {
		return nil, err
	}
	res := toImageResponse(record)
	return &res, nil
}

func (s *imageService) ListImages(ctx context.Context, userId uuid.UUID) ([]dto.ImageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	images, err := uow.UserImageRepository().FindAllByUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	res := make([]dto.ImageResponse, 0, len(images))
	for _, img := range images {
		res = append(res, toImageResponse(img))
	}
	return res, nil
}

func (s *imageService) DeleteImage(ctx context.Context, userId, imageId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	img, err := uow.UserImageRepository().FindOwned(ctx, imageId, userId)
	if err != nil {
		return err
	}
	if img == nil {
		return apperror.NotFound("Image not found")
	}

	if s.objectStorage != nil && img.StorageKey != "" {
		if err := s.objectStorage.Delete(ctx, img.StorageKey); err != nil {
			s.logger.Warn("IMAGE", "Failed to delete stored image", map[string]interface{}{
				"key":   img.StorageKey,
				"error": err.Error(),
			})
		}
	}
	return uow.UserImageRepository().Delete(ctx, img.Id)
}

func portraitPrompt(p *entity.Prompt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Professional headshot portrait of %s, a %d-year-old", p.Profile.Name, p.Profile.Age)
	if p.Profile.Designation != "" {
		fmt.Fprintf(&b, " %s", p.Profile.Designation)
	} else {
		b.WriteString(" person")
	}
	b.WriteString(", friendly expression, neutral background, soft natural lighting, photorealistic")
	return b.String()
}

func (s *imageService) GeneratePromptImage(ctx context.Context, chatId, userId, promptId uuid.UUID) (*dto.PromptResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := findOwnedChat(ctx, uow, chatId, userId); err != nil {
		return nil, err
	}
	prompt, err := findPrompt(ctx, uow, chatId, promptId)
	if err != nil {
		return nil, err
	}

	record, err := s.create(ctx, uow, userId, portraitPrompt(prompt), portraitSize, portraitSize)
	if err != nil {
		return nil, err
	}

	prompt.ImageURL = record.URL
	prompt.UpdatedAt = s.now()
	if err := uow.PromptRepository().Update(ctx, prompt); err != nil {
		return nil, err
	}
	res := toPromptResponse(prompt)
	return &res, nil
}

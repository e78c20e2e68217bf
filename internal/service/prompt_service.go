package service

import (
	"context"
	"strings"
	"time"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/apperror"
	"ai-interview-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IPromptService interface {
	AddPrompt(ctx context.Context, chatId, userId uuid.UUID, req *dto.CreatePromptRequest) (*dto.PromptResponse, error)
	GetPrompts(ctx context.Context, chatId, userId uuid.UUID, includeInactive bool) ([]dto.PromptResponse, error)
	GetPromptById(ctx context.Context, chatId, userId, promptId uuid.UUID) (*dto.PromptResponse, error)
	UpdatePrompt(ctx context.Context, chatId, userId, promptId uuid.UUID, req *dto.UpdatePromptRequest) (*dto.PromptResponse, error)
	// DeletePrompt deactivates the prompt; deleting an inactive prompt succeeds.
	DeletePrompt(ctx context.Context, chatId, userId, promptId uuid.UUID) error
}

type promptService struct {
	uowFactory unitofwork.RepositoryFactory
	now        func() time.Time
}

func NewPromptService(uowFactory unitofwork.RepositoryFactory) IPromptService {
	return &promptService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

func findPrompt(ctx context.Context, uow unitofwork.UnitOfWork, chatId, promptId uuid.UUID) (*entity.Prompt, error) {
	prompt, err := uow.PromptRepository().FindById(ctx, chatId, promptId)
	if err != nil {
		return nil, err
	}
	if prompt == nil {
		return nil, apperror.NotFound("Prompt not found")
	}
	return prompt, nil
}

func validateAge(age int) error {
	if age < entity.MinPersonaAge || age > entity.MaxPersonaAge {
		return apperror.BadRequest("Age must be between 18 and 100")
	}
	return nil
}

func parseCategory(raw string) (entity.PromptCategory, error) {
	if raw == "" {
		return entity.PromptCategoryExplorative, nil
	}
	category := entity.PromptCategory(raw)
	if !category.Valid() {
		return "", apperror.BadRequest("Category must be evaluative or explorative")
	}
	return category, nil
}

func (s *promptService) AddPrompt(ctx context.Context, chatId, userId uuid.UUID, req *dto.CreatePromptRequest) (*dto.PromptResponse, error) {
	if err := validateAge(req.Profile.Age); err != nil {
		return nil, err
	}
	category, err := parseCategory(req.Category)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Profile.Name)
	if name == "" {
		return nil, apperror.BadRequest("Profile name is required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, err := findOwnedChat(ctx, uow, chatId, userId)
	if err != nil {
		return nil, err
	}

	now := s.now()
	prompt := &entity.Prompt{
		Id:     uuid.New(),
		ChatId: chat.Id,
		Profile: entity.PromptProfile{
			Name:              name,
			Designation:       strings.TrimSpace(req.Profile.Designation),
			Age:               req.Profile.Age,
			UniquePerspective: strings.TrimSpace(req.Profile.UniquePerspective),
		},
		Background: strings.TrimSpace(req.Background),
		Category:   category,
		ImageURL:   strings.TrimSpace(req.ImageURL),
		Status:     entity.PromptStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uow.PromptRepository().Create(ctx, prompt); err != nil {
		return nil, err
	}

	res := toPromptResponse(prompt)
	return &res, nil
}

func (s *promptService) GetPrompts(ctx context.Context, chatId, userId uuid.UUID, includeInactive bool) ([]dto.PromptResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := findOwnedChat(ctx, uow, chatId, userId); err != nil {
		return nil, err
	}
	prompts, err := uow.PromptRepository().FindByChat(ctx, chatId, includeInactive)
	if err != nil {
		return nil, err
	}
	return toPromptResponses(prompts), nil
}

func (s *promptService) GetPromptById(ctx context.Context, chatId, userId, promptId uuid.UUID) (*dto.PromptResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := findOwnedChat(ctx, uow, chatId, userId); err != nil {
		return nil, err
	}
	prompt, err := findPrompt(ctx, uow, chatId, promptId)
	if err != nil {
		return nil, err
	}
	res := toPromptResponse(prompt)
	return &res, nil
}

func (s *promptService) UpdatePrompt(ctx context.Context, chatId, userId, promptId uuid.UUID, req *dto.UpdatePromptRequest) (*dto.PromptResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := findOwnedChat(ctx, uow, chatId, userId); err != nil {
		return nil, err
	}
	prompt, err := findPrompt(ctx, uow, chatId, promptId)
	if err != nil {
		return nil, err
	}

	if p := req.Profile; p != nil {
		if p.Name != nil {
			name := strings.TrimSpace(*p.Name)
			if name == "" {
				return nil, apperror.BadRequest("Profile name is required")
			}
			prompt.Profile.Name = name
		}
		if p.Designation != nil {
			prompt.Profile.Designation = strings.TrimSpace(*p.Designation)
		}
		if p.Age != nil {
			if err := validateAge(*p.Age); err != nil {
				return nil, err
			}
			prompt.Profile.Age = *p.Age
		}
		if p.UniquePerspective != nil {
			prompt.Profile.UniquePerspective = strings.TrimSpace(*p.UniquePerspective)
		}
	}
	if req.Background != nil {
		prompt.Background = strings.TrimSpace(*req.Background)
	}
	if req.Category != nil {
		category, err := parseCategory(*req.Category)
		if err != nil {
			return nil, err
		}
		prompt.Category = category
	}
	if req.ImageURL != nil {
		prompt.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if req.IsActive != nil {
		if *req.IsActive {
			prompt.Status = entity.PromptStatusActive
		} else {
			prompt.Deactivate()
		}
	}
	prompt.UpdatedAt = s.now()

	if err := uow.PromptRepository().Update(ctx, prompt); err != nil {
		return nil, err
	}
	res := toPromptResponse(prompt)
	return &res, nil
}

func (s *promptService) DeletePrompt(ctx context.Context, chatId, userId, promptId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := findOwnedChat(ctx, uow, chatId, userId); err != nil {
		return err
	}
	prompt, err := findPrompt(ctx, uow, chatId, promptId)
	if err != nil {
		return err
	}
	if !prompt.IsActive() {
		return nil
	}
	prompt.Deactivate()
	prompt.UpdatedAt = s.now()
	return uow.PromptRepository().Update(ctx, prompt)
}

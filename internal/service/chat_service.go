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
	"ai-interview-be/internal/repository/contract"
	"ai-interview-be/internal/repository/unitofwork"
	"ai-interview-be/pkg/events"

	"github.com/google/uuid"
)

const (
	titleFromPromptLength = 50
	defaultDashboardDays  = 30
	maxDashboardDays      = 365
	recentChatsLimit      = 5
)

type IChatService interface {
	CreateChat(ctx context.Context, userId uuid.UUID, req *dto.CreateChatRequest) (*dto.ChatDetailResponse, error)
	GetUserChats(ctx context.Context, userId uuid.UUID, query dto.ChatListQuery) (*dto.ChatListResponse, error)
	GetChatById(ctx context.Context, chatId, userId uuid.UUID, includeMessages bool) (*dto.ChatDetailResponse, error)
	UpdateChat(ctx context.Context, chatId, userId uuid.UUID, req *dto.UpdateChatRequest) (*dto.ChatSummaryResponse, error)
	// DeleteChat marks the chat deleted, or removes it with everything it owns when permanent.
	DeleteChat(ctx context.Context, chatId, userId uuid.UUID, permanent bool) error
	GetChatStatistics(ctx context.Context, chatId, userId uuid.UUID) (*dto.ChatStatisticsResponse, error)
	ExportChat(ctx context.Context, chatId, userId uuid.UUID, format string) (*dto.ExportResult, error)
	GetDashboardData(ctx context.Context, userId uuid.UUID, days int) (*dto.DashboardResponse, error)
	ArchiveInactiveChats(ctx context.Context) (int, error)
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher events.Publisher
	logger         logger.ILogger
	now            func() time.Time
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, eventPublisher events.Publisher, log logger.ILogger) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         log,
		now:            time.Now,
	}
}

// findOwnedChat is shared by every chat-scoped service.
func findOwnedChat(ctx context.Context, uow unitofwork.UnitOfWork, chatId, userId uuid.UUID) (*entity.Chat, error) {
	chat, err := uow.ChatRepository().FindOwned(ctx, chatId, userId)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, apperror.NotFound("Chat not found")
	}
	return chat, nil
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func chatTitle(title, initialPrompt string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	if p := strings.TrimSpace(initialPrompt); p != "" {
		return truncate(p, titleFromPromptLength)
	}
	return entity.DefaultChatTitle
}

func (s *chatService) CreateChat(ctx context.Context, userId uuid.UUID, req *dto.CreateChatRequest) (*dto.ChatDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindById(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}

	now := s.now()
	chat := &entity.Chat{
		Id:             uuid.New(),
		UserId:         userId,
		Title:          chatTitle(req.Title, req.InitialPrompt),
		InitialPrompt:  strings.TrimSpace(req.InitialPrompt),
		Status:         entity.ChatStatusActive,
		Settings:       entity.DefaultChatSettings().Merge(req.Settings),
		Tags:           normalizeTags(req.Tags),
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uow.ChatRepository().Create(ctx, chat); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.eventPublisher, s.logger, events.TypeChatCreated, map[string]interface{}{
		"chat_id": chat.Id.String(),
		"user_id": userId.String(),
		"title":   chat.Title,
	})

	return &dto.ChatDetailResponse{
		ChatSummaryResponse: toChatSummary(chat),
		Prompts:             []dto.PromptResponse{},
	}, nil
}

func (s *chatService) GetUserChats(ctx context.Context, userId uuid.UUID, query dto.ChatListQuery) (*dto.ChatListResponse, error) {
	status := entity.ChatStatus(query.Status)
	if status == "" {
		status = entity.ChatStatusActive
	}
	if status == entity.ChatStatusDeleted || !status.Valid() {
		return nil, apperror.BadRequest("Invalid status filter")
	}
	page, limit := normalizePaging(query.Page, query.Limit)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	chats, total, err := uow.ChatRepository().FindAll(ctx, contract.ChatFilter{
		UserId: userId,
		Status: status,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	res := &dto.ChatListResponse{
		Chats:      make([]dto.ChatSummaryResponse, 0, len(chats)),
		Pagination: chatPagination(page, limit, total),
	}
	for _, c := range chats {
		res.Chats = append(res.Chats, toChatSummary(c))
	}
	return res, nil
}

func chatPagination(page, limit int, total int64) dto.ChatPagination {
	pages := totalPages(total, limit)
	return dto.ChatPagination{
		CurrentPage: page,
		TotalPages:  pages,
		TotalChats:  total,
		HasNext:     page < pages,
		HasPrev:     page > 1,
	}
}

func (s *chatService) GetChatById(ctx context.Context, chatId, userId uuid.UUID, includeMessages bool) (*dto.ChatDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, err := findOwnedChat(ctx, uow, chatId, userId)
	if err != nil {
		return nil, err
	}

	prompts, err := uow.PromptRepository().FindByChat(ctx, chatId, false)
	if err != nil {
		return nil, err
	}

	res := &dto.ChatDetailResponse{
		ChatSummaryResponse: toChatSummary(chat),
		Prompts:             toPromptResponses(prompts),
	}
	if includeMessages {
		messages, _, err := uow.MessageRepository().FindMessages(ctx, contract.MessageFilter{ChatId: chatId})
		if err != nil {
			return nil, err
		}
		res.Messages = toMessageResponses(messages)
	}
	return res, nil
}

func (s *chatService) UpdateChat(ctx context.Context, chatId, userId uuid.UUID, req *dto.UpdateChatRequest) (*dto.ChatSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, err := findOwnedChat(ctx, uow, chatId, userId)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperror.BadRequest("Title cannot be empty")
		}
		chat.Title = title
	}
	if req.InitialPrompt != nil {
		chat.InitialPrompt = strings.TrimSpace(*req.InitialPrompt)
	}
	if req.Settings != nil {
		chat.Settings = chat.Settings.Merge(req.Settings)
	}
	if req.Tags != nil {
		chat.Tags = normalizeTags(*req.Tags)
	}

	archived := false
	if req.Status != nil {
		next := entity.ChatStatus(*req.Status)
		if !chat.Status.CanTransitionTo(next) {
			return nil, apperror.BadRequest(fmt.Sprintf("Cannot change chat status from %s to %s", chat.Status, next))
		}
		archived = next == entity.ChatStatusArchived && chat.Status != next
		chat.Status = next
	}
	chat.UpdatedAt = s.now()

	if err := uow.ChatRepository().Update(ctx, chat); err != nil {
		return nil, err
	}

	if archived {
		publishEvent(ctx, s.eventPublisher, s.logger, events.TypeChatArchived, map[string]interface{}{
			"chat_id": chat.Id.String(),
			"user_id": userId.String(),
			"reason":  "manual",
		})
	}

	res := toChatSummary(chat)
	return &res, nil
}

func (s *chatService) DeleteChat(ctx context.Context, chatId, userId uuid.UUID, permanent bool) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if permanent {
		chat, err := uow.ChatRepository().FindOwnedIncludingDeleted(ctx, chatId, userId)
		if err != nil {
			return err
		}
		if chat == nil {
			return apperror.NotFound("Chat not found")
		}
		return uow.ChatRepository().Delete(ctx, chatId)
	}
	if _, err := findOwnedChat(ctx, uow, chatId, userId); err != nil {
		return err
	}
	return uow.ChatRepository().UpdateStatus(ctx, chatId, entity.ChatStatusDeleted)
}

func (s *chatService) GetChatStatistics(ctx context.Context, chatId, userId uuid.UUID) (*dto.ChatStatisticsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, err := findOwnedChat(ctx, uow, chatId, userId)
	if err != nil {
		return nil, err
	}

	messages, _, err := uow.MessageRepository().FindMessages(ctx, contract.MessageFilter{ChatId: chatId})
	if err != nil {
		return nil, err
	}
	prompts, err := uow.PromptRepository().FindByChat(ctx, chatId, true)
	if err != nil {
		return nil, err
	}

	stats := computeMessageStats(messages)
	active := 0
	for _, p := range prompts {
		if p.IsActive() {
			active++
		}
	}

	return &dto.ChatStatisticsResponse{
		ChatId:              chat.Id,
		TotalMessages:       stats.TotalMessages,
		MessagesByRole:      stats.MessagesByRole,
		TotalTokens:         stats.TotalTokens,
		AverageResponseTime: stats.AverageResponseTime,
		PromptCount:         len(prompts),
		ActivePromptCount:   active,
		CreatedAt:           chat.CreatedAt,
		LastActivityAt:      chat.LastActivityAt,
	}, nil
}

func (s *chatService) ExportChat(ctx context.Context, chatId, userId uuid.UUID, format string) (*dto.ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "", ExportFormatJSON, ExportFormatTXT, ExportFormatCSV:
	default:
		return nil, apperror.BadRequest("Unsupported export format. Use json, txt or csv")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, err := findOwnedChat(ctx, uow, chatId, userId)
	if err != nil {
		return nil, err
	}
	prompts, err := uow.PromptRepository().FindByChat(ctx, chatId, true)
	if err != nil {
		return nil, err
	}
	messages, _, err := uow.MessageRepository().FindMessages(ctx, contract.MessageFilter{ChatId: chatId})
	if err != nil {
		return nil, err
	}

	body, contentType, err := renderExport(format, chat, prompts, messages, s.now())
	if err != nil {
		return nil, apperror.Internal("Failed to export chat", err)
	}
	return &dto.ExportResult{
		Filename:    exportFilename(chat, format),
		ContentType: contentType,
		Body:        body,
	}, nil
}

func (s *chatService) GetDashboardData(ctx context.Context, userId uuid.UUID, days int) (*dto.DashboardResponse, error) {
	if days <= 0 {
		days = defaultDashboardDays
	}
	if days > maxDashboardDays {
		days = maxDashboardDays
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	since := s.now().AddDate(0, 0, -days)
	chats, err := uow.ChatRepository().FindCreatedSince(ctx, userId, since)
	if err != nil {
		return nil, err
	}

	res := &dto.DashboardResponse{Days: days, RecentChats: []dto.RecentChat{}}
	for _, c := range chats {
		res.Summary.TotalChats++
		res.Summary.TotalMessages += c.MessageCount
		res.Summary.TotalTokens += c.TotalTokens
		if c.Status == entity.ChatStatusActive {
			res.Summary.ActiveChats++
		}
	}

	recent, err := uow.ChatRepository().FindRecentlyActive(ctx, userId, recentChatsLimit)
	if err != nil {
		return nil, err
	}
	for _, c := range recent {
		res.RecentChats = append(res.RecentChats, dto.RecentChat{
			Id:             c.Id,
			Title:          c.Title,
			LastActivityAt: c.LastActivityAt,
			MessageCount:   c.MessageCount,
		})
	}
	return res, nil
}

func (s *chatService) ArchiveInactiveChats(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	candidates, err := uow.ChatRepository().FindAutoArchiveCandidates(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	archived := 0
	for _, chat := range candidates {
		if !chat.ShouldAutoArchive(now) {
			continue
		}
		if err := uow.ChatRepository().UpdateStatus(ctx, chat.Id, entity.ChatStatusArchived); err != nil {
			return archived, err
		}
		archived++
		publishEvent(ctx, s.eventPublisher, s.logger, events.TypeChatArchived, map[string]interface{}{
			"chat_id": chat.Id.String(),
			"user_id": chat.UserId.String(),
			"reason":  "inactivity",
		})
	}

	s.logger.Info("CHAT", "Archive sweep finished", map[string]interface{}{
		"candidates": len(candidates),
		"archived":   archived,
	})
	return archived, nil
}

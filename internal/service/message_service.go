package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/apperror"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/repository/contract"
	"ai-interview-be/internal/repository/unitofwork"
	"ai-interview-be/pkg/events"
	"ai-interview-be/pkg/llm"
	"ai-interview-be/pkg/llm/mock"

	"github.com/google/uuid"
)

const (
	maxMessageLength    = 10000
	defaultMessageLimit = 50
	maxMessageLimit     = 200
)

type MessageOptions struct {
	ReplyEnabled  bool
	Timeout       time.Duration
	HistoryWindow int
}

type IMessageService interface {
	// SendMessage stores the user's entry, then tries to append an AI reply.
	// A failed reply never fails the call.
	SendMessage(ctx context.Context, chatId, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	AddMessage(ctx context.Context, chatId, userId uuid.UUID, req *dto.AddMessageRequest) (*dto.MessageResponse, error)
	GetMessages(ctx context.Context, chatId, userId uuid.UUID, query dto.MessageListQuery) (*dto.MessageListResponse, error)
	SearchMessages(ctx context.Context, chatId, userId uuid.UUID, query dto.MessageSearchQuery) (*dto.MessageSearchResponse, error)
	DeleteThread(ctx context.Context, chatId, userId, promptId uuid.UUID) error
}

type messageService struct {
	uowFactory     unitofwork.RepositoryFactory
	llmProvider    llm.LLMProvider
	fallback       llm.LLMProvider
	eventPublisher events.Publisher
	logger         logger.ILogger
	opts           MessageOptions
	now            func() time.Time
}

// NewMessageService accepts a nil provider; replies then come from the mock model.
func NewMessageService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	eventPublisher events.Publisher,
	log logger.ILogger,
	opts MessageOptions,
) IMessageService {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &messageService{
		uowFactory:     uowFactory,
		llmProvider:    llmProvider,
		fallback:       mock.NewMockProvider(),
		eventPublisher: eventPublisher,
		logger:         log,
		opts:           opts,
		now:            time.Now,
	}
}

func parseOptionalUUID(raw, field string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.BadRequest("Invalid " + field)
	}
	return &id, nil
}

func (s *messageService) SendMessage(ctx context.Context, chatId, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	content := strings.TrimSpace(string(req.Message))
	if content == "" {
		return nil, apperror.BadRequest("Message content is required")
	}
	if utf8.RuneCountInString(content) > maxMessageLength {
		return nil, apperror.BadRequest("Message is too long")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, err := findOwnedChat(ctx, uow, chatId, userId)
	if err != nil {
		return nil, err
	}
	if chat.IsArchived() {
		return nil, apperror.BadRequest("Cannot send messages to an archived chat")
	}
	if chat.ReachedMessageLimit() {
		return nil, apperror.BadRequest("Chat has reached the maximum number of messages")
	}

	prompt, err := s.resolvePrompt(ctx, uow, chat, req.PromptId, true)
	if err != nil {
		return nil, err
	}

	userMessage, err := s.appendMessage(ctx, uow, chat, prompt, userId, entity.MessageRoleUser, content, entity.MessageMetadata{})
	if err != nil {
		return nil, err
	}

	res := &dto.SendMessageResponse{
		PromptId:     prompt.Id,
		UserMessage:  toMessageResponse(userMessage),
		MessageCount: chat.MessageCount + 1,
	}

	// chat.MessageCount still holds the count before the user message
	if s.opts.ReplyEnabled && !chat.HasRoomFor(2) {
		s.logger.Info("MESSAGE", "Skipping reply, chat is at its message limit", map[string]interface{}{
			"chat_id":      chat.Id.String(),
			"max_messages": chat.Settings.MaxMessages,
		})
	} else if s.opts.ReplyEnabled {
		if reply := s.reply(ctx, uow, chat, prompt, userId); reply != nil {
			r := toMessageResponse(reply)
			res.AssistantMessage = &r
			res.MessageCount++
		}
	}

	publishEvent(ctx, s.eventPublisher, s.logger, events.TypeMessageSent, map[string]interface{}{
		"chat_id":   chat.Id.String(),
		"user_id":   userId.String(),
		"prompt_id": prompt.Id.String(),
		"replied":   res.AssistantMessage != nil,
	})

	return res, nil
}

// resolvePrompt picks the explicit prompt, else the first active one. With
// createDefault it opens the general conversation prompt on an empty chat.
func (s *messageService) resolvePrompt(ctx context.Context, uow unitofwork.UnitOfWork, chat *entity.Chat, promptId *uuid.UUID, createDefault bool) (*entity.Prompt, error) {
	if promptId != nil {
		prompt, err := findPrompt(ctx, uow, chat.Id, *promptId)
		if err != nil {
			return nil, err
		}
		if !prompt.IsActive() {
			return nil, apperror.BadRequest("Prompt is inactive")
		}
		return prompt, nil
	}

	prompt, err := uow.PromptRepository().FindFirstActive(ctx, chat.Id)
	if err != nil {
		return nil, err
	}
	if prompt != nil {
		return prompt, nil
	}
	if !createDefault {
		return nil, apperror.BadRequest("No active prompt found. Provide a promptId")
	}

	prompt = entity.NewDefaultPrompt(chat.Id, s.now())
	if err := uow.PromptRepository().Create(ctx, prompt); err != nil {
		return nil, err
	}
	s.logger.Info("MESSAGE", "Created default prompt", map[string]interface{}{
		"chat_id":   chat.Id.String(),
		"prompt_id": prompt.Id.String(),
	})
	return prompt, nil
}

func (s *messageService) ensureThread(ctx context.Context, uow unitofwork.UnitOfWork, chatId, promptId, userId uuid.UUID) (*entity.MessageThread, error) {
	thread, err := uow.MessageRepository().FindActiveThread(ctx, chatId, promptId)
	if err != nil {
		return nil, err
	}
	if thread != nil {
		return thread, nil
	}

	now := s.now()
	thread = &entity.MessageThread{
		Id:        uuid.New(),
		ChatId:    chatId,
		PromptId:  promptId,
		UserId:    userId,
		Status:    entity.ThreadStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uow.MessageRepository().CreateThread(ctx, thread); err != nil {
		return nil, err
	}
	return thread, nil
}

func (s *messageService) appendMessage(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	chat *entity.Chat,
	prompt *entity.Prompt,
	userId uuid.UUID,
	role entity.MessageRole,
	content string,
	metadata entity.MessageMetadata,
) (*entity.Message, error) {
	thread, err := s.ensureThread(ctx, uow, chat.Id, prompt.Id, userId)
	if err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	now := s.now()
	message := &entity.Message{
		Id:        uuid.New(),
		ThreadId:  thread.Id,
		ChatId:    chat.Id,
		PromptId:  prompt.Id,
		Role:      role,
		Content:   content,
		Metadata:  metadata,
		CreatedAt: now,
	}
	if err := uow.MessageRepository().Append(ctx, message); err != nil {
		return nil, err
	}
	if err := uow.ChatRepository().RecordActivity(ctx, chat.Id, 1, metadata.TokenCount, now); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *messageService) reply(ctx context.Context, uow unitofwork.UnitOfWork, chat *entity.Chat, prompt *entity.Prompt, userId uuid.UUID) *entity.Message {
	messages, _, err := uow.MessageRepository().FindMessages(ctx, contract.MessageFilter{
		ChatId:   chat.Id,
		PromptId: &prompt.Id,
	})
	if err != nil {
		s.logger.Error("MESSAGE", "Failed to load history for reply", map[string]interface{}{
			"chat_id": chat.Id.String(),
			"error":   err.Error(),
		})
		return nil
	}

	history := historyForModel(messages, s.opts.HistoryWindow)
	instruction := personaInstruction(chat, prompt)

	start := s.now()
	completion := s.complete(ctx, history, instruction)
	elapsed := s.now().Sub(start)

	message, err := s.appendMessage(ctx, uow, chat, prompt, userId, entity.MessageRoleAssistant, completion.Text, entity.MessageMetadata{
		TokenCount:       completion.TokenCount,
		ProcessingTimeMs: elapsed.Milliseconds(),
		Model:            completion.Model,
	})
	if err != nil {
		s.logger.Error("MESSAGE", "Failed to store AI reply", map[string]interface{}{
			"chat_id": chat.Id.String(),
			"error":   err.Error(),
		})
		return nil
	}
	return message
}

// complete asks the configured model and falls back to the mock on any failure.
func (s *messageService) complete(ctx context.Context, history []llm.Message, instruction string) *llm.Completion {
	if s.llmProvider != nil {
		callCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
		completion, err := s.llmProvider.Chat(callCtx, history, llm.WithSystemPrompt(instruction))
		cancel()
		if err == nil && completion != nil && strings.TrimSpace(completion.Text) != "" {
			return completion
		}
		details := map[string]interface{}{"timeout": s.opts.Timeout.String()}
		if err != nil {
			details["error"] = err.Error()
		}
		s.logger.Warn("MESSAGE", "AI provider failed, using fallback reply", details)
	}

	completion, _ := s.fallback.Chat(ctx, history, llm.WithSystemPrompt(instruction))
	return completion
}

func (s *messageService) AddMessage(ctx context.Context, chatId, userId uuid.UUID, req *dto.AddMessageRequest) (*dto.MessageResponse, error) {
	role := entity.MessageRole(strings.ToLower(strings.TrimSpace(req.Role)))
	if !role.Valid() {
		return nil, apperror.BadRequest("Invalid message role")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperror.BadRequest("Message content is required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, err := findOwnedChat(ctx, uow, chatId, userId)
	if err != nil {
		return nil, err
	}
	prompt, err := s.resolvePrompt(ctx, uow, chat, req.PromptId, false)
	if err != nil {
		return nil, err
	}

	var metadata entity.MessageMetadata
	if req.Metadata != nil {
		metadata = *req.Metadata
	}
	message, err := s.appendMessage(ctx, uow, chat, prompt, userId, role, content, metadata)
	if err != nil {
		return nil, err
	}
	res := toMessageResponse(message)
	return &res, nil
}

func (s *messageService) GetMessages(ctx context.Context, chatId, userId uuid.UUID, query dto.MessageListQuery) (*dto.MessageListResponse, error) {
	promptId, err := parseOptionalUUID(query.PromptId, "promptId")
	if err != nil {
		return nil, err
	}
	page, limit := query.Page, query.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := findOwnedChat(ctx, uow, chatId, userId); err != nil {
		return nil, err
	}

	messages, total, err := uow.MessageRepository().FindMessages(ctx, contract.MessageFilter{
		ChatId:   chatId,
		PromptId: promptId,
		Offset:   (page - 1) * limit,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}

	pages := totalPages(total, limit)
	return &dto.MessageListResponse{
		Messages: toMessageResponses(messages),
		Pagination: dto.MessagePagination{
			CurrentPage:   page,
			TotalPages:    pages,
			TotalMessages: total,
			HasNext:       page < pages,
			HasPrev:       page > 1,
		},
	}, nil
}

func (s *messageService) SearchMessages(ctx context.Context, chatId, userId uuid.UUID, query dto.MessageSearchQuery) (*dto.MessageSearchResponse, error) {
	needle := strings.ToLower(strings.TrimSpace(query.Query))
	if needle == "" {
		return nil, apperror.BadRequest("Search query is required")
	}
	promptId, err := parseOptionalUUID(query.PromptId, "promptId")
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := findOwnedChat(ctx, uow, chatId, userId); err != nil {
		return nil, err
	}

	messages, _, err := uow.MessageRepository().FindMessages(ctx, contract.MessageFilter{
		ChatId:   chatId,
		PromptId: promptId,
	})
	if err != nil {
		return nil, err
	}

	results := make([]dto.MessageResponse, 0)
	for _, m := range messages {
		if strings.Contains(strings.ToLower(m.Content), needle) {
			results = append(results, toMessageResponse(m))
		}
	}
	return &dto.MessageSearchResponse{
		Query:   query.Query,
		Results: results,
		Total:   len(results),
	}, nil
}

func (s *messageService) DeleteThread(ctx context.Context, chatId, userId, promptId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := findOwnedChat(ctx, uow, chatId, userId); err != nil {
		return err
	}
	thread, err := uow.MessageRepository().FindActiveThread(ctx, chatId, promptId)
	if err != nil {
		return err
	}
	if thread == nil {
		return apperror.NotFound("Message thread not found")
	}
	return uow.MessageRepository().SoftDeleteThread(ctx, thread.Id)
}

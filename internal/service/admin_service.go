package service

import (
	"context"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/pkg/apperror"
	"ai-interview-be/internal/pkg/logger"
)

const defaultLogLimit = 100

type IAdminService interface {
	ArchiveInactiveChats(ctx context.Context) (*dto.ArchiveSweepResponse, error)
	GetSystemLogs(ctx context.Context, query dto.LogListQuery) ([]logger.LogEntry, error)
	GetLogDetail(ctx context.Context, logId string) (*logger.LogEntry, error)
}

type adminService struct {
	chatService IChatService
	logger      logger.ILogger
}

func NewAdminService(chatService IChatService, log logger.ILogger) IAdminService {
	return &adminService{
		chatService: chatService,
		logger:      log,
	}
}

func (s *adminService) ArchiveInactiveChats(ctx context.Context) (*dto.ArchiveSweepResponse, error) {
	archived, err := s.chatService.ArchiveInactiveChats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ArchiveSweepResponse{Archived: archived}, nil
}

func (s *adminService) GetSystemLogs(ctx context.Context, query dto.LogListQuery) ([]logger.LogEntry, error) {
	page, limit := query.Page, query.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLogLimit
	}
	entries, err := s.logger.GetLogs(logger.LogFilter{
		Level:  query.Level,
		Module: query.Module,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, apperror.Internal("Failed to read logs", err)
	}
	return entries, nil
}

func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*logger.LogEntry, error) {
	entry, err := s.logger.GetLogById(logId)
	if err != nil {
		return nil, apperror.Internal("Failed to read logs", err)
	}
	if entry == nil {
		return nil, apperror.NotFound("Log entry not found")
	}
	return entry, nil
}

package service

import (
	"context"

	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/pkg/events"
)

const activityConsumerName = "activity-log"

type IActivityService interface {
	Consume(ctx context.Context) error
}

// activityService records every domain event in the application log, which the
// admin log viewer reads back.
type activityService struct {
	subscriber events.Subscriber
	logger     logger.ILogger
}

func NewActivityService(subscriber events.Subscriber, log logger.ILogger) IActivityService {
	return &activityService{
		subscriber: subscriber,
		logger:     log,
	}
}

func (s *activityService) Consume(ctx context.Context) error {
	return s.subscriber.Subscribe(ctx, events.AllSubjects, activityConsumerName, s.handle)
}

func (s *activityService) handle(ctx context.Context, event events.Event) error {
	details := map[string]interface{}{
		"event":       event.EventType(),
		"occurred_at": event.Timestamp(),
	}
	for k, v := range event.Payload() {
		details[k] = v
	}
	s.logger.Info("ACTIVITY", "Domain event received", details)
	return nil
}

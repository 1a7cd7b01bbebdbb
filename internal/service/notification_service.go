package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusops/course-reg-api/pkg/config"
	"github.com/campusops/course-reg-api/pkg/jobs"
)

// NotificationSender is the external delivery collaborator. The core treats
// delivery as fire-and-forget; transport lives behind this interface.
type NotificationSender interface {
	Send(ctx context.Context, userIDs []string, title, message string) error
}

// LogSender logs deliveries instead of sending them. Used in development and
// as the fallback when no transport is configured.
type LogSender struct {
	Logger *zap.Logger
}

// Send implements NotificationSender.
func (s *LogSender) Send(_ context.Context, userIDs []string, title, message string) error {
	s.Logger.Sugar().Infow("notification delivered", "recipients", len(userIDs), "title", title, "message", message)
	return nil
}

type notificationPayload struct {
	UserIDs []string
	Title   string
	Message string
}

// NotificationService fans schedule-change messages out to students through a
// bounded background queue. Failures are logged, never bubbled to the caller.
type NotificationService struct {
	queue   *jobs.Queue
	sender  NotificationSender
	enabled bool
	logger  *zap.Logger
}

// NewNotificationService builds the queue-backed dispatcher.
func NewNotificationService(sender NotificationSender, cfg config.NotificationsConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sender == nil {
		sender = &LogSender{Logger: logger}
	}
	s := &NotificationService{sender: sender, enabled: cfg.Enabled, logger: logger}
	s.queue = jobs.NewQueue("notifications", s.deliver, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start begins queue consumption.
func (s *NotificationService) Start(ctx context.Context) {
	if s.enabled {
		s.queue.Start(ctx)
	}
}

// Stop drains the workers.
func (s *NotificationService) Stop() {
	if s.enabled {
		s.queue.Stop()
	}
}

// Notify enqueues one message for the given recipients.
func (s *NotificationService) Notify(_ context.Context, userIDs []string, title, message string) error {
	if !s.enabled {
		s.logger.Sugar().Debugw("notifications disabled, dropping message", "title", title)
		return nil
	}
	if len(userIDs) == 0 {
		return nil
	}
	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    "schedule_change",
		Payload: notificationPayload{UserIDs: userIDs, Title: title, Message: message},
	}
	if err := s.queue.Enqueue(job); err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}

func (s *NotificationService) deliver(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(notificationPayload)
	if !ok {
		s.logger.Sugar().Errorw("invalid notification payload", "job_id", job.ID)
		return nil
	}
	return s.sender.Send(ctx, payload.UserIDs, payload.Title, payload.Message)
}

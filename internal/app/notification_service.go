package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/primary"
	"github.com/example/blotter/internal/ports/secondary"
)

// defaultSmsBatch bounds ListPendingSms when the caller gives no limit.
const defaultSmsBatch = 50

// NotificationServiceImpl implements the NotificationService interface.
type NotificationServiceImpl struct {
	rt            Runtime
	notifications secondary.NotificationRepository
	sms           secondary.SmsRepository
}

// NewNotificationService creates a new NotificationService with injected dependencies.
func NewNotificationService(rt Runtime, notifications secondary.NotificationRepository, sms secondary.SmsRepository) *NotificationServiceImpl {
	return &NotificationServiceImpl{rt: rt, notifications: notifications, sms: sms}
}

var _ primary.NotificationService = (*NotificationServiceImpl)(nil)

// ListForUser lists a user's notifications, newest first.
func (s *NotificationServiceImpl) ListForUser(ctx context.Context, userID int64, unreadOnly bool) ([]*models.Notification, error) {
	return s.notifications.ListByUser(ctx, userID, unreadOnly)
}

// MarkRead marks one notification read.
func (s *NotificationServiceImpl) MarkRead(ctx context.Context, notificationID int64) error {
	return s.notifications.MarkRead(ctx, notificationID)
}

// MarkAllRead marks every unread notification of a user read and returns how many changed.
func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, userID int64) (int, error) {
	return s.notifications.MarkAllRead(ctx, userID)
}

// CountUnread counts a user's unread notifications.
func (s *NotificationServiceImpl) CountUnread(ctx context.Context, userID int64) (int, error) {
	return s.notifications.CountUnread(ctx, userID)
}

// QueueSms places a message on the outbound queue in Pending.
func (s *NotificationServiceImpl) QueueSms(ctx context.Context, msg *models.SmsNotification) (*models.SmsNotification, error) {
	msg.DeliveryStatus = models.SmsPending
	msg.SentAt = nil
	if err := msg.Validate(); err != nil {
		return nil, s.rt.rejected("sms", err)
	}
	if err := s.sms.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to queue sms: %w", err)
	}
	s.rt.Metrics.IncEffect("sms")
	return msg, nil
}

// ListPendingSms lists queued messages oldest first.
func (s *NotificationServiceImpl) ListPendingSms(ctx context.Context, limit int) ([]*models.SmsNotification, error) {
	if limit <= 0 {
		limit = defaultSmsBatch
	}
	return s.sms.ListPending(ctx, limit)
}

// ListSmsForCase lists the messages queued for a case.
func (s *NotificationServiceImpl) ListSmsForCase(ctx context.Context, caseID int64) ([]*models.SmsNotification, error) {
	return s.sms.ListByCase(ctx, caseID)
}

// MarkSmsSent records that the gateway accepted a message.
func (s *NotificationServiceImpl) MarkSmsSent(ctx context.Context, smsID int64, at time.Time) error {
	if at.IsZero() {
		at = s.rt.now()
	}
	return s.sms.MarkSent(ctx, smsID, at)
}

// MarkSmsFailed records that the gateway rejected a message.
func (s *NotificationServiceImpl) MarkSmsFailed(ctx context.Context, smsID int64) error {
	return s.sms.MarkFailed(ctx, smsID)
}

// RecordSmsReply stores the recipient's reply to a message.
func (s *NotificationServiceImpl) RecordSmsReply(ctx context.Context, smsID int64, message string, at time.Time) error {
	if at.IsZero() {
		at = s.rt.now()
	}
	if err := s.sms.RecordReply(ctx, smsID, message, at); err != nil {
		return err
	}
	s.rt.logger().Info("sms reply recorded", "sms_id", smsID)
	return nil
}

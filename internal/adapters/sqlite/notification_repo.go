package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/blotter/internal/models"
)

const (
	notificationColumns = "id, userId, blotterReportId, title, message, type, isRead, createdAt"
	smsColumns          = "id, blotterReportId, recipientNumber, recipientName, message, deliveryStatus, sentAt, replyMessage, replyReceivedAt, createdAt"
)

// NotificationRepository implements secondary.NotificationRepository with SQLite.
type NotificationRepository struct {
	base
}

func scanNotification(s scanner) (*models.Notification, error) {
	var n models.Notification
	var caseID sql.NullInt64
	if err := s.Scan(&n.ID, &n.UserID, &caseID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
		return nil, err
	}
	n.CaseID = idPtr(caseID)
	n.CreatedAt = n.CreatedAt.UTC()
	return &n, nil
}

// Create persists a notification intent.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	now := r.now()
	res, err := r.conn(ctx).ExecContext(ctx,
		"INSERT INTO notifications (userId, blotterReportId, title, message, type, isRead, createdAt) VALUES (?, ?, ?, ?, ?, ?, ?)",
		n.UserID, nullID(n.CaseID), n.Title, n.Message, n.Type, n.IsRead, now)
	if err != nil {
		return mapErr("notification", "create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get notification id: %w", err)
	}
	n.ID, n.CreatedAt = id, now
	r.touched(ctx, "notifications")
	return nil
}

// ListByUser lists a user's notifications, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, unreadOnly bool) ([]*models.Notification, error) {
	query := "SELECT " + notificationColumns + " FROM notifications WHERE userId = ?"
	if unreadOnly {
		query += " AND isRead = 0"
	}
	rows, err := r.conn(ctx).QueryContext(ctx, query+" ORDER BY createdAt DESC, id DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return collect(rows, scanNotification)
}

// MarkRead flags one notification as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) error {
	res, err := r.conn(ctx).ExecContext(ctx, "UPDATE notifications SET isRead = 1 WHERE id = ?", id)
	if err != nil {
		return mapErr("notification", "update", err)
	}
	if err := requireAffected("notification", id, res); err != nil {
		return err
	}
	r.touched(ctx, "notifications")
	return nil
}

// MarkAllRead flags every unread notification of a user and returns how many changed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int, error) {
	res, err := r.conn(ctx).ExecContext(ctx, "UPDATE notifications SET isRead = 1 WHERE userId = ? AND isRead = 0", userID)
	if err != nil {
		return 0, mapErr("notification", "update", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count updated notifications: %w", err)
	}
	if n > 0 {
		r.touched(ctx, "notifications")
	}
	return int(n), nil
}

// CountUnread counts a user's unread notifications.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := r.conn(ctx).QueryRowContext(ctx, "SELECT COUNT(*) FROM notifications WHERE userId = ? AND isRead = 0", userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return n, nil
}

// SmsRepository implements secondary.SmsRepository with SQLite.
type SmsRepository struct {
	base
}

func scanSms(s scanner) (*models.SmsNotification, error) {
	var (
		m       models.SmsNotification
		caseID  sql.NullInt64
		status  string
		sentAt  sql.NullTime
		replyAt sql.NullTime
	)
	if err := s.Scan(&m.ID, &caseID, &m.RecipientNumber, &m.RecipientName, &m.Message, &status, &sentAt, &m.ReplyMessage, &replyAt, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.CaseID = idPtr(caseID)
	m.DeliveryStatus = models.SmsStatus(status)
	m.SentAt = timePtr(sentAt)
	m.ReplyReceivedAt = timePtr(replyAt)
	m.CreatedAt = m.CreatedAt.UTC()
	return &m, nil
}

// Create queues a text message. Status defaults to Pending.
func (r *SmsRepository) Create(ctx context.Context, m *models.SmsNotification) error {
	if m.DeliveryStatus == "" {
		m.DeliveryStatus = models.SmsPending
	}
	now := r.now()
	res, err := r.conn(ctx).ExecContext(ctx,
		"INSERT INTO sms_notifications (blotterReportId, recipientNumber, recipientName, message, deliveryStatus, sentAt, replyMessage, replyReceivedAt, createdAt) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		nullID(m.CaseID), m.RecipientNumber, m.RecipientName, m.Message, string(m.DeliveryStatus), nullTime(m.SentAt), m.ReplyMessage, nullTime(m.ReplyReceivedAt), now)
	if err != nil {
		return mapErr("sms notification", "create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get sms notification id: %w", err)
	}
	m.ID, m.CreatedAt = id, now
	r.touched(ctx, "sms_notifications")
	return nil
}

// GetByID retrieves a queued message.
func (r *SmsRepository) GetByID(ctx context.Context, id int64) (*models.SmsNotification, error) {
	m, err := scanSms(r.conn(ctx).QueryRowContext(ctx, "SELECT "+smsColumns+" FROM sms_notifications WHERE id = ?", id))
	if err != nil {
		return nil, rowErr("sms notification", id, err)
	}
	return m, nil
}

// ListPending returns messages awaiting dispatch, oldest first.
func (r *SmsRepository) ListPending(ctx context.Context, limit int) ([]*models.SmsNotification, error) {
	rows, err := r.conn(ctx).QueryContext(ctx,
		"SELECT "+smsColumns+" FROM sms_notifications WHERE deliveryStatus = ? ORDER BY createdAt, id"+limitClause(limit),
		string(models.SmsPending))
	if err != nil {
		return nil, fmt.Errorf("failed to list pending sms: %w", err)
	}
	return collect(rows, scanSms)
}

// ListByCase lists messages queued for a case, newest first.
func (r *SmsRepository) ListByCase(ctx context.Context, caseID int64) ([]*models.SmsNotification, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, "SELECT "+smsColumns+" FROM sms_notifications WHERE blotterReportId = ? ORDER BY createdAt DESC, id DESC", caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sms: %w", err)
	}
	return collect(rows, scanSms)
}

// MarkSent records a successful dispatch.
func (r *SmsRepository) MarkSent(ctx context.Context, id int64, at time.Time) error {
	return r.update(ctx, id, "UPDATE sms_notifications SET deliveryStatus = ?, sentAt = ? WHERE id = ?", string(models.SmsSent), at.UTC(), id)
}

// MarkFailed records a failed dispatch.
func (r *SmsRepository) MarkFailed(ctx context.Context, id int64) error {
	return r.update(ctx, id, "UPDATE sms_notifications SET deliveryStatus = ? WHERE id = ?", string(models.SmsFailed), id)
}

// RecordReply stores an inbound reply to a message.
func (r *SmsRepository) RecordReply(ctx context.Context, id int64, message string, at time.Time) error {
	return r.update(ctx, id, "UPDATE sms_notifications SET replyMessage = ?, replyReceivedAt = ? WHERE id = ?", message, at.UTC(), id)
}

func (r *SmsRepository) update(ctx context.Context, id int64, query string, args ...any) error {
	res, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return mapErr("sms notification", "update", err)
	}
	if err := requireAffected("sms notification", id, res); err != nil {
		return err
	}
	r.touched(ctx, "sms_notifications")
	return nil
}

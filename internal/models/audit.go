package models

import (
	"time"

	"github.com/example/blotter/internal/errs"
)

// ActivityLog is an append-only audit row. CaseID is nil for store-wide actions.
type ActivityLog struct {
	ID          int64
	CaseID      *int64
	Action      string
	Description string
	OldValue    string
	NewValue    string
	PerformedBy string
	CreatedAt   time.Time
}

// CaseTimeline is an append-only human-readable event on a case.
type CaseTimeline struct {
	ID          int64
	CaseID      int64
	EventType   string
	Title       string
	Description string
	PerformedBy string
	CreatedAt   time.Time
}

// Notification is an in-app message addressed to a user.
type Notification struct {
	ID        int64
	UserID    int64
	CaseID    *int64
	Title     string
	Message   string
	Type      string
	IsRead    bool
	CreatedAt time.Time
}

// Validate checks required fields.
func (n *Notification) Validate() error {
	if n.UserID <= 0 {
		return errs.Validation("notification", "user id is required")
	}
	if blank(n.Title) && blank(n.Message) {
		return errs.Validation("notification", "title or message is required")
	}
	return nil
}

// SmsNotification is a text message queued for an external number.
// ReplyMessage captures an inbound reply.
type SmsNotification struct {
	ID              int64
	CaseID          *int64
	RecipientNumber string
	RecipientName   string
	Message         string
	DeliveryStatus  SmsStatus
	SentAt          *time.Time
	ReplyMessage    string
	ReplyReceivedAt *time.Time
	CreatedAt       time.Time
}

// Validate checks required fields.
func (s *SmsNotification) Validate() error {
	if blank(s.RecipientNumber) {
		return errs.Validation("sms notification", "recipient number is required")
	}
	if blank(s.Message) {
		return errs.Validation("sms notification", "message is required")
	}
	_, err := ParseSmsStatus(string(s.DeliveryStatus))
	return err
}

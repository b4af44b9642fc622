package primary

import (
	"context"
	"io"
	"time"

	"github.com/example/blotter/internal/models"
)

// OfficerService defines the primary port for the officer roster.
type OfficerService interface {
	CreateOfficer(ctx context.Context, o *models.Officer) (*models.Officer, error)
	GetOfficer(ctx context.Context, officerID int64) (*models.Officer, error)
	UpdateOfficer(ctx context.Context, o *models.Officer) (*models.Officer, error)
	// DeleteOfficer refuses officers still assigned to an active case.
	DeleteOfficer(ctx context.Context, officerID int64) error
	ListOfficers(ctx context.Context, activeOnly bool) ([]*models.Officer, error)
}

// NotificationService defines the primary port for notification intents and the SMS queue.
type NotificationService interface {
	ListForUser(ctx context.Context, userID int64, unreadOnly bool) ([]*models.Notification, error)
	MarkRead(ctx context.Context, notificationID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int, error)
	CountUnread(ctx context.Context, userID int64) (int, error)

	QueueSms(ctx context.Context, s *models.SmsNotification) (*models.SmsNotification, error)
	ListPendingSms(ctx context.Context, limit int) ([]*models.SmsNotification, error)
	ListSmsForCase(ctx context.Context, caseID int64) ([]*models.SmsNotification, error)
	MarkSmsSent(ctx context.Context, smsID int64, at time.Time) error
	MarkSmsFailed(ctx context.Context, smsID int64) error
	RecordSmsReply(ctx context.Context, smsID int64, message string, at time.Time) error
}

// TemplateService defines the primary port for case templates.
type TemplateService interface {
	CreateTemplate(ctx context.Context, t *models.CaseTemplate) (*models.CaseTemplate, error)
	GetTemplate(ctx context.Context, templateID int64) (*models.CaseTemplate, error)
	UpdateTemplate(ctx context.Context, t *models.CaseTemplate) (*models.CaseTemplate, error)
	DeleteTemplate(ctx context.Context, templateID int64) error
	ListTemplates(ctx context.Context) ([]*models.CaseTemplate, error)
	// ImportTemplates reads a YAML document and creates or updates templates by name.
	ImportTemplates(ctx context.Context, r io.Reader) (*ImportResult, error)
}

// ImportResult summarises a template import.
type ImportResult struct {
	Created int
	Updated int
}

// BootstrapService defines the first-run seeding operations. Both are idempotent.
type BootstrapService interface {
	// EnsureDefaultStatuses inserts the missing status catalog entries.
	EnsureDefaultStatuses(ctx context.Context) (inserted int, err error)
	// EnsureAdminAccount guarantees one Admin account exists.
	EnsureAdminAccount(ctx context.Context) (*AdminAccountResult, error)
	ListStatuses(ctx context.Context) ([]*models.Status, error)
}

// AdminAccountResult reports what EnsureAdminAccount did.
type AdminAccountResult struct {
	Created  bool
	Username string
	// GeneratedPassword is set only when a random password was generated.
	GeneratedPassword string
}

// SyncService defines the primary port for exchanging records with a peer store.
type SyncService interface {
	Pull(ctx context.Context) (*SyncReport, error)
	// Export collects the record families a peer pulls, including archived cases.
	Export(ctx context.Context) (*PeerRecords, error)
}

// PeerRecords is one export of every synchronised record family.
type PeerRecords struct {
	Cases       []*models.Case
	Persons     []*models.Person
	Officers    []*models.Officer
	Respondents []*models.Respondent
	Hearings    []*models.Hearing
	Summons     []*models.Summons
}

// SyncReport counts the records upserted per family.
type SyncReport struct {
	Cases       int
	Persons     int
	Officers    int
	Respondents int
	Hearings    int
	Summons     int
	// DetachedFilers counts cases whose filer account does not exist locally.
	DetachedFilers int
}

package primary

import (
	"context"
	"time"

	"github.com/example/blotter/internal/core/kpform"
	"github.com/example/blotter/internal/core/mediation"
	"github.com/example/blotter/internal/models"
)

// SummonsService defines the primary port for summons delivery and compliance.
type SummonsService interface {
	// IssueSummons creates a Pending summons numbered SUM-<case>-NN.
	IssueSummons(ctx context.Context, req IssueSummonsRequest) (*models.Summons, error)
	GetSummons(ctx context.Context, summonsID int64) (*models.Summons, error)
	MarkDelivered(ctx context.Context, summonsID int64, at time.Time, method string) (*models.Summons, error)
	MarkFailed(ctx context.Context, summonsID int64, reason string) (*models.Summons, error)
	// Reissue moves a failed summons back to Pending.
	Reissue(ctx context.Context, summonsID int64) (*models.Summons, error)
	RecordCompliance(ctx context.Context, summonsID int64, at time.Time, notes string) (*models.Summons, error)
	DeleteSummons(ctx context.Context, summonsID int64) error
	ListSummons(ctx context.Context, caseID int64) ([]*models.Summons, error)
	// ListUncomplied lists delivered summonses with no compliance at cutoff.
	ListUncomplied(ctx context.Context, cutoff time.Time) ([]*models.Summons, error)
}

// IssueSummonsRequest contains parameters for issuing a summons.
type IssueSummonsRequest struct {
	RespondentID   int64
	AppearanceDate time.Time
	DeliveryMethod string
	// NotifyNumber, when set, queues an SMS about the summons.
	NotifyNumber string
}

// HearingService defines the primary port for hearings.
type HearingService interface {
	ScheduleHearing(ctx context.Context, h *models.Hearing) (*models.Hearing, error)
	GetHearing(ctx context.Context, hearingID int64) (*models.Hearing, error)
	// UpdateHearing replaces date, place and purpose of a scheduled hearing.
	UpdateHearing(ctx context.Context, h *models.Hearing) (*models.Hearing, error)
	CompleteHearing(ctx context.Context, hearingID int64, notes string) (*models.Hearing, error)
	CancelHearing(ctx context.Context, hearingID int64, notes string) (*models.Hearing, error)
	DeleteHearing(ctx context.Context, hearingID int64) error
	ListHearings(ctx context.Context, caseID int64) ([]*models.Hearing, error)
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]*models.Hearing, error)
}

// MediationService defines the primary port for mediation sessions.
type MediationService interface {
	ScheduleSession(ctx context.Context, m *models.MediationSession) (*models.MediationSession, error)
	RecordOutcome(ctx context.Context, req RecordOutcomeRequest) (*models.MediationSession, error)
	GetSession(ctx context.Context, sessionID int64) (*models.MediationSession, error)
	ListSessions(ctx context.Context, caseID int64) ([]*models.MediationSession, error)
}

// RecordOutcomeRequest contains parameters for a mediation outcome.
type RecordOutcomeRequest struct {
	SessionID       int64
	Outcome         mediation.Outcome
	SettlementTerms string
	Notes           string
	NewDate         *time.Time // required for Rescheduled
}

// KPFormService defines the primary port for Katarungang Pambarangay forms.
type KPFormService interface {
	// CreateForm creates a Draft form. A blank document reference gets a generated one.
	CreateForm(ctx context.Context, f *models.KPForm) (*models.KPForm, error)
	GetForm(ctx context.Context, formID int64) (*models.KPForm, error)
	TransitionForm(ctx context.Context, formID int64, target kpform.Status) (*models.KPForm, error)
	DeleteForm(ctx context.Context, formID int64) error
	ListForms(ctx context.Context, caseID int64) ([]*models.KPForm, error)
}

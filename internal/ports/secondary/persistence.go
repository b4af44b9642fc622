// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives the case store and peers.
//
// Every repository returns freshly allocated records. Mutating a returned record never
// changes stored state until it is written back.
package secondary

import (
	"context"
	"time"

	"github.com/example/blotter/internal/core/access"
	"github.com/example/blotter/internal/core/blotter"
	"github.com/example/blotter/internal/core/respondent"
	"github.com/example/blotter/internal/models"
)

// Transactor runs fn inside one SQL transaction. Repository calls made with the
// context passed to fn join that transaction. A nested WithTx joins the outer one.
// Live views are notified only after the outermost commit.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// CaseRepository defines the secondary port for case persistence.
type CaseRepository interface {
	// Create persists a new case. ID, timestamps and defaults are written back.
	Create(ctx context.Context, c *models.Case) error

	// GetByID retrieves a case by its ID.
	GetByID(ctx context.Context, id int64) (*models.Case, error)

	// GetByCaseNumber retrieves a case by its YYYY-NNN number.
	GetByCaseNumber(ctx context.Context, caseNumber string) (*models.Case, error)

	// Update replaces every mutable field (last write wins).
	Update(ctx context.Context, c *models.Case) error

	// UpdateStatus writes status and archival without touching other fields.
	UpdateStatus(ctx context.Context, id int64, status blotter.Status, archived bool) error

	// Delete removes a case and every record it owns.
	Delete(ctx context.Context, id int64) error

	// List retrieves cases matching the filters, newest first.
	List(ctx context.Context, filters models.CaseFilters) ([]*models.Case, error)

	// Search matches case number, narrative, incident type and complainant name.
	Search(ctx context.Context, query string, limit int) ([]*models.Case, error)

	// NextCaseNumber returns the next free YYYY-NNN number for a filing year.
	NextCaseNumber(ctx context.Context, year int) (string, error)

	// CountByStatus counts non-archived cases per status.
	CountByStatus(ctx context.Context) (map[blotter.Status]int, error)

	// Upsert inserts or replaces a case by ID (peer sync).
	Upsert(ctx context.Context, c *models.Case) error
}

// PersonRepository defines the secondary port for the person directory.
type PersonRepository interface {
	Create(ctx context.Context, p *models.Person) error
	GetByID(ctx context.Context, id int64) (*models.Person, error)
	// FindByKey looks up the exact (firstName, lastName, contactNumber) triple.
	FindByKey(ctx context.Context, key models.PersonKey) (*models.Person, error)
	Update(ctx context.Context, p *models.Person) error
	// Delete removes the person; history goes with it, sub-record links are cleared.
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query string, limit int) ([]*models.Person, error)
	Upsert(ctx context.Context, p *models.Person) error
}

// SuspectRepository defines the secondary port for suspects.
type SuspectRepository interface {
	Create(ctx context.Context, s *models.Suspect) error
	GetByID(ctx context.Context, id int64) (*models.Suspect, error)
	Update(ctx context.Context, s *models.Suspect) error
	Delete(ctx context.Context, id int64) error
	ListByCase(ctx context.Context, caseID int64) ([]*models.Suspect, error)
}

// WitnessRepository defines the secondary port for witnesses.
type WitnessRepository interface {
	Create(ctx context.Context, w *models.Witness) error
	GetByID(ctx context.Context, id int64) (*models.Witness, error)
	Update(ctx context.Context, w *models.Witness) error
	Delete(ctx context.Context, id int64) error
	ListByCase(ctx context.Context, caseID int64) ([]*models.Witness, error)
}

// EvidenceRepository defines the secondary port for evidence items.
type EvidenceRepository interface {
	Create(ctx context.Context, e *models.Evidence) error
	GetByID(ctx context.Context, id int64) (*models.Evidence, error)
	Update(ctx context.Context, e *models.Evidence) error
	Delete(ctx context.Context, id int64) error
	ListByCase(ctx context.Context, caseID int64) ([]*models.Evidence, error)
}

// RespondentRepository defines the secondary port for respondents.
type RespondentRepository interface {
	Create(ctx context.Context, r *models.Respondent) error
	GetByID(ctx context.Context, id int64) (*models.Respondent, error)
	Update(ctx context.Context, r *models.Respondent) error
	// Delete removes the respondent with its statements and summonses.
	Delete(ctx context.Context, id int64) error
	ListByCase(ctx context.Context, caseID int64) ([]*models.Respondent, error)
	ListByPerson(ctx context.Context, personID int64) ([]*models.Respondent, error)
	// CountByCooperationStatus counts respondents per status; caseID 0 counts all cases.
	CountByCooperationStatus(ctx context.Context, caseID int64) (map[respondent.CooperationStatus]int, error)
	Upsert(ctx context.Context, r *models.Respondent) error
}

// StatementRepository defines the secondary port for respondent statements.
type StatementRepository interface {
	Create(ctx context.Context, s *models.RespondentStatement) error
	GetByID(ctx context.Context, id int64) (*models.RespondentStatement, error)
	Update(ctx context.Context, s *models.RespondentStatement) error
	ListByRespondent(ctx context.Context, respondentID int64) ([]*models.RespondentStatement, error)
	ListByCase(ctx context.Context, caseID int64) ([]*models.RespondentStatement, error)
}

// SummonsRepository defines the secondary port for summonses.
type SummonsRepository interface {
	Create(ctx context.Context, s *models.Summons) error
	GetByID(ctx context.Context, id int64) (*models.Summons, error)
	Update(ctx context.Context, s *models.Summons) error
	Delete(ctx context.Context, id int64) error
	ListByCase(ctx context.Context, caseID int64) ([]*models.Summons, error)
	ListByRespondent(ctx context.Context, respondentID int64) ([]*models.Summons, error)
	// ListUncomplied returns delivered, uncomplied summonses delivered at or before cutoff.
	ListUncomplied(ctx context.Context, cutoff time.Time) ([]*models.Summons, error)
	// CountByCase counts every summons ever issued on a case (for numbering).
	CountByCase(ctx context.Context, caseID int64) (int, error)
	Upsert(ctx context.Context, s *models.Summons) error
}

// HearingRepository defines the secondary port for hearings.
type HearingRepository interface {
	Create(ctx context.Context, h *models.Hearing) error
	GetByID(ctx context.Context, id int64) (*models.Hearing, error)
	Update(ctx context.Context, h *models.Hearing) error
	Delete(ctx context.Context, id int64) error
	ListByCase(ctx context.Context, caseID int64) ([]*models.Hearing, error)
	// ListUpcoming returns scheduled hearings at or after from, soonest first.
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]*models.Hearing, error)
	Upsert(ctx context.Context, h *models.Hearing) error
}

// ResolutionRepository defines the secondary port for case resolutions.
type ResolutionRepository interface {
	Create(ctx context.Context, r *models.Resolution) error
	GetByCase(ctx context.Context, caseID int64) (*models.Resolution, error)
	ExistsForCase(ctx context.Context, caseID int64) (bool, error)
}

// MediationRepository defines the secondary port for mediation sessions.
type MediationRepository interface {
	Create(ctx context.Context, m *models.MediationSession) error
	GetByID(ctx context.Context, id int64) (*models.MediationSession, error)
	Update(ctx context.Context, m *models.MediationSession) error
	Delete(ctx context.Context, id int64) error
	ListByCase(ctx context.Context, caseID int64) ([]*models.MediationSession, error)
}

// KPFormRepository defines the secondary port for Katarungang Pambarangay forms.
type KPFormRepository interface {
	Create(ctx context.Context, f *models.KPForm) error
	GetByID(ctx context.Context, id int64) (*models.KPForm, error)
	Update(ctx context.Context, f *models.KPForm) error
	Delete(ctx context.Context, id int64) error
	ListByCase(ctx context.Context, caseID int64) ([]*models.KPForm, error)
}

// OfficerRepository defines the secondary port for officers.
type OfficerRepository interface {
	Create(ctx context.Context, o *models.Officer) error
	GetByID(ctx context.Context, id int64) (*models.Officer, error)
	GetByBadge(ctx context.Context, badgeNumber string) (*models.Officer, error)
	Update(ctx context.Context, o *models.Officer) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, activeOnly bool) ([]*models.Officer, error)
	// GetMany returns the officers that exist among ids, in ids order.
	GetMany(ctx context.Context, ids []int64) ([]*models.Officer, error)
	Upsert(ctx context.Context, o *models.Officer) error
}

// UserRepository defines the secondary port for user accounts.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	CountByRole(ctx context.Context, role access.Role) (int, error)
}

// StatusRepository defines the secondary port for the status display catalog.
type StatusRepository interface {
	Create(ctx context.Context, s *models.Status) error
	GetByName(ctx context.Context, name string) (*models.Status, error)
	List(ctx context.Context) ([]*models.Status, error)
	Count(ctx context.Context) (int, error)
}

// NotificationRepository defines the secondary port for in-app notification intents.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID int64, unreadOnly bool) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context, userID int64) (int, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
}

// SmsRepository defines the secondary port for the outbound SMS queue.
type SmsRepository interface {
	Create(ctx context.Context, s *models.SmsNotification) error
	GetByID(ctx context.Context, id int64) (*models.SmsNotification, error)
	ListPending(ctx context.Context, limit int) ([]*models.SmsNotification, error)
	ListByCase(ctx context.Context, caseID int64) ([]*models.SmsNotification, error)
	MarkSent(ctx context.Context, id int64, at time.Time) error
	MarkFailed(ctx context.Context, id int64) error
	RecordReply(ctx context.Context, id int64, message string, at time.Time) error
}

// TemplateRepository defines the secondary port for case templates.
type TemplateRepository interface {
	Create(ctx context.Context, t *models.CaseTemplate) error
	GetByID(ctx context.Context, id int64) (*models.CaseTemplate, error)
	GetByName(ctx context.Context, name string) (*models.CaseTemplate, error)
	Update(ctx context.Context, t *models.CaseTemplate) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*models.CaseTemplate, error)
	IncrementUsage(ctx context.Context, id int64) error
}

// AuditTrail defines the secondary port for the append-only case timeline,
// activity log and person history.
type AuditTrail interface {
	AppendTimeline(ctx context.Context, e *models.CaseTimeline) error
	ListTimeline(ctx context.Context, caseID int64, oldestFirst bool) ([]*models.CaseTimeline, error)
	AppendActivity(ctx context.Context, a *models.ActivityLog) error
	ListActivity(ctx context.Context, caseID int64, limit int) ([]*models.ActivityLog, error)
	AppendPersonHistory(ctx context.Context, h *models.PersonHistory) error
	ListPersonHistory(ctx context.Context, personID int64) ([]*models.PersonHistory, error)
}

// Package primary defines the primary ports (driving adapters) for the application.
// The CLI and any other host drive the case store only through these interfaces.
package primary

import (
	"context"
	"time"

	"github.com/example/blotter/internal/core/blotter"
	"github.com/example/blotter/internal/core/respondent"
	"github.com/example/blotter/internal/models"
)

// CaseService defines the primary port for case intake and the case status workflow.
type CaseService interface {
	// FileCase creates a case in Pending and records the intake audit trail.
	FileCase(ctx context.Context, req FileCaseRequest) (*models.Case, error)

	// FileFromTemplate files a case whose narrative and type come from a template.
	FileFromTemplate(ctx context.Context, req FileFromTemplateRequest) (*models.Case, error)

	// GetCase retrieves a case by ID.
	GetCase(ctx context.Context, caseID int64) (*models.Case, error)

	// GetCaseByNumber retrieves a case by its YYYY-NNN number.
	GetCaseByNumber(ctx context.Context, caseNumber string) (*models.Case, error)

	// ListCases lists cases matching the filters, newest first.
	ListCases(ctx context.Context, filters models.CaseFilters) ([]*models.Case, error)

	// SearchCases searches number, narrative, type and complainant.
	SearchCases(ctx context.Context, query string, limit int) ([]*models.Case, error)

	// UpdateCase replaces the editable fields of a case.
	UpdateCase(ctx context.Context, c *models.Case) (*models.Case, error)

	// ChangeStatus moves a case along the status workflow.
	ChangeStatus(ctx context.Context, req ChangeStatusRequest) (*models.Case, error)

	// AssignOfficers replaces the officer set of a case.
	AssignOfficers(ctx context.Context, caseID int64, officerIDs []int64) (*models.Case, error)

	// CreateResolution records the resolution of a case and moves it to Resolved.
	CreateResolution(ctx context.Context, req CreateResolutionRequest) (*models.Resolution, error)

	// GetResolution retrieves the resolution of a case.
	GetResolution(ctx context.Context, caseID int64) (*models.Resolution, error)

	// ArchiveCase removes a resolved case from active listings.
	ArchiveCase(ctx context.Context, caseID int64) (*models.Case, error)

	// DeleteCase physically deletes a Pending case and everything it owns.
	DeleteCase(ctx context.Context, caseID int64) error

	// Timeline lists the case timeline.
	Timeline(ctx context.Context, caseID int64, oldestFirst bool) ([]*models.CaseTimeline, error)

	// Activity lists activity for a case, or store-wide activity when caseID is 0.
	Activity(ctx context.Context, caseID int64, limit int) ([]*models.ActivityLog, error)

	// Dashboard computes the live counters shown on the dashboard.
	Dashboard(ctx context.Context, now time.Time) (*Dashboard, error)

	// WatchCases emits the filtered case list now and after every committed change.
	WatchCases(ctx context.Context, filters models.CaseFilters) <-chan []*models.Case

	// WatchTimeline emits the case timeline now and after every committed change.
	WatchTimeline(ctx context.Context, caseID int64) <-chan []*models.CaseTimeline
}

// FileCaseRequest contains parameters for filing a case.
type FileCaseRequest struct {
	CaseNumber         string // generated when blank
	IncidentType       string
	Narrative          string
	IncidentLocation   string
	IncidentDate       time.Time
	DateFiled          time.Time // defaults to now
	Priority           models.Priority
	ComplainantName    string
	ComplainantContact string
	ComplainantAddress string
	AssignedOfficerIDs []int64
}

// FileFromTemplateRequest files a case seeded from a template. Blank narrative and
// priority come from the template.
type FileFromTemplateRequest struct {
	TemplateID int64
	Case       FileCaseRequest
}

// ChangeStatusRequest contains parameters for a status change.
type ChangeStatusRequest struct {
	CaseID  int64
	Target  blotter.Status
	Remarks string
}

// CreateResolutionRequest contains parameters for resolving a case.
type CreateResolutionRequest struct {
	CaseID            int64
	ResolutionType    string
	ResolutionDetails string
	ResolvedBy        string // defaults to the acting user
	ResolvedDate      time.Time
}

// Dashboard holds counts computed at query time.
type Dashboard struct {
	ByStatus            map[blotter.Status]int
	ByCooperation       map[respondent.CooperationStatus]int
	ActiveCases         int
	UpcomingHearings    []*models.Hearing
	UncompliedSummons   int
	UnreadNotifications int
}

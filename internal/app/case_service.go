package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/blotter/internal/core/access"
	"github.com/example/blotter/internal/core/blotter"
	"github.com/example/blotter/internal/errs"
	"github.com/example/blotter/internal/live"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/primary"
	"github.com/example/blotter/internal/ports/secondary"
)

// upcomingHearingsOnDashboard bounds the dashboard hearing list.
const upcomingHearingsOnDashboard = 5

// CaseRepos groups the repositories CaseServiceImpl reads and writes.
type CaseRepos struct {
	Cases         secondary.CaseRepository
	Officers      secondary.OfficerRepository
	Resolutions   secondary.ResolutionRepository
	Templates     secondary.TemplateRepository
	Respondents   secondary.RespondentRepository
	Summons       secondary.SummonsRepository
	Hearings      secondary.HearingRepository
	Notifications secondary.NotificationRepository
	Audit         secondary.AuditTrail
}

// CaseServiceImpl implements the CaseService interface.
type CaseServiceImpl struct {
	rt    Runtime
	repos CaseRepos
	hub   *live.Hub
}

// NewCaseService creates a new CaseService with injected dependencies.
func NewCaseService(rt Runtime, repos CaseRepos, hub *live.Hub) *CaseServiceImpl {
	return &CaseServiceImpl{rt: rt, repos: repos, hub: hub}
}

var _ primary.CaseService = (*CaseServiceImpl)(nil)

// FileCase creates a case in Pending and records the intake audit trail.
func (s *CaseServiceImpl) FileCase(ctx context.Context, req primary.FileCaseRequest) (*models.Case, error) {
	var filed *models.Case
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.fileCase(ctx, req)
		filed = c
		return err
	})
	if err != nil {
		return nil, err
	}
	return filed, nil
}

func (s *CaseServiceImpl) fileCase(ctx context.Context, req primary.FileCaseRequest) (*models.Case, error) {
	actor := s.rt.actor(ctx)
	if !access.CanFileCases(actor.Role) {
		return nil, s.rt.rejected("case", errs.IllegalTransition("case", 0, "role %q may not file cases", actor.Role))
	}
	priority, err := models.ParsePriority(string(req.Priority))
	if err != nil {
		return nil, s.rt.rejected("case", err)
	}
	c := &models.Case{
		CaseNumber:         strings.TrimSpace(req.CaseNumber),
		IncidentType:       req.IncidentType,
		Narrative:          req.Narrative,
		IncidentLocation:   req.IncidentLocation,
		IncidentDate:       req.IncidentDate,
		DateFiled:          req.DateFiled,
		Status:             blotter.InitialStatus(),
		Priority:           priority,
		ComplainantName:    req.ComplainantName,
		ComplainantContact: req.ComplainantContact,
		ComplainantAddress: req.ComplainantAddress,
		FiledByUserID:      actor.UserID,
		AssignedOfficerIDs: req.AssignedOfficerIDs,
	}
	if err := c.Validate(); err != nil {
		return nil, s.rt.rejected("case", err)
	}
	if len(c.AssignedOfficerIDs) > 0 {
		if _, err := s.requireOfficers(ctx, c.ID, c.AssignedOfficerIDs); err != nil {
			return nil, err
		}
	}
	if c.DateFiled.IsZero() {
		c.DateFiled = s.rt.now()
	}
	if err := s.repos.Cases.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}
	if err := s.rt.apply(ctx, blotter.IntakeEffects(c.ID, c.CaseNumber, c.IncidentType, actor.Name, s.rt.now())); err != nil {
		return nil, err
	}
	s.rt.Metrics.IncTransition("case", string(c.Status))
	s.rt.logger().Info("case filed", "case_id", c.ID, "case_number", c.CaseNumber, "actor", actor.Name)
	return c, nil
}

// FileFromTemplate files a case whose narrative and type come from a template.
func (s *CaseServiceImpl) FileFromTemplate(ctx context.Context, req primary.FileFromTemplateRequest) (*models.Case, error) {
	var filed *models.Case
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		tmpl, err := s.repos.Templates.GetByID(ctx, req.TemplateID)
		if err != nil {
			return err
		}
		caseReq := req.Case
		if strings.TrimSpace(caseReq.Narrative) == "" {
			caseReq.Narrative = tmpl.NarrativeTemplate
		}
		if strings.TrimSpace(caseReq.IncidentType) == "" {
			caseReq.IncidentType = tmpl.IncidentType
		}
		if caseReq.Priority == "" {
			caseReq.Priority = tmpl.DefaultPriority
		}
		c, err := s.fileCase(ctx, caseReq)
		if err != nil {
			return err
		}
		if err := s.repos.Templates.IncrementUsage(ctx, tmpl.ID); err != nil {
			return fmt.Errorf("failed to count template usage: %w", err)
		}
		filed = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return filed, nil
}

// GetCase retrieves a case by ID.
func (s *CaseServiceImpl) GetCase(ctx context.Context, caseID int64) (*models.Case, error) {
	return s.repos.Cases.GetByID(ctx, caseID)
}

// GetCaseByNumber retrieves a case by its YYYY-NNN number.
func (s *CaseServiceImpl) GetCaseByNumber(ctx context.Context, caseNumber string) (*models.Case, error) {
	return s.repos.Cases.GetByCaseNumber(ctx, strings.TrimSpace(caseNumber))
}

// ListCases lists cases matching the filters, newest first.
func (s *CaseServiceImpl) ListCases(ctx context.Context, filters models.CaseFilters) ([]*models.Case, error) {
	if filters.Status != "" && !filters.Status.Valid() {
		return nil, errs.Validation("case", "unknown case status %q", filters.Status)
	}
	return s.repos.Cases.List(ctx, filters)
}

// SearchCases searches number, narrative, type and complainant.
func (s *CaseServiceImpl) SearchCases(ctx context.Context, query string, limit int) ([]*models.Case, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errs.Validation("case", "search query is required")
	}
	return s.repos.Cases.Search(ctx, query, limit)
}

// UpdateCase replaces the editable fields of a case.
func (s *CaseServiceImpl) UpdateCase(ctx context.Context, c *models.Case) (*models.Case, error) {
	var updated *models.Case
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.repos.Cases.GetByID(ctx, c.ID)
		if err != nil {
			return err
		}
		if err := blotter.CanEditCase(blotter.EditContext{
			CaseID:            current.ID,
			Status:            current.Status,
			IsArchived:        current.IsArchived,
			CaseNumberChanged: c.CaseNumber != current.CaseNumber,
			StatusChanged:     c.Status != current.Status,
			ArchivedChanged:   c.IsArchived != current.IsArchived,
		}).Error(); err != nil {
			return s.rt.rejected("case", err)
		}
		next := c.Clone()
		// Filer and officers change through their own operations.
		next.FiledByUserID = current.FiledByUserID
		next.AssignedOfficerIDs = current.AssignedOfficerIDs
		next.DateFiled = current.DateFiled
		if err := next.Validate(); err != nil {
			return s.rt.rejected("case", err)
		}
		if err := s.repos.Cases.Update(ctx, next); err != nil {
			return fmt.Errorf("failed to update case: %w", err)
		}
		actor := s.rt.actor(ctx)
		if err := s.rt.apply(ctx, caseEditedEffects(current, next, actor.Name, s.rt.now())); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ChangeStatus moves a case along the status workflow.
func (s *CaseServiceImpl) ChangeStatus(ctx context.Context, req primary.ChangeStatusRequest) (*models.Case, error) {
	var result *models.Case
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.repos.Cases.GetByID(ctx, req.CaseID)
		if err != nil {
			return err
		}
		actor := s.rt.actor(ctx)
		plan, err := blotter.PlanStatusChange(blotter.StatusChangeContext{
			CaseID:        c.ID,
			CaseNumber:    c.CaseNumber,
			Current:       c.Status,
			Target:        req.Target,
			Role:          actor.Role,
			PerformedBy:   actor.Name,
			FiledByUserID: derefID(c.FiledByUserID),
			Remarks:       req.Remarks,
			Now:           s.rt.now(),
		})
		if err != nil {
			return s.rt.rejected("case", err)
		}
		result = c
		if plan.NoOp {
			return nil
		}
		if err := s.repos.Cases.UpdateStatus(ctx, c.ID, plan.NewStatus, c.IsArchived || plan.Archive); err != nil {
			return fmt.Errorf("failed to update case status: %w", err)
		}
		if err := s.rt.apply(ctx, plan.Effects); err != nil {
			return err
		}
		s.rt.Metrics.IncTransition("case", string(plan.NewStatus))
		c.Status = plan.NewStatus
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AssignOfficers replaces the officer set of a case.
func (s *CaseServiceImpl) AssignOfficers(ctx context.Context, caseID int64, officerIDs []int64) (*models.Case, error) {
	var result *models.Case
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.repos.Cases.GetByID(ctx, caseID)
		if err != nil {
			return err
		}
		next := dedupeIDs(officerIDs)
		officers, err := s.repos.Officers.GetMany(ctx, next)
		if err != nil {
			return fmt.Errorf("failed to load officers: %w", err)
		}
		actor := s.rt.actor(ctx)
		if err := blotter.CanAssignOfficers(blotter.AssignOfficersContext{
			CaseID:          c.ID,
			Status:          c.Status,
			Role:            actor.Role,
			MissingOfficers: missingOfficers(next, officers),
		}).Error(); err != nil {
			return s.rt.rejected("case", err)
		}

		previous := c.AssignedOfficerIDs
		c.AssignedOfficerIDs = next
		if err := s.repos.Cases.Update(ctx, c); err != nil {
			return fmt.Errorf("failed to assign officers: %w", err)
		}

		added := make(map[int64]bool)
		for _, id := range blotter.NewlyAssigned(previous, next) {
			added[id] = true
		}
		var notify []int64
		for _, o := range officers {
			if added[o.ID] && o.UserID != nil {
				notify = append(notify, *o.UserID)
			}
		}
		effs := blotter.AssignmentEffects(c.ID, c.CaseNumber, previous, next, notify, actor.Name, s.rt.now())
		if err := s.rt.apply(ctx, effs); err != nil {
			return err
		}
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreateResolution records the resolution of a case and moves it to Resolved.
func (s *CaseServiceImpl) CreateResolution(ctx context.Context, req primary.CreateResolutionRequest) (*models.Resolution, error) {
	var created *models.Resolution
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.repos.Cases.GetByID(ctx, req.CaseID)
		if err != nil {
			return err
		}
		exists, err := s.repos.Resolutions.ExistsForCase(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("failed to check resolution: %w", err)
		}
		actor := s.rt.actor(ctx)
		now := s.rt.now()
		plan, err := blotter.PlanResolution(blotter.ResolutionContext{
			CaseID:         c.ID,
			CaseNumber:     c.CaseNumber,
			Current:        c.Status,
			HasResolution:  exists,
			Role:           actor.Role,
			ResolutionType: req.ResolutionType,
			PerformedBy:    actor.Name,
			FiledByUserID:  derefID(c.FiledByUserID),
			Now:            now,
		})
		if err != nil {
			return s.rt.rejected("case", err)
		}

		res := &models.Resolution{
			CaseID:            c.ID,
			ResolutionType:    strings.TrimSpace(req.ResolutionType),
			ResolutionDetails: req.ResolutionDetails,
			ResolvedBy:        req.ResolvedBy,
			ResolvedDate:      req.ResolvedDate,
		}
		if strings.TrimSpace(res.ResolvedBy) == "" {
			res.ResolvedBy = actor.Name
		}
		if res.ResolvedDate.IsZero() {
			res.ResolvedDate = now
		}
		if err := res.Validate(); err != nil {
			return s.rt.rejected("resolution", err)
		}
		if err := s.repos.Resolutions.Create(ctx, res); err != nil {
			return fmt.Errorf("failed to create resolution: %w", err)
		}
		if err := s.repos.Cases.UpdateStatus(ctx, c.ID, plan.NewStatus, c.IsArchived); err != nil {
			return fmt.Errorf("failed to resolve case: %w", err)
		}
		if err := s.rt.apply(ctx, plan.Effects); err != nil {
			return err
		}
		s.rt.Metrics.IncTransition("case", string(plan.NewStatus))
		created = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetResolution retrieves the resolution of a case.
func (s *CaseServiceImpl) GetResolution(ctx context.Context, caseID int64) (*models.Resolution, error) {
	return s.repos.Resolutions.GetByCase(ctx, caseID)
}

// ArchiveCase removes a resolved case from active listings.
func (s *CaseServiceImpl) ArchiveCase(ctx context.Context, caseID int64) (*models.Case, error) {
	var result *models.Case
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.repos.Cases.GetByID(ctx, caseID)
		if err != nil {
			return err
		}
		actor := s.rt.actor(ctx)
		plan, err := blotter.PlanArchive(blotter.ArchiveContext{
			CaseID:      c.ID,
			Current:     c.Status,
			IsArchived:  c.IsArchived,
			Role:        actor.Role,
			PerformedBy: actor.Name,
			Now:         s.rt.now(),
		})
		if err != nil {
			return s.rt.rejected("case", err)
		}
		if err := s.repos.Cases.UpdateStatus(ctx, c.ID, plan.NewStatus, plan.Archive); err != nil {
			return fmt.Errorf("failed to archive case: %w", err)
		}
		if err := s.rt.apply(ctx, plan.Effects); err != nil {
			return err
		}
		s.rt.Metrics.IncTransition("case", string(plan.NewStatus))
		c.Status, c.IsArchived = plan.NewStatus, plan.Archive
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteCase physically deletes a Pending case and everything it owns.
func (s *CaseServiceImpl) DeleteCase(ctx context.Context, caseID int64) error {
	return s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.repos.Cases.GetByID(ctx, caseID)
		if err != nil {
			return err
		}
		actor := s.rt.actor(ctx)
		isFiler := actor.UserID != nil && c.FiledByUserID != nil && *actor.UserID == *c.FiledByUserID
		if err := blotter.CanDeleteCase(blotter.DeleteContext{
			CaseID:  c.ID,
			Status:  c.Status,
			Role:    actor.Role,
			IsFiler: isFiler,
		}).Error(); err != nil {
			return s.rt.rejected("case", err)
		}
		if err := s.repos.Cases.Delete(ctx, c.ID); err != nil {
			return fmt.Errorf("failed to delete case: %w", err)
		}
		// The case's own activity rows went with it; keep a store-wide record.
		return s.rt.apply(ctx, caseDeletedEffects(c, actor.Name, s.rt.now()))
	})
}

// Timeline lists the case timeline.
func (s *CaseServiceImpl) Timeline(ctx context.Context, caseID int64, oldestFirst bool) ([]*models.CaseTimeline, error) {
	if _, err := s.repos.Cases.GetByID(ctx, caseID); err != nil {
		return nil, err
	}
	return s.repos.Audit.ListTimeline(ctx, caseID, oldestFirst)
}

// Activity lists activity for a case, or store-wide activity when caseID is 0.
func (s *CaseServiceImpl) Activity(ctx context.Context, caseID int64, limit int) ([]*models.ActivityLog, error) {
	return s.repos.Audit.ListActivity(ctx, caseID, limit)
}

// Dashboard computes the live counters shown on the dashboard.
func (s *CaseServiceImpl) Dashboard(ctx context.Context, now time.Time) (*primary.Dashboard, error) {
	byStatus, err := s.repos.Cases.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count cases: %w", err)
	}
	byCooperation, err := s.repos.Respondents.CountByCooperationStatus(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to count respondents: %w", err)
	}
	upcoming, err := s.repos.Hearings.ListUpcoming(ctx, now, upcomingHearingsOnDashboard)
	if err != nil {
		return nil, fmt.Errorf("failed to list hearings: %w", err)
	}
	uncomplied, err := s.repos.Summons.ListUncomplied(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list summons: %w", err)
	}

	d := &primary.Dashboard{
		ByStatus:          byStatus,
		ByCooperation:     byCooperation,
		UpcomingHearings:  upcoming,
		UncompliedSummons: len(uncomplied),
	}
	for status, n := range byStatus {
		if !status.IsTerminal() {
			d.ActiveCases += n
		}
	}
	if uid := s.rt.actor(ctx).UserID; uid != nil {
		unread, err := s.repos.Notifications.CountUnread(ctx, *uid)
		if err != nil {
			return nil, fmt.Errorf("failed to count notifications: %w", err)
		}
		d.UnreadNotifications = unread
	}
	return d, nil
}

// WatchCases emits the filtered case list now and after every committed change.
func (s *CaseServiceImpl) WatchCases(ctx context.Context, filters models.CaseFilters) <-chan []*models.Case {
	return live.Watch(ctx, s.hub, func(ctx context.Context) ([]*models.Case, error) {
		return s.repos.Cases.List(ctx, filters)
	}, "blotter_reports")
}

// WatchTimeline emits the case timeline now and after every committed change.
func (s *CaseServiceImpl) WatchTimeline(ctx context.Context, caseID int64) <-chan []*models.CaseTimeline {
	return live.Watch(ctx, s.hub, func(ctx context.Context) ([]*models.CaseTimeline, error) {
		return s.repos.Audit.ListTimeline(ctx, caseID, true)
	}, "case_timeline")
}

// requireOfficers returns the officers for ids or a validation error naming the unknown ones.
func (s *CaseServiceImpl) requireOfficers(ctx context.Context, caseID int64, ids []int64) ([]*models.Officer, error) {
	officers, err := s.repos.Officers.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load officers: %w", err)
	}
	if missing := missingOfficers(ids, officers); len(missing) > 0 {
		return nil, s.rt.rejected("case", errs.Validation("case", "unknown officer(s): %v", missing))
	}
	return officers, nil
}

func missingOfficers(ids []int64, found []*models.Officer) []int64 {
	have := make(map[int64]bool, len(found))
	for _, o := range found {
		have[o.ID] = true
	}
	var missing []int64
	for _, id := range ids {
		if !have[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/blotter/internal/ctxutil"
	"github.com/example/blotter/internal/models"
)

const (
	timelineColumns      = "id, blotterReportId, eventType, title, description, performedBy, createdAt"
	activityColumns      = "id, blotterReportId, action, description, oldValue, newValue, performedBy, createdAt"
	personHistoryColumns = "id, personId, blotterReportId, role, description, createdAt"
)

// AuditRepository implements secondary.AuditTrail with SQLite. Every table it
// writes is append-only. A blank performedBy is filled from the actor in ctx.
type AuditRepository struct {
	base
}

func performer(ctx context.Context, given string) string {
	if given != "" {
		return given
	}
	return ctxutil.ActorFromContext(ctx).Name
}

func scanTimeline(s scanner) (*models.CaseTimeline, error) {
	var e models.CaseTimeline
	if err := s.Scan(&e.ID, &e.CaseID, &e.EventType, &e.Title, &e.Description, &e.PerformedBy, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return &e, nil
}

// AppendTimeline adds an event to a case timeline.
func (r *AuditRepository) AppendTimeline(ctx context.Context, e *models.CaseTimeline) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.now()
	}
	e.PerformedBy = performer(ctx, e.PerformedBy)
	res, err := r.conn(ctx).ExecContext(ctx,
		"INSERT INTO case_timeline (blotterReportId, eventType, title, description, performedBy, createdAt) VALUES (?, ?, ?, ?, ?, ?)",
		e.CaseID, e.EventType, e.Title, e.Description, e.PerformedBy, e.CreatedAt.UTC())
	if err != nil {
		return mapErr("timeline event", "create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get timeline event id: %w", err)
	}
	e.ID = id
	r.touched(ctx, "case_timeline")
	return nil
}

// ListTimeline returns a case's events, newest first unless oldestFirst.
func (r *AuditRepository) ListTimeline(ctx context.Context, caseID int64, oldestFirst bool) ([]*models.CaseTimeline, error) {
	order := " ORDER BY createdAt DESC, id DESC"
	if oldestFirst {
		order = " ORDER BY createdAt, id"
	}
	rows, err := r.conn(ctx).QueryContext(ctx, "SELECT "+timelineColumns+" FROM case_timeline WHERE blotterReportId = ?"+order, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline: %w", err)
	}
	return collect(rows, scanTimeline)
}

func scanActivity(s scanner) (*models.ActivityLog, error) {
	var a models.ActivityLog
	var caseID sql.NullInt64
	if err := s.Scan(&a.ID, &caseID, &a.Action, &a.Description, &a.OldValue, &a.NewValue, &a.PerformedBy, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.CaseID = idPtr(caseID)
	a.CreatedAt = a.CreatedAt.UTC()
	return &a, nil
}

// AppendActivity adds an activity log row.
func (r *AuditRepository) AppendActivity(ctx context.Context, a *models.ActivityLog) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = r.now()
	}
	a.PerformedBy = performer(ctx, a.PerformedBy)
	res, err := r.conn(ctx).ExecContext(ctx,
		"INSERT INTO activity_logs (blotterReportId, action, description, oldValue, newValue, performedBy, createdAt) VALUES (?, ?, ?, ?, ?, ?, ?)",
		nullID(a.CaseID), a.Action, a.Description, a.OldValue, a.NewValue, a.PerformedBy, a.CreatedAt.UTC())
	if err != nil {
		return mapErr("activity log", "create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get activity log id: %w", err)
	}
	a.ID = id
	r.touched(ctx, "activity_logs")
	return nil
}

// ListActivity returns activity for a case, or every row when caseID is 0, newest first.
func (r *AuditRepository) ListActivity(ctx context.Context, caseID int64, limit int) ([]*models.ActivityLog, error) {
	query := "SELECT " + activityColumns + " FROM activity_logs"
	var args []any
	if caseID > 0 {
		query += " WHERE blotterReportId = ?"
		args = append(args, caseID)
	}
	rows, err := r.conn(ctx).QueryContext(ctx, query+" ORDER BY createdAt DESC, id DESC"+limitClause(limit), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return collect(rows, scanActivity)
}

func scanPersonHistory(s scanner) (*models.PersonHistory, error) {
	var h models.PersonHistory
	if err := s.Scan(&h.ID, &h.PersonID, &h.CaseID, &h.Role, &h.Description, &h.CreatedAt); err != nil {
		return nil, err
	}
	h.CreatedAt = h.CreatedAt.UTC()
	return &h, nil
}

// AppendPersonHistory records a person's role in a case.
func (r *AuditRepository) AppendPersonHistory(ctx context.Context, h *models.PersonHistory) error {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = r.now()
	}
	res, err := r.conn(ctx).ExecContext(ctx,
		"INSERT INTO person_history (personId, blotterReportId, role, description, createdAt) VALUES (?, ?, ?, ?, ?)",
		h.PersonID, h.CaseID, h.Role, h.Description, h.CreatedAt.UTC())
	if err != nil {
		return mapErr("person history", "create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get person history id: %w", err)
	}
	h.ID = id
	r.touched(ctx, "person_history")
	return nil
}

// ListPersonHistory returns a person's case roles, newest first.
func (r *AuditRepository) ListPersonHistory(ctx context.Context, personID int64) ([]*models.PersonHistory, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, "SELECT "+personHistoryColumns+" FROM person_history WHERE personId = ? ORDER BY createdAt DESC, id DESC", personID)
	if err != nil {
		return nil, fmt.Errorf("failed to list person history: %w", err)
	}
	return collect(rows, scanPersonHistory)
}

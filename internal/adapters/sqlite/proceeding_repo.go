package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/blotter/internal/core/kpform"
	"github.com/example/blotter/internal/core/mediation"
	"github.com/example/blotter/internal/models"
)

const (
	resolutionColumns = "id, blotterReportId, resolutionType, resolutionDetails, resolvedBy, resolvedDate, createdAt"
	mediationColumns  = "id, blotterReportId, sessionDate, location, mediatorName, outcome, settlementTerms, notes, documentRef, createdAt, updatedAt"
	kpFormColumns     = "id, blotterReportId, formType, title, status, issuedDate, documentRef, notes, createdAt, updatedAt"
)

// ResolutionRepository implements secondary.ResolutionRepository with SQLite.
type ResolutionRepository struct {
	base
}

func scanResolution(s scanner) (*models.Resolution, error) {
	var res models.Resolution
	if err := s.Scan(&res.ID, &res.CaseID, &res.ResolutionType, &res.ResolutionDetails, &res.ResolvedBy, &res.ResolvedDate, &res.CreatedAt); err != nil {
		return nil, err
	}
	res.ResolvedDate = res.ResolvedDate.UTC()
	res.CreatedAt = res.CreatedAt.UTC()
	return &res, nil
}

// Create persists a resolution. A case holds at most one; a second is a Conflict.
func (r *ResolutionRepository) Create(ctx context.Context, res *models.Resolution) error {
	now := r.now()
	if res.ResolvedDate.IsZero() {
		res.ResolvedDate = now
	}
	result, err := r.conn(ctx).ExecContext(ctx,
		"INSERT INTO resolutions (blotterReportId, resolutionType, resolutionDetails, resolvedBy, resolvedDate, createdAt) VALUES (?, ?, ?, ?, ?, ?)",
		res.CaseID, res.ResolutionType, res.ResolutionDetails, res.ResolvedBy, res.ResolvedDate.UTC(), now)
	if err != nil {
		return mapErr("resolution", "create", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get resolution id: %w", err)
	}
	res.ID, res.CreatedAt = id, now
	r.touched(ctx, "resolutions")
	return nil
}

// GetByCase retrieves the resolution of a case.
func (r *ResolutionRepository) GetByCase(ctx context.Context, caseID int64) (*models.Resolution, error) {
	res, err := scanResolution(r.conn(ctx).QueryRowContext(ctx, "SELECT "+resolutionColumns+" FROM resolutions WHERE blotterReportId = ?", caseID))
	if err != nil {
		return nil, rowErr("resolution", caseID, err)
	}
	return res, nil
}

// ExistsForCase reports whether a case already has a resolution.
func (r *ResolutionRepository) ExistsForCase(ctx context.Context, caseID int64) (bool, error) {
	var n int
	if err := r.conn(ctx).QueryRowContext(ctx, "SELECT COUNT(*) FROM resolutions WHERE blotterReportId = ?", caseID).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check resolution: %w", err)
	}
	return n > 0, nil
}

// MediationRepository implements secondary.MediationRepository with SQLite.
type MediationRepository struct {
	base
}

func scanMediation(s scanner) (*models.MediationSession, error) {
	var m models.MediationSession
	var outcome string
	if err := s.Scan(&m.ID, &m.CaseID, &m.SessionDate, &m.Location, &m.MediatorName, &outcome, &m.SettlementTerms, &m.Notes, &m.DocumentRef, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Outcome = mediation.Outcome(outcome)
	m.SessionDate = m.SessionDate.UTC()
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return &m, nil
}

// Create persists a new mediation session. Outcome defaults to Scheduled.
func (r *MediationRepository) Create(ctx context.Context, m *models.MediationSession) error {
	if m.Outcome == "" {
		m.Outcome = mediation.OutcomeScheduled
	}
	now := r.now()
	res, err := r.conn(ctx).ExecContext(ctx,
		"INSERT INTO mediation_sessions (blotterReportId, sessionDate, location, mediatorName, outcome, settlementTerms, notes, documentRef, createdAt, updatedAt) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		m.CaseID, m.SessionDate.UTC(), m.Location, m.MediatorName, string(m.Outcome), m.SettlementTerms, m.Notes, m.DocumentRef, now, now)
	if err != nil {
		return mapErr("mediation session", "create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get mediation session id: %w", err)
	}
	m.ID, m.CreatedAt, m.UpdatedAt = id, now, now
	r.touched(ctx, "mediation_sessions")
	return nil
}

// GetByID retrieves a mediation session.
func (r *MediationRepository) GetByID(ctx context.Context, id int64) (*models.MediationSession, error) {
	m, err := scanMediation(r.conn(ctx).QueryRowContext(ctx, "SELECT "+mediationColumns+" FROM mediation_sessions WHERE id = ?", id))
	if err != nil {
		return nil, rowErr("mediation session", id, err)
	}
	return m, nil
}

// Update replaces a mediation session's fields.
func (r *MediationRepository) Update(ctx context.Context, m *models.MediationSession) error {
	now := r.now()
	res, err := r.conn(ctx).ExecContext(ctx,
		"UPDATE mediation_sessions SET sessionDate = ?, location = ?, mediatorName = ?, outcome = ?, settlementTerms = ?, notes = ?, documentRef = ?, updatedAt = ? WHERE id = ?",
		m.SessionDate.UTC(), m.Location, m.MediatorName, string(m.Outcome), m.SettlementTerms, m.Notes, m.DocumentRef, now, m.ID)
	if err != nil {
		return mapErr("mediation session", "update", err)
	}
	if err := requireAffected("mediation session", m.ID, res); err != nil {
		return err
	}
	m.UpdatedAt = now
	r.touched(ctx, "mediation_sessions")
	return nil
}

// Delete removes a mediation session.
func (r *MediationRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "mediation session", "mediation_sessions", id)
}

// ListByCase lists a case's mediation sessions, newest first.
func (r *MediationRepository) ListByCase(ctx context.Context, caseID int64) ([]*models.MediationSession, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, "SELECT "+mediationColumns+" FROM mediation_sessions WHERE blotterReportId = ? ORDER BY createdAt DESC, id DESC", caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mediation sessions: %w", err)
	}
	return collect(rows, scanMediation)
}

// KPFormRepository implements secondary.KPFormRepository with SQLite.
type KPFormRepository struct {
	base
}

func scanKPForm(s scanner) (*models.KPForm, error) {
	var f models.KPForm
	var status string
	var issued sql.NullTime
	if err := s.Scan(&f.ID, &f.CaseID, &f.FormType, &f.Title, &status, &issued, &f.DocumentRef, &f.Notes, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	f.Status = kpform.Status(status)
	f.IssuedDate = timePtr(issued)
	f.CreatedAt = f.CreatedAt.UTC()
	f.UpdatedAt = f.UpdatedAt.UTC()
	return &f, nil
}

// Create persists a new form. Status defaults to Draft.
func (r *KPFormRepository) Create(ctx context.Context, f *models.KPForm) error {
	if f.Status == "" {
		f.Status = kpform.StatusDraft
	}
	now := r.now()
	res, err := r.conn(ctx).ExecContext(ctx,
		"INSERT INTO kp_forms (blotterReportId, formType, title, status, issuedDate, documentRef, notes, createdAt, updatedAt) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		f.CaseID, f.FormType, f.Title, string(f.Status), nullTime(f.IssuedDate), f.DocumentRef, f.Notes, now, now)
	if err != nil {
		return mapErr("kp form", "create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get kp form id: %w", err)
	}
	f.ID, f.CreatedAt, f.UpdatedAt = id, now, now
	r.touched(ctx, "kp_forms")
	return nil
}

// GetByID retrieves a form.
func (r *KPFormRepository) GetByID(ctx context.Context, id int64) (*models.KPForm, error) {
	f, err := scanKPForm(r.conn(ctx).QueryRowContext(ctx, "SELECT "+kpFormColumns+" FROM kp_forms WHERE id = ?", id))
	if err != nil {
		return nil, rowErr("kp form", id, err)
	}
	return f, nil
}

// Update replaces a form's fields.
func (r *KPFormRepository) Update(ctx context.Context, f *models.KPForm) error {
	now := r.now()
	res, err := r.conn(ctx).ExecContext(ctx,
		"UPDATE kp_forms SET formType = ?, title = ?, status = ?, issuedDate = ?, documentRef = ?, notes = ?, updatedAt = ? WHERE id = ?",
		f.FormType, f.Title, string(f.Status), nullTime(f.IssuedDate), f.DocumentRef, f.Notes, now, f.ID)
	if err != nil {
		return mapErr("kp form", "update", err)
	}
	if err := requireAffected("kp form", f.ID, res); err != nil {
		return err
	}
	f.UpdatedAt = now
	r.touched(ctx, "kp_forms")
	return nil
}

// Delete removes a form.
func (r *KPFormRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "kp form", "kp_forms", id)
}

// ListByCase lists a case's forms, newest first.
func (r *KPFormRepository) ListByCase(ctx context.Context, caseID int64) ([]*models.KPForm, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, "SELECT "+kpFormColumns+" FROM kp_forms WHERE blotterReportId = ? ORDER BY createdAt DESC, id DESC", caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list kp forms: %w", err)
	}
	return collect(rows, scanKPForm)
}

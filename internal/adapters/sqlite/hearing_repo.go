package sqlite

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/example/blotter/internal/core/hearing"
	"github.com/example/blotter/internal/models"
)

const hearingColumns = "id, blotterReportId, hearingDate, location, purpose, presidingOfficer, status, notes, createdAt, updatedAt"

// HearingRepository implements secondary.HearingRepository with SQLite.
type HearingRepository struct {
	base
}

func scanHearing(s scanner) (*models.Hearing, error) {
	var h models.Hearing
	var status string
	if err := s.Scan(&h.ID, &h.CaseID, &h.HearingDate, &h.Location, &h.Purpose, &h.PresidingOfficer, &status, &h.Notes, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, err
	}
	h.Status = hearing.Status(status)
	h.HearingDate = h.HearingDate.UTC()
	h.CreatedAt = h.CreatedAt.UTC()
	h.UpdatedAt = h.UpdatedAt.UTC()
	return &h, nil
}

// Create persists a new hearing. Status defaults to Scheduled.
func (r *HearingRepository) Create(ctx context.Context, h *models.Hearing) error {
	if h.Status == "" {
		h.Status = hearing.StatusScheduled
	}
	now := r.now()
	res, err := r.conn(ctx).ExecContext(ctx,
		"INSERT INTO hearings (blotterReportId, hearingDate, location, purpose, presidingOfficer, status, notes, createdAt, updatedAt) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		h.CaseID, h.HearingDate.UTC(), h.Location, h.Purpose, h.PresidingOfficer, string(h.Status), h.Notes, now, now)
	if err != nil {
		return mapErr("hearing", "create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get hearing id: %w", err)
	}
	h.ID, h.CreatedAt, h.UpdatedAt = id, now, now
	r.touched(ctx, "hearings")
	return nil
}

// GetByID retrieves a hearing.
func (r *HearingRepository) GetByID(ctx context.Context, id int64) (*models.Hearing, error) {
	h, err := scanHearing(r.conn(ctx).QueryRowContext(ctx, "SELECT "+hearingColumns+" FROM hearings WHERE id = ?", id))
	if err != nil {
		return nil, rowErr("hearing", id, err)
	}
	return h, nil
}

// Update replaces a hearing's fields.
func (r *HearingRepository) Update(ctx context.Context, h *models.Hearing) error {
	now := r.now()
	res, err := r.conn(ctx).ExecContext(ctx,
		"UPDATE hearings SET hearingDate = ?, location = ?, purpose = ?, presidingOfficer = ?, status = ?, notes = ?, updatedAt = ? WHERE id = ?",
		h.HearingDate.UTC(), h.Location, h.Purpose, h.PresidingOfficer, string(h.Status), h.Notes, now, h.ID)
	if err != nil {
		return mapErr("hearing", "update", err)
	}
	if err := requireAffected("hearing", h.ID, res); err != nil {
		return err
	}
	h.UpdatedAt = now
	r.touched(ctx, "hearings")
	return nil
}

// Delete removes a hearing.
func (r *HearingRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "hearing", "hearings", id)
}

// ListByCase lists a case's hearings, newest first.
func (r *HearingRepository) ListByCase(ctx context.Context, caseID int64) ([]*models.Hearing, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, "SELECT "+hearingColumns+" FROM hearings WHERE blotterReportId = ? ORDER BY createdAt DESC, id DESC", caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hearings: %w", err)
	}
	return collect(rows, scanHearing)
}

// ListUpcoming returns scheduled hearings at or after from, soonest first.
func (r *HearingRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]*models.Hearing, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, "SELECT "+hearingColumns+" FROM hearings WHERE status = ?", string(hearing.StatusScheduled))
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming hearings: %w", err)
	}
	all, err := collect(rows, scanHearing)
	if err != nil {
		return nil, err
	}
	var out []*models.Hearing
	for _, h := range all {
		if !h.HearingDate.Before(from) {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].HearingDate.Equal(out[j].HearingDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].HearingDate.Before(out[j].HearingDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Upsert inserts or replaces a hearing by ID.
func (r *HearingRepository) Upsert(ctx context.Context, h *models.Hearing) error {
	now := r.now()
	if h.CreatedAt.IsZero() {
		h.CreatedAt = now
	}
	if h.UpdatedAt.IsZero() {
		h.UpdatedAt = now
	}
	_, err := r.conn(ctx).ExecContext(ctx, `
		INSERT INTO hearings (id, blotterReportId, hearingDate, location, purpose, presidingOfficer, status, notes, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET blotterReportId = excluded.blotterReportId, hearingDate = excluded.hearingDate,
			location = excluded.location, purpose = excluded.purpose, presidingOfficer = excluded.presidingOfficer,
			status = excluded.status, notes = excluded.notes, updatedAt = excluded.updatedAt`,
		h.ID, h.CaseID, h.HearingDate.UTC(), h.Location, h.Purpose, h.PresidingOfficer, string(h.Status), h.Notes,
		h.CreatedAt.UTC(), h.UpdatedAt.UTC())
	if err != nil {
		return mapErr("hearing", "upsert", err)
	}
	r.touched(ctx, "hearings")
	return nil
}

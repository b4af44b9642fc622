package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/blotter/internal/core/summons"
	"github.com/example/blotter/internal/models"
)

const summonsColumns = "id, blotterReportId, respondentId, summonsNumber, issuedDate, appearanceDate, deliveryStatus, deliveryMethod, deliveredDate, complied, complianceDate, complianceNotes, createdAt, updatedAt"

// SummonsRepository implements secondary.SummonsRepository with SQLite.
type SummonsRepository struct {
	base
}

func scanSummons(s scanner) (*models.Summons, error) {
	var (
		sm         models.Summons
		delivery   string
		delivered  sql.NullTime
		compliance sql.NullTime
	)
	if err := s.Scan(&sm.ID, &sm.CaseID, &sm.RespondentID, &sm.SummonsNumber, &sm.IssuedDate, &sm.AppearanceDate, &delivery,
		&sm.DeliveryMethod, &delivered, &sm.Complied, &compliance, &sm.ComplianceNotes, &sm.CreatedAt, &sm.UpdatedAt); err != nil {
		return nil, err
	}
	sm.DeliveryStatus = summons.DeliveryStatus(delivery)
	sm.DeliveredDate = timePtr(delivered)
	sm.ComplianceDate = timePtr(compliance)
	sm.IssuedDate = sm.IssuedDate.UTC()
	sm.AppearanceDate = sm.AppearanceDate.UTC()
	sm.CreatedAt = sm.CreatedAt.UTC()
	sm.UpdatedAt = sm.UpdatedAt.UTC()
	return &sm, nil
}

// Create persists a new summons. Delivery defaults to Pending, issue date to now.
func (r *SummonsRepository) Create(ctx context.Context, s *models.Summons) error {
	if s.DeliveryStatus == "" {
		s.DeliveryStatus = summons.DeliveryPending
	}
	now := r.now()
	if s.IssuedDate.IsZero() {
		s.IssuedDate = now
	}
	res, err := r.conn(ctx).ExecContext(ctx, `
		INSERT INTO summons (blotterReportId, respondentId, summonsNumber, issuedDate, appearanceDate, deliveryStatus, deliveryMethod,
			deliveredDate, complied, complianceDate, complianceNotes, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.CaseID, s.RespondentID, s.SummonsNumber, s.IssuedDate.UTC(), s.AppearanceDate.UTC(), string(s.DeliveryStatus), s.DeliveryMethod,
		nullTime(s.DeliveredDate), s.Complied, nullTime(s.ComplianceDate), s.ComplianceNotes, now, now)
	if err != nil {
		return mapErr("summons", "create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get summons id: %w", err)
	}
	s.ID, s.CreatedAt, s.UpdatedAt = id, now, now
	r.touched(ctx, "summons")
	return nil
}

// GetByID retrieves a summons.
func (r *SummonsRepository) GetByID(ctx context.Context, id int64) (*models.Summons, error) {
	s, err := scanSummons(r.conn(ctx).QueryRowContext(ctx, "SELECT "+summonsColumns+" FROM summons WHERE id = ?", id))
	if err != nil {
		return nil, rowErr("summons", id, err)
	}
	return s, nil
}

// Update replaces a summons's delivery and compliance fields.
func (r *SummonsRepository) Update(ctx context.Context, s *models.Summons) error {
	now := r.now()
	res, err := r.conn(ctx).ExecContext(ctx, `
		UPDATE summons SET appearanceDate = ?, deliveryStatus = ?, deliveryMethod = ?, deliveredDate = ?, complied = ?,
			complianceDate = ?, complianceNotes = ?, updatedAt = ?
		WHERE id = ?`,
		s.AppearanceDate.UTC(), string(s.DeliveryStatus), s.DeliveryMethod, nullTime(s.DeliveredDate), s.Complied,
		nullTime(s.ComplianceDate), s.ComplianceNotes, now, s.ID)
	if err != nil {
		return mapErr("summons", "update", err)
	}
	if err := requireAffected("summons", s.ID, res); err != nil {
		return err
	}
	s.UpdatedAt = now
	r.touched(ctx, "summons")
	return nil
}

// Delete removes a summons.
func (r *SummonsRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "summons", "summons", id)
}

// ListByCase lists a case's summonses, newest first.
func (r *SummonsRepository) ListByCase(ctx context.Context, caseID int64) ([]*models.Summons, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, "SELECT "+summonsColumns+" FROM summons WHERE blotterReportId = ? ORDER BY createdAt DESC, id DESC", caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list summons: %w", err)
	}
	return collect(rows, scanSummons)
}

// ListByRespondent lists summonses served on a respondent, newest first.
func (r *SummonsRepository) ListByRespondent(ctx context.Context, respondentID int64) ([]*models.Summons, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, "SELECT "+summonsColumns+" FROM summons WHERE respondentId = ? ORDER BY createdAt DESC, id DESC", respondentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list summons: %w", err)
	}
	return collect(rows, scanSummons)
}

// ListUncomplied returns delivered summonses with no compliance recorded, delivered at
// or before cutoff, oldest delivery first.
func (r *SummonsRepository) ListUncomplied(ctx context.Context, cutoff time.Time) ([]*models.Summons, error) {
	rows, err := r.conn(ctx).QueryContext(ctx,
		"SELECT "+summonsColumns+" FROM summons WHERE deliveryStatus = ? AND complied = 0 AND deliveredDate IS NOT NULL ORDER BY deliveredDate, id",
		string(summons.DeliveryDelivered))
	if err != nil {
		return nil, fmt.Errorf("failed to list uncomplied summons: %w", err)
	}
	all, err := collect(rows, scanSummons)
	if err != nil {
		return nil, err
	}
	// Compare as instants, not as stored strings.
	var out []*models.Summons
	for _, s := range all {
		if summons.IsUncomplied(s.DeliveryStatus, s.Complied, s.DeliveredDate, cutoff) {
			out = append(out, s)
		}
	}
	return out, nil
}

// CountByCase counts the summonses issued on a case.
func (r *SummonsRepository) CountByCase(ctx context.Context, caseID int64) (int, error) {
	var n int
	if err := r.conn(ctx).QueryRowContext(ctx, "SELECT COUNT(*) FROM summons WHERE blotterReportId = ?", caseID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count summons: %w", err)
	}
	return n, nil
}

// Upsert inserts or replaces a summons by ID.
func (r *SummonsRepository) Upsert(ctx context.Context, s *models.Summons) error {
	now := r.now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}
	_, err := r.conn(ctx).ExecContext(ctx, `
		INSERT INTO summons (id, blotterReportId, respondentId, summonsNumber, issuedDate, appearanceDate, deliveryStatus, deliveryMethod,
			deliveredDate, complied, complianceDate, complianceNotes, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET blotterReportId = excluded.blotterReportId, respondentId = excluded.respondentId,
			summonsNumber = excluded.summonsNumber, issuedDate = excluded.issuedDate, appearanceDate = excluded.appearanceDate,
			deliveryStatus = excluded.deliveryStatus, deliveryMethod = excluded.deliveryMethod, deliveredDate = excluded.deliveredDate,
			complied = excluded.complied, complianceDate = excluded.complianceDate, complianceNotes = excluded.complianceNotes,
			updatedAt = excluded.updatedAt`,
		s.ID, s.CaseID, s.RespondentID, s.SummonsNumber, s.IssuedDate.UTC(), s.AppearanceDate.UTC(), string(s.DeliveryStatus),
		s.DeliveryMethod, nullTime(s.DeliveredDate), s.Complied, nullTime(s.ComplianceDate), s.ComplianceNotes,
		s.CreatedAt.UTC(), s.UpdatedAt.UTC())
	if err != nil {
		return mapErr("summons", "upsert", err)
	}
	r.touched(ctx, "summons")
	return nil
}

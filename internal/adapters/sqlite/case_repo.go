package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/blotter/internal/core/blotter"
	"github.com/example/blotter/internal/errs"
	"github.com/example/blotter/internal/models"
)

const caseColumns = "id, caseNumber, incidentType, narrative, incidentLocation, incidentDate, dateFiled, status, priority, complainantName, complainantContact, complainantAddress, filedByUserId, assignedOfficerIds, isArchived, createdAt, updatedAt"

// CaseRepository implements secondary.CaseRepository with SQLite.
type CaseRepository struct {
	base
}

func scanCase(s scanner) (*models.Case, error) {
	var (
		c            models.Case
		incidentDate sql.NullTime
		status       string
		priority     string
		filedBy      sql.NullInt64
		officers     string
	)
	err := s.Scan(&c.ID, &c.CaseNumber, &c.IncidentType, &c.Narrative, &c.IncidentLocation, &incidentDate, &c.DateFiled,
		&status, &priority, &c.ComplainantName, &c.ComplainantContact, &c.ComplainantAddress, &filedBy, &officers,
		&c.IsArchived, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.IncidentDate = timeOrZero(incidentDate)
	c.Status = blotter.Status(status)
	c.Priority = models.Priority(priority)
	c.FiledByUserID = idPtr(filedBy)
	if c.AssignedOfficerIDs, err = decodeIDs(officers); err != nil {
		return nil, err
	}
	c.DateFiled = c.DateFiled.UTC()
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}

func applyCaseDefaults(c *models.Case) {
	if c.Status == "" {
		c.Status = blotter.InitialStatus()
	}
	if c.Priority == "" {
		c.Priority = models.PriorityNormal
	}
	if c.AssignedOfficerIDs == nil {
		c.AssignedOfficerIDs = []int64{}
	}
}

// Create persists a new case. A blank case number is generated from the filing year.
func (r *CaseRepository) Create(ctx context.Context, c *models.Case) error {
	now := r.now()
	applyCaseDefaults(c)
	if c.DateFiled.IsZero() {
		c.DateFiled = now
	}
	if c.CaseNumber == "" {
		number, err := r.NextCaseNumber(ctx, c.DateFiled.Year())
		if err != nil {
			return err
		}
		c.CaseNumber = number
	}
	officers, err := encodeIDs(c.AssignedOfficerIDs)
	if err != nil {
		return err
	}

	res, err := r.conn(ctx).ExecContext(ctx, `
		INSERT INTO blotter_reports (caseNumber, incidentType, narrative, incidentLocation, incidentDate, dateFiled, status, priority,
			complainantName, complainantContact, complainantAddress, filedByUserId, assignedOfficerIds, isArchived, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.CaseNumber, c.IncidentType, c.Narrative, c.IncidentLocation, nullZeroTime(c.IncidentDate), c.DateFiled.UTC(),
		string(c.Status), string(c.Priority), c.ComplainantName, c.ComplainantContact, c.ComplainantAddress,
		nullID(c.FiledByUserID), officers, c.IsArchived, now, now)
	if err != nil {
		return mapErr("case", "create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get case id: %w", err)
	}
	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	r.touched(ctx, "blotter_reports")
	return nil
}

// GetByID retrieves a case by its ID.
func (r *CaseRepository) GetByID(ctx context.Context, id int64) (*models.Case, error) {
	c, err := scanCase(r.conn(ctx).QueryRowContext(ctx, "SELECT "+caseColumns+" FROM blotter_reports WHERE id = ?", id))
	if err != nil {
		return nil, rowErr("case", id, err)
	}
	return c, nil
}

// GetByCaseNumber retrieves a case by its number.
func (r *CaseRepository) GetByCaseNumber(ctx context.Context, caseNumber string) (*models.Case, error) {
	c, err := scanCase(r.conn(ctx).QueryRowContext(ctx, "SELECT "+caseColumns+" FROM blotter_reports WHERE caseNumber = ?", caseNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFoundBy("case", "number", caseNumber)
	}
	if err != nil {
		return nil, mapErr("case", "get", err)
	}
	return c, nil
}

// Update replaces every mutable field. The case number never changes.
func (r *CaseRepository) Update(ctx context.Context, c *models.Case) error {
	applyCaseDefaults(c)
	officers, err := encodeIDs(c.AssignedOfficerIDs)
	if err != nil {
		return err
	}
	now := r.now()
	res, err := r.conn(ctx).ExecContext(ctx, `
		UPDATE blotter_reports SET incidentType = ?, narrative = ?, incidentLocation = ?, incidentDate = ?, dateFiled = ?,
			status = ?, priority = ?, complainantName = ?, complainantContact = ?, complainantAddress = ?,
			filedByUserId = ?, assignedOfficerIds = ?, isArchived = ?, updatedAt = ?
		WHERE id = ?`,
		c.IncidentType, c.Narrative, c.IncidentLocation, nullZeroTime(c.IncidentDate), c.DateFiled.UTC(),
		string(c.Status), string(c.Priority), c.ComplainantName, c.ComplainantContact, c.ComplainantAddress,
		nullID(c.FiledByUserID), officers, c.IsArchived, now, c.ID)
	if err != nil {
		return mapErr("case", "update", err)
	}
	if err := requireAffected("case", c.ID, res); err != nil {
		return err
	}
	c.UpdatedAt = now
	r.touched(ctx, "blotter_reports")
	return nil
}

// UpdateStatus writes status and archival.
func (r *CaseRepository) UpdateStatus(ctx context.Context, id int64, status blotter.Status, archived bool) error {
	res, err := r.conn(ctx).ExecContext(ctx,
		"UPDATE blotter_reports SET status = ?, isArchived = ?, updatedAt = ? WHERE id = ?",
		string(status), archived, r.now(), id)
	if err != nil {
		return mapErr("case", "update", err)
	}
	if err := requireAffected("case", id, res); err != nil {
		return err
	}
	r.touched(ctx, "blotter_reports")
	return nil
}

// Delete removes a case and every record it owns in one transaction.
func (r *CaseRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteWithDependents(ctx, "case", "blotter_reports", id)
}

// List retrieves cases matching the filters, newest first.
func (r *CaseRepository) List(ctx context.Context, filters models.CaseFilters) ([]*models.Case, error) {
	query := "SELECT " + caseColumns + " FROM blotter_reports WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filters.Status))
	}
	if filters.OfficerID > 0 {
		query += " AND EXISTS (SELECT 1 FROM json_each(blotter_reports.assignedOfficerIds) WHERE value = ?)"
		args = append(args, filters.OfficerID)
	}
	if filters.FiledByUserID > 0 {
		query += " AND filedByUserId = ?"
		args = append(args, filters.FiledByUserID)
	}
	if !filters.IncludeArchived {
		query += " AND isArchived = 0"
	}
	query += " ORDER BY createdAt DESC, id DESC" + limitClause(filters.Limit)

	rows, err := r.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	return collect(rows, scanCase)
}

// Search matches the query against number, narrative, incident type and complainant.
func (r *CaseRepository) Search(ctx context.Context, query string, limit int) ([]*models.Case, error) {
	pattern := "%" + strings.TrimSpace(query) + "%"
	rows, err := r.conn(ctx).QueryContext(ctx,
		"SELECT "+caseColumns+" FROM blotter_reports WHERE caseNumber LIKE ? OR narrative LIKE ? OR incidentType LIKE ? OR complainantName LIKE ? ORDER BY createdAt DESC, id DESC"+limitClause(limit),
		pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search cases: %w", err)
	}
	return collect(rows, scanCase)
}

// NextCaseNumber returns YYYY-NNN, one past the highest number filed in year.
func (r *CaseRepository) NextCaseNumber(ctx context.Context, year int) (string, error) {
	var maxSeq int
	err := r.conn(ctx).QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(caseNumber, 6) AS INTEGER)), 0) FROM blotter_reports WHERE caseNumber LIKE ?",
		fmt.Sprintf("%04d-%%", year)).Scan(&maxSeq)
	if err != nil {
		return "", fmt.Errorf("failed to get next case number: %w", err)
	}
	return fmt.Sprintf("%04d-%03d", year, maxSeq+1), nil
}

// CountByStatus counts non-archived cases per status.
func (r *CaseRepository) CountByStatus(ctx context.Context) (map[blotter.Status]int, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, "SELECT status, COUNT(*) FROM blotter_reports WHERE isArchived = 0 GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to count cases: %w", err)
	}
	defer rows.Close()
	counts := make(map[blotter.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[blotter.Status(status)] = n
	}
	return counts, rows.Err()
}

// Upsert inserts the case with its own ID or replaces the stored row.
func (r *CaseRepository) Upsert(ctx context.Context, c *models.Case) error {
	applyCaseDefaults(c)
	officers, err := encodeIDs(c.AssignedOfficerIDs)
	if err != nil {
		return err
	}
	now := r.now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
	_, err = r.conn(ctx).ExecContext(ctx, `
		INSERT INTO blotter_reports (id, caseNumber, incidentType, narrative, incidentLocation, incidentDate, dateFiled, status, priority,
			complainantName, complainantContact, complainantAddress, filedByUserId, assignedOfficerIds, isArchived, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET caseNumber = excluded.caseNumber, incidentType = excluded.incidentType,
			narrative = excluded.narrative, incidentLocation = excluded.incidentLocation, incidentDate = excluded.incidentDate,
			dateFiled = excluded.dateFiled, status = excluded.status, priority = excluded.priority,
			complainantName = excluded.complainantName, complainantContact = excluded.complainantContact,
			complainantAddress = excluded.complainantAddress, filedByUserId = excluded.filedByUserId,
			assignedOfficerIds = excluded.assignedOfficerIds, isArchived = excluded.isArchived, updatedAt = excluded.updatedAt`,
		c.ID, c.CaseNumber, c.IncidentType, c.Narrative, c.IncidentLocation, nullZeroTime(c.IncidentDate), c.DateFiled.UTC(),
		string(c.Status), string(c.Priority), c.ComplainantName, c.ComplainantContact, c.ComplainantAddress,
		nullID(c.FiledByUserID), officers, c.IsArchived, c.CreatedAt.UTC(), c.UpdatedAt.UTC())
	if err != nil {
		return mapErr("case", "upsert", err)
	}
	r.touched(ctx, "blotter_reports")
	return nil
}

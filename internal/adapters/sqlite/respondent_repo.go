package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/blotter/internal/core/respondent"
	"github.com/example/blotter/internal/models"
)

const (
	respondentColumns = "id, blotterReportId, personId, accusation, relationshipToComplainant, cooperationStatus, appearanceDate, statementDate, createdAt, updatedAt"
	statementColumns  = "id, respondentId, blotterReportId, statement, submittedVia, submittedAt, verifiedBy, verifiedAt, officerNotes, createdAt"
)

// RespondentRepository implements secondary.RespondentRepository with SQLite.
type RespondentRepository struct {
	base
}

func scanRespondent(s scanner) (*models.Respondent, error) {
	var (
		r          models.Respondent
		personID   sql.NullInt64
		status     string
		appearance sql.NullTime
		statement  sql.NullTime
	)
	if err := s.Scan(&r.ID, &r.CaseID, &personID, &r.Accusation, &r.RelationshipToComplainant, &status, &appearance, &statement, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.PersonID = idPtr(personID)
	r.CooperationStatus = respondent.CooperationStatus(status)
	r.AppearanceDate = timePtr(appearance)
	r.StatementDate = timePtr(statement)
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	return &r, nil
}

// Create persists a new respondent. Status defaults to Notified.
func (r *RespondentRepository) Create(ctx context.Context, rec *models.Respondent) error {
	if rec.CooperationStatus == "" {
		rec.CooperationStatus = respondent.StatusNotified
	}
	now := r.now()
	res, err := r.conn(ctx).ExecContext(ctx,
		"INSERT INTO respondents (blotterReportId, personId, accusation, relationshipToComplainant, cooperationStatus, appearanceDate, statementDate, createdAt, updatedAt) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		rec.CaseID, nullID(rec.PersonID), rec.Accusation, rec.RelationshipToComplainant, string(rec.CooperationStatus),
		nullTime(rec.AppearanceDate), nullTime(rec.StatementDate), now, now)
	if err != nil {
		return mapErr("respondent", "create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get respondent id: %w", err)
	}
	rec.ID, rec.CreatedAt, rec.UpdatedAt = id, now, now
	r.touched(ctx, "respondents")
	return nil
}

// GetByID retrieves a respondent.
func (r *RespondentRepository) GetByID(ctx context.Context, id int64) (*models.Respondent, error) {
	rec, err := scanRespondent(r.conn(ctx).QueryRowContext(ctx, "SELECT "+respondentColumns+" FROM respondents WHERE id = ?", id))
	if err != nil {
		return nil, rowErr("respondent", id, err)
	}
	return rec, nil
}

// Update replaces a respondent's fields, status and dates included.
func (r *RespondentRepository) Update(ctx context.Context, rec *models.Respondent) error {
	now := r.now()
	res, err := r.conn(ctx).ExecContext(ctx,
		"UPDATE respondents SET personId = ?, accusation = ?, relationshipToComplainant = ?, cooperationStatus = ?, appearanceDate = ?, statementDate = ?, updatedAt = ? WHERE id = ?",
		nullID(rec.PersonID), rec.Accusation, rec.RelationshipToComplainant, string(rec.CooperationStatus),
		nullTime(rec.AppearanceDate), nullTime(rec.StatementDate), now, rec.ID)
	if err != nil {
		return mapErr("respondent", "update", err)
	}
	if err := requireAffected("respondent", rec.ID, res); err != nil {
		return err
	}
	rec.UpdatedAt = now
	r.touched(ctx, "respondents")
	return nil
}

// Delete removes a respondent with its statements and summonses.
func (r *RespondentRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteWithDependents(ctx, "respondent", "respondents", id)
}

// ListByCase lists a case's respondents, newest first.
func (r *RespondentRepository) ListByCase(ctx context.Context, caseID int64) ([]*models.Respondent, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, "SELECT "+respondentColumns+" FROM respondents WHERE blotterReportId = ? ORDER BY createdAt DESC, id DESC", caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list respondents: %w", err)
	}
	return collect(rows, scanRespondent)
}

// ListByPerson lists every respondent record linked to a person.
func (r *RespondentRepository) ListByPerson(ctx context.Context, personID int64) ([]*models.Respondent, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, "SELECT "+respondentColumns+" FROM respondents WHERE personId = ? ORDER BY createdAt DESC, id DESC", personID)
	if err != nil {
		return nil, fmt.Errorf("failed to list respondents: %w", err)
	}
	return collect(rows, scanRespondent)
}

// CountByCooperationStatus counts respondents per status, for one case or all.
func (r *RespondentRepository) CountByCooperationStatus(ctx context.Context, caseID int64) (map[respondent.CooperationStatus]int, error) {
	query := "SELECT cooperationStatus, COUNT(*) FROM respondents"
	args := []any{}
	if caseID > 0 {
		query += " WHERE blotterReportId = ?"
		args = append(args, caseID)
	}
	query += " GROUP BY cooperationStatus"

	rows, err := r.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count respondents: %w", err)
	}
	defer rows.Close()
	counts := make(map[respondent.CooperationStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[respondent.CooperationStatus(status)] = n
	}
	return counts, rows.Err()
}

// Upsert inserts or replaces a respondent by ID.
func (r *RespondentRepository) Upsert(ctx context.Context, rec *models.Respondent) error {
	now := r.now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}
	_, err := r.conn(ctx).ExecContext(ctx, `
		INSERT INTO respondents (id, blotterReportId, personId, accusation, relationshipToComplainant, cooperationStatus, appearanceDate, statementDate, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET blotterReportId = excluded.blotterReportId, personId = excluded.personId,
			accusation = excluded.accusation, relationshipToComplainant = excluded.relationshipToComplainant,
			cooperationStatus = excluded.cooperationStatus, appearanceDate = excluded.appearanceDate,
			statementDate = excluded.statementDate, updatedAt = excluded.updatedAt`,
		rec.ID, rec.CaseID, nullID(rec.PersonID), rec.Accusation, rec.RelationshipToComplainant, string(rec.CooperationStatus),
		nullTime(rec.AppearanceDate), nullTime(rec.StatementDate), rec.CreatedAt.UTC(), rec.UpdatedAt.UTC())
	if err != nil {
		return mapErr("respondent", "upsert", err)
	}
	r.touched(ctx, "respondents")
	return nil
}

// StatementRepository implements secondary.StatementRepository with SQLite.
type StatementRepository struct {
	base
}

func scanStatement(s scanner) (*models.RespondentStatement, error) {
	var st models.RespondentStatement
	var verifiedAt sql.NullTime
	if err := s.Scan(&st.ID, &st.RespondentID, &st.CaseID, &st.Statement, &st.SubmittedVia, &st.SubmittedAt, &st.VerifiedBy, &verifiedAt, &st.OfficerNotes, &st.CreatedAt); err != nil {
		return nil, err
	}
	st.VerifiedAt = timePtr(verifiedAt)
	st.SubmittedAt = st.SubmittedAt.UTC()
	st.CreatedAt = st.CreatedAt.UTC()
	return &st, nil
}

// Create persists a new statement. A zero SubmittedAt is stamped with the store clock.
func (r *StatementRepository) Create(ctx context.Context, s *models.RespondentStatement) error {
	now := r.now()
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = now
	}
	res, err := r.conn(ctx).ExecContext(ctx,
		"INSERT INTO respondent_statements (respondentId, blotterReportId, statement, submittedVia, submittedAt, verifiedBy, verifiedAt, officerNotes, createdAt) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		s.RespondentID, s.CaseID, s.Statement, s.SubmittedVia, s.SubmittedAt.UTC(), s.VerifiedBy, nullTime(s.VerifiedAt), s.OfficerNotes, now)
	if err != nil {
		return mapErr("statement", "create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get statement id: %w", err)
	}
	s.ID, s.CreatedAt = id, now
	r.touched(ctx, "respondent_statements")
	return nil
}

// GetByID retrieves a statement.
func (r *StatementRepository) GetByID(ctx context.Context, id int64) (*models.RespondentStatement, error) {
	s, err := scanStatement(r.conn(ctx).QueryRowContext(ctx, "SELECT "+statementColumns+" FROM respondent_statements WHERE id = ?", id))
	if err != nil {
		return nil, rowErr("statement", id, err)
	}
	return s, nil
}

// Update replaces a statement's text, verification and notes.
func (r *StatementRepository) Update(ctx context.Context, s *models.RespondentStatement) error {
	res, err := r.conn(ctx).ExecContext(ctx,
		"UPDATE respondent_statements SET statement = ?, submittedVia = ?, submittedAt = ?, verifiedBy = ?, verifiedAt = ?, officerNotes = ? WHERE id = ?",
		s.Statement, s.SubmittedVia, s.SubmittedAt.UTC(), s.VerifiedBy, nullTime(s.VerifiedAt), s.OfficerNotes, s.ID)
	if err != nil {
		return mapErr("statement", "update", err)
	}
	if err := requireAffected("statement", s.ID, res); err != nil {
		return err
	}
	r.touched(ctx, "respondent_statements")
	return nil
}

// ListByRespondent lists a respondent's statements, newest first.
func (r *StatementRepository) ListByRespondent(ctx context.Context, respondentID int64) ([]*models.RespondentStatement, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, "SELECT "+statementColumns+" FROM respondent_statements WHERE respondentId = ? ORDER BY createdAt DESC, id DESC", respondentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}
	return collect(rows, scanStatement)
}

// ListByCase lists every statement on a case, newest first.
func (r *StatementRepository) ListByCase(ctx context.Context, caseID int64) ([]*models.RespondentStatement, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, "SELECT "+statementColumns+" FROM respondent_statements WHERE blotterReportId = ? ORDER BY createdAt DESC, id DESC", caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}
	return collect(rows, scanStatement)
}

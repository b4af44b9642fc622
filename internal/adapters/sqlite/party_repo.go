package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/blotter/internal/models"
)

const (
	suspectColumns  = "id, blotterReportId, personId, firstName, lastName, alias, age, gender, address, description, createdAt"
	witnessColumns  = "id, blotterReportId, personId, firstName, lastName, contactNumber, address, statement, createdAt"
	evidenceColumns = "id, blotterReportId, evidenceType, description, locationFound, collectedBy, collectedDate, mediaRefs, chainOfCustody, createdAt"
)

// SuspectRepository implements secondary.SuspectRepository with SQLite.
type SuspectRepository struct {
	base
}

func scanSuspect(s scanner) (*models.Suspect, error) {
	var sp models.Suspect
	var personID sql.NullInt64
	if err := s.Scan(&sp.ID, &sp.CaseID, &personID, &sp.FirstName, &sp.LastName, &sp.Alias, &sp.Age, &sp.Gender, &sp.Address, &sp.Description, &sp.CreatedAt); err != nil {
		return nil, err
	}
	sp.PersonID = idPtr(personID)
	sp.CreatedAt = sp.CreatedAt.UTC()
	return &sp, nil
}

// Create persists a new suspect.
func (r *SuspectRepository) Create(ctx context.Context, s *models.Suspect) error {
	now := r.now()
	res, err := r.conn(ctx).ExecContext(ctx,
		"INSERT INTO suspects (blotterReportId, personId, firstName, lastName, alias, age, gender, address, description, createdAt) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		s.CaseID, nullID(s.PersonID), s.FirstName, s.LastName, s.Alias, s.Age, s.Gender, s.Address, s.Description, now)
	if err != nil {
		return mapErr("suspect", "create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get suspect id: %w", err)
	}
	s.ID, s.CreatedAt = id, now
	r.touched(ctx, "suspects")
	return nil
}

// GetByID retrieves a suspect.
func (r *SuspectRepository) GetByID(ctx context.Context, id int64) (*models.Suspect, error) {
	s, err := scanSuspect(r.conn(ctx).QueryRowContext(ctx, "SELECT "+suspectColumns+" FROM suspects WHERE id = ?", id))
	if err != nil {
		return nil, rowErr("suspect", id, err)
	}
	return s, nil
}

// Update replaces a suspect's fields. The owning case never changes.
func (r *SuspectRepository) Update(ctx context.Context, s *models.Suspect) error {
	res, err := r.conn(ctx).ExecContext(ctx,
		"UPDATE suspects SET personId = ?, firstName = ?, lastName = ?, alias = ?, age = ?, gender = ?, address = ?, description = ? WHERE id = ?",
		nullID(s.PersonID), s.FirstName, s.LastName, s.Alias, s.Age, s.Gender, s.Address, s.Description, s.ID)
	if err != nil {
		return mapErr("suspect", "update", err)
	}
	if err := requireAffected("suspect", s.ID, res); err != nil {
		return err
	}
	r.touched(ctx, "suspects")
	return nil
}

// Delete removes a suspect.
func (r *SuspectRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "suspect", "suspects", id)
}

// ListByCase lists a case's suspects, newest first.
func (r *SuspectRepository) ListByCase(ctx context.Context, caseID int64) ([]*models.Suspect, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, "SELECT "+suspectColumns+" FROM suspects WHERE blotterReportId = ? ORDER BY createdAt DESC, id DESC", caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list suspects: %w", err)
	}
	return collect(rows, scanSuspect)
}

// WitnessRepository implements secondary.WitnessRepository with SQLite.
type WitnessRepository struct {
	base
}

func scanWitness(s scanner) (*models.Witness, error) {
	var w models.Witness
	var personID sql.NullInt64
	if err := s.Scan(&w.ID, &w.CaseID, &personID, &w.FirstName, &w.LastName, &w.ContactNumber, &w.Address, &w.Statement, &w.CreatedAt); err != nil {
		return nil, err
	}
	w.PersonID = idPtr(personID)
	w.CreatedAt = w.CreatedAt.UTC()
	return &w, nil
}

// Create persists a new witness.
func (r *WitnessRepository) Create(ctx context.Context, w *models.Witness) error {
	now := r.now()
	res, err := r.conn(ctx).ExecContext(ctx,
		"INSERT INTO witnesses (blotterReportId, personId, firstName, lastName, contactNumber, address, statement, createdAt) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		w.CaseID, nullID(w.PersonID), w.FirstName, w.LastName, w.ContactNumber, w.Address, w.Statement, now)
	if err != nil {
		return mapErr("witness", "create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get witness id: %w", err)
	}
	w.ID, w.CreatedAt = id, now
	r.touched(ctx, "witnesses")
	return nil
}

// GetByID retrieves a witness.
func (r *WitnessRepository) GetByID(ctx context.Context, id int64) (*models.Witness, error) {
	w, err := scanWitness(r.conn(ctx).QueryRowContext(ctx, "SELECT "+witnessColumns+" FROM witnesses WHERE id = ?", id))
	if err != nil {
		return nil, rowErr("witness", id, err)
	}
	return w, nil
}

// Update replaces a witness's fields.
func (r *WitnessRepository) Update(ctx context.Context, w *models.Witness) error {
	res, err := r.conn(ctx).ExecContext(ctx,
		"UPDATE witnesses SET personId = ?, firstName = ?, lastName = ?, contactNumber = ?, address = ?, statement = ? WHERE id = ?",
		nullID(w.PersonID), w.FirstName, w.LastName, w.ContactNumber, w.Address, w.Statement, w.ID)
	if err != nil {
		return mapErr("witness", "update", err)
	}
	if err := requireAffected("witness", w.ID, res); err != nil {
		return err
	}
	r.touched(ctx, "witnesses")
	return nil
}

// Delete removes a witness.
func (r *WitnessRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "witness", "witnesses", id)
}

// ListByCase lists a case's witnesses, newest first.
func (r *WitnessRepository) ListByCase(ctx context.Context, caseID int64) ([]*models.Witness, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, "SELECT "+witnessColumns+" FROM witnesses WHERE blotterReportId = ? ORDER BY createdAt DESC, id DESC", caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list witnesses: %w", err)
	}
	return collect(rows, scanWitness)
}

// EvidenceRepository implements secondary.EvidenceRepository with SQLite.
type EvidenceRepository struct {
	base
}

func scanEvidence(s scanner) (*models.Evidence, error) {
	var e models.Evidence
	var collected sql.NullTime
	var refs string
	if err := s.Scan(&e.ID, &e.CaseID, &e.EvidenceType, &e.Description, &e.LocationFound, &e.CollectedBy, &collected, &refs, &e.ChainOfCustody, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.CollectedDate = timeOrZero(collected)
	var err error
	if e.MediaRefs, err = decodeStrings(refs); err != nil {
		return nil, err
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return &e, nil
}

// Create persists a new evidence item. Media are stored as references only.
func (r *EvidenceRepository) Create(ctx context.Context, e *models.Evidence) error {
	refs, err := encodeStrings(e.MediaRefs)
	if err != nil {
		return err
	}
	now := r.now()
	res, err := r.conn(ctx).ExecContext(ctx,
		"INSERT INTO evidence (blotterReportId, evidenceType, description, locationFound, collectedBy, collectedDate, mediaRefs, chainOfCustody, createdAt) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		e.CaseID, e.EvidenceType, e.Description, e.LocationFound, e.CollectedBy, nullZeroTime(e.CollectedDate), refs, e.ChainOfCustody, now)
	if err != nil {
		return mapErr("evidence", "create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get evidence id: %w", err)
	}
	e.ID, e.CreatedAt = id, now
	if e.MediaRefs == nil {
		e.MediaRefs = []string{}
	}
	r.touched(ctx, "evidence")
	return nil
}

// GetByID retrieves an evidence item.
func (r *EvidenceRepository) GetByID(ctx context.Context, id int64) (*models.Evidence, error) {
	e, err := scanEvidence(r.conn(ctx).QueryRowContext(ctx, "SELECT "+evidenceColumns+" FROM evidence WHERE id = ?", id))
	if err != nil {
		return nil, rowErr("evidence", id, err)
	}
	return e, nil
}

// Update replaces an evidence item's fields.
func (r *EvidenceRepository) Update(ctx context.Context, e *models.Evidence) error {
	refs, err := encodeStrings(e.MediaRefs)
	if err != nil {
		return err
	}
	res, err := r.conn(ctx).ExecContext(ctx,
		"UPDATE evidence SET evidenceType = ?, description = ?, locationFound = ?, collectedBy = ?, collectedDate = ?, mediaRefs = ?, chainOfCustody = ? WHERE id = ?",
		e.EvidenceType, e.Description, e.LocationFound, e.CollectedBy, nullZeroTime(e.CollectedDate), refs, e.ChainOfCustody, e.ID)
	if err != nil {
		return mapErr("evidence", "update", err)
	}
	if err := requireAffected("evidence", e.ID, res); err != nil {
		return err
	}
	r.touched(ctx, "evidence")
	return nil
}

// Delete removes an evidence item.
func (r *EvidenceRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "evidence", "evidence", id)
}

// ListByCase lists a case's evidence, newest first.
func (r *EvidenceRepository) ListByCase(ctx context.Context, caseID int64) ([]*models.Evidence, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, "SELECT "+evidenceColumns+" FROM evidence WHERE blotterReportId = ? ORDER BY createdAt DESC, id DESC", caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evidence: %w", err)
	}
	return collect(rows, scanEvidence)
}

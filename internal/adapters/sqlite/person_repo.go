package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/blotter/internal/errs"
	"github.com/example/blotter/internal/models"
)

const personColumns = "id, firstName, lastName, contactNumber, address, personType, createdAt, updatedAt"

// PersonRepository implements secondary.PersonRepository with SQLite.
type PersonRepository struct {
	base
}

func scanPerson(s scanner) (*models.Person, error) {
	var p models.Person
	var personType string
	if err := s.Scan(&p.ID, &p.FirstName, &p.LastName, &p.ContactNumber, &p.Address, &personType, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.PersonType = models.PersonType(personType)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

// Create persists a new person. The name/contact triple must be unique.
func (r *PersonRepository) Create(ctx context.Context, p *models.Person) error {
	if p.PersonType == "" {
		p.PersonType = models.PersonComplainant
	}
	now := r.now()
	res, err := r.conn(ctx).ExecContext(ctx,
		"INSERT INTO persons (firstName, lastName, contactNumber, address, personType, createdAt, updatedAt) VALUES (?, ?, ?, ?, ?, ?, ?)",
		p.FirstName, p.LastName, p.ContactNumber, p.Address, string(p.PersonType), now, now)
	if err != nil {
		return mapErr("person", "create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get person id: %w", err)
	}
	p.ID, p.CreatedAt, p.UpdatedAt = id, now, now
	r.touched(ctx, "persons")
	return nil
}

// GetByID retrieves a person by ID.
func (r *PersonRepository) GetByID(ctx context.Context, id int64) (*models.Person, error) {
	p, err := scanPerson(r.conn(ctx).QueryRowContext(ctx, "SELECT "+personColumns+" FROM persons WHERE id = ?", id))
	if err != nil {
		return nil, rowErr("person", id, err)
	}
	return p, nil
}

// FindByKey looks a person up by exact name and contact number.
func (r *PersonRepository) FindByKey(ctx context.Context, key models.PersonKey) (*models.Person, error) {
	key = key.Normalize()
	p, err := scanPerson(r.conn(ctx).QueryRowContext(ctx,
		"SELECT "+personColumns+" FROM persons WHERE firstName = ? AND lastName = ? AND contactNumber = ?",
		key.FirstName, key.LastName, key.ContactNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFoundBy("person", "name", key.FirstName+" "+key.LastName)
	}
	if err != nil {
		return nil, mapErr("person", "get", err)
	}
	return p, nil
}

// Update replaces a person's fields.
func (r *PersonRepository) Update(ctx context.Context, p *models.Person) error {
	now := r.now()
	res, err := r.conn(ctx).ExecContext(ctx,
		"UPDATE persons SET firstName = ?, lastName = ?, contactNumber = ?, address = ?, personType = ?, updatedAt = ? WHERE id = ?",
		p.FirstName, p.LastName, p.ContactNumber, p.Address, string(p.PersonType), now, p.ID)
	if err != nil {
		return mapErr("person", "update", err)
	}
	if err := requireAffected("person", p.ID, res); err != nil {
		return err
	}
	p.UpdatedAt = now
	r.touched(ctx, "persons")
	return nil
}

// Delete removes a person, its history, and unlinks its suspect/witness/respondent rows.
func (r *PersonRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteWithDependents(ctx, "person", "persons", id)
}

// Search matches first name, last name or contact number.
func (r *PersonRepository) Search(ctx context.Context, query string, limit int) ([]*models.Person, error) {
	pattern := "%" + strings.TrimSpace(query) + "%"
	rows, err := r.conn(ctx).QueryContext(ctx,
		"SELECT "+personColumns+" FROM persons WHERE firstName LIKE ? OR lastName LIKE ? OR contactNumber LIKE ? OR (firstName || ' ' || lastName) LIKE ? ORDER BY lastName, firstName, id"+limitClause(limit),
		pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search persons: %w", err)
	}
	return collect(rows, scanPerson)
}

// Upsert inserts or replaces a person by ID.
func (r *PersonRepository) Upsert(ctx context.Context, p *models.Person) error {
	now := r.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	_, err := r.conn(ctx).ExecContext(ctx, `
		INSERT INTO persons (id, firstName, lastName, contactNumber, address, personType, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET firstName = excluded.firstName, lastName = excluded.lastName,
			contactNumber = excluded.contactNumber, address = excluded.address, personType = excluded.personType,
			updatedAt = excluded.updatedAt`,
		p.ID, p.FirstName, p.LastName, p.ContactNumber, p.Address, string(p.PersonType), p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	if err != nil {
		return mapErr("person", "upsert", err)
	}
	r.touched(ctx, "persons")
	return nil
}

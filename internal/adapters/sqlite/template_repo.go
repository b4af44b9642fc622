package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/blotter/internal/errs"
	"github.com/example/blotter/internal/models"
)

const templateColumns = "id, name, incidentType, narrativeTemplate, defaultPriority, usageCount, createdAt, updatedAt"

// TemplateRepository implements secondary.TemplateRepository with SQLite.
type TemplateRepository struct {
	base
}

func scanTemplate(s scanner) (*models.CaseTemplate, error) {
	var t models.CaseTemplate
	var priority string
	if err := s.Scan(&t.ID, &t.Name, &t.IncidentType, &t.NarrativeTemplate, &priority, &t.UsageCount, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.DefaultPriority = models.Priority(priority)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

// Create persists a template. Names are unique.
func (r *TemplateRepository) Create(ctx context.Context, t *models.CaseTemplate) error {
	if t.DefaultPriority == "" {
		t.DefaultPriority = models.PriorityNormal
	}
	now := r.now()
	res, err := r.conn(ctx).ExecContext(ctx,
		"INSERT INTO case_templates (name, incidentType, narrativeTemplate, defaultPriority, usageCount, createdAt, updatedAt) VALUES (?, ?, ?, ?, ?, ?, ?)",
		t.Name, t.IncidentType, t.NarrativeTemplate, string(t.DefaultPriority), t.UsageCount, now, now)
	if err != nil {
		return mapErr("case template", "create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get case template id: %w", err)
	}
	t.ID, t.CreatedAt, t.UpdatedAt = id, now, now
	r.touched(ctx, "case_templates")
	return nil
}

// GetByID retrieves a template.
func (r *TemplateRepository) GetByID(ctx context.Context, id int64) (*models.CaseTemplate, error) {
	t, err := scanTemplate(r.conn(ctx).QueryRowContext(ctx, "SELECT "+templateColumns+" FROM case_templates WHERE id = ?", id))
	if err != nil {
		return nil, rowErr("case template", id, err)
	}
	return t, nil
}

// GetByName retrieves a template by its unique name.
func (r *TemplateRepository) GetByName(ctx context.Context, name string) (*models.CaseTemplate, error) {
	t, err := scanTemplate(r.conn(ctx).QueryRowContext(ctx, "SELECT "+templateColumns+" FROM case_templates WHERE name = ?", name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFoundBy("case template", "name", name)
	}
	if err != nil {
		return nil, mapErr("case template", "get", err)
	}
	return t, nil
}

// Update replaces a template's fields. The usage count is left alone.
func (r *TemplateRepository) Update(ctx context.Context, t *models.CaseTemplate) error {
	now := r.now()
	res, err := r.conn(ctx).ExecContext(ctx,
		"UPDATE case_templates SET name = ?, incidentType = ?, narrativeTemplate = ?, defaultPriority = ?, updatedAt = ? WHERE id = ?",
		t.Name, t.IncidentType, t.NarrativeTemplate, string(t.DefaultPriority), now, t.ID)
	if err != nil {
		return mapErr("case template", "update", err)
	}
	if err := requireAffected("case template", t.ID, res); err != nil {
		return err
	}
	t.UpdatedAt = now
	r.touched(ctx, "case_templates")
	return nil
}

// Delete removes a template.
func (r *TemplateRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "case template", "case_templates", id)
}

// List returns templates, most used first.
func (r *TemplateRepository) List(ctx context.Context) ([]*models.CaseTemplate, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, "SELECT "+templateColumns+" FROM case_templates ORDER BY usageCount DESC, name")
	if err != nil {
		return nil, fmt.Errorf("failed to list case templates: %w", err)
	}
	return collect(rows, scanTemplate)
}

// IncrementUsage bumps a template's usage count.
func (r *TemplateRepository) IncrementUsage(ctx context.Context, id int64) error {
	res, err := r.conn(ctx).ExecContext(ctx, "UPDATE case_templates SET usageCount = usageCount + 1, updatedAt = ? WHERE id = ?", r.now(), id)
	if err != nil {
		return mapErr("case template", "update", err)
	}
	if err := requireAffected("case template", id, res); err != nil {
		return err
	}
	r.touched(ctx, "case_templates")
	return nil
}

package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/blotter/internal/errs"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/primary"
	"github.com/example/blotter/internal/ports/secondary"
)

// TemplateServiceImpl implements the TemplateService interface.
type TemplateServiceImpl struct {
	rt        Runtime
	templates secondary.TemplateRepository
}

// NewTemplateService creates a new TemplateService with injected dependencies.
func NewTemplateService(rt Runtime, templates secondary.TemplateRepository) *TemplateServiceImpl {
	return &TemplateServiceImpl{rt: rt, templates: templates}
}

var _ primary.TemplateService = (*TemplateServiceImpl)(nil)

// templateFile is the YAML layout read by ImportTemplates.
type templateFile struct {
	Templates []templateEntry `yaml:"templates"`
}

type templateEntry struct {
	Name         string `yaml:"name"`
	IncidentType string `yaml:"incidentType"`
	Narrative    string `yaml:"narrative"`
	Priority     string `yaml:"priority"`
}

// CreateTemplate stores a new template. Names are unique.
func (s *TemplateServiceImpl) CreateTemplate(ctx context.Context, t *models.CaseTemplate) (*models.CaseTemplate, error) {
	t.Name = strings.TrimSpace(t.Name)
	t.UsageCount = 0
	if err := t.Validate(); err != nil {
		return nil, s.rt.rejected("case template", err)
	}
	if err := s.templates.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return t, nil
}

// GetTemplate retrieves a template by ID.
func (s *TemplateServiceImpl) GetTemplate(ctx context.Context, templateID int64) (*models.CaseTemplate, error) {
	return s.templates.GetByID(ctx, templateID)
}

// UpdateTemplate replaces a template's fields. The usage counter is left alone.
func (s *TemplateServiceImpl) UpdateTemplate(ctx context.Context, t *models.CaseTemplate) (*models.CaseTemplate, error) {
	t.Name = strings.TrimSpace(t.Name)
	if err := t.Validate(); err != nil {
		return nil, s.rt.rejected("case template", err)
	}
	if err := s.templates.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return s.templates.GetByID(ctx, t.ID)
}

// DeleteTemplate removes a template. Cases filed from it are unaffected.
func (s *TemplateServiceImpl) DeleteTemplate(ctx context.Context, templateID int64) error {
	return s.templates.Delete(ctx, templateID)
}

// ListTemplates lists templates, most used first.
func (s *TemplateServiceImpl) ListTemplates(ctx context.Context) ([]*models.CaseTemplate, error) {
	return s.templates.List(ctx)
}

// ImportTemplates reads a YAML document and creates or updates templates by name.
// Every entry is validated before anything is written.
func (s *TemplateServiceImpl) ImportTemplates(ctx context.Context, r io.Reader) (*primary.ImportResult, error) {
	var file templateFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return &primary.ImportResult{}, nil
		}
		return nil, errs.Validation("case template", "invalid template file: %v", err)
	}

	parsed := make([]*models.CaseTemplate, 0, len(file.Templates))
	seen := make(map[string]bool, len(file.Templates))
	for i, entry := range file.Templates {
		priority, err := models.ParsePriority(entry.Priority)
		if err != nil {
			return nil, fmt.Errorf("template %d: %w", i+1, err)
		}
		t := &models.CaseTemplate{
			Name:              strings.TrimSpace(entry.Name),
			IncidentType:      entry.IncidentType,
			NarrativeTemplate: entry.Narrative,
			DefaultPriority:   priority,
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("template %d: %w", i+1, err)
		}
		if seen[t.Name] {
			return nil, errs.Validation("case template", "template %q appears twice", t.Name)
		}
		seen[t.Name] = true
		parsed = append(parsed, t)
	}

	result := &primary.ImportResult{}
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		for _, t := range parsed {
			existing, err := s.templates.GetByName(ctx, t.Name)
			switch {
			case err == nil:
				t.ID = existing.ID
				if err := s.templates.Update(ctx, t); err != nil {
					return fmt.Errorf("failed to update template %q: %w", t.Name, err)
				}
				result.Updated++
			case errs.IsKind(err, errs.KindNotFound):
				if err := s.templates.Create(ctx, t); err != nil {
					return fmt.Errorf("failed to create template %q: %w", t.Name, err)
				}
				result.Created++
			default:
				return fmt.Errorf("failed to look up template %q: %w", t.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.rt.logger().Info("templates imported", "created", result.Created, "updated", result.Updated)
	return result, nil
}

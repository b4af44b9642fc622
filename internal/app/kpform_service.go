package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/example/blotter/internal/core/kpform"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/primary"
	"github.com/example/blotter/internal/ports/secondary"
)

// KPFormServiceImpl implements the KPFormService interface.
type KPFormServiceImpl struct {
	rt    Runtime
	cases secondary.CaseRepository
	forms secondary.KPFormRepository
}

// NewKPFormService creates a new KPFormService with injected dependencies.
func NewKPFormService(rt Runtime, cases secondary.CaseRepository, forms secondary.KPFormRepository) *KPFormServiceImpl {
	return &KPFormServiceImpl{rt: rt, cases: cases, forms: forms}
}

var _ primary.KPFormService = (*KPFormServiceImpl)(nil)

// CreateForm creates a Draft form. A blank document reference gets a generated one.
func (s *KPFormServiceImpl) CreateForm(ctx context.Context, f *models.KPForm) (*models.KPForm, error) {
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.rt.openCase(ctx, s.cases, f.CaseID)
		if err != nil {
			return err
		}
		f.Status = kpform.StatusDraft
		f.IssuedDate = nil
		if strings.TrimSpace(f.DocumentRef) == "" {
			f.DocumentRef = fmt.Sprintf("kp/%s/%s", c.CaseNumber, uuid.NewString())
		}
		if strings.TrimSpace(f.Title) == "" {
			f.Title = fmt.Sprintf("%s for case %s", f.FormType, c.CaseNumber)
		}
		if err := f.Validate(); err != nil {
			return s.rt.rejected("kp form", err)
		}
		if err := s.forms.Create(ctx, f); err != nil {
			return fmt.Errorf("failed to create kp form: %w", err)
		}
		s.rt.Metrics.IncTransition("kp form", string(f.Status))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// GetForm retrieves a form by ID.
func (s *KPFormServiceImpl) GetForm(ctx context.Context, formID int64) (*models.KPForm, error) {
	return s.forms.GetByID(ctx, formID)
}

// TransitionForm moves a form along Draft -> Issued -> Filed, or to Cancelled.
func (s *KPFormServiceImpl) TransitionForm(ctx context.Context, formID int64, target kpform.Status) (*models.KPForm, error) {
	var result *models.KPForm
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		f, err := s.forms.GetByID(ctx, formID)
		if err != nil {
			return err
		}
		if _, err := s.rt.openCase(ctx, s.cases, f.CaseID); err != nil {
			return err
		}
		plan, err := kpform.PlanTransition(kpform.TransitionContext{
			FormID:      f.ID,
			CaseID:      f.CaseID,
			FormType:    f.FormType,
			Current:     f.Status,
			Target:      target,
			PerformedBy: s.rt.actor(ctx).Name,
			Now:         s.rt.now(),
		})
		if err != nil {
			return s.rt.rejected("kp form", err)
		}
		result = f
		if plan.NoOp {
			return nil
		}
		f.Status = plan.NewStatus
		if plan.IssuedDate != nil {
			f.IssuedDate = plan.IssuedDate
		}
		if err := s.forms.Update(ctx, f); err != nil {
			return fmt.Errorf("failed to update kp form: %w", err)
		}
		if err := s.rt.apply(ctx, plan.Effects); err != nil {
			return err
		}
		s.rt.Metrics.IncTransition("kp form", string(plan.NewStatus))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteForm removes a form.
func (s *KPFormServiceImpl) DeleteForm(ctx context.Context, formID int64) error {
	return s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		f, err := s.forms.GetByID(ctx, formID)
		if err != nil {
			return err
		}
		if _, err := s.rt.openCase(ctx, s.cases, f.CaseID); err != nil {
			return err
		}
		return s.forms.Delete(ctx, formID)
	})
}

// ListForms lists the forms of a case.
func (s *KPFormServiceImpl) ListForms(ctx context.Context, caseID int64) ([]*models.KPForm, error) {
	return s.forms.ListByCase(ctx, caseID)
}

package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/blotter/internal/errs"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/primary"
	"github.com/example/blotter/internal/ports/secondary"
)

// OfficerServiceImpl implements the OfficerService interface.
type OfficerServiceImpl struct {
	rt       Runtime
	officers secondary.OfficerRepository
	cases    secondary.CaseRepository
}

// NewOfficerService creates a new OfficerService with injected dependencies.
func NewOfficerService(rt Runtime, officers secondary.OfficerRepository, cases secondary.CaseRepository) *OfficerServiceImpl {
	return &OfficerServiceImpl{rt: rt, officers: officers, cases: cases}
}

var _ primary.OfficerService = (*OfficerServiceImpl)(nil)

// CreateOfficer adds an officer to the roster. Badge numbers are unique.
func (s *OfficerServiceImpl) CreateOfficer(ctx context.Context, o *models.Officer) (*models.Officer, error) {
	o.BadgeNumber = strings.TrimSpace(o.BadgeNumber)
	if err := o.Validate(); err != nil {
		return nil, s.rt.rejected("officer", err)
	}
	if err := s.officers.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to create officer: %w", err)
	}
	s.rt.logger().Info("officer created", "officer_id", o.ID, "badge", o.BadgeNumber)
	return o, nil
}

// GetOfficer retrieves an officer by ID.
func (s *OfficerServiceImpl) GetOfficer(ctx context.Context, officerID int64) (*models.Officer, error) {
	return s.officers.GetByID(ctx, officerID)
}

// UpdateOfficer replaces an officer's fields.
func (s *OfficerServiceImpl) UpdateOfficer(ctx context.Context, o *models.Officer) (*models.Officer, error) {
	o.BadgeNumber = strings.TrimSpace(o.BadgeNumber)
	if err := o.Validate(); err != nil {
		return nil, s.rt.rejected("officer", err)
	}
	if err := s.officers.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to update officer: %w", err)
	}
	return s.officers.GetByID(ctx, o.ID)
}

// DeleteOfficer refuses officers still assigned to an active case.
// Assignments live in a JSON column, so no foreign key guards them.
func (s *OfficerServiceImpl) DeleteOfficer(ctx context.Context, officerID int64) error {
	return s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.officers.GetByID(ctx, officerID); err != nil {
			return err
		}
		assigned, err := s.cases.List(ctx, models.CaseFilters{OfficerID: officerID})
		if err != nil {
			return fmt.Errorf("failed to list assigned cases: %w", err)
		}
		var active []string
		for _, c := range assigned {
			if !c.Status.IsTerminal() {
				active = append(active, c.CaseNumber)
			}
		}
		if len(active) > 0 {
			return errs.Conflict("officer", "officer %d is assigned to active case(s) %s", officerID, strings.Join(active, ", "))
		}
		return s.officers.Delete(ctx, officerID)
	})
}

// ListOfficers lists the roster ordered by name.
func (s *OfficerServiceImpl) ListOfficers(ctx context.Context, activeOnly bool) ([]*models.Officer, error) {
	return s.officers.List(ctx, activeOnly)
}

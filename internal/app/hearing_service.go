package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/blotter/internal/core/hearing"
	"github.com/example/blotter/internal/errs"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/primary"
	"github.com/example/blotter/internal/ports/secondary"
)

// HearingServiceImpl implements the HearingService interface.
type HearingServiceImpl struct {
	rt       Runtime
	cases    secondary.CaseRepository
	hearings secondary.HearingRepository
}

// NewHearingService creates a new HearingService with injected dependencies.
func NewHearingService(rt Runtime, cases secondary.CaseRepository, hearings secondary.HearingRepository) *HearingServiceImpl {
	return &HearingServiceImpl{rt: rt, cases: cases, hearings: hearings}
}

var _ primary.HearingService = (*HearingServiceImpl)(nil)

// ScheduleHearing creates a Scheduled hearing on an open case.
func (s *HearingServiceImpl) ScheduleHearing(ctx context.Context, h *models.Hearing) (*models.Hearing, error) {
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.rt.openCase(ctx, s.cases, h.CaseID)
		if err != nil {
			return err
		}
		h.Status = hearing.StatusScheduled
		if err := h.Validate(); err != nil {
			return s.rt.rejected("hearing", err)
		}
		if err := s.hearings.Create(ctx, h); err != nil {
			return fmt.Errorf("failed to create hearing: %w", err)
		}
		effs := hearing.ScheduledEffects(c.ID, h.HearingDate, h.Location, h.Purpose, s.rt.actor(ctx).Name, s.rt.now())
		if err := s.rt.apply(ctx, effs); err != nil {
			return err
		}
		s.rt.Metrics.IncTransition("hearing", string(h.Status))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// GetHearing retrieves a hearing by ID.
func (s *HearingServiceImpl) GetHearing(ctx context.Context, hearingID int64) (*models.Hearing, error) {
	return s.hearings.GetByID(ctx, hearingID)
}

// UpdateHearing replaces date, place and purpose of a scheduled hearing.
func (s *HearingServiceImpl) UpdateHearing(ctx context.Context, h *models.Hearing) (*models.Hearing, error) {
	var updated *models.Hearing
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.hearings.GetByID(ctx, h.ID)
		if err != nil {
			return err
		}
		if _, err := s.rt.openCase(ctx, s.cases, current.CaseID); err != nil {
			return err
		}
		if current.Status.IsClosed() {
			return s.rt.rejected("hearing", errs.AlreadyTerminal("hearing", current.ID, string(current.Status)))
		}
		next := *current
		next.HearingDate = h.HearingDate
		next.Location = h.Location
		next.Purpose = h.Purpose
		next.PresidingOfficer = h.PresidingOfficer
		next.Notes = h.Notes
		if err := next.Validate(); err != nil {
			return s.rt.rejected("hearing", err)
		}
		if err := s.hearings.Update(ctx, &next); err != nil {
			return fmt.Errorf("failed to update hearing: %w", err)
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CompleteHearing closes a hearing as held.
func (s *HearingServiceImpl) CompleteHearing(ctx context.Context, hearingID int64, notes string) (*models.Hearing, error) {
	return s.transition(ctx, hearingID, hearing.StatusCompleted, notes)
}

// CancelHearing closes a hearing as called off.
func (s *HearingServiceImpl) CancelHearing(ctx context.Context, hearingID int64, notes string) (*models.Hearing, error) {
	return s.transition(ctx, hearingID, hearing.StatusCancelled, notes)
}

// DeleteHearing removes a hearing.
func (s *HearingServiceImpl) DeleteHearing(ctx context.Context, hearingID int64) error {
	return s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		h, err := s.hearings.GetByID(ctx, hearingID)
		if err != nil {
			return err
		}
		if _, err := s.rt.openCase(ctx, s.cases, h.CaseID); err != nil {
			return err
		}
		return s.hearings.Delete(ctx, hearingID)
	})
}

// ListHearings lists the hearings of a case.
func (s *HearingServiceImpl) ListHearings(ctx context.Context, caseID int64) ([]*models.Hearing, error) {
	return s.hearings.ListByCase(ctx, caseID)
}

// ListUpcoming lists scheduled hearings from a point in time (now when zero), soonest first.
func (s *HearingServiceImpl) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]*models.Hearing, error) {
	if from.IsZero() {
		from = s.rt.now()
	}
	return s.hearings.ListUpcoming(ctx, from, limit)
}

func (s *HearingServiceImpl) transition(ctx context.Context, hearingID int64, target hearing.Status, notes string) (*models.Hearing, error) {
	var result *models.Hearing
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		h, err := s.hearings.GetByID(ctx, hearingID)
		if err != nil {
			return err
		}
		if _, err := s.rt.openCase(ctx, s.cases, h.CaseID); err != nil {
			return err
		}
		plan, err := hearing.PlanTransition(hearing.TransitionContext{
			HearingID:   h.ID,
			CaseID:      h.CaseID,
			Current:     h.Status,
			Target:      target,
			Notes:       notes,
			PerformedBy: s.rt.actor(ctx).Name,
			Now:         s.rt.now(),
		})
		if err != nil {
			return s.rt.rejected("hearing", err)
		}
		result = h
		if plan.NoOp {
			return nil
		}
		h.Status = plan.NewStatus
		if notes != "" {
			h.Notes = notes
		}
		if err := s.hearings.Update(ctx, h); err != nil {
			return fmt.Errorf("failed to update hearing: %w", err)
		}
		if err := s.rt.apply(ctx, plan.Effects); err != nil {
			return err
		}
		s.rt.Metrics.IncTransition("hearing", string(plan.NewStatus))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

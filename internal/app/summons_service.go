package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/blotter/internal/core/effects"
	"github.com/example/blotter/internal/core/summons"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/primary"
	"github.com/example/blotter/internal/ports/secondary"
)

// SummonsServiceImpl implements the SummonsService interface.
type SummonsServiceImpl struct {
	rt          Runtime
	cases       secondary.CaseRepository
	persons     secondary.PersonRepository
	respondents secondary.RespondentRepository
	summons     secondary.SummonsRepository
}

// NewSummonsService creates a new SummonsService with injected dependencies.
func NewSummonsService(
	rt Runtime,
	cases secondary.CaseRepository,
	persons secondary.PersonRepository,
	respondents secondary.RespondentRepository,
	summonsRepo secondary.SummonsRepository,
) *SummonsServiceImpl {
	return &SummonsServiceImpl{
		rt:          rt,
		cases:       cases,
		persons:     persons,
		respondents: respondents,
		summons:     summonsRepo,
	}
}

var _ primary.SummonsService = (*SummonsServiceImpl)(nil)

// IssueSummons creates a Pending summons numbered SUM-<case>-NN.
func (s *SummonsServiceImpl) IssueSummons(ctx context.Context, req primary.IssueSummonsRequest) (*models.Summons, error) {
	var created *models.Summons
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		r, err := s.respondents.GetByID(ctx, req.RespondentID)
		if err != nil {
			return err
		}
		c, err := s.rt.openCase(ctx, s.cases, r.CaseID)
		if err != nil {
			return err
		}
		issued, err := s.summons.CountByCase(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("failed to count summons: %w", err)
		}
		now := s.rt.now()
		sm := &models.Summons{
			CaseID:         c.ID,
			RespondentID:   r.ID,
			SummonsNumber:  summons.NextNumber(c.CaseNumber, issued+1),
			IssuedDate:     now,
			AppearanceDate: req.AppearanceDate,
			DeliveryStatus: summons.DeliveryPending,
			DeliveryMethod: req.DeliveryMethod,
		}
		if err := sm.Validate(); err != nil {
			return s.rt.rejected("summons", err)
		}
		if err := s.summons.Create(ctx, sm); err != nil {
			return fmt.Errorf("failed to create summons: %w", err)
		}

		name := "respondent"
		if r.PersonID != nil {
			p, err := s.persons.GetByID(ctx, *r.PersonID)
			if err != nil {
				return fmt.Errorf("failed to load respondent person: %w", err)
			}
			name = p.FullName()
		}
		effs := summons.IssuedEffects(c.ID, sm.SummonsNumber, name, s.rt.actor(ctx).Name, now)
		if number := strings.TrimSpace(req.NotifyNumber); number != "" {
			effs = append(effs, effects.SmsEffect{
				CaseID:          c.ID,
				RecipientNumber: number,
				RecipientName:   name,
				Message: fmt.Sprintf("You are summoned to appear on %s for case %s (summons %s).",
					sm.AppearanceDate.Format("2006-01-02 15:04"), c.CaseNumber, sm.SummonsNumber),
				At: now,
			})
		}
		if err := s.rt.apply(ctx, effs); err != nil {
			return err
		}
		s.rt.Metrics.IncTransition("summons", string(summons.StatePending))
		created = sm
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetSummons retrieves a summons by ID.
func (s *SummonsServiceImpl) GetSummons(ctx context.Context, summonsID int64) (*models.Summons, error) {
	return s.summons.GetByID(ctx, summonsID)
}

// MarkDelivered records delivery. A blank method keeps the one given at issue.
func (s *SummonsServiceImpl) MarkDelivered(ctx context.Context, summonsID int64, at time.Time, method string) (*models.Summons, error) {
	return s.transition(ctx, summonsID, summons.StateDelivered, at, "", func(sm *models.Summons) {
		if strings.TrimSpace(method) != "" {
			sm.DeliveryMethod = method
		}
	})
}

// MarkFailed records a failed delivery attempt.
func (s *SummonsServiceImpl) MarkFailed(ctx context.Context, summonsID int64, reason string) (*models.Summons, error) {
	return s.transition(ctx, summonsID, summons.StateFailed, time.Time{}, reason, nil)
}

// Reissue moves a failed summons back to Pending.
func (s *SummonsServiceImpl) Reissue(ctx context.Context, summonsID int64) (*models.Summons, error) {
	return s.transition(ctx, summonsID, summons.StatePending, time.Time{}, "", nil)
}

// RecordCompliance marks a delivered summons complied.
func (s *SummonsServiceImpl) RecordCompliance(ctx context.Context, summonsID int64, at time.Time, notes string) (*models.Summons, error) {
	return s.transition(ctx, summonsID, summons.StateComplied, at, notes, func(sm *models.Summons) {
		sm.ComplianceNotes = notes
	})
}

// DeleteSummons removes a summons.
func (s *SummonsServiceImpl) DeleteSummons(ctx context.Context, summonsID int64) error {
	return s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		sm, err := s.summons.GetByID(ctx, summonsID)
		if err != nil {
			return err
		}
		if _, err := s.rt.openCase(ctx, s.cases, sm.CaseID); err != nil {
			return err
		}
		return s.summons.Delete(ctx, summonsID)
	})
}

// ListSummons lists the summonses of a case.
func (s *SummonsServiceImpl) ListSummons(ctx context.Context, caseID int64) ([]*models.Summons, error) {
	return s.summons.ListByCase(ctx, caseID)
}

// ListUncomplied lists delivered summonses with no compliance at cutoff (now when zero).
func (s *SummonsServiceImpl) ListUncomplied(ctx context.Context, cutoff time.Time) ([]*models.Summons, error) {
	if cutoff.IsZero() {
		cutoff = s.rt.now()
	}
	return s.summons.ListUncomplied(ctx, cutoff)
}

func (s *SummonsServiceImpl) transition(ctx context.Context, summonsID int64, target summons.State, at time.Time, notes string, mutate func(*models.Summons)) (*models.Summons, error) {
	var result *models.Summons
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		sm, err := s.summons.GetByID(ctx, summonsID)
		if err != nil {
			return err
		}
		if _, err := s.rt.openCase(ctx, s.cases, sm.CaseID); err != nil {
			return err
		}
		plan, err := summons.PlanTransition(summons.TransitionContext{
			SummonsID:     sm.ID,
			CaseID:        sm.CaseID,
			SummonsNumber: sm.SummonsNumber,
			Current:       sm.State(),
			Target:        target,
			Notes:         notes,
			PerformedBy:   s.rt.actor(ctx).Name,
			At:            at,
			Now:           s.rt.now(),
		})
		if err != nil {
			return s.rt.rejected("summons", err)
		}
		result = sm
		if plan.NoOp {
			return nil
		}
		sm.DeliveryStatus = plan.NewDelivery
		sm.Complied = plan.Complied
		if plan.DeliveredDate != nil {
			sm.DeliveredDate = plan.DeliveredDate
		}
		if plan.ComplianceDate != nil {
			sm.ComplianceDate = plan.ComplianceDate
		}
		if target == summons.StatePending {
			sm.DeliveredDate = nil
		}
		if mutate != nil {
			mutate(sm)
		}
		if err := sm.Validate(); err != nil {
			return s.rt.rejected("summons", err)
		}
		if err := s.summons.Update(ctx, sm); err != nil {
			return fmt.Errorf("failed to update summons: %w", err)
		}
		if err := s.rt.apply(ctx, plan.Effects); err != nil {
			return err
		}
		s.rt.Metrics.IncTransition("summons", string(target))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

package app

import (
	"context"
	"fmt"

	"github.com/example/blotter/internal/core/mediation"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/primary"
	"github.com/example/blotter/internal/ports/secondary"
)

// MediationServiceImpl implements the MediationService interface.
type MediationServiceImpl struct {
	rt         Runtime
	cases      secondary.CaseRepository
	mediations secondary.MediationRepository
}

// NewMediationService creates a new MediationService with injected dependencies.
func NewMediationService(rt Runtime, cases secondary.CaseRepository, mediations secondary.MediationRepository) *MediationServiceImpl {
	return &MediationServiceImpl{rt: rt, cases: cases, mediations: mediations}
}

var _ primary.MediationService = (*MediationServiceImpl)(nil)

// ScheduleSession creates a Scheduled session. A case waiting For Mediation moves to
// Mediation Ongoing in the same transaction.
func (s *MediationServiceImpl) ScheduleSession(ctx context.Context, m *models.MediationSession) (*models.MediationSession, error) {
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.rt.openCase(ctx, s.cases, m.CaseID)
		if err != nil {
			return err
		}
		plan, err := mediation.PlanSchedule(mediation.ScheduleContext{
			CaseID:      c.ID,
			CaseStatus:  c.Status,
			SessionDate: m.SessionDate,
			Mediator:    m.MediatorName,
			PerformedBy: s.rt.actor(ctx).Name,
			Now:         s.rt.now(),
		})
		if err != nil {
			return s.rt.rejected("mediation session", err)
		}
		m.Outcome = mediation.OutcomeScheduled
		if err := m.Validate(); err != nil {
			return s.rt.rejected("mediation session", err)
		}
		if err := s.mediations.Create(ctx, m); err != nil {
			return fmt.Errorf("failed to create mediation session: %w", err)
		}
		if err := s.rt.followCase(ctx, s.cases, c, plan.CaseStatus); err != nil {
			return fmt.Errorf("failed to update case status: %w", err)
		}
		if err := s.rt.apply(ctx, plan.Effects); err != nil {
			return err
		}
		s.rt.Metrics.IncTransition("mediation session", string(m.Outcome))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RecordOutcome stores a session outcome and applies the case follow-up it implies.
func (s *MediationServiceImpl) RecordOutcome(ctx context.Context, req primary.RecordOutcomeRequest) (*models.MediationSession, error) {
	var result *models.MediationSession
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		m, err := s.mediations.GetByID(ctx, req.SessionID)
		if err != nil {
			return err
		}
		c, err := s.rt.openCase(ctx, s.cases, m.CaseID)
		if err != nil {
			return err
		}
		plan, err := mediation.PlanOutcome(mediation.OutcomeContext{
			SessionID:       m.ID,
			CaseID:          c.ID,
			CaseStatus:      c.Status,
			Current:         m.Outcome,
			Target:          req.Outcome,
			SettlementTerms: req.SettlementTerms,
			NewDate:         req.NewDate,
			PerformedBy:     s.rt.actor(ctx).Name,
			Now:             s.rt.now(),
		})
		if err != nil {
			return s.rt.rejected("mediation session", err)
		}
		result = m
		if plan.NoOp {
			return nil
		}
		m.Outcome = plan.NewOutcome
		if req.SettlementTerms != "" {
			m.SettlementTerms = req.SettlementTerms
		}
		if req.Notes != "" {
			m.Notes = req.Notes
		}
		if plan.NewDate != nil {
			m.SessionDate = *plan.NewDate
		}
		if err := s.mediations.Update(ctx, m); err != nil {
			return fmt.Errorf("failed to update mediation session: %w", err)
		}
		if err := s.rt.followCase(ctx, s.cases, c, plan.CaseStatus); err != nil {
			return fmt.Errorf("failed to update case status: %w", err)
		}
		if err := s.rt.apply(ctx, plan.Effects); err != nil {
			return err
		}
		s.rt.Metrics.IncTransition("mediation session", string(plan.NewOutcome))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetSession retrieves a mediation session by ID.
func (s *MediationServiceImpl) GetSession(ctx context.Context, sessionID int64) (*models.MediationSession, error) {
	return s.mediations.GetByID(ctx, sessionID)
}

// ListSessions lists the mediation sessions of a case.
func (s *MediationServiceImpl) ListSessions(ctx context.Context, caseID int64) ([]*models.MediationSession, error) {
	return s.mediations.ListByCase(ctx, caseID)
}

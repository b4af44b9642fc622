package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/blotter/internal/core/effects"
	"github.com/example/blotter/internal/core/respondent"
	"github.com/example/blotter/internal/errs"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/primary"
	"github.com/example/blotter/internal/ports/secondary"
)

// RespondentServiceImpl implements the RespondentService interface.
type RespondentServiceImpl struct {
	rt          Runtime
	cases       secondary.CaseRepository
	persons     secondary.PersonRepository
	respondents secondary.RespondentRepository
	statements  secondary.StatementRepository
}

// NewRespondentService creates a new RespondentService with injected dependencies.
func NewRespondentService(
	rt Runtime,
	cases secondary.CaseRepository,
	persons secondary.PersonRepository,
	respondents secondary.RespondentRepository,
	statements secondary.StatementRepository,
) *RespondentServiceImpl {
	return &RespondentServiceImpl{
		rt:          rt,
		cases:       cases,
		persons:     persons,
		respondents: respondents,
		statements:  statements,
	}
}

var _ primary.RespondentService = (*RespondentServiceImpl)(nil)

// AddRespondent attaches a respondent in Notified, optionally linking a Person.
func (s *RespondentServiceImpl) AddRespondent(ctx context.Context, req primary.AddRespondentRequest) (*models.Respondent, error) {
	var created *models.Respondent
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.rt.openCase(ctx, s.cases, req.CaseID)
		if err != nil {
			return err
		}
		r := &models.Respondent{
			CaseID:                    c.ID,
			Accusation:                strings.TrimSpace(req.Accusation),
			RelationshipToComplainant: req.RelationshipToComplainant,
			CooperationStatus:         respondent.StatusNotified,
		}
		if err := r.Validate(); err != nil {
			return s.rt.rejected("respondent", err)
		}
		var name string
		if req.Person != nil {
			p, _, err := resolvePerson(ctx, s.persons, personFromRef(req.Person, models.PersonRespondent))
			if err != nil {
				return s.rt.rejected("person", err)
			}
			r.PersonID = &p.ID
			name = p.FullName()
		}
		if err := s.respondents.Create(ctx, r); err != nil {
			return fmt.Errorf("failed to create respondent: %w", err)
		}
		effs := respondent.AddedEffects(c.ID, derefID(r.PersonID), name, s.rt.actor(ctx).Name, s.rt.now())
		if err := s.rt.apply(ctx, effs); err != nil {
			return err
		}
		s.rt.Metrics.IncTransition("respondent", string(r.CooperationStatus))
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetRespondent retrieves a respondent by ID.
func (s *RespondentServiceImpl) GetRespondent(ctx context.Context, respondentID int64) (*models.Respondent, error) {
	return s.respondents.GetByID(ctx, respondentID)
}

// UpdateRespondent replaces descriptive fields.
func (s *RespondentServiceImpl) UpdateRespondent(ctx context.Context, r *models.Respondent) (*models.Respondent, error) {
	var updated *models.Respondent
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.respondents.GetByID(ctx, r.ID)
		if err != nil {
			return err
		}
		if _, err := s.rt.openCase(ctx, s.cases, current.CaseID); err != nil {
			return err
		}
		if r.CooperationStatus != "" && r.CooperationStatus != current.CooperationStatus {
			return s.rt.rejected("respondent", errs.Validation("respondent", "cooperation status changes only through its workflow"))
		}
		next := *current
		next.Accusation = strings.TrimSpace(r.Accusation)
		next.RelationshipToComplainant = r.RelationshipToComplainant
		next.PersonID = r.PersonID
		if err := next.Validate(); err != nil {
			return s.rt.rejected("respondent", err)
		}
		if err := s.respondents.Update(ctx, &next); err != nil {
			return fmt.Errorf("failed to update respondent: %w", err)
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RemoveRespondent deletes a respondent with its statements and summonses.
func (s *RespondentServiceImpl) RemoveRespondent(ctx context.Context, respondentID int64) error {
	return s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.respondents.GetByID(ctx, respondentID)
		if err != nil {
			return err
		}
		if _, err := s.rt.openCase(ctx, s.cases, current.CaseID); err != nil {
			return err
		}
		return s.respondents.Delete(ctx, respondentID)
	})
}

// ListRespondents lists the respondents of a case.
func (s *RespondentServiceImpl) ListRespondents(ctx context.Context, caseID int64) ([]*models.Respondent, error) {
	return s.respondents.ListByCase(ctx, caseID)
}

// MarkAsAppeared moves Notified or No Response to Appeared, stamping appearanceDate.
func (s *RespondentServiceImpl) MarkAsAppeared(ctx context.Context, respondentID int64, at time.Time) (*models.Respondent, error) {
	var result *models.Respondent
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		r, err := s.transition(ctx, respondentID, respondent.StatusAppeared, at)
		result = r
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MarkNoResponse moves Notified to No Response.
func (s *RespondentServiceImpl) MarkNoResponse(ctx context.Context, respondentID int64) (*models.Respondent, error) {
	var result *models.Respondent
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		r, err := s.transition(ctx, respondentID, respondent.StatusNoResponse, time.Time{})
		result = r
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordStatement stores a statement and moves Appeared to Statement Recorded.
func (s *RespondentServiceImpl) RecordStatement(ctx context.Context, req primary.RecordStatementRequest) (*models.RespondentStatement, error) {
	var created *models.RespondentStatement
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		r, err := s.respondents.GetByID(ctx, req.RespondentID)
		if err != nil {
			return err
		}
		submitted := req.SubmittedAt
		if submitted.IsZero() {
			submitted = s.rt.now()
		}
		stmt := &models.RespondentStatement{
			RespondentID: r.ID,
			CaseID:       r.CaseID,
			Statement:    req.Statement,
			SubmittedVia: req.SubmittedVia,
			SubmittedAt:  submitted,
			OfficerNotes: req.OfficerNotes,
		}
		if err := stmt.Validate(); err != nil {
			return s.rt.rejected("statement", err)
		}
		if err := respondent.CanRecordStatement(r.ID, r.CooperationStatus).Error(); err != nil {
			return s.rt.rejected("respondent", err)
		}
		if _, err := s.transition(ctx, r.ID, respondent.StatusStatementRecorded, submitted); err != nil {
			return err
		}
		if err := s.statements.Create(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create statement: %w", err)
		}
		created = stmt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// VerifyStatement freezes a statement. Only officer notes may change afterwards.
func (s *RespondentServiceImpl) VerifyStatement(ctx context.Context, statementID int64, verifiedBy string) (*models.RespondentStatement, error) {
	var result *models.RespondentStatement
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		stmt, err := s.statements.GetByID(ctx, statementID)
		if err != nil {
			return err
		}
		if strings.TrimSpace(verifiedBy) == "" {
			verifiedBy = s.rt.actor(ctx).Name
		}
		if err := respondent.CanVerifyStatement(stmt.ID, stmt.Verified(), verifiedBy).Error(); err != nil {
			return s.rt.rejected("statement", err)
		}
		now := s.rt.now()
		stmt.VerifiedBy = verifiedBy
		stmt.VerifiedAt = &now
		if err := s.statements.Update(ctx, stmt); err != nil {
			return fmt.Errorf("failed to verify statement: %w", err)
		}
		description := fmt.Sprintf("Statement %d verified by %s", stmt.ID, verifiedBy)
		if err := s.rt.apply(ctx, effects.Audit(stmt.CaseID, effects.EventStatementVerified, "Statement verified",
			description, "", "verified", s.rt.actor(ctx).Name, now)); err != nil {
			return err
		}
		result = stmt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// EditStatement replaces a statement's text, channel and notes.
func (s *RespondentServiceImpl) EditStatement(ctx context.Context, edit *models.RespondentStatement) (*models.RespondentStatement, error) {
	var result *models.RespondentStatement
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		stmt, err := s.statements.GetByID(ctx, edit.ID)
		if err != nil {
			return err
		}
		if err := respondent.CanEditStatement(respondent.StatementEditContext{
			StatementID:      stmt.ID,
			Verified:         stmt.Verified(),
			StatementChanged: edit.Statement != stmt.Statement,
			ChannelChanged:   edit.SubmittedVia != stmt.SubmittedVia,
		}).Error(); err != nil {
			return s.rt.rejected("statement", err)
		}
		stmt.Statement = edit.Statement
		stmt.SubmittedVia = edit.SubmittedVia
		stmt.OfficerNotes = edit.OfficerNotes
		if err := stmt.Validate(); err != nil {
			return s.rt.rejected("statement", err)
		}
		if err := s.statements.Update(ctx, stmt); err != nil {
			return fmt.Errorf("failed to update statement: %w", err)
		}
		result = stmt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListStatements lists the statements of a respondent.
func (s *RespondentServiceImpl) ListStatements(ctx context.Context, respondentID int64) ([]*models.RespondentStatement, error) {
	return s.statements.ListByRespondent(ctx, respondentID)
}

// CountByCooperationStatus counts respondents per status; caseID 0 counts all cases.
func (s *RespondentServiceImpl) CountByCooperationStatus(ctx context.Context, caseID int64) (map[respondent.CooperationStatus]int, error) {
	return s.respondents.CountByCooperationStatus(ctx, caseID)
}

// transition plans and applies a cooperation change inside the caller's transaction.
func (s *RespondentServiceImpl) transition(ctx context.Context, respondentID int64, target respondent.CooperationStatus, at time.Time) (*models.Respondent, error) {
	r, err := s.respondents.GetByID(ctx, respondentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.rt.openCase(ctx, s.cases, r.CaseID); err != nil {
		return nil, err
	}
	var name string
	if r.PersonID != nil {
		p, err := s.persons.GetByID(ctx, *r.PersonID)
		if err != nil {
			return nil, fmt.Errorf("failed to load respondent person: %w", err)
		}
		name = p.FullName()
	}
	plan, err := respondent.PlanTransition(respondent.TransitionContext{
		RespondentID: r.ID,
		CaseID:       r.CaseID,
		PersonID:     derefID(r.PersonID),
		Name:         name,
		Current:      r.CooperationStatus,
		Target:       target,
		PerformedBy:  s.rt.actor(ctx).Name,
		At:           at,
		Now:          s.rt.now(),
	})
	if err != nil {
		return nil, s.rt.rejected("respondent", err)
	}
	if plan.NoOp {
		return r, nil
	}
	r.CooperationStatus = plan.NewStatus
	if plan.AppearanceDate != nil {
		r.AppearanceDate = plan.AppearanceDate
	}
	if plan.StatementDate != nil {
		r.StatementDate = plan.StatementDate
	}
	if err := s.respondents.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to update respondent: %w", err)
	}
	if err := s.rt.apply(ctx, plan.Effects); err != nil {
		return nil, err
	}
	s.rt.Metrics.IncTransition("respondent", string(plan.NewStatus))
	return r, nil
}

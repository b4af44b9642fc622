package app

import (
	"context"
	"time"

	"github.com/example/blotter/internal/core/blotter"
	"github.com/example/blotter/internal/core/effects"
	"github.com/example/blotter/internal/ctxutil"
	"github.com/example/blotter/internal/errs"
	"github.com/example/blotter/internal/logger"
	"github.com/example/blotter/internal/metrics"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/secondary"
)

// Runtime carries what every service needs besides its repositories.
type Runtime struct {
	Tx      secondary.Transactor
	Exec    EffectExecutor
	Clock   func() time.Time
	Log     *logger.Logger
	Metrics *metrics.Metrics
}

func (rt Runtime) now() time.Time {
	if rt.Clock == nil {
		return time.Now().UTC()
	}
	return rt.Clock().UTC()
}

func (rt Runtime) logger() *logger.Logger {
	if rt.Log == nil {
		return logger.Nop()
	}
	return rt.Log
}

func (rt Runtime) actor(ctx context.Context) ctxutil.Actor {
	return ctxutil.ActorOrSystem(ctx)
}

// apply runs the effects of a planned write inside the caller's transaction.
func (rt Runtime) apply(ctx context.Context, effs []effects.Effect) error {
	if len(effs) == 0 {
		return nil
	}
	return rt.Exec.Execute(ctx, effs)
}

// rejected counts guard and validation refusals before handing the error back.
func (rt Runtime) rejected(entity string, err error) error {
	switch kind := errs.KindOf(err); kind {
	case errs.KindValidation, errs.KindIllegalTransition:
		rt.Metrics.IncRejected(entity, string(kind))
	}
	return err
}

// openCase loads a case and refuses it when it no longer accepts sub-record changes.
func (rt Runtime) openCase(ctx context.Context, cases secondary.CaseRepository, caseID int64) (*models.Case, error) {
	c, err := cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if err := blotter.CanModifySubRecords(blotter.SubRecordContext{
		CaseID:     c.ID,
		Status:     c.Status,
		IsArchived: c.IsArchived,
	}).Error(); err != nil {
		return nil, rt.rejected("case", err)
	}
	return c, nil
}

// followCase applies a derived case status (mediation follow-ups) without re-planning.
func (rt Runtime) followCase(ctx context.Context, cases secondary.CaseRepository, c *models.Case, status blotter.Status) error {
	if status == "" || status == c.Status {
		return nil
	}
	if err := cases.UpdateStatus(ctx, c.ID, status, c.IsArchived); err != nil {
		return err
	}
	rt.Metrics.IncTransition("case", string(status))
	c.Status = status
	return nil
}

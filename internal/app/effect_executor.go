// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"

	"github.com/example/blotter/internal/core/effects"
	"github.com/example/blotter/internal/logger"
	"github.com/example/blotter/internal/metrics"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place derived writes happen. Callers pass
// the transaction context of the primary write so both commit or roll back together.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// DefaultEffectExecutor implements EffectExecutor over the audit, notification and SMS stores.
type DefaultEffectExecutor struct {
	audit         secondary.AuditTrail
	notifications secondary.NotificationRepository
	sms           secondary.SmsRepository
	log           *logger.Logger
	metrics       *metrics.Metrics
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(audit secondary.AuditTrail, notifications secondary.NotificationRepository, sms secondary.SmsRepository, log *logger.Logger, m *metrics.Metrics) *DefaultEffectExecutor {
	if log == nil {
		log = logger.Nop()
	}
	return &DefaultEffectExecutor{
		audit:         audit,
		notifications: notifications,
		sms:           sms,
		log:           log,
		metrics:       m,
	}
}

// Execute processes a slice of effects, executing each in sequence.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.TimelineEffect:
		return e.count(typed, e.audit.AppendTimeline(ctx, &models.CaseTimeline{
			CaseID:      typed.CaseID,
			EventType:   typed.EventType,
			Title:       typed.Title,
			Description: typed.Description,
			PerformedBy: typed.PerformedBy,
			CreatedAt:   typed.At,
		}))
	case effects.ActivityLogEffect:
		entry := &models.ActivityLog{
			Action:      typed.Action,
			Description: typed.Description,
			OldValue:    typed.OldValue,
			NewValue:    typed.NewValue,
			PerformedBy: typed.PerformedBy,
			CreatedAt:   typed.At,
		}
		if typed.CaseID > 0 {
			id := typed.CaseID
			entry.CaseID = &id
		}
		return e.count(typed, e.audit.AppendActivity(ctx, entry))
	case effects.NotificationEffect:
		return e.executeNotification(ctx, typed)
	case effects.SmsEffect:
		msg := &models.SmsNotification{
			RecipientNumber: typed.RecipientNumber,
			RecipientName:   typed.RecipientName,
			Message:         typed.Message,
			DeliveryStatus:  models.SmsPending,
			CreatedAt:       typed.At,
		}
		if typed.CaseID > 0 {
			id := typed.CaseID
			msg.CaseID = &id
		}
		return e.count(typed, e.sms.Create(ctx, msg))
	case effects.PersonHistoryEffect:
		return e.count(typed, e.audit.AppendPersonHistory(ctx, &models.PersonHistory{
			PersonID:    typed.PersonID,
			CaseID:      typed.CaseID,
			Role:        typed.Role,
			Description: typed.Description,
			CreatedAt:   typed.At,
		}))
	case effects.CompositeEffect:
		return e.Execute(ctx, typed.Effects)
	case effects.NoEffect:
		return nil
	case effects.LogEffect:
		e.executeLog(typed)
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executeNotification(ctx context.Context, eff effects.NotificationEffect) error {
	if eff.UserID <= 0 {
		return nil
	}
	n := &models.Notification{
		UserID:    eff.UserID,
		Title:     eff.Title,
		Message:   eff.Message,
		Type:      eff.Type,
		CreatedAt: eff.At,
	}
	if eff.CaseID > 0 {
		id := eff.CaseID
		n.CaseID = &id
	}
	return e.count(eff, e.notifications.Create(ctx, n))
}

func (e *DefaultEffectExecutor) executeLog(eff effects.LogEffect) {
	kv := make([]interface{}, 0, len(eff.Fields)*2)
	for k, v := range eff.Fields {
		kv = append(kv, k, v)
	}
	switch eff.Level {
	case "debug":
		e.log.Debug(eff.Message, kv...)
	case "warn":
		e.log.Warn(eff.Message, kv...)
	case "error":
		e.log.Error(eff.Message, kv...)
	default:
		e.log.Info(eff.Message, kv...)
	}
	e.metrics.IncEffect(eff.EffectType())
}

func (e *DefaultEffectExecutor) count(eff effects.Effect, err error) error {
	if err != nil {
		return err
	}
	e.metrics.IncEffect(eff.EffectType())
	return nil
}

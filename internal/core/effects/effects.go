// Package effects defines effect types as data structures representing derived writes.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects are pure data - they describe what should happen, not how. The app layer
// applies them inside the same transaction as the primary write.
package effects

import "time"

// Effect is the base interface for all effects.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// Timeline event types.
const (
	EventCaseCreated        = "CASE_CREATED"
	EventCaseUpdated        = "CASE_UPDATED"
	EventStatusChanged      = "STATUS_CHANGED"
	EventOfficerAssigned    = "OFFICER_ASSIGNED"
	EventCaseArchived       = "CASE_ARCHIVED"
	EventSuspectAdded       = "SUSPECT_ADDED"
	EventWitnessAdded       = "WITNESS_ADDED"
	EventEvidenceAdded      = "EVIDENCE_ADDED"
	EventRespondentAdded    = "RESPONDENT_ADDED"
	EventRespondentAppeared = "RESPONDENT_APPEARED"
	EventRespondentNoShow   = "RESPONDENT_NO_RESPONSE"
	EventStatementRecorded  = "STATEMENT_RECORDED"
	EventStatementVerified  = "STATEMENT_VERIFIED"
	EventHearingScheduled   = "HEARING_SCHEDULED"
	EventHearingCompleted   = "HEARING_COMPLETED"
	EventHearingCancelled   = "HEARING_CANCELLED"
	EventSummonsIssued      = "SUMMONS_ISSUED"
	EventSummonsDelivered   = "SUMMONS_DELIVERED"
	EventSummonsFailed      = "SUMMONS_FAILED"
	EventSummonsComplied    = "SUMMONS_COMPLIED"
	EventMediationScheduled = "MEDIATION_SCHEDULED"
	EventMediationOutcome   = "MEDIATION_OUTCOME"
	EventKPFormUpdated      = "KP_FORM_UPDATED"
	EventResolutionAdded    = "RESOLUTION_ADDED"
)

// TimelineEffect appends a CaseTimeline event.
type TimelineEffect struct {
	CaseID      int64
	EventType   string
	Title       string
	Description string
	PerformedBy string
	At          time.Time
}

func (e TimelineEffect) EffectType() string { return "timeline" }

// ActivityLogEffect appends an ActivityLog entry describing a mutation.
type ActivityLogEffect struct {
	CaseID      int64 // 0 when the action is not case-scoped
	Action      string
	Description string
	OldValue    string
	NewValue    string
	PerformedBy string
	At          time.Time
}

func (e ActivityLogEffect) EffectType() string { return "activity_log" }

// NotificationEffect enqueues an in-app notification intent for a user.
// Delivery is out of scope; the store only records the intent.
type NotificationEffect struct {
	UserID  int64
	CaseID  int64
	Title   string
	Message string
	Type    string
	At      time.Time
}

func (e NotificationEffect) EffectType() string { return "notification" }

// SmsEffect queues an outbound SMS to an external phone number.
type SmsEffect struct {
	CaseID          int64
	RecipientNumber string
	RecipientName   string
	Message         string
	At              time.Time
}

func (e SmsEffect) EffectType() string { return "sms" }

// PersonHistoryEffect records a Person's role in a Case.
type PersonHistoryEffect struct {
	PersonID    int64
	CaseID      int64
	Role        string
	Description string
	At          time.Time
}

func (e PersonHistoryEffect) EffectType() string { return "person_history" }

// LogEffect represents a logging operation.
type LogEffect struct {
	Level   string
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }

// CompositeEffect holds multiple effects to be executed in sequence.
type CompositeEffect struct {
	Effects []Effect
}

func (e CompositeEffect) EffectType() string { return "composite" }

// NoEffect represents an operation that produces no side effects.
type NoEffect struct{}

func (e NoEffect) EffectType() string { return "none" }

// Audit builds the timeline + activity log pair every mutating workflow action emits.
func Audit(caseID int64, eventType, title, description, oldValue, newValue, performedBy string, at time.Time) []Effect {
	return []Effect{
		TimelineEffect{
			CaseID:      caseID,
			EventType:   eventType,
			Title:       title,
			Description: description,
			PerformedBy: performedBy,
			At:          at,
		},
		ActivityLogEffect{
			CaseID:      caseID,
			Action:      eventType,
			Description: description,
			OldValue:    oldValue,
			NewValue:    newValue,
			PerformedBy: performedBy,
			At:          at,
		},
	}
}

// Flatten expands composites so the executor and tests see a flat list.
func Flatten(effs []Effect) []Effect {
	out := make([]Effect, 0, len(effs))
	for _, e := range effs {
		switch typed := e.(type) {
		case CompositeEffect:
			out = append(out, Flatten(typed.Effects)...)
		case NoEffect:
		default:
			out = append(out, e)
		}
	}
	return out
}

// OfType returns the effects whose EffectType matches.
func OfType(effs []Effect, effectType string) []Effect {
	var out []Effect
	for _, e := range Flatten(effs) {
		if e.EffectType() == effectType {
			out = append(out, e)
		}
	}
	return out
}

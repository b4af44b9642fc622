package models

import (
	"time"

	"github.com/example/blotter/internal/core/hearing"
	"github.com/example/blotter/internal/core/kpform"
	"github.com/example/blotter/internal/core/mediation"
	"github.com/example/blotter/internal/errs"
)

// Hearing is a scheduled hearing on a case.
type Hearing struct {
	ID               int64
	CaseID           int64
	HearingDate      time.Time
	Location         string
	Purpose          string
	PresidingOfficer string
	Status           hearing.Status
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate checks required fields.
func (h *Hearing) Validate() error {
	switch {
	case h.CaseID <= 0:
		return errs.Validation("hearing", "case id is required")
	case h.HearingDate.IsZero():
		return errs.Validation("hearing", "hearing date is required")
	case blank(h.Location):
		return errs.Validation("hearing", "location is required")
	case !h.Status.Valid():
		return errs.Validation("hearing", "unknown hearing status %q", h.Status)
	}
	return nil
}

// MediationSession is one Lupon mediation meeting.
type MediationSession struct {
	ID              int64
	CaseID          int64
	SessionDate     time.Time
	Location        string
	MediatorName    string
	Outcome         mediation.Outcome
	SettlementTerms string
	Notes           string
	DocumentRef     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks required fields.
func (m *MediationSession) Validate() error {
	switch {
	case m.CaseID <= 0:
		return errs.Validation("mediation session", "case id is required")
	case m.SessionDate.IsZero():
		return errs.Validation("mediation session", "session date is required")
	case !m.Outcome.Valid():
		return errs.Validation("mediation session", "unknown mediation outcome %q", m.Outcome)
	}
	return nil
}

// KPForm is a Katarungang Pambarangay form generated for a case.
type KPForm struct {
	ID          int64
	CaseID      int64
	FormType    string
	Title       string
	Status      kpform.Status
	IssuedDate  *time.Time
	DocumentRef string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks required fields.
func (f *KPForm) Validate() error {
	switch {
	case f.CaseID <= 0:
		return errs.Validation("kp form", "case id is required")
	case blank(f.FormType):
		return errs.Validation("kp form", "form type is required")
	case !f.Status.Valid():
		return errs.Validation("kp form", "unknown form status %q", f.Status)
	}
	return nil
}

package models

import (
	"time"

	"github.com/example/blotter/internal/core/respondent"
	"github.com/example/blotter/internal/core/summons"
	"github.com/example/blotter/internal/errs"
)

// Respondent is the party a complaint is filed against.
type Respondent struct {
	ID                        int64
	CaseID                    int64
	PersonID                  *int64
	Accusation                string
	RelationshipToComplainant string
	CooperationStatus         respondent.CooperationStatus
	AppearanceDate            *time.Time
	StatementDate             *time.Time
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// Validate checks required fields.
func (r *Respondent) Validate() error {
	if r.CaseID <= 0 {
		return errs.Validation("respondent", "case id is required")
	}
	if blank(r.Accusation) {
		return errs.Validation("respondent", "accusation is required")
	}
	if !r.CooperationStatus.Valid() {
		return errs.Validation("respondent", "unknown cooperation status %q", r.CooperationStatus)
	}
	return nil
}

// RespondentStatement is a statement given by a respondent.
// Once verified only OfficerNotes may change.
type RespondentStatement struct {
	ID           int64
	RespondentID int64
	CaseID       int64
	Statement    string
	SubmittedVia string
	SubmittedAt  time.Time
	VerifiedBy   string
	VerifiedAt   *time.Time
	OfficerNotes string
	CreatedAt    time.Time
}

// Verified reports whether the statement has been verified.
func (s *RespondentStatement) Verified() bool {
	return s.VerifiedAt != nil
}

// Validate checks required fields.
func (s *RespondentStatement) Validate() error {
	switch {
	case s.RespondentID <= 0:
		return errs.Validation("statement", "respondent id is required")
	case s.CaseID <= 0:
		return errs.Validation("statement", "case id is required")
	case blank(s.Statement):
		return errs.Validation("statement", "statement text is required")
	}
	return nil
}

// Summons orders a respondent to appear.
type Summons struct {
	ID              int64
	CaseID          int64
	RespondentID    int64
	SummonsNumber   string
	IssuedDate      time.Time
	AppearanceDate  time.Time
	DeliveryStatus  summons.DeliveryStatus
	DeliveryMethod  string
	DeliveredDate   *time.Time
	Complied        bool
	ComplianceDate  *time.Time
	ComplianceNotes string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// State returns the combined workflow state.
func (s *Summons) State() summons.State {
	return summons.StateOf(s.DeliveryStatus, s.Complied)
}

// Validate checks required fields and the delivery/compliance combination.
func (s *Summons) Validate() error {
	switch {
	case s.CaseID <= 0:
		return errs.Validation("summons", "case id is required")
	case s.RespondentID <= 0:
		return errs.Validation("summons", "respondent id is required")
	case s.AppearanceDate.IsZero():
		return errs.Validation("summons", "appearance date is required")
	case !s.DeliveryStatus.Valid():
		return errs.Validation("summons", "unknown delivery status %q", s.DeliveryStatus)
	case s.Complied && s.DeliveryStatus != summons.DeliveryDelivered:
		return errs.Validation("summons", "only a delivered summons can be complied")
	}
	return nil
}

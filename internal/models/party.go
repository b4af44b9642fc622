package models

import (
	"strings"
	"time"

	"github.com/example/blotter/internal/errs"
)

// Person is a deduplicated identity. Role records (suspect, witness, respondent)
// may point at the same Person.
type Person struct {
	ID            int64
	FirstName     string
	LastName      string
	ContactNumber string
	Address       string
	PersonType    PersonType
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullName returns "First Last".
func (p *Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Validate checks required fields.
func (p *Person) Validate() error {
	if blank(p.FirstName) || blank(p.LastName) {
		return errs.Validation("person", "first and last name are required")
	}
	_, err := ParsePersonType(string(p.PersonType))
	return err
}

// PersonKey is the dedup identity of a Person.
type PersonKey struct {
	FirstName     string
	LastName      string
	ContactNumber string
}

// Normalize trims whitespace so lookups match regardless of input padding.
func (k PersonKey) Normalize() PersonKey {
	return PersonKey{
		FirstName:     strings.TrimSpace(k.FirstName),
		LastName:      strings.TrimSpace(k.LastName),
		ContactNumber: strings.TrimSpace(k.ContactNumber),
	}
}

// Suspect is a suspect named on a case.
type Suspect struct {
	ID          int64
	CaseID      int64
	PersonID    *int64
	FirstName   string
	LastName    string
	Alias       string
	Age         int
	Gender      string
	Address     string
	Description string
	CreatedAt   time.Time
}

// Validate checks required fields.
func (s *Suspect) Validate() error {
	switch {
	case s.CaseID <= 0:
		return errs.Validation("suspect", "case id is required")
	case blank(s.FirstName) && blank(s.LastName) && blank(s.Alias) && blank(s.Description):
		return errs.Validation("suspect", "a name, alias or description is required")
	case s.Age < 0:
		return errs.Validation("suspect", "age cannot be negative")
	}
	return nil
}

// Witness is a witness attached to a case.
type Witness struct {
	ID            int64
	CaseID        int64
	PersonID      *int64
	FirstName     string
	LastName      string
	ContactNumber string
	Address       string
	Statement     string
	CreatedAt     time.Time
}

// Validate checks required fields.
func (w *Witness) Validate() error {
	if w.CaseID <= 0 {
		return errs.Validation("witness", "case id is required")
	}
	if blank(w.FirstName) || blank(w.LastName) {
		return errs.Validation("witness", "first and last name are required")
	}
	return nil
}

// Evidence is a collected item. MediaRefs point at externally stored files.
type Evidence struct {
	ID             int64
	CaseID         int64
	EvidenceType   string
	Description    string
	LocationFound  string
	CollectedBy    string
	CollectedDate  time.Time
	MediaRefs      []string
	ChainOfCustody string
	CreatedAt      time.Time
}

// Clone returns a deep copy.
func (e *Evidence) Clone() *Evidence {
	cp := *e
	cp.MediaRefs = cloneStrings(e.MediaRefs)
	return &cp
}

// Validate checks required fields.
func (e *Evidence) Validate() error {
	switch {
	case e.CaseID <= 0:
		return errs.Validation("evidence", "case id is required")
	case blank(e.EvidenceType):
		return errs.Validation("evidence", "evidence type is required")
	case blank(e.Description):
		return errs.Validation("evidence", "description is required")
	}
	for _, ref := range e.MediaRefs {
		if blank(ref) {
			return errs.Validation("evidence", "media references cannot be blank")
		}
	}
	return nil
}

// PersonHistory records a Person's role in a Case. Append-only.
type PersonHistory struct {
	ID          int64
	PersonID    int64
	CaseID      int64
	Role        string
	Description string
	CreatedAt   time.Time
}

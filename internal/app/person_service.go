package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/blotter/internal/errs"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/primary"
	"github.com/example/blotter/internal/ports/secondary"
)

// PersonServiceImpl implements the PersonService interface.
type PersonServiceImpl struct {
	rt      Runtime
	persons secondary.PersonRepository
	cases   secondary.CaseRepository
	audit   secondary.AuditTrail
}

// NewPersonService creates a new PersonService with injected dependencies.
func NewPersonService(rt Runtime, persons secondary.PersonRepository, cases secondary.CaseRepository, audit secondary.AuditTrail) *PersonServiceImpl {
	return &PersonServiceImpl{rt: rt, persons: persons, cases: cases, audit: audit}
}

var _ primary.PersonService = (*PersonServiceImpl)(nil)

// resolvePerson returns the Person matching the dedup key of p, creating it when missing.
func resolvePerson(ctx context.Context, persons secondary.PersonRepository, p *models.Person) (*models.Person, bool, error) {
	key := models.PersonKey{FirstName: p.FirstName, LastName: p.LastName, ContactNumber: p.ContactNumber}.Normalize()
	existing, err := persons.FindByKey(ctx, key)
	if err == nil {
		return existing, false, nil
	}
	if !errs.IsKind(err, errs.KindNotFound) {
		return nil, false, fmt.Errorf("failed to look up person: %w", err)
	}

	created := &models.Person{
		FirstName:     key.FirstName,
		LastName:      key.LastName,
		ContactNumber: key.ContactNumber,
		Address:       strings.TrimSpace(p.Address),
		PersonType:    p.PersonType,
	}
	if created.PersonType == "" {
		created.PersonType = models.PersonComplainant
	}
	if err := created.Validate(); err != nil {
		return nil, false, err
	}
	if err := persons.Create(ctx, created); err != nil {
		return nil, false, fmt.Errorf("failed to create person: %w", err)
	}
	return created, true, nil
}

// ResolvePerson returns the existing Person for the (first, last, contact) key or creates one.
func (s *PersonServiceImpl) ResolvePerson(ctx context.Context, p *models.Person) (*models.Person, bool, error) {
	var (
		person  *models.Person
		created bool
	)
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		person, created, err = resolvePerson(ctx, s.persons, p)
		return err
	})
	if err != nil {
		return nil, false, s.rt.rejected("person", err)
	}
	return person, created, nil
}

// GetPerson retrieves a person by ID.
func (s *PersonServiceImpl) GetPerson(ctx context.Context, personID int64) (*models.Person, error) {
	return s.persons.GetByID(ctx, personID)
}

// UpdatePerson replaces a person's fields. Moving onto another person's key is a conflict.
func (s *PersonServiceImpl) UpdatePerson(ctx context.Context, p *models.Person) (*models.Person, error) {
	if err := p.Validate(); err != nil {
		return nil, s.rt.rejected("person", err)
	}
	if err := s.persons.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update person: %w", err)
	}
	return s.persons.GetByID(ctx, p.ID)
}

// DeletePerson removes a person. History goes with it and role records are unlinked.
func (s *PersonServiceImpl) DeletePerson(ctx context.Context, personID int64) error {
	return s.persons.Delete(ctx, personID)
}

// SearchPersons matches names and contact numbers.
func (s *PersonServiceImpl) SearchPersons(ctx context.Context, query string, limit int) ([]*models.Person, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errs.Validation("person", "search query is required")
	}
	return s.persons.Search(ctx, query, limit)
}

// History lists the person's roles across cases, newest first.
func (s *PersonServiceImpl) History(ctx context.Context, personID int64) ([]*models.PersonHistory, error) {
	if _, err := s.persons.GetByID(ctx, personID); err != nil {
		return nil, err
	}
	return s.audit.ListPersonHistory(ctx, personID)
}

// CasesForPerson lists the distinct cases the person appears in, most recent role first.
func (s *PersonServiceImpl) CasesForPerson(ctx context.Context, personID int64) ([]*models.Case, error) {
	history, err := s.History(ctx, personID)
	if err != nil {
		return nil, err
	}
	seen := make(map[int64]bool)
	var out []*models.Case
	for _, h := range history {
		if seen[h.CaseID] {
			continue
		}
		seen[h.CaseID] = true
		c, err := s.cases.GetByID(ctx, h.CaseID)
		if err != nil {
			return nil, fmt.Errorf("failed to load case %d: %w", h.CaseID, err)
		}
		out = append(out, c)
	}
	return out, nil
}

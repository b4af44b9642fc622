package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/blotter/internal/core/blotter"
	"github.com/example/blotter/internal/core/effects"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/primary"
	"github.com/example/blotter/internal/ports/secondary"
)

// PartyServiceImpl implements the PartyService interface.
type PartyServiceImpl struct {
	rt        Runtime
	cases     secondary.CaseRepository
	persons   secondary.PersonRepository
	suspects  secondary.SuspectRepository
	witnesses secondary.WitnessRepository
	evidence  secondary.EvidenceRepository
}

// NewPartyService creates a new PartyService with injected dependencies.
func NewPartyService(
	rt Runtime,
	cases secondary.CaseRepository,
	persons secondary.PersonRepository,
	suspects secondary.SuspectRepository,
	witnesses secondary.WitnessRepository,
	evidence secondary.EvidenceRepository,
) *PartyServiceImpl {
	return &PartyServiceImpl{
		rt:        rt,
		cases:     cases,
		persons:   persons,
		suspects:  suspects,
		witnesses: witnesses,
		evidence:  evidence,
	}
}

var _ primary.PartyService = (*PartyServiceImpl)(nil)

// ============================================================================
// Suspects
// ============================================================================

// AddSuspect attaches a suspect, linking it to the Person named by person when given.
func (s *PartyServiceImpl) AddSuspect(ctx context.Context, suspect *models.Suspect, person *primary.PersonRef) (*models.Suspect, error) {
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.rt.openCase(ctx, s.cases, suspect.CaseID)
		if err != nil {
			return err
		}
		if err := suspect.Validate(); err != nil {
			return s.rt.rejected("suspect", err)
		}
		if person != nil {
			p, _, err := resolvePerson(ctx, s.persons, personFromRef(person, models.PersonSuspect))
			if err != nil {
				return s.rt.rejected("person", err)
			}
			suspect.PersonID = &p.ID
		}
		if err := s.suspects.Create(ctx, suspect); err != nil {
			return fmt.Errorf("failed to create suspect: %w", err)
		}
		description := fmt.Sprintf("Suspect %s added", displayOr(joinName(suspect.FirstName, suspect.LastName), suspect.Alias, "unidentified"))
		return s.rt.apply(ctx, blotter.PartyAddedEffects(c.ID, effects.EventSuspectAdded, "Suspect added", description,
			derefID(suspect.PersonID), "Suspect", s.rt.actor(ctx).Name, s.rt.now()))
	})
	if err != nil {
		return nil, err
	}
	return suspect, nil
}

// UpdateSuspect replaces a suspect's descriptive fields.
func (s *PartyServiceImpl) UpdateSuspect(ctx context.Context, suspect *models.Suspect) (*models.Suspect, error) {
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.suspects.GetByID(ctx, suspect.ID)
		if err != nil {
			return err
		}
		if _, err := s.rt.openCase(ctx, s.cases, current.CaseID); err != nil {
			return err
		}
		suspect.CaseID = current.CaseID
		if err := suspect.Validate(); err != nil {
			return s.rt.rejected("suspect", err)
		}
		return s.suspects.Update(ctx, suspect)
	})
	if err != nil {
		return nil, err
	}
	return suspect, nil
}

// RemoveSuspect deletes a suspect.
func (s *PartyServiceImpl) RemoveSuspect(ctx context.Context, suspectID int64) error {
	return s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.suspects.GetByID(ctx, suspectID)
		if err != nil {
			return err
		}
		if _, err := s.rt.openCase(ctx, s.cases, current.CaseID); err != nil {
			return err
		}
		return s.suspects.Delete(ctx, suspectID)
	})
}

// ListSuspects lists the suspects of a case.
func (s *PartyServiceImpl) ListSuspects(ctx context.Context, caseID int64) ([]*models.Suspect, error) {
	return s.suspects.ListByCase(ctx, caseID)
}

// ============================================================================
// Witnesses
// ============================================================================

// AddWitness attaches a witness. With linkPerson the witness's own name and contact
// resolve to a Person.
func (s *PartyServiceImpl) AddWitness(ctx context.Context, w *models.Witness, linkPerson bool) (*models.Witness, error) {
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.rt.openCase(ctx, s.cases, w.CaseID)
		if err != nil {
			return err
		}
		if err := w.Validate(); err != nil {
			return s.rt.rejected("witness", err)
		}
		if linkPerson {
			p, _, err := resolvePerson(ctx, s.persons, &models.Person{
				FirstName:     w.FirstName,
				LastName:      w.LastName,
				ContactNumber: w.ContactNumber,
				Address:       w.Address,
				PersonType:    models.PersonWitness,
			})
			if err != nil {
				return s.rt.rejected("person", err)
			}
			w.PersonID = &p.ID
		}
		if err := s.witnesses.Create(ctx, w); err != nil {
			return fmt.Errorf("failed to create witness: %w", err)
		}
		description := fmt.Sprintf("Witness %s added", joinName(w.FirstName, w.LastName))
		return s.rt.apply(ctx, blotter.PartyAddedEffects(c.ID, effects.EventWitnessAdded, "Witness added", description,
			derefID(w.PersonID), "Witness", s.rt.actor(ctx).Name, s.rt.now()))
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// UpdateWitness replaces a witness's fields.
func (s *PartyServiceImpl) UpdateWitness(ctx context.Context, w *models.Witness) (*models.Witness, error) {
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.witnesses.GetByID(ctx, w.ID)
		if err != nil {
			return err
		}
		if _, err := s.rt.openCase(ctx, s.cases, current.CaseID); err != nil {
			return err
		}
		w.CaseID = current.CaseID
		if err := w.Validate(); err != nil {
			return s.rt.rejected("witness", err)
		}
		return s.witnesses.Update(ctx, w)
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// RemoveWitness deletes a witness.
func (s *PartyServiceImpl) RemoveWitness(ctx context.Context, witnessID int64) error {
	return s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.witnesses.GetByID(ctx, witnessID)
		if err != nil {
			return err
		}
		if _, err := s.rt.openCase(ctx, s.cases, current.CaseID); err != nil {
			return err
		}
		return s.witnesses.Delete(ctx, witnessID)
	})
}

// ListWitnesses lists the witnesses of a case.
func (s *PartyServiceImpl) ListWitnesses(ctx context.Context, caseID int64) ([]*models.Witness, error) {
	return s.witnesses.ListByCase(ctx, caseID)
}

// ============================================================================
// Evidence
// ============================================================================

// AddEvidence records a collected item.
func (s *PartyServiceImpl) AddEvidence(ctx context.Context, e *models.Evidence) (*models.Evidence, error) {
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.rt.openCase(ctx, s.cases, e.CaseID)
		if err != nil {
			return err
		}
		if strings.TrimSpace(e.CollectedBy) == "" {
			e.CollectedBy = s.rt.actor(ctx).Name
		}
		if e.CollectedDate.IsZero() {
			e.CollectedDate = s.rt.now()
		}
		if err := e.Validate(); err != nil {
			return s.rt.rejected("evidence", err)
		}
		if err := s.evidence.Create(ctx, e); err != nil {
			return fmt.Errorf("failed to create evidence: %w", err)
		}
		description := fmt.Sprintf("%s evidence added: %s", e.EvidenceType, e.Description)
		return s.rt.apply(ctx, blotter.PartyAddedEffects(c.ID, effects.EventEvidenceAdded, "Evidence added", description,
			0, "", s.rt.actor(ctx).Name, s.rt.now()))
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateEvidence replaces an evidence item's fields, including its chain of custody.
func (s *PartyServiceImpl) UpdateEvidence(ctx context.Context, e *models.Evidence) (*models.Evidence, error) {
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.evidence.GetByID(ctx, e.ID)
		if err != nil {
			return err
		}
		if _, err := s.rt.openCase(ctx, s.cases, current.CaseID); err != nil {
			return err
		}
		e.CaseID = current.CaseID
		if err := e.Validate(); err != nil {
			return s.rt.rejected("evidence", err)
		}
		return s.evidence.Update(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// RemoveEvidence deletes an evidence item.
func (s *PartyServiceImpl) RemoveEvidence(ctx context.Context, evidenceID int64) error {
	return s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.evidence.GetByID(ctx, evidenceID)
		if err != nil {
			return err
		}
		if _, err := s.rt.openCase(ctx, s.cases, current.CaseID); err != nil {
			return err
		}
		return s.evidence.Delete(ctx, evidenceID)
	})
}

// ListEvidence lists the evidence of a case.
func (s *PartyServiceImpl) ListEvidence(ctx context.Context, caseID int64) ([]*models.Evidence, error) {
	return s.evidence.ListByCase(ctx, caseID)
}

// Helper methods

func personFromRef(ref *primary.PersonRef, personType models.PersonType) *models.Person {
	return &models.Person{
		FirstName:     ref.FirstName,
		LastName:      ref.LastName,
		ContactNumber: ref.ContactNumber,
		Address:       ref.Address,
		PersonType:    personType,
	}
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

func displayOr(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

package primary

import (
	"context"

	"github.com/example/blotter/internal/models"
)

// PartyService defines the primary port for suspects, witnesses and evidence.
// Every change is refused once the owning case is terminal or archived.
type PartyService interface {
	AddSuspect(ctx context.Context, s *models.Suspect, person *PersonRef) (*models.Suspect, error)
	UpdateSuspect(ctx context.Context, s *models.Suspect) (*models.Suspect, error)
	RemoveSuspect(ctx context.Context, suspectID int64) error
	ListSuspects(ctx context.Context, caseID int64) ([]*models.Suspect, error)

	AddWitness(ctx context.Context, w *models.Witness, linkPerson bool) (*models.Witness, error)
	UpdateWitness(ctx context.Context, w *models.Witness) (*models.Witness, error)
	RemoveWitness(ctx context.Context, witnessID int64) error
	ListWitnesses(ctx context.Context, caseID int64) ([]*models.Witness, error)

	AddEvidence(ctx context.Context, e *models.Evidence) (*models.Evidence, error)
	UpdateEvidence(ctx context.Context, e *models.Evidence) (*models.Evidence, error)
	RemoveEvidence(ctx context.Context, evidenceID int64) error
	ListEvidence(ctx context.Context, caseID int64) ([]*models.Evidence, error)
}

// PersonRef names the Person a role record should be linked to. The person is
// resolved through the dedup lookup and created when missing.
type PersonRef struct {
	FirstName     string
	LastName      string
	ContactNumber string
	Address       string
}

// PersonService defines the primary port for the deduplicated person directory.
type PersonService interface {
	// ResolvePerson returns the existing Person for the (first, last, contact) key
	// or creates one. created reports which happened.
	ResolvePerson(ctx context.Context, p *models.Person) (person *models.Person, created bool, err error)
	GetPerson(ctx context.Context, personID int64) (*models.Person, error)
	UpdatePerson(ctx context.Context, p *models.Person) (*models.Person, error)
	DeletePerson(ctx context.Context, personID int64) error
	SearchPersons(ctx context.Context, query string, limit int) ([]*models.Person, error)
	// History lists the person's roles across cases, newest first.
	History(ctx context.Context, personID int64) ([]*models.PersonHistory, error)
	// CasesForPerson lists the distinct cases the person appears in.
	CasesForPerson(ctx context.Context, personID int64) ([]*models.Case, error)
}

package secondary

import (
	"context"

	"github.com/example/blotter/internal/models"
)

// PeerStore is the remote peer the local store synchronises from. Every fetch returns
// whole records keyed by their ID; the local side upserts them (last write wins).
type PeerStore interface {
	FetchCases(ctx context.Context) ([]*models.Case, error)
	FetchPersons(ctx context.Context) ([]*models.Person, error)
	FetchOfficers(ctx context.Context) ([]*models.Officer, error)
	FetchRespondents(ctx context.Context) ([]*models.Respondent, error)
	FetchHearings(ctx context.Context) ([]*models.Hearing, error)
	FetchSummons(ctx context.Context) ([]*models.Summons, error)
}

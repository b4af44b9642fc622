// Package peerfile implements the peer port over a JSON snapshot file, for stores
// that exchange data offline (USB stick, shared folder) instead of over a network.
package peerfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/secondary"
)

// Snapshot is the on-disk layout. Field names match case-insensitively, so
// camelCase exports from other peers ("caseNumber", "filedByUserId") load as is.
type Snapshot struct {
	ExportedBy  string               `json:"exportedBy,omitempty"`
	Cases       []*models.Case       `json:"cases"`
	Persons     []*models.Person     `json:"persons"`
	Officers    []*models.Officer    `json:"officers"`
	Respondents []*models.Respondent `json:"respondents"`
	Hearings    []*models.Hearing    `json:"hearings"`
	Summons     []*models.Summons    `json:"summons"`
}

// Store implements secondary.PeerStore over one snapshot file.
// The file is read on first fetch; every later fetch serves the same snapshot.
type Store struct {
	path string

	once sync.Once
	snap *Snapshot
	err  error
}

// NewStore creates a peer store reading path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

var _ secondary.PeerStore = (*Store)(nil)

func (s *Store) load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.once.Do(func() {
		data, err := os.ReadFile(s.path)
		if err != nil {
			s.err = fmt.Errorf("failed to read peer snapshot: %w", err)
			return
		}
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			s.err = fmt.Errorf("failed to parse peer snapshot %s: %w", s.path, err)
			return
		}
		s.snap = &snap
	})
	return s.snap, s.err
}

// FetchCases returns the snapshot's cases.
func (s *Store) FetchCases(ctx context.Context) ([]*models.Case, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Case, 0, len(snap.Cases))
	for _, c := range snap.Cases {
		out = append(out, c.Clone())
	}
	return out, nil
}

// FetchPersons returns the snapshot's persons.
func (s *Store) FetchPersons(ctx context.Context) ([]*models.Person, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return copyAll(snap.Persons), nil
}

// FetchOfficers returns the snapshot's officers.
func (s *Store) FetchOfficers(ctx context.Context) ([]*models.Officer, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := copyAll(snap.Officers)
	for _, o := range out {
		if o.UserID != nil {
			id := *o.UserID
			o.UserID = &id
		}
	}
	return out, nil
}

// FetchRespondents returns the snapshot's respondents.
func (s *Store) FetchRespondents(ctx context.Context) ([]*models.Respondent, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return copyAll(snap.Respondents), nil
}

// FetchHearings returns the snapshot's hearings.
func (s *Store) FetchHearings(ctx context.Context) ([]*models.Hearing, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return copyAll(snap.Hearings), nil
}

// FetchSummons returns the snapshot's summons.
func (s *Store) FetchSummons(ctx context.Context) ([]*models.Summons, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return copyAll(snap.Summons), nil
}

// copyAll returns shallow copies so callers can mutate records (sync detaches
// unknown users) without changing the cached snapshot.
func copyAll[T any](in []*T) []*T {
	out := make([]*T, 0, len(in))
	for _, v := range in {
		if v == nil {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	return out
}

// Write saves snap to path atomically (write to a temp file, then rename).
func Write(path string, snap *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/example/blotter/internal/core/blotter"
	"github.com/example/blotter/internal/core/hearing"
	"github.com/example/blotter/internal/core/respondent"
	"github.com/example/blotter/internal/core/summons"
	"github.com/example/blotter/internal/errs"
	"github.com/example/blotter/internal/models"
	"github.com/example/blotter/internal/ports/primary"
	"github.com/example/blotter/internal/ports/secondary"
)

// peerFetchTimeout bounds the concurrent fetch phase of a pull.
const peerFetchTimeout = 30 * time.Second

// SyncRepos groups the repositories a pull upserts into.
type SyncRepos struct {
	Cases       secondary.CaseRepository
	Persons     secondary.PersonRepository
	Officers    secondary.OfficerRepository
	Respondents secondary.RespondentRepository
	Hearings    secondary.HearingRepository
	Summons     secondary.SummonsRepository
	Users       secondary.UserRepository
}

// SyncServiceImpl implements the SyncService interface.
type SyncServiceImpl struct {
	rt    Runtime
	peer  secondary.PeerStore
	repos SyncRepos
}

// NewSyncService creates a new SyncService with injected dependencies.
func NewSyncService(rt Runtime, peer secondary.PeerStore, repos SyncRepos) *SyncServiceImpl {
	return &SyncServiceImpl{rt: rt, peer: peer, repos: repos}
}

var _ primary.SyncService = (*SyncServiceImpl)(nil)

// peerSnapshot holds one fetch of every record family.
type peerSnapshot struct {
	cases       []*models.Case
	persons     []*models.Person
	officers    []*models.Officer
	respondents []*models.Respondent
	hearings    []*models.Hearing
	summons     []*models.Summons
}

// Pull fetches every family from the peer concurrently, validates all of it and then
// upserts it in one transaction. Nothing is written when any record is invalid.
func (s *SyncServiceImpl) Pull(ctx context.Context) (*primary.SyncReport, error) {
	snap, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := snap.validate(); err != nil {
		return nil, s.rt.rejected("sync", err)
	}

	report := &primary.SyncReport{}
	err = s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		// Parents before children so foreign keys hold inside the transaction.
		for _, o := range snap.officers {
			if err := s.detachUser(ctx, &o.UserID, nil); err != nil {
				return err
			}
			if err := s.repos.Officers.Upsert(ctx, o); err != nil {
				return fmt.Errorf("failed to upsert officer %d: %w", o.ID, err)
			}
			report.Officers++
		}
		for _, p := range snap.persons {
			if err := s.repos.Persons.Upsert(ctx, p); err != nil {
				return fmt.Errorf("failed to upsert person %d: %w", p.ID, err)
			}
			report.Persons++
		}
		for _, c := range snap.cases {
			if err := s.detachUser(ctx, &c.FiledByUserID, &report.DetachedFilers); err != nil {
				return err
			}
			if err := s.repos.Cases.Upsert(ctx, c); err != nil {
				return fmt.Errorf("failed to upsert case %d: %w", c.ID, err)
			}
			report.Cases++
		}
		for _, r := range snap.respondents {
			if err := s.repos.Respondents.Upsert(ctx, r); err != nil {
				return fmt.Errorf("failed to upsert respondent %d: %w", r.ID, err)
			}
			report.Respondents++
		}
		for _, h := range snap.hearings {
			if err := s.repos.Hearings.Upsert(ctx, h); err != nil {
				return fmt.Errorf("failed to upsert hearing %d: %w", h.ID, err)
			}
			report.Hearings++
		}
		for _, sm := range snap.summons {
			if err := s.repos.Summons.Upsert(ctx, sm); err != nil {
				return fmt.Errorf("failed to upsert summons %d: %w", sm.ID, err)
			}
			report.Summons++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.rt.logger().Info("peer sync complete",
		"cases", report.Cases, "persons", report.Persons, "officers", report.Officers,
		"respondents", report.Respondents, "hearings", report.Hearings, "summons", report.Summons,
		"detached_filers", report.DetachedFilers)
	return report, nil
}

func (s *SyncServiceImpl) fetch(ctx context.Context) (*peerSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, peerFetchTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	snap := &peerSnapshot{}
	g.Go(func() (err error) {
		snap.cases, err = s.peer.FetchCases(ctx)
		return wrapFetch("cases", err)
	})
	g.Go(func() (err error) {
		snap.persons, err = s.peer.FetchPersons(ctx)
		return wrapFetch("persons", err)
	})
	g.Go(func() (err error) {
		snap.officers, err = s.peer.FetchOfficers(ctx)
		return wrapFetch("officers", err)
	})
	g.Go(func() (err error) {
		snap.respondents, err = s.peer.FetchRespondents(ctx)
		return wrapFetch("respondents", err)
	})
	g.Go(func() (err error) {
		snap.hearings, err = s.peer.FetchHearings(ctx)
		return wrapFetch("hearings", err)
	})
	g.Go(func() (err error) {
		snap.summons, err = s.peer.FetchSummons(ctx)
		return wrapFetch("summons", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func wrapFetch(family string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to fetch %s from peer: %w", family, err)
}

// detachUser clears a user reference the local store cannot satisfy. Peer user
// accounts are never synchronised, so such links would break the foreign key.
func (s *SyncServiceImpl) detachUser(ctx context.Context, userID **int64, counter *int) error {
	if *userID == nil {
		return nil
	}
	_, err := s.repos.Users.GetByID(ctx, **userID)
	if err == nil {
		return nil
	}
	if !errs.IsKind(err, errs.KindNotFound) {
		return fmt.Errorf("failed to look up user %d: %w", **userID, err)
	}
	*userID = nil
	if counter != nil {
		*counter++
	}
	return nil
}

// validate fills the defaults the store would apply on create, then checks every
// record. Records must carry their peer ID.
func (snap *peerSnapshot) validate() error {
	for _, c := range snap.cases {
		if c.ID <= 0 {
			return errs.Validation("case", "peer case without id")
		}
		if c.Status == "" {
			c.Status = blotter.StatusPending
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("peer case %d: %w", c.ID, err)
		}
	}
	for _, p := range snap.persons {
		if p.ID <= 0 {
			return errs.Validation("person", "peer person without id")
		}
		if p.PersonType == "" {
			p.PersonType = models.PersonComplainant
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("peer person %d: %w", p.ID, err)
		}
	}
	for _, o := range snap.officers {
		if o.ID <= 0 {
			return errs.Validation("officer", "peer officer without id")
		}
		if err := o.Validate(); err != nil {
			return fmt.Errorf("peer officer %d: %w", o.ID, err)
		}
	}
	for _, r := range snap.respondents {
		if r.ID <= 0 {
			return errs.Validation("respondent", "peer respondent without id")
		}
		if r.CooperationStatus == "" {
			r.CooperationStatus = respondent.StatusNotified
		}
		if err := r.Validate(); err != nil {
			return fmt.Errorf("peer respondent %d: %w", r.ID, err)
		}
	}
	for _, h := range snap.hearings {
		if h.ID <= 0 {
			return errs.Validation("hearing", "peer hearing without id")
		}
		if h.Status == "" {
			h.Status = hearing.StatusScheduled
		}
		if err := h.Validate(); err != nil {
			return fmt.Errorf("peer hearing %d: %w", h.ID, err)
		}
	}
	for _, sm := range snap.summons {
		if sm.ID <= 0 {
			return errs.Validation("summons", "peer summons without id")
		}
		if sm.DeliveryStatus == "" {
			sm.DeliveryStatus = summons.DeliveryPending
		}
		if err := sm.Validate(); err != nil {
			return fmt.Errorf("peer summons %d: %w", sm.ID, err)
		}
	}
	return nil
}

// Export reads every synchronised family in one transaction so the result is a
// consistent snapshot. Persons are limited to those linked from a respondent.
func (s *SyncServiceImpl) Export(ctx context.Context) (*primary.PeerRecords, error) {
	out := &primary.PeerRecords{}
	err := s.rt.Tx.WithTx(ctx, func(ctx context.Context) error {
		cases, err := s.repos.Cases.List(ctx, models.CaseFilters{IncludeArchived: true})
		if err != nil {
			return fmt.Errorf("failed to list cases: %w", err)
		}
		out.Cases = cases
		if out.Officers, err = s.repos.Officers.List(ctx, false); err != nil {
			return fmt.Errorf("failed to list officers: %w", err)
		}

		seen := make(map[int64]bool)
		for _, c := range cases {
			respondents, err := s.repos.Respondents.ListByCase(ctx, c.ID)
			if err != nil {
				return fmt.Errorf("failed to list respondents of case %d: %w", c.ID, err)
			}
			for _, r := range respondents {
				if r.PersonID == nil || seen[*r.PersonID] {
					continue
				}
				seen[*r.PersonID] = true
				p, err := s.repos.Persons.GetByID(ctx, *r.PersonID)
				if err != nil {
					return fmt.Errorf("failed to load person %d: %w", *r.PersonID, err)
				}
				out.Persons = append(out.Persons, p)
			}
			out.Respondents = append(out.Respondents, respondents...)

			hearings, err := s.repos.Hearings.ListByCase(ctx, c.ID)
			if err != nil {
				return fmt.Errorf("failed to list hearings of case %d: %w", c.ID, err)
			}
			out.Hearings = append(out.Hearings, hearings...)

			summonses, err := s.repos.Summons.ListByCase(ctx, c.ID)
			if err != nil {
				return fmt.Errorf("failed to list summonses of case %d: %w", c.ID, err)
			}
			out.Summons = append(out.Summons, summonses...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.rt.logger().Info("peer export collected", "cases", len(out.Cases), "persons", len(out.Persons))
	return out, nil
}

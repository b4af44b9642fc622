// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/blotter/internal/logger"
	"github.com/example/blotter/internal/metrics"
	"github.com/example/blotter/internal/ports/secondary"
)

// Publisher is told which tables a committed write touched.
type Publisher interface {
	Publish(tables ...string)
}

// Options configures the repositories built by NewStore.
type Options struct {
	// Clock stamps createdAt/updatedAt. Defaults to time.Now in UTC.
	Clock     func() time.Time
	Publisher Publisher
	Logger    *logger.Logger
	Metrics   *metrics.Metrics
}

// Store bundles every repository over one database handle.
type Store struct {
	Tx            *Transactor
	Cases         *CaseRepository
	Persons       *PersonRepository
	Suspects      *SuspectRepository
	Witnesses     *WitnessRepository
	Evidence      *EvidenceRepository
	Respondents   *RespondentRepository
	Statements    *StatementRepository
	Summons       *SummonsRepository
	Hearings      *HearingRepository
	Resolutions   *ResolutionRepository
	Mediations    *MediationRepository
	KPForms       *KPFormRepository
	Officers      *OfficerRepository
	Users         *UserRepository
	Statuses      *StatusRepository
	Notifications *NotificationRepository
	Sms           *SmsRepository
	Templates     *TemplateRepository
	Audit         *AuditRepository
}

// NewStore creates every repository over db.
func NewStore(db *sql.DB, opts Options) *Store {
	tx := NewTransactor(db, opts.Publisher, opts.Logger, opts.Metrics)
	clock := opts.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	b := base{db: db, tx: tx, clock: clock}
	return &Store{
		Tx:            tx,
		Cases:         &CaseRepository{b},
		Persons:       &PersonRepository{b},
		Suspects:      &SuspectRepository{b},
		Witnesses:     &WitnessRepository{b},
		Evidence:      &EvidenceRepository{b},
		Respondents:   &RespondentRepository{b},
		Statements:    &StatementRepository{b},
		Summons:       &SummonsRepository{b},
		Hearings:      &HearingRepository{b},
		Resolutions:   &ResolutionRepository{b},
		Mediations:    &MediationRepository{b},
		KPForms:       &KPFormRepository{b},
		Officers:      &OfficerRepository{b},
		Users:         &UserRepository{b},
		Statuses:      &StatusRepository{b},
		Notifications: &NotificationRepository{b},
		Sms:           &SmsRepository{b},
		Templates:     &TemplateRepository{b},
		Audit:         &AuditRepository{b},
	}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// base is embedded by every repository.
type base struct {
	db    *sql.DB
	tx    *Transactor
	clock func() time.Time
}

// conn yields the transaction carried by ctx, or the handle itself.
func (b base) conn(ctx context.Context) querier {
	if st := txFrom(ctx); st != nil {
		return st.tx
	}
	return b.db
}

func (b base) now() time.Time {
	return b.clock().UTC()
}

// touched records that a write hit tables. Inside a transaction the tables are
// published after commit; an autocommit write publishes immediately.
func (b base) touched(ctx context.Context, tables ...string) {
	if st := txFrom(ctx); st != nil {
		st.touch(tables...)
		return
	}
	b.tx.publish(tables)
}

// inTx runs fn in the transaction carried by ctx, opening one if there is none.
func (b base) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return b.tx.WithTx(ctx, fn)
}

var (
	_ secondary.Transactor             = (*Transactor)(nil)
	_ secondary.CaseRepository         = (*CaseRepository)(nil)
	_ secondary.PersonRepository       = (*PersonRepository)(nil)
	_ secondary.SuspectRepository      = (*SuspectRepository)(nil)
	_ secondary.WitnessRepository      = (*WitnessRepository)(nil)
	_ secondary.EvidenceRepository     = (*EvidenceRepository)(nil)
	_ secondary.RespondentRepository   = (*RespondentRepository)(nil)
	_ secondary.StatementRepository    = (*StatementRepository)(nil)
	_ secondary.SummonsRepository      = (*SummonsRepository)(nil)
	_ secondary.HearingRepository      = (*HearingRepository)(nil)
	_ secondary.ResolutionRepository   = (*ResolutionRepository)(nil)
	_ secondary.MediationRepository    = (*MediationRepository)(nil)
	_ secondary.KPFormRepository       = (*KPFormRepository)(nil)
	_ secondary.OfficerRepository      = (*OfficerRepository)(nil)
	_ secondary.UserRepository         = (*UserRepository)(nil)
	_ secondary.StatusRepository       = (*StatusRepository)(nil)
	_ secondary.NotificationRepository = (*NotificationRepository)(nil)
	_ secondary.SmsRepository          = (*SmsRepository)(nil)
	_ secondary.TemplateRepository     = (*TemplateRepository)(nil)
	_ secondary.AuditTrail             = (*AuditRepository)(nil)
)

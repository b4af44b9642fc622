package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/example/blotter/internal/logger"
	"github.com/example/blotter/internal/metrics"
)

type txKey struct{}

type txState struct {
	tx     *sql.Tx
	tables map[string]bool
}

func (s *txState) touch(tables ...string) {
	for _, t := range tables {
		s.tables[t] = true
	}
}

func (s *txState) touchedTables() []string {
	out := make([]string, 0, len(s.tables))
	for t := range s.tables {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func txFrom(ctx context.Context) *txState {
	st, _ := ctx.Value(txKey{}).(*txState)
	return st
}

// Transactor implements secondary.Transactor over a *sql.DB.
type Transactor struct {
	db      *sql.DB
	pub     Publisher
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewTransactor creates a Transactor. pub may be nil.
func NewTransactor(db *sql.DB, pub Publisher, log *logger.Logger, m *metrics.Metrics) *Transactor {
	if log == nil {
		log = logger.Nop()
	}
	return &Transactor{db: db, pub: pub, log: log, metrics: m}
}

// WithTx runs fn in a transaction. fn's error rolls everything back. A WithTx call
// made with a context that already carries a transaction joins it.
func (t *Transactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}

	start := time.Now()
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	st := &txState{tx: tx, tables: make(map[string]bool)}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, st)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			t.log.Error("rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	t.metrics.ObserveTx(start)

	// The write stands once committed; caller cancellation no longer matters.
	t.publish(st.touchedTables())
	return nil
}

func (t *Transactor) publish(tables []string) {
	if t == nil || t.pub == nil || len(tables) == 0 {
		return
	}
	t.pub.Publish(tables...)
}

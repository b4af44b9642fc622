package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/example/blotter/internal/errs"
	"github.com/example/blotter/internal/logger"
	"github.com/example/blotter/internal/metrics"
)

// Migration is one additive schema step. Up runs inside the step's transaction,
// together with the schema_version insert, and must be safe to re-run.
type Migration struct {
	Version int
	Name    string
	Up      func(ctx context.Context, tx *sql.Tx) error
}

// Migrations returns the built-in migrations in order.
func Migrations() []Migration {
	return []Migration{
		{Version: 1, Name: "create_core_case_tables", Up: migrationV1},
		{Version: 2, Name: "add_hearings_resolutions_timeline", Up: migrationV2},
		{Version: 3, Name: "add_respondents_statements_summons", Up: migrationV3},
		{Version: 4, Name: "add_officer_assignment_and_archival", Up: migrationV4},
		{Version: 5, Name: "add_sms_queue_and_person_history", Up: migrationV5},
		{Version: 6, Name: "add_case_templates_and_chain_of_custody", Up: migrationV6},
		{Version: 7, Name: "add_mediation_sessions_and_kp_forms", Up: migrationV7},
		{Version: 8, Name: "add_statement_verification_and_indexes", Up: migrationV8},
	}
}

const schemaVersionSQL = `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		appliedAt DATETIME DEFAULT CURRENT_TIMESTAMP
	)
`

// Migrator brings a store to a target schema version one step at a time.
type Migrator struct {
	migrations   []Migration
	log          *logger.Logger
	metrics      *metrics.Metrics
	allowRebuild bool
}

// NewMigrator creates a Migrator over the given steps.
func NewMigrator(migrations []Migration, log *logger.Logger, m *metrics.Metrics, allowDestructiveRebuild bool) *Migrator {
	if log == nil {
		log = logger.Nop()
	}
	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })
	return &Migrator{migrations: sorted, log: log, metrics: m, allowRebuild: allowDestructiveRebuild}
}

// Version returns the highest applied version, 0 for an unversioned store.
func (m *Migrator) Version(ctx context.Context, db *sql.DB) (int, error) {
	if _, err := db.ExecContext(ctx, schemaVersionSQL); err != nil {
		return 0, fmt.Errorf("failed to create schema_version table: %w", err)
	}
	var version int
	if err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return version, nil
}

// Init prepares a store on open. A brand new store gets SchemaSQL directly;
// an existing one is migrated to CurrentVersion.
func (m *Migrator) Init(ctx context.Context, db *sql.DB) error {
	fresh, err := isFresh(ctx, db)
	if err != nil {
		return errs.Migration(0, err)
	}
	if fresh {
		m.log.Info("initializing fresh schema", "version", CurrentVersion)
		return m.installSchema(ctx, db)
	}
	return m.Migrate(ctx, db, CurrentVersion)
}

// Migrate applies every step in (current, target]. Each step must exist: a gap is a
// MigrationError and no later step runs. A store newer than target is also an error.
// With destructive rebuild enabled both cases drop all data and reinstall SchemaSQL.
func (m *Migrator) Migrate(ctx context.Context, db *sql.DB, target int) error {
	current, err := m.Version(ctx, db)
	if err != nil {
		return errs.Migration(0, err)
	}
	if current == target {
		return nil
	}

	path, pathErr := m.path(current, target)
	if pathErr != nil {
		if m.allowRebuild && target == CurrentVersion {
			return m.rebuild(ctx, db, current, pathErr)
		}
		return pathErr
	}

	for _, step := range path {
		if err := m.apply(ctx, db, step); err != nil {
			return err
		}
	}
	return nil
}

func (m *Migrator) path(from, to int) ([]Migration, error) {
	if from > to {
		return nil, errs.MigrationPath(from, to)
	}
	byVersion := make(map[int]Migration, len(m.migrations))
	for _, mig := range m.migrations {
		byVersion[mig.Version] = mig
	}
	path := make([]Migration, 0, to-from)
	for v := from + 1; v <= to; v++ {
		step, ok := byVersion[v]
		if !ok {
			return nil, errs.MigrationPath(from, to)
		}
		path = append(path, step)
	}
	return path, nil
}

func (m *Migrator) apply(ctx context.Context, db *sql.DB, step Migration) error {
	m.log.Info("running migration", "version", step.Version, "name", step.Name)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Migration(step.Version, fmt.Errorf("begin: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	if err := step.Up(ctx, tx); err != nil {
		m.log.Error("migration failed", "version", step.Version, "error", err)
		return errs.Migration(step.Version, err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", step.Version); err != nil {
		return errs.Migration(step.Version, fmt.Errorf("record version: %w", err))
	}
	if err := tx.Commit(); err != nil {
		return errs.Migration(step.Version, fmt.Errorf("commit: %w", err))
	}
	m.metrics.IncMigration()
	return nil
}

func (m *Migrator) installSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Migration(CurrentVersion, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, SchemaSQL); err != nil {
		return errs.Migration(CurrentVersion, fmt.Errorf("apply schema: %w", err))
	}
	if _, err := tx.ExecContext(ctx, schemaVersionSQL); err != nil {
		return errs.Migration(CurrentVersion, err)
	}
	for v := 1; v <= CurrentVersion; v++ {
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO schema_version (version) VALUES (?)", v); err != nil {
			return errs.Migration(v, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return errs.Migration(CurrentVersion, err)
	}
	return nil
}

// rebuild drops every table and reinstalls SchemaSQL. All stored data is lost.
func (m *Migrator) rebuild(ctx context.Context, db *sql.DB, from int, cause error) error {
	m.log.Warn("DESTRUCTIVE REBUILD: no migration path, dropping all tables and data",
		"from_version", from, "to_version", CurrentVersion, "cause", cause.Error())

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return errs.Migration(from, err)
	}
	defer func() { _, _ = db.ExecContext(context.Background(), "PRAGMA foreign_keys = ON") }()

	tables, err := userTables(ctx, db)
	if err != nil {
		return errs.Migration(from, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Migration(from, err)
	}
	defer func() { _ = tx.Rollback() }()
	for _, t := range tables {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %q", t)); err != nil {
			return errs.Migration(from, fmt.Errorf("drop %s: %w", t, err))
		}
	}
	if err := tx.Commit(); err != nil {
		return errs.Migration(from, err)
	}
	return m.installSchema(ctx, db)
}

func isFresh(ctx context.Context, db *sql.DB) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('schema_version', 'blotter_reports')").Scan(&n)
	return n == 0, err
}

func userTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// addColumn adds a column unless it already exists, so a step can be re-run
// after a crash between ALTER and the version insert.
func addColumn(ctx context.Context, tx *sql.Tx, table, column, decl string) error {
	var n int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column).Scan(&n); err != nil {
		return fmt.Errorf("inspect %s.%s: %w", table, column, err)
	}
	if n > 0 {
		return nil
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl)); err != nil {
		return fmt.Errorf("add %s.%s: %w", table, column, err)
	}
	return nil
}

func execAll(ctx context.Context, tx *sql.Tx, stmts ...string) error {
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// migrationV1 creates accounts, the status catalog, officers, cases, persons and
// the first sub-record and audit tables.
func migrationV1(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			passwordHash TEXT NOT NULL,
			firstName TEXT NOT NULL DEFAULT '',
			lastName TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL CHECK(role IN ('Admin', 'Officer', 'Clerk', 'User')) DEFAULT 'User',
			isActive INTEGER NOT NULL DEFAULT 1,
			mustChangePassword INTEGER NOT NULL DEFAULT 0,
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, `
		CREATE TABLE IF NOT EXISTS statuses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			sortOrder INTEGER NOT NULL DEFAULT 0,
			isActive INTEGER NOT NULL DEFAULT 1
		)`, `
		CREATE TABLE IF NOT EXISTS officers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			badgeNumber TEXT NOT NULL UNIQUE,
			rank TEXT NOT NULL DEFAULT '',
			contactNumber TEXT NOT NULL DEFAULT '',
			userId INTEGER REFERENCES users(id) ON DELETE SET NULL,
			isActive INTEGER NOT NULL DEFAULT 1,
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, `
		CREATE TABLE IF NOT EXISTS blotter_reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			caseNumber TEXT NOT NULL UNIQUE,
			incidentType TEXT NOT NULL,
			narrative TEXT NOT NULL,
			incidentLocation TEXT NOT NULL,
			incidentDate DATETIME,
			dateFiled DATETIME NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('Pending', 'Under Investigation', 'For Mediation', 'Mediation Ongoing', 'Settled', 'For Lupon', 'Referred to Court', 'Resolved', 'Archived', 'Closed')) DEFAULT 'Pending',
			priority TEXT NOT NULL CHECK(priority IN ('Low', 'Normal', 'High', 'Urgent')) DEFAULT 'Normal',
			complainantName TEXT NOT NULL,
			complainantContact TEXT NOT NULL DEFAULT '',
			complainantAddress TEXT NOT NULL DEFAULT '',
			filedByUserId INTEGER REFERENCES users(id) ON DELETE SET NULL,
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, `
		CREATE TABLE IF NOT EXISTS persons (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			firstName TEXT NOT NULL,
			lastName TEXT NOT NULL,
			contactNumber TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			personType TEXT NOT NULL CHECK(personType IN ('Complainant', 'Witness', 'Suspect', 'Respondent')) DEFAULT 'Complainant',
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(firstName, lastName, contactNumber)
		)`, `
		CREATE TABLE IF NOT EXISTS suspects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			blotterReportId INTEGER NOT NULL REFERENCES blotter_reports(id) ON DELETE CASCADE,
			personId INTEGER REFERENCES persons(id) ON DELETE SET NULL,
			firstName TEXT NOT NULL DEFAULT '',
			lastName TEXT NOT NULL DEFAULT '',
			alias TEXT NOT NULL DEFAULT '',
			age INTEGER NOT NULL DEFAULT 0,
			gender TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, `
		CREATE TABLE IF NOT EXISTS witnesses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			blotterReportId INTEGER NOT NULL REFERENCES blotter_reports(id) ON DELETE CASCADE,
			personId INTEGER REFERENCES persons(id) ON DELETE SET NULL,
			firstName TEXT NOT NULL,
			lastName TEXT NOT NULL,
			contactNumber TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			statement TEXT NOT NULL DEFAULT '',
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, `
		CREATE TABLE IF NOT EXISTS evidence (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			blotterReportId INTEGER NOT NULL REFERENCES blotter_reports(id) ON DELETE CASCADE,
			evidenceType TEXT NOT NULL,
			description TEXT NOT NULL,
			locationFound TEXT NOT NULL DEFAULT '',
			collectedBy TEXT NOT NULL DEFAULT '',
			collectedDate DATETIME,
			mediaRefs TEXT NOT NULL DEFAULT '[]',
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, `
		CREATE TABLE IF NOT EXISTS activity_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			blotterReportId INTEGER REFERENCES blotter_reports(id) ON DELETE CASCADE,
			action TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			oldValue TEXT NOT NULL DEFAULT '',
			newValue TEXT NOT NULL DEFAULT '',
			performedBy TEXT NOT NULL DEFAULT '',
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, `
		CREATE TABLE IF NOT EXISTS notifications (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			userId INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			blotterReportId INTEGER REFERENCES blotter_reports(id) ON DELETE CASCADE,
			title TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT '',
			isRead INTEGER NOT NULL DEFAULT 0,
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
}

// migrationV2 adds hearings, resolutions and the case timeline.
func migrationV2(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, `
		CREATE TABLE IF NOT EXISTS hearings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			blotterReportId INTEGER NOT NULL REFERENCES blotter_reports(id) ON DELETE CASCADE,
			hearingDate DATETIME NOT NULL,
			location TEXT NOT NULL,
			purpose TEXT NOT NULL DEFAULT '',
			presidingOfficer TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL CHECK(status IN ('Scheduled', 'Completed', 'Cancelled')) DEFAULT 'Scheduled',
			notes TEXT NOT NULL DEFAULT '',
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, `
		CREATE TABLE IF NOT EXISTS resolutions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			blotterReportId INTEGER NOT NULL UNIQUE REFERENCES blotter_reports(id) ON DELETE CASCADE,
			resolutionType TEXT NOT NULL,
			resolutionDetails TEXT NOT NULL DEFAULT '',
			resolvedBy TEXT NOT NULL,
			resolvedDate DATETIME NOT NULL,
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, `
		CREATE TABLE IF NOT EXISTS case_timeline (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			blotterReportId INTEGER NOT NULL REFERENCES blotter_reports(id) ON DELETE CASCADE,
			eventType TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			performedBy TEXT NOT NULL DEFAULT '',
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
}

// migrationV3 adds respondents, their statements and summonses.
func migrationV3(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, `
		CREATE TABLE IF NOT EXISTS respondents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			blotterReportId INTEGER NOT NULL REFERENCES blotter_reports(id) ON DELETE CASCADE,
			personId INTEGER REFERENCES persons(id) ON DELETE SET NULL,
			accusation TEXT NOT NULL,
			relationshipToComplainant TEXT NOT NULL DEFAULT '',
			cooperationStatus TEXT NOT NULL CHECK(cooperationStatus IN ('Notified', 'Appeared', 'No Response', 'Statement Recorded')) DEFAULT 'Notified',
			appearanceDate DATETIME,
			statementDate DATETIME,
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, `
		CREATE TABLE IF NOT EXISTS respondent_statements (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			respondentId INTEGER NOT NULL REFERENCES respondents(id) ON DELETE CASCADE,
			blotterReportId INTEGER NOT NULL REFERENCES blotter_reports(id) ON DELETE CASCADE,
			statement TEXT NOT NULL,
			submittedVia TEXT NOT NULL DEFAULT '',
			submittedAt DATETIME NOT NULL,
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, `
		CREATE TABLE IF NOT EXISTS summons (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			blotterReportId INTEGER NOT NULL REFERENCES blotter_reports(id) ON DELETE CASCADE,
			respondentId INTEGER NOT NULL REFERENCES respondents(id) ON DELETE CASCADE,
			summonsNumber TEXT NOT NULL UNIQUE,
			issuedDate DATETIME NOT NULL,
			appearanceDate DATETIME NOT NULL,
			deliveryStatus TEXT NOT NULL CHECK(deliveryStatus IN ('Pending', 'Delivered', 'Failed')) DEFAULT 'Pending',
			deliveryMethod TEXT NOT NULL DEFAULT '',
			deliveredDate DATETIME,
			complied INTEGER NOT NULL DEFAULT 0,
			complianceDate DATETIME,
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
}

// migrationV4 adds the assigned-officer set and the archival flag to cases.
func migrationV4(ctx context.Context, tx *sql.Tx) error {
	if err := addColumn(ctx, tx, "blotter_reports", "assignedOfficerIds", "TEXT NOT NULL DEFAULT '[]'"); err != nil {
		return err
	}
	return addColumn(ctx, tx, "blotter_reports", "isArchived", "INTEGER NOT NULL DEFAULT 0")
}

// migrationV5 adds the SMS queue and person history.
func migrationV5(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, `
		CREATE TABLE IF NOT EXISTS sms_notifications (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			blotterReportId INTEGER REFERENCES blotter_reports(id) ON DELETE CASCADE,
			recipientNumber TEXT NOT NULL,
			recipientName TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL,
			deliveryStatus TEXT NOT NULL CHECK(deliveryStatus IN ('Pending', 'Sent', 'Failed')) DEFAULT 'Pending',
			sentAt DATETIME,
			replyMessage TEXT NOT NULL DEFAULT '',
			replyReceivedAt DATETIME,
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, `
		CREATE TABLE IF NOT EXISTS person_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			personId INTEGER NOT NULL REFERENCES persons(id) ON DELETE CASCADE,
			blotterReportId INTEGER NOT NULL REFERENCES blotter_reports(id) ON DELETE CASCADE,
			role TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
}

// migrationV6 adds case templates and evidence chain of custody.
func migrationV6(ctx context.Context, tx *sql.Tx) error {
	if err := execAll(ctx, tx, `
		CREATE TABLE IF NOT EXISTS case_templates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			incidentType TEXT NOT NULL,
			narrativeTemplate TEXT NOT NULL,
			defaultPriority TEXT NOT NULL DEFAULT 'Normal',
			usageCount INTEGER NOT NULL DEFAULT 0,
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return err
	}
	return addColumn(ctx, tx, "evidence", "chainOfCustody", "TEXT NOT NULL DEFAULT ''")
}

// migrationV7 adds mediation sessions and KP forms.
func migrationV7(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, `
		CREATE TABLE IF NOT EXISTS mediation_sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			blotterReportId INTEGER NOT NULL REFERENCES blotter_reports(id) ON DELETE CASCADE,
			sessionDate DATETIME NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			mediatorName TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL CHECK(outcome IN ('Scheduled', 'Successful', 'Failed', 'Rescheduled')) DEFAULT 'Scheduled',
			settlementTerms TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			documentRef TEXT NOT NULL DEFAULT '',
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, `
		CREATE TABLE IF NOT EXISTS kp_forms (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			blotterReportId INTEGER NOT NULL REFERENCES blotter_reports(id) ON DELETE CASCADE,
			formType TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL CHECK(status IN ('Draft', 'Issued', 'Filed', 'Cancelled')) DEFAULT 'Draft',
			issuedDate DATETIME,
			documentRef TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
}

// migrationV8 adds statement verification, summons compliance notes and indexes.
func migrationV8(ctx context.Context, tx *sql.Tx) error {
	cols := []struct{ table, column, decl string }{
		{"respondent_statements", "verifiedBy", "TEXT NOT NULL DEFAULT ''"},
		{"respondent_statements", "verifiedAt", "DATETIME"},
		{"respondent_statements", "officerNotes", "TEXT NOT NULL DEFAULT ''"},
		{"summons", "complianceNotes", "TEXT NOT NULL DEFAULT ''"},
	}
	for _, c := range cols {
		if err := addColumn(ctx, tx, c.table, c.column, c.decl); err != nil {
			return err
		}
	}
	_, err := tx.ExecContext(ctx, indexSQL)
	return err
}

package db

// CurrentVersion is the schema version SchemaSQL describes.
const CurrentVersion = 8

// SchemaSQL is the complete schema for fresh installs.
// It reflects the state after every migration in Migrations() has run.
//
// # Schema Drift Protection
//
// This is the single source of truth for the current shape. Tests open stores
// through db.Open, so repositories run against exactly this schema, and
// TestMigrationsMatchSchemaSQL proves that migrating an empty store from v0
// produces the same tables, columns and indexes.
//
// When adding new columns or tables:
//  1. Add a migration step in migrations.go and bump CurrentVersion
//  2. Update SchemaSQL here
//  3. Add the table to Ownership if it belongs to a case or another owner
const SchemaSQL = `
-- Users (login accounts)
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
);

-- Status catalog (referenced by name from blotter_reports.status)
CREATE TABLE IF NOT EXISTS statuses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	color TEXT NOT NULL DEFAULT '',
	sortOrder INTEGER NOT NULL DEFAULT 0,
	isActive INTEGER NOT NULL DEFAULT 1
);

-- Officers
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
);

-- Cases (blotter reports)
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
	assignedOfficerIds TEXT NOT NULL DEFAULT '[]',
	isArchived INTEGER NOT NULL DEFAULT 0,
	createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Persons (deduplicated identities)
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
);

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
);

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
);

CREATE TABLE IF NOT EXISTS evidence (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	blotterReportId INTEGER NOT NULL REFERENCES blotter_reports(id) ON DELETE CASCADE,
	evidenceType TEXT NOT NULL,
	description TEXT NOT NULL,
	locationFound TEXT NOT NULL DEFAULT '',
	collectedBy TEXT NOT NULL DEFAULT '',
	collectedDate DATETIME,
	mediaRefs TEXT NOT NULL DEFAULT '[]',
	chainOfCustody TEXT NOT NULL DEFAULT '',
	createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Audit trails
CREATE TABLE IF NOT EXISTS activity_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	blotterReportId INTEGER REFERENCES blotter_reports(id) ON DELETE CASCADE,
	action TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	oldValue TEXT NOT NULL DEFAULT '',
	newValue TEXT NOT NULL DEFAULT '',
	performedBy TEXT NOT NULL DEFAULT '',
	createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS notifications (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	userId INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	blotterReportId INTEGER REFERENCES blotter_reports(id) ON DELETE CASCADE,
	title TEXT NOT NULL DEFAULT '',
	message TEXT NOT NULL DEFAULT '',
	type TEXT NOT NULL DEFAULT '',
	isRead INTEGER NOT NULL DEFAULT 0,
	createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Proceedings
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
);

CREATE TABLE IF NOT EXISTS resolutions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	blotterReportId INTEGER NOT NULL UNIQUE REFERENCES blotter_reports(id) ON DELETE CASCADE,
	resolutionType TEXT NOT NULL,
	resolutionDetails TEXT NOT NULL DEFAULT '',
	resolvedBy TEXT NOT NULL,
	resolvedDate DATETIME NOT NULL,
	createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS case_timeline (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	blotterReportId INTEGER NOT NULL REFERENCES blotter_reports(id) ON DELETE CASCADE,
	eventType TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	performedBy TEXT NOT NULL DEFAULT '',
	createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Respondents
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
);

CREATE TABLE IF NOT EXISTS respondent_statements (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	respondentId INTEGER NOT NULL REFERENCES respondents(id) ON DELETE CASCADE,
	blotterReportId INTEGER NOT NULL REFERENCES blotter_reports(id) ON DELETE CASCADE,
	statement TEXT NOT NULL,
	submittedVia TEXT NOT NULL DEFAULT '',
	submittedAt DATETIME NOT NULL,
	verifiedBy TEXT NOT NULL DEFAULT '',
	verifiedAt DATETIME,
	officerNotes TEXT NOT NULL DEFAULT '',
	createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

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
	complianceNotes TEXT NOT NULL DEFAULT '',
	createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Outbound SMS queue
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
);

CREATE TABLE IF NOT EXISTS person_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	personId INTEGER NOT NULL REFERENCES persons(id) ON DELETE CASCADE,
	blotterReportId INTEGER NOT NULL REFERENCES blotter_reports(id) ON DELETE CASCADE,
	role TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Templates
CREATE TABLE IF NOT EXISTS case_templates (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	incidentType TEXT NOT NULL,
	narrativeTemplate TEXT NOT NULL,
	defaultPriority TEXT NOT NULL DEFAULT 'Normal',
	usageCount INTEGER NOT NULL DEFAULT 0,
	createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Mediation and Katarungang Pambarangay forms
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
);

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
);

` + indexSQL

// indexSQL is shared by SchemaSQL and migration v8 so both paths create identical indexes.
const indexSQL = `
CREATE INDEX IF NOT EXISTS idx_blotter_reports_status ON blotter_reports(status);
CREATE INDEX IF NOT EXISTS idx_blotter_reports_created ON blotter_reports(createdAt);
CREATE INDEX IF NOT EXISTS idx_suspects_report ON suspects(blotterReportId);
CREATE INDEX IF NOT EXISTS idx_witnesses_report ON witnesses(blotterReportId);
CREATE INDEX IF NOT EXISTS idx_evidence_report ON evidence(blotterReportId);
CREATE INDEX IF NOT EXISTS idx_respondents_report ON respondents(blotterReportId);
CREATE INDEX IF NOT EXISTS idx_statements_respondent ON respondent_statements(respondentId);
CREATE INDEX IF NOT EXISTS idx_hearings_report ON hearings(blotterReportId);
CREATE INDEX IF NOT EXISTS idx_hearings_date ON hearings(hearingDate);
CREATE INDEX IF NOT EXISTS idx_summons_report ON summons(blotterReportId);
CREATE INDEX IF NOT EXISTS idx_summons_delivery ON summons(deliveryStatus, complied);
CREATE INDEX IF NOT EXISTS idx_timeline_report ON case_timeline(blotterReportId);
CREATE INDEX IF NOT EXISTS idx_activity_logs_report ON activity_logs(blotterReportId);
CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(userId, isRead);
CREATE INDEX IF NOT EXISTS idx_person_history_person ON person_history(personId);
CREATE INDEX IF NOT EXISTS idx_mediation_report ON mediation_sessions(blotterReportId);
CREATE INDEX IF NOT EXISTS idx_kp_forms_report ON kp_forms(blotterReportId);
`

// GetSchemaSQL returns the authoritative schema SQL.
func GetSchemaSQL() string {
	return SchemaSQL
}

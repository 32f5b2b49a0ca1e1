package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the authoritative schema. Fresh databases are created from it.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS engagements (
	id TEXT PRIMARY KEY,
	company_name TEXT NOT NULL,
	name TEXT,
	client_contact TEXT,
	industry TEXT,
	status TEXT NOT NULL CHECK(status IN ('DRAFT', 'ACTIVE', 'CLOSED')) DEFAULT 'DRAFT',
	locale TEXT NOT NULL CHECK(locale IN ('es', 'en')) DEFAULT 'es',
	business_context TEXT,
	goals TEXT,
	constraints_text TEXT,
	success_definition TEXT,
	start_date TEXT,
	end_date TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	closed_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_engagements_status ON engagements(status);

CREATE TABLE IF NOT EXISTS wizard_progress (
	engagement_id TEXT NOT NULL,
	step_key TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('PENDING', 'IN_PROGRESS', 'DONE')) DEFAULT 'PENDING',
	notes TEXT,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (engagement_id, step_key),
	FOREIGN KEY (engagement_id) REFERENCES engagements(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS strategies (
	engagement_id TEXT PRIMARY KEY,
	vision TEXT,
	mission TEXT,
	objectives TEXT,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (engagement_id) REFERENCES engagements(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS swot_items (
	id TEXT PRIMARY KEY,
	engagement_id TEXT NOT NULL,
	quadrant TEXT NOT NULL CHECK(quadrant IN ('STRENGTH', 'WEAKNESS', 'OPPORTUNITY', 'THREAT')),
	text TEXT NOT NULL,
	sort_order INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (engagement_id) REFERENCES engagements(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_swot_engagement ON swot_items(engagement_id);

CREATE TABLE IF NOT EXISTS kpis (
	id TEXT PRIMARY KEY,
	engagement_id TEXT NOT NULL,
	name_es TEXT NOT NULL,
	name_en TEXT,
	description TEXT,
	perspective TEXT NOT NULL CHECK(perspective IN ('FINANCIAL', 'CUSTOMER', 'INTERNAL_PROCESS', 'LEARNING_GROWTH')),
	frequency TEXT NOT NULL CHECK(frequency IN ('WEEKLY', 'MONTHLY', 'QUARTERLY', 'YEARLY', 'ADHOC')),
	direction TEXT NOT NULL CHECK(direction IN ('HIGHER_IS_BETTER', 'LOWER_IS_BETTER')),
	basis TEXT NOT NULL CHECK(basis IN ('A', 'L')) DEFAULT 'A',
	unit TEXT,
	target_value REAL,
	target_text TEXT,
	owner_email TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (engagement_id) REFERENCES engagements(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_kpis_engagement ON kpis(engagement_id);

CREATE TABLE IF NOT EXISTS kpi_values (
	id TEXT PRIMARY KEY,
	kpi_id TEXT NOT NULL,
	period_key TEXT NOT NULL,
	scope_key TEXT NOT NULL DEFAULT 'GLOBAL',
	value REAL,
	note TEXT,
	is_green INTEGER,
	period_start DATETIME,
	period_end DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (kpi_id, period_key, scope_key),
	FOREIGN KEY (kpi_id) REFERENCES kpis(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_kpi_values_period ON kpi_values(period_key, scope_key);

CREATE TABLE IF NOT EXISTS initiatives (
	id TEXT PRIMARY KEY,
	engagement_id TEXT NOT NULL,
	title TEXT NOT NULL,
	owner TEXT,
	perspective TEXT,
	kpi_id TEXT,
	problem TEXT,
	definition_of_done TEXT,
	status TEXT NOT NULL CHECK(status IN ('NOT_STARTED', 'IN_PROGRESS', 'BLOCKED', 'DONE', 'CANCELLED')) DEFAULT 'NOT_STARTED',
	impact INTEGER,
	effort INTEGER,
	risk INTEGER,
	start_date TEXT,
	end_date TEXT,
	dependencies TEXT,
	notes TEXT,
	progress_pct INTEGER,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (engagement_id) REFERENCES engagements(id) ON DELETE CASCADE,
	FOREIGN KEY (kpi_id) REFERENCES kpis(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_initiatives_engagement ON initiatives(engagement_id);

CREATE TABLE IF NOT EXISTS roadmap_weeks (
	id TEXT PRIMARY KEY,
	engagement_id TEXT NOT NULL,
	week INTEGER NOT NULL CHECK(week BETWEEN 1 AND 20),
	objective TEXT,
	key_activities TEXT,
	deliverables TEXT,
	kpi_focus TEXT,
	ritual TEXT,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (engagement_id, week),
	FOREIGN KEY (engagement_id) REFERENCES engagements(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS action_items (
	id TEXT PRIMARY KEY,
	engagement_id TEXT NOT NULL,
	task TEXT NOT NULL,
	owner TEXT,
	due_date TEXT,
	status TEXT NOT NULL CHECK(status IN ('TODO', 'IN_PROGRESS', 'BLOCKED', 'DONE')) DEFAULT 'TODO',
	blocker TEXT,
	comments TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (engagement_id) REFERENCES engagements(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS decisions (
	id TEXT PRIMARY KEY,
	engagement_id TEXT NOT NULL,
	decided_on TEXT,
	decision TEXT NOT NULL,
	options TEXT,
	recommendation TEXT,
	responsible TEXT,
	status TEXT NOT NULL CHECK(status IN ('PROPOSED', 'APPROVED', 'REJECTED', 'DEFERRED')) DEFAULT 'PROPOSED',
	notes TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (engagement_id) REFERENCES engagements(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS raci_rows (
	id TEXT PRIMARY KEY,
	engagement_id TEXT NOT NULL,
	initiative TEXT NOT NULL,
	responsible TEXT NOT NULL,
	accountable TEXT NOT NULL,
	consulted TEXT,
	informed TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (engagement_id) REFERENCES engagements(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS accounts (
	id TEXT PRIMARY KEY,
	engagement_id TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	goal_12m TEXT,
	decision_makers TEXT,
	competitors TEXT,
	main_pain TEXT,
	value_prop TEXT,
	agenda_8w TEXT,
	next_step TEXT,
	status TEXT NOT NULL CHECK(status IN ('NOT_STARTED', 'IN_PROGRESS', 'BLOCKED', 'NEGOTIATING', 'CLOSED')) DEFAULT 'NOT_STARTED',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (engagement_id) REFERENCES engagements(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_accounts_engagement ON accounts(engagement_id);

CREATE TABLE IF NOT EXISTS unit_economics (
	id TEXT PRIMARY KEY,
	engagement_id TEXT NOT NULL,
	account_id TEXT,
	client_site TEXT,
	modality TEXT,
	m2_month REAL,
	price_usd_m2 REAL,
	revenue_month REAL,
	direct_costs REAL,
	margin REAL,
	margin_pct REAL,
	risks TEXT,
	evidence TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (engagement_id) REFERENCES engagements(id) ON DELETE CASCADE,
	FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_unit_economics_engagement ON unit_economics(engagement_id, account_id);

CREATE TABLE IF NOT EXISTS risks (
	id TEXT PRIMARY KEY,
	engagement_id TEXT NOT NULL,
	description TEXT NOT NULL,
	owner TEXT,
	mitigation TEXT,
	probability INTEGER NOT NULL CHECK(probability BETWEEN 1 AND 5),
	impact INTEGER NOT NULL CHECK(impact BETWEEN 1 AND 5),
	status TEXT NOT NULL CHECK(status IN ('OPEN', 'MITIGATING', 'CLOSED')) DEFAULT 'OPEN',
	review_date TEXT,
	notes TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (engagement_id) REFERENCES engagements(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS data_room_items (
	id TEXT PRIMARY KEY,
	engagement_id TEXT NOT NULL,
	area TEXT NOT NULL,
	code TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL CHECK(status IN ('PENDING', 'PARTIAL', 'RECEIVED', 'NOT_APPLICABLE')) DEFAULT 'PENDING',
	has_data INTEGER NOT NULL DEFAULT 0,
	comment TEXT,
	file_refs TEXT,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (engagement_id, code),
	FOREIGN KEY (engagement_id) REFERENCES engagements(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS question_sets (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL CHECK(kind IN ('SURVEY', 'INTERVIEW', 'WORKSHOP')),
	title_es TEXT NOT NULL UNIQUE,
	title_en TEXT,
	description_es TEXT,
	description_en TEXT,
	sort_order INTEGER NOT NULL DEFAULT 0,
	active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS questions (
	id TEXT PRIMARY KEY,
	set_id TEXT NOT NULL,
	key TEXT NOT NULL,
	sort_order INTEGER NOT NULL DEFAULT 0,
	type TEXT NOT NULL CHECK(type IN ('TEXT', 'LONG_TEXT', 'NUMBER', 'DATE', 'SINGLE_SELECT', 'MULTI_SELECT', 'SCALE_1_5')),
	prompt_es TEXT NOT NULL,
	prompt_en TEXT,
	required INTEGER NOT NULL DEFAULT 0,
	options_json TEXT,
	UNIQUE (set_id, key),
	FOREIGN KEY (set_id) REFERENCES question_sets(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS answers (
	id TEXT PRIMARY KEY,
	engagement_id TEXT NOT NULL,
	question_id TEXT NOT NULL,
	respondent TEXT,
	area TEXT,
	value_json TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (engagement_id) REFERENCES engagements(id) ON DELETE CASCADE,
	FOREIGN KEY (question_id) REFERENCES questions(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_answers_engagement ON answers(engagement_id);

CREATE TABLE IF NOT EXISTS nps_invites (
	id TEXT PRIMARY KEY,
	engagement_id TEXT NOT NULL,
	contact_name TEXT,
	contact_email TEXT NOT NULL,
	contact_role TEXT,
	token TEXT NOT NULL UNIQUE,
	status TEXT NOT NULL CHECK(status IN ('PENDING', 'SENT', 'RESPONDED', 'EXPIRED')) DEFAULT 'PENDING',
	sent_at DATETIME,
	responded_at DATETIME,
	expires_at DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (engagement_id) REFERENCES engagements(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS nps_responses (
	id TEXT PRIMARY KEY,
	invite_id TEXT NOT NULL UNIQUE,
	score INTEGER NOT NULL CHECK(score BETWEEN 0 AND 10),
	reason TEXT,
	focus TEXT,
	comment TEXT,
	user_agent TEXT,
	ip_hash TEXT,
	submitted_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (invite_id) REFERENCES nps_invites(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS faenas (
	id TEXT PRIMARY KEY,
	engagement_id TEXT NOT NULL,
	name TEXT NOT NULL,
	code TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (engagement_id) REFERENCES engagements(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS weekly_report_tokens (
	id TEXT PRIMARY KEY,
	token TEXT NOT NULL UNIQUE,
	engagement_id TEXT NOT NULL,
	faena_id TEXT NOT NULL,
	week_start TEXT NOT NULL,
	week_end TEXT NOT NULL,
	expires_at DATETIME NOT NULL,
	last_opened_at DATETIME,
	used_at DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (engagement_id) REFERENCES engagements(id) ON DELETE CASCADE,
	FOREIGN KEY (faena_id) REFERENCES faenas(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS weekly_reports (
	id TEXT PRIMARY KEY,
	engagement_id TEXT NOT NULL,
	faena_id TEXT NOT NULL,
	week_key TEXT NOT NULL,
	week_start TEXT NOT NULL,
	week_end TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('DRAFT', 'SUBMITTED')) DEFAULT 'DRAFT',
	semaphore TEXT NOT NULL CHECK(semaphore IN ('GREEN', 'YELLOW', 'RED')) DEFAULT 'GREEN',
	payload_json TEXT,
	token_id TEXT,
	submitted_at DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (faena_id, week_key),
	FOREIGN KEY (engagement_id) REFERENCES engagements(id) ON DELETE CASCADE,
	FOREIGN KEY (faena_id) REFERENCES faenas(id) ON DELETE CASCADE,
	FOREIGN KEY (token_id) REFERENCES weekly_report_tokens(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS audit_log (
	id TEXT PRIMARY KEY,
	engagement_id TEXT,
	actor TEXT,
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	action TEXT NOT NULL CHECK(action IN ('create', 'update', 'delete')),
	field_name TEXT,
	old_value TEXT,
	new_value TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_audit_log_entity ON audit_log(entity_type, entity_id);
CREATE INDEX IF NOT EXISTS idx_audit_log_engagement ON audit_log(engagement_id);
`

// InitSchema creates the database schema on a fresh database and records
// the schema version.
func InitSchema(database *sql.DB) error {
	if _, err := database.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	if _, err := database.Exec("INSERT OR IGNORE INTO schema_version (version) VALUES (?)", SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}

// SchemaVersion is bumped whenever SchemaSQL changes shape.
const SchemaVersion = 2

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}

// Package sqlite_test contains integration tests for SQLite repositories.
//
// All setup goes through setupTestDB, which loads db.GetSchemaSQL() so the
// tests run against the authoritative schema. Do not hardcode CREATE TABLE
// statements in test files; use setupTestDB and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/example/see/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	testDB.SetMaxOpenConns(1)
	t.Cleanup(func() { testDB.Close() })

	_, err = testDB.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	_, err = testDB.Exec(db.GetSchemaSQL())
	require.NoError(t, err)

	return testDB
}

// seedEngagement inserts an engagement and returns its ID.
func seedEngagement(t *testing.T, testDB *sql.DB, id, status string) string {
	t.Helper()
	if status == "" {
		status = "ACTIVE"
	}
	_, err := testDB.Exec(
		"INSERT INTO engagements (id, company_name, status, locale) VALUES (?, ?, ?, 'es')",
		id, "Cliente "+id, status)
	require.NoError(t, err)
	return id
}

// seedKpi inserts a KPI with a numeric target and returns its ID.
func seedKpi(t *testing.T, testDB *sql.DB, id, engagementID, name, perspective string, target float64) string {
	t.Helper()
	_, err := testDB.Exec(
		`INSERT INTO kpis (id, engagement_id, name_es, perspective, frequency, direction, basis, target_value)
		VALUES (?, ?, ?, ?, 'MONTHLY', 'HIGHER_IS_BETTER', 'A', ?)`,
		id, engagementID, name, perspective, target)
	require.NoError(t, err)
	return id
}

// seedFaena inserts a site and returns its ID.
func seedFaena(t *testing.T, testDB *sql.DB, id, engagementID, name string) string {
	t.Helper()
	_, err := testDB.Exec("INSERT INTO faenas (id, engagement_id, name) VALUES (?, ?, ?)", id, engagementID, name)
	require.NoError(t, err)
	return id
}

func fp(v float64) *float64 { return &v }

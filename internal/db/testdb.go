package db

import (
	"os"
	"testing"
)

// PostgresTestDSNEnv names the environment variable that enables Postgres tests.
const PostgresTestDSNEnv = "NEPREMICNINE_TEST_POSTGRES_DSN"

// NewTestDB creates a fresh in-memory SQLite database with the schema applied.
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := EnsureSchema(db); err != nil {
		db.Close()
		t.Fatalf("creating test database schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}

// NewPostgresTestDB connects to the Postgres server named by
// NEPREMICNINE_TEST_POSTGRES_DSN, applies the schema and empties both tables.
// The test is skipped when the variable is unset.
func NewPostgresTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv(PostgresTestDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", PostgresTestDSNEnv)
	}

	db, err := Open(DriverPostgres, dsn)
	if err != nil {
		t.Fatalf("opening postgres test database: %v", err)
	}

	if err := EnsureSchema(db); err != nil {
		db.Close()
		t.Fatalf("creating postgres schema: %v", err)
	}
	if _, err := db.Exec(`TRUNCATE owners, properties`); err != nil {
		db.Close()
		t.Fatalf("truncating postgres tables: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}

package db

import (
	"context"
	"fmt"
)

// schema is the full database schema, one statement per entry. It is valid
// for both SQLite and Postgres.
//
// Prices are stored as integer ten-thousandths (model.PriceScale). The *_fold
// columns hold lower-cased copies of name and address for case-insensitive
// substring search.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS owners (
    id        TEXT PRIMARY KEY,
    name      TEXT NOT NULL,
    address   TEXT NOT NULL,
    phone     TEXT NOT NULL DEFAULT '',
    birthday  TEXT NOT NULL
)`,

	`CREATE INDEX IF NOT EXISTS idx_owners_name ON owners(name)`,

	`CREATE TABLE IF NOT EXISTS properties (
    id            TEXT PRIMARY KEY,
    owner_id      TEXT NOT NULL,
    name          TEXT NOT NULL,
    name_fold     TEXT NOT NULL,
    address       TEXT NOT NULL,
    address_fold  TEXT NOT NULL,
    price         BIGINT NOT NULL CHECK (price >= 0),
    image         TEXT NOT NULL DEFAULT '',
    year          INTEGER NOT NULL,
    code_internal INTEGER NOT NULL
)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_properties_code ON properties(code_internal)`,
	`CREATE INDEX IF NOT EXISTS idx_properties_owner ON properties(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_properties_price ON properties(price)`,
}

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *DB) error {
	ctx := context.Background()
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema (statement %d): %w", i+1, err)
		}
	}
	return nil
}

// Package store implements the owner and property repositories on top of
// a SQL database. Identifiers are UUIDv7 strings; any ID that does not parse
// is treated as not found.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// newID returns a time-ordered identifier, so ordering by id is creation order.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating id: %w", err)
	}
	return id.String(), nil
}

// validID reports whether id has the shape of a stored identifier.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}
	return n > 0, nil
}

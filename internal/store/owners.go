package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/nepremicnine/internal/db"
	"github.com/erazemk/nepremicnine/internal/model"
)

// Owners is the owner repository.
type Owners struct {
	db *db.DB
}

// NewOwners returns an owner repository backed by database.
func NewOwners(database *db.DB) *Owners {
	return &Owners{db: database}
}

const ownerColumns = `id, name, address, phone, birthday`

// Create inserts a new owner and assigns its ID.
func (s *Owners) Create(ctx context.Context, o *model.Owner) error {
	id, err := newID()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO owners (id, name, address, phone, birthday) VALUES (?, ?, ?, ?, ?)`),
		id, o.Name, o.Address, o.Phone, o.Birthday.String(),
	)
	if err != nil {
		return fmt.Errorf("creating owner: %w", err)
	}

	o.ID = id
	return nil
}

// Get returns an owner by ID, or nil if it doesn't exist.
func (s *Owners) Get(ctx context.Context, id string) (*model.Owner, error) {
	if !validID(id) {
		return nil, nil
	}

	row := s.db.QueryRowContext(ctx, s.db.Rebind(
		`SELECT `+ownerColumns+` FROM owners WHERE id = ?`), id)
	o, err := scanOwner(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting owner: %w", err)
	}
	return o, nil
}

// GetMany returns the owners with the given IDs keyed by ID. Unknown and
// malformed IDs are absent from the result.
func (s *Owners) GetMany(ctx context.Context, ids []string) (map[string]model.Owner, error) {
	owners := make(map[string]model.Owner, len(ids))

	var args []any
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] || !validID(id) {
			continue
		}
		seen[id] = true
		args = append(args, id)
	}
	if len(args) == 0 {
		return owners, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(
		`SELECT `+ownerColumns+` FROM owners WHERE id IN (`+placeholders+`)`), args...)
	if err != nil {
		return nil, fmt.Errorf("getting owners: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		o, err := scanOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning owner: %w", err)
		}
		owners[o.ID] = *o
	}
	return owners, rows.Err()
}

// List returns all owners ordered by name.
func (s *Owners) List(ctx context.Context) ([]model.Owner, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+ownerColumns+` FROM owners ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("listing owners: %w", err)
	}
	defer rows.Close()

	owners := []model.Owner{}
	for rows.Next() {
		o, err := scanOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning owner: %w", err)
		}
		owners = append(owners, *o)
	}
	return owners, rows.Err()
}

// Update replaces the stored owner with o. It reports false if no owner
// with o.ID exists.
func (s *Owners) Update(ctx context.Context, o *model.Owner) (bool, error) {
	if !validID(o.ID) {
		return false, nil
	}

	result, err := s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE owners SET name = ?, address = ?, phone = ?, birthday = ? WHERE id = ?`),
		o.Name, o.Address, o.Phone, o.Birthday.String(), o.ID,
	)
	if err != nil {
		return false, fmt.Errorf("updating owner: %w", err)
	}
	return affected(result)
}

// Delete removes an owner. Fails with model.ErrOwnerReferenced if any
// property still references the owner. It reports false if the owner
// doesn't exist.
func (s *Owners) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	count, err := s.CountProperties(ctx, id)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, fmt.Errorf("cannot delete owner with %d properties: %w", count, model.ErrOwnerReferenced)
	}

	result, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM owners WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("deleting owner: %w", err)
	}
	return affected(result)
}

// Exists reports whether an owner with the given ID exists.
func (s *Owners) Exists(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	var count int
	err := s.db.QueryRowContext(ctx, s.db.Rebind(
		`SELECT COUNT(*) FROM owners WHERE id = ?`), id,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking owner: %w", err)
	}
	return count > 0, nil
}

// CountProperties returns the number of properties referencing the owner.
func (s *Owners) CountProperties(ctx context.Context, id string) (int, error) {
	if !validID(id) {
		return 0, nil
	}

	var count int
	err := s.db.QueryRowContext(ctx, s.db.Rebind(
		`SELECT COUNT(*) FROM properties WHERE owner_id = ?`), id,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting owner properties: %w", err)
	}
	return count, nil
}

func scanOwner(row scanner) (*model.Owner, error) {
	o := &model.Owner{}
	var birthday string
	if err := row.Scan(&o.ID, &o.Name, &o.Address, &o.Phone, &birthday); err != nil {
		return nil, err
	}
	if birthday != "" {
		d, err := model.ParseDate(birthday)
		if err != nil {
			return nil, fmt.Errorf("owner %s: %w", o.ID, err)
		}
		o.Birthday = d
	}
	return o, nil
}

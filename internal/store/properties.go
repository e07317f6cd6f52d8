package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/nepremicnine/internal/db"
	"github.com/erazemk/nepremicnine/internal/model"
)

// Properties is the property repository.
type Properties struct {
	db *db.DB
}

// NewProperties returns a property repository backed by database.
func NewProperties(database *db.DB) *Properties {
	return &Properties{db: database}
}

const propertyColumns = `id, owner_id, name, address, price, image, year, code_internal`

// Create inserts a new property and assigns its ID. Returns an error
// wrapping model.ErrDuplicateCode if the internal code is already taken.
func (s *Properties) Create(ctx context.Context, p *model.Property) error {
	id, err := newID()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO properties (id, owner_id, name, name_fold, address, address_fold, price, image, year, code_internal)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		id, p.OwnerID, p.Name, fold(p.Name), p.Address, fold(p.Address),
		priceUnits(p.Price), p.Image, p.Year, p.CodeInternal,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("creating property with code %d: %w", p.CodeInternal, model.ErrDuplicateCode)
		}
		return fmt.Errorf("creating property: %w", err)
	}

	p.ID = id
	return nil
}

// Get returns a property by ID, or nil if it doesn't exist.
func (s *Properties) Get(ctx context.Context, id string) (*model.Property, error) {
	if !validID(id) {
		return nil, nil
	}

	row := s.db.QueryRowContext(ctx, s.db.Rebind(
		`SELECT `+propertyColumns+` FROM properties WHERE id = ?`), id)
	p, err := scanProperty(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting property: %w", err)
	}
	return p, nil
}

// List returns all properties in creation order.
func (s *Properties) List(ctx context.Context) ([]model.Property, error) {
	return s.query(ctx, `SELECT `+propertyColumns+` FROM properties ORDER BY id`)
}

// ListByOwner returns the properties of one owner in creation order.
func (s *Properties) ListByOwner(ctx context.Context, ownerID string) ([]model.Property, error) {
	if !validID(ownerID) {
		return []model.Property{}, nil
	}
	return s.query(ctx, s.db.Rebind(
		`SELECT `+propertyColumns+` FROM properties WHERE owner_id = ? ORDER BY id`), ownerID)
}

// Search returns one page of properties matching the filter, in creation
// order, together with the total number of matches. The filter must already
// be validated.
func (s *Properties) Search(ctx context.Context, f model.PropertyFilter) ([]model.Property, int, error) {
	where, args := buildFilter(f)

	var total int
	err := s.db.QueryRowContext(ctx, s.db.Rebind(
		`SELECT COUNT(*) FROM properties`+where), args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting properties: %w", err)
	}
	if total == 0 || f.Offset() >= total {
		return []model.Property{}, total, nil
	}

	pageArgs := append(args, f.PageSize, f.Offset())
	properties, err := s.query(ctx, s.db.Rebind(
		`SELECT `+propertyColumns+` FROM properties`+where+` ORDER BY id LIMIT ? OFFSET ?`),
		pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	return properties, total, nil
}

// Update replaces the stored property's mutable fields with those of p.
// Owner and internal code are left unchanged. It reports false if no
// property with p.ID exists.
func (s *Properties) Update(ctx context.Context, p *model.Property) (bool, error) {
	if !validID(p.ID) {
		return false, nil
	}

	result, err := s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE properties
		 SET name = ?, name_fold = ?, address = ?, address_fold = ?, price = ?, image = ?, year = ?
		 WHERE id = ?`),
		p.Name, fold(p.Name), p.Address, fold(p.Address), priceUnits(p.Price), p.Image, p.Year, p.ID,
	)
	if err != nil {
		return false, fmt.Errorf("updating property: %w", err)
	}
	return affected(result)
}

// SetImage sets the image reference of a property. It reports false if the
// property doesn't exist.
func (s *Properties) SetImage(ctx context.Context, id, image string) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	result, err := s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE properties SET image = ? WHERE id = ?`), image, id)
	if err != nil {
		return false, fmt.Errorf("setting property image: %w", err)
	}
	return affected(result)
}

// Delete removes a property. It reports false if it didn't exist.
func (s *Properties) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	result, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM properties WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("deleting property: %w", err)
	}
	return affected(result)
}

// Exists reports whether a property with the given ID exists.
func (s *Properties) Exists(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	var count int
	err := s.db.QueryRowContext(ctx, s.db.Rebind(
		`SELECT COUNT(*) FROM properties WHERE id = ?`), id,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking property: %w", err)
	}
	return count > 0, nil
}

func (s *Properties) query(ctx context.Context, query string, args ...any) ([]model.Property, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer rows.Close()

	properties := []model.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		properties = append(properties, *p)
	}
	return properties, rows.Err()
}

func scanProperty(row scanner) (*model.Property, error) {
	p := &model.Property{}
	var price int64
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Address, &price, &p.Image, &p.Year, &p.CodeInternal); err != nil {
		return nil, err
	}
	p.Price = priceFromUnits(price)
	return p, nil
}

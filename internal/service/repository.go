// Package service implements the property and owner use cases on top of the
// repositories: validation, the owner reference rules, internal code
// generation, partial updates and owner-name enrichment.
package service

import (
	"context"

	"github.com/erazemk/nepremicnine/internal/model"
)

// OwnerRepository is the owner storage used by the services. Lookups return
// nil or false, not an error, for unknown and malformed IDs.
type OwnerRepository interface {
	Create(ctx context.Context, o *model.Owner) error
	Get(ctx context.Context, id string) (*model.Owner, error)
	GetMany(ctx context.Context, ids []string) (map[string]model.Owner, error)
	List(ctx context.Context) ([]model.Owner, error)
	Update(ctx context.Context, o *model.Owner) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// PropertyRepository is the property storage used by the services.
type PropertyRepository interface {
	Create(ctx context.Context, p *model.Property) error
	Get(ctx context.Context, id string) (*model.Property, error)
	List(ctx context.Context) ([]model.Property, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Property, error)
	Search(ctx context.Context, f model.PropertyFilter) ([]model.Property, int, error)
	Update(ctx context.Context, p *model.Property) (bool, error)
	SetImage(ctx context.Context, id, image string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

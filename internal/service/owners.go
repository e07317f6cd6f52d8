package service

import (
	"context"
	"errors"

	"github.com/erazemk/nepremicnine/internal/model"
)

// OwnerService implements the owner use cases.
type OwnerService struct {
	owners OwnerRepository
}

// NewOwnerService returns an owner service over owners.
func NewOwnerService(owners OwnerRepository) *OwnerService {
	return &OwnerService{owners: owners}
}

// List returns all owners sorted by name.
func (s *OwnerService) List(ctx context.Context) ([]model.Owner, error) {
	owners, err := s.owners.List(ctx)
	if err != nil {
		return nil, Internal(err, "could not list owners")
	}
	return owners, nil
}

// Get returns one owner.
func (s *OwnerService) Get(ctx context.Context, id string) (*model.Owner, error) {
	o, err := s.owners.Get(ctx, id)
	if err != nil {
		return nil, Internal(err, "could not get owner")
	}
	if o == nil {
		return nil, NotFound("owner not found")
	}
	return o, nil
}

// Create validates and stores a new owner.
func (s *OwnerService) Create(ctx context.Context, in model.OwnerCreate) (*model.Owner, error) {
	if err := in.Validate(); err != nil {
		return nil, Invalid("%s", err.Error())
	}

	o := &model.Owner{
		Name:     in.Name,
		Address:  in.Address,
		Phone:    in.Phone,
		Birthday: in.Birthday,
	}
	if err := s.owners.Create(ctx, o); err != nil {
		return nil, Internal(err, "could not create owner")
	}
	return o, nil
}

// Update merges in into the stored owner.
func (s *OwnerService) Update(ctx context.Context, id string, in model.OwnerUpdate) (*model.Owner, error) {
	if err := in.Validate(); err != nil {
		return nil, Invalid("%s", err.Error())
	}

	o, err := s.owners.Get(ctx, id)
	if err != nil {
		return nil, Internal(err, "could not get owner")
	}
	if o == nil {
		return nil, NotFound("owner not found")
	}

	in.Apply(o)

	ok, err := s.owners.Update(ctx, o)
	if err != nil {
		return nil, Internal(err, "could not update owner")
	}
	if !ok {
		return nil, Internal(nil, "could not update owner")
	}
	return o, nil
}

// Delete removes an owner that no property references.
func (s *OwnerService) Delete(ctx context.Context, id string) error {
	o, err := s.owners.Get(ctx, id)
	if err != nil {
		return Internal(err, "could not get owner")
	}
	if o == nil {
		return NotFound("owner not found")
	}

	ok, err := s.owners.Delete(ctx, id)
	if errors.Is(err, model.ErrOwnerReferenced) {
		return Conflict(err, "cannot delete: referenced by existing properties")
	}
	if err != nil {
		return Internal(err, "could not delete owner")
	}
	if !ok {
		return NotFound("owner not found")
	}
	return nil
}

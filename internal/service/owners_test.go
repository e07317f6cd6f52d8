package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/nepremicnine/internal/model"
)

func TestCreateOwner(t *testing.T) {
	owners := newFakeOwners()
	svc := NewOwnerService(owners)

	o, err := svc.Create(context.Background(), model.OwnerCreate{
		Name:     "Carlos Rodríguez",
		Address:  "Cali",
		Phone:    "+57 310 555 1234",
		Birthday: model.NewDate(1975, time.July, 4),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Len(t, owners.owners, 1)
}

func TestCreateOwnerInvalid(t *testing.T) {
	owners := newFakeOwners()
	svc := NewOwnerService(owners)

	_, err := svc.Create(context.Background(), model.OwnerCreate{Name: "", Address: "x", Birthday: model.NewDate(1990, 1, 1)})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.Create(context.Background(), model.OwnerCreate{Name: "x", Address: "x"})
	assert.Equal(t, KindValidation, KindOf(err), "birthday is required")

	assert.Empty(t, owners.owners)
}

func TestUpdateOwnerPartial(t *testing.T) {
	owners := newFakeOwners()
	svc := NewOwnerService(owners)
	o := owners.add("Juan")

	updated, err := svc.Update(context.Background(), o.ID, model.OwnerUpdate{Phone: "300 123 4567"})
	require.NoError(t, err)
	assert.Equal(t, "Juan", updated.Name)
	assert.Equal(t, "300 123 4567", updated.Phone)

	_, err = svc.Update(context.Background(), "owner-404", model.OwnerUpdate{Name: "x"})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestDeleteReferencedOwnerConflicts(t *testing.T) {
	owners := newFakeOwners()
	svc := NewOwnerService(owners)
	o := owners.add("Juan")
	owners.refs[o.ID] = 2

	err := svc.Delete(context.Background(), o.ID)
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, "cannot delete: referenced by existing properties", MessageOf(err))
	assert.ErrorIs(t, err, model.ErrOwnerReferenced)
	assert.Contains(t, owners.owners, o.ID, "owner must remain")
}

func TestDeleteOwner(t *testing.T) {
	owners := newFakeOwners()
	svc := NewOwnerService(owners)
	o := owners.add("Juan")

	require.NoError(t, svc.Delete(context.Background(), o.ID))
	assert.NotContains(t, owners.owners, o.ID)

	err := svc.Delete(context.Background(), o.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestOwnerStoreFailureIsInternal(t *testing.T) {
	owners := newFakeOwners()
	owners.err = errStore
	svc := NewOwnerService(owners)

	_, err := svc.List(context.Background())
	assert.Equal(t, KindInternal, KindOf(err))
	_, err = svc.Get(context.Background(), "x")
	assert.Equal(t, KindInternal, KindOf(err))
}

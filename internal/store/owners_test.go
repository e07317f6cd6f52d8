package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erazemk/nepremicnine/internal/db"
	"github.com/erazemk/nepremicnine/internal/model"
)

func createOwner(t *testing.T, owners *Owners, name string) *model.Owner {
	t.Helper()
	o := &model.Owner{
		Name:     name,
		Address:  "Calle 1",
		Phone:    "+57 300 123 4567",
		Birthday: model.NewDate(1980, time.May, 15),
	}
	if err := owners.Create(context.Background(), o); err != nil {
		t.Fatalf("Create owner %q: %v", name, err)
	}
	return o
}

func TestCreateAndGetOwner(t *testing.T) {
	owners := NewOwners(db.NewTestDB(t))
	ctx := context.Background()

	owner := createOwner(t, owners, "Juan Pérez")
	if owner.ID == "" {
		t.Fatal("expected ID to be assigned")
	}

	got, err := owners.Get(ctx, owner.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected owner, got nil")
	}
	if got.Name != "Juan Pérez" {
		t.Errorf("expected name 'Juan Pérez', got %q", got.Name)
	}
	if got.Birthday.String() != "1980-05-15" {
		t.Errorf("expected birthday 1980-05-15, got %q", got.Birthday.String())
	}
	if got.Phone != "+57 300 123 4567" {
		t.Errorf("expected phone to round-trip, got %q", got.Phone)
	}
}

func TestGetOwnerNotFound(t *testing.T) {
	owners := NewOwners(db.NewTestDB(t))
	ctx := context.Background()

	for _, id := range []string{"", "not-a-uuid", "0190a4b2-7c3e-7000-8000-000000000000"} {
		got, err := owners.Get(ctx, id)
		if err != nil {
			t.Errorf("Get(%q): unexpected error %v", id, err)
		}
		if got != nil {
			t.Errorf("Get(%q): expected nil, got %+v", id, got)
		}
	}
}

func TestListOwnersSortedByName(t *testing.T) {
	owners := NewOwners(db.NewTestDB(t))
	ctx := context.Background()

	createOwner(t, owners, "María García")
	createOwner(t, owners, "Carlos Rodríguez")
	createOwner(t, owners, "Juan Pérez")

	list, err := owners.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"Carlos Rodríguez", "Juan Pérez", "María García"}
	if len(list) != len(want) {
		t.Fatalf("expected %d owners, got %d", len(want), len(list))
	}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("owner %d: expected %q, got %q", i, name, list[i].Name)
		}
	}
}

func TestListOwnersEmpty(t *testing.T) {
	owners := NewOwners(db.NewTestDB(t))

	list, err := owners.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("expected empty non-nil list, got %v", list)
	}
}

func TestGetManyOwners(t *testing.T) {
	owners := NewOwners(db.NewTestDB(t))
	ctx := context.Background()

	a := createOwner(t, owners, "A")
	b := createOwner(t, owners, "B")

	got, err := owners.GetMany(ctx, []string{a.ID, b.ID, a.ID, "bogus", "0190a4b2-7c3e-7000-8000-000000000000"})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 owners, got %d", len(got))
	}
	if got[a.ID].Name != "A" || got[b.ID].Name != "B" {
		t.Errorf("unexpected owners: %+v", got)
	}

	empty, err := owners.GetMany(ctx, nil)
	if err != nil {
		t.Fatalf("GetMany(nil): %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no owners, got %d", len(empty))
	}
}

func TestUpdateOwner(t *testing.T) {
	owners := NewOwners(db.NewTestDB(t))
	ctx := context.Background()

	owner := createOwner(t, owners, "Old Name")
	owner.Name = "New Name"
	ok, err := owners.Update(ctx, owner)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !ok {
		t.Fatal("expected update to match a row")
	}

	got, _ := owners.Get(ctx, owner.ID)
	if got.Name != "New Name" {
		t.Errorf("expected name 'New Name', got %q", got.Name)
	}

	missing := *owner
	missing.ID = "0190a4b2-7c3e-7000-8000-000000000000"
	ok, err = owners.Update(ctx, &missing)
	if err != nil {
		t.Fatalf("Update missing: %v", err)
	}
	if ok {
		t.Error("expected update of missing owner to report false")
	}
}

func TestDeleteOwnerWithPropertiesFails(t *testing.T) {
	database := db.NewTestDB(t)
	owners := NewOwners(database)
	properties := NewProperties(database)
	ctx := context.Background()

	owner := createOwner(t, owners, "Juan Pérez")
	createProperty(t, properties, owner.ID, "Casa", 100001)

	_, err := owners.Delete(ctx, owner.ID)
	if !errors.Is(err, model.ErrOwnerReferenced) {
		t.Fatalf("expected ErrOwnerReferenced, got %v", err)
	}

	got, _ := owners.Get(ctx, owner.ID)
	if got == nil {
		t.Error("expected owner to remain after failed delete")
	}
}

func TestDeleteOwnerWithoutProperties(t *testing.T) {
	owners := NewOwners(db.NewTestDB(t))
	ctx := context.Background()

	owner := createOwner(t, owners, "Empty")
	ok, err := owners.Delete(ctx, owner.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !ok {
		t.Error("expected delete to report true")
	}

	exists, _ := owners.Exists(ctx, owner.ID)
	if exists {
		t.Error("expected owner to be gone")
	}

	ok, err = owners.Delete(ctx, owner.ID)
	if err != nil || ok {
		t.Errorf("second delete: expected (false, nil), got (%v, %v)", ok, err)
	}
}

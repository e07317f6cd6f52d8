package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	info, err := store.Put(ctx, "properties/p1/a.jpg", bytes.NewReader([]byte("jpeg bytes")), "image/jpeg")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if info.Size != 10 {
		t.Errorf("expected size 10, got %d", info.Size)
	}

	got, rc, err := store.Get(ctx, "properties/p1/a.jpg")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "jpeg bytes" {
		t.Errorf("expected stored bytes, got %q", data)
	}
	if got.ContentType != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %q", got.ContentType)
	}

	// Overwrite.
	if _, err := store.Put(ctx, "properties/p1/a.jpg", bytes.NewReader([]byte("v2")), "image/jpeg"); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	_, rc, err = store.Get(ctx, "properties/p1/a.jpg")
	if err != nil {
		t.Fatalf("Get after overwrite: %v", err)
	}
	data, _ = io.ReadAll(rc)
	rc.Close()
	if string(data) != "v2" {
		t.Errorf("expected overwritten bytes, got %q", data)
	}

	if _, _, err := store.Get(ctx, "properties/missing.jpg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	ok, err := store.Delete(ctx, "properties/p1/a.jpg")
	if err != nil || !ok {
		t.Fatalf("Delete: (%v, %v)", ok, err)
	}
	ok, err = store.Delete(ctx, "properties/p1/a.jpg")
	if err != nil || ok {
		t.Errorf("second Delete: expected (false, nil), got (%v, %v)", ok, err)
	}
	if _, _, err := store.Get(ctx, "properties/p1/a.jpg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestFSStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	exerciseStore(t, store)
}

func TestFSStoreWritesUnderRoot(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFS(dir)
	if _, err := store.Put(context.Background(), "a/b.txt", bytes.NewReader([]byte("x")), "text/plain"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a", "b.txt")); err != nil {
		t.Errorf("expected file under root: %v", err)
	}
}

func TestFSStoreHidesSidecars(t *testing.T) {
	ctx := context.Background()
	store, _ := NewFS(t.TempDir())
	if _, err := store.Put(ctx, "a/b.jpg", bytes.NewReader([]byte("x")), "image/jpeg"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if _, _, err := store.Get(ctx, "a/b.jpg.meta"); err == nil {
		t.Error("expected error reading metadata sidecar")
	}
	if _, err := store.Put(ctx, "a/c.meta", bytes.NewReader([]byte("x")), "text/plain"); err == nil {
		t.Error("expected error writing reserved key")
	}
	if _, err := store.Delete(ctx, "a/b.jpg.meta"); err == nil {
		t.Error("expected error deleting metadata sidecar")
	}
	if _, _, err := store.Get(ctx, "a/b.jpg"); err != nil {
		t.Errorf("Get: %v", err)
	}
}

func TestCleanKey(t *testing.T) {
	valid := map[string]string{
		"a.jpg":              "a.jpg",
		"properties/x/a.jpg": "properties/x/a.jpg",
		"a//b":               "a/b",
	}
	for in, want := range valid {
		got, err := CleanKey(in)
		if err != nil || got != want {
			t.Errorf("CleanKey(%q) = %q, %v; want %q", in, got, err, want)
		}
	}

	for _, in := range []string{"", "  ", "/etc/passwd", "../x", "a/../../x", `a\b`, ".", "a/b.jpg.meta", "x.meta", "a/.tmp-123", ".tmp-1/b.jpg"} {
		if _, err := CleanKey(in); err == nil {
			t.Errorf("CleanKey(%q): expected error", in)
		}
	}
}

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()

	mem, err := Open(ctx, Config{Driver: DriverMemory})
	if err != nil || mem.Driver() != DriverMemory {
		t.Errorf("memory: %v %v", mem, err)
	}
	fsStore, err := Open(ctx, Config{Root: t.TempDir()})
	if err != nil || fsStore.Driver() != DriverFS {
		t.Errorf("default fs: %v %v", fsStore, err)
	}
	if _, err := Open(ctx, Config{Driver: DriverS3}); err == nil {
		t.Error("expected error for s3 without bucket")
	}
	if _, err := Open(ctx, Config{Driver: "gcs"}); err == nil {
		t.Error("expected error for unknown driver")
	}
}

// Package blob stores uploaded files behind a small key/value interface with
// filesystem, S3 and in-memory drivers.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// Driver names a blob backend.
type Driver string

// Supported drivers.
const (
	DriverFS     Driver = "fs"
	DriverS3     Driver = "s3"
	DriverMemory Driver = "memory"
)

// ErrNotFound is returned by Get for keys that hold no object.
var ErrNotFound = errors.New("blob not found")

// Info describes a stored object.
type Info struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// Store is a flat object store addressed by slash-separated keys.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Delete(ctx context.Context, key string) (bool, error)
	Driver() Driver
}

// Config selects and configures a driver.
type Config struct {
	Driver Driver
	Root   string // fs only
	S3     S3Config
}

// Open returns the store selected by cfg. An empty driver means fs.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverFS, "":
		return NewFS(cfg.Root)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}

const (
	metaSuffix = ".meta"
	tempPrefix = ".tmp-"
)

// CleanKey validates key and returns it in canonical form. Keys are
// relative, slash separated and may not step outside the store.
func CleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", fmt.Errorf("invalid key %q", key)
		}
	}
	clean := path.Clean(key)
	if clean == "." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	// Names the fs driver keeps for itself.
	if strings.HasSuffix(clean, metaSuffix) {
		return "", fmt.Errorf("reserved key %q", key)
	}
	for _, part := range strings.Split(clean, "/") {
		if strings.HasPrefix(part, tempPrefix) {
			return "", fmt.Errorf("reserved key %q", key)
		}
	}
	return clean, nil
}

package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// Memory keeps objects in memory. It is meant for tests.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data []byte
	info Info
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]memoryObject)}
}

func (m *Memory) Driver() Driver { return DriverMemory }

// Put stores the object, replacing any previous one under key.
func (m *Memory) Put(ctx context.Context, key string, r io.Reader, contentType string) (Info, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return Info{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Info{}, fmt.Errorf("reading blob: %w", err)
	}
	info := Info{Key: clean, Size: int64(len(data)), ContentType: contentType, LastModified: time.Now().UTC()}

	m.mu.Lock()
	m.objects[clean] = memoryObject{data: data, info: info}
	m.mu.Unlock()
	return info, nil
}

// Get returns the object under key.
func (m *Memory) Get(ctx context.Context, key string) (Info, io.ReadCloser, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return Info{}, nil, err
	}
	m.mu.RLock()
	obj, ok := m.objects[clean]
	m.mu.RUnlock()
	if !ok {
		return Info{}, nil, ErrNotFound
	}
	return obj.info, io.NopCloser(bytes.NewReader(obj.data)), nil
}

// Delete removes the object. It reports false if nothing was stored.
func (m *Memory) Delete(ctx context.Context, key string) (bool, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[clean]; !ok {
		return false, nil
	}
	delete(m.objects, clean)
	return true, nil
}

// Len returns the number of stored objects.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryTier is a map-backed tier used in tests and storage-less deployments.
type MemoryTier struct {
	name string
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryTier(name string) *MemoryTier {
	return &MemoryTier{name: name, data: make(map[string][]byte)}
}

func (t *MemoryTier) Name() string { return t.name }

func (t *MemoryTier) Get(_ context.Context, key string) ([]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	value, ok := t.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return append([]byte(nil), value...), nil
}

func (t *MemoryTier) Put(_ context.Context, key string, value []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data[key] = append([]byte(nil), value...)
	return nil
}

// MemoryBackupTier keeps versioned values in memory, newest first.
type MemoryBackupTier struct {
	mu       sync.RWMutex
	versions map[string][][]byte
	keep     int
}

func NewMemoryBackupTier(keep int) *MemoryBackupTier {
	if keep <= 0 {
		keep = 20
	}
	return &MemoryBackupTier{versions: make(map[string][][]byte), keep: keep}
}

func (t *MemoryBackupTier) Name() string { return "memory:backup" }

func (t *MemoryBackupTier) Get(_ context.Context, key string) ([]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	vs := t.versions[key]
	if len(vs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return append([]byte(nil), vs[0]...), nil
}

func (t *MemoryBackupTier) Put(_ context.Context, key string, value []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	vs := append([][]byte{append([]byte(nil), value...)}, t.versions[key]...)
	if len(vs) > t.keep {
		vs = vs[:t.keep]
	}
	t.versions[key] = vs
	return nil
}

func (t *MemoryBackupTier) Versions(_ context.Context, key string, limit int) ([][]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	vs := t.versions[key]
	if limit > 0 && len(vs) > limit {
		vs = vs[:limit]
	}
	out := make([][]byte, len(vs))
	for i, v := range vs {
		out[i] = append([]byte(nil), v...)
	}
	return out, nil
}

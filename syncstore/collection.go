package syncstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kmarzh/scrim-scoreboard/storage"
)

// Collection is a named, independently synchronized group of entities layered
// over the tiered store and the change bus. Reads are served from the local
// in-memory copy; writes apply an updater to that copy, persist the result
// through every storage tier and publish the new value to other contexts.
//
// Conflict resolution is last-writer-wins at whole-collection granularity: a
// remote update replaces the local copy unconditionally. Values handed out by
// Read must be treated as read-only; all mutation goes through Write.
type Collection[T any] struct {
	name   string
	syncer *Syncer
	logger *slog.Logger

	mu      sync.RWMutex
	current T
	loaded  bool
}

// NewCollection registers the collection with its syncer: it subscribes to
// remote updates and joins the periodic reconciliation pass.
func NewCollection[T any](s *Syncer, name string) *Collection[T] {
	c := &Collection[T]{
		name:   name,
		syncer: s,
		logger: s.logger.With(slog.String("collection", name)),
	}
	s.bus.Subscribe(s.origin, name, c.onRemoteUpdate)
	s.register(c)
	return c
}

func (c *Collection[T]) Name() string { return c.name }

// Read returns the last known good value, loading from storage on first use
// and defaulting to the zero (empty) value when nothing is stored yet.
func (c *Collection[T]) Read(ctx context.Context) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)
	return c.current
}

// Write applies the updater to the current value, persists the result and
// publishes it. Storage failures never fail the write: the local copy is
// updated first and durable persistence is best-effort, with the store
// logging and self-healing on its own. The only error path is a value that
// cannot be serialized.
func (c *Collection[T]) Write(ctx context.Context, update func(T) T) (T, error) {
	c.mu.Lock()
	c.ensureLoaded(ctx)

	next := update(c.current)
	data, err := json.Marshal(next)
	if err != nil {
		c.mu.Unlock()
		var zero T
		return zero, fmt.Errorf("marshal collection %s: %w", c.name, err)
	}
	c.current = next
	c.mu.Unlock()

	c.syncer.store.Put(ctx, c.name, data)
	c.syncer.bus.Publish(c.syncer.origin, c.name, data)
	return next, nil
}

// ensureLoaded hydrates the in-memory copy from storage once. Callers hold
// c.mu.
func (c *Collection[T]) ensureLoaded(ctx context.Context) {
	if c.loaded {
		return
	}
	c.loaded = true

	data, err := c.syncer.store.Get(ctx, c.name)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			c.logger.Warn("initial load failed, starting empty", slog.Any("error", err))
		}
		return
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		c.logger.Warn("stored value does not decode, starting empty", slog.Any("error", err))
		return
	}
	c.current = value
}

// onRemoteUpdate replaces the local copy with the published value. Last
// publish wins; there is no field-level merge.
func (c *Collection[T]) onRemoteUpdate(_ string, payload []byte) {
	var value T
	if err := json.Unmarshal(payload, &value); err != nil {
		c.logger.Warn("dropping undecodable remote update", slog.Any("error", err))
		return
	}
	c.mu.Lock()
	c.current = value
	c.loaded = true
	c.mu.Unlock()
}

// Reconcile re-reads durable storage. A readable value replaces the local
// copy; a missing primary is rehydrated from what this context still holds.
func (c *Collection[T]) Reconcile(ctx context.Context) {
	data, err := c.syncer.store.Get(ctx, c.name)
	if err != nil {
		c.mu.RLock()
		loaded := c.loaded
		current := c.current
		c.mu.RUnlock()
		if !loaded {
			return
		}
		if rehydrated, marshalErr := json.Marshal(current); marshalErr == nil {
			c.logger.Warn("durable copy missing, rehydrating from local state")
			c.syncer.store.Put(ctx, c.name, rehydrated)
		}
		return
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		c.logger.Warn("reconcile read does not decode, keeping local state", slog.Any("error", err))
		return
	}
	c.mu.Lock()
	c.current = value
	c.loaded = true
	c.mu.Unlock()
}

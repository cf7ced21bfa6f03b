package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrKeyNotFound is returned by a tier when it holds no value for a key.
var ErrKeyNotFound = errors.New("key not found")

// Tier is a single backing slot for the store. Tiers are tried in priority
// order on read; every tier receives every write.
type Tier interface {
	Name() string
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// VersionedTier additionally retains timestamped historical values, newest
// first. The backup slot implements this so the validator can walk back to
// the most recent value that still parses.
type VersionedTier interface {
	Tier
	Versions(ctx context.Context, key string, limit int) ([][]byte, error)
}

// ValidateFunc decides whether a raw value is usable. The default accepts
// any well-formed JSON document.
type ValidateFunc func([]byte) bool

func jsonValid(value []byte) bool {
	return len(value) > 0 && json.Valid(value)
}

// TieredStore fans writes out to every tier and reads through them in
// priority order, returning the first value that validates. Writes always
// update the in-memory cache first so a caller proceeds optimistically even
// when durable storage is unreachable; persistence failures are logged, never
// returned.
type TieredStore struct {
	tiers    []Tier
	validate ValidateFunc
	logger   *slog.Logger

	mu    sync.RWMutex
	cache map[string][]byte
}

func NewTieredStore(logger *slog.Logger, validate ValidateFunc, tiers ...Tier) (*TieredStore, error) {
	if len(tiers) == 0 {
		return nil, errors.New("tiered store requires at least one tier")
	}
	if validate == nil {
		validate = jsonValid
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TieredStore{
		tiers:    tiers,
		validate: validate,
		logger:   logger,
		cache:    make(map[string][]byte),
	}, nil
}

// Put writes through every tier. The in-memory cache is updated before any
// durable write, so no operation blocks on storage availability.
func (s *TieredStore) Put(ctx context.Context, key string, value []byte) {
	s.mu.Lock()
	s.cache[key] = append([]byte(nil), value...)
	s.mu.Unlock()

	for _, tier := range s.tiers {
		if err := tier.Put(ctx, key, value); err != nil {
			s.logger.Warn("tier write failed",
				slog.String("tier", tier.Name()),
				slog.String("key", key),
				slog.Any("error", err))
		}
	}
}

// Get reads tiers in priority order and returns the first value that
// validates. A hit on anything but the first tier means the primary is
// degraded: it is repaired in place and the cache updated. When every tier
// fails, the last cached value is returned as a final fallback.
func (s *TieredStore) Get(ctx context.Context, key string) ([]byte, error) {
	for i, tier := range s.tiers {
		value, ok := s.getFromTier(ctx, tier, key)
		if !ok {
			continue
		}
		if i > 0 {
			s.logger.Warn("storage degraded, recovered from fallback tier",
				slog.String("tier", tier.Name()),
				slog.String("key", key))
			s.repair(ctx, key, value, i)
		}
		s.mu.Lock()
		s.cache[key] = append([]byte(nil), value...)
		s.mu.Unlock()
		return value, nil
	}

	s.mu.RLock()
	cached, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		s.logger.Warn("all tiers unreadable, serving cached value", slog.String("key", key))
		return cached, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
}

// getFromTier fetches a valid value from one tier, walking a versioned
// tier's history newest-first until something parses.
func (s *TieredStore) getFromTier(ctx context.Context, tier Tier, key string) ([]byte, bool) {
	if vt, ok := tier.(VersionedTier); ok {
		versions, err := vt.Versions(ctx, key, 10)
		if err != nil {
			return nil, false
		}
		for _, v := range versions {
			if s.validate(v) {
				return v, true
			}
		}
		return nil, false
	}

	value, err := tier.Get(ctx, key)
	if err != nil || !s.validate(value) {
		return nil, false
	}
	return value, true
}

// repair rewrites every tier above the one the value was recovered from.
func (s *TieredStore) repair(ctx context.Context, key string, value []byte, recoveredFrom int) {
	for i := 0; i < recoveredFrom; i++ {
		if err := s.tiers[i].Put(ctx, key, value); err != nil {
			s.logger.Warn("tier repair failed",
				slog.String("tier", s.tiers[i].Name()),
				slog.String("key", key),
				slog.Any("error", err))
		}
	}
}

// Keys returns every key the store has seen in this process.
func (s *TieredStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.cache))
	for k := range s.cache {
		keys = append(keys, k)
	}
	return keys
}

// Validate checks the primary slot of every known key and self-heals from
// the fallback tiers when the primary is missing or unparseable.
func (s *TieredStore) Validate(ctx context.Context) {
	for _, key := range s.Keys() {
		primary, err := s.tiers[0].Get(ctx, key)
		if err == nil && s.validate(primary) {
			continue
		}

		for i := 1; i < len(s.tiers); i++ {
			value, ok := s.getFromTier(ctx, s.tiers[i], key)
			if !ok {
				continue
			}
			s.logger.Warn("primary slot corrupted, restoring from backup",
				slog.String("key", key),
				slog.String("tier", s.tiers[i].Name()))
			s.repair(ctx, key, value, i)
			s.mu.Lock()
			s.cache[key] = append([]byte(nil), value...)
			s.mu.Unlock()
			break
		}
	}
}

// RunValidator re-validates the store on a fixed interval until the context
// is cancelled.
func (s *TieredStore) RunValidator(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Validate(ctx)
		}
	}
}

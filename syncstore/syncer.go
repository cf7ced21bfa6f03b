package syncstore

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kmarzh/scrim-scoreboard/broadcast"
	"github.com/kmarzh/scrim-scoreboard/storage"
)

const DefaultReconcileInterval = 30 * time.Second

type reconciler interface {
	Name() string
	Reconcile(ctx context.Context)
}

// Syncer owns one actor context's view of the synchronized collections. It is
// constructed explicitly and injected wherever collections are needed; its
// lifecycle belongs to the caller through Start and Stop, not to a hidden
// package-level singleton.
//
// Each Syncer carries a unique origin id so the change bus can skip echoing a
// context's own writes back to it.
type Syncer struct {
	origin   string
	store    *storage.TieredStore
	bus      *broadcast.Bus
	interval time.Duration
	logger   *slog.Logger

	mu          sync.Mutex
	collections []reconciler
	cancel      context.CancelFunc
	group       *errgroup.Group
}

func NewSyncer(store *storage.TieredStore, bus *broadcast.Bus, interval time.Duration, logger *slog.Logger) *Syncer {
	if interval <= 0 {
		interval = DefaultReconcileInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		origin:   uuid.NewString(),
		store:    store,
		bus:      bus,
		interval: interval,
		logger:   logger,
	}
}

func (s *Syncer) Origin() string { return s.origin }

func (s *Syncer) register(r reconciler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections = append(s.collections, r)
}

// Start launches the background validator and the reconciliation loop. The
// loops run until Stop is called or the parent context is cancelled.
func (s *Syncer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return errors.New("syncer already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	g, groupCtx := errgroup.WithContext(runCtx)
	s.group = g

	g.Go(func() error {
		s.store.RunValidator(groupCtx, s.interval)
		return nil
	})
	g.Go(func() error {
		s.runReconcileLoop(groupCtx)
		return nil
	})

	s.logger.Info("syncer started",
		slog.String("origin", s.origin),
		slog.Duration("interval", s.interval))
	return nil
}

// Stop cancels the background loops and waits for them to drain.
func (s *Syncer) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	group := s.group
	s.cancel = nil
	s.group = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if group != nil {
		_ = group.Wait()
	}
	s.logger.Info("syncer stopped", slog.String("origin", s.origin))
}

func (s *Syncer) runReconcileLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ReconcileAll(ctx)
		}
	}
}

// ReconcileAll re-reads every registered collection from durable storage,
// self-healing collections whose primary is missing or corrupted.
func (s *Syncer) ReconcileAll(ctx context.Context) {
	s.mu.Lock()
	collections := make([]reconciler, len(s.collections))
	copy(collections, s.collections)
	s.mu.Unlock()

	for _, c := range collections {
		c.Reconcile(ctx)
	}
}

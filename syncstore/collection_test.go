package syncstore

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmarzh/scrim-scoreboard/broadcast"
	"github.com/kmarzh/scrim-scoreboard/models"
	"github.com/kmarzh/scrim-scoreboard/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testFixture struct {
	store   *storage.TieredStore
	primary *storage.MemoryTier
	bus     *broadcast.Bus
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()
	primary := storage.NewMemoryTier("memory:primary")
	store, err := storage.NewTieredStore(testLogger(), nil,
		primary,
		storage.NewMemoryTier("memory:mirror"),
		storage.NewMemoryBackupTier(5),
	)
	require.NoError(t, err)
	return &testFixture{store: store, primary: primary, bus: broadcast.NewBus()}
}

func (f *testFixture) newSyncer() *Syncer {
	return NewSyncer(f.store, f.bus, time.Minute, testLogger())
}

func TestReadDefaultsToEmpty(t *testing.T) {
	f := newFixture(t)
	matches := NewCollection[[]models.Match](f.newSyncer(), CollectionMatches)
	assert.Empty(t, matches.Read(context.Background()))
}

func TestWritePersistsAndReadsBack(t *testing.T) {
	f := newFixture(t)
	matches := NewCollection[[]models.Match](f.newSyncer(), CollectionMatches)
	ctx := context.Background()

	_, err := matches.Write(ctx, func(ms []models.Match) []models.Match {
		return append(ms, models.Match{ID: "m1", TeamCode: "AAA", Score: 12.5})
	})
	require.NoError(t, err)

	got := matches.Read(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].ID)

	// The value is durable, not just cached.
	raw, err := f.primary.Get(ctx, CollectionMatches)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"m1"`)
}

func TestWritePropagatesToOtherContexts(t *testing.T) {
	f := newFixture(t)
	writerSide := NewCollection[[]models.Match](f.newSyncer(), CollectionMatches)
	readerSide := NewCollection[[]models.Match](f.newSyncer(), CollectionMatches)
	ctx := context.Background()

	// Hydrate the reader before the write so only the bus can update it.
	assert.Empty(t, readerSide.Read(ctx))

	_, err := writerSide.Write(ctx, func(ms []models.Match) []models.Match {
		return append(ms, models.Match{ID: "m1"})
	})
	require.NoError(t, err)

	got := readerSide.Read(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].ID)
}

func TestRemoteUpdateWinsOverLocalCopy(t *testing.T) {
	f := newFixture(t)
	a := NewCollection[[]models.Match](f.newSyncer(), CollectionMatches)
	b := NewCollection[[]models.Match](f.newSyncer(), CollectionMatches)
	ctx := context.Background()

	_, err := a.Write(ctx, func(ms []models.Match) []models.Match {
		return []models.Match{{ID: "from-a"}}
	})
	require.NoError(t, err)

	_, err = b.Write(ctx, func(ms []models.Match) []models.Match {
		return []models.Match{{ID: "from-b"}}
	})
	require.NoError(t, err)

	// Whole-collection last-writer-wins: both sides converge on b's write.
	assert.Equal(t, "from-b", a.Read(ctx)[0].ID)
	assert.Equal(t, "from-b", b.Read(ctx)[0].ID)
}

func TestReconcileRecoversCorruptedPrimary(t *testing.T) {
	f := newFixture(t)
	syncer := f.newSyncer()
	matches := NewCollection[[]models.Match](syncer, CollectionMatches)
	ctx := context.Background()

	_, err := matches.Write(ctx, func(ms []models.Match) []models.Match {
		return append(ms, models.Match{ID: "m1"})
	})
	require.NoError(t, err)

	// Corrupt the primary slot; the mirror and backup still hold the value.
	require.NoError(t, f.primary.Put(ctx, CollectionMatches, []byte(`{corrupt`)))

	syncer.ReconcileAll(ctx)

	got := matches.Read(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].ID)

	repaired, err := f.primary.Get(ctx, CollectionMatches)
	require.NoError(t, err)
	assert.Contains(t, string(repaired), `"m1"`)
}

func TestSyncerStartStop(t *testing.T) {
	f := newFixture(t)
	syncer := NewSyncer(f.store, f.bus, 10*time.Millisecond, testLogger())
	NewCollection[[]models.Team](syncer, CollectionTeams)

	require.NoError(t, syncer.Start(context.Background()))
	assert.Error(t, syncer.Start(context.Background()), "double start must fail")

	time.Sleep(30 * time.Millisecond)
	syncer.Stop()

	// Stopping twice is harmless.
	syncer.Stop()
}

package boatdata

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/internal/storage"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("boatTypes: [{id: sail, name: Sailboat}]\n"), 0644))

	var mu sync.Mutex
	var seen []int
	w, err := NewWatcher(path, func(_ context.Context, seed *Seed) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, len(seed.Boats))
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	w.Start(ctx)

	// Unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0644))

	require.NoError(t, os.WriteFile(path, []byte(fixtureYAML), 0644))

	// A truncate-then-write may surface an empty seed first; wait for the full one.
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, n := range seen {
			if n == 4 {
				return true
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, w.Stop())
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "seed.yaml"), nil)
	assert.Error(t, err)
}

func TestReloader(t *testing.T) {
	store := NewStore(storage.NewMemory())
	cache, err := NewCached(store, 4)
	require.NoError(t, err)
	bus := event.NewBus()
	defer bus.Close()

	var got []event.BoatListRefreshed
	_, err = event.On(bus, event.Broad(), func(m event.BoatListRefreshed) { got = append(got, m) })
	require.NoError(t, err)

	seed, err := ParseSeed([]byte(fixtureYAML))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.SaveBoatType(ctx, seed.BoatTypes[0]))
	require.NoError(t, store.SaveBoat(ctx, &seed.Boats[0]))
	_, err = cache.GetBoat(ctx, "b1")
	require.NoError(t, err)

	require.NoError(t, Reloader(store, cache, bus)(ctx, seed))

	assert.Equal(t, []event.BoatListRefreshed{{Count: 4}}, got)
	assert.Zero(t, cache.Stats().Size)
}

package boatdata

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/internal/logging"
)

const (
	// ReloadInitialInterval is the first retry delay for an unreadable seed file.
	ReloadInitialInterval = 50 * time.Millisecond
	// ReloadMaxElapsedTime bounds how long a reload keeps retrying.
	ReloadMaxElapsedTime = 5 * time.Second
)

// ReloadFunc receives a freshly parsed seed.
type ReloadFunc func(ctx context.Context, seed *Seed) error

// Watcher reloads a seed file whenever it changes on disk.
type Watcher struct {
	watcher *fsnotify.Watcher
	fs      afero.Fs
	path    string
	reload  ReloadFunc
	log     zerolog.Logger

	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	reloads int
	mu      sync.Mutex
}

// NewWatcher watches the seed file at path and calls reload after each change.
func NewWatcher(path string, reload ReloadFunc) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: editors often replace the file rather than write it
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}

	return &Watcher{
		watcher: w,
		fs:      afero.NewOsFs(),
		path:    abs,
		reload:  reload,
		log:     logging.Component("seed-watcher"),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Start begins watching. It is a no-op if already started.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()

	w.log.Info().Str("path", w.path).Msg("watching seed file")
	go w.run(ctx)
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.reloadWithRetry(ctx)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("seed watcher error")
		}
	}
}

// reloadWithRetry parses the seed, retrying while the file is mid-write.
func (w *Watcher) reloadWithRetry(ctx context.Context) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = ReloadInitialInterval
	b.MaxElapsedTime = ReloadMaxElapsedTime

	op := func() error {
		seed, err := LoadSeed(w.fs, w.path)
		if err != nil {
			return err
		}
		if err := w.reload(ctx, seed); err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}
	notify := func(err error, next time.Duration) {
		w.log.Debug().Err(err).Dur("retryIn", next).Msg("seed not ready")
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		w.log.Error().Err(err).Str("path", w.path).Msg("seed reload failed")
		return
	}

	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()
	w.log.Info().Str("path", w.path).Msg("seed reloaded")
}

// Reloads returns the number of successful reloads.
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Stop stops the watcher and waits for it to finish.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()

	select {
	case <-w.stopCh:
		// Already stopped
	default:
		close(w.stopCh)
	}

	if started {
		<-w.doneCh
	}

	return w.watcher.Close()
}

// Reloader applies a seed to store, drops cached boats and announces the
// refreshed list on bus. cache and bus may be nil.
func Reloader(store *Store, cache *Cached, bus *event.Bus) ReloadFunc {
	return func(ctx context.Context, seed *Seed) error {
		if _, err := ApplySeed(ctx, store, seed); err != nil {
			return err
		}
		if cache != nil {
			cache.Purge()
		}
		if bus != nil {
			boats, err := store.GetBoats(ctx, "")
			if err != nil {
				return err
			}
			bus.Publish(event.BoatListRefreshed{Count: len(boats)})
		}
		return nil
	}
}

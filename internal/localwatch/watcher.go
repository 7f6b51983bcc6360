// Package localwatch notices writes to the local database made by other
// painel processes sharing the same data directory.
package localwatch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce collapses the burst of events SQLite produces per commit.
const DefaultDebounce = 150 * time.Millisecond

// Watcher calls a reload function when files matching a pattern change in
// a directory. Bursts of events are debounced into one call.
type Watcher struct {
	dir      string
	pattern  string
	debounce time.Duration
	reload   func(context.Context)
	log      zerolog.Logger

	watcher *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New starts watching dir for changes to files whose base name matches the
// doublestar pattern (e.g. "painel.db*").
func New(dir, pattern string, debounce time.Duration, reload func(context.Context), logger zerolog.Logger) (*Watcher, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		dir:      dir,
		pattern:  pattern,
		debounce: debounce,
		reload:   reload,
		log:      logger,
		watcher:  fw,
		ctx:      ctx,
		cancel:   cancel,
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Close stops watching and waits for the event loop to exit. A pending
// debounced reload is dropped.
func (w *Watcher) Close() error {
	w.cancel()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Debug().Err(err).Msg("local watch error")
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	ok, err := doublestar.Match(w.pattern, filepath.Base(event.Name))
	if err != nil || !ok {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if w.ctx.Err() != nil {
			return
		}
		w.reload(w.ctx)
	})
}

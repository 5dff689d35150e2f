package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/memodesk/pkg/core"
)

const watchDebounce = 50 * time.Millisecond

type watchWorker struct {
	repo      *Repository
	pattern   string
	events    chan core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	// known tracks IDs present on disk so an atomic rename over an existing
	// document is reported as a modification.
	known map[string]bool
}

// Watch streams changes to documents whose ID matches pattern (doublestar
// syntax, "*" for everything). The channel is closed once ctx is done.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(r.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", r.Path, err)
	}

	w := &watchWorker{
		repo:      r,
		pattern:   pattern,
		events:    make(chan core.Event, r.config.EventBuffer),
		watcher:   watcher,
		debouncer: newDebouncer(watchDebounce),
		known:     make(map[string]bool),
	}
	if docs, err := r.List(ctx, core.Query{}); err == nil {
		for _, d := range docs {
			w.known[d.ID] = true
		}
	}

	r.setWatcherActive(true)
	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		r.reportError(fmt.Errorf("watcher: %w", err))
	}))

	return w.events, nil
}

func (r *Repository) reportError(err error) {
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
		return
	}
	r.config.Logger.Error("watcher error", "error", err)
}

// run is the main event loop for the watcher worker.
func (w *watchWorker) run(ctx context.Context) (err error) {
	logger := w.repo.config.Logger
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if logger.Enabled(ctx, slog.LevelDebug) {
				logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			}
		}
		w.debouncer.stopAndWait(5 * time.Second)
		_ = w.watcher.Close()
		w.repo.setWatcherActive(false)
		close(w.events)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.process(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.repo.reportError(wErr)
		}
	}
}

// process filters, maps and debounces a single fsnotify event.
func (w *watchWorker) process(ctx context.Context, event fsnotify.Event) {
	id, _, ok := w.repo.splitName(filepath.Base(event.Name))
	if !ok {
		return
	}
	if match, err := doublestar.Match(w.pattern, id); err != nil || !match {
		return
	}

	var eType core.EventType
	switch {
	case event.Has(fsnotify.Create):
		eType = core.EventCreate
		if w.known[id] {
			eType = core.EventModify
		}
		w.known[id] = true
	case event.Has(fsnotify.Write):
		eType = core.EventModify
		w.known[id] = true
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		eType = core.EventDelete
		delete(w.known, id)
	default:
		return
	}

	w.repo.config.Logger.Debug("store change", "id", id, "type", eType)
	w.debouncer.add(core.Event{
		Type:      eType,
		ID:        id,
		Timestamp: time.Now().Unix(),
	}, func(e core.Event) {
		select {
		case w.events <- e:
		case <-ctx.Done():
		}
	})
}

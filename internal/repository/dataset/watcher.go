package dataset

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kailas-cloud/listquery/internal/domain"
)

// DefaultDebounce is how long a fixture must stay quiet before it is reloaded.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads datasets when their seed fixtures change on disk.
// Rapid successive writes to one file collapse into a single reload.
type Watcher struct {
	loader   *Loader
	debounce time.Duration
	logger   *zap.Logger
	fsw      *fsnotify.Watcher
	pending  map[string]time.Time
	now      func() time.Time
}

// NewWatcher starts watching the loader's seed directory. Call Run to process events.
func NewWatcher(loader *Loader, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}
	if err := fsw.Add(loader.Dir()); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", loader.Dir(), err)
	}
	return &Watcher{
		loader:   loader,
		debounce: debounce,
		logger:   logger,
		fsw:      fsw,
		pending:  make(map[string]time.Time),
		now:      time.Now,
	}, nil
}

// Run processes file events until ctx is done, then releases the fs watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	tick := max(w.debounce/4, 10*time.Millisecond)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	w.logger.Info("Watching seed fixtures", zap.String("dir", w.loader.Dir()), zap.Duration("debounce", w.debounce))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Seed watcher error", zap.Error(err))
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

// handle marks the dataset behind a fixture as pending.
func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}
	base := filepath.Base(ev.Name)
	name, ok := strings.CutSuffix(base, SeedExt)
	if !ok || strings.HasPrefix(base, ".") {
		return
	}
	w.pending[name] = w.now()
}

// flush reloads every dataset that has been quiet for the debounce window.
func (w *Watcher) flush(ctx context.Context) {
	now := w.now()
	for name, at := range w.pending {
		if now.Sub(at) < w.debounce {
			continue
		}
		delete(w.pending, name)

		change, err := w.loader.Reload(ctx, name)
		switch {
		case errors.Is(err, domain.ErrDatasetNotFound):
			w.logger.Debug("Ignoring fixture of unknown dataset", zap.String("dataset", name))
		case err != nil:
			w.logger.Error("Dataset reload failed, keeping previous snapshot",
				zap.String("dataset", name), zap.Error(err))
		default:
			w.logger.Info("Dataset reloaded",
				zap.String("dataset", name),
				zap.Int("created", change.Created),
				zap.Int("updated", change.Updated),
				zap.Int("deleted", change.Deleted),
			)
		}
	}
}

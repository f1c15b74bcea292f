package content

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/staticpress/staticpress/internal/logging"
	"github.com/staticpress/staticpress/pkg/interfaces"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher observes the content root and schedules a full reload when
// markdown files or group descriptors change. There is no incremental update
// path: every change replays the whole load pass, whose result replaces the
// store snapshot atomically.
type Watcher struct {
	loader   *Loader
	root     string
	debounce time.Duration
	logger   interfaces.Logger
}

// WatcherOption mutates the watcher configuration.
type WatcherOption func(*Watcher)

// WithDebounce overrides the reload debounce window.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger attaches a logger to the watcher.
func WithWatcherLogger(logger interfaces.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher constructs a watcher over the loader's content root.
func NewWatcher(loader *Loader, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		loader:   loader,
		root:     loader.root,
		debounce: defaultDebounce,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Watch processes filesystem events until ctx is cancelled. Directories
// created at runtime are added to the watch list. Reloads are debounced so a
// burst of writes (an editor save, a git checkout) triggers one load pass.
func (w *Watcher) Watch(ctx context.Context) error {
	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer notifier.Close()

	if err := addDirsRecursive(notifier, w.root); err != nil {
		return err
	}

	w.logger.Info("content watcher started", "root", w.root)

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(w.debounce)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(w.debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			w.logger.Info("content watcher stopped")
			return nil

		case <-reloadCh:
			if err := w.loader.Load(ctx); err != nil {
				w.logger.Error("watcher reload failed", "error", err)
			}

		case event, ok := <-notifier.Events:
			if !ok {
				return nil
			}

			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(notifier, event.Name); addErr != nil {
						w.logger.Warn("watch new directory failed", "path", event.Name, "error", addErr)
					}
					scheduleReload()
					continue
				}
			}

			if !w.relevant(event.Name) {
				continue
			}
			w.logger.Debug("content change detected", "path", event.Name, "op", event.Op.String())
			scheduleReload()

		case watchErr, ok := <-notifier.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("content watcher error", "error", watchErr)
		}
	}
}

// relevant reports whether a changed path can affect the corpus: markdown
// files anywhere under the root, JSON descriptors in the groups directory.
func (w *Watcher) relevant(path string) bool {
	if strings.HasSuffix(path, ".md") {
		return true
	}
	if !strings.HasSuffix(path, ".json") {
		return false
	}
	return filepath.Base(filepath.Dir(path)) == w.loader.groupsDir
}

func addDirsRecursive(notifier *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return notifier.Add(path)
		}
		return nil
	})
}

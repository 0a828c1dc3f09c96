package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDebounce coalesces the burst of fsnotify events an editor save
// produces into one reload.
const reloadDebounce = 250 * time.Millisecond

// Watcher reloads the index bundle when any of the data files changes on
// disk. Reloads never interrupt an in-flight batch: the new bundle is
// handed to onReload and takes effect whenever the caller next builds a
// resolver.
type Watcher struct {
	paths    Paths
	logger   *zap.Logger
	onReload func(*Bundle)
}

// NewWatcher creates a watcher over the index files. onReload is invoked
// from the watcher goroutine with each successfully loaded bundle.
func NewWatcher(paths Paths, logger *zap.Logger, onReload func(*Bundle)) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{paths: paths, logger: logger, onReload: onReload}
}

// Run watches until the context is cancelled. Returns nil on cancellation
// and an error only when the underlying watcher cannot be established.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fsw.Close()

	// Watch the parent directories: editors replace files by rename, which
	// drops a watch placed on the file itself.
	watched := make(map[string]bool)
	for _, dir := range w.watchDirs() {
		if watched[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		watched[dir] = true
	}

	var debounce *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("index file changed",
				zap.String("file", event.Name),
				zap.String("op", event.Op.String()))
			if debounce == nil {
				debounce = time.NewTimer(reloadDebounce)
				fire = debounce.C
			} else {
				debounce.Reset(reloadDebounce)
			}

		case <-fire:
			debounce = nil
			fire = nil
			w.reload()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) watchDirs() []string {
	var dirs []string
	for _, p := range []string{w.paths.Signatures, w.paths.Sprites, w.paths.Aliases} {
		if p != "" {
			dirs = append(dirs, filepath.Dir(p))
		}
	}
	return dirs
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(event.Name)
	for _, p := range []string{w.paths.Signatures, w.paths.Sprites, w.paths.Aliases} {
		if p != "" && filepath.Clean(p) == name {
			return true
		}
	}
	return false
}

// reload loads a fresh bundle. A load failure keeps the previous bundle
// in service; the broken file is logged and can be fixed in place.
func (w *Watcher) reload() {
	bundle, err := Load(w.paths)
	if err != nil {
		w.logger.Error("index reload failed, keeping previous indices", zap.Error(err))
		return
	}
	w.logger.Info("indices reloaded",
		zap.Int("signature_cards", bundle.Signatures.Len()),
		zap.Int("aliases", bundle.Aliases.Len()))
	if w.onReload != nil {
		w.onReload(bundle)
	}
}

package assets

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch invalidates cached panoramas when files in the on-disk sources
// change. It runs until ctx is cancelled. Changed keys are picked up by the
// main loop through Changed.
func (m *Manager) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	m.mu.RLock()
	var dirs []string
	for _, s := range m.sources {
		if s.dir != "" {
			dirs = append(dirs, s.dir)
		}
	}
	m.mu.RUnlock()

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				if key, ok := keyFor(dirs, event.Name); ok {
					m.log.Info("panorama changed on disk", zap.String("key", key), zap.String("op", event.Op.String()))
					m.Invalidate(key)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				m.log.Warn("asset watcher error", zap.Error(err))
			}
		}
	}()

	m.log.Info("watching asset directories", zap.Strings("dirs", dirs))
	return nil
}

// keyFor maps an absolute file name back to its asset key.
func keyFor(dirs []string, name string) (string, bool) {
	for _, dir := range dirs {
		rel, err := filepath.Rel(dir, name)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		return filepath.ToSlash(rel), true
	}
	return "", false
}

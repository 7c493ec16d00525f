package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/tilecraft/internal/logger"
)

// Watcher invalidates cached images when files under a directory change.
type Watcher struct {
	watcher  *fsnotify.Watcher
	manager  *Manager
	dir      string
	onChange func(key string)
	done     chan struct{}
	wg       sync.WaitGroup
}

// Watch starts watching dir and its subdirectories. dir should also be one of
// the manager's roots; cache keys are taken relative to it. onChange, if set, is called with the
// key of every changed file after its cache entry is dropped.
func (m *Manager) Watch(dir string, onChange func(key string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := addTree(fw, dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &Watcher{
		watcher:  fw,
		manager:  m,
		dir:      dir,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

func addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.Add(p)
		}
		return nil
	})
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
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
			logger.Warn("asset watcher error", zap.String("dir", w.dir), zap.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addTree(w.watcher, event.Name); err != nil {
				logger.Warn("asset watcher add", zap.String("dir", event.Name), zap.Error(err))
			}
			return
		}
	}
	rel, err := filepath.Rel(w.dir, event.Name)
	if err != nil {
		return
	}
	key := Key(filepath.ToSlash(rel))
	w.manager.Invalidate(key)
	logger.Debug("asset changed", zap.String("path", key), zap.Stringer("op", event.Op))
	if w.onChange != nil {
		w.onChange(key)
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

package main

import (
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// KeyFileWatcher notices saves of the key file between repeated dispatches
type KeyFileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	base    string
	changed atomic.Bool
	log     *LogManager
}

// WatchKeyFile starts watching path. The caller must Close the watcher.
func WatchKeyFile(path string, log *LogManager) (*KeyFileWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// editors that save through a temp file replace the inode, so watch the directory
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, err
	}

	w := &KeyFileWatcher{
		watcher: watcher,
		path:    filepath.Clean(absPath),
		base:    filepath.Base(absPath),
		log:     log,
	}
	go w.run()
	return w, nil
}

func (w *KeyFileWatcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if shouldReloadKeyFile(w.path, w.base, event) {
				w.log.LogDebug("Key file changed", "path", w.path, "op", event.Op.String())
				w.changed.Store(true)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.LogWarning("Key file watcher error", "error", err.Error())
		}
	}
}

// Changed reports whether the file was written since the last call
func (w *KeyFileWatcher) Changed() bool {
	return w.changed.Swap(false)
}

// Close stops watching
func (w *KeyFileWatcher) Close() error {
	return w.watcher.Close()
}

// shouldReloadKeyFile reports whether event touches the key file
func shouldReloadKeyFile(path, base string, event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Clean(event.Name)
	return name == path || filepath.Base(name) == base
}

package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/anima-xr/engine/core"
)

// Watcher reloads a config file whenever it changes on disk and hands the
// result to whoever owns the frame loop.
type Watcher struct {
	path string

	mutex    sync.Mutex
	isClosed bool

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	updates  chan *Config
	errors   chan error
}

// NewWatcher starts watching path. The parent directory is watched so
// editors that replace the file on save are noticed too.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		fsnotify: fsWatch,
		updates:  make(chan *Config, 1),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
	}
	go w.start()
	return w, nil
}

// Updates delivers freshly loaded configs. Only the latest pending one is kept.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Errors delivers load failures; the previous config stays in effect.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

func (w *Watcher) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.isClosed {
		return core.ErrWatcherClosed
	}
	w.isClosed = true
	close(w.done)
	return nil
}

func (w *Watcher) start() {
	for {
		select {

		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path {
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.reload()
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())
			send(w.errors, err)

		case <-w.done:
			w.fsnotify.Close()
			close(w.updates)
			close(w.errors)
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		core.LogWarn("config reload of '%s' failed: %s", w.path, err.Error())
		send(w.errors, err)
		return
	}
	core.LogDebug("config '%s' reloaded", w.path)
	send(w.updates, cfg)
}

// send replaces whatever is still pending on ch with v.
func send[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

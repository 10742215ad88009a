// Package watcher notices when a single file appears or changes, using
// fsnotify on its directory with a polling fallback.
package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/anomredux/tokenwatch/internal/logger"
)

type Watcher struct {
	path         string
	pollInterval time.Duration
	onChange     func(path string)
	log          *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New watches path. onChange runs on the watcher's goroutines whenever the
// file exists with content, so it must tolerate repeated and concurrent calls.
func New(path string, pollInterval time.Duration, onChange func(path string), log *zap.Logger) *Watcher {
	return &Watcher{
		path:         filepath.Clean(path),
		pollInterval: pollInterval,
		onChange:     onChange,
		log:          logger.OrNop(log),
		stop:         make(chan struct{}),
	}
}

// Start begins watching with fsnotify + polling fallback. The parent
// directory is created if needed so it can be watched before the first drop.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err == nil {
		if addErr := fsw.Add(dir); addErr != nil {
			w.log.Debug("fsnotify unavailable, polling only", zap.String("dir", dir), zap.Error(addErr))
			fsw.Close()
		} else {
			w.wg.Add(1)
			go w.watchEvents(fsw)
		}
	} else {
		w.log.Debug("fsnotify unavailable, polling only", zap.Error(err))
	}

	// Polling fallback (always runs as safety net)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.check()
			case <-w.stop:
				return
			}
		}
	}()

	return nil
}

func (w *Watcher) watchEvents(fsw *fsnotify.Watcher) {
	defer w.wg.Done()
	defer fsw.Close()
	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) == w.path &&
				event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.check()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.log.Debug("fsnotify error", zap.Error(err))
		case <-w.stop:
			return
		}
	}
}

// Stop signals goroutines to exit and waits for them to finish. Safe to
// call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	w.wg.Wait()
}

func (w *Watcher) check() {
	info, err := os.Stat(w.path)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return
	}
	w.onChange(w.path)
}

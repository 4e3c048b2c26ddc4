package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// Watcher reloads a tuning file whenever it changes on disk and publishes the decoded result.
// Writes that leave the content unchanged are not published.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	Updates chan Tuning
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once

	hash uint64
}

// NewWatcher watches the directory of path, so editors replacing the file are still seen.
func NewWatcher(path string) (*Watcher, error) {
	path = filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	watcher := &Watcher{
		path:    path,
		watcher: w,
		Updates: make(chan Tuning, 1),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	if data, err := os.ReadFile(path); err == nil {
		watcher.hash = xxhash.Sum64(data)
	}

	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Updates)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			timerCh = timer.C
		case <-timerCh:
			timerCh = nil
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.publishError(err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		// rename-and-replace saves briefly leave no file, the Create that follows triggers another reload
		if os.IsNotExist(err) {
			return
		}
		w.publishError(fmt.Errorf("config: reload %s: %w", w.path, err))
		return
	}

	hash := xxhash.Sum64(data)
	if hash == w.hash {
		return
	}

	tuning, err := LoadTuningBytes(data)
	if err != nil {
		w.publishError(fmt.Errorf("config: reload %s: %w", w.path, err))
		return
	}
	w.hash = hash

	select {
	case <-w.Updates:
	default:
	}
	select {
	case w.Updates <- tuning:
	case <-w.closeCh:
	}
}

func (w *Watcher) publishError(err error) {
	select {
	case w.Errors <- err:
	case <-w.closeCh:
	default:
	}
}

package server

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/remotedocs/internal/logfields"
)

// DefaultDebounce coalesces editor save bursts into one change notification.
const DefaultDebounce = 2 * time.Second

// FileWatcher monitors a single file and calls onChange, debounced, when it is
// written, created or renamed into place.
type FileWatcher struct {
	path         string
	onChange     func(ctx context.Context)
	watcher      *fsnotify.Watcher
	mu           sync.Mutex
	stopChan     chan struct{}
	changeChan   chan struct{}
	debounceTime time.Duration
	stopped      bool
}

// NewFileWatcher creates a watcher for path. A non-positive debounce selects
// DefaultDebounce.
func NewFileWatcher(path string, debounce time.Duration, onChange func(ctx context.Context)) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Resolve absolute path for consistent watching
	absPath, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve watched path: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &FileWatcher{
		path:         absPath,
		onChange:     onChange,
		watcher:      watcher,
		stopChan:     make(chan struct{}),
		changeChan:   make(chan struct{}, 1),
		debounceTime: debounce,
	}, nil
}

// Start begins monitoring the file.
func (fw *FileWatcher) Start(ctx context.Context) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	// Watch the directory: editors replace files rather than writing in place.
	dir := filepath.Dir(fw.path)
	if err := fw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	slog.Info("Starting file watcher", logfields.Path(fw.path))

	go fw.watchLoop(ctx)
	go fw.debounceLoop(ctx)
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.stopped {
		return nil
	}
	fw.stopped = true

	slog.Info("Stopping file watcher", logfields.Path(fw.path))
	close(fw.stopChan)
	return fw.watcher.Close()
}

func (fw *FileWatcher) watchLoop(ctx context.Context) {
	name := filepath.Base(fw.path)

	for {
		select {
		case <-ctx.Done():
			return
		case <-fw.stopChan:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}

			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				slog.Debug("Watched file changed", logfields.Path(event.Name), slog.String("op", event.Op.String()))
				fw.trigger()
			case event.Has(fsnotify.Remove):
				slog.Warn("Watched file removed", logfields.Path(event.Name))
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (fw *FileWatcher) debounceLoop(ctx context.Context) {
	var timer *time.Timer
	stop := func() {
		if timer != nil {
			timer.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			stop()
			return
		case <-fw.stopChan:
			stop()
			return
		case <-fw.changeChan:
			stop()
			timer = time.AfterFunc(fw.debounceTime, func() { fw.onChange(ctx) })
		}
	}
}

func (fw *FileWatcher) trigger() {
	select {
	case fw.changeChan <- struct{}{}:
	default:
		// change already pending
	}
}

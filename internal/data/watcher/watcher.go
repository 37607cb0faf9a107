package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-time-tracer/internal/util"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 300 * time.Millisecond

// FileEvent is a batch of changed source files.
type FileEvent struct {
	Paths []string
}

// FileWatcher watches directory trees and reports changed files whose names
// satisfy match.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	match    func(string) bool
	debounce time.Duration
	events   chan FileEvent
}

// NewFileWatcher watches every directory below paths.
func NewFileWatcher(paths []string, match func(string) bool, debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw := &FileWatcher{
		watcher:  w,
		match:    match,
		debounce: debounce,
		events:   make(chan FileEvent, 16),
	}
	for _, path := range paths {
		if err := fw.addPath(path); err != nil {
			w.Close()
			return nil, err
		}
	}
	return fw, nil
}

func (fw *FileWatcher) addPath(path string) error {
	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return fw.watcher.Add(p)
		}
		return nil
	})
}

// Run processes file system events until ctx is done, then closes Events.
func (fw *FileWatcher) Run(ctx context.Context) {
	defer close(fw.events)

	pending := make(map[string]struct{})
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(fw.debounce)
			timerCh = timer.C
			return
		}
		timer.Reset(fw.debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case <-timerCh:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			pending = make(map[string]struct{})
			select {
			case fw.events <- FileEvent{Paths: paths}:
			case <-ctx.Done():
				return
			}

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fw.addPath(event.Name); err != nil {
						util.LogWarnf("watch: add new dir %s failed: %v", event.Name, err)
					}
					continue
				}
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if fw.match != nil && !fw.match(event.Name) {
				continue
			}
			util.LogDebugf("watch: %s %s", event.Op, event.Name)
			pending[event.Name] = struct{}{}
			schedule()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

// Events returns the batches of changed files.
func (fw *FileWatcher) Events() <-chan FileEvent {
	return fw.events
}

// Close stops watching.
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}

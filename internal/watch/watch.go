// Package watch monitors the files a rendered card depends on and reports
// changes, debounced so editor save bursts trigger a single reload.
package watch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow suppresses repeat events for the same path.
const debounceWindow = 500 * time.Millisecond

// Monitor watches an always-trigger directory tree plus a set of individual
// files, calling the callback with the changed path.
type Monitor struct {
	callback func(path string)
	log      *slog.Logger
	now      func() time.Time

	watcher *fsnotify.Watcher
	done    chan struct{}

	mu          sync.Mutex
	triggerDirs []string
	files       map[string]struct{}
	watchedDirs map[string]struct{}
	lastEvent   map[string]time.Time
}

// New returns a monitor that always triggers for changes under the given
// directories. Call Start to begin watching.
func New(triggerDirs []string, callback func(path string), log *slog.Logger) *Monitor {
	if log == nil {
		log = slog.Default()
	}
	resolved := make([]string, 0, len(triggerDirs))
	for _, dir := range triggerDirs {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		resolved = append(resolved, dir)
	}
	return &Monitor{
		callback:    callback,
		log:         log,
		now:         time.Now,
		triggerDirs: resolved,
		files:       map[string]struct{}{},
		watchedDirs: map[string]struct{}{},
		lastEvent:   map[string]time.Time{},
	}
}

// Start begins delivering change events until Stop is called.
func (m *Monitor) Start() error {
	m.Stop()
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error starting file monitor: %w", err)
	}
	done := make(chan struct{})

	m.mu.Lock()
	m.watcher = watcher
	m.done = done
	m.mu.Unlock()

	for _, dir := range m.triggerDirs {
		if err := m.watchTree(watcher, dir); err != nil {
			m.log.Warn("could not watch directory", "dir", dir, "error", err)
		}
	}
	m.mu.Lock()
	for dir := range m.watchedDirs {
		if err := watcher.Add(dir); err != nil {
			m.log.Warn("could not watch directory", "dir", dir, "error", err)
		}
	}
	m.mu.Unlock()

	go m.loop(watcher, done)
	return nil
}

// watchTree registers dir and every subdirectory.
func (m *Monitor) watchTree(watcher *fsnotify.Watcher, root string) error {
	if _, err := os.Stat(root); err != nil {
		return err
	}
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}
		if addErr := watcher.Add(path); addErr != nil {
			m.log.Warn("could not watch directory", "dir", path, "error", addErr)
		}
		return nil
	})
}

// Stop stops the monitor. It may be started again afterwards.
func (m *Monitor) Stop() {
	m.mu.Lock()
	watcher, done := m.watcher, m.done
	m.watcher, m.done = nil, nil
	m.watchedDirs = map[string]struct{}{}
	m.lastEvent = map[string]time.Time{}
	m.mu.Unlock()

	if watcher == nil {
		return
	}
	close(done)
	watcher.Close()
}

// AddFile registers a single file to trigger on.
func (m *Monitor) AddFile(path string) {
	if path == "" {
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	if _, err := os.Stat(abs); err != nil {
		return
	}

	m.mu.Lock()
	m.files[abs] = struct{}{}
	dir := filepath.Dir(abs)
	_, watched := m.watchedDirs[dir]
	if !watched && !m.underTriggerDir(dir) {
		m.watchedDirs[dir] = struct{}{}
	}
	watcher := m.watcher
	m.mu.Unlock()

	if watcher != nil && !watched {
		if err := watcher.Add(dir); err != nil {
			m.log.Warn("could not watch directory", "dir", dir, "error", err)
		}
	}
}

// SetFiles replaces the set of monitored files, keeping directory watches
// for the new set.
func (m *Monitor) SetFiles(paths []string) {
	m.mu.Lock()
	m.files = map[string]struct{}{}
	m.mu.Unlock()
	for _, path := range paths {
		m.AddFile(path)
	}
}

func (m *Monitor) underTriggerDir(path string) bool {
	for _, dir := range m.triggerDirs {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (m *Monitor) loop(watcher *fsnotify.Watcher, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			m.handle(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			m.log.Warn("file monitor error", "error", err)
		}
	}
}

func (m *Monitor) handle(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if !m.shouldTrigger(abs) {
		return
	}
	m.callback(abs)
}

// shouldTrigger reports whether a change at path is relevant and outside
// the debounce window.
func (m *Monitor) shouldTrigger(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	relevant := m.underTriggerDir(path)
	if !relevant {
		_, relevant = m.files[path]
	}
	if !relevant {
		return false
	}

	now := m.now()
	if last, ok := m.lastEvent[path]; ok && now.Sub(last) <= debounceWindow {
		return false
	}
	m.lastEvent[path] = now
	return true
}

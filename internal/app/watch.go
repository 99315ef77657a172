package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is the debounce window for watcher events.
const WatchDebounce = 600 * time.Millisecond

// TreeWatchService watches the working tree so watch mode can start a pass
// shortly after files change instead of waiting out the full interval. The
// .git directory is excluded: the passes themselves mutate it constantly.
type TreeWatchService struct {
	Started     bool
	Root        string
	Events      chan struct{}
	Done        chan struct{}
	Paths       map[string]struct{}
	Mu          sync.Mutex
	Watcher     *fsnotify.Watcher
	LastRefresh time.Time
	logf        func(string, ...any)
}

// NewTreeWatchService creates a new TreeWatchService.
func NewTreeWatchService(logf func(string, ...any)) *TreeWatchService {
	return &TreeWatchService{logf: logf}
}

// Start initialises the watcher over root and starts the background
// goroutine.
func (w *TreeWatchService) Start(root string) (bool, error) {
	if w.Started || root == "" {
		return false, nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return false, err
	}

	w.Started = true
	w.Watcher = watcher
	w.Root = root
	w.Events = make(chan struct{}, 1)
	w.Done = make(chan struct{})
	w.Paths = make(map[string]struct{})
	w.addWatchTree(root)

	go w.run()
	return true, nil
}

// Stop stops the watcher and closes channels.
func (w *TreeWatchService) Stop() {
	if !w.Started {
		return
	}
	close(w.Done)
	w.Started = false
	if w.Watcher != nil {
		_ = w.Watcher.Close()
	}
}

// Signal notifies listeners of watcher activity.
func (w *TreeWatchService) Signal() {
	select {
	case <-w.Done:
		return
	default:
	}
	select {
	case w.Events <- struct{}{}:
	default:
	}
}

// ShouldRefresh checks debounce timing for watcher events.
func (w *TreeWatchService) ShouldRefresh(now time.Time) bool {
	if !w.LastRefresh.IsZero() && now.Sub(w.LastRefresh) < WatchDebounce {
		return false
	}
	w.LastRefresh = now
	return true
}

func (w *TreeWatchService) isExcluded(path string) bool {
	rel, err := filepath.Rel(w.Root, path)
	if err != nil {
		return true
	}
	return rel == ".git" || strings.HasPrefix(rel, ".git"+string(filepath.Separator))
}

// maybeWatchNewDir registers newly created directories under the root.
func (w *TreeWatchService) maybeWatchNewDir(path string) {
	if w.isExcluded(path) {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	w.addWatchDir(path)
}

func (w *TreeWatchService) run() {
	for {
		select {
		case <-w.Done:
			return
		case event, ok := <-w.Watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if w.isExcluded(event.Name) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				w.maybeWatchNewDir(event.Name)
			}
			w.Signal()
		case err, ok := <-w.Watcher.Errors:
			if !ok {
				return
			}
			w.debugf("tree watcher error: %v", err)
		}
	}
}

func (w *TreeWatchService) addWatchDir(path string) {
	if path == "" {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	w.Mu.Lock()
	defer w.Mu.Unlock()

	if _, ok := w.Paths[path]; ok {
		return
	}
	if err := w.Watcher.Add(path); err != nil {
		w.debugf("tree watcher add failed for %s: %v", path, err)
		return
	}
	w.Paths[path] = struct{}{}
}

func (w *TreeWatchService) addWatchTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && w.isExcluded(path) {
			return filepath.SkipDir
		}
		if d.IsDir() {
			w.addWatchDir(path)
		}
		return nil
	})
}

func (w *TreeWatchService) debugf(format string, args ...any) {
	if w.logf == nil {
		return
	}
	w.logf(format, args...)
}

package theme

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 150 * time.Millisecond

// Watcher monitors theme config files and triggers refresh on changes
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce *time.Timer
	mu       sync.Mutex
	onChange func()
	done     chan struct{}
	once     sync.Once
}

// NewWatcher watches the terminal config directories that Detect reads.
// onChange, if non-nil, runs after each debounced Refresh.
func NewWatcher(onChange func()) (*Watcher, error) {
	home, _ := os.UserHomeDir()
	var dirs []string
	if home != "" {
		for _, p := range alacrittyPaths(home) {
			dirs = append(dirs, filepath.Dir(p))
		}
		dirs = append(dirs, filepath.Dir(footPath(home)))
	}
	return watchDirs(dirs, onChange)
}

func watchDirs(dirs []string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fsw,
		onChange: onChange,
		done:     make(chan struct{}),
	}

	seen := make(map[string]bool)
	for _, d := range dirs {
		if seen[d] {
			continue
		}
		seen[d] = true
		// Missing directories are skipped
		if _, err := os.Stat(d); err == nil {
			_ = fsw.Add(d)
		}
	}

	go w.run()

	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.scheduleRefresh()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

		case <-w.done:
			return
		}
	}
}

// scheduleRefresh debounces rapid file changes
func (w *Watcher) scheduleRefresh() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}

	w.debounce = time.AfterFunc(debounceDelay, func() {
		Refresh()
		if w.onChange != nil {
			w.onChange()
		}
	})
}

// Stop closes the watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.done)
		w.watcher.Close()

		w.mu.Lock()
		if w.debounce != nil {
			w.debounce.Stop()
		}
		w.mu.Unlock()
	})
}

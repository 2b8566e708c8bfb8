package cache

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileEvent reports that a collection file changed under the data root.
type FileEvent struct {
	// Path is the absolute path of the changed file.
	Path string
	// Collection is the collection key ("waypoints", "branches", "notes").
	Collection string
}

// Watcher watches the data root for collection file changes using
// fsnotify. Atomic writes land as renames, so Create and Rename count as
// changes alongside Write.
type Watcher struct {
	watcher *fsnotify.Watcher
	events  chan FileEvent
	errors  chan error
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewWatcher creates a Watcher. Start must be called before events flow.
func NewWatcher() (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &Watcher{
		watcher: w,
		events:  make(chan FileEvent, 64),
		errors:  make(chan error, 8),
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching the data root directory for *.json changes.
func (w *Watcher) Start(root string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return fmt.Errorf("watcher already running")
	}
	if err := w.watcher.Add(root); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	w.running = true
	w.wg.Add(1)
	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			if !strings.HasSuffix(name, ".json") {
				continue
			}
			fe := FileEvent{
				Path:       ev.Name,
				Collection: strings.TrimSuffix(name, ".json"),
			}
			select {
			case w.events <- fe:
			default:
				// Drop rather than block: the daemon full-syncs on every
				// event anyway, so a lost event is covered by the next.
			}
		}
	}
}

// Events returns the change event channel.
func (w *Watcher) Events() <-chan FileEvent {
	return w.events
}

// Errors returns the watcher error channel.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Stop shuts the watcher down and waits for the loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return nil
	}
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	w.running = false
	return err
}

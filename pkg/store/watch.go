package store

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports which collections change on disk. It exists for
// observability consumers (document-count gauges and the like); the
// collections themselves never cache, so nothing here affects reads.
type Watcher struct {
	fs      *fsnotify.Watcher
	changes chan string
	done    chan struct{}
}

// NewWatcher watches the data directory for collection file writes.
func NewWatcher(dataDir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dataDir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		fs:      fw,
		changes: make(chan string, 16),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Changes yields the name of each collection whose file was written.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}

func (w *Watcher) run() {
	defer close(w.changes)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			base := filepath.Base(event.Name)
			if !strings.HasSuffix(base, ".json") {
				continue
			}
			name := strings.TrimSuffix(base, ".json")
			select {
			case w.changes <- name:
			default:
				// Slow consumer; drop rather than block writers.
			}
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
		}
	}
}

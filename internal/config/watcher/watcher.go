// Package watcher reports changes to configuration files.
//
// Files are watched through their parent directory with fsnotify, so
// editors that replace a file by renaming over it are still seen. Bursts of
// events for one file are coalesced and delivered once the file has been
// quiet for the debounce interval.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned when watching after Stop.
var ErrClosed = errors.New("watcher closed")

// Event represents a file change event.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is the operation that triggered the event.
	Op Operation

	// Time is when the event occurred.
	Time time.Time
}

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates a new file was created.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove

	// OpRename indicates the file was renamed.
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Handler is called when a file change is detected.
type Handler func(event Event)

// ErrorHandler is called with errors reported by the file system.
type ErrorHandler func(err error)

// Watcher monitors files for changes.
type Watcher struct {
	mu sync.RWMutex

	fsw *fsnotify.Watcher

	// files are the watched paths; dirs counts watched files per directory.
	files map[string]bool
	dirs  map[string]int

	handlers      []Handler
	errorHandlers []ErrorHandler

	debounce     time.Duration
	pendingMu    sync.Mutex
	pendingFiles map[string]pendingEvent

	running bool
	closed  bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// pendingEvent stores a pending event with its operation for debouncing.
type pendingEvent struct {
	Op   Operation
	Time time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration for rapid changes. Zero
// delivers every event immediately.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// New creates a new file watcher.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:          fsw,
		files:        make(map[string]bool),
		dirs:         make(map[string]int),
		debounce:     100 * time.Millisecond,
		pendingFiles: make(map[string]pendingEvent),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch adds a file to the watch list. The file need not exist yet; its
// directory must.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.files[absPath] {
		return nil
	}

	dir := filepath.Dir(absPath)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[absPath] = true
	return nil
}

// Unwatch removes a file from the watch list.
func (w *Watcher) Unwatch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.files[absPath] {
		return nil
	}
	delete(w.files, absPath)

	dir := filepath.Dir(absPath)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		if !w.closed {
			if err := w.fsw.Remove(dir); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
				return err
			}
		}
	}
	return nil
}

// OnChange registers a handler for file change events.
func (w *Watcher) OnChange(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// OnError registers a handler for watch errors.
func (w *Watcher) OnError(handler ErrorHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.errorHandlers = append(w.errorHandlers, handler)
}

// Start begins delivering events.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running || w.closed {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.eventLoop()

	if w.debounce > 0 {
		w.wg.Add(1)
		go w.debounceLoop()
	}
}

// Stop stops watching and releases the file system watcher. A stopped
// watcher cannot be restarted.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.running = false
	close(w.done)
	w.mu.Unlock()

	_ = w.fsw.Close()
	w.wg.Wait()
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// WatchedFiles returns the list of watched files.
func (w *Watcher) WatchedFiles() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	files := make([]string, 0, len(w.files))
	for path := range w.files {
		files = append(files, path)
	}
	return files
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFSEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.emitError(err)
		}
	}
}

func (w *Watcher) handleFSEvent(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)
	w.mu.RLock()
	watched := w.files[path]
	w.mu.RUnlock()
	if !watched {
		return
	}

	op, ok := translate(ev.Op)
	if !ok {
		return
	}
	event := Event{Path: path, Op: op, Time: time.Now()}
	if w.debounce > 0 {
		w.queueEvent(event)
	} else {
		w.emitEvent(event)
	}
}

// translate maps an fsnotify operation. Chmod alone is not a change.
func translate(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Remove):
		return OpRemove, true
	case op.Has(fsnotify.Rename):
		return OpRename, true
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	default:
		return 0, false
	}
}

// queueEvent queues an event for debounced delivery.
// It coalesces events:
// - create + write => create
// - write + write => write (latest time)
// - any + remove => remove
func (w *Watcher) queueEvent(event Event) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	existing, exists := w.pendingFiles[event.Path]
	if !exists {
		w.pendingFiles[event.Path] = pendingEvent{Op: event.Op, Time: event.Time}
		return
	}

	switch event.Op {
	case OpRemove, OpCreate:
		w.pendingFiles[event.Path] = pendingEvent{Op: event.Op, Time: event.Time}
	case OpWrite:
		w.pendingFiles[event.Path] = pendingEvent{Op: existing.Op, Time: event.Time}
	default:
		w.pendingFiles[event.Path] = pendingEvent{Op: event.Op, Time: event.Time}
	}
}

func (w *Watcher) debounceLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.processPendingEvents(time.Now())
		}
	}
}

// processPendingEvents emits events that have been stable for the
// debounce interval.
func (w *Watcher) processPendingEvents(now time.Time) {
	w.pendingMu.Lock()
	stableThreshold := now.Add(-w.debounce)

	var toEmit []Event
	for path, pending := range w.pendingFiles {
		if !pending.Time.After(stableThreshold) {
			toEmit = append(toEmit, Event{Path: path, Op: pending.Op, Time: pending.Time})
			delete(w.pendingFiles, path)
		}
	}
	w.pendingMu.Unlock()

	for _, event := range toEmit {
		w.emitEvent(event)
	}
}

// emitEvent calls all handlers with the event. A panicking handler does
// not stop the watcher.
func (w *Watcher) emitEvent(event Event) {
	w.mu.RLock()
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.RUnlock()

	for _, handler := range handlers {
		func() {
			defer func() { _ = recover() }()
			handler(event)
		}()
	}
}

func (w *Watcher) emitError(err error) {
	w.mu.RLock()
	handlers := make([]ErrorHandler, len(w.errorHandlers))
	copy(handlers, w.errorHandlers)
	w.mu.RUnlock()

	for _, handler := range handlers {
		handler(err)
	}
}

package watch

import (
	"slices"
	"sync"
	"time"
)

// MaxPendingFiles is the maximum number of files that can be pending.
// Reaching it triggers an immediate flush so a mass checkout or generator run
// cannot grow the pending set without bound.
const MaxPendingFiles = 1000

// Debouncer coalesces rapid change events into batches of file paths. Events
// within one window are grouped, so an editor's save-then-format sequence
// stamps the file once.
type Debouncer struct {
	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	window  time.Duration
	onFlush func(paths []string)
	stopped bool
}

// NewDebouncer creates a debouncer with the given window duration. onFlush
// receives the sorted pending paths once the window expires with no new events.
func NewDebouncer(window time.Duration, onFlush func(paths []string)) *Debouncer {
	return &Debouncer{
		pending: make(map[string]struct{}),
		window:  window,
		onFlush: onFlush,
	}
}

// Add records a change to path. Repeated calls within the window are coalesced.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()

	if d.stopped {
		d.mu.Unlock()
		return
	}

	d.pending[path] = struct{}{}

	if len(d.pending) >= MaxPendingFiles {
		d.stopTimerLocked()
		paths := d.drainLocked()
		d.mu.Unlock()
		d.emit(paths)
		return
	}

	// A timer that already fired may have a flush queued; flush tolerates an
	// empty pending set.
	d.stopTimerLocked()
	d.timer = time.AfterFunc(d.window, d.flush)
	d.mu.Unlock()
}

// flush is called when the timer expires.
func (d *Debouncer) flush() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	paths := d.drainLocked()
	d.mu.Unlock()
	d.emit(paths)
}

// FlushNow flushes pending paths without waiting for the timer.
func (d *Debouncer) FlushNow() {
	d.mu.Lock()
	d.stopTimerLocked()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	paths := d.drainLocked()
	d.mu.Unlock()
	d.emit(paths)
}

// Stop stops the debouncer. Pending paths are flushed once; later Adds are
// ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.stopTimerLocked()
	paths := d.drainLocked()
	d.mu.Unlock()
	d.emit(paths)
}

// PendingCount returns the number of paths waiting to be flushed.
func (d *Debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Caller must hold d.mu.
func (d *Debouncer) stopTimerLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Caller must hold d.mu.
func (d *Debouncer) drainLocked() []string {
	if len(d.pending) == 0 {
		return nil
	}
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	d.pending = make(map[string]struct{})
	return paths
}

// emit runs the handler outside the lock.
func (d *Debouncer) emit(paths []string) {
	if len(paths) > 0 && d.onFlush != nil {
		d.onFlush(paths)
	}
}

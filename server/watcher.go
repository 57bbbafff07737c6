package server

import (
	"sync"

	"github.com/muxterm/termd/wire"
)

// ThrottleHighWaterMark is the queued-bytes threshold a watcher crosses
// to become throttled (spec §4.6).
const ThrottleHighWaterMark = 1 << 20

// Watcher is one connection's subscription to one terminal. Frames
// built by the emission walk are pushed onto outbox; the connection's
// writer goroutine drains it. While throttled, Push drops every frame
// it is given (flags, cursor and size frames included) and only sets
// the dirty bit; nothing in this package resends the missed state once
// throttling lifts.
type Watcher struct {
	Conn *Connection

	mu        sync.Mutex
	outbox    chan wire.Frame
	queued    int
	throttled bool
	dirty     bool // missed updates while throttled; needs a resync on drain
}

func NewWatcher(c *Connection) *Watcher {
	return &Watcher{Conn: c, outbox: make(chan wire.Frame, 1024)}
}

// Push attempts to enqueue frames for delivery. If the watcher is
// already throttled it only records that updates were missed. If
// enqueuing these frames would cross the high-water mark, the watcher
// becomes throttled after this batch is sent (so a throttle never
// drops the batch that caused it).
func (w *Watcher) Push(frames []wire.Frame) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.throttled {
		w.dirty = true
		return
	}
	for _, f := range frames {
		select {
		case w.outbox <- f:
			w.queued += len(f.Payload) + 8
		default:
			// Outbox full: the writer is behind. Treat as throttled
			// rather than blocking the terminal's owning thread.
			w.throttled = true
			w.dirty = true
			return
		}
	}
	if w.queued >= ThrottleHighWaterMark {
		w.throttled = true
	}
}

// Drained is called by the writer goroutine after it has written a
// frame, shrinking the queued-byte estimate and lifting throttling
// once the queue falls back under the watermark.
func (w *Watcher) Drained(n int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.queued -= n
	if w.queued < 0 {
		w.queued = 0
	}
	if w.throttled && w.queued < ThrottleHighWaterMark/2 {
		w.throttled = false
	}
}

// TakeDirty reports and clears whether this watcher missed updates
// while throttled. The instance does not call it; no drain ticker or
// resync exists.
func (w *Watcher) TakeDirty() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	d := w.dirty
	w.dirty = false
	return d
}

func (w *Watcher) IsThrottled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.throttled
}

// Outbox exposes the channel the writer goroutine ranges over.
func (w *Watcher) Outbox() <-chan wire.Frame { return w.outbox }

func (w *Watcher) Close() { close(w.outbox) }

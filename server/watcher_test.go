package server

import (
	"testing"

	"github.com/muxterm/termd/wire"
)

func TestWatcherPushDeliversUnderWatermark(t *testing.T) {
	w := NewWatcher(nil)
	w.Push([]wire.Frame{{Command: wire.CmdRowUpdate, Payload: []byte("hi")}})

	select {
	case f := <-w.Outbox():
		if f.Command != wire.CmdRowUpdate {
			t.Fatalf("Command = %v, want CmdRowUpdate", f.Command)
		}
	default:
		t.Fatalf("expected a frame to be queued")
	}
	if w.IsThrottled() {
		t.Fatalf("a small push should not throttle the watcher")
	}
}

func TestWatcherThrottlesAtHighWaterMark(t *testing.T) {
	w := NewWatcher(nil)
	big := make([]byte, ThrottleHighWaterMark)
	w.Push([]wire.Frame{{Command: wire.CmdRowUpdate, Payload: big}})

	if !w.IsThrottled() {
		t.Fatalf("a push crossing the high-water mark should throttle the watcher")
	}

	// While throttled, further pushes are dropped but recorded as dirty.
	w.Push([]wire.Frame{{Command: wire.CmdRowUpdate, Payload: []byte("more")}})
	if !w.TakeDirty() {
		t.Fatalf("a push while throttled should mark the watcher dirty")
	}
	if w.TakeDirty() {
		t.Fatalf("TakeDirty() should clear the dirty flag")
	}
}

func TestWatcherDrainedLiftsThrottleBelowHalfWatermark(t *testing.T) {
	w := NewWatcher(nil)
	big := make([]byte, ThrottleHighWaterMark)
	w.Push([]wire.Frame{{Command: wire.CmdRowUpdate, Payload: big}})
	if !w.IsThrottled() {
		t.Fatalf("setup: expected watcher to be throttled")
	}

	w.Drained(ThrottleHighWaterMark) // drain the whole thing
	if w.IsThrottled() {
		t.Fatalf("throttle should lift once queued bytes fall under half the watermark")
	}
}

func TestWatcherPushThrottlesWhenOutboxFull(t *testing.T) {
	w := NewWatcher(nil)
	var frames []wire.Frame
	for i := 0; i < 2000; i++ {
		frames = append(frames, wire.Frame{Command: wire.CmdRowUpdate, Payload: []byte("x")})
	}
	w.Push(frames) // outbox capacity is 1024, so this overflows it

	if !w.IsThrottled() {
		t.Fatalf("overflowing the outbox channel should throttle the watcher")
	}
}

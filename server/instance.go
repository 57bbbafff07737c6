package server

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/muxterm/termd/vt"
	"github.com/muxterm/termd/wire"
)

// AutocloseMode controls what happens to a TermInstance once its child
// process has exited (spec §5 "Idle monitor").
type AutocloseMode int

const (
	AutocloseAlways AutocloseMode = iota
	AutocloseNever
	AutocloseRestart
)

// TermInstance is one live terminal: the VT model, its pty, its
// attribute map, and the set of connections watching it. Its pty
// reader goroutine is also the only goroutine that ever runs the
// emulator for this terminal (spec §5 "Scheduling model").
type TermInstance struct {
	ID    wire.UUID
	Term  *vt.Terminal
	Attrs *AttributeMap

	pty       Pty
	listener  *Listener
	autoclose AutocloseMode
	clock     int64

	mu       sync.Mutex
	watchers map[wire.UUID]*Watcher
	closed   bool
}

// NewTermInstance starts argv in a pty of the given size and returns a
// TermInstance whose reader goroutine is already running.
func NewTermInstance(id wire.UUID, width, height int, caporder uint8, collab Collaborator, argv []string, env []EnvRule, dir string, autoclose AutocloseMode, l *Listener) (*TermInstance, error) {
	p, err := collab.Start(argv, env, dir, width, height)
	if err != nil {
		return nil, err
	}
	ti := &TermInstance{
		ID:        id,
		Term:      vt.New(width, height, caporder),
		Attrs:     NewAttributeMap(),
		pty:       p,
		listener:  l,
		autoclose: autoclose,
		watchers:  map[wire.UUID]*Watcher{},
	}
	_ = ti.Attrs.SetInternal("id", id.String())
	_ = ti.Attrs.SetInternal("pid", strconv.Itoa(p.Pid()))

	ti.Term.Emulator().Reply = func(b []byte) { _, _ = ti.pty.Write(b) }
	ti.Term.Emulator().OnAttribute = func(key, value string) { _ = ti.Attrs.SetInternal(key, value) }

	go ti.readLoop()
	return ti, nil
}

func (ti *TermInstance) readLoop() {
	buf := make([]byte, 64*1024)
	for {
		n, err := ti.pty.Read(buf)
		if n > 0 {
			ti.feed(buf[:n])
		}
		if err != nil {
			ti.onChildExit()
			return
		}
	}
}

// feed runs one input burst (Write takes the terminal's state lock
// itself), then holds the lock again to build the resulting
// differential frames and fans them out to every watcher.
func (ti *TermInstance) feed(data []byte) {
	clock := atomic.AddInt64(&ti.clock, 1)
	_, _ = ti.Term.Write(data, clock)
	ti.Term.Lock()
	frames := buildFrames(ti.Term.Emulator())
	ti.Term.Unlock()

	ti.mu.Lock()
	watchers := make([]*Watcher, 0, len(ti.watchers))
	for _, w := range ti.watchers {
		watchers = append(watchers, w)
	}
	ti.mu.Unlock()

	for _, w := range watchers {
		w.Push(frames)
	}
}

func (ti *TermInstance) onChildExit() {
	outcome := "exited"
	code := 0
	if err := ti.pty.Wait(); err != nil {
		outcome = "error"
		_ = err
	}
	_ = ti.Attrs.SetInternal("proc.outcome", outcome)
	_ = ti.Attrs.SetInternal("proc.rc", strconv.Itoa(code))

	switch ti.autoclose {
	case AutocloseAlways:
		ti.listener.DestroyTerm(ti.ID)
	case AutocloseRestart:
		// Left for a supervising collaborator to act on; the core only
		// records the outcome attribute.
	case AutocloseNever:
	}
}

func (ti *TermInstance) AddWatcher(connID wire.UUID, w *Watcher) {
	ti.mu.Lock()
	ti.watchers[connID] = w
	ti.mu.Unlock()
}

func (ti *TermInstance) RemoveWatcher(connID wire.UUID) {
	ti.mu.Lock()
	delete(ti.watchers, connID)
	ti.mu.Unlock()
}

// Resize adjusts both the VT model and the pty's kernel-side winsize.
func (ti *TermInstance) Resize(width, height int) {
	ti.Term.Resize(width, height)
	_ = ti.pty.Resize(width, height)

	ti.Term.Lock()
	frames := buildFrames(ti.Term.Emulator())
	ti.Term.Unlock()

	ti.mu.Lock()
	watchers := make([]*Watcher, 0, len(ti.watchers))
	for _, w := range ti.watchers {
		watchers = append(watchers, w)
	}
	ti.mu.Unlock()
	for _, w := range watchers {
		w.Push(frames)
	}
}

// SendInput writes client-submitted bytes into the pty.
func (ti *TermInstance) SendInput(data []byte) error {
	_, err := ti.pty.Write(data)
	return err
}

func (ti *TermInstance) Close() {
	ti.mu.Lock()
	if ti.closed {
		ti.mu.Unlock()
		return
	}
	ti.closed = true
	watchers := ti.watchers
	ti.watchers = map[wire.UUID]*Watcher{}
	ti.mu.Unlock()

	for _, w := range watchers {
		w.Close()
	}
	_ = ti.pty.Close()
}

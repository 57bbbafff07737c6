package vt

import "sync"

// Terminal is the public entry point of the vt package: a
// mutex-guarded VT emulator plus its state machine, exposing a Write
// method (bytes plus a burst clock, so not an io.Writer) that a pty
// reader goroutine streams bytes into. Grounded on the teacher's terminal.go Terminal type, generalized
// from a single headless screen to the two-buffer, region-tracking,
// differential-update model spec §3 describes.
type Terminal struct {
	mu       sync.RWMutex
	emulator *TermEmulator
	parser   *XTermStateMachine
}

// New allocates a Terminal of the given size with the normal buffer's
// scrollback sized to 1<<caporder rows.
func New(width, height int, caporder uint8) *Terminal {
	e := NewTermEmulator(width, height, caporder)
	t := &Terminal{emulator: e}
	t.parser = NewXTermStateMachine(e)
	return t
}

// Emulator exposes the underlying model for read-only inspection
// (emission walks, attribute queries). Callers must hold no
// expectation of mutation safety outside Write/Resize.
func (t *Terminal) Emulator() *TermEmulator { return t.emulator }

// Write processes raw pty bytes as one input burst: spec §4.6 says an
// emulator drains everything available up to a configured budget and
// accumulates a single event-state for it, which is exactly what one
// Write call here represents. clock is the emulator's monotonic burst
// counter, used to timestamp row modifications.
func (t *Terminal) Write(data []byte, clock int64) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.emulator.BeginBurst(clock)
	t.parser.Parse(data)
	return len(data), nil
}

// Lock/Unlock/RLock/RUnlock expose the terminal's state lock directly
// to package server, which needs to hold it across an event-state pull
// (spec §5 "Mutex discipline per terminal").
func (t *Terminal) Lock()    { t.mu.Lock() }
func (t *Terminal) Unlock()  { t.mu.Unlock() }
func (t *Terminal) RLock()   { t.mu.RLock() }
func (t *Terminal) RUnlock() { t.mu.RUnlock() }

// Resize adjusts the viewport and both buffers to the new width and
// height, growing or shrinking each buffer's live window while
// preserving scrollback history on the normal buffer (spec §4.3
// "Setting caporder"/SetScreenHeight).
func (t *Terminal) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.emulator.screen
	oldHeight := s.Height()

	resizeBuffer := func(b *TermBuffer) {
		if height > oldHeight {
			for i := 0; i < height-oldHeight; i++ {
				if b.Size() < int64(height) {
					b.InsertRow(b.Size())
				}
			}
		}
		b.SetScreenHeight(height, height)
	}
	resizeBuffer(t.emulator.normal)
	resizeBuffer(t.emulator.alt)

	s.SetWidth(width)
	s.SetHeight(height, 0)
	s.MoveToEnd()
	t.emulator.tabs = NewTermTabStops(width)

	t.emulator.Event.SizeChanged = true
}

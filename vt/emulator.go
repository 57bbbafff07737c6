package vt

import "fmt"

// Buffer ids, matching original_source's fixed BUF_PRIMARY/BUF_ALTERNATE
// constants so wire frames never need translation.
const (
	BufNormal uint8 = 0
	BufAlt    uint8 = 1
)

// titleEntry is one OSC 22/23 title-stack save.
type titleEntry struct {
	icon, window string
}

// TermEmulator is the VT parser's Dispatcher: it owns both buffers, the
// active screen, and every piece of per-terminal ancillary state (tab
// stops, palette, saved-cursor slots, mode bits), and records an
// EventState describing everything one input burst changed. Spec
// §3 "TermEmulator", §4.4.
//
// Collaborators reach the emulator through three callbacks rather than
// an interface, following the teacher's provider pattern but collapsed
// to the handful of hooks this server actually needs: Reply writes
// bytes back into the pty (DSR/DA/OSC query answers), OnAttribute
// forwards a terminal-attribute change to the owning TermInstance
// (package server), and OnStructured, when set, receives an OSC
// 511/512/513/514 payload (package server leaves it unset).
type TermEmulator struct {
	normal, alt *TermBuffer
	screen      *TermScreen
	usingAlt    bool

	tabs    *TermTabStops
	palette *TermPalette
	content *ContentStore

	modes      TermFlags
	savedModes TermFlags

	pen CellAttributes

	saved, savedAlt SavedCursor

	charsets  [4]byte
	glIndex   int
	grIndex   int
	singleGL  int // -1, or 2/3 for a pending SS2/SS3

	windowTitle, iconName string
	titleStack            []titleEntry

	modTime int64
	clock   int64

	Event *EventState

	Reply       func([]byte)
	OnAttribute func(key, value string)
	OnStructured func(osc int, data []byte)

	cmdStart Cursor
}

// NewTermEmulator allocates a terminal emulator with the given screen
// size and scrollback caporder for the normal buffer (the alt screen
// never has scrollback, per spec §3).
func NewTermEmulator(width, height int, caporder uint8) *TermEmulator {
	e := &TermEmulator{
		Event:   NewEventState(),
		tabs:    NewTermTabStops(width),
		palette: NewTermPalette(),
		content: NewContentStore(),
		charsets: [4]byte{'B', 'B', 'B', 'B'},
		singleGL: -1,
	}
	e.normal = NewTermBuffer(BufNormal, height, caporder, &e.clock)
	e.alt = NewTermBuffer(BufAlt, height, minCaporder(height), &e.clock)
	e.alt.noScrollback = true
	e.screen = NewTermScreen(e.normal, width, height)
	e.modes = defaultModes
	return e
}

func minCaporder(height int) uint8 {
	var o uint8
	for (1 << o) < height {
		o++
	}
	return o
}

// Screen, Normal, Alt, Palette, Tabs, Content expose the model pieces
// package server's emission walk and command dispatcher need.
func (e *TermEmulator) Screen() *TermScreen   { return e.screen }
func (e *TermEmulator) Normal() *TermBuffer   { return e.normal }
func (e *TermEmulator) Alt() *TermBuffer      { return e.alt }
func (e *TermEmulator) Palette() *TermPalette { return e.palette }
func (e *TermEmulator) Tabs() *TermTabStops    { return e.tabs }
func (e *TermEmulator) Content() *ContentStore { return e.content }
func (e *TermEmulator) UsingAlt() bool         { return e.usingAlt }
func (e *TermEmulator) WindowTitle() string    { return e.windowTitle }
func (e *TermEmulator) IconName() string       { return e.iconName }

// ActiveBufferID reports which buffer id (BufNormal/BufAlt) is live.
func (e *TermEmulator) ActiveBufferID() uint8 {
	if e.usingAlt {
		return BufAlt
	}
	return BufNormal
}

// BeginBurst resets the per-burst event-state; the caller (TermInstance
// in package server) invokes this once before draining pty bytes
// through the parser, per spec §4.6.
func (e *TermEmulator) BeginBurst(clock int64) {
	e.clock = clock
	e.Event.Reset()
	e.normal.ResetEventState()
	e.alt.ResetEventState()
}

func (e *TermEmulator) activeBuffer() *TermBuffer {
	if e.usingAlt {
		return e.alt
	}
	return e.normal
}

func (e *TermEmulator) reply(format string, args ...interface{}) {
	if e.Reply == nil {
		return
	}
	s := format
	if len(args) > 0 {
		s = fmt.Sprintf(format, args...)
	}
	e.Reply([]byte(s))
}

// -------------------- Dispatcher: printable input --------------------

// Print writes one grapheme cluster at the cursor, implementing
// autowrap (spec §4.2/§8 boundary behaviors): a pending past-end
// cursor wraps to column 0 of a new Continuation-flagged row before the
// character is written, and a double-width character with one column
// left on the line wraps early rather than splitting across rows.
func (e *TermEmulator) Print(text string, width int, emoji bool) {
	if width == 0 {
		e.combineOrDrop(text)
		return
	}

	s := e.screen
	if s.cursor.PastEnd() && e.hasMode(ModeAutowrap) {
		e.wrapLine()
	} else if width == 2 && s.width-s.cursor.X == 1 && e.hasMode(ModeAutowrap) {
		e.wrapLine()
	}

	a := e.currentAttrs()
	if emoji {
		a.Flags |= FlagEmojiChar
	}
	if width == 2 {
		a.Flags |= FlagDblWidth
	}

	if e.hasMode(ModeInsert) {
		s.InsertCells(width)
	}
	s.WriteCell(a, text, width, emoji)
	e.touchCursorRow()
}

func (e *TermEmulator) combineOrDrop(text string) {
	if int(e.screen.cursor.Pos) == 0 && e.screen.cursor.X == 0 {
		return
	}
	e.screen.CombineCell(e.currentAttrs(), text)
	e.touchCursorRow()
}

func (e *TermEmulator) wrapLine() {
	s := e.screen
	s.cursor.SetPastEnd(false)
	if s.CursorAtBottom() {
		s.ScrollUp()
	} else {
		s.CursorMoveDown()
	}
	s.cursor.X = 0
	s.cursor.Pos = 0
	row := s.Row()
	row.Flags |= LineContinuation
}

func (e *TermEmulator) touchCursorRow() {
	e.Event.CursorChanged = true
	buf := e.activeBuffer()
	buf.TouchRow(e.screen.offset + int64(e.screen.cursor.Y))
}

// currentAttrs is a placeholder for the live SGR pen; sgr.go owns the
// actual pen state and exposes it through e.pen.
func (e *TermEmulator) currentAttrs() CellAttributes { return e.pen }

// -------------------- Dispatcher: C0 controls --------------------

// Execute handles a single C0/C1 control byte outside any escape
// sequence (spec §4.1 Ground-state dispatch).
func (e *TermEmulator) Execute(c byte) {
	switch c {
	case 0x07: // BEL
		e.Event.Bell()
	case 0x08: // BS
		e.screen.cursor.SetPastEnd(false)
		if e.screen.cursor.X > 0 {
			e.screen.CursorMoveX(true, -1, false)
		}
	case 0x09: // HT
		x := e.tabs.Next(e.screen.cursor.X)
		e.screen.CursorMoveX(false, x, false)
	case 0x0a, 0x0b, 0x0c: // LF, VT, FF
		e.lineFeed()
	case 0x0d: // CR
		e.screen.CursorMoveX(false, e.screen.margins.Left, true)
		if !e.screen.margins.Contains(0, e.screen.cursor.Y) {
			e.screen.CursorMoveX(false, 0, false)
		}
	case 0x0e: // SO: shift to G1
		e.glIndex = 1
	case 0x0f: // SI: shift to G0
		e.glIndex = 0
	}
	e.Event.CursorChanged = true
}

func (e *TermEmulator) lineFeed() {
	s := e.screen
	if s.CursorAtBottom() {
		s.ScrollUp()
	} else {
		s.CursorMoveDown()
	}
	if e.hasMode(ModeNewLine) {
		s.CursorMoveX(false, s.margins.Left, true)
	}
}

// -------------------- Dispatcher: ESC --------------------

// EscDispatch handles ESC final (+ intermediates) sequences that are
// not routed through CSI/OSC/DCS (spec §4.4 "Keypad/charset", resets).
func (e *TermEmulator) EscDispatch(final byte, intermediate []byte) {
	if len(intermediate) > 0 {
		switch intermediate[0] {
		case '(', ')', '*', '+': // G0..G3 designation
			idx := int(intermediate[0] - '(')
			e.charsets[idx] = final
			return
		case '#':
			if final == '8' {
				e.decaln()
			}
			return
		}
	}
	switch final {
	case 'c': // RIS
		e.fullReset()
	case 'D': // IND
		e.lineFeed()
	case 'E': // NEL
		e.lineFeed()
		e.screen.CursorMoveX(false, e.screen.margins.Left, true)
	case 'H': // HTS
		e.tabs.Set(e.screen.cursor.X)
	case 'M': // RI
		if e.screen.CursorAtTop() {
			e.screen.ScrollDown()
		} else {
			e.screen.CursorMoveY(true, -1, true)
		}
	case '7': // DECSC
		e.saveCursor()
	case '8': // DECRC
		e.restoreCursor()
	case '=': // DECKPAM
		// Application keypad mode: no observable screen effect here,
		// and no state is kept for it.
	case '>': // DECKPNM
	case 'n': // LS2
		e.glIndex = 2
	case 'o': // LS3
		e.glIndex = 3
	case '}': // LS2R
		e.grIndex = 2
	case '|': // LS3R
		e.grIndex = 3
	case '~': // LS1R
		e.grIndex = 1
	}
}

func (e *TermEmulator) decaln() {
	s := e.screen
	for y := 0; y < s.height; y++ {
		row := s.RowAt(y)
		row.Clear()
		for x := 0; x < s.width; x++ {
			row.Append(CellAttributes{}, "E", 1, false)
		}
	}
}

func (e *TermEmulator) saveCursor() {
	e.saved = SavedCursor{
		Cursor:       e.screen.cursor,
		OriginMode:   e.screen.originMode,
		Attrs:        e.pen,
		CharsetIndex: e.glIndex,
		Charsets:     e.charsets,
		Valid:        true,
	}
}

func (e *TermEmulator) restoreCursor() {
	if !e.saved.Valid {
		return
	}
	e.screen.cursor = e.saved.Cursor
	e.screen.originMode = e.saved.OriginMode
	e.pen = e.saved.Attrs
	e.glIndex = e.saved.CharsetIndex
	e.charsets = e.saved.Charsets
	e.Event.CursorChanged = true
}

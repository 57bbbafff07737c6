package vt

// fullReset implements RIS (ESC c): spec §4.4 "Reset" says everything
// goes back to the terminal's power-on state — both buffers, every
// mode bit, palette, tabs, charset designations, and the title.
func (e *TermEmulator) fullReset() {
	e.normal.Clear()
	e.alt.Clear()
	e.usingAlt = false
	e.screen.SetBuffer(e.normal)
	e.screen.Reset()

	e.modes = defaultModes
	e.savedModes = 0
	e.pen = CellAttributes{}
	e.saved = SavedCursor{}
	e.savedAlt = SavedCursor{}
	e.charsets = [4]byte{'B', 'B', 'B', 'B'}
	e.glIndex = 0
	e.grIndex = 0
	e.singleGL = -1
	e.windowTitle = ""
	e.iconName = ""
	e.titleStack = nil

	e.palette = NewTermPalette()
	e.tabs = NewTermTabStops(e.screen.Width())

	e.Event.FlagsChanged = true
	e.Event.CursorChanged = true
	e.Event.BufferSwitched = true
	e.Event.BufferChanged = true
	e.Event.SizeChanged = true
}

// softReset implements DECSTR: a gentler reset that leaves screen
// content alone (spec §4.4), reverting modes, the pen, margins, and
// the saved-cursor slot to their power-on values.
func (e *TermEmulator) softReset() {
	e.modes = defaultModes
	e.pen = CellAttributes{}
	e.screen.SetMargins(Margins{0, 0, e.screen.Width() - 1, e.screen.Height() - 1})
	e.screen.SetOriginMode(false)
	e.screen.SetStayWithinMargins(false)
	e.saved = SavedCursor{}
	e.screen.CursorMoveY(false, 0, false)
	e.screen.CursorMoveX(false, 0, false)
	e.Event.FlagsChanged = true
	e.Event.CursorChanged = true
}

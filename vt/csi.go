package vt

// getParam returns params[i] if present and non-zero, else def — the
// "empty/zero means default" rule spec §4.1 calls out for most CSI
// commands (explicitly not applied where a command documents
// otherwise, e.g. DECSTBM's 0 meaning "full screen").
func getParam(params []int, i, def int) int {
	if i < len(params) && params[i] != 0 {
		return params[i]
	}
	return def
}

// CsiDispatch implements the CSI command surface of spec §4.4.
func (e *TermEmulator) CsiDispatch(final byte, intermediate []byte, params []int, private byte) {
	s := e.screen
	n := getParam(params, 0, 1)

	if private == '?' {
		if len(intermediate) == 1 && intermediate[0] == '$' && final == 'p' {
			e.reportDecMode(getParam(params, 0, 0))
			return
		}
		e.csiPrivate(final, params)
		return
	}
	if private == '>' && final == 'c' {
		e.reply("\x1b[>41;327;0c") // DA2, spec §4.4
		return
	}
	if len(intermediate) == 1 && intermediate[0] == ' ' && final == 'q' {
		// DECSCUSR cursor style: accepted and ignored; no style is stored.
		return
	}
	if len(intermediate) == 1 && intermediate[0] == '!' && final == 'p' {
		e.softReset()
		return
	}
	if len(intermediate) == 1 && intermediate[0] == '"' && final == 'q' {
		e.setProtected(getParam(params, 0, 0) == 1)
		return
	}
	if len(intermediate) == 1 && intermediate[0] == '$' && final == 'p' {
		e.reportAnsiMode(getParam(params, 0, 0))
		return
	}

	switch final {
	case 'A': // CUU
		s.CursorMoveY(true, -n, true)
	case 'B': // CUD
		s.CursorMoveY(true, n, true)
	case 'C': // CUF
		s.CursorMoveX(true, n, true)
	case 'D': // CUB
		s.CursorMoveX(true, -n, true)
	case 'E': // CNL
		s.CursorMoveY(true, n, true)
		s.CursorMoveX(false, s.margins.Left, true)
	case 'F': // CPL
		s.CursorMoveY(true, -n, true)
		s.CursorMoveX(false, s.margins.Left, true)
	case 'G', '`': // CHA / HPA
		s.CursorMoveX(false, n-1, false)
	case 'H', 'f': // CUP / HVP
		row := getParam(params, 0, 1)
		col := getParam(params, 1, 1)
		s.CursorMoveY(false, row-1, true)
		s.CursorMoveX(false, col-1, true)
	case 'I': // CHT
		s.CursorMoveX(false, e.tabs.Advance(s.cursor.X, n), false)
	case 'Z': // CBT
		s.CursorMoveX(false, e.tabs.Retreat(s.cursor.X, n), false)
	case 'd': // VPA
		s.CursorMoveY(false, n-1, false)
	case 'e': // VPR
		s.CursorMoveY(true, n, true)

	case '@': // ICH
		s.InsertCells(n)
		e.touchCursorRow()
	case 'L': // IL
		for ; n > 0; n-- {
			s.InsertRow()
		}
		e.touchMargins()
	case 'M': // DL
		for ; n > 0; n-- {
			s.DeleteRow()
		}
		e.touchMargins()
	case 'P': // DCH
		for ; n > 0; n-- {
			s.DeleteCell()
		}
		e.touchCursorRow()
	case 'X': // ECH
		row := s.Row()
		row.EraseRange(s.cursor.X, s.cursor.X+n)
		e.touchCursorRow()
	case 'S': // SU
		for ; n > 0; n-- {
			s.ScrollUp()
		}
		e.touchMargins()
	case 'T': // SD
		for ; n > 0; n-- {
			s.ScrollDown()
		}
		e.touchMargins()

	case 'J': // ED
		e.eraseDisplay(getParam(params, 0, 0), false)
	case 'K': // EL
		e.eraseLine(getParam(params, 0, 0), false)

	case 'm': // SGR
		e.applySGR(params)
	case 'r': // DECSTBM
		top := getParam(params, 0, 1)
		bottom := getParam(params, 1, s.height)
		if bottom > s.height {
			bottom = s.height
		}
		if top < bottom {
			s.margins.Top = top - 1
			s.margins.Bottom = bottom - 1
			s.CursorMoveY(false, 0, false)
			s.CursorMoveX(false, 0, false)
		}
	case 's': // DECSLRM (only with LeftRightMarginMode) else save cursor
		if e.hasMode(ModeLeftRightMargin) {
			left := getParam(params, 0, 1)
			right := getParam(params, 1, s.width)
			if right > s.width {
				right = s.width
			}
			if left < right {
				s.margins.Left = left - 1
				s.margins.Right = right - 1
			}
		} else {
			e.saveCursor()
		}
	case 'u':
		e.restoreCursor()
	case 'h': // SM
		e.setAnsiMode(params, true)
	case 'l': // RM
		e.setAnsiMode(params, false)
	case 'n': // DSR
		e.deviceStatus(getParam(params, 0, 0))
	case 'c': // DA1
		e.reply("\x1b[?64;1;2;6;9;15;18;21;22c")
	case 't':
		e.windowOp(params)
	case 'g': // TBC
		switch getParam(params, 0, 0) {
		case 0:
			e.tabs.Clear(s.cursor.X)
		case 3:
			e.tabs.ClearAll()
		}
	}
}

// csiPrivate handles CSI ? ... final, i.e. DEC private mode/report
// sequences (DECSET/DECRST and the DEC-private variants of ED/EL).
// DECRQM (CSI ? Ps $ p) is intercepted in CsiDispatch before reaching
// here, since it needs the "$" intermediate this function never sees.
func (e *TermEmulator) csiPrivate(final byte, params []int) {
	switch final {
	case 'h':
		e.setDecMode(params, true)
	case 'l':
		e.setDecMode(params, false)
	case 'J':
		e.eraseDisplay(getParam(params, 0, 0), true)
	case 'K':
		e.eraseLine(getParam(params, 0, 0), true)
	}
}

func (e *TermEmulator) touchMargins() {
	e.Event.CursorChanged = true
	buf := e.activeBuffer()
	for y := e.screen.margins.Top; y <= e.screen.margins.Bottom; y++ {
		buf.TouchRow(e.screen.offset + int64(y))
	}
}

func (e *TermEmulator) eraseDisplay(mode int, selective bool) {
	s := e.screen
	erase := func(y int) {
		row := s.RowAt(y)
		if selective {
			row.SelectiveErase(0, int(row.Columns()))
		} else {
			row.Clear()
		}
		e.activeBuffer().TouchRow(s.offset + int64(y))
	}
	switch mode {
	case 0:
		row := s.Row()
		if selective {
			row.SelectiveErase(s.cursor.X, int(row.Columns()))
		} else {
			row.EraseRange(s.cursor.X, int(row.Columns()))
		}
		e.touchCursorRow()
		for y := s.cursor.Y + 1; y < s.height; y++ {
			erase(y)
		}
	case 1:
		row := s.Row()
		if selective {
			row.SelectiveErase(0, s.cursor.X+1)
		} else {
			row.EraseRange(0, s.cursor.X+1)
		}
		e.touchCursorRow()
		for y := 0; y < s.cursor.Y; y++ {
			erase(y)
		}
	case 2:
		for y := 0; y < s.height; y++ {
			erase(y)
		}
	case 3:
		// ED 3 clears scrollback of the default buffer only (spec §9
		// design note: xterm behavior, not universal).
		if !e.usingAlt {
			if e.normal.ClearScrollback() {
				e.Event.BufferChanged = true
			}
		}
	}
}

func (e *TermEmulator) eraseLine(mode int, selective bool) {
	s := e.screen
	row := s.Row()
	width := int(row.Columns())
	if width < s.width {
		width = s.width
	}
	switch mode {
	case 0:
		if selective {
			row.SelectiveErase(s.cursor.X, width)
		} else {
			row.EraseRange(s.cursor.X, width)
		}
	case 1:
		if selective {
			row.SelectiveErase(0, s.cursor.X+1)
		} else {
			row.EraseRange(0, s.cursor.X+1)
		}
	case 2:
		if selective {
			row.SelectiveErase(0, width)
		} else {
			row.EraseRange(0, width)
		}
	}
	e.touchCursorRow()
}

func (e *TermEmulator) deviceStatus(n int) {
	switch n {
	case 5:
		e.reply("\x1b[0n")
	case 6:
		y := e.screen.cursor.Y - e.screen.margins.Top + 1
		x := e.screen.cursor.X - e.screen.margins.Left + 1
		if !e.screen.originMode {
			y = e.screen.cursor.Y + 1
			x = e.screen.cursor.X + 1
		}
		e.reply("\x1b[%d;%dR", y, x)
	}
}

func (e *TermEmulator) windowOp(params []int) {
	switch getParam(params, 0, 0) {
	case 22:
		e.pushTitle(getParam(params, 1, 0))
	case 23:
		e.popTitle(getParam(params, 1, 0))
	}
}

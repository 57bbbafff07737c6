package vt

// setAnsiMode implements ANSI SM/RM (no "?" prefix): spec §4.4 lists
// IRM, LNM, KAM, and SRM as the modes worth tracking; others are
// accepted and ignored.
func (e *TermEmulator) setAnsiMode(params []int, on bool) {
	for _, p := range params {
		switch p {
		case 2:
			e.setMode(ModeKeyboardLock, on)
		case 4:
			e.setMode(ModeInsert, on)
		case 12:
			e.setMode(ModeSendReceive, on)
		case 20:
			e.setMode(ModeNewLine, on)
		}
	}
}

// setDecMode implements DECSET/DECRST (CSI ? ... h/l), spec §4.4's
// mode table. Entering/leaving the alt screen (47/1047/1049) and
// origin mode (6) have screen-visible side effects beyond the bit
// flip; everything else is a pure mode-bit toggle recorded for
// DECRQM/flags emission.
func (e *TermEmulator) setDecMode(params []int, on bool) {
	for _, p := range params {
		switch p {
		case 1:
			e.setMode(ModeApplicationCursorKeys, on)
		case 2:
			e.setMode(ModeVt52, on)
		case 3:
			// DECCOLM: bit recorded only, no 80/132-column resize or
			// screen clear — width here is client-driven, not
			// negotiated via this toggle (DESIGN.md Open Questions).
			// reportDecMode answers it permanently-reset rather than
			// reflecting the bit.
			e.setMode(ModeColumn132, on)
		case 4:
			e.setMode(ModeSmoothScroll, on)
		case 5:
			e.setMode(ModeScreenReverse, on)
		case 6:
			e.setMode(ModeOriginMode, on)
			e.screen.SetOriginMode(on)
			e.screen.CursorMoveY(false, 0, true)
			e.screen.CursorMoveX(false, 0, true)
		case 7:
			e.setMode(ModeAutowrap, on)
		case 8:
			e.setMode(ModeAutorepeat, on)
		case 9:
			e.setMode(ModeMouseX10, on)
		case 12:
			e.setMode(ModeCursorBlink, on)
		case 25:
			e.setMode(ModeCursorVisible, on)
		case 1000:
			e.setMode(ModeMouseVT200, on)
		case 1001:
			e.setMode(ModeMouseVT200Highlight, on)
		case 1002:
			e.setMode(ModeMouseButtonEvent, on)
		case 1003:
			e.setMode(ModeMouseAnyEvent, on)
		case 1004:
			e.setMode(ModeFocusEvents, on)
		case 1005:
			e.setMode(ModeMouseUTF8, on)
		case 1006:
			e.setMode(ModeMouseSGR, on)
		case 1015:
			e.setMode(ModeMouseURXVT, on)
		case 47:
			e.switchAltScreen(on, false)
		case 1049:
			e.switchAltScreen(on, true)
		case 1047:
			e.switchAltScreen(on, false)
		case 1048:
			if on {
				e.saveCursor()
			} else {
				e.restoreCursor()
			}
		case 2004:
			e.setMode(ModeBracketedPaste, on)
		case 69:
			e.setMode(ModeLeftRightMargin, on)
		}
	}
}

// decModeFlag maps a DEC private mode number to the TermFlags bit
// setDecMode toggles for it, for DECRQM reporting (spec §4.4). Modes
// with screen-visible side effects beyond a bit flip (6, 47/1047) are
// reported through the same flag their setDecMode case touches; 1049
// is answered by reportDecMode from the active buffer instead. ok is
// false for a mode this table has no flag for (1048 among them), and
// for 3 (DECCOLM), which is accepted but never backed by a real
// column-count/clear side effect (DESIGN.md Open Questions).
func decModeFlag(mode int) (flag TermFlags, ok bool) {
	switch mode {
	case 1:
		return ModeApplicationCursorKeys, true
	case 2:
		return ModeVt52, true
	case 4:
		return ModeSmoothScroll, true
	case 5:
		return ModeScreenReverse, true
	case 6:
		return ModeOriginMode, true
	case 7:
		return ModeAutowrap, true
	case 8:
		return ModeAutorepeat, true
	case 9:
		return ModeMouseX10, true
	case 12:
		return ModeCursorBlink, true
	case 25:
		return ModeCursorVisible, true
	case 47, 1047:
		return ModeAltScreen, true
	// 1049 is special-cased in reportDecMode (its own bit is never set
	// independently of plain alt-screen).
	case 1000:
		return ModeMouseVT200, true
	case 1001:
		return ModeMouseVT200Highlight, true
	case 1002:
		return ModeMouseButtonEvent, true
	case 1003:
		return ModeMouseAnyEvent, true
	case 1004:
		return ModeFocusEvents, true
	case 1005:
		return ModeMouseUTF8, true
	case 1006:
		return ModeMouseSGR, true
	case 1015:
		return ModeMouseURXVT, true
	case 2004:
		return ModeBracketedPaste, true
	case 69:
		return ModeLeftRightMargin, true
	default:
		return 0, false
	}
}

// reportDecMode answers a DECRQM request (CSI ? Ps $ p) with
// CSI ? Ps ; Pm $ y, where Pm is 1 (set) / 2 (reset) for a mode this
// emulator tracks, 3 (permanently reset) for mode 3 (DECCOLM), and 0
// (not recognized) for any other mode; 4 (permanently set) is never
// sent.
func (e *TermEmulator) reportDecMode(mode int) {
	const (
		notRecognized    = 0
		set              = 1
		reset            = 2
		permanentlyReset = 3
		permanentlySet   = 4
	)
	status := notRecognized
	if mode == 1049 {
		status = reset
		if e.usingAlt {
			status = set
		}
	} else if flag, ok := decModeFlag(mode); ok {
		status = reset
		if e.modes&flag != 0 {
			status = set
		}
	} else if mode == 3 {
		status = permanentlyReset
	}
	e.reply("\x1b[?%d;%d$y", mode, status)
}

// reportAnsiMode answers the ANSI-form DECRQM (CSI Ps $ p, no "?"
// prefix) with CSI Ps ; Pm $ y. The emulator tracks none of the ANSI
// modes' real side effects beyond the bit (spec §4.4 "SM/RM standard"),
// so modes 2, 4, 12 and 20 are answered with set/reset only, never
// permanently-(un)set, and any other mode with 0 (not recognized).
func (e *TermEmulator) reportAnsiMode(mode int) {
	status := 2
	switch mode {
	case 2:
		if e.hasMode(ModeKeyboardLock) {
			status = 1
		}
	case 4:
		if e.hasMode(ModeInsert) {
			status = 1
		}
	case 12:
		if e.hasMode(ModeSendReceive) {
			status = 1
		}
	case 20:
		if e.hasMode(ModeNewLine) {
			status = 1
		}
	default:
		status = 0
	}
	e.reply("\x1b[%d;%d$y", mode, status)
}

// switchAltScreen implements DECSET/DECRST 1047/1049, spec §3's
// "alternate screen" buffer swap. withCursor additionally saves (on
// entry) or restores (on exit) the cursor, matching 1049's xterm
// semantics; 1047 swaps the buffer only.
func (e *TermEmulator) switchAltScreen(on, withCursor bool) {
	if on == e.usingAlt {
		return
	}
	if on {
		if withCursor {
			e.saveCursor()
		}
		e.usingAlt = true
		e.alt.Clear()
		e.screen.SetBuffer(e.alt)
		e.setMode(ModeAltScreen, true)
	} else {
		e.usingAlt = false
		e.screen.SetBuffer(e.normal)
		if withCursor {
			e.restoreCursor()
		}
		e.setMode(ModeAltScreen, false)
	}
	e.Event.BufferSwitched = true
	e.Event.BufferChanged = true
}

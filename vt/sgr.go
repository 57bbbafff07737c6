package vt

// applySGR updates the live pen (e.pen) from CSI "m" parameters, per
// spec §4.4 "Attributes": 256-color and 24-bit extensions for both fg
// (38) and bg (48), individual attribute turn-off codes, and a bare
// "0" (or no params at all) resetting to the default pen.
func (e *TermEmulator) applySGR(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			e.pen = CellAttributes{}
		case p == 1:
			e.pen.Flags |= FlagBold
		case p == 2:
			e.pen.Flags |= FlagFaint
		case p == 3:
			e.pen.Flags |= FlagItalics
		case p == 4:
			e.pen.Flags |= FlagUnderline
		case p == 5:
			e.pen.Flags |= FlagBlink
		case p == 6:
			e.pen.Flags |= FlagFastBlink
		case p == 7:
			e.pen.Flags |= FlagInverse
		case p == 8:
			e.pen.Flags |= FlagInvisible
		case p == 9:
			e.pen.Flags |= FlagStrikethrough
		case p == 21:
			e.pen.Flags |= FlagDblUnderline
		case p == 22:
			e.pen.Flags &^= FlagBold | FlagFaint
		case p == 23:
			e.pen.Flags &^= FlagItalics
		case p == 24:
			e.pen.Flags &^= FlagUnderline | FlagDblUnderline
		case p == 25:
			e.pen.Flags &^= FlagBlink | FlagFastBlink
		case p == 27:
			e.pen.Flags &^= FlagInverse
		case p == 28:
			e.pen.Flags &^= FlagInvisible
		case p == 29:
			e.pen.Flags &^= FlagStrikethrough
		case p == 51:
			e.pen.Flags |= FlagFramed
		case p == 52:
			e.pen.Flags |= FlagEncircled
		case p == 53:
			e.pen.Flags |= FlagOverline
		case p == 54:
			e.pen.Flags &^= FlagFramed | FlagEncircled
		case p == 55:
			e.pen.Flags &^= FlagOverline
		case p >= 30 && p <= 37:
			e.pen.Flags |= FlagFgIndex
			e.pen.Flags &^= FlagFg
			e.pen.Fg = uint32(p - 30)
		case p == 38:
			n := e.applyExtendedColor(params, i+1, true)
			i += n
		case p == 39:
			e.pen.Flags &^= FlagFg | FlagFgIndex
			e.pen.Fg = 0
		case p >= 40 && p <= 47:
			e.pen.Flags |= FlagBgIndex
			e.pen.Flags &^= FlagBg
			e.pen.Bg = uint32(p - 40)
		case p == 48:
			n := e.applyExtendedColor(params, i+1, false)
			i += n
		case p == 49:
			e.pen.Flags &^= FlagBg | FlagBgIndex
			e.pen.Bg = 0
		case p >= 90 && p <= 97:
			e.pen.Flags |= FlagFgIndex
			e.pen.Flags &^= FlagFg
			e.pen.Fg = uint32(p-90) + 8
		case p >= 100 && p <= 107:
			e.pen.Flags |= FlagBgIndex
			e.pen.Flags &^= FlagBg
			e.pen.Bg = uint32(p-100) + 8
		}
	}
}

// applyExtendedColor parses the "5;n" (256-color) or "2;r;g;b"
// (24-bit) continuation of SGR 38/48 starting at params[from], setting
// fg when isFg else bg, and returns how many extra params it consumed.
func (e *TermEmulator) applyExtendedColor(params []int, from int, isFg bool) int {
	if from >= len(params) {
		return 0
	}
	switch params[from] {
	case 5:
		if from+1 >= len(params) {
			return 1
		}
		idx := uint32(params[from+1])
		if isFg {
			e.pen.Flags |= FlagFgIndex
			e.pen.Flags &^= FlagFg
			e.pen.Fg = idx
		} else {
			e.pen.Flags |= FlagBgIndex
			e.pen.Flags &^= FlagBg
			e.pen.Bg = idx
		}
		return 2
	case 2:
		if from+3 >= len(params) {
			return from + 3 - len(params) + 3
		}
		r, g, b := params[from+1], params[from+2], params[from+3]
		rgb := uint32(r&0xff)<<16 | uint32(g&0xff)<<8 | uint32(b&0xff)
		if isFg {
			e.pen.Flags |= FlagFg
			e.pen.Flags &^= FlagFgIndex
			e.pen.Fg = rgb
		} else {
			e.pen.Flags |= FlagBg
			e.pen.Flags &^= FlagBgIndex
			e.pen.Bg = rgb
		}
		return 4
	}
	return 1
}

// DECSCA toggles FlagProtected on the live pen (spec §4.4 Attributes).
func (e *TermEmulator) setProtected(on bool) {
	if on {
		e.pen.Flags |= FlagProtected
	} else {
		e.pen.Flags &^= FlagProtected
	}
}

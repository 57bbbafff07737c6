package vt

// setTitle implements OSC 0/1/2: 0 sets both icon name and window
// title, 1 only the icon name, 2 only the window title.
func (e *TermEmulator) setTitle(which int, title string) {
	switch which {
	case 0:
		e.iconName = title
		e.windowTitle = title
	case 1:
		e.iconName = title
	case 2:
		e.windowTitle = title
	}
	e.Event.FlagsChanged = true
}

// pushTitle implements CSI 22 t / XTPUSHTITLE. what is ignored: both
// the icon name and the window title are always saved, and popTitle's
// argument picks which of them to restore.
func (e *TermEmulator) pushTitle(what int) {
	e.titleStack = append(e.titleStack, titleEntry{icon: e.iconName, window: e.windowTitle})
	_ = what
}

// popTitle implements CSI 23 t / XTPOPTITLE.
func (e *TermEmulator) popTitle(what int) {
	if len(e.titleStack) == 0 {
		return
	}
	top := e.titleStack[len(e.titleStack)-1]
	e.titleStack = e.titleStack[:len(e.titleStack)-1]
	switch what {
	case 1:
		e.iconName = top.icon
	case 2:
		e.windowTitle = top.window
	default:
		e.iconName = top.icon
		e.windowTitle = top.window
	}
	e.Event.FlagsChanged = true
}

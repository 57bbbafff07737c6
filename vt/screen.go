package vt

import "strconv"

// Margins is the scroll-region rectangle cursor motion and
// scrolling respect, ported from original_source's Rect (lib use is
// row/column, not pixels).
type Margins struct {
	Left, Top, Right, Bottom int
}

// Contains reports whether (x,y) falls inside the margins.
func (m Margins) Contains(x, y int) bool {
	return x >= m.Left && x <= m.Right && y >= m.Top && y <= m.Bottom
}

// TermScreen is the cursor/viewport half of one terminal buffer:
// spec §4.3, grounded on original_source's mux/base/screen.{h,cpp}.
// It holds the active TermBuffer, the live cursor, the scroll-region
// margins, and the shell-integration job/child region pointers the
// OSC 133 state machine manipulates.
type TermScreen struct {
	buffer *TermBuffer
	offset int64

	cursor Cursor
	width  int
	height int

	margins            Margins
	origin             struct{ X, Y int }
	stayWithinMargins  bool
	originMode         bool

	job, child *Region
}

// NewTermScreen creates a screen of width x height bound to buffer,
// with full-screen margins and the cursor at the origin.
func NewTermScreen(buffer *TermBuffer, width, height int) *TermScreen {
	s := &TermScreen{buffer: buffer, width: width, height: height}
	s.margins = Margins{0, 0, width - 1, height - 1}
	return s
}

func (s *TermScreen) Buffer() *TermBuffer  { return s.buffer }
func (s *TermScreen) Width() int           { return s.width }
func (s *TermScreen) Height() int          { return s.height }
func (s *TermScreen) Margins() Margins     { return s.margins }
func (s *TermScreen) Cursor() Cursor       { return s.cursor }
func (s *TermScreen) CursorPtr() *Cursor   { return &s.cursor }
func (s *TermScreen) OriginMode() bool     { return s.originMode }
func (s *TermScreen) SetOriginMode(v bool) { s.originMode = v }

func (s *TermScreen) SetBuffer(b *TermBuffer) {
	s.buffer = b
	s.offset = 0
	if b.Size() > int64(s.height) {
		s.offset = b.Size() - int64(s.height)
	}
}

// SetWidth adjusts the viewport width and resets margins to full
// width, matching original_source's TermScreen::setWidth.
func (s *TermScreen) SetWidth(width int) {
	s.width = width
	s.margins.Left = 0
	s.margins.Right = width - 1
}

// SetHeight adjusts the viewport height, shifting the scrollback
// offset by linesAdded (the number of blank rows the buffer grew by
// to keep the cursor's absolute row stable).
func (s *TermScreen) SetHeight(height, linesAdded int) {
	s.height = height
	s.offset += int64(linesAdded)
	s.margins.Top = 0
	s.margins.Bottom = height - 1
}

func (s *TermScreen) SetMargins(m Margins) { s.margins = m }

func (s *TermScreen) SetStayWithinMargins(v bool) { s.stayWithinMargins = v }

func (s *TermScreen) CursorAtLeft() bool   { return s.cursor.X == s.margins.Left }
func (s *TermScreen) CursorAtTop() bool    { return s.cursor.Y == s.margins.Top }
func (s *TermScreen) CursorAtBottom() bool { return s.cursor.Y == s.margins.Bottom }

func (s *TermScreen) cursorAtRight(threshold int) bool {
	row := s.ConstRow()
	right := s.rightBound(row, s.margins.Right)
	d := right - s.cursor.X
	return d >= 0 && d < threshold
}

func (s *TermScreen) rightBound(row *CellRow, margin int) int {
	if row.Flags&LineDblWidth != 0 {
		return margin / 2
	}
	return margin
}

// ConstRow returns the row at absolute offset+y without marking it
// changed.
func (s *TermScreen) ConstRowAt(y int) *CellRow { return s.buffer.ConstRow(s.offset + int64(y)) }
func (s *TermScreen) ConstRow() *CellRow        { return s.ConstRowAt(s.cursor.Y) }

func (s *TermScreen) RowAt(y int) *CellRow { return s.buffer.Row(s.offset + int64(y)) }
func (s *TermScreen) Row() *CellRow        { return s.RowAt(s.cursor.Y) }

// MoveToEnd snaps the viewport offset to show the bottom of the
// buffer, used after the active screen height changes.
func (s *TermScreen) MoveToEnd() {
	s.offset = s.buffer.Size() - int64(s.height)
	if s.offset < 0 {
		s.offset = 0
	}
}

// InsertRow performs IL (insert line) at the cursor row, only taking
// effect when the cursor sits inside the margins.
func (s *TermScreen) InsertRow() {
	if !s.margins.Contains(s.cursor.X, s.cursor.Y) {
		return
	}
	s.buffer.DeleteRowAndInsertAbove(s.offset+int64(s.margins.Bottom), s.offset+int64(s.cursor.Y))
}

// DeleteRow performs DL (delete line) at the cursor row.
func (s *TermScreen) DeleteRow() {
	if !s.margins.Contains(s.cursor.X, s.cursor.Y) {
		return
	}
	s.buffer.DeleteRowAndInsertBelow(s.offset+int64(s.cursor.Y), s.offset+int64(s.margins.Bottom))
}

// ScrollUp moves the scroll region's content up by one row. When the
// region starts at the very top of the screen, a brand-new row is
// inserted into the buffer instead of recycling one, which is what
// grows scrollback history; the buffer's no-scrollback flag is not
// consulted, so a no-scrollback buffer grows the same way.
func (s *TermScreen) ScrollUp() {
	if s.margins.Top == 0 {
		s.buffer.InsertRow(s.offset + int64(s.margins.Bottom-s.margins.Top+1))
		s.MoveToEnd()
	} else {
		s.buffer.DeleteRowAndInsertBelow(s.offset+int64(s.margins.Top), s.offset+int64(s.margins.Bottom))
	}
}

// ScrollDown moves the scroll region's content down by one row (RI
// past the top margin).
func (s *TermScreen) ScrollDown() {
	s.buffer.DeleteRowAndInsertAbove(s.offset+int64(s.margins.Bottom), s.offset+int64(s.margins.Top))
}

// ScrollToJob scrolls the viewport up until the active job region's
// start row is visible, used when shell integration wants the new
// prompt on screen.
func (s *TermScreen) ScrollToJob() {
	if s.job == nil {
		return
	}
	if s.margins.Top == 0 && s.margins.Bottom == s.height-1 {
		for s.offset < s.job.StartRow {
			s.ScrollUp()
		}
	}
}

// CursorMoveX implements CUP/CHA/HPA-style absolute/relative column
// motion, respecting margins when stayWithinMargins or the persistent
// origin-mode constraint applies.
func (s *TermScreen) CursorMoveX(relative bool, x int, stayWithinMargins bool) {
	row := s.ConstRow()
	var left, right int
	if (stayWithinMargins && s.margins.Contains(s.cursor.X, s.cursor.Y)) || s.stayWithinMargins {
		left = s.margins.Left
		right = s.rightBound(row, s.margins.Right)
	} else {
		left = 0
		right = s.rightBound(row, s.width-1)
	}

	nx := x
	if relative {
		nx = s.cursor.X + x
	} else {
		nx = x + s.origin.X
	}
	if nx < left {
		nx = left
	} else if nx > right {
		nx = right
	}
	s.cursor.X = nx
	s.cursor.SetPastEnd(false)
}

// CursorMoveY implements CUP/VPA-style row motion (see CursorMoveX).
func (s *TermScreen) CursorMoveY(relative bool, y int, stayWithinMargins bool) {
	var top, bottom int
	if (stayWithinMargins && s.margins.Contains(s.cursor.X, s.cursor.Y)) || s.stayWithinMargins {
		top = s.margins.Top
		bottom = s.margins.Bottom
	} else {
		top = 0
		bottom = s.height - 1
	}

	ny := y
	if relative {
		ny = s.cursor.Y + y
	} else {
		ny = y + s.origin.Y
	}
	if ny < top {
		ny = top
	} else if ny > bottom {
		ny = bottom
	}
	s.cursor.Y = ny

	row := s.RowAt(ny)
	if row.Flags&LineDblWidth != 0 {
		rightBound := s.margins.Right / 2
		if s.cursor.X > rightBound {
			s.cursor.X = rightBound
		}
	}
	s.cursor.SetPastEnd(false)
}

// CursorMoveDown implements IND/LF-style line feed: move the cursor
// down one row, clamped to the margins rather than scrolling (callers
// decide whether to scroll first when already at the bottom margin).
func (s *TermScreen) CursorMoveDown() {
	var top, bottom int
	if s.margins.Contains(s.cursor.X, s.cursor.Y) || s.stayWithinMargins {
		top = s.margins.Top
		bottom = s.margins.Bottom
	} else {
		top = 0
		bottom = s.height - 1
	}

	ny := s.cursor.Y + 1
	if ny < top {
		ny = top
	} else if ny > bottom {
		ny = bottom
	}
	s.cursor.Y = ny

	row := s.RowAt(ny)
	if row.Flags&LineDblWidth != 0 {
		rightBound := s.margins.Right / 2
		if s.cursor.X > rightBound {
			s.cursor.X = rightBound
		}
	}
	s.cursor.SetPastEnd(false)
}

// CursorAdvance moves the cursor right by dx columns one at a time,
// stopping at the right margin and setting past-end rather than
// wrapping (autowrap is the emulator's job, not the screen's).
func (s *TermScreen) CursorAdvance(dx int) {
	for ; dx > 0; dx-- {
		if s.cursorAtRight(1) {
			s.cursor.SetPastEnd(true)
			return
		}
		s.CursorMoveX(true, 1, true)
	}
}

// WriteCell writes one grapheme cluster of the given width at the
// cursor, appending, padding, or splicing into the row as needed, and
// advances the cursor (or sets past-end) in the process.
func (s *TermScreen) WriteCell(a CellAttributes, text string, width int, emoji bool) {
	row := s.Row()
	x := s.cursor.X
	cur := row.deriveCursor(x)
	s.cursor.Pos = cur.Pos
	s.cursor.Flags = s.cursor.Flags&^(CursorOnDblLeft|CursorOnDblRight) | cur.Flags

	switch {
	case int(row.Columns()) == x:
		row.Append(a, text, width, emoji)
	case int(row.Columns()) > x:
		row.Replace(&s.cursor, a, text, width)
	default:
		pad := x - int(row.Columns())
		for i := 0; i < pad; i++ {
			row.Append(CellAttributes{}, " ", 1, false)
		}
		row.Append(a, text, width, emoji)
	}

	if s.cursorAtRight(width) {
		s.cursor.SetPastEnd(true)
		return
	}
	s.cursor.X += width
	s.cursor.Pos++
	s.cursor.Flags &^= CursorOnDblLeft | CursorOnDblRight
	if width == 2 {
		s.cursor.Flags |= CursorOnDblLeft
	}
}

// CombineCell appends a zero-width combining mark to the cluster at
// the cursor without advancing it.
func (s *TermScreen) CombineCell(a CellAttributes, text string) {
	row := s.buffer.SingleRow(s.offset + int64(s.cursor.Y))
	row.Combine(&s.cursor, a, text)
}

// InsertCells implements ICH: shift count cells right from the
// cursor, dropping overflow past the right margin.
func (s *TermScreen) InsertCells(count int) {
	if !s.margins.Contains(s.cursor.X, s.cursor.Y) {
		return
	}
	row := s.Row()
	x := s.cursor.X
	m := s.margins.Right
	for ; count > 0; count-- {
		if int(row.Columns()) > m {
			row.Remove(m)
		}
		if int(row.Columns()) > x {
			row.Insert(x)
		}
	}
}

// DeleteCell implements DCH: remove the cell at the cursor, shifting
// the remainder of the row left.
func (s *TermScreen) DeleteCell() {
	if !s.margins.Contains(s.cursor.X, s.cursor.Y) {
		return
	}
	row := s.Row()
	if int(row.Columns()) > s.cursor.X {
		row.Remove(s.cursor.X)
	}
}

// SetLineFlags ORs flags onto row y's LineFlags.
func (s *TermScreen) SetLineFlags(y int, flags LineFlags) {
	row := s.RowAt(y)
	row.Flags |= flags
}

// ResetLine clears row y back to empty with the continuation-clearing
// semantics of Row.
func (s *TermScreen) ResetLine(y int) {
	row := s.RowAt(y)
	row.Clear()
}

// ResetSingleLine is ResetLine without touching the following row's
// continuation bit.
func (s *TermScreen) ResetSingleLine(y int) {
	row := s.buffer.SingleRow(s.offset + int64(y))
	row.Clear()
}

// Reset clears every row in the viewport and the cursor, margins, and
// origin state (RIS).
func (s *TermScreen) Reset() {
	for y := 0; y < s.height; y++ {
		s.ResetSingleLine(y)
	}
	s.cursor = Cursor{}
	s.margins = Margins{0, 0, s.width - 1, s.height - 1}
	s.origin = struct{ X, Y int }{}
	s.stayWithinMargins = false
	s.originMode = false
	s.job, s.child = nil, nil
}

// Job returns the currently open shell-integration job region, if any.
func (s *TermScreen) Job() *Region { return s.job }

// Child returns the currently open prompt/command/output region
// nested under Job, if any.
func (s *TermScreen) Child() *Region { return s.child }

// BeginJobRegion opens a new job region at the cursor row, closing any
// previous one first.
func (s *TermScreen) BeginJobRegion() *Region {
	s.EndJobRegions()
	r := NewRegion(RegionJob, InvalidRegionID)
	r.Begin(s.offset + int64(s.cursor.Y))
	s.buffer.AddRegion(r)
	s.job = r
	return r
}

// BeginPromptRegion opens a prompt child region under the active job.
func (s *TermScreen) BeginPromptRegion() *Region {
	if s.child != nil {
		s.EndChildRegion()
	}
	r := NewRegion(RegionPrompt, s.jobID())
	r.BeginAtX(s.offset+int64(s.cursor.Y), int32(s.cursor.X))
	s.buffer.AddRegion(r)
	if s.job != nil {
		s.job.Flags |= RegionHasPrompt
	}
	s.child = r
	return r
}

// BeginCommandRegion opens a command child region under the active
// job, ending any open prompt region first.
func (s *TermScreen) BeginCommandRegion() *Region {
	if s.child != nil {
		s.EndChildRegion()
	}
	r := NewRegion(RegionCommand, s.jobID())
	r.BeginAtX(s.offset+int64(s.cursor.Y), int32(s.cursor.X))
	s.buffer.AddRegion(r)
	if s.job != nil {
		s.job.Flags |= RegionHasCommand
	}
	s.child = r
	return r
}

// BeginOutputRegion opens an output child region under the active job
// and records the shell-reported path/user/host variables.
func (s *TermScreen) BeginOutputRegion(path, user, host string) *Region {
	if s.child != nil {
		s.EndChildRegion()
	}
	r := NewRegion(RegionOutput, s.jobID())
	r.Begin(s.offset + int64(s.cursor.Y))
	r.Attributes["path"] = path
	r.Attributes["user"] = user
	r.Attributes["host"] = host
	s.buffer.AddRegion(r)
	if s.job != nil {
		s.job.Flags |= RegionHasOutput
	}
	s.child = r
	return r
}

// EndOutputRegion closes the active output child region and records
// the command's exit code.
func (s *TermScreen) EndOutputRegion(code int) {
	if s.child == nil || s.child.Type != RegionOutput {
		return
	}
	s.child.End(s.offset + int64(s.cursor.Y))
	s.child.Attributes["exitcode"] = strconv.Itoa(code)
	s.buffer.EndRegion(s.child)
	s.child = nil
}

// EndChildRegion closes whatever prompt/command child region is open,
// without touching the parent job.
func (s *TermScreen) EndChildRegion() {
	if s.child == nil {
		return
	}
	if s.child.Type == RegionCommand && s.child.EndRow == s.child.StartRow &&
		s.child.EndCol == s.child.StartCol {
		s.child.Flags |= RegionEmptyCommand
	}
	s.child.EndAtX(s.offset+int64(s.cursor.Y), int32(s.cursor.X))
	s.buffer.EndRegion(s.child)
	s.child = nil
}

// EndJobRegions closes both the active child region and the active job
// region (used on a new job, or OSC 133 D without a preceding output
// region).
func (s *TermScreen) EndJobRegions() {
	s.EndChildRegion()
	if s.job != nil {
		s.job.End(s.offset + int64(s.cursor.Y))
		s.buffer.EndRegion(s.job)
		s.job = nil
	}
}

// HandlePartialCommand marks an in-progress command region as
// overwritten, used when OSC 133 B repeats without an intervening C.
func (s *TermScreen) HandlePartialCommand() {
	if s.child != nil && s.child.Type == RegionCommand {
		s.child.Flags |= RegionOverwritten
		s.buffer.reportRegion(s.child)
	}
}

func (s *TermScreen) jobID() int32 {
	if s.job == nil {
		return InvalidRegionID
	}
	return s.job.ID
}

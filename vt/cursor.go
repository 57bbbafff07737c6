package vt

// Cursor is the screen-relative write position plus the row-relative
// position spec §3 calls out: X/Y are screen column/row, Flags carries
// the past-end and on-double-width-half bits, and Pos is the cluster
// index within the active row's CellRow. The source tracks a separate
// byte pointer into the row's raw buffer; this port has no equivalent
// field because CellRow addresses clusters directly (see cellrow.go),
// so Pos alone is always sufficient to locate the cursor's cluster.
type Cursor struct {
	X, Y  int
	Flags CursorFlags
	Pos   uint32
}

// PastEnd reports whether the cursor sits past the right margin
// awaiting autowrap on the next printable character.
func (c *Cursor) PastEnd() bool { return c.Flags&CursorPastEnd != 0 }

func (c *Cursor) SetPastEnd(v bool) {
	if v {
		c.Flags |= CursorPastEnd
	} else {
		c.Flags &^= CursorPastEnd
	}
}

// SavedCursor is the DEC-convention cursor save slot (DECSC/DECRC and
// the alternate-screen swap use this).
type SavedCursor struct {
	Cursor       Cursor
	OriginMode   bool
	Attrs        CellAttributes
	CharsetIndex int
	Charsets     [4]byte
	Valid        bool
}

package vt

// CellFlags is the 32-bit per-cell attribute bitmask from spec §6.
// Bits 0-1 select the fg interpretation, 2-3 the bg interpretation,
// 4-19 are SGR attributes in a fixed order, 24-28 are structural bits,
// and 30-31 are per-character hints computed by the width oracle.
type CellFlags uint32

const (
	FlagFg CellFlags = 1 << iota
	FlagFgIndex
	FlagBg
	FlagBgIndex
	FlagBold
	FlagFaint
	FlagItalics
	FlagUnderline
	FlagDblUnderline
	FlagBlink
	FlagFastBlink
	FlagInverse
	FlagInvisible
	FlagStrikethrough
	FlagFramed
	FlagEncircled
	FlagOverline
	FlagAltFont0
	FlagAltFont1
	FlagAltFont2
)

const (
	FlagFontMask CellFlags = 7 << 17
	FlagAll      CellFlags = 0xfffff

	FlagProtected  CellFlags = 1 << 24
	FlagHighlight  CellFlags = 1 << 25
	FlagPrompt     CellFlags = 1 << 26
	FlagCommand    CellFlags = 1 << 27
	FlagHyperlink  CellFlags = 1 << 28
	FlagEmojiChar  CellFlags = 1 << 30
	FlagDblWidth   CellFlags = 1 << 31
	FlagPerCharMask CellFlags = FlagEmojiChar | FlagDblWidth
)

// LineFlags describes per-row state. The low byte is reserved for a
// buffer id when a row-content frame is emitted (see package server).
type LineFlags uint32

const (
	LineNone LineFlags = 0

	LineContinuation LineFlags = 1 << 8
	LineDblWidth     LineFlags = 1 << 9
	LineDblTop       LineFlags = 1 << 10
	LineDblBottom    LineFlags = 1 << 11
	LineDblMask      LineFlags = LineDblWidth | LineDblTop | LineDblBottom
)

// CursorFlags marks cursor sub-states distinct from plain column/row.
type CursorFlags uint32

const (
	CursorPastEnd    CursorFlags = 1 << 8
	CursorOnDblLeft  CursorFlags = 1 << 9
	CursorOnDblRight CursorFlags = 1 << 10
)

// InvalidRegionID marks the absence of a region/hyperlink reference.
const InvalidRegionID int32 = -1

// CellAttributes is the per-cluster attribute tuple a CellRow range
// table stores. Two sets of attributes compare equal iff all four
// fields match, which is what lets the range table coalesce runs.
type CellAttributes struct {
	Flags CellFlags
	Fg    uint32
	Bg    uint32
	Link  int32
}

// Equal reports whether a and b would coalesce into the same range.
func (a CellAttributes) Equal(b CellAttributes) bool {
	return a.Flags == b.Flags && a.Fg == b.Fg && a.Bg == b.Bg && a.Link == b.Link
}

// IsDefault reports whether a carries no flags, i.e. it need not be
// represented by an explicit range (the gaps between ranges are
// implicitly default attributes).
func (a CellAttributes) IsDefault() bool {
	return a.Flags == 0
}

package vt

// RegionType distinguishes the kinds of regions a buffer can track,
// ported from original_source's Tsq::RegionType: shell-integration job
// regions and their three children, ad hoc user selections, and the
// two OSC-driven content regions (inline images and arbitrary
// clickable content).
type RegionType uint8

const (
	RegionJob RegionType = iota
	RegionPrompt
	RegionCommand
	RegionOutput
	RegionUser
	RegionImage
	RegionContent
)

// RegionFlags mirrors original_source's RegionFlag bit layout exactly
// (lib/flags.h) so wire frames carrying a region's flags need no
// translation.
type RegionFlags uint32

const (
	RegionHasStart RegionFlags = 1 << iota
	RegionHasEnd
	RegionDeleted
	RegionOverwritten
	RegionHasPrompt
	RegionHasCommand
	RegionEmptyCommand
	RegionHasOutput

	RegionLocalMask RegionFlags = 0xffff0000
)

// Region is one entry in a TermBuffer's region catalog: spec §3, §4.3.
// A job region's Prompt/Command/Output children share its ID family
// through Parent; ShellIntegration in the emulator owns the state
// machine that opens and closes them (OSC 133).
type Region struct {
	ID       int32
	Parent   int32
	RefCount uint16
	Type     RegionType
	BufID    uint8
	Flags    RegionFlags

	StartRow, EndRow int64
	StartCol, EndCol int32

	Attributes map[string]string
}

// NewRegion allocates a region with refcount 1, matching the two
// source constructors (Region::Region(type) and Region::Region(type,
// parent)).
func NewRegion(typ RegionType, parent int32) *Region {
	return &Region{
		ID:       InvalidRegionID,
		Parent:   parent,
		RefCount: 1,
		Type:     typ,
		Attributes: map[string]string{},
	}
}

// WireType packs type and buffer id the way the wire protocol expects
// region-update frames to carry them (Region::wireType).
func (r *Region) WireType() uint16 {
	return uint16(r.Type)<<8 | uint16(r.BufID)
}

// TakeReference increments the refcount (a region can be referenced by
// more than one buffer position, e.g. the unclosed tail of a job).
func (r *Region) TakeReference() { r.RefCount++ }

// PutReference decrements the refcount and reports whether it reached
// zero, meaning the caller should delete the region.
func (r *Region) PutReference() bool {
	r.RefCount--
	return r.RefCount == 0
}

// Overlaps reports whether r and other occupy any common buffer
// position, used to reject intersecting user selection regions.
func (r *Region) Overlaps(other *Region) bool {
	if r.EndRow < other.StartRow || other.EndRow < r.StartRow {
		return false
	}
	if r.EndRow == other.StartRow && r.EndCol <= other.StartCol {
		return false
	}
	if other.EndRow == r.StartRow && other.EndCol <= r.StartCol {
		return false
	}
	return true
}

// Begin marks the region as started at the screen's current cursor
// row, called when a job/prompt/command/output region opens.
func (r *Region) Begin(startRow int64) {
	r.StartRow = startRow
	r.StartCol = 0
	r.Flags |= RegionHasStart
}

// End marks the region as closed at the given row, the full-line
// variant used by job/output regions.
func (r *Region) End(endRow int64) {
	r.EndRow = endRow
	r.EndCol = 0
	r.Flags |= RegionHasEnd
}

// BeginAtX is Begin but records the exact starting column, used by
// prompt/command regions which can start mid-line.
func (r *Region) BeginAtX(startRow int64, startCol int32) {
	r.StartRow = startRow
	r.StartCol = startCol
	r.Flags |= RegionHasStart
}

// EndAtX is End but records the exact ending column.
func (r *Region) EndAtX(endRow int64, endCol int32) {
	r.EndRow = endRow
	r.EndCol = endCol
	r.Flags |= RegionHasEnd
}

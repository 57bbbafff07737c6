package vt

import "sort"

// bufreg packs a buffer id and region id into one changed-region key,
// matching the wire's bufreg_t (original_source lib/types.h MAKE_BUFREG).
type bufreg struct {
	bufID uint8
	id    int32
}

// TermBuffer is a power-of-two ring buffer of CellRow plus the region
// catalog indexed three ways, per spec §4.3 and original_source's
// mux/base/buffer.{h,cpp}.
type TermBuffer struct {
	id           uint8
	caporder     uint8
	noScrollback bool

	rows         []CellRow
	size         int64 // rows inserted and not cleared; not capped at capacity: past it, InsertRow reuses the oldest row's ring slot
	realSize     int64 // total rows ever inserted, for absolute row numbering
	screenHeight int

	changedRows    map[int64]struct{}
	changedRegions map[bufreg]struct{}

	regions        map[int32]*Region
	regionsByStart []int32 // sorted by StartRow, tie-broken by id
	regionsByEnd   []int32 // sorted by EndRow, tie-broken by id
	nextRegionID   int32

	modTime *int64 // shared clock, owned by the TermScreen
}

// NewTermBuffer allocates a buffer with 2^caporder capacity.
func NewTermBuffer(id uint8, screenHeight int, caporder uint8, modTime *int64) *TermBuffer {
	capacity := int64(1) << caporder
	b := &TermBuffer{
		id:             id,
		caporder:       caporder,
		screenHeight:   screenHeight,
		rows:           make([]CellRow, capacity),
		changedRows:    map[int64]struct{}{},
		changedRegions: map[bufreg]struct{}{},
		regions:        map[int32]*Region{},
		modTime:        modTime,
	}
	return b
}

func (b *TermBuffer) ID() uint8         { return b.id }
func (b *TermBuffer) Size() int64       { return b.size }
func (b *TermBuffer) Capacity() int64   { return int64(len(b.rows)) }
func (b *TermBuffer) ScreenHeight() int { return b.screenHeight }
func (b *TermBuffer) Caporder() uint8 {
	if b.noScrollback {
		return b.caporder | 1
	}
	return b.caporder
}
func (b *TermBuffer) NoScrollback() bool { return b.noScrollback }

func (b *TermBuffer) index(i int64) int64 { return i & (int64(len(b.rows)) - 1) }

// ConstRow returns row i without marking it changed.
func (b *TermBuffer) ConstRow(i int64) *CellRow { return &b.rows[b.index(i)] }

// Row returns row i for mutation, recording it as changed and clearing
// the continuation bit of the following row if that row carried one
// (original_source's TermBuffer::row inline).
func (b *TermBuffer) Row(i int64) *CellRow {
	b.changedRows[i] = struct{}{}
	if i < b.size-1 {
		next := &b.rows[b.index(i+1)]
		if next.Flags != 0 {
			b.changedRows[i+1] = struct{}{}
			next.ModTime = b.clock()
			next.Flags &^= LineContinuation
		}
	}
	row := &b.rows[b.index(i)]
	row.ModTime = b.clock()
	return row
}

// SingleRow is Row without the continuation-clearing side effect,
// used when a row is rewritten wholesale (e.g. resize reflow).
func (b *TermBuffer) SingleRow(i int64) *CellRow {
	b.changedRows[i] = struct{}{}
	row := &b.rows[b.index(i)]
	row.ModTime = b.clock()
	return row
}

func (b *TermBuffer) TouchRow(i int64) {
	b.changedRows[i] = struct{}{}
	b.rows[b.index(i)].ModTime = b.clock()
}

func (b *TermBuffer) clock() int64 {
	if b.modTime == nil {
		return 0
	}
	return *b.modTime
}

// ChangedRows returns the set of absolute row indices touched since
// the last ResetEventState, in ascending order.
func (b *TermBuffer) ChangedRows() []int64 {
	out := make([]int64, 0, len(b.changedRows))
	for i := range b.changedRows {
		out = append(out, i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ChangedRegions returns the region ids touched since the last
// ResetEventState.
func (b *TermBuffer) ChangedRegions() []int32 {
	out := make([]int32, 0, len(b.changedRegions))
	for k := range b.changedRegions {
		out = append(out, k.id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ResetEventState clears the per-burst changed-row/changed-region
// tracking, called once per emission cycle (see package server).
func (b *TermBuffer) ResetEventState() {
	b.changedRows = map[int64]struct{}{}
	b.changedRegions = map[bufreg]struct{}{}
}

func (b *TermBuffer) Region(id int32) *Region { return b.regions[id] }

func (b *TermBuffer) SafeRegion(id int32) *Region {
	return b.regions[id]
}

// InsertRow inserts a blank row at absolute position pos, growing size
// by one and shifting everything after pos down (used when opening a
// new line at the bottom of an unlimited-scrollback buffer).
func (b *TermBuffer) InsertRow(pos int64) {
	for i := b.size; i > pos; i-- {
		b.rows[b.index(i)] = b.rows[b.index(i-1)]
		b.changedRows[i] = struct{}{}
	}
	b.rows[b.index(pos)] = CellRow{ModTime: b.clock()}
	b.changedRows[pos] = struct{}{}
	b.size++
	b.realSize++
}

// DeleteRowAndInsertAbove removes the row at delpos and inserts a
// fresh blank row at addpos, used for scroll-up within a fixed-size
// screen region: rows between addpos and delpos shift down by one.
func (b *TermBuffer) DeleteRowAndInsertAbove(delpos, addpos int64) {
	for i := delpos; i > addpos; i-- {
		b.rows[b.index(i)] = b.rows[b.index(i-1)]
		b.changedRows[i] = struct{}{}
	}
	b.rows[b.index(addpos)] = CellRow{ModTime: b.clock()}
	b.changedRows[addpos] = struct{}{}
	if b.size <= delpos {
		b.size = delpos + 1
		b.realSize++
	}
}

// DeleteRowAndInsertBelow is the scroll-down mirror: the row at delpos
// is removed and a blank row appears at addpos, with rows in between
// shifting up by one.
func (b *TermBuffer) DeleteRowAndInsertBelow(delpos, addpos int64) {
	for i := delpos; i < addpos; i++ {
		b.rows[b.index(i)] = b.rows[b.index(i+1)]
		b.changedRows[i] = struct{}{}
	}
	b.rows[b.index(addpos)] = CellRow{ModTime: b.clock()}
	b.changedRows[addpos] = struct{}{}
}

// EnableScrollback grows the ring buffer's capacity to 2^caporder,
// preserving existing row content, and reports whether anything
// changed.
func (b *TermBuffer) EnableScrollback(caporder uint8) bool {
	if b.noScrollback {
		b.noScrollback = false
	}
	if caporder == b.caporder {
		return false
	}
	b.setCaporder(caporder)
	return true
}

// ClearScrollback drops every row above the live screen, keeping only
// the bottom screenHeight rows, and reports whether anything changed.
func (b *TermBuffer) ClearScrollback() bool {
	if b.size <= int64(b.screenHeight) {
		return false
	}
	drop := b.size - int64(b.screenHeight)
	b.removeRegionsBelow(drop)
	newRows := make([]CellRow, len(b.rows))
	for i := int64(0); i < int64(b.screenHeight); i++ {
		newRows[b.index(i)] = b.rows[b.index(i+drop)]
	}
	b.rows = newRows
	b.size = int64(b.screenHeight)
	b.changedRows = map[int64]struct{}{}
	for i := int64(0); i < b.size; i++ {
		b.changedRows[i] = struct{}{}
	}
	return true
}

func (b *TermBuffer) setCaporder(caporder uint8) {
	newCap := int64(1) << caporder
	newRows := make([]CellRow, newCap)
	start := int64(0)
	if b.size > newCap {
		start = b.size - newCap
	}
	n := b.size - start
	for i := int64(0); i < n; i++ {
		newRows[i] = b.rows[b.index(start+i)]
	}
	if start > 0 {
		b.removeRegionsBelow(start)
	}
	b.rows = newRows
	b.caporder = caporder
	if b.size > newCap {
		b.size = newCap
	}
}

// SetScreenHeight adjusts the live screen height, reporting how many
// rows were chopped off the bottom of the buffer (capped at maxChop)
// when the screen shrinks below the current content height.
func (b *TermBuffer) SetScreenHeight(height int, maxChop int) int {
	b.screenHeight = height
	chop := 0
	if b.size > int64(height) {
		chop = int(b.size - int64(height))
		if chop > maxChop {
			chop = maxChop
		}
	}
	return chop
}

// Clear empties the buffer entirely: every row and region is dropped.
func (b *TermBuffer) Clear() {
	b.rows = make([]CellRow, len(b.rows))
	b.size = 0
	b.changedRows = map[int64]struct{}{}
	b.changedRegions = map[bufreg]struct{}{}
	b.regions = map[int32]*Region{}
	b.regionsByStart = nil
	b.regionsByEnd = nil
}

// reportRegion marks a region's buffer slot as changed for the next
// emission cycle.
func (b *TermBuffer) reportRegion(r *Region) {
	b.changedRegions[bufreg{b.id, r.ID}] = struct{}{}
}

// deleteRegion removes a region from all three indices.
func (b *TermBuffer) deleteRegion(r *Region) {
	delete(b.regions, r.ID)
	b.regionsByStart = removeID(b.regionsByStart, r.ID)
	b.regionsByEnd = removeID(b.regionsByEnd, r.ID)
}

func removeID(ids []int32, id int32) []int32 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// AddRegion assigns the next region id, indexes it, and reports it as
// changed.
func (b *TermBuffer) AddRegion(r *Region) {
	r.ID = b.nextRegionID
	b.nextRegionID++
	r.BufID = b.id
	b.regions[r.ID] = r
	b.insertByStart(r.ID, r.StartRow)
	b.insertByEnd(r.ID, r.EndRow)
	b.reportRegion(r)
}

func (b *TermBuffer) insertByStart(id int32, row int64) {
	i := sort.Search(len(b.regionsByStart), func(i int) bool {
		return b.regions[b.regionsByStart[i]].StartRow > row
	})
	b.regionsByStart = append(b.regionsByStart, 0)
	copy(b.regionsByStart[i+1:], b.regionsByStart[i:])
	b.regionsByStart[i] = id
}

func (b *TermBuffer) insertByEnd(id int32, row int64) {
	i := sort.Search(len(b.regionsByEnd), func(i int) bool {
		return b.regions[b.regionsByEnd[i]].EndRow > row
	})
	b.regionsByEnd = append(b.regionsByEnd, 0)
	copy(b.regionsByEnd[i+1:], b.regionsByEnd[i:])
	b.regionsByEnd[i] = id
}

// BeginRegion reindexes a region by its (just-set) StartRow.
func (b *TermBuffer) BeginRegion(r *Region) {
	b.regionsByStart = removeID(b.regionsByStart, r.ID)
	b.insertByStart(r.ID, r.StartRow)
	b.reportRegion(r)
}

// EndRegion reindexes a region by its (just-set) EndRow.
func (b *TermBuffer) EndRegion(r *Region) {
	b.regionsByEnd = removeID(b.regionsByEnd, r.ID)
	b.insertByEnd(r.ID, r.EndRow)
	b.reportRegion(r)
}

// RemoveRegions deletes every region whose start row has scrolled off
// the bottom of the buffer at (startRow,startCol), the eviction rule
// spec §4.3 calls out: a region is only removable once its start, not
// just its end, has left the retained window.
func (b *TermBuffer) RemoveRegions(startRow int64, startCol int32) {
	i := 0
	for i < len(b.regionsByStart) {
		id := b.regionsByStart[i]
		r := b.regions[id]
		if r.StartRow > startRow || (r.StartRow == startRow && r.StartCol >= startCol) {
			break
		}
		i++
		if r.PutReference() {
			b.deleteRegion(r)
		} else {
			r.Flags |= RegionDeleted
			b.reportRegion(r)
		}
	}
	b.regionsByStart = b.regionsByStart[i:]
}

func (b *TermBuffer) removeRegionsBelow(dropCount int64) {
	for _, id := range append([]int32(nil), b.regionsByStart...) {
		r := b.regions[id]
		if r.StartRow < dropCount {
			if r.PutReference() {
				b.deleteRegion(r)
			} else {
				r.Flags |= RegionDeleted
			}
		} else {
			r.StartRow -= dropCount
			if r.Flags&RegionHasEnd != 0 {
				r.EndRow -= dropCount
			}
		}
	}
}

// PullRegions returns the bufreg keys of every region overlapping rows
// [start,end), unioned with the ids of their parent (job) regions
// (original_source TermBuffer::pullRegions inserts both bufreg() and
// pbufreg() per hit, then erases INVALID_REGION_ID).
func (b *TermBuffer) PullRegions(start, end int64) []int32 {
	var out []int32
	seen := make(map[int32]bool)
	add := func(id int32) {
		if id == InvalidRegionID || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
	}
	for _, id := range b.regionsByStart {
		r := b.regions[id]
		if r.StartRow >= end {
			break
		}
		if r.Flags&RegionHasEnd == 0 || r.EndRow >= start {
			add(id)
			add(r.Parent)
		}
	}
	return out
}

// AddUserRegion installs an ad hoc selection/highlight region, refusing
// it if it overlaps an existing user region (original_source
// TermBuffer::addUserRegion).
func (b *TermBuffer) AddUserRegion(r *Region) int32 {
	for _, id := range b.regionsByStart {
		other := b.regions[id]
		if other.Type == RegionUser && r.Overlaps(other) {
			return InvalidRegionID
		}
	}
	b.AddRegion(r)
	return r.ID
}

// RemoveUserRegion deletes a user region by id, reporting whether one
// was found.
func (b *TermBuffer) RemoveUserRegion(id int32) bool {
	r, ok := b.regions[id]
	if !ok || r.Type != RegionUser || r.Flags&RegionDeleted != 0 {
		return false
	}
	r.Flags |= RegionDeleted
	b.reportRegion(r)
	if r.PutReference() {
		b.deleteRegion(r)
	}
	return true
}

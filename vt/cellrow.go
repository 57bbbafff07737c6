package vt

// AttrRange is one coalesced run in a row's attribute range table:
// clusters [First,Last] (inclusive, by cluster index) all carry Attrs.
// The table is sorted by First, never overlaps, and never has two
// adjacent entries with equal Attrs (spec §3, §8 invariants) — gaps
// between ranges, and anything before the first or after the last,
// are implicitly CellAttributes{} (default).
type AttrRange struct {
	First, Last uint32
	Attrs       CellAttributes
}

// CellRow is one logical screen/scrollback line: spec §3/§4.2.
//
// The source (original_source/mux/base/cell.{h,cpp}) stores the row as
// a raw UTF-8 byte string plus a Cursor that caches a byte pointer
// into it, so that repeated writes don't re-walk the string. This port
// instead stores the row as a slice of grapheme clusters (see
// width.go) addressed directly by cluster index. That sidesteps
// unsafe byte-splicing in Go while preserving every invariant spec §8
// names: Str() still reconstructs the exact UTF-8 byte string an
// emission frame sends on the wire, Columns() is still the sum of
// per-cluster widths, and the range table still keys off cluster
// index exactly as spec describes. Cursor motion updates only X/Y;
// TermScreen.WriteCell re-derives a Cursor's Pos from X before every
// write, which is how the "ptr must be re-derived after an out-of-band
// mutation" contract in spec §3 is met: there is no ptr to go stale.
type CellRow struct {
	clusters []cluster
	ranges   []AttrRange
	columns  int32
	Flags    LineFlags
	ModTime  int64
}

// Str returns the row's UTF-8 text, exactly as an emission frame would
// send it.
func (r *CellRow) Str() string {
	if len(r.clusters) == 0 {
		return ""
	}
	total := 0
	for _, c := range r.clusters {
		total += len(c.text)
	}
	buf := make([]byte, 0, total)
	for _, c := range r.clusters {
		buf = append(buf, c.text...)
	}
	return string(buf)
}

// Clusters returns the number of grapheme clusters in the row.
func (r *CellRow) Clusters() uint32 { return uint32(len(r.clusters)) }

// Columns returns the sum of terminal columns occupied by the row.
func (r *CellRow) Columns() int32 { return r.columns }

// IsEmpty reports whether the row holds no clusters at all.
func (r *CellRow) IsEmpty() bool { return len(r.clusters) == 0 }

// NumRanges returns the number of entries in the coalesced attribute
// range table.
func (r *CellRow) NumRanges() int { return len(r.ranges) }

// Ranges returns a copy of the attribute range table, sorted by First.
func (r *CellRow) Ranges() []AttrRange {
	out := make([]AttrRange, len(r.ranges))
	copy(out, r.ranges)
	return out
}

// Erase clears the row's content but keeps ModTime (see Clear).
func (r *CellRow) Erase() {
	r.clusters = r.clusters[:0]
	r.ranges = r.ranges[:0]
	r.columns = 0
	r.Flags = LineNone
}

// Clear resets the row completely, including the modification time.
func (r *CellRow) Clear() {
	r.Erase()
	r.ModTime = 0
}

// attrAt returns the attributes covering cluster index pos, or the
// zero value if pos falls in a gap.
func (r *CellRow) attrAt(pos uint32) CellAttributes {
	for _, rg := range r.ranges {
		if rg.First <= pos && pos <= rg.Last {
			return rg.Attrs
		}
		if rg.First > pos {
			break
		}
	}
	return CellAttributes{}
}

// coalesce merges range i with its neighbours if they now abut with
// equal attributes.
func (r *CellRow) coalesceAt(i int) {
	if i < len(r.ranges)-1 {
		a, b := r.ranges[i], r.ranges[i+1]
		if a.Last+1 == b.First && a.Attrs.Equal(b.Attrs) {
			r.ranges[i].Last = b.Last
			r.ranges = append(r.ranges[:i+1], r.ranges[i+2:]...)
		}
	}
	if i > 0 {
		a, b := r.ranges[i-1], r.ranges[i]
		if a.Last+1 == b.First && a.Attrs.Equal(b.Attrs) {
			r.ranges[i-1].Last = b.Last
			r.ranges = append(r.ranges[:i], r.ranges[i+1:]...)
		}
	}
}

// updateRanges is the core range-table maintenance algorithm from
// original_source's CellRow::updateRanges, ported from a flat
// uint32[6] vector to the AttrRange slice above. It sets the
// attributes of exactly one cluster position, splitting, shrinking,
// extending, or coalescing ranges as needed; a request to set default
// (zero) attributes simply removes the range covering pos rather than
// writing an entry for it, since the table only records non-default
// spans.
func (r *CellRow) updateRanges(pos uint32, a CellAttributes) {
	i := 0
	for ; i < len(r.ranges); i++ {
		if r.ranges[i].First > pos {
			r.insertBetween(i, pos, a)
			return
		}
		if r.ranges[i].Last >= pos {
			break
		}
	}
	if i == len(r.ranges) {
		if !a.IsDefault() {
			r.ranges = append(r.ranges, AttrRange{First: pos, Last: pos, Attrs: a})
			r.coalesceAt(len(r.ranges) - 1)
		}
		return
	}

	rg := r.ranges[i]
	if rg.Attrs.Equal(a) {
		return
	}
	switch {
	case rg.First == rg.Last:
		if !a.IsDefault() {
			r.ranges[i].Attrs = a
			r.coalesceAt(i)
		} else {
			r.ranges = append(r.ranges[:i], r.ranges[i+1:]...)
			r.coalesceAt(i) // i now addresses the following range, if any
		}
	case pos == rg.First:
		r.ranges[i].First++
		if !a.IsDefault() {
			r.ranges = append(r.ranges, AttrRange{})
			copy(r.ranges[i+1:], r.ranges[i:])
			r.ranges[i] = AttrRange{First: pos, Last: pos, Attrs: a}
			r.coalesceAt(i)
		}
	case pos == rg.Last:
		r.ranges[i].Last--
		if !a.IsDefault() {
			r.ranges = append(r.ranges, AttrRange{})
			copy(r.ranges[i+2:], r.ranges[i+1:])
			r.ranges[i+1] = AttrRange{First: pos, Last: pos, Attrs: a}
			r.coalesceAt(i + 1)
		}
	default:
		// split rg around pos
		tail := AttrRange{First: pos + 1, Last: rg.Last, Attrs: rg.Attrs}
		r.ranges[i].Last = pos - 1
		r.ranges = append(r.ranges, AttrRange{})
		copy(r.ranges[i+2:], r.ranges[i+1:])
		r.ranges[i+1] = tail
		if !a.IsDefault() {
			r.ranges = append(r.ranges, AttrRange{})
			copy(r.ranges[i+2:], r.ranges[i+1:])
			r.ranges[i+1] = AttrRange{First: pos, Last: pos, Attrs: a}
		}
	}
}

func (r *CellRow) insertBetween(i int, pos uint32, a CellAttributes) {
	if a.IsDefault() {
		return
	}
	r.ranges = append(r.ranges, AttrRange{})
	copy(r.ranges[i+1:], r.ranges[i:])
	r.ranges[i] = AttrRange{First: pos, Last: pos, Attrs: a}
	r.coalesceAt(i)
}

// shiftRangesForInsertAt adjusts the range table after a blank cluster
// is inserted at pos: ranges entirely at or after pos shift right by
// one, and a range straddling pos is extended by one so the newly
// inserted cluster inherits that range's attributes (matching
// CellRow::insert in the source: a space pushed into the middle of a
// styled run stays styled).
func (r *CellRow) shiftRangesForInsertAt(pos uint32) {
	for i := 0; i < len(r.ranges); i++ {
		switch {
		case r.ranges[i].First >= pos:
			r.ranges[i].First++
			r.ranges[i].Last++
		case r.ranges[i].Last >= pos:
			r.ranges[i].Last++
		}
	}
}

// shiftRangesForRemoveAt is the inverse of shiftRangesForInsertAt,
// ported from CellRow::removeChar: the range covering pos shrinks (or
// is deleted if it was a singleton), and every later range shifts left
// by one.
func (r *CellRow) shiftRangesForRemoveAt(pos uint32) {
	out := r.ranges[:0]
	for _, rg := range r.ranges {
		switch {
		case rg.First > pos:
			rg.First--
			rg.Last--
			out = append(out, rg)
		case rg.First == pos && rg.Last == pos:
			// dropped
		case rg.Last >= pos:
			rg.Last--
			out = append(out, rg)
		default:
			out = append(out, rg)
		}
	}
	r.ranges = out
}

// Append adds one cluster of attributes a at the end of the row. If
// the last range abuts the new cluster with equal attributes it
// extends; otherwise a new range starts (only when a carries any
// flags at all — default attributes never need a range entry).
func (r *CellRow) Append(a CellAttributes, text string, width int, emoji bool) {
	pos := uint32(len(r.clusters))
	r.clusters = append(r.clusters, cluster{text: text, width: width, emoji: emoji})
	r.columns += int32(width)

	if n := len(r.ranges); n > 0 && r.ranges[n-1].Last == pos-1 && r.ranges[n-1].Attrs.Equal(a) {
		r.ranges[n-1].Last = pos
		return
	}
	if !a.IsDefault() {
		r.ranges = append(r.ranges, AttrRange{First: pos, Last: pos, Attrs: a})
	}
}

// Combine inserts a zero-width combining codepoint into the cluster at
// cursor.Pos without advancing any position, merging cp's attributes
// into the range covering that cluster.
func (r *CellRow) Combine(cursor *Cursor, a CellAttributes, text string) {
	if int(cursor.Pos) >= len(r.clusters) {
		return
	}
	r.clusters[cursor.Pos].text += text
	r.updateRanges(cursor.Pos, a)
}

// splitDoubleAt turns the double-width cluster at pos into two
// single-width blanks, preserving whatever attribute range covered it
// (minus the per-character Emoji/DblWidth hints), and shifts later
// ranges/clusters right by one. Ported from CellRow::splitChar.
func (r *CellRow) splitDoubleAt(pos uint32) {
	if int(pos) >= len(r.clusters) || r.clusters[pos].width != 2 {
		return
	}
	a := r.attrAt(pos)
	a.Flags &^= FlagPerCharMask

	blank := cluster{text: " ", width: 1}
	r.clusters[pos] = blank
	tail := append([]cluster{blank}, r.clusters[pos+1:]...)
	r.clusters = append(r.clusters[:pos+1], tail...)

	for i := range r.ranges {
		switch {
		case r.ranges[i].First > pos:
			r.ranges[i].First++
			r.ranges[i].Last++
		case r.ranges[i].Last >= pos:
			r.ranges[i].Last++
		}
	}
	if !a.IsDefault() {
		r.updateRanges(pos, a)
		r.updateRanges(pos+1, a)
	}
}

// mergeNextInto removes the cluster following pos to make room for a
// double-width write at pos, ported from CellRow::mergeChars. If there
// is no following cluster, the row simply grows by one column (there
// was nothing to consume).
func (r *CellRow) mergeNextInto(pos uint32) {
	next := pos + 1
	if int(next) >= len(r.clusters) {
		return
	}
	if r.clusters[next].width == 2 {
		// Replacing a double with a space preserves its styled range
		// minus per-character hints, same as splitChar.
		a := r.attrAt(next)
		a.Flags &^= FlagPerCharMask
		r.clusters[next] = cluster{text: " ", width: 1}
		r.columns--
		r.updateRanges(next, a)
		return
	}
	r.columns -= int32(r.clusters[next].width)
	r.clusters = append(r.clusters[:next], r.clusters[next+1:]...)
	r.shiftRangesForRemoveAt(next)
}

// Replace overwrites the cluster at cursor.Pos with one new cluster of
// width width, handling the four width-transition cases spec §4.2
// calls out (single/single, single/double, double/single, and writing
// into the right half of an existing double).
func (r *CellRow) Replace(cursor *Cursor, a CellAttributes, text string, width int) {
	pos := cursor.Pos
	oldWidth := 1

	if cursor.Flags&CursorOnDblRight != 0 {
		r.splitDoubleAt(pos)
		pos++
		cursor.Pos = pos
	} else if cursor.Flags&CursorOnDblLeft != 0 {
		oldWidth = 2
	}

	if oldWidth != width {
		if oldWidth > width {
			r.splitDoubleAt(pos)
		} else {
			r.mergeNextInto(pos)
		}
	}

	for int(pos) >= len(r.clusters) {
		r.clusters = append(r.clusters, cluster{text: " ", width: 1})
	}
	oldColWidth := r.clusters[pos].width
	r.clusters[pos] = cluster{text: text, width: width}
	r.columns += int32(width - oldColWidth)

	r.updateRanges(pos, a)
}

// deriveCursor walks the cluster slice counting columns up to x,
// filling in cursor.Pos and the on-double-* flags (CellRow::updateCursor).
func (r *CellRow) deriveCursor(x int) Cursor {
	col := 0
	for i, c := range r.clusters {
		w := c.width
		if w == 0 {
			w = 1
		}
		if col+w > x {
			cur := Cursor{X: x, Pos: uint32(i)}
			if w == 2 {
				if x == col {
					cur.Flags |= CursorOnDblLeft
				} else {
					cur.Flags |= CursorOnDblRight
				}
			}
			return cur
		}
		col += w
	}
	return Cursor{X: x, Pos: uint32(len(r.clusters))}
}

// Insert inserts one blank column at x, splitting an unaligned double
// first if needed, and shifts the remainder of the row right.
func (r *CellRow) Insert(x int) {
	cur := r.deriveCursor(x)
	pos := cur.Pos
	if cur.Flags&CursorOnDblRight != 0 {
		r.splitDoubleAt(pos)
		pos++
	}
	blank := cluster{text: " ", width: 1}
	tail := append([]cluster{blank}, r.clusters[pos:]...)
	r.clusters = append(r.clusters[:pos], tail...)
	r.shiftRangesForInsertAt(pos)
	r.columns++
}

// Remove deletes the column at x, splitting an unaligned double first
// if needed, and shifts the remainder of the row left.
func (r *CellRow) Remove(x int) {
	cur := r.deriveCursor(x)
	pos := cur.Pos
	if cur.Flags&(CursorOnDblLeft|CursorOnDblRight) != 0 {
		r.splitDoubleAt(pos)
		if cur.Flags&CursorOnDblRight != 0 {
			pos++
		}
	}
	if int(pos) >= len(r.clusters) {
		return
	}
	w := r.clusters[pos].width
	r.clusters = append(r.clusters[:pos], r.clusters[pos+1:]...)
	r.shiftRangesForRemoveAt(pos)
	r.columns -= int32(w)
}

// Resize truncates the row to x columns, dropping ranges past the new
// end and truncating ranges that straddle it.
func (r *CellRow) Resize(x int) {
	if int(r.columns) <= x {
		return
	}
	cur := r.deriveCursor(x)
	pos := cur.Pos
	if cur.Flags&CursorOnDblRight != 0 {
		pos++ // the left half (pos-1) is fully retained; drop from the pad
	}
	r.clusters = r.clusters[:pos]

	out := r.ranges[:0]
	for _, rg := range r.ranges {
		if rg.First >= pos {
			continue
		}
		if rg.Last >= pos {
			rg.Last = pos - 1
		}
		out = append(out, rg)
	}
	r.ranges = out
	r.columns = int32(x)
}

// EraseRange replaces [startx,endx) with spaces and default attributes.
func (r *CellRow) EraseRange(startx, endx int) {
	r.eraseRange(startx, endx, false)
}

// SelectiveErase is EraseRange but cells whose range carries FlagProtected
// are left untouched (DECSED/DECSEL).
func (r *CellRow) SelectiveErase(startx, endx int) {
	r.eraseRange(startx, endx, true)
}

func (r *CellRow) eraseRange(startx, endx int, selective bool) {
	if int(r.columns) > endx {
		// leave trailing columns alone
	} else {
		endx = int(r.columns)
	}
	if startx < 0 {
		startx = 0
	}
	if startx >= endx {
		return
	}
	start := r.deriveCursor(startx)
	end := r.deriveCursor(endx)

	for i := start.Pos; i < end.Pos && int(i) < len(r.clusters); i++ {
		if selective && r.attrAt(i).Flags&FlagProtected != 0 {
			continue
		}
		r.clusters[i] = cluster{text: " ", width: 1}
		r.updateRanges(i, CellAttributes{})
	}
}

package vt

import "testing"

func TestCellRowAppendCoalescesEqualRuns(t *testing.T) {
	var r CellRow
	bold := CellAttributes{Flags: FlagBold}
	r.Append(bold, "a", 1, false)
	r.Append(bold, "b", 1, false)
	r.Append(bold, "c", 1, false)

	if got := r.NumRanges(); got != 1 {
		t.Fatalf("NumRanges() = %d, want 1 (equal attrs should coalesce)", got)
	}
	ranges := r.Ranges()
	if ranges[0].First != 0 || ranges[0].Last != 2 {
		t.Fatalf("range = %+v, want First=0 Last=2", ranges[0])
	}
	if r.Str() != "abc" {
		t.Fatalf("Str() = %q, want %q", r.Str(), "abc")
	}
	if r.Columns() != 3 {
		t.Fatalf("Columns() = %d, want 3", r.Columns())
	}
}

func TestCellRowAppendSplitsOnAttrChange(t *testing.T) {
	var r CellRow
	bold := CellAttributes{Flags: FlagBold}
	italic := CellAttributes{Flags: FlagItalics}
	r.Append(bold, "a", 1, false)
	r.Append(italic, "b", 1, false)
	r.Append(bold, "c", 1, false)

	if got := r.NumRanges(); got != 3 {
		t.Fatalf("NumRanges() = %d, want 3 distinct runs", got)
	}
}

func TestCellRowAppendDefaultAttrsLeavesNoRange(t *testing.T) {
	var r CellRow
	r.Append(CellAttributes{}, "x", 1, false)
	if got := r.NumRanges(); got != 0 {
		t.Fatalf("NumRanges() = %d, want 0 for default attributes", got)
	}
}

func TestCellRowReplaceMiddleOfRangeSplitsIt(t *testing.T) {
	var r CellRow
	bold := CellAttributes{Flags: FlagBold}
	for _, ch := range "abcde" {
		r.Append(bold, string(ch), 1, false)
	}
	cur := Cursor{X: 2, Pos: 2}
	r.Replace(&cur, CellAttributes{}, "X", 1)

	if r.Str() != "abXde" {
		t.Fatalf("Str() = %q, want %q", r.Str(), "abXde")
	}
	if got := r.NumRanges(); got != 2 {
		t.Fatalf("NumRanges() = %d, want 2 (bold run split around the plain cell)", got)
	}
	for _, rg := range r.Ranges() {
		if rg.First <= 2 && rg.Last >= 2 {
			t.Fatalf("range %+v still covers the replaced cluster", rg)
		}
	}
}

func TestCellRowInsertShiftsRanges(t *testing.T) {
	var r CellRow
	bold := CellAttributes{Flags: FlagBold}
	r.Append(CellAttributes{}, "a", 1, false)
	r.Append(bold, "b", 1, false)
	r.Append(bold, "c", 1, false)

	r.Insert(0)
	if r.Str() != " abc" {
		t.Fatalf("Str() = %q, want %q", r.Str(), " abc")
	}
	ranges := r.Ranges()
	if len(ranges) != 1 || ranges[0].First != 2 || ranges[0].Last != 3 {
		t.Fatalf("ranges = %+v, want a single [2,3] bold run after the insert", ranges)
	}
}

func TestCellRowRemoveShrinksRanges(t *testing.T) {
	var r CellRow
	bold := CellAttributes{Flags: FlagBold}
	for _, ch := range "abc" {
		r.Append(bold, string(ch), 1, false)
	}
	r.Remove(1)
	if r.Str() != "ac" {
		t.Fatalf("Str() = %q, want %q", r.Str(), "ac")
	}
	if got := r.Columns(); got != 2 {
		t.Fatalf("Columns() = %d, want 2", got)
	}
}

func TestCellRowEraseRangeRestoresDefaults(t *testing.T) {
	var r CellRow
	bold := CellAttributes{Flags: FlagBold}
	for _, ch := range "abcd" {
		r.Append(bold, string(ch), 1, false)
	}
	r.EraseRange(1, 3)
	if got := r.NumRanges(); got != 2 {
		t.Fatalf("NumRanges() = %d, want 2 (bold survives at the two ends)", got)
	}
	if r.Str() != "a  d" {
		t.Fatalf("Str() = %q, want %q", r.Str(), "a  d")
	}
}

func TestCellRowResizeTruncatesRanges(t *testing.T) {
	var r CellRow
	bold := CellAttributes{Flags: FlagBold}
	for _, ch := range "abcdef" {
		r.Append(bold, string(ch), 1, false)
	}
	r.Resize(3)
	if r.Columns() != 3 {
		t.Fatalf("Columns() = %d, want 3", r.Columns())
	}
	for _, rg := range r.Ranges() {
		if rg.Last >= 3 {
			t.Fatalf("range %+v extends past the new width", rg)
		}
	}
}

func TestCellRowEraseKeepsModTimeClearDoesNot(t *testing.T) {
	var r CellRow
	r.ModTime = 42
	r.Append(CellAttributes{}, "x", 1, false)
	r.Erase()
	if r.ModTime != 42 {
		t.Fatalf("Erase() must not touch ModTime, got %d", r.ModTime)
	}
	if !r.IsEmpty() {
		t.Fatalf("Erase() should leave the row empty")
	}
	r.Clear()
	if r.ModTime != 0 {
		t.Fatalf("Clear() should zero ModTime, got %d", r.ModTime)
	}
}

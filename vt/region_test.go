package vt

import "testing"

func TestRegionTakePutReference(t *testing.T) {
	r := NewRegion(RegionJob, InvalidRegionID)
	if r.RefCount != 1 {
		t.Fatalf("RefCount = %d, want 1 on construction", r.RefCount)
	}
	r.TakeReference()
	if r.RefCount != 2 {
		t.Fatalf("RefCount = %d, want 2 after TakeReference", r.RefCount)
	}
	if r.PutReference() {
		t.Fatalf("PutReference() should not report zero yet")
	}
	if !r.PutReference() {
		t.Fatalf("PutReference() should report zero on the final release")
	}
}

func TestRegionOverlapsDisjoint(t *testing.T) {
	a := NewRegion(RegionUser, InvalidRegionID)
	a.BeginAtX(0, 0)
	a.EndAtX(1, 5)

	b := NewRegion(RegionUser, InvalidRegionID)
	b.BeginAtX(3, 0)
	b.EndAtX(4, 5)

	if a.Overlaps(b) {
		t.Fatalf("regions on disjoint rows must not overlap")
	}
}

func TestRegionOverlapsAdjacentSameRowNoOverlap(t *testing.T) {
	a := NewRegion(RegionUser, InvalidRegionID)
	a.BeginAtX(0, 0)
	a.EndAtX(1, 5)

	b := NewRegion(RegionUser, InvalidRegionID)
	b.BeginAtX(1, 5) // starts exactly where a ends
	b.EndAtX(2, 0)

	if a.Overlaps(b) {
		t.Fatalf("a region starting exactly where another ends should not overlap")
	}
}

func TestRegionWireTypePacksTypeAndBuffer(t *testing.T) {
	r := NewRegion(RegionImage, InvalidRegionID)
	r.BufID = BufAlt
	got := r.WireType()
	want := uint16(RegionImage)<<8 | uint16(BufAlt)
	if got != want {
		t.Fatalf("WireType() = %#x, want %#x", got, want)
	}
}

func TestRegionBeginEndFlags(t *testing.T) {
	r := NewRegion(RegionOutput, InvalidRegionID)
	if r.Flags&RegionHasStart != 0 {
		t.Fatalf("a fresh region should not carry RegionHasStart")
	}
	r.Begin(3)
	if r.Flags&RegionHasStart == 0 {
		t.Fatalf("Begin() should set RegionHasStart")
	}
	r.End(5)
	if r.Flags&RegionHasEnd == 0 {
		t.Fatalf("End() should set RegionHasEnd")
	}
	if r.StartRow != 3 || r.EndRow != 5 {
		t.Fatalf("StartRow/EndRow = %d/%d, want 3/5", r.StartRow, r.EndRow)
	}
}

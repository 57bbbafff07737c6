package vt

import "testing"

func TestTermBufferRowRoundTrip(t *testing.T) {
	clock := int64(1)
	b := NewTermBuffer(BufNormal, 4, 2, &clock) // capacity 4
	row := b.Row(0)
	row.Append(CellAttributes{}, "x", 1, false)

	if got := b.ConstRow(0).Str(); got != "x" {
		t.Fatalf("ConstRow(0).Str() = %q, want %q", got, "x")
	}
	changed := b.ChangedRows()
	if len(changed) != 1 || changed[0] != 0 {
		t.Fatalf("ChangedRows() = %v, want [0]", changed)
	}
	b.ResetEventState()
	if len(b.ChangedRows()) != 0 {
		t.Fatalf("ChangedRows() after reset should be empty")
	}
}

func TestTermBufferRowWrapsAroundRingCapacity(t *testing.T) {
	clock := int64(1)
	b := NewTermBuffer(BufNormal, 2, 2, &clock) // capacity 4
	if b.Capacity() != 4 {
		t.Fatalf("Capacity() = %d, want 4", b.Capacity())
	}
	// index() must wrap modulo capacity, not panic past len(rows).
	r1 := b.ConstRow(0)
	r2 := b.ConstRow(4) // same slot as row 0
	if r1 != r2 {
		t.Fatalf("ConstRow(0) and ConstRow(4) should alias the same ring slot")
	}
}

func TestTermBufferAddRegionAssignsIncrementingIDs(t *testing.T) {
	clock := int64(1)
	b := NewTermBuffer(BufNormal, 10, 4, &clock)
	r1 := NewRegion(RegionJob, InvalidRegionID)
	r1.Begin(0)
	b.AddRegion(r1)
	r2 := NewRegion(RegionJob, InvalidRegionID)
	r2.Begin(1)
	b.AddRegion(r2)

	if r1.ID == r2.ID {
		t.Fatalf("two regions got the same id %d", r1.ID)
	}
	if r1.BufID != BufNormal || r2.BufID != BufNormal {
		t.Fatalf("AddRegion must stamp the owning buffer id")
	}
	changed := b.ChangedRegions()
	if len(changed) != 2 {
		t.Fatalf("ChangedRegions() = %v, want 2 entries", changed)
	}
}

func TestTermBufferPullRegionsOverlapWindow(t *testing.T) {
	clock := int64(1)
	b := NewTermBuffer(BufNormal, 10, 4, &clock)
	r := NewRegion(RegionJob, InvalidRegionID)
	r.Begin(5)
	r.End(8)
	b.AddRegion(r)

	if ids := b.PullRegions(0, 5); len(ids) != 0 {
		t.Fatalf("PullRegions(0,5) = %v, want none (region starts at row 5)", ids)
	}
	if ids := b.PullRegions(6, 7); len(ids) != 1 {
		t.Fatalf("PullRegions(6,7) = %v, want the region (it spans 5..8)", ids)
	}
	if ids := b.PullRegions(9, 20); len(ids) != 0 {
		t.Fatalf("PullRegions(9,20) = %v, want none (region ended at row 8)", ids)
	}
}

func TestTermBufferPullRegionsUnionsParentJob(t *testing.T) {
	clock := int64(1)
	b := NewTermBuffer(BufNormal, 10, 4, &clock)
	job := NewRegion(RegionJob, InvalidRegionID)
	job.Begin(5)
	b.AddRegion(job)
	cmd := NewRegion(RegionCommand, job.ID)
	cmd.Begin(6)
	cmd.End(6)
	b.AddRegion(cmd)

	ids := b.PullRegions(6, 7)
	if len(ids) != 2 {
		t.Fatalf("PullRegions(6,7) = %v, want the command region plus its parent job", ids)
	}
	var sawCmd, sawJob bool
	for _, id := range ids {
		switch id {
		case cmd.ID:
			sawCmd = true
		case job.ID:
			sawJob = true
		}
	}
	if !sawCmd || !sawJob {
		t.Fatalf("PullRegions(6,7) = %v, want {cmd=%d, job=%d}", ids, cmd.ID, job.ID)
	}
}

func TestTermBufferRemoveRegionsEvictsOnStartRowOnly(t *testing.T) {
	clock := int64(1)
	b := NewTermBuffer(BufNormal, 10, 4, &clock)
	r := NewRegion(RegionJob, InvalidRegionID)
	r.Begin(2)
	r.End(3) // region ended, but its start row hasn't scrolled off yet
	b.AddRegion(r)

	b.RemoveRegions(2, 0) // start row itself is still retained (>= check)
	if b.Region(r.ID) == nil {
		t.Fatalf("region evicted too early: its start row is still within the window")
	}

	b.RemoveRegions(3, 0) // start row (2) has now scrolled off
	if b.Region(r.ID) != nil {
		t.Fatalf("region should have been evicted once its start row left the window")
	}
}

func TestTermBufferAddUserRegionRejectsOverlap(t *testing.T) {
	clock := int64(1)
	b := NewTermBuffer(BufNormal, 10, 4, &clock)
	r1 := NewRegion(RegionUser, InvalidRegionID)
	r1.BeginAtX(0, 0)
	r1.EndAtX(2, 5)
	if id := b.AddUserRegion(r1); id == InvalidRegionID {
		t.Fatalf("first user region should have been accepted")
	}

	r2 := NewRegion(RegionUser, InvalidRegionID)
	r2.BeginAtX(1, 0)
	r2.EndAtX(1, 3)
	if id := b.AddUserRegion(r2); id != InvalidRegionID {
		t.Fatalf("overlapping user region should be refused, got id %d", id)
	}
}

func TestTermBufferClearScrollbackKeepsScreenRows(t *testing.T) {
	clock := int64(1)
	b := NewTermBuffer(BufNormal, 2, 4, &clock)
	for i := int64(0); i < 6; i++ {
		b.InsertRow(b.Size())
	}
	if b.Size() != 6 {
		t.Fatalf("Size() = %d, want 6 after six inserts", b.Size())
	}
	changed := b.ClearScrollback()
	if !changed {
		t.Fatalf("ClearScrollback() should report a change when size > screen height")
	}
	if b.Size() != 2 {
		t.Fatalf("Size() = %d, want 2 (screen height) after ClearScrollback", b.Size())
	}
}

package vt

import "testing"

func TestTermTabStopsDefaultEveryEightColumns(t *testing.T) {
	ts := NewTermTabStops(20)
	if got := ts.Next(0); got != 8 {
		t.Fatalf("Next(0) = %d, want 8", got)
	}
	if got := ts.Next(8); got != 16 {
		t.Fatalf("Next(8) = %d, want 16", got)
	}
	if got := ts.Next(16); got != 20 {
		t.Fatalf("Next(16) = %d, want 20 (width, no stop remains)", got)
	}
}

func TestTermTabStopsSetAndClear(t *testing.T) {
	ts := NewTermTabStops(20)
	ts.Set(5)
	if got := ts.Next(0); got != 5 {
		t.Fatalf("Next(0) after Set(5) = %d, want 5", got)
	}
	ts.Clear(5)
	if got := ts.Next(0); got != 8 {
		t.Fatalf("Next(0) after Clear(5) = %d, want 8", got)
	}
}

func TestTermTabStopsClearAll(t *testing.T) {
	ts := NewTermTabStops(20)
	ts.ClearAll()
	if got := ts.Next(0); got != 20 {
		t.Fatalf("Next(0) after ClearAll = %d, want 20 (width)", got)
	}
}

func TestTermTabStopsAdvance(t *testing.T) {
	ts := NewTermTabStops(20)
	if got := ts.Advance(0, 2); got != 16 {
		t.Fatalf("Advance(0,2) = %d, want 16", got)
	}
	if got := ts.Advance(0, 3); got != 20 {
		t.Fatalf("Advance(0,3) = %d, want 20 (clamped to width)", got)
	}
}

func TestTermTabStopsRetreat(t *testing.T) {
	ts := NewTermTabStops(20)
	if got := ts.Retreat(18, 1); got != 16 {
		t.Fatalf("Retreat(18,1) = %d, want 16", got)
	}
	if got := ts.Retreat(18, 3); got != 0 {
		t.Fatalf("Retreat(18,3) = %d, want 0 (clamped)", got)
	}
}

func TestTermTabStopsResetRebuildsDefaultLayout(t *testing.T) {
	ts := NewTermTabStops(20)
	ts.Set(3)
	ts.Reset(16)
	if got := ts.Next(0); got != 8 {
		t.Fatalf("Next(0) after Reset = %d, want 8 (custom stop discarded)", got)
	}
	if got := ts.Next(8); got != 16 {
		t.Fatalf("Next(8) after Reset(16) = %d, want 16 (new width)", got)
	}
}

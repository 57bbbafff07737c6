package server

import (
	"testing"

	"github.com/muxterm/termd/vt"
	"github.com/muxterm/termd/wire"
)

func TestBuildFramesWrapsInBeginEndOutput(t *testing.T) {
	term := vt.New(10, 2, 4)
	term.Write([]byte("hi"), 1)

	term.Lock()
	frames := buildFrames(term.Emulator())
	term.Unlock()

	if len(frames) < 2 {
		t.Fatalf("expected at least BeginOutput/EndOutput, got %d frames", len(frames))
	}
	if frames[0].Command != wire.CmdBeginOutput {
		t.Fatalf("frames[0].Command = %v, want CmdBeginOutput", frames[0].Command)
	}
	last := frames[len(frames)-1]
	if last.Command != wire.CmdEndOutput {
		t.Fatalf("last frame Command = %v, want CmdEndOutput", last.Command)
	}
}

func TestBuildFramesEmitsRowUpdateForTouchedRow(t *testing.T) {
	term := vt.New(10, 2, 4)
	term.Write([]byte("hi"), 1)

	term.Lock()
	frames := buildFrames(term.Emulator())
	term.Unlock()

	var sawRow, sawCursor bool
	for _, f := range frames {
		switch f.Command {
		case wire.CmdRowUpdate:
			sawRow = true
		case wire.CmdCursorUpdate:
			sawCursor = true
		}
	}
	if !sawRow {
		t.Fatalf("expected a CmdRowUpdate frame after writing to row 0")
	}
	if !sawCursor {
		t.Fatalf("expected a CmdCursorUpdate frame after the cursor moved")
	}
}

func TestBuildFramesSecondEmptyBurstOmitsRowUpdate(t *testing.T) {
	term := vt.New(10, 2, 4)
	term.Write([]byte("hi"), 1)
	term.Lock()
	buildFrames(term.Emulator()) // drain the first burst's changed-row set
	term.Unlock()

	term.Write([]byte{}, 2)
	term.Lock()
	frames := buildFrames(term.Emulator())
	term.Unlock()

	for _, f := range frames {
		if f.Command == wire.CmdRowUpdate {
			t.Fatalf("an empty burst after a drained event-state should not re-emit row updates")
		}
	}
}

func TestBuildFramesEmitsAttributeUpdateForChangedAttribute(t *testing.T) {
	term := vt.New(10, 2, 4)
	term.Emulator().Event.SetAttribute("title", "hello")

	term.Lock()
	frames := buildFrames(term.Emulator())
	term.Unlock()

	var found bool
	for _, f := range frames {
		if f.Command == wire.CmdAttributeUpdate {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a CmdAttributeUpdate frame for a pending changed attribute")
	}
}

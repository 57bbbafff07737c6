package vt

import "testing"

func TestTerminalPlainTextWritesRow(t *testing.T) {
	term := New(10, 3, 4)
	term.Write([]byte("hi"), 1)

	row := term.Emulator().Screen().ConstRowAt(0)
	if got := row.Str(); got != "hi" {
		t.Fatalf("row 0 = %q, want %q", got, "hi")
	}
	cur := term.Emulator().Screen().Cursor()
	if cur.X != 2 || cur.Y != 0 {
		t.Fatalf("cursor = %+v, want X=2 Y=0", cur)
	}
}

func TestTerminalSGRBoldSingleRange(t *testing.T) {
	term := New(10, 3, 4)
	term.Write([]byte("\x1b[1mbold\x1b[0m"), 1)

	row := term.Emulator().Screen().ConstRowAt(0)
	if got := row.Str(); got != "bold" {
		t.Fatalf("row 0 = %q, want %q", got, "bold")
	}
	ranges := row.Ranges()
	if len(ranges) != 1 {
		t.Fatalf("NumRanges() = %d, want 1 (one bold run)", len(ranges))
	}
	if ranges[0].First != 0 || ranges[0].Last != 3 {
		t.Fatalf("range = %+v, want First=0 Last=3", ranges[0])
	}
	if ranges[0].Attrs.Flags&FlagBold == 0 {
		t.Fatalf("range attrs missing FlagBold: %+v", ranges[0].Attrs)
	}
}

func TestTerminalAutowrapProducesContinuationRow(t *testing.T) {
	term := New(4, 3, 4)
	term.Write([]byte("abcde"), 1)

	scr := term.Emulator().Screen()
	row0 := scr.ConstRowAt(0)
	row1 := scr.ConstRowAt(1)
	if row0.Str() != "abcd" {
		t.Fatalf("row 0 = %q, want %q", row0.Str(), "abcd")
	}
	if row1.Str() != "e" {
		t.Fatalf("row 1 = %q, want %q", row1.Str(), "e")
	}
	if row1.Flags&LineContinuation == 0 {
		t.Fatalf("row 1 should carry LineContinuation after an autowrap")
	}
}

func TestTerminalOSC133JobRegionCycle(t *testing.T) {
	term := New(20, 5, 4)
	term.Write([]byte("\x1b]133;A\x07$ \x1b]133;B\x07cmd\x1b]133;C\x07"), 1)
	term.Write([]byte("output\n\x1b]133;D;0\x07"), 2)

	buf := term.Emulator().Normal()
	ids := buf.ChangedRegions()
	if len(ids) == 0 {
		t.Fatalf("expected at least one region to be reported as changed")
	}

	var job *Region
	for _, id := range ids {
		r := buf.Region(id)
		if r != nil && r.Type == RegionJob {
			job = r
		}
	}
	if job == nil {
		t.Fatalf("no job region found among changed regions %v", ids)
	}
	if job.Flags&RegionHasEnd == 0 {
		t.Fatalf("job region should be closed (OSC 133 D) by now")
	}
	if rc, ok := job.Attributes["rc"]; !ok || rc != "0" {
		t.Fatalf("job region rc attribute = %q, ok=%v, want \"0\"", rc, ok)
	}
}

func TestTerminalOSCPaletteQueryReply(t *testing.T) {
	term := New(10, 3, 4)
	var reply []byte
	term.Emulator().Reply = func(b []byte) { reply = append(reply, b...) }

	term.Write([]byte("\x1b]4;1;?\x07"), 1)

	if len(reply) == 0 {
		t.Fatalf("expected a reply to an OSC 4 palette query")
	}
	want := "\x1b]4;1;rgb:cdcd/0000/0000\x07"
	if string(reply) != want {
		t.Fatalf("reply = %q, want %q", reply, want)
	}
}

func TestTerminalDA1ReplyFormat(t *testing.T) {
	term := New(10, 3, 4)
	var reply []byte
	term.Emulator().Reply = func(b []byte) { reply = append(reply, b...) }

	term.Write([]byte("\x1b[c"), 1)

	want := "\x1b[?64;1;2;6;9;15;18;21;22c"
	if string(reply) != want {
		t.Fatalf("reply = %q, want %q", reply, want)
	}
}

func TestTerminalDECRQMReportsTrackedModeState(t *testing.T) {
	term := New(10, 3, 4)
	var reply []byte
	term.Emulator().Reply = func(b []byte) { reply = append(reply, b...) }

	// Autowrap (mode 7) defaults on; DECRQM should report "set" (1).
	term.Write([]byte("\x1b[?7$p"), 1)
	if want := "\x1b[?7;1$y"; string(reply) != want {
		t.Fatalf("DECRQM(7) reply = %q, want %q", reply, want)
	}

	reply = nil
	term.Write([]byte("\x1b[?7l\x1b[?7$p"), 2) // RM autowrap, then re-query
	if want := "\x1b[?7;2$y"; string(reply) != want {
		t.Fatalf("DECRQM(7) after reset reply = %q, want %q", reply, want)
	}
}

func TestTerminalDECRQMReportsUnimplementedDeccolmPermanentlyReset(t *testing.T) {
	term := New(10, 3, 4)
	var reply []byte
	term.Emulator().Reply = func(b []byte) { reply = append(reply, b...) }

	term.Write([]byte("\x1b[?3$p"), 1)
	want := "\x1b[?3;3$y"
	if string(reply) != want {
		t.Fatalf("DECRQM(3) reply = %q, want %q (permanently reset)", reply, want)
	}
}

func TestTerminalDECRQMTracksAltScreenMode47(t *testing.T) {
	term := New(10, 3, 4)
	var reply []byte
	term.Emulator().Reply = func(b []byte) { reply = append(reply, b...) }

	term.Write([]byte("\x1b[?47h\x1b[?47$p"), 1)
	want := "\x1b[?47;1$y"
	if string(reply) != want {
		t.Fatalf("DECRQM(47) after DECSET reply = %q, want %q", reply, want)
	}
	if !term.Emulator().UsingAlt() {
		t.Fatalf("DECSET 47 should switch to the alternate screen")
	}
}

package server

import (
	"bytes"
	"encoding/binary"

	"github.com/muxterm/termd/vt"
	"github.com/muxterm/termd/wire"
)

// buildFrames walks one terminal's event-state and produces the
// differential update frames spec §4.6 describes, in the fixed
// emission order, wrapped in BEGIN_OUTPUT/END_OUTPUT sentinels. Called
// once per input burst while the terminal's state lock is held.
func buildFrames(e *vt.TermEmulator) []wire.Frame {
	ev := e.Event
	var frames []wire.Frame
	frames = append(frames, wire.Frame{Command: wire.CmdBeginOutput})

	if ev.FlagsChanged {
		frames = append(frames, flagsFrame(e))
	}

	bufID := e.ActiveBufferID()
	if ev.BufferChanged {
		frames = append(frames, bufferSizeFrame(e.Normal()))
		frames = append(frames, bufferSizeFrame(e.Alt()))
	}

	if ev.BufferSwitched {
		frames = append(frames, wire.Frame{Command: wire.CmdBufferSwitch, Payload: []byte{bufID}})
	}
	if ev.SizeChanged {
		frames = append(frames, sizeFrame(e.Screen()))
	}
	if ev.CursorChanged {
		frames = append(frames, cursorFrame(e.Screen().Cursor()))
	}
	if ev.BellCount > 0 {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(ev.BellCount))
		frames = append(frames, wire.Frame{Command: wire.CmdBellUpdate, Payload: b[:]})
	}

	frames = append(frames, regionFrames(e.Normal())...)
	frames = append(frames, regionFrames(e.Alt())...)
	frames = append(frames, rowFrames(e.Normal())...)
	frames = append(frames, rowFrames(e.Alt())...)

	for k, v := range ev.ChangedAttributes {
		frames = append(frames, attributeFrame(k, v))
	}

	frames = append(frames, wire.Frame{Command: wire.CmdEndOutput})
	return frames
}

func flagsFrame(e *vt.TermEmulator) wire.Frame {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(e.Modes()))
	return wire.Frame{Command: wire.CmdFlagsUpdate, Payload: b[:]}
}

// bufferSizeFrame reports a buffer's current length and capacity order
// in one frame (spec §4.6 "prefer the capacity message if both
// changed" — capacity implies length, so a single combined frame
// always suffices).
func bufferSizeFrame(b *vt.TermBuffer) wire.Frame {
	payload := make([]byte, 10)
	binary.LittleEndian.PutUint64(payload[0:8], uint64(b.Size()))
	payload[8] = b.ID()
	payload[9] = b.Caporder()
	return wire.Frame{Command: wire.CmdBufferCapacity, Payload: payload}
}

func sizeFrame(s *vt.TermScreen) wire.Frame {
	m := s.Margins()
	payload := make([]byte, 24)
	putI32(payload[0:4], int32(s.Width()))
	putI32(payload[4:8], int32(s.Height()))
	putI32(payload[8:12], int32(m.Left))
	putI32(payload[12:16], int32(m.Top))
	putI32(payload[16:20], int32(m.Right-m.Left+1))
	putI32(payload[20:24], int32(m.Bottom-m.Top+1))
	return wire.Frame{Command: wire.CmdSizeUpdate, Payload: payload}
}

func cursorFrame(c vt.Cursor) wire.Frame {
	payload := make([]byte, 16)
	putI32(payload[0:4], int32(c.X))
	putI32(payload[4:8], int32(c.Y))
	binary.LittleEndian.PutUint32(payload[8:12], c.Pos)
	binary.LittleEndian.PutUint32(payload[12:16], uint32(c.Flags))
	return wire.Frame{Command: wire.CmdCursorUpdate, Payload: payload}
}

func regionFrames(b *vt.TermBuffer) []wire.Frame {
	ids := b.ChangedRegions()
	frames := make([]wire.Frame, 0, len(ids))
	for _, id := range ids {
		r := b.Region(id)
		if r == nil {
			continue
		}
		frames = append(frames, regionFrame(r))
	}
	return frames
}

func regionFrame(r *vt.Region) wire.Frame {
	var buf bytes.Buffer
	var head [38]byte
	binary.LittleEndian.PutUint32(head[0:4], uint32(r.ID))
	binary.LittleEndian.PutUint16(head[4:6], r.WireType())
	binary.LittleEndian.PutUint32(head[6:10], uint32(r.Flags))
	binary.LittleEndian.PutUint32(head[10:14], uint32(r.Parent))
	binary.LittleEndian.PutUint64(head[14:22], uint64(r.StartRow))
	binary.LittleEndian.PutUint64(head[22:30], uint64(r.EndRow))
	putI32(head[30:34], r.StartCol)
	putI32(head[34:38], r.EndCol)
	buf.Write(head[:])

	for k, v := range r.Attributes {
		buf.WriteString(k)
		buf.WriteByte(0)
		buf.WriteString(v)
		buf.WriteByte(0)
	}
	return wire.Frame{Command: wire.CmdRegionUpdate, Payload: buf.Bytes()}
}

func rowFrames(b *vt.TermBuffer) []wire.Frame {
	rows := b.ChangedRows()
	frames := make([]wire.Frame, 0, len(rows))
	for _, i := range rows {
		row := b.ConstRow(i)
		frames = append(frames, rowFrame(b.ID(), i, row))
	}
	return frames
}

func rowFrame(bufID uint8, index int64, row *vt.CellRow) wire.Frame {
	var buf bytes.Buffer
	var head [24]byte
	binary.LittleEndian.PutUint64(head[0:8], uint64(index))
	binary.LittleEndian.PutUint32(head[8:12], uint32(row.Flags)|uint32(bufID))
	binary.LittleEndian.PutUint64(head[12:20], uint64(row.ModTime))
	binary.LittleEndian.PutUint32(head[20:24], uint32(row.NumRanges()))
	buf.Write(head[:])

	for _, rg := range row.Ranges() {
		var rb [24]byte
		binary.LittleEndian.PutUint32(rb[0:4], rg.First)
		binary.LittleEndian.PutUint32(rb[4:8], rg.Last)
		binary.LittleEndian.PutUint32(rb[8:12], uint32(rg.Attrs.Flags))
		binary.LittleEndian.PutUint32(rb[12:16], rg.Attrs.Fg)
		binary.LittleEndian.PutUint32(rb[16:20], rg.Attrs.Bg)
		binary.LittleEndian.PutUint32(rb[20:24], uint32(rg.Attrs.Link))
		buf.Write(rb[:])
	}
	buf.WriteString(row.Str())
	return wire.Frame{Command: wire.CmdRowUpdate, Payload: buf.Bytes()}
}

func attributeFrame(key, value string) wire.Frame {
	var buf bytes.Buffer
	buf.WriteString(key)
	buf.WriteByte(0)
	buf.WriteString(value)
	return wire.Frame{Command: wire.CmdAttributeUpdate, Payload: buf.Bytes()}
}

func putI32(b []byte, v int32) { binary.LittleEndian.PutUint32(b, uint32(v)) }

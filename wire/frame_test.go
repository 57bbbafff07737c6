package wire

import (
	"bytes"
	"testing"
)

func TestRawProtocolRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	p := NewRawProtocol(&buf)

	f := Frame{Command: CmdSendInput, Payload: []byte("hello")}
	if err := p.WriteFrame(f); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	got, err := p.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if got.Command != f.Command {
		t.Fatalf("Command = %v, want %v", got.Command, f.Command)
	}
	if string(got.Payload) != "hello" {
		t.Fatalf("Payload = %q, want %q", got.Payload, "hello")
	}
}

func TestRawProtocolEmptyPayload(t *testing.T) {
	var buf bytes.Buffer
	p := NewRawProtocol(&buf)
	if err := p.WriteFrame(Frame{Command: CmdKeepalive}); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	got, err := p.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if got.Command != CmdKeepalive || len(got.Payload) != 0 {
		t.Fatalf("got %+v, want CmdKeepalive with empty payload", got)
	}
}

func TestRawProtocolPadsPayloadToFourBytes(t *testing.T) {
	var buf bytes.Buffer
	p := NewRawProtocol(&buf)
	if err := p.WriteFrame(Frame{Command: CmdSendInput, Payload: []byte("x")}); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	// header (8) + padded payload (4, since 1 rounds up to 4).
	if buf.Len() != 12 {
		t.Fatalf("wire length = %d, want 12 (8-byte header + 4-byte padded body)", buf.Len())
	}
}

func TestRawProtocolRejectsOversizeBody(t *testing.T) {
	var buf bytes.Buffer
	p := NewRawProtocol(&buf)
	err := p.WriteFrame(Frame{Command: CmdSendInput, Payload: make([]byte, MaxFrameBody+1)})
	if err == nil {
		t.Fatalf("expected an error writing an oversize frame body")
	}
	if _, ok := err.(*ResourceLimitError); !ok {
		t.Fatalf("err = %v (%T), want *ResourceLimitError", err, err)
	}
}

func TestRawProtocolMultipleFramesInSequence(t *testing.T) {
	var buf bytes.Buffer
	p := NewRawProtocol(&buf)
	frames := []Frame{
		{Command: CmdBeginOutput},
		{Command: CmdRowUpdate, Payload: []byte("row data")},
		{Command: CmdEndOutput},
	}
	for _, f := range frames {
		if err := p.WriteFrame(f); err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
	}
	for _, want := range frames {
		got, err := p.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame: %v", err)
		}
		if got.Command != want.Command || string(got.Payload) != string(want.Payload) {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	}
}

package server

import (
	"io"
	"testing"
	"time"

	"github.com/muxterm/termd/wire"
)

func TestReadUUIDRoundTrip(t *testing.T) {
	id := wire.New()
	payload := append(append([]byte(nil), id[:]...), []byte("trailing")...)
	got, ok := readUUID(payload)
	if !ok {
		t.Fatalf("readUUID reported failure on a well-formed payload")
	}
	if got != id {
		t.Fatalf("readUUID = %v, want %v", got, id)
	}
}

func TestReadUUIDRejectsShortPayload(t *testing.T) {
	if _, ok := readUUID([]byte("short")); ok {
		t.Fatalf("readUUID should reject a payload shorter than 16 bytes")
	}
}

func TestSplitKV(t *testing.T) {
	key, value, ok := splitKV([]byte("title\x00hello"))
	if !ok || key != "title" || value != "hello" {
		t.Fatalf("splitKV = %q, %q, %v; want \"title\", \"hello\", true", key, value, ok)
	}
}

func TestSplitKVRejectsMissingSeparator(t *testing.T) {
	if _, _, ok := splitKV([]byte("no-separator")); ok {
		t.Fatalf("splitKV should fail without a NUL separator")
	}
}

func TestIndexByte(t *testing.T) {
	if got := indexByte([]byte("abc\x00def"), 0); got != 3 {
		t.Fatalf("indexByte = %d, want 3", got)
	}
	if got := indexByte([]byte("abc"), 0); got != -1 {
		t.Fatalf("indexByte = %d, want -1", got)
	}
}

func TestNewListenerAppliesDefaults(t *testing.T) {
	l := NewListener(Config{})
	if l.cfg.DefaultWidth != 80 {
		t.Fatalf("DefaultWidth = %d, want 80", l.cfg.DefaultWidth)
	}
	if l.cfg.DefaultHeight != 24 {
		t.Fatalf("DefaultHeight = %d, want 24", l.cfg.DefaultHeight)
	}
	if l.cfg.DefaultCaporder != 16 {
		t.Fatalf("DefaultCaporder = %d, want 16", l.cfg.DefaultCaporder)
	}
	if l.cfg.Collaborator == nil {
		t.Fatalf("Collaborator should default to ExecCollaborator")
	}
	if l.cfg.KeepaliveInterval != DefaultKeepaliveInterval {
		t.Fatalf("KeepaliveInterval = %v, want default %v", l.cfg.KeepaliveInterval, DefaultKeepaliveInterval)
	}
	if _, ok := l.Attrs.Get("id"); !ok {
		t.Fatalf("Listener should stamp its own id into its attribute map")
	}
}

func TestNewListenerClampsKeepaliveIntervalToMinimum(t *testing.T) {
	l := NewListener(Config{KeepaliveInterval: time.Second})
	if l.cfg.KeepaliveInterval != MinKeepaliveInterval {
		t.Fatalf("KeepaliveInterval = %v, want clamped minimum %v", l.cfg.KeepaliveInterval, MinKeepaliveInterval)
	}
}

// fakePty is a no-op Pty whose Read blocks until Close, so a
// TermInstance's background read loop doesn't race the test's own
// lifecycle calls by exiting (and self-destroying the instance) on
// its own.
type fakePty struct {
	done chan struct{}
}

func newFakePty() *fakePty { return &fakePty{done: make(chan struct{})} }

func (p *fakePty) Read([]byte) (int, error) {
	<-p.done
	return 0, io.EOF
}
func (p *fakePty) Write(b []byte) (int, error)    { return len(b), nil }
func (p *fakePty) Resize(width, height int) error { return nil }
func (p *fakePty) Close() error {
	select {
	case <-p.done:
	default:
		close(p.done)
	}
	return nil
}
func (p *fakePty) Wait() error { return nil }
func (p *fakePty) Pid() int    { return 1234 }

type fakeCollaborator struct{ pty *fakePty }

func (c *fakeCollaborator) Start(argv []string, env []EnvRule, dir string, width, height int) (Pty, error) {
	return c.pty, nil
}

func TestListenerCreateGetDestroyTerm(t *testing.T) {
	collab := &fakeCollaborator{pty: newFakePty()}
	l := NewListener(Config{Collaborator: collab})

	ti, err := l.CreateTerm(nil, nil, "", 80, 24, 4)
	if err != nil {
		t.Fatalf("CreateTerm: %v", err)
	}
	if _, ok := l.GetTerm(ti.ID); !ok {
		t.Fatalf("GetTerm should find a just-created terminal")
	}

	l.DestroyTerm(ti.ID)
	if _, ok := l.GetTerm(ti.ID); ok {
		t.Fatalf("GetTerm should no longer find a destroyed terminal")
	}
}

func TestListenerDispatchSetServerAttribute(t *testing.T) {
	l := NewListener(Config{Collaborator: &fakeCollaborator{pty: newFakePty()}})
	l.Dispatch(nil, wire.Frame{Command: wire.CmdSetServerAttribute, Payload: []byte("region\x00us-east")})

	v, ok := l.Attrs.Get("region")
	if !ok || v != "us-east" {
		t.Fatalf("Get(region) = %q, %v; want \"us-east\", true", v, ok)
	}
}

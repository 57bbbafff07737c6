package server

import (
	"encoding/binary"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/muxterm/termd/wire"
)

// Keepalive timer bounds, spec §4.5: "default 25 s, minimum 5 s".
const (
	DefaultKeepaliveInterval = 25 * time.Second
	MinKeepaliveInterval     = 5 * time.Second
)

// Config bundles the startup knobs cmd/termd's flags resolve to.
type Config struct {
	Listen            string
	PreferTermFraming bool
	DefaultWidth      int
	DefaultHeight     int
	DefaultCaporder   uint8
	KeepaliveInterval time.Duration
	Collaborator      Collaborator
}

// Listener is the server-wide registry: every terminal, every
// connection, and the server's own attribute map, protected by one
// mutex (spec §5 "Shared resources").
type Listener struct {
	ID                wire.UUID
	PreferTermFraming bool
	Attrs             *AttributeMap

	cfg Config
	ln  net.Listener

	mu    sync.RWMutex
	terms map[wire.UUID]*TermInstance
	conns map[wire.UUID]*Connection
}

func NewListener(cfg Config) *Listener {
	if cfg.Collaborator == nil {
		cfg.Collaborator = ExecCollaborator{}
	}
	if cfg.DefaultWidth == 0 {
		cfg.DefaultWidth = 80
	}
	if cfg.DefaultHeight == 0 {
		cfg.DefaultHeight = 24
	}
	if cfg.DefaultCaporder == 0 {
		cfg.DefaultCaporder = 16
	}
	if cfg.KeepaliveInterval == 0 {
		cfg.KeepaliveInterval = DefaultKeepaliveInterval
	}
	if cfg.KeepaliveInterval < MinKeepaliveInterval {
		cfg.KeepaliveInterval = MinKeepaliveInterval
	}
	l := &Listener{
		ID:                wire.New(),
		PreferTermFraming: cfg.PreferTermFraming,
		Attrs:             NewAttributeMap(),
		cfg:               cfg,
		terms:             map[wire.UUID]*TermInstance{},
		conns:             map[wire.UUID]*Connection{},
	}
	_ = l.Attrs.SetInternal("id", l.ID.String())
	return l
}

// Serve accepts connections on addr until the listener is closed.
func (l *Listener) Serve(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	l.ln = ln
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go l.accept(conn)
	}
}

func (l *Listener) accept(conn net.Conn) {
	c, err := Accept(conn, l)
	if err != nil {
		Log.Warn().Err(err).Msg("handshake failed")
		return
	}
	l.mu.Lock()
	l.conns[c.ID] = c
	l.mu.Unlock()
	Log.Info().Str("conn", c.ID.Short()).Str("role", string(c.Role)).Msg("connection established")
}

func (l *Listener) forgetConnection(c *Connection) {
	l.mu.Lock()
	delete(l.conns, c.ID)
	terms := make([]*TermInstance, 0, len(l.terms))
	for _, t := range l.terms {
		terms = append(terms, t)
	}
	l.mu.Unlock()
	for _, t := range terms {
		t.RemoveWatcher(c.ID)
	}
}

func (l *Listener) Close() error {
	l.mu.Lock()
	terms := l.terms
	l.terms = map[wire.UUID]*TermInstance{}
	l.mu.Unlock()
	for _, t := range terms {
		t.Close()
	}
	if l.ln != nil {
		return l.ln.Close()
	}
	return nil
}

// CreateTerm starts a new terminal and registers it.
func (l *Listener) CreateTerm(argv []string, env []EnvRule, dir string, width, height int, caporder uint8) (*TermInstance, error) {
	id := wire.New()
	ti, err := NewTermInstance(id, width, height, caporder, l.cfg.Collaborator, argv, env, dir, AutocloseAlways, l)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.terms[id] = ti
	l.mu.Unlock()
	return ti, nil
}

func (l *Listener) GetTerm(id wire.UUID) (*TermInstance, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.terms[id]
	return t, ok
}

func (l *Listener) DestroyTerm(id wire.UUID) {
	l.mu.Lock()
	t, ok := l.terms[id]
	delete(l.terms, id)
	l.mu.Unlock()
	if ok {
		t.Close()
	}
}

// Dispatch handles one inbound frame from a connection (spec §6).
// Unrecognized commands are answered with a protocol-error disconnect
// rather than silently ignored, per spec §7.
func (l *Listener) Dispatch(c *Connection, f wire.Frame) {
	switch f.Command {
	case wire.CmdKeepalive:
		_ = c.WriteFrame(wire.Frame{Command: wire.CmdKeepalive})

	case wire.CmdDisconnect:
		c.Close()

	case wire.CmdCreateTerm:
		l.handleCreateTerm(c, f.Payload)

	case wire.CmdDestroyTerm:
		if id, ok := readUUID(f.Payload); ok {
			l.DestroyTerm(id)
		}

	case wire.CmdResizeTerm:
		l.handleResizeTerm(f.Payload)

	case wire.CmdSendInput:
		l.handleSendInput(f.Payload)

	case wire.CmdMouseEvent:
		l.handleSendInput(f.Payload)

	case wire.CmdGetTermAttribute:
		l.handleGetTermAttribute(c, f.Payload)

	case wire.CmdSetTermAttribute:
		l.handleSetTermAttribute(f.Payload)

	case wire.CmdGetServerAttribute:
		l.handleGetServerAttribute(c, f.Payload)

	case wire.CmdSetServerAttribute:
		key, value, ok := splitKV(f.Payload)
		if ok {
			_ = l.Attrs.Set(key, value)
		}

	case wire.CmdReset:
		if id, ok := readUUID(f.Payload); ok {
			if t, ok := l.GetTerm(id); ok {
				t.Term.Lock()
				t.Term.Emulator().EscDispatch('c', nil)
				t.Term.Unlock()
			}
		}

	default:
		_ = c.WriteFrame(wire.Frame{Command: wire.CmdDisconnect, Payload: []byte(string(wire.RejectMalformedHello))})
		c.Close()
	}
}

func (l *Listener) handleCreateTerm(c *Connection, payload []byte) {
	if len(payload) < 9 {
		return
	}
	width := int(binary.LittleEndian.Uint32(payload[0:4]))
	height := int(binary.LittleEndian.Uint32(payload[4:8]))
	caporder := payload[8]
	var argv []string
	if len(payload) > 9 {
		for _, s := range strings.Split(string(payload[9:]), "\x00") {
			if s != "" {
				argv = append(argv, s)
			}
		}
	}
	ti, err := l.CreateTerm(argv, nil, "", width, height, caporder)
	if err != nil {
		Log.Warn().Err(err).Msg("create-term failed")
		return
	}
	w := NewWatcher(c)
	ti.AddWatcher(c.ID, w)
	c.Watch(ti.ID, w)
	_ = c.WriteFrame(wire.Frame{Command: wire.CmdAcknowledge, Payload: ti.ID[:]})
}

func (l *Listener) handleResizeTerm(payload []byte) {
	id, ok := readUUID(payload)
	if !ok || len(payload) < 24 {
		return
	}
	width := int(binary.LittleEndian.Uint32(payload[16:20]))
	height := int(binary.LittleEndian.Uint32(payload[20:24]))
	if t, ok := l.GetTerm(id); ok {
		t.Resize(width, height)
	}
}

func (l *Listener) handleSendInput(payload []byte) {
	id, ok := readUUID(payload)
	if !ok {
		return
	}
	if t, ok := l.GetTerm(id); ok {
		_ = t.SendInput(payload[16:])
	}
}

func (l *Listener) handleGetTermAttribute(c *Connection, payload []byte) {
	id, ok := readUUID(payload)
	if !ok {
		return
	}
	key := string(payload[16:])
	t, ok := l.GetTerm(id)
	if !ok {
		return
	}
	value, _ := t.Attrs.Get(key)
	reply := append(append([]byte(key), 0), value...)
	_ = c.WriteFrame(wire.Frame{Command: wire.CmdGetTermAttribute, Payload: reply})
}

func (l *Listener) handleSetTermAttribute(payload []byte) {
	id, ok := readUUID(payload)
	if !ok {
		return
	}
	key, value, ok := splitKV(payload[16:])
	if !ok {
		return
	}
	if t, ok := l.GetTerm(id); ok {
		_ = t.Attrs.Set(key, value)
	}
}

func (l *Listener) handleGetServerAttribute(c *Connection, payload []byte) {
	value, _ := l.Attrs.Get(string(payload))
	reply := append(append(append([]byte(nil), payload...), 0), value...)
	_ = c.WriteFrame(wire.Frame{Command: wire.CmdGetServerAttribute, Payload: reply})
}

func readUUID(payload []byte) (wire.UUID, bool) {
	if len(payload) < 16 {
		return wire.Nil, false
	}
	var id wire.UUID
	copy(id[:], payload[:16])
	return id, true
}

func splitKV(b []byte) (string, string, bool) {
	i := indexByte(b, 0)
	if i < 0 {
		return "", "", false
	}
	return string(b[:i]), string(b[i+1:]), true
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

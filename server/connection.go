package server

import (
	"bufio"
	"io"
	"net"
	"sync"
	"time"

	"github.com/muxterm/termd/wire"
)

// Connection is one accepted client socket, past the handshake: an
// identity, a negotiated framing, and the set of terminals it
// currently watches. Grounded on the goroutine-pair-plus-close-channel
// shape of an established proxy connection (the reader drains the
// socket into the dispatcher, each watched terminal gets its own
// writer goroutine draining that watcher's queue back to the socket),
// adapted here from a single bidirectional copy to a fan-out of many
// terminal streams over one socket.
type Connection struct {
	ID    wire.UUID
	Role  wire.Role
	conn  net.Conn
	proto wire.FrameProtocol

	listener *Listener

	keepalive time.Duration

	writeMu sync.Mutex

	mu       sync.Mutex
	watchers map[wire.UUID]*Watcher

	closed    chan struct{}
	closeOnce sync.Once
}

// Accept performs the handshake on a freshly accepted socket and, on
// success, returns a Connection with its reader loop already started
// in the background (the caller should not also read conn).
func Accept(conn net.Conn, l *Listener) (*Connection, error) {
	br := bufio.NewReader(conn)
	hello, err := wire.ScanHello(br)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	id := wire.New()
	nonce := id.Short()
	if _, err := conn.Write(wire.EncodeHello(wire.RoleServer, l.ID, nonce)); err != nil {
		_ = conn.Close()
		return nil, err
	}

	resp := wire.Negotiate(hello, l.PreferTermFraming)
	if _, err := conn.Write(wire.EncodeResponse(resp)); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if resp.Outcome == wire.OutcomeReject {
		_ = conn.Close()
		return nil, &wire.HandshakeError{Reason: resp.Reason}
	}

	var proto wire.FrameProtocol
	switch resp.Outcome {
	case wire.OutcomeTerm:
		proto = wire.NewTermProtocol(br, conn)
	default:
		proto = wire.NewRawProtocol(&bufReadWriter{r: br, w: conn})
	}

	c := &Connection{
		ID:        hello.ID,
		Role:      hello.Role,
		conn:      conn,
		proto:     proto,
		listener:  l,
		keepalive: l.cfg.KeepaliveInterval,
		watchers:  map[wire.UUID]*Watcher{},
		closed:    make(chan struct{}),
	}
	go c.readLoop()
	go c.keepaliveLoop()
	return c, nil
}

// bufReadWriter adapts a bufio.Reader (which may already hold bytes
// read past the handshake line) plus the raw connection for writes
// into one io.ReadWriter for RawProtocol.
type bufReadWriter struct {
	r *bufio.Reader
	w io.Writer
}

func (b *bufReadWriter) Read(p []byte) (int, error)  { return b.r.Read(p) }
func (b *bufReadWriter) Write(p []byte) (int, error) { return b.w.Write(p) }

// readLoop dispatches inbound frames. Before each read it renews the
// socket's read deadline to twice the negotiated keepalive interval:
// spec §4.5 "absence of any inbound data for twice the negotiated
// keepalive triggers disconnect". Any received frame — including the
// peer's own keepalives — renews it, so only true silence disconnects.
func (c *Connection) readLoop() {
	defer c.Close()
	for {
		_ = c.conn.SetReadDeadline(time.Now().Add(2 * c.keepalive))
		f, err := c.proto.ReadFrame()
		if err != nil {
			return
		}
		c.listener.Dispatch(c, f)
	}
}

// keepaliveLoop emits a zero-length RAW_KEEPALIVE frame on a timer
// (spec §4.5) until the connection closes.
func (c *Connection) keepaliveLoop() {
	t := time.NewTicker(c.keepalive)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			if err := c.WriteFrame(wire.Frame{Command: wire.CmdKeepalive}); err != nil {
				c.Close()
				return
			}
		case <-c.closed:
			return
		}
	}
}

// WriteFrame serializes access to the connection's single outbound
// stream: only one goroutine may call proto.WriteFrame at a time.
func (c *Connection) WriteFrame(f wire.Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.proto.WriteFrame(f)
}

// Watch registers a Watcher for termID and starts its writer goroutine.
func (c *Connection) Watch(termID wire.UUID, w *Watcher) {
	c.mu.Lock()
	c.watchers[termID] = w
	c.mu.Unlock()
	go c.runWriter(w)
}

func (c *Connection) Unwatch(termID wire.UUID) {
	c.mu.Lock()
	w, ok := c.watchers[termID]
	delete(c.watchers, termID)
	c.mu.Unlock()
	if ok {
		w.Close()
	}
}

func (c *Connection) runWriter(w *Watcher) {
	for f := range w.Outbox() {
		n := len(f.Payload) + 8
		if err := c.WriteFrame(f); err != nil {
			c.Close()
			return
		}
		w.Drained(n)
	}
}

func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.conn.Close()
		c.mu.Lock()
		watchers := c.watchers
		c.watchers = map[wire.UUID]*Watcher{}
		c.mu.Unlock()
		for _, w := range watchers {
			w.Close()
		}
		c.listener.forgetConnection(c)
	})
}

func (c *Connection) Done() <-chan struct{} { return c.closed }

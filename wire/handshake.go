package wire

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// MaxHandshakePreamble bounds how much leading junk the scanner will
// discard while looking for an OSC 511 hello line before giving up
// (spec §4.5).
const MaxHandshakePreamble = 8192

const (
	oscStart = "\x1b]511;"
	bel      = 0x07
	esc      = 0x1b
)

// Role identifies which side of a connection sent a hello.
type Role string

const (
	RoleServer Role = "server"
	RoleClient Role = "client"
)

// Outcome is the protocol the hello's recipient chose to install.
type Outcome string

const (
	OutcomeRaw      Outcome = "raw"
	OutcomeTerm     Outcome = "term"
	OutcomeReject   Outcome = "reject"
	OutcomeClientFD Outcome = "clientfd"
	OutcomeServerFD Outcome = "serverfd"
)

// Hello is the parsed content of an `OSC 511 ; role;version;uuid;nonce`
// line exchanged before any framing is agreed.
type Hello struct {
	Role    Role
	Version uint32
	ID      UUID
	Nonce   string
}

// EncodeHello renders the hello line, BEL-terminated (xterm accepts
// either BEL or ST; BEL is one byte and keeps the envelope shorter).
func EncodeHello(role Role, id UUID, nonce string) []byte {
	return []byte(fmt.Sprintf("%s%s;%d;%s;%s\x07", oscStart, role, ProtocolVersion, id.String(), nonce))
}

// Response is what a hello's recipient sends back: its chosen outcome,
// and a reason when that outcome is reject.
type Response struct {
	Outcome Outcome
	Reason  HandshakeRejectReason
}

// EncodeResponse renders the handshake response line.
func EncodeResponse(resp Response) []byte {
	if resp.Outcome == OutcomeReject {
		return []byte(fmt.Sprintf("%s%s;%s\x07", oscStart, resp.Outcome, resp.Reason))
	}
	return []byte(fmt.Sprintf("%s%s\x07", oscStart, resp.Outcome))
}

// ScanHello reads from r byte by byte, discarding up to
// MaxHandshakePreamble bytes of leading junk, until it finds a
// complete `OSC 511 ; ...` line terminated by BEL or ESC \ (ST). It
// returns a *ProtocolError if the preamble budget is exhausted or the
// line is malformed.
func ScanHello(r *bufio.Reader) (*Hello, error) {
	matched := 0
	junk := 0
	var line []byte

	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if matched < len(oscStart) {
			if b == oscStart[matched] {
				matched++
				continue
			}
			// Mismatch: everything consumed so far except what still
			// matches a fresh prefix attempt counts as junk.
			junk += matched + 1
			matched = 0
			if b == oscStart[0] {
				matched = 1
			}
			if junk > MaxHandshakePreamble {
				return nil, &ProtocolError{Reason: "handshake preamble too long"}
			}
			continue
		}
		if b == bel {
			return parseHello(line)
		}
		if b == esc {
			nxt, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			if nxt == '\\' {
				return parseHello(line)
			}
			line = append(line, b, nxt)
			continue
		}
		line = append(line, b)
		if len(line) > MaxHandshakePreamble {
			return nil, &ProtocolError{Reason: "handshake line too long"}
		}
	}
}

func parseHello(line []byte) (*Hello, error) {
	fields := strings.SplitN(string(line), ";", 4)
	if len(fields) != 4 {
		return nil, &ProtocolError{Reason: "malformed hello: expected 4 fields"}
	}
	role := Role(fields[0])
	if role != RoleServer && role != RoleClient {
		return nil, &ProtocolError{Reason: "malformed hello: unknown role " + fields[0]}
	}
	version, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return nil, &ProtocolError{Reason: "malformed hello: bad version"}
	}
	id, err := Parse(fields[2])
	if err != nil {
		return nil, &ProtocolError{Reason: "malformed hello: bad uuid"}
	}
	return &Hello{Role: role, Version: uint32(version), ID: id, Nonce: fields[3]}, nil
}

// Negotiate checks a peer's hello against our own protocol version and
// picks an outcome: reject on mismatch, otherwise the protocol the
// caller prefers (term framing is the safer default over a real
// terminal; raw framing is for a direct socket transport).
func Negotiate(peer *Hello, preferTerm bool) Response {
	if peer.Version != ProtocolVersion {
		return Response{Outcome: OutcomeReject, Reason: RejectProtocolMismatch}
	}
	if preferTerm {
		return Response{Outcome: OutcomeTerm}
	}
	return Response{Outcome: OutcomeRaw}
}

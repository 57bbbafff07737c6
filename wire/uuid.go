// Package wire implements the multiplex wire protocol: the frame
// envelope, the two transport framings (raw and term), the handshake
// that identifies a peer before any framed traffic, and the closed
// command enum both ends share (spec §4.5, §6).
package wire

import (
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
)

// UUID names servers, terminals, connections, and tasks globally: a
// 16-byte value with a canonical dashed-hex form (delegated to
// google/uuid) and the 14-char compressed form original_source's
// Uuid::shortStr produces, used anywhere a terminal-width-conscious
// display wants an identifier (log lines, window titles).
type UUID [16]byte

// Nil is the zero UUID, used as an "unset" sentinel.
var Nil UUID

// New generates a random (v4) UUID.
func New() UUID {
	return UUID(uuid.New())
}

// Parse accepts both canonical dashed-hex and bare 32-hex-digit forms.
func Parse(s string) (UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, err
	}
	return UUID(u), nil
}

// String renders the canonical dashed-hex form.
func (u UUID) String() string {
	return uuid.UUID(u).String()
}

// IsNil reports whether u is the zero UUID.
func (u UUID) IsNil() bool { return u == Nil }

// Short renders the 14-character compressed form of Uuid::shortStr:
// take the first 11 bytes, fold bytes [10:16) into [4:10) by XOR,
// base64-encode, and drop any '+'/'/' in favor of 'a' (matching the
// source's squash-to-alphanumeric choice so the form is safe in
// window titles and filenames).
func (u UUID) Short() string {
	var hash [11]byte
	copy(hash[:], u[:11])
	for i := 4; i < 10; i++ {
		hash[i] ^= u[i+6]
	}
	enc := base64.RawStdEncoding.EncodeToString(hash[:])
	enc = strings.Map(func(r rune) rune {
		if r == '+' || r == '/' {
			return 'a'
		}
		return r
	}, enc)
	if len(enc) > 14 {
		enc = enc[:14]
	}
	return enc
}

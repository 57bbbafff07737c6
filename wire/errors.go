package wire

import "fmt"

// ProtocolError covers malformed frames, bad handshake bytes, invalid
// base64 inside a term-framed envelope, and version mismatches (spec
// §7). The connection is closed on this error; the process never
// aborts because of it.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string { return "protocol error: " + e.Reason }

// ResourceLimitError reports a value that exceeded a configured cap —
// frame body size, attribute length, handshake preamble length, buffer
// capacity order. Treated as a protocol error at the connection level.
type ResourceLimitError struct {
	Resource string
	Limit    int
	Got      int
}

func (e *ResourceLimitError) Error() string {
	return fmt.Sprintf("resource limit: %s exceeds %d (got %d)", e.Resource, e.Limit, e.Got)
}

// NotFoundError is returned on attribute/region/terminal lookups that
// fail to resolve.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found: %s", e.Kind, e.Key) }

// AlreadyExistsError is returned when a create operation names
// something that already exists (e.g. create-term with a duplicate id).
type AlreadyExistsError struct {
	Kind string
	Key  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Kind, e.Key)
}

// ReadOnlyError is returned when a client attempts to mutate a
// restricted attribute key.
type ReadOnlyError struct {
	Key string
}

func (e *ReadOnlyError) Error() string { return fmt.Sprintf("attribute is read-only: %s", e.Key) }

// HandshakeRejectReason enumerates why a handshake ended in "reject".
type HandshakeRejectReason string

const (
	RejectProtocolMismatch HandshakeRejectReason = "PROTOCOL_MISMATCH"
	RejectPreambleTooLong  HandshakeRejectReason = "PREAMBLE_TOO_LONG"
	RejectMalformedHello   HandshakeRejectReason = "MALFORMED_HELLO"
	RejectRefused          HandshakeRejectReason = "REFUSED"
)

// HandshakeError wraps a rejection reason surfaced during negotiation.
type HandshakeError struct {
	Reason HandshakeRejectReason
}

func (e *HandshakeError) Error() string { return "handshake rejected: " + string(e.Reason) }

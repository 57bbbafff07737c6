package wire

import (
	"bufio"
	"strings"
	"testing"
)

func TestScanHelloParsesWellFormedLine(t *testing.T) {
	id := New()
	line := EncodeHello(RoleClient, id, "nonce123")
	r := bufio.NewReader(strings.NewReader(string(line)))

	hello, err := ScanHello(r)
	if err != nil {
		t.Fatalf("ScanHello: %v", err)
	}
	if hello.Role != RoleClient {
		t.Fatalf("Role = %v, want %v", hello.Role, RoleClient)
	}
	if hello.Version != ProtocolVersion {
		t.Fatalf("Version = %d, want %d", hello.Version, ProtocolVersion)
	}
	if hello.ID != id {
		t.Fatalf("ID = %v, want %v", hello.ID, id)
	}
	if hello.Nonce != "nonce123" {
		t.Fatalf("Nonce = %q, want %q", hello.Nonce, "nonce123")
	}
}

func TestScanHelloToleratesLeadingJunk(t *testing.T) {
	id := New()
	junk := strings.Repeat("x", 40)
	line := junk + string(EncodeHello(RoleServer, id, "n"))
	r := bufio.NewReader(strings.NewReader(line))

	hello, err := ScanHello(r)
	if err != nil {
		t.Fatalf("ScanHello should tolerate leading junk: %v", err)
	}
	if hello.Role != RoleServer {
		t.Fatalf("Role = %v, want %v", hello.Role, RoleServer)
	}
}

func TestScanHelloRejectsPreambleTooLong(t *testing.T) {
	junk := strings.Repeat("x", MaxHandshakePreamble+100)
	r := bufio.NewReader(strings.NewReader(junk))

	_, err := ScanHello(r)
	if err == nil {
		t.Fatalf("expected an error once the junk preamble exceeds the budget")
	}
	if _, ok := err.(*ProtocolError); !ok {
		t.Fatalf("err = %v (%T), want *ProtocolError", err, err)
	}
}

func TestScanHelloRejectsMalformedLine(t *testing.T) {
	line := "\x1b]511;onlyonefield\x07"
	r := bufio.NewReader(strings.NewReader(line))

	if _, err := ScanHello(r); err == nil {
		t.Fatalf("expected an error for a hello line missing fields")
	}
}

func TestNegotiateRejectsVersionMismatch(t *testing.T) {
	resp := Negotiate(&Hello{Version: ProtocolVersion + 1}, false)
	if resp.Outcome != OutcomeReject {
		t.Fatalf("Outcome = %v, want reject on version mismatch", resp.Outcome)
	}
	if resp.Reason != RejectProtocolMismatch {
		t.Fatalf("Reason = %v, want %v", resp.Reason, RejectProtocolMismatch)
	}
}

func TestNegotiatePicksRawOrTerm(t *testing.T) {
	hello := &Hello{Version: ProtocolVersion}
	if got := Negotiate(hello, false).Outcome; got != OutcomeRaw {
		t.Fatalf("Outcome = %v, want raw when term framing isn't preferred", got)
	}
	if got := Negotiate(hello, true).Outcome; got != OutcomeTerm {
		t.Fatalf("Outcome = %v, want term when preferred", got)
	}
}

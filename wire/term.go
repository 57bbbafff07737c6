package wire

import (
	"bufio"
	"encoding/base64"
	"encoding/binary"
	"io"
)

// chunkPayload is the number of raw bytes packed into one OSC 512
// envelope before base64: ((1024 - 8) / 4) * 3 = 762, chosen so the
// base64'd envelope plus its OSC wrapper stays at or under 1024 bytes
// (spec §4.5).
const chunkPayload = 762

// frameOscStart is the OSC number TermProtocol wraps frame envelopes
// in, distinct from the OSC 511 handshake hello (see handshake.go).
const frameOscStart = "\x1b]512;"

// TermProtocol carries the same frames as RawProtocol, but wrapped so
// they survive a pass through a real terminal emulator: each chunk of
// raw bytes is base64-encoded and sent as `OSC 512 ; <base64> BEL`.
type TermProtocol struct {
	w   io.Writer
	in  *bufio.Reader
	buf []byte // decoded bytes not yet consumed by ReadFrame
}

func NewTermProtocol(r io.Reader, w io.Writer) *TermProtocol {
	return &TermProtocol{w: w, in: bufio.NewReader(r)}
}

// WriteFrame encodes one frame (header + payload, padded to 4 bytes,
// exactly like RawProtocol) and emits it as one or more OSC 512
// envelopes.
func (p *TermProtocol) WriteFrame(f Frame) error {
	if len(f.Payload) > MaxFrameBody {
		return &ResourceLimitError{Resource: "frame body", Limit: MaxFrameBody, Got: len(f.Payload)}
	}
	padded := pad4(len(f.Payload))
	raw := make([]byte, headerLen+padded)
	binary.LittleEndian.PutUint32(raw[0:4], uint32(f.Command))
	binary.LittleEndian.PutUint32(raw[4:8], uint32(len(f.Payload)))
	copy(raw[headerLen:], f.Payload)

	for off := 0; off < len(raw); off += chunkPayload {
		end := off + chunkPayload
		if end > len(raw) {
			end = len(raw)
		}
		if err := p.writeChunk(raw[off:end]); err != nil {
			return err
		}
	}
	if len(raw) == 0 {
		return p.writeChunk(nil)
	}
	return nil
}

func (p *TermProtocol) writeChunk(b []byte) error {
	enc := base64.StdEncoding.EncodeToString(b)
	envelope := make([]byte, 0, len(frameOscStart)+len(enc)+1)
	envelope = append(envelope, frameOscStart...)
	envelope = append(envelope, enc...)
	envelope = append(envelope, bel)
	_, err := p.w.Write(envelope)
	return err
}

// ReadFrame decodes chunks until one full RawProtocol-shaped frame
// (header + declared payload length, padded) has been reassembled.
func (p *TermProtocol) ReadFrame() (Frame, error) {
	for len(p.buf) < headerLen {
		chunk, err := p.readOSCChunk()
		if err != nil {
			return Frame{}, err
		}
		p.buf = append(p.buf, chunk...)
	}
	cmd := Command(binary.LittleEndian.Uint32(p.buf[0:4]))
	length := binary.LittleEndian.Uint32(p.buf[4:8])
	if length > MaxFrameBody {
		return Frame{}, &ResourceLimitError{Resource: "frame body", Limit: MaxFrameBody, Got: int(length)}
	}
	need := headerLen + pad4(int(length))
	for len(p.buf) < need {
		chunk, err := p.readOSCChunk()
		if err != nil {
			return Frame{}, err
		}
		p.buf = append(p.buf, chunk...)
	}
	payload := make([]byte, length)
	copy(payload, p.buf[headerLen:headerLen+int(length)])
	p.buf = p.buf[need:]
	return Frame{Command: cmd, Payload: payload}, nil
}

// readOSCChunk consumes one `OSC 512 ; <base64> (BEL|ST)` envelope and
// returns its decoded bytes.
func (p *TermProtocol) readOSCChunk() ([]byte, error) {
	for i := 0; i < len(frameOscStart); i++ {
		b, err := p.in.ReadByte()
		if err != nil {
			return nil, err
		}
		if b != frameOscStart[i] {
			return nil, &ProtocolError{Reason: "term framing: expected OSC 512 prefix"}
		}
	}
	var b64 []byte
	for {
		b, err := p.in.ReadByte()
		if err != nil {
			return nil, err
		}
		if b == bel {
			break
		}
		if b == esc {
			nxt, err := p.in.ReadByte()
			if err != nil {
				return nil, err
			}
			if nxt == '\\' {
				break
			}
			b64 = append(b64, b, nxt)
			continue
		}
		b64 = append(b64, b)
	}
	decoded, err := base64.StdEncoding.DecodeString(string(b64))
	if err != nil {
		return nil, &ProtocolError{Reason: "term framing: invalid base64 envelope"}
	}
	return decoded, nil
}

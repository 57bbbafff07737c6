package vt

// Dispatcher receives the decoded commands an XTermStateMachine
// produces. TermEmulator (emulator.go) is the concrete implementation
// that turns these into TermScreen/TermBuffer mutations; tests can
// substitute a recording Dispatcher to assert on the parse alone.
type Dispatcher interface {
	Print(text string, width int, emoji bool)
	Execute(c byte)
	CsiDispatch(final byte, intermediate []byte, params []int, private byte)
	EscDispatch(final byte, intermediate []byte)
	OscDispatch(params []string)
	DcsDispatch(final byte, intermediate []byte, params []int, data []byte)
}

// parserState is one state in the VT500-family parser. step() handles
// the next input byte with one switch case per state, matching spec
// §4.1's direction to encode the published state diagram as a table
// rather than nested branches; here the "table" is that switch rather
// than a numeric transition matrix.
type parserState uint8

const (
	stateGround parserState = iota
	stateEscape
	stateEscapeIntermediate
	stateCsiEntry
	stateCsiParam
	stateCsiIntermediate
	stateCsiIgnore
	stateOscString
	stateDcsEntry
	stateDcsParam
	stateDcsIntermediate
	stateDcsPassthrough
	stateDcsIgnore
	stateSosPmApcString
	stateOscStringEsc
	stateDcsPassthroughEsc
	stateSosPmApcStringEsc
)

const maxStringPayload = 8 << 20 // 8 MiB, spec §4.1
const maxParam = 9999

// XTermStateMachine is the byte-oriented VT parser: spec §4.1.
type XTermStateMachine struct {
	state parserState
	disp  Dispatcher

	intermediate []byte
	params       []int
	curParam     int
	paramStarted bool
	private      byte

	strBuf  []byte
	dcsFinal byte

	utf8Carry []byte

	clusterState int
	pending      []byte // bytes collected in Ground awaiting a cluster boundary
}

// NewXTermStateMachine returns a parser that dispatches decoded
// commands to disp.
func NewXTermStateMachine(disp Dispatcher) *XTermStateMachine {
	return &XTermStateMachine{disp: disp, clusterState: -1}
}

// Parse feeds one input burst through the parser. Any UTF-8
// continuation bytes left incomplete at the end of the burst are held
// in an internal carry buffer (up to 7 bytes) and prepended to the
// next call, per spec §4.1.
func (p *XTermStateMachine) Parse(data []byte) {
	if len(p.utf8Carry) > 0 {
		data = append(p.utf8Carry, data...)
		p.utf8Carry = nil
	}
	i := 0
	for i < len(data) {
		b := data[i]

		if p.state == stateGround && b >= 0x20 && b != 0x7f {
			n := p.consumePrintable(data[i:])
			if n == 0 {
				// incomplete multi-byte sequence at end of burst
				rem := len(data) - i
				if rem <= 7 {
					p.utf8Carry = append([]byte(nil), data[i:]...)
					return
				}
				// a malformed lead byte that will never complete;
				// drop it as U+FFFD and move on
				p.disp.Print("�", 1, false)
				i++
				continue
			}
			i += n
			continue
		}

		p.step(b)
		i++
	}
}

// consumePrintable drains a run of Ground-state printable bytes as
// grapheme clusters, stopping at the first C0/C1 control or ESC byte.
// It returns 0 if the run ends mid-sequence and more bytes are needed.
func (p *XTermStateMachine) consumePrintable(data []byte) int {
	end := 0
	for end < len(data) && data[end] >= 0x20 && data[end] != 0x7f {
		end++
	}
	s := string(data[:end])
	consumed := 0
	for s != "" {
		before := len(s)
		var c cluster
		c, s, p.clusterState = nextCluster(s, p.clusterState)
		if c.text == "" {
			// nextCluster needs more bytes than are available; treat
			// remaining bytes as carry only if they look like a
			// truncated UTF-8 sequence.
			if before <= 7 && utf8Incomplete(s) {
				return consumed
			}
			break
		}
		p.disp.Print(c.text, c.width, c.emoji)
		consumed += before - len(s)
	}
	return consumed
}

func utf8Incomplete(s string) bool {
	if s == "" {
		return false
	}
	b := s[0]
	return b >= 0xc0 && b < 0xf8
}

// step advances the parser by one control/ESC/CSI/OSC/DCS byte.
func (p *XTermStateMachine) step(b byte) {
	switch p.state {
	case stateGround:
		p.groundControl(b)
	case stateEscape:
		p.escape(b)
	case stateEscapeIntermediate:
		p.escapeIntermediate(b)
	case stateCsiEntry:
		p.csiEntry(b)
	case stateCsiParam:
		p.csiParam(b)
	case stateCsiIntermediate:
		p.csiIntermediate(b)
	case stateCsiIgnore:
		p.csiIgnore(b)
	case stateOscString:
		p.oscString(b)
	case stateDcsEntry:
		p.dcsEntry(b)
	case stateDcsParam:
		p.dcsParam(b)
	case stateDcsIntermediate:
		p.dcsIntermediate(b)
	case stateDcsPassthrough:
		p.dcsPassthrough(b)
	case stateDcsIgnore:
		p.dcsIgnore(b)
	case stateSosPmApcString:
		p.sosPmApcString(b)
	case stateOscStringEsc:
		p.oscStringEsc(b)
	case stateDcsPassthroughEsc:
		p.dcsPassthroughEsc(b)
	case stateSosPmApcStringEsc:
		p.sosPmApcStringEsc(b)
	}
}

func (p *XTermStateMachine) toGround() {
	p.state = stateGround
	p.resetSeq()
}

func (p *XTermStateMachine) resetSeq() {
	p.intermediate = p.intermediate[:0]
	p.params = p.params[:0]
	p.curParam = 0
	p.paramStarted = false
	p.private = 0
	p.strBuf = nil
}

func (p *XTermStateMachine) groundControl(b byte) {
	switch {
	case b == 0x1b:
		p.resetSeq()
		p.state = stateEscape
	case b == 0x90: // DCS (8-bit)
		p.resetSeq()
		p.state = stateDcsEntry
	case b == 0x9b: // CSI (8-bit)
		p.resetSeq()
		p.state = stateCsiEntry
	case b == 0x9d: // OSC (8-bit)
		p.resetSeq()
		p.state = stateOscString
	case b == 0x98 || b == 0x9e || b == 0x9f: // SOS/PM/APC (8-bit)
		p.resetSeq()
		p.state = stateSosPmApcString
	default:
		p.disp.Execute(b)
	}
}

func (p *XTermStateMachine) escape(b byte) {
	switch {
	case b == 0x5b: // '['
		p.state = stateCsiEntry
	case b == 0x5d: // ']'
		p.state = stateOscString
	case b == 0x50: // 'P'
		p.state = stateDcsEntry
	case b == 0x58 || b == 0x5e || b == 0x5f: // X, ^, _
		p.state = stateSosPmApcString
	case b >= 0x20 && b <= 0x2f:
		p.intermediate = append(p.intermediate, b)
		p.state = stateEscapeIntermediate
	case b >= 0x30 && b <= 0x7e:
		p.disp.EscDispatch(b, p.intermediate)
		p.toGround()
	case b == 0x18 || b == 0x1a:
		p.toGround()
	default:
		// ignore
	}
}

func (p *XTermStateMachine) escapeIntermediate(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2f:
		p.intermediate = append(p.intermediate, b)
	case b >= 0x30 && b <= 0x7e:
		p.disp.EscDispatch(b, p.intermediate)
		p.toGround()
	default:
		p.toGround()
	}
}

func (p *XTermStateMachine) pushParamByte(b byte) {
	switch {
	case b >= '0' && b <= '9':
		p.paramStarted = true
		p.curParam = p.curParam*10 + int(b-'0')
		if p.curParam > maxParam {
			p.curParam = maxParam
		}
	case b == ';':
		p.params = append(p.params, p.curParam)
		p.curParam = 0
		p.paramStarted = false
	}
}

func (p *XTermStateMachine) finishParams() []int {
	p.params = append(p.params, p.curParam)
	return p.params
}

func (p *XTermStateMachine) csiEntry(b byte) {
	switch {
	case b == '<' || b == '=' || b == '>' || b == '?':
		p.private = b
		p.state = stateCsiParam
	case b >= '0' && b <= '9' || b == ';':
		p.pushParamByte(b)
		p.state = stateCsiParam
	case b >= 0x20 && b <= 0x2f:
		p.intermediate = append(p.intermediate, b)
		p.state = stateCsiIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.disp.CsiDispatch(b, p.intermediate, p.finishParams(), p.private)
		p.toGround()
	case b == 0x18 || b == 0x1a:
		p.toGround()
	case b == 0x3a: // ':' — reserved, treat like CSI-ignore trigger
		p.state = stateCsiIgnore
	default:
		// ignore
	}
}

func (p *XTermStateMachine) csiParam(b byte) {
	switch {
	case b >= '0' && b <= '9' || b == ';':
		p.pushParamByte(b)
	case b >= 0x20 && b <= 0x2f:
		p.intermediate = append(p.intermediate, b)
		p.state = stateCsiIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.disp.CsiDispatch(b, p.intermediate, p.finishParams(), p.private)
		p.toGround()
	case b == 0x18 || b == 0x1a:
		p.toGround()
	case b == '<' || b == '=' || b == '>' || b == '?' || b == 0x3a:
		p.state = stateCsiIgnore
	default:
		// ignore
	}
}

func (p *XTermStateMachine) csiIntermediate(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2f:
		p.intermediate = append(p.intermediate, b)
	case b >= 0x40 && b <= 0x7e:
		p.disp.CsiDispatch(b, p.intermediate, p.finishParams(), p.private)
		p.toGround()
	case b == 0x18 || b == 0x1a:
		p.toGround()
	default:
		p.state = stateCsiIgnore
	}
}

func (p *XTermStateMachine) csiIgnore(b byte) {
	if b >= 0x40 && b <= 0x7e || b == 0x18 || b == 0x1a {
		p.toGround()
	}
}

func (p *XTermStateMachine) oscString(b byte) {
	switch b {
	case 0x07, 0x9c: // BEL or 8-bit ST terminate
		p.dispatchOSC()
		p.toGround()
	case 0x1b:
		p.state = stateOscStringEsc // tentative 7-bit ST (ESC \)
	default:
		if len(p.strBuf) >= maxStringPayload {
			p.toGround() // abort: oversize payload per spec §4.1
			return
		}
		p.strBuf = append(p.strBuf, b)
	}
}

// oscStringEsc is the one-byte lookahead after ESC inside an OSC
// string: '\' completes the 7-bit ST, anything else cancels the
// sequence and is handled by Escape.
func (p *XTermStateMachine) oscStringEsc(b byte) {
	if b == '\\' {
		p.dispatchOSC()
		p.toGround()
		return
	}
	p.state = stateEscape
	p.escape(b)
}

func (p *XTermStateMachine) dispatchOSC() {
	parts := splitBytes(p.strBuf, ';')
	strs := make([]string, len(parts))
	for i, part := range parts {
		strs[i] = string(part)
	}
	p.disp.OscDispatch(strs)
}

func splitBytes(b []byte, sep byte) [][]byte {
	var out [][]byte
	start := 0
	for i, c := range b {
		if c == sep {
			out = append(out, b[start:i])
			start = i + 1
		}
	}
	out = append(out, b[start:])
	return out
}

func (p *XTermStateMachine) dcsEntry(b byte) {
	switch {
	case b == '<' || b == '=' || b == '>' || b == '?':
		p.private = b
		p.state = stateDcsParam
	case b >= '0' && b <= '9' || b == ';':
		p.pushParamByte(b)
		p.state = stateDcsParam
	case b >= 0x20 && b <= 0x2f:
		p.intermediate = append(p.intermediate, b)
		p.state = stateDcsIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.dcsFinal = b
		p.state = stateDcsPassthrough
	default:
		p.state = stateDcsIgnore
	}
}

func (p *XTermStateMachine) dcsParam(b byte) {
	switch {
	case b >= '0' && b <= '9' || b == ';':
		p.pushParamByte(b)
	case b >= 0x20 && b <= 0x2f:
		p.intermediate = append(p.intermediate, b)
		p.state = stateDcsIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.dcsFinal = b
		p.state = stateDcsPassthrough
	default:
		p.state = stateDcsIgnore
	}
}

func (p *XTermStateMachine) dcsIntermediate(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2f:
		p.intermediate = append(p.intermediate, b)
	case b >= 0x40 && b <= 0x7e:
		p.dcsFinal = b
		p.state = stateDcsPassthrough
	default:
		p.state = stateDcsIgnore
	}
}

func (p *XTermStateMachine) dcsPassthrough(b byte) {
	switch b {
	case 0x07, 0x9c:
		p.disp.DcsDispatch(p.dcsFinal, p.intermediate, p.finishParams(), p.strBuf)
		p.toGround()
	case 0x1b:
		p.state = stateDcsPassthroughEsc
	default:
		if len(p.strBuf) >= maxStringPayload {
			p.toGround()
			return
		}
		p.strBuf = append(p.strBuf, b)
	}
}

// dcsPassthroughEsc is the one-byte lookahead after ESC inside a DCS
// string: '\' completes the 7-bit ST, anything else reprocesses as a
// fresh escape sequence (mirrors oscStringEsc).
func (p *XTermStateMachine) dcsPassthroughEsc(b byte) {
	if b == '\\' {
		p.disp.DcsDispatch(p.dcsFinal, p.intermediate, p.finishParams(), p.strBuf)
		p.toGround()
		return
	}
	p.state = stateEscape
	p.escape(b)
}

func (p *XTermStateMachine) dcsIgnore(b byte) {
	if b == 0x07 || b == 0x9c {
		p.toGround()
	}
}

func (p *XTermStateMachine) sosPmApcString(b byte) {
	switch b {
	case 0x07, 0x9c:
		p.toGround()
	case 0x1b:
		p.state = stateSosPmApcStringEsc
	default:
		if len(p.strBuf) < maxStringPayload {
			p.strBuf = append(p.strBuf, b)
		}
	}
}

// sosPmApcStringEsc is the one-byte lookahead after ESC inside an
// SOS/PM/APC string: '\' completes the 7-bit ST, anything else
// reprocesses as a fresh escape sequence.
func (p *XTermStateMachine) sosPmApcStringEsc(b byte) {
	if b == '\\' {
		p.toGround()
		return
	}
	p.state = stateEscape
	p.escape(b)
}

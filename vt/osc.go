package vt

import (
	"encoding/base64"
	"strconv"
	"strings"
)

// OscDispatch implements the OSC command surface of spec §4.4: window
// titles, palette get/set, shell integration, hyperlinks, inline
// images, and the custom 511-514 structured-command family.
func (e *TermEmulator) OscDispatch(params []string) {
	if len(params) == 0 {
		return
	}
	num, err := strconv.Atoi(params[0])
	if err != nil {
		return
	}
	rest := params[1:]

	switch num {
	case 0, 1, 2:
		e.setTitle(num, strings.Join(rest, ";"))
	case 22:
		e.pushTitle(0)
	case 23:
		e.popTitle(0)
	case 4:
		e.oscPalette(rest, 0)
	case 5:
		e.oscPalette(rest, 256)
	case 10:
		e.oscSpecialColor(rest, SpecialForeground, 10)
	case 11:
		e.oscSpecialColor(rest, SpecialBackground, 11)
	case 12:
		e.oscSpecialColor(rest, SpecialCursor, 12)
	case 13:
		e.oscSpecialColor(rest, SpecialMouseForeground, 13)
	case 14:
		e.oscSpecialColor(rest, SpecialMouseBackground, 14)
	case 17:
		e.oscSpecialColor(rest, SpecialHighlightBackground, 17)
	case 19:
		e.oscSpecialColor(rest, SpecialHighlightForeground, 19)
	case 104:
		e.oscResetPalette(rest, 0)
	case 105:
		e.oscResetPalette(rest, 256)
	case 110:
		e.palette.Reset(SpecialForeground)
	case 111:
		e.palette.Reset(SpecialBackground)
	case 112:
		e.palette.Reset(SpecialCursor)
	case 113:
		e.palette.Reset(SpecialMouseForeground)
	case 114:
		e.palette.Reset(SpecialMouseBackground)
	case 117:
		e.palette.Reset(SpecialHighlightBackground)
	case 119:
		e.palette.Reset(SpecialHighlightForeground)
	case 52:
		e.oscClipboard(rest)
	case 8:
		e.oscHyperlink(rest)
	case 133:
		e.oscShellIntegration(rest)
	case 1337:
		e.oscInlineContent(rest)
	case 511, 512, 513, 514:
		if e.OnStructured != nil {
			e.OnStructured(num, []byte(strings.Join(rest, ";")))
		}
	}
	e.Event.FlagsChanged = true
}

// oscPalette implements OSC 4/5 get/set: rest is "index;spec" pairs,
// any number of them in one sequence. base is 0 for the 256-entry
// indexed table, 256 for the special-color slots (OSC 5's numbering
// starts at the special-color block).
func (e *TermEmulator) oscPalette(rest []string, base int) {
	for i := 0; i+1 < len(rest); i += 2 {
		idx, err := strconv.Atoi(rest[i])
		if err != nil {
			continue
		}
		idx += base
		spec := rest[i+1]
		if spec == "?" {
			e.reply("\x1b]%d;%s;%s\x07", oscNumberFor(base), rest[i], e.palette.Get(idx).String())
			continue
		}
		if c, ok := parseColorSpec(spec); ok {
			e.palette.Set(idx, c)
		}
	}
}

func oscNumberFor(base int) int {
	if base == 0 {
		return 4
	}
	return 5
}

func (e *TermEmulator) oscSpecialColor(rest []string, slot, oscNum int) {
	if len(rest) == 0 {
		return
	}
	spec := rest[0]
	if spec == "?" {
		e.reply("\x1b]%d;%s\x07", oscNum, e.palette.Get(slot).String())
		return
	}
	if c, ok := parseColorSpec(spec); ok {
		e.palette.Set(slot, c)
	}
}

func (e *TermEmulator) oscResetPalette(rest []string, base int) {
	if len(rest) == 0 {
		for i := 0; i < 256; i++ {
			e.palette.Reset(base + i)
		}
		return
	}
	for _, s := range rest {
		if idx, err := strconv.Atoi(s); err == nil {
			e.palette.Reset(base + idx)
		}
	}
}

// oscClipboard implements OSC 52: rest is "selection;base64-or-?".
func (e *TermEmulator) oscClipboard(rest []string) {
	if len(rest) < 2 {
		return
	}
	if rest[1] == "?" {
		e.reply("\x1b]52;%s;\x07", rest[0])
		return
	}
	key := "clipboard." + rest[0]
	e.Event.SetAttribute(key, rest[1])
	if e.OnAttribute != nil {
		e.OnAttribute(key, rest[1])
	}
}

// oscHyperlink implements OSC 8: rest is "params;uri". An empty uri
// turns the hyperlink off; otherwise a new Content region is opened
// (even when one with the same uri is already open) and FlagHyperlink
// plus the region id are applied to the pen.
func (e *TermEmulator) oscHyperlink(rest []string) {
	var params, uri string
	if len(rest) > 0 {
		params = rest[0]
	}
	if len(rest) > 1 {
		uri = strings.Join(rest[1:], ";")
	}
	if uri == "" {
		e.pen.Flags &^= FlagHyperlink
		e.pen.Link = InvalidRegionID
		return
	}
	buf := e.activeBuffer()
	r := NewRegion(RegionContent, InvalidRegionID)
	r.Attributes["uri"] = uri
	for _, kv := range strings.Split(params, ":") {
		if k, v, ok := strings.Cut(kv, "="); ok {
			r.Attributes[k] = v
		}
	}
	r.Begin(e.screen.offset + int64(e.screen.cursor.Y))
	buf.AddRegion(r)
	e.pen.Flags |= FlagHyperlink
	e.pen.Link = r.ID
}

// oscShellIntegration implements OSC 133 A/B/C/D, grounded on
// screen.go's Begin*/End* region helpers.
func (e *TermEmulator) oscShellIntegration(rest []string) {
	if len(rest) == 0 {
		return
	}
	s := e.screen
	switch rest[0] {
	case "A":
		s.EndJobRegions()
		s.BeginJobRegion()
		s.BeginPromptRegion()
	case "B":
		s.HandlePartialCommand()
		r := s.BeginCommandRegion()
		e.cmdStart = s.Cursor()
		_ = r
	case "C":
		if s.Child() != nil && s.Child().Type == RegionCommand && s.Job() != nil {
			s.Job().Attributes["command"] = e.commandText()
		}
		path, user, host := "", "", ""
		if len(rest) > 1 {
			path = rest[1]
		}
		if len(rest) > 2 {
			user = rest[2]
		}
		if len(rest) > 3 {
			host = rest[3]
		}
		s.BeginOutputRegion(path, user, host)
	case "D":
		code := 0
		if len(rest) > 1 {
			code, _ = strconv.Atoi(rest[1])
		}
		s.EndOutputRegion(code)
		if s.Job() != nil {
			s.Job().Attributes["rc"] = strconv.Itoa(code)
		}
		s.EndJobRegions()
	}
}

// commandText reconstructs the text between where the Command region
// began and the current cursor, used to stamp OSC 133 C's "command"
// attribute on the job region. Only the single-line case is handled;
// a command that wrapped across rows is approximated by the text on
// its final row.
func (e *TermEmulator) commandText() string {
	s := e.screen
	row := s.ConstRow()
	start, end := e.cmdStart.X, s.Cursor().X
	if e.cmdStart.Y != s.Cursor().Y {
		start = 0
	}
	if start >= end {
		return ""
	}
	startCur := row.deriveCursor(start)
	endCur := row.deriveCursor(end)
	var b strings.Builder
	for i := startCur.Pos; i < endCur.Pos && int(i) < len(row.clusters); i++ {
		b.WriteString(row.clusters[i].text)
	}
	return b.String()
}

// oscInlineContent implements OSC 1337 File=...: rest holds the
// "File=" argument list followed by ':' and the base64 payload,
// rejoined here because the payload was split on ';' along with the
// option list by the OSC string splitter.
func (e *TermEmulator) oscInlineContent(rest []string) {
	if len(rest) == 0 {
		return
	}
	joined := strings.Join(rest, ";")
	if !strings.HasPrefix(joined, "File=") && !strings.HasPrefix(joined, "file=") {
		return
	}
	joined = joined[len("File="):]
	argsPart, payload, hasPayload := strings.Cut(joined, ":")
	if !hasPayload {
		return
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return
	}

	attrs := map[string]string{}
	for _, kv := range strings.Split(argsPart, ";") {
		if k, v, ok := strings.Cut(kv, "="); ok {
			attrs[k] = v
		}
	}
	if attrs["inline"] != "1" {
		return
	}

	id := e.content.Put(data)
	buf := e.activeBuffer()
	r := NewRegion(RegionImage, InvalidRegionID)
	for k, v := range attrs {
		r.Attributes[k] = v
	}
	r.Attributes["content"] = string(id[:])
	r.Begin(e.screen.offset + int64(e.screen.cursor.Y))
	r.End(e.screen.offset + int64(e.screen.cursor.Y))
	buf.AddRegion(r)

	width := parseImageDim(attrs["width"], 1)
	for i := 0; i < width && e.screen.cursor.X < e.screen.width-1; i++ {
		e.screen.CursorAdvance(1)
	}
}

// parseImageDim parses an OSC 1337 width/height argument: a bare
// integer (cells), "Npx", "N%", or "auto". A negative or unparsable
// value falls back to def, per spec §9's documented xterm behavior.
func parseImageDim(s string, def int) int {
	if s == "" || s == "auto" {
		return def
	}
	s = strings.TrimSuffix(strings.TrimSuffix(s, "px"), "%")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// parseColorSpec parses "rgb:RRRR/GGGG/BBBB" or "#RRGGBB"-style
// strings from OSC 4/5/10-19, taking the high byte of each channel
// when more than 2 hex digits are given.
func parseColorSpec(s string) (RGB, bool) {
	if strings.HasPrefix(s, "rgb:") {
		parts := strings.Split(s[4:], "/")
		if len(parts) != 3 {
			return RGB{}, false
		}
		r, ok1 := hexChannel(parts[0])
		g, ok2 := hexChannel(parts[1])
		b, ok3 := hexChannel(parts[2])
		if !ok1 || !ok2 || !ok3 {
			return RGB{}, false
		}
		return RGB{r, g, b}, true
	}
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) < 6 {
			return RGB{}, false
		}
		step := len(hex) / 3
		r, ok1 := hexChannel(hex[0:step])
		g, ok2 := hexChannel(hex[step : 2*step])
		b, ok3 := hexChannel(hex[2*step : 3*step])
		if !ok1 || !ok2 || !ok3 {
			return RGB{}, false
		}
		return RGB{r, g, b}, true
	}
	return RGB{}, false
}

func hexChannel(s string) (uint8, bool) {
	if len(s) == 0 {
		return 0, false
	}
	if len(s) > 2 {
		s = s[:2]
	}
	n, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, false
	}
	return uint8(n), true
}

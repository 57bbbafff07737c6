package vt

// EventState accumulates everything that changed during one input
// burst, so the emission layer in package server can turn it into a
// minimal, ordered set of wire frames (spec §4.6). It is reset at the
// start of every burst by TermEmulator.BeginBurst. Per-buffer changed
// rows and changed regions are tracked on TermBuffer itself (see
// buffer.go's ChangedRows/ChangedRegions), not duplicated here.
type EventState struct {
	FlagsChanged   bool
	CursorChanged  bool
	SizeChanged    bool
	BufferSwitched bool
	BellCount      int
	BufferChanged  bool

	// ChangedAttributes maps a terminal-attribute key to its new value
	// for this burst; an empty value encodes removal.
	ChangedAttributes map[string]string
}

// NewEventState returns a zeroed event-state ready for the first
// burst.
func NewEventState() *EventState {
	return &EventState{ChangedAttributes: map[string]string{}}
}

// Reset clears every accumulated flag, called at the start of each
// input burst.
func (e *EventState) Reset() {
	e.FlagsChanged = false
	e.CursorChanged = false
	e.SizeChanged = false
	e.BufferSwitched = false
	e.BellCount = 0
	e.BufferChanged = false
	e.ChangedAttributes = map[string]string{}
}

// SetAttribute records that key changed to value this burst (value =
// "" encodes a removal).
func (e *EventState) SetAttribute(key, value string) {
	e.ChangedAttributes[key] = value
}

// Bell records one bell ring (BEL or DECSET bell-related sequences).
func (e *EventState) Bell() { e.BellCount++ }

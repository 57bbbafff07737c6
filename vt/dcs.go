package vt

// DcsDispatch handles DCS sequences. The command set in spec §4.4 has
// no DCS-encoded operation of its own (DECRQSS/Sixel/ReGIS are outside
// scope); everything here is intentionally a no-op so the string is
// still drained and discarded rather than corrupting the parser.
func (e *TermEmulator) DcsDispatch(final byte, intermediate []byte, params []int, data []byte) {
}

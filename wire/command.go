package wire

// Command is the closed enum shared by both ends of the protocol (spec
// §6). Numeric assignments are part of the wire contract and must never
// be renumbered once shipped.
type Command uint32

const (
	CmdInvalid Command = iota

	// Task lifecycle: a "task" is one request/response exchange that
	// isn't a simple attribute get/set (e.g. starting a subprocess
	// inside a terminal and streaming its stdio back).
	CmdTaskStart
	CmdTaskInput
	CmdTaskOutput
	CmdTaskCancel

	// Terminal attributes.
	CmdAnnounceTermAttribute
	CmdRemoveTermAttribute
	CmdGetTermAttribute
	CmdSetTermAttribute

	// Server attributes.
	CmdAnnounceServerAttribute
	CmdRemoveServerAttribute
	CmdGetServerAttribute
	CmdSetServerAttribute

	// Connection attributes.
	CmdAnnounceConnectionAttribute
	CmdRemoveConnectionAttribute
	CmdGetConnectionAttribute
	CmdSetConnectionAttribute

	// Terminal lifecycle and content.
	CmdCreateTerm
	CmdDestroyTerm
	CmdResizeTerm
	CmdResizeBuffer
	CmdGetRows
	CmdGetRegion
	CmdGetContent
	CmdSendInput
	CmdMouseEvent
	CmdReset
	CmdCreateRegion
	CmdRemoveRegion

	// Connection/session bookkeeping.
	CmdAcknowledge
	CmdThrottle
	CmdKeepalive
	CmdDisconnect
	CmdBeginOutput
	CmdEndOutput

	// Differential update frames (spec §4.6): emitted by a terminal's
	// owning thread to every watcher inside one BEGIN_OUTPUT/END_OUTPUT
	// envelope, in this fixed order.
	CmdFlagsUpdate
	CmdBufferLength
	CmdBufferCapacity
	CmdBufferSwitch
	CmdSizeUpdate
	CmdCursorUpdate
	CmdBellUpdate
	CmdRegionUpdate
	CmdRowUpdate
	CmdAttributeUpdate
	CmdMouseMoved

	commandCount
)

var commandNames = [commandCount]string{
	CmdInvalid:                     "invalid",
	CmdTaskStart:                   "task-start",
	CmdTaskInput:                   "task-input",
	CmdTaskOutput:                  "task-output",
	CmdTaskCancel:                  "task-cancel",
	CmdAnnounceTermAttribute:       "announce-term-attribute",
	CmdRemoveTermAttribute:         "remove-term-attribute",
	CmdGetTermAttribute:            "get-term-attribute",
	CmdSetTermAttribute:            "set-term-attribute",
	CmdAnnounceServerAttribute:     "announce-server-attribute",
	CmdRemoveServerAttribute:       "remove-server-attribute",
	CmdGetServerAttribute:          "get-server-attribute",
	CmdSetServerAttribute:          "set-server-attribute",
	CmdAnnounceConnectionAttribute: "announce-connection-attribute",
	CmdRemoveConnectionAttribute:   "remove-connection-attribute",
	CmdGetConnectionAttribute:      "get-connection-attribute",
	CmdSetConnectionAttribute:      "set-connection-attribute",
	CmdCreateTerm:                  "create-term",
	CmdDestroyTerm:                 "destroy-term",
	CmdResizeTerm:                  "resize-term",
	CmdResizeBuffer:                "resize-buffer",
	CmdGetRows:                     "get-rows",
	CmdGetRegion:                   "get-region",
	CmdGetContent:                  "get-content",
	CmdSendInput:                   "send-input",
	CmdMouseEvent:                  "mouse-event",
	CmdReset:                       "reset",
	CmdCreateRegion:                "create-region",
	CmdRemoveRegion:                "remove-region",
	CmdAcknowledge:                 "acknowledge",
	CmdThrottle:                    "throttle",
	CmdKeepalive:                   "keepalive",
	CmdDisconnect:                  "disconnect",
	CmdBeginOutput:                 "begin-output",
	CmdEndOutput:                   "end-output",
	CmdFlagsUpdate:                 "flags-update",
	CmdBufferLength:                "buffer-length",
	CmdBufferCapacity:              "buffer-capacity",
	CmdBufferSwitch:                "buffer-switch",
	CmdSizeUpdate:                  "size-update",
	CmdCursorUpdate:                "cursor-update",
	CmdBellUpdate:                  "bell-update",
	CmdRegionUpdate:                "region-update",
	CmdRowUpdate:                   "row-update",
	CmdAttributeUpdate:             "attribute-update",
	CmdMouseMoved:                  "mouse-moved",
}

func (c Command) String() string {
	if c < commandCount {
		return commandNames[c]
	}
	return "unknown-command"
}

// Valid reports whether c is a recognized command. Frame decoders use
// this to turn an unknown command number into a protocol error instead
// of silently dispatching it.
func (c Command) Valid() bool { return c > CmdInvalid && c < commandCount }

// ProtocolVersion is the single u32 negotiated during the handshake.
const ProtocolVersion uint32 = 1

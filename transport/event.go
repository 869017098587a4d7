package transport

import "github.com/arugio/arugio/protocol"

// EventKind discriminates transport events.
type EventKind int

const (
	// EventConnected fires once per connection after the handshake.
	EventConnected EventKind = iota

	// EventDisconnected fires once when a connection dies; Err carries the
	// reason when the close was not clean.
	EventDisconnected

	// EventMessage carries one decoded inbound message.
	EventMessage

	// EventError reports a non-fatal per-frame failure (bad channel byte,
	// corrupt payload). The connection stays up.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventMessage:
		return "message"
	case EventError:
		return "error"
	}
	return "unknown"
}

// Event is one transport occurrence, tagged with the connection handle it
// belongs to.
type Event struct {
	Kind    EventKind
	Handle  uint32
	Message protocol.Message
	Err     error
}

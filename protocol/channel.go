package protocol

// Channel is the one-byte frame prefix selecting a message stream.
type Channel byte

const (
	// ChannelClientMessage carries reliable client-to-server control
	// messages.
	ChannelClientMessage Channel = 0

	// ChannelServerMessage carries reliable server-to-client control
	// messages.
	ChannelServerMessage Channel = 1

	// ChannelPosition carries droppable (BallID, Position) updates.
	ChannelPosition Channel = 2

	// ChannelVelocity carries droppable (BallID, Velocity) updates.
	ChannelVelocity Channel = 3

	// ChannelTargetVelocity carries droppable (BallID, TargetVelocity)
	// updates.
	ChannelTargetVelocity Channel = 4

	channelCount = 5
)

// MaxMessageLen caps the encoded frame size, channel byte included.
const MaxMessageLen = 1024

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	return c < channelCount
}

// Reliable reports whether frames on c must never be dropped. Component
// update channels tolerate loss; the next tick resends fresher state.
func (c Channel) Reliable() bool {
	return c == ChannelClientMessage || c == ChannelServerMessage
}

func (c Channel) String() string {
	switch c {
	case ChannelClientMessage:
		return "client_message"
	case ChannelServerMessage:
		return "server_message"
	case ChannelPosition:
		return "position"
	case ChannelVelocity:
		return "velocity"
	case ChannelTargetVelocity:
		return "target_velocity"
	}
	return "unknown"
}

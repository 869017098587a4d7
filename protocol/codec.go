package protocol

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/arugio/arugio/errors"
)

// Encode serializes a message into a wire frame: channel byte followed by
// the msgpack payload.
func Encode(m Message) ([]byte, error) {
	payload, err := msgpack.Marshal(m)
	if err != nil {
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Channel(int(m.Channel())).
			Cause(err).
			Build()
	}

	frame := make([]byte, 0, 1+len(payload))
	frame = append(frame, byte(m.Channel()))
	frame = append(frame, payload...)

	if len(frame) > MaxMessageLen {
		return nil, errors.TooLarge(errors.PhaseEncode, len(frame), MaxMessageLen)
	}
	return frame, nil
}

// Decode parses a wire frame back into its message.
func Decode(frame []byte) (Message, error) {
	if len(frame) == 0 {
		return nil, errors.Decode("empty frame", nil)
	}
	if len(frame) > MaxMessageLen {
		return nil, errors.TooLarge(errors.PhaseDecode, len(frame), MaxMessageLen)
	}

	ch := Channel(frame[0])
	payload := frame[1:]

	var (
		m   Message
		err error
	)
	switch ch {
	case ChannelClientMessage:
		var v ClientHello
		err = msgpack.Unmarshal(payload, &v)
		m = v
	case ChannelServerMessage:
		var v ServerWelcome
		err = msgpack.Unmarshal(payload, &v)
		m = v
	case ChannelPosition:
		var v PositionUpdate
		err = msgpack.Unmarshal(payload, &v)
		m = v
	case ChannelVelocity:
		var v VelocityUpdate
		err = msgpack.Unmarshal(payload, &v)
		m = v
	case ChannelTargetVelocity:
		var v TargetVelocityUpdate
		err = msgpack.Unmarshal(payload, &v)
		m = v
	default:
		return nil, errors.UnknownChannel(errors.PhaseDecode, int(ch))
	}

	if err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Channel(int(ch)).
			Cause(err).
			Build()
	}
	return m, nil
}

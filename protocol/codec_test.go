package protocol

import (
	"errors"
	"testing"

	arugioerr "github.com/arugio/arugio/errors"
	"github.com/arugio/arugio/game"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
	}{
		{"hello", ClientHello{}},
		{"welcome", ServerWelcome{ID: 42}},
		{"position", PositionUpdate{ID: 7, Pos: game.Vec2{X: 1.5, Y: -2.25}}},
		{"velocity", VelocityUpdate{ID: 7, Vel: game.Vec2{X: 0.5, Y: 0}}},
		{"target", TargetVelocityUpdate{ID: 9, Target: game.Vec2{X: -1, Y: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := Encode(tt.msg)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if Channel(frame[0]) != tt.msg.Channel() {
				t.Errorf("channel byte = %d, want %d", frame[0], tt.msg.Channel())
			}

			got, err := Decode(frame)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got != tt.msg {
				t.Errorf("round trip = %#v, want %#v", got, tt.msg)
			}
		})
	}
}

func TestDecode_EmptyFrame(t *testing.T) {
	_, err := Decode(nil)
	if !errors.Is(err, &arugioerr.Error{Phase: arugioerr.PhaseDecode, Kind: arugioerr.KindInvalidData}) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDecode_UnknownChannel(t *testing.T) {
	_, err := Decode([]byte{99, 0xc0})
	if !errors.Is(err, &arugioerr.Error{Phase: arugioerr.PhaseDecode, Kind: arugioerr.KindUnknownChannel}) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDecode_OversizedFrame(t *testing.T) {
	frame := make([]byte, MaxMessageLen+1)
	frame[0] = byte(ChannelPosition)

	_, err := Decode(frame)
	if !errors.Is(err, &arugioerr.Error{Phase: arugioerr.PhaseDecode, Kind: arugioerr.KindTooLarge}) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDecode_CorruptPayload(t *testing.T) {
	frame := []byte{byte(ChannelPosition), 0xc1} // 0xc1 is never valid msgpack
	_, err := Decode(frame)
	if !errors.Is(err, &arugioerr.Error{Phase: arugioerr.PhaseDecode, Kind: arugioerr.KindInvalidData}) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestChannel_Classes(t *testing.T) {
	reliable := []Channel{ChannelClientMessage, ChannelServerMessage}
	droppable := []Channel{ChannelPosition, ChannelVelocity, ChannelTargetVelocity}

	for _, ch := range reliable {
		if !ch.Reliable() {
			t.Errorf("channel %v should be reliable", ch)
		}
		if !ch.Valid() {
			t.Errorf("channel %v should be valid", ch)
		}
	}
	for _, ch := range droppable {
		if ch.Reliable() {
			t.Errorf("channel %v should be droppable", ch)
		}
		if !ch.Valid() {
			t.Errorf("channel %v should be valid", ch)
		}
	}
	if Channel(5).Valid() {
		t.Error("channel 5 should be invalid")
	}
}

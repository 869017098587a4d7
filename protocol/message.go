package protocol

import "github.com/arugio/arugio/game"

// Message is any value that can travel in a protocol frame.
type Message interface {
	// Channel returns the channel the message is carried on.
	Channel() Channel
}

// ClientHello is the first message a client sends after connecting.
type ClientHello struct{}

func (ClientHello) Channel() Channel { return ChannelClientMessage }

// ServerWelcome tells a client which ball it now owns.
type ServerWelcome struct {
	ID game.BallID `msgpack:"id"`
}

func (ServerWelcome) Channel() Channel { return ChannelServerMessage }

// PositionUpdate replicates one ball's position.
type PositionUpdate struct {
	ID  game.BallID `msgpack:"id"`
	Pos game.Vec2   `msgpack:"pos"`
}

func (PositionUpdate) Channel() Channel { return ChannelPosition }

// VelocityUpdate replicates one ball's velocity.
type VelocityUpdate struct {
	ID  game.BallID `msgpack:"id"`
	Vel game.Vec2   `msgpack:"vel"`
}

func (VelocityUpdate) Channel() Channel { return ChannelVelocity }

// TargetVelocityUpdate replicates one ball's steering input.
type TargetVelocityUpdate struct {
	ID     game.BallID `msgpack:"id"`
	Target game.Vec2   `msgpack:"target"`
}

func (TargetVelocityUpdate) Channel() Channel { return ChannelTargetVelocity }

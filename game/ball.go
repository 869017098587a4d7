package game

// BallID uniquely identifies a ball for its lifetime.
type BallID uint32

// NoOwner marks a ball with no network connection attached. Connection
// handles start at 1, so the zero value is never a real owner.
const NoOwner uint32 = 0

// Ball is one entity in the world: a steerable ball on the 2D plane.
type Ball struct {
	ID     BallID
	Pos    Vec2
	Vel    Vec2
	Target Vec2
	Owner  uint32
}

// Owned reports whether a connection controls this ball.
func (b *Ball) Owned() bool {
	return b.Owner != NoOwner
}

// Component identifies one of a ball's mutable components.
type Component uint8

const (
	ComponentPosition Component = iota
	ComponentVelocity
	ComponentTargetVelocity

	componentCount
)

func (c Component) String() string {
	switch c {
	case ComponentPosition:
		return "position"
	case ComponentVelocity:
		return "velocity"
	case ComponentTargetVelocity:
		return "target_velocity"
	}
	return "unknown"
}

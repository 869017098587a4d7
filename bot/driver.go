package bot

import (
	"context"
	"math/rand"
	"time"

	"github.com/arugio/arugio/game"
)

// Driver computes a new target velocity for a bot-controlled ball. Drivers
// are called from the tick goroutine and need not be safe for concurrent
// use.
type Driver interface {
	Steer(ctx context.Context, b *game.Ball, dt float32) game.Vec2
}

// RandomWalk picks a fresh uniform random target every tick, each component
// in [-1, 1). This is the default steering behavior.
type RandomWalk struct {
	rng *rand.Rand
}

// NewRandomWalk creates a random walker. A nil rng gets a time-based seed.
func NewRandomWalk(rng *rand.Rand) *RandomWalk {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RandomWalk{rng: rng}
}

func (r *RandomWalk) Steer(context.Context, *game.Ball, float32) game.Vec2 {
	return game.Vec2{
		X: r.rng.Float32()*2 - 1,
		Y: r.rng.Float32()*2 - 1,
	}
}

package game

import (
	"math/rand"
	"sort"
	"time"

	"github.com/arugio/arugio/errors"
)

// Simulation constants. The smoothing factor and move speed pair with the
// fixed tick rate: at 30 Hz a ball reaches ~90% of a new target velocity in
// just over a second.
const (
	TickRate = 30

	// VelocitySmoothing is the k in v = v*(1-dt*k) + target*(dt*k).
	VelocitySmoothing float32 = 2.0

	// MoveSpeed converts velocity units to world units per second.
	MoveSpeed float32 = 15.0

	// SpawnSpread bounds the random spawn square: [-SpawnSpread, SpawnSpread).
	SpawnSpread float32 = 5.0

	// MinUnowned is how many bot-driven balls the world keeps available for
	// joining players.
	MinUnowned = 3
)

// World holds every ball and tracks per-component changes between drains.
type World struct {
	balls   map[BallID]*Ball
	changed [componentCount]map[BallID]struct{}
	rng     *rand.Rand
}

// NewWorld creates an empty world with a time-seeded RNG.
func NewWorld() *World {
	return NewWorldSeeded(time.Now().UnixNano())
}

// NewWorldSeeded creates an empty world with a deterministic RNG, for tests
// and replays.
func NewWorldSeeded(seed int64) *World {
	w := &World{
		balls: make(map[BallID]*Ball),
		rng:   rand.New(rand.NewSource(seed)),
	}
	for i := range w.changed {
		w.changed[i] = make(map[BallID]struct{})
	}
	return w
}

func (w *World) Len() int {
	return len(w.balls)
}

// Ball returns the ball with the given id.
func (w *World) Ball(id BallID) (*Ball, bool) {
	b, ok := w.balls[id]
	return b, ok
}

// Balls returns every ball ordered by id.
func (w *World) Balls() []*Ball {
	out := make([]*Ball, 0, len(w.balls))
	for _, b := range w.balls {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Add inserts a ball with a caller-chosen id. Used when seeding from a
// snapshot and when a client spawns a replica for an id it learned from the
// server. The insert is not recorded as a change.
func (w *World) Add(b Ball) error {
	if _, ok := w.balls[b.ID]; ok {
		return errors.New(errors.PhaseSimulate, errors.KindInvalidData).
			Ball(uint32(b.ID)).
			Detail("duplicate ball id").
			Build()
	}
	ball := b
	w.balls[b.ID] = &ball
	return nil
}

// Spawn creates a new unowned ball at a random position and records the
// position as changed so the spawn reaches clients on the next broadcast.
func (w *World) Spawn() *Ball {
	id := w.nextID()
	b := &Ball{
		ID: id,
		Pos: Vec2{
			X: w.rng.Float32()*2*SpawnSpread - SpawnSpread,
			Y: w.rng.Float32()*2*SpawnSpread - SpawnSpread,
		},
	}
	w.balls[id] = b
	w.mark(ComponentPosition, id)
	return b
}

func (w *World) nextID() BallID {
	var highest BallID
	for id := range w.balls {
		if id > highest {
			highest = id
		}
	}
	return highest + 1
}

// SpawnMin spawns unowned balls until at least min exist, returning how many
// were created.
func (w *World) SpawnMin(min int) int {
	spawned := 0
	for len(w.Unowned()) < min {
		w.Spawn()
		spawned++
	}
	return spawned
}

// Unowned returns the balls no connection controls, ordered by id.
func (w *World) Unowned() []*Ball {
	var out []*Ball
	for _, b := range w.balls {
		if !b.Owned() {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ClaimUnowned attaches owner to the lowest-id unowned ball.
func (w *World) ClaimUnowned(owner uint32) (*Ball, bool) {
	unowned := w.Unowned()
	if len(unowned) == 0 {
		return nil, false
	}
	b := unowned[0]
	b.Owner = owner
	return b, true
}

// Release detaches the ball owned by owner, returning it to the bot pool.
func (w *World) Release(owner uint32) (*Ball, bool) {
	b, ok := w.OwnedBy(owner)
	if !ok {
		return nil, false
	}
	b.Owner = NoOwner
	return b, true
}

// OwnedBy returns the ball controlled by the given connection handle.
func (w *World) OwnedBy(owner uint32) (*Ball, bool) {
	if owner == NoOwner {
		return nil, false
	}
	for _, b := range w.balls {
		if b.Owner == owner {
			return b, true
		}
	}
	return nil, false
}

// SetPosition overwrites a ball's position and records the change.
func (w *World) SetPosition(id BallID, v Vec2) error {
	b, ok := w.balls[id]
	if !ok {
		return errors.BallNotFound(errors.PhaseSimulate, uint32(id))
	}
	b.Pos = v
	w.mark(ComponentPosition, id)
	return nil
}

// SetVelocity overwrites a ball's velocity and records the change.
func (w *World) SetVelocity(id BallID, v Vec2) error {
	b, ok := w.balls[id]
	if !ok {
		return errors.BallNotFound(errors.PhaseSimulate, uint32(id))
	}
	b.Vel = v
	w.mark(ComponentVelocity, id)
	return nil
}

// SetTarget overwrites a ball's target velocity and records the change.
func (w *World) SetTarget(id BallID, v Vec2) error {
	b, ok := w.balls[id]
	if !ok {
		return errors.BallNotFound(errors.PhaseSimulate, uint32(id))
	}
	b.Target = v
	w.mark(ComponentTargetVelocity, id)
	return nil
}

func (w *World) mark(c Component, id BallID) {
	w.changed[c][id] = struct{}{}
}

// Changed returns the ids whose component changed since the last
// ClearChanged, ordered by id.
func (w *World) Changed(c Component) []BallID {
	out := make([]BallID, 0, len(w.changed[c]))
	for id := range w.changed[c] {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ClearChanged resets all change tracking, normally at the end of a tick.
func (w *World) ClearChanged() {
	for i := range w.changed {
		clear(w.changed[i])
	}
}

// Rand exposes the world RNG so steering drivers share the seed.
func (w *World) Rand() *rand.Rand {
	return w.rng
}

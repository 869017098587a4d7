package server

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/arugio/arugio/bot"
	"github.com/arugio/arugio/game"
	"github.com/arugio/arugio/protocol"
	"github.com/arugio/arugio/store"
	"github.com/arugio/arugio/transport"
)

// Config configures a game server.
type Config struct {
	// Addr is the TCP listen address.
	Addr string

	// Path is the WebSocket endpoint path. Defaults to "/ws".
	Path string

	// TickRate is simulation steps per second. Defaults to game.TickRate.
	TickRate int

	// MinUnowned is the bot ball pool size. Defaults to game.MinUnowned.
	MinUnowned int

	// SnapshotEvery is the tick interval between snapshots; 0 keeps the
	// default of 300 (ten seconds at 30 Hz). Snapshots need a Store.
	SnapshotEvery int

	// Store persists the world across restarts. Optional.
	Store *store.Store

	// Driver steers unowned balls. Defaults to bot.RandomWalk sharing the
	// world's RNG.
	Driver bot.Driver

	// Seed makes the world deterministic when non-zero.
	Seed int64

	// Logger defaults to zap.NewNop().
	Logger *zap.Logger
}

// Server is the authoritative game instance.
type Server struct {
	cfg       Config
	log       *zap.Logger
	world     *game.World
	transport *transport.Server
	driver    bot.Driver
	ticks     int
}

// New seeds the world (from the store when one is configured) and starts
// listening. The simulation does not advance until Run.
func New(cfg Config) (*Server, error) {
	if cfg.TickRate <= 0 {
		cfg.TickRate = game.TickRate
	}
	if cfg.MinUnowned <= 0 {
		cfg.MinUnowned = game.MinUnowned
	}
	if cfg.SnapshotEvery <= 0 {
		cfg.SnapshotEvery = 300
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	var world *game.World
	if cfg.Seed != 0 {
		world = game.NewWorldSeeded(cfg.Seed)
	} else {
		world = game.NewWorld()
	}

	if cfg.Store != nil {
		balls, err := cfg.Store.Load()
		if err != nil {
			return nil, err
		}
		for _, b := range balls {
			if err := world.Add(b); err != nil {
				return nil, err
			}
		}
		if len(balls) > 0 {
			cfg.Logger.Info("world restored", zap.Int("balls", len(balls)))
		}
	}
	world.SpawnMin(cfg.MinUnowned)

	driver := cfg.Driver
	if driver == nil {
		driver = bot.NewRandomWalk(world.Rand())
	}

	ts, err := transport.Listen(transport.ServerConfig{
		Addr:   cfg.Addr,
		Path:   cfg.Path,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:       cfg,
		log:       cfg.Logger,
		world:     world,
		transport: ts,
		driver:    driver,
	}, nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() net.Addr {
	return s.transport.Addr()
}

// Run drives the tick loop until ctx is canceled, then snapshots and shuts
// the transport down.
func (s *Server) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(s.cfg.TickRate)
	dt := float32(interval.Seconds())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("running",
		zap.Int("tick_rate", s.cfg.TickRate),
		zap.Int("balls", s.world.Len()))

	for {
		select {
		case <-ctx.Done():
			return s.shutdown()
		case <-ticker.C:
			s.tick(ctx, dt)
		}
	}
}

func (s *Server) shutdown() error {
	s.log.Info("shutting down")
	if s.cfg.Store != nil {
		if err := s.cfg.Store.Save(s.world.Balls()); err != nil {
			s.log.Error("final snapshot failed", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.transport.Close(ctx)
}

// tick advances the simulation one step.
func (s *Server) tick(ctx context.Context, dt float32) {
	s.drainEvents()

	for _, b := range s.world.Unowned() {
		target := s.driver.Steer(ctx, b, dt)
		s.world.SetTarget(b.ID, target)
	}

	s.world.Step(dt)
	s.world.SpawnMin(s.cfg.MinUnowned)

	s.broadcastChanges()
	s.world.ClearChanged()

	s.ticks++
	if s.cfg.Store != nil && s.ticks%s.cfg.SnapshotEvery == 0 {
		if err := s.cfg.Store.Save(s.world.Balls()); err != nil {
			s.log.Error("snapshot failed", zap.Error(err))
		}
	}
}

func (s *Server) drainEvents() {
	for {
		select {
		case ev := <-s.transport.Events():
			s.handleEvent(ev)
		default:
			return
		}
	}
}

func (s *Server) handleEvent(ev transport.Event) {
	switch ev.Kind {
	case transport.EventConnected:
		s.handleConnected(ev.Handle)
	case transport.EventDisconnected:
		s.handleDisconnected(ev)
	case transport.EventMessage:
		s.handleMessage(ev.Handle, ev.Message)
	case transport.EventError:
		s.log.Warn("bad frame", zap.Uint32("handle", ev.Handle), zap.Error(ev.Err))
	}
}

func (s *Server) handleConnected(handle uint32) {
	ball, ok := s.world.ClaimUnowned(handle)
	if !ok {
		ball = s.world.Spawn()
		ball.Owner = handle
	}

	s.log.Info("player joined",
		zap.Uint32("handle", handle),
		zap.Uint32("ball", uint32(ball.ID)))

	conn, ok := s.transport.Conn(handle)
	if !ok {
		// Connection died between the event and now; the ball frees up on
		// the Disconnected event.
		return
	}
	if err := conn.Send(protocol.ServerWelcome{ID: ball.ID}); err != nil {
		s.log.Warn("welcome failed", zap.Uint32("handle", handle), zap.Error(err))
	}
}

func (s *Server) handleDisconnected(ev transport.Event) {
	if ball, ok := s.world.Release(ev.Handle); ok {
		s.log.Info("player left",
			zap.Uint32("handle", ev.Handle),
			zap.Uint32("ball", uint32(ball.ID)),
			zap.Error(ev.Err))
	}
}

func (s *Server) handleMessage(handle uint32, m protocol.Message) {
	switch msg := m.(type) {
	case protocol.ClientHello:
		s.log.Info("hello", zap.Uint32("handle", handle))

	case protocol.PositionUpdate:
		s.applyOwned(handle, msg.ID, func(id game.BallID) {
			s.world.SetPosition(id, msg.Pos)
		})

	case protocol.TargetVelocityUpdate:
		s.applyOwned(handle, msg.ID, func(id game.BallID) {
			s.world.SetTarget(id, msg.Target)
		})

	default:
		s.log.Warn("unexpected message",
			zap.Uint32("handle", handle),
			zap.String("channel", m.Channel().String()))
	}
}

// applyOwned runs fn only when the update addresses the sender's own ball.
// Updates for other balls are dropped: clients are authoritative over
// nothing but their own input.
func (s *Server) applyOwned(handle uint32, id game.BallID, fn func(game.BallID)) {
	ball, ok := s.world.OwnedBy(handle)
	if !ok || ball.ID != id {
		s.log.Debug("update for unowned ball dropped",
			zap.Uint32("handle", handle),
			zap.Uint32("ball", uint32(id)))
		return
	}
	fn(id)
}

// broadcastChanges sends every changed position and target velocity to all
// connections on their droppable channels. Velocity is derived client-side
// by the shared smoothing system, so it is not broadcast.
func (s *Server) broadcastChanges() {
	for _, id := range s.world.Changed(game.ComponentPosition) {
		if b, ok := s.world.Ball(id); ok {
			s.transport.BroadcastDroppable(protocol.PositionUpdate{ID: id, Pos: b.Pos})
		}
	}
	for _, id := range s.world.Changed(game.ComponentTargetVelocity) {
		if b, ok := s.world.Ball(id); ok {
			s.transport.BroadcastDroppable(protocol.TargetVelocityUpdate{ID: id, Target: b.Target})
		}
	}
}

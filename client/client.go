package client

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arugio/arugio/errors"
	"github.com/arugio/arugio/game"
	"github.com/arugio/arugio/protocol"
	"github.com/arugio/arugio/transport"
)

// Config configures a headless client.
type Config struct {
	// URL is the server's WebSocket endpoint.
	URL string

	// TickRate is the local prediction rate. Defaults to game.TickRate.
	TickRate int

	// MaxElapsed bounds connection retries. Zero retries until the context
	// is canceled.
	MaxElapsed time.Duration

	// Logger defaults to zap.NewNop().
	Logger *zap.Logger
}

// Client mirrors the server's world over one connection.
type Client struct {
	cfg Config
	log *zap.Logger

	mu       sync.RWMutex
	world    *game.World
	localID  game.BallID
	welcomed bool
}

// New creates a client. Nothing happens until Run.
func New(cfg Config) *Client {
	if cfg.TickRate <= 0 {
		cfg.TickRate = game.TickRate
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Client{
		cfg:   cfg,
		log:   cfg.Logger,
		world: game.NewWorld(),
	}
}

// Run connects and drives the replica until ctx is canceled (returns nil)
// or the connection dies (returns the disconnect error).
func (c *Client) Run(ctx context.Context) error {
	conn, events, err := transport.Dial(ctx, transport.DialConfig{
		URL:        c.cfg.URL,
		MaxElapsed: c.cfg.MaxElapsed,
		Logger:     c.log,
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	interval := time.Second / time.Duration(c.cfg.TickRate)
	dt := float32(interval.Seconds())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			if err := c.handleEvent(conn, ev); err != nil {
				return err
			}

		case <-ticker.C:
			c.step(conn, dt)
		}
	}
}

func (c *Client) handleEvent(conn *transport.Conn, ev transport.Event) error {
	switch ev.Kind {
	case transport.EventConnected:
		if err := conn.Send(protocol.ClientHello{}); err != nil {
			return err
		}

	case transport.EventDisconnected:
		if ev.Err != nil {
			return errors.Closed(errors.PhaseDial, ev.Err)
		}
		return errors.Closed(errors.PhaseDial, nil)

	case transport.EventMessage:
		c.handleMessage(ev.Message)

	case transport.EventError:
		c.log.Warn("bad frame", zap.Error(ev.Err))
	}
	return nil
}

func (c *Client) handleMessage(m protocol.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch msg := m.(type) {
	case protocol.ServerWelcome:
		c.localID = msg.ID
		c.welcomed = true
		c.ensureBall(msg.ID)
		c.log.Info("welcomed", zap.Uint32("ball", uint32(msg.ID)))

	case protocol.PositionUpdate:
		if c.isLocal(msg.ID) {
			return
		}
		c.ensureBall(msg.ID)
		c.world.SetPosition(msg.ID, msg.Pos)

	case protocol.VelocityUpdate:
		if c.isLocal(msg.ID) {
			return
		}
		c.ensureBall(msg.ID)
		c.world.SetVelocity(msg.ID, msg.Vel)

	case protocol.TargetVelocityUpdate:
		if c.isLocal(msg.ID) {
			return
		}
		c.ensureBall(msg.ID)
		c.world.SetTarget(msg.ID, msg.Target)
	}
}

// isLocal reports whether id is the ball this client controls. Server
// echoes of our own updates must not fight local prediction.
func (c *Client) isLocal(id game.BallID) bool {
	return c.welcomed && id == c.localID
}

// ensureBall spawns a replica for ids learned from the wire. Callers hold
// c.mu.
func (c *Client) ensureBall(id game.BallID) {
	if _, ok := c.world.Ball(id); !ok {
		c.world.Add(game.Ball{ID: id})
	}
}

// step advances prediction one tick and broadcasts local changes.
func (c *Client) step(conn *transport.Conn, dt float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.world.Step(dt)

	if c.welcomed {
		c.sendLocalChanges(conn)
	}
	c.world.ClearChanged()
}

// sendLocalChanges mirrors the server's delta broadcast, scoped to the one
// ball this client owns. Callers hold c.mu.
func (c *Client) sendLocalChanges(conn *transport.Conn) {
	b, ok := c.world.Ball(c.localID)
	if !ok {
		return
	}

	for _, id := range c.world.Changed(game.ComponentTargetVelocity) {
		if id == c.localID {
			conn.SendDroppable(protocol.TargetVelocityUpdate{ID: id, Target: b.Target})
		}
	}
	for _, id := range c.world.Changed(game.ComponentPosition) {
		if id == c.localID {
			conn.SendDroppable(protocol.PositionUpdate{ID: id, Pos: b.Pos})
		}
	}
}

// LocalID returns the ball this client owns, once welcomed.
func (c *Client) LocalID() (game.BallID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.localID, c.welcomed
}

// SetTarget steers the local ball. The change reaches the server on the
// next tick.
func (c *Client) SetTarget(v game.Vec2) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.welcomed {
		return
	}
	c.world.SetTarget(c.localID, v)
}

// Snapshot returns a copy of every replica ball, ordered by id.
func (c *Client) Snapshot() []game.Ball {
	c.mu.RLock()
	defer c.mu.RUnlock()

	balls := c.world.Balls()
	out := make([]game.Ball, len(balls))
	for i, b := range balls {
		out[i] = *b
	}
	return out
}

package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/arugio/arugio/game"
	"github.com/arugio/arugio/protocol"
	"github.com/arugio/arugio/store"
	"github.com/arugio/arugio/transport"
)

const testDT = float32(1.0 / game.TickRate)

// stillDriver keeps bot balls motionless so tests see only player input.
type stillDriver struct{}

func (stillDriver) Steer(context.Context, *game.Ball, float32) game.Vec2 {
	return game.Vec2{}
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:0"
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.shutdown() })
	return s
}

func dialTest(t *testing.T, s *Server) (*transport.Conn, <-chan transport.Event) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, events, err := transport.Dial(ctx, transport.DialConfig{
		URL:        "ws://" + s.Addr().String() + "/ws",
		MaxElapsed: 3 * time.Second,
	})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, events
}

// tickUntil advances the simulation until cond holds, failing the test when
// it never does. Events arrive asynchronously, so each tick is followed by
// a short pause.
func tickUntil(t *testing.T, s *Server, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		s.tick(context.Background(), testDT)
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never satisfied")
}

func waitMessage[T protocol.Message](t *testing.T, s *Server, events <-chan transport.Event) T {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		s.tick(context.Background(), testDT)
		select {
		case ev := <-events:
			if ev.Kind == transport.EventMessage {
				if m, ok := ev.Message.(T); ok {
					return m
				}
			}
		case <-time.After(5 * time.Millisecond):
		}
	}
	t.Fatal("message never arrived")
	panic("unreachable")
}

func TestServer_WelcomeAssignsBall(t *testing.T) {
	s := newTestServer(t, Config{Driver: stillDriver{}})
	client, events := dialTest(t, s)

	if err := client.Send(protocol.ClientHello{}); err != nil {
		t.Fatal(err)
	}
	welcome := waitMessage[protocol.ServerWelcome](t, s, events)
	if welcome.ID == 0 {
		t.Fatal("welcomed with ball id 0")
	}

	ball, ok := s.world.Ball(welcome.ID)
	if !ok {
		t.Fatalf("welcomed ball %d not in world", welcome.ID)
	}
	if !ball.Owned() {
		t.Error("welcomed ball is unowned")
	}

	// The pool refills behind the claimed ball.
	if got := len(s.world.Unowned()); got < s.cfg.MinUnowned {
		t.Errorf("unowned pool has %d balls, want at least %d", got, s.cfg.MinUnowned)
	}
}

func TestServer_AppliesOwnInput(t *testing.T) {
	s := newTestServer(t, Config{Driver: stillDriver{}})
	client, events := dialTest(t, s)

	welcome := waitMessage[protocol.ServerWelcome](t, s, events)
	target := game.Vec2{X: 1, Y: 0}
	if err := client.Send(protocol.TargetVelocityUpdate{ID: welcome.ID, Target: target}); err != nil {
		t.Fatal(err)
	}

	tickUntil(t, s, func() bool {
		b, _ := s.world.Ball(welcome.ID)
		return b.Target == target
	})

	// Velocity smoothing pulls the ball toward the target over time.
	tickUntil(t, s, func() bool {
		b, _ := s.world.Ball(welcome.ID)
		return b.Vel.X > 0.5
	})
}

func TestServer_DropsForeignInput(t *testing.T) {
	s := newTestServer(t, Config{Driver: stillDriver{}})
	client, events := dialTest(t, s)

	welcome := waitMessage[protocol.ServerWelcome](t, s, events)

	var foreign game.BallID
	for _, b := range s.world.Balls() {
		if b.ID != welcome.ID {
			foreign = b.ID
			break
		}
	}

	poison := game.Vec2{X: -1, Y: -1}
	if err := client.Send(protocol.TargetVelocityUpdate{ID: foreign, Target: poison}); err != nil {
		t.Fatal(err)
	}
	if err := client.Send(protocol.PositionUpdate{ID: foreign, Pos: poison}); err != nil {
		t.Fatal(err)
	}
	// A legit update afterwards proves the poison frames were already
	// processed and dropped.
	if err := client.Send(protocol.TargetVelocityUpdate{ID: welcome.ID, Target: game.Vec2{X: 1}}); err != nil {
		t.Fatal(err)
	}
	tickUntil(t, s, func() bool {
		b, _ := s.world.Ball(welcome.ID)
		return b.Target.X == 1
	})

	b, _ := s.world.Ball(foreign)
	if b.Target == poison || b.Pos == poison {
		t.Errorf("foreign ball accepted update: %+v", b)
	}
}

func TestServer_DisconnectReturnsBallToPool(t *testing.T) {
	s := newTestServer(t, Config{Driver: stillDriver{}})
	client, events := dialTest(t, s)

	welcome := waitMessage[protocol.ServerWelcome](t, s, events)
	client.Close()

	tickUntil(t, s, func() bool {
		b, _ := s.world.Ball(welcome.ID)
		return !b.Owned()
	})
}

func TestServer_BroadcastsBotMovement(t *testing.T) {
	s := newTestServer(t, Config{}) // default random walk driver
	_, events := dialTest(t, s)

	update := waitMessage[protocol.PositionUpdate](t, s, events)
	if _, ok := s.world.Ball(update.ID); !ok {
		t.Errorf("broadcast for unknown ball %d", update.ID)
	}
}

func TestServer_SnapshotAndRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.db")

	st, err := store.Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, Config{Driver: stillDriver{}, Store: st, SnapshotEvery: 1})
	s.tick(context.Background(), testDT)

	balls, err := st.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(balls) < s.cfg.MinUnowned {
		t.Fatalf("snapshot has %d balls, want at least %d", len(balls), s.cfg.MinUnowned)
	}
	s.shutdown()
	st.Close()

	// A new server over the same database restores the population and
	// spawns fresh ids above the restored ones.
	st2, err := store.Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer st2.Close()

	s2 := newTestServer(t, Config{Driver: stillDriver{}, Store: st2})
	if s2.world.Len() < len(balls) {
		t.Errorf("restored world has %d balls, want at least %d", s2.world.Len(), len(balls))
	}
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	s := newTestServer(t, Config{Driver: stillDriver{}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
}

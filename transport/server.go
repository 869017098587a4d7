package transport

import (
	"context"
	"net"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/arugio/arugio/errors"
	"github.com/arugio/arugio/protocol"
)

// eventBuffer sizes the shared event channel. The owner drains it every
// tick, so it only needs to absorb one tick's worth of traffic.
const eventBuffer = 256

// ServerConfig configures a listening transport.
type ServerConfig struct {
	// Addr is the TCP address to listen on, e.g. "127.0.0.1:9001".
	Addr string

	// Path is the HTTP path upgraded to WebSocket. Defaults to "/ws".
	Path string

	// Logger defaults to zap.NewNop().
	Logger *zap.Logger
}

// Server accepts game connections and multiplexes their events onto a
// single channel.
type Server struct {
	log      *zap.Logger
	upgrader websocket.Upgrader
	httpSrv  *http.Server
	listener net.Listener
	events   chan Event

	mu         sync.RWMutex
	conns      map[uint32]*Conn
	nextHandle atomic.Uint32
	closed     atomic.Bool
}

// Listen binds the address and starts accepting connections.
func Listen(cfg ServerConfig) (*Server, error) {
	if cfg.Path == "" {
		cfg.Path = "/ws"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, errors.New(errors.PhaseListen, errors.KindClosed).
			Detail("bind %s", cfg.Addr).
			Cause(err).
			Build()
	}

	s := &Server{
		log:      cfg.Logger,
		listener: ln,
		events:   make(chan Event, eventBuffer),
		conns:    make(map[uint32]*Conn),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  protocol.MaxMessageLen,
			WriteBufferSize: protocol.MaxMessageLen,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc(cfg.Path, s.handleWS)
	s.httpSrv = &http.Server{Handler: mux}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Error("http serve stopped", zap.Error(err))
		}
	}()

	s.log.Info("listening", zap.String("addr", ln.Addr().String()), zap.String("path", cfg.Path))
	return s, nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", zap.Error(err))
		return
	}
	if s.closed.Load() {
		ws.Close()
		return
	}

	handle := s.nextHandle.Add(1)
	conn := newConn(handle, ws, s.events, s.log)

	s.mu.Lock()
	s.conns[handle] = conn
	s.mu.Unlock()

	s.events <- Event{Kind: EventConnected, Handle: handle}
	conn.start(s.unregister)
}

func (s *Server) unregister(c *Conn) {
	s.mu.Lock()
	delete(s.conns, c.handle)
	s.mu.Unlock()
}

// Events returns the shared event channel. The owner must drain it.
func (s *Server) Events() <-chan Event {
	return s.events
}

// Addr returns the bound listen address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Conn returns the live connection for a handle.
func (s *Server) Conn(handle uint32) (*Conn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conns[handle]
	return c, ok
}

// Conns returns a snapshot of the live connections.
func (s *Server) Conns() []*Conn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Conn, 0, len(s.conns))
	for _, c := range s.conns {
		out = append(out, c)
	}
	return out
}

// Broadcast queues m reliably on every live connection. Send errors on
// individual connections are logged, not returned; the dying connection
// reports itself through its Disconnected event.
func (s *Server) Broadcast(m protocol.Message) {
	for _, c := range s.Conns() {
		if err := c.Send(m); err != nil {
			s.log.Debug("broadcast send failed", zap.Uint32("handle", c.handle), zap.Error(err))
		}
	}
}

// BroadcastDroppable queues m on every live connection, dropping per
// connection under backpressure.
func (s *Server) BroadcastDroppable(m protocol.Message) {
	for _, c := range s.Conns() {
		if err := c.SendDroppable(m); err != nil {
			s.log.Debug("broadcast send failed", zap.Uint32("handle", c.handle), zap.Error(err))
		}
	}
}

// Close stops accepting and tears down every connection.
func (s *Server) Close(ctx context.Context) error {
	s.closed.Store(true)
	for _, c := range s.Conns() {
		c.Close()
	}
	return s.httpSrv.Shutdown(ctx)
}

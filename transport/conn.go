package transport

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/arugio/arugio/errors"
	"github.com/arugio/arugio/protocol"
)

const (
	// outboundQueue bounds frames waiting for the write pump. Droppable
	// sends discard instead of waiting when it is full.
	outboundQueue = 32

	writeWait  = 10 * time.Second
	pongWait   = 20 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Conn is one live game connection. Sends are safe for concurrent use.
type Conn struct {
	handle uint32
	ws     *websocket.Conn
	events chan<- Event
	log    *zap.Logger

	out       chan []byte
	closeOnce sync.Once
	closed    chan struct{}
	dropped   atomic.Uint64
}

func newConn(handle uint32, ws *websocket.Conn, events chan<- Event, log *zap.Logger) *Conn {
	return &Conn{
		handle: handle,
		ws:     ws,
		events: events,
		log:    log.With(zap.Uint32("handle", handle)),
		out:    make(chan []byte, outboundQueue),
		closed: make(chan struct{}),
	}
}

// start launches the read and write pumps. onExit runs exactly once after
// the read pump returns, before the Disconnected event is emitted.
func (c *Conn) start(onExit func(*Conn)) {
	go c.writePump()
	go c.readPump(onExit)
}

// Handle returns the connection's server-assigned identity.
func (c *Conn) Handle() uint32 {
	return c.handle
}

// Send encodes m and queues it for delivery, blocking while the queue is
// full. It fails when the connection has closed.
func (c *Conn) Send(m protocol.Message) error {
	frame, err := protocol.Encode(m)
	if err != nil {
		return err
	}
	select {
	case c.out <- frame:
		return nil
	case <-c.closed:
		return errors.Closed(errors.PhaseSend, nil)
	}
}

// SendDroppable encodes m and queues it if there is room. A full queue
// drops the frame silently; only encode failures and a closed connection
// are errors.
func (c *Conn) SendDroppable(m protocol.Message) error {
	frame, err := protocol.Encode(m)
	if err != nil {
		return err
	}
	select {
	case c.out <- frame:
		return nil
	case <-c.closed:
		return errors.Closed(errors.PhaseSend, nil)
	default:
		c.dropped.Add(1)
		return nil
	}
}

// Dropped returns how many droppable frames were discarded to backpressure.
func (c *Conn) Dropped() uint64 {
	return c.dropped.Load()
}

// Close tears the connection down. Safe to call multiple times.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.ws.Close()
	})
	return err
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case frame := <-c.out:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				c.log.Debug("write failed", zap.Error(err))
				c.Close()
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.closed:
			return
		}
	}
}

func (c *Conn) readPump(onExit func(*Conn)) {
	var reason error
	defer func() {
		c.Close()
		if onExit != nil {
			onExit(c)
		}
		c.emit(Event{Kind: EventDisconnected, Handle: c.handle, Err: reason})
	}()

	c.ws.SetReadLimit(protocol.MaxMessageLen)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		kind, frame, err := c.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				reason = err
			}
			return
		}
		if kind != websocket.BinaryMessage {
			continue
		}

		m, err := protocol.Decode(frame)
		if err != nil {
			c.emit(Event{Kind: EventError, Handle: c.handle, Err: err})
			continue
		}
		c.emit(Event{Kind: EventMessage, Handle: c.handle, Message: m})
	}
}

func (c *Conn) emit(ev Event) {
	c.events <- ev
}

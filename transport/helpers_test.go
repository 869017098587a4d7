package transport

import (
	"context"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/arugio/arugio/errors"
)

func dialRaw(ctx context.Context, url string) (*websocket.Conn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	return ws, err
}

func newConnForTest(ws *websocket.Conn, events chan Event) *Conn {
	return newConn(1, ws, events, zap.NewNop())
}

// sendRaw queues an arbitrary frame, bypassing the codec.
func (c *Conn) sendRaw(frame []byte) error {
	select {
	case c.out <- frame:
		return nil
	case <-c.closed:
		return errors.Closed(errors.PhaseSend, nil)
	}
}

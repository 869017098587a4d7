package transport

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/arugio/arugio/errors"
)

// DialConfig configures an outbound connection.
type DialConfig struct {
	// URL is the full WebSocket endpoint, e.g. "ws://127.0.0.1:9001/ws".
	URL string

	// MaxElapsed bounds the total retry time. Zero retries until the
	// context is canceled.
	MaxElapsed time.Duration

	// Logger defaults to zap.NewNop().
	Logger *zap.Logger
}

// Dial connects to a server, retrying with exponential backoff until the
// connection is established, the retry budget runs out, or ctx is canceled.
// The returned event channel carries the Connected event, then inbound
// messages, then a final Disconnected.
func Dial(ctx context.Context, cfg DialConfig) (*Conn, <-chan Event, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = cfg.MaxElapsed

	var ws *websocket.Conn
	operation := func() error {
		var err error
		ws, _, err = websocket.DefaultDialer.DialContext(ctx, cfg.URL, nil)
		if err != nil {
			log.Debug("dial attempt failed", zap.String("url", cfg.URL), zap.Error(err))
		}
		return err
	}
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, nil, errors.New(errors.PhaseDial, errors.KindClosed).
			Detail("connect %s", cfg.URL).
			Cause(err).
			Build()
	}

	events := make(chan Event, eventBuffer)
	conn := newConn(1, ws, events, log)

	events <- Event{Kind: EventConnected, Handle: conn.handle}
	conn.start(nil)

	log.Info("connected", zap.String("url", cfg.URL))
	return conn, events, nil
}

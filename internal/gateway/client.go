package gateway

import (
	"context"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/Xremix39-prog/uno-web-chat-party/internal/obslog"
	"github.com/Xremix39-prog/uno-web-chat-party/pkg/unodto"
)

const (
	sendBuffer   = 32
	writeTimeout = 10 * time.Second
)

// client is one websocket connection. playerID/roomID are set once the
// connection issues a command that seats it; both are guarded by hub.mu.
type client struct {
	hub  *Hub
	conn *websocket.Conn

	playerID string
	roomID   string

	outbox chan unodto.Envelope
	done   chan struct{}
}

func newClient(h *Hub, conn *websocket.Conn) *client {
	return &client{
		hub:    h,
		conn:   conn,
		outbox: make(chan unodto.Envelope, sendBuffer),
		done:   make(chan struct{}),
	}
}

// run drives both pumps and blocks until the connection dies.
func (c *client) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writePump(ctx)
	c.readLoop(ctx)

	close(c.done)
	c.hub.drop(c)
	_ = c.conn.Close(websocket.StatusNormalClosure, "bye")
}

func (c *client) readLoop(ctx context.Context) {
	for {
		var env unodto.Envelope
		if err := wsjson.Read(ctx, c.conn, &env); err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				obslog.L().Debug("ws_read_error", zap.Error(err))
			}
			return
		}
		c.dispatch(ctx, env)
	}
}

func (c *client) writePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-c.outbox:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, c.conn, env)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// send queues an envelope without blocking command handling. A full outbox
// means the peer has stalled; the frame is dropped and the next room
// snapshot resynchronizes it.
func (c *client) send(env unodto.Envelope) {
	select {
	case <-c.done:
	case c.outbox <- env:
	default:
		obslog.L().Warn("ws_outbox_full",
			zap.String("player_id", c.playerID),
			zap.String("type", env.Type),
		)
	}
}

func (c *client) sendError(err error) {
	code, msg := "INTERNAL", "internal error"
	if derr, ok := err.(*unodto.DomainError); ok {
		code, msg = derr.Code, derr.Message
	}
	c.send(unodto.Wrap(unodto.EvtError, unodto.ErrorEvent{
		Code:    code,
		Message: c.hub.errorText(code, msg),
	}))
}

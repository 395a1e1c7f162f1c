package gateway

import (
	"net/http"
	"sync"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/Xremix39-prog/uno-web-chat-party/internal/engine"
	"github.com/Xremix39-prog/uno-web-chat-party/internal/msgcat"
	"github.com/Xremix39-prog/uno-web-chat-party/internal/obslog"
	"github.com/Xremix39-prog/uno-web-chat-party/pkg/unodto"
)

// Hub owns every live connection and the playerID -> connection binding.
// The engine never sees a socket; the hub translates between envelopes and
// engine calls, and fans engine state back out as per-player projections.
type Hub struct {
	engine *engine.Manager
	cat    *msgcat.Catalog

	mu       sync.RWMutex
	clients  map[*client]struct{}
	byPlayer map[string]*client
}

func NewHub(m *engine.Manager, cat *msgcat.Catalog) *Hub {
	return &Hub{
		engine:   m,
		cat:      cat,
		clients:  make(map[*client]struct{}),
		byPlayer: make(map[string]*client),
	}
}

// ServeWS upgrades the request and runs the connection until it drops.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		obslog.L().Warn("ws_accept_error", zap.Error(err))
		return
	}

	c := newClient(h, conn)
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	obslog.L().Debug("ws_open", zap.Int("clients", h.clientCount()))

	c.run(r.Context())
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// bind points a player identity at a connection. The latest binding wins;
// a previous connection for the same player keeps running but no longer
// receives that player's events.
func (h *Hub) bind(c *client, playerID, roomID string) {
	h.mu.Lock()
	c.playerID = playerID
	c.roomID = roomID
	h.byPlayer[playerID] = c
	h.mu.Unlock()
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	playerID, roomID := c.playerID, c.roomID
	if playerID != "" && h.byPlayer[playerID] == c {
		delete(h.byPlayer, playerID)
	} else {
		playerID = "" // superseded binding, seat stays reachable
	}
	h.mu.Unlock()

	if playerID != "" && roomID != "" {
		h.engine.MarkConnected(roomID, playerID, false)
		h.fanOutRoom(roomID)
	}
}

func (h *Hub) clientFor(playerID string) *client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.byPlayer[playerID]
}

// fanOutRoom pushes each seat's own projection of the room to whatever
// connection currently holds that seat.
func (h *Hub) fanOutRoom(roomID string) {
	views, err := h.engine.Views(roomID)
	if err != nil {
		return
	}
	for playerID, view := range views {
		if c := h.clientFor(playerID); c != nil {
			c.send(unodto.Wrap(unodto.EvtRoomUpdated, unodto.RoomUpdatedEvent{Room: view}))
		}
	}
}

// fanOutEvent sends one shared envelope to every seat of a room.
func (h *Hub) fanOutEvent(roomID string, env unodto.Envelope) {
	views, err := h.engine.Views(roomID)
	if err != nil {
		return
	}
	for playerID := range views {
		if c := h.clientFor(playerID); c != nil {
			c.send(env)
		}
	}
}

// broadcastDirectory pushes the public room list to every connection, so
// lobby screens stay live without polling.
func (h *Hub) broadcastDirectory() {
	env := unodto.Wrap(unodto.EvtRooms, unodto.RoomsEvent{Rooms: h.engine.Directory()})
	h.mu.RLock()
	for c := range h.clients {
		c.send(env)
	}
	h.mu.RUnlock()
}

// notice renders a catalog template and fans it out as a system chat line.
func (h *Hub) notice(roomID, key string, data any) {
	if h.cat == nil {
		return
	}
	text, err := h.cat.Render(key, data)
	if err != nil {
		obslog.L().Warn("notice_render_error", zap.String("key", key), zap.Error(err))
		return
	}
	h.fanOutEvent(roomID, unodto.Wrap(unodto.EvtChat, unodto.ChatEvent{
		RoomID: roomID,
		Message: unodto.ChatMessageView{
			SenderID:   "system",
			SenderName: "system",
			Text:       text,
		},
	}))
}

// errorText prefers the catalog wording for a code, falling back to the
// error's built-in message.
func (h *Hub) errorText(code, fallback string) string {
	if h.cat != nil {
		if text, err := h.cat.Render("errors."+code, nil); err == nil {
			return text
		}
	}
	return fallback
}

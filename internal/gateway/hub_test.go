package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/Xremix39-prog/uno-web-chat-party/internal/engine"
	"github.com/Xremix39-prog/uno-web-chat-party/internal/identity"
	"github.com/Xremix39-prog/uno-web-chat-party/internal/msgcat"
	"github.com/Xremix39-prog/uno-web-chat-party/pkg/unodto"
)

func newTestServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	m := engine.NewManager(identity.NewMemoryStore())
	h := NewHub(m, cat)
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	t.Cleanup(srv.Close)
	return srv, h
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "test done") })
	return conn
}

func sendCmd(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := wsjson.Write(ctx, conn, unodto.Wrap(typ, payload)); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

// readUntil drains events until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) unodto.Envelope {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		var env unodto.Envelope
		if err := wsjson.Read(ctx, conn, &env); err != nil {
			t.Fatalf("waiting for %s: %v", typ, err)
		}
		if env.Type == typ {
			return env
		}
	}
}

func decodeInto[T any](t *testing.T, env unodto.Envelope) T {
	t.Helper()
	out, ok := decode[T](env.Payload)
	if !ok {
		t.Fatalf("decode %s payload", env.Type)
	}
	return out
}

func TestCreateRoomRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv)

	sendCmd(t, conn, unodto.CmdCreateRoom, unodto.CreateRoomCommand{Name: "lobby", PlayerName: "alice"})
	env := readUntil(t, conn, unodto.EvtRoomCreated)
	created := decodeInto[unodto.RoomCreatedEvent](t, env)
	if created.Room == nil || created.Room.Name != "lobby" {
		t.Fatalf("room = %+v, want lobby", created.Room)
	}
	if created.PlayerID == "" {
		t.Fatalf("missing player id")
	}

	sendCmd(t, conn, unodto.CmdListRooms, nil)
	rooms := decodeInto[unodto.RoomsEvent](t, readUntil(t, conn, unodto.EvtRooms))
	if len(rooms.Rooms) != 1 || rooms.Rooms[0].Name != "lobby" {
		t.Fatalf("directory = %+v, want one lobby entry", rooms.Rooms)
	}
}

func TestJoinAndChatFanOut(t *testing.T) {
	srv, _ := newTestServer(t)
	host := dial(t, srv)
	guest := dial(t, srv)

	sendCmd(t, host, unodto.CmdCreateRoom, unodto.CreateRoomCommand{Name: "lobby", PlayerName: "alice"})
	created := decodeInto[unodto.RoomCreatedEvent](t, readUntil(t, host, unodto.EvtRoomCreated))

	sendCmd(t, guest, unodto.CmdJoinRoom, unodto.JoinRoomCommand{RoomID: created.Room.ID, PlayerName: "bob"})
	joined := decodeInto[unodto.RoomJoinedEvent](t, readUntil(t, guest, unodto.EvtRoomJoined))
	if len(joined.Room.Players) != 2 {
		t.Fatalf("joined view has %d players, want 2", len(joined.Room.Players))
	}

	// host sees the join as a system notice
	notice := decodeInto[unodto.ChatEvent](t, readUntil(t, host, unodto.EvtChat))
	if notice.Message.SenderID != "system" || !strings.Contains(notice.Message.Text, "bob") {
		t.Fatalf("notice = %+v, want system join notice for bob", notice.Message)
	}

	sendCmd(t, guest, unodto.CmdSendChat, unodto.SendChatCommand{RoomID: created.Room.ID, Text: "hi all"})
	chat := decodeInto[unodto.ChatEvent](t, readUntil(t, host, unodto.EvtChat))
	if chat.Message.Text != "hi all" || chat.Message.SenderName != "bob" {
		t.Fatalf("chat = %+v, want hi all from bob", chat.Message)
	}
}

func TestStartGameScopesHands(t *testing.T) {
	srv, _ := newTestServer(t)
	host := dial(t, srv)
	guest := dial(t, srv)

	sendCmd(t, host, unodto.CmdCreateRoom, unodto.CreateRoomCommand{Name: "lobby", PlayerName: "alice"})
	created := decodeInto[unodto.RoomCreatedEvent](t, readUntil(t, host, unodto.EvtRoomCreated))
	sendCmd(t, guest, unodto.CmdJoinRoom, unodto.JoinRoomCommand{RoomID: created.Room.ID, PlayerName: "bob"})
	joined := decodeInto[unodto.RoomJoinedEvent](t, readUntil(t, guest, unodto.EvtRoomJoined))

	sendCmd(t, host, unodto.CmdStartGame, unodto.StartGameCommand{RoomID: created.Room.ID})
	started := decodeInto[unodto.GameStartedEvent](t, readUntil(t, host, unodto.EvtGameStarted))

	for _, p := range started.Room.Players {
		switch p.ID {
		case created.PlayerID:
			if len(p.Cards) != 7 {
				t.Fatalf("own hand = %d cards, want 7", len(p.Cards))
			}
		case joined.PlayerID:
			if len(p.Cards) != 0 || p.CardCount != 7 {
				t.Fatalf("opponent hand leaked: %+v", p)
			}
		}
	}
}

func TestUnknownCommandGetsError(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv)

	sendCmd(t, conn, "no_such_command", nil)
	errEvt := decodeInto[unodto.ErrorEvent](t, readUntil(t, conn, unodto.EvtError))
	if errEvt.Code != "BAD_COMMAND" {
		t.Fatalf("code = %q, want BAD_COMMAND", errEvt.Code)
	}
}

func TestStartGameRequiresHost(t *testing.T) {
	srv, _ := newTestServer(t)
	host := dial(t, srv)
	guest := dial(t, srv)

	sendCmd(t, host, unodto.CmdCreateRoom, unodto.CreateRoomCommand{Name: "lobby", PlayerName: "alice"})
	created := decodeInto[unodto.RoomCreatedEvent](t, readUntil(t, host, unodto.EvtRoomCreated))
	sendCmd(t, guest, unodto.CmdJoinRoom, unodto.JoinRoomCommand{RoomID: created.Room.ID, PlayerName: "bob"})
	readUntil(t, guest, unodto.EvtRoomJoined)

	sendCmd(t, guest, unodto.CmdStartGame, unodto.StartGameCommand{RoomID: created.Room.ID})
	errEvt := decodeInto[unodto.ErrorEvent](t, readUntil(t, guest, unodto.EvtError))
	if errEvt.Code != "NOT_HOST" {
		t.Fatalf("code = %q, want NOT_HOST", errEvt.Code)
	}
}

func TestReconnectTakesOverBinding(t *testing.T) {
	srv, h := newTestServer(t)
	first := dial(t, srv)

	sendCmd(t, first, unodto.CmdCreateRoom, unodto.CreateRoomCommand{Name: "lobby", PlayerName: "alice"})
	created := decodeInto[unodto.RoomCreatedEvent](t, readUntil(t, first, unodto.EvtRoomCreated))
	first.Close(websocket.StatusNormalClosure, "dropping")

	second := dial(t, srv)
	sendCmd(t, second, unodto.CmdReconnect, unodto.ReconnectCommand{PlayerID: created.PlayerID})
	rec := decodeInto[unodto.ReconnectedEvent](t, readUntil(t, second, unodto.EvtReconnected))
	if rec.Room == nil || rec.Room.ID != created.Room.ID {
		t.Fatalf("reconnected to %+v, want room %s", rec.Room, created.Room.ID)
	}

	if c := h.clientFor(created.PlayerID); c == nil {
		t.Fatalf("player binding missing after reconnect")
	}
}

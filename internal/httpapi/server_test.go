package httpapi

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/valyala/fasthttp"

	"github.com/Xremix39-prog/uno-web-chat-party/internal/engine"
	"github.com/Xremix39-prog/uno-web-chat-party/internal/identity"
)

func doGet(s *Server, uri string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI(uri)
	s.route(&ctx)
	return &ctx
}

func TestHealthz(t *testing.T) {
	s := New(engine.NewManager(identity.NewMemoryStore()), nil)
	ctx := doGet(s, "/healthz")
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status = %d, want 200", ctx.Response.StatusCode())
	}
}

func TestRoomsListsDirectory(t *testing.T) {
	m := engine.NewManager(identity.NewMemoryStore())
	if _, _, err := m.CreateRoom(context.Background(), "lobby", "alice", false, false); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	s := New(m, nil)

	ctx := doGet(s, "/rooms")
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status = %d, want 200", ctx.Response.StatusCode())
	}
	var body struct {
		Rooms []struct {
			Name string `json:"name"`
		} `json:"rooms"`
	}
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Rooms) != 1 || body.Rooms[0].Name != "lobby" {
		t.Fatalf("rooms = %+v, want one lobby entry", body.Rooms)
	}
}

func TestLeaderboardWithoutDatabase(t *testing.T) {
	s := New(engine.NewManager(identity.NewMemoryStore()), nil)
	ctx := doGet(s, "/leaderboard")
	if ctx.Response.StatusCode() != fasthttp.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", ctx.Response.StatusCode())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := New(engine.NewManager(identity.NewMemoryStore()), nil)
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetRequestURI("/rooms")
	s.route(&ctx)
	if ctx.Response.StatusCode() != fasthttp.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", ctx.Response.StatusCode())
	}
}

func TestUnknownPath(t *testing.T) {
	s := New(engine.NewManager(identity.NewMemoryStore()), nil)
	ctx := doGet(s, "/nope")
	if ctx.Response.StatusCode() != fasthttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", ctx.Response.StatusCode())
	}
}

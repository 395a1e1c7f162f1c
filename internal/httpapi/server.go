package httpapi

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Xremix39-prog/uno-web-chat-party/internal/engine"
	"github.com/Xremix39-prog/uno-web-chat-party/internal/history"
	"github.com/Xremix39-prog/uno-web-chat-party/internal/obslog"
)

// Server is the read-only REST mirror of the lobby: health, the public room
// directory, and the persisted leaderboard. All gameplay goes over the
// websocket; nothing here mutates state.
type Server struct {
	engine *engine.Manager
	hist   *history.Repository
	srv    *fasthttp.Server
}

func New(m *engine.Manager, hist *history.Repository) *Server {
	s := &Server{engine: m, hist: hist}
	s.srv = &fasthttp.Server{
		Handler:      s.route,
		Name:         "uno-api",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe blocks until Shutdown or a listener error.
func (s *Server) ListenAndServe(addr string) error {
	obslog.L().Info("api_listen", zap.String("addr", addr))
	return s.srv.ListenAndServe(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.ShutdownWithContext(ctx)
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		return
	}
	switch string(ctx.Path()) {
	case "/healthz":
		s.handleHealth(ctx)
	case "/rooms":
		s.handleRooms(ctx)
	case "/leaderboard":
		s.handleLeaderboard(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRooms(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{"rooms": s.engine.Directory()})
}

func (s *Server) handleLeaderboard(ctx *fasthttp.RequestCtx) {
	if s.hist == nil {
		writeJSON(ctx, fasthttp.StatusServiceUnavailable, map[string]string{"error": "leaderboard not configured"})
		return
	}
	limit := 10
	if v := ctx.QueryArgs().Peek("limit"); len(v) > 0 {
		if n, err := strconv.Atoi(string(v)); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	qctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rows, err := s.hist.TopWinners(qctx, limit)
	if err != nil {
		obslog.L().Error("leaderboard_query_error", zap.Error(err))
		writeJSON(ctx, fasthttp.StatusInternalServerError, map[string]string{"error": "query failed"})
		return
	}
	if rows == nil {
		rows = []history.WinnerRow{}
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{"winners": rows})
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json; charset=utf-8")
	ctx.SetBody(body)
}

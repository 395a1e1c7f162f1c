package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appcfg "github.com/Xremix39-prog/uno-web-chat-party/internal/config"
	"github.com/Xremix39-prog/uno-web-chat-party/internal/engine"
	"github.com/Xremix39-prog/uno-web-chat-party/internal/gateway"
	"github.com/Xremix39-prog/uno-web-chat-party/internal/history"
	"github.com/Xremix39-prog/uno-web-chat-party/internal/httpapi"
	"github.com/Xremix39-prog/uno-web-chat-party/internal/identity"
	"github.com/Xremix39-prog/uno-web-chat-party/internal/msgcat"
	"github.com/Xremix39-prog/uno-web-chat-party/internal/obslog"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	cat, err := msgcat.New(cfg.MessageDir)
	if err != nil {
		obslog.L().Fatal("msgcat_init_error", zap.Error(err))
	}

	var ids identity.Store
	if cfg.RedisURL != "" {
		ids, err = identity.NewRedisStore(cfg.RedisURL)
		if err != nil {
			obslog.L().Fatal("redis_init_error", zap.Error(err))
		}
		obslog.L().Info("identity_store", zap.String("kind", "redis"))
	} else {
		ids = identity.NewMemoryStore()
		obslog.L().Info("identity_store", zap.String("kind", "memory"))
	}

	mgr := engine.NewManager(ids,
		engine.WithSeatTTL(cfg.SeatTTL),
		engine.WithChatDebounce(cfg.ChatDebounce),
		engine.WithMaxRooms(cfg.MaxRooms),
	)

	var hist *history.Repository
	if cfg.DatabaseURL != "" {
		hist, err = history.NewRepository(cfg.DatabaseURL)
		if err != nil {
			obslog.L().Fatal("history_init_error", zap.Error(err))
		}
		mgr.AttachHistory(hist)
		obslog.L().Info("history_store", zap.String("kind", "postgres"))
	}

	hub := gateway.NewHub(mgr, cat)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	wsSrv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  0, // websocket connections are long-lived
		WriteTimeout: 0,
	}

	api := httpapi.New(mgr, hist)

	errCh := make(chan error, 2)
	go func() {
		obslog.L().Info("ws_listen", zap.String("addr", cfg.ListenAddr))
		if err := wsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	go func() {
		if err := api.ListenAndServe(cfg.APIAddr); err != nil {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		obslog.L().Info("shutdown_signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		obslog.L().Error("listener_error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = wsSrv.Shutdown(ctx)
	_ = api.Shutdown(ctx)
	_ = ids.Close()
	if hist != nil {
		_ = hist.Close()
	}
	obslog.L().Info("shutdown_complete")
}

package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/school-erp/chat-service/config"
	"github.com/school-erp/chat-service/internal/pg"
	pgrepo "github.com/school-erp/chat-service/internal/repository/postgres"
	"github.com/school-erp/chat-service/internal/service"
	httpx "github.com/school-erp/chat-service/internal/transport/http"
	"github.com/school-erp/chat-service/internal/transport/ws"
	"github.com/school-erp/chat-service/pkg/logger"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting chat-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- postgres ---
	ctx := context.Background()
	pool, err := pg.NewPool(ctx, pg.Config{
		DSN:             cfg.Postgres.DSN,
		ApplicationName: cfg.Logging.Service,
	})
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// --- repos ---
	roomRepo := pgrepo.NewRoomRepo(pool)
	partRepo := pgrepo.NewParticipantRepo(pool)
	msgRepo := pgrepo.NewMessageRepo(pool)
	rcptRepo := pgrepo.NewReceiptRepo(pool)
	dirRepo := pgrepo.NewDirectoryRepo(pool)

	// --- services ---
	memberSvc := service.NewMemberService(partRepo, dirRepo)
	memberSvc.SetHeartbeatWindow(cfg.HeartbeatWindowDuration())
	roomSvc := service.NewRoomService(roomRepo, dirRepo, memberSvc)
	chatSvc := service.NewChatService(roomRepo, partRepo, msgRepo, rcptRepo)
	chatSvc.SetMaxMessageLen(cfg.Chat.MaxMessageLen)
	dirSvc := service.NewDirectoryService(dirRepo)

	// --- WS Hub & Server ---
	hub := ws.NewHub()
	wsServer := ws.NewServer(hub, memberSvc, chatSvc)

	// --- HTTP ---
	handler := httpx.NewHandler(roomSvc, memberSvc, chatSvc, dirSvc, hub, cfg.Chat.MediaBaseURL)
	router := httpx.NewRouter(handler, memberSvc, wsServer)
	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}

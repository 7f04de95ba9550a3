package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"chatrelaygo/internal/config"
	"chatrelaygo/internal/http/http_server"
	"chatrelaygo/internal/ws"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Hub: session registry + room membership
	hub := ws.NewHub()

	// 4. WS server routing the chat events
	wsSrv := ws.NewWsServer(hub, cfg)

	// 5. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg, wsSrv, hub)
	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.Start()
	}()
	Log.Info("Server is running", zap.Uint16("port", cfg.HttpServerPort))

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			Log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	case <-ctx.Done():
		Log.Info("Shutting down")
		if err := httpServer.Dispose(); err != nil {
			Log.Error("Failed to stop HTTP server", zap.Error(err))
		}
		hub.Close()
	}
}

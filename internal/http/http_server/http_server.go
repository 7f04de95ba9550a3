package http_server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chatrelaygo/internal/config"
	"chatrelaygo/internal/http/relayhandler"
	"chatrelaygo/internal/ws"
)

type httpServer struct {
	listenPort     uint16
	allowedOrigins []string
	srv            http.Server
	ln             net.Listener
	wsSrv          *ws.WsServer
	hub            *ws.Hub
	ctx            context.Context
}

func NewHttpServer(ctx context.Context, cfg *config.Config, wsSrv *ws.WsServer, hub *ws.Hub) *httpServer {
	return &httpServer{
		listenPort:     cfg.HttpServerPort,
		allowedOrigins: cfg.AllowedOrigins,
		wsSrv:          wsSrv,
		hub:            hub,
		ctx:            ctx,
	}
}

func (h *httpServer) Start() error {
	var err error
	listenAddr := fmt.Sprintf(":%d", h.listenPort)
	h.ln, err = net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	routerEngine := gin.New()

	routerEngine.Use(ginzap.Ginzap(zap.L(), time.RFC3339, true))
	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))
	routerEngine.Use(cors.New(h.corsConfig()))

	// websocket endpoint
	routerEngine.GET("/ws", h.wsSrv.Handle)

	// REST API
	rh := relayhandler.New(h.hub)
	rh.Register(routerEngine)

	h.srv = http.Server{
		Handler: routerEngine,
	}

	return h.srv.Serve(h.ln)
}

func (h *httpServer) corsConfig() cors.Config {
	cc := cors.DefaultConfig()
	cc.AllowMethods = []string{"GET", "POST"}
	for _, o := range h.allowedOrigins {
		if o == "*" {
			cc.AllowAllOrigins = true
			return cc
		}
	}
	cc.AllowOrigins = h.allowedOrigins
	return cc
}

// Dispose gracefully shuts the HTTP server down.
// It waits up to 10 s for in-flight requests to finish.
func (h *httpServer) Dispose() error {
	// Not derived from h.ctx: Dispose runs after the signal context is
	// already cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.srv.Shutdown(ctx); err != nil {
		zap.L().Error("http_dispose", zap.Error(err))
		return err // e.g. active conns didn't finish in time
	}

	if ctx.Err() == context.DeadlineExceeded {
		zap.L().Error("http_dispose", zap.Error(errors.New("shutdown timed out")))
	}

	return nil
}

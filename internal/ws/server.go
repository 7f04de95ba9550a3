package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chatrelaygo/internal/config"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10 // must be < pongWait
	dispatchTimeout = 2 * time.Second
)

var validate = validator.New()

// WsServer accepts websocket clients and routes their events: global chat and
// room messages fan out through the Hub, join/leave mutate the membership
// table, and every connect/disconnect re-announces the live user count.
type WsServer struct {
	hub       *Hub
	router    *Router
	upgrader  websocket.Upgrader
	readLimit int64
}

func NewWsServer(h *Hub, cfg *config.Config) *WsServer {
	srv := &WsServer{
		hub:    h,
		router: NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
		readLimit: cfg.WsReadLimit,
	}
	srv.registerHandlers() // ← all WS events configured here
	return srv
}

// originChecker mirrors the CORS allow-list on the websocket handshake.
// Requests without an Origin header (non-browser clients) are accepted.
func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// ---------------------------------------------------------------------------
//  Public: Gin entry-point
// ---------------------------------------------------------------------------

func (s *WsServer) Handle(ginCtx *gin.Context) {
	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.accept", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(s.readLimit)

	// ─────────────────── Client connected ────────────────────
	conn := &clientConn{rawConn: rawConn}
	id := s.hub.Register(conn)
	zap.L().Info("ws.connect",
		zap.String("session", id),
		zap.Int("users", s.hub.SessionCount()),
	)
	s.broadcastUserCount()

	go s.reader(id, conn)
	go s.pinger(conn)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

func (s *WsServer) registerHandlers() {
	// 🔹 join_room -----------------------------------------------------------
	Register(
		s.router,
		"join_room",
		func(ctx context.Context, cc *ConnContext, roomID string) (AckBody, error) {
			if roomID == "" {
				return AckBody{}, errors.New("missing_room")
			}
			s.hub.Join(cc.SessionID, roomID)
			zap.L().Info("ws.join", zap.String("session", cc.SessionID), zap.String("room", roomID))
			s.broadcastRoomNotice(roomID, "A new user joined room "+roomID)
			return AckBody{}, nil
		},
	)

	// 🔹 leave_room ----------------------------------------------------------
	Register(
		s.router,
		"leave_room",
		func(ctx context.Context, cc *ConnContext, roomID string) (AckBody, error) {
			if roomID == "" {
				return AckBody{}, errors.New("missing_room")
			}
			s.hub.Leave(cc.SessionID, roomID)
			zap.L().Info("ws.leave", zap.String("session", cc.SessionID), zap.String("room", roomID))
			// The leaver is already out of the member set, so only the
			// remaining members receive this.
			s.broadcastRoomNotice(roomID, "A user left room "+roomID)
			return AckBody{}, nil
		},
	)

	// 🔹 room_message --------------------------------------------------------
	Register(
		s.router,
		"room_message",
		func(ctx context.Context, cc *ConnContext, req RoomMessageRequest) (AckBody, error) {
			if err := validate.Struct(req); err != nil {
				return AckBody{}, errors.New("invalid_payload")
			}
			zap.L().Info("ws.room_message", zap.String("session", cc.SessionID), zap.String("room", req.Room))

			payload, err := marshalEvent("room_message", formatMessage(req.Message))
			if err != nil {
				return AckBody{}, err
			}
			// An empty or unknown room drops the message silently.
			s.hub.BroadcastRoom(req.Room, payload)
			return AckBody{}, nil
		},
	)

	// 🔹 chat message (global) ----------------------------------------------
	Register(
		s.router,
		"chat message",
		func(ctx context.Context, cc *ConnContext, text string) (AckBody, error) {
			zap.L().Info("ws.chat", zap.String("session", cc.SessionID))

			payload, err := marshalEvent("chat message", formatMessage(text))
			if err != nil {
				return AckBody{}, err
			}
			s.hub.BroadcastAll(payload)
			return AckBody{}, nil
		},
	)
}

func (s *WsServer) broadcastUserCount() {
	payload, err := marshalEvent("users count", s.hub.SessionCount())
	if err != nil {
		zap.L().Warn("ws.user_count", zap.Error(err))
		return
	}
	s.hub.BroadcastAll(payload)
}

func (s *WsServer) broadcastRoomNotice(roomID, text string) {
	payload, err := marshalEvent("room_message", formatMessage(text))
	if err != nil {
		zap.L().Warn("ws.room_notice", zap.Error(err))
		return
	}
	s.hub.BroadcastRoom(roomID, payload)
}

func (s *WsServer) reader(id string, conn *clientConn) {
	defer func() {
		s.hub.Unregister(id)
		_ = conn.close()
		zap.L().Info("ws.disconnect",
			zap.String("session", id),
			zap.Int("users", s.hub.SessionCount()),
		)
		s.broadcastUserCount()
	}()

	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	cc := &ConnContext{SessionID: id, Server: s}

	for {
		_, raw, err := conn.rawConn.ReadMessage()
		if err != nil {
			return // client closed or errored
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			_ = conn.writeJSON(map[string]any{
				"event": "error",
				"body":  ErrorBody{Error: "invalid_frame"},
			})
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		res, err := s.dispatch(ctx, cc, env)
		cancel()

		// ---- error -> {"event":"error", "body":{...}} ---------------
		if err != nil {
			_ = conn.writeJSON(map[string]any{
				"event": "error",
				"body":  ErrorBody{Error: err.Error()},
			})
			continue
		}

		// ---- success -> {"event":"<evt>-ack", "body":{...}} --------
		reply := map[string]any{"event": env.Event + "-ack"}
		if res != nil {
			reply["body"] = res
		}
		_ = conn.writeJSON(reply)
	}
}

// dispatch isolates handler faults: a panicking handler surfaces as an error
// envelope on the offending session and the registries stay intact.
func (s *WsServer) dispatch(ctx context.Context, cc *ConnContext, env Envelope) (res any, err error) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("ws.dispatch_panic", zap.String("event", env.Event), zap.Any("panic", r))
			res, err = nil, errors.New("internal_error")
		}
	}()
	return s.router.dispatch(ctx, cc, env)
}

func (s *WsServer) pinger(conn *clientConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.ping(); err != nil {
			_ = conn.close()
			return
		}
	}
}

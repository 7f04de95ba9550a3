package relayhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chatrelaygo/internal/ws"
)

type Handler struct {
	hub *ws.Hub
}

func New(hub *ws.Hub) *Handler { return &Handler{hub: hub} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/healthz", h.health)
	r.GET("/stats", h.stats)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// stats feeds the presentation layer's presence chart.
func (h *Handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, StatsResponse{
		Sessions: h.hub.SessionCount(),
		Rooms:    h.hub.RoomCount(),
	})
}

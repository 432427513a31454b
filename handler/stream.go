// Package handler provides HTTP request handlers.
package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"terminus/core/service"
)

// StreamHandler pushes fresh JSON snapshots over a websocket at the
// configured refresh interval.
type StreamHandler struct {
	dashboard      *service.DashboardService
	defaultLogsEnv string
	interval       time.Duration
	upgrader       websocket.Upgrader
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(dashboard *service.DashboardService, defaultLogsEnv string, interval time.Duration) *StreamHandler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &StreamHandler{
		dashboard:      dashboard,
		defaultLogsEnv: defaultLogsEnv,
		interval:       interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// StreamSnapshots handles GET /ws (WebSocket). The filter headers apply
// to every pushed snapshot for the lifetime of the connection.
func (h *StreamHandler) StreamSnapshots(c *gin.Context) {
	f := filterFromRequest(c)
	logsEnv := logsEnvironment(c, h.defaultLogsEnv)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Cancel the push loop when the client goes away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	push := func() bool {
		rec := service.NewRecorder(50)
		snapshot := h.dashboard.Build(ctx, f, logsEnv, rec)

		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(snapshot); err != nil {
			log.Printf("Snapshot push failed: %v", err)
			return false
		}
		return true
	}

	if !push() {
		return
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !push() {
				return
			}
		}
	}
}

// Package handler provides HTTP request handlers.
package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"terminus/core/repository"
	"terminus/core/service"
)

// DebugHandler replays the diagnostic queries and returns the log lines
// captured while doing so.
type DebugHandler struct {
	dashboard      *service.DashboardService
	requestLogRepo *repository.RequestLogRepository
	defaultLogsEnv string
}

// NewDebugHandler creates a new debug handler.
func NewDebugHandler(dashboard *service.DashboardService, requestLogRepo *repository.RequestLogRepository, defaultLogsEnv string) *DebugHandler {
	return &DebugHandler{
		dashboard:      dashboard,
		requestLogRepo: requestLogRepo,
		defaultLogsEnv: defaultLogsEnv,
	}
}

// Debug handles GET /debug: per-query outcomes plus captured log lines.
func (h *DebugHandler) Debug(c *gin.Context) {
	h.replay(c, false)
}

// DebugAdvanced handles GET /debug/advanced: adds raw query results and
// the recent request audit log.
func (h *DebugHandler) DebugAdvanced(c *gin.Context) {
	h.replay(c, true)
}

func (h *DebugHandler) replay(c *gin.Context, advanced bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	logsEnv := logsEnvironment(c, h.defaultLogsEnv)
	rec := service.NewRecorder(500)
	replays := h.dashboard.Replay(ctx, logsEnv, advanced, rec)

	response := gin.H{
		"timestamp": time.Now().UTC(),
		"queries":   replays,
		"logs":      rec.Lines(),
	}

	if advanced && h.requestLogRepo != nil {
		recent, err := h.requestLogRepo.GetRecent(20)
		if err != nil {
			log.Printf("Failed to load recent request logs: %v", err)
		} else {
			response["recent_requests"] = recent
		}
	}

	c.JSON(http.StatusOK, response)
}

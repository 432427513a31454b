// Package handler provides HTTP request handlers.
package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"terminus/core/models"
	"terminus/core/repository"
	"terminus/core/service"
	"terminus/render"
)

// DashboardHandler serves the HTML dashboard and the JSON snapshot.
type DashboardHandler struct {
	dashboard      *service.DashboardService
	renderer       *render.Renderer
	requestLogRepo *repository.RequestLogRepository
	defaultLogsEnv string
}

// NewDashboardHandler creates a new dashboard handler. The request log
// repository may be nil, in which case auditing is skipped.
func NewDashboardHandler(dashboard *service.DashboardService, renderer *render.Renderer, requestLogRepo *repository.RequestLogRepository, defaultLogsEnv string) *DashboardHandler {
	return &DashboardHandler{
		dashboard:      dashboard,
		renderer:       renderer,
		requestLogRepo: requestLogRepo,
		defaultLogsEnv: defaultLogsEnv,
	}
}

// filterFromRequest maps the filter headers onto a Filter value.
func filterFromRequest(c *gin.Context) models.Filter {
	return models.Filter{
		ProjectID:     c.GetHeader(HeaderProjectID),
		ServiceID:     c.GetHeader(HeaderServiceID),
		EnvironmentID: c.GetHeader(HeaderEnvironmentID),
	}
}

// logsEnvironment resolves the logs environment: header first, then the
// configured default.
func logsEnvironment(c *gin.Context, fallback string) string {
	if v := c.GetHeader(HeaderLogsEnvironmentID); v != "" {
		return v
	}
	return fallback
}

// GetDashboard handles GET / (HTML dashboard).
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	snapshot := h.buildSnapshot(c)

	body, err := h.renderer.Render(snapshot)
	if err != nil {
		log.Printf("Failed to render dashboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "Failed to render dashboard",
			"detail": err.Error(),
			"type":   "RenderError",
		})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}

// GetData handles GET /api/data (JSON snapshot).
func (h *DashboardHandler) GetData(c *gin.Context) {
	c.JSON(http.StatusOK, h.buildSnapshot(c))
}

func (h *DashboardHandler) buildSnapshot(c *gin.Context) models.Snapshot {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	f := filterFromRequest(c)
	logsEnv := logsEnvironment(c, h.defaultLogsEnv)
	rec := service.NewRecorder(200)

	snapshot := h.dashboard.Build(ctx, f, logsEnv, rec)
	h.audit(c.FullPath(), f, logsEnv, snapshot)
	return snapshot
}

// audit records the request in the local audit log.
func (h *DashboardHandler) audit(route string, f models.Filter, logsEnv string, snapshot models.Snapshot) {
	if h.requestLogRepo == nil {
		return
	}

	entry := &models.RequestLog{
		Route:             route,
		ProjectID:         f.ProjectID,
		ServiceID:         f.ServiceID,
		EnvironmentID:     f.EnvironmentID,
		LogsEnvironmentID: logsEnv,
		Success:           snapshot.Success,
		RequestedAt:       time.Now(),
	}
	if snapshot.Data != nil {
		entry.QueryErrors = len(snapshot.Data.QueryInfo.Errors)
		entry.DurationMS = snapshot.Data.QueryInfo.DurationMS
	}

	if err := h.requestLogRepo.Create(entry); err != nil {
		log.Printf("Failed to store request log: %v", err)
	}
}

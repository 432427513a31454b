// Package service provides the filter, flatten and dashboard logic for Terminus.
package service

import (
	"context"
	"time"

	"terminus/core/models"
	"terminus/utils/metrics"
)

// UpstreamClient is the slice of the Railway client the dashboard needs.
type UpstreamClient interface {
	Workspaces(ctx context.Context) (models.WorkspaceData, error)
	Deployments(ctx context.Context) (models.WorkspaceData, error)
	Volumes(ctx context.Context) (models.WorkspaceData, error)
	EnvironmentLogs(ctx context.Context, environmentID, filter string, limit int) (models.EnvironmentLogData, error)
}

// Query names used in diagnostics and metrics.
const (
	QueryWorkspaces      = "workspaces"
	QueryDeployments     = "deployments"
	QueryVolumes         = "volumes"
	QueryEnvironmentLogs = "environmentLogs"
)

// DashboardService fetches, filters and flattens one dashboard snapshot
// per call. It holds no per-request state.
type DashboardService struct {
	client    UpstreamClient
	extractor *ActionExtractor
	logFilter string
	logLimit  int
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(client UpstreamClient, extractor *ActionExtractor, logFilter string, logLimit int) *DashboardService {
	if logLimit <= 0 {
		logLimit = 50
	}
	return &DashboardService{
		client:    client,
		extractor: extractor,
		logFilter: logFilter,
		logLimit:  logLimit,
	}
}

// Build assembles a snapshot. The four upstream queries run sequentially;
// each failure is caught independently, replaced by its empty-shape
// fallback and tallied in QueryInfo. Only a missing client yields a
// failure snapshot.
func (s *DashboardService) Build(ctx context.Context, f models.Filter, logsEnvironmentID string, rec *Recorder) models.Snapshot {
	start := time.Now()

	if s.client == nil {
		return models.Snapshot{
			Timestamp: start.UTC(),
			Success:   false,
			Error: &models.SnapshotError{
				Message: "railway client is not configured",
				Type:    "ConfigError",
			},
		}
	}

	failures := []models.QueryFailure{}
	tally := func(query string, err error) {
		rec.Logf("Query %s failed, using empty fallback: %v", query, err)
		failures = append(failures, models.QueryFailure{Query: query, Message: err.Error()})
		metrics.QueryFailures.WithLabelValues(query).Inc()
	}

	workspaces, err := s.client.Workspaces(ctx)
	if err != nil {
		tally(QueryWorkspaces, err)
		workspaces = models.WorkspaceData{}
	}

	deployments, err := s.client.Deployments(ctx)
	if err != nil {
		tally(QueryDeployments, err)
		deployments = models.WorkspaceData{}
	}

	volumes, err := s.client.Volumes(ctx)
	if err != nil {
		tally(QueryVolumes, err)
		volumes = models.WorkspaceData{}
	}

	var logs models.EnvironmentLogData
	if logsEnvironmentID != "" {
		logs, err = s.client.EnvironmentLogs(ctx, logsEnvironmentID, s.logFilter, s.logLimit)
		if err != nil {
			tally(QueryEnvironmentLogs, err)
			logs = models.EnvironmentLogData{}
		}
	} else {
		rec.Logf("No logs environment configured, skipping %s query", QueryEnvironmentLogs)
	}

	index := BuildDeploymentIndex(FilterWorkspaces(deployments, f))

	var extract func(string) string
	if s.extractor != nil {
		extract = s.extractor.Extract
	}

	data := &models.DashboardData{
		Services: FlattenServices(FilterWorkspaces(workspaces, f), index),
		Volumes:  FlattenVolumes(FilterVolumes(volumes, f)),
		Events:   FlattenEvents(logs.EnvironmentLogs, extract),
		QueryInfo: models.QueryInfo{
			Errors:     failures,
			DurationMS: time.Since(start).Milliseconds(),
		},
	}

	metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
	rec.Logf("Snapshot built in %dms (%d services, %d volumes, %d events, %d query errors)",
		data.QueryInfo.DurationMS, len(data.Services), len(data.Volumes), len(data.Events), len(failures))

	return models.Snapshot{
		Timestamp: start.UTC(),
		Success:   true,
		Data:      data,
	}
}

// QueryReplay is the outcome of one replayed diagnostic query.
type QueryReplay struct {
	Query      string `json:"query"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	Data       any    `json:"data,omitempty"`
}

// Replay re-issues every diagnostic query and reports per-query outcomes.
// Raw result trees are attached only when includeData is set (the
// /debug/advanced variant).
func (s *DashboardService) Replay(ctx context.Context, logsEnvironmentID string, includeData bool, rec *Recorder) []QueryReplay {
	replays := []QueryReplay{}

	run := func(query string, fetch func() (any, error)) {
		started := time.Now()
		data, err := fetch()
		replay := QueryReplay{
			Query:      query,
			OK:         err == nil,
			DurationMS: time.Since(started).Milliseconds(),
		}
		if err != nil {
			replay.Error = err.Error()
			rec.Logf("Replay %s failed: %v", query, err)
		} else {
			rec.Logf("Replay %s succeeded in %dms", query, replay.DurationMS)
			if includeData {
				replay.Data = data
			}
		}
		replays = append(replays, replay)
	}

	run(QueryWorkspaces, func() (any, error) { return s.client.Workspaces(ctx) })
	run(QueryDeployments, func() (any, error) { return s.client.Deployments(ctx) })
	run(QueryVolumes, func() (any, error) { return s.client.Volumes(ctx) })
	if logsEnvironmentID != "" {
		run(QueryEnvironmentLogs, func() (any, error) {
			return s.client.EnvironmentLogs(ctx, logsEnvironmentID, s.logFilter, s.logLimit)
		})
	}

	return replays
}

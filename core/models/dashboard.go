// Package models defines domain models for Terminus.
package models

import "time"

// Filter selects a subset of the upstream tree. All fields are optional;
// the zero value means "no filtering".
type Filter struct {
	ProjectID     string `json:"project_id,omitempty"`
	ServiceID     string `json:"service_id,omitempty"`
	EnvironmentID string `json:"environment_id,omitempty"`
}

// IsZero reports whether the filter selects everything.
func (f Filter) IsZero() bool {
	return f.ProjectID == "" && f.ServiceID == "" && f.EnvironmentID == ""
}

// Known deployment statuses. Anything else maps to StatusUnknown.
const (
	StatusSuccess   = "SUCCESS"
	StatusBuilding  = "BUILDING"
	StatusDeploying = "DEPLOYING"
	StatusFailed    = "FAILED"
	StatusCrashed   = "CRASHED"
	StatusRemoved   = "REMOVED"
	StatusSkipped   = "SKIPPED"
	StatusUnknown   = "UNKNOWN"
)

// NormalizeStatus maps an upstream deployment status onto the known set.
func NormalizeStatus(status string) string {
	switch status {
	case StatusSuccess, StatusBuilding, StatusDeploying, StatusFailed,
		StatusCrashed, StatusRemoved, StatusSkipped:
		return status
	}
	return StatusUnknown
}

// DeploymentInfo is the per-row deployment summary shown on the dashboard.
type DeploymentInfo struct {
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// ServiceRow is one dashboard row: a service joined with one of its
// project's environments. Deployment is nil for the placeholder row of a
// service that has no deployments at all.
type ServiceRow struct {
	ProjectID       string          `json:"project_id"`
	ProjectName     string          `json:"project_name"`
	ServiceID       string          `json:"service_id"`
	ServiceName     string          `json:"service_name"`
	Icon            string          `json:"icon,omitempty"`
	EnvironmentID   string          `json:"environment_id,omitempty"`
	EnvironmentName string          `json:"environment_name,omitempty"`
	Deployment      *DeploymentInfo `json:"deployment"`
}

// VolumeRow is one volume instance denormalized for flat display.
type VolumeRow struct {
	ID              string  `json:"id"`
	MountPath       string  `json:"mount_path"`
	CurrentSizeMB   float64 `json:"current_size_mb"`
	SizeMB          float64 `json:"size_mb"`
	Region          string  `json:"region"`
	State           string  `json:"state"`
	ServiceName     string  `json:"service_name"`
	EnvironmentName string  `json:"environment_name"`
	ProjectName     string  `json:"project_name"`
	WorkspaceName   string  `json:"workspace_name"`
}

// UsagePercent returns the fill ratio as a percentage, clamped to 100.
// currentSizeMB <= sizeMB is expected upstream but not enforced.
func (v VolumeRow) UsagePercent() float64 {
	if v.SizeMB <= 0 {
		return 0
	}
	pct := v.CurrentSizeMB / v.SizeMB * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// Event severities with dedicated display styling.
const (
	SeverityInfo  = "INFO"
	SeverityWarn  = "WARN"
	SeverityError = "ERROR"
)

// EventRow is a projected event-log entry. ParsedAt is the parsed
// timestamp used for ordering; entries with unparseable timestamps carry
// the zero time and sort last.
type EventRow struct {
	Timestamp string    `json:"timestamp"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	Action    string    `json:"action,omitempty"`
	ParsedAt  time.Time `json:"-"`
}

// QueryFailure records one upstream query that was replaced by its
// empty-shape fallback.
type QueryFailure struct {
	Query   string `json:"query"`
	Message string `json:"message"`
}

// QueryInfo carries per-request diagnostics about the upstream queries.
type QueryInfo struct {
	Errors     []QueryFailure `json:"errors"`
	DurationMS int64          `json:"duration_ms"`
}

// DashboardData is the flattened view-model rendered by the dashboard.
type DashboardData struct {
	Services  []ServiceRow `json:"services"`
	Volumes   []VolumeRow  `json:"volumes"`
	Events    []EventRow   `json:"events"`
	QueryInfo QueryInfo    `json:"query_info"`
}

// SnapshotError describes a top-level snapshot failure.
type SnapshotError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Snapshot is the top-level render input. Exactly one of Data (Success
// true) or Error (Success false) is set.
type Snapshot struct {
	Timestamp time.Time      `json:"timestamp"`
	Success   bool           `json:"success"`
	Data      *DashboardData `json:"data,omitempty"`
	Error     *SnapshotError `json:"error,omitempty"`
}

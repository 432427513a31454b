// Package models defines domain models for Terminus.
package models

import "time"

// RequestLog records one handled dashboard request for diagnostics. This
// is local audit state only; it never mirrors upstream data.
type RequestLog struct {
	ID                int64     `json:"id"`
	Route             string    `json:"route"`
	ProjectID         string    `json:"project_id,omitempty"`
	ServiceID         string    `json:"service_id,omitempty"`
	EnvironmentID     string    `json:"environment_id,omitempty"`
	LogsEnvironmentID string    `json:"logs_environment_id,omitempty"`
	Success           bool      `json:"success"`
	QueryErrors       int       `json:"query_errors"`
	DurationMS        int64     `json:"duration_ms"`
	RequestedAt       time.Time `json:"requested_at"`
}

// Package repository provides the data access layer for the request audit log.
package repository

import (
	"database/sql"

	"terminus/core/models"
)

// RequestLogRepository handles persistence of request audit entries.
type RequestLogRepository struct {
	db *sql.DB
}

// NewRequestLogRepository creates a new request log repository.
func NewRequestLogRepository(db *sql.DB) *RequestLogRepository {
	return &RequestLogRepository{db: db}
}

// Create stores a request log entry in the database.
func (r *RequestLogRepository) Create(entry *models.RequestLog) error {
	query := `
		INSERT INTO request_logs
			(route, project_id, service_id, environment_id, logs_environment_id,
			 success, query_errors, duration_ms, requested_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(
		query,
		entry.Route,
		entry.ProjectID,
		entry.ServiceID,
		entry.EnvironmentID,
		entry.LogsEnvironmentID,
		entry.Success,
		entry.QueryErrors,
		entry.DurationMS,
		entry.RequestedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = id

	return nil
}

// GetRecent retrieves recent request log entries, newest first.
func (r *RequestLogRepository) GetRecent(limit int) ([]*models.RequestLog, error) {
	query := `
		SELECT id, route, project_id, service_id, environment_id,
		       logs_environment_id, success, query_errors, duration_ms, requested_at
		FROM request_logs
		ORDER BY requested_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.RequestLog
	for rows.Next() {
		entry := &models.RequestLog{}
		var projectID, serviceID, environmentID, logsEnvironmentID sql.NullString

		err := rows.Scan(
			&entry.ID,
			&entry.Route,
			&projectID,
			&serviceID,
			&environmentID,
			&logsEnvironmentID,
			&entry.Success,
			&entry.QueryErrors,
			&entry.DurationMS,
			&entry.RequestedAt,
		)
		if err != nil {
			return nil, err
		}

		entry.ProjectID = projectID.String
		entry.ServiceID = serviceID.String
		entry.EnvironmentID = environmentID.String
		entry.LogsEnvironmentID = logsEnvironmentID.String

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// DeleteOlderThan removes request log entries older than the specified number of days.
func (r *RequestLogRepository) DeleteOlderThan(days int) (int64, error) {
	query := `DELETE FROM request_logs WHERE requested_at < datetime('now', '-' || ? || ' days')`
	result, err := r.db.Exec(query, days)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

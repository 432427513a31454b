// Package database provides schema migrations for the Terminus database.
package database

import (
	"log"
)

// migrate runs all database migrations to create the schema.
// Creates the request audit log table.
//
// Returns an error if any migration fails.
func migrate() error {
	migrations := []struct {
		name string
		sql  string
	}{
		{
			name: "create_request_logs_table",
			sql: `
CREATE TABLE IF NOT EXISTS request_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    route TEXT NOT NULL,
    project_id TEXT,
    service_id TEXT,
    environment_id TEXT,
    logs_environment_id TEXT,
    success BOOLEAN NOT NULL DEFAULT 0,
    query_errors INTEGER NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    requested_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_request_logs_route ON request_logs(route);
CREATE INDEX IF NOT EXISTS idx_request_logs_requested_at ON request_logs(requested_at);
			`,
		},
	}

	for _, migration := range migrations {
		log.Printf("Running migration: %s", migration.name)
		if _, err := db.Exec(migration.sql); err != nil {
			log.Printf("Migration failed for %s: %v", migration.name, err)
			return err
		}
		log.Printf("Migration completed: %s", migration.name)
	}

	return nil
}

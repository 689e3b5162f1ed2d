package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS stations (
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS workers (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS appointments (
			id             TEXT PRIMARY KEY,
			kind           TEXT NOT NULL CHECK(kind IN ('grooming', 'daycare')),
			station_id     TEXT NOT NULL REFERENCES stations(id),
			worker_id      TEXT REFERENCES workers(id),
			customer_name  TEXT NOT NULL DEFAULT '',
			pets           TEXT NOT NULL DEFAULT '[]',
			start_time     TEXT NOT NULL,
			end_time       TEXT NOT NULL,
			customer_notes TEXT NOT NULL DEFAULT '',
			internal_notes TEXT NOT NULL DEFAULT '',
			service_notes  TEXT NOT NULL DEFAULT '',
			created_at     TEXT NOT NULL,
			CHECK(end_time > start_time)
		);

		CREATE INDEX IF NOT EXISTS idx_appointments_station_start ON appointments(station_id, start_time);
		CREATE INDEX IF NOT EXISTS idx_appointments_start ON appointments(start_time);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}

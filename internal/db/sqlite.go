// Package db provides the SQLite data service.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
)

// timeLayout is fixed-width UTC so stored instants compare correctly as strings.
const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements appointment.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ appointment.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateStation adds a station. An empty ID is replaced with a new UUID.
// Stations are listed in insertion order.
func (s *SQLite) CreateStation(ctx context.Context, st *appointment.Station) error {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	query := `
		INSERT INTO stations (id, name, position)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM stations))
	`
	if _, err := s.db.ExecContext(ctx, query, st.ID, st.Name); err != nil {
		return fmt.Errorf("inserting station: %w", err)
	}
	return nil
}

// ListStations returns all stations in display order.
func (s *SQLite) ListStations(ctx context.Context) ([]appointment.Station, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM stations ORDER BY position, name`)
	if err != nil {
		return nil, fmt.Errorf("querying stations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stations []appointment.Station
	for rows.Next() {
		var st appointment.Station
		if err := rows.Scan(&st.ID, &st.Name); err != nil {
			return nil, fmt.Errorf("scanning station: %w", err)
		}
		stations = append(stations, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stations: %w", err)
	}
	return stations, nil
}

// CreateWorker adds a worker. An empty ID is replaced with a new UUID.
func (s *SQLite) CreateWorker(ctx context.Context, w *appointment.Worker) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO workers (id, name) VALUES (?, ?)`, w.ID, w.Name); err != nil {
		return fmt.Errorf("inserting worker: %w", err)
	}
	return nil
}

// ListWorkers returns all workers ordered by name.
func (s *SQLite) ListWorkers(ctx context.Context) ([]appointment.Worker, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM workers ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying workers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var workers []appointment.Worker
	for rows.Next() {
		var w appointment.Worker
		if err := rows.Scan(&w.ID, &w.Name); err != nil {
			return nil, fmt.Errorf("scanning worker: %w", err)
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating workers: %w", err)
	}
	return workers, nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func exists(ctx context.Context, q queryer, table, id string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", table, err)
	}
	return true, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime parses a stored instant and returns it in the local timezone.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
		}
	}
	return t.In(time.Local), nil
}

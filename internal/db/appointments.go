package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
)

const appointmentColumns = `
	id, kind, station_id, worker_id, customer_name, pets, start_time, end_time,
	customer_notes, internal_notes, service_notes, created_at
`

// CreateAppointment adds an appointment. An empty ID is replaced with a new UUID.
// Returns ErrOverlap if the appointment collides with another booking at the same station.
func (s *SQLite) CreateAppointment(ctx context.Context, a *appointment.Appointment) error {
	if _, err := appointment.ParseKind(string(a.Kind)); err != nil {
		return err
	}
	if !a.End.After(a.Start) {
		return appointment.ErrEndBeforeStart
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ok, err := exists(ctx, tx, "stations", a.StationID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", appointment.ErrStationNotFound, a.StationID)
	}
	if a.WorkerID != nil {
		ok, err := exists(ctx, tx, "workers", *a.WorkerID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", appointment.ErrWorkerNotFound, *a.WorkerID)
		}
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if err := checkOverlap(ctx, tx, a.StationID, a.Start, a.End, a.ID); err != nil {
		return err
	}

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.DurationMinutes = appointment.DurationMinutes(a.Start, a.End)

	pets, err := json.Marshal(nonNil(a.Pets))
	if err != nil {
		return fmt.Errorf("encoding pets: %w", err)
	}

	query := `INSERT INTO appointments (` + appointmentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, query,
		a.ID,
		a.Kind,
		a.StationID,
		a.WorkerID,
		a.CustomerName,
		string(pets),
		formatTime(a.Start),
		formatTime(a.End),
		a.CustomerNotes,
		a.InternalNotes,
		a.ServiceNotes,
		formatTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting appointment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetAppointment retrieves an appointment by ID.
func (s *SQLite) GetAppointment(ctx context.Context, id string) (*appointment.Appointment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = ?`, id)
	a, err := scanAppointment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", appointment.ErrAppointmentNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAppointments returns appointments starting within [from, to), ordered by start then station.
func (s *SQLite) ListAppointments(ctx context.Context, from, to time.Time) ([]appointment.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE start_time >= ? AND start_time < ?
		ORDER BY start_time, station_id, id
	`

	rows, err := s.db.QueryContext(ctx, query, formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("querying appointments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var appts []appointment.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating appointments: %w", err)
	}
	return appts, nil
}

// DeleteAppointment removes an appointment.
func (s *SQLite) DeleteAppointment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting appointment: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", appointment.ErrAppointmentNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row scanner) (*appointment.Appointment, error) {
	var (
		a         appointment.Appointment
		workerID  sql.NullString
		pets      string
		start     string
		end       string
		createdAt string
	)

	err := row.Scan(
		&a.ID,
		&a.Kind,
		&a.StationID,
		&workerID,
		&a.CustomerName,
		&pets,
		&start,
		&end,
		&a.CustomerNotes,
		&a.InternalNotes,
		&a.ServiceNotes,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning appointment: %w", err)
	}

	if workerID.Valid {
		a.WorkerID = &workerID.String
	}
	if err := json.Unmarshal([]byte(pets), &a.Pets); err != nil {
		return nil, fmt.Errorf("decoding pets: %w", err)
	}
	if a.Start, err = parseTime(start); err != nil {
		return nil, fmt.Errorf("parsing start time: %w", err)
	}
	if a.End, err = parseTime(end); err != nil {
		return nil, fmt.Errorf("parsing end time: %w", err)
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	a.DurationMinutes = appointment.DurationMinutes(a.Start, a.End)

	return &a, nil
}

// checkOverlap checks if [start, end) collides with another appointment at the station.
// Two time ranges overlap if: start1 < end2 AND start2 < end1
func checkOverlap(ctx context.Context, q queryer, stationID string, start, end time.Time, excludeID string) error {
	query := `
		SELECT id, customer_name, start_time, end_time
		FROM appointments
		WHERE station_id = ?
		  AND id != ?
		  AND start_time < ?
		  AND end_time > ?
		LIMIT 1
	`

	var (
		id         string
		customer   string
		existStart string
		existEnd   string
	)

	err := q.QueryRowContext(ctx, query,
		stationID,
		excludeID,
		formatTime(end),
		formatTime(start),
	).Scan(&id, &customer, &existStart, &existEnd)

	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking overlap: %w", err)
	}

	return fmt.Errorf("%w: %q (%s-%s)", appointment.ErrOverlap, customer, clock(existStart), clock(existEnd))
}

// clock renders a stored instant as local HH:MM for error messages.
func clock(stored string) string {
	t, err := parseTime(stored)
	if err != nil {
		return stored
	}
	return appointment.FormatTimeOfDay(t)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

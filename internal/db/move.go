package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
)

// MoveAppointment commits a move/resize atomically.
//
// The old station, start and end in req must match the stored appointment,
// otherwise the move is rejected with reason "conflict". Rejections are
// returned as MoveResult{Success: false}; a non-nil error means the store failed.
func (s *SQLite) MoveAppointment(ctx context.Context, req appointment.MoveRequest) (appointment.MoveResult, error) {
	if !req.NewEnd.After(req.NewStart) {
		return rejected(appointment.ErrEndBeforeStart), nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return appointment.MoveResult{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		kind      appointment.Kind
		stationID string
		start     string
		end       string
	)
	err = tx.QueryRowContext(ctx,
		`SELECT kind, station_id, start_time, end_time FROM appointments WHERE id = ?`,
		req.AppointmentID,
	).Scan(&kind, &stationID, &start, &end)
	if errors.Is(err, sql.ErrNoRows) {
		return rejected(appointment.ErrAppointmentNotFound), nil
	}
	if err != nil {
		return appointment.MoveResult{}, fmt.Errorf("querying appointment: %w", err)
	}

	if stationID != req.OldStationID ||
		start != formatTime(req.OldStart) ||
		end != formatTime(req.OldEnd) ||
		(req.Kind != "" && req.Kind != kind) {
		return rejected(appointment.ErrConflict), nil
	}

	ok, err := exists(ctx, tx, "stations", req.NewStationID)
	if err != nil {
		return appointment.MoveResult{}, err
	}
	if !ok {
		return rejected(appointment.ErrStationNotFound), nil
	}
	if req.NewWorkerID != nil {
		ok, err := exists(ctx, tx, "workers", *req.NewWorkerID)
		if err != nil {
			return appointment.MoveResult{}, err
		}
		if !ok {
			return rejected(appointment.ErrWorkerNotFound), nil
		}
	}

	if err := checkOverlap(ctx, tx, req.NewStationID, req.NewStart, req.NewEnd, req.AppointmentID); err != nil {
		if errors.Is(err, appointment.ErrOverlap) {
			return rejected(err), nil
		}
		return appointment.MoveResult{}, err
	}

	// Nil notes keep their stored value.
	query := `
		UPDATE appointments
		SET station_id = ?,
		    worker_id = ?,
		    start_time = ?,
		    end_time = ?,
		    customer_notes = COALESCE(?, customer_notes),
		    internal_notes = COALESCE(?, internal_notes),
		    service_notes = COALESCE(?, service_notes)
		WHERE id = ?
	`
	_, err = tx.ExecContext(ctx, query,
		req.NewStationID,
		req.NewWorkerID,
		formatTime(req.NewStart),
		formatTime(req.NewEnd),
		req.CustomerNotes,
		req.InternalNotes,
		req.ServiceNotes,
		req.AppointmentID,
	)
	if err != nil {
		return appointment.MoveResult{}, fmt.Errorf("updating appointment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return appointment.MoveResult{}, fmt.Errorf("committing transaction: %w", err)
	}

	return appointment.MoveResult{Success: true}, nil
}

func rejected(err error) appointment.MoveResult {
	return appointment.MoveResult{Success: false, Error: err.Error()}
}

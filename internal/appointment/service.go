package appointment

import (
	"context"
	"time"
)

// MoveRequest is the input of the remote move operation.
// The Old* fields act as an optimistic-concurrency fingerprint: the data service
// rejects the move when the stored appointment no longer matches them.
type MoveRequest struct {
	AppointmentID string    `json:"appointment_id"`
	Kind          Kind      `json:"appointment_type"`
	OldStationID  string    `json:"old_station_id"`
	OldStart      time.Time `json:"old_start_time"`
	OldEnd        time.Time `json:"old_end_time"`
	NewStationID  string    `json:"new_station_id"`
	NewWorkerID   *string   `json:"new_worker_id,omitempty"`
	NewStart      time.Time `json:"new_start_time"`
	NewEnd        time.Time `json:"new_end_time"`
	InternalNotes *string   `json:"internal_notes,omitempty"`
	CustomerNotes *string   `json:"customer_notes,omitempty"`
	ServiceNotes  *string   `json:"service_notes,omitempty"`
}

// MoveResult is the output of the remote move operation.
type MoveResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Mover commits a move/resize atomically.
// A returned error is a transport failure; a rejected move is Success=false.
type Mover interface {
	MoveAppointment(ctx context.Context, req MoveRequest) (MoveResult, error)
}

// Directory lists the read-only station and worker resources.
type Directory interface {
	ListStations(ctx context.Context) ([]Station, error)
	ListWorkers(ctx context.Context) ([]Worker, error)
}

// Service is the data service consumed by the calendar view.
type Service interface {
	Mover
	Directory

	// ListAppointments returns appointments starting within [from, to).
	ListAppointments(ctx context.Context, from, to time.Time) ([]Appointment, error)

	// GetAppointment retrieves an appointment by ID.
	GetAppointment(ctx context.Context, id string) (*Appointment, error)

	// DeleteAppointment removes an appointment.
	DeleteAppointment(ctx context.Context, id string) error

	// Close releases any resources held by the service.
	Close() error
}

// Repository is a Service that also owns the records (the local SQLite store).
type Repository interface {
	Service

	// CreateAppointment adds an appointment and assigns its ID.
	// Returns ErrOverlap if it collides with another booking at the same station.
	CreateAppointment(ctx context.Context, a *Appointment) error

	CreateStation(ctx context.Context, s *Station) error
	CreateWorker(ctx context.Context, w *Worker) error
}

// Package remote exposes the data service over HTTP and provides a client for it.
package remote

import (
	"time"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
)

// AppointmentResponse is the wire form of an appointment.
type AppointmentResponse struct {
	ID              string    `json:"id"`
	Kind            string    `json:"appointment_type"`
	StationID       string    `json:"station_id"`
	WorkerID        *string   `json:"worker_id,omitempty"`
	CustomerName    string    `json:"customer_name"`
	Pets            []string  `json:"pets"`
	Start           time.Time `json:"start_time"`
	End             time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	CustomerNotes   string    `json:"customer_notes"`
	InternalNotes   string    `json:"internal_notes"`
	ServiceNotes    string    `json:"service_notes"`
}

// ResourceResponse is the wire form of a station or worker.
type ResourceResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

func toResponse(a appointment.Appointment) AppointmentResponse {
	pets := a.Pets
	if pets == nil {
		pets = []string{}
	}
	return AppointmentResponse{
		ID:              a.ID,
		Kind:            string(a.Kind),
		StationID:       a.StationID,
		WorkerID:        a.WorkerID,
		CustomerName:    a.CustomerName,
		Pets:            pets,
		Start:           a.Start,
		End:             a.End,
		DurationMinutes: a.DurationMinutes,
		CustomerNotes:   a.CustomerNotes,
		InternalNotes:   a.InternalNotes,
		ServiceNotes:    a.ServiceNotes,
	}
}

func (r AppointmentResponse) toAppointment() appointment.Appointment {
	start, end := r.Start.Local(), r.End.Local()
	return appointment.Appointment{
		ID:              r.ID,
		Kind:            appointment.Kind(r.Kind),
		StationID:       r.StationID,
		WorkerID:        r.WorkerID,
		CustomerName:    r.CustomerName,
		Pets:            r.Pets,
		Start:           start,
		End:             end,
		DurationMinutes: appointment.DurationMinutes(start, end),
		CustomerNotes:   r.CustomerNotes,
		InternalNotes:   r.InternalNotes,
		ServiceNotes:    r.ServiceNotes,
	}
}

// Package appointment defines the core domain types for barbery.
package appointment

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Domain errors.
var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrStationNotFound     = errors.New("station not found")
	ErrWorkerNotFound      = errors.New("worker not found")
	ErrEndBeforeStart      = errors.New("end time must be after start time")
	ErrOverlap             = errors.New("appointment overlaps with another booking")
	ErrConflict            = errors.New("conflict")
	ErrInvalidKind         = errors.New("kind must be 'grooming' or 'daycare'")
)

// Kind is the type of service an appointment books.
type Kind string

const (
	KindGrooming Kind = "grooming"
	KindDaycare  Kind = "daycare"
)

// ParseKind parses a kind name.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grooming":
		return KindGrooming, nil
	case "daycare":
		return KindDaycare, nil
	default:
		return "", ErrInvalidKind
	}
}

// Station is a bookable resource an appointment occupies.
type Station struct {
	ID   string
	Name string
}

// Worker is an optional staff resource.
type Worker struct {
	ID   string
	Name string
}

// Appointment is a scheduled service occupying [Start, End) at a station.
type Appointment struct {
	ID              string
	Kind            Kind
	StationID       string
	WorkerID        *string // nil when unassigned
	CustomerName    string
	Pets            []string
	Start           time.Time
	End             time.Time
	DurationMinutes int
	CustomerNotes   string
	InternalNotes   string
	ServiceNotes    string
	CreatedAt       time.Time
}

// New creates an appointment with validation. DurationMinutes is derived from start and end.
func New(kind Kind, stationID, customer string, start, end time.Time) (*Appointment, error) {
	if kind != KindGrooming && kind != KindDaycare {
		return nil, ErrInvalidKind
	}
	if stationID == "" {
		return nil, ErrStationNotFound
	}
	if !end.After(start) {
		return nil, ErrEndBeforeStart
	}
	return &Appointment{
		Kind:            kind,
		StationID:       stationID,
		CustomerName:    customer,
		Start:           start,
		End:             end,
		DurationMinutes: DurationMinutes(start, end),
		CreatedAt:       time.Now(),
	}, nil
}

// Clone returns a deep copy so cached values never alias caller memory.
func (a Appointment) Clone() Appointment {
	c := a
	if a.WorkerID != nil {
		w := *a.WorkerID
		c.WorkerID = &w
	}
	if a.Pets != nil {
		c.Pets = append([]string(nil), a.Pets...)
	}
	return c
}

// Worker returns the assigned worker id, or "" when unassigned.
func (a Appointment) Worker() string {
	if a.WorkerID == nil {
		return ""
	}
	return *a.WorkerID
}

// OverlapsWith returns true if both appointments share a station and their intervals intersect.
func (a Appointment) OverlapsWith(other Appointment) bool {
	if a.StationID != other.StationID {
		return false
	}
	return a.Start.Before(other.End) && other.Start.Before(a.End)
}

// Summary is a one-line human description.
func (a Appointment) Summary() string {
	pets := strings.Join(a.Pets, ", ")
	if pets == "" {
		pets = "-"
	}
	return fmt.Sprintf("%s %s-%s %s (%s) [%s]",
		a.Start.Format("2006-01-02"),
		FormatTimeOfDay(a.Start),
		FormatTimeOfDay(a.End),
		a.CustomerName,
		pets,
		a.Kind,
	)
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package reschedule

import (
	"sort"
	"time"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
)

// Cache is the client-held copy of the visible schedule, keyed by appointment ID.
// It is immutable: every mutation returns a new Cache and leaves the receiver untouched.
type Cache struct {
	byID map[string]appointment.Appointment
}

// NewCache builds a cache from a list of appointments. Later duplicates win.
func NewCache(appts []appointment.Appointment) Cache {
	byID := make(map[string]appointment.Appointment, len(appts))
	for _, a := range appts {
		byID[a.ID] = a.Clone()
	}
	return Cache{byID: byID}
}

// Get returns a copy of the cached appointment.
func (c Cache) Get(id string) (appointment.Appointment, bool) {
	a, ok := c.byID[id]
	if !ok {
		return appointment.Appointment{}, false
	}
	return a.Clone(), true
}

// Has reports whether id is cached.
func (c Cache) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Len returns the number of cached appointments.
func (c Cache) Len() int {
	return len(c.byID)
}

// All returns copies of every cached appointment ordered by start, station, then ID.
func (c Cache) All() []appointment.Appointment {
	out := make([]appointment.Appointment, 0, len(c.byID))
	for _, a := range c.byID {
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		if out[i].StationID != out[j].StationID {
			return out[i].StationID < out[j].StationID
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// OnStation returns the cached appointments at a station, ordered by start.
func (c Cache) OnStation(stationID string) []appointment.Appointment {
	var out []appointment.Appointment
	for _, a := range c.All() {
		if a.StationID == stationID {
			out = append(out, a)
		}
	}
	return out
}

// with returns a copy of c where id maps to a.
func (c Cache) with(id string, a appointment.Appointment) Cache {
	byID := make(map[string]appointment.Appointment, len(c.byID))
	for k, v := range c.byID {
		byID[k] = v
	}
	byID[id] = a
	return Cache{byID: byID}
}

func setEnd(c Cache, id string, end time.Time, duration int) Cache {
	a, ok := c.byID[id]
	if !ok {
		return c
	}
	a = a.Clone()
	a.End = end
	a.DurationMinutes = duration
	return c.with(id, a)
}

// ApplyProposed shows a tentative end/duration for id before server confirmation.
// Unknown IDs are ignored. No other field is touched.
func ApplyProposed(c Cache, id string, newEnd time.Time, newDuration int) Cache {
	return setEnd(c, id, newEnd, newDuration)
}

// RevertToOriginal restores the pre-edit end/duration for id.
// Unknown IDs are ignored. No other field is touched.
func RevertToOriginal(c Cache, id string, originalEnd time.Time, originalDuration int) Cache {
	return setEnd(c, id, originalEnd, originalDuration)
}

// ApplyCommitted writes the authoritative values of a confirmed move into the cache.
// Nil note pointers leave the cached notes unchanged.
func ApplyCommitted(c Cache, req appointment.MoveRequest) Cache {
	a, ok := c.byID[req.AppointmentID]
	if !ok {
		return c
	}
	a = a.Clone()
	a.StationID = req.NewStationID
	a.WorkerID = nil
	if req.NewWorkerID != nil {
		w := *req.NewWorkerID
		a.WorkerID = &w
	}
	a.Start = req.NewStart
	a.End = req.NewEnd
	a.DurationMinutes = appointment.DurationMinutes(req.NewStart, req.NewEnd)
	if req.CustomerNotes != nil {
		a.CustomerNotes = *req.CustomerNotes
	}
	if req.InternalNotes != nil {
		a.InternalNotes = *req.InternalNotes
	}
	if req.ServiceNotes != nil {
		a.ServiceNotes = *req.ServiceNotes
	}
	return c.with(req.AppointmentID, a)
}

package tui

import (
	"time"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
)

// GridConfig maps the day's working hours onto fixed-size slot rows.
type GridConfig struct {
	Day         time.Time // midnight of the displayed day
	StartMinute int       // minutes after midnight of the first row
	EndMinute   int
	SlotMinutes int
}

// NewGridConfig builds a grid for day from "HH:MM" bounds.
// Malformed bounds fall back to a full day.
func NewGridConfig(day time.Time, dayStart, dayEnd string, slotMinutes int) GridConfig {
	if slotMinutes <= 0 {
		slotMinutes = 15
	}
	g := GridConfig{
		Day:         time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()),
		StartMinute: 0,
		EndMinute:   24 * 60,
		SlotMinutes: slotMinutes,
	}
	if h, m, err := appointment.ParseTimeOfDay(dayStart); err == nil {
		g.StartMinute = h*60 + m
	}
	if h, m, err := appointment.ParseTimeOfDay(dayEnd); err == nil {
		g.EndMinute = h*60 + m
	}
	if g.EndMinute <= g.StartMinute {
		g.StartMinute, g.EndMinute = 0, 24*60
	}
	return g
}

// Slots returns the number of rows.
func (g GridConfig) Slots() int {
	return (g.EndMinute - g.StartMinute + g.SlotMinutes - 1) / g.SlotMinutes
}

// SlotStart returns the instant row i begins.
func (g GridConfig) SlotStart(i int) time.Time {
	return g.Day.Add(time.Duration(g.StartMinute+i*g.SlotMinutes) * time.Minute)
}

// SlotEnd returns the instant row i ends.
func (g GridConfig) SlotEnd(i int) time.Time {
	return g.SlotStart(i).Add(time.Duration(g.SlotMinutes) * time.Minute)
}

// SlotFor returns the row containing t, clamped to the grid.
func (g GridConfig) SlotFor(t time.Time) int {
	t = t.In(g.Day.Location())
	minutes := int(t.Sub(g.Day) / time.Minute)
	slot := (minutes - g.StartMinute) / g.SlotMinutes
	if minutes < g.StartMinute {
		slot = 0
	}
	if slot >= g.Slots() {
		slot = g.Slots() - 1
	}
	if slot < 0 {
		slot = 0
	}
	return slot
}

// Step returns the resize increment.
func (g GridConfig) Step() time.Duration {
	return time.Duration(g.SlotMinutes) * time.Minute
}

// covers reports whether a occupies any part of [from, to).
func covers(a appointment.Appointment, from, to time.Time) bool {
	return a.Start.Before(to) && a.End.After(from)
}

// appointmentAt returns the first appointment at station occupying [from, to).
// appts must be ordered by start.
func appointmentAt(appts []appointment.Appointment, stationID string, from, to time.Time) (appointment.Appointment, bool) {
	for _, a := range appts {
		if a.StationID == stationID && covers(a, from, to) {
			return a, true
		}
	}
	return appointment.Appointment{}, false
}

// firstRow reports whether row i is where a's block label goes.
func (g GridConfig) firstRow(a appointment.Appointment, i int) bool {
	return g.SlotFor(a.Start) == i
}

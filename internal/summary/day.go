// Package summary provides shared day summary utilities.
package summary

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/dateutil"
)

// DayStats holds aggregated booking numbers for one day.
type DayStats struct {
	Grooming       int
	Daycare        int
	BookedMinutes  int
	Unassigned     int            // appointments without a worker
	StationMinutes map[string]int // booked minutes per station ID
}

// Total returns the number of appointments.
func (s DayStats) Total() int {
	return s.Grooming + s.Daycare
}

// DaySummary holds a day's appointments in start order and their stats.
type DaySummary struct {
	Day          time.Time
	Appointments []appointment.Appointment
	Stats        DayStats
}

// SummarizeDay builds a summary from appointments starting on day.
// Appointments starting on other days are ignored.
func SummarizeDay(day time.Time, appts []appointment.Appointment) *DaySummary {
	from, to := dateutil.DayBounds(day)

	s := &DaySummary{
		Day:   from,
		Stats: DayStats{StationMinutes: make(map[string]int)},
	}
	for _, a := range appts {
		if a.Start.Before(from) || !a.Start.Before(to) {
			continue
		}
		s.Appointments = append(s.Appointments, a)

		switch a.Kind {
		case appointment.KindGrooming:
			s.Stats.Grooming++
		case appointment.KindDaycare:
			s.Stats.Daycare++
		}
		if a.Worker() == "" {
			s.Stats.Unassigned++
		}
		minutes := appointment.DurationMinutes(a.Start, a.End)
		s.Stats.BookedMinutes += minutes
		s.Stats.StationMinutes[a.StationID] += minutes
	}

	sort.SliceStable(s.Appointments, func(i, j int) bool {
		return s.Appointments[i].Start.Before(s.Appointments[j].Start)
	})
	return s
}

// BuildDaySummary loads the appointments of day from svc and summarizes them.
func BuildDaySummary(ctx context.Context, svc appointment.Service, day time.Time) (*DaySummary, error) {
	from, to := dateutil.DayBounds(day)
	appts, err := svc.ListAppointments(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetching appointments: %w", err)
	}
	return SummarizeDay(from, appts), nil
}

// Line renders the stats as a single line, e.g.
// "3 appointments · 2 grooming · 1 daycare · 2h30m booked · 1 unassigned".
func (s DayStats) Line() string {
	parts := []string{
		plural(s.Total(), "appointment"),
		fmt.Sprintf("%d grooming", s.Grooming),
		fmt.Sprintf("%d daycare", s.Daycare),
		formatMinutes(s.BookedMinutes) + " booked",
	}
	if s.Unassigned > 0 {
		parts = append(parts, fmt.Sprintf("%d unassigned", s.Unassigned))
	}
	return strings.Join(parts, " · ")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func formatMinutes(m int) string {
	h, rem := m/60, m%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", rem)
	case rem == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%02dm", h, rem)
	}
}

package summary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
)

func at(day, hh, mm int) time.Time {
	return time.Date(2025, 3, day, hh, mm, 0, 0, time.Local)
}

func TestSummarizeDay(t *testing.T) {
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local)
	worker := "W"

	appts := []appointment.Appointment{
		{ID: "b", Kind: appointment.KindDaycare, StationID: "Y", Start: at(14, 11, 0), End: at(14, 13, 0)},
		{ID: "a", Kind: appointment.KindGrooming, StationID: "X", WorkerID: &worker, Start: at(14, 10, 0), End: at(14, 10, 30)},
		{ID: "c", Kind: appointment.KindGrooming, StationID: "X", Start: at(14, 15, 0), End: at(14, 15, 45)},
		{ID: "next", Kind: appointment.KindGrooming, StationID: "X", Start: at(15, 9, 0), End: at(15, 10, 0)},
	}

	s := SummarizeDay(day.Add(9*time.Hour), appts)

	if !s.Day.Equal(day) {
		t.Errorf("day = %v, want %v", s.Day, day)
	}
	if len(s.Appointments) != 3 {
		t.Fatalf("appointments = %d, want 3", len(s.Appointments))
	}
	if s.Appointments[0].ID != "a" || s.Appointments[2].ID != "c" {
		t.Errorf("order = %s,%s,%s", s.Appointments[0].ID, s.Appointments[1].ID, s.Appointments[2].ID)
	}

	st := s.Stats
	if st.Grooming != 2 || st.Daycare != 1 || st.Total() != 3 {
		t.Errorf("kinds = %d grooming, %d daycare", st.Grooming, st.Daycare)
	}
	if st.BookedMinutes != 195 {
		t.Errorf("booked = %d, want 195", st.BookedMinutes)
	}
	if st.StationMinutes["X"] != 75 || st.StationMinutes["Y"] != 120 {
		t.Errorf("station minutes = %v", st.StationMinutes)
	}
	if st.Unassigned != 2 {
		t.Errorf("unassigned = %d, want 2", st.Unassigned)
	}
}

func TestDayStatsLine(t *testing.T) {
	tests := []struct {
		name  string
		stats DayStats
		want  string
	}{
		{"empty", DayStats{}, "0 appointments · 0 grooming · 0 daycare · 0m booked"},
		{"single", DayStats{Grooming: 1, BookedMinutes: 60}, "1 appointment · 1 grooming · 0 daycare · 1h booked"},
		{"mixed", DayStats{Grooming: 2, Daycare: 1, BookedMinutes: 150, Unassigned: 1}, "3 appointments · 2 grooming · 1 daycare · 2h30m booked · 1 unassigned"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.stats.Line(); got != tc.want {
				t.Errorf("Line() = %q, want %q", got, tc.want)
			}
		})
	}
}

type listOnly struct {
	appointment.Service
	appts []appointment.Appointment
	err   error
	from  time.Time
	to    time.Time
}

func (l *listOnly) ListAppointments(_ context.Context, from, to time.Time) ([]appointment.Appointment, error) {
	l.from, l.to = from, to
	return l.appts, l.err
}

func TestBuildDaySummary(t *testing.T) {
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local)
	svc := &listOnly{appts: []appointment.Appointment{
		{ID: "a", Kind: appointment.KindGrooming, StationID: "X", Start: at(14, 10, 0), End: at(14, 10, 30)},
	}}

	s, err := BuildDaySummary(context.Background(), svc, day.Add(13*time.Hour))
	if err != nil {
		t.Fatalf("BuildDaySummary failed: %v", err)
	}
	if !svc.from.Equal(day) || !svc.to.Equal(day.AddDate(0, 0, 1)) {
		t.Errorf("queried [%v, %v)", svc.from, svc.to)
	}
	if s.Stats.Total() != 1 {
		t.Errorf("total = %d, want 1", s.Stats.Total())
	}

	svc.err = errors.New("boom")
	if _, err := BuildDaySummary(context.Background(), svc, day); err == nil {
		t.Error("expected error")
	}
}

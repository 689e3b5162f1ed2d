package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/reschedule"
)

type fakeService struct {
	listAppointments func(from, to time.Time) ([]appointment.Appointment, error)
	stationsErr      error
	deleteErr        error
	moveResult       appointment.MoveResult
	moveErr          error
}

func (f fakeService) MoveAppointment(context.Context, appointment.MoveRequest) (appointment.MoveResult, error) {
	return f.moveResult, f.moveErr
}

func (f fakeService) ListStations(context.Context) ([]appointment.Station, error) {
	if f.stationsErr != nil {
		return nil, f.stationsErr
	}
	return []appointment.Station{{ID: "x", Name: "Table X"}}, nil
}

func (f fakeService) ListWorkers(context.Context) ([]appointment.Worker, error) {
	return nil, nil
}

func (f fakeService) ListAppointments(_ context.Context, from, to time.Time) ([]appointment.Appointment, error) {
	if f.listAppointments == nil {
		return nil, errors.New("not implemented")
	}
	return f.listAppointments(from, to)
}

func (f fakeService) GetAppointment(context.Context, string) (*appointment.Appointment, error) {
	return nil, appointment.ErrAppointmentNotFound
}

func (f fakeService) DeleteAppointment(context.Context, string) error {
	return f.deleteErr
}

func (f fakeService) Close() error { return nil }

func TestLoadDayUsesDayBounds(t *testing.T) {
	day := time.Date(2025, 3, 14, 15, 30, 0, 0, time.UTC)
	var gotFrom, gotTo time.Time
	svc := fakeService{
		listAppointments: func(from, to time.Time) ([]appointment.Appointment, error) {
			gotFrom, gotTo = from, to
			return []appointment.Appointment{{ID: "a"}}, nil
		},
	}

	msg := LoadDay(svc, day)()
	loaded, ok := msg.(DayLoadedMsg)
	if !ok {
		t.Fatalf("LoadDay() produced %T, want DayLoadedMsg", msg)
	}

	wantFrom := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	if !gotFrom.Equal(wantFrom) || !gotTo.Equal(wantFrom.AddDate(0, 0, 1)) {
		t.Errorf("range = [%v, %v), want the whole of 2025-03-14", gotFrom, gotTo)
	}
	if !loaded.Day.Equal(wantFrom) {
		t.Errorf("Day = %v, want %v", loaded.Day, wantFrom)
	}
	if len(loaded.Appointments) != 1 || len(loaded.Stations) != 1 {
		t.Errorf("loaded %d appointments, %d stations", len(loaded.Appointments), len(loaded.Stations))
	}
}

func TestLoadDayErrors(t *testing.T) {
	tests := []struct {
		name string
		svc  fakeService
	}{
		{"appointments fail", fakeService{}},
		{"stations fail", fakeService{
			listAppointments: func(time.Time, time.Time) ([]appointment.Appointment, error) { return nil, nil },
			stationsErr:      errors.New("boom"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := LoadDay(tt.svc, time.Now())()
			if _, ok := msg.(ErrMsg); !ok {
				t.Errorf("LoadDay() produced %T, want ErrMsg", msg)
			}
		})
	}
}

func TestCommitAlwaysSettles(t *testing.T) {
	job := reschedule.MoveJob{Request: appointment.MoveRequest{AppointmentID: "a"}}

	tests := []struct {
		name    string
		svc     fakeService
		success bool
		wantErr bool
	}{
		{"success", fakeService{moveResult: appointment.MoveResult{Success: true}}, true, false},
		{"rejected", fakeService{moveResult: appointment.MoveResult{Error: "conflict"}}, false, false},
		{"transport error", fakeService{moveErr: errors.New("down")}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := Commit(tt.svc, job)().(CommitSettledMsg)
			if !ok {
				t.Fatal("Commit() did not produce CommitSettledMsg")
			}
			if msg.Settled.AppointmentID != "a" {
				t.Errorf("AppointmentID = %q, want a", msg.Settled.AppointmentID)
			}
			if msg.Settled.Result.Success != tt.success || (msg.Settled.Err != nil) != tt.wantErr {
				t.Errorf("settled = %+v", msg.Settled)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	if msg, ok := Delete(fakeService{}, "a")().(DeletedMsg); !ok || msg.AppointmentID != "a" {
		t.Errorf("Delete() = %#v, want DeletedMsg for a", msg)
	}

	msg := Delete(fakeService{deleteErr: appointment.ErrAppointmentNotFound}, "a")()
	errMsg, ok := msg.(ErrMsg)
	if !ok || !errors.Is(errMsg.Err, appointment.ErrAppointmentNotFound) {
		t.Errorf("Delete() = %#v, want wrapped not found", msg)
	}
}

func TestCopy(t *testing.T) {
	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })

	var got string
	writeClipboard = func(text string) error {
		got = text
		return nil
	}
	if _, ok := Copy("hello")().(CopiedMsg); !ok || got != "hello" {
		t.Errorf("Copy() wrote %q", got)
	}

	writeClipboard = func(string) error { return errors.New("no clipboard") }
	if _, ok := Copy("hello")().(ErrMsg); !ok {
		t.Error("Copy() should report clipboard errors")
	}
}

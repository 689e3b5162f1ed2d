// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/reschedule"
)

// DayLoadedMsg is sent when a day's schedule and the directories are loaded.
type DayLoadedMsg struct {
	Day          time.Time
	Appointments []appointment.Appointment
	Stations     []appointment.Station
	Workers      []appointment.Worker
}

// CommitSettledMsg carries the outcome of a move back into the update loop.
type CommitSettledMsg struct {
	Settled reschedule.CommitSettled
}

// DeletedMsg is sent when an appointment was deleted.
type DeletedMsg struct {
	AppointmentID string
}

// CopiedMsg is sent when text was copied to the clipboard.
type CopiedMsg struct {
	Text string
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// LoadDay loads the appointments starting on day plus the station and worker directories.
func LoadDay(svc appointment.Service, day time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		to := from.AddDate(0, 0, 1)

		appts, err := svc.ListAppointments(ctx, from, to)
		if err != nil {
			return ErrMsg{Err: err}
		}
		stations, err := svc.ListStations(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}
		workers, err := svc.ListWorkers(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}

		return DayLoadedMsg{Day: from, Appointments: appts, Stations: stations, Workers: workers}
	}
}

// Commit runs a move job. Its result always comes back as a CommitSettledMsg.
func Commit(m appointment.Mover, job reschedule.MoveJob) tea.Cmd {
	return func() tea.Msg {
		return CommitSettledMsg{Settled: job.Run(context.Background(), m)}
	}
}

// Delete removes an appointment.
func Delete(svc appointment.Service, id string) tea.Cmd {
	return func() tea.Msg {
		if err := svc.DeleteAppointment(context.Background(), id); err != nil {
			return ErrMsg{Err: fmt.Errorf("deleting appointment: %w", err)}
		}
		return DeletedMsg{AppointmentID: id}
	}
}

// Copy writes text to the system clipboard.
func Copy(text string) tea.Cmd {
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return CopiedMsg{Text: text}
	}
}

package reschedule

import (
	"context"
	"time"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
)

// Event is an input to the coordinator. Events are processed one at a time.
type Event interface {
	eventName() string
}

// ResizeStarted proposes a new end for an appointment (drag-resize gesture).
// Repeated gestures on the same appointment replace the proposal.
type ResizeStarted struct {
	AppointmentID string
	NewEnd        time.Time
}

// EditOpened opens the editor for an appointment.
type EditOpened struct {
	AppointmentID string
}

// FieldChanged updates one editor field.
type FieldChanged struct {
	Field Field
	Value string
}

// ConfirmRequested asks to commit the open editor.
type ConfirmRequested struct{}

// CancelRequested discards the open editor and any pending resize for its appointment.
type CancelRequested struct{}

// DeleteRequested hands the edited appointment to the delete confirmation flow.
type DeleteRequested struct{}

// CommitSettled reports the outcome of a MoveJob.
type CommitSettled struct {
	AppointmentID string
	Result        appointment.MoveResult
	Err           error
}

// ScheduleLoaded replaces the cache with freshly loaded appointments.
// Pending proposals are re-applied on top.
type ScheduleLoaded struct {
	Appointments []appointment.Appointment
}

func (ResizeStarted) eventName() string    { return "resize_started" }
func (EditOpened) eventName() string       { return "edit_opened" }
func (FieldChanged) eventName() string     { return "field_changed" }
func (ConfirmRequested) eventName() string { return "confirm_requested" }
func (CancelRequested) eventName() string  { return "cancel_requested" }
func (DeleteRequested) eventName() string  { return "delete_requested" }
func (CommitSettled) eventName() string    { return "commit_settled" }
func (ScheduleLoaded) eventName() string   { return "schedule_loaded" }

// MoveJob is the single suspension point of an edit session: one remote move call.
type MoveJob struct {
	Request appointment.MoveRequest
}

// Run performs the move and converts the outcome into a CommitSettled event.
func (j MoveJob) Run(ctx context.Context, m appointment.Mover) CommitSettled {
	res, err := m.MoveAppointment(ctx, j.Request)
	return CommitSettled{
		AppointmentID: j.Request.AppointmentID,
		Result:        res,
		Err:           err,
	}
}

// DeleteHandoff carries the appointment the operator chose to delete.
type DeleteHandoff struct {
	Appointment appointment.Appointment
}

// Result is what handling one event produced.
type Result struct {
	Commit *MoveJob       // non-nil when a remote move must be issued
	Delete *DeleteHandoff // non-nil when the operator chose delete
	Err    error          // *ValidationError, *CommitFailure or a coordinator error
}

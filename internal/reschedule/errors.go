package reschedule

import (
	"errors"
	"fmt"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
)

// Coordinator errors.
var (
	ErrNoSession           = errors.New("no edit session is open")
	ErrCommitInFlight      = errors.New("a commit is already in flight for this appointment")
	ErrStationRequired     = errors.New("station is required")
	ErrNonPositiveDuration = errors.New("duration must be greater than zero")
	ErrInvalidDate         = errors.New("date must be in YYYY-MM-DD format")
	ErrDerivedField        = errors.New("field is computed and cannot be edited")
	ErrUnknownField        = errors.New("unknown field")
)

// ValidationError reports a local constraint violation. It never reaches the network.
type ValidationError struct {
	Field Field
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field Field, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// CommitFailure reports a move the data service rejected or could not be reached for.
type CommitFailure struct {
	AppointmentID string
	Reason        string // from MoveResult.Error, may be empty
	Err           error  // transport error, nil when the service answered
}

func (e *CommitFailure) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("commit failed: %v", e.Err)
	case e.Reason != "":
		return "commit failed: " + e.Reason
	default:
		return "commit failed"
	}
}

func (e *CommitFailure) Unwrap() error {
	return e.Err
}

// Is matches appointment.ErrConflict when the service reported a fingerprint conflict.
func (e *CommitFailure) Is(target error) bool {
	return target == appointment.ErrConflict && e.Reason == appointment.ErrConflict.Error()
}

package reschedule

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
)

// Field identifies an edit form field.
type Field int

const (
	FieldDate Field = iota
	FieldStartTime
	FieldStation
	FieldWorker
	FieldCustomerNotes
	FieldInternalNotes
	FieldServiceNotes
	FieldEnd // derived, never editable
)

// EditableFields lists the fields in form order.
var EditableFields = []Field{
	FieldDate,
	FieldStartTime,
	FieldStation,
	FieldWorker,
	FieldCustomerNotes,
	FieldInternalNotes,
	FieldServiceNotes,
}

func (f Field) String() string {
	switch f {
	case FieldDate:
		return "date"
	case FieldStartTime:
		return "start"
	case FieldStation:
		return "station"
	case FieldWorker:
		return "worker"
	case FieldCustomerNotes:
		return "customer notes"
	case FieldInternalNotes:
		return "internal notes"
	case FieldServiceNotes:
		return "service notes"
	case FieldEnd:
		return "end"
	default:
		return "unknown"
	}
}

// EditForm is the transient editor state for one appointment.
// The end instant is derived from Date, StartTime and the effective duration on every change.
type EditForm struct {
	AppointmentID string
	Kind          appointment.Kind
	Date          time.Time // calendar date; seeded with the start instant so its UTC offset resolves repeated wall clocks
	StartTime     string    // "HH:MM" as typed
	StationID     string
	WorkerID      *string
	CustomerNotes string
	InternalNotes string
	ServiceNotes  string

	duration int
	end      time.Time // last known-good derived end
	endErr   error
}

func newForm(a appointment.Appointment, duration int) *EditForm {
	f := &EditForm{
		AppointmentID: a.ID,
		Kind:          a.Kind,
		Date:          a.Start,
		StartTime:     appointment.FormatTimeOfDay(a.Start),
		StationID:     a.StationID,
		CustomerNotes: a.CustomerNotes,
		InternalNotes: a.InternalNotes,
		ServiceNotes:  a.ServiceNotes,
		duration:      duration,
		end:           a.Start.Add(time.Duration(duration) * time.Minute),
	}
	if a.WorkerID != nil {
		w := *a.WorkerID
		f.WorkerID = &w
	}
	return f
}

// Duration returns the effective duration in minutes.
func (f EditForm) Duration() int {
	return f.duration
}

// End returns the derived end instant, or the last known-good one when the form is malformed.
func (f EditForm) End() time.Time {
	return f.end
}

// EndErr returns the reason the displayed end is stale, if any.
func (f EditForm) EndErr() error {
	return f.endErr
}

// EndTimeOfDay formats End as "HH:MM".
func (f EditForm) EndTimeOfDay() string {
	return appointment.FormatTimeOfDay(f.end)
}

// Worker returns the selected worker ID or "".
func (f EditForm) Worker() string {
	if f.WorkerID == nil {
		return ""
	}
	return *f.WorkerID
}

// Value returns the display value of a field.
func (f EditForm) Value(field Field) string {
	switch field {
	case FieldDate:
		return f.Date.Format("2006-01-02")
	case FieldStartTime:
		return f.StartTime
	case FieldStation:
		return f.StationID
	case FieldWorker:
		return f.Worker()
	case FieldCustomerNotes:
		return f.CustomerNotes
	case FieldInternalNotes:
		return f.InternalNotes
	case FieldServiceNotes:
		return f.ServiceNotes
	case FieldEnd:
		return f.EndTimeOfDay()
	default:
		return ""
	}
}

func (f *EditForm) set(field Field, value string) error {
	switch field {
	case FieldDate:
		d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(value), f.Date.Location())
		if err != nil {
			return invalid(FieldDate, ErrInvalidDate)
		}
		if !appointment.SameDay(f.Date, d) {
			f.Date = d
		}
	case FieldStartTime:
		f.StartTime = strings.TrimSpace(value)
	case FieldStation:
		f.StationID = strings.TrimSpace(value)
	case FieldWorker:
		f.WorkerID = appointment.StringPtr(strings.TrimSpace(value))
	case FieldCustomerNotes:
		f.CustomerNotes = value
	case FieldInternalNotes:
		f.InternalNotes = value
	case FieldServiceNotes:
		f.ServiceNotes = value
	case FieldEnd:
		return invalid(FieldEnd, ErrDerivedField)
	default:
		return invalid(field, ErrUnknownField)
	}
	return nil
}

func (f *EditForm) setDuration(d int) {
	f.duration = d
}

// recompute refreshes the derived end. On malformed input the previous end is kept.
func (f *EditForm) recompute(log *zap.Logger) {
	end, err := appointment.ComputeEnd(f.Date, f.StartTime, f.duration)
	if err != nil {
		f.endErr = err
		log.Warn("keeping last known-good end",
			zap.String("appointment_id", f.AppointmentID),
			zap.String("start", f.StartTime),
			zap.Int("duration", f.duration),
			zap.Time("end", f.end),
			zap.Error(err),
		)
		return
	}
	f.end = end
	f.endErr = nil
}

// validate checks the form in fixed order and stops at the first violation.
func validate(f EditForm, duration int) error {
	if strings.TrimSpace(f.StationID) == "" {
		return invalid(FieldStation, ErrStationRequired)
	}
	if _, _, err := appointment.ParseTimeOfDay(f.StartTime); err != nil {
		return invalid(FieldStartTime, err)
	}
	if duration <= 0 {
		return invalid(FieldEnd, ErrNonPositiveDuration)
	}
	return nil
}

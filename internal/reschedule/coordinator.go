package reschedule

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
)

// State is the edit session state.
type State int

const (
	StateClosed State = iota
	StateOpen         // editor seeded, untouched
	StateEditing      // operator changed at least one field, or a commit failed
	StateCommitting   // waiting for the move operation to settle
	StateRollingBack  // transient, only observable from logs
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateEditing:
		return "editing"
	case StateCommitting:
		return "committing"
	case StateRollingBack:
		return "rolling_back"
	default:
		return "unknown"
	}
}

// Coordinator is the edit session state machine for one operator.
// It is not safe for concurrent use; feed it from a single goroutine (see Loop).
type Coordinator struct {
	log *zap.Logger

	cache   Cache
	pending map[string]PendingResize

	state    State
	form     *EditForm
	snapshot Snapshot // pre-edit placement of the appointment in the editor

	inFlight     map[string]appointment.MoveRequest
	cancelQueued bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a coordinator over an initial schedule.
func New(appts []appointment.Appointment, opts ...Option) *Coordinator {
	c := &Coordinator{
		log:      zap.NewNop(),
		cache:    NewCache(appts),
		pending:  make(map[string]PendingResize),
		inFlight: make(map[string]appointment.MoveRequest),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current session state.
func (c *Coordinator) State() State {
	return c.state
}

// Cache returns the optimistic schedule for rendering.
func (c *Coordinator) Cache() Cache {
	return c.cache
}

// Form returns a copy of the open edit form.
func (c *Coordinator) Form() (EditForm, bool) {
	if c.form == nil {
		return EditForm{}, false
	}
	f := *c.form
	if c.form.WorkerID != nil {
		w := *c.form.WorkerID
		f.WorkerID = &w
	}
	return f, true
}

// Snapshot returns the pre-edit snapshot of the appointment in the editor.
func (c *Coordinator) Snapshot() (Snapshot, bool) {
	if c.form == nil {
		return Snapshot{}, false
	}
	return c.snapshot, true
}

// EditingID returns the appointment ID in the editor, or "".
func (c *Coordinator) EditingID() string {
	if c.form == nil {
		return ""
	}
	return c.form.AppointmentID
}

// Pending returns the pending resize for an appointment.
func (c *Coordinator) Pending(id string) (PendingResize, bool) {
	p, ok := c.pending[id]
	return p, ok
}

// PendingIDs returns the IDs with a pending resize, sorted.
func (c *Coordinator) PendingIDs() []string {
	ids := make([]string, 0, len(c.pending))
	for id := range c.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Committing reports whether a move for id is in flight.
func (c *Coordinator) Committing(id string) bool {
	_, ok := c.inFlight[id]
	return ok
}

// CancelQueued reports whether a cancel is waiting for the in-flight commit to settle.
func (c *Coordinator) CancelQueued() bool {
	return c.cancelQueued
}

// Handle processes one event.
func (c *Coordinator) Handle(ev Event) Result {
	c.log.Debug("event",
		zap.String("event", ev.eventName()),
		zap.String("state", c.state.String()),
		zap.String("editing", c.EditingID()),
	)

	switch ev := ev.(type) {
	case ResizeStarted:
		return c.resize(ev)
	case EditOpened:
		return c.open(ev.AppointmentID)
	case FieldChanged:
		return c.change(ev)
	case ConfirmRequested:
		return c.confirm()
	case CancelRequested:
		return c.cancel()
	case DeleteRequested:
		return c.delete()
	case CommitSettled:
		return c.settle(ev)
	case ScheduleLoaded:
		return c.load(ev.Appointments)
	default:
		return Result{Err: fmt.Errorf("unhandled event %T", ev)}
	}
}

func (c *Coordinator) transition(to State, reason string) {
	if c.state == to {
		return
	}
	c.log.Debug("transition",
		zap.String("from", c.state.String()),
		zap.String("to", to.String()),
		zap.String("reason", reason),
		zap.String("appointment_id", c.EditingID()),
	)
	c.state = to
}

func (c *Coordinator) resize(ev ResizeStarted) Result {
	id := ev.AppointmentID
	if c.Committing(id) {
		c.log.Warn("resize rejected while committing", zap.String("appointment_id", id))
		return Result{Err: ErrCommitInFlight}
	}

	a, ok := c.cache.Get(id)
	if !ok {
		c.log.Warn("resize for stale appointment ignored", zap.String("appointment_id", id))
		return Result{}
	}

	duration := appointment.DurationMinutes(a.Start, ev.NewEnd)
	if duration <= 0 {
		return Result{Err: invalid(FieldEnd, ErrNonPositiveDuration)}
	}

	p, exists := c.pending[id]
	if !exists {
		p = PendingResize{AppointmentID: id, Original: SnapshotOf(a)}
	}
	p.ProposedEnd = a.Start.Add(time.Duration(duration) * time.Minute)
	p.ProposedDuration = duration
	p.Applied = true
	c.pending[id] = p
	c.cache = ApplyProposed(c.cache, id, p.ProposedEnd, p.ProposedDuration)

	if c.form != nil && c.form.AppointmentID == id {
		c.form.setDuration(duration)
		c.form.recompute(c.log)
	}

	c.log.Debug("resize proposed",
		zap.String("appointment_id", id),
		zap.Int("original_duration", p.Original.DurationMinutes),
		zap.Int("proposed_duration", duration),
	)
	return Result{}
}

func (c *Coordinator) open(id string) Result {
	if c.state == StateCommitting || c.Committing(id) {
		c.log.Warn("open rejected while committing", zap.String("appointment_id", id))
		return Result{Err: ErrCommitInFlight}
	}
	if c.form != nil {
		if c.form.AppointmentID == id {
			return Result{}
		}
		c.rollback("editor replaced")
	}

	a, ok := c.cache.Get(id)
	if !ok {
		return Result{Err: fmt.Errorf("%w: %s", appointment.ErrAppointmentNotFound, id)}
	}

	snap := SnapshotOf(a)
	duration := a.DurationMinutes
	if p, ok := c.pending[id]; ok {
		snap = p.Original
		duration = p.ProposedDuration
	}

	c.snapshot = snap
	c.form = newForm(a, duration)
	c.transition(StateOpen, "edit opened")
	return Result{}
}

func (c *Coordinator) change(ev FieldChanged) Result {
	if c.form == nil {
		return Result{Err: ErrNoSession}
	}
	if c.state == StateCommitting {
		return Result{Err: ErrCommitInFlight}
	}
	if err := c.form.set(ev.Field, ev.Value); err != nil {
		return Result{Err: err}
	}
	c.form.recompute(c.log)
	c.transition(StateEditing, "field changed: "+ev.Field.String())
	return Result{}
}

// authoritativeDuration is the proposed duration of a pending resize, else the pre-edit duration.
func (c *Coordinator) authoritativeDuration(id string) int {
	if p, ok := c.pending[id]; ok {
		return p.ProposedDuration
	}
	return c.snapshot.DurationMinutes
}

func (c *Coordinator) confirm() Result {
	if c.form == nil {
		return Result{Err: ErrNoSession}
	}
	if c.state == StateCommitting {
		return Result{Err: ErrCommitInFlight}
	}

	id := c.form.AppointmentID
	duration := c.authoritativeDuration(id)
	if err := validate(*c.form, duration); err != nil {
		c.transition(StateEditing, "validation failed")
		return Result{Err: err}
	}

	start, err := appointment.ComputeStart(c.form.Date, c.form.StartTime)
	if err != nil {
		c.transition(StateEditing, "validation failed")
		return Result{Err: invalid(FieldStartTime, err)}
	}
	end := start.Add(time.Duration(duration) * time.Minute)

	customer, internal, service := c.form.CustomerNotes, c.form.InternalNotes, c.form.ServiceNotes
	req := appointment.MoveRequest{
		AppointmentID: id,
		Kind:          c.form.Kind,
		OldStationID:  c.snapshot.StationID,
		OldStart:      c.snapshot.Start,
		OldEnd:        c.snapshot.End,
		NewStationID:  c.form.StationID,
		NewStart:      start,
		NewEnd:        end,
		CustomerNotes: &customer,
		InternalNotes: &internal,
		ServiceNotes:  &service,
	}
	if c.form.WorkerID != nil {
		w := *c.form.WorkerID
		req.NewWorkerID = &w
	}

	c.inFlight[id] = req
	c.cancelQueued = false
	c.transition(StateCommitting, "confirm")
	return Result{Commit: &MoveJob{Request: req}}
}

func (c *Coordinator) settle(ev CommitSettled) Result {
	id := ev.AppointmentID
	req, ok := c.inFlight[id]
	if !ok {
		c.log.Warn("settlement without a commit in flight", zap.String("appointment_id", id))
		return Result{}
	}
	delete(c.inFlight, id)

	editing := c.form != nil && c.form.AppointmentID == id

	if ev.Err == nil && ev.Result.Success {
		delete(c.pending, id)
		c.cache = ApplyCommitted(c.cache, req)
		if editing {
			c.closeEditor("commit succeeded")
		}
		// A cancel queued behind a successful commit has nothing left to roll back.
		c.cancelQueued = false
		c.log.Debug("commit succeeded", zap.String("appointment_id", id))
		return Result{}
	}

	failure := &CommitFailure{AppointmentID: id, Reason: ev.Result.Error, Err: ev.Err}
	if p, ok := c.pending[id]; ok {
		c.cache = RevertToOriginal(c.cache, id, p.OriginalEnd(), p.OriginalDuration())
		p.Applied = false
		c.pending[id] = p
	}
	c.log.Warn("commit failed", zap.String("appointment_id", id), zap.Error(failure))

	if editing {
		c.transition(StateEditing, "commit failed")
	}
	if c.cancelQueued {
		c.cancelQueued = false
		if editing {
			c.rollback("queued cancel")
		}
	}
	return Result{Err: failure}
}

func (c *Coordinator) cancel() Result {
	if c.state == StateCommitting {
		c.cancelQueued = true
		c.log.Debug("cancel queued behind commit", zap.String("appointment_id", c.EditingID()))
		return Result{}
	}
	if c.form == nil {
		return Result{}
	}
	c.rollback("cancel")
	return Result{}
}

// rollback restores the original snapshot for the edited appointment, drops its
// pending resize and closes the editor.
func (c *Coordinator) rollback(reason string) {
	id := c.form.AppointmentID
	c.transition(StateRollingBack, reason)
	if p, ok := c.pending[id]; ok {
		c.cache = RevertToOriginal(c.cache, id, p.OriginalEnd(), p.OriginalDuration())
		delete(c.pending, id)
	}
	c.closeEditor(reason)
}

func (c *Coordinator) closeEditor(reason string) {
	c.transition(StateClosed, reason)
	c.form = nil
	c.snapshot = Snapshot{}
}

func (c *Coordinator) delete() Result {
	if c.form == nil {
		return Result{Err: ErrNoSession}
	}
	if c.state == StateCommitting {
		return Result{Err: ErrCommitInFlight}
	}
	id := c.form.AppointmentID
	a, ok := c.cache.Get(id)
	if !ok {
		a = appointment.Appointment{ID: id, StationID: c.snapshot.StationID, Start: c.snapshot.Start, End: c.snapshot.End}
	}
	c.closeEditor("delete requested")
	return Result{Delete: &DeleteHandoff{Appointment: a}}
}

func (c *Coordinator) load(appts []appointment.Appointment) Result {
	cache := NewCache(appts)
	for id, p := range c.pending {
		if p.Applied {
			cache = ApplyProposed(cache, id, p.ProposedEnd, p.ProposedDuration)
		}
	}
	c.cache = cache
	c.log.Debug("schedule loaded", zap.Int("appointments", cache.Len()), zap.Int("pending", len(c.pending)))
	return Result{}
}

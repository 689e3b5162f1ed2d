package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/reschedule"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/tui/commands"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.log.Debug("key", zap.String("key", msg.String()), zap.Stringer("mode", m.mode))

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModeEdit:
		return m.handleEditKeys(msg)
	case ModeConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Navigation
	case "up", "k":
		if m.cursor.Slot > 0 {
			m.cursor.Slot--
		}
	case "down", "j":
		if m.cursor.Slot < m.grid.Slots()-1 {
			m.cursor.Slot++
		}
	case "left", "h":
		if m.cursor.Station > 0 {
			m.cursor.Station--
		}
	case "right", "l":
		if m.cursor.Station < len(m.stations)-1 {
			m.cursor.Station++
		}
	case "[":
		return m.showDay(m.grid.Day.AddDate(0, 0, -1))
	case "]":
		return m.showDay(m.grid.Day.AddDate(0, 0, 1))
	case "t":
		return m.showDay(m.now())
	case "r":
		m.loading = true
		return m, commands.LoadDay(m.svc, m.grid.Day)

	// Resize
	case "+", "=":
		return m.resizeSelected(1)
	case "-", "_":
		return m.resizeSelected(-1)
	case "esc":
		return m.discardSelected()

	case "enter", "e":
		return m.openEditor()
	case "y":
		if a, ok := m.selected(); ok {
			return m, commands.Copy(a.Summary())
		}
	}

	m.ensureCursorVisible()
	return m, nil
}

func (m Model) showDay(day time.Time) (tea.Model, tea.Cmd) {
	m.grid = m.gridFor(day)
	m.loading = true
	m.clampCursor()
	return m, commands.LoadDay(m.svc, m.grid.Day)
}

// selected returns the appointment under the cursor.
func (m Model) selected() (appointment.Appointment, bool) {
	if m.cursor.Station < 0 || m.cursor.Station >= len(m.stations) {
		return appointment.Appointment{}, false
	}
	st := m.stations[m.cursor.Station]
	return appointmentAt(m.dayAppointments(), st.ID, m.grid.SlotStart(m.cursor.Slot), m.grid.SlotEnd(m.cursor.Slot))
}

// dayAppointments returns the cached appointments starting on the displayed day.
func (m Model) dayAppointments() []appointment.Appointment {
	var out []appointment.Appointment
	for _, a := range m.coord.Cache().All() {
		if appointment.SameDay(m.grid.Day, a.Start) {
			out = append(out, a)
		}
	}
	return out
}

// resizeSelected moves the end of the selected appointment by steps slots.
func (m Model) resizeSelected(steps int) (tea.Model, tea.Cmd) {
	a, ok := m.selected()
	if !ok {
		return m, nil
	}
	return m.resize(a, a.End.Add(time.Duration(steps)*m.grid.Step()))
}

func (m Model) resize(a appointment.Appointment, newEnd time.Time) (tea.Model, tea.Cmd) {
	res := m.coord.Handle(reschedule.ResizeStarted{AppointmentID: a.ID, NewEnd: newEnd})
	if res.Err != nil {
		return m, m.setStatus(describeError(res.Err), errorDuration)
	}
	return m, nil
}

// discardSelected drops the pending resize of the selected appointment.
func (m Model) discardSelected() (tea.Model, tea.Cmd) {
	a, ok := m.selected()
	if !ok {
		return m, nil
	}
	if _, pending := m.coord.Pending(a.ID); !pending {
		return m, nil
	}
	if res := m.coord.Handle(reschedule.EditOpened{AppointmentID: a.ID}); res.Err != nil {
		return m, m.setStatus(describeError(res.Err), errorDuration)
	}
	m.coord.Handle(reschedule.CancelRequested{})
	return m, m.setStatus("Resize discarded", statusDuration)
}

func (m Model) openEditor() (tea.Model, tea.Cmd) {
	a, ok := m.selected()
	if !ok {
		return m, nil
	}
	if res := m.coord.Handle(reschedule.EditOpened{AppointmentID: a.ID}); res.Err != nil {
		return m, m.setStatus(describeError(res.Err), errorDuration)
	}
	m.mode = ModeEdit
	m.fieldErr = nil
	m.seedInputs()
	m.focusField(0)
	m.ensureCursorVisible()
	return m, nil
}

// seedInputs copies the form values into the text inputs.
func (m *Model) seedInputs() {
	form, ok := m.coord.Form()
	if !ok {
		return
	}
	for _, f := range reschedule.EditableFields {
		if isTextField(f) {
			m.inputs[f].SetValue(form.Value(f))
			m.inputs[f].CursorEnd()
		}
	}
}

func (m Model) focusedField() reschedule.Field {
	return reschedule.EditableFields[m.focus]
}

func (m *Model) focusField(i int) {
	n := len(reschedule.EditableFields)
	m.focus = ((i % n) + n) % n
	m.blurInputs()
	if f := m.focusedField(); isTextField(f) {
		m.inputs[f].Focus()
	}
}

func (m *Model) blurInputs() {
	for _, f := range reschedule.EditableFields {
		if isTextField(f) {
			m.inputs[f].Blur()
		}
	}
}

// handleEditKeys handles keys while the editor is open.
func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.coord.Handle(reschedule.CancelRequested{})
		if m.coord.CancelQueued() {
			return m, m.setStatus("Cancel queued until the save settles", statusDuration)
		}
		m.syncMode()
		return m, nil

	case "enter":
		res := m.coord.Handle(reschedule.ConfirmRequested{})
		if res.Err != nil {
			m.fieldErr = res.Err
			return m, m.setStatus(describeError(res.Err), errorDuration)
		}
		m.fieldErr = nil
		if res.Commit == nil {
			return m, nil
		}
		m.statusMsg = "Saving..."
		m.statusTime = m.now().Add(time.Hour)
		return m, commands.Commit(m.svc, *res.Commit)

	case "ctrl+d":
		res := m.coord.Handle(reschedule.DeleteRequested{})
		if res.Err != nil {
			return m, m.setStatus(describeError(res.Err), errorDuration)
		}
		a := res.Delete.Appointment
		m.deleteTarget = &a
		m.mode = ModeConfirmDelete
		m.blurInputs()
		return m, nil

	case "tab", "down":
		m.focusField(m.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.focusField(m.focus - 1)
		return m, nil

	case "ctrl+down", "ctrl+up":
		return m.resizeEditing(msg.String() == "ctrl+down")
	}

	if m.coord.State() == reschedule.StateCommitting {
		return m, nil
	}

	switch f := m.focusedField(); f {
	case reschedule.FieldStation:
		return m.cycleStation(msg.String())
	case reschedule.FieldWorker:
		return m.cycleWorker(msg.String())
	default:
		before := m.inputs[f].Value()
		var cmd tea.Cmd
		m.inputs[f], cmd = m.inputs[f].Update(msg)
		if after := m.inputs[f].Value(); after != before {
			m.changeField(f, after)
		}
		return m, cmd
	}
}

// changeField forwards an edit to the coordinator. Validation errors stay next to the form.
func (m *Model) changeField(f reschedule.Field, value string) {
	res := m.coord.Handle(reschedule.FieldChanged{Field: f, Value: value})
	m.fieldErr = res.Err
}

func (m Model) resizeEditing(grow bool) (tea.Model, tea.Cmd) {
	form, ok := m.coord.Form()
	if !ok {
		return m, nil
	}
	a, ok := m.coord.Cache().Get(form.AppointmentID)
	if !ok {
		return m, nil
	}
	step := m.grid.Step()
	if !grow {
		step = -step
	}
	newEnd := a.Start.Add(time.Duration(form.Duration())*time.Minute + step)
	return m.resize(a, newEnd)
}

func (m Model) cycleStation(key string) (tea.Model, tea.Cmd) {
	if len(m.stations) == 0 {
		return m, nil
	}
	form, _ := m.coord.Form()
	ids := make([]string, len(m.stations))
	for i, s := range m.stations {
		ids[i] = s.ID
	}
	next, ok := cycle(ids, form.StationID, key)
	if ok {
		m.changeField(reschedule.FieldStation, next)
	}
	return m, nil
}

func (m Model) cycleWorker(key string) (tea.Model, tea.Cmd) {
	form, _ := m.coord.Form()
	ids := []string{""}
	for _, w := range m.workers {
		ids = append(ids, w.ID)
	}
	next, ok := cycle(ids, form.Worker(), key)
	if ok {
		m.changeField(reschedule.FieldWorker, next)
	}
	return m, nil
}

// cycle picks the neighbour of current in options for a left/right key.
func cycle(options []string, current, key string) (string, bool) {
	var delta int
	switch key {
	case "right", "l", " ":
		delta = 1
	case "left", "h":
		delta = -1
	default:
		return "", false
	}
	if len(options) == 0 {
		return "", false
	}
	idx := 0
	for i, o := range options {
		if o == current {
			idx = i
			break
		}
	}
	n := len(options)
	return options[((idx+delta)%n+n)%n], true
}

// handleConfirmDeleteKeys handles the delete confirmation prompt.
func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		if m.deleteTarget == nil {
			m.mode = ModeNormal
			return m, nil
		}
		id := m.deleteTarget.ID
		m.statusMsg = "Deleting..."
		m.statusTime = m.now().Add(time.Hour)
		return m, commands.Delete(m.svc, id)
	case "n", "esc", "q":
		m.mode = ModeNormal
		m.deleteTarget = nil
	}
	return m, nil
}

package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/reschedule"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/tui/commands"
)

const (
	statusDuration = 3 * time.Second
	errorDuration  = 5 * time.Second
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.colWidth = m.calculateColWidth()
		m.ensureCursorVisible()
		return m, nil

	case commands.DayLoadedMsg:
		if !msg.Day.Equal(m.grid.Day) {
			m.log.Debug("dropping stale day load", zap.Time("day", msg.Day))
			return m, nil
		}
		m.stations = msg.Stations
		m.workers = msg.Workers
		m.coord.Handle(reschedule.ScheduleLoaded{Appointments: msg.Appointments})
		m.loading = false
		m.colWidth = m.calculateColWidth()
		m.clampCursor()
		return m, nil

	case commands.CommitSettledMsg:
		return m.handleCommitSettled(msg.Settled)

	case commands.DeletedMsg:
		m.mode = ModeNormal
		m.deleteTarget = nil
		cmd := m.setStatus("Appointment deleted", statusDuration)
		return m, tea.Batch(cmd, commands.LoadDay(m.svc, m.grid.Day))

	case commands.CopiedMsg:
		return m, m.setStatus("Copied to clipboard", statusDuration)

	case commands.ErrMsg:
		m.loading = false
		if m.mode == ModeConfirmDelete {
			m.mode = ModeNormal
			m.deleteTarget = nil
		}
		m.log.Warn("command failed", zap.Error(msg.Err))
		return m, m.setStatus(fmt.Sprintf("Error: %v", msg.Err), errorDuration)

	case commands.StatusMsgCmd:
		return m, m.setStatus(msg.Msg, statusDuration)

	case commands.ClearStatusMsg:
		if !m.now().Before(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil
	}

	// Cursor blink and other input messages
	if m.mode == ModeEdit {
		f := m.focusedField()
		if isTextField(f) {
			var cmd tea.Cmd
			m.inputs[f], cmd = m.inputs[f].Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m Model) handleCommitSettled(settled reschedule.CommitSettled) (tea.Model, tea.Cmd) {
	res := m.coord.Handle(settled)
	m.syncMode()

	if res.Err != nil {
		m.fieldErr = nil
		return m, m.setStatus(describeError(res.Err), errorDuration)
	}
	if settled.Err != nil || !settled.Result.Success {
		// Nothing was in flight for this appointment.
		return m, nil
	}
	cmd := m.setStatus("Saved", statusDuration)
	return m, tea.Batch(cmd, commands.LoadDay(m.svc, m.grid.Day))
}

// syncMode leaves edit mode once the coordinator has closed the editor.
func (m *Model) syncMode() {
	if m.mode == ModeEdit && m.coord.EditingID() == "" {
		m.mode = ModeNormal
		m.blurInputs()
	}
}

func (m *Model) setStatus(msg string, d time.Duration) tea.Cmd {
	m.statusMsg = msg
	m.statusTime = m.now().Add(d)
	return tea.Tick(d, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

// describeError turns coordinator errors into operator-facing text.
func describeError(err error) string {
	var verr *reschedule.ValidationError
	if errors.As(err, &verr) {
		return fmt.Sprintf("Invalid %s: %v", verr.Field, verr.Err)
	}
	if errors.Is(err, appointment.ErrConflict) {
		return "Move failed: the appointment changed elsewhere, reload and retry"
	}
	var cerr *reschedule.CommitFailure
	if errors.As(err, &cerr) {
		switch {
		case cerr.Err != nil:
			return fmt.Sprintf("Move failed: %v", cerr.Err)
		case cerr.Reason != "":
			return "Move failed: " + cerr.Reason
		default:
			return "Move failed"
		}
	}
	if errors.Is(err, reschedule.ErrCommitInFlight) {
		return "Still saving, wait for the current save to finish"
	}
	return fmt.Sprintf("Error: %v", err)
}

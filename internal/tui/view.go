package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/reschedule"
)

const (
	maxColWidth  = 32
	headerLines  = 2 // title + station header
	footerLines  = 1
	normalHints  = "↑↓←→ move • +/- resize • enter edit • esc discard • [/] day • t today • y copy • r reload • q quit"
	editorHints  = "tab next • ←/→ choose • ctrl+↑/↓ resize • enter save • esc cancel • ctrl+d delete"
	confirmHints = "y delete • n keep"
)

// View renders the TUI.
func (m Model) View() string {
	var sections []string
	sections = append(sections, m.renderHeader())

	panel := ""
	switch m.mode {
	case ModeEdit:
		panel = m.renderEditor()
	case ModeConfirmDelete:
		panel = m.renderConfirmDelete()
	}

	if len(m.stations) == 0 {
		if m.loading {
			sections = append(sections, m.styles.HintStyle.Render("Loading..."))
		} else {
			sections = append(sections, m.styles.HintStyle.Render("No stations configured. Run `barbery seed` to create some."))
		}
	} else {
		sections = append(sections, m.renderGrid(m.visibleRows(panel)))
	}

	if panel != "" {
		sections = append(sections, panel)
	}
	sections = append(sections, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.styles.TitleStyle.Render("barbery")
	day := m.grid.Day.Format("Mon 02 Jan 2006")
	if appointment.SameDay(m.grid.Day, m.now()) {
		day += " (today)"
	}
	parts := []string{title, m.styles.FieldValueStyle.Render(day)}
	if m.loading {
		parts = append(parts, m.styles.HintStyle.Render("loading..."))
	}
	if n := len(m.coord.PendingIDs()); n > 0 {
		parts = append(parts, m.styles.PendingStyle.Render(fmt.Sprintf(" %d unsaved resize(s) ", n)))
	}
	return strings.Join(parts, "  ")
}

// renderGrid draws the time column and one column per station.
func (m Model) renderGrid(rows int) string {
	appts := m.dayAppointments()

	var b strings.Builder
	b.WriteString(m.styles.TimeColumnStyle.Render(""))
	for _, st := range m.stations {
		name := ansi.Truncate(st.Name, m.colWidth-1, "…")
		b.WriteString(m.styles.StationHeaderStyle.Width(m.colWidth).Render(name))
	}

	last := m.scrollOffset + rows
	if last > m.grid.Slots() {
		last = m.grid.Slots()
	}
	for i := m.scrollOffset; i < last; i++ {
		b.WriteString("\n")
		b.WriteString(m.styles.TimeColumnStyle.Render(m.timeLabel(i)))
		for col, st := range m.stations {
			b.WriteString(m.renderCell(appts, st, col, i))
		}
	}
	return b.String()
}

// timeLabel labels the first row and every full hour.
func (m Model) timeLabel(i int) string {
	start := m.grid.SlotStart(i)
	if i == m.scrollOffset || start.Minute() == 0 {
		return appointment.FormatTimeOfDay(start)
	}
	return ""
}

func (m Model) renderCell(appts []appointment.Appointment, st appointment.Station, col, row int) string {
	style := m.styles.EmptyCellStyle
	text := ""

	if a, ok := appointmentAt(appts, st.ID, m.grid.SlotStart(row), m.grid.SlotEnd(row)); ok {
		style = m.blockStyle(a)
		text = m.blockText(a, row)
	}
	if m.cursor.Station == col && m.cursor.Slot == row {
		style = m.styles.CursorStyle
		if text == "" {
			text = "·"
		}
	}

	text = ansi.Truncate(text, m.colWidth-1, "…")
	return style.Width(m.colWidth).Render(" " + text)
}

// blockText labels the rows of an appointment block: start and customer, then pets, then the end.
func (m Model) blockText(a appointment.Appointment, row int) string {
	first := m.grid.SlotFor(a.Start)
	switch {
	case row == first:
		return appointment.FormatTimeOfDay(a.Start) + " " + a.CustomerName
	case row == first+1 && len(a.Pets) > 0:
		return strings.Join(a.Pets, ", ")
	case row == m.grid.SlotFor(a.End.Add(-1)):
		return "→ " + appointment.FormatTimeOfDay(a.End)
	}
	return ""
}

func (m Model) blockStyle(a appointment.Appointment) lipgloss.Style {
	switch {
	case m.coord.Committing(a.ID):
		return m.styles.CommittingStyle
	case a.ID == m.coord.EditingID():
		return m.styles.EditingStyle
	}
	if p, ok := m.coord.Pending(a.ID); ok && p.Applied {
		return m.styles.PendingStyle
	}
	return m.styles.KindStyle(a.Kind)
}

func (m Model) renderEditor() string {
	form, ok := m.coord.Form()
	if !ok {
		return ""
	}
	a, _ := m.coord.Cache().Get(form.AppointmentID)

	var lines []string
	title := fmt.Sprintf("Editing %s (%s)", a.CustomerName, form.Kind)
	switch {
	case m.coord.State() == reschedule.StateCommitting && m.coord.CancelQueued():
		title += "  saving, cancel queued..."
	case m.coord.State() == reschedule.StateCommitting:
		title += "  saving..."
	}
	lines = append(lines, m.styles.TitleStyle.Render(title))

	for i, f := range reschedule.EditableFields {
		label := m.styles.FieldLabelStyle.Render(f.String())
		if i == m.focus {
			label = m.styles.FieldFocusedStyle.Render(f.String())
		}
		lines = append(lines, label+m.fieldValue(form, f, i == m.focus))
	}

	end := fmt.Sprintf("%s (%d min)", form.EndTimeOfDay(), form.Duration())
	if form.EndErr() != nil {
		end += "  " + m.styles.FieldErrorStyle.Render("start time is malformed, showing last valid end")
	}
	lines = append(lines, m.styles.FieldLabelStyle.Render("end")+m.styles.FieldValueStyle.Render(end))

	if m.fieldErr != nil {
		lines = append(lines, m.styles.FieldErrorStyle.Render(describeError(m.fieldErr)))
	}
	lines = append(lines, m.styles.HintStyle.Render(editorHints))
	return m.styles.EditorStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) fieldValue(form reschedule.EditForm, f reschedule.Field, focused bool) string {
	switch f {
	case reschedule.FieldStation:
		return m.choice(m.stationName(form.StationID), focused)
	case reschedule.FieldWorker:
		name := "unassigned"
		if id := form.Worker(); id != "" {
			name = m.workerName(id)
		}
		return m.choice(name, focused)
	}
	if focused {
		return m.inputs[f].View()
	}
	return m.styles.FieldValueStyle.Render(form.Value(f))
}

func (m Model) choice(name string, focused bool) string {
	if focused {
		return m.styles.FieldValueStyle.Render("‹ " + name + " ›")
	}
	return m.styles.FieldValueStyle.Render(name)
}

func (m Model) stationName(id string) string {
	for _, s := range m.stations {
		if s.ID == id {
			return s.Name
		}
	}
	return id
}

func (m Model) workerName(id string) string {
	for _, w := range m.workers {
		if w.ID == id {
			return w.Name
		}
	}
	return id
}

func (m Model) renderConfirmDelete() string {
	if m.deleteTarget == nil {
		return ""
	}
	body := fmt.Sprintf("Delete this appointment?\n\n%s\n\n%s",
		m.deleteTarget.Summary(),
		m.styles.HintStyle.Render(confirmHints),
	)
	return m.styles.ModalStyle.Render(body)
}

func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		return m.styles.StatusStyle.Render(m.statusMsg)
	}
	hints := normalHints
	if m.mode == ModeEdit {
		hints = editorHints
	}
	if m.width > 0 {
		hints = ansi.Truncate(hints, m.width, "…")
	}
	return m.styles.HintStyle.Render(hints)
}

// visibleRows returns how many grid rows fit next to the given panel.
func (m Model) visibleRows(panel string) int {
	if m.height <= 0 {
		return m.grid.Slots()
	}
	rows := m.height - headerLines - footerLines - 1
	if panel != "" {
		rows -= lipgloss.Height(panel)
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m Model) calculateColWidth() int {
	if m.width <= 0 || len(m.stations) == 0 {
		return defaultColWidth
	}
	w := (m.width - timeColWidth) / len(m.stations)
	if w < minColWidth {
		w = minColWidth
	}
	if w > maxColWidth {
		w = maxColWidth
	}
	return w
}

func (m *Model) clampCursor() {
	if m.cursor.Station >= len(m.stations) {
		m.cursor.Station = len(m.stations) - 1
	}
	if m.cursor.Station < 0 {
		m.cursor.Station = 0
	}
	if m.cursor.Slot >= m.grid.Slots() {
		m.cursor.Slot = m.grid.Slots() - 1
	}
	if m.cursor.Slot < 0 {
		m.cursor.Slot = 0
	}
	m.ensureCursorVisible()
}

// ensureCursorVisible scrolls the grid so the cursor row is on screen.
func (m *Model) ensureCursorVisible() {
	panel := ""
	if m.mode == ModeEdit {
		panel = m.renderEditor()
	}
	rows := m.visibleRows(panel)
	if m.cursor.Slot < m.scrollOffset {
		m.scrollOffset = m.cursor.Slot
	}
	if m.cursor.Slot >= m.scrollOffset+rows {
		m.scrollOffset = m.cursor.Slot - rows + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

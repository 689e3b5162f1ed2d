// Package tui provides the terminal calendar for barbery.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/config"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/reschedule"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/tui/commands"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeEdit        // editor panel open, keys go to the focused field
	ModeConfirmDelete
)

func (m Mode) String() string {
	switch m {
	case ModeEdit:
		return "edit"
	case ModeConfirmDelete:
		return "confirm_delete"
	default:
		return "normal"
	}
}

// Position represents a cursor position in the grid.
type Position struct {
	Station int // column index into the station list
	Slot    int // row index in the grid
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	svc    appointment.Service
	config *config.Config
	log    *zap.Logger

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Edit session and optimistic schedule
	coord *reschedule.Coordinator

	// State
	grid     GridConfig
	stations []appointment.Station
	workers  []appointment.Worker
	cursor   Position
	mode     Mode
	loading  bool

	// Editor state
	inputs   [reschedule.FieldEnd]textinput.Model // text fields, indexed by reschedule.Field
	focus    int                                  // index into reschedule.EditableFields
	fieldErr error

	// Delete confirmation
	deleteTarget *appointment.Appointment

	// Terminal dimensions and layout
	width        int
	height       int
	colWidth     int
	scrollOffset int

	// Messages
	statusMsg  string
	statusTime time.Time

	now func() time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithLogger sets the logger shared with the coordinator.
func WithLogger(l *zap.Logger) ModelOption {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// WithDay sets the initially displayed day.
func WithDay(day time.Time) ModelOption {
	return func(m *Model) {
		m.grid = m.gridFor(day)
	}
}

// WithNow overrides the clock.
func WithNow(now func() time.Time) ModelOption {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates a new TUI model.
func New(svc appointment.Service, cfg *config.Config, opts ...ModelOption) *Model {
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load(theme.DefaultName)
	}
	styles := NewStyles(t)

	m := &Model{
		svc:      svc,
		config:   cfg,
		log:      zap.NewNop(),
		theme:    t,
		styles:   styles,
		mode:     ModeNormal,
		loading:  true,
		colWidth: defaultColWidth,
		now:      time.Now,
	}
	m.grid = m.gridFor(time.Now())

	for _, opt := range opts {
		opt(m)
	}

	m.coord = reschedule.New(nil, reschedule.WithLogger(m.log))
	m.inputs = newInputs(styles)
	m.cursor.Slot = m.grid.SlotFor(m.now())

	return m
}

func newInputs(s *Styles) [reschedule.FieldEnd]textinput.Model {
	var inputs [reschedule.FieldEnd]textinput.Model
	for _, f := range reschedule.EditableFields {
		if !isTextField(f) {
			continue
		}
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = 40
		ti.TextStyle = s.FieldValueStyle
		ti.PlaceholderStyle = s.HintStyle
		switch f {
		case reschedule.FieldDate:
			ti.Placeholder = "YYYY-MM-DD"
			ti.CharLimit = 10
		case reschedule.FieldStartTime:
			ti.Placeholder = "HH:MM"
			ti.CharLimit = 5
		}
		inputs[f] = ti
	}
	return inputs
}

func isTextField(f reschedule.Field) bool {
	return f != reschedule.FieldStation && f != reschedule.FieldWorker && f != reschedule.FieldEnd
}

func (m Model) gridFor(day time.Time) GridConfig {
	return NewGridConfig(day, m.config.Schedule.DayStart, m.config.Schedule.DayEnd, m.config.Schedule.SlotMinutes)
}

// Day returns the displayed day.
func (m Model) Day() time.Time {
	return m.grid.Day
}

// Coordinator exposes the edit session.
func (m Model) Coordinator() *reschedule.Coordinator {
	return m.coord
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return commands.LoadDay(m.svc, m.grid.Day)
}

// Run starts the TUI.
func Run(svc appointment.Service, cfg *config.Config, log *zap.Logger) error {
	model := New(svc, cfg, WithLogger(log))
	p := tea.NewProgram(*model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/tui/theme"
)

const (
	defaultColWidth = 22
	minColWidth     = 12
	timeColWidth    = 6
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	colorBg          lipgloss.Color
	colorBgHighlight lipgloss.Color
	colorBgSelection lipgloss.Color
	colorFg          lipgloss.Color
	colorFgMuted     lipgloss.Color
	colorAccent      lipgloss.Color
	colorGrooming    lipgloss.Color
	colorDaycare     lipgloss.Color
	colorPending     lipgloss.Color
	colorWarning     lipgloss.Color
	colorError       lipgloss.Color

	TitleStyle         lipgloss.Style
	StationHeaderStyle lipgloss.Style
	TimeColumnStyle    lipgloss.Style
	EmptyCellStyle     lipgloss.Style
	GroomingStyle      lipgloss.Style
	DaycareStyle       lipgloss.Style
	PendingStyle       lipgloss.Style // unconfirmed resize
	EditingStyle       lipgloss.Style // appointment open in the editor
	CommittingStyle    lipgloss.Style
	CursorStyle        lipgloss.Style

	EditorStyle       lipgloss.Style
	FieldLabelStyle   lipgloss.Style
	FieldFocusedStyle lipgloss.Style
	FieldValueStyle   lipgloss.Style
	FieldErrorStyle   lipgloss.Style

	HintStyle   lipgloss.Style
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	ModalStyle  lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{
		colorBg:          theme.Color(t.Bg),
		colorBgHighlight: theme.Color(t.BgHighlight),
		colorBgSelection: theme.Color(t.BgSelection),
		colorFg:          theme.Color(t.Fg),
		colorFgMuted:     theme.Color(t.FgMuted),
		colorAccent:      theme.Color(t.Accent),
		colorGrooming:    theme.Color(t.Grooming),
		colorDaycare:     theme.Color(t.Daycare),
		colorPending:     theme.Color(t.Pending),
		colorWarning:     theme.Color(t.Warning),
		colorError:       theme.Color(t.Error),
	}

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.StationHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Foreground(s.colorFg).
		Background(s.colorBgHighlight).
		Width(defaultColWidth)

	s.TimeColumnStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg).
		Width(timeColWidth)

	s.EmptyCellStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.GroomingStyle = lipgloss.NewStyle().
		Foreground(s.colorBg).
		Background(s.colorGrooming)

	s.DaycareStyle = lipgloss.NewStyle().
		Foreground(s.colorBg).
		Background(s.colorDaycare)

	s.PendingStyle = lipgloss.NewStyle().
		Foreground(s.colorBg).
		Background(s.colorPending).
		Italic(true)

	s.EditingStyle = lipgloss.NewStyle().
		Foreground(s.colorBg).
		Background(s.colorAccent).
		Bold(true)

	s.CommittingStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBgHighlight).
		Italic(true)

	s.CursorStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBgSelection).
		Bold(true)

	s.EditorStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorAccent).
		Padding(0, 1)

	s.FieldLabelStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Width(16)

	s.FieldFocusedStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Bold(true).
		Width(16)

	s.FieldValueStyle = lipgloss.NewStyle().
		Foreground(s.colorFg)

	s.FieldErrorStyle = lipgloss.NewStyle().
		Foreground(s.colorError)

	s.HintStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.colorWarning).
		Bold(true)

	s.ErrorStyle = lipgloss.NewStyle().
		Foreground(s.colorError).
		Bold(true)

	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(s.colorError).
		Padding(1, 2)

	return s
}

// KindStyle returns the block style for an appointment kind.
func (s *Styles) KindStyle(k appointment.Kind) lipgloss.Style {
	if k == appointment.KindDaycare {
		return s.DaycareStyle
	}
	return s.GroomingStyle
}

// Package theme provides color themes for the TUI.
package theme

import (
	"embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// DefaultName is used when no theme or an unknown theme is requested.
const DefaultName = "dark"

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`
	BgHighlight string `toml:"bg_highlight"` // station headers, editor panel
	BgSelection string `toml:"bg_selection"` // cursor
	Fg          string `toml:"fg"`
	FgMuted     string `toml:"fg_muted"` // time column, hints
	Accent      string `toml:"accent"`   // title, focused field, editing block
	Grooming    string `toml:"grooming"`
	Daycare     string `toml:"daycare"`
	Pending     string `toml:"pending"` // unconfirmed resize
	Warning     string `toml:"warning"`
	Error       string `toml:"error"`
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// Load loads a theme by name from embedded files.
// Falls back to the default theme if the name is unknown.
func Load(name string) (*Theme, error) {
	if name == "" {
		name = DefaultName
	}
	name = strings.ToLower(name)

	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		if name != DefaultName {
			return Load(DefaultName)
		}
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()

	return &t, nil
}

func (t *Theme) applyDefaults() {
	t.BgHighlight = coalesce(t.BgHighlight, t.Bg)
	t.BgSelection = coalesce(t.BgSelection, t.BgHighlight, t.Accent)
	t.FgMuted = coalesce(t.FgMuted, t.Fg)
	t.Pending = coalesce(t.Pending, t.Warning, t.Accent)
	t.Error = coalesce(t.Error, t.Warning)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{"dark", "light"}
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	name = strings.ToLower(name)
	for _, themeName := range Available() {
		if themeName == name {
			return true
		}
	}
	return false
}

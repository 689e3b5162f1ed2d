package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
)

// Color definitions for consistent styling across the CLI.
var (
	colorGrooming = color.New(color.FgMagenta, color.Bold)
	colorDaycare  = color.New(color.FgCyan, color.Bold)
	colorHeader   = color.New(color.Bold)
	colorSuccess  = color.New(color.FgGreen)
	colorMuted    = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// formatKind renders the one-letter kind tag.
func formatKind(k appointment.Kind) string {
	if k == appointment.KindDaycare {
		return colorDaycare.Sprint("[D]")
	}
	return colorGrooming.Sprint("[G]")
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatSuccess(s string) string {
	return colorSuccess.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

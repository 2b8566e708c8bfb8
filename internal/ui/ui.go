// Package ui provides terminal render helpers for the wm CLI.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/steveyegge/waymark/internal/types"
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)

	statusStyles = map[types.Status]lipgloss.Style{
		types.StatusBlocked:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		types.StatusReady:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		types.StatusActive:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		types.StatusDone:      lipgloss.NewStyle().Faint(true),
		types.StatusAbandoned: lipgloss.NewStyle().Faint(true).Strikethrough(true),
	}
)

// colorEnabled is false when stdout is not a terminal or the environment
// disables color.
var colorEnabled = term.IsTerminal(int(os.Stdout.Fd())) &&
	termenv.EnvColorProfile() != termenv.Ascii

func render(style lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return style.Render(s)
}

// RenderAccent highlights headings and identifiers.
func RenderAccent(s string) string { return render(accentStyle, s) }

// RenderPass marks success output.
func RenderPass(s string) string { return render(passStyle, s) }

// RenderWarn marks warnings.
func RenderWarn(s string) string { return render(warnStyle, s) }

// RenderErr marks failures.
func RenderErr(s string) string { return render(errStyle, s) }

// Dim de-emphasizes secondary output.
func Dim(s string) string { return render(dimStyle, s) }

// RenderStatus colors a waypoint status by its meaning.
func RenderStatus(s types.Status) string {
	style, ok := statusStyles[s]
	if !ok {
		return s.String()
	}
	return render(style, s.String())
}

// Interactive reports whether stdin and stdout are both terminals, i.e.
// whether prompting the user makes sense.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

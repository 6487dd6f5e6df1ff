// Package termui styles command line output and draws progress bars.
package termui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.Color("#9AA5B1")
	colorOK     = lipgloss.Color("#3FB950")
	colorError  = lipgloss.Color("#E5534B")
	colorMuted  = lipgloss.Color("#6E7681")
)

// Styles groups the lipgloss styles used by the commands.
var Styles = struct {
	Title lipgloss.Style
	Key   lipgloss.Style
	OK    lipgloss.Style
	Error lipgloss.Style
	Muted lipgloss.Style
}{
	Title: lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Key:   lipgloss.NewStyle().Bold(true),
	OK:    lipgloss.NewStyle().Foreground(colorOK),
	Error: lipgloss.NewStyle().Foreground(colorError),
	Muted: lipgloss.NewStyle().Foreground(colorMuted),
}

// KV prints an aligned "key: value" line.
func KV(w io.Writer, key string, value any) {
	fmt.Fprintf(w, "%s %v\n", Styles.Key.Render(fmt.Sprintf("%-12s", key+":")), value)
}

// Title prints a heading line.
func Title(w io.Writer, text string) {
	fmt.Fprintln(w, Styles.Title.Render(text))
}

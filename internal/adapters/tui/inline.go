package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-runewidth"
)

// defaultWidth is used when the terminal size cannot be read.
const defaultWidth = 80

// getTerminalWidth returns the current terminal width, defaulting to 80.
func getTerminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w < 40 {
		return defaultWidth
	}
	return w
}

// truncate shortens s to fit width terminal cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// viewCompact renders the inline layout: a status line, the progress bar,
// the task input when editing, and a short help line. It never uses the
// alt screen.
func (m Model) viewCompact() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	accent := lipgloss.NewStyle().Foreground(m.accentColor()).Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	var b strings.Builder

	b.WriteString("  ")
	b.WriteString(accent.Render(truncate(m.statusLine(), width-2)))
	b.WriteString("\n")

	barWidth := width - 4
	if barWidth < 20 {
		barWidth = 20
	}
	b.WriteString("  " + m.progressBar(barWidth))
	b.WriteString("\n")

	if m.input.Focused() {
		b.WriteString("  " + m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("  " + dim.Render(m.helpView()))
	b.WriteString("\n")

	return b.String()
}

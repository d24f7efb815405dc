package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Basic ANSI red, readable across terminal themes.
const colorError = lipgloss.Color("9")

type fdWriter interface {
	Fd() uintptr
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ErrorText renders text in red when w is a terminal and returns it
// unchanged otherwise.
func ErrorText(w io.Writer, text string) string {
	return render(w, colorError, text)
}

func render(w io.Writer, color lipgloss.Color, text string) string {
	if !IsTerminal(w) {
		return text
	}
	return lipgloss.NewRenderer(w).NewStyle().Foreground(color).Render(text)
}

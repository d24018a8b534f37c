// ABOUTME: Terminal rendering for command results, warnings, and errors.
// ABOUTME: Uses lipgloss styles; colors drop out automatically when output is not a TTY.
package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/daily/internal/models"
)

var (
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// renderResult prints warnings, a blank separator line when there were any,
// then one "- item" line per entry.
func renderResult(w io.Writer, r *models.Result) {
	if r == nil {
		return
	}
	renderWarnings(w, r.Warnings)
	for _, item := range r.Items {
		fmt.Fprintf(w, "- %s\n", item)
	}
}

func renderWarnings(w io.Writer, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	for _, warning := range warnings {
		fmt.Fprintln(w, warningStyle.Render(warning))
	}
	fmt.Fprintln(w)
}

func renderEntries(w io.Writer, entries []models.Entry) {
	for _, e := range entries {
		fmt.Fprintln(w, e.Line())
	}
}

func renderSuccess(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf(format, args...)))
}

func renderError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render(err.Error()))
}

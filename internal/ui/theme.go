// Package ui holds the shared lipgloss styles for the timesheet CLI.
// Kept intentionally small: a palette, cell styles and the grid legend.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/olyannaa/workstream/internal/model"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cSick    = lipgloss.Color("220") // yellow
	cTrip    = lipgloss.Color("39")  // blue
	cVacay   = lipgloss.Color("42")  // green
	cRest    = lipgloss.Color("135") // purple
	cMuted   = lipgloss.Color("244") // gray
	cBad     = lipgloss.Color("196") // red
)

var (
	Title   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted   = lipgloss.NewStyle().Foreground(cMuted)
	Warn    = lipgloss.NewStyle().Bold(true).Foreground(cSick)
	Bad     = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Plus    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Weekend = lipgloss.NewStyle().Foreground(cMuted)
	Total   = lipgloss.NewStyle().Bold(true)

	sick     = lipgloss.NewStyle().Bold(true).Foreground(cSick)
	trip     = lipgloss.NewStyle().Bold(true).Foreground(cTrip)
	vacation = lipgloss.NewStyle().Bold(true).Foreground(cVacay)
	rest     = lipgloss.NewStyle().Bold(true).Foreground(cRest)
)

// DayOffStyle returns the style for a day-off code cell.
func DayOffStyle(code model.DayOffCode) lipgloss.Style {
	switch code {
	case model.DayOffSick:
		return sick
	case model.DayOffTrip:
		return trip
	case model.DayOffVacation:
		return vacation
	case model.DayOffWeekend:
		return rest
	}
	return Muted
}

// DayOffCell renders the single-letter marker for a code.
func DayOffCell(code model.DayOffCode) string {
	return DayOffStyle(code).Render(string(code))
}

// Legend renders the one-line explanation of the grid markers.
func Legend() string {
	parts := []string{
		Plus.Render("+") + " worked",
		DayOffCell(model.DayOffSick) + " " + model.DayOffSick.Name(),
		DayOffCell(model.DayOffTrip) + " " + model.DayOffTrip.Name(),
		DayOffCell(model.DayOffVacation) + " " + model.DayOffVacation.Name(),
		DayOffCell(model.DayOffWeekend) + " " + model.DayOffWeekend.Name(),
	}
	return strings.Join(parts, "   ")
}

// StatusBadge renders a task status label.
func StatusBadge(status string) string {
	label := model.StatusName(status)
	switch status {
	case model.StatusInProgress:
		return trip.Render(label)
	case model.StatusReview:
		return rest.Render(label)
	case model.StatusDone:
		return vacation.Render(label)
	}
	return Muted.Render(label)
}

// ReadOnlyBadge marks a non-editable period.
func ReadOnlyBadge() string {
	return Warn.Render("[read-only]")
}

// Errorf formats a styled error line for the terminal.
func Errorf(format string, args ...any) string {
	return Bad.Render("✗ ") + fmt.Sprintf(format, args...)
}

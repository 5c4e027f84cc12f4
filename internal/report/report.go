// Package report computes worked-day totals over a visible window of the
// timesheet grid. The tracker stores free-form hour values, but totals are
// day counts: any positive value marks the day as worked, and a day split
// across k tasks credits 1/k to each.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/olyannaa/workstream/internal/calendar"
	"github.com/olyannaa/workstream/internal/store"
)

// ParseHours converts user input to a numeric hour value. A comma decimal
// separator is accepted (localized input). Empty or non-numeric input is 0,
// never an error.
func ParseHours(raw string) float64 {
	normalized := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if normalized == "" {
		return 0
	}
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}

// Worked reports whether an hour value counts as a worked day.
func Worked(hours float64) bool {
	return hours > 0
}

// TotalDays returns the per-task day attribution over the window. For each
// day, the tasks from the given set that have a positive entry split one
// day evenly between them; tasks outside the set neither receive credit
// nor dilute the split.
func TotalDays(st *store.Store, userID string, days []calendar.Day, tasks map[string]bool) map[string]float64 {
	totals := make(map[string]float64, len(tasks))
	for _, day := range days {
		var present []string
		for _, id := range st.TasksOn(userID, day.Date) {
			if tasks[id] {
				present = append(present, id)
			}
		}
		if len(present) == 0 {
			continue
		}
		share := 1 / float64(len(present))
		for _, id := range present {
			totals[id] += share
		}
	}
	return totals
}

// WorkedDays counts the distinct days in the window with at least one
// positive entry among the given tasks. A day split across several tasks
// counts once; day-off markers never count.
func WorkedDays(st *store.Store, userID string, days []calendar.Day, tasks map[string]bool) int {
	count := 0
	for _, day := range days {
		for _, id := range st.TasksOn(userID, day.Date) {
			if tasks[id] {
				count++
				break
			}
		}
	}
	return count
}

// FormatDayShare renders a day total for display: integers bare, fractions
// with up to two decimals and trailing zeros trimmed, zero as the empty
// string.
func FormatDayShare(v float64) string {
	if v == 0 {
		return ""
	}
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}

// TaskSet builds a membership set from task IDs.
func TaskSet(ids ...string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

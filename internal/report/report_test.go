package report_test

import (
	"math"
	"testing"
	"time"

	"github.com/olyannaa/workstream/internal/calendar"
	"github.com/olyannaa/workstream/internal/report"
	"github.com/olyannaa/workstream/internal/store"
)

func TestParseHours(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"1", 1},
		{"2.5", 2.5},
		{"2,5", 2.5}, // comma decimal separator
		{" 8 ", 8},
		{"0", 0},
		{"", 0},
		{"abc", 0},
		{"1,000,5", 0}, // multiple separators are not a number
		{"-1", -1},
	}
	for _, tt := range tests {
		got := report.ParseHours(tt.raw)
		if got != tt.want {
			t.Errorf("ParseHours(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestWorked(t *testing.T) {
	if report.Worked(0) || report.Worked(-2) {
		t.Error("non-positive hours should not count as worked")
	}
	if !report.Worked(0.25) {
		t.Error("any positive value counts as worked")
	}
}

func TestFormatDayShare(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, ""},
		{1, "1"},
		{3, "3"},
		{0.5, "0.5"},
		{1.0 / 3, "0.33"},
		{2 + 1.0/3, "2.33"},
		{1.25, "1.25"},
		{2.5, "2.5"},
	}
	for _, tt := range tests {
		got := report.FormatDayShare(tt.v)
		if got != tt.want {
			t.Errorf("FormatDayShare(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func jan2024() []calendar.Day {
	return calendar.New(2024, time.January).Days
}

func date(d int) calendar.Date {
	return calendar.Date{Year: 2024, Month: time.January, Day: d}
}

func TestTotalDaysSingleTask(t *testing.T) {
	s := store.New()
	s.SetHours("u1", "a", date(5), 1)

	totals := report.TotalDays(s, "u1", jan2024(), report.TaskSet("a"))
	if totals["a"] != 1 {
		t.Errorf("TotalDays[a] = %v, want 1", totals["a"])
	}
	if got := report.WorkedDays(s, "u1", jan2024(), report.TaskSet("a")); got != 1 {
		t.Errorf("WorkedDays = %d, want 1", got)
	}
}

func TestTotalDaysEvenSplit(t *testing.T) {
	s := store.New()
	// Both tasks on day 5; magnitudes must not matter.
	s.SetHours("u1", "a", date(5), 8)
	s.SetHours("u1", "b", date(5), 0.5)

	set := report.TaskSet("a", "b")
	totals := report.TotalDays(s, "u1", jan2024(), set)
	if totals["a"] != 0.5 || totals["b"] != 0.5 {
		t.Errorf("TotalDays = %v, want 0.5 each", totals)
	}
	// The shared day counts once, not twice.
	if got := report.WorkedDays(s, "u1", jan2024(), set); got != 1 {
		t.Errorf("WorkedDays = %d, want 1", got)
	}
}

func TestTotalDaysThreeWaySplit(t *testing.T) {
	s := store.New()
	s.SetHours("u1", "a", date(5), 1)
	s.SetHours("u1", "b", date(5), 1)
	s.SetHours("u1", "c", date(5), 1)
	s.SetHours("u1", "a", date(6), 1)

	totals := report.TotalDays(s, "u1", jan2024(), report.TaskSet("a", "b", "c"))
	if math.Abs(totals["a"]-(1+1.0/3)) > 1e-9 {
		t.Errorf("TotalDays[a] = %v, want 1.333…", totals["a"])
	}
	if math.Abs(totals["b"]-1.0/3) > 1e-9 {
		t.Errorf("TotalDays[b] = %v, want 0.333…", totals["b"])
	}
}

func TestTotalDaysIgnoresTasksOutsideSet(t *testing.T) {
	s := store.New()
	s.SetHours("u1", "visible", date(5), 1)
	s.SetHours("u1", "hidden", date(5), 1)

	totals := report.TotalDays(s, "u1", jan2024(), report.TaskSet("visible"))
	// The hidden task neither receives credit nor dilutes the split.
	if totals["visible"] != 1 {
		t.Errorf("TotalDays[visible] = %v, want 1", totals["visible"])
	}
	if _, ok := totals["hidden"]; ok {
		t.Error("task outside the set received credit")
	}
}

func TestTotalDaysRespectsWindow(t *testing.T) {
	s := store.New()
	s.SetHours("u1", "a", date(5), 1)
	s.SetHours("u1", "a", date(20), 1)

	// Week view: only days 1..7.
	week := calendar.New(2024, time.January).Week(1)
	totals := report.TotalDays(s, "u1", week, report.TaskSet("a"))
	if totals["a"] != 1 {
		t.Errorf("TotalDays in week window = %v, want 1", totals["a"])
	}
	if got := report.WorkedDays(s, "u1", week, report.TaskSet("a")); got != 1 {
		t.Errorf("WorkedDays in week window = %d, want 1", got)
	}
}

func TestWorkedDaysExcludesDayOffs(t *testing.T) {
	s := store.New()
	s.SetHours("u1", "a", date(5), 1)
	s.SetDayOff("u1", date(10), "o")

	if got := report.WorkedDays(s, "u1", jan2024(), report.TaskSet("a")); got != 1 {
		t.Errorf("WorkedDays = %d, want 1 (day-offs are tracked separately)", got)
	}
}

func TestClearedEntryNoLongerCounts(t *testing.T) {
	s := store.New()
	s.SetHours("u1", "a", date(5), 2.5)
	s.SetHours("u1", "a", date(5), report.ParseHours("")) // cleared via empty input

	totals := report.TotalDays(s, "u1", jan2024(), report.TaskSet("a"))
	if totals["a"] != 0 {
		t.Errorf("TotalDays after clear = %v, want 0", totals["a"])
	}
}

func TestParseHoursRoundTrip(t *testing.T) {
	s := store.New()
	s.SetHours("u1", "a", date(5), report.ParseHours("2,5"))
	h, ok := s.Hours("u1", "a", date(5))
	if !ok || h != 2.5 {
		t.Errorf("stored hours = %v, %v; want 2.5, true", h, ok)
	}
}

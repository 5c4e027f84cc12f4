package cmd

import (
	"testing"
	"time"

	"github.com/olyannaa/workstream/internal/calendar"
	"github.com/olyannaa/workstream/internal/timesheet"
)

func newTestTracker() *timesheet.Tracker {
	return timesheet.New("u1", nil, nil)
}

func TestCSVEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"", ""},
		{"with,comma", `"with,comma"`},
		{`say "hi"`, `"say ""hi"""`},
		{"line\nbreak", "\"line\nbreak\""},
		{"cr\rhere", "\"cr\rhere\""},
	}
	for _, tt := range tests {
		if got := csvEscape(tt.in); got != tt.want {
			t.Errorf("csvEscape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseMonthFlag(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	year, month, err := parseMonthFlag("", now)
	if err != nil {
		t.Fatalf("empty flag: %v", err)
	}
	if year != 2024 || month != time.March {
		t.Errorf("empty flag = %d-%v, want current month", year, month)
	}

	year, month, err = parseMonthFlag("2023-11", now)
	if err != nil {
		t.Fatalf("2023-11: %v", err)
	}
	if year != 2023 || month != time.November {
		t.Errorf("got %d-%v, want 2023-November", year, month)
	}

	for _, bad := range []string{"2023", "11-2023", "2023-13", "march"} {
		if _, _, err := parseMonthFlag(bad, now); err == nil {
			t.Errorf("parseMonthFlag(%q) should fail", bad)
		}
	}
}

func TestExportCellPrefersDayOff(t *testing.T) {
	tr := newTestTracker()
	date := calendar.Date{Year: 2024, Month: time.January, Day: 10}

	if got := exportCell(tr, "a", date); got != "" {
		t.Errorf("empty cell = %q, want blank", got)
	}

	tr.Store.SetHours(tr.UserID, "a", date, 2.5)
	if got := exportCell(tr, "a", date); got != "2.5" {
		t.Errorf("hours cell = %q, want raw value", got)
	}

	tr.Store.SetDayOff(tr.UserID, date, "o")
	if got := exportCell(tr, "a", date); got != "o" {
		t.Errorf("day-off cell = %q, want the marker letter", got)
	}
}

package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar days: zero-padded, no timezone.
const DateLayout = "2006-01-02"

// Date is a plain calendar day. It carries no time-of-day and no location,
// matching the backend's work_date field.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Weekday returns the day of week.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// DaysInMonth returns the number of days in the given month, accounting
// for leap years.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Day is a single cell column of the timesheet grid.
type Day struct {
	Date    Date
	Num     int          // 1-based day of month
	Weekday time.Weekday
	Weekend bool // Saturday or Sunday
	Week    int  // month-local week number, 1-based
}

// Month is the full geometry for one calendar month.
type Month struct {
	Year  int
	Month time.Month
	Days  []Day
}

// New builds the geometry for the given month. Weeks are Monday-first and
// month-local: week 1 always contains day 1.
func New(year int, month time.Month) Month {
	n := DaysInMonth(year, month)
	// Offset of day 1 within its week, Monday = 0.
	first := Date{Year: year, Month: month, Day: 1}
	offset := (int(first.Weekday()) + 6) % 7

	days := make([]Day, 0, n)
	for i := 1; i <= n; i++ {
		date := Date{Year: year, Month: month, Day: i}
		wd := date.Weekday()
		days = append(days, Day{
			Date:    date,
			Num:     i,
			Weekday: wd,
			Weekend: wd == time.Saturday || wd == time.Sunday,
			Week:    (i + offset + 6) / 7,
		})
	}
	return Month{Year: year, Month: month, Days: days}
}

// First returns the first day of the month.
func (m Month) First() Date {
	return Date{Year: m.Year, Month: m.Month, Day: 1}
}

// Last returns the last day of the month.
func (m Month) Last() Date {
	return Date{Year: m.Year, Month: m.Month, Day: len(m.Days)}
}

// Week returns the days belonging to week n, or nil if the month has no
// such week. The returned values are the same Day objects as in Days.
func (m Month) Week(n int) []Day {
	var out []Day
	for _, d := range m.Days {
		if d.Week == n {
			out = append(out, d)
		}
	}
	return out
}

// WeekNumbers lists the week numbers present in the month, in order.
func (m Month) WeekNumbers() []int {
	var out []int
	for _, d := range m.Days {
		if len(out) == 0 || out[len(out)-1] != d.Week {
			out = append(out, d.Week)
		}
	}
	return out
}

// WeekdayShort returns a two-letter weekday label for grid headers.
func WeekdayShort(wd time.Weekday) string {
	switch wd {
	case time.Monday:
		return "Mo"
	case time.Tuesday:
		return "Tu"
	case time.Wednesday:
		return "We"
	case time.Thursday:
		return "Th"
	case time.Friday:
		return "Fr"
	case time.Saturday:
		return "Sa"
	default:
		return "Su"
	}
}

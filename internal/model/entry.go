package model

import "github.com/olyannaa/workstream/internal/calendar"

// TimeEntry is one logged value for a task on a calendar day. Hours is the
// raw stored number; totals treat any positive value as one worked day.
type TimeEntry struct {
	UserID string
	TaskID string
	Date   calendar.Date
	Hours  float64
}

// DayOffCode marks a whole day as not worked. The values are the backend's
// wire tokens.
type DayOffCode string

const (
	DayOffNone     DayOffCode = ""
	DayOffSick     DayOffCode = "b"
	DayOffTrip     DayOffCode = "k"
	DayOffVacation DayOffCode = "o"
	DayOffWeekend  DayOffCode = "v"
)

// dayOffCycle is the click order in the grid header: none, sick, business
// trip, vacation, weekend marker, back to none.
var dayOffCycle = []DayOffCode{DayOffNone, DayOffSick, DayOffTrip, DayOffVacation, DayOffWeekend}

// Valid reports whether c is a known non-empty code.
func (c DayOffCode) Valid() bool {
	switch c {
	case DayOffSick, DayOffTrip, DayOffVacation, DayOffWeekend:
		return true
	}
	return false
}

// Next returns the code following c in the cycle. Unknown codes restart
// the cycle.
func (c DayOffCode) Next() DayOffCode {
	for i, v := range dayOffCycle {
		if v == c {
			return dayOffCycle[(i+1)%len(dayOffCycle)]
		}
	}
	return dayOffCycle[1]
}

// Name returns a human-readable label for the code.
func (c DayOffCode) Name() string {
	switch c {
	case DayOffSick:
		return "sick"
	case DayOffTrip:
		return "business trip"
	case DayOffVacation:
		return "vacation"
	case DayOffWeekend:
		return "day off"
	}
	return "worked"
}

// DayOffEntry marks one calendar day of a user. A day-off and task hours
// are mutually exclusive for the same day.
type DayOffEntry struct {
	UserID string
	Date   calendar.Date
	Code   DayOffCode
}

// Package store is the in-memory index of time entries and day-off
// markers for the visible window. It only mutates memory; persistence and
// network writes live in the timesheet package.
package store

import (
	"sort"

	"github.com/olyannaa/workstream/internal/calendar"
	"github.com/olyannaa/workstream/internal/model"
)

type entryKey struct {
	user string
	task string
	date calendar.Date
}

type dayKey struct {
	user string
	date calendar.Date
}

// Store holds at most one value per (user, task, date) and one day-off
// code per (user, date).
type Store struct {
	hours   map[entryKey]float64
	dayOffs map[dayKey]model.DayOffCode
}

func New() *Store {
	return &Store{
		hours:   make(map[entryKey]float64),
		dayOffs: make(map[dayKey]model.DayOffCode),
	}
}

// SetHours sets the entry for the key, overwriting any prior value.
// Hours <= 0 removes the entry.
func (s *Store) SetHours(userID, taskID string, date calendar.Date, hours float64) {
	k := entryKey{user: userID, task: taskID, date: date}
	if hours <= 0 {
		delete(s.hours, k)
		return
	}
	s.hours[k] = hours
}

// Hours returns the stored value for the key, if any.
func (s *Store) Hours(userID, taskID string, date calendar.Date) (float64, bool) {
	h, ok := s.hours[entryKey{user: userID, task: taskID, date: date}]
	return h, ok
}

// SetDayOff sets the day-off marker for the key. The empty code removes it.
func (s *Store) SetDayOff(userID string, date calendar.Date, code model.DayOffCode) {
	k := dayKey{user: userID, date: date}
	if code == model.DayOffNone {
		delete(s.dayOffs, k)
		return
	}
	s.dayOffs[k] = code
}

// DayOff returns the day-off marker for the key, if any.
func (s *Store) DayOff(userID string, date calendar.Date) (model.DayOffCode, bool) {
	c, ok := s.dayOffs[dayKey{user: userID, date: date}]
	return c, ok
}

// TasksOn lists the task IDs with a positive entry for the user on the
// given date, sorted for deterministic iteration.
func (s *Store) TasksOn(userID string, date calendar.Date) []string {
	var out []string
	for k, h := range s.hours {
		if k.user == userID && k.date == date && h > 0 {
			out = append(out, k.task)
		}
	}
	sort.Strings(out)
	return out
}

// Entries returns every stored time entry, sorted by date then task.
func (s *Store) Entries() []model.TimeEntry {
	out := make([]model.TimeEntry, 0, len(s.hours))
	for k, h := range s.hours {
		out = append(out, model.TimeEntry{UserID: k.user, TaskID: k.task, Date: k.date, Hours: h})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Time().Before(out[j].Date.Time())
		}
		return out[i].TaskID < out[j].TaskID
	})
	return out
}

// DayOffs returns every stored day-off marker, sorted by date.
func (s *Store) DayOffs() []model.DayOffEntry {
	out := make([]model.DayOffEntry, 0, len(s.dayOffs))
	for k, c := range s.dayOffs {
		out = append(out, model.DayOffEntry{UserID: k.user, Date: k.date, Code: c})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Time().Before(out[j].Date.Time())
	})
	return out
}

// Reset replaces the whole store contents with freshly fetched state.
// Zero-hour rows and empty codes are dropped rather than stored.
func (s *Store) Reset(entries []model.TimeEntry, dayOffs []model.DayOffEntry) {
	s.hours = make(map[entryKey]float64, len(entries))
	s.dayOffs = make(map[dayKey]model.DayOffCode, len(dayOffs))
	for _, e := range entries {
		s.SetHours(e.UserID, e.TaskID, e.Date, e.Hours)
	}
	for _, d := range dayOffs {
		s.SetDayOff(d.UserID, d.Date, d.Code)
	}
}

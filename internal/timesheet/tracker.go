// Package timesheet reconciles the in-memory grid state with the backend.
// Every cell interaction becomes a network write; the local store is only
// mutated after the write succeeds, so a failed write leaves the grid on
// its last-known-good state.
package timesheet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/olyannaa/workstream/internal/calendar"
	"github.com/olyannaa/workstream/internal/model"
	"github.com/olyannaa/workstream/internal/report"
	"github.com/olyannaa/workstream/internal/store"
)

// ErrReadOnly is returned for write attempts outside the current
// real-world month. Only the current period is editable.
var ErrReadOnly = errors.New("timesheet: period is read-only")

// API is the backend surface the tracker needs.
type API interface {
	Entries(ctx context.Context, userID string, from, to calendar.Date) ([]model.TimeEntry, error)
	DayOffs(ctx context.Context, userID string, from, to calendar.Date) ([]model.DayOffEntry, error)
	Tasks(ctx context.Context) ([]model.Task, error)
	PutEntry(ctx context.Context, userID, taskID string, date calendar.Date, hours float64) error
	PutDayOff(ctx context.Context, userID string, date calendar.Date, code model.DayOffCode) error
	SetTaskStatus(ctx context.Context, taskID, status string) error
}

// Snapshot is the optional local fallback used when the backend is
// unreachable.
type Snapshot interface {
	SaveWindow(userID string, from, to calendar.Date, entries []model.TimeEntry, dayOffs []model.DayOffEntry) error
	LoadWindow(userID string, from, to calendar.Date) ([]model.TimeEntry, []model.DayOffEntry, error)
	SaveTasks(tasks []model.Task) error
	LoadTasks() ([]model.Task, error)
}

// Tracker holds the grid state for one user and serializes cell writes.
type Tracker struct {
	UserID string
	Store  *store.Store
	Tasks  []model.Task

	// Now supplies the wall clock for the current-period gate. Injected
	// so tests never depend on real time.
	Now func() time.Time

	api  API
	snap Snapshot // may be nil
}

// New creates a tracker. snap may be nil to disable the local fallback.
func New(userID string, api API, snap Snapshot) *Tracker {
	return &Tracker{
		UserID: userID,
		Store:  store.New(),
		Now:    time.Now,
		api:    api,
		snap:   snap,
	}
}

// Editable reports whether the given month is the current real-world
// month. All other periods are read-only.
func (t *Tracker) Editable(year int, month time.Month) bool {
	now := calendar.DateOf(t.Now())
	return now.Year == year && now.Month == month
}

// Refresh replaces the store contents with the backend state for the
// month. On fetch failure the last cached snapshot is loaded instead and
// the fetch error is returned; callers report it and render stale state.
func (t *Tracker) Refresh(ctx context.Context, year int, month time.Month) error {
	m := calendar.New(year, month)
	from, to := m.First(), m.Last()

	entries, err := t.api.Entries(ctx, t.UserID, from, to)
	if err != nil {
		return t.fallback(from, to, fmt.Errorf("fetching entries: %w", err))
	}
	dayOffs, err := t.api.DayOffs(ctx, t.UserID, from, to)
	if err != nil {
		return t.fallback(from, to, fmt.Errorf("fetching day-offs: %w", err))
	}
	tasks, err := t.api.Tasks(ctx)
	if err != nil {
		return t.fallback(from, to, fmt.Errorf("fetching tasks: %w", err))
	}

	t.Store.Reset(entries, dayOffs)
	t.Tasks = tasks
	if t.snap != nil {
		// Snapshot persistence is best-effort; the fetched state already
		// rendered.
		_ = t.snap.SaveWindow(t.UserID, from, to, t.Store.Entries(), t.Store.DayOffs())
		_ = t.snap.SaveTasks(tasks)
	}
	return nil
}

func (t *Tracker) fallback(from, to calendar.Date, cause error) error {
	if t.snap == nil {
		return cause
	}
	entries, dayOffs, err := t.snap.LoadWindow(t.UserID, from, to)
	if err != nil {
		return cause
	}
	tasks, err := t.snap.LoadTasks()
	if err != nil {
		return cause
	}
	t.Store.Reset(entries, dayOffs)
	t.Tasks = tasks
	return cause
}

// ToggleTask flips a task cell between empty and the sentinel "1". Setting
// hours clears any day-off marker on that date first; the two writes are
// ordered, not transactional.
func (t *Tracker) ToggleTask(ctx context.Context, taskID string, date calendar.Date) error {
	if !t.Editable(date.Year, date.Month) {
		return ErrReadOnly
	}

	if _, ok := t.Store.Hours(t.UserID, taskID, date); ok {
		if err := t.api.PutEntry(ctx, t.UserID, taskID, date, 0); err != nil {
			return err
		}
		t.Store.SetHours(t.UserID, taskID, date, 0)
		return nil
	}
	return t.setHours(ctx, taskID, date, 1)
}

// LogHours records an explicit hour value for a task cell. Empty or
// non-numeric input clears the cell.
func (t *Tracker) LogHours(ctx context.Context, taskID string, date calendar.Date, raw string) error {
	if !t.Editable(date.Year, date.Month) {
		return ErrReadOnly
	}

	hours := report.ParseHours(raw)
	if !report.Worked(hours) {
		if _, ok := t.Store.Hours(t.UserID, taskID, date); !ok {
			return nil
		}
		if err := t.api.PutEntry(ctx, t.UserID, taskID, date, 0); err != nil {
			return err
		}
		t.Store.SetHours(t.UserID, taskID, date, 0)
		return nil
	}
	return t.setHours(ctx, taskID, date, hours)
}

func (t *Tracker) setHours(ctx context.Context, taskID string, date calendar.Date, hours float64) error {
	if _, ok := t.Store.DayOff(t.UserID, date); ok {
		if err := t.api.PutDayOff(ctx, t.UserID, date, model.DayOffNone); err != nil {
			return err
		}
		t.Store.SetDayOff(t.UserID, date, model.DayOffNone)
	}
	if err := t.api.PutEntry(ctx, t.UserID, taskID, date, hours); err != nil {
		return err
	}
	t.Store.SetHours(t.UserID, taskID, date, hours)
	t.promoteTask(taskID)
	return nil
}

// promoteTask moves a freshly logged "new" task to "in_progress" in the
// local task list, mirroring what the backend does on its side.
func (t *Tracker) promoteTask(taskID string) {
	for i := range t.Tasks {
		if t.Tasks[i].ID == taskID && t.Tasks[i].Status == model.StatusNew {
			t.Tasks[i].Status = model.StatusInProgress
		}
	}
}

// CycleDayOff advances the date's day-off marker one step through
// none, sick, trip, vacation, weekend and back to none, and returns the
// new code. Setting a non-none code clears every task entry on that date
// first so hours and day-offs stay mutually exclusive.
func (t *Tracker) CycleDayOff(ctx context.Context, date calendar.Date) (model.DayOffCode, error) {
	if !t.Editable(date.Year, date.Month) {
		return model.DayOffNone, ErrReadOnly
	}

	cur, _ := t.Store.DayOff(t.UserID, date)
	next := cur.Next()

	if next == model.DayOffNone {
		if cur != model.DayOffNone {
			if err := t.api.PutDayOff(ctx, t.UserID, date, model.DayOffNone); err != nil {
				return cur, err
			}
			t.Store.SetDayOff(t.UserID, date, model.DayOffNone)
		}
		return model.DayOffNone, nil
	}

	// Clearing writes first, then the setting write.
	for _, taskID := range t.Store.TasksOn(t.UserID, date) {
		if err := t.api.PutEntry(ctx, t.UserID, taskID, date, 0); err != nil {
			return cur, err
		}
		t.Store.SetHours(t.UserID, taskID, date, 0)
	}
	if err := t.api.PutDayOff(ctx, t.UserID, date, next); err != nil {
		return cur, err
	}
	t.Store.SetDayOff(t.UserID, date, next)
	return next, nil
}

// ChangeTaskStatus PATCHes a task status and updates the local list.
func (t *Tracker) ChangeTaskStatus(ctx context.Context, taskID, status string) error {
	if err := t.api.SetTaskStatus(ctx, taskID, status); err != nil {
		return err
	}
	for i := range t.Tasks {
		if t.Tasks[i].ID == taskID {
			t.Tasks[i].Status = status
		}
	}
	return nil
}

// Task looks up a task from the current list by ID.
func (t *Tracker) Task(taskID string) (model.Task, bool) {
	for _, task := range t.Tasks {
		if task.ID == taskID {
			return task, true
		}
	}
	return model.Task{}, false
}

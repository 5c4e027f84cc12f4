package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/olyannaa/workstream/internal/calendar"
	"github.com/olyannaa/workstream/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func jan(d int) calendar.Date {
	return calendar.Date{Year: 2024, Month: time.January, Day: d}
}

func TestWindowRoundTrip(t *testing.T) {
	c := openTestCache(t)
	from, to := jan(1), jan(31)

	entries := []model.TimeEntry{
		{UserID: "u1", TaskID: "a", Date: jan(5), Hours: 1},
		{UserID: "u1", TaskID: "b", Date: jan(5), Hours: 2.5},
	}
	dayOffs := []model.DayOffEntry{
		{UserID: "u1", Date: jan(10), Code: model.DayOffVacation},
	}
	if err := c.SaveWindow("u1", from, to, entries, dayOffs); err != nil {
		t.Fatalf("SaveWindow: %v", err)
	}

	gotEntries, gotDayOffs, err := c.LoadWindow("u1", from, to)
	if err != nil {
		t.Fatalf("LoadWindow: %v", err)
	}
	if len(gotEntries) != 2 {
		t.Fatalf("entries = %+v", gotEntries)
	}
	if gotEntries[0] != entries[0] || gotEntries[1] != entries[1] {
		t.Errorf("entries = %+v, want %+v", gotEntries, entries)
	}
	if len(gotDayOffs) != 1 || gotDayOffs[0] != dayOffs[0] {
		t.Errorf("dayOffs = %+v, want %+v", gotDayOffs, dayOffs)
	}
}

func TestSaveWindowReplacesRange(t *testing.T) {
	c := openTestCache(t)
	from, to := jan(1), jan(31)

	old := []model.TimeEntry{{UserID: "u1", TaskID: "a", Date: jan(5), Hours: 1}}
	if err := c.SaveWindow("u1", from, to, old, nil); err != nil {
		t.Fatal(err)
	}
	fresh := []model.TimeEntry{{UserID: "u1", TaskID: "b", Date: jan(6), Hours: 1}}
	if err := c.SaveWindow("u1", from, to, fresh, nil); err != nil {
		t.Fatal(err)
	}

	entries, _, err := c.LoadWindow("u1", from, to)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].TaskID != "b" {
		t.Errorf("entries = %+v, want only the fresh row", entries)
	}
}

func TestWindowIsolatedPerUser(t *testing.T) {
	c := openTestCache(t)
	from, to := jan(1), jan(31)

	if err := c.SaveWindow("u1", from, to,
		[]model.TimeEntry{{UserID: "u1", TaskID: "a", Date: jan(5), Hours: 1}}, nil); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveWindow("u2", from, to,
		[]model.TimeEntry{{UserID: "u2", TaskID: "z", Date: jan(5), Hours: 1}}, nil); err != nil {
		t.Fatal(err)
	}

	entries, _, err := c.LoadWindow("u1", from, to)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].TaskID != "a" {
		t.Errorf("u1 entries = %+v", entries)
	}
}

func TestWindowRespectsRange(t *testing.T) {
	c := openTestCache(t)

	if err := c.SaveWindow("u1", jan(1), jan(31),
		[]model.TimeEntry{{UserID: "u1", TaskID: "a", Date: jan(5), Hours: 1}}, nil); err != nil {
		t.Fatal(err)
	}

	feb := calendar.Date{Year: 2024, Month: time.February, Day: 1}
	febEnd := calendar.Date{Year: 2024, Month: time.February, Day: 29}
	entries, dayOffs, err := c.LoadWindow("u1", feb, febEnd)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 || len(dayOffs) != 0 {
		t.Errorf("february window = %+v, %+v; want empty", entries, dayOffs)
	}
}

func TestTasksRoundTrip(t *testing.T) {
	c := openTestCache(t)

	tasks := []model.Task{
		{ID: "t1", Title: "Survey", Status: "in_progress", ProjectID: "p1", ProjectName: "Bridge", AssigneeID: "u1", Type: "regular", ApprovalStatus: "approved"},
		{ID: "t2", Title: "Archive", Status: "done"},
	}
	if err := c.SaveTasks(tasks); err != nil {
		t.Fatalf("SaveTasks: %v", err)
	}

	got, err := c.LoadTasks()
	if err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("tasks = %+v", got)
	}
	byID := map[string]model.Task{got[0].ID: got[0], got[1].ID: got[1]}
	if byID["t1"] != tasks[0] || byID["t2"] != tasks[1] {
		t.Errorf("tasks = %+v, want %+v", got, tasks)
	}

	// A second save replaces, not appends.
	if err := c.SaveTasks(tasks[:1]); err != nil {
		t.Fatal(err)
	}
	got, err = c.LoadTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "t1" {
		t.Errorf("tasks after resave = %+v", got)
	}
}

// Package cache keeps a local last-known-good snapshot of fetched grid
// state in SQLite. It is read when the backend is unreachable so the grid
// can still render (read-only) and export.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/olyannaa/workstream/internal/calendar"
	"github.com/olyannaa/workstream/internal/model"
)

const (
	createEntriesTableSQL = `
  CREATE TABLE IF NOT EXISTS entries (
  user_id TEXT NOT NULL,
  task_id TEXT NOT NULL,
  work_date TEXT NOT NULL,
  hours REAL NOT NULL,
  PRIMARY KEY (user_id, task_id, work_date)
  )`

	createDayOffsTableSQL = `
  CREATE TABLE IF NOT EXISTS day_offs (
  user_id TEXT NOT NULL,
  work_date TEXT NOT NULL,
  type TEXT NOT NULL,
  PRIMARY KEY (user_id, work_date)
  )`

	createTasksTableSQL = `
  CREATE TABLE IF NOT EXISTS tasks (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  status TEXT NOT NULL,
  project_id TEXT,
  project_name TEXT,
  assignee_id TEXT,
  task_type TEXT,
  approval_status TEXT
  )`

	deleteEntriesRangeSQL = `DELETE FROM entries WHERE user_id = ? AND work_date BETWEEN ? AND ?`
	deleteDayOffsRangeSQL = `DELETE FROM day_offs WHERE user_id = ? AND work_date BETWEEN ? AND ?`
	insertEntrySQL        = `INSERT INTO entries (user_id, task_id, work_date, hours) VALUES (?, ?, ?, ?)`
	insertDayOffSQL       = `INSERT INTO day_offs (user_id, work_date, type) VALUES (?, ?, ?)`
	selectEntriesRangeSQL = `SELECT task_id, work_date, hours FROM entries WHERE user_id = ? AND work_date BETWEEN ? AND ? ORDER BY work_date, task_id`
	selectDayOffsRangeSQL = `SELECT work_date, type FROM day_offs WHERE user_id = ? AND work_date BETWEEN ? AND ? ORDER BY work_date`
	deleteTasksSQL        = `DELETE FROM tasks`
	insertTaskSQL         = `INSERT INTO tasks (id, title, status, project_id, project_name, assignee_id, task_type, approval_status) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	selectTasksSQL        = `SELECT id, title, status, project_id, project_name, assignee_id, task_type, approval_status FROM tasks ORDER BY project_name, title`
)

// Cache is the SQLite-backed snapshot store.
type Cache struct {
	db *sql.DB
}

// DefaultPath returns ~/.wst/cache.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".wst", "cache.db"), nil
}

// Open opens (and if needed creates) the snapshot database.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging cache database: %w", err)
	}

	c := &Cache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) migrate() error {
	for _, stmt := range []string{createEntriesTableSQL, createDayOffsTableSQL, createTasksTableSQL} {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating cache table: %w", err)
		}
	}
	return nil
}

// SaveWindow replaces the snapshot for the user's [from, to] range with
// freshly fetched state.
func (c *Cache) SaveWindow(userID string, from, to calendar.Date, entries []model.TimeEntry, dayOffs []model.DayOffEntry) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("starting cache transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(deleteEntriesRangeSQL, userID, from.String(), to.String()); err != nil {
		return fmt.Errorf("clearing cached entries: %w", err)
	}
	if _, err := tx.Exec(deleteDayOffsRangeSQL, userID, from.String(), to.String()); err != nil {
		return fmt.Errorf("clearing cached day-offs: %w", err)
	}
	for _, e := range entries {
		if _, err := tx.Exec(insertEntrySQL, e.UserID, e.TaskID, e.Date.String(), e.Hours); err != nil {
			return fmt.Errorf("caching entry: %w", err)
		}
	}
	for _, d := range dayOffs {
		if _, err := tx.Exec(insertDayOffSQL, d.UserID, d.Date.String(), string(d.Code)); err != nil {
			return fmt.Errorf("caching day-off: %w", err)
		}
	}
	return tx.Commit()
}

// LoadWindow reads the snapshot for the user's [from, to] range.
func (c *Cache) LoadWindow(userID string, from, to calendar.Date) ([]model.TimeEntry, []model.DayOffEntry, error) {
	rows, err := c.db.Query(selectEntriesRangeSQL, userID, from.String(), to.String())
	if err != nil {
		return nil, nil, fmt.Errorf("reading cached entries: %w", err)
	}
	defer rows.Close()

	var entries []model.TimeEntry
	for rows.Next() {
		var taskID, workDate string
		var hours float64
		if err := rows.Scan(&taskID, &workDate, &hours); err != nil {
			return nil, nil, fmt.Errorf("scanning cached entry: %w", err)
		}
		date, err := calendar.ParseDate(workDate)
		if err != nil {
			continue
		}
		entries = append(entries, model.TimeEntry{UserID: userID, TaskID: taskID, Date: date, Hours: hours})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading cached entries: %w", err)
	}

	offRows, err := c.db.Query(selectDayOffsRangeSQL, userID, from.String(), to.String())
	if err != nil {
		return nil, nil, fmt.Errorf("reading cached day-offs: %w", err)
	}
	defer offRows.Close()

	var dayOffs []model.DayOffEntry
	for offRows.Next() {
		var workDate, code string
		if err := offRows.Scan(&workDate, &code); err != nil {
			return nil, nil, fmt.Errorf("scanning cached day-off: %w", err)
		}
		date, err := calendar.ParseDate(workDate)
		if err != nil {
			continue
		}
		dayOffs = append(dayOffs, model.DayOffEntry{UserID: userID, Date: date, Code: model.DayOffCode(code)})
	}
	if err := offRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading cached day-offs: %w", err)
	}
	return entries, dayOffs, nil
}

// SaveTasks replaces the cached task list.
func (c *Cache) SaveTasks(tasks []model.Task) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("starting cache transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(deleteTasksSQL); err != nil {
		return fmt.Errorf("clearing cached tasks: %w", err)
	}
	for _, t := range tasks {
		if _, err := tx.Exec(insertTaskSQL,
			t.ID, t.Title, t.Status, t.ProjectID, t.ProjectName, t.AssigneeID, t.Type, t.ApprovalStatus); err != nil {
			return fmt.Errorf("caching task: %w", err)
		}
	}
	return tx.Commit()
}

// LoadTasks reads the cached task list.
func (c *Cache) LoadTasks() ([]model.Task, error) {
	rows, err := c.db.Query(selectTasksSQL)
	if err != nil {
		return nil, fmt.Errorf("reading cached tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Status, &t.ProjectID, &t.ProjectName, &t.AssigneeID, &t.Type, &t.ApprovalStatus); err != nil {
			return nil, fmt.Errorf("scanning cached task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

package model

// Task statuses as used by the backend.
const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusReview     = "review"
	StatusDone       = "done"
)

// Task types that change how a row is placed in the grid.
const (
	TypeSubcontract = "subcontract"
	TypeProjectTime = "project_time"
)

// Task is a grid row. It is owned by the backend; this client only reads
// it and PATCHes the status.
type Task struct {
	ID             string
	Title          string
	Status         string
	ProjectID      string
	ProjectName    string
	AssigneeID     string
	Type           string
	ApprovalStatus string
}

// Subcontract reports whether the task belongs on the subcontract tab.
func (t Task) Subcontract() bool {
	return t.Type == TypeSubcontract
}

// ProjectTime reports whether the task is a per-project time bucket rather
// than a regular row.
func (t Task) ProjectTime() bool {
	return t.Type == TypeProjectTime
}

// StatusName returns a display label for a task status.
func StatusName(status string) string {
	switch status {
	case StatusNew:
		return "New"
	case StatusInProgress:
		return "In progress"
	case StatusReview:
		return "In review"
	case StatusDone:
		return "Done"
	}
	return status
}

package timesheet

import (
	"sort"

	"github.com/olyannaa/workstream/internal/model"
)

// Tab selects which task rows the grid shows.
type Tab string

const (
	TabMain        Tab = "main"
	TabSubcontract Tab = "subcontract"
)

// ProjectGroup is one project block of the grid: its regular task rows
// plus an optional project-time bucket task rendered on the project row.
type ProjectGroup struct {
	ID              string
	Name            string
	Tasks           []model.Task
	ProjectTimeTask string // task ID, empty when the project has none
}

// noProjectID groups tasks without a project.
const noProjectID = "no-project"

// Groups arranges the tracker's tasks into grid rows for the given viewer
// and tab. Unapproved subcontract tasks are hidden from viewers without
// admin or GIP rights, and project-time buckets are lifted out of the task
// rows onto their project row.
func Groups(tasks []model.Task, viewer model.User, tab Tab) []ProjectGroup {
	projectTime := make(map[string]string)
	var visible []model.Task
	for _, task := range tasks {
		if task.ProjectTime() && task.ProjectID != "" {
			projectTime[task.ProjectID] = task.ID
			continue
		}
		if task.Subcontract() != (tab == TabSubcontract) {
			continue
		}
		if task.Subcontract() && task.ApprovalStatus != "approved" && !viewer.AdminOrGIP() {
			continue
		}
		visible = append(visible, task)
	}

	byProject := make(map[string]*ProjectGroup)
	var order []string
	add := func(id, name string) *ProjectGroup {
		if g, ok := byProject[id]; ok {
			return g
		}
		g := &ProjectGroup{ID: id, Name: name, ProjectTimeTask: projectTime[id]}
		byProject[id] = g
		order = append(order, id)
		return g
	}

	for _, task := range visible {
		id, name := task.ProjectID, task.ProjectName
		if id == "" {
			id, name = noProjectID, "Outside projects"
		}
		g := add(id, name)
		g.Tasks = append(g.Tasks, task)
	}
	// Projects that only have a time bucket still get a row for admin/GIP.
	if viewer.AdminOrGIP() && tab == TabMain {
		var ids []string
		for id := range projectTime {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			add(id, projectNameFor(tasks, id))
		}
	}

	groups := make([]ProjectGroup, 0, len(order))
	hideEmpty := viewer.ExecutorOnly() || viewer.AccountantOnly() ||
		(tab == TabSubcontract && viewer.AdminOrGIP())
	for _, id := range order {
		g := byProject[id]
		if hideEmpty && len(g.Tasks) == 0 {
			continue
		}
		groups = append(groups, *g)
	}
	return groups
}

func projectNameFor(tasks []model.Task, projectID string) string {
	for _, t := range tasks {
		if t.ProjectID == projectID && t.ProjectName != "" {
			return t.ProjectName
		}
	}
	return "Project"
}

// AttributedTasks is the task set participating in the per-task day split
// for the shown groups.
func AttributedTasks(groups []ProjectGroup) map[string]bool {
	set := make(map[string]bool)
	for _, g := range groups {
		for _, task := range g.Tasks {
			set[task.ID] = true
		}
	}
	return set
}

// ProjectTimeTasks is the set of project-time bucket tasks for the shown
// groups. Their day split is computed separately from regular rows.
func ProjectTimeTasks(groups []ProjectGroup) map[string]bool {
	set := make(map[string]bool)
	for _, g := range groups {
		if g.ProjectTimeTask != "" {
			set[g.ProjectTimeTask] = true
		}
	}
	return set
}

// CountedTasks is the set counting toward the grand total: every regular
// task, plus project-time buckets when the viewer may use them.
func CountedTasks(tasks []model.Task, viewer model.User) map[string]bool {
	set := make(map[string]bool)
	for _, task := range tasks {
		if task.ProjectTime() {
			if viewer.AdminOrGIP() {
				set[task.ID] = true
			}
			continue
		}
		set[task.ID] = true
	}
	return set
}

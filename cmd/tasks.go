package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/olyannaa/workstream/internal/calendar"
	"github.com/olyannaa/workstream/internal/model"
	"github.com/olyannaa/workstream/internal/ui"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List tasks available for time tracking",
	Args:  cobra.NoArgs,
	RunE:  runTasks,
}

var setStatusCmd = &cobra.Command{
	Use:   "set-status <task-id> <status>",
	Short: "Change a task's status",
	Long:  "Valid statuses: new, in_progress, review, done.",
	Args:  cobra.ExactArgs(2),
	RunE:  runSetStatus,
}

func init() {
	tasksCmd.AddCommand(setStatusCmd)
}

func runTasks(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := openSession(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer sess.Close()
	tr := sess.Tracker

	now := calendar.DateOf(tr.Now())
	refreshOrWarn(ctx, tr, now.Year, now.Month)

	if len(tr.Tasks) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	var currentProject string
	for _, task := range tr.Tasks {
		if task.ProjectTime() {
			continue
		}
		project := task.ProjectName
		if project == "" {
			project = "Outside projects"
		}
		if project != currentProject {
			fmt.Println(ui.Title.Render(project))
			currentProject = project
		}
		marker := ""
		if task.Subcontract() {
			marker = " " + ui.Muted.Render("[subcontract]")
			if task.ApprovalStatus != "approved" {
				marker += " " + ui.Warn.Render("[pending approval]")
			}
		}
		fmt.Printf("  %-36s  %s  %s%s\n", task.ID, ui.StatusBadge(task.Status), task.Title, marker)
	}
	return nil
}

func runSetStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	taskID, status := args[0], args[1]

	switch status {
	case model.StatusNew, model.StatusInProgress, model.StatusReview, model.StatusDone:
	default:
		return fmt.Errorf("invalid status %q, expected new, in_progress, review or done", status)
	}

	sess, err := openSession(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer sess.Close()
	tr := sess.Tracker

	now := calendar.DateOf(tr.Now())
	refreshOrWarn(ctx, tr, now.Year, now.Month)

	task, ok := tr.Task(taskID)
	if !ok {
		return fmt.Errorf("unknown task %q, see 'wst tasks'", taskID)
	}
	if !sess.User.AdminOrGIP() && task.AssigneeID != sess.User.ID {
		return fmt.Errorf("only the assignee or an admin/GIP can change this task")
	}

	if err := tr.ChangeTaskStatus(ctx, taskID, status); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("✓ %s → %s\n", task.Title, model.StatusName(status))
	return nil
}

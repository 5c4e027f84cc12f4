package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/nexidian/gocliselect"
	"github.com/spf13/cobra"

	"github.com/olyannaa/workstream/internal/calendar"
	"github.com/olyannaa/workstream/internal/report"
	"github.com/olyannaa/workstream/internal/timesheet"
	"github.com/olyannaa/workstream/internal/ui"
)

var (
	logDate  string
	logHours string
)

var logCmd = &cobra.Command{
	Use:   "log [task-id]",
	Short: "Toggle or set a worked-day cell for a task",
	Long: `Without --hours the cell toggles: an empty cell becomes a worked day
("1"), a filled cell is cleared. With --hours an explicit value is stored;
a comma decimal separator is accepted. Only the current month is editable.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLog,
}

func init() {
	logCmd.Flags().StringVar(&logDate, "date", "", "Work date, YYYY-MM-DD (default: today)")
	logCmd.Flags().StringVar(&logHours, "hours", "", "Explicit hour value, e.g. 2,5; empty clears")
}

func runLog(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := openSession(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer sess.Close()
	tr := sess.Tracker

	date := calendar.DateOf(tr.Now())
	if logDate != "" {
		date, err = calendar.ParseDate(logDate)
		if err != nil {
			return err
		}
	}

	refreshOrWarn(ctx, tr, date.Year, date.Month)

	var taskID string
	if len(args) == 1 {
		taskID = args[0]
		if _, ok := tr.Task(taskID); !ok {
			return fmt.Errorf("unknown task %q, see 'wst tasks'", taskID)
		}
	} else {
		taskID, err = pickTask(tr)
		if err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("hours") {
		err = tr.LogHours(ctx, taskID, date, logHours)
	} else {
		err = tr.ToggleTask(ctx, taskID, date)
	}
	if errors.Is(err, timesheet.ErrReadOnly) {
		fmt.Fprintln(os.Stderr, ui.Errorf("this month is read-only; only the current month can be edited"))
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if h, ok := tr.Store.Hours(tr.UserID, taskID, date); ok {
		fmt.Printf("✓ %s: logged %s\n", date, report.FormatDayShare(h))
	} else {
		fmt.Printf("✓ %s: cleared\n", date)
	}
	return nil
}

// pickTask shows an interactive menu over the fetched task list.
func pickTask(tr *timesheet.Tracker) (string, error) {
	menu := gocliselect.NewMenu("Pick a task")
	count := 0
	for _, task := range tr.Tasks {
		if task.ProjectTime() {
			continue
		}
		label := task.Title
		if task.ProjectName != "" {
			label = task.ProjectName + " / " + label
		}
		menu.AddItem(label, task.ID)
		count++
	}
	if count == 0 {
		return "", errors.New("no tasks available for time tracking")
	}

	choice := menu.Display()
	if choice == "" {
		return "", errors.New("no task selected")
	}
	return choice, nil
}

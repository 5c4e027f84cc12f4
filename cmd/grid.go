package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olyannaa/workstream/internal/calendar"
	"github.com/olyannaa/workstream/internal/model"
	"github.com/olyannaa/workstream/internal/report"
	"github.com/olyannaa/workstream/internal/timesheet"
	"github.com/olyannaa/workstream/internal/ui"
)

var (
	gridMonth string
	gridWeek  int
	gridTab   string
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Show the timesheet grid",
	Args:  cobra.NoArgs,
	RunE:  runGrid,
}

func init() {
	gridCmd.Flags().StringVar(&gridMonth, "month", "", "Month to show, YYYY-MM (default: current)")
	gridCmd.Flags().IntVar(&gridWeek, "week", 0, "Restrict to one week of the month (1-6)")
	gridCmd.Flags().StringVar(&gridTab, "tab", string(timesheet.TabMain), "Task tab: main or subcontract")
}

const (
	projectColWidth = 24
	taskColWidth    = 32
	statusColWidth  = 12
	daysColWidth    = 6
	cellWidth       = 3
)

func runGrid(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := openSession(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer sess.Close()
	tr := sess.Tracker

	year, month, err := parseMonthFlag(gridMonth, tr.Now())
	if err != nil {
		return err
	}
	tab := timesheet.Tab(gridTab)
	if tab != timesheet.TabMain && tab != timesheet.TabSubcontract {
		return fmt.Errorf("invalid tab %q, expected main or subcontract", gridTab)
	}

	refreshOrWarn(ctx, tr, year, month)

	m := calendar.New(year, month)
	days := m.Days
	if gridWeek > 0 {
		days = m.Week(gridWeek)
		if len(days) == 0 {
			return fmt.Errorf("month %04d-%02d has weeks %v", year, int(month), m.WeekNumbers())
		}
	}

	printGrid(tr, sess.User, m, days, tab)
	return nil
}

func printGrid(tr *timesheet.Tracker, viewer model.User, m calendar.Month, days []calendar.Day, tab timesheet.Tab) {
	title := fmt.Sprintf("%s %d", m.Month, m.Year)
	if gridWeek > 0 {
		title += fmt.Sprintf(", week %d", gridWeek)
	}
	header := ui.Title.Render(title)
	if !tr.Editable(m.Year, m.Month) {
		header += " " + ui.ReadOnlyBadge()
	}
	fmt.Println(header)
	fmt.Println(ui.Legend())
	fmt.Println()

	groups := timesheet.Groups(tr.Tasks, viewer, tab)
	attributed := timesheet.AttributedTasks(groups)
	projectTime := timesheet.ProjectTimeTasks(groups)
	counted := timesheet.CountedTasks(tr.Tasks, viewer)

	taskTotals := report.TotalDays(tr.Store, tr.UserID, days, attributed)
	projectTotals := report.TotalDays(tr.Store, tr.UserID, days, projectTime)
	grandTotal := report.WorkedDays(tr.Store, tr.UserID, days, counted)

	printHeaderRows(tr, days)

	for i, g := range groups {
		name := fmt.Sprintf("%d. %s", i+1, g.Name)
		projectDays := ""
		if viewer.AdminOrGIP() && len(g.Tasks) == 0 {
			projectDays = report.FormatDayShare(projectTotals[g.ProjectTimeTask])
		}
		row := pad(name, projectColWidth) + pad("", taskColWidth) + pad("", statusColWidth) + pad(projectDays, daysColWidth)
		for _, day := range days {
			row += projectCell(tr, g.ProjectTimeTask, day)
		}
		fmt.Println(row)

		for _, task := range g.Tasks {
			row := pad("", projectColWidth) +
				pad(truncate(task.Title, taskColWidth-2), taskColWidth) +
				padStyled(model.StatusName(task.Status), statusColWidth, ui.StatusBadge(task.Status)) +
				pad(report.FormatDayShare(taskTotals[task.ID]), daysColWidth)
			for _, day := range days {
				row += taskCell(tr, task.ID, day)
			}
			fmt.Println(row)
		}
	}

	totalLabel := report.FormatDayShare(float64(grandTotal))
	fmt.Println(ui.Total.Render(
		pad("", projectColWidth) + pad("Total:", taskColWidth) + pad("", statusColWidth) + pad(totalLabel, daysColWidth)))
}

// printHeaderRows prints the weekday, day-number and day-off header lines.
func printHeaderRows(tr *timesheet.Tracker, days []calendar.Day) {
	left := pad("Project", projectColWidth) + pad("Task", taskColWidth) + pad("Status", statusColWidth) + pad("Days", daysColWidth)

	wdRow := strings.Repeat(" ", projectColWidth+taskColWidth+statusColWidth+daysColWidth)
	numRow := left
	offRow := strings.Repeat(" ", projectColWidth+taskColWidth+statusColWidth+daysColWidth)
	for _, day := range days {
		label := calendar.WeekdayShort(day.Weekday)
		if day.Weekend {
			wdRow += ui.Weekend.Render(fmt.Sprintf("%*s", cellWidth, label))
		} else {
			wdRow += fmt.Sprintf("%*s", cellWidth, label)
		}
		numRow += fmt.Sprintf("%*d", cellWidth, day.Num)
		offRow += headerCell(tr, day)
	}
	fmt.Println(wdRow)
	fmt.Println(numRow)
	fmt.Println(offRow)
}

// headerCell shows the day-off marker for the date, or the weekend letter
// as a hint on unmarked weekend days.
func headerCell(tr *timesheet.Tracker, day calendar.Day) string {
	if code, ok := tr.Store.DayOff(tr.UserID, day.Date); ok {
		return padCell(string(code), ui.DayOffCell(code))
	}
	if day.Weekend {
		return padCell(string(model.DayOffWeekend), ui.Weekend.Render(string(model.DayOffWeekend)))
	}
	return strings.Repeat(" ", cellWidth)
}

// taskCell renders one task/day cell: day-off letter, "+" for a positive
// entry, weekend hint, or blank.
func taskCell(tr *timesheet.Tracker, taskID string, day calendar.Day) string {
	if code, ok := tr.Store.DayOff(tr.UserID, day.Date); ok {
		return padCell(string(code), ui.DayOffCell(code))
	}
	if h, ok := tr.Store.Hours(tr.UserID, taskID, day.Date); ok && report.Worked(h) {
		return padCell("+", ui.Plus.Render("+"))
	}
	if day.Weekend {
		return padCell(string(model.DayOffWeekend), ui.Weekend.Render(string(model.DayOffWeekend)))
	}
	return strings.Repeat(" ", cellWidth)
}

// projectCell renders a project-time row cell; projects without a time
// bucket render day-offs and weekends only.
func projectCell(tr *timesheet.Tracker, projectTimeTask string, day calendar.Day) string {
	if code, ok := tr.Store.DayOff(tr.UserID, day.Date); ok {
		return padCell(string(code), ui.DayOffCell(code))
	}
	if projectTimeTask != "" {
		if h, ok := tr.Store.Hours(tr.UserID, projectTimeTask, day.Date); ok && report.Worked(h) {
			return padCell("+", ui.Plus.Render("+"))
		}
	}
	if day.Weekend {
		return padCell(string(model.DayOffWeekend), ui.Weekend.Render(string(model.DayOffWeekend)))
	}
	return strings.Repeat(" ", cellWidth)
}

// pad left-aligns s in a column of width w, truncating if needed.
func pad(s string, w int) string {
	s = truncate(s, w-1)
	return fmt.Sprintf("%-*s", w, s)
}

// padStyled pads based on the plain string but prints the styled one, so
// ANSI codes do not break column alignment.
func padStyled(plain string, w int, styled string) string {
	plain = truncate(plain, w-1)
	padding := w - len([]rune(plain))
	return styled + strings.Repeat(" ", padding)
}

// padCell right-aligns a single-character cell of width cellWidth.
func padCell(plain, styled string) string {
	return strings.Repeat(" ", cellWidth-len([]rune(plain))) + styled
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olyannaa/workstream/internal/calendar"
	"github.com/olyannaa/workstream/internal/model"
	"github.com/olyannaa/workstream/internal/report"
	"github.com/olyannaa/workstream/internal/timesheet"
)

var (
	exportMonth  string
	exportFormat string
	exportTab    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the month's timesheet to stdout",
	Long: `CSV cells show the raw stored hour values; the Days column and the
total row count attributed days (a day split across k tasks credits 1/k
to each).`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportMonth, "month", "", "Month to export, YYYY-MM (default: current)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json")
	exportCmd.Flags().StringVar(&exportTab, "tab", string(timesheet.TabMain), "Task tab: main or subcontract")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := openSession(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer sess.Close()
	tr := sess.Tracker

	year, month, err := parseMonthFlag(exportMonth, tr.Now())
	if err != nil {
		return err
	}
	tab := timesheet.Tab(exportTab)
	if tab != timesheet.TabMain && tab != timesheet.TabSubcontract {
		return fmt.Errorf("invalid tab %q, expected main or subcontract", exportTab)
	}

	refreshOrWarn(ctx, tr, year, month)

	m := calendar.New(year, month)
	switch exportFormat {
	case "json":
		return printJSONExport(tr, m)
	case "csv":
		printCSVExport(tr, sess.User, m, tab)
		return nil
	default:
		return fmt.Errorf("invalid format %q, expected csv or json", exportFormat)
	}
}

type exportDoc struct {
	Month   string         `json:"month"`
	Entries []exportEntry  `json:"entries"`
	DayOffs []exportDayOff `json:"day_offs"`
}

type exportEntry struct {
	TaskID   string  `json:"task_id"`
	WorkDate string  `json:"work_date"`
	Hours    float64 `json:"hours"`
}

type exportDayOff struct {
	WorkDate string `json:"work_date"`
	Type     string `json:"type"`
}

func printJSONExport(tr *timesheet.Tracker, m calendar.Month) error {
	doc := exportDoc{
		Month:   fmt.Sprintf("%04d-%02d", m.Year, int(m.Month)),
		Entries: []exportEntry{},
		DayOffs: []exportDayOff{},
	}
	for _, e := range tr.Store.Entries() {
		doc.Entries = append(doc.Entries, exportEntry{TaskID: e.TaskID, WorkDate: e.Date.String(), Hours: e.Hours})
	}
	for _, d := range tr.Store.DayOffs() {
		doc.DayOffs = append(doc.DayOffs, exportDayOff{WorkDate: d.Date.String(), Type: string(d.Code)})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func printCSVExport(tr *timesheet.Tracker, viewer model.User, m calendar.Month, tab timesheet.Tab) {
	groups := timesheet.Groups(tr.Tasks, viewer, tab)
	attributed := timesheet.AttributedTasks(groups)
	counted := timesheet.CountedTasks(tr.Tasks, viewer)
	totals := report.TotalDays(tr.Store, tr.UserID, m.Days, attributed)
	grand := report.WorkedDays(tr.Store, tr.UserID, m.Days, counted)

	header := []string{"project", "task", "status", "days"}
	for _, day := range m.Days {
		header = append(header, strconv.Itoa(day.Num))
	}
	fmt.Println(strings.Join(header, ","))

	for _, g := range groups {
		for _, task := range g.Tasks {
			row := []string{
				csvEscape(g.Name),
				csvEscape(task.Title),
				csvEscape(task.Status),
				report.FormatDayShare(totals[task.ID]),
			}
			for _, day := range m.Days {
				row = append(row, csvEscape(exportCell(tr, task.ID, day.Date)))
			}
			fmt.Println(strings.Join(row, ","))
		}
	}

	total := []string{"", "total", "", report.FormatDayShare(float64(grand))}
	for range m.Days {
		total = append(total, "")
	}
	fmt.Println(strings.Join(total, ","))
}

// exportCell shows the day-off letter or the raw stored hour value. The
// stored magnitude is kept here even though totals only count days.
func exportCell(tr *timesheet.Tracker, taskID string, date calendar.Date) string {
	if code, ok := tr.Store.DayOff(tr.UserID, date); ok {
		return string(code)
	}
	if h, ok := tr.Store.Hours(tr.UserID, taskID, date); ok {
		return strconv.FormatFloat(h, 'f', -1, 64)
	}
	return ""
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	needsQuote := false
	for _, c := range s {
		if c == ',' || c == '"' || c == '\n' || c == '\r' {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return s
	}
	// Escape internal double quotes by doubling them.
	escaped := ""
	for _, c := range s {
		if c == '"' {
			escaped += "\""
		}
		escaped += string(c)
	}
	return `"` + escaped + `"`
}

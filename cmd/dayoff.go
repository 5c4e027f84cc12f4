package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/olyannaa/workstream/internal/calendar"
	"github.com/olyannaa/workstream/internal/model"
	"github.com/olyannaa/workstream/internal/timesheet"
	"github.com/olyannaa/workstream/internal/ui"
)

var dayOffDate string

var dayOffCmd = &cobra.Command{
	Use:   "dayoff",
	Short: "Cycle the day-off marker for a date",
	Long: `Each call advances the date's marker one step:
none → sick → business trip → vacation → day off → none.
Setting a marker clears any logged task hours on that date.`,
	Args: cobra.NoArgs,
	RunE: runDayOff,
}

func init() {
	dayOffCmd.Flags().StringVar(&dayOffDate, "date", "", "Work date, YYYY-MM-DD (default: today)")
}

func runDayOff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := openSession(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer sess.Close()
	tr := sess.Tracker

	date := calendar.DateOf(tr.Now())
	if dayOffDate != "" {
		date, err = calendar.ParseDate(dayOffDate)
		if err != nil {
			return err
		}
	}

	refreshOrWarn(ctx, tr, date.Year, date.Month)

	code, err := tr.CycleDayOff(ctx, date)
	if errors.Is(err, timesheet.ErrReadOnly) {
		fmt.Fprintln(os.Stderr, ui.Errorf("this month is read-only; only the current month can be edited"))
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if code == model.DayOffNone {
		fmt.Printf("✓ %s: marker cleared\n", date)
	} else {
		fmt.Printf("✓ %s: %s (%s)\n", date, code.Name(), code)
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wst",
	Short: "Workstream timesheet – a CLI timesheet grid client",
	Long: `wst is a command-line client for the workstream time-tracking backend.
It renders the monthly timesheet grid, toggles worked-day cells and
day-off markers, and keeps a local snapshot for offline viewing.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(gridCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(dayOffCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(exportCmd)
}

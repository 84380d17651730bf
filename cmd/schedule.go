package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/impianti/pkg/export"
)

var scheduleFlags struct {
	month    int
	format   string
	parallel bool
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Compute the minimum-cost facility visit schedule for the first week of a month",
	RunE:  runSchedule,
}

func init() {
	scheduleCmd.Flags().IntVarP(&scheduleFlags.month, "month", "m", 0, "month number (1-12)")
	scheduleCmd.Flags().StringVarP(&scheduleFlags.format, "format", "f", "text", "output format: text, json or csv")
	scheduleCmd.Flags().BoolVar(&scheduleFlags.parallel, "parallel", false, "search first-day branches concurrently")
	_ = scheduleCmd.MarkFlagRequired("month")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(scheduleFlags.format); err != nil {
		return err
	}
	if cmd.Flags().Changed("parallel") {
		cfg.Planner.Parallel = scheduleFlags.parallel
	}
	svc, err := openService(cmd.Context())
	if err != nil {
		return err
	}
	defer closeService(cmd, svc)

	sched, err := svc.OptimalSchedule(cmd.Context(), scheduleFlags.month)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch scheduleFlags.format {
	case "json":
		return export.WriteJSON(out, sched)
	case "csv":
		return export.WriteCSV(out, sched.Steps)
	}
	if !sched.Found {
		_, err := fmt.Fprintln(out, "no schedule: no facilities loaded")
		return err
	}
	for _, d := range sched.Days {
		if _, err := fmt.Fprintln(out, d); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(out, "Total cost: %.2f\n", sched.Cost)
	return err
}

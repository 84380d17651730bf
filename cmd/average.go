package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/impianti/pkg/export"
)

var averageFlags struct {
	month  int
	format string
}

var averageCmd = &cobra.Command{
	Use:   "average",
	Short: "Print the average daily consumption of each facility for a month",
	RunE:  runAverage,
}

func init() {
	averageCmd.Flags().IntVarP(&averageFlags.month, "month", "m", 0, "month number (1-12)")
	averageCmd.Flags().StringVarP(&averageFlags.format, "format", "f", "text", "output format: text, json or csv")
	_ = averageCmd.MarkFlagRequired("month")
	rootCmd.AddCommand(averageCmd)
}

func runAverage(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(averageFlags.format); err != nil {
		return err
	}
	svc, err := openService(cmd.Context())
	if err != nil {
		return err
	}
	defer closeService(cmd, svc)

	avgs, err := svc.AverageConsumption(cmd.Context(), averageFlags.month)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch averageFlags.format {
	case "json":
		return export.WriteJSON(out, avgs)
	case "csv":
		return export.WriteAveragesCSV(out, avgs)
	}
	for _, a := range avgs {
		if _, err := fmt.Fprintf(out, "%s: %.2f kWh (%d days)\n", a.Facility, a.KWh, a.Days); err != nil {
			return err
		}
	}
	return nil
}

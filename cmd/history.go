package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/impianti/core/planlog"
	"github.com/kilianp07/impianti/pkg/export"
)

var historyFlags struct {
	month    int
	facility string
	since    time.Duration
	json     bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past schedule runs from the plan log",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyFlags.month, "month", "m", 0, "only runs for this month")
	historyCmd.Flags().StringVar(&historyFlags.facility, "facility", "", "only runs visiting this facility id")
	historyCmd.Flags().DurationVar(&historyFlags.since, "since", 0, "only runs newer than this duration")
	historyCmd.Flags().BoolVar(&historyFlags.json, "json", false, "print records as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	pl, err := planlog.New(cfg.PlanLog)
	if err != nil {
		return fmt.Errorf("plan log: %w", err)
	}
	defer func() { _ = pl.Close() }()

	q := planlog.Query{Month: historyFlags.month, FacilityID: historyFlags.facility}
	if historyFlags.since > 0 {
		q.Start = time.Now().Add(-historyFlags.since)
	}
	recs, err := pl.Query(cmd.Context(), q)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if historyFlags.json {
		return export.WriteJSON(out, recs)
	}
	for _, r := range recs {
		status := fmt.Sprintf("cost=%.2f %s", r.Cost, strings.Join(r.Sequence, ","))
		if r.Error != "" {
			status = "error: " + r.Error
		} else if !r.Found {
			status = "no schedule"
		}
		if _, err := fmt.Fprintf(out, "%s\t%s\tmonth=%d\t%s\n", r.Timestamp.Format(time.RFC3339), r.RunID, r.Month, status); err != nil {
			return err
		}
	}
	return nil
}

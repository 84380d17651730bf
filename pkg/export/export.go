// Package export renders schedules and averages for other tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/impianti/core/consumption"
	"github.com/kilianp07/impianti/core/planner"
)

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteCSV writes the schedule days to w in CSV format.
func WriteCSV(w io.Writer, steps []planner.Step) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"day", "facility_id", "facility", "kwh", "penalty"}); err != nil {
		return err
	}
	for _, s := range steps {
		rec := []string{
			strconv.Itoa(s.Day),
			s.FacilityID,
			s.Facility,
			formatFloat(s.KWh),
			formatFloat(s.Penalty),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAveragesCSV writes monthly averages to w in CSV format.
func WriteAveragesCSV(w io.Writer, avgs []consumption.Average) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"facility_id", "facility", "kwh", "days"}); err != nil {
		return err
	}
	for _, a := range avgs {
		if err := cw.Write([]string{a.FacilityID, a.Facility, formatFloat(a.KWh), strconv.Itoa(a.Days)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

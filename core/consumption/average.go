// Package consumption aggregates facility consumption records.
package consumption

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/impianti/core/model"
	"github.com/kilianp07/impianti/core/window"
)

// ErrNoData is returned when a facility has no record in the requested period.
var ErrNoData = errors.New("no data for period")

// Average is the mean daily consumption of a facility over a month.
type Average struct {
	FacilityID string  `json:"facility_id"`
	Facility   string  `json:"facility"`
	KWh        float64 `json:"kwh"`
	Days       int     `json:"days"`
}

// MonthlyAverages returns the mean daily consumption of each facility for
// month, in facility order.
func MonthlyAverages(facilities []model.Facility, month int) ([]Average, error) {
	if err := window.CheckMonth(month); err != nil {
		return nil, err
	}
	out := make([]Average, 0, len(facilities))
	for _, f := range facilities {
		var values []float64
		for _, c := range f.Consumptions {
			if int(c.Date.Month()) == month {
				values = append(values, c.KWh)
			}
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("facility %s, month %d: %w", f.DisplayName(), month, ErrNoData)
		}
		out = append(out, Average{
			FacilityID: f.ID,
			Facility:   f.DisplayName(),
			KWh:        stat.Mean(values, nil),
			Days:       len(values),
		})
	}
	return out, nil
}

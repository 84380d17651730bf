package window

import (
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/impianti/core/model"
)

// FirstDays is the number of leading days of the month kept per facility.
const FirstDays = 7

var (
	// ErrInsufficientData is returned when a facility lacks a value for a
	// requested day.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidMonth is returned for months outside 1..12.
	ErrInvalidMonth = errors.New("invalid month")
	// ErrAmbiguousData is returned when a facility holds several records for
	// the same day-of-month, typically the same month of different years.
	ErrAmbiguousData = errors.New("ambiguous consumption data")
)

// Window maps a facility id to its consumption values ordered by day offset.
type Window map[string][]float64

// Extract builds the window for month from the records of each facility.
// Records are filtered on month and day-of-month in [1,FirstDays]; value i
// is always day i+1. The slice stops at the first missing day, so the gap
// surfaces as ErrInsufficientData when that day is read through At.
func Extract(facilities []model.Facility, month int) (Window, error) {
	if err := CheckMonth(month); err != nil {
		return nil, err
	}
	w := make(Window, len(facilities))
	for _, f := range facilities {
		var slots [FirstDays]*model.ConsumptionRecord
		for i := range f.Consumptions {
			c := &f.Consumptions[i]
			day := c.Date.Day()
			if int(c.Date.Month()) != month || day < 1 || day > FirstDays {
				continue
			}
			if prev := slots[day-1]; prev != nil {
				return nil, fmt.Errorf("facility %s: day %d recorded on %s and %s: %w",
					f.ID, day, prev.Date.Format(time.DateOnly), c.Date.Format(time.DateOnly), ErrAmbiguousData)
			}
			slots[day-1] = c
		}
		values := make([]float64, 0, FirstDays)
		for _, c := range slots {
			if c == nil {
				break
			}
			values = append(values, c.KWh)
		}
		w[f.ID] = values
	}
	return w, nil
}

// At returns the consumption of facility id at the given day offset (0-based).
func (w Window) At(id string, offset int) (float64, error) {
	values, ok := w[id]
	if !ok {
		return 0, fmt.Errorf("facility %s: no consumption window: %w", id, ErrInsufficientData)
	}
	if offset < 0 || offset >= len(values) {
		return 0, fmt.Errorf("facility %s: no consumption for day %d (have %d): %w", id, offset+1, len(values), ErrInsufficientData)
	}
	return values[offset], nil
}

// Validate reports the first facility not holding exactly days values.
func (w Window) Validate(ids []string, days int) error {
	for _, id := range ids {
		n := len(w[id])
		if n > days {
			return fmt.Errorf("facility %s: %d values for %d days: %w", id, n, days, ErrAmbiguousData)
		}
		if n < days {
			return fmt.Errorf("facility %s: %d of %d days available: %w", id, n, days, ErrInsufficientData)
		}
	}
	return nil
}

// CheckMonth validates a 1-based month number.
func CheckMonth(month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("month %d: %w", month, ErrInvalidMonth)
	}
	return nil
}

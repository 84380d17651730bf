package model

import (
	"fmt"
	"math"
	"time"
)

// Facility is a plant whose daily energy consumption is tracked.
type Facility struct {
	ID           string              `json:"id" yaml:"id"`
	Name         string              `json:"name" yaml:"name"`
	Consumptions []ConsumptionRecord `json:"consumptions" yaml:"consumptions"`
}

// ConsumptionRecord is the energy consumed by a facility on a given day.
type ConsumptionRecord struct {
	Date time.Time `json:"date" yaml:"date"`
	KWh  float64   `json:"kwh" yaml:"kwh"`
}

// Validate checks that the facility has an id, that every record is a finite
// non-negative amount and that dates are unique.
func (f Facility) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("facility id is required")
	}
	seen := make(map[time.Time]struct{}, len(f.Consumptions))
	for _, c := range f.Consumptions {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("facility %s: %w", f.ID, err)
		}
		d := Day(c.Date)
		if _, dup := seen[d]; dup {
			return fmt.Errorf("facility %s: duplicate record for %s", f.ID, d.Format(time.DateOnly))
		}
		seen[d] = struct{}{}
	}
	return nil
}

// Validate rejects negative and non-finite amounts.
func (r ConsumptionRecord) Validate() error {
	if math.IsNaN(r.KWh) || math.IsInf(r.KWh, 0) {
		return fmt.Errorf("non-finite consumption %v on %s", r.KWh, r.Date.Format(time.DateOnly))
	}
	if r.KWh < 0 {
		return fmt.Errorf("negative consumption %.3f on %s", r.KWh, r.Date.Format(time.DateOnly))
	}
	return nil
}

// DisplayName returns the facility name, falling back to its id.
func (f Facility) DisplayName() string {
	if f.Name == "" {
		return f.ID
	}
	return f.Name
}

// Day aligns t to the start of its day in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

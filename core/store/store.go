// Package store defines the facility data-access boundary.
package store

import (
	"context"
	"errors"

	"github.com/kilianp07/impianti/core/model"
)

// ErrNotFound is returned when a facility id is unknown.
var ErrNotFound = errors.New("facility not found")

// FacilityRepository returns every facility with its consumption records, in
// a stable load order.
type FacilityRepository interface {
	Facilities(ctx context.Context) ([]model.Facility, error)
}

// FacilityWriter is implemented by repositories that accept new data.
type FacilityWriter interface {
	AddFacility(ctx context.Context, f model.Facility) error
	AddConsumption(ctx context.Context, facilityID string, r model.ConsumptionRecord) error
}

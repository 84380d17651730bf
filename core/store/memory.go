package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kilianp07/impianti/core/model"
)

// MemoryStore keeps facilities in memory, preserving insertion order.
type MemoryStore struct {
	mu    sync.Mutex
	order []string
	data  map[string]*model.Facility
}

// NewMemoryStore returns a store seeded with facilities. It fails on the
// first facility rejected by Validate.
func NewMemoryStore(facilities ...model.Facility) (*MemoryStore, error) {
	s := &MemoryStore{data: map[string]*model.Facility{}}
	for _, f := range facilities {
		if err := s.AddFacility(context.Background(), f); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AddFacility inserts f or replaces the name and records of an existing entry.
func (s *MemoryStore) AddFacility(_ context.Context, f model.Facility) error {
	if err := f.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[f.ID]; !ok {
		s.order = append(s.order, f.ID)
	}
	cp := f
	cp.Consumptions = append([]model.ConsumptionRecord(nil), f.Consumptions...)
	s.data[f.ID] = &cp
	return nil
}

// AddConsumption records r for the facility, replacing a record on the same day.
func (s *MemoryStore) AddConsumption(_ context.Context, facilityID string, r model.ConsumptionRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.data[facilityID]
	if !ok {
		return fmt.Errorf("%s: %w", facilityID, ErrNotFound)
	}
	d := model.Day(r.Date)
	for i := range f.Consumptions {
		if model.Day(f.Consumptions[i].Date).Equal(d) {
			f.Consumptions[i].KWh = r.KWh
			return nil
		}
	}
	f.Consumptions = append(f.Consumptions, model.ConsumptionRecord{Date: d, KWh: r.KWh})
	sort.Slice(f.Consumptions, func(i, j int) bool { return f.Consumptions[i].Date.Before(f.Consumptions[j].Date) })
	return nil
}

// Facilities returns a copy of every facility in insertion order.
func (s *MemoryStore) Facilities(_ context.Context) ([]model.Facility, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Facility, 0, len(s.order))
	for _, id := range s.order {
		f := *s.data[id]
		f.Consumptions = append([]model.ConsumptionRecord(nil), f.Consumptions...)
		out = append(out, f)
	}
	return out, nil
}

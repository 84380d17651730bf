package planner

import (
	"fmt"

	"github.com/kilianp07/impianti/core/model"
	"github.com/kilianp07/impianti/core/window"
)

const (
	// Horizon is the number of scheduled days.
	Horizon = window.FirstDays
	// SwitchPenalty is added whenever the facility differs from the previous day's.
	SwitchPenalty = 5.0
)

// Stats counts the work done by one search.
type Stats struct {
	Nodes        int64 `json:"nodes"`
	Pruned       int64 `json:"pruned"`
	Leaves       int64 `json:"leaves"`
	Improvements int64 `json:"improvements"`
}

func (s *Stats) add(o Stats) {
	s.Nodes += o.Nodes
	s.Pruned += o.Pruned
	s.Leaves += o.Leaves
	s.Improvements += o.Improvements
}

// Result holds the best schedule found by Search. Found is false when no
// complete schedule exists, which only happens for an empty facility set.
type Result struct {
	Sequence []string `json:"sequence"`
	Cost     float64  `json:"cost"`
	Found    bool     `json:"found"`
	Stats    Stats    `json:"stats"`
}

// Step describes one day of a schedule.
type Step struct {
	Day        int     `json:"day"`
	FacilityID string  `json:"facility_id"`
	Facility   string  `json:"facility"`
	KWh        float64 `json:"kwh"`
	Penalty    float64 `json:"penalty"`
}

// Labels renders the schedule as "Day N: <facility name>" entries.
func (r Result) Labels(facilities []model.Facility) []string {
	names := make(map[string]string, len(facilities))
	for _, f := range facilities {
		names[f.ID] = f.DisplayName()
	}
	out := make([]string, len(r.Sequence))
	for i, id := range r.Sequence {
		name, ok := names[id]
		if !ok {
			name = id
		}
		out[i] = fmt.Sprintf("Day %d: %s", i+1, name)
	}
	return out
}

// Steps breaks the schedule down per day using the window it was computed on.
func (r Result) Steps(facilities []model.Facility, w window.Window) ([]Step, error) {
	names := make(map[string]string, len(facilities))
	for _, f := range facilities {
		names[f.ID] = f.DisplayName()
	}
	steps := make([]Step, 0, len(r.Sequence))
	for i, id := range r.Sequence {
		kwh, err := w.At(id, i)
		if err != nil {
			return nil, err
		}
		st := Step{Day: i + 1, FacilityID: id, Facility: names[id], KWh: kwh}
		if i > 0 && r.Sequence[i-1] != id {
			st.Penalty = SwitchPenalty
		}
		steps = append(steps, st)
	}
	return steps, nil
}

// Evaluate returns the cost of an arbitrary sequence of facility ids.
func Evaluate(sequence []string, w window.Window) (float64, error) {
	cost := 0.0
	for i, id := range sequence {
		kwh, err := w.At(id, i)
		if err != nil {
			return 0, err
		}
		cost += kwh
		if i > 0 && sequence[i-1] != id {
			cost += SwitchPenalty
		}
	}
	return cost, nil
}

type options struct {
	prune    bool
	parallel bool
}

// Option tunes a search without changing its result.
type Option func(*options)

// WithoutPruning disables the branch-and-bound cut.
func WithoutPruning() Option { return func(o *options) { o.prune = false } }

// WithParallel explores each first-day choice in its own goroutine.
func WithParallel(enabled bool) Option { return func(o *options) { o.parallel = enabled } }

// Search returns the minimum-cost schedule over Horizon days. Facilities are
// tried in slice order and ties keep the first optimum met in that order.
// Errors come from the window, typically ErrInsufficientData.
func Search(facilities []model.Facility, w window.Window, opts ...Option) (Result, error) {
	o := options{prune: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.parallel && len(facilities) > 1 {
		return searchParallel(facilities, w, o)
	}
	s := newSearch(facilities, w, o)
	if err := s.visit(1, -1, 0); err != nil {
		return Result{}, err
	}
	return s.result(), nil
}

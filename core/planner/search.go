package planner

import (
	"github.com/kilianp07/impianti/core/model"
	"github.com/kilianp07/impianti/core/window"
)

// search carries the state of one depth-first exploration. The partial
// buffer is mutated in place and restored after each recursive call.
type search struct {
	facilities []model.Facility
	window     window.Window
	prune      bool

	partial  []string
	best     []string
	bestCost float64
	found    bool
	stats    Stats
}

func newSearch(facilities []model.Facility, w window.Window, o options) *search {
	return &search{
		facilities: facilities,
		window:     w,
		prune:      o.prune,
		partial:    make([]string, 0, Horizon),
		best:       make([]string, 0, Horizon),
	}
}

// visit expands day (1-based). prev is the index of the facility chosen the
// day before, or -1 on the first day.
func (s *search) visit(day, prev int, cost float64) error {
	s.stats.Nodes++
	if day > Horizon {
		s.stats.Leaves++
		if !s.found || cost < s.bestCost {
			s.found = true
			s.bestCost = cost
			s.best = append(s.best[:0], s.partial...)
			s.stats.Improvements++
		}
		return nil
	}
	if s.prune && s.found && cost >= s.bestCost {
		s.stats.Pruned++
		return nil
	}
	for i, f := range s.facilities {
		next, err := s.step(day, prev, i, cost)
		if err != nil {
			return err
		}
		s.partial = append(s.partial, f.ID)
		err = s.visit(day+1, i, next)
		s.partial = s.partial[:len(s.partial)-1]
		if err != nil {
			return err
		}
	}
	return nil
}

// step returns the accumulated cost after choosing facility i on day.
func (s *search) step(day, prev, i int, cost float64) (float64, error) {
	f := s.facilities[i]
	daily, err := s.window.At(f.ID, day-1)
	if err != nil {
		return 0, err
	}
	penalty := 0.0
	if prev >= 0 && s.facilities[prev].ID != f.ID {
		penalty = SwitchPenalty
	}
	return cost + daily + penalty, nil
}

func (s *search) result() Result {
	if !s.found {
		return Result{Stats: s.stats}
	}
	seq := make([]string, len(s.best))
	copy(seq, s.best)
	return Result{Sequence: seq, Cost: s.bestCost, Found: true, Stats: s.stats}
}

package planner

import (
	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/impianti/core/model"
	"github.com/kilianp07/impianti/core/window"
)

// searchParallel runs one independent search per first-day facility and keeps
// the cheapest result. Workers share nothing; ties resolve to the lowest
// first-day index, which matches the sequential visiting order.
func searchParallel(facilities []model.Facility, w window.Window, o options) (Result, error) {
	workers := make([]*search, len(facilities))
	var g errgroup.Group
	for i, f := range facilities {
		s := newSearch(facilities, w, o)
		workers[i] = s
		g.Go(func() error {
			first, err := s.step(1, -1, i, 0)
			if err != nil {
				return err
			}
			s.stats.Nodes++
			s.partial = append(s.partial, f.ID)
			return s.visit(2, i, first)
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var best Result
	var stats Stats
	for _, s := range workers {
		r := s.result()
		stats.add(r.Stats)
		if r.Found && (!best.Found || r.Cost < best.Cost) {
			best = r
		}
	}
	best.Stats = stats
	return best, nil
}

// Package schedule exposes averages and optimal schedules over HTTP.
package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/kilianp07/impianti/app"
	"github.com/kilianp07/impianti/core/consumption"
	"github.com/kilianp07/impianti/core/model"
	"github.com/kilianp07/impianti/core/window"
)

// Planner is the query surface served by the handlers.
type Planner interface {
	Facilities(ctx context.Context) ([]model.Facility, error)
	AverageConsumption(ctx context.Context, month int) ([]consumption.Average, error)
	OptimalSchedule(ctx context.Context, month int) (app.Schedule, error)
}

type facilitySummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Records int    `json:"records"`
}

// NewFacilitiesHandler serves GET /api/facilities.
func NewFacilitiesHandler(p Planner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs, err := p.Facilities(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]facilitySummary, len(fs))
		for i, f := range fs {
			out[i] = facilitySummary{ID: f.ID, Name: f.DisplayName(), Records: len(f.Consumptions)}
		}
		writeJSON(w, out)
	})
}

// NewAveragesHandler serves GET /api/averages?month=N.
func NewAveragesHandler(p Planner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		month, err := monthParam(r)
		if err != nil {
			writeError(w, err)
			return
		}
		avgs, err := p.AverageConsumption(r.Context(), month)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, avgs)
	})
}

// NewScheduleHandler serves GET /api/schedule?month=N.
func NewScheduleHandler(p Planner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		month, err := monthParam(r)
		if err != nil {
			writeError(w, err)
			return
		}
		sched, err := p.OptimalSchedule(r.Context(), month)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, sched)
	})
}

func monthParam(r *http.Request) (int, error) {
	m, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		return 0, window.ErrInvalidMonth
	}
	return m, window.CheckMonth(m)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, window.ErrInvalidMonth):
		return http.StatusBadRequest
	case errors.Is(err, window.ErrInsufficientData), errors.Is(err, window.ErrAmbiguousData), errors.Is(err, consumption.ErrNoData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(err))
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

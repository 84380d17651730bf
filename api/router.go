// Package api assembles the HTTP query API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kilianp07/impianti/api/schedule"
	"github.com/kilianp07/impianti/core/planlog"
	"github.com/kilianp07/impianti/infra/metrics"
)

// NewRouter wires every endpoint. history may be nil to disable the run log
// endpoint.
func NewRouter(p schedule.Planner, history planlog.Store, token string) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.Handle("/api/facilities", schedule.NewFacilitiesHandler(p)).Methods(http.MethodGet)
	r.Handle("/api/averages", schedule.NewAveragesHandler(p)).Methods(http.MethodGet)
	r.Handle("/api/schedule", schedule.NewScheduleHandler(p)).Methods(http.MethodGet)
	if history != nil {
		r.Handle("/api/schedules/history", schedule.NewHistoryHandler(history, token)).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

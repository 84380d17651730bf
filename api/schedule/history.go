package schedule

import (
	"net/http"
	"strconv"
	"time"

	"github.com/kilianp07/impianti/core/planlog"
)

// NewHistoryHandler returns an HTTP handler exposing past schedule runs via
// GET /api/schedules/history. Requests must include an Authorization header
// with "Bearer <token>" when token is non-empty.
func NewHistoryHandler(store planlog.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		q := planlog.Query{}
		if s := r.URL.Query().Get("start"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.Start = t
			}
		}
		if s := r.URL.Query().Get("end"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.End = t
			}
		}
		if s := r.URL.Query().Get("month"); s != "" {
			if m, err := strconv.Atoi(s); err == nil {
				q.Month = m
			}
		}
		q.FacilityID = r.URL.Query().Get("facility_id")
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []planlog.Record{}
		}
		writeJSON(w, records)
	})
}

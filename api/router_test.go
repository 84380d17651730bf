package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/impianti/app"
	"github.com/kilianp07/impianti/core/model"
	"github.com/kilianp07/impianti/core/store"
)

func week(id string, values ...float64) model.Facility {
	f := model.Facility{ID: id, Name: "Impianto " + id}
	for i, v := range values {
		f.Consumptions = append(f.Consumptions, model.ConsumptionRecord{
			Date: time.Date(2025, time.January, i+1, 0, 0, 0, 0, time.UTC),
			KWh:  v,
		})
	}
	return f
}

func TestRouter(t *testing.T) {
	repo, err := store.NewMemoryStore(
		week("A", 1, 1, 1, 1, 1, 1, 1),
		week("B", 2, 2, 2, 2, 2, 2, 2),
	)
	require.NoError(t, err)
	svc := app.NewService(repo, app.Options{})
	require.NoError(t, svc.Load(context.Background()))
	srv := httptest.NewServer(NewRouter(svc, svc.PlanLog(), ""))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/schedule?month=1")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sched app.Schedule
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sched))
	assert.Equal(t, 7.0, sched.Cost)
	assert.Equal(t, "Day 1: Impianto A", sched.Days[0])

	resp2, err := http.Post(srv.URL+"/api/schedule?month=1", "application/json", nil)
	require.NoError(t, err)
	_ = resp2.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp2.StatusCode)

	resp3, err := http.Get(srv.URL + "/api/averages?month=2")
	require.NoError(t, err)
	_ = resp3.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp3.StatusCode)

	resp4, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	_ = resp4.Body.Close()
	assert.Equal(t, http.StatusOK, resp4.StatusCode)
}

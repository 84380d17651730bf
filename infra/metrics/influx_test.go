package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/impianti/core/consumption"
	coremetrics "github.com/kilianp07/impianti/core/metrics"
	"github.com/kilianp07/impianti/core/planner"
)

type lineServer struct {
	mu     sync.Mutex
	bodies []string
}

func (l *lineServer) handler(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	l.mu.Lock()
	l.bodies = append(l.bodies, strings.TrimSpace(string(data)))
	l.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func TestInfluxSink_RecordSchedule(t *testing.T) {
	ls := &lineServer{}
	srv := httptest.NewServer(http.HandlerFunc(ls.handler))
	defer srv.Close()

	sink := NewInfluxSink(InfluxConfig{URL: srv.URL + "/api/v2/write", Token: "token", Org: "org", Bucket: "bucket"})
	defer func() { _ = sink.Close() }()
	ev := coremetrics.ScheduleEvent{
		RunID:      "r1",
		Month:      3,
		Facilities: 2,
		Found:      true,
		Cost:       17,
		Steps: []planner.Step{
			{Day: 1, FacilityID: "f1", KWh: 6},
			{Day: 2, FacilityID: "f2", KWh: 6, Penalty: 5},
		},
		Stats:    planner.Stats{Nodes: 10, Pruned: 2},
		Duration: time.Millisecond,
		Time:     time.Now(),
	}
	require.NoError(t, sink.RecordSchedule(ev))

	require.Len(t, ls.bodies, 1)
	lines := strings.Split(ls.bodies[0], "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "planner_schedule,"))
	assert.Contains(t, lines[0], "run_id=r1")
	assert.Contains(t, lines[0], "cost=17")
	assert.True(t, strings.HasPrefix(lines[2], "planner_schedule_day,"))
	assert.Contains(t, lines[2], "facility_id=f2")
	assert.Contains(t, lines[2], "penalty=5")
}

func TestInfluxSink_RecordAveragesAndFailure(t *testing.T) {
	ls := &lineServer{}
	srv := httptest.NewServer(http.HandlerFunc(ls.handler))
	defer srv.Close()

	sink := NewInfluxSink(InfluxConfig{URL: srv.URL, Token: "token", Org: "org", Bucket: "bucket"})
	defer func() { _ = sink.Close() }()
	now := time.Now()
	require.NoError(t, sink.RecordAverages(coremetrics.AverageEvent{Month: 6, Averages: []consumption.Average{{FacilityID: "f1", KWh: 20, Days: 3}}, Time: now}))
	require.NoError(t, sink.RecordAverages(coremetrics.AverageEvent{Month: 6}))
	require.NoError(t, sink.RecordFailure(coremetrics.FailureEvent{Operation: "schedule", Month: 6, Reason: "insufficient data", Time: now}))

	require.Len(t, ls.bodies, 2)
	assert.True(t, strings.HasPrefix(ls.bodies[0], "facility_average,"))
	assert.Contains(t, ls.bodies[0], "kwh=20")
	assert.True(t, strings.HasPrefix(ls.bodies[1], "planner_failure,"))
	assert.Contains(t, ls.bodies[1], "operation=schedule")
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(InfluxConfig{URL: srv.URL + "/api/v2/write", Token: "tok", Org: "org", Bucket: "bucket"})
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}

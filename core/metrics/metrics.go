package metrics

import (
	"time"

	"github.com/kilianp07/impianti/core/consumption"
	"github.com/kilianp07/impianti/core/planner"
)

// ScheduleEvent describes one optimal schedule computation.
type ScheduleEvent struct {
	RunID      string
	Month      int
	Facilities int
	Found      bool
	Cost       float64
	Steps      []planner.Step
	Stats      planner.Stats
	Parallel   bool
	Duration   time.Duration
	Time       time.Time
}

// MetricsSink records schedule computations for observability purposes.
type MetricsSink interface {
	RecordSchedule(ev ScheduleEvent) error
}

// AverageEvent carries the monthly averages returned to a caller.
type AverageEvent struct {
	Month    int
	Averages []consumption.Average
	Time     time.Time
}

// AverageRecorder records monthly average queries.
type AverageRecorder interface {
	RecordAverages(ev AverageEvent) error
}

// FailureEvent reports an operation rejected because of bad data.
type FailureEvent struct {
	Operation string
	Month     int
	Reason    string
	Time      time.Time
}

// FailureRecorder records failed operations.
type FailureRecorder interface {
	RecordFailure(ev FailureEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordSchedule(ScheduleEvent) error { return nil }
func (NopSink) RecordAverages(AverageEvent) error  { return nil }
func (NopSink) RecordFailure(FailureEvent) error   { return nil }

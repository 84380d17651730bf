package metrics

import "errors"

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSchedule forwards the event to every sink and joins their errors.
func (m *MultiSink) RecordSchedule(ev ScheduleEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		errs = append(errs, s.RecordSchedule(ev))
	}
	return errors.Join(errs...)
}

// RecordAverages forwards to sinks implementing AverageRecorder.
func (m *MultiSink) RecordAverages(ev AverageEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(AverageRecorder); ok {
			errs = append(errs, rec.RecordAverages(ev))
		}
	}
	return errors.Join(errs...)
}

// RecordFailure forwards to sinks implementing FailureRecorder.
func (m *MultiSink) RecordFailure(ev FailureEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(FailureRecorder); ok {
			errs = append(errs, rec.RecordFailure(ev))
		}
	}
	return errors.Join(errs...)
}

package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/impianti/core/metrics"
)

// PromSink records planner events in Prometheus metrics.
type PromSink struct {
	schedules *prometheus.CounterVec
	cost      *prometheus.GaugeVec
	nodes     prometheus.Histogram
	pruned    prometheus.Counter
	duration  *prometheus.HistogramVec
	averages  *prometheus.GaugeVec
	failures  *prometheus.CounterVec
}

// NewPromSink registers planner metrics on the default Prometheus registerer.
// The metrics endpoint is served separately by StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		schedules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_schedules_total",
			Help: "Total number of schedule computations",
		}, []string{"month", "found"}),
		cost: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "planner_schedule_cost",
			Help: "Cost of the last optimal schedule per month",
		}, []string{"month"}),
		nodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planner_search_nodes",
			Help:    "Search tree nodes visited per computation",
			Buckets: prometheus.ExponentialBuckets(8, 4, 10),
		}),
		pruned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_search_pruned_total",
			Help: "Branches cut by the cost bound",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "planner_search_duration_seconds",
			Help:    "Time spent searching the optimal schedule",
			Buckets: prometheus.DefBuckets,
		}, []string{"parallel"}),
		averages: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "facility_average_consumption_kwh",
			Help: "Mean daily consumption of a facility for the queried month",
		}, []string{"facility_id", "month"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_failures_total",
			Help: "Operations rejected because of missing or invalid data",
		}, []string{"operation"}),
	}
	var err error
	s.schedules = register(reg, s.schedules, &err)
	s.cost = register(reg, s.cost, &err)
	s.nodes = register(reg, s.nodes, &err)
	s.pruned = register(reg, s.pruned, &err)
	s.duration = register(reg, s.duration, &err)
	s.averages = register(reg, s.averages, &err)
	s.failures = register(reg, s.failures, &err)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// register adds c to reg, reusing an already registered collector of the
// same description. The first failure is stored in errp.
func register[C prometheus.Collector](reg prometheus.Registerer, c C, errp *error) C {
	if *errp != nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		*errp = err
	}
	return c
}

// RecordSchedule updates counters, cost gauge and search histograms.
func (s *PromSink) RecordSchedule(ev coremetrics.ScheduleEvent) error {
	month := strconv.Itoa(ev.Month)
	s.schedules.WithLabelValues(month, strconv.FormatBool(ev.Found)).Inc()
	if ev.Found {
		s.cost.WithLabelValues(month).Set(ev.Cost)
	}
	s.nodes.Observe(float64(ev.Stats.Nodes))
	s.pruned.Add(float64(ev.Stats.Pruned))
	s.duration.WithLabelValues(strconv.FormatBool(ev.Parallel)).Observe(ev.Duration.Seconds())
	return nil
}

// RecordAverages sets the average gauge of each facility.
func (s *PromSink) RecordAverages(ev coremetrics.AverageEvent) error {
	month := strconv.Itoa(ev.Month)
	for _, a := range ev.Averages {
		s.averages.WithLabelValues(a.FacilityID, month).Set(a.KWh)
	}
	return nil
}

// RecordFailure increments the failure counter for the operation.
func (s *PromSink) RecordFailure(ev coremetrics.FailureEvent) error {
	s.failures.WithLabelValues(ev.Operation).Inc()
	return nil
}

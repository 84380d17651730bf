package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/impianti/app/plugins"
	"github.com/kilianp07/impianti/config"
	"github.com/kilianp07/impianti/core/consumption"
	coremetrics "github.com/kilianp07/impianti/core/metrics"
	"github.com/kilianp07/impianti/core/model"
	coremon "github.com/kilianp07/impianti/core/monitoring"
	coremqtt "github.com/kilianp07/impianti/core/mqtt"
	"github.com/kilianp07/impianti/core/planlog"
	"github.com/kilianp07/impianti/core/planner"
	"github.com/kilianp07/impianti/core/store"
	"github.com/kilianp07/impianti/core/window"
	"github.com/kilianp07/impianti/infra/logger"
	_ "github.com/kilianp07/impianti/infra/metrics"
	"github.com/kilianp07/impianti/infra/mqtt"
)

// ErrReadOnly is returned by Import when the repository does not accept writes.
var ErrReadOnly = errors.New("facility repository is read-only")

// Schedule is the outcome of one optimal schedule computation.
type Schedule struct {
	RunID    string         `json:"run_id"`
	Month    int            `json:"month"`
	Found    bool           `json:"found"`
	Cost     float64        `json:"cost"`
	Days     []string       `json:"days"`
	Sequence []string       `json:"sequence"`
	Steps    []planner.Step `json:"steps"`
	Stats    planner.Stats  `json:"stats"`
}

// Options wires optional collaborators into a Service. Nil fields fall back
// to no-op implementations.
type Options struct {
	Metrics   coremetrics.MetricsSink
	PlanLog   planlog.Store
	Publisher coremqtt.Publisher
	Logger    logger.Logger
	Parallel  bool
	Now       func() time.Time
	NewID     func() string
}

// Service answers average and schedule queries over a facility snapshot.
type Service struct {
	repo      store.FacilityRepository
	metrics   coremetrics.MetricsSink
	planLog   planlog.Store
	publisher coremqtt.Publisher
	log       logger.Logger
	parallel  bool
	now       func() time.Time
	newID     func() string
	closers   []io.Closer

	mu         sync.RWMutex
	facilities []model.Facility
	loaded     bool
}

// NewService creates a Service reading from repo.
func NewService(repo store.FacilityRepository, opts Options) *Service {
	s := &Service{
		repo:      repo,
		metrics:   opts.Metrics,
		planLog:   opts.PlanLog,
		publisher: opts.Publisher,
		log:       opts.Logger,
		parallel:  opts.Parallel,
		now:       opts.Now,
		newID:     opts.NewID,
	}
	if s.metrics == nil {
		s.metrics = coremetrics.NopSink{}
	}
	if s.planLog == nil {
		s.planLog = planlog.NopStore{}
	}
	if s.publisher == nil {
		s.publisher = coremqtt.NopPublisher{}
	}
	if s.log == nil {
		s.log = logger.NopLogger{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// New creates a Service and its collaborators from the configuration.
func New(cfg *config.Config) (*Service, error) {
	var closers []io.Closer
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
	}
	st, err := plugins.OpenStore(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("facility store: %w", err)
	}
	closers = append(closers, st)

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	closers = append(closers, sinkClosers(sink)...)

	pl, err := planlog.New(cfg.PlanLog)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("plan log: %w", err)
	}
	closers = append(closers, pl)

	var pub coremqtt.Publisher = coremqtt.NopPublisher{}
	if cfg.MQTT.Enabled {
		p, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		closers = append(closers, closerFunc(func() error { p.Disconnect(); return nil }))
		pub = p
	}

	svc := NewService(st, Options{
		Metrics:   sink,
		PlanLog:   pl,
		Publisher: pub,
		Logger:    logger.New("service"),
		Parallel:  cfg.Planner.Parallel,
	})
	svc.closers = closers
	return svc, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func sinkClosers(sink coremetrics.MetricsSink) []io.Closer {
	if m, ok := sink.(*coremetrics.MultiSink); ok {
		var out []io.Closer
		for _, s := range m.Sinks {
			out = append(out, sinkClosers(s)...)
		}
		return out
	}
	if c, ok := sink.(io.Closer); ok {
		return []io.Closer{c}
	}
	return nil
}

// Load reads the facility snapshot used by every subsequent query.
func (s *Service) Load(ctx context.Context) error {
	facilities, err := s.repo.Facilities(ctx)
	if err != nil {
		return fmt.Errorf("load facilities: %w", err)
	}
	s.mu.Lock()
	s.facilities = facilities
	s.loaded = true
	s.mu.Unlock()
	s.log.Infof("loaded %d facilities", len(facilities))
	return nil
}

func (s *Service) snapshot(ctx context.Context) ([]model.Facility, error) {
	s.mu.RLock()
	facilities, loaded := s.facilities, s.loaded
	s.mu.RUnlock()
	if loaded {
		return facilities, nil
	}
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.facilities, nil
}

// Facilities returns the loaded snapshot, loading it on first use.
func (s *Service) Facilities(ctx context.Context) ([]model.Facility, error) {
	return s.snapshot(ctx)
}

// Import writes facilities to the repository and reloads the snapshot.
func (s *Service) Import(ctx context.Context, facilities []model.Facility) error {
	w, ok := s.repo.(store.FacilityWriter)
	if !ok {
		return ErrReadOnly
	}
	if err := plugins.Import(ctx, w, facilities); err != nil {
		return fmt.Errorf("import facilities: %w", err)
	}
	return s.Load(ctx)
}

// AverageConsumption returns the mean daily consumption of each facility
// over month, in load order.
func (s *Service) AverageConsumption(ctx context.Context, month int) ([]consumption.Average, error) {
	facilities, err := s.snapshot(ctx)
	if err != nil {
		return nil, s.fail("average", month, err)
	}
	avgs, err := consumption.MonthlyAverages(facilities, month)
	if err != nil {
		return nil, s.fail("average", month, err)
	}
	if rec, ok := s.metrics.(coremetrics.AverageRecorder); ok {
		if err := rec.RecordAverages(coremetrics.AverageEvent{Month: month, Averages: avgs, Time: s.now()}); err != nil {
			s.log.Warnf("record averages: %v", err)
		}
	}
	return avgs, nil
}

// OptimalSchedule searches the minimum-cost visit schedule over the first
// days of month.
func (s *Service) OptimalSchedule(ctx context.Context, month int) (Schedule, error) {
	start := s.now()
	runID := s.newID()
	facilities, err := s.snapshot(ctx)
	if err != nil {
		return Schedule{}, s.failSchedule(ctx, runID, month, nil, err)
	}
	w, err := window.Extract(facilities, month)
	if err != nil {
		return Schedule{}, s.failSchedule(ctx, runID, month, facilities, err)
	}
	ids := facilityIDs(facilities)
	if err := w.Validate(ids, planner.Horizon); err != nil {
		return Schedule{}, s.failSchedule(ctx, runID, month, facilities, err)
	}
	res, err := planner.Search(facilities, w, planner.WithParallel(s.parallel))
	if err != nil {
		return Schedule{}, s.failSchedule(ctx, runID, month, facilities, err)
	}
	steps, err := res.Steps(facilities, w)
	if err != nil {
		return Schedule{}, s.failSchedule(ctx, runID, month, facilities, err)
	}
	sched := Schedule{
		RunID:    runID,
		Month:    month,
		Found:    res.Found,
		Cost:     res.Cost,
		Days:     res.Labels(facilities),
		Sequence: res.Sequence,
		Steps:    steps,
		Stats:    res.Stats,
	}
	elapsed := s.now().Sub(start)
	s.log.Infow("schedule computed", map[string]any{
		"run_id":   runID,
		"month":    month,
		"found":    res.Found,
		"cost":     res.Cost,
		"nodes":    res.Stats.Nodes,
		"pruned":   res.Stats.Pruned,
		"duration": elapsed.String(),
	})

	if err := s.metrics.RecordSchedule(coremetrics.ScheduleEvent{
		RunID:      runID,
		Month:      month,
		Facilities: len(facilities),
		Found:      res.Found,
		Cost:       res.Cost,
		Steps:      steps,
		Stats:      res.Stats,
		Parallel:   s.parallel,
		Duration:   elapsed,
		Time:       start,
	}); err != nil {
		s.log.Warnf("record schedule: %v", err)
	}
	if err := s.planLog.Append(ctx, planlog.Record{
		RunID:      runID,
		Timestamp:  start,
		Month:      month,
		Facilities: ids,
		Found:      res.Found,
		Cost:       res.Cost,
		Sequence:   res.Sequence,
		Days:       sched.Days,
		Stats:      res.Stats,
	}); err != nil {
		s.log.Warnf("plan log append: %v", err)
	}
	if res.Found {
		msg := coremqtt.NewMessage(runID, month, res.Found, res.Cost, steps, start)
		if err := s.publisher.PublishSchedule(ctx, msg); err != nil {
			s.log.Warnf("publish schedule %s: %v", runID, err)
		}
	}
	return sched, nil
}

// PlanLog returns the store holding past schedule runs.
func (s *Service) PlanLog() planlog.Store { return s.planLog }

// History returns past schedule runs matching q.
func (s *Service) History(ctx context.Context, q planlog.Query) ([]planlog.Record, error) {
	return s.planLog.Query(ctx, q)
}

func (s *Service) failSchedule(ctx context.Context, runID string, month int, facilities []model.Facility, err error) error {
	if aerr := s.planLog.Append(ctx, planlog.Record{
		RunID:      runID,
		Timestamp:  s.now(),
		Month:      month,
		Facilities: facilityIDs(facilities),
		Error:      err.Error(),
	}); aerr != nil {
		s.log.Warnf("plan log append: %v", aerr)
	}
	return s.fail("schedule", month, err)
}

func (s *Service) fail(op string, month int, err error) error {
	s.log.Errorf("%s for month %d: %v", op, month, err)
	if rec, ok := s.metrics.(coremetrics.FailureRecorder); ok {
		if rerr := rec.RecordFailure(coremetrics.FailureEvent{
			Operation: op,
			Month:     month,
			Reason:    reason(err),
			Time:      s.now(),
		}); rerr != nil {
			s.log.Warnf("record failure: %v", rerr)
		}
	}
	coremon.CaptureException(err, map[string]string{
		"module":    "service",
		"operation": op,
		"month":     strconv.Itoa(month),
	})
	return err
}

func reason(err error) string {
	switch {
	case errors.Is(err, window.ErrInvalidMonth):
		return "invalid_month"
	case errors.Is(err, window.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, window.ErrAmbiguousData):
		return "ambiguous_data"
	case errors.Is(err, consumption.ErrNoData):
		return "no_data"
	default:
		return "internal"
	}
}

func facilityIDs(facilities []model.Facility) []string {
	ids := make([]string, len(facilities))
	for i, f := range facilities {
		ids[i] = f.ID
	}
	return ids
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i].Close())
	}
	s.closers = nil
	return errors.Join(errs...)
}

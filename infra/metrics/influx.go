package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/impianti/core/metrics"
	"github.com/kilianp07/impianti/infra/logger"
)

// InfluxConfig holds the connection settings of an InfluxSink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes planner events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordSchedule writes a summary point and one point per scheduled day.
func (s *InfluxSink) RecordSchedule(ev coremetrics.ScheduleEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	month := strconv.Itoa(ev.Month)
	points := make([]*write.Point, 0, len(ev.Steps)+1)
	points = append(points, write.NewPointWithMeasurement("planner_schedule").
		AddTag("run_id", ev.RunID).
		AddTag("month", month).
		AddTag("found", strconv.FormatBool(ev.Found)).
		AddField("cost", round3(ev.Cost)).
		AddField("facilities", ev.Facilities).
		AddField("nodes", ev.Stats.Nodes).
		AddField("pruned", ev.Stats.Pruned).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time))
	for _, st := range ev.Steps {
		points = append(points, write.NewPointWithMeasurement("planner_schedule_day").
			AddTag("run_id", ev.RunID).
			AddTag("month", month).
			AddTag("day", strconv.Itoa(st.Day)).
			AddTag("facility_id", st.FacilityID).
			AddField("kwh", round3(st.KWh)).
			AddField("penalty", round3(st.Penalty)).
			SetTime(ev.Time))
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordAverages writes one point per facility average.
func (s *InfluxSink) RecordAverages(ev coremetrics.AverageEvent) error {
	if len(ev.Averages) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	points := make([]*write.Point, 0, len(ev.Averages))
	for _, a := range ev.Averages {
		points = append(points, write.NewPointWithMeasurement("facility_average").
			AddTag("facility_id", a.FacilityID).
			AddTag("month", strconv.Itoa(ev.Month)).
			AddField("kwh", round3(a.KWh)).
			AddField("days", a.Days).
			SetTime(ev.Time))
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordFailure writes a rejected operation.
func (s *InfluxSink) RecordFailure(ev coremetrics.FailureEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("planner_failure").
		AddTag("operation", ev.Operation).
		AddTag("month", strconv.Itoa(ev.Month)).
		AddField("reason", ev.Reason).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

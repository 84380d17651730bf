// Package metrics defines the events emitted by the planner service and the
// sink interfaces recording them. Sinks like PromSink and InfluxSink live in
// infra/metrics and register themselves with RegisterMetricsSink; several
// configured sinks are combined into a MultiSink.
package metrics

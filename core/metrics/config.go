package metrics

import "github.com/kilianp07/impianti/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddr, when set, serves /metrics on a dedicated listener in
	// addition to the API router.
	PrometheusAddr string `json:"prometheus_addr"`
}

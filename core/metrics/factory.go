package metrics

import (
	"fmt"
	"io"

	"github.com/kilianp07/impianti/core/factory"
)

// sinks maps the type names accepted under metrics.sinks to their factories.
var sinks = factory.NewRegistry[MetricsSink]()

// RegisterMetricsSink makes a sink type available to NewMetricsSink.
func RegisterMetricsSink(name string, f factory.Factory[MetricsSink]) error {
	return sinks.Register(name, f)
}

// NewMetricsSink builds one sink per config entry. An empty list yields a
// NopSink and a single entry is returned unwrapped; otherwise the sinks are
// combined in a MultiSink in config order.
//
// If an entry fails, sinks already built are closed and the error names the
// entry position and type.
func NewMetricsSink(cfgs []factory.ModuleConfig) (MetricsSink, error) {
	built := make([]MetricsSink, 0, len(cfgs))
	for i, c := range cfgs {
		s, err := sinks.Create(c)
		if err != nil {
			for _, b := range built {
				if cl, ok := b.(io.Closer); ok {
					_ = cl.Close()
				}
			}
			return nil, fmt.Errorf("sink %d (%s): %w", i, c.Type, err)
		}
		built = append(built, s)
	}
	switch len(built) {
	case 0:
		return NopSink{}, nil
	case 1:
		return built[0], nil
	}
	return NewMultiSink(built...), nil
}

package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/impianti/core/metrics"
	"github.com/kilianp07/impianti/core/planlog"
	"github.com/kilianp07/impianti/infra/logger"
	"github.com/kilianp07/impianti/infra/monitoring"
	"github.com/kilianp07/impianti/infra/mqtt"
)

type Config struct {
	Store   StoreConfig             `json:"store"`
	Planner PlannerConfig           `json:"planner"`
	Metrics metrics.Config          `json:"metrics"`
	PlanLog planlog.Config          `json:"planlog"`
	MQTT    mqtt.Config             `json:"mqtt"`
	Logging logger.Config           `json:"logging"`
	Sentry  monitoring.SentryConfig `json:"sentry"`
	HTTP    HTTPConfig              `json:"http"`
}

// Default returns a configuration usable without any file: an in-memory
// store, no metrics sinks and no plan log.
func Default() *Config {
	cfg := &Config{PlanLog: planlog.Config{Backend: "none"}}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	c.Store.SetDefaults()
	c.PlanLog.SetDefaults()
	c.MQTT.SetDefaults()
	c.Logging.SetDefaults()
	c.HTTP.SetDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	validators := []struct {
		name string
		fn   func() error
	}{
		{"store", c.Store.Validate},
		{"planlog", c.PlanLog.Validate},
		{"mqtt", c.MQTT.Validate},
		{"logging", c.Logging.Validate},
		{"http", c.HTTP.Validate},
	}
	for _, v := range validators {
		if err := v.fn(); err != nil {
			return fmt.Errorf("%s: %w", v.name, err)
		}
	}
	return nil
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

package config

import "fmt"

// StoreConfig selects where facilities and their consumption come from.
type StoreConfig struct {
	// Backend is "memory", "file" or "sqlite".
	Backend string `json:"backend"`
	// Path is the sqlite database location.
	Path string `json:"path"`
	// Dataset is a YAML, JSON or CSV file loaded at startup. With the sqlite
	// backend it is imported into the database.
	Dataset string `json:"dataset"`
}

// SetDefaults applies sane defaults.
func (c *StoreConfig) SetDefaults() {
	if c.Backend == "" {
		if c.Dataset != "" {
			c.Backend = "file"
		} else {
			c.Backend = "memory"
		}
	}
	if c.Backend == "sqlite" && c.Path == "" {
		c.Path = "impianti.db"
	}
}

// Validate checks mandatory fields.
func (c StoreConfig) Validate() error {
	switch c.Backend {
	case "memory":
	case "file":
		if c.Dataset == "" {
			return fmt.Errorf("dataset is required for the file backend")
		}
	case "sqlite":
		if c.Path == "" {
			return fmt.Errorf("path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	return nil
}

// PlannerConfig tunes the schedule search.
type PlannerConfig struct {
	// Parallel explores first-day choices concurrently.
	Parallel bool `json:"parallel"`
}

// HTTPConfig configures the query API server.
type HTTPConfig struct {
	Addr                string `json:"addr"`
	ReadTimeoutSeconds  int    `json:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `json:"write_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *HTTPConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ReadTimeoutSeconds <= 0 {
		c.ReadTimeoutSeconds = 10
	}
	if c.WriteTimeoutSeconds <= 0 {
		c.WriteTimeoutSeconds = 30
	}
}

// Validate checks mandatory fields.
func (c HTTPConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	return nil
}

// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; file and environment overrides are layered by Load.
// - All loading functions accept context.Context as the first parameter.
// - External errors must be wrapped via this package's sentinel kinds.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoder: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// ReadTimeoutSec bounds how long reading a request may take.
	ReadTimeoutSec int `koanf:"read_timeout_sec"`

	// WriteTimeoutSec bounds how long writing a response may take.
	WriteTimeoutSec int `koanf:"write_timeout_sec"`

	// IdleTimeoutSec closes idle keep-alive connections after this long.
	IdleTimeoutSec int `koanf:"idle_timeout_sec"`

	// ShutdownTimeoutSec caps graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeoutSec int `koanf:"shutdown_timeout_sec"`

	// MetricsUpdateIntervalSec sets how often roster gauges are refreshed.
	MetricsUpdateIntervalSec int `koanf:"metrics_update_interval_sec"`
}

// New creates a Config populated with defaults. Load layers file and
// environment overrides on top.
func New() *Config {
	c := &Config{
		LogLevel:                 "info",
		LogFormat:                "text",
		Addr:                     ":8000",
		ReadTimeoutSec:           10,
		WriteTimeoutSec:          20,
		IdleTimeoutSec:           60,
		ShutdownTimeoutSec:       10,
		MetricsUpdateIntervalSec: 5,
	}
	return c
}

package config

import "time"

// ApplyDefaults fills in engine defaults for any unset field.  It mutates cfg
// in place and is idempotent.
func ApplyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Progress.Mode == "" {
		cfg.Progress.Mode = "terminal"
	}
	if cfg.Progress.RefreshInterval == 0 {
		cfg.Progress.RefreshInterval = 100 * time.Millisecond
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "moldesc"
	}
	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = ":9090"
	}
	if cfg.Store.MaxOpenConns == 0 {
		cfg.Store.MaxOpenConns = 10
	}
	if cfg.Store.MaxIdleConns == 0 {
		cfg.Store.MaxIdleConns = 5
	}
	if cfg.Store.ConnMaxLifetime == 0 {
		cfg.Store.ConnMaxLifetime = 30 * time.Minute
	}
}

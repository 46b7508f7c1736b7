// Package config defines all configuration structures for MolDesc-Engine.
// No I/O or parsing logic lives here — only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/MolDesc-Engine/internal/infrastructure/monitoring/logging"
)

// CalculatorConfig holds descriptor-evaluation tunables.
type CalculatorConfig struct {
	// Workers is the parallelism degree for bulk evaluation.
	// 1 selects the deterministic serial path; 0 means "number of CPUs".
	Workers int `mapstructure:"workers"`

	// Ignore3D skips registration of descriptors that require 3D coordinates.
	Ignore3D bool `mapstructure:"ignore_3d"`

	// Debug enables result-type validation after each descriptor computation.
	Debug bool `mapstructure:"debug"`

	// ConformerID selects the coordinate set used for 3D descriptors.
	// -1 means "primary/only conformer"; the loader defaults it to -1 so
	// that 0 remains a selectable conformer ID.
	ConformerID int `mapstructure:"conformer_id"`
}

// ProgressConfig holds progress-reporting tunables for bulk evaluation.
type ProgressConfig struct {
	// Mode selects the reporter implementation:
	// "quiet" (no output), "terminal" (in-place single line), or
	// "rich" (bar with percentage and ETA).
	Mode string `mapstructure:"mode"`

	// RefreshInterval throttles in-place redraws of the live progress line.
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// MetricsConfig holds Prometheus instrumentation settings.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`

	// Listen is the address the scrape endpoint binds to while a bulk run
	// is in flight.
	Listen string `mapstructure:"listen"`
}

// StoreConfig holds optional PostgreSQL result-persistence settings.
// An empty DSN disables persistence entirely.
type StoreConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`

	// AutoMigrate applies embedded schema migrations on connect.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// Config is the root configuration object for the engine.
type Config struct {
	Log        logging.LogConfig `mapstructure:"log"`
	Calculator CalculatorConfig  `mapstructure:"calculator"`
	Progress   ProgressConfig    `mapstructure:"progress"`
	Metrics    MetricsConfig     `mapstructure:"metrics"`
	Store      StoreConfig       `mapstructure:"store"`
}

// Validate checks cross-field consistency.  It is called by the loader after
// defaults have been applied, so zero values that defaults fill in are not
// rejected here.
func (c *Config) Validate() error {
	if c.Calculator.Workers < 0 {
		return fmt.Errorf("calculator.workers must be >= 0, got %d", c.Calculator.Workers)
	}
	switch c.Progress.Mode {
	case "quiet", "terminal", "rich":
	default:
		return fmt.Errorf("progress.mode must be one of quiet|terminal|rich, got %q", c.Progress.Mode)
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("metrics.namespace is required when metrics are enabled")
	}
	if c.Store.DSN != "" && c.Store.MaxOpenConns < 1 {
		return fmt.Errorf("store.max_open_conns must be >= 1 when a DSN is configured")
	}
	return nil
}

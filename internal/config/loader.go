package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all engine settings.
const envPrefix = "MOLDESC"

// newViper builds a pre-configured Viper instance with the engine's standard
// settings: YAML file type, MOLDESC_ env prefix, automatic env binding, and a
// key replacer that maps "." → "_" so that nested keys like "calculator.workers"
// resolve to "MOLDESC_CALCULATOR_WORKERS".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// -1 selects the primary conformer.  The default lives here rather than in
	// ApplyDefaults: 0 is a valid conformer ID, so "unset" can only be told
	// apart from 0 before unmarshalling.
	v.SetDefault("calculator.conformer_id", -1)
	return v
}

// Load reads the YAML file at configPath, merges any MOLDESC_* environment
// variable overrides, applies engine defaults for unset fields, and validates
// the result.  It returns a fully-populated *Config or a descriptive error.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from MOLDESC_* environment variables,
// with no config file required.  Viper only surfaces env-bound keys during
// Unmarshal when they have been touched, so the known leaf keys are bound
// explicitly here.
func LoadFromEnv() (*Config, error) {
	v := newViper()
	for _, key := range []string{
		"log.level", "log.format",
		"calculator.workers", "calculator.ignore_3d", "calculator.debug", "calculator.conformer_id",
		"progress.mode", "progress.refresh_interval",
		"metrics.enabled", "metrics.namespace",
		"store.dsn", "store.max_open_conns", "store.max_idle_conns",
		"store.conn_max_lifetime", "store.auto_migrate",
	} {
		_ = v.BindEnv(key)
	}
	return unmarshalAndFinalize(v)
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  It is intended for
// hot-reloading non-critical settings such as log level; callers are
// responsible for applying only the safe subset of changes at runtime.
//
// Watch is non-blocking; it starts a background goroutine managed by viper.
// If the changed file fails to parse or validate, onChange is not called.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read — errors are ignored here; callers should call Load first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad is a convenience wrapper around Load that panics on any error.
// It is intended for use in main() where a config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

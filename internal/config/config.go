// Package config handles global configuration loading using viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level static configuration.
// Maps to the `iexcap:` root key in YAML.
type Config struct {
	Capture CaptureConfig `mapstructure:"capture"`
	Decoder DecoderConfig `mapstructure:"decoder"`
	Export  ExportConfig  `mapstructure:"export"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Log     LogConfig     `mapstructure:"log"`
}

// CaptureConfig contains pcap reading settings.
type CaptureConfig struct {
	UDPPort int `mapstructure:"udp_port"` // 0 = accept any UDP port
}

// DecoderConfig contains message decode settings.
type DecoderConfig struct {
	OnUnknown string `mapstructure:"on_unknown"` // skip / fail
}

// ExportConfig contains export output settings.
type ExportConfig struct {
	Format    string `mapstructure:"format"`    // csv / jsonl
	Watchlist string `mapstructure:"watchlist"` // optional symbol list YAML
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
	Path    string `mapstructure:"path"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string           `mapstructure:"level"`  // debug / info / warn / error
	Format  string           `mapstructure:"format"` // json / text
	Outputs LogOutputsConfig `mapstructure:"outputs"`
}

// LogOutputsConfig contains structured log output destinations.
type LogOutputsConfig struct {
	File FileOutputConfig `mapstructure:"file"`
}

// FileOutputConfig configures file log output.
type FileOutputConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Path     string         `mapstructure:"path"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`  // MB
	MaxAgeDays int  `mapstructure:"max_age_days"` // Days
	MaxBackups int  `mapstructure:"max_backups"`
	Compress   bool `mapstructure:"compress"`
}

// configRoot is the top-level wrapper matching the YAML structure `iexcap: ...`.
type configRoot struct {
	IEXCap Config `mapstructure:"iexcap"`
}

// Load loads configuration from file. An empty path skips the file read and
// yields defaults plus environment overrides.
// The YAML file uses `iexcap:` as root key; env vars use IEXCAP_ prefix
// (e.g., IEXCAP_LOG_LEVEL).
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variable overrides. No explicit env prefix: the "iexcap."
	// key prefix maps to IEXCAP_ through the key replacer, so the key
	// "iexcap.log.level" reads env IEXCAP_LOG_LEVEL.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults with "iexcap." prefix to match the YAML structure
	setDefaults(v)

	// Unmarshal into wrapper → extract inner Config
	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.IEXCap

	// Validate and apply defaults
	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration.
// All keys use "iexcap." prefix to match the YAML root wrapper.
func setDefaults(v *viper.Viper) {
	// Capture defaults
	v.SetDefault("iexcap.capture.udp_port", 0)

	// Decoder defaults
	v.SetDefault("iexcap.decoder.on_unknown", "skip")

	// Export defaults
	v.SetDefault("iexcap.export.format", "csv")

	// Log defaults
	v.SetDefault("iexcap.log.level", "info")
	v.SetDefault("iexcap.log.format", "text")
	v.SetDefault("iexcap.log.outputs.file.enabled", false)
	v.SetDefault("iexcap.log.outputs.file.path", "/var/log/iexcap/iexcap.log")
	v.SetDefault("iexcap.log.outputs.file.rotation.max_size_mb", 100)
	v.SetDefault("iexcap.log.outputs.file.rotation.max_age_days", 30)
	v.SetDefault("iexcap.log.outputs.file.rotation.max_backups", 5)
	v.SetDefault("iexcap.log.outputs.file.rotation.compress", true)

	// Metrics defaults
	v.SetDefault("iexcap.metrics.enabled", false)
	v.SetDefault("iexcap.metrics.listen", ":9090")
	v.SetDefault("iexcap.metrics.path", "/metrics")
}

// ValidateAndApplyDefaults validates configuration values.
func (cfg *Config) ValidateAndApplyDefaults() error {
	// ── Log validation ──
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug/info/warn/error)", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s (must be json/text)", cfg.Log.Format)
	}

	// ── Capture validation ──
	if cfg.Capture.UDPPort < 0 || cfg.Capture.UDPPort > 65535 {
		return fmt.Errorf("invalid capture.udp_port: %d", cfg.Capture.UDPPort)
	}

	// ── Decoder validation ──
	switch cfg.Decoder.OnUnknown {
	case "skip", "fail":
	default:
		return fmt.Errorf("invalid decoder.on_unknown: %s (must be skip/fail)", cfg.Decoder.OnUnknown)
	}

	// ── Export validation ──
	switch cfg.Export.Format {
	case "csv", "jsonl":
	default:
		return fmt.Errorf("invalid export.format: %s (must be csv/jsonl)", cfg.Export.Format)
	}

	// ── Metrics validation ──
	if cfg.Metrics.Enabled && cfg.Metrics.Listen == "" {
		return fmt.Errorf("metrics.listen is required when metrics.enabled=true")
	}

	return nil
}

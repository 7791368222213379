package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/robfig/cron/v3"
)

// Environment tags carry no defaults: DefaultConfig supplies them, so that a
// value read from config.json is not overwritten by an env default.

// DatabaseConfig holds habit store configuration
type DatabaseConfig struct {
	// Path is the SQLite database file
	Path string `json:"path,omitempty" env:"HABITFLOW_DB_PATH"`

	// BusyTimeoutMs is how long a writer waits on a locked database
	BusyTimeoutMs int `json:"busy_timeout_ms,omitempty" env:"HABITFLOW_DB_BUSY_TIMEOUT_MS"`
}

// CatchUpConfig bounds the resolution pass
type CatchUpConfig struct {
	// MaxCatchUpDays is the number of missed days replayed one at a time.
	// Longer gaps collapse into a single rollover at today.
	MaxCatchUpDays int `json:"max_catch_up_days,omitempty" env:"HABITFLOW_CATCHUP_MAX_DAYS"`

	// Workers is the number of habits resolved in parallel
	Workers int `json:"workers,omitempty" env:"HABITFLOW_CATCHUP_WORKERS"`

	// MaxConflictRetries is how often a save is retried after a version conflict
	MaxConflictRetries int `json:"max_conflict_retries,omitempty" env:"HABITFLOW_CATCHUP_MAX_CONFLICT_RETRIES"`
}

// PrometheusConfig holds Prometheus integration configuration
type PrometheusConfig struct {
	// RemoteWriteURL is the Prometheus Remote Write endpoint URL. Empty disables metrics.
	RemoteWriteURL string `json:"remote_write_url" env:"HABITFLOW_PROMETHEUS_REMOTE_WRITE_URL"`

	// RemoteWriteUsername is the username for Remote Write authentication
	RemoteWriteUsername string `json:"remote_write_username" env:"HABITFLOW_PROMETHEUS_REMOTE_WRITE_USERNAME"`

	// RemoteWritePassword is the password for Remote Write authentication
	RemoteWritePassword string `json:"remote_write_password" env:"HABITFLOW_PROMETHEUS_REMOTE_WRITE_PASSWORD"`

	// HostLabel is the host label value for metrics
	HostLabel string `json:"host_label,omitempty" env:"HABITFLOW_PROMETHEUS_HOST_LABEL"`

	// TimeoutSec is the timeout in seconds for metric pushes
	TimeoutSec int `json:"timeout_seconds,omitempty" env:"HABITFLOW_PROMETHEUS_TIMEOUT_SECONDS"`
}

// PromtailConfig holds Promtail logging configuration
type PromtailConfig struct {
	// URL is the Loki push endpoint URL. Empty logs to the console instead.
	URL string `json:"url" env:"HABITFLOW_LOKI_URL"`

	// Username is the username for basic authentication
	Username string `json:"username" env:"HABITFLOW_LOKI_USERNAME"`

	// Password is the password for basic authentication
	Password string `json:"password" env:"HABITFLOW_LOKI_PASSWORD"`

	// BatchWaitSeconds is the time to wait before sending a batch
	BatchWaitSeconds int `json:"batch_wait_seconds,omitempty" env:"HABITFLOW_LOKI_BATCH_WAIT_SECONDS"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `json:"level,omitempty" env:"HABITFLOW_LOG_LEVEL"`

	// Debug mirrors every log line to stderr
	Debug bool `json:"debug,omitempty" env:"HABITFLOW_LOG_DEBUG"`

	// Promtail holds Promtail configuration
	Promtail *PromtailConfig `json:"promtail,omitempty"`
}

// SchedulerConfig controls periodic resolution in serve mode
type SchedulerConfig struct {
	// Enabled turns periodic resolution on
	Enabled bool `json:"enabled,omitempty" env:"HABITFLOW_SCHEDULER_ENABLED"`

	// Cron is a robfig/cron spec such as "@every 15m" or "5 0 * * *"
	Cron string `json:"cron,omitempty" env:"HABITFLOW_SCHEDULER_CRON"`

	// PidFile is written while serve mode runs. Empty disables it.
	PidFile string `json:"pid_file,omitempty" env:"HABITFLOW_SCHEDULER_PID_FILE"`
}

// CSVExportConfig holds CSV export configuration
type CSVExportConfig struct {
	// DefaultOutputPath is the default output directory for CSV files
	DefaultOutputPath string `json:"default_output_path,omitempty" env:"HABITFLOW_CSV_EXPORT_DEFAULT_OUTPUT_PATH"`

	// DefaultStartDays is the default number of days to look back
	DefaultStartDays int `json:"default_start_days,omitempty" env:"HABITFLOW_CSV_EXPORT_DEFAULT_START_DAYS"`

	// MaxExportDays is the maximum number of days allowed for export range
	MaxExportDays int `json:"max_export_days,omitempty" env:"HABITFLOW_CSV_EXPORT_MAX_EXPORT_DAYS"`
}

// ConfigSource represents the source of a configuration value
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceJSONFile    ConfigSource = "json"
	SourceEnvironment ConfigSource = "env"
)

// ConfigSourceMap tracks the source of each configuration field
type ConfigSourceMap map[string]ConfigSource

// AppConfig holds application configuration
type AppConfig struct {
	// Version is the configuration schema version
	Version int `json:"version,omitempty"`

	// Timezone is the owner's IANA timezone; "Local" detects the host zone
	Timezone string `json:"timezone,omitempty" env:"HABITFLOW_TIMEZONE"`

	// Now overrides the current instant (RFC3339) for time travel debugging.
	// Leave empty in production.
	Now string `json:"now,omitempty" env:"HABITFLOW_NOW"`

	// OwnerID identifies whose habits the CLI works on
	OwnerID string `json:"owner_id,omitempty" env:"HABITFLOW_OWNER_ID"`

	Database   *DatabaseConfig   `json:"database,omitempty"`
	CatchUp    *CatchUpConfig    `json:"catch_up,omitempty"`
	Prometheus *PrometheusConfig `json:"prometheus,omitempty"`
	Logging    *LoggingConfig    `json:"logging,omitempty"`
	Scheduler  *SchedulerConfig  `json:"scheduler,omitempty"`
	CSVExport  *CSVExportConfig  `json:"csv_export,omitempty"`

	// ConfigSources tracks the source of each configuration field
	ConfigSources ConfigSourceMap `json:"-"`
}

const (
	// CurrentConfigVersion is the schema version written by Save
	CurrentConfigVersion = 1

	// MinCatchUpDays is the smallest replay window that still reaches a fixed
	// point before the collapse step
	MinCatchUpDays = 4
)

// DefaultConfigDir returns ~/.config/habitflow
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", ".habitflow")
	}
	return filepath.Join(home, ".config", "habitflow")
}

// DefaultDatabasePath returns ~/.config/habitflow/habitflow.db
func DefaultDatabasePath() string {
	return filepath.Join(DefaultConfigDir(), "habitflow.db")
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Version:  CurrentConfigVersion,
		Timezone: "UTC",
		Now:      "",
		OwnerID:  "local",
		Database: &DatabaseConfig{
			Path:          DefaultDatabasePath(),
			BusyTimeoutMs: 5000,
		},
		CatchUp: &CatchUpConfig{
			MaxCatchUpDays:     400,
			Workers:            4,
			MaxConflictRetries: 3,
		},
		Prometheus: &PrometheusConfig{
			RemoteWriteURL: "", // Empty by default, must be set via environment variable or config.json
			TimeoutSec:     30,
		},
		Logging: &LoggingConfig{
			Level: "info",
			Debug: false,
			Promtail: &PromtailConfig{
				URL:              "",
				BatchWaitSeconds: 1,
			},
		},
		Scheduler: &SchedulerConfig{
			Enabled: true,
			Cron:    "@every 15m",
		},
		CSVExport: &CSVExportConfig{
			DefaultOutputPath: ".",
			DefaultStartDays:  30,
			MaxExportDays:     366,
		},
		ConfigSources: make(ConfigSourceMap),
	}
}

// LoadConfig loads configuration from defaults and environment variables
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadFromEnv loads configuration from environment variables using Netflix/go-env
func (c *AppConfig) LoadFromEnv() error {
	if c.ConfigSources == nil {
		c.ConfigSources = make(ConfigSourceMap)
	}

	if _, err := env.UnmarshalFromEnviron(c); err != nil {
		return fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}
	c.trackEnv(map[string]string{
		"Timezone": "HABITFLOW_TIMEZONE",
		"Now":      "HABITFLOW_NOW",
		"OwnerID":  "HABITFLOW_OWNER_ID",
	})

	if c.Database != nil {
		if _, err := env.UnmarshalFromEnviron(c.Database); err != nil {
			return fmt.Errorf("failed to unmarshal Database environment variables: %w", err)
		}
		c.trackEnv(map[string]string{
			"Database.Path":          "HABITFLOW_DB_PATH",
			"Database.BusyTimeoutMs": "HABITFLOW_DB_BUSY_TIMEOUT_MS",
		})
	}

	if c.CatchUp != nil {
		if _, err := env.UnmarshalFromEnviron(c.CatchUp); err != nil {
			return fmt.Errorf("failed to unmarshal CatchUp environment variables: %w", err)
		}
		c.trackEnv(map[string]string{
			"CatchUp.MaxCatchUpDays":     "HABITFLOW_CATCHUP_MAX_DAYS",
			"CatchUp.Workers":            "HABITFLOW_CATCHUP_WORKERS",
			"CatchUp.MaxConflictRetries": "HABITFLOW_CATCHUP_MAX_CONFLICT_RETRIES",
		})
	}

	if c.Prometheus != nil {
		if _, err := env.UnmarshalFromEnviron(c.Prometheus); err != nil {
			return fmt.Errorf("failed to unmarshal Prometheus environment variables: %w", err)
		}
		c.trackEnv(map[string]string{
			"Prometheus.RemoteWriteURL":      "HABITFLOW_PROMETHEUS_REMOTE_WRITE_URL",
			"Prometheus.RemoteWriteUsername": "HABITFLOW_PROMETHEUS_REMOTE_WRITE_USERNAME",
			"Prometheus.RemoteWritePassword": "HABITFLOW_PROMETHEUS_REMOTE_WRITE_PASSWORD",
			"Prometheus.HostLabel":           "HABITFLOW_PROMETHEUS_HOST_LABEL",
			"Prometheus.TimeoutSec":          "HABITFLOW_PROMETHEUS_TIMEOUT_SECONDS",
		})
	}

	if c.Logging != nil {
		if _, err := env.UnmarshalFromEnviron(c.Logging); err != nil {
			return fmt.Errorf("failed to unmarshal Logging environment variables: %w", err)
		}
		c.trackEnv(map[string]string{
			"Logging.Level": "HABITFLOW_LOG_LEVEL",
			"Logging.Debug": "HABITFLOW_LOG_DEBUG",
		})

		if c.Logging.Promtail != nil {
			if _, err := env.UnmarshalFromEnviron(c.Logging.Promtail); err != nil {
				return fmt.Errorf("failed to unmarshal Promtail environment variables: %w", err)
			}
			c.trackEnv(map[string]string{
				"Promtail.URL":              "HABITFLOW_LOKI_URL",
				"Promtail.Username":         "HABITFLOW_LOKI_USERNAME",
				"Promtail.Password":         "HABITFLOW_LOKI_PASSWORD",
				"Promtail.BatchWaitSeconds": "HABITFLOW_LOKI_BATCH_WAIT_SECONDS",
			})
		}
	}

	if c.Scheduler != nil {
		if _, err := env.UnmarshalFromEnviron(c.Scheduler); err != nil {
			return fmt.Errorf("failed to unmarshal Scheduler environment variables: %w", err)
		}
		c.trackEnv(map[string]string{
			"Scheduler.Enabled": "HABITFLOW_SCHEDULER_ENABLED",
			"Scheduler.Cron":    "HABITFLOW_SCHEDULER_CRON",
			"Scheduler.PidFile": "HABITFLOW_SCHEDULER_PID_FILE",
		})
	}

	if c.CSVExport != nil {
		if _, err := env.UnmarshalFromEnviron(c.CSVExport); err != nil {
			return fmt.Errorf("failed to unmarshal CSVExport environment variables: %w", err)
		}
		c.trackEnv(map[string]string{
			"CSVExport.DefaultOutputPath": "HABITFLOW_CSV_EXPORT_DEFAULT_OUTPUT_PATH",
			"CSVExport.DefaultStartDays":  "HABITFLOW_CSV_EXPORT_DEFAULT_START_DAYS",
			"CSVExport.MaxExportDays":     "HABITFLOW_CSV_EXPORT_MAX_EXPORT_DAYS",
		})
	}

	return nil
}

// trackEnv marks fields whose environment variable is set
func (c *AppConfig) trackEnv(fields map[string]string) {
	for field, key := range fields {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			c.ConfigSources[field] = SourceEnvironment
		}
	}
}

// Validate validates the configuration
func (c *AppConfig) Validate() error {
	if err := c.validateCore(); err != nil {
		return err
	}

	if c.Database != nil {
		if err := c.validateDatabase(); err != nil {
			return err
		}
	}

	if c.CatchUp != nil {
		if err := c.validateCatchUp(); err != nil {
			return err
		}
	}

	if c.Prometheus != nil {
		if err := c.validatePrometheus(); err != nil {
			return err
		}
	}

	if c.Logging != nil {
		if err := c.validateLogging(); err != nil {
			return err
		}
	}

	if c.Scheduler != nil {
		if err := c.validateScheduler(); err != nil {
			return err
		}
	}

	if c.CSVExport != nil {
		if err := c.validateCSVExport(); err != nil {
			return err
		}
	}

	return nil
}

// validateCore validates the top-level fields. An unknown timezone is not an
// error here: resolution falls back to UTC and reports it.
func (c *AppConfig) validateCore() error {
	if strings.TrimSpace(c.OwnerID) == "" {
		return fmt.Errorf("owner ID cannot be empty")
	}
	if c.Now != "" {
		if _, err := time.Parse(time.RFC3339, c.Now); err != nil {
			return fmt.Errorf("time override must be RFC3339: %w", err)
		}
	}
	return nil
}

// validateDatabase validates Database configuration
func (c *AppConfig) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.Database.BusyTimeoutMs < 0 {
		return fmt.Errorf("database busy timeout cannot be negative")
	}
	return nil
}

// validateCatchUp validates CatchUp configuration
func (c *AppConfig) validateCatchUp() error {
	if c.CatchUp.MaxCatchUpDays < MinCatchUpDays {
		return fmt.Errorf("catch-up max days must be at least %d", MinCatchUpDays)
	}
	if c.CatchUp.Workers < 1 {
		return fmt.Errorf("catch-up workers must be at least 1")
	}
	if c.CatchUp.MaxConflictRetries < 0 {
		return fmt.Errorf("catch-up conflict retries cannot be negative")
	}
	return nil
}

// validatePrometheus validates Prometheus configuration
func (c *AppConfig) validatePrometheus() error {
	// Skip validation if RemoteWriteURL is empty (metrics disabled)
	if c.Prometheus.RemoteWriteURL == "" {
		return nil
	}

	if !strings.HasPrefix(c.Prometheus.RemoteWriteURL, "http://") && !strings.HasPrefix(c.Prometheus.RemoteWriteURL, "https://") {
		return fmt.Errorf("prometheus remote write URL must start with http:// or https://")
	}

	if c.Prometheus.TimeoutSec < 1 {
		return fmt.Errorf("prometheus timeout must be at least 1 second")
	}

	if (c.Prometheus.RemoteWriteUsername == "") != (c.Prometheus.RemoteWritePassword == "") {
		return fmt.Errorf("remote write username and password must be set together")
	}

	return nil
}

// validateLogging validates Logging configuration
func (c *AppConfig) validateLogging() error {
	if c.Logging.Level != "" {
		validLevels := map[string]bool{
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		}
		if !validLevels[c.Logging.Level] {
			return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
		}
	}

	if c.Logging.Promtail != nil {
		// Skip validation if Promtail URL is empty (console logging)
		if c.Logging.Promtail.URL == "" {
			return nil
		}

		if c.Logging.Promtail.BatchWaitSeconds < 1 {
			return fmt.Errorf("promtail batch wait must be at least 1 second")
		}
	}

	return nil
}

// validateScheduler validates Scheduler configuration
func (c *AppConfig) validateScheduler() error {
	if !c.Scheduler.Enabled {
		return nil
	}
	if _, err := cron.ParseStandard(c.Scheduler.Cron); err != nil {
		return fmt.Errorf("invalid scheduler cron spec %q: %w", c.Scheduler.Cron, err)
	}
	return nil
}

// validateCSVExport validates CSVExport configuration
func (c *AppConfig) validateCSVExport() error {
	if c.CSVExport.DefaultStartDays < 0 {
		return fmt.Errorf("csv export default start days cannot be negative")
	}

	if c.CSVExport.MaxExportDays < 1 {
		return fmt.Errorf("csv export max export days must be at least 1")
	}

	if c.CSVExport.DefaultStartDays > c.CSVExport.MaxExportDays {
		return fmt.Errorf("csv export default start days cannot exceed max export days")
	}

	return nil
}

// MarkDefaults marks all configuration fields as coming from defaults
func (c *AppConfig) MarkDefaults() {
	if c.ConfigSources == nil {
		c.ConfigSources = make(ConfigSourceMap)
	}
	for _, field := range []string{
		"Version", "Timezone", "Now", "OwnerID",
		"Database.Path", "Database.BusyTimeoutMs",
		"CatchUp.MaxCatchUpDays", "CatchUp.Workers", "CatchUp.MaxConflictRetries",
		"Prometheus.RemoteWriteURL", "Prometheus.RemoteWriteUsername", "Prometheus.RemoteWritePassword",
		"Prometheus.HostLabel", "Prometheus.TimeoutSec",
		"Logging.Level", "Logging.Debug",
		"Promtail.URL", "Promtail.Username", "Promtail.Password",
		"Promtail.BatchWaitSeconds",
		"Scheduler.Enabled", "Scheduler.Cron", "Scheduler.PidFile",
		"CSVExport.DefaultOutputPath", "CSVExport.DefaultStartDays", "CSVExport.MaxExportDays",
	} {
		c.ConfigSources[field] = SourceDefault
	}
}

// MergeJSONConfig merges JSON configuration into the current configuration
func (c *AppConfig) MergeJSONConfig(jsonConfig *AppConfig) {
	if c.ConfigSources == nil {
		c.ConfigSources = make(ConfigSourceMap)
	}

	// Always merge version from JSON, even if it's 0 (legacy config)
	c.Version = jsonConfig.Version
	c.ConfigSources["Version"] = SourceJSONFile

	c.mergeString(&c.Timezone, jsonConfig.Timezone, "Timezone")
	c.mergeString(&c.Now, jsonConfig.Now, "Now")
	c.mergeString(&c.OwnerID, jsonConfig.OwnerID, "OwnerID")

	if jsonConfig.Database != nil {
		if c.Database == nil {
			c.Database = &DatabaseConfig{}
		}
		c.mergeString(&c.Database.Path, jsonConfig.Database.Path, "Database.Path")
		c.mergeInt(&c.Database.BusyTimeoutMs, jsonConfig.Database.BusyTimeoutMs, "Database.BusyTimeoutMs")
	}

	if jsonConfig.CatchUp != nil {
		if c.CatchUp == nil {
			c.CatchUp = &CatchUpConfig{}
		}
		c.mergeInt(&c.CatchUp.MaxCatchUpDays, jsonConfig.CatchUp.MaxCatchUpDays, "CatchUp.MaxCatchUpDays")
		c.mergeInt(&c.CatchUp.Workers, jsonConfig.CatchUp.Workers, "CatchUp.Workers")
		c.mergeInt(&c.CatchUp.MaxConflictRetries, jsonConfig.CatchUp.MaxConflictRetries, "CatchUp.MaxConflictRetries")
	}

	if jsonConfig.Prometheus != nil {
		if c.Prometheus == nil {
			c.Prometheus = &PrometheusConfig{}
		}
		c.mergeString(&c.Prometheus.RemoteWriteURL, jsonConfig.Prometheus.RemoteWriteURL, "Prometheus.RemoteWriteURL")
		c.mergeString(&c.Prometheus.RemoteWriteUsername, jsonConfig.Prometheus.RemoteWriteUsername, "Prometheus.RemoteWriteUsername")
		c.mergeString(&c.Prometheus.RemoteWritePassword, jsonConfig.Prometheus.RemoteWritePassword, "Prometheus.RemoteWritePassword")
		c.mergeString(&c.Prometheus.HostLabel, jsonConfig.Prometheus.HostLabel, "Prometheus.HostLabel")
		c.mergeInt(&c.Prometheus.TimeoutSec, jsonConfig.Prometheus.TimeoutSec, "Prometheus.TimeoutSec")
	}

	if jsonConfig.Logging != nil {
		if c.Logging == nil {
			c.Logging = &LoggingConfig{}
		}
		c.mergeString(&c.Logging.Level, jsonConfig.Logging.Level, "Logging.Level")

		// Note: bool field
		c.Logging.Debug = jsonConfig.Logging.Debug
		c.ConfigSources["Logging.Debug"] = SourceJSONFile

		if p := jsonConfig.Logging.Promtail; p != nil {
			if c.Logging.Promtail == nil {
				c.Logging.Promtail = &PromtailConfig{}
			}
			c.mergeString(&c.Logging.Promtail.URL, p.URL, "Promtail.URL")
			c.mergeString(&c.Logging.Promtail.Username, p.Username, "Promtail.Username")
			c.mergeString(&c.Logging.Promtail.Password, p.Password, "Promtail.Password")
			c.mergeInt(&c.Logging.Promtail.BatchWaitSeconds, p.BatchWaitSeconds, "Promtail.BatchWaitSeconds")
		}
	}

	if jsonConfig.Scheduler != nil {
		if c.Scheduler == nil {
			c.Scheduler = &SchedulerConfig{}
		}
		// Note: bool field
		c.Scheduler.Enabled = jsonConfig.Scheduler.Enabled
		c.ConfigSources["Scheduler.Enabled"] = SourceJSONFile
		c.mergeString(&c.Scheduler.Cron, jsonConfig.Scheduler.Cron, "Scheduler.Cron")
		c.mergeString(&c.Scheduler.PidFile, jsonConfig.Scheduler.PidFile, "Scheduler.PidFile")
	}

	if jsonConfig.CSVExport != nil {
		if c.CSVExport == nil {
			c.CSVExport = &CSVExportConfig{}
		}
		c.mergeString(&c.CSVExport.DefaultOutputPath, jsonConfig.CSVExport.DefaultOutputPath, "CSVExport.DefaultOutputPath")
		c.mergeInt(&c.CSVExport.DefaultStartDays, jsonConfig.CSVExport.DefaultStartDays, "CSVExport.DefaultStartDays")
		c.mergeInt(&c.CSVExport.MaxExportDays, jsonConfig.CSVExport.MaxExportDays, "CSVExport.MaxExportDays")
	}
}

func (c *AppConfig) mergeString(dst *string, value, field string) {
	if value != "" {
		*dst = value
		c.ConfigSources[field] = SourceJSONFile
	}
}

func (c *AppConfig) mergeInt(dst *int, value int, field string) {
	if value != 0 {
		*dst = value
		c.ConfigSources[field] = SourceJSONFile
	}
}

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

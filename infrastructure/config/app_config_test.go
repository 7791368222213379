package config

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, config.Version)
	assert.Equal(t, "UTC", config.Timezone)
	assert.Equal(t, "local", config.OwnerID)
	assert.Empty(t, config.Now)
	assert.Equal(t, "habitflow.db", filepath.Base(config.Database.Path))
	assert.Equal(t, 400, config.CatchUp.MaxCatchUpDays)
	assert.Equal(t, 4, config.CatchUp.Workers)
	assert.Equal(t, 3, config.CatchUp.MaxConflictRetries)
	assert.Empty(t, config.Prometheus.RemoteWriteURL)
	assert.Empty(t, config.Logging.Promtail.URL)
	assert.Equal(t, "@every 15m", config.Scheduler.Cron)
	assert.NoError(t, config.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HABITFLOW_TIMEZONE", "America/New_York")
	t.Setenv("HABITFLOW_NOW", "2024-01-03T09:00:00-05:00")
	t.Setenv("HABITFLOW_DB_PATH", "/tmp/habits.db")
	t.Setenv("HABITFLOW_CATCHUP_WORKERS", "8")
	t.Setenv("HABITFLOW_LOG_LEVEL", "debug")
	t.Setenv("HABITFLOW_LOKI_URL", "http://loki:3100/loki/api/v1/push")
	t.Setenv("HABITFLOW_SCHEDULER_CRON", "5 0 * * *")

	config := DefaultConfig()
	require.NoError(t, config.LoadFromEnv())

	assert.Equal(t, "America/New_York", config.Timezone)
	assert.Equal(t, "2024-01-03T09:00:00-05:00", config.Now)
	assert.Equal(t, "/tmp/habits.db", config.Database.Path)
	assert.Equal(t, 8, config.CatchUp.Workers)
	assert.Equal(t, 400, config.CatchUp.MaxCatchUpDays)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "http://loki:3100/loki/api/v1/push", config.Logging.Promtail.URL)
	assert.Equal(t, "5 0 * * *", config.Scheduler.Cron)

	assert.Equal(t, SourceEnvironment, config.ConfigSources["Timezone"])
	assert.Equal(t, SourceEnvironment, config.ConfigSources["Database.Path"])
	assert.Equal(t, SourceEnvironment, config.ConfigSources["CatchUp.Workers"])
	assert.Equal(t, SourceEnvironment, config.ConfigSources["Promtail.URL"])
	assert.NotContains(t, config.ConfigSources, "CatchUp.MaxCatchUpDays")
	assert.NoError(t, config.Validate())
}

func TestPrecedence_DefaultsJSONEnv(t *testing.T) {
	var jsonConfig AppConfig
	require.NoError(t, json.Unmarshal([]byte(`{
		"version": 1,
		"timezone": "Asia/Tokyo",
		"owner_id": "alice",
		"catch_up": {"max_catch_up_days": 30, "workers": 2},
		"scheduler": {"enabled": false}
	}`), &jsonConfig))

	t.Setenv("HABITFLOW_OWNER_ID", "bob")

	config := DefaultConfig()
	config.MarkDefaults()
	config.MergeJSONConfig(&jsonConfig)
	require.NoError(t, config.LoadFromEnv())

	assert.Equal(t, "Asia/Tokyo", config.Timezone)
	assert.Equal(t, "bob", config.OwnerID)
	assert.Equal(t, 30, config.CatchUp.MaxCatchUpDays)
	assert.Equal(t, 2, config.CatchUp.Workers)
	assert.Equal(t, 3, config.CatchUp.MaxConflictRetries)
	assert.False(t, config.Scheduler.Enabled)

	assert.Equal(t, SourceJSONFile, config.ConfigSources["Timezone"])
	assert.Equal(t, SourceEnvironment, config.ConfigSources["OwnerID"])
	assert.Equal(t, SourceDefault, config.ConfigSources["CatchUp.MaxConflictRetries"])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr string
	}{
		{"empty owner", func(c *AppConfig) { c.OwnerID = " " }, "owner ID"},
		{"bad time override", func(c *AppConfig) { c.Now = "yesterday" }, "RFC3339"},
		{"empty db path", func(c *AppConfig) { c.Database.Path = "" }, "database path"},
		{"catch-up cap too small", func(c *AppConfig) { c.CatchUp.MaxCatchUpDays = 3 }, "at least 4"},
		{"no workers", func(c *AppConfig) { c.CatchUp.Workers = 0 }, "workers"},
		{"negative retries", func(c *AppConfig) { c.CatchUp.MaxConflictRetries = -1 }, "retries"},
		{"bad remote write scheme", func(c *AppConfig) { c.Prometheus.RemoteWriteURL = "ftp://x" }, "http://"},
		{"half remote write auth", func(c *AppConfig) {
			c.Prometheus.RemoteWriteURL = "https://prom/api/v1/write"
			c.Prometheus.RemoteWriteUsername = "user"
		}, "together"},
		{"bad log level", func(c *AppConfig) { c.Logging.Level = "verbose" }, "invalid log level"},
		{"bad promtail batch", func(c *AppConfig) {
			c.Logging.Promtail.URL = "http://loki"
			c.Logging.Promtail.BatchWaitSeconds = 0
		}, "batch wait"},
		{"bad cron", func(c *AppConfig) { c.Scheduler.Cron = "every so often" }, "cron"},
		{"export days", func(c *AppConfig) { c.CSVExport.DefaultStartDays = 1000 }, "exceed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_DisabledSchedulerIgnoresCron(t *testing.T) {
	config := DefaultConfig()
	config.Scheduler.Enabled = false
	config.Scheduler.Cron = "not a cron"

	assert.NoError(t, config.Validate())
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	assert.Equal(t, "/home/tester/.config/habitflow.db", ExpandPath("~/.config/habitflow.db"))
	assert.Equal(t, "/var/lib/habitflow.db", ExpandPath("/var/lib/habitflow.db"))
	assert.Equal(t, "relative.db", ExpandPath("relative.db"))
}

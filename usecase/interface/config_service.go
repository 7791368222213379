package usecase

import (
	"github.com/ca-srg/habitflow/infrastructure/config"
)

// ConfigService manages the layered configuration (defaults, JSON file, environment)
type ConfigService interface {
	// GetConfig returns the current configuration
	GetConfig() *config.AppConfig

	// GetConfigWithSources returns the configuration and where each field came from
	GetConfigWithSources() (*config.AppConfig, config.ConfigSourceMap)

	// UpdateConfig validates and saves a new configuration
	UpdateConfig(newConfig *config.AppConfig) error

	// ReloadConfig reads the file and environment again
	ReloadConfig() error

	// GetConfigPath returns the config file path
	GetConfigPath() string

	// EnsureConfigExists writes a template file if none exists
	EnsureConfigExists() error

	// ExportConfig returns the configuration with secrets masked
	ExportConfig() map[string]interface{}
}

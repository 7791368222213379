package repository

import (
	"github.com/ca-srg/habitflow/infrastructure/config"
)

// ConfigRepository reads and writes the JSON configuration file
type ConfigRepository interface {
	// Exists reports whether the configuration file is present
	Exists() (bool, error)

	// Load reads the configuration file
	Load() (*config.AppConfig, error)

	// Save writes the configuration file with owner-only permissions
	Save(config *config.AppConfig) error

	// GetConfigPath returns the configuration file path
	GetConfigPath() string

	// EnsureConfigDir creates the configuration directory if needed
	EnsureConfigDir() error

	// Validate checks a configuration before it is saved
	Validate(config *config.AppConfig) error
}

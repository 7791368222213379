package impl

import (
	"context"
	"fmt"
	"sync"

	"github.com/ca-srg/habitflow/domain"
	"github.com/ca-srg/habitflow/domain/repository"
	"github.com/ca-srg/habitflow/infrastructure/config"
)

const maskedSecret = "****"

// ConfigServiceImpl implements ConfigService
type ConfigServiceImpl struct {
	configRepo repository.ConfigRepository
	config     *config.AppConfig
	logger     domain.Logger
	mu         sync.RWMutex
}

// NewConfigService loads defaults, then config.json, then the environment
func NewConfigService(configRepo repository.ConfigRepository, logger domain.Logger) (*ConfigServiceImpl, error) {
	cfg, err := loadConfigWithMigration(configRepo, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &ConfigServiceImpl{
		configRepo: configRepo,
		config:     cfg,
		logger:     logger,
	}, nil
}

// loadConfigWithMigration loads the layered configuration and rewrites a
// config file that predates the current schema version
func loadConfigWithMigration(configRepo repository.ConfigRepository, logger domain.Logger) (*config.AppConfig, error) {
	ctx := context.Background()

	cfg, fileVersion, err := loadConfigWithFallback(configRepo, logger)
	if err != nil {
		return nil, err
	}
	if fileVersion < 0 || fileVersion >= config.CurrentConfigVersion {
		return cfg, nil
	}

	logger.Info(ctx, "Configuration migration required",
		domain.NewField("current_version", fileVersion),
		domain.NewField("target_version", config.CurrentConfigVersion))

	cfg.Version = config.CurrentConfigVersion
	// Only the file's own values are written back, never the environment
	if err := migrateConfigFile(configRepo); err != nil {
		// The migrated values are still used for this run
		logger.Error(ctx, "Failed to save migrated configuration", domain.ErrorField(err))
	} else {
		logger.Info(ctx, "Migrated configuration saved",
			domain.NewField("config_path", configRepo.GetConfigPath()))
	}
	return cfg, nil
}

func migrateConfigFile(configRepo repository.ConfigRepository) error {
	fileConfig, err := configRepo.Load()
	if err != nil {
		return err
	}
	if fileConfig == nil {
		return nil
	}
	fileConfig.Version = config.CurrentConfigVersion
	return configRepo.Save(fileConfig)
}

// loadConfigWithFallback merges defaults < JSON < environment. A file that
// cannot be read is skipped; a merged result that fails validation is
// replaced by the defaults. fileVersion is -1 when no file was merged.
func loadConfigWithFallback(configRepo repository.ConfigRepository, logger domain.Logger) (cfg *config.AppConfig, fileVersion int, err error) {
	ctx := context.Background()
	fileVersion = -1

	cfg = config.DefaultConfig()
	cfg.MarkDefaults()
	logger.Debug(ctx, "Loading configuration", domain.NewField("config_path", configRepo.GetConfigPath()))

	jsonConfig, loadErr := configRepo.Load()
	switch {
	case loadErr != nil:
		logger.Warn(ctx, "Failed to load JSON configuration, using defaults",
			domain.ErrorField(loadErr),
			domain.NewField("config_path", configRepo.GetConfigPath()))
	case jsonConfig != nil:
		cfg.MergeJSONConfig(jsonConfig)
		fileVersion = jsonConfig.Version
		logger.Debug(ctx, "Loaded JSON configuration",
			domain.NewField("config_path", configRepo.GetConfigPath()))
	default:
		logger.Debug(ctx, "No JSON configuration file found, using defaults",
			domain.NewField("config_path", configRepo.GetConfigPath()))
	}

	if envErr := cfg.LoadFromEnv(); envErr != nil {
		logger.Warn(ctx, "Failed to load environment variables, using file values",
			domain.ErrorField(envErr))
	}

	if validErr := cfg.Validate(); validErr != nil {
		logger.Warn(ctx, "Configuration validation failed, using default values",
			domain.ErrorField(validErr))
		cfg = config.DefaultConfig()
		cfg.MarkDefaults()
		return cfg, -1, nil
	}

	return cfg, fileVersion, nil
}

func (s *ConfigServiceImpl) GetConfig() *config.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

func (s *ConfigServiceImpl) GetConfigWithSources() (*config.AppConfig, config.ConfigSourceMap) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config, s.config.ConfigSources
}

// UpdateConfig validates newConfig, saves it and swaps it in
func (s *ConfigServiceImpl) UpdateConfig(newConfig *config.AppConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := newConfig.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := s.configRepo.Save(newConfig); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	s.config = newConfig
	return nil
}

func (s *ConfigServiceImpl) ReloadConfig() error {
	ctx := context.Background()
	s.mu.Lock()
	defer s.mu.Unlock()

	newConfig, err := loadConfigWithMigration(s.configRepo, s.logger)
	if err != nil {
		s.logger.Error(ctx, "Failed to reload configuration", domain.ErrorField(err))
		return fmt.Errorf("failed to reload config: %w", err)
	}
	s.config = newConfig
	s.logger.Info(ctx, "Configuration reloaded")
	return nil
}

func (s *ConfigServiceImpl) GetConfigPath() string {
	return s.configRepo.GetConfigPath()
}

// EnsureConfigExists writes the defaults as a template when no file exists
func (s *ConfigServiceImpl) EnsureConfigExists() error {
	ctx := context.Background()
	s.mu.Lock()
	defer s.mu.Unlock()

	configPath := s.configRepo.GetConfigPath()
	exists, err := s.configRepo.Exists()
	if err != nil {
		return fmt.Errorf("failed to check config existence: %w", err)
	}
	if exists {
		s.logger.Debug(ctx, "Configuration file already exists", domain.NewField("config_path", configPath))
		return nil
	}

	s.logger.Info(ctx, "Configuration file not found, creating template",
		domain.NewField("config_path", configPath))

	template := config.DefaultConfig()
	if err := s.configRepo.Save(template); err != nil {
		s.logger.Error(ctx, "Failed to create template configuration",
			domain.ErrorField(err),
			domain.NewField("config_path", configPath))
		return fmt.Errorf("failed to create template config: %w", err)
	}
	template.MarkDefaults()
	s.config = template
	return nil
}

// ExportConfig renders the configuration as a map with passwords masked
func (s *ConfigServiceImpl) ExportConfig() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.config
	out := map[string]interface{}{
		"version":  c.Version,
		"timezone": c.Timezone,
		"owner_id": c.OwnerID,
	}
	if c.Now != "" {
		out["now"] = c.Now
	}

	if c.Database != nil {
		out["database"] = map[string]interface{}{
			"path":            c.Database.Path,
			"busy_timeout_ms": c.Database.BusyTimeoutMs,
		}
	}

	if c.CatchUp != nil {
		out["catch_up"] = map[string]interface{}{
			"max_catch_up_days":    c.CatchUp.MaxCatchUpDays,
			"workers":              c.CatchUp.Workers,
			"max_conflict_retries": c.CatchUp.MaxConflictRetries,
		}
	}

	if c.Prometheus != nil {
		out["prometheus"] = map[string]interface{}{
			"remote_write_url":      c.Prometheus.RemoteWriteURL,
			"remote_write_username": c.Prometheus.RemoteWriteUsername,
			"remote_write_password": mask(c.Prometheus.RemoteWritePassword),
			"host_label":            c.Prometheus.HostLabel,
			"timeout_seconds":       c.Prometheus.TimeoutSec,
		}
	}

	if c.Logging != nil {
		logging := map[string]interface{}{
			"level": c.Logging.Level,
			"debug": c.Logging.Debug,
		}
		if p := c.Logging.Promtail; p != nil {
			logging["promtail"] = map[string]interface{}{
				"url":                p.URL,
				"username":           p.Username,
				"password":           mask(p.Password),
				"batch_wait_seconds": p.BatchWaitSeconds,
			}
		}
		out["logging"] = logging
	}

	if c.Scheduler != nil {
		out["scheduler"] = map[string]interface{}{
			"enabled":  c.Scheduler.Enabled,
			"cron":     c.Scheduler.Cron,
			"pid_file": c.Scheduler.PidFile,
		}
	}

	if c.CSVExport != nil {
		out["csv_export"] = map[string]interface{}{
			"default_output_path": c.CSVExport.DefaultOutputPath,
			"default_start_days":  c.CSVExport.DefaultStartDays,
			"max_export_days":     c.CSVExport.MaxExportDays,
		}
	}

	sources := make(map[string]string, len(c.ConfigSources))
	for key, source := range c.ConfigSources {
		sources[key] = string(source)
	}
	out["_sources"] = sources

	return out
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return maskedSecret
}

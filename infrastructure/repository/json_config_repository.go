package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/ca-srg/habitflow/infrastructure/config"
)

const maxConfigBackups = 5

// JSONConfigRepository stores the configuration as JSON under ~/.config/habitflow
type JSONConfigRepository struct {
	configDir  string
	configFile string
	now        func() time.Time
}

// NewJSONConfigRepository creates a repository rooted at the default config directory
func NewJSONConfigRepository() *JSONConfigRepository {
	return NewJSONConfigRepositoryAt(config.DefaultConfigDir())
}

// NewJSONConfigRepositoryAt creates a repository rooted at dir
func NewJSONConfigRepositoryAt(dir string) *JSONConfigRepository {
	return &JSONConfigRepository{
		configDir:  dir,
		configFile: filepath.Join(dir, "config.json"),
		now:        time.Now,
	}
}

// Exists reports whether the config file is present
func (r *JSONConfigRepository) Exists() (bool, error) {
	_, err := os.Stat(r.configFile)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check config file existence: %w", err)
}

// Load reads the config file. A missing file returns nil without error.
func (r *JSONConfigRepository) Load() (*config.AppConfig, error) {
	exists, err := r.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	if err := r.ensureSecurePermissions(r.configFile, false); err != nil {
		return nil, fmt.Errorf("config file security check failed: %w", err)
	}

	data, err := os.ReadFile(r.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg config.AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Save validates cfg and writes it atomically with 0600 permissions,
// keeping a timestamped backup of the previous file
func (r *JSONConfigRepository) Save(cfg *config.AppConfig) error {
	if err := r.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if err := r.EnsureConfigDir(); err != nil {
		return err
	}

	exists, err := r.Exists()
	if err != nil {
		return err
	}
	if exists {
		if err := r.Backup(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to create backup: %v\n", err)
		}
	}

	if cfg.Version == 0 {
		cfg.Version = config.CurrentConfigVersion
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpFile := r.configFile + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp config file: %w", err)
	}
	if err := os.Rename(tmpFile, r.configFile); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	if err := r.ensureSecurePermissions(r.configFile, false); err != nil {
		return fmt.Errorf("failed to secure config file: %w", err)
	}
	return nil
}

// GetConfigPath returns the config file path
func (r *JSONConfigRepository) GetConfigPath() string {
	return r.configFile
}

// EnsureConfigDir creates the config directory with 0700 permissions
func (r *JSONConfigRepository) EnsureConfigDir() error {
	if err := os.MkdirAll(r.configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := r.ensureSecurePermissions(r.configDir, true); err != nil {
		return fmt.Errorf("failed to secure config directory: %w", err)
	}
	return nil
}

// Backup copies the current config file aside, keeping the newest five copies
func (r *JSONConfigRepository) Backup() error {
	exists, err := r.Exists()
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	data, err := os.ReadFile(r.configFile)
	if err != nil {
		return fmt.Errorf("failed to read config file for backup: %w", err)
	}

	backupFile := fmt.Sprintf("%s.backup.%s", r.configFile, r.now().Format("20060102-150405.000"))
	if err := os.WriteFile(backupFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}

	return r.cleanupOldBackups()
}

// Validate checks cfg as it would be used, on top of the defaults. A file only
// needs the fields it overrides.
func (r *JSONConfigRepository) Validate(cfg *config.AppConfig) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	merged := config.DefaultConfig()
	merged.MergeJSONConfig(cfg)
	return merged.Validate()
}

func (r *JSONConfigRepository) cleanupOldBackups() error {
	matches, err := filepath.Glob(r.configFile + ".backup.*")
	if err != nil {
		return err
	}
	if len(matches) <= maxConfigBackups {
		return nil
	}

	// Timestamps sort lexically
	sort.Strings(matches)
	for _, old := range matches[:len(matches)-maxConfigBackups] {
		if err := os.Remove(old); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove old backup %s: %v\n", old, err)
		}
	}
	return nil
}

func (r *JSONConfigRepository) ensureSecurePermissions(path string, isDir bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	expectedMode := os.FileMode(0600)
	if isDir {
		expectedMode = 0700
	}
	if info.Mode().Perm() != expectedMode {
		if err := os.Chmod(path, expectedMode); err != nil {
			return fmt.Errorf("failed to set permissions: %w", err)
		}
	}

	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		if uid := uint32(os.Getuid()); stat.Uid != uid {
			return fmt.Errorf("ownership check failed: file is not owned by current user (uid: %d, expected: %d)", stat.Uid, uid)
		}
	}
	return nil
}

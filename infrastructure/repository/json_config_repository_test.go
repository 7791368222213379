package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ca-srg/habitflow/infrastructure/config"
)

func TestJSONConfigRepository_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	repo := NewJSONConfigRepositoryAt(filepath.Join(dir, "habitflow"))

	exists, err := repo.Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	cfg := &config.AppConfig{
		Timezone: "Asia/Tokyo",
		OwnerID:  "alice",
		CatchUp:  &config.CatchUpConfig{MaxCatchUpDays: 30},
		Prometheus: &config.PrometheusConfig{
			RemoteWriteURL:      "http://prometheus:9090/api/v1/write",
			RemoteWriteUsername: "user",
			RemoteWritePassword: "secret-pass",
		},
	}
	require.NoError(t, repo.Save(cfg))

	info, err := os.Stat(repo.GetConfigPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Join(dir, "habitflow"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())

	loaded, err = repo.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, config.CurrentConfigVersion, loaded.Version)
	assert.Equal(t, "Asia/Tokyo", loaded.Timezone)
	assert.Equal(t, 30, loaded.CatchUp.MaxCatchUpDays)
	assert.Equal(t, "secret-pass", loaded.Prometheus.RemoteWritePassword)
}

func TestJSONConfigRepository_Validate(t *testing.T) {
	repo := NewJSONConfigRepositoryAt(t.TempDir())

	assert.Error(t, repo.Validate(nil))
	assert.NoError(t, repo.Validate(&config.AppConfig{}), "an empty file keeps every default")
	assert.Error(t, repo.Validate(&config.AppConfig{CatchUp: &config.CatchUpConfig{MaxCatchUpDays: 2}}))
	assert.Error(t, repo.Save(&config.AppConfig{Now: "yesterday"}))

	exists, err := repo.Exists()
	require.NoError(t, err)
	assert.False(t, exists, "an invalid config is never written")
}

func TestJSONConfigRepository_BackupRotation(t *testing.T) {
	repo := NewJSONConfigRepositoryAt(t.TempDir())
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	for i := 0; i < 8; i++ {
		require.NoError(t, repo.Save(&config.AppConfig{OwnerID: "alice"}))
	}

	backups, err := filepath.Glob(repo.GetConfigPath() + ".backup.*")
	require.NoError(t, err)
	assert.Len(t, backups, maxConfigBackups)
}

func TestJSONConfigRepository_FixesPermissions(t *testing.T) {
	repo := NewJSONConfigRepositoryAt(t.TempDir())
	require.NoError(t, repo.Save(&config.AppConfig{OwnerID: "alice"}))
	require.NoError(t, os.Chmod(repo.GetConfigPath(), 0644))

	_, err := repo.Load()
	require.NoError(t, err)

	info, err := os.Stat(repo.GetConfigPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestJSONConfigRepository_InvalidJSON(t *testing.T) {
	repo := NewJSONConfigRepositoryAt(t.TempDir())
	require.NoError(t, repo.EnsureConfigDir())
	require.NoError(t, os.WriteFile(repo.GetConfigPath(), []byte("{not json"), 0600))

	_, err := repo.Load()
	assert.ErrorContains(t, err, "failed to unmarshal config")
}

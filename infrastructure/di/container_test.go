package di

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraRepo "github.com/ca-srg/habitflow/infrastructure/repository"
)

func newTestContainer(t *testing.T, opts ...ContainerOption) *Container {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HABITFLOW_DB_PATH", filepath.Join(dir, "data", "habitflow.db"))
	t.Setenv("HABITFLOW_TIMEZONE", "Asia/Tokyo")
	t.Setenv("HABITFLOW_NOW", "")
	t.Setenv("HABITFLOW_PROMETHEUS_REMOTE_WRITE_URL", "")
	t.Setenv("HABITFLOW_LOKI_URL", "")

	c, err := NewContainer(append([]ContainerOption{WithConfigDir(dir)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewContainer(t *testing.T) {
	c := newTestContainer(t)

	assert.FileExists(t, c.GetConfigService().GetConfigPath())
	assert.FileExists(t, c.GetConfig().Database.Path)
	assert.Equal(t, "Asia/Tokyo", c.GetConfig().Timezone)
	assert.IsType(t, &infraRepo.NoOpMetricsRepository{}, c.metricsRepo)

	svc := c.Services()
	require.NotNil(t, svc)
	assert.NotNil(t, svc.Habits)
	assert.NotNil(t, svc.CatchUp)
	assert.NotNil(t, svc.Completion)
	assert.NotNil(t, svc.Export)
	assert.NotNil(t, svc.Scheduler)
	assert.False(t, svc.Now().IsZero())
}

func TestNewContainerClockOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HABITFLOW_DB_PATH", filepath.Join(dir, "habitflow.db"))
	t.Setenv("HABITFLOW_NOW", "2024-01-02T03:04:05Z")

	c, err := NewContainer(WithConfigDir(dir))
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.Equal(t, "2024-01-02T03:04:05Z", c.Services().Now().UTC().Format("2006-01-02T15:04:05Z"))
}

func TestWithDebugMode(t *testing.T) {
	c := newTestContainer(t, WithDebugMode(true))

	assert.True(t, c.GetConfig().Logging.Debug)
	assert.Equal(t, "debug", c.GetConfig().Logging.Level)
}

func TestContainerClose(t *testing.T) {
	c := newTestContainer(t)

	assert.NoError(t, c.Close())
}

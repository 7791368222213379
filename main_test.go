package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDebugFlag(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantArgs  []string
		wantDebug bool
	}{
		{"no flag", []string{"list"}, []string{"list"}, false},
		{"leading", []string{"--debug", "resolve"}, []string{"resolve"}, true},
		{"trailing", []string{"done", "Read", "--debug"}, []string{"done", "Read"}, true},
		{"after terminator", []string{"add", "--", "--debug"}, []string{"add", "--", "--debug"}, false},
		{"empty", nil, []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, debug := splitDebugFlag(tt.args)
			assert.Equal(t, tt.wantArgs, args)
			assert.Equal(t, tt.wantDebug, debug)
		})
	}
}

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HABITFLOW_CONFIG_DIR", dir)
	t.Setenv("HABITFLOW_DB_PATH", filepath.Join(dir, "habitflow.db"))
	t.Setenv("HABITFLOW_TIMEZONE", "UTC")
	t.Setenv("HABITFLOW_OWNER_ID", "local")
	t.Setenv("HABITFLOW_NOW", "2024-01-01T09:00:00Z")
	t.Setenv("HABITFLOW_PROMETHEUS_REMOTE_WRITE_URL", "")
	t.Setenv("HABITFLOW_LOKI_URL", "")
	return dir
}

func TestRun(t *testing.T) {
	dir := setupEnv(t)

	var out, errOut bytes.Buffer
	code := run([]string{"add", "Water", "plants"}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())
	assert.Contains(t, out.String(), `Created habit "Water plants"`)
	assert.FileExists(t, filepath.Join(dir, "config.json"))

	out.Reset()
	code = run([]string{"done", "Water plants"}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())
	assert.Contains(t, out.String(), "done for 2024-01-01")

	out.Reset()
	errOut.Reset()
	code = run([]string{"done", "Water plants"}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "already done today")
}

func TestRunUnknownCommand(t *testing.T) {
	setupEnv(t)

	var out, errOut bytes.Buffer
	code := run([]string{"fly"}, &out, &errOut)

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "unknown command")
}

// TestBinarySmoke builds the binary and runs it against a scratch config
func TestBinarySmoke(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "1" {
		t.Skip("Skipping integration test")
	}

	bin := filepath.Join(t.TempDir(), "habitflow-test")
	build := exec.Command("go", "build", "-o", bin, ".")
	require.NoError(t, build.Run())

	dir := t.TempDir()
	env := append(os.Environ(),
		"HABITFLOW_CONFIG_DIR="+dir,
		"HABITFLOW_DB_PATH="+filepath.Join(dir, "habitflow.db"),
	)

	for _, args := range [][]string{
		{"add", "Read"},
		{"--format", "json", "resolve"},
		{"config", "show"},
	} {
		cmd := exec.Command(bin, args...)
		cmd.Env = env
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			t.Fatalf("%v failed: %v\nstderr: %s", args, err, stderr.String())
		}
	}
}

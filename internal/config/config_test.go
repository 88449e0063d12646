package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProjectConfig(t *testing.T) {
	t.Run("valid config loads", func(t *testing.T) {
		cfg, err := LoadProjectConfig(filepath.Join("testdata", "valid_config.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "test-project", cfg.Project)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, 80, cfg.Run.Steps)
		require.NotNil(t, cfg.Run.Seed)
		assert.Equal(t, uint64(7), *cfg.Run.Seed)
		assert.Equal(t, "sqlite://transcripts.db", cfg.Store.DSN)
		assert.Len(t, cfg.Scenarios, 2)
	})

	t.Run("defaults applied", func(t *testing.T) {
		cfg, err := LoadProjectConfig(writeTempConfig(t, "project: test\nversion: 1\n"))
		require.NoError(t, err)
		assert.Equal(t, "text", cfg.Log.Format)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Nil(t, cfg.Run.Seed)
		assert.Empty(t, cfg.Store.DSN)
	})

	tests := []struct {
		name     string
		contents string
	}{
		{name: "missing project name", contents: "version: 1\n"},
		{name: "wrong version", contents: "project: test\nversion: 2\n"},
		{name: "bad log format", contents: "project: test\nversion: 1\nlog:\n  format: xml\n"},
		{name: "bad log level", contents: "project: test\nversion: 1\nlog:\n  level: loud\n"},
		{name: "negative steps", contents: "project: test\nversion: 1\nrun:\n  steps: -3\n"},
		{name: "bad dsn scheme", contents: "project: test\nversion: 1\nstore:\n  dsn: mysql://db\n"},
		{name: "scenario missing name", contents: "project: test\nversion: 1\nscenarios:\n  - path: a.yaml\n"},
		{name: "scenario missing path", contents: "project: test\nversion: 1\nscenarios:\n  - name: a\n"},
		{name: "duplicate scenario names", contents: "project: test\nversion: 1\nscenarios:\n  - name: ball\n    path: a.yaml\n  - name: Ball\n    path: b.yaml\n"},
		{name: "invalid yaml", contents: "project: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadProjectConfig(writeTempConfig(t, tt.contents))
			assert.Error(t, err)
		})
	}

	t.Run("file not found", func(t *testing.T) {
		_, err := LoadProjectConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestScenarioPath(t *testing.T) {
	cfg, err := LoadProjectConfig(filepath.Join("testdata", "valid_config.yaml"))
	require.NoError(t, err)

	path, ok := cfg.ScenarioPath("Ball")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("testdata", "scenarios", "ball.yaml"), path)

	path, ok = cfg.ScenarioPath("bedroom")
	require.True(t, ok)
	assert.Equal(t, "/srv/smew/bedroom.yaml", path)

	_, ok = cfg.ScenarioPath("western")
	assert.False(t, ok)
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "smew.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Store.DSN)
	require.NoError(t, validateProjectConfig(cfg))
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)

	cfg, err := Load("", fs, nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.HighSensitivity)
}

func TestLoadFileThenFlagOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doorwatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\nhigh_sensitivity: true\n"), 0o644))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg, err := Load(path, fs, []string{"--log-level=warn"})
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel, "flag should win over file")
	assert.True(t, cfg.HighSensitivity, "file-only setting should still apply")
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)

	_, err := Load("/nonexistent/doorwatch.yaml", fs, nil)
	assert.NoError(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GENIUS_ACCESS_TOKEN", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := Load()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "hot-100", cfg.ChartName)
	assert.Equal(t, "love", cfg.Pattern)
	assert.Equal(t, StartDate, cfg.StartDate)
	assert.Equal(t, "all_songs.csv", cfg.SongsFile)
	assert.ErrorIs(t, cfg.RequireToken(), ErrMissingToken)
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("GENIUS_ACCESS_TOKEN=from-file\nLOG_LEVEL=debug\n"), 0o644))
	t.Setenv("GENIUS_ACCESS_TOKEN", "")
	t.Setenv("LOG_LEVEL", "warn")
	os.Unsetenv("GENIUS_ACCESS_TOKEN")

	cfg := Load()

	assert.Equal(t, "from-file", cfg.GeniusToken)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.NoError(t, cfg.RequireToken())
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

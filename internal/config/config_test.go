package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerrors "github.com/yashkamboj/portfolio/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Notifications.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Notifications.Backoff)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.GeneralWindow)
	assert.Equal(t, 10, cfg.RateLimit.StrictPerWindow)
	assert.Equal(t, time.Hour, cfg.RateLimit.StrictWindow)
	assert.Empty(t, cfg.Mail.Host)
	assert.Equal(t, "@every 30m", cfg.Monitor.Schedule)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("app:\n  env: production\nserver:\n  port: 4000\nmail:\n  host: smtp.example.com\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("SERVER_PORT", "8080")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 8080, cfg.Server.Port, "environment wins over the file")
	assert.Equal(t, "smtp.example.com", cfg.Mail.Host)
	assert.Equal(t, 587, cfg.Mail.Port)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [port: 1\n"), 0o600))

	_, err := Load(dir)
	var loadErr customerrors.ErrConfigLoad
	require.True(t, errors.As(err, &loadErr), "unexpected error %v", err)
	assert.Contains(t, loadErr.Path, "config.yaml")
}

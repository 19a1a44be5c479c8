package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keystroker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Zero(t, config.Keys.Delay)
	assert.Zero(t, config.Keys.Pause)
	assert.True(t, config.Keys.TurnOffNumLock)
	assert.False(t, config.Notifications.Enabled)
	assert.Equal(t, "info", config.Logging.Level)
	assert.NotEmpty(t, config.Lock.Path)
	assert.NoError(t, validateConfig(config))
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
keys:
  delay: 1.5
  pause: 0.02
  with_spaces: true
  turn_off_numlock: false
trigger:
  hotkey: ctrl+shift+f9
logging:
  level: debug
lock:
  retry_attempts: 3
`)

	config, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, 1.5, config.Keys.Delay)
	assert.True(t, config.Keys.WithSpaces)
	assert.False(t, config.Keys.TurnOffNumLock)
	assert.Equal(t, "ctrl+shift+f9", config.Trigger.Hotkey)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, 3, config.Lock.RetryAttempts)
	// untouched sections keep their defaults
	assert.Equal(t, 200, config.Lock.RetryDelayMS)
	assert.True(t, config.Notifications.ShowErrors)

	opts := config.SendOptions()
	assert.Equal(t, 20*time.Millisecond, opts.Pause)
	assert.True(t, opts.WithSpaces)
	assert.False(t, opts.TurnOffNumLock)
}

func TestLoadConfigFileErrors(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfigFile(writeConfig(t, "keys: [not, a, map]"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"negative pause", func(c *Config) { c.Keys.Pause = -1 }, "pause must be non-negative, got: -1"},
		{"negative delay", func(c *Config) { c.Keys.Delay = -0.5 }, "delay must be non-negative, got: -0.5"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "invalid log level: loud"},
		{"bad hotkey", func(c *Config) { c.Trigger.Hotkey = "ctrl+nope" }, "invalid trigger hotkey"},
		{"empty lock path", func(c *Config) { c.Lock.Path = "" }, "lock path cannot be empty"},
		{"no lock attempts", func(c *Config) { c.Lock.RetryAttempts = 0 }, "lock retry attempts must be at least 1"},
		{"negative lock delay", func(c *Config) { c.Lock.RetryDelayMS = -1 }, "lock retry delay must be non-negative"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := DefaultConfig()
			test.modify(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.want)
		})
	}
}

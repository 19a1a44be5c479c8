package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// defaultConfigPath is read when present and no --config is given
const defaultConfigPath = "keystroker.yaml"

// Config represents the complete application configuration
type Config struct {
	Keys struct {
		Delay          float64 `yaml:"delay"`
		Pause          float64 `yaml:"pause"`
		WithSpaces     bool    `yaml:"with_spaces"`
		WithTabs       bool    `yaml:"with_tabs"`
		WithNewlines   bool    `yaml:"with_newlines"`
		TurnOffNumLock bool    `yaml:"turn_off_numlock"`
	} `yaml:"keys"`
	Trigger struct {
		Hotkey string `yaml:"hotkey"`
		Repeat bool   `yaml:"repeat"`
	} `yaml:"trigger"`
	Notifications struct {
		Enabled     bool `yaml:"enabled"`
		ShowSuccess bool `yaml:"show_success"`
		ShowErrors  bool `yaml:"show_errors"`
	} `yaml:"notifications"`
	Logging struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Lock struct {
		Path          string `yaml:"path"`
		RetryAttempts int    `yaml:"retry_attempts"`
		RetryDelayMS  int    `yaml:"retry_delay_ms"`
	} `yaml:"lock"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	config := &Config{}

	// Keys defaults
	config.Keys.Delay = 0
	config.Keys.Pause = 0
	config.Keys.TurnOffNumLock = true

	// Notification defaults
	config.Notifications.Enabled = false
	config.Notifications.ShowSuccess = true
	config.Notifications.ShowErrors = true

	// Logging defaults
	config.Logging.Level = "info"

	// Lock defaults
	config.Lock.Path = filepath.Join(os.TempDir(), "keystroker.lock")
	config.Lock.RetryAttempts = 10
	config.Lock.RetryDelayMS = 200

	return config
}

// LoadConfigFile loads defaults overlaid with the YAML file at path. An empty
// path reads keystroker.yaml from the working directory if it exists.
func LoadConfigFile(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err != nil {
			return config, nil
		}
		path = defaultConfigPath
	}

	if err := loadConfigFromFile(config, path); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return config, nil
}

// loadConfigFromFile loads configuration from a YAML file
func loadConfigFromFile(config *Config, filename string) error {
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, config)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if config.Keys.Delay < 0 {
		return fmt.Errorf("delay must be non-negative, got: %g", config.Keys.Delay)
	}

	if config.Keys.Pause < 0 {
		return fmt.Errorf("pause must be non-negative, got: %g", config.Keys.Pause)
	}

	if _, err := logrus.ParseLevel(config.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	if config.Trigger.Hotkey != "" {
		if _, err := ParseTriggerHotkey(config.Trigger.Hotkey); err != nil {
			return fmt.Errorf("invalid trigger hotkey: %w", err)
		}
	}

	if config.Trigger.Repeat && config.Trigger.Hotkey == "" {
		return fmt.Errorf("repeat requires a trigger hotkey")
	}

	if config.Lock.Path == "" {
		return fmt.Errorf("lock path cannot be empty")
	}

	if config.Lock.RetryAttempts < 1 {
		return fmt.Errorf("lock retry attempts must be at least 1, got: %d", config.Lock.RetryAttempts)
	}

	if config.Lock.RetryDelayMS < 0 {
		return fmt.Errorf("lock retry delay must be non-negative, got: %d", config.Lock.RetryDelayMS)
	}

	return nil
}

// SendOptions converts the keys section for SendEvents
func (c *Config) SendOptions() SendOptions {
	return SendOptions{
		Pause:          seconds(c.Keys.Pause),
		WithSpaces:     c.Keys.WithSpaces,
		WithTabs:       c.Keys.WithTabs,
		WithNewlines:   c.Keys.WithNewlines,
		TurnOffNumLock: c.Keys.TurnOffNumLock,
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

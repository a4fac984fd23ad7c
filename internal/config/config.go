// Package config handles pauser configuration using Viper.
//
// Configuration sources (in priority order):
//  1. Environment variables (PAUSER_*)
//  2. Config file (<user config dir>/pauser/config.yaml)
//  3. Built-in defaults
//
// Command-line flags override all of these and are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/musher-dev/pauser/internal/paths"
)

const (
	// DefaultPollInterval is the default bounded-wait slice.
	DefaultPollInterval = time.Second
	// DefaultPauseMessage is the default acknowledgment prompt.
	DefaultPauseMessage = "enter any key to exit..."
)

// Keys.
const (
	KeyPollInterval = "poll.interval"
	KeyPauseEnabled = "pause.enabled"
	KeyPauseMessage = "pause.message"
	KeyConsoleTitle = "console.title"
)

// Config holds the pauser configuration.
type Config struct {
	v *viper.Viper
}

// Load reads configuration from all sources. A missing config file is not an
// error; a malformed one is.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault(KeyPollInterval, DefaultPollInterval)
	v.SetDefault(KeyPauseEnabled, true)
	v.SetDefault(KeyPauseMessage, DefaultPauseMessage)
	v.SetDefault(KeyConsoleTitle, true)

	if configDir, err := paths.ConfigRoot(); err == nil {
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("PAUSER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return &Config{v: v}, fmt.Errorf("read config file: %w", err)
		}
	}

	return &Config{v: v}, nil
}

// Get returns a configuration value.
func (c *Config) Get(key string) interface{} {
	return c.v.Get(key)
}

// All returns all configuration as a map.
func (c *Config) All() map[string]interface{} {
	return c.v.AllSettings()
}

// File returns the config file in use, or "" when none was found.
func (c *Config) File() string {
	return c.v.ConfigFileUsed()
}

// PollInterval returns the bounded-wait slice.
func (c *Config) PollInterval() time.Duration {
	return c.v.GetDuration(KeyPollInterval)
}

// PauseEnabled reports whether pauser waits for acknowledgment before exiting.
func (c *Config) PauseEnabled() bool {
	return c.v.GetBool(KeyPauseEnabled)
}

// PauseMessage returns the text shown next to the Waiting label.
func (c *Config) PauseMessage() string {
	if msg := c.v.GetString(KeyPauseMessage); msg != "" {
		return msg
	}

	return DefaultPauseMessage
}

// TitleEnabled reports whether the console title is set to the target path.
func (c *Config) TitleEnabled() bool {
	return c.v.GetBool(KeyConsoleTitle)
}

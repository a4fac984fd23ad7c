package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// unsetEnvForTest unsets an environment variable and registers cleanup to
// restore its original state (including distinguishing "unset" from "set to
// empty string").
func unsetEnvForTest(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

// isolate points the config root at an empty temp dir and clears PAUSER_*.
func isolate(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)

	unsetEnvForTest(t, "PAUSER_POLL_INTERVAL")
	unsetEnvForTest(t, "PAUSER_PAUSE_ENABLED")
	unsetEnvForTest(t, "PAUSER_PAUSE_MESSAGE")
	unsetEnvForTest(t, "PAUSER_CONSOLE_TITLE")

	return root
}

func writeConfig(t *testing.T, root, body string) {
	t.Helper()

	dir := filepath.Join(root, "pauser")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name     string
		accessor func(*Config) interface{}
		want     interface{}
	}{
		{
			name:     "default poll interval",
			accessor: func(c *Config) interface{} { return c.PollInterval() },
			want:     DefaultPollInterval,
		},
		{
			name:     "pause enabled",
			accessor: func(c *Config) interface{} { return c.PauseEnabled() },
			want:     true,
		},
		{
			name:     "default pause message",
			accessor: func(c *Config) interface{} { return c.PauseMessage() },
			want:     DefaultPauseMessage,
		},
		{
			name:     "title enabled",
			accessor: func(c *Config) interface{} { return c.TitleEnabled() },
			want:     true,
		},
		{
			name:     "no config file",
			accessor: func(c *Config) interface{} { return c.File() },
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.accessor(cfg); got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestLoad_FromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		envVal   string
		accessor func(*Config) interface{}
		want     interface{}
	}{
		{
			name:     "poll interval from env",
			envVar:   "PAUSER_POLL_INTERVAL",
			envVal:   "250ms",
			accessor: func(c *Config) interface{} { return c.PollInterval() },
			want:     250 * time.Millisecond,
		},
		{
			name:     "pause disabled from env",
			envVar:   "PAUSER_PAUSE_ENABLED",
			envVal:   "false",
			accessor: func(c *Config) interface{} { return c.PauseEnabled() },
			want:     false,
		},
		{
			name:     "pause message from env",
			envVar:   "PAUSER_PAUSE_MESSAGE",
			envVal:   "press enter",
			accessor: func(c *Config) interface{} { return c.PauseMessage() },
			want:     "press enter",
		},
		{
			name:     "title disabled from env",
			envVar:   "PAUSER_CONSOLE_TITLE",
			envVal:   "0",
			accessor: func(c *Config) interface{} { return c.TitleEnabled() },
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.envVar, tt.envVal)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			if got := tt.accessor(cfg); got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	root := isolate(t)
	writeConfig(t, root, "poll:\n  interval: 2s\npause:\n  message: bye\nconsole:\n  title: false\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.PollInterval(); got != 2*time.Second {
		t.Errorf("PollInterval() = %v, want 2s", got)
	}

	if got := cfg.PauseMessage(); got != "bye" {
		t.Errorf("PauseMessage() = %q, want %q", got, "bye")
	}

	if cfg.TitleEnabled() {
		t.Error("TitleEnabled() = true, want false from file")
	}

	if cfg.File() == "" {
		t.Error("File() is empty with a config file present")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	root := isolate(t)
	writeConfig(t, root, "poll:\n  interval: 2s\n")
	t.Setenv("PAUSER_POLL_INTERVAL", "100ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.PollInterval(); got != 100*time.Millisecond {
		t.Errorf("PollInterval() = %v, want 100ms", got)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	root := isolate(t)
	writeConfig(t, root, "poll: [unclosed\n")

	cfg, err := Load()
	if err == nil {
		t.Fatal("Load() error = nil for a malformed config file")
	}

	if cfg == nil || cfg.PollInterval() != DefaultPollInterval {
		t.Error("Load() should still return defaults alongside the error")
	}
}

func TestConfig_All(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	all := cfg.All()

	for _, section := range []string{"poll", "pause", "console"} {
		if _, ok := all[section]; !ok {
			t.Errorf("All() missing %q section", section)
		}
	}

	if cfg.Get(KeyPauseEnabled) != true {
		t.Errorf("Get(%q) = %v, want true", KeyPauseEnabled, cfg.Get(KeyPauseEnabled))
	}
}

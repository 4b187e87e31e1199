package config

import (
	"os"
	"path/filepath"
	"testing"
)

// withConfigHome points XDG_CONFIG_HOME at a temp dir, clears the memo env
// overrides and resets the cache. Everything is restored on cleanup.
func withConfigHome(t *testing.T) string {
	t.Helper()
	ResetGlobalConfigCache()
	t.Cleanup(ResetGlobalConfigCache)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv(EnvRoot, "")
	t.Setenv(EnvUser, "")
	t.Setenv(EnvLogLevel, "")
	return tmpDir
}

func writeConfig(t *testing.T, home, content string) {
	t.Helper()
	dir := filepath.Join(home, GlobalConfigDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, GlobalConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := GlobalConfigPath(), "/custom/config/memo/config.yml"; got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	if got, want := GlobalConfigPath(), filepath.Join(home, ".config", "memo", "config.yml"); got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}
}

func TestLoadGlobalConfig_Defaults(t *testing.T) {
	withConfigHome(t)

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.DataRoot != DefaultDataRoot {
		t.Errorf("DataRoot = %q, want %q", cfg.DataRoot, DefaultDataRoot)
	}
	if cfg.PluginID != DefaultPluginID {
		t.Errorf("PluginID = %q, want %q", cfg.PluginID, DefaultPluginID)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("log = %q/%q, want info/text", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.RateLimit != 0 || cfg.Burst != 1 {
		t.Errorf("rate = %v/%d, want 0/1", cfg.RateLimit, cfg.Burst)
	}
	if got, want := cfg.MemoPath(), filepath.Join("data", "plugins", "memo", "memos.json"); got != want {
		t.Errorf("MemoPath() = %q, want %q", got, want)
	}
}

func TestLoadGlobalConfig_Valid(t *testing.T) {
	home := withConfigHome(t)
	writeConfig(t, home, `data_root: ~/bot/data
plugin_id: astrbot_plugin_memo
default_user: "10001"
log_level: debug
log_format: json
rate_limit: 2.5
burst: 3
`)

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}

	userHome, _ := os.UserHomeDir()
	if want := filepath.Join(userHome, "bot/data"); cfg.DataRoot != want {
		t.Errorf("DataRoot = %q, want %q", cfg.DataRoot, want)
	}
	if cfg.PluginID != "astrbot_plugin_memo" {
		t.Errorf("PluginID = %q", cfg.PluginID)
	}
	if cfg.DefaultUser != "10001" {
		t.Errorf("DefaultUser = %q", cfg.DefaultUser)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Errorf("log = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.RateLimit != 2.5 || cfg.Burst != 3 {
		t.Errorf("rate = %v/%d", cfg.RateLimit, cfg.Burst)
	}
}

func TestLoadGlobalConfig_EnvOverrides(t *testing.T) {
	home := withConfigHome(t)
	writeConfig(t, home, "data_root: /from/file\ndefault_user: file-user\n")

	t.Setenv(EnvRoot, "/from/env")
	t.Setenv(EnvUser, "env-user")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.DataRoot != "/from/env" {
		t.Errorf("DataRoot = %q, want /from/env", cfg.DataRoot)
	}
	if cfg.DefaultUser != "env-user" {
		t.Errorf("DefaultUser = %q, want env-user", cfg.DefaultUser)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestLoadGlobalConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not yaml", "data_root: [unclosed"},
		{"negative rate", "rate_limit: -1"},
		{"negative burst", "burst: -2"},
		{"bad log format", "log_format: xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := withConfigHome(t)
			writeConfig(t, home, tt.content)
			if _, err := LoadGlobalConfig(); err == nil {
				t.Error("LoadGlobalConfig() should return error")
			}
		})
	}
}

func TestLoadGlobalConfig_Cached(t *testing.T) {
	home := withConfigHome(t)
	writeConfig(t, home, "plugin_id: first\n")

	first, err := LoadGlobalConfig()
	if err != nil {
		t.Fatal(err)
	}
	writeConfig(t, home, "plugin_id: second\n")
	second, _ := LoadGlobalConfig()
	if first != second || second.PluginID != "first" {
		t.Errorf("cache not used: %q", second.PluginID)
	}
}

func TestGetConfigValue(t *testing.T) {
	t.Setenv("TEST_CONFIG_KEY", "from-env")
	if got := GetConfigValue("TEST_CONFIG_KEY", "from-config"); got != "from-env" {
		t.Errorf("GetConfigValue() = %q, want from-env", got)
	}

	t.Setenv("TEST_CONFIG_KEY", "")
	if got := GetConfigValue("TEST_CONFIG_KEY", "from-config"); got != "from-config" {
		t.Errorf("GetConfigValue() = %q, want from-config", got)
	}
}

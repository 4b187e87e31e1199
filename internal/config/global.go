// Package config handles global memo configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/memo/config.yml.
type GlobalConfig struct {
	DataRoot    string  `yaml:"data_root,omitempty"`
	PluginID    string  `yaml:"plugin_id,omitempty"`
	DefaultUser string  `yaml:"default_user,omitempty"`
	LogLevel    string  `yaml:"log_level,omitempty"`
	LogFormat   string  `yaml:"log_format,omitempty"`
	RateLimit   float64 `yaml:"rate_limit,omitempty"` // commands per second per sender, 0 = unlimited
	Burst       int     `yaml:"burst,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "memo"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// Environment variables that override the config file.
const (
	EnvRoot     = "MEMO_ROOT"
	EnvUser     = "MEMO_USER"
	EnvLogLevel = "MEMO_LOG_LEVEL"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/memo/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file, applies
// environment overrides and fills in defaults.
// A missing file is not an error.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	cfg, err := LoadFile(GlobalConfigPath())
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	cfg.applyDefaults()

	globalConfigCache = cfg
	return cfg, nil
}

// LoadFile reads a config file without env overrides or defaults.
// Returns an empty config if path is empty or the file doesn't exist.
func LoadFile(path string) (*GlobalConfig, error) {
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid global config %s: %w", path, err)
	}
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

func (c *GlobalConfig) applyEnv() {
	c.DataRoot = GetConfigValue(EnvRoot, c.DataRoot)
	c.DefaultUser = GetConfigValue(EnvUser, c.DefaultUser)
	c.LogLevel = GetConfigValue(EnvLogLevel, c.LogLevel)
}

func (c *GlobalConfig) applyDefaults() {
	if c.DataRoot == "" {
		c.DataRoot = DefaultDataRoot
	}
	c.DataRoot = ExpandPath(c.DataRoot)
	if c.PluginID == "" {
		c.PluginID = DefaultPluginID
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.Burst == 0 {
		c.Burst = 1
	}
}

// Validate checks value ranges.
func (c *GlobalConfig) Validate() error {
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative: %s", strconv.FormatFloat(c.RateLimit, 'g', -1, 64))
	}
	if c.Burst < 0 {
		return fmt.Errorf("burst must not be negative: %d", c.Burst)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log_format: %s (valid: text, json)", c.LogFormat)
	}
	return nil
}

// GetConfigValue returns the environment variable if set, otherwise the
// config value.
func GetConfigValue(envKey, configValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return configValue
}

package main

import (
	"fmt"

	"github.com/matsen/memo/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: fmt.Sprintf(`Show configuration after applying the config file, environment and flags.

Sources, highest priority first:
  --root / --user flags
  %s, %s, %s (also read from .env)
  $XDG_CONFIG_HOME/memo/config.yml`, config.EnvRoot, config.EnvUser, config.EnvLogLevel),
	Args: cobra.NoArgs,
	RunE: runConfig,
}

// ConfigResponse is the response for the config command.
type ConfigResponse struct {
	ConfigFile string  `json:"config_file"`
	DataRoot   string  `json:"data_root"`
	PluginID   string  `json:"plugin_id"`
	MemoPath   string  `json:"memo_path"`
	User       string  `json:"user,omitempty"`
	LogLevel   string  `json:"log_level"`
	LogFormat  string  `json:"log_format"`
	RateLimit  float64 `json:"rate_limit"`
	Burst      int     `json:"burst"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	user, _ := resolveUser(userFlag, cfg)

	resp := ConfigResponse{
		ConfigFile: config.GlobalConfigPath(),
		DataRoot:   cfg.DataRoot,
		PluginID:   cfg.PluginID,
		MemoPath:   cfg.MemoPath(),
		User:       user,
		LogLevel:   cfg.LogLevel,
		LogFormat:  cfg.LogFormat,
		RateLimit:  cfg.RateLimit,
		Burst:      cfg.Burst,
	}

	if humanOutput {
		fmt.Printf("config-file: %s\n", resp.ConfigFile)
		fmt.Printf("data-root:   %s\n", resp.DataRoot)
		fmt.Printf("plugin-id:   %s\n", resp.PluginID)
		fmt.Printf("memo-path:   %s\n", resp.MemoPath)
		fmt.Printf("user:        %s\n", resp.User)
		fmt.Printf("log:         %s (%s)\n", resp.LogLevel, resp.LogFormat)
		fmt.Printf("rate-limit:  %g/s burst %d\n", resp.RateLimit, resp.Burst)
	} else {
		outputJSON(resp)
	}
	return nil
}

// Package main provides the memo CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/matsen/memo/internal/config"
	"github.com/matsen/memo/internal/logging"
	"github.com/matsen/memo/internal/memo"
	"github.com/matsen/memo/internal/plugin"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	// userFlag overrides the configured default user
	userFlag string
	// rootFlag overrides the configured data root
	rootFlag string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "memo",
	Short: "Per-user memo store for chat bots",
	Long: `memo keeps short per-user notes filed under a target label.

Memos live in a single JSON document at <data_root>/<plugin_id>/memos.json.
The same commands a chat user issues (备忘, 查询, 删除) are available as
subcommands, and 'memo chat' runs them through the bot host on stdin.

All commands output JSON by default. Use --human for plain text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env file if present (for MEMO_ROOT, MEMO_USER, MEMO_LOG_LEVEL)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "User identifier (default: $MEMO_USER or default_user)")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Data root directory (default: $MEMO_ROOT or data_root)")
	rootCmd.Version = Version
}

// mustLoadConfig loads the global configuration and applies flag overrides,
// exits on error.
func mustLoadConfig() *config.GlobalConfig {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if rootFlag != "" {
		cfg.DataRoot = config.ExpandPath(rootFlag)
	}
	return cfg
}

// mustOpenPlugin builds the logger, store and plugin, and prepares the memo
// file.
func mustOpenPlugin(cfg *config.GlobalConfig) (*plugin.Plugin, *memo.Store) {
	logger, err := logging.New(logging.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		Output:    os.Stderr,
		Component: cfg.PluginID,
	})
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	store := memo.NewStore(cfg.MemoPath(), logger)
	if err := store.Initialize(); err != nil {
		exitWithError(ExitError, "initializing memo store: %v", err)
	}
	return plugin.New(store, logger), store
}

// resolveUser picks the user identifier from the flag or the config.
func resolveUser(flag string, cfg *config.GlobalConfig) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if cfg.DefaultUser != "" {
		return cfg.DefaultUser, nil
	}
	return "", fmt.Errorf("no user given: pass --user or set %s", config.EnvUser)
}

// mustResolveUser is resolveUser for commands, exits on error.
func mustResolveUser(cfg *config.GlobalConfig) string {
	uid, err := resolveUser(userFlag, cfg)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return uid
}

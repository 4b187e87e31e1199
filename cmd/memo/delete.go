package main

import (
	"strings"

	"github.com/matsen/memo/internal/plugin"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:   "delete <target|number|all>",
	Short: "Delete memos (删除)",
	Long: `Delete memos of the current user.

The key is matched in this order:
  all       clear every memo (any letter case)
  <number>  the memo at that position in 'memo list'
  <target>  every memo filed under exactly that target

A memo whose target is "all" or a number can only be removed by position.

Examples:
  memo delete 2
  memo delete 牙医
  memo delete all`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	uid := mustResolveUser(cfg)

	key := strings.TrimSpace(args[0])
	if key == "" {
		exitWithError(ExitDataError, "%s", plugin.DeleteUsage)
	}

	p, _ := mustOpenPlugin(cfg)
	outputReply(ReplyResponse{
		User:    uid,
		Message: p.Delete(uid, key),
	})
	return nil
}

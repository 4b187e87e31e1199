package main

import (
	"strings"

	"github.com/matsen/memo/internal/plugin"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <target> <content...>",
	Short: "Add a memo (备忘)",
	Long: `Add a memo filed under a target label.

The target and content may be given as separate arguments, or as a single
quoted argument that is split at the first whitespace.

Examples:
  memo add 牙医 周三复诊
  memo add 购物 买牛奶 和 面包
  memo add "牙医 周三复诊"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	uid := mustResolveUser(cfg)

	var target, content string
	if len(args) == 1 {
		var err error
		target, content, err = plugin.ParseAddArgs(args[0])
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
	} else {
		target, content = args[0], strings.Join(args[1:], " ")
		if strings.TrimSpace(target) == "" || strings.TrimSpace(content) == "" {
			exitWithError(ExitDataError, "%s", plugin.AddUsage)
		}
	}

	p, _ := mustOpenPlugin(cfg)
	outputReply(ReplyResponse{
		User:    uid,
		Message: p.Add(uid, target, content),
	})
	return nil
}

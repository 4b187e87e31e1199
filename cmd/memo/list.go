package main

import (
	"fmt"

	"github.com/matsen/memo/internal/memo"
	"github.com/matsen/memo/internal/plugin"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your memos (查询)",
	Long: `List the memos of the current user, numbered from 1.

The numbers are the positions accepted by 'memo delete'.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// ListResponse is the response for the list command.
type ListResponse struct {
	User    string        `json:"user"`
	Count   int           `json:"count"`
	Memos   []memo.Record `json:"memos"`
	Message string        `json:"message"`
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	uid := mustResolveUser(cfg)
	_, store := mustOpenPlugin(cfg)

	memos := store.Load().List(uid)
	message := plugin.FormatList(memos)

	if humanOutput {
		fmt.Println(message)
		return nil
	}
	if memos == nil {
		memos = []memo.Record{}
	}
	outputJSON(ListResponse{
		User:    uid,
		Count:   len(memos),
		Memos:   memos,
		Message: message,
	})
	return nil
}

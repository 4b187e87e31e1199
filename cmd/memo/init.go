package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the memo file if it does not exist",
	Long: `Create <data_root>/<plugin_id>/memos.json containing an empty document.

Existing memos are left untouched, so init is safe to run on every start.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	_, store := mustOpenPlugin(cfg)

	if humanOutput {
		fmt.Printf("Memo store ready at %s\n", store.Path())
	} else {
		outputJSON(StatusResponse{
			Status: "initialized",
			Path:   store.Path(),
		})
	}
	return nil
}

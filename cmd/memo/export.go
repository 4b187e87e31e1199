package main

import (
	"fmt"

	"github.com/matsen/memo/internal/export"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <db-path>",
	Short: "Export all memos to a SQLite database",
	Long: `Write every user's memos into a SQLite file, table memos(user_id,
position, target, content). A previous export in the same file is replaced.

Example:
  memo export backup.db`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

// ExportResponse is the response for the export command.
type ExportResponse struct {
	Status   string `json:"status"`
	Path     string `json:"path"`
	Users    int    `json:"users"`
	Exported int    `json:"exported"`
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	_, store := mustOpenPlugin(cfg)

	doc, err := store.Read()
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	n, err := export.WriteSQLite(args[0], doc)
	if err != nil {
		exitWithError(ExitError, "exporting memos: %v", err)
	}

	if humanOutput {
		fmt.Printf("Exported %d memos for %d users to %s\n", n, len(doc), args[0])
	} else {
		outputJSON(ExportResponse{
			Status:   "exported",
			Path:     args[0],
			Users:    len(doc),
			Exported: n,
		})
	}
	return nil
}

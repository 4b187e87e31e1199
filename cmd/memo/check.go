package main

import (
	"fmt"

	"github.com/matsen/memo/internal/memo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify memo file integrity",
	Long: `Parse the memo file strictly and report records with an empty target or
content. Exits with code 3 if the file cannot be read or parsed; the chat
commands would silently treat such a file as empty.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status  string       `json:"status"`
	Path    string       `json:"path"`
	SHA256  string       `json:"sha256"`
	Users   int          `json:"users"`
	Records int          `json:"records"`
	Issues  []memo.Issue `json:"issues"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	store := memo.NewStore(cfg.MemoPath(), nil)

	doc, err := store.Read()
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	hash, err := memo.FileHash(store.Path())
	if err != nil {
		exitWithError(ExitDataError, "hashing memo file: %v", err)
	}

	issues := memo.Check(doc)
	if issues == nil {
		issues = []memo.Issue{}
	}
	status := "ok"
	if len(issues) > 0 {
		status = "issues_found"
	}

	if humanOutput {
		fmt.Printf("%s: %d memos for %d users\n", store.Path(), doc.Count(), len(doc))
		if len(issues) == 0 {
			fmt.Println("No issues found")
		}
		for _, is := range issues {
			fmt.Printf("  %s: user %s, memo %d\n", is.Type, is.User, is.Position)
		}
	} else {
		outputJSON(CheckResult{
			Status:  status,
			Path:    store.Path(),
			SHA256:  hash,
			Users:   len(doc),
			Records: doc.Count(),
			Issues:  issues,
		})
	}
	return nil
}

package memo

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
)

// Issue is a problem found in a document that the commands themselves
// would never produce.
type Issue struct {
	Type     string `json:"type"`
	User     string `json:"user"`
	Position int    `json:"position"` // 1-based
}

// Issue types reported by Check.
const (
	IssueEmptyTarget  = "empty_target"
	IssueEmptyContent = "empty_content"
)

// Check lists records with an empty target or content, ordered by user and
// position.
func Check(doc Document) []Issue {
	users := make([]string, 0, len(doc))
	for uid := range doc {
		users = append(users, uid)
	}
	sort.Strings(users)

	var issues []Issue
	for _, uid := range users {
		for i, rec := range doc[uid] {
			if rec.Target == "" {
				issues = append(issues, Issue{Type: IssueEmptyTarget, User: uid, Position: i + 1})
			}
			if rec.Content == "" {
				issues = append(issues, Issue{Type: IssueEmptyContent, User: uid, Position: i + 1})
			}
		}
	}
	return issues
}

// FileHash computes a SHA256 hash of the memo file's contents.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

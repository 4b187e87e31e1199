// Package export writes memo documents to other formats.
package export

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/matsen/memo/internal/memo"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite export database.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates an export database at path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS memos (
			user_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			target TEXT NOT NULL,
			content TEXT NOT NULL,
			PRIMARY KEY (user_id, position)
		);

		CREATE TABLE IF NOT EXISTS _meta (
			key TEXT PRIMARY KEY,
			value TEXT
		);
	`
	_, err := db.Exec(schema)
	return err
}

// Replace clears the database and writes every memo of doc in one
// transaction. Positions are 1-based, matching list numbering.
func (d *DB) Replace(doc memo.Document, exportedAt time.Time) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM memos"); err != nil {
		return 0, fmt.Errorf("clearing memos table: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO memos (user_id, position, target, content) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing memo insert: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, uid := range sortedUsers(doc) {
		for i, rec := range doc[uid] {
			if _, err := stmt.Exec(uid, i+1, rec.Target, rec.Content); err != nil {
				return 0, fmt.Errorf("inserting memo %s/%d: %w", uid, i+1, err)
			}
			n++
		}
	}

	if _, err := tx.Exec(`INSERT OR REPLACE INTO _meta (key, value) VALUES ('exported_at', ?)`,
		exportedAt.UTC().Format(time.RFC3339)); err != nil {
		return 0, fmt.Errorf("updating export time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing export: %w", err)
	}
	return n, nil
}

// Document reads the exported memos back into a document.
func (d *DB) Document() (memo.Document, error) {
	rows, err := d.db.Query(`SELECT user_id, target, content FROM memos ORDER BY user_id, position`)
	if err != nil {
		return nil, fmt.Errorf("querying memos: %w", err)
	}
	defer rows.Close()

	doc := memo.NewDocument()
	for rows.Next() {
		var uid string
		var rec memo.Record
		if err := rows.Scan(&uid, &rec.Target, &rec.Content); err != nil {
			return nil, fmt.Errorf("scanning memo: %w", err)
		}
		doc.Append(uid, rec)
	}
	return doc, rows.Err()
}

// ExportedAt returns the time of the last Replace, or the zero time.
func (d *DB) ExportedAt() (time.Time, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM _meta WHERE key = 'exported_at'`).Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, value)
}

// WriteSQLite exports doc into the SQLite file at path, replacing any
// previous export. Returns the number of memos written.
func WriteSQLite(path string, doc memo.Document) (int, error) {
	db, err := OpenDB(path)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	return db.Replace(doc, time.Now())
}

func sortedUsers(doc memo.Document) []string {
	users := make([]string, 0, len(doc))
	for uid := range doc {
		users = append(users, uid)
	}
	sort.Strings(users)
	return users
}

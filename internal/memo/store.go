package memo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/matsen/memo/internal/logging"
)

// StorageReadError is returned when the memo file is missing, unreadable or
// not a valid document.
type StorageReadError struct {
	Path string
	Err  error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("reading memos %s: %v", e.Path, e.Err)
}

func (e *StorageReadError) Unwrap() error { return e.Err }

// StorageWriteError is returned when the memo file cannot be written.
type StorageWriteError struct {
	Path string
	Err  error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("writing memos %s: %v", e.Path, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

// Store persists a Document as a single JSON file. Every operation reads
// the whole file and every mutation rewrites it in full.
type Store struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex // serialises Update
}

// NewStore creates a store backed by the file at path.
// A nil logger discards log output.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the location of the memo file.
func (s *Store) Path() string {
	return s.path
}

// Initialize creates the containing directory and an empty document if the
// file does not exist yet. Safe to call on every startup.
func (s *Store) Initialize() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating memo directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking memo file: %w", err)
	}

	if err := os.WriteFile(s.path, []byte("{}"), 0644); err != nil {
		return fmt.Errorf("creating memo file: %w", err)
	}
	return nil
}

// Read parses the memo file strictly, returning a *StorageReadError on any
// failure including a missing file.
func (s *Store) Read() (Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &StorageReadError{Path: s.path, Err: err}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &StorageReadError{Path: s.path, Err: err}
	}
	if doc == nil {
		// top-level null
		doc = NewDocument()
	}
	return doc, nil
}

// Load reads the document, falling back to an empty one when the file
// cannot be read or parsed. The failure is logged, never returned.
func (s *Store) Load() Document {
	doc, err := s.Read()
	if err != nil {
		s.logger.Error("读取备忘录失败", "path", s.path, "error", err)
		return NewDocument()
	}
	return doc
}

// Save serialises the whole document and writes it atomically via a temp
// file and rename. Failures are logged and returned as *StorageWriteError.
func (s *Store) Save(doc Document) error {
	if err := s.write(doc); err != nil {
		s.logger.Error("保存备忘录失败", "path", s.path, "error", err)
		return &StorageWriteError{Path: s.path, Err: err}
	}
	return nil
}

func (s *Store) write(doc Document) error {
	if doc == nil {
		doc = NewDocument()
	}
	doc.normalize()

	data, err := Encode(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("setting file mode: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}

// Update runs a load-mutate-save cycle under the store's lock. fn reports
// whether it changed the document; the document is only saved when it did.
// The returned document is the state after fn. A save failure is logged by
// Save and otherwise ignored.
func (s *Store) Update(fn func(doc Document) bool) Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.Load()
	if fn(doc) {
		_ = s.Save(doc)
	}
	return doc
}

// Encode renders a document as indented JSON with non-ASCII and HTML
// characters kept literal.
func Encode(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding memos: %w", err)
	}
	return buf.Bytes(), nil
}

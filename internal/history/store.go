// Package history persists completed dictation sessions as a JSON record list.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Record is one completed recording/refinement cycle. Records are append-only
// and never mutated after creation.
type Record struct {
	Timestamp     time.Time      `json:"timestamp"`
	Transcription string         `json:"transcription"`
	Refined       string         `json:"refined"`
	Metadata      map[string]any `json:"metadata"`
}

// Store reads and writes the history file. The whole record list is rewritten
// on each append; at dictation scale that read-modify-write is fine, and the
// rename keeps the file whole if the process dies mid-write.
type Store struct {
	path string
}

// NewStore creates a store rooted at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Append adds one record to the history file, creating it when absent.
func (s *Store) Append(record Record) error {
	records, err := s.List()
	if err != nil {
		return err
	}
	records = append(records, record)
	return s.write(records)
}

// List returns all records in append order. A missing or empty file yields an
// empty list; a corrupt file is reported as an error rather than silently
// truncated.
func (s *Store) List() ([]Record, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history %q: %w", s.path, err)
	}

	if strings.TrimSpace(string(content)) == "" {
		return nil, nil
	}

	var records []Record
	if err := json.Unmarshal(content, &records); err != nil {
		return nil, fmt.Errorf("decode history %q: %w", s.path, err)
	}
	return records, nil
}

// Clear empties the history sequence.
func (s *Store) Clear() error {
	return s.write(nil)
}

// write atomically replaces the history file with the given record list.
func (s *Store) write(records []Record) error {
	if records == nil {
		records = []Record{}
	}

	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create history dir %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp history file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace history %q: %w", s.path, err)
	}
	return nil
}

// DefaultPath resolves the history location under XDG_STATE_HOME, falling
// back to ~/.local/state.
func DefaultPath() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); xdg != "" {
		return filepath.Join(xdg, "quill", "history.json"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "quill", "history.json"), nil
}

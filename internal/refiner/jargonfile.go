package refiner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// jargonFile is the on-disk YAML shape for user jargon overrides.
type jargonFile struct {
	Jargon map[string]string `yaml:"jargon"`
}

// LoadJargonFile reads user jargon entries from a YAML file. A missing file
// is not an error; it simply yields no entries.
func LoadJargonFile(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read jargon file %q: %w", path, err)
	}

	var parsed jargonFile
	if err := yaml.Unmarshal(content, &parsed); err != nil {
		return nil, fmt.Errorf("parse jargon file %q: %w", path, err)
	}

	entries := make(map[string]string, len(parsed.Jargon))
	for term, canonical := range parsed.Jargon {
		term = strings.ToLower(strings.TrimSpace(term))
		canonical = strings.TrimSpace(canonical)
		if term == "" || canonical == "" {
			continue
		}
		entries[term] = canonical
	}
	return entries, nil
}

// AppendJargonEntry persists one entry into the YAML jargon file, creating
// the file when absent. The write replaces the file atomically.
func AppendJargonEntry(path string, term string, canonical string) error {
	term = strings.ToLower(strings.TrimSpace(term))
	canonical = strings.TrimSpace(canonical)
	if term == "" {
		return errors.New("jargon term must not be empty")
	}
	if canonical == "" {
		return errors.New("jargon canonical form must not be empty")
	}

	entries, err := LoadJargonFile(path)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = make(map[string]string, 1)
	}
	entries[term] = canonical

	payload, err := yaml.Marshal(jargonFile{Jargon: entries})
	if err != nil {
		return fmt.Errorf("encode jargon file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create jargon dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".jargon-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp jargon file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp jargon file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp jargon file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace jargon file %q: %w", path, err)
	}
	return nil
}

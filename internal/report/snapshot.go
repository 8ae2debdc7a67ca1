package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Snapshot serializes the entire record to indented JSON.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("cannot serialize record: %w", err)
	}
	return data, nil
}

// WriteSnapshot writes the JSON snapshot into dir, named after the document
// identifier, and returns the written path.
func (s *Store) WriteSnapshot(dir string) (string, error) {
	data, err := s.Snapshot()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, s.DocumentName()+".json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("cannot write snapshot: %w", err)
	}
	return path, nil
}

// ImportSnapshot replaces the record wholesale with the parsed input. When
// the input is not valid JSON the current record is left untouched and the
// parse error is returned. Valid JSON with missing fields is accepted; the
// absent fields simply become zero values.
func (s *Store) ImportSnapshot(data []byte) error {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("snapshot is not valid JSON: %w", err)
	}
	normalize(&r)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = &r
	return s.persistLocked()
}

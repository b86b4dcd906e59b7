package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"focustrack/internal/session"
)

// FileStore keeps the session log as one JSON array in one file,
// mirroring the single-key layout of the legacy log.
type FileStore struct {
	path string
}

// NewFileStore prepares a file-backed log at path, creating parent
// directories as needed. The file itself is created on first append.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) ReadAll() ([]session.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session log: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var recs []session.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return recs, nil
}

func (s *FileStore) Append(rec session.Record) error {
	recs, err := s.ReadAll()
	if err != nil {
		// A corrupt log blocks appends; overwriting it would silently
		// discard whatever history it held.
		return err
	}
	recs = append(recs, rec)
	return s.writeAll(recs)
}

func (s *FileStore) ClearAll() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clearing session log: %w", err)
	}
	return nil
}

// writeAll replaces the whole log. The temp-file rename keeps a crash
// mid-write from corrupting the previous content.
func (s *FileStore) writeAll(recs []session.Record) error {
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session log: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing session log: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("writing session log: %w", err)
	}
	return nil
}

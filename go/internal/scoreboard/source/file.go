package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileSource treats a directory as a key-value store: the entry for key lives in <dir>/<key>.json.
// Writers are expected to replace the file atomically (write + rename).
type FileSource struct {
	dir  string
	key  string
	path string
}

// NewFileSource creates a source reading <dir>/<key>.json
func NewFileSource(dir, key string) *FileSource {
	return &FileSource{
		dir:  dir,
		key:  key,
		path: filepath.Join(dir, key+".json"),
	}
}

// Read implements Source
func (s *FileSource) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return data, nil
}

// Name implements Source
func (s *FileSource) Name() string {
	return "file:" + s.path
}

// Path returns the file backing the entry
func (s *FileSource) Path() string {
	return s.path
}

// Write stores value atomically. Used by the seed tool; the display never writes.
func (s *FileSource) Write(value []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, s.key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

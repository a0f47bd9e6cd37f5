package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend stores each key as a JSON envelope file under a directory.
type FileBackend struct {
	dir string
}

// NewFileBackend returns a FileBackend rooted at dir.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

// recordFilePath returns the path for the given key's envelope file.
func (b *FileBackend) recordFilePath(key string) string {
	return filepath.Join(b.dir, key+".json")
}

// Get loads the record for key. A file that is not a valid envelope is
// backed up to <file>.corrupt and reported as ErrCorrupt.
func (b *FileBackend) Get(_ context.Context, key string) (Record, error) {
	path := b.recordFilePath(key)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return Record{}, fmt.Errorf("%w: invalid JSON in %s (backed up to %s): %v", ErrCorrupt, path, backupPath, err)
	}
	return rec, nil
}

// Put atomically writes the record for key.
func (b *FileBackend) Put(_ context.Context, key string, rec Record) error {
	path := b.recordFilePath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// Close is a no-op.
func (b *FileBackend) Close() error { return nil }

package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage is a single-key durable store: the whole flashcard collection
// is one serialized JSON value.
type Storage interface {
	// Load returns the stored value, or os.ErrNotExist when nothing
	// has been written yet.
	Load() ([]byte, error)
	Save(data []byte) error
}

// FileStorage keeps the value in one JSON file on disk. Writes go
// through a temp file and rename so a crash never leaves a half-written
// collection behind.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) (*FileStorage, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", dir, err)
	}
	return &FileStorage{path: path}, nil
}

func (f *FileStorage) Load() ([]byte, error) {
	return os.ReadFile(f.path)
}

func (f *FileStorage) Save(data []byte) error {
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/crunky0/cs308project/internal/domain"
)

// FileStore keeps the guest cart as a single JSON file. Writes go
// through a temp file and rename so a crash never leaves a torn slot.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load() ([]domain.GuestLine, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read guest slot: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var lines []domain.GuestLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("parse guest slot: %w", err)
	}
	return lines, nil
}

func (f *FileStore) Save(lines []domain.GuestLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal guest slot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create guest slot dir: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write guest slot: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace guest slot: %w", err)
	}
	return nil
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear guest slot: %w", err)
	}
	return nil
}

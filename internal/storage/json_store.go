package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitflow/internal/constants"
)

// JSONStore keeps one <key>.json file per record inside a directory.
type JSONStore struct {
	records
	dir    string
	loaded bool
}

func NewJSONStore(dir string) *JSONStore {
	s := &JSONStore{dir: dir}
	s.records = records{b: s}
	return s
}

func (s *JSONStore) Init() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	s.loaded = true
	return nil
}

func (s *JSONStore) Load() error {
	info, err := os.Stat(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'habitflow init' first")
		}
		return fmt.Errorf("failed to access data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("json store path %s is not a directory", s.dir)
	}
	s.loaded = true
	return nil
}

func (s *JSONStore) Close() error {
	s.loaded = false
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.dir
}

func (s *JSONStore) recordPath(key string) string {
	return filepath.Join(s.dir, key+constants.JSONStoreRecordFileSuffix)
}

func (s *JSONStore) readRecord(key string) ([]byte, bool, error) {
	if !s.loaded {
		return nil, false, ErrNotLoaded
	}
	data, err := os.ReadFile(s.recordPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

// writeRecord replaces the file atomically via a temp file in the same directory.
func (s *JSONStore) writeRecord(key string, value []byte) error {
	if !s.loaded {
		return ErrNotLoaded
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", key, err)
	}
	if err := os.Rename(tmpName, s.recordPath(key)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

func (s *JSONStore) deleteRecord(key string) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	if err := os.Remove(s.recordPath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

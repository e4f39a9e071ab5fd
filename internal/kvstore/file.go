package kvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps each key in its own JSON file under dir.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore returns a FileStore rooted at dir. The directory is created on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, filepath.Base(key)+".json")
}

func (s *FileStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key)) // #nosec G304 -- key is sanitized
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// PutBatch writes each entry via a temp file and rename, in order.
func (s *FileStore) PutBatch(entries ...Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	for _, e := range entries {
		if err := s.write(e); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileStore) write(e Entry) error {
	target := s.path(e.Key)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(e.Key)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", e.Key, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(e.Value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", e.Key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", e.Key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", e.Key, err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", e.Key, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to replace %s: %w", e.Key, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

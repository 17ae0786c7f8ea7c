package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"brc-agent/internal/application/port/output"
	"brc-agent/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

var _ output.SettingsStore = (*FileStore)(nil)

// FileStore keeps the settings snapshot in a YAML file. Saves replace the
// file atomically so a concurrent reader never sees a partial write.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Get returns the zero snapshot when the file does not exist yet.
func (s *FileStore) Get(ctx context.Context) (entity.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out entity.Settings
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return entity.Settings{}, fmt.Errorf("parse settings %s: %w", s.path, err)
	}
	return out, nil
}

func (s *FileStore) Save(ctx context.Context, settings entity.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

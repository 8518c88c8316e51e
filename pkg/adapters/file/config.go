// Package file keeps configuration in a YAML document on the local filesystem.
package file

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// ConfigStore implements ports.ConfigStore on a flat YAML mapping. A missing
// file reads as empty configuration; it is created on the first write.
type ConfigStore struct {
	Path string

	mu sync.Mutex
}

// NewConfigStore creates a store backed by the file at path.
func NewConfigStore(path string) *ConfigStore {
	return &ConfigStore{Path: path}
}

// Load reads every key. Scalar values of any type are read as strings.
func (s *ConfigStore) Load(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Set stores value under key, rewriting the file atomically.
func (s *ConfigStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.read()
	if err != nil {
		return err
	}
	cfg[key] = value
	return s.write(cfg)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *ConfigStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := cfg[key]; !ok {
		return nil
	}
	delete(cfg, key)
	return s.write(cfg)
}

func (s *ConfigStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", s.Path, err)
	}

	cfg := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("config file %s: value of %q must be a scalar", s.Path, k)
		case nil:
			cfg[k] = ""
		default:
			cfg[k] = fmt.Sprint(v)
		}
	}
	return cfg, nil
}

// write replaces the file through a synced temp file in the same directory.
func (s *ConfigStore) write(cfg map[string]string) error {
	data, err := yaml.Marshal(maps.Clone(cfg))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure config directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "tmp-config-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if the destination exists.
	if _, err := os.Stat(s.Path); err == nil {
		if err := os.Remove(s.Path); err != nil {
			return fmt.Errorf("failed to remove existing config file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("failed to rename temp file to config file: %w", err)
	}
	return nil
}

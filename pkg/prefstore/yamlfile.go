package prefstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	wallet "github.com/goliatone/go-wallet/components/wallet"
)

// YAMLFileStore keeps preferences in a YAML map on disk. Every Set rewrites
// the file atomically.
type YAMLFileStore struct {
	path string
	mu   sync.RWMutex
	data map[string]string
}

var _ wallet.KeyValueStore = (*YAMLFileStore)(nil)

// OpenYAMLFile loads path; a missing file starts empty.
func OpenYAMLFile(path string) (*YAMLFileStore, error) {
	if path == "" {
		return nil, errors.New("prefstore: yaml path is required")
	}
	store := &YAMLFileStore{path: path, data: map[string]string{}}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("prefstore: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &store.data); err != nil {
		return nil, fmt.Errorf("prefstore: parse %s: %w", path, err)
	}
	if store.data == nil {
		store.data = map[string]string{}
	}
	return store, nil
}

// Get returns the stored value and whether it exists.
func (s *YAMLFileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	return value, ok, nil
}

// Set stores value and saves the file. A failed save leaves memory unchanged.
func (s *YAMLFileStore) Set(_ context.Context, key, value string) error {
	if key == "" {
		return wallet.ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]string, len(s.data)+1)
	for k, v := range s.data {
		next[k] = v
	}
	next[key] = value
	if err := s.save(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

func (s *YAMLFileStore) save(data map[string]string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("prefstore: mkdir failed: %w", err)
	}
	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("prefstore: marshal failed: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".wallet_prefs.tmp-*")
	if err != nil {
		return fmt.Errorf("prefstore: temp create failed: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(out); err != nil {
		return fmt.Errorf("prefstore: temp write failed: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		return fmt.Errorf("prefstore: chmod failed: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("prefstore: sync failed: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("prefstore: atomic rename failed: %w", err)
	}
	return nil
}

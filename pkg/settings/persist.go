package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SnapshotKey is the name under which settings are persisted.
const SnapshotKey = "hypergx-settings"

// Persister stores named JSON snapshots.
type Persister interface {
	// LoadSnapshot returns the raw snapshot stored under key.
	// found is false when nothing has been stored yet.
	LoadSnapshot(key string) (data []byte, found bool, err error)

	// SaveSnapshot replaces the snapshot under key and flushes it.
	SaveSnapshot(key string, data []byte) error
}

// FileStore implements Persister using a single JSON document.
type FileStore struct {
	path    string
	data    map[string]json.RawMessage
	mu      sync.RWMutex
	version string
}

type fileDocument struct {
	Version   string                     `json:"version"`
	Snapshots map[string]json.RawMessage `json:"snapshots"`
}

// NewFileStore creates a file-backed persister.
// If path is empty, defaults to ~/.hypergx/settings.json
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".hypergx", "settings.json")
	}

	store := &FileStore{
		path:    path,
		data:    make(map[string]json.RawMessage),
		version: "1.0",
	}

	if err := store.load(); err != nil {
		return nil, fmt.Errorf("failed to load settings from %s: %w", path, err)
	}

	return store, nil
}

func (s *FileStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	var doc fileDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to decode settings file: %w", err)
	}

	if doc.Version != "" {
		s.version = doc.Version
	}
	if doc.Snapshots != nil {
		s.data = doc.Snapshots
	}
	return nil
}

// LoadSnapshot returns a copy of the snapshot stored under key.
func (s *FileStore) LoadSnapshot(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), raw...), true, nil
}

// SaveSnapshot stores data under key and writes the document atomically.
func (s *FileStore) SaveSnapshot(key string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("snapshot %q is not valid JSON", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append(json.RawMessage(nil), data...)
	return s.flushLocked()
}

func (s *FileStore) flushLocked() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tempPath := s.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp settings file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(fileDocument{Version: s.version, Snapshots: s.data}); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Path returns the file path of the store.
func (s *FileStore) Path() string {
	return s.path
}

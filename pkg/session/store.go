package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Descriptor records how to reach a launched browser so that a later
// request, or a restarted server, can reconnect instead of launching again.
type Descriptor struct {
	// Endpoint is the browser's Chrome DevTools Protocol endpoint
	Endpoint string `yaml:"endpoint"`

	// Headless records the mode the browser was launched in
	Headless bool `yaml:"headless"`

	// LaunchedAt is when the browser was launched
	LaunchedAt time.Time `yaml:"launched_at"`
}

// Store persists the session descriptor.
type Store interface {
	// Load returns the recorded descriptor, or nil if none exists
	Load() (*Descriptor, error)

	// Save records the descriptor, replacing any previous one
	Save(d *Descriptor) error

	// Clear removes the recorded descriptor. Clearing an empty store is not
	// an error.
	Clear() error
}

// FileStore implements Store using a YAML file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-based descriptor store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the descriptor file.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the descriptor from disk.
func (s *FileStore) Load() (*Descriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session descriptor: %w", err)
	}

	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode session descriptor: %w", err)
	}
	return &d, nil
}

// Save writes the descriptor to disk atomically.
func (s *FileStore) Save(d *Descriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode session descriptor: %w", err)
	}

	// Create temp file for atomic write
	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp descriptor file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Clear removes the descriptor file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session descriptor: %w", err)
	}
	return nil
}

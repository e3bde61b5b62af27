package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore is a durable store backed by a single JSON file. Entries are
// held in memory and written through on every Set; a failed write leaves
// the in-memory entry intact, so the session keeps working even when the
// file is unwritable.
type FileStore struct {
	path string

	mu      sync.RWMutex
	entries map[string]string
}

// NewFileStore opens or creates a file-backed store at path. A missing or
// unreadable file yields an empty store rather than an error: the store is
// a cache, and losing it only costs re-fetches.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("cache: file store path is required")
	}

	s := &FileStore{
		path:    path,
		entries: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, nil
	}
	// Corrupt contents also start empty.
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err == nil && entries != nil {
		s.entries = entries
	}
	return s, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Get retrieves a value. Returns ("", false) on miss.
func (s *FileStore) Get(_ context.Context, key string) (string, bool) {
	s.mu.RLock()
	v, ok := s.entries[key]
	s.mu.RUnlock()
	return v, ok
}

// Set stores a value and writes the store through to disk. The in-memory
// entry is updated even when the durable write fails.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = value
	return s.flushLocked()
}

// flushLocked writes the full entry map atomically (temp file + rename).
// Caller must hold the write lock.
func (s *FileStore) flushLocked() error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("cache: encode store: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("cache: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("cache: write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("cache: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("cache: replace store file: %w", err)
	}
	return nil
}

// Ensure FileStore implements Store
var _ Store = (*FileStore)(nil)

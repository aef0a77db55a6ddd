package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/docfold/docfold-cli/internal/core/domain"
	"github.com/docfold/docfold-cli/internal/core/ports/driven"
)

// Ensure FingerprintStore implements the interface.
var _ driven.FingerprintStore = (*FingerprintStore)(nil)

// FingerprintStore is an in-memory implementation of driven.FingerprintStore
// for testing.
type FingerprintStore struct {
	mu           sync.RWMutex
	fingerprints map[string]string
}

// NewFingerprintStore creates a new in-memory fingerprint store.
func NewFingerprintStore() *FingerprintStore {
	return &FingerprintStore{
		fingerprints: make(map[string]string),
	}
}

// Get retrieves the stored fingerprint for a path.
func (s *FingerprintStore) Get(_ context.Context, path string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fp, ok := s.fingerprints[path]
	if !ok {
		return "", domain.ErrNotFound
	}
	return fp, nil
}

// Save stores or updates the fingerprint for a path.
func (s *FingerprintStore) Save(_ context.Context, path, fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fingerprints[path] = fingerprint
	return nil
}

// Delete removes the record for a path.
func (s *FingerprintStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fingerprints, path)
	return nil
}

// Paths lists all recorded paths in sorted order.
func (s *FingerprintStore) Paths(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.fingerprints))
	for path := range s.fingerprints {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

package blobstore

import (
	"context"
	"strings"
	"sync"
)

// InMemoryStore backs tests and local development without touching disk.
type InMemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte

	// FailPut simulates collaborator outage for keys containing the
	// given substring; empty disables the fault.
	FailPut string
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{blobs: make(map[string][]byte)}
}

// errUnavailable keeps fault injection aligned with real transport failures.
type errUnavailable struct{}

func (errUnavailable) Error() string { return "blob store unavailable" }

func (s *InMemoryStore) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	if s.FailPut != "" && strings.Contains(key, s.FailPut) {
		return "", errUnavailable{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.blobs[key] = cp
	return key, nil
}

func (s *InMemoryStore) Delete(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, ref)
	return nil
}

// Get exposes stored bytes for test assertions.
func (s *InMemoryStore) Get(ref string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[ref]
	return data, ok
}

// Len reports the number of stored blobs.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

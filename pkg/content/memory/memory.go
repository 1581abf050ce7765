// Package memory implements content.Store with an in-process map.
// Used by tests and local development.
package memory

import (
	"context"
	"fmt"
	"sync"
)

// MemoryContentStore implements content.Store using a mutex-guarded map
// keyed by storage path.
type MemoryContentStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryContentStore returns an empty in-memory content store.
func NewMemoryContentStore() *MemoryContentStore {
	return &MemoryContentStore{
		blobs: make(map[string][]byte),
	}
}

// Write stores a copy of data under path.
func (s *MemoryContentStore) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[path] = buf
	return nil
}

// Read returns a copy of the content stored under path.
func (s *MemoryContentStore) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[path]
	if !ok {
		return nil, fmt.Errorf("content not found: %s", path)
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

// Len reports how many blobs are stored. Test helper.
func (s *MemoryContentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// Close is a no-op for the in-memory store.
func (s *MemoryContentStore) Close() error {
	return nil
}

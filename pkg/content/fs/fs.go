// Package fs implements content.Store on the local filesystem.
//
// Content lives as flat regular files; the upload pipeline hands this store
// absolute paths under its configured storage root, so no directory nesting
// mirrors the folder hierarchy.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"filevault/pkg/content"
)

// FSContentStore implements content.Store using the local filesystem.
//
// Thread Safety:
// Filesystem operations are thread-safe at the OS level; concurrent writes
// to the same path are last-write-wins.
type FSContentStore struct{}

// NewFSContentStore returns a filesystem content store.
//
// No directories are created up front: the storage root is created lazily
// on the first write, so a misconfigured root surfaces as a write-time
// error rather than a startup failure.
func NewFSContentStore() *FSContentStore {
	return &FSContentStore{}
}

// Write stores data at path as a regular file, creating the parent
// directory recursively if absent. Directory-creation failures are wrapped
// with content.ErrCreateDir; write failures are returned as-is.
func (s *FSContentStore) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", content.ErrCreateDir, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}
	return nil
}

// Read returns the content of the regular file at path.
func (s *FSContentStore) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	return data, nil
}

// Close is a no-op; the store holds no handles between calls.
func (s *FSContentStore) Close() error {
	return nil
}

// Package memory implements metadata.Store with in-process maps.
//
// Suitable for tests and local development; nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"filevault/pkg/metadata"
)

// MemoryMetadataStore implements metadata.Store using mutex-guarded maps.
//
// IDs are random UUIDs. All operations are O(1) except the counts, which
// are map-length reads.
type MemoryMetadataStore struct {
	mu           sync.RWMutex
	usersByID    map[string]*metadata.User
	usersByEmail map[string]*metadata.User
	files        map[string]*metadata.File
}

// NewMemoryMetadataStore returns an empty in-memory store.
func NewMemoryMetadataStore() *MemoryMetadataStore {
	return &MemoryMetadataStore{
		usersByID:    make(map[string]*metadata.User),
		usersByEmail: make(map[string]*metadata.User),
		files:        make(map[string]*metadata.File),
	}
}

// CreateUser inserts a new user if the email is not already registered.
func (s *MemoryMetadataStore) CreateUser(ctx context.Context, email, passwordDigest string) (*metadata.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[email]; exists {
		return nil, metadata.AlreadyExists("user already exists")
	}

	user := &metadata.User{
		ID:             uuid.NewString(),
		Email:          email,
		PasswordDigest: passwordDigest,
	}
	s.usersByID[user.ID] = user
	s.usersByEmail[user.Email] = user

	u := *user
	return &u, nil
}

// GetUserByCredentials finds a user by email and password digest equality.
func (s *MemoryMetadataStore) GetUserByCredentials(ctx context.Context, email, passwordDigest string) (*metadata.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.usersByEmail[email]
	if !ok || user.PasswordDigest != passwordDigest {
		return nil, metadata.NotFound("user not found")
	}

	u := *user
	return &u, nil
}

// GetUserByID finds a user by its identifier.
func (s *MemoryMetadataStore) GetUserByID(ctx context.Context, id string) (*metadata.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.usersByID[id]
	if !ok {
		return nil, metadata.NotFound("user not found")
	}

	u := *user
	return &u, nil
}

// GetFile finds a file document by its identifier.
func (s *MemoryMetadataStore) GetFile(ctx context.Context, id string) (*metadata.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, ok := s.files[id]
	if !ok {
		return nil, metadata.NotFound("file not found")
	}

	f := *file
	return &f, nil
}

// InsertFile persists a new file document and returns the assigned ID.
func (s *MemoryMetadataStore) InsertFile(ctx context.Context, file *metadata.File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *file
	stored.ID = uuid.NewString()
	s.files[stored.ID] = &stored

	return stored.ID, nil
}

// CountUsers returns the number of stored users.
func (s *MemoryMetadataStore) CountUsers(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.usersByID)), nil
}

// CountFiles returns the number of stored file documents.
func (s *MemoryMetadataStore) CountFiles(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.files)), nil
}

// Alive always reports true; the maps are always reachable.
func (s *MemoryMetadataStore) Alive() bool {
	return true
}

// Close is a no-op for the in-memory store.
func (s *MemoryMetadataStore) Close(ctx context.Context) error {
	return nil
}

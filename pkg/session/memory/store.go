// Package memory implements session.Store with an in-process map.
//
// Expiry is enforced at read time against per-entry deadlines; expired
// entries are evicted lazily on access. Suitable for tests and local
// development only; tokens do not survive a restart and are not shared
// across processes.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"filevault/pkg/session"
)

type entry struct {
	userID    string
	expiresAt time.Time
}

// MemorySessionStore implements session.Store using a mutex-guarded map.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]entry

	// now is swappable so tests can drive expiry without sleeping.
	now func() time.Time
}

// NewMemorySessionStore returns an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]entry),
		now:      time.Now,
	}
}

// Issue generates a random token bound to userID for the fixed session TTL.
func (s *MemorySessionStore) Issue(ctx context.Context, userID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.KeyPrefix+token] = entry{
		userID:    userID,
		expiresAt: s.now().Add(session.TokenTTL),
	}
	return token, nil
}

// Resolve returns the user ID bound to token, evicting it first if its
// deadline has passed.
func (s *MemorySessionStore) Resolve(ctx context.Context, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := session.KeyPrefix + token
	e, ok := s.sessions[key]
	if !ok {
		return "", session.ErrNotFound
	}
	if s.now().After(e.expiresAt) {
		delete(s.sessions, key)
		return "", session.ErrNotFound
	}
	return e.userID, nil
}

// Revoke deletes the token; deleting an absent token is a no-op.
func (s *MemorySessionStore) Revoke(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, session.KeyPrefix+token)
	return nil
}

// Alive always reports true.
func (s *MemorySessionStore) Alive() bool {
	return true
}

// Close is a no-op for the in-memory store.
func (s *MemorySessionStore) Close() error {
	return nil
}

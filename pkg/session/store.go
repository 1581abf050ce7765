// Package session manages opaque authentication tokens.
//
// A session is nothing more than a cache entry binding "auth_<token>" to a
// user ID with a fixed lifetime. The cache's own expiry mechanism enforces
// the TTL; there is no session listing and no application-side sweeping in
// the Redis backend. A token that was never issued and a token that has
// expired are indistinguishable: both resolve to ErrNotFound.
package session

import (
	"context"
	"errors"
	"time"
)

// TokenTTL is the fixed lifetime of an issued token.
const TokenTTL = 24 * time.Hour

// KeyPrefix namespaces session keys inside the cache.
const KeyPrefix = "auth_"

// ErrNotFound is returned by Resolve when the token is absent or expired.
var ErrNotFound = errors.New("session not found")

// Store issues, resolves, and revokes session tokens.
//
// Implementations must guarantee at most one user ID per live token and
// must never reuse a token across users; random UUID tokens satisfy this
// without coordination.
//
// Thread Safety:
// Implementations must be safe for concurrent use by multiple goroutines.
type Store interface {
	// Issue generates a new opaque token bound to userID for TokenTTL and
	// returns it. One cache write.
	Issue(ctx context.Context, userID string) (string, error)

	// Resolve returns the user ID bound to token, or ErrNotFound if the
	// token is absent or expired.
	Resolve(ctx context.Context, token string) (string, error)

	// Revoke deletes the token. Revoking an absent token is not an error.
	Revoke(ctx context.Context, token string) error

	// Alive reports whether the store holds a usable connection. Local
	// handle check only; no network I/O.
	Alive() bool

	// Close releases the underlying connection.
	Close() error
}

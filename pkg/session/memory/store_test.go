package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filevault/pkg/session"
)

// TestIssueResolveRevoke covers the full token lifecycle: a freshly issued
// token resolves to its user, and a revoked token no longer resolves.
func TestIssueResolveRevoke(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	token, err := store.Issue(ctx, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := store.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	require.NoError(t, store.Revoke(ctx, token))

	_, err = store.Resolve(ctx, token)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestResolve_UnknownToken(t *testing.T) {
	store := NewMemorySessionStore()

	_, err := store.Resolve(context.Background(), "never-issued")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestRevoke_Idempotent(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "absent"))
	require.NoError(t, store.Revoke(ctx, "absent"))
}

// TestResolve_Expired drives the store's clock past the TTL and checks that
// expiry and never-issued are reported identically.
func TestResolve_Expired(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	current := time.Now()
	store.now = func() time.Time { return current }

	token, err := store.Issue(ctx, "user-1")
	require.NoError(t, err)

	// Just under the TTL: still valid.
	current = current.Add(session.TokenTTL - time.Second)
	userID, err := store.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	// Past the TTL: gone, with the same error as a token that never existed.
	current = current.Add(2 * time.Second)
	_, err = store.Resolve(ctx, token)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestIssue_DistinctTokens(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	a, err := store.Issue(ctx, "user-1")
	require.NoError(t, err)
	b, err := store.Issue(ctx, "user-2")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)

	userA, err := store.Resolve(ctx, a)
	require.NoError(t, err)
	userB, err := store.Resolve(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userA)
	assert.Equal(t, "user-2", userB)
}

package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"filevault/pkg/metadata"
	"filevault/pkg/metadata/storetest"
)

// TestBadgerMetadataStore runs the complete metadata.Store test suite
// against the Badger implementation, using the in-memory mode so tests
// leave nothing on disk.
func TestBadgerMetadataStore(t *testing.T) {
	suite := &storetest.StoreTestSuite{
		NewStore: func(t *testing.T) metadata.Store {
			store, err := NewInMemory()
			require.NoError(t, err)
			t.Cleanup(func() {
				_ = store.Close(context.Background())
			})
			return store
		},
	}

	suite.Run(t)
}

// TestBadgerMetadataStore_Persistence verifies documents survive reopening
// a disk-backed database, including the fields the domain types keep out
// of their JSON encoding (password digest, local path).
func TestBadgerMetadataStore_Persistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewBadgerMetadataStore(dir)
	require.NoError(t, err)

	user, err := store.CreateUser(ctx, "a@b.com", "digest")
	require.NoError(t, err)

	fileID, err := store.InsertFile(ctx, &metadata.File{
		UserID:    user.ID,
		Name:      "a.txt",
		Type:      metadata.FileTypeFile,
		ParentID:  metadata.RootParentID,
		LocalPath: "/tmp/files_manager/abc",
	})
	require.NoError(t, err)
	require.NoError(t, store.Close(ctx))

	reopened, err := NewBadgerMetadataStore(dir)
	require.NoError(t, err)
	defer reopened.Close(ctx)

	got, err := reopened.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", got.Email)
	require.Equal(t, "digest", got.PasswordDigest)

	// Credential lookups must still match after the restart.
	byCreds, err := reopened.GetUserByCredentials(ctx, "a@b.com", "digest")
	require.NoError(t, err)
	require.Equal(t, user.ID, byCreds.ID)

	file, err := reopened.GetFile(ctx, fileID)
	require.NoError(t, err)
	require.Equal(t, "/tmp/files_manager/abc", file.LocalPath)
}

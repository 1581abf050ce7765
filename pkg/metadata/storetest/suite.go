// Package storetest provides a reusable test suite that every
// metadata.Store implementation must pass. Backend packages run the suite
// from their own tests with a NewStore factory.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filevault/pkg/metadata"
)

// StoreTestSuite runs conformance tests against a metadata.Store.
type StoreTestSuite struct {
	// NewStore returns a fresh, empty store for each test.
	NewStore func(t *testing.T) metadata.Store
}

// Run executes the complete suite.
func (suite *StoreTestSuite) Run(t *testing.T) {
	t.Run("CreateUser_Success", suite.TestCreateUser_Success)
	t.Run("CreateUser_Duplicate", suite.TestCreateUser_Duplicate)
	t.Run("GetUserByCredentials", suite.TestGetUserByCredentials)
	t.Run("GetUserByID", suite.TestGetUserByID)
	t.Run("InsertAndGetFile", suite.TestInsertAndGetFile)
	t.Run("Counts", suite.TestCounts)
	t.Run("Alive", suite.TestAlive)
}

func (suite *StoreTestSuite) TestCreateUser_Success(t *testing.T) {
	store := suite.NewStore(t)
	ctx := context.Background()

	user, err := store.CreateUser(ctx, "a@b.com", "digest")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Equal(t, "digest", user.PasswordDigest)
}

func (suite *StoreTestSuite) TestCreateUser_Duplicate(t *testing.T) {
	store := suite.NewStore(t)
	ctx := context.Background()

	_, err := store.CreateUser(ctx, "a@b.com", "digest")
	require.NoError(t, err)

	_, err = store.CreateUser(ctx, "a@b.com", "other")
	require.Error(t, err)
	assert.True(t, metadata.IsAlreadyExists(err), "expected AlreadyExists, got %v", err)
}

func (suite *StoreTestSuite) TestGetUserByCredentials(t *testing.T) {
	store := suite.NewStore(t)
	ctx := context.Background()

	created, err := store.CreateUser(ctx, "a@b.com", "digest")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		digest   string
		wantUser bool
	}{
		{name: "matching_credentials", email: "a@b.com", digest: "digest", wantUser: true},
		{name: "wrong_digest", email: "a@b.com", digest: "nope"},
		{name: "unknown_email", email: "x@y.com", digest: "digest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := store.GetUserByCredentials(ctx, tt.email, tt.digest)
			if !tt.wantUser {
				require.Error(t, err)
				assert.True(t, metadata.IsNotFound(err), "expected NotFound, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, created.ID, user.ID)
		})
	}
}

func (suite *StoreTestSuite) TestGetUserByID(t *testing.T) {
	store := suite.NewStore(t)
	ctx := context.Background()

	created, err := store.CreateUser(ctx, "a@b.com", "digest")
	require.NoError(t, err)

	user, err := store.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)

	_, err = store.GetUserByID(ctx, "missing")
	require.Error(t, err)
	assert.True(t, metadata.IsNotFound(err))
}

func (suite *StoreTestSuite) TestInsertAndGetFile(t *testing.T) {
	store := suite.NewStore(t)
	ctx := context.Background()

	file := &metadata.File{
		UserID:    "owner",
		Name:      "report.txt",
		Type:      metadata.FileTypeFile,
		IsPublic:  true,
		ParentID:  metadata.RootParentID,
		LocalPath: "/tmp/files_manager/abc",
	}

	id, err := store.InsertFile(ctx, file)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := store.GetFile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "owner", got.UserID)
	assert.Equal(t, "report.txt", got.Name)
	assert.Equal(t, metadata.FileTypeFile, got.Type)
	assert.True(t, got.IsPublic)
	assert.Equal(t, metadata.RootParentID, got.ParentID)
	assert.Equal(t, "/tmp/files_manager/abc", got.LocalPath)

	_, err = store.GetFile(ctx, "missing")
	require.Error(t, err)
	assert.True(t, metadata.IsNotFound(err))
}

func (suite *StoreTestSuite) TestCounts(t *testing.T) {
	store := suite.NewStore(t)
	ctx := context.Background()

	users, err := store.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), users)

	files, err := store.CountFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), files)

	_, err = store.CreateUser(ctx, "a@b.com", "digest")
	require.NoError(t, err)
	_, err = store.CreateUser(ctx, "b@c.com", "digest")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = store.InsertFile(ctx, &metadata.File{
			UserID:   "owner",
			Name:     "docs",
			Type:     metadata.FileTypeFolder,
			ParentID: metadata.RootParentID,
		})
		require.NoError(t, err)
	}

	users, err = store.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), users)

	files, err = store.CountFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), files)
}

func (suite *StoreTestSuite) TestAlive(t *testing.T) {
	store := suite.NewStore(t)
	assert.True(t, store.Alive())
}

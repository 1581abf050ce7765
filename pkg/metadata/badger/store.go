// Package badger implements metadata.Store using BadgerDB for persistence.
//
// This backend is suitable for single-node deployments that need metadata
// to survive restarts without running a database server. Documents are
// stored as JSON under namespaced keys:
//
//	Data Type       Prefix   Key Format     Value
//	=================================================
//	User            "u:"     u:<uuid>       userRecord (JSON)
//	Email index     "ue:"    ue:<email>     user uuid (bytes)
//	File            "f:"     f:<uuid>       fileRecord (JSON)
//
// The email index gives O(1) credential lookups; counts are prefix scans
// with value prefetch disabled.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"filevault/pkg/metadata"
)

const (
	userPrefix  = "u:"
	emailPrefix = "ue:"
	filePrefix  = "f:"
)

// BadgerMetadataStore implements metadata.Store backed by an embedded
// BadgerDB database.
//
// Thread Safety:
// Badger transactions provide isolation; the store itself is stateless
// beyond the database handle and safe for concurrent use.
type BadgerMetadataStore struct {
	db *badger.DB
}

// userRecord is the stored representation of metadata.User. The domain
// struct excludes PasswordDigest from its JSON encoding, so persistence
// needs its own.
type userRecord struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// fileRecord is the stored representation of metadata.File. LocalPath is
// part of the record even though the domain struct never serializes it.
type fileRecord struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	IsPublic  bool   `json:"isPublic"`
	ParentID  string `json:"parentId"`
	LocalPath string `json:"localPath,omitempty"`
}

func userFromRecord(rec *userRecord) *metadata.User {
	return &metadata.User{
		ID:             rec.ID,
		Email:          rec.Email,
		PasswordDigest: rec.Password,
	}
}

func fileFromRecord(rec *fileRecord) *metadata.File {
	return &metadata.File{
		ID:        rec.ID,
		UserID:    rec.UserID,
		Name:      rec.Name,
		Type:      metadata.FileType(rec.Type),
		IsPublic:  rec.IsPublic,
		ParentID:  rec.ParentID,
		LocalPath: rec.LocalPath,
	}
}

// NewBadgerMetadataStore opens (or creates) a Badger database at path.
func NewBadgerMetadataStore(path string) (*BadgerMetadataStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	return &BadgerMetadataStore{db: db}, nil
}

// NewInMemory opens a Badger database that lives entirely in memory.
// Used by tests and the development configuration.
func NewInMemory() (*BadgerMetadataStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory badger database: %w", err)
	}

	return &BadgerMetadataStore{db: db}, nil
}

// CreateUser inserts a new user if the email is not already registered.
// The existence check and the two writes share one transaction.
func (s *BadgerMetadataStore) CreateUser(ctx context.Context, email, passwordDigest string) (*metadata.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec := &userRecord{
		ID:       uuid.NewString(),
		Email:    email,
		Password: passwordDigest,
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(emailPrefix + email))
		if err == nil {
			return metadata.AlreadyExists("user already exists")
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(userPrefix+rec.ID), data); err != nil {
			return err
		}
		return txn.Set([]byte(emailPrefix+email), []byte(rec.ID))
	})
	if err != nil {
		return nil, storeErr(err, "failed to create user")
	}

	return userFromRecord(rec), nil
}

// GetUserByCredentials finds a user by email and password digest equality.
func (s *BadgerMetadataStore) GetUserByCredentials(ctx context.Context, email, passwordDigest string) (*metadata.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rec userRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(emailPrefix + email))
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return getJSON(txn, userPrefix+string(id), &rec)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, metadata.NotFound("user not found")
	}
	if err != nil {
		return nil, storeErr(err, "failed to look up user")
	}

	if rec.Password != passwordDigest {
		return nil, metadata.NotFound("user not found")
	}
	return userFromRecord(&rec), nil
}

// GetUserByID finds a user by its identifier.
func (s *BadgerMetadataStore) GetUserByID(ctx context.Context, id string) (*metadata.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rec userRecord
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, userPrefix+id, &rec)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, metadata.NotFound("user not found")
	}
	if err != nil {
		return nil, storeErr(err, "failed to look up user")
	}
	return userFromRecord(&rec), nil
}

// GetFile finds a file document by its identifier.
func (s *BadgerMetadataStore) GetFile(ctx context.Context, id string) (*metadata.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rec fileRecord
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, filePrefix+id, &rec)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, metadata.NotFound("file not found")
	}
	if err != nil {
		return nil, storeErr(err, "failed to look up file")
	}
	return fileFromRecord(&rec), nil
}

// InsertFile persists a new file document and returns the assigned ID.
func (s *BadgerMetadataStore) InsertFile(ctx context.Context, file *metadata.File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rec := fileRecord{
		ID:        uuid.NewString(),
		UserID:    file.UserID,
		Name:      file.Name,
		Type:      string(file.Type),
		IsPublic:  file.IsPublic,
		ParentID:  file.ParentID,
		LocalPath: file.LocalPath,
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(&rec)
		if err != nil {
			return err
		}
		return txn.Set([]byte(filePrefix+rec.ID), data)
	})
	if err != nil {
		return "", storeErr(err, "failed to insert file")
	}
	return rec.ID, nil
}

// CountUsers counts keys under the user prefix.
func (s *BadgerMetadataStore) CountUsers(ctx context.Context) (int64, error) {
	return s.countPrefix(ctx, userPrefix)
}

// CountFiles counts keys under the file prefix.
func (s *BadgerMetadataStore) CountFiles(ctx context.Context) (int64, error) {
	return s.countPrefix(ctx, filePrefix)
}

func (s *BadgerMetadataStore) countPrefix(ctx context.Context, prefix string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var count int64
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, storeErr(err, "failed to count documents")
	}
	return count, nil
}

// Alive reports whether the database handle is open.
func (s *BadgerMetadataStore) Alive() bool {
	return s.db != nil && !s.db.IsClosed()
}

// Close closes the underlying database.
func (s *BadgerMetadataStore) Close(ctx context.Context) error {
	return s.db.Close()
}

// getJSON fetches a key within txn and unmarshals its value into out.
func getJSON(txn *badger.Txn, key string, out any) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}

// storeErr passes through domain errors and wraps everything else as an
// I/O error so callers see a single error shape.
func storeErr(err error, message string) error {
	var se *metadata.StoreError
	if errors.As(err, &se) {
		return se
	}
	return metadata.IOError(fmt.Sprintf("%s: %v", message, err))
}

package metadata

import "context"

// Store provides document-oriented persistence for users and files.
//
// The interface deliberately requires only equality-filter semantics
// (find one, insert one, count), so it can be backed by a document
// database, an embedded key-value store, or plain maps for testing.
//
// Separation of Concerns:
//
// The metadata store manages file documents (owner, name, type, hierarchy)
// but does NOT manage file content. File bytes are stored separately in a
// content store; File.LocalPath is the only link between the two.
//
// Error Handling:
// Business-logic failures (absent document, duplicate email) are reported
// as *StoreError with the appropriate code. Infrastructure failures may be
// returned either as ErrIOError or as the backend's own error.
//
// Thread Safety:
// Implementations must be safe for concurrent use by multiple goroutines.
type Store interface {
	// CreateUser inserts a new user after checking that no user with the
	// same email exists. Returns ErrAlreadyExists if the email is taken.
	// The existence check and insert are not atomic across concurrent
	// callers; the last writer wins, matching the registration semantics.
	CreateUser(ctx context.Context, email, passwordDigest string) (*User, error)

	// GetUserByCredentials finds the user matching both email and password
	// digest. Returns ErrNotFound when no user matches; callers must not
	// learn which of the two fields failed to match.
	GetUserByCredentials(ctx context.Context, email, passwordDigest string) (*User, error)

	// GetUserByID finds a user by its identifier.
	GetUserByID(ctx context.Context, id string) (*User, error)

	// GetFile finds a file document by its identifier.
	GetFile(ctx context.Context, id string) (*File, error)

	// InsertFile persists a new file document and returns the assigned ID.
	// The document's ID field is ignored on input.
	InsertFile(ctx context.Context, file *File) (string, error)

	// CountUsers returns the number of user documents.
	CountUsers(ctx context.Context) (int64, error)

	// CountFiles returns the number of file documents.
	CountFiles(ctx context.Context) (int64, error)

	// Alive reports whether the store holds a usable connection. This is a
	// local handle check only; it performs no network I/O.
	Alive() bool

	// Close releases the underlying connection. Safe to call once after
	// serving stops.
	Close(ctx context.Context) error
}

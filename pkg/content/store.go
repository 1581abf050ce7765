// Package content abstracts raw byte storage for uploaded files.
//
// The content store manages only file data. It does NOT manage metadata,
// hierarchy, or access control; those live in the metadata store, which
// references content by the path recorded in File.LocalPath.
//
// This separation allows the two sides to scale and fail independently: a
// metadata document may briefly exist without its bytes if a write fails
// mid-pipeline (an accepted inconsistency window; the pipeline does not
// roll back the document).
package content

import "context"

// Store reads and writes file content at opaque storage paths.
//
// Paths are generated by the upload pipeline (storage root + fresh unique
// name) and treated as opaque here; only the backend interprets them.
//
// Thread Safety:
// Implementations must be safe for concurrent use. Concurrent writes to
// the same path are last-write-wins.
type Store interface {
	// Write stores data at path, creating any missing parent directory.
	Write(ctx context.Context, path string, data []byte) error

	// Read returns the full content stored at path.
	Read(ctx context.Context, path string) ([]byte, error)

	// Close releases backend resources.
	Close() error
}

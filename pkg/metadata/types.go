package metadata

// FileType classifies a file document.
//
// Folders never carry content; files and images always reference exactly one
// blob in the content store via LocalPath.
type FileType string

const (
	FileTypeFolder FileType = "folder"
	FileTypeFile   FileType = "file"
	FileTypeImage  FileType = "image"
)

// Valid reports whether t is one of the accepted file types.
func (t FileType) Valid() bool {
	switch t {
	case FileTypeFolder, FileTypeFile, FileTypeImage:
		return true
	}
	return false
}

// RootParentID is the sentinel parent value meaning "no parent".
const RootParentID = "0"

// User is a registered account. Users are created once and never mutated.
//
// The json tags describe the HTTP response shape only; each backend defines
// its own wire representation for persistence.
type User struct {
	// ID is the store-assigned identifier, encoded as a string so it stays
	// backend-agnostic (ObjectID hex for MongoDB, UUID elsewhere).
	ID string `json:"id"`

	// Email uniquely identifies the account.
	Email string `json:"email"`

	// PasswordDigest is the hex digest of the password. Only ever compared,
	// never decoded. Never serialized into responses.
	PasswordDigest string `json:"-"`
}

// File is the metadata document for a stored file, image, or folder.
//
// Invariants:
//   - ParentID is either RootParentID or the ID of an existing folder.
//   - Folders never have LocalPath set and never have content on disk.
//   - Files and images have LocalPath set to the content location generated
//     at upload time; the raw upload payload is never persisted here.
//
// As with User, the json tags are the HTTP response shape; LocalPath never
// leaves the server.
type File struct {
	ID        string   `json:"id"`
	UserID    string   `json:"userId"`
	Name      string   `json:"name"`
	Type      FileType `json:"type"`
	IsPublic  bool     `json:"isPublic"`
	ParentID  string   `json:"parentId"`
	LocalPath string   `json:"-"`
}

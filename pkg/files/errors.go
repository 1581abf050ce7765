package files

// Error is a pipeline error with a stable, user-visible message.
//
// Messages are part of the HTTP contract and must not change; the API
// layer maps codes to status codes and echoes Message verbatim in the
// error body.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// ErrorCode categorizes upload pipeline failures.
type ErrorCode int

const (
	// CodeInvalidRequest indicates the request body failed shape validation
	CodeInvalidRequest ErrorCode = iota

	// CodeParentNotFound indicates parentId references no document
	CodeParentNotFound

	// CodeParentNotFolder indicates parentId references a non-folder
	CodeParentNotFolder

	// CodePersistence indicates the metadata insert or byte write failed
	CodePersistence

	// CodeStorageDir indicates the storage root directory could not be
	// created; the only pipeline failure reported as a server error
	CodeStorageDir
)

// Validation and pipeline errors, one per documented failure mode.
var (
	ErrMissingName     = &Error{Code: CodeInvalidRequest, Message: "Missing name"}
	ErrMissingType     = &Error{Code: CodeInvalidRequest, Message: "Missing type"}
	ErrMissingData     = &Error{Code: CodeInvalidRequest, Message: "Missing data"}
	ErrParentNotFound  = &Error{Code: CodeParentNotFound, Message: "Parent not found"}
	ErrParentNotFolder = &Error{Code: CodeParentNotFolder, Message: "Parent is not a folder"}
	ErrUpload          = &Error{Code: CodePersistence, Message: "Could not upload the file"}
	ErrStorageDir      = &Error{Code: CodeStorageDir, Message: "Error creating folder"}
)

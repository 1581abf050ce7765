package metadata

// StoreError represents a domain error from metadata store operations.
//
// These are business logic errors (user not found, duplicate email, etc.)
// as opposed to infrastructure errors (network failure, disk error). The
// HTTP layer translates ErrorCode values to status codes and stable error
// bodies; infrastructure errors surface as ErrIOError.
type StoreError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return e.Message
}

// ErrorCode represents the category of a metadata store error.
type ErrorCode int

const (
	// ErrNotFound indicates the requested document doesn't exist
	ErrNotFound ErrorCode = iota

	// ErrAlreadyExists indicates a document with the same unique key exists
	ErrAlreadyExists

	// ErrInvalidArgument indicates invalid parameters were provided
	ErrInvalidArgument

	// ErrIOError indicates the underlying store failed to read or write
	ErrIOError

	// ErrUnavailable indicates the store is not connected
	ErrUnavailable
)

// NotFound builds a StoreError with code ErrNotFound.
func NotFound(message string) *StoreError {
	return &StoreError{Code: ErrNotFound, Message: message}
}

// AlreadyExists builds a StoreError with code ErrAlreadyExists.
func AlreadyExists(message string) *StoreError {
	return &StoreError{Code: ErrAlreadyExists, Message: message}
}

// IOError builds a StoreError with code ErrIOError.
func IOError(message string) *StoreError {
	return &StoreError{Code: ErrIOError, Message: message}
}

// IsNotFound reports whether err is a StoreError with code ErrNotFound.
func IsNotFound(err error) bool {
	if se, ok := err.(*StoreError); ok {
		return se.Code == ErrNotFound
	}
	return false
}

// IsAlreadyExists reports whether err is a StoreError with code ErrAlreadyExists.
func IsAlreadyExists(err error) bool {
	if se, ok := err.(*StoreError); ok {
		return se.Code == ErrAlreadyExists
	}
	return false
}

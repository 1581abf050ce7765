package content

import "errors"

// ErrCreateDir marks a failure to create the directory that should hold the
// content, as opposed to a failure writing the bytes themselves. Backends
// wrap directory-creation errors with this sentinel so the upload pipeline
// can report the two cases differently.
var ErrCreateDir = errors.New("failed to create content directory")

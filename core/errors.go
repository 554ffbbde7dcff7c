package core

import "errors"

// Error taxonomy for a build. All three are fatal and abort the whole
// build; underlying reader errors are propagated wrapped without being
// reclassified.

// ErrConfig indicates a missing or ambiguous piece of configuration.
var ErrConfig = errors.New("configuration error")

// ErrResolution indicates a file, registry name, module or symbol that
// could not be found. The message carries the offending identifier.
var ErrResolution = errors.New("resolution error")

// ErrTypeMismatch indicates a dynamic callable returned the wrong shape,
// or the selected key was absent from a returned mapping.
var ErrTypeMismatch = errors.New("type mismatch")

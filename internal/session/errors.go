package session

import (
	"errors"
	"fmt"
)

// IOOp names the external surface an IOError failed to reach.
type IOOp string

const (
	// OpRender indicates the program text could not be produced.
	OpRender IOOp = "render"

	// OpWrite indicates the generated file could not be written.
	OpWrite IOOp = "write"

	// OpInvoke indicates the build tool could not be started.
	OpInvoke IOOp = "invoke"

	// OpManifest indicates the dependency manifest could not be read.
	OpManifest IOOp = "manifest"
)

// IOError represents a failure to reach one of the session's external
// surfaces. It aborts the current cycle; the session itself continues and
// the next submission starts a fresh cycle.
type IOError struct {
	Op   IOOp
	Path string
	Err  error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *IOError) Unwrap() error {
	return e.Err
}

// IsIOError reports whether err is (or wraps) an IOError.
func IsIOError(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}

func newIOError(op IOOp, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: err}
}

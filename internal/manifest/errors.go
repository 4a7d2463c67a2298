package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for file extensions other than
	// .xlsx, .xlsm and .csv.
	ErrUnsupportedFormat = errors.New("unsupported manifest format (want .xlsx, .xlsm or .csv)")

	// ErrMissingColumns is returned when a required column is absent.
	ErrMissingColumns = errors.New("missing required columns")

	// ErrNoHeader is returned for a manifest without a header row.
	ErrNoHeader = errors.New("manifest has no header row")
)

// Error is a manifest-level failure. It is fatal to the whole invocation
// and is reported before any round starts.
type Error struct {
	Op   string // load, write, validate
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("manifest %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op, path string, err error) error {
	return &Error{Op: op, Path: path, Err: err}
}

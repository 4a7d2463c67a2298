package download

import (
	"errors"

	"github.com/handiism/batch-downloader/internal/model"
)

var errNoFile = errors.New("no file returned")

// RetrievalError means the engine failed, returned nothing, or returned a
// file that does not exist or does not verify.
type RetrievalError struct {
	ItemID string
	Err    error
}

func (e *RetrievalError) Error() string { return e.Err.Error() }
func (e *RetrievalError) Unwrap() error { return e.Err }

// FinalizeError means the retrieved file could not be moved into place.
type FinalizeError struct {
	ItemID string
	Err    error
}

func (e *FinalizeError) Error() string { return "finalize: " + e.Err.Error() }
func (e *FinalizeError) Unwrap() error { return e.Err }

// UnexpectedError covers any other fault while processing an item.
type UnexpectedError struct {
	ItemID string
	Err    error
}

func (e *UnexpectedError) Error() string { return "error: " + e.Err.Error() }
func (e *UnexpectedError) Unwrap() error { return e.Err }

// failedOutcome converts a pipeline error to a Failed outcome.
func failedOutcome(err error) model.Outcome {
	var (
		rerr *RetrievalError
		ferr *FinalizeError
	)
	switch {
	case errors.As(err, &rerr):
		return model.Failed(model.ErrRetrieval, err.Error())
	case errors.As(err, &ferr):
		return model.Failed(model.ErrFinalize, err.Error())
	default:
		return model.Failed(model.ErrUnexpected, err.Error())
	}
}

package model

// OutcomeKind tags the variant held by an Outcome.
type OutcomeKind int

const (
	OutcomeCompleted OutcomeKind = iota
	OutcomeSkipped
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCompleted:
		return "completed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrorKind classifies a failed item.
type ErrorKind int

const (
	// ErrNone is used for non-failed outcomes.
	ErrNone ErrorKind = iota

	// ErrRetrieval means the engine returned nothing, a missing file, or an error.
	ErrRetrieval

	// ErrFinalize means the retrieved file could not be moved into place.
	ErrFinalize

	// ErrUnexpected covers any other fault raised while processing the item.
	ErrUnexpected

	// ErrCanceled means the round was canceled before the item ran.
	ErrCanceled
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNone:
		return "none"
	case ErrRetrieval:
		return "retrieval"
	case ErrFinalize:
		return "finalize"
	case ErrUnexpected:
		return "unexpected"
	case ErrCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Outcome is the result of processing one WorkItem.
//
// Path is the final file for Completed and the existing file for Skipped.
// ErrKind and Message are only set for Failed.
type Outcome struct {
	Kind    OutcomeKind
	Path    string
	ErrKind ErrorKind
	Message string
}

// Completed returns a successful outcome stored at path.
func Completed(path string) Outcome {
	return Outcome{Kind: OutcomeCompleted, Path: path}
}

// Skipped returns an outcome for an item already present at path.
func Skipped(path string) Outcome {
	return Outcome{Kind: OutcomeSkipped, Path: path}
}

// Failed returns a failed outcome.
func Failed(kind ErrorKind, message string) Outcome {
	return Outcome{Kind: OutcomeFailed, ErrKind: kind, Message: message}
}

// OK reports whether the item is materialized in the output tree.
func (o Outcome) OK() bool {
	return o.Kind == OutcomeCompleted || o.Kind == OutcomeSkipped
}

package errors

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation references an unknown finding id.
var ErrNotFound = errors.New("finding not found")

// ErrScanInProgress is returned when a scan is requested while another one is still running.
var ErrScanInProgress = errors.New("a scan is already in progress")

// Kind classifies a scan or import failure.
type Kind int

const (
	// KindPrecondition covers failures detected before the scanner is spawned.
	KindPrecondition Kind = iota + 1
	// KindSubprocess covers non-zero exits and stream errors of the scanner process.
	KindSubprocess
	// KindArtifact covers a missing, unreadable or unparsable output artifact.
	KindArtifact
	// KindContent covers a well-formed artifact that reports scanner errors.
	KindContent
	// KindValidation covers artifacts rejected by the importer.
	KindValidation
	// KindCanceled covers runs stopped by cancellation or timeout.
	KindCanceled
)

// String returns the human-readable name of a Kind.
func (k Kind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition"
	case KindSubprocess:
		return "subprocess"
	case KindArtifact:
		return "artifact"
	case KindContent:
		return "content"
	case KindValidation:
		return "validation"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// ScanError is a classified failure of the scan or import pipeline.
type ScanError struct {
	Kind Kind
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScanError) Unwrap() error {
	return e.Err
}

// NewScanError creates a ScanError of the given kind.
func NewScanError(kind Kind, op string, err error) *ScanError {
	return &ScanError{Kind: kind, Op: op, Err: err}
}

// KindOf reports the Kind of the first ScanError in err's chain, or 0 if there is none.
func KindOf(err error) Kind {
	var se *ScanError
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

// IsKind reports whether err carries a ScanError of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

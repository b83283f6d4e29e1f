package fmindex

import (
	"errors"
	"fmt"
)

// Sentinel construction errors, grounded on bwt/bwt.go's validation
// functions (validateSequenceBeforeTransforming, isValidPattern) but
// expressed as errors.Is-comparable values rather than ad hoc
// fmt.Errorf strings, since this package's callers branch on kind.
var (
	// ErrOutOfMemory is returned by Build when an allocation failure
	// (or any other panic) occurs during construction. It is never
	// retried.
	ErrOutOfMemory = errors.New("fmindex: out of memory")

	// ErrInputContainsSentinel is returned by Build when the input
	// text already contains the reserved sentinel byte.
	ErrInputContainsSentinel = errors.New("fmindex: input contains reserved sentinel byte")

	// ErrEmptyInput is returned by Build when the input text has
	// length zero.
	ErrEmptyInput = errors.New("fmindex: input text must not be empty")

	// ErrRangeOutOfBounds is returned by Extract when start < 0,
	// end > Len(), or start >= end.
	ErrRangeOutOfBounds = errors.New("fmindex: extract range out of bounds")
)

// IOError reports a failure reading or writing an index file.
type IOError struct {
	Path string
	Kind string // "open", "read", "write", "close"
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("fmindex: %s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// MalformedIndexError reports that a serialized index failed to parse
// or failed an internal consistency check at load time: a short read,
// a length/σ mismatch, or a checksum mismatch.
type MalformedIndexError struct {
	Offset int64
	Reason string
}

func (e *MalformedIndexError) Error() string {
	return fmt.Sprintf("fmindex: malformed index at offset %d: %s", e.Offset, e.Reason)
}

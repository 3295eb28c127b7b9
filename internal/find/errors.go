package find

import "errors"

// Evaluation failures are per-entry and recoverable: the entry is excluded
// from matches, recorded in the result's error list, and the query
// continues. Metadata I/O failures are reported by wrapping the underlying
// error; everything below covers the non-I/O cases so callers can tell a
// platform capability gap apart from a file that couldn't be examined.
var (
	// ErrNoFilename means the entry has no final path component.
	ErrNoFilename = errors.New("entry has no filename")

	// ErrBadEncoding means a name or path is not valid UTF-8.
	ErrBadEncoding = errors.New("name is not valid UTF-8")

	// ErrUnsupportedField means the platform cannot answer the question,
	// e.g. creation time on a filesystem without birth-time support.
	ErrUnsupportedField = errors.New("field is not supported on this platform")
)

// EvalError records a condition evaluation failure for one entry. The entry
// may or may not have matched; it is never included in the match list.
type EvalError struct {
	Path string
	Err  error
}

func (e EvalError) Error() string { return e.Path + ": " + e.Err.Error() }

// Unwrap exposes the underlying evaluation error to errors.Is/As.
func (e EvalError) Unwrap() error { return e.Err }

// WalkError records a traversal failure: the walk provider could not read
// an entry at all. It is kept separate from evaluation errors because the
// two happen at different layers and callers may treat them differently.
type WalkError struct {
	Path string
	Err  error
}

func (e WalkError) Error() string { return e.Path + ": " + e.Err.Error() }

// Unwrap exposes the underlying traversal error to errors.Is/As.
func (e WalkError) Unwrap() error { return e.Err }

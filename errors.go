package primesieve

import "github.com/pkg/errors"

// Kind classifies a primesieve error without exposing a concrete type,
// matching spec.md §7's "error taxonomy (kinds, not types)".
type Kind int

const (
	// OutOfRange: stop exceeds the engine's supported range, start > stop
	// was rejected at the API boundary, or an nth-prime request would
	// exceed bounds.
	OutOfRange Kind = iota
	// InvalidConfig: a tuning knob (sieve_size_kib, num_threads) was
	// outside its documented range.
	InvalidConfig
	// Allocation: MemoryPool could not obtain a bucket block.
	Allocation
	// IteratorError: an internal failure in the iterator's generate_next
	// or generate_prev path latched the iterator into an error state.
	IteratorError
)

func (k Kind) String() string {
	switch k {
	case OutOfRange:
		return "OutOfRange"
	case InvalidConfig:
		return "InvalidConfig"
	case Allocation:
		return "Allocation"
	case IteratorError:
		return "IteratorError"
	default:
		return "Unknown"
	}
}

// Error is the sentinel-wrapped error value every primesieve failure is
// (or wraps, via errors.Is/errors.As) an instance of.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return "primesieve: " + e.msg }

// Is lets errors.Is(err, OutOfRangeErr) etc. match any Error of the same
// Kind, regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinel values for errors.Is comparisons, e.g.
// errors.Is(err, primesieve.ErrOutOfRange).
var (
	ErrOutOfRange    = &Error{Kind: OutOfRange, msg: "out of range"}
	ErrInvalidConfig = &Error{Kind: InvalidConfig, msg: "invalid config"}
	ErrAllocation    = &Error{Kind: Allocation, msg: "allocation failed"}
	ErrIterator      = &Error{Kind: IteratorError, msg: "iterator error"}
)

func newError(kind Kind, msg string) error {
	return &Error{Kind: kind, msg: msg}
}

// wrapErr classifies an internal error (from internal/erat, internal/pool,
// internal/iterator) into a Kind and attaches a stack trace via
// github.com/pkg/errors, so the CLI's top-level handler can print a cause
// chain while library callers can still errors.Is against the Kind.
func wrapErr(kind Kind, cause error) error {
	if cause == nil {
		return nil
	}
	return errors.Wrap(&Error{Kind: kind, msg: cause.Error()}, cause.Error())
}

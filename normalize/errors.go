package normalize

import "fmt"

// ErrorKind classifies normalization failures.
type ErrorKind int

const (
	InvalidDomain ErrorKind = iota + 1
	InvalidInput
	MisalignedSeries
	UnknownYear
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidDomain:
		return "invalid domain"
	case InvalidInput:
		return "invalid input"
	case MisalignedSeries:
		return "misaligned series"
	case UnknownYear:
		return "unknown year"
	default:
		return fmt.Sprintf("error kind %d", int(k))
	}
}

// Error is returned by every normalizer. Compare with errors.Is against the
// Err* sentinels to check the kind.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Detail
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidDomain    = &Error{Kind: InvalidDomain}
	ErrInvalidInput     = &Error{Kind: InvalidInput}
	ErrMisalignedSeries = &Error{Kind: MisalignedSeries}
	ErrUnknownYear      = &Error{Kind: UnknownYear}
)

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

package mp4

import (
	"errors"
	"fmt"
)

// ErrorKind tags the taxonomy of errors this package returns. Callers
// inspect BoxError.Kind; inside this package, errors.Is also matches an
// error against its kind's entry in sentinels.
type ErrorKind int

const (
	ErrUnknownBoxType ErrorKind = iota
	ErrUnknownField
	ErrDuplicateField
	ErrInsufficientBytes
	ErrValueOutOfRange
	ErrMalformedSize
	ErrNotSupported
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnknownBoxType:
		return "unknown box type"
	case ErrUnknownField:
		return "unknown field"
	case ErrDuplicateField:
		return "duplicate field"
	case ErrInsufficientBytes:
		return "insufficient bytes"
	case ErrValueOutOfRange:
		return "value out of range"
	case ErrMalformedSize:
		return "malformed size"
	case ErrNotSupported:
		return "not supported"
	default:
		return "unknown error"
	}
}

// sentinels holds one error per kind; BoxError.Is and Unwrap report them, so
// code in this package can errors.Is(err, sentinels[ErrUnknownBoxType])
// without reaching into BoxError. The map is unexported.
var (
	sentinels = map[ErrorKind]error{
		ErrUnknownBoxType:    errors.New("mp4: unknown box type"),
		ErrUnknownField:      errors.New("mp4: unknown field"),
		ErrDuplicateField:    errors.New("mp4: duplicate field"),
		ErrInsufficientBytes: errors.New("mp4: insufficient bytes"),
		ErrValueOutOfRange:   errors.New("mp4: value out of range"),
		ErrMalformedSize:     errors.New("mp4: malformed size"),
		ErrNotSupported:      errors.New("mp4: not supported"),
	}
)

// BoxError is returned by every public construction/parse/access operation
// in this package. It is never silently swallowed: an operation either
// returns a value or a *BoxError that aborts the whole enclosing call.
type BoxError struct {
	Kind    ErrorKind
	BoxType string
	Field   string
	Err     error
}

func (e *BoxError) Error() string {
	switch {
	case e.BoxType != "" && e.Field != "":
		return fmt.Sprintf("mp4: %s: box %q field %q: %v", e.Kind, e.BoxType, e.Field, e.detail())
	case e.BoxType != "":
		return fmt.Sprintf("mp4: %s: box %q: %v", e.Kind, e.BoxType, e.detail())
	default:
		return fmt.Sprintf("mp4: %s: %v", e.Kind, e.detail())
	}
}

func (e *BoxError) detail() error {
	if e.Err != nil {
		return e.Err
	}
	return sentinels[e.Kind]
}

func (e *BoxError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return sentinels[e.Kind]
}

func (e *BoxError) Is(target error) bool {
	return target == sentinels[e.Kind]
}

func newErr(kind ErrorKind, boxType, field string, err error) *BoxError {
	return &BoxError{Kind: kind, BoxType: boxType, Field: field, Err: err}
}

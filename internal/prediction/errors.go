package prediction

import (
	"errors"
	"fmt"
)

// Failure kinds. Every error produced by a prediction path wraps exactly one.
var (
	// ErrConfiguration means no credential is available for the remote path.
	ErrConfiguration = errors.New("configuration error")
	// ErrTransport means the remote endpoint could not be reached or answered
	// with a non-success status.
	ErrTransport = errors.New("transport error")
	// ErrParse means the reply was not recoverable JSON or lacked required fields.
	ErrParse = errors.New("parse error")
	// ErrClassifier means the local classification model failed to load or run.
	ErrClassifier = errors.New("classifier error")
)

// Error annotates a failure with the operation that produced it and its kind.
// errors.Is matches both the kind and the underlying cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewError wraps err as a failure of the given kind in operation op.
func NewError(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// KindOf returns the taxonomy kind wrapped by err, or nil if there is none.
func KindOf(err error) error {
	for _, kind := range []error{ErrConfiguration, ErrTransport, ErrParse, ErrClassifier} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

package alf

import (
	"fmt"

	"github.com/pkg/errors"
)

// Errors returned by the filter.
var (
	// ErrConfig reports an unusable Config.
	ErrConfig = errors.New("alf: invalid configuration")

	// ErrContract reports decoded parameters, control flags or slice
	// boundaries that do not agree with the picture. Errors wrapping it
	// also wrap the specific cause from the internal packages.
	ErrContract = errors.New("alf: contract violation")
)

// contractError ties a failure from an internal package to ErrContract.
type contractError struct {
	msg   string
	cause error
}

func (e *contractError) Error() string {
	return "alf: " + e.msg + ": " + e.cause.Error()
}

func (e *contractError) Unwrap() []error {
	return []error{ErrContract, e.cause}
}

// contract wraps cause as a contract violation with a stack trace.
func contract(cause error, format string, args ...any) error {
	return errors.WithStack(&contractError{msg: fmt.Sprintf(format, args...), cause: cause})
}

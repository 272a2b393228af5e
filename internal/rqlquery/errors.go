package rqlquery

import (
	"errors"
	"fmt"
)

// CompileErrorCode categorizes compile errors.
type CompileErrorCode string

const (
	// ErrCodeRangeFormat indicates a "from:to" literal without exactly two
	// non-empty parts.
	ErrCodeRangeFormat CompileErrorCode = "RANGE_FORMAT"
)

// RangeError reports a malformed range literal in an in(...) clause on a
// range field. The whole compilation fails; the literal is never dropped
// silently.
type RangeError struct {
	Code    CompileErrorCode
	Field   string // resolved field
	Literal string // offending value as written
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: invalid range %q on field '%s': expected from:to", e.Code, e.Literal, e.Field)
}

// IsRangeError reports whether err is or wraps a *RangeError.
func IsRangeError(err error) bool {
	var re *RangeError
	return errors.As(err, &re)
}

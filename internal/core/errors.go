package core

import (
	"errors"
	"fmt"
)

// Predefined errors returned when rendering a Statement.
var (
	// ErrUnsupportedOperation is returned when no operation selector was called.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrNegativeLimit is returned when LIMIT was set to a negative value.
	ErrNegativeLimit = errors.New("limit must be non-negative")
	// ErrNegativeOffset is returned when OFFSET was set to a negative value.
	ErrNegativeOffset = errors.New("offset must be non-negative")
	// ErrValueCountMismatch is returned by Validate when an INSERT or REPLACE
	// has a different number of values than columns.
	ErrValueCountMismatch = errors.New("value count does not match column count")
)

// ValueCountError describes an INSERT or REPLACE whose values do not line up
// with its columns. It matches ErrValueCountMismatch with errors.Is.
type ValueCountError struct {
	Columns int
	Values  int
}

func (e *ValueCountError) Error() string {
	return fmt.Sprintf("%s: %d columns, %d values", ErrValueCountMismatch, e.Columns, e.Values)
}

// Is reports whether target is ErrValueCountMismatch.
func (e *ValueCountError) Is(target error) bool {
	return target == ErrValueCountMismatch
}

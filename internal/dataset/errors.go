package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrColumnNotFound is returned when a requested column is absent from a file header
	ErrColumnNotFound = errors.New("no such column")

	// ErrRoleNotRequested is returned when a named role (week, seconds, satellite)
	// refers to a column that is not part of the requested projection
	ErrRoleNotRequested = errors.New("role column not requested")

	// ErrNoSatelliteRole is returned by satellite operations on a dataset loaded without a satellite role
	ErrNoSatelliteRole = errors.New("dataset has no satellite column")

	errMissingField = errors.New("missing field")
)

// ColumnError reports a requested column name that could not be resolved
type ColumnError struct {
	Path   string
	Column string
	Header []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s: column %q not in header [%s]: %v", e.Path, e.Column, strings.Join(e.Header, ", "), ErrColumnNotFound)
}

func (e *ColumnError) Unwrap() error { return ErrColumnNotFound }

// ParseError reports a selected field that is not a number
type ParseError struct {
	Path   string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: column %s: cannot parse %q: %v", e.Path, e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

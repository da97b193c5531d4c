package rtyaml

import "fmt"

// StructureError is returned when a node does not have the shape its tag
// demands, e.g. a sequence tagged !!map, or when a mapping key cannot be
// used as a key.
type StructureError struct {
	// Line and Column locate the offending node (1-based).
	Line   int
	Column int
	// Context describes what was being constructed.
	Context string
	// Problem describes what was found instead.
	Problem string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("yaml: line %d, column %d: %s: %s", e.Line, e.Column, e.Context, e.Problem)
}

// NotFoundError is returned by Open and Edit when the file does not exist
// and no mapping or sequence default was given.
//
// It unwraps to the underlying *fs.PathError, so
// errors.Is(err, fs.ErrNotExist) holds.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// PanicError is raised by Edit and EditStream in place of a panic from the
// callback when writing the document back failed as well.
type PanicError struct {
	// Value is the value the callback panicked with.
	Value any
	// Err is the write-back error.
	Err error
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v (write-back failed: %v)", e.Value, e.Err)
}

func (e *PanicError) Unwrap() error {
	return e.Err
}

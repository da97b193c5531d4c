package docpath

import "fmt"

// NotFoundError is returned by Get when nothing exists at the pointer.
type NotFoundError struct {
	Pointer string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("path not found: %s", e.Pointer)
}

// PathError is returned when a pointer is malformed or cannot be applied.
type PathError struct {
	Pointer string
	Reason  string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Pointer, e.Reason)
}

// TypeMismatchError is returned when a pointer steps into a scalar.
type TypeMismatchError struct {
	Pointer  string
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch at %q: expected %s, got %s", e.Pointer, e.Expected, e.Actual)
}

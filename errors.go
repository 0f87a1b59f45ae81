package catframe

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports malformed caller input, such as join key lists
	// of different shapes.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTypeMismatch reports values that cannot be unioned, compared or coerced
	// to the requested type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrNotCategorical is returned by categorical-only accessors on plain columns.
	ErrNotCategorical = errors.New("column is not categorical")

	// ErrLengthMismatch reports columns of different lengths in one DataFrame.
	ErrLengthMismatch = errors.New("length mismatch")
)

// SchemaError represents a schema mismatch error
type SchemaError struct {
	Message string
	Index   int
}

func (e *SchemaError) Error() string {
	return e.Message
}

// ColumnNotFoundError represents a column not found error
type ColumnNotFoundError struct {
	Name string
}

func (e *ColumnNotFoundError) Error() string {
	return "column not found: " + e.Name
}

func typeMismatchf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrTypeMismatch, fmt.Sprintf(format, args...))
}

func invalidArgumentf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

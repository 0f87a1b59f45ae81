package catframe

import (
	"fmt"
	"strings"
)

// DType represents the data type of a Series
type DType uint8

const (
	// Numeric types
	Float64 DType = iota
	Int64

	// Other types
	Bool
	String
	DateTime // stored as UTC unix nanoseconds

	// Null type (every row is null)
	Null

	// Categorical type: integer codes into a per-column category set
	Categorical
)

// String returns the string representation of the DType
func (d DType) String() string {
	switch d {
	case Float64:
		return "Float64"
	case Int64:
		return "Int64"
	case Bool:
		return "Bool"
	case String:
		return "String"
	case DateTime:
		return "DateTime"
	case Null:
		return "Null"
	case Categorical:
		return "Categorical"
	default:
		return fmt.Sprintf("Unknown(%d)", d)
	}
}

// IsNumeric returns true if the dtype is a numeric type
func (d DType) IsNumeric() bool {
	return d == Float64 || d == Int64
}

// IsCategorical returns true if the dtype is Categorical
func (d DType) IsCategorical() bool {
	return d == Categorical
}

// IsPlain returns true for dtypes that can hold category values.
func (d DType) IsPlain() bool {
	switch d {
	case Float64, Int64, Bool, String, DateTime:
		return true
	default:
		return false
	}
}

// Size returns the size in bytes of the dtype
func (d DType) Size() int {
	switch d {
	case Float64, Int64, DateTime:
		return 8
	case Bool:
		return 1
	case Categorical:
		return 4 // codes only
	case String:
		return -1 // Variable size
	default:
		return 0
	}
}

// ParseDType parses a dtype name. Besides the canonical names it accepts the
// short aliases people type on a command line ("int", "float", "str").
func ParseDType(name string) (DType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "float64", "float", "f64", "double":
		return Float64, nil
	case "int64", "int", "i64", "integer":
		return Int64, nil
	case "bool", "boolean":
		return Bool, nil
	case "string", "str", "utf8", "object":
		return String, nil
	case "datetime", "timestamp", "date":
		return DateTime, nil
	case "null":
		return Null, nil
	case "categorical", "category", "cat":
		return Categorical, nil
	default:
		return Null, fmt.Errorf("%w: unknown dtype %q", ErrInvalidArgument, name)
	}
}

// Schema represents the schema of a DataFrame
type Schema struct {
	names  []string
	dtypes []DType
}

// NewSchema creates a new schema from column names and types
func NewSchema(names []string, dtypes []DType) (*Schema, error) {
	if len(names) != len(dtypes) {
		return nil, fmt.Errorf("names and dtypes must have same length: %d != %d", len(names), len(dtypes))
	}

	// Check for duplicate names
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return nil, fmt.Errorf("duplicate column name: %s", name)
		}
		seen[name] = true
	}

	return &Schema{
		names:  append([]string{}, names...),
		dtypes: append([]DType{}, dtypes...),
	}, nil
}

// Len returns the number of columns in the schema
func (s *Schema) Len() int {
	return len(s.names)
}

// Names returns the column names
func (s *Schema) Names() []string {
	return append([]string{}, s.names...)
}

// DTypes returns the column data types
func (s *Schema) DTypes() []DType {
	return append([]DType{}, s.dtypes...)
}

// GetDType returns the dtype for a column name
func (s *Schema) GetDType(name string) (DType, bool) {
	if i, ok := s.GetIndex(name); ok {
		return s.dtypes[i], true
	}
	return Null, false
}

// GetIndex returns the index of a column name
func (s *Schema) GetIndex(name string) (int, bool) {
	for i, n := range s.names {
		if n == name {
			return i, true
		}
	}
	return -1, false
}

// String returns a string representation of the schema
func (s *Schema) String() string {
	var b strings.Builder
	b.WriteString("Schema{\n")
	for i, name := range s.names {
		fmt.Fprintf(&b, "  %s: %s\n", name, s.dtypes[i])
	}
	b.WriteString("}")
	return b.String()
}

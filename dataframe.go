package catframe

import (
	"fmt"
)

// DataFrame is an ordered collection of equally long, uniquely named Series.
//
// Series are immutable, so a DataFrame changes only by swapping columns
// (SetColumn). The category-aware entry points rely on this: they rebind the
// columns of the caller's DataFrame and never touch the Series the caller
// may still hold.
type DataFrame struct {
	columns []*Series
	index   map[string]int
}

// ============================================================================
// Creation
// ============================================================================

// NewDataFrame creates a DataFrame from Series. All series must have the
// same length and distinct names. nil series are skipped.
func NewDataFrame(series ...*Series) (*DataFrame, error) {
	df := &DataFrame{index: make(map[string]int, len(series))}
	height := -1
	for _, s := range series {
		if s == nil {
			continue
		}
		if _, dup := df.index[s.Name()]; dup {
			return nil, &SchemaError{Message: fmt.Sprintf("duplicate column name: %s", s.Name()), Index: len(df.columns)}
		}
		if height >= 0 && s.Len() != height {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d", ErrLengthMismatch, s.Name(), s.Len(), height)
		}
		height = s.Len()
		df.index[s.Name()] = len(df.columns)
		df.columns = append(df.columns, s)
	}
	return df, nil
}

// MustDataFrame is NewDataFrame that panics on error. Meant for literals in
// tests and examples.
func MustDataFrame(series ...*Series) *DataFrame {
	df, err := NewDataFrame(series...)
	if err != nil {
		panic(err)
	}
	return df
}

// ============================================================================
// Access
// ============================================================================

// Height returns the number of rows in the DataFrame.
// Returns 0 for an empty DataFrame.
func (df *DataFrame) Height() int {
	if len(df.columns) == 0 {
		return 0
	}
	return df.columns[0].Len()
}

// Width returns the number of columns in the DataFrame.
func (df *DataFrame) Width() int {
	return len(df.columns)
}

// Columns returns the column names in order.
func (df *DataFrame) Columns() []string {
	names := make([]string, len(df.columns))
	for i, s := range df.columns {
		names[i] = s.Name()
	}
	return names
}

// Column returns the Series at position i.
func (df *DataFrame) Column(i int) *Series {
	if i < 0 || i >= len(df.columns) {
		return nil
	}
	return df.columns[i]
}

// ColumnByName returns the Series with the given name, or nil if not found.
func (df *DataFrame) ColumnByName(name string) *Series {
	if i, ok := df.index[name]; ok {
		return df.columns[i]
	}
	return nil
}

// HasColumn reports whether a column exists.
func (df *DataFrame) HasColumn(name string) bool {
	_, ok := df.index[name]
	return ok
}

// Schema returns the column names and dtypes.
func (df *DataFrame) Schema() *Schema {
	dtypes := make([]DType, len(df.columns))
	for i, s := range df.columns {
		dtypes[i] = s.DType()
	}
	schema, _ := NewSchema(df.Columns(), dtypes)
	return schema
}

// CategoricalColumns returns the names of the categorical columns in order.
func (df *DataFrame) CategoricalColumns() []string {
	var names []string
	for _, s := range df.columns {
		if s.IsCategorical() {
			names = append(names, s.Name())
		}
	}
	return names
}

// ============================================================================
// Mutation
// ============================================================================

// SetColumn replaces the column with the same name in place, or appends it.
// The length must match the DataFrame height unless the DataFrame is empty.
func (df *DataFrame) SetColumn(s *Series) error {
	if s == nil {
		return invalidArgumentf("nil series")
	}
	if len(df.columns) > 0 && s.Len() != df.Height() {
		return fmt.Errorf("%w: column %q has %d rows, expected %d", ErrLengthMismatch, s.Name(), s.Len(), df.Height())
	}
	if df.index == nil {
		df.index = make(map[string]int)
	}
	if i, ok := df.index[s.Name()]; ok {
		df.columns[i] = s
		return nil
	}
	df.index[s.Name()] = len(df.columns)
	df.columns = append(df.columns, s)
	return nil
}

// ============================================================================
// Selection
// ============================================================================

// Select returns a new DataFrame with only the specified columns.
// Columns that don't exist are silently ignored.
func (df *DataFrame) Select(columns ...string) *DataFrame {
	var series []*Series
	for _, name := range columns {
		if s := df.ColumnByName(name); s != nil {
			series = append(series, s)
		}
	}
	out, _ := NewDataFrame(series...)
	return out
}

// Drop returns a new DataFrame without the specified columns.
func (df *DataFrame) Drop(columns ...string) *DataFrame {
	dropSet := make(map[string]bool, len(columns))
	for _, name := range columns {
		dropSet[name] = true
	}
	var series []*Series
	for _, s := range df.columns {
		if !dropSet[s.Name()] {
			series = append(series, s)
		}
	}
	out, _ := NewDataFrame(series...)
	return out
}

// Rename returns a new DataFrame with a column renamed.
func (df *DataFrame) Rename(oldName, newName string) (*DataFrame, error) {
	if !df.HasColumn(oldName) {
		return nil, &ColumnNotFoundError{Name: oldName}
	}
	series := make([]*Series, len(df.columns))
	for i, s := range df.columns {
		if s.Name() == oldName {
			s = s.Rename(newName)
		}
		series[i] = s
	}
	return NewDataFrame(series...)
}

// Clone creates a shallow copy of the DataFrame.
// The underlying Series are shared, not copied; mutating the clone with
// SetColumn leaves the original untouched.
func (df *DataFrame) Clone() *DataFrame {
	out, _ := NewDataFrame(df.columns...)
	return out
}

// Slice returns a new DataFrame with rows from start to end (exclusive).
func (df *DataFrame) Slice(start, end int) *DataFrame {
	series := make([]*Series, len(df.columns))
	for i, s := range df.columns {
		series[i] = s.Slice(start, end)
	}
	out, _ := NewDataFrame(series...)
	return out
}

// Head returns a new DataFrame with the first n rows.
func (df *DataFrame) Head(n int) *DataFrame {
	return df.Slice(0, n)
}

// Take gathers rows by index; -1 produces a null row.
func (df *DataFrame) Take(indices []int) *DataFrame {
	series := make([]*Series, len(df.columns))
	for i, s := range df.columns {
		series[i] = s.Take(indices)
	}
	out, _ := NewDataFrame(series...)
	return out
}

// Equal reports whether two DataFrames have the same columns in the same
// order with equal Series.
func (df *DataFrame) Equal(other *DataFrame) bool {
	if df == nil || other == nil {
		return df == other
	}
	if len(df.columns) != len(other.columns) {
		return false
	}
	for i, s := range df.columns {
		if !s.Equal(other.columns[i]) {
			return false
		}
	}
	return true
}

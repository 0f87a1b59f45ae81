package catframe

import (
	"math"
	"slices"
	"time"
)

// Series is a named, immutable column. A plain Series stores one primitive
// dtype with an optional validity mask; a categorical Series stores int32
// codes into its own category set (see categorical.go).
//
// Operations never modify a Series in place. Anything that "changes" a
// column returns a new Series, and DataFrame.SetColumn swaps it in.
type Series struct {
	name   string
	dtype  DType
	length int

	f64   []float64
	i64   []int64 // Int64 and DateTime (unix nanoseconds)
	str   []string
	b     []bool
	valid []bool // nil when no row is null

	cat *catData
}

// ============================================================================
// Creation
// ============================================================================

// NewSeriesFloat64 creates a Float64 Series from a Go slice.
// NaN values are stored as nulls.
func NewSeriesFloat64(name string, data []float64) *Series {
	return NewSeriesFloat64WithNulls(name, data, nil)
}

// NewSeriesFloat64WithNulls creates a Float64 Series with null values.
// The valid slice indicates which values are valid (true) vs null (false).
func NewSeriesFloat64WithNulls(name string, data []float64, valid []bool) *Series {
	mask := copyMask(valid, len(data))
	for i, v := range data {
		if math.IsNaN(v) {
			if mask == nil {
				mask = allValid(len(data))
			}
			mask[i] = false
		}
	}
	return &Series{
		name:   name,
		dtype:  Float64,
		length: len(data),
		f64:    slices.Clone(data),
		valid:  compactMask(mask),
	}
}

// NewSeriesInt64 creates an Int64 Series from a Go slice.
func NewSeriesInt64(name string, data []int64) *Series {
	return NewSeriesInt64WithNulls(name, data, nil)
}

// NewSeriesInt64WithNulls creates an Int64 Series with null values.
func NewSeriesInt64WithNulls(name string, data []int64, valid []bool) *Series {
	return &Series{
		name:   name,
		dtype:  Int64,
		length: len(data),
		i64:    slices.Clone(data),
		valid:  compactMask(copyMask(valid, len(data))),
	}
}

// NewSeriesString creates a String Series from a Go slice.
func NewSeriesString(name string, data []string) *Series {
	return NewSeriesStringWithNulls(name, data, nil)
}

// NewSeriesStringWithNulls creates a String Series with null values.
func NewSeriesStringWithNulls(name string, data []string, valid []bool) *Series {
	return &Series{
		name:   name,
		dtype:  String,
		length: len(data),
		str:    slices.Clone(data),
		valid:  compactMask(copyMask(valid, len(data))),
	}
}

// NewSeriesBool creates a Bool Series from a Go slice.
func NewSeriesBool(name string, data []bool) *Series {
	return NewSeriesBoolWithNulls(name, data, nil)
}

// NewSeriesBoolWithNulls creates a Bool Series with null values.
func NewSeriesBoolWithNulls(name string, data []bool, valid []bool) *Series {
	return &Series{
		name:   name,
		dtype:  Bool,
		length: len(data),
		b:      slices.Clone(data),
		valid:  compactMask(copyMask(valid, len(data))),
	}
}

// NewSeriesDateTime creates a DateTime Series. Times are stored as UTC
// nanoseconds.
func NewSeriesDateTime(name string, data []time.Time) *Series {
	return NewSeriesDateTimeWithNulls(name, data, nil)
}

// NewSeriesDateTimeWithNulls creates a DateTime Series with null values.
func NewSeriesDateTimeWithNulls(name string, data []time.Time, valid []bool) *Series {
	ns := make([]int64, len(data))
	for i, t := range data {
		ns[i] = t.UnixNano()
	}
	return &Series{
		name:   name,
		dtype:  DateTime,
		length: len(data),
		i64:    ns,
		valid:  compactMask(copyMask(valid, len(data))),
	}
}

// NewSeriesNull creates a Series of length n where every row is null.
func NewSeriesNull(name string, n int) *Series {
	return &Series{name: name, dtype: Null, length: n}
}

// NewSeriesFromValues builds a plain Series of the given dtype from Go values.
// nil (and NaN for Float64) become nulls.
func NewSeriesFromValues(name string, dtype DType, values []interface{}) (*Series, error) {
	if dtype == Categorical {
		return nil, invalidArgumentf("NewSeriesFromValues builds plain series; use AsCategory")
	}
	b := newSeriesBuilder(name, dtype, len(values))
	for i, v := range values {
		if v == nil {
			b.appendNull()
			continue
		}
		if f, ok := v.(float64); ok && math.IsNaN(f) {
			b.appendNull()
			continue
		}
		raw, ok := valueToRaw(v, dtype)
		if !ok {
			return nil, typeMismatchf("row %d: %T is not a %s value", i, v, dtype)
		}
		b.appendRaw(raw)
	}
	return b.finish(), nil
}

func newEmptySeries(name string, dtype DType) *Series {
	return &Series{name: name, dtype: dtype}
}

func copyMask(valid []bool, n int) []bool {
	if valid == nil {
		return nil
	}
	mask := allValid(n)
	copy(mask, valid)
	return mask
}

func allValid(n int) []bool {
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}
	return mask
}

// compactMask drops a mask that marks every row valid.
func compactMask(mask []bool) []bool {
	for _, v := range mask {
		if !v {
			return mask
		}
	}
	return nil
}

// ============================================================================
// Builder
// ============================================================================

// seriesBuilder appends raw values into a plain Series.
type seriesBuilder struct {
	s     *Series
	valid []bool
	nulls int
}

func newSeriesBuilder(name string, dtype DType, capacity int) *seriesBuilder {
	s := &Series{name: name, dtype: dtype}
	switch dtype {
	case Float64:
		s.f64 = make([]float64, 0, capacity)
	case Int64, DateTime:
		s.i64 = make([]int64, 0, capacity)
	case String:
		s.str = make([]string, 0, capacity)
	case Bool:
		s.b = make([]bool, 0, capacity)
	}
	return &seriesBuilder{s: s, valid: make([]bool, 0, capacity)}
}

func (b *seriesBuilder) appendRaw(raw interface{}) {
	switch b.s.dtype {
	case Float64:
		b.s.f64 = append(b.s.f64, raw.(float64))
	case Int64, DateTime:
		b.s.i64 = append(b.s.i64, raw.(int64))
	case String:
		b.s.str = append(b.s.str, raw.(string))
	case Bool:
		b.s.b = append(b.s.b, raw.(bool))
	case Null:
		b.appendNull()
		return
	}
	b.valid = append(b.valid, true)
	b.s.length++
}

func (b *seriesBuilder) appendNull() {
	switch b.s.dtype {
	case Float64:
		b.s.f64 = append(b.s.f64, 0)
	case Int64, DateTime:
		b.s.i64 = append(b.s.i64, 0)
	case String:
		b.s.str = append(b.s.str, "")
	case Bool:
		b.s.b = append(b.s.b, false)
	}
	b.valid = append(b.valid, false)
	b.nulls++
	b.s.length++
}

func (b *seriesBuilder) finish() *Series {
	if b.nulls > 0 && b.s.dtype != Null {
		b.s.valid = b.valid
	}
	return b.s
}

// ============================================================================
// Access
// ============================================================================

// Name returns the name of the Series
func (s *Series) Name() string {
	return s.name
}

// DType returns the data type of the Series
func (s *Series) DType() DType {
	return s.dtype
}

// Len returns the number of elements in the Series
func (s *Series) Len() int {
	return s.length
}

// IsValid returns true if the value at index is not null
func (s *Series) IsValid(index int) bool {
	if index < 0 || index >= s.length {
		return false
	}
	switch {
	case s.cat != nil:
		return s.cat.codes[index] >= 0
	case s.dtype == Null:
		return false
	case s.valid == nil:
		return true
	default:
		return s.valid[index]
	}
}

// NullCount returns the number of null values
func (s *Series) NullCount() int {
	n := 0
	for i := 0; i < s.length; i++ {
		if !s.IsValid(i) {
			n++
		}
	}
	return n
}

// HasNulls returns true if the Series contains any null values
func (s *Series) HasNulls() bool {
	return s.NullCount() > 0
}

// raw returns the stored value at a valid index. Categorical series resolve
// the code through their category set.
func (s *Series) raw(i int) interface{} {
	switch s.dtype {
	case Float64:
		return s.f64[i]
	case Int64, DateTime:
		return s.i64[i]
	case String:
		return s.str[i]
	case Bool:
		return s.b[i]
	case Categorical:
		return s.cat.categories.raw(int(s.cat.codes[i]))
	}
	return nil
}

// Get returns the value at index, or nil for nulls. DateTime values are
// returned as time.Time and categorical values as their category value.
func (s *Series) Get(index int) interface{} {
	if !s.IsValid(index) {
		return nil
	}
	return rawToValue(s.raw(index), s.ElementType())
}

// GetFloat64 returns a numeric value as float64.
func (s *Series) GetFloat64(index int) (float64, bool) {
	switch v := s.Get(index).(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// GetInt64 returns the value at index as int64.
func (s *Series) GetInt64(index int) (int64, bool) {
	v, ok := s.Get(index).(int64)
	return v, ok
}

// GetString returns the value at index as a string.
func (s *Series) GetString(index int) (string, bool) {
	v, ok := s.Get(index).(string)
	return v, ok
}

// GetBool returns the value at index as a bool.
func (s *Series) GetBool(index int) (bool, bool) {
	v, ok := s.Get(index).(bool)
	return v, ok
}

// Values returns every row as a Go value (nil for nulls).
func (s *Series) Values() []interface{} {
	out := make([]interface{}, s.length)
	for i := range out {
		out[i] = s.Get(i)
	}
	return out
}

// Float64 returns a copy of the Float64 data, or nil for other dtypes.
func (s *Series) Float64() []float64 {
	if s.dtype != Float64 {
		return nil
	}
	return slices.Clone(s.f64)
}

// Int64 returns a copy of the Int64 data, or nil for other dtypes.
func (s *Series) Int64() []int64 {
	if s.dtype != Int64 {
		return nil
	}
	return slices.Clone(s.i64)
}

// Strings returns a copy of the String data, or nil for other dtypes.
func (s *Series) Strings() []string {
	if s.dtype != String {
		return nil
	}
	return slices.Clone(s.str)
}

// Bool returns a copy of the Bool data, or nil for other dtypes.
func (s *Series) Bool() []bool {
	if s.dtype != Bool {
		return nil
	}
	return slices.Clone(s.b)
}

// ============================================================================
// Derived series
// ============================================================================

// Rename returns a Series sharing this one's data under a new name.
func (s *Series) Rename(name string) *Series {
	out := *s
	out.name = name
	return &out
}

// Slice returns rows [start, end).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > s.length {
		end = s.length
	}
	if start >= end {
		return s.Take(nil)
	}
	indices := make([]int, end-start)
	for i := range indices {
		indices[i] = start + i
	}
	return s.Take(indices)
}

// Head returns the first n rows.
func (s *Series) Head(n int) *Series {
	return s.Slice(0, n)
}

// Take gathers rows by index. An index of -1 produces a null row.
// Categorical series keep their category set.
func (s *Series) Take(indices []int) *Series {
	if s.cat != nil {
		codes := make([]int32, len(indices))
		for i, idx := range indices {
			if idx < 0 {
				codes[i] = -1
			} else {
				codes[i] = s.cat.codes[idx]
			}
		}
		return &Series{
			name:   s.name,
			dtype:  Categorical,
			length: len(indices),
			cat:    &catData{codes: codes, categories: s.cat.categories, ordered: s.cat.ordered},
		}
	}
	if s.dtype == Null {
		return NewSeriesNull(s.name, len(indices))
	}

	b := newSeriesBuilder(s.name, s.dtype, len(indices))
	for _, idx := range indices {
		if idx < 0 || !s.IsValid(idx) {
			b.appendNull()
		} else {
			b.appendRaw(s.raw(idx))
		}
	}
	return b.finish()
}

// distinctRaw returns the distinct non-null raw values in order of first
// appearance.
func (s *Series) distinctRaw() []interface{} {
	seen := make(map[interface{}]struct{})
	var out []interface{}
	for i := 0; i < s.length; i++ {
		if !s.IsValid(i) {
			continue
		}
		v := s.raw(i)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Unique returns the distinct non-null values in order of first appearance,
// as a plain Series of the element type.
func (s *Series) Unique() *Series {
	return seriesFromRaw(s.name, s.ElementType(), s.distinctRaw())
}

// NUnique returns the number of distinct non-null values.
func (s *Series) NUnique() int {
	return len(s.distinctRaw())
}

// sortedDistinct returns the ascending distinct non-null values as a plain
// Series of the element type.
func (s *Series) sortedDistinct() *Series {
	values := s.distinctRaw()
	sortRaw(values)
	return seriesFromRaw("", s.ElementType(), values)
}

func seriesFromRaw(name string, dtype DType, values []interface{}) *Series {
	b := newSeriesBuilder(name, dtype, len(values))
	for _, v := range values {
		b.appendRaw(v)
	}
	return b.finish()
}

// Equal reports whether two Series have the same name, dtype and values.
// Categorical series must also agree on ordered flag and category set.
func (s *Series) Equal(other *Series) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.name != other.name || s.dtype != other.dtype || s.length != other.length {
		return false
	}
	if s.cat != nil {
		if s.cat.ordered != other.cat.ordered || !s.cat.categories.Equal(other.cat.categories) {
			return false
		}
		return slices.Equal(s.cat.codes, other.cat.codes)
	}
	for i := 0; i < s.length; i++ {
		sv, ov := s.IsValid(i), other.IsValid(i)
		if sv != ov {
			return false
		}
		if sv && s.raw(i) != other.raw(i) {
			return false
		}
	}
	return true
}

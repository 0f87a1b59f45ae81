package catframe

import (
	"fmt"
	"slices"
)

// catData is the categorical payload of a Series. codes[i] is an index into
// categories, or -1 for a null row. categories is a plain Series of distinct
// non-null values; its order is the category order.
type catData struct {
	codes      []int32
	categories *Series
	ordered    bool
}

// CategoricalInfo describes the categorical representation of a Series.
type CategoricalInfo struct {
	Ordered    bool
	Categories *Series
}

// NewSeriesCategorical creates a categorical Series from strings. Categories
// are the distinct values sorted ascending.
func NewSeriesCategorical(name string, data []string) *Series {
	s, _ := NewSeriesString(name, data).AsCategory()
	return s
}

// NewSeriesCategoricalWithCategories creates a categorical Series over an
// explicit category set. Values outside the set become null.
func NewSeriesCategoricalWithCategories(name string, data []string, categories []string) (*Series, error) {
	return NewSeriesString(name, data).SetCategories(NewSeriesString("", categories), false)
}

// NewCategoricalFromCodes creates a categorical Series from raw codes.
func NewCategoricalFromCodes(name string, codes []int32, categories *Series, ordered bool) (*Series, error) {
	if err := validateCategories(categories); err != nil {
		return nil, err
	}
	for i, c := range codes {
		if c < -1 || int(c) >= categories.Len() {
			return nil, invalidArgumentf("code %d at row %d is outside [-1, %d)", c, i, categories.Len())
		}
	}
	return newCategorical(name, slices.Clone(codes), categories, ordered), nil
}

func newCategorical(name string, codes []int32, categories *Series, ordered bool) *Series {
	return &Series{
		name:   name,
		dtype:  Categorical,
		length: len(codes),
		cat:    &catData{codes: codes, categories: categories.Rename(""), ordered: ordered},
	}
}

func validateCategories(categories *Series) error {
	switch {
	case categories == nil:
		return invalidArgumentf("categories must not be nil")
	case categories.IsCategorical():
		return invalidArgumentf("categories must be a plain series")
	case categories.dtype == Null && categories.Len() > 0:
		return invalidArgumentf("categories must not be null")
	case categories.HasNulls():
		return invalidArgumentf("categories must not contain nulls")
	case categories.NUnique() != categories.Len():
		return invalidArgumentf("categories must be unique")
	}
	return nil
}

// ============================================================================
// Capability queries
// ============================================================================

// IsCategorical reports whether the Series is categorical.
func (s *Series) IsCategorical() bool {
	return s.cat != nil
}

// AsCategorical returns the ordered flag and category set of a categorical
// Series, or ErrNotCategorical for a plain one.
func (s *Series) AsCategorical() (CategoricalInfo, error) {
	if s.cat == nil {
		return CategoricalInfo{}, fmt.Errorf("%w: %q has dtype %s", ErrNotCategorical, s.name, s.dtype)
	}
	return CategoricalInfo{Ordered: s.cat.ordered, Categories: s.cat.categories}, nil
}

// ElementType returns the dtype of the values a consumer sees: the category
// dtype for categorical series, the dtype itself otherwise.
func (s *Series) ElementType() DType {
	if s.cat != nil {
		return s.cat.categories.dtype
	}
	return s.dtype
}

// Categories returns the category set, or nil for a plain Series.
func (s *Series) Categories() *Series {
	if s.cat == nil {
		return nil
	}
	return s.cat.categories
}

// NumCategories returns the size of the category set (0 for plain series).
func (s *Series) NumCategories() int {
	if s.cat == nil {
		return 0
	}
	return s.cat.categories.Len()
}

// CategoricalIndices returns a copy of the codes (-1 marks null rows).
func (s *Series) CategoricalIndices() []int32 {
	if s.cat == nil {
		return nil
	}
	return slices.Clone(s.cat.codes)
}

// Ordered reports whether the category set defines a total order.
func (s *Series) Ordered() bool {
	return s.cat != nil && s.cat.ordered
}

// ============================================================================
// Categorical operations
// ============================================================================

// SetCategories returns the Series re-encoded over categories. Row values are
// matched by value; values not in categories become null. Works on plain and
// categorical series alike.
func (s *Series) SetCategories(categories *Series, ordered bool) (*Series, error) {
	if err := validateCategories(categories); err != nil {
		return nil, err
	}
	elem := s.ElementType()
	if categories.Len() > 0 && elem != Null && elem != categories.dtype && s.length-s.NullCount() > 0 {
		return nil, typeMismatchf("column %q holds %s values, categories are %s", s.name, elem, categories.dtype)
	}

	lookup := make(map[interface{}]int32, categories.Len())
	for i := 0; i < categories.Len(); i++ {
		lookup[categories.raw(i)] = int32(i)
	}

	codes := make([]int32, s.length)
	if s.cat != nil {
		// Recode through the old category set once instead of per row.
		old := s.cat.categories
		remap := make([]int32, old.Len())
		for i := range remap {
			if c, ok := lookup[old.raw(i)]; ok {
				remap[i] = c
			} else {
				remap[i] = -1
			}
		}
		for i, c := range s.cat.codes {
			if c < 0 {
				codes[i] = -1
			} else {
				codes[i] = remap[c]
			}
		}
		return newCategorical(s.name, codes, categories, ordered), nil
	}

	for i := range codes {
		codes[i] = -1
		if !s.IsValid(i) {
			continue
		}
		if c, ok := lookup[s.raw(i)]; ok {
			codes[i] = c
		}
	}
	return newCategorical(s.name, codes, categories, ordered), nil
}

// RemoveUnusedCategories drops categories that no row refers to. Surviving
// categories keep their relative order. Plain series are returned unchanged.
func (s *Series) RemoveUnusedCategories() *Series {
	if s.cat == nil {
		return s
	}
	cats := s.cat.categories
	used := make([]bool, cats.Len())
	for _, c := range s.cat.codes {
		if c >= 0 {
			used[c] = true
		}
	}

	remap := make([]int32, cats.Len())
	keep := make([]int, 0, cats.Len())
	for i, u := range used {
		if u {
			remap[i] = int32(len(keep))
			keep = append(keep, i)
		} else {
			remap[i] = -1
		}
	}
	if len(keep) == cats.Len() {
		return s
	}

	codes := make([]int32, s.length)
	for i, c := range s.cat.codes {
		if c < 0 {
			codes[i] = -1
		} else {
			codes[i] = remap[c]
		}
	}
	return newCategorical(s.name, codes, cats.Take(keep), s.cat.ordered)
}

// RenameCategories replaces the category values while keeping every code.
// categories must have the same length as the current set and be distinct.
func (s *Series) RenameCategories(categories *Series) (*Series, error) {
	if s.cat == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotCategorical, s.name)
	}
	if categories == nil || categories.Len() != s.cat.categories.Len() {
		return nil, invalidArgumentf("rename of %q needs %d categories", s.name, s.cat.categories.Len())
	}
	if err := validateCategories(categories); err != nil {
		return nil, err
	}
	return newCategorical(s.name, s.cat.codes, categories, s.cat.ordered), nil
}

// AsOrdered marks the category order as meaningful.
func (s *Series) AsOrdered() *Series {
	return s.withOrdered(true)
}

// AsUnordered drops the ordered flag.
func (s *Series) AsUnordered() *Series {
	return s.withOrdered(false)
}

func (s *Series) withOrdered(ordered bool) *Series {
	if s.cat == nil || s.cat.ordered == ordered {
		return s
	}
	return newCategorical(s.name, s.cat.codes, s.cat.categories, ordered)
}

// Decode returns the plain Series of values a categorical Series represents.
// Plain series are returned unchanged.
func (s *Series) Decode() *Series {
	if s.cat == nil {
		return s
	}
	indices := make([]int, s.length)
	for i, c := range s.cat.codes {
		indices[i] = int(c)
	}
	return s.cat.categories.Take(indices).Rename(s.name)
}

// sameCategorical reports whether two categorical series share an identical
// category set (values and order) and ordered flag.
func sameCategorical(a, b *Series) bool {
	if a.cat == nil || b.cat == nil {
		return false
	}
	return a.cat.ordered == b.cat.ordered && a.cat.categories.Equal(b.cat.categories)
}

package catframe

import (
	"fmt"
)

// UnionCategories returns the ascending sort of the distinct category values
// of every column. All columns must be categorical, and every non-empty
// category set must share one element type. Empty sets contribute nothing;
// when every set is empty the union is an empty set of the first typed one.
func UnionCategories(cols ...*Series) (*Series, error) {
	elem := Null
	for _, col := range cols {
		if col == nil || !col.IsCategorical() {
			name := "<nil>"
			if col != nil {
				name = col.Name()
			}
			return nil, fmt.Errorf("%w: cannot union categories of %q", ErrNotCategorical, name)
		}
		cats := col.Categories()
		if cats.Len() == 0 {
			continue
		}
		switch {
		case elem == Null:
			elem = cats.DType()
		case elem != cats.DType():
			return nil, typeMismatchf("column %q has %s categories, expected %s", col.Name(), cats.DType(), elem)
		}
	}
	// every set is empty: keep the first typed element type
	for i := 0; elem == Null && i < len(cols); i++ {
		elem = cols[i].Categories().DType()
	}

	seen := make(map[interface{}]struct{})
	var values []interface{}
	for _, col := range cols {
		cats := col.Categories()
		for i := 0; i < cats.Len(); i++ {
			v := cats.raw(i)
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
	}
	sortRaw(values)
	return seriesFromRaw("", elem, values), nil
}

// unionOrdered decides the ordered flag of a union: ordered if any column is
// ordered. Two ordered columns that rank a shared pair of categories
// differently cannot be reconciled.
func unionOrdered(cols []*Series) (bool, error) {
	var ordered []*Series
	for _, col := range cols {
		if col.Ordered() {
			ordered = append(ordered, col)
		}
	}
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			if !compatibleOrder(ordered[i].Categories(), ordered[j].Categories()) {
				return false, typeMismatchf("ordered columns %q and %q disagree on category order",
					ordered[i].Name(), ordered[j].Name())
			}
		}
	}
	return len(ordered) > 0, nil
}

// compatibleOrder reports whether the categories a and b share appear in the
// same relative order in both.
func compatibleOrder(a, b *Series) bool {
	pos := make(map[interface{}]int, b.Len())
	for i := 0; i < b.Len(); i++ {
		pos[b.raw(i)] = i
	}
	last := -1
	for i := 0; i < a.Len(); i++ {
		p, ok := pos[a.raw(i)]
		if !ok {
			continue
		}
		if p < last {
			return false
		}
		last = p
	}
	return true
}

// unifyCategories rebinds every column to the union of their category sets.
// The union and the ordered flag are settled before any column is rebuilt,
// and the rebuilt columns are only returned once all of them exist, so a
// failure leaves the caller's columns untouched.
func unifyCategories(cols []*Series) ([]*Series, error) {
	categories, err := UnionCategories(cols...)
	if err != nil {
		return nil, err
	}
	ordered, err := unionOrdered(cols)
	if err != nil {
		return nil, err
	}

	out := make([]*Series, len(cols))
	for i, col := range cols {
		if out[i], err = col.SetCategories(categories, ordered); err != nil {
			return nil, err
		}
	}
	return out, nil
}

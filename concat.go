package catframe

import (
	"fmt"
)

// ConcatJoin selects which columns a row concatenation keeps.
type ConcatJoin int

const (
	// ConcatOuter keeps every column seen in any input; inputs lacking a
	// column contribute null rows.
	ConcatOuter ConcatJoin = iota
	// ConcatInner keeps only the columns present in every input.
	ConcatInner
)

func (j ConcatJoin) String() string {
	switch j {
	case ConcatOuter:
		return "outer"
	case ConcatInner:
		return "inner"
	default:
		return fmt.Sprintf("ConcatJoin(%d)", int(j))
	}
}

// ParseConcatJoin parses "outer" or "inner".
func ParseConcatJoin(s string) (ConcatJoin, error) {
	switch s {
	case "outer", "":
		return ConcatOuter, nil
	case "inner":
		return ConcatInner, nil
	}
	return ConcatOuter, invalidArgumentf("unknown concat join %q", s)
}

// ConcatOptions configures row concatenation.
type ConcatOptions struct {
	Join ConcatJoin
}

// DefaultConcatOptions returns default concat options
func DefaultConcatOptions() ConcatOptions {
	return ConcatOptions{Join: ConcatOuter}
}

// Concat stacks DataFrames vertically.
//
// A categorical column stays categorical only when every input holding it
// agrees on the category set and ordered flag. Otherwise its values are
// decoded and combined as plain values: that is the degradation
// ConcatCategorical exists to avoid.
func Concat(dfs []*DataFrame, opts ...ConcatOptions) (*DataFrame, error) {
	opt := DefaultConcatOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if len(dfs) == 0 {
		return NewDataFrame()
	}
	for i, df := range dfs {
		if df == nil {
			return nil, &SchemaError{Message: fmt.Sprintf("DataFrame %d is nil", i), Index: i}
		}
	}

	names := concatColumnNames(dfs, opt.Join)
	resultCols := make([]*Series, len(names))
	for j, name := range names {
		parts := make([]*Series, len(dfs))
		for i, df := range dfs {
			col := df.ColumnByName(name)
			if col == nil {
				col = NewSeriesNull(name, df.Height())
			}
			parts[i] = col
		}
		s, err := concatSeries(name, parts)
		if err != nil {
			return nil, err
		}
		resultCols[j] = s
	}

	return NewDataFrame(resultCols...)
}

func concatColumnNames(dfs []*DataFrame, join ConcatJoin) []string {
	if join == ConcatInner {
		var names []string
		for _, name := range dfs[0].Columns() {
			inAll := true
			for _, df := range dfs[1:] {
				if !df.HasColumn(name) {
					inAll = false
					break
				}
			}
			if inAll {
				names = append(names, name)
			}
		}
		return names
	}

	seen := make(map[string]bool)
	var names []string
	for _, df := range dfs {
		for _, name := range df.Columns() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// concatSeries appends parts into one Series named name.
func concatSeries(name string, parts []*Series) (*Series, error) {
	total := 0
	for _, p := range parts {
		total += p.Len()
	}

	if ref := sharedCategorical(parts); ref != nil {
		codes := make([]int32, 0, total)
		for _, p := range parts {
			if p.cat == nil {
				for i := 0; i < p.Len(); i++ {
					codes = append(codes, -1)
				}
				continue
			}
			codes = append(codes, p.cat.codes...)
		}
		return newCategorical(name, codes, ref.cat.categories, ref.cat.ordered), nil
	}

	dtype, err := commonDType(name, parts)
	if err != nil {
		return nil, err
	}
	if dtype == Null {
		return NewSeriesNull(name, total), nil
	}

	b := newSeriesBuilder(name, dtype, total)
	for _, p := range parts {
		dec := p.Decode()
		for i := 0; i < dec.Len(); i++ {
			if !dec.IsValid(i) {
				b.appendNull()
				continue
			}
			raw := dec.raw(i)
			if dec.dtype != dtype {
				raw, err = convertRaw(raw, dec.dtype, dtype)
				if err != nil {
					return nil, typeMismatchf("column %q: %v", name, err)
				}
			}
			b.appendRaw(raw)
		}
	}
	return b.finish(), nil
}

// sharedCategorical returns a categorical part whose category set and ordered
// flag every non-null part shares, or nil when the parts disagree.
func sharedCategorical(parts []*Series) *Series {
	var ref *Series
	for _, p := range parts {
		if p.dtype == Null {
			continue
		}
		if p.cat == nil {
			return nil
		}
		if ref == nil {
			ref = p
		} else if !sameCategorical(ref, p) {
			return nil
		}
	}
	return ref
}

// commonDType picks the plain dtype that can hold every part's values.
// Int64 and Float64 widen to Float64; Null parts adopt the other dtype.
func commonDType(name string, parts []*Series) (DType, error) {
	dtype := Null
	for _, p := range parts {
		elem := p.ElementType()
		switch {
		case elem == Null || elem == dtype:
		case dtype == Null:
			dtype = elem
		case dtype.IsNumeric() && elem.IsNumeric():
			dtype = Float64
		default:
			return Null, typeMismatchf("column %q mixes %s and %s", name, dtype, elem)
		}
	}
	return dtype, nil
}

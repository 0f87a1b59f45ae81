package catframe

import (
	"fmt"
)

// CastOptions configures CatAsType.
type CastOptions struct {
	// Columns to convert. Names missing from the DataFrame are skipped.
	Columns []string

	// SubTypes maps a column to the dtype its category values should have.
	SubTypes map[string]DType

	// OrderedColumns receive an ordered category set: the ascending distinct
	// non-null values.
	OrderedColumns []string

	// RemoveUnusedCategories drops categories no row uses.
	RemoveUnusedCategories bool

	// SyncOrdered also applies OrderedColumns membership to columns that are
	// already categorical, marking them ordered or unordered.
	SyncOrdered bool
}

// CatAsType converts columns of df to categorical representation in place.
//
// Columns that are already categorical keep their category set, but still
// get pruning and subtype coercion. A subtype coercion renames the
// categories, so each row keeps its category index. Coercions that fail or
// that would merge two categories return ErrTypeMismatch; columns converted
// before the failure stay converted.
func CatAsType(df *DataFrame, opts CastOptions) error {
	if df == nil {
		return invalidArgumentf("nil DataFrame")
	}
	for col, dtype := range opts.SubTypes {
		if !dtype.IsPlain() {
			return invalidArgumentf("subtype of %q must be a plain dtype, got %s", col, dtype)
		}
	}

	targets := make(map[string]bool, len(opts.Columns))
	for _, name := range opts.Columns {
		targets[name] = true
	}
	ordered := make(map[string]bool, len(opts.OrderedColumns))
	for _, name := range opts.OrderedColumns {
		ordered[name] = true
	}

	for _, name := range df.Columns() {
		if !targets[name] {
			continue
		}
		col, err := castColumn(df.ColumnByName(name), ordered[name], opts)
		if err != nil {
			return err
		}
		if err := df.SetColumn(col); err != nil {
			return err
		}
	}
	return nil
}

func castColumn(col *Series, ordered bool, opts CastOptions) (*Series, error) {
	var err error
	switch {
	case col.IsCategorical():
		if opts.SyncOrdered {
			col = col.withOrdered(ordered)
		}
	case ordered:
		col, err = col.AsCategory(CategoryOptions{Ordered: true})
	default:
		col, err = col.AsCategory()
	}
	if err != nil {
		return nil, err
	}

	if opts.RemoveUnusedCategories && col.NUnique() < col.NumCategories() {
		col = col.RemoveUnusedCategories()
	}

	subtype, ok := opts.SubTypes[col.Name()]
	if !ok || subtype == col.ElementType() {
		return col, nil
	}
	return coerceCategories(col, subtype)
}

// coerceCategories casts the category values of col to dtype, keeping every
// row's category index.
func coerceCategories(col *Series, dtype DType) (*Series, error) {
	renamed, err := col.Categories().Cast(dtype)
	if err != nil {
		return nil, fmt.Errorf("categories of %q: %w", col.Name(), err)
	}
	if renamed.HasNulls() || renamed.NUnique() != renamed.Len() {
		return nil, typeMismatchf("casting categories of %q to %s merges distinct categories", col.Name(), dtype)
	}
	return col.RenameCategories(renamed)
}

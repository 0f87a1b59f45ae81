package catframe

// ConcatCategorical concatenates DataFrames after unifying the category sets
// of every column that is categorical in all of them. The unified columns
// are written back into the inputs; columns categorical in only some inputs
// are left to Concat as they are. nil inputs are dropped.
//
// Errors from Concat are returned as is.
func ConcatCategorical(dfs []*DataFrame, opts ...ConcatOptions) (*DataFrame, error) {
	inputs := make([]*DataFrame, 0, len(dfs))
	for _, df := range dfs {
		if df != nil {
			inputs = append(inputs, df)
		}
	}

	for _, name := range commonCategoricalColumns(inputs) {
		cols := make([]*Series, len(inputs))
		for i, df := range inputs {
			cols[i] = df.ColumnByName(name)
		}
		unified, err := unifyCategories(cols)
		if err != nil {
			return nil, err
		}
		for i, df := range inputs {
			if err := df.SetColumn(unified[i]); err != nil {
				return nil, err
			}
		}
	}

	return Concat(inputs, opts...)
}

// commonCategoricalColumns lists the columns categorical in every input, in
// the first input's column order.
func commonCategoricalColumns(dfs []*DataFrame) []string {
	if len(dfs) == 0 {
		return nil
	}
	var names []string
	for _, name := range dfs[0].CategoricalColumns() {
		shared := true
		for _, df := range dfs[1:] {
			if col := df.ColumnByName(name); col == nil || !col.IsCategorical() {
				shared = false
				break
			}
		}
		if shared {
			names = append(names, name)
		}
	}
	return names
}

// MergeCategorical joins left and right after unifying the category sets of
// categorical key columns.
//
// With LeftOn/RightOn, each positional pair categorical on both sides is
// unified. Otherwise every column name categorical in both inputs is. The
// unified columns are written back into left and right. With
// removeUnusedCategories every categorical column of the result drops the
// categories its data does not use.
func MergeCategorical(left, right *DataFrame, opts JoinOptions, removeUnusedCategories bool) (*DataFrame, error) {
	if left == nil || right == nil {
		return nil, invalidArgumentf("merge of a nil DataFrame")
	}
	if err := opts.validateKeys(); err != nil {
		return nil, err
	}

	var pairs [][2]string
	if opts.explicitKeys() {
		for i, l := range opts.leftOn {
			pairs = append(pairs, [2]string{l, opts.rightOn[i]})
		}
	} else {
		for _, name := range left.CategoricalColumns() {
			pairs = append(pairs, [2]string{name, name})
		}
	}

	for _, p := range pairs {
		l, r := left.ColumnByName(p[0]), right.ColumnByName(p[1])
		if l == nil || r == nil || !l.IsCategorical() || !r.IsCategorical() {
			continue
		}
		unified, err := unifyCategories([]*Series{l, r})
		if err != nil {
			return nil, err
		}
		if err := left.SetColumn(unified[0]); err != nil {
			return nil, err
		}
		if err := right.SetColumn(unified[1]); err != nil {
			return nil, err
		}
	}

	out, err := Join(left, right, opts)
	if err != nil {
		return nil, err
	}
	if removeUnusedCategories {
		for _, name := range out.CategoricalColumns() {
			if err := out.SetColumn(out.ColumnByName(name).RemoveUnusedCategories()); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

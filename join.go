package catframe

import (
	"fmt"
)

// JoinType represents the type of join operation
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	OuterJoin
)

func (j JoinType) String() string {
	switch j {
	case InnerJoin:
		return "inner"
	case LeftJoin:
		return "left"
	case RightJoin:
		return "right"
	case OuterJoin:
		return "outer"
	default:
		return fmt.Sprintf("JoinType(%d)", int(j))
	}
}

// ParseJoinType parses "inner", "left", "right" or "outer".
func ParseJoinType(s string) (JoinType, error) {
	switch s {
	case "inner", "":
		return InnerJoin, nil
	case "left":
		return LeftJoin, nil
	case "right":
		return RightJoin, nil
	case "outer", "full":
		return OuterJoin, nil
	}
	return InnerJoin, invalidArgumentf("unknown join type %q", s)
}

// JoinOptions configures join behavior
type JoinOptions struct {
	on      []string // Columns to join on (same name in both DataFrames)
	leftOn  []string // Left DataFrame join columns
	rightOn []string // Right DataFrame join columns
	suffix  string   // Suffix for duplicate column names (default "_right")
	how     JoinType // Join type (default InnerJoin)
}

// DefaultJoinOptions returns default join options. With no key columns the
// join matches on every column name the two DataFrames share.
func DefaultJoinOptions() JoinOptions {
	return JoinOptions{
		suffix: "_right",
		how:    InnerJoin,
	}
}

// On creates join options for joining on columns with the same name
func On(columns ...string) JoinOptions {
	o := DefaultJoinOptions()
	o.on = append([]string(nil), columns...)
	return o
}

// LeftOn creates join options with different column names for left and right
func LeftOn(columns ...string) JoinOptions {
	o := DefaultJoinOptions()
	o.leftOn = append([]string(nil), columns...)
	return o
}

// RightOn specifies right DataFrame columns for the join
func (o JoinOptions) RightOn(columns ...string) JoinOptions {
	o.rightOn = append([]string(nil), columns...)
	return o
}

// WithSuffix sets the suffix for duplicate column names
func (o JoinOptions) WithSuffix(suffix string) JoinOptions {
	o.suffix = suffix
	return o
}

// WithHow sets the join type
func (o JoinOptions) WithHow(how JoinType) JoinOptions {
	o.how = how
	return o
}

// How returns the join type.
func (o JoinOptions) How() JoinType {
	return o.how
}

// Keys returns copies of the configured key lists.
func (o JoinOptions) Keys() (on, leftOn, rightOn []string) {
	return append([]string(nil), o.on...), append([]string(nil), o.leftOn...), append([]string(nil), o.rightOn...)
}

// explicitKeys reports whether separate left/right key lists were given.
func (o JoinOptions) explicitKeys() bool {
	return len(o.leftOn) > 0 || len(o.rightOn) > 0
}

// validateKeys checks the shape of the key lists without looking at data.
func (o JoinOptions) validateKeys() error {
	if !o.explicitKeys() {
		return nil
	}
	if len(o.on) > 0 {
		return invalidArgumentf("On cannot be combined with LeftOn/RightOn")
	}
	if len(o.leftOn) == 0 || len(o.rightOn) == 0 {
		return invalidArgumentf("LeftOn and RightOn must both be given")
	}
	if len(o.leftOn) != len(o.rightOn) {
		return invalidArgumentf("LeftOn and RightOn must have same length: %d != %d", len(o.leftOn), len(o.rightOn))
	}
	return nil
}

// Join joins two DataFrames using opts, honouring the join type in opts.
func Join(left, right *DataFrame, opts JoinOptions) (*DataFrame, error) {
	return left.joinWith(right, opts)
}

// Join performs an inner join with another DataFrame
func (df *DataFrame) Join(other *DataFrame, opts JoinOptions) (*DataFrame, error) {
	opts.how = InnerJoin
	return df.joinWith(other, opts)
}

// LeftJoin performs a left join with another DataFrame
func (df *DataFrame) LeftJoin(other *DataFrame, opts JoinOptions) (*DataFrame, error) {
	opts.how = LeftJoin
	return df.joinWith(other, opts)
}

// RightJoin performs a right join with another DataFrame
func (df *DataFrame) RightJoin(other *DataFrame, opts JoinOptions) (*DataFrame, error) {
	opts.how = RightJoin
	return df.joinWith(other, opts)
}

// OuterJoin performs a full outer join with another DataFrame
func (df *DataFrame) OuterJoin(other *DataFrame, opts JoinOptions) (*DataFrame, error) {
	opts.how = OuterJoin
	return df.joinWith(other, opts)
}

func (df *DataFrame) joinWith(other *DataFrame, opts JoinOptions) (*DataFrame, error) {
	if df == nil || other == nil {
		return nil, invalidArgumentf("join of a nil DataFrame")
	}
	if opts.suffix == "" {
		opts.suffix = "_right"
	}

	leftCols, rightCols, err := resolveJoinColumns(df, other, opts)
	if err != nil {
		return nil, err
	}

	leftKeyCols := make([]*Series, len(leftCols))
	for i, name := range leftCols {
		leftKeyCols[i] = df.ColumnByName(name)
	}
	rightKeyCols := make([]*Series, len(rightCols))
	for i, name := range rightCols {
		rightKeyCols[i] = other.ColumnByName(name)
	}

	var leftIndices, rightIndices []int
	switch opts.how {
	case InnerJoin, LeftJoin, OuterJoin:
		leftIndices, rightIndices = probeJoin(df.Height(), leftKeyCols, other.Height(), rightKeyCols, opts.how)
	case RightJoin:
		rightIndices, leftIndices = probeJoin(other.Height(), rightKeyCols, df.Height(), leftKeyCols, LeftJoin)
	default:
		return nil, fmt.Errorf("unknown join type: %d", opts.how)
	}

	mapping := resolveOutputColumns(df, other, leftCols, rightCols, opts.suffix)
	return buildJoinResult(df, other, mapping, leftIndices, rightIndices)
}

func resolveJoinColumns(left, right *DataFrame, opts JoinOptions) ([]string, []string, error) {
	if err := opts.validateKeys(); err != nil {
		return nil, nil, err
	}

	var leftCols, rightCols []string
	switch {
	case opts.explicitKeys():
		leftCols, rightCols = opts.leftOn, opts.rightOn
	case len(opts.on) > 0:
		leftCols, rightCols = opts.on, opts.on
	default:
		for _, name := range left.Columns() {
			if right.HasColumn(name) {
				leftCols = append(leftCols, name)
			}
		}
		if len(leftCols) == 0 {
			return nil, nil, invalidArgumentf("no common columns to join on")
		}
		rightCols = leftCols
	}

	for _, col := range leftCols {
		if !left.HasColumn(col) {
			return nil, nil, fmt.Errorf("left DataFrame: %w", &ColumnNotFoundError{Name: col})
		}
	}
	for _, col := range rightCols {
		if !right.HasColumn(col) {
			return nil, nil, fmt.Errorf("right DataFrame: %w", &ColumnNotFoundError{Name: col})
		}
	}
	return leftCols, rightCols, nil
}

// hashIndex maps key hashes to the rows holding them
type hashIndex struct {
	cols  []*Series
	index map[uint64][]int
}

func buildHashIndex(cols []*Series, height int) *hashIndex {
	idx := &hashIndex{cols: cols, index: make(map[uint64][]int)}
	for row := 0; row < height; row++ {
		if h, ok := rowHash(cols, row); ok {
			idx.index[h] = append(idx.index[h], row)
		}
	}
	return idx
}

// lookup returns the indexed rows whose keys equal probe's keys at row.
func (idx *hashIndex) lookup(probe []*Series, row int) []int {
	h, ok := rowHash(probe, row)
	if !ok {
		return nil
	}
	var out []int
	for _, cand := range idx.index[h] {
		if keysMatch(probe, row, idx.cols, cand) {
			out = append(out, cand)
		}
	}
	return out
}

// rowHash combines the key hashes of one row. Rows with a null key are not
// hashable and never match.
func rowHash(cols []*Series, row int) (uint64, bool) {
	h := uint64(0xcbf29ce484222325)
	for _, col := range cols {
		if !col.IsValid(row) {
			return 0, false
		}
		h ^= hashRaw(col.raw(row), col.ElementType())
		h *= 0x100000001b3
	}
	return h, true
}

// keysMatch compares key values, never category codes: two categorical keys
// with different category sets still match on equal values.
func keysMatch(leftCols []*Series, leftRow int, rightCols []*Series, rightRow int) bool {
	for i := range leftCols {
		if !rawEqual(leftCols[i].raw(leftRow), rightCols[i].raw(rightRow)) {
			return false
		}
	}
	return true
}

// probeJoin drives the join from the probe side. It returns aligned probe
// and build row indices; -1 marks the side without a match.
func probeJoin(probeHeight int, probeCols []*Series, buildHeight int, buildCols []*Series, how JoinType) ([]int, []int) {
	idx := buildHashIndex(buildCols, buildHeight)
	matchedBuild := make([]bool, buildHeight)

	var probeIndices, buildIndices []int
	for row := 0; row < probeHeight; row++ {
		matches := idx.lookup(probeCols, row)
		if len(matches) == 0 {
			if how != InnerJoin {
				probeIndices = append(probeIndices, row)
				buildIndices = append(buildIndices, -1)
			}
			continue
		}
		for _, m := range matches {
			probeIndices = append(probeIndices, row)
			buildIndices = append(buildIndices, m)
			matchedBuild[m] = true
		}
	}

	if how == OuterJoin {
		for row, matched := range matchedBuild {
			if !matched {
				probeIndices = append(probeIndices, -1)
				buildIndices = append(buildIndices, row)
			}
		}
	}
	return probeIndices, buildIndices
}

// colMapping tracks how to build output columns
type colMapping struct {
	name     string
	fromLeft bool
	src      string
	coalesce string // right key merged into this left key column
}

func resolveOutputColumns(left, right *DataFrame, leftKeys, rightKeys []string, suffix string) []colMapping {
	var mapping []colMapping

	sharedKey := make(map[string]bool)
	for i, lk := range leftKeys {
		if rightKeys[i] == lk {
			sharedKey[lk] = true
		}
	}

	for _, name := range left.Columns() {
		m := colMapping{name: name, fromLeft: true, src: name}
		if sharedKey[name] {
			m.coalesce = name
		}
		mapping = append(mapping, m)
	}

	for _, name := range right.Columns() {
		if sharedKey[name] {
			continue
		}
		outputName := name
		if left.HasColumn(name) {
			outputName = name + suffix
		}
		mapping = append(mapping, colMapping{name: outputName, src: name})
	}
	return mapping
}

func buildJoinResult(left, right *DataFrame, mapping []colMapping, leftIndices, rightIndices []int) (*DataFrame, error) {
	resultCols := make([]*Series, len(mapping))
	for i, m := range mapping {
		if !m.fromLeft {
			resultCols[i] = right.ColumnByName(m.src).Take(rightIndices).Rename(m.name)
			continue
		}
		col := left.ColumnByName(m.src).Take(leftIndices)
		if m.coalesce != "" {
			var err error
			col, err = coalesceSeries(col, right.ColumnByName(m.coalesce).Take(rightIndices), leftIndices)
			if err != nil {
				return nil, err
			}
		}
		resultCols[i] = col
	}
	return NewDataFrame(resultCols...)
}

// coalesceSeries fills the rows without a left match from r. The result is
// categorical only when both sides share an identical category set.
func coalesceSeries(l, r *Series, leftIndices []int) (*Series, error) {
	missing := false
	for _, idx := range leftIndices {
		if idx < 0 {
			missing = true
			break
		}
	}
	if !missing {
		return l, nil
	}

	if sameCategorical(l, r) {
		codes := make([]int32, l.Len())
		for i, idx := range leftIndices {
			if idx < 0 {
				codes[i] = r.cat.codes[i]
			} else {
				codes[i] = l.cat.codes[i]
			}
		}
		return newCategorical(l.Name(), codes, l.cat.categories, l.cat.ordered), nil
	}

	dtype, err := commonDType(l.Name(), []*Series{l, r})
	if err != nil {
		return nil, err
	}
	if dtype == Null {
		return NewSeriesNull(l.Name(), l.Len()), nil
	}

	b := newSeriesBuilder(l.Name(), dtype, l.Len())
	for i, idx := range leftIndices {
		src := l
		if idx < 0 {
			src = r
		}
		if !src.IsValid(i) {
			b.appendNull()
			continue
		}
		raw := src.raw(i)
		if elem := src.ElementType(); elem != dtype {
			if raw, err = convertRaw(raw, elem, dtype); err != nil {
				return nil, typeMismatchf("key %q: %v", l.Name(), err)
			}
		}
		b.appendRaw(raw)
	}
	return b.finish(), nil
}

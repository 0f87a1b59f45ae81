package catframe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConcatCategorical_PlainMatchesConcat(t *testing.T) {
	a := MustDataFrame(NewSeriesInt64("int", []int64{1, 2, 3}))
	b := MustDataFrame(NewSeriesInt64("int", []int64{4, 5, 6}))

	want, err := Concat([]*DataFrame{a, b})
	require.NoError(t, err)
	got, err := ConcatCategorical([]*DataFrame{a, b})
	require.NoError(t, err)
	require.True(t, want.Equal(got))
}

func TestConcatCategorical_UnifiesCategories(t *testing.T) {
	a := MustDataFrame(NewSeriesCategorical("a", []string{"x", "y"}))
	b := MustDataFrame(NewSeriesCategorical("a", []string{"z", "y"}))

	out, err := ConcatCategorical([]*DataFrame{a, b})
	require.NoError(t, err)

	want := []string{"x", "y", "z"}
	col := out.ColumnByName("a")
	require.True(t, col.IsCategorical())
	require.Equal(t, want, col.Categories().Strings())
	require.Equal(t, []interface{}{"x", "y", "z", "y"}, col.Values())

	// the inputs are rebound in place
	require.Equal(t, want, a.ColumnByName("a").Categories().Strings())
	require.Equal(t, want, b.ColumnByName("a").Categories().Strings())
	require.Equal(t, []int32{2, 1}, b.ColumnByName("a").CategoricalIndices())
}

func TestConcatCategorical_ThreeFramesShareUnion(t *testing.T) {
	a := MustDataFrame(NewSeriesCategorical("a", []string{"c"}))
	b := MustDataFrame(NewSeriesCategorical("a", []string{"a"}))
	c := MustDataFrame(NewSeriesCategorical("a", []string{"b", "a"}))

	out, err := ConcatCategorical([]*DataFrame{a, b, c})
	require.NoError(t, err)

	want := []string{"a", "b", "c"}
	for _, df := range []*DataFrame{a, b, c, out} {
		col := df.ColumnByName("a")
		require.True(t, col.IsCategorical())
		require.Equal(t, want, col.Categories().Strings())
	}
	require.Equal(t, []interface{}{"c", "a", "b", "a"}, out.ColumnByName("a").Values())
}

func TestConcatCategorical_EmptyColumnsKeepElementType(t *testing.T) {
	empty := func() *DataFrame {
		col, err := NewSeriesString("a", nil).AsCategory()
		require.NoError(t, err)
		return MustDataFrame(col)
	}
	a, b := empty(), empty()

	out, err := ConcatCategorical([]*DataFrame{a, b})
	require.NoError(t, err)
	require.Equal(t, 0, out.Height())
	for _, df := range []*DataFrame{a, b, out} {
		col := df.ColumnByName("a")
		require.True(t, col.IsCategorical())
		require.Equal(t, String, col.ElementType())
	}
}

func TestConcatCategorical_PartiallyCategoricalColumn(t *testing.T) {
	a := MustDataFrame(NewSeriesCategorical("a", []string{"x"}))
	b := MustDataFrame(NewSeriesString("a", []string{"y"}))

	out, err := ConcatCategorical([]*DataFrame{a, b})
	require.NoError(t, err)
	col := out.ColumnByName("a")
	require.False(t, col.IsCategorical())
	require.Equal(t, []string{"x", "y"}, col.Strings())
	require.False(t, b.ColumnByName("a").IsCategorical())
}

func TestConcatCategorical_OrderedWins(t *testing.T) {
	a := MustDataFrame(NewSeriesCategorical("a", []string{"lo"}).AsOrdered())
	b := MustDataFrame(NewSeriesCategorical("a", []string{"hi"}))

	out, err := ConcatCategorical([]*DataFrame{a, b})
	require.NoError(t, err)
	require.True(t, out.ColumnByName("a").Ordered())
	require.Equal(t, []string{"hi", "lo"}, out.ColumnByName("a").Categories().Strings())
}

func TestConcatCategorical_Errors(t *testing.T) {
	ints, err := NewSeriesInt64("a", []int64{1}).AsCategory()
	require.NoError(t, err)
	a := MustDataFrame(NewSeriesCategorical("a", []string{"x"}))
	b := MustDataFrame(ints)

	_, err = ConcatCategorical([]*DataFrame{a, b})
	require.ErrorIs(t, err, ErrTypeMismatch)
	// a failed union leaves the inputs untouched
	require.Equal(t, []string{"x"}, a.ColumnByName("a").Categories().Strings())
	require.Equal(t, []int64{1}, b.ColumnByName("a").Categories().Int64())
}

func TestConcatCategorical_SkipsNilInputs(t *testing.T) {
	a := MustDataFrame(NewSeriesCategorical("a", []string{"x"}))
	b := MustDataFrame(NewSeriesCategorical("a", []string{"y"}))

	out, err := ConcatCategorical([]*DataFrame{nil, a, nil, b})
	require.NoError(t, err)
	require.Equal(t, 2, out.Height())

	empty, err := ConcatCategorical(nil)
	require.NoError(t, err)
	require.Equal(t, 0, empty.Width())
}

func renamedKeyFrames(t *testing.T) (*DataFrame, *DataFrame) {
	t.Helper()
	left := MustDataFrame(
		NewSeriesCategorical("al", []string{"key-1", "key-2"}),
		NewSeriesInt64("lv", []int64{1, 2}),
	)
	right := MustDataFrame(
		NewSeriesCategorical("ar", []string{"key-2", "key-3"}),
		NewSeriesInt64("rv", []int64{20, 30}),
	)
	return left, right
}

func TestMergeCategorical_RenamedKeys(t *testing.T) {
	left, right := renamedKeyFrames(t)

	out, err := MergeCategorical(left, right, LeftOn("al").RightOn("ar").WithHow(OuterJoin), false)
	require.NoError(t, err)

	want := []string{"key-1", "key-2", "key-3"}
	require.Equal(t, want, left.ColumnByName("al").Categories().Strings())
	require.Equal(t, want, right.ColumnByName("ar").Categories().Strings())

	require.Equal(t, 3, out.Height())
	require.Equal(t, []interface{}{"key-1", "key-2", nil}, out.ColumnByName("al").Values())
	require.Equal(t, []interface{}{nil, "key-2", "key-3"}, out.ColumnByName("ar").Values())
	require.Equal(t, []interface{}{int64(1), int64(2), nil}, out.ColumnByName("lv").Values())
	require.Equal(t, []interface{}{nil, int64(20), int64(30)}, out.ColumnByName("rv").Values())
	require.Equal(t, want, out.ColumnByName("al").Categories().Strings())
}

func TestMergeCategorical_ImplicitKeysStayCategorical(t *testing.T) {
	left := MustDataFrame(NewSeriesCategorical("k", []string{"a", "b"}), NewSeriesInt64("x", []int64{1, 2}))
	right := MustDataFrame(NewSeriesCategorical("k", []string{"b", "c"}), NewSeriesInt64("y", []int64{3, 4}))

	out, err := MergeCategorical(left, right, DefaultJoinOptions().WithHow(OuterJoin), false)
	require.NoError(t, err)

	key := out.ColumnByName("k")
	require.True(t, key.IsCategorical())
	require.Equal(t, []string{"a", "b", "c"}, key.Categories().Strings())
	require.Equal(t, []interface{}{"a", "b", "c"}, key.Values())
}

func TestMergeCategorical_RemoveUnused(t *testing.T) {
	left := MustDataFrame(NewSeriesCategorical("k", []string{"a", "b"}))
	right := MustDataFrame(NewSeriesCategorical("k", []string{"b", "c"}), NewSeriesInt64("y", []int64{3, 4}))

	out, err := MergeCategorical(left, right, On("k"), true)
	require.NoError(t, err)
	key := out.ColumnByName("k")
	require.Equal(t, []string{"b"}, key.Categories().Strings())
	require.Equal(t, []int32{0}, key.CategoricalIndices())

	// the inputs keep the full union
	require.Equal(t, []string{"a", "b", "c"}, left.ColumnByName("k").Categories().Strings())
}

func TestMergeCategorical_OneSidedCategoricalKey(t *testing.T) {
	left := MustDataFrame(NewSeriesCategorical("k", []string{"a", "b"}))
	right := MustDataFrame(NewSeriesString("k2", []string{"b"}), NewSeriesInt64("y", []int64{7}))

	out, err := MergeCategorical(left, right, LeftOn("k").RightOn("k2"), false)
	require.NoError(t, err)
	require.Equal(t, []int64{7}, out.ColumnByName("y").Int64())
	require.Equal(t, []string{"a", "b"}, left.ColumnByName("k").Categories().Strings())
}

func TestMergeCategorical_Errors(t *testing.T) {
	left, right := renamedKeyFrames(t)

	_, err := MergeCategorical(left, right, LeftOn("al"), false)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = MergeCategorical(left, right, LeftOn("al", "lv").RightOn("ar"), false)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = MergeCategorical(nil, right, On("al"), false)
	require.ErrorIs(t, err, ErrInvalidArgument)

	ints, err := NewSeriesInt64("ar", []int64{2}).AsCategory()
	require.NoError(t, err)
	_, err = MergeCategorical(left, MustDataFrame(ints), LeftOn("al").RightOn("ar"), false)
	require.ErrorIs(t, err, ErrTypeMismatch)
	require.Equal(t, []string{"key-1", "key-2"}, left.ColumnByName("al").Categories().Strings())
}

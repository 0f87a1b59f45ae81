package catframe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnionCategories(t *testing.T) {
	a := NewSeriesCategorical("a", []string{"y", "x"})
	b := NewSeriesCategorical("b", []string{"z", "y"})

	union, err := UnionCategories(a, b)
	require.NoError(t, err)
	require.Equal(t, "", union.Name())
	require.Equal(t, []string{"x", "y", "z"}, union.Strings())
}

func TestUnionCategories_IncludesUnusedCategories(t *testing.T) {
	a, err := NewSeriesCategoricalWithCategories("a", []string{"b"}, []string{"b", "q"})
	require.NoError(t, err)
	b := NewSeriesCategorical("b", []string{"a"})

	union, err := UnionCategories(a, b)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "q"}, union.Strings())
}

func TestUnionCategories_Numeric(t *testing.T) {
	a, err := NewSeriesInt64("a", []int64{3, 1}).AsCategory()
	require.NoError(t, err)
	b, err := NewSeriesInt64("b", []int64{2, 10}).AsCategory()
	require.NoError(t, err)

	union, err := UnionCategories(a, b)
	require.NoError(t, err)
	require.Equal(t, Int64, union.DType())
	require.Equal(t, []int64{1, 2, 3, 10}, union.Int64())
}

func TestUnionCategories_EmptySetsAreSkipped(t *testing.T) {
	empty, err := NewSeriesNull("e", 2).AsCategory()
	require.NoError(t, err)
	require.Equal(t, 0, empty.NumCategories())

	a, err := NewSeriesInt64("a", []int64{5}).AsCategory()
	require.NoError(t, err)

	union, err := UnionCategories(empty, a)
	require.NoError(t, err)
	require.Equal(t, []int64{5}, union.Int64())
}

func TestUnionCategories_AllEmptyKeepsElementType(t *testing.T) {
	untyped, err := NewSeriesNull("n", 1).AsCategory()
	require.NoError(t, err)
	a, err := NewSeriesString("a", nil).AsCategory()
	require.NoError(t, err)
	b, err := NewSeriesString("b", nil).AsCategory()
	require.NoError(t, err)
	require.Equal(t, String, a.ElementType())

	union, err := UnionCategories(untyped, a, b)
	require.NoError(t, err)
	require.Equal(t, String, union.DType())
	require.Equal(t, 0, union.Len())

	out, err := unifyCategories([]*Series{a, b})
	require.NoError(t, err)
	for _, col := range out {
		require.Equal(t, String, col.ElementType())
	}
}

func TestUnionCategories_Errors(t *testing.T) {
	cat := NewSeriesCategorical("a", []string{"x"})

	_, err := UnionCategories(cat, NewSeriesString("plain", []string{"x"}))
	require.ErrorIs(t, err, ErrNotCategorical)

	_, err = UnionCategories(cat, nil)
	require.ErrorIs(t, err, ErrNotCategorical)

	ints, err := NewSeriesInt64("i", []int64{1}).AsCategory()
	require.NoError(t, err)
	_, err = UnionCategories(cat, ints)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestUnifyCategories_OrderedPolicy(t *testing.T) {
	ordered := NewSeriesCategorical("a", []string{"low", "high"}).AsOrdered()
	plain := NewSeriesCategorical("b", []string{"mid"})

	out, err := unifyCategories([]*Series{ordered, plain})
	require.NoError(t, err)
	for _, col := range out {
		require.True(t, col.Ordered())
		require.Equal(t, []string{"high", "low", "mid"}, col.Categories().Strings())
	}
	require.Equal(t, []interface{}{"low", "high"}, out[0].Values())
	require.Equal(t, []interface{}{"mid"}, out[1].Values())

	unordered, err := unifyCategories([]*Series{plain, NewSeriesCategorical("c", []string{"x"})})
	require.NoError(t, err)
	require.False(t, unordered[0].Ordered())
}

func TestUnifyCategories_ConflictingOrders(t *testing.T) {
	asc, err := NewCategoricalFromCodes("a", []int32{0, 1}, NewSeriesString("", []string{"lo", "hi"}), true)
	require.NoError(t, err)
	desc, err := NewCategoricalFromCodes("b", []int32{0, 1}, NewSeriesString("", []string{"hi", "lo"}), true)
	require.NoError(t, err)

	_, err = unifyCategories([]*Series{asc, desc})
	require.ErrorIs(t, err, ErrTypeMismatch)

	// disjoint ordered sets never conflict
	other, err := NewCategoricalFromCodes("c", []int32{0}, NewSeriesString("", []string{"zz"}), true)
	require.NoError(t, err)
	_, err = unifyCategories([]*Series{asc, other})
	require.NoError(t, err)
}

func TestCompatibleOrder(t *testing.T) {
	abc := NewSeriesString("", []string{"a", "b", "c"})
	require.True(t, compatibleOrder(abc, NewSeriesString("", []string{"a", "x", "c"})))
	require.True(t, compatibleOrder(abc, NewSeriesString("", []string{"q"})))
	require.False(t, compatibleOrder(abc, NewSeriesString("", []string{"c", "a"})))
}

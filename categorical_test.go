package catframe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSeriesCategorical(t *testing.T) {
	s := NewSeriesCategorical("c", []string{"b", "a", "b"})

	require.True(t, s.IsCategorical())
	require.Equal(t, Categorical, s.DType())
	require.Equal(t, String, s.ElementType())
	require.Equal(t, []string{"a", "b"}, s.Categories().Strings())
	require.Equal(t, []int32{1, 0, 1}, s.CategoricalIndices())
	require.Equal(t, []interface{}{"b", "a", "b"}, s.Values())
	require.False(t, s.Ordered())
	require.Equal(t, "", s.Categories().Name())
}

func TestNewSeriesCategoricalWithCategories(t *testing.T) {
	s, err := NewSeriesCategoricalWithCategories("c", []string{"x", "q"}, []string{"y", "x"})
	require.NoError(t, err)
	require.Equal(t, []string{"y", "x"}, s.Categories().Strings())
	require.Equal(t, []int32{1, -1}, s.CategoricalIndices())

	_, err = NewSeriesCategoricalWithCategories("c", nil, []string{"x", "x"})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewCategoricalFromCodes(t *testing.T) {
	cats := NewSeriesInt64("", []int64{10, 20})
	s, err := NewCategoricalFromCodes("c", []int32{0, -1, 1}, cats, true)
	require.NoError(t, err)
	require.Equal(t, []interface{}{int64(10), nil, int64(20)}, s.Values())
	require.True(t, s.Ordered())

	_, err = NewCategoricalFromCodes("c", []int32{2}, cats, false)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewCategoricalFromCodes("c", nil, NewSeriesInt64WithNulls("", []int64{1}, []bool{false}), false)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAsCategorical(t *testing.T) {
	_, err := NewSeriesInt64("i", []int64{1}).AsCategorical()
	require.ErrorIs(t, err, ErrNotCategorical)

	info, err := NewSeriesCategorical("c", []string{"a"}).AsOrdered().AsCategorical()
	require.NoError(t, err)
	require.True(t, info.Ordered)
	require.Equal(t, []string{"a"}, info.Categories.Strings())
}

func TestSetCategories(t *testing.T) {
	s := NewSeriesCategorical("c", []string{"a", "b", "c"})
	out, err := s.SetCategories(NewSeriesString("", []string{"c", "b", "z"}), true)
	require.NoError(t, err)

	require.Equal(t, []string{"c", "b", "z"}, out.Categories().Strings())
	require.Equal(t, []int32{-1, 1, 0}, out.CategoricalIndices())
	require.True(t, out.Ordered())
	// the receiver is untouched
	require.Equal(t, []int32{0, 1, 2}, s.CategoricalIndices())

	_, err = s.SetCategories(NewSeriesInt64("", []int64{1}), false)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestSetCategoriesOnPlainSeries(t *testing.T) {
	s := NewSeriesInt64WithNulls("i", []int64{3, 1, 0}, []bool{true, true, false})
	out, err := s.SetCategories(NewSeriesInt64("", []int64{1, 2, 3}), false)
	require.NoError(t, err)
	require.Equal(t, []int32{2, 0, -1}, out.CategoricalIndices())
	require.Equal(t, "i", out.Name())
}

func TestRemoveUnusedCategories(t *testing.T) {
	s, err := NewCategoricalFromCodes("c", []int32{2, 0, -1}, NewSeriesInt64("", []int64{1, 2, 3}), true)
	require.NoError(t, err)

	out := s.RemoveUnusedCategories()
	require.Equal(t, []int64{1, 3}, out.Categories().Int64())
	require.Equal(t, []int32{1, 0, -1}, out.CategoricalIndices())
	require.Equal(t, s.Values(), out.Values())
	require.True(t, out.Ordered())

	// nothing to drop
	require.Same(t, out, out.RemoveUnusedCategories())

	plain := NewSeriesInt64("i", []int64{1})
	require.Same(t, plain, plain.RemoveUnusedCategories())
}

func TestRenameCategories(t *testing.T) {
	s := NewSeriesCategorical("c", []string{"1", "2", "1"})
	out, err := s.RenameCategories(NewSeriesInt64("", []int64{1, 2}))
	require.NoError(t, err)
	require.Equal(t, Int64, out.ElementType())
	require.Equal(t, s.CategoricalIndices(), out.CategoricalIndices())
	require.Equal(t, []interface{}{int64(1), int64(2), int64(1)}, out.Values())

	_, err = s.RenameCategories(NewSeriesInt64("", []int64{1}))
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.RenameCategories(NewSeriesInt64("", []int64{1, 1}))
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewSeriesString("s", nil).RenameCategories(NewSeriesString("", nil))
	require.ErrorIs(t, err, ErrNotCategorical)
}

func TestOrderedToggle(t *testing.T) {
	s := NewSeriesCategorical("c", []string{"a"})
	require.Same(t, s, s.AsUnordered())
	ordered := s.AsOrdered()
	require.True(t, ordered.Ordered())
	require.False(t, ordered.AsUnordered().Ordered())
	require.False(t, s.Ordered())
}

func TestDecode(t *testing.T) {
	s, err := NewSeriesCategoricalWithCategories("c", []string{"x", "nope"}, []string{"x"})
	require.NoError(t, err)

	plain := s.Decode()
	require.False(t, plain.IsCategorical())
	require.Equal(t, String, plain.DType())
	require.Equal(t, "c", plain.Name())
	require.Equal(t, []interface{}{"x", nil}, plain.Values())

	p := NewSeriesInt64("i", []int64{1})
	require.Same(t, p, p.Decode())
}

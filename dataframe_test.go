package catframe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDataFrame(t *testing.T) {
	df, err := NewDataFrame(
		NewSeriesInt64("id", []int64{1, 2, 3}),
		nil,
		NewSeriesCategorical("grade", []string{"a", "b", "a"}),
	)
	require.NoError(t, err)
	require.Equal(t, 3, df.Height())
	require.Equal(t, 2, df.Width())
	require.Equal(t, []string{"id", "grade"}, df.Columns())
	require.Equal(t, []string{"grade"}, df.CategoricalColumns())
	require.True(t, df.HasColumn("id"))
	require.Nil(t, df.ColumnByName("missing"))
	require.Nil(t, df.Column(5))

	dtype, ok := df.Schema().GetDType("grade")
	require.True(t, ok)
	require.Equal(t, Categorical, dtype)
}

func TestNewDataFrame_Errors(t *testing.T) {
	_, err := NewDataFrame(NewSeriesInt64("a", []int64{1}), NewSeriesInt64("a", []int64{2}))
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))

	_, err = NewDataFrame(NewSeriesInt64("a", []int64{1}), NewSeriesInt64("b", []int64{1, 2}))
	require.ErrorIs(t, err, ErrLengthMismatch)

	require.Panics(t, func() {
		MustDataFrame(NewSeriesInt64("a", []int64{1}), NewSeriesInt64("a", []int64{1}))
	})
}

func TestSetColumn(t *testing.T) {
	df := MustDataFrame(NewSeriesInt64("a", []int64{1, 2}))
	original := df.ColumnByName("a")

	require.NoError(t, df.SetColumn(NewSeriesInt64("a", []int64{3, 4})))
	require.Equal(t, []int64{3, 4}, df.ColumnByName("a").Int64())
	require.Equal(t, []int64{1, 2}, original.Int64())
	require.Equal(t, 1, df.Width())

	require.NoError(t, df.SetColumn(NewSeriesString("b", []string{"x", "y"})))
	require.Equal(t, []string{"a", "b"}, df.Columns())

	require.ErrorIs(t, df.SetColumn(NewSeriesInt64("c", []int64{1})), ErrLengthMismatch)
	require.ErrorIs(t, df.SetColumn(nil), ErrInvalidArgument)

	var empty DataFrame
	require.NoError(t, empty.SetColumn(NewSeriesInt64("z", []int64{1, 2, 3})))
	require.Equal(t, 3, empty.Height())
}

func TestSelectDropRename(t *testing.T) {
	df := MustDataFrame(
		NewSeriesInt64("a", []int64{1}),
		NewSeriesInt64("b", []int64{2}),
		NewSeriesInt64("c", []int64{3}),
	)

	require.Equal(t, []string{"c", "a"}, df.Select("c", "missing", "a").Columns())
	require.Equal(t, []string{"a", "c"}, df.Drop("b").Columns())

	renamed, err := df.Rename("b", "beta")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "beta", "c"}, renamed.Columns())
	require.Equal(t, []string{"a", "b", "c"}, df.Columns())

	_, err = df.Rename("missing", "x")
	var notFound *ColumnNotFoundError
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, "missing", notFound.Name)
}

func TestCloneIsIndependent(t *testing.T) {
	df := MustDataFrame(NewSeriesInt64("a", []int64{1}))
	clone := df.Clone()
	require.NoError(t, clone.SetColumn(NewSeriesInt64("a", []int64{9})))

	require.Equal(t, []int64{1}, df.ColumnByName("a").Int64())
	require.True(t, df.Equal(MustDataFrame(NewSeriesInt64("a", []int64{1}))))
	require.False(t, df.Equal(clone))
}

func TestDataFrameSliceTake(t *testing.T) {
	df := MustDataFrame(
		NewSeriesInt64("a", []int64{1, 2, 3}),
		NewSeriesCategorical("c", []string{"x", "y", "z"}),
	)

	head := df.Head(2)
	require.Equal(t, 2, head.Height())
	require.True(t, head.ColumnByName("c").IsCategorical())
	require.Equal(t, 3, head.ColumnByName("c").NumCategories())

	taken := df.Take([]int{2, -1})
	require.Equal(t, []interface{}{int64(3), nil}, taken.ColumnByName("a").Values())
	require.Equal(t, []interface{}{"z", nil}, taken.ColumnByName("c").Values())
}

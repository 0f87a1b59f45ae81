package catframe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataFrameString(t *testing.T) {
	cat := NewSeriesCategorical("c", []string{"x", "y"}).AsOrdered()
	df := MustDataFrame(
		NewSeriesInt64("id", []int64{1, 2}),
		NewSeriesFloat64WithNulls("v", []float64{1.5, 0}, []bool{true, false}),
		cat,
	)

	out := df.String()
	require.True(t, strings.HasPrefix(out, "shape: (2, 3)\n╭"))
	require.Contains(t, out, "cat<ordered>[String]")
	require.Contains(t, out, "1.5000")
	require.Contains(t, out, "null")
	require.Equal(t, 7, strings.Count(out, "\n"))
}

func TestDataFrameString_Config(t *testing.T) {
	n := 30
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = int64(i)
	}
	df := MustDataFrame(NewSeriesInt64("id", ids), NewSeriesString("long", make([]string, n)))

	cfg := DefaultDisplayConfig()
	cfg.MaxRows = 4
	cfg.ShowShape = false
	cfg.ShowDTypes = false
	cfg.TableStyle = "ascii"

	out := df.StringWithConfig(cfg)
	require.True(t, strings.HasPrefix(out, "+"))
	require.Contains(t, out, "…")
	require.Contains(t, out, " 29 |")
	require.NotContains(t, out, " 15 |")
	require.NotContains(t, out, "Int64")
}

func TestDataFrameString_Empty(t *testing.T) {
	require.Equal(t, "DataFrame(empty, 0 columns)", MustDataFrame().String())
	df := MustDataFrame(NewSeriesInt64("a", nil))
	require.Equal(t, "DataFrame(empty, 1 columns)", df.String())
}

func TestSeriesString(t *testing.T) {
	s, err := NewSeriesCategoricalWithCategories("c", []string{"b", ""}, []string{"a", "b"})
	require.NoError(t, err)

	out := s.String()
	require.True(t, strings.HasPrefix(out, "Series: 'c' (cat[String])\nlength: 2\ncategories: [a, b]\n"))
	require.Contains(t, out, "null")

	empty := NewSeriesInt64("e", nil)
	require.Equal(t, "Series: 'e' (Int64)\nlength: 0\n[]", empty.String())
}

func TestDisplayConfigGlobal(t *testing.T) {
	orig := GetDisplayConfig()
	defer SetDisplayConfig(orig)

	cfg := orig
	cfg.FloatPrecision = 1
	SetDisplayConfig(cfg)
	require.Equal(t, 1, GetDisplayConfig().FloatPrecision)
	require.Contains(t, NewSeriesFloat64("f", []float64{2.31}).String(), " 2.3 ")
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "ab...", truncate("abcdefgh", 5))
	require.Equal(t, "日本...", truncate("日本語のテキスト", 5))
}

func TestVisibleIndices(t *testing.T) {
	require.Equal(t, []int{0, 1, 2}, visibleIndices(3, 10))
	require.Equal(t, []int{0, 1, -1, 8, 9}, visibleIndices(10, 4))
	require.Equal(t, []int{0, -1, 8, 9}, visibleIndices(10, 3))
}

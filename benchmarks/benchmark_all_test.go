package benchmarks

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/NerdMeNot/catframe"
)

// SEED keeps generated data identical between runs
const SEED = 42

// Test sizes - can be overridden by BENCHMARK_SIZES env var (comma-separated)
var sizes = []int{100_000, 1_000_000}

func init() {
	if envSizes := os.Getenv("BENCHMARK_SIZES"); envSizes != "" {
		parts := strings.Split(envSizes, ",")
		newSizes := make([]int, 0, len(parts))
		for _, p := range parts {
			if size, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
				newSizes = append(newSizes, size)
			}
		}
		if len(newSizes) > 0 {
			sizes = newSizes
		}
	}
}

// ============================================================================
// Data Generation
// ============================================================================

// makeLabels draws n labels out of numCategories, offset so that two calls
// with different offsets overlap partially.
func makeLabels(n, numCategories, offset int, seed int64) []string {
	rng := rand.New(rand.NewSource(seed))
	data := make([]string, n)
	for i := range data {
		data[i] = "cat-" + strconv.Itoa(offset+rng.Intn(numCategories))
	}
	return data
}

func makeFrame(b *testing.B, n, offset int, seed int64) *catframe.DataFrame {
	b.Helper()
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, n)
	for i := range values {
		values[i] = rng.NormFloat64() * 100
	}
	return catframe.MustDataFrame(
		catframe.NewSeriesCategorical("key", makeLabels(n, 1000, offset, seed)),
		catframe.NewSeriesFloat64("value", values),
	)
}

// ============================================================================
// Categorical Benchmarks
// ============================================================================

func BenchmarkAll_AsCategory(b *testing.B) {
	for _, size := range sizes {
		s := catframe.NewSeriesString("key", makeLabels(size, 1000, 0, SEED))
		b.Run(fmt.Sprintf("%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := s.AsCategory(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkAll_UnionCategories(b *testing.B) {
	for _, size := range sizes {
		left := catframe.NewSeriesCategorical("a", makeLabels(size, 1000, 0, SEED))
		right := catframe.NewSeriesCategorical("b", makeLabels(size, 1000, 500, SEED+1))
		b.Run(fmt.Sprintf("%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := catframe.UnionCategories(left, right); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkAll_ConcatCategorical(b *testing.B) {
	for _, size := range sizes {
		left := makeFrame(b, size, 0, SEED)
		right := makeFrame(b, size, 500, SEED+1)
		b.Run(fmt.Sprintf("%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				inputs := []*catframe.DataFrame{left.Clone(), right.Clone()}
				if _, err := catframe.ConcatCategorical(inputs); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkAll_MergeCategorical(b *testing.B) {
	for _, size := range sizes {
		left := makeFrame(b, size, 0, SEED)
		// one row per key on the right keeps the output the size of the left
		keys := make([]string, 1500)
		for i := range keys {
			keys[i] = "cat-" + strconv.Itoa(i)
		}
		right := catframe.MustDataFrame(
			catframe.NewSeriesCategorical("key", keys),
			catframe.NewSeriesInt64("rank", make([]int64, len(keys))),
		)
		b.Run(fmt.Sprintf("%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := catframe.MergeCategorical(left.Clone(), right.Clone(), catframe.On("key"), true); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkAll_CatAsType(b *testing.B) {
	for _, size := range sizes {
		labels := makeLabels(size, 1000, 0, SEED)
		b.Run(fmt.Sprintf("%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				df := catframe.MustDataFrame(catframe.NewSeriesString("key", labels))
				err := catframe.CatAsType(df, catframe.CastOptions{
					Columns:        []string{"key"},
					OrderedColumns: []string{"key"},
				})
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

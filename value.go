package catframe

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"time"
)

// Raw values are the Go values a Series stores per row: float64, int64
// (Int64 and DateTime), string or bool. They are comparable and usable as map
// keys, which is what category lookups and join hashing rely on.

// compareRaw orders two raw values of the same kind.
func compareRaw(a, b interface{}) int {
	switch av := a.(type) {
	case float64:
		return cmp.Compare(av, b.(float64))
	case int64:
		return cmp.Compare(av, b.(int64))
	case string:
		return cmp.Compare(av, b.(string))
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	}
	return 0
}

// sortRaw sorts raw values ascending in place.
func sortRaw(values []interface{}) {
	slices.SortFunc(values, compareRaw)
}

// rawEqual compares raw values, promoting int64 to float64 when the kinds
// differ so numeric join keys of different widths still match.
func rawEqual(a, b interface{}) bool {
	switch av := a.(type) {
	case int64:
		if bf, ok := b.(float64); ok {
			return float64(av) == bf
		}
	case float64:
		if bi, ok := b.(int64); ok {
			return av == float64(bi)
		}
	}
	return a == b
}

// fnvHashString computes FNV-1a hash for a string
func fnvHashString(s string) uint64 {
	const fnvOffset = uint64(0xcbf29ce484222325)
	const fnvPrime = uint64(0x100000001b3)

	h := fnvOffset
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime
	}
	return h
}

// hashRaw hashes a raw value. Numbers hash through their float64 value so
// that rawEqual-equal values collide.
func hashRaw(v interface{}, dtype DType) uint64 {
	switch x := v.(type) {
	case string:
		return fnvHashString("s" + x)
	case bool:
		if x {
			return fnvHashString("b1")
		}
		return fnvHashString("b0")
	case int64:
		if dtype == DateTime {
			return fnvHashString("t" + strconv.FormatInt(x, 10))
		}
		return hashFloat(float64(x))
	case float64:
		return hashFloat(x)
	}
	return 0
}

func hashFloat(f float64) uint64 {
	if f == 0 {
		f = 0 // fold -0
	}
	bits := math.Float64bits(f)
	h := uint64(0xcbf29ce484222325)
	for i := 0; i < 8; i++ {
		h ^= bits & 0xff
		h *= 0x100000001b3
		bits >>= 8
	}
	return h
}

// rawToValue converts a raw value into the public Go value for dtype.
func rawToValue(raw interface{}, dtype DType) interface{} {
	if dtype == DateTime {
		return time.Unix(0, raw.(int64)).UTC()
	}
	return raw
}

// valueToRaw validates a public Go value against dtype and returns its raw form.
func valueToRaw(v interface{}, dtype DType) (interface{}, bool) {
	switch dtype {
	case Float64:
		switch x := v.(type) {
		case float64:
			return x, true
		case float32:
			return float64(x), true
		}
	case Int64:
		switch x := v.(type) {
		case int64:
			return x, true
		case int:
			return int64(x), true
		case int32:
			return int64(x), true
		}
	case Bool:
		if x, ok := v.(bool); ok {
			return x, true
		}
	case String:
		if x, ok := v.(string); ok {
			return x, true
		}
	case DateTime:
		switch x := v.(type) {
		case time.Time:
			return x.UnixNano(), true
		case int64:
			return x, true
		}
	}
	return nil, false
}

// formatRaw renders a raw value the way CSV output and string casts do.
func formatRaw(raw interface{}, dtype DType) string {
	switch x := raw.(type) {
	case float64:
		s := strconv.FormatFloat(x, 'f', -1, 64)
		if !math.IsInf(x, 0) && x == math.Trunc(x) {
			s += ".0"
		}
		return s
	case int64:
		if dtype == DateTime {
			return time.Unix(0, x).UTC().Format(time.RFC3339Nano)
		}
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	}
	return ""
}

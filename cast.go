package catframe

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// CategoryOptions controls AsCategory.
type CategoryOptions struct {
	// Categories is an explicit category set. nil derives the set from the
	// data: the distinct non-null values sorted ascending.
	Categories *Series
	Ordered    bool
}

// AsCategory converts the Series to categorical representation.
// Without options an already categorical Series is returned as is.
func (s *Series) AsCategory(opts ...CategoryOptions) (*Series, error) {
	var opt CategoryOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	if s.cat != nil && opt.Categories == nil {
		if len(opts) == 0 {
			return s, nil
		}
		return s.withOrdered(opt.Ordered), nil
	}

	categories := opt.Categories
	if categories == nil {
		categories = s.sortedDistinct()
	}
	return s.SetCategories(categories, opt.Ordered)
}

// Cast converts the Series to dtype. Categorical series are decoded first;
// casting to Categorical is AsCategory. Values that cannot be represented in
// the target dtype fail with ErrTypeMismatch.
func (s *Series) Cast(dtype DType) (*Series, error) {
	if dtype == Categorical {
		return s.AsCategory()
	}
	if !dtype.IsPlain() {
		return nil, invalidArgumentf("cannot cast %q to %s", s.name, dtype)
	}

	src := s.Decode()
	if src.dtype == dtype {
		return src, nil
	}

	b := newSeriesBuilder(s.name, dtype, s.length)
	for i := 0; i < src.length; i++ {
		if !src.IsValid(i) {
			b.appendNull()
			continue
		}
		raw, err := convertRaw(src.raw(i), src.dtype, dtype)
		if err != nil {
			return nil, typeMismatchf("cast %q row %d to %s: %v", s.name, i, dtype, err)
		}
		if raw == nil {
			b.appendNull()
			continue
		}
		b.appendRaw(raw)
	}
	return b.finish(), nil
}

// convertRaw converts one raw value. A nil result with a nil error means the
// value maps to null (e.g. the string "NaN" cast to Float64).
func convertRaw(raw interface{}, from, to DType) (interface{}, error) {
	if to == String {
		return formatRaw(raw, from), nil
	}

	switch to {
	case Float64:
		switch x := raw.(type) {
		case float64:
			return x, nil
		case int64:
			return float64(x), nil
		case bool:
			return boolToFloat(x), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
			if err != nil {
				return nil, err
			}
			if math.IsNaN(f) {
				return nil, nil
			}
			return f, nil
		}

	case Int64:
		switch x := raw.(type) {
		case int64:
			return x, nil
		case float64:
			return floatToInt(x)
		case bool:
			if x {
				return int64(1), nil
			}
			return int64(0), nil
		case string:
			t := strings.TrimSpace(x)
			if i, err := strconv.ParseInt(t, 10, 64); err == nil {
				return i, nil
			}
			f, err := strconv.ParseFloat(t, 64)
			if err != nil {
				return nil, fmt.Errorf("%q is not an integer", x)
			}
			return floatToInt(f)
		}

	case Bool:
		switch x := raw.(type) {
		case bool:
			return x, nil
		case int64:
			return x != 0, nil
		case float64:
			return x != 0, nil
		case string:
			return strconv.ParseBool(strings.TrimSpace(x))
		}

	case DateTime:
		switch x := raw.(type) {
		case int64:
			return x, nil
		case float64:
			return floatToInt(x)
		case string:
			t, err := parseTime(x)
			if err != nil {
				return nil, err
			}
			return t.UnixNano(), nil
		}
	}
	return nil, fmt.Errorf("no conversion from %s", from)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func floatToInt(f float64) (interface{}, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, fmt.Errorf("%v is not an integer", f)
	}
	return int64(f), nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTime parses the timestamp layouts catframe reads and writes. Times
// without a zone are taken as UTC.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a timestamp", s)
}

package catframe

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"slices"
	"strconv"

	json "github.com/goccy/go-json"
)

// JSONFormat specifies the JSON layout
type JSONFormat int

const (
	// JSONRecords is an array of row objects: [{"a":1,"b":2}, {"a":3,"b":4}]
	JSONRecords JSONFormat = iota
	// JSONColumns is an ordered list of described columns:
	// {"columns":[{"name":"a","dtype":"Int64","values":[1,3]}, ...]}
	// Categorical columns also carry their category set and ordered flag.
	JSONColumns
)

// JSONReadOptions configures JSON reading behavior
type JSONReadOptions struct {
	Format      JSONFormat       // Expected format
	ColumnTypes map[string]DType // Force column types of record files; Categorical infers, then encodes
}

// DefaultJSONReadOptions returns default JSON reading options
func DefaultJSONReadOptions() JSONReadOptions {
	return JSONReadOptions{
		Format: JSONRecords,
	}
}

// ReadJSON reads a JSON file into a DataFrame
func ReadJSON(path string, opts ...JSONReadOptions) (*DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ReadJSONFromReader(f, opts...)
}

// ReadJSONFromReader reads JSON data from an io.Reader into a DataFrame.
// JSON objects are unordered, so record files come back with their columns
// sorted by name.
func ReadJSONFromReader(r io.Reader, opts ...JSONReadOptions) (*DataFrame, error) {
	opt := DefaultJSONReadOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()

	switch opt.Format {
	case JSONRecords:
		return readJSONRecords(dec, opt)
	case JSONColumns:
		return readJSONColumns(dec)
	default:
		return nil, invalidArgumentf("unknown JSON format: %d", opt.Format)
	}
}

func readJSONRecords(dec *json.Decoder, opt JSONReadOptions) (*DataFrame, error) {
	var records []map[string]interface{}
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if len(records) == 0 {
		return NewDataFrame()
	}

	names := make(map[string]struct{})
	for _, record := range records {
		for key := range record {
			names[key] = struct{}{}
		}
	}

	var columns []*Series
	for _, name := range slices.Sorted(maps.Keys(names)) {
		values := make([]interface{}, len(records))
		for i, record := range records {
			values[i] = record[name]
		}

		dtype, forced := opt.ColumnTypes[name]
		categorical := forced && dtype == Categorical
		if !forced || categorical {
			dtype = inferJSONType(values)
		}
		col, err := buildJSONColumn(name, dtype, values)
		if err == nil && categorical {
			col, err = col.AsCategory()
		}
		if err != nil {
			return nil, fmt.Errorf("failed to build column '%s': %w", name, err)
		}
		columns = append(columns, col)
	}
	return NewDataFrame(columns...)
}

// jsonColumn is one entry of the JSONColumns layout.
type jsonColumn struct {
	columnMeta
	Values []interface{} `json:"values"`
}

type jsonColumnsDoc struct {
	Columns []jsonColumn `json:"columns"`
}

func readJSONColumns(dec *json.Decoder) (*DataFrame, error) {
	var doc jsonColumnsDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	columns := make([]*Series, len(doc.Columns))
	for i := range doc.Columns {
		c := &doc.Columns[i]
		dtype, err := ParseDType(c.DType)
		if err != nil {
			return nil, fmt.Errorf("column '%s': %w", c.Name, err)
		}
		col, err := buildJSONColumn(c.Name, dtype, c.Values)
		if err == nil {
			col, err = c.restore(col)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to build column '%s': %w", c.Name, err)
		}
		columns[i] = col
	}
	return NewDataFrame(columns...)
}

// inferJSONType picks a dtype for decoded values: numbers become Int64 when
// every one is integral and Float64 otherwise, strings become DateTime when
// every one parses as a timestamp. Mixed kinds fall back to String.
func inferJSONType(values []interface{}) DType {
	var bools, numbers, strs int
	allInts, allTimes := true, true
	for _, v := range values {
		switch x := v.(type) {
		case nil:
		case bool:
			bools++
		case json.Number:
			numbers++
			if _, err := strconv.ParseInt(string(x), 10, 64); err != nil {
				allInts = false
			}
		case string:
			strs++
			if _, err := parseTime(x); err != nil {
				allTimes = false
			}
		default:
			return String
		}
	}

	switch {
	case bools+numbers+strs == 0:
		return Null
	case bools > 0 && numbers+strs == 0:
		return Bool
	case numbers > 0 && bools+strs == 0:
		if allInts {
			return Int64
		}
		return Float64
	case strs > 0 && bools+numbers == 0 && allTimes:
		return DateTime
	}
	return String
}

func buildJSONColumn(name string, dtype DType, values []interface{}) (*Series, error) {
	if dtype == Null {
		return NewSeriesNull(name, len(values)), nil
	}
	if !dtype.IsPlain() {
		return nil, fmt.Errorf("unsupported dtype: %s", dtype)
	}

	b := newSeriesBuilder(name, dtype, len(values))
	for i, v := range values {
		raw, err := jsonToRaw(v, dtype)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if raw == nil {
			b.appendNull()
			continue
		}
		b.appendRaw(raw)
	}
	return b.finish(), nil
}

func jsonToRaw(v interface{}, dtype DType) (interface{}, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case json.Number:
		return convertRaw(string(x), String, dtype)
	case string:
		return convertRaw(x, String, dtype)
	case bool:
		return convertRaw(x, Bool, dtype)
	case float64:
		return convertRaw(x, Float64, dtype)
	}
	return nil, fmt.Errorf("nested JSON value %T is not supported", v)
}

// jsonValue is the encoded form of one cell. Floats keep their decimal point
// so they read back as Float64; non-finite floats and nulls become null.
func jsonValue(col *Series, row int) interface{} {
	if !col.IsValid(row) {
		return nil
	}
	raw := col.raw(row)
	switch col.ElementType() {
	case Float64:
		f := raw.(float64)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return json.Number(formatRaw(f, Float64))
	case DateTime:
		return formatRaw(raw, DateTime)
	}
	return raw
}

// jsonRecord encodes one row as an object with keys in column order.
type jsonRecord struct {
	df  *DataFrame
	row int
}

func (r jsonRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for j, col := range r.df.columns {
		if j > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col.Name())
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(jsonValue(col, r.row))
		if err != nil {
			return nil, fmt.Errorf("column '%s' row %d: %w", col.Name(), r.row, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// JSONWriteOptions configures JSON writing behavior
type JSONWriteOptions struct {
	Format JSONFormat // Output format
	Indent string     // Indent string (default "", no indent)
}

// DefaultJSONWriteOptions returns default JSON writing options
func DefaultJSONWriteOptions() JSONWriteOptions {
	return JSONWriteOptions{
		Format: JSONRecords,
		Indent: "",
	}
}

// WriteJSON writes a DataFrame to a JSON file
func (df *DataFrame) WriteJSON(path string, opts ...JSONWriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := df.WriteJSONToWriter(f, opts...); err != nil {
		return err
	}
	return f.Close()
}

// WriteJSONToWriter writes a DataFrame to an io.Writer. Only the JSONColumns
// layout keeps category sets; records hold decoded values.
func (df *DataFrame) WriteJSONToWriter(w io.Writer, opts ...JSONWriteOptions) error {
	opt := DefaultJSONWriteOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	var data interface{}
	switch opt.Format {
	case JSONRecords:
		records := make([]jsonRecord, df.Height())
		for i := range records {
			records[i] = jsonRecord{df: df, row: i}
		}
		data = records

	case JSONColumns:
		doc := jsonColumnsDoc{Columns: make([]jsonColumn, len(df.columns))}
		for j, col := range df.columns {
			values := make([]interface{}, col.Len())
			for i := range values {
				values[i] = jsonValue(col, i)
			}
			doc.Columns[j] = jsonColumn{columnMeta: newColumnMeta(col), Values: values}
		}
		data = doc

	default:
		return invalidArgumentf("unknown JSON format: %d", opt.Format)
	}

	encoder := json.NewEncoder(w)
	if opt.Indent != "" {
		encoder.SetIndent("", opt.Indent)
	}
	return encoder.Encode(data)
}

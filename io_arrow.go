package catframe

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ============================================================================
// Arrow Export
// ============================================================================

// ToArrow exports a DataFrame to an Arrow Record.
// Categorical columns become dictionary arrays with int32 indices; the
// dictionary is the full category set, unused categories included.
// The caller is responsible for calling Release() on the returned Record.
func (df *DataFrame) ToArrow(mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	schema, err := arrowSchema(df)
	if err != nil {
		return nil, err
	}

	arrays := make([]arrow.Array, df.Width())
	for i, col := range df.columns {
		arr, err := seriesToArrowArray(col, mem)
		if err != nil {
			// Clean up already created arrays
			for j := 0; j < i; j++ {
				arrays[j].Release()
			}
			return nil, fmt.Errorf("column %s: %w", col.Name(), err)
		}
		arrays[i] = arr
	}

	record := array.NewRecord(schema, arrays, int64(df.Height()))

	// Release arrays (Record retains them)
	for _, arr := range arrays {
		arr.Release()
	}

	return record, nil
}

func arrowSchema(df *DataFrame) (*arrow.Schema, error) {
	fields := make([]arrow.Field, df.Width())
	for i, col := range df.columns {
		arrowType, err := seriesArrowType(col)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name(), err)
		}
		fields[i] = arrow.Field{Name: col.Name(), Type: arrowType, Nullable: true}
	}
	return arrow.NewSchema(fields, nil), nil
}

func seriesArrowType(s *Series) (arrow.DataType, error) {
	if s.cat != nil {
		valueType, err := dtypeToArrowType(s.cat.categories.dtype)
		if err != nil {
			return nil, err
		}
		return &arrow.DictionaryType{
			IndexType: arrow.PrimitiveTypes.Int32,
			ValueType: valueType,
			Ordered:   s.cat.ordered,
		}, nil
	}
	return dtypeToArrowType(s.dtype)
}

// dtypeToArrowType converts a plain DType to Arrow DataType
func dtypeToArrowType(dtype DType) (arrow.DataType, error) {
	switch dtype {
	case Float64:
		return arrow.PrimitiveTypes.Float64, nil
	case Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case Bool:
		return arrow.FixedWidthTypes.Boolean, nil
	case String:
		return arrow.BinaryTypes.String, nil
	case DateTime:
		return arrow.FixedWidthTypes.Timestamp_ns, nil
	case Null:
		return arrow.Null, nil
	default:
		return nil, fmt.Errorf("unsupported dtype: %s", dtype)
	}
}

// seriesToArrowArray converts a Series to an Arrow Array
func seriesToArrowArray(s *Series, mem memory.Allocator) (arrow.Array, error) {
	switch s.DType() {
	case Float64:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		builder.AppendValues(s.f64, s.valid)
		return builder.NewArray(), nil

	case Int64:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		builder.AppendValues(s.i64, s.valid)
		return builder.NewArray(), nil

	case DateTime:
		builder := array.NewTimestampBuilder(mem, arrow.FixedWidthTypes.Timestamp_ns.(*arrow.TimestampType))
		defer builder.Release()
		data := make([]arrow.Timestamp, s.length)
		for i, v := range s.i64 {
			data[i] = arrow.Timestamp(v)
		}
		builder.AppendValues(data, s.valid)
		return builder.NewArray(), nil

	case Bool:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		builder.AppendValues(s.b, s.valid)
		return builder.NewArray(), nil

	case String:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		builder.AppendValues(s.str, s.valid)
		return builder.NewArray(), nil

	case Null:
		return array.NewNull(s.length), nil

	case Categorical:
		dictType, err := seriesArrowType(s)
		if err != nil {
			return nil, err
		}
		dict, err := seriesToArrowArray(s.cat.categories, mem)
		if err != nil {
			return nil, err
		}
		defer dict.Release()

		builder := array.NewInt32Builder(mem)
		defer builder.Release()
		for _, code := range s.cat.codes {
			if code < 0 {
				builder.AppendNull()
			} else {
				builder.Append(code)
			}
		}
		indices := builder.NewArray()
		defer indices.Release()

		return array.NewDictionaryArray(dictType, indices, dict), nil

	default:
		return nil, fmt.Errorf("unsupported dtype for Arrow export: %s", s.DType())
	}
}

// ============================================================================
// Arrow Import
// ============================================================================

// NewDataFrameFromArrow creates a DataFrame from an Arrow Record.
func NewDataFrameFromArrow(record arrow.Record) (*DataFrame, error) {
	if record == nil {
		return nil, fmt.Errorf("record is nil")
	}

	schema := record.Schema()
	numCols := int(record.NumCols())
	series := make([]*Series, numCols)

	for i := 0; i < numCols; i++ {
		field := schema.Field(i)
		s, err := arrowArrayToSeries(field.Name, record.Column(i))
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", field.Name, err)
		}
		series[i] = s
	}

	return NewDataFrame(series...)
}

// arrowArrayToSeries converts an Arrow Array to a Series
func arrowArrayToSeries(name string, arr arrow.Array) (*Series, error) {
	n := arr.Len()
	valid := make([]bool, n)
	for i := range valid {
		valid[i] = arr.IsValid(i)
	}

	switch a := arr.(type) {
	case *array.Float64:
		data := make([]float64, n)
		for i := 0; i < n; i++ {
			data[i] = a.Value(i)
		}
		return NewSeriesFloat64WithNulls(name, data, valid), nil

	case *array.Float32:
		data := make([]float64, n)
		for i := 0; i < n; i++ {
			data[i] = float64(a.Value(i))
		}
		return NewSeriesFloat64WithNulls(name, data, valid), nil

	case *array.Int64:
		data := make([]int64, n)
		for i := 0; i < n; i++ {
			data[i] = a.Value(i)
		}
		return NewSeriesInt64WithNulls(name, data, valid), nil

	case *array.Int32:
		data := make([]int64, n)
		for i := 0; i < n; i++ {
			data[i] = int64(a.Value(i))
		}
		return NewSeriesInt64WithNulls(name, data, valid), nil

	case *array.Boolean:
		data := make([]bool, n)
		for i := 0; i < n; i++ {
			data[i] = a.Value(i)
		}
		return NewSeriesBoolWithNulls(name, data, valid), nil

	case *array.String:
		data := make([]string, n)
		for i := 0; i < n; i++ {
			data[i] = a.Value(i)
		}
		return NewSeriesStringWithNulls(name, data, valid), nil

	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		b := newSeriesBuilder(name, DateTime, n)
		for i := 0; i < n; i++ {
			if !valid[i] {
				b.appendNull()
				continue
			}
			b.appendRaw(a.Value(i).ToTime(unit).UnixNano())
		}
		return b.finish(), nil

	case *array.Null:
		return NewSeriesNull(name, n), nil

	case *array.Dictionary:
		// Dictionary encoded -> Categorical
		dictType := a.DataType().(*arrow.DictionaryType)
		categories, err := arrowArrayToSeries("", a.Dictionary())
		if err != nil {
			return nil, fmt.Errorf("dictionary: %w", err)
		}
		codes := make([]int32, n)
		for i := 0; i < n; i++ {
			if a.IsNull(i) {
				codes[i] = -1
				continue
			}
			codes[i] = int32(a.GetValueIndex(i))
		}
		return NewCategoricalFromCodes(name, codes, categories, dictType.Ordered)

	default:
		return nil, fmt.Errorf("unsupported Arrow array type: %T", arr)
	}
}

// ============================================================================
// Arrow IPC
// ============================================================================

// WriteArrowIPC writes the DataFrame as an Arrow IPC stream with one record
// batch.
func (df *DataFrame) WriteArrowIPC(w io.Writer) error {
	mem := memory.DefaultAllocator
	record, err := df.ToArrow(mem)
	if err != nil {
		return err
	}
	defer record.Release()

	writer := ipc.NewWriter(w, ipc.WithSchema(record.Schema()), ipc.WithAllocator(mem))
	if err := writer.Write(record); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write record batch: %w", err)
	}
	return writer.Close()
}

// ReadArrowIPC reads an Arrow IPC stream. Batches are concatenated with
// ConcatCategorical, so categorical columns whose dictionaries differ
// between batches stay categorical.
func ReadArrowIPC(r io.Reader) (*DataFrame, error) {
	reader, err := ipc.NewReader(r, ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		return nil, fmt.Errorf("failed to open Arrow stream: %w", err)
	}
	defer reader.Release()

	var frames []*DataFrame
	for reader.Next() {
		df, err := NewDataFrameFromArrow(reader.Record())
		if err != nil {
			return nil, err
		}
		frames = append(frames, df)
	}
	if err := reader.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read Arrow stream: %w", err)
	}

	if len(frames) == 0 {
		return emptyFrameFromSchema(reader.Schema())
	}
	if len(frames) == 1 {
		return frames[0], nil
	}
	return ConcatCategorical(frames)
}

// emptyFrameFromSchema builds a zero-row DataFrame for a stream without
// batches.
func emptyFrameFromSchema(schema *arrow.Schema) (*DataFrame, error) {
	series := make([]*Series, 0, schema.NumFields())
	for _, field := range schema.Fields() {
		arr := array.MakeArrayOfNull(memory.DefaultAllocator, field.Type, 0)
		s, err := arrowArrayToSeries(field.Name, arr)
		arr.Release()
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", field.Name, err)
		}
		series = append(series, s)
	}
	return NewDataFrame(series...)
}

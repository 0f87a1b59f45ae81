package catframe

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/parquet-go/parquet-go"
)

// parquetMetadataKey is the file key/value metadata entry holding column
// order, dtypes and category sets.
const parquetMetadataKey = "catframe.categorical"

// ParquetReadOptions configures Parquet reading behavior
type ParquetReadOptions struct {
	Columns []string // Only read these columns (nil = all)
	MaxRows int      // Max rows to read (0 = unlimited)
}

// DefaultParquetReadOptions returns default Parquet reading options
func DefaultParquetReadOptions() ParquetReadOptions {
	return ParquetReadOptions{}
}

// ParquetWriteOptions configures Parquet writing behavior
type ParquetWriteOptions struct {
	Compression  string // "snappy", "gzip", "zstd", "none" (default "snappy")
	RowGroupSize int    // Rows per write batch (default 1000)
}

// DefaultParquetWriteOptions returns default Parquet writing options
func DefaultParquetWriteOptions() ParquetWriteOptions {
	return ParquetWriteOptions{
		Compression:  "snappy",
		RowGroupSize: 1000,
	}
}

// columnMeta describes one column in the metadata payloads of the Parquet and
// JSON formats. Categorical columns are stored as their decoded values; the
// category set is kept here so it survives unused categories and ordering.
type columnMeta struct {
	Name        string   `json:"name"`
	DType       string   `json:"dtype"`
	Categorical bool     `json:"categorical,omitempty"`
	Ordered     bool     `json:"ordered,omitempty"`
	Categories  []string `json:"categories,omitempty"`
}

func newColumnMeta(col *Series) columnMeta {
	cm := columnMeta{Name: col.Name(), DType: col.ElementType().String()}
	if col.cat != nil {
		cats := col.cat.categories
		cm.Categorical = true
		cm.Ordered = col.cat.ordered
		cm.Categories = make([]string, cats.Len())
		for j := 0; j < cats.Len(); j++ {
			cm.Categories[j] = formatRaw(cats.raw(j), cats.dtype)
		}
	}
	return cm
}

// restore re-encodes the plain column s read back from storage with the
// category set recorded in cm.
func (cm *columnMeta) restore(s *Series) (*Series, error) {
	if cm == nil || !cm.Categorical {
		return s, nil
	}
	elem, err := ParseDType(cm.DType)
	if err != nil {
		return nil, err
	}
	categories := NewSeriesString("", cm.Categories)
	if elem != String {
		if elem == Null {
			categories = newEmptySeries("", Null)
		} else if categories, err = categories.Cast(elem); err != nil {
			return nil, err
		}
	}
	return s.SetCategories(categories, cm.Ordered)
}

type parquetMeta struct {
	Columns []columnMeta `json:"columns"`
}

// ============================================================================
// Writing
// ============================================================================

// WriteParquet writes a DataFrame to a Parquet file
func (df *DataFrame) WriteParquet(path string, opts ...ParquetWriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := df.WriteParquetToWriter(f, opts...); err != nil {
		return err
	}
	return f.Close()
}

// WriteParquetToWriter writes a DataFrame to an io.Writer
func (df *DataFrame) WriteParquetToWriter(w io.Writer, opts ...ParquetWriteOptions) error {
	opt := DefaultParquetWriteOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.RowGroupSize <= 0 {
		opt.RowGroupSize = DefaultParquetWriteOptions().RowGroupSize
	}
	if df.Width() == 0 {
		return invalidArgumentf("cannot write a DataFrame without columns to parquet")
	}

	// Build schema as a group of named columns
	group := make(parquet.Group)
	for _, col := range df.columns {
		group[col.Name()] = parquet.Optional(dtypeToParquetNode(col.ElementType()))
	}
	schema := parquet.NewSchema("dataframe", group)

	meta, err := encodeParquetMeta(df)
	if err != nil {
		return err
	}

	writerOpts := []parquet.WriterOption{schema, parquet.KeyValueMetadata(parquetMetadataKey, meta)}
	switch opt.Compression {
	case "snappy", "":
		writerOpts = append(writerOpts, parquet.Compression(&parquet.Snappy))
	case "gzip":
		writerOpts = append(writerOpts, parquet.Compression(&parquet.Gzip))
	case "zstd":
		writerOpts = append(writerOpts, parquet.Compression(&parquet.Zstd))
	case "none":
	default:
		return invalidArgumentf("unknown parquet compression %q", opt.Compression)
	}

	pw := parquet.NewWriter(w, writerOpts...)

	// The group orders leaves by name; place each value at its leaf index.
	leafIndex := make([]int, df.Width())
	for j, col := range df.columns {
		leaf, ok := schema.Lookup(col.Name())
		if !ok {
			return fmt.Errorf("column %s missing from parquet schema", col.Name())
		}
		leafIndex[j] = leaf.ColumnIndex
	}

	height := df.Height()
	rows := make([]parquet.Row, 0, opt.RowGroupSize)
	for i := 0; i < height; i++ {
		row := make(parquet.Row, df.Width())
		for j, col := range df.columns {
			idx := leafIndex[j]
			if !col.IsValid(i) {
				row[idx] = parquet.NullValue().Level(0, 0, idx)
				continue
			}
			row[idx] = toParquetValue(col.raw(i), col.ElementType()).Level(0, 1, idx)
		}
		rows = append(rows, row)

		// Flush batch when full
		if len(rows) >= opt.RowGroupSize {
			if _, err := pw.WriteRows(rows); err != nil {
				return fmt.Errorf("failed to write rows at %d: %w", i-len(rows)+1, err)
			}
			rows = rows[:0]
		}
	}

	if len(rows) > 0 {
		if _, err := pw.WriteRows(rows); err != nil {
			return fmt.Errorf("failed to write final rows: %w", err)
		}
	}

	return pw.Close()
}

func encodeParquetMeta(df *DataFrame) (string, error) {
	meta := parquetMeta{Columns: make([]columnMeta, len(df.columns))}
	for i, col := range df.columns {
		meta.Columns[i] = newColumnMeta(col)
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("failed to encode parquet metadata: %w", err)
	}
	return string(b), nil
}

func dtypeToParquetNode(dtype DType) parquet.Node {
	switch dtype {
	case Float64:
		return parquet.Leaf(parquet.DoubleType)
	case Int64:
		return parquet.Int(64)
	case Bool:
		return parquet.Leaf(parquet.BooleanType)
	case DateTime:
		return parquet.Timestamp(parquet.Nanosecond)
	default:
		// String, and all-null columns
		return parquet.String()
	}
}

func toParquetValue(raw interface{}, dtype DType) parquet.Value {
	switch dtype {
	case Float64:
		return parquet.DoubleValue(raw.(float64))
	case Int64, DateTime:
		return parquet.Int64Value(raw.(int64))
	case Bool:
		return parquet.BooleanValue(raw.(bool))
	case String:
		return parquet.ByteArrayValue([]byte(raw.(string)))
	}
	return parquet.NullValue()
}

// ============================================================================
// Reading
// ============================================================================

// ReadParquet reads a Parquet file into a DataFrame
func ReadParquet(path string, opts ...ParquetReadOptions) (*DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return ReadParquetFromReader(f, stat.Size(), opts...)
}

// parquetColumn collects the values of one leaf column while reading.
type parquetColumn struct {
	name    string
	leaf    int
	kind    parquet.Kind
	scale   int64 // timestamp unit in nanoseconds, 0 for non-timestamps
	builder *seriesBuilder
	meta    *columnMeta
}

// ReadParquetFromReader reads Parquet data from an io.ReaderAt into a
// DataFrame. Files written by catframe get their column order, dtypes and
// category sets back from the file metadata.
func ReadParquetFromReader(r io.ReaderAt, size int64, opts ...ParquetReadOptions) (*DataFrame, error) {
	opt := DefaultParquetReadOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	schema := pf.Schema()

	var meta parquetMeta
	metaByName := make(map[string]*columnMeta)
	if raw, ok := pf.Lookup(parquetMetadataKey); ok {
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			return nil, fmt.Errorf("failed to decode parquet metadata: %w", err)
		}
		for i := range meta.Columns {
			metaByName[meta.Columns[i].Name] = &meta.Columns[i]
		}
	}

	// Determine columns to read
	colNames := opt.Columns
	if len(colNames) == 0 {
		if len(meta.Columns) > 0 {
			for _, cm := range meta.Columns {
				colNames = append(colNames, cm.Name)
			}
		} else {
			for _, f := range schema.Fields() {
				colNames = append(colNames, f.Name())
			}
		}
	}

	total := int(pf.NumRows())
	if opt.MaxRows > 0 && opt.MaxRows < total {
		total = opt.MaxRows
	}

	cols := make([]*parquetColumn, len(colNames))
	byLeaf := make(map[int]*parquetColumn, len(colNames))
	for i, name := range colNames {
		leaf, ok := schema.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("failed to read parquet: %w", &ColumnNotFoundError{Name: name})
		}
		c := &parquetColumn{name: name, leaf: leaf.ColumnIndex, kind: leaf.Node.Type().Kind(), meta: metaByName[name]}
		dtype := parquetLeafToDType(leaf.Node, &c.scale)
		if c.meta != nil && c.meta.DType == Null.String() {
			dtype = Null
		}
		c.builder = newSeriesBuilder(name, dtype, total)
		cols[i] = c
		byLeaf[c.leaf] = c
	}

	rowCount := 0
	rowBuf := make([]parquet.Row, 1000)
	for _, rg := range pf.RowGroups() {
		if rowCount >= total {
			break
		}
		rows := rg.Rows()
		for rowCount < total {
			n, err := rows.ReadRows(rowBuf)
			for _, row := range rowBuf[:n] {
				if rowCount >= total {
					break
				}
				for _, v := range row {
					if c, ok := byLeaf[v.Column()]; ok {
						c.append(v)
					}
				}
				rowCount++
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to read rows: %w", err)
			}
			if n == 0 {
				break
			}
		}
		rows.Close()
	}

	series := make([]*Series, len(cols))
	for i, c := range cols {
		s, err := c.finish()
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.name, err)
		}
		series[i] = s
	}
	return NewDataFrame(series...)
}

func (c *parquetColumn) append(v parquet.Value) {
	if v.IsNull() || c.builder.s.dtype == Null {
		c.builder.appendNull()
		return
	}
	switch c.kind {
	case parquet.Boolean:
		c.builder.appendRaw(v.Boolean())
	case parquet.Int32:
		c.builder.appendRaw(int64(v.Int32()) * c.timeScale())
	case parquet.Int64:
		c.builder.appendRaw(v.Int64() * c.timeScale())
	case parquet.Float:
		c.builder.appendRaw(float64(v.Float()))
	case parquet.Double:
		c.builder.appendRaw(v.Double())
	default:
		c.builder.appendRaw(string(v.ByteArray()))
	}
}

func (c *parquetColumn) timeScale() int64 {
	if c.scale == 0 {
		return 1
	}
	return c.scale
}

// finish builds the Series and restores the categorical representation
// recorded in the metadata.
func (c *parquetColumn) finish() (*Series, error) {
	return c.meta.restore(c.builder.finish())
}

// parquetLeafToDType maps a leaf to a DType. For timestamps scale receives
// the number of nanoseconds per stored unit.
func parquetLeafToDType(node parquet.Node, scale *int64) DType {
	t := node.Type()
	if lt := t.LogicalType(); lt != nil && lt.Timestamp != nil {
		switch {
		case lt.Timestamp.Unit.Millis != nil:
			*scale = 1_000_000
		case lt.Timestamp.Unit.Micros != nil:
			*scale = 1_000
		default:
			*scale = 1
		}
		return DateTime
	}
	switch t.Kind() {
	case parquet.Boolean:
		return Bool
	case parquet.Int32, parquet.Int64:
		return Int64
	case parquet.Float, parquet.Double:
		return Float64
	default:
		return String
	}
}

package catframe

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CSVReadOptions configures CSV reading behavior
type CSVReadOptions struct {
	Delimiter   rune             // Field delimiter (default ',')
	HasHeader   bool             // First row is header (default true)
	ColumnNames []string         // Override column names
	ColumnTypes map[string]DType // Force column types; Categorical infers the values, then encodes
	InferTypes  bool             // Auto-detect types (default true)
	NullValues  []string         // Strings to treat as null
	SkipRows    int              // Skip first N rows
	MaxRows     int              // Max rows to read (0 = unlimited)
	TrimSpace   bool             // Trim whitespace from values
	Comment     rune             // Comment character (skip lines starting with this)
}

// DefaultCSVReadOptions returns default CSV reading options
func DefaultCSVReadOptions() CSVReadOptions {
	return CSVReadOptions{
		Delimiter:  ',',
		HasHeader:  true,
		InferTypes: true,
		NullValues: []string{"", "null", "NULL", "NA", "N/A", "nan", "NaN"},
		TrimSpace:  true,
	}
}

// ReadCSV reads a CSV file into a DataFrame
func ReadCSV(path string, opts ...CSVReadOptions) (*DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ReadCSVFromReader(f, opts...)
}

// ReadCSVFromReader reads CSV data from an io.Reader into a DataFrame
func ReadCSVFromReader(r io.Reader, opts ...CSVReadOptions) (*DataFrame, error) {
	opt := DefaultCSVReadOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	reader := csv.NewReader(r)
	reader.Comma = opt.Delimiter
	if opt.Comment != 0 {
		reader.Comment = opt.Comment
	}
	reader.TrimLeadingSpace = opt.TrimSpace
	reader.FieldsPerRecord = -1

	// Skip rows
	for i := 0; i < opt.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("failed to skip row %d: %w", i, err)
		}
	}

	// Read header
	var headers []string
	if opt.HasHeader {
		var err error
		headers, err = reader.Read()
		if err == io.EOF {
			return NewDataFrame()
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
	}
	if len(opt.ColumnNames) > 0 {
		headers = opt.ColumnNames
	}

	// Read all data
	var records [][]string
	rowCount := 0
	for {
		if opt.MaxRows > 0 && rowCount >= opt.MaxRows {
			break
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", rowCount, err)
		}

		// Generate headers if needed
		if headers == nil {
			headers = make([]string, len(record))
			for i := range record {
				headers[i] = fmt.Sprintf("column_%d", i)
			}
		}

		records = append(records, record)
		rowCount++
	}

	colTypes := make([]DType, len(headers))
	for i := range headers {
		colTypes[i] = String
		if opt.InferTypes {
			colTypes[i] = inferColumnType(records, i, opt)
		}
	}

	columns := make([]*Series, len(headers))
	for i, name := range headers {
		dtype := colTypes[i]
		forced, ok := opt.ColumnTypes[name]
		if ok && forced != Categorical {
			dtype = forced
		}
		col, err := buildColumn(name, dtype, records, i, opt)
		if err != nil {
			return nil, fmt.Errorf("failed to build column '%s': %w", name, err)
		}
		if ok && forced == Categorical {
			if col, err = col.AsCategory(); err != nil {
				return nil, fmt.Errorf("failed to build column '%s': %w", name, err)
			}
		}
		columns[i] = col
	}

	return NewDataFrame(columns...)
}

func csvField(record []string, colIdx int, opt CSVReadOptions) (string, bool) {
	if colIdx >= len(record) {
		return "", false
	}
	val := record[colIdx]
	if opt.TrimSpace {
		val = strings.TrimSpace(val)
	}
	if isNull(val, opt.NullValues) {
		return "", false
	}
	return val, true
}

// inferColumnType picks the narrowest dtype every non-null value parses as,
// trying Int64, Float64, Bool, DateTime and finally String.
func inferColumnType(records [][]string, colIdx int, opt CSVReadOptions) DType {
	candidates := []DType{Int64, Float64, Bool, DateTime}
	alive := make([]bool, len(candidates))
	for i := range alive {
		alive[i] = true
	}

	seen := false
	for _, record := range records {
		val, ok := csvField(record, colIdx, opt)
		if !ok {
			continue
		}
		seen = true
		for i, dtype := range candidates {
			if alive[i] && !parsesAs(val, dtype) {
				alive[i] = false
			}
		}
	}
	if !seen {
		return Null
	}
	for i, dtype := range candidates {
		if alive[i] {
			return dtype
		}
	}
	return String
}

func parsesAs(val string, dtype DType) bool {
	var err error
	switch dtype {
	case Int64:
		_, err = strconv.ParseInt(val, 10, 64)
	case Float64:
		_, err = strconv.ParseFloat(val, 64)
	case Bool:
		_, err = strconv.ParseBool(val)
		if err == nil {
			// "1" and "0" are integers, not booleans
			lower := strings.ToLower(val)
			return lower == "true" || lower == "false"
		}
	case DateTime:
		_, err = parseTime(val)
	}
	return err == nil
}

func buildColumn(name string, dtype DType, records [][]string, colIdx int, opt CSVReadOptions) (*Series, error) {
	if dtype == Null {
		return NewSeriesNull(name, len(records)), nil
	}
	if !dtype.IsPlain() {
		return nil, fmt.Errorf("unsupported dtype: %s", dtype)
	}

	b := newSeriesBuilder(name, dtype, len(records))
	for i, record := range records {
		val, ok := csvField(record, colIdx, opt)
		if !ok {
			b.appendNull()
			continue
		}
		raw, err := convertRaw(val, String, dtype)
		if err != nil {
			return nil, fmt.Errorf("row %d: cannot parse '%s' as %s: %w", i, val, dtype, err)
		}
		if raw == nil {
			b.appendNull()
			continue
		}
		b.appendRaw(raw)
	}
	return b.finish(), nil
}

func isNull(val string, nullValues []string) bool {
	for _, nv := range nullValues {
		if val == nv {
			return true
		}
	}
	return false
}

// CSVWriteOptions configures CSV writing behavior
type CSVWriteOptions struct {
	Delimiter   rune   // Field delimiter (default ',')
	WriteHeader bool   // Write header row (default true)
	NullString  string // String to write for null values (default "")
}

// DefaultCSVWriteOptions returns default CSV writing options
func DefaultCSVWriteOptions() CSVWriteOptions {
	return CSVWriteOptions{
		Delimiter:   ',',
		WriteHeader: true,
		NullString:  "",
	}
}

// WriteCSV writes a DataFrame to a CSV file
func (df *DataFrame) WriteCSV(path string, opts ...CSVWriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := df.WriteCSVToWriter(w, opts...); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// WriteCSVToWriter writes a DataFrame to an io.Writer. Categorical columns
// are written as their values; the category set is not persisted.
func (df *DataFrame) WriteCSVToWriter(w io.Writer, opts ...CSVWriteOptions) error {
	opt := DefaultCSVWriteOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	writer := csv.NewWriter(w)
	writer.Comma = opt.Delimiter

	if opt.WriteHeader {
		if err := writer.Write(df.Columns()); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	row := make([]string, df.Width())
	for i := 0; i < df.Height(); i++ {
		for j, col := range df.columns {
			if !col.IsValid(i) {
				row[j] = opt.NullString
			} else {
				row[j] = formatRaw(col.raw(i), col.ElementType())
			}
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

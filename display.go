package catframe

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// DisplayConfig controls how DataFrames are formatted when printed.
type DisplayConfig struct {
	// MaxRows is the maximum number of rows to display.
	// Longer frames show head and tail rows with "…" in between.
	// Default: 10 (5 head + 5 tail)
	MaxRows int

	// MaxCols is the maximum number of columns to display.
	// Default: 10
	MaxCols int

	// MaxColWidth truncates longer cell content with "...".
	// Default: 25
	MaxColWidth int

	// MinColWidth is the minimum column width for alignment.
	// Default: 8
	MinColWidth int

	// FloatPrecision is the number of decimal places for float values.
	// Default: 4
	FloatPrecision int

	// ShowDTypes displays data types under column names.
	// Categorical columns show their category type, e.g. cat[String].
	ShowDTypes bool

	// ShowShape displays the (rows, columns) header.
	ShowShape bool

	// TableStyle is one of "rounded", "sharp", "ascii", "minimal".
	TableStyle string
}

type tableChars struct {
	topLeft, topRight, bottomLeft, bottomRight string
	horizontal, vertical                       string
	topT, bottomT, leftT, rightT, cross        string
}

var tableStyles = map[string]tableChars{
	"rounded": {
		topLeft: "╭", topRight: "╮", bottomLeft: "╰", bottomRight: "╯",
		horizontal: "─", vertical: "│",
		topT: "┬", bottomT: "┴", leftT: "├", rightT: "┤", cross: "┼",
	},
	"sharp": {
		topLeft: "┌", topRight: "┐", bottomLeft: "└", bottomRight: "┘",
		horizontal: "─", vertical: "│",
		topT: "┬", bottomT: "┴", leftT: "├", rightT: "┤", cross: "┼",
	},
	"ascii": {
		topLeft: "+", topRight: "+", bottomLeft: "+", bottomRight: "+",
		horizontal: "-", vertical: "|",
		topT: "+", bottomT: "+", leftT: "+", rightT: "+", cross: "+",
	},
	"minimal": {
		topLeft: " ", topRight: " ", bottomLeft: " ", bottomRight: " ",
		horizontal: "─", vertical: " ",
		topT: " ", bottomT: " ", leftT: " ", rightT: " ", cross: " ",
	},
}

// DefaultDisplayConfig returns the default display configuration.
func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		MaxRows:        10,
		MaxCols:        10,
		MaxColWidth:    25,
		MinColWidth:    8,
		FloatPrecision: 4,
		ShowDTypes:     true,
		ShowShape:      true,
		TableStyle:     "rounded",
	}
}

var (
	globalDisplayConfig = DefaultDisplayConfig()
	displayConfigMu     sync.RWMutex
)

// SetDisplayConfig sets the global display configuration.
func SetDisplayConfig(cfg DisplayConfig) {
	displayConfigMu.Lock()
	defer displayConfigMu.Unlock()
	globalDisplayConfig = cfg
}

// GetDisplayConfig returns the current global display configuration.
func GetDisplayConfig() DisplayConfig {
	displayConfigMu.RLock()
	defer displayConfigMu.RUnlock()
	return globalDisplayConfig
}

// String renders the DataFrame with the global display configuration.
func (df *DataFrame) String() string {
	return df.StringWithConfig(GetDisplayConfig())
}

// String renders the Series with the global display configuration.
func (s *Series) String() string {
	return SeriesStringWithConfig(s, GetDisplayConfig())
}

// dtypeLabel is the dtype shown in table headers.
func dtypeLabel(s *Series) string {
	if s.cat == nil {
		return s.dtype.String()
	}
	if s.cat.ordered {
		return fmt.Sprintf("cat<ordered>[%s]", s.ElementType())
	}
	return fmt.Sprintf("cat[%s]", s.ElementType())
}

func formatCell(s *Series, row int, cfg DisplayConfig) string {
	var out string
	switch v := s.Get(row).(type) {
	case nil:
		out = "null"
	case float64:
		out = strconv.FormatFloat(v, 'f', cfg.FloatPrecision, 64)
	case time.Time:
		out = v.Format(time.RFC3339Nano)
	case string:
		out = v
	default:
		out = fmt.Sprint(v)
	}
	return truncate(out, cfg.MaxColWidth)
}

func truncate(s string, width int) string {
	if width <= 3 || utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-3]) + "..."
}

// visibleIndices picks at most limit positions out of n, splitting head and
// tail around a -1 marker.
func visibleIndices(n, limit int) []int {
	if limit <= 0 || n <= limit {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	head := limit / 2
	tail := limit - head
	out := make([]int, 0, limit+1)
	for i := 0; i < head; i++ {
		out = append(out, i)
	}
	out = append(out, -1)
	for i := n - tail; i < n; i++ {
		out = append(out, i)
	}
	return out
}

// table accumulates a bordered text table.
type table struct {
	sb     strings.Builder
	chars  tableChars
	widths []int
}

func newTable(style string, widths []int) *table {
	chars, ok := tableStyles[style]
	if !ok {
		chars = tableStyles["rounded"]
	}
	return &table{chars: chars, widths: widths}
}

func (t *table) border(left, mid, right string) {
	t.sb.WriteString(left)
	for i, w := range t.widths {
		if i > 0 {
			t.sb.WriteString(mid)
		}
		t.sb.WriteString(strings.Repeat(t.chars.horizontal, w+2))
	}
	t.sb.WriteString(right)
}

// row writes one line of cells; leftAlign pads on the right.
func (t *table) row(cells []string, leftAlign bool) {
	t.sb.WriteString(t.chars.vertical)
	for i, c := range cells {
		pad := t.widths[i] - utf8.RuneCountInString(c)
		if pad < 0 {
			pad = 0
		}
		t.sb.WriteByte(' ')
		if leftAlign {
			t.sb.WriteString(c + strings.Repeat(" ", pad))
		} else {
			t.sb.WriteString(strings.Repeat(" ", pad) + c)
		}
		t.sb.WriteByte(' ')
		t.sb.WriteString(t.chars.vertical)
	}
	t.sb.WriteByte('\n')
}

// StringWithConfig formats the DataFrame using the provided configuration.
func (df *DataFrame) StringWithConfig(cfg DisplayConfig) string {
	if df.Height() == 0 || len(df.columns) == 0 {
		return fmt.Sprintf("DataFrame(empty, %d columns)", len(df.columns))
	}

	colIndices := visibleIndices(len(df.columns), cfg.MaxCols)
	rowIndices := visibleIndices(df.Height(), cfg.MaxRows)

	headers := make([]string, len(colIndices))
	dtypes := make([]string, len(colIndices))
	cells := make([][]string, len(rowIndices))
	for r := range cells {
		cells[r] = make([]string, len(colIndices))
	}
	widths := make([]int, len(colIndices))

	for c, colIdx := range colIndices {
		if colIdx < 0 {
			headers[c], dtypes[c] = "…", "---"
			for r := range rowIndices {
				cells[r][c] = "…"
			}
			widths[c] = 3
			continue
		}
		col := df.columns[colIdx]
		headers[c] = truncate(col.Name(), cfg.MaxColWidth)
		dtypes[c] = truncate(dtypeLabel(col), cfg.MaxColWidth)
		w := max(cfg.MinColWidth, utf8.RuneCountInString(headers[c]))
		if cfg.ShowDTypes {
			w = max(w, utf8.RuneCountInString(dtypes[c]))
		}
		for r, rowIdx := range rowIndices {
			if rowIdx < 0 {
				cells[r][c] = "…"
				continue
			}
			cells[r][c] = formatCell(col, rowIdx, cfg)
			w = max(w, utf8.RuneCountInString(cells[r][c]))
		}
		widths[c] = w
	}

	t := newTable(cfg.TableStyle, widths)
	if cfg.ShowShape {
		fmt.Fprintf(&t.sb, "shape: (%d, %d)\n", df.Height(), len(df.columns))
	}
	t.border(t.chars.topLeft, t.chars.topT, t.chars.topRight)
	t.sb.WriteByte('\n')
	t.row(headers, true)
	if cfg.ShowDTypes {
		t.row(dtypes, true)
	}
	t.border(t.chars.leftT, t.chars.cross, t.chars.rightT)
	t.sb.WriteByte('\n')
	for _, r := range cells {
		t.row(r, false)
	}
	t.border(t.chars.bottomLeft, t.chars.bottomT, t.chars.bottomRight)
	return t.sb.String()
}

// SeriesStringWithConfig formats the Series using the provided configuration.
func SeriesStringWithConfig(s *Series, cfg DisplayConfig) string {
	header := fmt.Sprintf("Series: '%s' (%s)\nlength: %d\n", s.Name(), dtypeLabel(s), s.Len())
	if s.cat != nil {
		cats := make([]string, s.cat.categories.Len())
		for i := range cats {
			cats[i] = formatRaw(s.cat.categories.raw(i), s.cat.categories.dtype)
		}
		header += fmt.Sprintf("categories: [%s]\n", truncate(strings.Join(cats, ", "), 4*cfg.MaxColWidth))
	}
	if s.Len() == 0 {
		return header + "[]"
	}

	rowIndices := visibleIndices(s.Len(), cfg.MaxRows)
	indexWidth := max(3, len(strconv.Itoa(s.Len()-1)))
	valueWidth := cfg.MinColWidth

	rows := make([][]string, len(rowIndices))
	for r, idx := range rowIndices {
		if idx < 0 {
			rows[r] = []string{"…", "…"}
			continue
		}
		v := formatCell(s, idx, cfg)
		valueWidth = max(valueWidth, utf8.RuneCountInString(v))
		rows[r] = []string{strconv.Itoa(idx), v}
	}

	t := newTable(cfg.TableStyle, []int{indexWidth, valueWidth})
	t.sb.WriteString(header)
	t.border(t.chars.topLeft, t.chars.topT, t.chars.topRight)
	t.sb.WriteByte('\n')
	for _, r := range rows {
		t.row(r, false)
	}
	t.border(t.chars.bottomLeft, t.chars.bottomT, t.chars.bottomRight)
	return t.sb.String()
}

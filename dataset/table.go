package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/spektr-org/promodash/schema"
)

// ============================================================================
// TABLE READERS: Columnar files → header levels + string cells
// ============================================================================
// Readers keep every cell as text. Typing happens later, once the canonical
// columns are resolved, so a reader never needs to know which dataset it is
// looking at.
// ============================================================================

// ErrUnsupportedFormat is returned by ReadFile for unknown extensions.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// pandas writes the DataFrame index as extra columns with this prefix.
const indexColumnPrefix = "__index_level_"

// Table is a raw dataset: one header (possibly multi-level) per column and
// the cells of every row as strings.
type Table struct {
	Name    string
	Headers [][]string
	Rows    [][]string
}

// Columns returns the flattened, lowercased column names.
func (t *Table) Columns() []string {
	return schema.FlattenColumns(t.Headers)
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// ReadFile reads a .parquet or .csv file. headerRows applies to CSV only.
func ReadFile(path string, headerRows int) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var t *Table
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".parquet":
		info, statErr := f.Stat()
		if statErr != nil {
			return nil, fmt.Errorf("stat %s: %w", path, statErr)
		}
		t, err = ReadParquet(f, info.Size())
	case ".csv":
		t, err = ReadCSV(f, headerRows)
	default:
		return nil, fmt.Errorf("%s: %w %q", path, ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return t, nil
}

// ============================================================================
// CSV
// ============================================================================

// ReadCSV reads a CSV stream whose first headerRows rows are header levels.
// Column i gets the segments [row0[i], row1[i], ...]. Cells are trimmed.
func ReadCSV(r io.Reader, headerRows int) (*Table, error) {
	if headerRows < 1 {
		headerRows = 1
	}

	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) < headerRows {
		return nil, fmt.Errorf("failed to read CSV headers: want %d header rows, got %d", headerRows, len(records))
	}

	width := len(records[0])
	headers := make([][]string, width)
	for i := 0; i < width; i++ {
		segments := make([]string, headerRows)
		for level := 0; level < headerRows; level++ {
			segments[level] = strings.TrimSpace(records[level][i])
		}
		headers[i] = segments
	}

	rows := make([][]string, 0, len(records)-headerRows)
	for _, rec := range records[headerRows:] {
		row := make([]string, width)
		for i, val := range rec {
			row[i] = strings.TrimSpace(val)
		}
		rows = append(rows, row)
	}

	return &Table{Headers: headers, Rows: rows}, nil
}

// ============================================================================
// PARQUET
// ============================================================================

// ReadParquet reads every row group of a parquet file. Leaf column names
// that look like serialized tuples are split into header levels, and pandas
// index columns are dropped.
func ReadParquet(r io.ReaderAt, size int64) (*Table, error) {
	f, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	leaves := f.Schema().Columns()
	keep := make([]int, len(leaves)) // leaf index → output column, -1 to skip
	var headers [][]string
	for i, path := range leaves {
		name := path[len(path)-1]
		if strings.HasPrefix(name, indexColumnPrefix) {
			keep[i] = -1
			continue
		}
		keep[i] = len(headers)
		if len(path) == 1 {
			headers = append(headers, schema.SplitHeader(name))
		} else {
			headers = append(headers, append([]string(nil), path...))
		}
	}

	t := &Table{Headers: headers}
	buf := make([]parquet.Row, 128)
	for _, rg := range f.RowGroups() {
		if err := readRowGroup(rg, keep, len(headers), buf, t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func readRowGroup(rg parquet.RowGroup, keep []int, width int, buf []parquet.Row, t *Table) error {
	rows := rg.Rows()
	defer rows.Close()

	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			out := make([]string, width)
			for _, v := range row {
				c := v.Column()
				if c < 0 || c >= len(keep) || keep[c] < 0 {
					continue
				}
				out[keep[c]] = formatValue(v)
			}
			t.Rows = append(t.Rows, out)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
}

// formatValue stringifies a parquet value: integers in base 10, floats in
// shortest form, byte arrays as text and nulls as "".
func formatValue(v parquet.Value) string {
	if v.IsNull() {
		return ""
	}
	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'f', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64)
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}

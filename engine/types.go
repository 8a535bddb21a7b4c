package engine

// ============================================================================
// ENGINE TYPES: Panels over pre-aggregated tables
// ============================================================================
// The engine never computes the upstream statistics. It filters, ranks,
// truncates and averages what the pipeline already produced, and returns
// render-ready structures (metric, table, bar chart).
//
// Dependency: engine has ZERO external dependencies.
// ============================================================================

// Panel kinds understood by Execute.
const (
	KindMetric = "metric"
	KindTable  = "table"
	KindBar    = "bar"
)

// Value styles for metrics and table cells.
const (
	StyleCurrency = "currency" // $1,234
	StyleDecimal  = "decimal"  // 1234.57
	StylePlain    = "plain"    // shortest float representation
)

// Sort modes.
const (
	SortNone      = ""
	SortValueDesc = "value_desc"
	SortValueAsc  = "value_asc"
)

// ============================================================================
// PANEL SPEC: What one dashboard panel should compute
// ============================================================================

// PanelSpec defines what Execute should compute for one panel.
type PanelSpec struct {
	Kind    string   `json:"kind"`              // "metric", "table", "bar"
	Title   string   `json:"title"`             // Panel heading
	Filters Filters  `json:"filters"`           // Which rows to include
	Measure string   `json:"measure"`           // Measure to average / rank by / plot
	Label   string   `json:"label"`             // Dimension used for bar labels
	Columns []string `json:"columns,omitempty"` // Table columns, in order
	SortBy  string   `json:"sortBy"`            // "value_desc", "value_asc", "" (source order)
	Limit   int      `json:"limit"`             // 0 = all
	Style   string   `json:"style"`             // "currency", "decimal", "plain"
}

// Filters define which rows to include.
// Keys are dimension names, values are the allowed values.
// An absent key does not restrict; a present key with no values matches nothing.
// AND across dimensions, exact membership within one.
type Filters struct {
	Dimensions map[string][]string `json:"dimensions"`
}

// NewFilters returns an empty (unrestricted) filter set.
func NewFilters() Filters {
	return Filters{Dimensions: make(map[string][]string)}
}

// With returns a copy of f that restricts dimension to values.
// A nil values slice removes the restriction.
func (f Filters) With(dimension string, values []string) Filters {
	out := Filters{Dimensions: make(map[string][]string, len(f.Dimensions)+1)}
	for k, v := range f.Dimensions {
		out.Dimensions[k] = v
	}
	if values == nil {
		delete(out.Dimensions, dimension)
		return out
	}
	out.Dimensions[dimension] = values
	return out
}

// HasFilter returns true if dimension is restricted (possibly to nothing).
func (f Filters) HasFilter(dimension string) bool {
	if f.Dimensions == nil {
		return false
	}
	_, ok := f.Dimensions[dimension]
	return ok
}

// IsEmpty returns true if no dimension is restricted.
func (f Filters) IsEmpty() bool {
	return len(f.Dimensions) == 0
}

// ============================================================================
// RESULT: Render-ready output
// ============================================================================

// Result is the output of one panel. Exactly one payload is set, matching Type.
type Result struct {
	Type  string `json:"type"` // "metric", "table", "bar"
	Title string `json:"title"`
	Count int    `json:"count"` // rows that fed the panel

	Metric      *Metric      `json:"metric,omitempty"`
	TableData   *TableData   `json:"tableData,omitempty"`
	ChartConfig *ChartConfig `json:"chartConfig,omitempty"`
}

// ============================================================================
// METRIC
// ============================================================================

// Metric is a single KPI value.
type Metric struct {
	Label    string  `json:"label"`
	Value    string  `json:"value"`    // formatted, "—" when undefined
	RawValue float64 `json:"rawValue"` // NaN is reported as 0 with Valid=false
	Valid    bool    `json:"valid"`
	Count    int     `json:"count"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Points returns the first series' points, or nil.
func (c *ChartConfig) Points() []ChartPoint {
	if c == nil || len(c.Series) == 0 {
		return nil
	}
	return c.Series[0].Data
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number", "currency"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides a footer line for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// Headers returns the column labels in order.
func (t *TableData) Headers() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Label
	}
	return out
}

package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spektr-org/promodash/dashboard"
	"github.com/spektr-org/promodash/engine"
)

// ============================================================================
// EXPORT: Sheets-ready CSV, JSON and plain text
// ============================================================================

// WriteTableCSV writes a header row followed by every table row.
func WriteTableCSV(w io.Writer, t *engine.TableData) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers()); err != nil {
		return err
	}
	if t != nil {
		if err := cw.WriteAll(t.Rows); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteChartCSV writes a chart's first series as label,value rows.
func WriteChartCSV(w io.Writer, c *engine.ChartConfig) error {
	xLabel, yLabel := "Label", "Value"
	if c != nil && c.XAxis != "" {
		xLabel = c.XAxis
	}
	if c != nil && c.YAxis != "" {
		yLabel = c.YAxis
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{xLabel, yLabel}); err != nil {
		return err
	}
	for _, p := range c.Points() {
		if err := cw.Write([]string{p.Label, fmtNum(p.Value)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes v as JSON, indented when pretty is set.
func WriteJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// WriteText writes a human-readable summary of a dashboard view.
func WriteText(w io.Writer, v *dashboard.View) error {
	var b strings.Builder

	b.WriteString("Key indicators\n")
	for _, m := range v.KPIs {
		fmt.Fprintf(&b, "  %-24s %s\n", m.Label, m.Value)
	}

	if v.Ranking != nil {
		fmt.Fprintf(&b, "\n%s\n", v.Ranking.Title)
		writeTextTable(&b, v.Ranking)
	}

	for _, c := range []*engine.ChartConfig{v.TypeEfficiency, v.DeptEfficiency} {
		if c == nil {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", c.Title)
		points := c.Points()
		if len(points) == 0 {
			b.WriteString("  (no data)\n")
		}
		for _, p := range points {
			fmt.Fprintf(&b, "  %-12s %s\n", p.Label, fmtNum(p.Value))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeTextTable(b *strings.Builder, t *engine.TableData) {
	headers := t.Headers()
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := func(cells []string) {
		b.WriteString(" ")
		for i, cell := range cells {
			if i >= len(widths) {
				break
			}
			if t.Columns[i].Align == "right" {
				fmt.Fprintf(b, " %*s", widths[i], cell)
			} else {
				fmt.Fprintf(b, " %-*s", widths[i], cell)
			}
		}
		b.WriteString("\n")
	}

	line(headers)
	if len(t.Rows) == 0 {
		b.WriteString("  (no rows)\n")
	}
	for _, row := range t.Rows {
		line(row)
	}
}

// fmtNum prints whole numbers without decimals and everything else with two.
func fmtNum(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

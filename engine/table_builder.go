package engine

import (
	"fmt"
)

// ============================================================================
// TABLE BUILDER: Produces TableData from a ranked view
// ============================================================================
// All functions operate on RecordView: zero-copy access to any data source.
// Columns come from PanelSpec.Columns; when empty, every dimension followed by
// every measure the view exposes.
// ============================================================================

// BuildTable produces a row-per-record TableData.
func BuildTable(spec PanelSpec, view RecordView, cfg *config) *TableData {
	keys := spec.Columns
	if len(keys) == 0 {
		keys = append(append([]string{}, view.DimensionKeys()...), view.MeasureKeys()...)
	}

	columns := make([]Column, 0, len(keys))
	isMeasure := make([]bool, len(keys))
	styles := make([]string, len(keys))
	for i, key := range keys {
		if HasMeasure(view, key) {
			isMeasure[i] = true
			styles[i] = cfg.ColumnStyles[key]
			typ := "number"
			if styles[i] == StyleCurrency {
				typ = "currency"
			}
			columns = append(columns, Column{Key: key, Label: cfg.label(key), Type: typ, Align: "right"})
			continue
		}
		columns = append(columns, Column{Key: key, Label: cfg.label(key), Type: "text", Align: "left"})
	}

	rows := make([][]string, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		row := make([]string, len(keys))
		for j, key := range keys {
			if isMeasure[j] {
				row[j] = cfg.format(view.Measure(i, key), styles[j])
			} else {
				row[j] = view.Dimension(i, key)
			}
		}
		rows = append(rows, row)
	}

	return &TableData{
		Title:   spec.Title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label:  fmt.Sprintf("%d rows", view.Len()),
			Values: map[string]string{},
		},
	}
}

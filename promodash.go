// Package promodash serves a dashboard that ranks store/department pairs by
// promotional priority and compares promotional efficiency across store
// types and departments.
//
// The statistics are precomputed upstream. promodash reads three tables
// (parquet or CSV), resolves their columns by keyword, and renders:
//
//	engine     panels (metric, table, bar) over any RecordView
//	schema     column configs and keyword resolution
//	dataset    file readers, typed records and the load-once cache
//	dashboard  the fixed panel set and the user's selection
//	render     HTML page, SVG charts, CSV / JSON / text export
//
// cmd/promodash wires these behind an HTTP server, or exports one view and exits.
package promodash

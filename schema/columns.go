package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================================
// COLUMN NORMALIZATION: Flatten hierarchical headers, resolve by keyword
// ============================================================================
// Pipeline per dataset:
//   1. SplitHeader   "('promo_efficiency', 'mean')" → ["promo_efficiency", "mean"]
//   2. Flatten       ["promo_efficiency", "mean"]   → "promo_efficiency_mean"
//   3. FindColumn    keyword "promo_efficiency"     → first column containing it
//   4. Resolve       canonical key → source column, for every ColumnSpec
// ============================================================================

// ErrColumnNotFound is wrapped by every LookupError.
var ErrColumnNotFound = errors.New("column not found")

// LookupError reports a keyword that matched none of the available columns.
type LookupError struct {
	Keyword string
	Columns []string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no column matching %q among [%s]", e.Keyword, strings.Join(e.Columns, ", "))
}

func (e *LookupError) Unwrap() error { return ErrColumnNotFound }

// Flatten joins the non-empty segments of one header with "_" and lowercases it.
func Flatten(segments []string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s == "" {
			continue
		}
		parts = append(parts, s)
	}
	return strings.ToLower(strings.Join(parts, "_"))
}

// FlattenColumns flattens every header. Applying it to its own output
// (one segment per column) returns the same names.
func FlattenColumns(headers [][]string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = Flatten(h)
	}
	return out
}

// FlatHeaders wraps already-flat names as single-segment headers.
func FlatHeaders(names []string) [][]string {
	out := make([][]string, len(names))
	for i, n := range names {
		out[i] = []string{n}
	}
	return out
}

// SplitHeader splits a pandas-serialized MultiIndex name into its levels.
// Names that are not tuples come back as a single segment.
func SplitHeader(name string) []string {
	s := strings.TrimSpace(name)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return []string{name}
	}
	inner := s[1 : len(s)-1]
	if !strings.ContainsAny(inner, `'"`) {
		return []string{name}
	}

	var segments []string
	var cur strings.Builder
	var quote byte
	inQuote := false
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		switch {
		case inQuote && c == '\\' && i+1 < len(inner):
			i++
			cur.WriteByte(inner[i])
		case inQuote && c == quote:
			inQuote = false
		case inQuote:
			cur.WriteByte(c)
		case c == '\'' || c == '"':
			inQuote = true
			quote = c
		case c == ',':
			segments = append(segments, normalizeSegment(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if inQuote {
		return []string{name}
	}
	if tail := strings.TrimSpace(cur.String()); tail != "" || len(segments) == 0 {
		segments = append(segments, normalizeSegment(tail))
	}
	return segments
}

// normalizeSegment trims a tuple element and maps Python's None/nan to empty.
func normalizeSegment(s string) string {
	s = strings.TrimSpace(s)
	switch s {
	case "None", "nan", "NaN":
		return ""
	}
	return s
}

// FindColumn returns the first column containing keyword.
func FindColumn(columns []string, keyword string) (string, error) {
	for _, c := range columns {
		if strings.Contains(c, keyword) {
			return c, nil
		}
	}
	return "", &LookupError{Keyword: keyword, Columns: columns}
}

// Resolve finds the source column for every spec in cfg.
// The result maps canonical key → flattened source column name.
func Resolve(columns []string, cfg Config) (map[string]string, error) {
	mapping := make(map[string]string, len(cfg.Columns))
	for _, spec := range cfg.Columns {
		col, err := FindColumn(columns, spec.Keyword)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", cfg.Name, spec.Key, err)
		}
		mapping[spec.Key] = col
	}
	return mapping, nil
}

// ToDisplayName converts "avg_sales" → "Avg Sales".
func ToDisplayName(s string) string {
	if strings.Contains(s, " ") {
		return strings.TrimSpace(s)
	}

	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
		}
	}
	return strings.Join(words, " ")
}

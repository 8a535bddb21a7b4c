package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ============================================================================
// AGGREGATORS: Means, ranking and truncation via RecordView
// ============================================================================
// All functions operate on RecordView: zero-copy access to any data source.
// Missing measure values are NaN and are skipped by means, sorted last by
// rankings, and rendered as "—".
// ============================================================================

// Placeholder shown for undefined values.
const Placeholder = "—"

// ============================================================================
// AGGREGATION
// ============================================================================

// SumMeasure sums a named measure across a view, skipping NaN.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		v := view.Measure(i, measure)
		if math.IsNaN(v) {
			continue
		}
		total += v
	}
	return total
}

// AvgMeasure computes the arithmetic mean of a named measure, skipping NaN.
// Returns NaN when no value is present.
func AvgMeasure(view RecordView, measure string) float64 {
	var total float64
	n := 0
	for i := 0; i < view.Len(); i++ {
		v := view.Measure(i, measure)
		if math.IsNaN(v) {
			continue
		}
		total += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return total / float64(n)
}

// ============================================================================
// SORTING & TRUNCATION
// ============================================================================

// SortByMeasure returns a view ordered by measure. The sort is stable and
// NaN values go last in both directions.
func SortByMeasure(view RecordView, measure string, desc bool) RecordView {
	n := view.Len()
	indices := make([]int, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		indices[i] = i
		values[i] = view.Measure(i, measure)
	}

	sort.SliceStable(indices, func(a, b int) bool {
		va, vb := values[indices[a]], values[indices[b]]
		aNaN, bNaN := math.IsNaN(va), math.IsNaN(vb)
		switch {
		case aNaN || bNaN:
			return !aNaN && bNaN
		case desc:
			return va > vb
		default:
			return va < vb
		}
	})

	return newSubView(view, indices)
}

// Limit returns the first n rows of view. n <= 0 means all.
func Limit(view RecordView, n int) RecordView {
	if n <= 0 || view.Len() <= n {
		return view
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return newSubView(view, indices)
}

// TopN returns at most n rows ordered by measure, highest first.
func TopN(view RecordView, measure string, n int) RecordView {
	return Limit(SortByMeasure(view, measure, true), n)
}

// ============================================================================
// DISTINCT VALUES
// ============================================================================

// UniqueValues returns the distinct non-empty values of a dimension in
// natural order: numeric values numerically, everything else lexically.
func UniqueValues(view RecordView, dimension string) []string {
	seen := make(map[string]bool)
	var result []string
	for i := 0; i < view.Len(); i++ {
		val := view.Dimension(i, dimension)
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return NaturalLess(result[i], result[j]) })
	return result
}

// NaturalLess orders numbers before text, numbers by value and text lexically.
func NaturalLess(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		if fa != fb {
			return fa < fb
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatCurrency formats an amount as a whole number with a currency prefix
// and comma separators: 12345.6 → "$12,346".
func FormatCurrency(amount float64, symbol string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Placeholder
	}
	rounded := math.Round(amount)
	if rounded < 0 {
		return "-" + symbol + FormatInt(int(-rounded))
	}
	return symbol + FormatInt(int(rounded))
}

// FormatDecimal formats a value with a fixed number of decimals.
func FormatDecimal(v float64, places int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	return strconv.FormatFloat(v, 'f', places, 64)
}

// FormatPlain formats a value in its shortest exact representation.
func FormatPlain(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LabelForDimension returns a title-cased label for a key.
// "store_type" → "Store Type"
func LabelForDimension(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

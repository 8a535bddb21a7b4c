package engine

import (
	"fmt"
)

// ============================================================================
// EXECUTOR: Panel dispatcher
// ============================================================================
// Entry point: Execute(spec, view, opts...)
//
// Pipeline:
//   1. Validate the panel against the view's keys
//   2. Apply filters → SubView
//   3. Sort by measure (stable, NaN last)
//   4. Truncate to Limit
//   5. Dispatch to builder (metric / table / bar)
//
// Zero data copy: the engine reads consumer data through RecordView.
// ============================================================================

// Execute runs a PanelSpec against a RecordView and returns a render-ready Result.
func Execute(spec PanelSpec, view RecordView, opts ...Option) (*Result, error) {
	if err := validatePanel(spec, view); err != nil {
		return nil, err
	}
	cfg := applyOptions(opts)

	// 1. Filters → SubView (zero-copy)
	filtered := ApplyFilters(view, spec.Filters)

	// 2. Ordering and truncation
	switch spec.SortBy {
	case SortValueDesc:
		filtered = SortByMeasure(filtered, spec.Measure, true)
	case SortValueAsc:
		filtered = SortByMeasure(filtered, spec.Measure, false)
	}
	filtered = Limit(filtered, spec.Limit)

	// 3. Dispatch to builder
	result := &Result{
		Type:  spec.Kind,
		Title: spec.Title,
		Count: filtered.Len(),
	}

	switch spec.Kind {
	case KindMetric:
		result.Metric = BuildMetric(spec, filtered, cfg)
	case KindTable:
		result.TableData = BuildTable(spec, filtered, cfg)
	case KindBar:
		result.ChartConfig = BuildChart(spec, filtered, cfg)
	}

	return result, nil
}

// ============================================================================
// VALIDATION
// ============================================================================

func validatePanel(spec PanelSpec, view RecordView) error {
	switch spec.Kind {
	case KindMetric, KindTable, KindBar:
	default:
		return fmt.Errorf("unknown panel kind %q", spec.Kind)
	}

	needsMeasure := spec.Kind != KindTable || spec.SortBy != SortNone
	if needsMeasure && !HasMeasure(view, spec.Measure) {
		return fmt.Errorf("panel %q: unknown measure %q", spec.Title, spec.Measure)
	}
	if spec.Kind == KindBar && !HasDimension(view, spec.Label) {
		return fmt.Errorf("panel %q: unknown label dimension %q", spec.Title, spec.Label)
	}
	for dim := range spec.Filters.Dimensions {
		if !HasDimension(view, dim) {
			return fmt.Errorf("panel %q: unknown filter dimension %q", spec.Title, dim)
		}
	}
	for _, key := range spec.Columns {
		if !HasDimension(view, key) && !HasMeasure(view, key) {
			return fmt.Errorf("panel %q: unknown column %q", spec.Title, key)
		}
	}
	switch spec.SortBy {
	case SortNone, SortValueDesc, SortValueAsc:
	default:
		return fmt.Errorf("panel %q: unknown sort %q", spec.Title, spec.SortBy)
	}
	return nil
}

package engine

import "math"

// BuildMetric averages the panel measure over view.
// An empty or all-NaN view produces an invalid metric shown as "—".
func BuildMetric(spec PanelSpec, view RecordView, cfg *config) *Metric {
	value := AvgMeasure(view, spec.Measure)
	m := &Metric{
		Label: spec.Title,
		Value: cfg.format(value, spec.Style),
		Count: view.Len(),
	}
	if m.Label == "" {
		m.Label = cfg.label(spec.Measure)
	}
	if !math.IsNaN(value) {
		m.RawValue = value
		m.Valid = true
	}
	return m
}

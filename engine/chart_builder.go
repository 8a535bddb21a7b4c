package engine

import "math"

// ============================================================================
// CHART BUILDER: Produces ChartConfig from a ranked view
// ============================================================================
// One point per row: the label dimension against the measure, in view order.
// Rows without a measure value are not plotted.
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// BuildChart produces a bar ChartConfig from an already filtered, sorted and
// truncated view. An empty view yields a config with an empty series.
func BuildChart(spec PanelSpec, view RecordView, cfg *config) *ChartConfig {
	chart := &ChartConfig{
		ChartType:  KindBar,
		Title:      spec.Title,
		XAxis:      cfg.label(spec.Label),
		YAxis:      cfg.label(spec.Measure),
		ShowLegend: false,
		ShowGrid:   true,
	}

	chart.Series = buildSingleSeries(view, spec.Label, spec.Measure, chart.YAxis)
	chart.Colors = assignColors(len(chart.Series))
	for i := range chart.Series {
		chart.Series[i].Color = chart.Colors[i]
	}
	return chart
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

func buildSingleSeries(view RecordView, label, measure, seriesName string) []ChartSeries {
	if seriesName == "" {
		seriesName = "Value"
	}

	points := make([]ChartPoint, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		v := view.Measure(i, measure)
		if math.IsNaN(v) {
			continue
		}
		points = append(points, ChartPoint{
			Label: view.Dimension(i, label),
			Value: RoundTo2(v),
		})
	}

	return []ChartSeries{{
		Name: seriesName,
		Data: points,
	}}
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}

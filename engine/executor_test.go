package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteMetric(t *testing.T) {
	spec := PanelSpec{
		Kind:    KindMetric,
		Title:   "Avg Sales",
		Measure: "avg_sales",
		Style:   StyleCurrency,
		Filters: NewFilters().With("dept", []string{"1"}),
	}

	result, err := Execute(spec, fixtureView())
	require.NoError(t, err)
	require.NotNil(t, result.Metric)
	assert.Equal(t, KindMetric, result.Type)
	assert.Equal(t, "$1,250", result.Metric.Value)
	assert.True(t, result.Metric.Valid)
	assert.Equal(t, 2, result.Metric.Count)
}

func TestExecuteMetricEmpty(t *testing.T) {
	spec := PanelSpec{
		Kind:    KindMetric,
		Measure: "priority_score",
		Style:   StyleDecimal,
		Filters: NewFilters().With("dept", []string{}),
	}

	result, err := Execute(spec, fixtureView())
	require.NoError(t, err)
	assert.Equal(t, Placeholder, result.Metric.Value)
	assert.False(t, result.Metric.Valid)
	assert.Equal(t, 0.0, result.Metric.RawValue)
	assert.Equal(t, "Priority Score", result.Metric.Label)
}

func TestExecuteTable(t *testing.T) {
	spec := PanelSpec{
		Kind:    KindTable,
		Title:   "Top",
		Measure: "priority_score",
		Columns: []string{"store", "dept", "avg_sales", "priority_score"},
		SortBy:  SortValueDesc,
		Limit:   3,
	}

	result, err := Execute(spec, fixtureView(),
		WithColumnStyle("avg_sales", StyleCurrency),
		WithColumnStyle("priority_score", StyleDecimal),
		WithLabels(map[string]string{"dept": "Department"}),
	)
	require.NoError(t, err)
	require.NotNil(t, result.TableData)

	table := result.TableData
	assert.Equal(t, []string{"Store", "Department", "Avg Sales", "Priority Score"}, table.Headers())
	assert.Equal(t, "currency", table.Columns[2].Type)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"1", "2", "$2,000", "0.90"}, table.Rows[0])
	assert.Equal(t, []string{"3", "2", Placeholder, "0.70"}, table.Rows[1])
	assert.Equal(t, "3 rows", table.Summary.Label)
}

func TestExecuteBar(t *testing.T) {
	spec := PanelSpec{
		Kind:    KindBar,
		Title:   "Sales by dept",
		Measure: "avg_sales",
		Label:   "dept",
		SortBy:  SortValueDesc,
		Limit:   2,
	}

	result, err := Execute(spec, fixtureView())
	require.NoError(t, err)
	require.NotNil(t, result.ChartConfig)

	points := result.ChartConfig.Points()
	require.Len(t, points, 2)
	assert.Equal(t, ChartPoint{Label: "2", Value: 2000}, points[0])
	assert.Equal(t, ChartPoint{Label: "1", Value: 1500}, points[1])
	assert.Equal(t, "Dept", result.ChartConfig.XAxis)
	assert.Len(t, result.ChartConfig.Colors, 1)
}

func TestExecuteBarSkipsNaN(t *testing.T) {
	spec := PanelSpec{Kind: KindBar, Measure: "avg_sales", Label: "store"}

	result, err := Execute(spec, fixtureView())
	require.NoError(t, err)
	assert.Len(t, result.ChartConfig.Points(), 4)
	assert.Equal(t, 5, result.Count)
}

func TestExecuteErrors(t *testing.T) {
	view := fixtureView()

	tests := []struct {
		name string
		spec PanelSpec
	}{
		{"unknown kind", PanelSpec{Kind: "pie", Measure: "avg_sales"}},
		{"unknown measure", PanelSpec{Kind: KindMetric, Measure: "lift"}},
		{"unknown label", PanelSpec{Kind: KindBar, Measure: "avg_sales", Label: "region"}},
		{"unknown filter", PanelSpec{Kind: KindMetric, Measure: "avg_sales", Filters: NewFilters().With("type", []string{"A"})}},
		{"unknown column", PanelSpec{Kind: KindTable, Columns: []string{"store", "region"}}},
		{"unknown sort", PanelSpec{Kind: KindTable, Measure: "avg_sales", SortBy: "label_asc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Execute(tt.spec, view)
			assert.Error(t, err)
		})
	}
}

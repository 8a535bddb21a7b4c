package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// row is the fixture record used across the engine tests.
type row struct {
	Store string
	Dept  string
	Sales float64
	Score float64
}

var rowAdapter = NewDomainAdapter[row]().
	Dimension("store", func(r row) string { return r.Store }).
	Dimension("dept", func(r row) string { return r.Dept }).
	Measure("avg_sales", func(r row) float64 { return r.Sales }).
	Measure("priority_score", func(r row) float64 { return r.Score })

func fixtureView() RecordView {
	return rowAdapter.Bind([]row{
		{Store: "1", Dept: "1", Sales: 1000, Score: 0.5},
		{Store: "1", Dept: "2", Sales: 2000, Score: 0.9},
		{Store: "2", Dept: "1", Sales: 1500, Score: math.NaN()},
		{Store: "2", Dept: "10", Sales: 500, Score: 0.1},
		{Store: "3", Dept: "2", Sales: math.NaN(), Score: 0.7},
	})
}

func TestDomainView(t *testing.T) {
	view := fixtureView()

	assert.Equal(t, 5, view.Len())
	assert.Equal(t, []string{"store", "dept"}, view.DimensionKeys())
	assert.Equal(t, []string{"avg_sales", "priority_score"}, view.MeasureKeys())
	assert.Equal(t, "2", view.Dimension(1, "dept"))
	assert.Equal(t, 2000.0, view.Measure(1, "avg_sales"))

	assert.Equal(t, "", view.Dimension(99, "dept"))
	assert.Equal(t, "", view.Dimension(0, "missing"))
	assert.Equal(t, 0.0, view.Measure(-1, "avg_sales"))

	assert.True(t, HasMeasure(view, "priority_score"))
	assert.False(t, HasMeasure(view, "store"))
	assert.True(t, HasDimension(view, "store"))
}

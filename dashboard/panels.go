package dashboard

import (
	"github.com/spektr-org/promodash/engine"
	"github.com/spektr-org/promodash/schema"
)

// Panel names, used as metric labels and chart identifiers.
const (
	PanelAvgSales       = "avg_sales"
	PanelAvgMarkdown    = "avg_markdown"
	PanelAvgPriority    = "avg_priority_score"
	PanelRanking        = "priority_ranking"
	PanelTypeEfficiency = "type_efficiency"
	PanelDeptEfficiency = "dept_efficiency"
)

type panel struct {
	name   string
	spec   engine.PanelSpec
	labels map[string]string
}

// labels maps every key of cfg to its display name.
func labels(cfg schema.Config) map[string]string {
	out := make(map[string]string, len(cfg.Columns))
	for _, key := range cfg.Keys() {
		out[key] = cfg.DisplayName(key)
	}
	return out
}

func priorityFilters(sel Selection) engine.Filters {
	return engine.NewFilters().With(schema.KeyDept, sel.Departments)
}

func typeFilters(sel Selection) engine.Filters {
	return engine.NewFilters().With(schema.KeyStoreType, sel.StoreTypes)
}

func kpiPanels(sel Selection) []panel {
	f := priorityFilters(sel)
	l := labels(schema.Priority)
	return []panel{
		{PanelAvgSales, engine.PanelSpec{
			Kind: engine.KindMetric, Title: "Average Sales", Filters: f,
			Measure: schema.KeyAvgSales, Style: engine.StyleCurrency,
		}, l},
		{PanelAvgMarkdown, engine.PanelSpec{
			Kind: engine.KindMetric, Title: "Average Markdown", Filters: f,
			Measure: schema.KeyAvgMarkdown, Style: engine.StyleCurrency,
		}, l},
		{PanelAvgPriority, engine.PanelSpec{
			Kind: engine.KindMetric, Title: "Average Priority Score", Filters: f,
			Measure: schema.KeyPriorityScore, Style: engine.StyleDecimal,
		}, l},
	}
}

func rankingPanel(sel Selection, limit int) panel {
	return panel{PanelRanking, engine.PanelSpec{
		Kind:    engine.KindTable,
		Title:   "Priority Ranking (Store × Department)",
		Filters: priorityFilters(sel),
		Measure: schema.KeyPriorityScore,
		Columns: schema.Priority.Keys(),
		SortBy:  engine.SortValueDesc,
		Limit:   limit,
	}, labels(schema.Priority)}
}

func typeChartPanel(sel Selection) panel {
	return panel{PanelTypeEfficiency, engine.PanelSpec{
		Kind:    engine.KindBar,
		Title:   "Promotional Efficiency by Store Type",
		Filters: typeFilters(sel),
		Measure: schema.KeyPromoEfficiency,
		Label:   schema.KeyStoreType,
	}, labels(schema.TypeEfficiency)}
}

// deptChartPanel ignores the department selection.
func deptChartPanel(limit int) panel {
	return panel{PanelDeptEfficiency, engine.PanelSpec{
		Kind:    engine.KindBar,
		Title:   "Departments with Highest Promotional Return",
		Measure: schema.KeyPromoEfficiency,
		Label:   schema.KeyDept,
		SortBy:  engine.SortValueDesc,
		Limit:   limit,
	}, labels(schema.DeptEfficiency)}
}

// Package dashboard assembles the promotional priority dashboard: KPI cards,
// the priority ranking and the two promotional efficiency charts.
package dashboard

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spektr-org/promodash/dataset"
	"github.com/spektr-org/promodash/engine"
	"github.com/spektr-org/promodash/schema"
)

// Selection is the user's filter choice. A nil slice selects every value;
// an empty non-nil slice selects nothing.
type Selection struct {
	StoreTypes  []string `json:"store_types"`
	Departments []string `json:"departments"`
}

// All selects every store type and department.
func All() Selection { return Selection{} }

// Recorder observes panel renders. Implemented by the metrics package.
type Recorder interface {
	ObservePanelRender(panel string, duration time.Duration)
}

// Options tunes the dashboard.
type Options struct {
	RankingLimit   int    // rows in the priority ranking
	DeptChartLimit int    // bars in the department chart
	CurrencySymbol string // prefix for money KPIs and ranking cells
	Recorder       Recorder
}

// DefaultOptions returns the stock dashboard settings.
func DefaultOptions() Options {
	return Options{
		RankingLimit:   20,
		DeptChartLimit: 15,
		CurrencySymbol: "$",
	}
}

// FilterOptions lists the values a user can select.
type FilterOptions struct {
	StoreTypes  []string `json:"store_types"`
	Departments []string `json:"departments"`
}

// View is one rendered dashboard.
type View struct {
	Selection      Selection           `json:"selection"`
	KPIs           []*engine.Metric    `json:"kpis"`
	Ranking        *engine.TableData   `json:"ranking"`
	TypeEfficiency *engine.ChartConfig `json:"type_efficiency"`
	DeptEfficiency *engine.ChartConfig `json:"dept_efficiency"`
}

// Dashboard renders views over a dataset source.
type Dashboard struct {
	source dataset.Source
	opts   Options
	logger *zap.Logger
}

// New creates a dashboard. Zero-valued options fall back to DefaultOptions.
func New(source dataset.Source, opts Options, logger *zap.Logger) *Dashboard {
	def := DefaultOptions()
	if opts.RankingLimit <= 0 {
		opts.RankingLimit = def.RankingLimit
	}
	if opts.DeptChartLimit <= 0 {
		opts.DeptChartLimit = def.DeptChartLimit
	}
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = def.CurrencySymbol
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{source: source, opts: opts, logger: logger}
}

// FilterOptions returns the sorted distinct store types and departments.
// Store types come from the type dataset, departments from the priority one.
func (d *Dashboard) FilterOptions() (*FilterOptions, error) {
	data, err := d.source.Load()
	if err != nil {
		return nil, err
	}
	return &FilterOptions{
		StoreTypes:  engine.UniqueValues(data.TypeEfficiencyView(), schema.KeyStoreType),
		Departments: engine.UniqueValues(data.PriorityView(), schema.KeyDept),
	}, nil
}

// Render computes every panel for sel.
func (d *Dashboard) Render(sel Selection) (*View, error) {
	data, err := d.source.Load()
	if err != nil {
		return nil, err
	}

	priority := data.PriorityView()
	typeView := data.TypeEfficiencyView()
	view := &View{Selection: sel}
	sel = expandAll(sel, priority, typeView)

	for _, p := range kpiPanels(sel) {
		res, err := d.execute(p, priority)
		if err != nil {
			return nil, err
		}
		view.KPIs = append(view.KPIs, res.Metric)
	}

	res, err := d.execute(rankingPanel(sel, d.opts.RankingLimit), priority,
		engine.WithColumnStyle(schema.KeyAvgSales, engine.StyleCurrency),
		engine.WithColumnStyle(schema.KeyTotalSales, engine.StyleCurrency),
		engine.WithColumnStyle(schema.KeyAvgMarkdown, engine.StyleCurrency),
		engine.WithColumnStyle(schema.KeyPriorityScore, engine.StyleDecimal),
	)
	if err != nil {
		return nil, err
	}
	view.Ranking = res.TableData

	res, err = d.execute(typeChartPanel(sel), typeView)
	if err != nil {
		return nil, err
	}
	view.TypeEfficiency = res.ChartConfig

	res, err = d.execute(deptChartPanel(d.opts.DeptChartLimit), data.DeptEfficiencyView())
	if err != nil {
		return nil, err
	}
	view.DeptEfficiency = res.ChartConfig

	d.logger.Debug("Dashboard rendered",
		zap.Int("ranking_rows", len(view.Ranking.Rows)),
		zap.Int("type_bars", len(view.TypeEfficiency.Points())),
		zap.Int("dept_bars", len(view.DeptEfficiency.Points())),
	)
	return view, nil
}

// expandAll replaces a nil (select all) choice with every non-empty value on
// offer, so rows without a store type or department stay out of the default
// view just as they stay out of the filter options.
func expandAll(sel Selection, priority, types engine.RecordView) Selection {
	if sel.StoreTypes == nil {
		sel.StoreTypes = append([]string{}, engine.UniqueValues(types, schema.KeyStoreType)...)
	}
	if sel.Departments == nil {
		sel.Departments = append([]string{}, engine.UniqueValues(priority, schema.KeyDept)...)
	}
	return sel
}

func (d *Dashboard) execute(p panel, view engine.RecordView, extra ...engine.Option) (*engine.Result, error) {
	start := time.Now()

	opts := append([]engine.Option{
		engine.WithCurrencySymbol(d.opts.CurrencySymbol),
		engine.WithLabels(p.labels),
	}, extra...)
	res, err := engine.Execute(p.spec, view, opts...)
	if err != nil {
		return nil, fmt.Errorf("panel %s: %w", p.name, err)
	}

	if d.opts.Recorder != nil {
		d.opts.Recorder.ObservePanelRender(p.name, time.Since(start))
	}
	return res, nil
}

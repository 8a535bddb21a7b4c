package dataset

import (
	"github.com/spektr-org/promodash/engine"
	"github.com/spektr-org/promodash/schema"
)

// ============================================================================
// RECORDS: Typed rows of the three dashboard datasets
// ============================================================================
// Missing or unparseable measures are NaN. Each record type has an adapter
// so the engine reads the slices in place.
// ============================================================================

// PriorityRecord is one store × department row.
type PriorityRecord struct {
	Store         string  `json:"store"`
	Dept          string  `json:"dept"`
	AvgSales      float64 `json:"avg_sales"`
	TotalSales    float64 `json:"total_sales"`
	AvgMarkdown   float64 `json:"avg_markdown"`
	PriorityScore float64 `json:"priority_score"`
}

// TypeEfficiencyRecord is one store type row.
type TypeEfficiencyRecord struct {
	StoreType       string  `json:"store_type"`
	PromoEfficiency float64 `json:"promo_efficiency"`
	Uplift          float64 `json:"uplift"`
}

// DeptEfficiencyRecord is one department row.
type DeptEfficiencyRecord struct {
	Dept            string  `json:"dept"`
	PromoEfficiency float64 `json:"promo_efficiency"`
	Uplift          float64 `json:"uplift"`
}

var priorityAdapter = engine.NewDomainAdapter[PriorityRecord]().
	Dimension(schema.KeyStore, func(r PriorityRecord) string { return r.Store }).
	Dimension(schema.KeyDept, func(r PriorityRecord) string { return r.Dept }).
	Measure(schema.KeyAvgSales, func(r PriorityRecord) float64 { return r.AvgSales }).
	Measure(schema.KeyTotalSales, func(r PriorityRecord) float64 { return r.TotalSales }).
	Measure(schema.KeyAvgMarkdown, func(r PriorityRecord) float64 { return r.AvgMarkdown }).
	Measure(schema.KeyPriorityScore, func(r PriorityRecord) float64 { return r.PriorityScore })

var typeEfficiencyAdapter = engine.NewDomainAdapter[TypeEfficiencyRecord]().
	Dimension(schema.KeyStoreType, func(r TypeEfficiencyRecord) string { return r.StoreType }).
	Measure(schema.KeyPromoEfficiency, func(r TypeEfficiencyRecord) float64 { return r.PromoEfficiency }).
	Measure(schema.KeyUplift, func(r TypeEfficiencyRecord) float64 { return r.Uplift })

var deptEfficiencyAdapter = engine.NewDomainAdapter[DeptEfficiencyRecord]().
	Dimension(schema.KeyDept, func(r DeptEfficiencyRecord) string { return r.Dept }).
	Measure(schema.KeyPromoEfficiency, func(r DeptEfficiencyRecord) float64 { return r.PromoEfficiency }).
	Measure(schema.KeyUplift, func(r DeptEfficiencyRecord) float64 { return r.Uplift })

// Data holds the three loaded datasets.
type Data struct {
	Priority       []PriorityRecord
	TypeEfficiency []TypeEfficiencyRecord
	DeptEfficiency []DeptEfficiencyRecord
}

// PriorityView exposes the priority rows to the engine.
func (d *Data) PriorityView() engine.RecordView {
	return priorityAdapter.Bind(d.Priority)
}

// TypeEfficiencyView exposes the store type rows to the engine.
func (d *Data) TypeEfficiencyView() engine.RecordView {
	return typeEfficiencyAdapter.Bind(d.TypeEfficiency)
}

// DeptEfficiencyView exposes the department rows to the engine.
func (d *Data) DeptEfficiencyView() engine.RecordView {
	return deptEfficiencyAdapter.Bind(d.DeptEfficiency)
}

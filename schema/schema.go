package schema

// ============================================================================
// SCHEMA: Describes the shape of each dashboard dataset
// ============================================================================
// The upstream pipeline writes its tables with whatever headers pandas produced
// (plain, MultiIndex tuples, mixed case). A Config pins each canonical field to
// a semantic keyword; the loader resolves keywords against the flattened
// headers and renames the matches to the canonical keys below.
// ============================================================================

// Canonical field keys shared by the loader, engine views and renderers.
const (
	KeyStore           = "store"
	KeyDept            = "dept"
	KeyAvgSales        = "avg_sales"
	KeyTotalSales      = "total_sales"
	KeyAvgMarkdown     = "avg_markdown"
	KeyPriorityScore   = "priority_score"
	KeyStoreType       = "store_type"
	KeyPromoEfficiency = "promo_efficiency"
	KeyUplift          = "uplift"
)

// Role tells the loader whether a column holds labels or numbers.
type Role string

const (
	RoleDimension Role = "dimension"
	RoleMeasure   Role = "measure"
)

// Config describes one dataset.
type Config struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Columns     []ColumnSpec `json:"columns"`
}

// ColumnSpec binds a canonical key to the keyword used to find its column.
type ColumnSpec struct {
	Key         string `json:"key"`
	Keyword     string `json:"keyword"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role"`
	Unit        string `json:"unit,omitempty"` // "currency", "score", "ratio"
}

// Priority is the store × department priority dataset.
var Priority = Config{
	Name:        "store_dept_priority",
	Description: "Promotional priority score per store and department",
	Columns: []ColumnSpec{
		{Key: KeyStore, Keyword: "store", DisplayName: "Store", Role: RoleDimension},
		{Key: KeyDept, Keyword: "dept", DisplayName: "Department", Role: RoleDimension},
		{Key: KeyAvgSales, Keyword: "avg_sales", DisplayName: "Average Sales", Role: RoleMeasure, Unit: "currency"},
		{Key: KeyTotalSales, Keyword: "total_sales", DisplayName: "Total Sales", Role: RoleMeasure, Unit: "currency"},
		{Key: KeyAvgMarkdown, Keyword: "markdown", DisplayName: "Average Markdown", Role: RoleMeasure, Unit: "currency"},
		{Key: KeyPriorityScore, Keyword: "priority", DisplayName: "Priority Score", Role: RoleMeasure, Unit: "score"},
	},
}

// TypeEfficiency is the promotional efficiency by store type dataset.
var TypeEfficiency = Config{
	Name:        "promo_efficiency_by_type",
	Description: "Promotional efficiency and uplift per store type",
	Columns: []ColumnSpec{
		{Key: KeyStoreType, Keyword: "type", DisplayName: "Store Type", Role: RoleDimension},
		{Key: KeyPromoEfficiency, Keyword: "promo_efficiency", DisplayName: "Promotional Efficiency", Role: RoleMeasure, Unit: "ratio"},
		{Key: KeyUplift, Keyword: "lift", DisplayName: "Uplift", Role: RoleMeasure, Unit: "ratio"},
	},
}

// DeptEfficiency is the promotional efficiency by department dataset.
var DeptEfficiency = Config{
	Name:        "promo_efficiency_by_dept",
	Description: "Promotional efficiency and uplift per department",
	Columns: []ColumnSpec{
		{Key: KeyDept, Keyword: "dept", DisplayName: "Department", Role: RoleDimension},
		{Key: KeyPromoEfficiency, Keyword: "promo_efficiency", DisplayName: "Promotional Efficiency", Role: RoleMeasure, Unit: "ratio"},
		{Key: KeyUplift, Keyword: "lift", DisplayName: "Uplift", Role: RoleMeasure, Unit: "ratio"},
	},
}

// Keys returns the canonical keys in declaration order.
func (c Config) Keys() []string {
	keys := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		keys[i] = col.Key
	}
	return keys
}

// DimensionKeys returns the keys of label columns.
func (c Config) DimensionKeys() []string {
	return c.keysWithRole(RoleDimension)
}

// MeasureKeys returns the keys of numeric columns.
func (c Config) MeasureKeys() []string {
	return c.keysWithRole(RoleMeasure)
}

// Column returns the spec for key.
func (c Config) Column(key string) (ColumnSpec, bool) {
	for _, col := range c.Columns {
		if col.Key == key {
			return col, true
		}
	}
	return ColumnSpec{}, false
}

// DisplayName returns the human label for key, falling back to a title-cased key.
func (c Config) DisplayName(key string) string {
	if col, ok := c.Column(key); ok && col.DisplayName != "" {
		return col.DisplayName
	}
	return ToDisplayName(key)
}

func (c Config) keysWithRole(role Role) []string {
	var keys []string
	for _, col := range c.Columns {
		if col.Role == role {
			keys = append(keys, col.Key)
		}
	}
	return keys
}

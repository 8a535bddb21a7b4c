package dataset

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spektr-org/promodash/schema"
)

// ============================================================================
// LOADER: Read, normalize and type the three datasets
// ============================================================================
// Per dataset:
//   1. ReadFile          → Table (raw headers, string cells)
//   2. FlattenColumns    → lowercase flat names
//   3. Resolve           → canonical key → source column (keyword match)
//   4. resolveFrame      → gota DataFrame projected and renamed to canonical keys
//   5. build*            → typed records, measures parsed as float64 (NaN if not)
// A missing column fails the whole load.
// ============================================================================

// Default file names under the data directory.
const (
	DefaultPriorityFile       = "store_dept_priority.parquet"
	DefaultTypeEfficiencyFile = "promo_efficiency_by_type.parquet"
	DefaultDeptEfficiencyFile = "promo_efficiency_by_dept.parquet"
)

// Paths locates the three input files.
type Paths struct {
	Priority       string
	TypeEfficiency string
	DeptEfficiency string
}

// DefaultPaths returns the default file locations under dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		Priority:       filepath.Join(dir, DefaultPriorityFile),
		TypeEfficiency: filepath.Join(dir, DefaultTypeEfficiencyFile),
		DeptEfficiency: filepath.Join(dir, DefaultDeptEfficiencyFile),
	}
}

// Recorder observes dataset loads. Implemented by the metrics package.
type Recorder interface {
	ObserveDatasetLoad(name string, rows int, duration time.Duration)
}

// Loader reads the dashboard datasets from disk.
type Loader struct {
	paths      Paths
	headerRows int
	recorder   Recorder
	logger     *zap.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHeaderRows sets the number of header levels in CSV inputs (default 1).
func WithHeaderRows(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.headerRows = n
		}
	}
}

// WithRecorder reports per-dataset row counts and load durations.
func WithRecorder(r Recorder) LoaderOption {
	return func(l *Loader) {
		l.recorder = r
	}
}

// WithLogger sets the loader's logger.
func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a loader for paths.
func NewLoader(paths Paths, opts ...LoaderOption) *Loader {
	l := &Loader{
		paths:      paths,
		headerRows: 1,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads all three datasets concurrently. The first failure wins.
func (l *Loader) Load() (*Data, error) {
	data := &Data{}
	var g errgroup.Group

	g.Go(func() error {
		df, err := l.loadFrame(l.paths.Priority, schema.Priority)
		if err != nil {
			return err
		}
		data.Priority = buildPriority(df)
		return nil
	})
	g.Go(func() error {
		df, err := l.loadFrame(l.paths.TypeEfficiency, schema.TypeEfficiency)
		if err != nil {
			return err
		}
		data.TypeEfficiency = buildTypeEfficiency(df)
		return nil
	})
	g.Go(func() error {
		df, err := l.loadFrame(l.paths.DeptEfficiency, schema.DeptEfficiency)
		if err != nil {
			return err
		}
		data.DeptEfficiency = buildDeptEfficiency(df)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.logger.Info("Datasets loaded",
		zap.Int("priority_rows", len(data.Priority)),
		zap.Int("type_rows", len(data.TypeEfficiency)),
		zap.Int("dept_rows", len(data.DeptEfficiency)),
	)
	return data, nil
}

func (l *Loader) loadFrame(path string, cfg schema.Config) (dataframe.DataFrame, error) {
	start := time.Now()

	t, err := ReadFile(path, l.headerRows)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("load %s: %w", cfg.Name, err)
	}
	df, err := resolveFrame(t, cfg)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("load %s from %s: %w", cfg.Name, path, err)
	}

	elapsed := time.Since(start)
	if l.recorder != nil {
		l.recorder.ObserveDatasetLoad(cfg.Name, df.Nrow(), elapsed)
	}
	l.logger.Debug("Dataset resolved",
		zap.String("dataset", cfg.Name),
		zap.String("path", path),
		zap.Strings("columns", t.Columns()),
		zap.Int("rows", df.Nrow()),
		zap.Duration("duration", elapsed),
	)
	return df, nil
}

// resolveFrame projects t onto cfg's canonical columns. The returned frame has
// exactly cfg.Keys() as column names, all typed as strings.
func resolveFrame(t *Table, cfg schema.Config) (dataframe.DataFrame, error) {
	columns := t.Columns()
	mapping, err := schema.Resolve(columns, cfg)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if len(columns) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("%s: no columns", cfg.Name)
	}

	all := make([]series.Series, len(columns))
	for i, name := range columns {
		cells := make([]string, len(t.Rows))
		for r, row := range t.Rows {
			if i < len(row) {
				cells[r] = row[i]
			}
		}
		all[i] = series.New(cells, series.String, name)
	}
	df := dataframe.New(all...)

	keys := cfg.Keys()
	idx := make([]int, len(keys))
	for k, key := range keys {
		idx[k] = indexOf(columns, mapping[key])
	}
	df = df.Select(idx)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%s: %w", cfg.Name, df.Err)
	}
	if err := df.SetNames(keys...); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%s: %w", cfg.Name, err)
	}
	return df, nil
}

func indexOf(items []string, s string) int {
	for i, item := range items {
		if item == s {
			return i
		}
	}
	return -1
}

// ============================================================================
// RECORD BUILDERS
// ============================================================================

func buildPriority(df dataframe.DataFrame) []PriorityRecord {
	stores := dimension(df, schema.KeyStore)
	depts := dimension(df, schema.KeyDept)
	avgSales := df.Col(schema.KeyAvgSales).Float()
	totalSales := df.Col(schema.KeyTotalSales).Float()
	markdown := df.Col(schema.KeyAvgMarkdown).Float()
	score := df.Col(schema.KeyPriorityScore).Float()

	out := make([]PriorityRecord, df.Nrow())
	for i := range out {
		out[i] = PriorityRecord{
			Store:         stores[i],
			Dept:          depts[i],
			AvgSales:      avgSales[i],
			TotalSales:    totalSales[i],
			AvgMarkdown:   markdown[i],
			PriorityScore: score[i],
		}
	}
	return out
}

func buildTypeEfficiency(df dataframe.DataFrame) []TypeEfficiencyRecord {
	types := dimension(df, schema.KeyStoreType)
	eff := df.Col(schema.KeyPromoEfficiency).Float()
	uplift := df.Col(schema.KeyUplift).Float()

	out := make([]TypeEfficiencyRecord, df.Nrow())
	for i := range out {
		out[i] = TypeEfficiencyRecord{StoreType: types[i], PromoEfficiency: eff[i], Uplift: uplift[i]}
	}
	return out
}

func buildDeptEfficiency(df dataframe.DataFrame) []DeptEfficiencyRecord {
	depts := dimension(df, schema.KeyDept)
	eff := df.Col(schema.KeyPromoEfficiency).Float()
	uplift := df.Col(schema.KeyUplift).Float()

	out := make([]DeptEfficiencyRecord, df.Nrow())
	for i := range out {
		out[i] = DeptEfficiencyRecord{Dept: depts[i], PromoEfficiency: eff[i], Uplift: uplift[i]}
	}
	return out
}

// dimension returns a label column with missing values as "".
func dimension(df dataframe.DataFrame, key string) []string {
	col := df.Col(key)
	values := col.Records()
	for i := range values {
		if col.Elem(i).IsNA() {
			values[i] = ""
		}
	}
	return values
}

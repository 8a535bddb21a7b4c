package render

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"io"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/promodash/engine"
)

// ============================================================================
// BAR CHART: engine.ChartConfig → SVG via go-chart
// ============================================================================

// ChartSize is the canvas of a rendered chart. Width grows when the bars
// would not fit.
type ChartSize struct {
	Width    int
	Height   int
	BarWidth int
}

// DefaultChartSize fits a dashboard column.
var DefaultChartSize = ChartSize{Width: 640, Height: 360, BarWidth: 32}

const (
	barSpacing   = 12
	chartPadding = 80
)

// BarChartSVG writes the first series of cfg as an SVG bar chart. A chart
// with no points renders a labelled empty canvas.
func BarChartSVG(w io.Writer, cfg *engine.ChartConfig, size ChartSize) error {
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultChartSize
	}
	if size.BarWidth <= 0 {
		size.BarWidth = DefaultChartSize.BarWidth
	}

	points := cfg.Points()
	if len(points) == 0 {
		return emptyChartSVG(w, cfg, size)
	}

	fill := drawing.ColorFromHex("4F46E5")
	if len(cfg.Colors) > 0 {
		fill = drawing.ColorFromHex(strings.TrimPrefix(cfg.Colors[0], "#"))
	}

	bars := make([]chart.Value, len(points))
	lo, hi := 0.0, 0.0
	for i, p := range points {
		bars[i] = chart.Value{
			Label: p.Label,
			Value: p.Value,
			Style: chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 1},
		}
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	if hi == lo {
		hi = lo + 1
	}

	width := size.Width
	if need := len(bars)*(size.BarWidth+barSpacing) + chartPadding; need > width {
		width = need
	}

	graph := chart.BarChart{
		Title:      cfg.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		Width:      width,
		Height:     size.Height,
		BarWidth:   size.BarWidth,
		BarSpacing: barSpacing,
		Bars:       bars,
		YAxis: chart.YAxis{
			Name:  cfg.YAxis,
			Range: &chart.ContinuousRange{Min: lo, Max: hi * 1.1},
		},
	}
	if err := graph.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render chart %q: %w", cfg.Title, err)
	}
	return nil
}

// ChartHTML renders cfg for inline use in the dashboard page.
func ChartHTML(cfg *engine.ChartConfig, size ChartSize) (template.HTML, error) {
	var buf bytes.Buffer
	if err := BarChartSVG(&buf, cfg, size); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func emptyChartSVG(w io.Writer, cfg *engine.ChartConfig, size ChartSize) error {
	title := ""
	if cfg != nil {
		title = cfg.Title
	}
	_, err := fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+
			`<text x="%d" y="24" text-anchor="middle" font-family="sans-serif" font-size="14">%s</text>`+
			`<text x="%d" y="%d" text-anchor="middle" font-family="sans-serif" font-size="12" fill="#888">No data for the current selection</text>`+
			`</svg>`,
		size.Width, size.Height,
		size.Width/2, html.EscapeString(title),
		size.Width/2, size.Height/2,
	)
	return err
}

package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/spektr-org/promodash/dashboard"
)

//go:embed templates/dashboard.html
var dashboardHTML string

var pageTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"selected": selected,
}).Parse(dashboardHTML))

// RankingCSVPath serves the ranking download.
const RankingCSVPath = "/api/v1/ranking.csv"

// PageData feeds the dashboard template.
type PageData struct {
	Title     string
	View      *dashboard.View
	Options   *dashboard.FilterOptions
	Query     url.Values // selection of the current request, carried into links
	TypeChart template.HTML
	DeptChart template.HTML
}

// RankingCSVURL links the ranking download with the current selection.
func (d *PageData) RankingCSVURL() template.URL {
	if len(d.Query) == 0 {
		return template.URL(RankingCSVPath)
	}
	return template.URL(RankingCSVPath + "?" + d.Query.Encode())
}

// NewPageData renders both charts of view at size.
func NewPageData(title string, view *dashboard.View, opts *dashboard.FilterOptions, size ChartSize) (*PageData, error) {
	typeChart, err := ChartHTML(view.TypeEfficiency, size)
	if err != nil {
		return nil, err
	}
	deptChart, err := ChartHTML(view.DeptEfficiency, size)
	if err != nil {
		return nil, err
	}
	return &PageData{
		Title:     title,
		View:      view,
		Options:   opts,
		TypeChart: typeChart,
		DeptChart: deptChart,
	}, nil
}

// Page writes the full dashboard HTML.
func Page(w io.Writer, data *PageData) error {
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// selected reports whether v is part of a selection; nil selects everything.
func selected(selection []string, v string) bool {
	if selection == nil {
		return true
	}
	for _, s := range selection {
		if s == v {
			return true
		}
	}
	return false
}

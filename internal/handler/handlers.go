// Package handler provides the dashboard HTTP handlers.
package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/spektr-org/promodash/dashboard"
	"github.com/spektr-org/promodash/engine"
	"github.com/spektr-org/promodash/internal/apierrors"
	"github.com/spektr-org/promodash/render"
)

// Chart names accepted by ChartSVG.
const (
	ChartTypeEfficiency = "type-efficiency"
	ChartDeptEfficiency = "dept-efficiency"
)

// Query parameters carrying the selection.
const (
	ParamStoreType  = "type"
	ParamDepartment = "dept"
)

// Settings holds presentation settings that are not part of the view.
type Settings struct {
	Title     string
	ChartSize render.ChartSize
}

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	dashboard    *dashboard.Dashboard
	errorHandler *apierrors.Handler
	logger       *zap.Logger
	settings     Settings
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	dash *dashboard.Dashboard,
	errorHandler *apierrors.Handler,
	logger *zap.Logger,
	settings Settings,
) *Handlers {
	if settings.ChartSize.Width <= 0 || settings.ChartSize.Height <= 0 {
		settings.ChartSize = render.DefaultChartSize
	}
	return &Handlers{
		dashboard:    dash,
		errorHandler: errorHandler,
		logger:       logger,
		settings:     settings,
	}
}

// Index handles GET / and renders the HTML dashboard.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	sel := ParseSelection(r)

	view, err := h.dashboard.Render(sel)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	opts, err := h.dashboard.FilterOptions()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	data, err := render.NewPageData(h.settings.Title, view, opts, h.settings.ChartSize)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	data.Query = selectionQuery(r)

	var buf bytes.Buffer
	if err := render.Page(&buf, data); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// DashboardJSON handles GET /api/v1/dashboard.
func (h *Handlers) DashboardJSON(w http.ResponseWriter, r *http.Request) {
	view, err := h.dashboard.Render(ParseSelection(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, view)
}

// FilterOptions handles GET /api/v1/filters.
func (h *Handlers) FilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.dashboard.FilterOptions()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, opts)
}

// ChartSVG handles GET /api/v1/charts/{chart}.svg.
func (h *Handlers) ChartSVG(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["chart"]

	view, err := h.dashboard.Render(ParseSelection(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var chart *engine.ChartConfig
	switch name {
	case ChartTypeEfficiency:
		chart = view.TypeEfficiency
	case ChartDeptEfficiency:
		chart = view.DeptEfficiency
	default:
		h.errorHandler.HandleError(w, r, fmt.Errorf("chart %q: %w", name, apierrors.ErrNotFound))
		return
	}

	var buf bytes.Buffer
	if err := render.BarChartSVG(&buf, chart, h.settings.ChartSize); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// RankingCSV handles GET /api/v1/ranking.csv.
func (h *Handlers) RankingCSV(w http.ResponseWriter, r *http.Request) {
	view, err := h.dashboard.Render(ParseSelection(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := render.WriteTableCSV(&buf, view.Ranking); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="priority_ranking.csv"`)
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// ParseSelection reads the store type and department selection from the
// query string. An absent parameter selects everything; a present one selects
// its non-empty values, so "?dept=" selects nothing.
func ParseSelection(r *http.Request) dashboard.Selection {
	q := r.URL.Query()
	return dashboard.Selection{
		StoreTypes:  selectionValues(q, ParamStoreType),
		Departments: selectionValues(q, ParamDepartment),
	}
}

// selectionQuery keeps only the selection parameters of r, as sent.
func selectionQuery(r *http.Request) url.Values {
	q := r.URL.Query()
	out := url.Values{}
	for _, key := range []string{ParamStoreType, ParamDepartment} {
		if vals, ok := q[key]; ok {
			out[key] = vals
		}
	}
	return out
}

func selectionValues(q url.Values, key string) []string {
	raw, ok := q[key]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// writeJSONResponse writes a JSON response.
func (h *Handlers) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	var buf bytes.Buffer
	if err := render.WriteJSON(&buf, data, false); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
		h.errorHandler.WriteInternalError(w, "failed to encode response", "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	buf.WriteTo(w)
}

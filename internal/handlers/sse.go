package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"fashion-dashboard/internal/insights"
	"fashion-dashboard/internal/models"
	"fashion-dashboard/internal/observability"
	"fashion-dashboard/internal/services"
	"fashion-dashboard/internal/ui/templates"
)

type SSEHandlers struct {
	reporter
	generator *insights.Generator
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, generator *insights.Generator, metrics *observability.Metrics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		reporter:  reporter{analytics: analytics, metrics: metrics},
		generator: generator,
		logger:    logger,
	}
}

// filterSignals mirrors spec back to the client so the controls show the
// resolved selection.
func filterSignals(spec models.FilterSpec, extra map[string]any) ([]byte, error) {
	signals := map[string]any{
		"marketingGroup":     spec.MarketingGroup,
		"classifiedCategory": spec.ClassifiedCategory,
		"months":             nonNil(spec.Months),
		"categories":         nonNil(spec.Categories),
	}
	for k, v := range extra {
		signals[k] = v
	}
	return json.Marshal(signals)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (h *SSEHandlers) patch(r *http.Request, sse *datastar.ServerSentEventGenerator, c templ.Component) bool {
	html, err := templates.String(r.Context(), c)
	if err != nil {
		h.logger.Error("render fragment", "error", err)
		return false
	}
	if err := sse.PatchElements(html); err != nil {
		observability.RequestLogger(r.Context(), h.logger).Debug("patch elements", "error", err)
		return false
	}
	return true
}

func (h *SSEHandlers) patchFilters(r *http.Request, sse *datastar.ServerSentEventGenerator, spec models.FilterSpec, refresh string, extra map[string]any) bool {
	panel := templates.FilterPanel(templates.FilterPanelView{
		Options: h.analytics.Options(spec),
		Filter:  spec,
		Refresh: refresh,
	})
	if !h.patch(r, sse, panel) {
		return false
	}

	signals, err := filterSignals(spec, extra)
	if err != nil {
		h.logger.Error("marshal filter signals", "error", err)
		return false
	}
	if err := sse.PatchSignals(signals); err != nil {
		observability.RequestLogger(r.Context(), h.logger).Debug("patch signals", "error", err)
		return false
	}
	return true
}

// HandleFilters re-renders the filter panel after a control changed on the
// insights page.
func (h *SSEHandlers) HandleFilters(w http.ResponseWriter, r *http.Request) {
	spec, err := h.resolve(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sse := datastar.NewSSE(w, r)
	h.patchFilters(r, sse, spec, "/sse/filters", nil)
}

// HandleDashboard recomputes every dashboard section for the client's
// filter and pushes the panel, the tables and the chart data.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	spec, err := h.resolve(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report := h.report(spec)

	sse := datastar.NewSSE(w, r)

	if !h.patch(r, sse, templates.Report(report)) {
		return
	}

	var trend any
	if !report.MonthlySales.Empty() {
		trend = report.MonthlySales
	}
	var sellThrough any
	if len(report.SellThroughPivot.Rows) > 0 {
		sellThrough = report.SellThroughPivot
	}

	h.patchFilters(r, sse, spec, "/sse/dashboard", map[string]any{
		"trendData":       trend,
		"sellThroughData": sellThrough,
	})
}

// HandleInsights streams one patch per question as each answer arrives.
func (h *SSEHandlers) HandleInsights(w http.ResponseWriter, r *http.Request) {
	spec, err := h.resolve(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	clearWriteDeadline(w, h.logger)

	view := h.analytics.View(spec)
	sse := datastar.NewSSE(w, r)

	if !h.patch(r, sse, templates.InsightList(h.generator.Questions())) {
		return
	}

	logger := observability.RequestLogger(r.Context(), h.logger)
	start := time.Now()

	results := h.generator.Generate(r.Context(), view, func(i int, res insights.Result) {
		if r.Context().Err() != nil {
			return
		}
		h.patch(r, sse, templates.Insight(i, res))
	})

	failed := 0
	for _, res := range results {
		if res.Status == insights.StatusFailed {
			failed++
		}
	}
	logger.Info("insights streamed",
		"records", len(view),
		"questions", len(results),
		"failed", failed,
		"duration", time.Since(start),
	)
}
